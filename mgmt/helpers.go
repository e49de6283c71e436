/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
	"github.com/pelletier/go-toml"
)

// ControlParameters are the arguments of a control command, carried TOML-encoded in the name
// component following the verb.
type ControlParameters struct {
	Name     string `toml:"name,omitempty"`
	FaceID   uint64 `toml:"face_id,omitempty"`
	Cost     uint64 `toml:"cost,omitempty"`
	Strategy string `toml:"strategy,omitempty"`
}

// ControlResponse is the reply to a control command.
type ControlResponse struct {
	StatusCode int               `toml:"status_code"`
	StatusText string            `toml:"status_text"`
	Parameters ControlParameters `toml:"parameters"`
}

func makeControlResponse(statusCode int, statusText string, params *ControlParameters) *ControlResponse {
	response := &ControlResponse{StatusCode: statusCode, StatusText: statusText}
	if params != nil {
		response.Parameters = *params
	}
	return response
}

// MakeCommandInterest creates the Interest of a control command addressed to the local forwarder.
func MakeCommandInterest(module string, verb string, params *ControlParameters) (*ndn.Interest, error) {
	name := ndn.MustNameFromString(managementPrefix).Append(
		ndn.NewGenericComponent([]byte(module)),
		ndn.NewGenericComponent([]byte(verb)))
	if params != nil {
		encoded, err := toml.Marshal(params)
		if err != nil {
			return nil, err
		}
		name = name.Append(ndn.NewGenericComponent(encoded))
	}
	return ndn.NewInterest(name), nil
}

func decodeControlParameters(m Module, interest *ndn.Interest) *ControlParameters {
	index := m.getManager().prefixLength() + 2
	if len(interest.Name()) <= index {
		core.LogWarn(m, "Missing ControlParameters in ", interest.Name())
		return nil
	}

	params := new(ControlParameters)
	if err := toml.Unmarshal(interest.Name().At(index).Val, params); err != nil {
		core.LogWarn(m, "Could not decode ControlParameters in ", interest.Name(), ": ", err)
		return nil
	}
	return params
}

// decodeName parses the Name parameter of a command, which must be present.
func decodeName(m Module, params *ControlParameters) (ndn.Name, bool) {
	if params.Name == "" {
		core.LogWarn(m, "Missing Name in ControlParameters")
		return nil, false
	}
	name, err := ndn.NameFromString(params.Name)
	if err != nil {
		core.LogWarn(m, "Invalid Name=", params.Name, " in ControlParameters: ", err)
		return nil, false
	}
	return name, true
}
