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
)

// FaceRecord describes a face in the face dataset.
type FaceRecord struct {
	FaceID      uint64 `toml:"face_id"`
	Scope       string `toml:"scope"`
	Description string `toml:"description"`
}

// FaceDataset lists the faces of the forwarder.
type FaceDataset struct {
	Faces []FaceRecord `toml:"faces"`
}

// FaceModule is the module that handles for Face Management.
type FaceModule struct {
	manager *Manager
}

func (f *FaceModule) String() string {
	return "FaceMgmt"
}

func (f *FaceModule) registerManager(manager *Manager) {
	f.manager = manager
}

func (f *FaceModule) getManager() *Manager {
	return f.manager
}

func (f *FaceModule) handleIncomingInterest(interest *ndn.Interest, verb string) interface{} {
	switch verb {
	case "destroy":
		return f.destroy(interest)
	case "list":
		return f.list()
	default:
		core.LogWarn(f, "Received Interest for non-existent verb '", verb, "'")
		return makeControlResponse(501, "Unknown verb", nil)
	}
}

func (f *FaceModule) destroy(interest *ndn.Interest) *ControlResponse {
	params := decodeControlParameters(f, interest)
	if params == nil {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	if params.FaceID == f.manager.FaceID() {
		core.LogWarn(f, "Refusing to destroy the management face")
		return makeControlResponse(403, "Cannot destroy management face", nil)
	}

	// Destroying a face that does not exist succeeds
	if f.manager.forwarder.FaceTable().Remove(params.FaceID) {
		core.LogInfo(f, "Destroyed FaceID=", params.FaceID)
	}
	return makeControlResponse(200, "OK", &ControlParameters{FaceID: params.FaceID})
}

func (f *FaceModule) list() *FaceDataset {
	dataset := new(FaceDataset)
	for _, face := range f.manager.forwarder.FaceTable().GetAll() {
		dataset.Faces = append(dataset.Faces, FaceRecord{
			FaceID:      face.FaceID(),
			Scope:       face.Scope().String(),
			Description: face.String(),
		})
	}
	return dataset
}
