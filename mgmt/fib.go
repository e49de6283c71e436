/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
)

// NextHopRecord is a nexthop in the FIB dataset.
type NextHopRecord struct {
	FaceID uint64 `toml:"face_id"`
	Cost   uint64 `toml:"cost"`
}

// FibEntryRecord is an entry of the FIB dataset.
type FibEntryRecord struct {
	Name     string          `toml:"name"`
	NextHops []NextHopRecord `toml:"next_hops"`
}

// FibDataset lists the FIB.
type FibDataset struct {
	Entries []FibEntryRecord `toml:"entries"`
}

// FIBModule is the module that handles FIB Management.
type FIBModule struct {
	manager *Manager
}

func (f *FIBModule) String() string {
	return "FIBMgmt"
}

func (f *FIBModule) registerManager(manager *Manager) {
	f.manager = manager
}

func (f *FIBModule) getManager() *Manager {
	return f.manager
}

func (f *FIBModule) handleIncomingInterest(interest *ndn.Interest, verb string) interface{} {
	switch verb {
	case "add-nexthop":
		return f.add(interest)
	case "remove-nexthop":
		return f.remove(interest)
	case "list":
		return f.list(interest)
	default:
		core.LogWarn(f, "Received Interest for non-existent verb '", verb, "'")
		return makeControlResponse(501, "Unknown verb", nil)
	}
}

// nexthopFaceID returns the face named by the parameters, defaulting to the requester.
func (f *FIBModule) nexthopFaceID(interest *ndn.Interest, params *ControlParameters) uint64 {
	if params.FaceID != face.InvalidFaceID {
		return params.FaceID
	}
	return f.manager.requesterFaceID(interest)
}

func (f *FIBModule) add(interest *ndn.Interest) *ControlResponse {
	params := decodeControlParameters(f, interest)
	if params == nil {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	prefix, ok := decodeName(f, params)
	if !ok {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}

	faceID := f.nexthopFaceID(interest, params)
	if f.manager.forwarder.FaceTable().Get(faceID) == nil {
		return makeControlResponse(410, "Face does not exist", nil)
	}

	f.manager.forwarder.Fib().AddNexthop(prefix, faceID, params.Cost)
	core.LogInfo(f, "Created nexthop for ", prefix, " to FaceID=", faceID, " with Cost=", params.Cost)
	return makeControlResponse(200, "OK", &ControlParameters{
		Name:   prefix.String(),
		FaceID: faceID,
		Cost:   params.Cost,
	})
}

func (f *FIBModule) remove(interest *ndn.Interest) *ControlResponse {
	params := decodeControlParameters(f, interest)
	if params == nil {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}
	prefix, ok := decodeName(f, params)
	if !ok {
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}

	faceID := f.nexthopFaceID(interest, params)
	f.manager.forwarder.Fib().RemoveNexthop(prefix, faceID)
	core.LogInfo(f, "Removed nexthop for ", prefix, " to FaceID=", faceID)
	return makeControlResponse(200, "OK", &ControlParameters{
		Name:   prefix.String(),
		FaceID: faceID,
	})
}

func (f *FIBModule) list(interest *ndn.Interest) *FibDataset {
	dataset := new(FibDataset)
	for _, entry := range f.manager.forwarder.Fib().Entries() {
		record := FibEntryRecord{Name: entry.Prefix().String()}
		for _, nexthop := range entry.Nexthops() {
			record.NextHops = append(record.NextHops, NextHopRecord{FaceID: nexthop.Nexthop, Cost: nexthop.Cost})
		}
		dataset.Entries = append(dataset.Entries, record)
	}
	core.LogTrace(f, "Published FIB dataset for ", interest.Name(), " containing ", len(dataset.Entries), " entries")
	return dataset
}
