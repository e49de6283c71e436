/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"time"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/fw"
	"github.com/named-data/ndnfw/ndn"
)

// GeneralStatus is the general status dataset of the forwarder. Timestamps are in milliseconds since
// the Unix epoch.
type GeneralStatus struct {
	Version               string `toml:"version"`
	StartTimestamp        int64  `toml:"start_timestamp"`
	CurrentTimestamp      int64  `toml:"current_timestamp"`
	NFaces                uint64 `toml:"n_faces"`
	NFibEntries           uint64 `toml:"n_fib_entries"`
	NPitEntries           uint64 `toml:"n_pit_entries"`
	NMeasurementsEntries  uint64 `toml:"n_measurements_entries"`
	NStrategyChoices      uint64 `toml:"n_strategy_choices"`
	NDeadNonces           uint64 `toml:"n_dead_nonces"`
	NInInterests          uint64 `toml:"n_in_interests"`
	NInData               uint64 `toml:"n_in_data"`
	NInNacks              uint64 `toml:"n_in_nacks"`
	NOutInterests         uint64 `toml:"n_out_interests"`
	NOutData              uint64 `toml:"n_out_data"`
	NOutNacks             uint64 `toml:"n_out_nacks"`
	NSatisfiedInterests   uint64 `toml:"n_satisfied_interests"`
	NUnsatisfiedInterests uint64 `toml:"n_unsatisfied_interests"`
}

// ForwarderStatusModule is the module that provide forwarder status information.
type ForwarderStatusModule struct {
	manager *Manager
}

func (f *ForwarderStatusModule) String() string {
	return "ForwarderStatusMgmt"
}

func (f *ForwarderStatusModule) registerManager(manager *Manager) {
	f.manager = manager
}

func (f *ForwarderStatusModule) getManager() *Manager {
	return f.manager
}

func (f *ForwarderStatusModule) handleIncomingInterest(interest *ndn.Interest, verb string) interface{} {
	switch verb {
	case "general":
		return f.general()
	default:
		core.LogWarn(f, "Received Interest for non-existent verb '", verb, "'")
		return makeControlResponse(501, "Unknown verb", nil)
	}
}

func (f *ForwarderStatusModule) general() *GeneralStatus {
	return readStatus(f.manager.forwarder)
}

// readStatus reads the status of the forwarder. It must be called from the forwarding thread.
func readStatus(forwarder *fw.Forwarder) *GeneralStatus {
	return &GeneralStatus{
		Version:               core.Version,
		StartTimestamp:        core.StartTimestamp.UnixMilli(),
		CurrentTimestamp:      time.Now().UnixMilli(),
		NFaces:                uint64(forwarder.FaceTable().Size()),
		NFibEntries:           uint64(forwarder.Fib().Size()),
		NPitEntries:           uint64(forwarder.Pit().Size()),
		NMeasurementsEntries:  uint64(forwarder.Measurements().Size()),
		NStrategyChoices:      uint64(forwarder.StrategyChoice().Size()),
		NDeadNonces:           uint64(forwarder.DeadNonceList().Size()),
		NInInterests:          forwarder.NInInterests,
		NInData:               forwarder.NInData,
		NInNacks:              forwarder.NInNacks,
		NOutInterests:         forwarder.NOutInterests,
		NOutData:              forwarder.NOutData,
		NOutNacks:             forwarder.NOutNacks,
		NSatisfiedInterests:   forwarder.NSatisfiedInterests,
		NUnsatisfiedInterests: forwarder.NUnsatisfiedInterests,
	}
}
