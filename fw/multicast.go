/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
	"github.com/named-data/ndnfw/table"
)

// MulticastStrategyName is the canonical name of the Multicast strategy.
var MulticastStrategyName = ndn.MustNameFromString(StrategyPrefix + "/multicast/%FD%01")

// Multicast is a forwarding strategy that forwards Interests to all nexthop faces.
type Multicast struct {
	StrategyBase
}

// NewMulticast creates an instance of the Multicast strategy.
func NewMulticast(fwd *Forwarder, instanceName ndn.Name) Strategy {
	s := new(Multicast)
	s.NewStrategyBase(fwd, s)
	s.SetInstanceName(MakeInstanceName(instanceName, MulticastStrategyName))
	return s
}

func (s *Multicast) String() string {
	return "Strategy-Multicast"
}

// AfterReceiveInterest ...
func (s *Multicast) AfterReceiveInterest(inFace face.Face, interest *ndn.Interest, pitEntry *table.PitEntry) {
	nSent := 0
	for _, nexthop := range s.LookupFib(pitEntry).Nexthops() {
		if nexthop.Nexthop == inFace.FaceID() {
			continue
		}
		outFace := s.Forwarder().FaceTable().Get(nexthop.Nexthop)
		if outFace == nil {
			continue
		}

		core.LogTrace(s, "Forwarding Interest ", interest.Name(), " to FaceID=", nexthop.Nexthop)
		s.SendInterest(pitEntry, outFace, interest)
		nSent++
	}

	if nSent == 0 {
		core.LogDebug(s, "No nexthop for Interest ", interest.Name(), " - Nack NoRoute")
		s.SendNacks(pitEntry, ndn.NackHeader{Reason: ndn.NackReasonNoRoute})
		s.RejectPendingInterest(pitEntry)
	}
}

// AfterReceiveNack ...
func (s *Multicast) AfterReceiveNack(inFace face.Face, nack *ndn.Nack, pitEntry *table.PitEntry) {
	s.processNack(inFace, nack, pitEntry)
}
