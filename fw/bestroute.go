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

// BestRouteStrategyName is the canonical name of the BestRoute strategy.
var BestRouteStrategyName = ndn.MustNameFromString(StrategyPrefix + "/best-route/%FD%01")

// BestRoute is a forwarding strategy that forwards Interests to the nexthop with the lowest cost.
type BestRoute struct {
	StrategyBase
}

// NewBestRoute creates an instance of the BestRoute strategy.
func NewBestRoute(fwd *Forwarder, instanceName ndn.Name) Strategy {
	s := new(BestRoute)
	s.NewStrategyBase(fwd, s)
	if parsed := ParseInstanceName(instanceName); len(parsed.Parameters) > 0 {
		core.LogWarn(s, "Ignoring parameters ", parsed.Parameters, " of ", instanceName)
	}
	s.SetInstanceName(MakeInstanceName(instanceName, BestRouteStrategyName))
	return s
}

func (s *BestRoute) String() string {
	return "Strategy-BestRoute"
}

// AfterReceiveInterest ...
func (s *BestRoute) AfterReceiveInterest(inFace face.Face, interest *ndn.Interest, pitEntry *table.PitEntry) {
	fibEntry := s.LookupFib(pitEntry)
	for _, nexthop := range fibEntry.Nexthops() {
		if nexthop.Nexthop == inFace.FaceID() {
			continue
		}
		outFace := s.Forwarder().FaceTable().Get(nexthop.Nexthop)
		if outFace == nil {
			continue
		}

		core.LogTrace(s, "Forwarding Interest ", interest.Name(), " to FaceID=", nexthop.Nexthop)
		s.SendInterest(pitEntry, outFace, interest)
		return
	}

	core.LogDebug(s, "No nexthop for Interest ", interest.Name(), " - Nack NoRoute")
	s.SendNacks(pitEntry, ndn.NackHeader{Reason: ndn.NackReasonNoRoute})
	s.RejectPendingInterest(pitEntry)
}

// AfterReceiveNack ...
func (s *BestRoute) AfterReceiveNack(inFace face.Face, nack *ndn.Nack, pitEntry *table.PitEntry) {
	s.processNack(inFace, nack, pitEntry)
}
