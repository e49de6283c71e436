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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StrategyPrefix is the prefix of all built-in strategy names.
const StrategyPrefix = "/localhost/nfd/strategy"

// Strategy represents a forwarding strategy instance bound to one forwarder. The forwarder invokes
// its hooks sequentially from the forwarding thread.
type Strategy interface {
	String() string
	InstanceName() ndn.Name

	AfterReceiveInterest(inFace face.Face, interest *ndn.Interest, pitEntry *table.PitEntry)
	BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace face.Face, data *ndn.Data)
	BeforeExpirePendingInterest(pitEntry *table.PitEntry)
	AfterReceiveNack(inFace face.Face, nack *ndn.Nack, pitEntry *table.PitEntry)

	// Close releases the subscriptions held by the instance.
	Close()
}

// StrategyBase provides common helper methods for forwarding strategies. Concrete strategies embed
// it and call NewStrategyBase from their factory.
type StrategyBase struct {
	forwarder    *Forwarder
	instanceName ndn.Name
	measurements *MeasurementsAccessor

	afterAddFace     *face.Connection
	beforeRemoveFace *face.Connection
	onAddFace        func(face.Face)
	onRemoveFace     func(face.Face)
}

// NewStrategyBase binds the base to a forwarder. self is the concrete strategy embedding the base.
func (s *StrategyBase) NewStrategyBase(fwd *Forwarder, self Strategy) {
	s.forwarder = fwd
	s.measurements = newMeasurementsAccessor(fwd, self)
	s.afterAddFace = fwd.faceTable.AfterAdd.Connect(func(f face.Face) {
		if s.onAddFace != nil {
			s.onAddFace(f)
		}
	})
	s.beforeRemoveFace = fwd.faceTable.BeforeRemove.Connect(func(f face.Face) {
		if s.onRemoveFace != nil {
			s.onRemoveFace(f)
		}
	})
}

func (s *StrategyBase) String() string {
	return "Strategy(" + s.instanceName.String() + ")"
}

// Close disconnects the face table subscriptions of the strategy.
func (s *StrategyBase) Close() {
	s.afterAddFace.Disconnect()
	s.beforeRemoveFace.Disconnect()
}

// InstanceName returns the name the strategy reports as its identity.
func (s *StrategyBase) InstanceName() ndn.Name {
	return s.instanceName
}

// SetInstanceName sets the instance name of the strategy. It must be called by the factory.
func (s *StrategyBase) SetInstanceName(instanceName ndn.Name) {
	s.instanceName = instanceName
}

// Forwarder returns the forwarder the strategy is bound to.
func (s *StrategyBase) Forwarder() *Forwarder {
	return s.forwarder
}

// Measurements returns the measurements accessible to the strategy.
func (s *StrategyBase) Measurements() *MeasurementsAccessor {
	return s.measurements
}

// SetAfterAddFaceHandler sets a function invoked after a face is added to the forwarder.
func (s *StrategyBase) SetAfterAddFaceHandler(handler func(face.Face)) {
	s.onAddFace = handler
}

// SetBeforeRemoveFaceHandler sets a function invoked before a face is removed from the forwarder.
func (s *StrategyBase) SetBeforeRemoveFaceHandler(handler func(face.Face)) {
	s.onRemoveFace = handler
}

// BeforeSatisfyInterest is invoked before a pending Interest is satisfied by incoming Data.
func (s *StrategyBase) BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace face.Face, data *ndn.Data) {
	core.LogDebug(s, "beforeSatisfyInterest pitEntry=", pitEntry.Name(), " inFace=", inFace.FaceID(), " data=", data.Name())
}

// BeforeExpirePendingInterest is invoked before a pending Interest expires unsatisfied.
func (s *StrategyBase) BeforeExpirePendingInterest(pitEntry *table.PitEntry) {
	core.LogDebug(s, "beforeExpirePendingInterest pitEntry=", pitEntry.Name())
}

// AfterReceiveNack is invoked after a Nack is received from an upstream.
func (s *StrategyBase) AfterReceiveNack(inFace face.Face, nack *ndn.Nack, pitEntry *table.PitEntry) {
	core.LogDebug(s, "afterReceiveNack inFace=", inFace.FaceID(), " pitEntry=", pitEntry.Name(), " reason=", nack.Reason())
}

// LookupFib returns the FIB entry to forward a pending Interest with.
//
// Without a Link, this is the longest prefix match of the Interest name. With a Link, an already
// selected delegation is used directly. Otherwise, if the first delegation only matches the empty
// root entry, the forwarder is in the consumer region and that entry is returned. In the
// default-free zone, the first delegation with nexthops is selected and recorded on the PIT entry.
func (s *StrategyBase) LookupFib(pitEntry *table.PitEntry) *table.FibEntry {
	fib := s.forwarder.fib
	interest := pitEntry.Interest()

	if !interest.HasLink() {
		return fib.FindLongestPrefixMatch(interest.Name())
	}

	link := interest.Link()
	core.Assert(!s.forwarder.networkRegion.IsInProducerRegion(link), s,
		"Interest ", interest.Name(), " still carries a Link inside its producer region")

	if interest.HasSelectedDelegation() {
		core.LogTrace(s, "LookupFib ", interest.Name(), " selected delegation=", interest.SelectedDelegation())
		return fib.FindLongestPrefixMatch(interest.SelectedDelegation())
	}

	delegations := link.Delegations()
	firstEntry := fib.FindLongestPrefixMatch(delegations[0].Name)
	if len(firstEntry.Prefix()) == 0 && !firstEntry.HasNextHops() {
		core.LogTrace(s, "LookupFib ", interest.Name(), " consumer region")
		return firstEntry
	}

	for _, delegation := range delegations {
		fibEntry := fib.FindLongestPrefixMatch(delegation.Name)
		if fibEntry.HasNextHops() {
			core.LogTrace(s, "LookupFib ", interest.Name(), " default-free zone delegation=", delegation.Name)
			pitEntry.SelectDelegation(delegation.Name)
			return fibEntry
		}
	}

	core.Assert(false, s, "No delegation of ", link, " for Interest ", interest.Name(), " has a nexthop")
	return firstEntry
}

// SendInterest forwards an Interest of a pending entry to the specified face.
func (s *StrategyBase) SendInterest(pitEntry *table.PitEntry, outFace face.Face, interest *ndn.Interest) {
	s.forwarder.OutgoingInterest(pitEntry, outFace, interest)
}

// SendData sends Data to a downstream of a pending entry.
func (s *StrategyBase) SendData(pitEntry *table.PitEntry, outFace face.Face, data *ndn.Data) {
	s.forwarder.OutgoingData(data, pitEntry, outFace)
}

// SendNack sends a Nack to a downstream of a pending entry. The in-record of that downstream is
// deleted.
func (s *StrategyBase) SendNack(pitEntry *table.PitEntry, outFace face.Face, header ndn.NackHeader) {
	s.forwarder.OutgoingNack(pitEntry, outFace, header)
}

// SendNacks sends a Nack to every downstream of a pending entry, except the specified faces. Each
// downstream face receives at most one Nack.
func (s *StrategyBase) SendNacks(pitEntry *table.PitEntry, header ndn.NackHeader, exceptFaces ...uint64) {
	downstreams := make(map[uint64]face.Face)
	for _, inRecord := range pitEntry.InRecords() {
		downstreams[inRecord.Face.FaceID()] = inRecord.Face
	}
	for _, exceptFace := range exceptFaces {
		delete(downstreams, exceptFace)
	}

	// OutgoingNack deletes in-records, so the downstreams are fully collected first.
	faceIDs := maps.Keys(downstreams)
	slices.Sort(faceIDs)
	for _, faceID := range faceIDs {
		s.SendNack(pitEntry, downstreams[faceID], header)
	}
}

// RejectPendingInterest finalizes a pending entry that the strategy will not forward.
func (s *StrategyBase) RejectPendingInterest(pitEntry *table.PitEntry) {
	s.forwarder.RejectPendingInterest(pitEntry)
}

// processNack forwards a Nack downstream once every upstream of the entry has Nacked, using the
// least severe reason received, and then rejects the entry.
func (s *StrategyBase) processNack(inFace face.Face, nack *ndn.Nack, pitEntry *table.PitEntry) {
	outRecords := pitEntry.OutRecords()
	var header *ndn.NackHeader
	for _, outRecord := range outRecords {
		if outRecord.IncomingNack == nil {
			core.LogTrace(s, "Nack from FaceID=", inFace.FaceID(), " for ", pitEntry.Name(), " - waiting for other upstreams")
			return
		}
		if header == nil || outRecord.IncomingNack.Reason.IsLessSevere(header.Reason) {
			header = outRecord.IncomingNack
		}
	}
	if header == nil {
		header = &ndn.NackHeader{Reason: nack.Reason()}
	}

	core.LogDebug(s, "All upstreams Nacked ", pitEntry.Name(), " - returning Nack reason=", header.Reason)
	s.SendNacks(pitEntry, *header, inFace.FaceID())
	s.RejectPendingInterest(pitEntry)
}
