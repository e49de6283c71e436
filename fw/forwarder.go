/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
	"github.com/named-data/ndnfw/table"
)

// Forwarder is a forwarding node. It owns its tables and faces, and uses a strategy registry to
// instantiate the strategies chosen for its namespaces. Pipelines must be invoked from a single
// goroutine, normally the one executing Run.
type Forwarder struct {
	faceTable      *face.Table
	fib            *table.Fib
	pit            *table.Pit
	measurements   *table.Measurements
	networkRegion  *table.NetworkRegionTable
	deadNonceList  *table.DeadNonceList
	strategyChoice *StrategyChoice
	registry       *Registry

	removeFace *face.Connection
	clock      clock.Clock

	pendingInterests chan *pendingInterest
	pendingDatas     chan *pendingData
	pendingNacks     chan *pendingNack
	pendingTasks     chan func()
	shouldQuit       chan interface{}
	HasQuit          chan interface{}

	// Counters
	NInInterests          uint64
	NInData               uint64
	NInNacks              uint64
	NOutInterests         uint64
	NOutData              uint64
	NOutNacks             uint64
	NSatisfiedInterests   uint64
	NUnsatisfiedInterests uint64
}

// NewForwarder creates a forwarder whose root namespace uses the configured default strategy.
func NewForwarder(registry *Registry) (*Forwarder, error) {
	f := new(Forwarder)
	f.faceTable = face.NewTable()
	f.fib = table.NewFib()
	f.pit = table.NewPit()
	f.measurements = table.NewMeasurements()
	f.networkRegion = table.NewNetworkRegionTable()
	f.deadNonceList = table.NewDeadNonceList()
	f.registry = registry
	f.clock = clock.New()
	f.pendingInterests = make(chan *pendingInterest, fwQueueSize)
	f.pendingDatas = make(chan *pendingData, fwQueueSize)
	f.pendingNacks = make(chan *pendingNack, fwQueueSize)
	f.pendingTasks = make(chan func(), fwQueueSize)
	f.shouldQuit = make(chan interface{}, 1)
	f.HasQuit = make(chan interface{}, 1)

	f.strategyChoice = newStrategyChoice(f)
	defaultStrategyName, err := ndn.NameFromString(defaultStrategy)
	if err != nil {
		return nil, err
	}
	if err := f.strategyChoice.Insert(ndn.Name{}, defaultStrategyName); err != nil {
		return nil, err
	}

	f.removeFace = f.faceTable.BeforeRemove.Connect(func(removed face.Face) {
		f.fib.RemoveFace(removed.FaceID())
	})
	return f, nil
}

func (f *Forwarder) String() string {
	return "Forwarder"
}

// Close releases the strategies and subscriptions of the forwarder.
func (f *Forwarder) Close() {
	f.strategyChoice.closeAll()
	f.removeFace.Disconnect()
}

// SetClock replaces the clock used to timestamp records and to schedule expiry. It must be called
// before Run.
func (f *Forwarder) SetClock(c clock.Clock) {
	f.clock = c
	f.measurements.SetClock(c)
}

// FaceTable returns the face table of the forwarder.
func (f *Forwarder) FaceTable() *face.Table {
	return f.faceTable
}

// Fib returns the FIB of the forwarder.
func (f *Forwarder) Fib() *table.Fib {
	return f.fib
}

// Pit returns the PIT of the forwarder.
func (f *Forwarder) Pit() *table.Pit {
	return f.pit
}

// Measurements returns the measurements table of the forwarder.
func (f *Forwarder) Measurements() *table.Measurements {
	return f.measurements
}

// NetworkRegion returns the network region table of the forwarder.
func (f *Forwarder) NetworkRegion() *table.NetworkRegionTable {
	return f.networkRegion
}

// DeadNonceList returns the dead nonce list of the forwarder.
func (f *Forwarder) DeadNonceList() *table.DeadNonceList {
	return f.deadNonceList
}

// StrategyChoice returns the strategy choice table of the forwarder.
func (f *Forwarder) StrategyChoice() *StrategyChoice {
	return f.strategyChoice
}

// Registry returns the strategy registry used by the forwarder.
func (f *Forwarder) Registry() *Registry {
	return f.registry
}

func violatesLocalhost(inFace face.Face, name ndn.Name) bool {
	return inFace.Scope() == face.NonLocal && len(name) > 0 && name.At(0).String() == "localhost"
}

// OnIncomingInterest processes an Interest received on inFace.
func (f *Forwarder) OnIncomingInterest(inFace face.Face, interest *ndn.Interest) {
	core.LogTrace(f, "OnIncomingInterest: ", interest.Name(), ", FaceID=", inFace.FaceID())

	// Drop if HopLimit present and is 0. Else, decrement by 1
	if interest.HopLimit() != nil && *interest.HopLimit() == 0 {
		core.LogDebug(f, "Received Interest=", interest.Name(), " with HopLimit=0 - DROP")
		return
	} else if interest.HopLimit() != nil {
		interest.SetHopLimit(*interest.HopLimit() - 1)
	}

	if violatesLocalhost(inFace, interest.Name()) {
		core.LogWarn(f, "Interest ", interest.Name(), " from non-local FaceID=", inFace.FaceID(), " violates /localhost scope - DROP")
		return
	}

	f.NInInterests++

	// Detect duplicate nonce by comparing against Dead Nonce List
	if f.deadNonceList.Find(interest.Name(), interest.Nonce()) {
		f.onInterestLoop(inFace, interest)
		return
	}

	// Strip the Link once the Interest reaches its producer region
	if interest.HasLink() && f.networkRegion.IsInProducerRegion(interest.Link()) {
		core.LogTrace(f, "Interest ", interest.Name(), " reached producer region - stripping Link")
		interest.UnsetLink()
	}

	pitEntry, isNew := f.pit.FindOrInsert(interest)
	if !isNew && f.isLooping(pitEntry, inFace, interest) {
		f.onInterestLoop(inFace, interest)
		return
	}

	pitEntry.InsertOrUpdateInRecord(inFace, interest, f.clock.Now())
	pitEntry.UpdateExpirationTime()

	strategy := f.strategyChoice.FindEffectiveStrategy(interest.Name())
	core.LogDebug(f, "Using Strategy=", strategy.InstanceName(), " for Interest=", interest.Name())
	strategy.AfterReceiveInterest(inFace, interest, pitEntry)
}

// isLooping returns whether an Interest carries a nonce already seen for the entry from another
// downstream or sent to an upstream.
func (f *Forwarder) isLooping(pitEntry *table.PitEntry, inFace face.Face, interest *ndn.Interest) bool {
	for _, inRecord := range pitEntry.InRecords() {
		if inRecord.Face.FaceID() != inFace.FaceID() && interest.SameNonce(inRecord.Interest) {
			return true
		}
	}
	for _, outRecord := range pitEntry.OutRecords() {
		if interest.SameNonce(outRecord.Interest) {
			return true
		}
	}
	return false
}

func (f *Forwarder) onInterestLoop(inFace face.Face, interest *ndn.Interest) {
	core.LogDebug(f, "Interest ", interest.Name(), " from FaceID=", inFace.FaceID(), " is looping - Nack Duplicate")
	f.NOutNacks++
	inFace.SendNack(ndn.NewNack(interest, ndn.NackHeader{Reason: ndn.NackReasonDuplicate}))
}

// OutgoingInterest sends an Interest of a pending entry to outFace and records it.
func (f *Forwarder) OutgoingInterest(pitEntry *table.PitEntry, outFace face.Face, interest *ndn.Interest) {
	core.LogTrace(f, "OnOutgoingInterest: ", interest.Name(), ", FaceID=", outFace.FaceID())

	// Drop if HopLimit (if present) on Interest going to non-local face is 0
	if interest.HopLimit() != nil && *interest.HopLimit() == 0 && outFace.Scope() == face.NonLocal {
		core.LogDebug(f, "Attempting to send Interest=", interest.Name(), " with HopLimit=0 to non-local face - DROP")
		return
	}

	pitEntry.InsertOrUpdateOutRecord(outFace, interest, f.clock.Now())
	f.NOutInterests++
	outFace.SendInterest(interest)
}

// OnIncomingData processes Data received on inFace.
func (f *Forwarder) OnIncomingData(inFace face.Face, data *ndn.Data) {
	core.LogTrace(f, "OnIncomingData: ", data.Name(), ", FaceID=", inFace.FaceID())

	f.NInData++

	if violatesLocalhost(inFace, data.Name()) {
		core.LogWarn(f, "Data ", data.Name(), " from non-local FaceID=", inFace.FaceID(), " violates /localhost scope - DROP")
		return
	}

	pitEntries := f.pit.FindAllDataMatches(data)
	if len(pitEntries) == 0 {
		// Unsolicited Data - nothing more to do
		core.LogDebug(f, "Unsolicited Data ", data.Name(), " - DROP")
		return
	}

	for _, pitEntry := range pitEntries {
		strategy := f.strategyChoice.FindEffectiveStrategy(pitEntry.Name())
		strategy.BeforeSatisfyInterest(pitEntry, inFace, data)

		pitEntry.Satisfied = true
		for _, inRecord := range pitEntry.InRecords() {
			if inRecord.Face.FaceID() != inFace.FaceID() {
				f.OutgoingData(data, pitEntry, inRecord.Face)
			}
		}
		f.finalizeInterest(pitEntry)
	}
}

// OutgoingData sends Data to a downstream, deleting its in-record from the pending entry if given.
func (f *Forwarder) OutgoingData(data *ndn.Data, pitEntry *table.PitEntry, outFace face.Face) {
	core.LogTrace(f, "OnOutgoingData: ", data.Name(), ", FaceID=", outFace.FaceID())

	if violatesLocalhost(outFace, data.Name()) {
		core.LogWarn(f, "Data ", data.Name(), " cannot be sent to non-local FaceID=", outFace.FaceID(), " since violates /localhost scope - DROP")
		return
	}

	if pitEntry != nil {
		pitEntry.DeleteInRecord(outFace.FaceID())
		f.NSatisfiedInterests++
	}
	f.NOutData++
	outFace.SendData(data)
}

// OnIncomingNack processes a Nack received from an upstream.
func (f *Forwarder) OnIncomingNack(inFace face.Face, nack *ndn.Nack) {
	core.LogTrace(f, "OnIncomingNack: ", nack.Interest().Name(), ", FaceID=", inFace.FaceID(), ", Reason=", nack.Reason())

	f.NInNacks++

	pitEntry := f.pit.Find(nack.Interest())
	if pitEntry == nil {
		core.LogDebug(f, "Nack for ", nack.Interest().Name(), " has no PIT entry - DROP")
		return
	}

	outRecord := pitEntry.OutRecord(inFace.FaceID())
	if outRecord == nil || !nack.Interest().SameNonce(outRecord.Interest) {
		core.LogDebug(f, "Nack for ", nack.Interest().Name(), " does not match an out-record to FaceID=", inFace.FaceID(), " - DROP")
		return
	}

	header := nack.Header()
	outRecord.IncomingNack = &header

	strategy := f.strategyChoice.FindEffectiveStrategy(pitEntry.Name())
	strategy.AfterReceiveNack(inFace, nack, pitEntry)
}

// OutgoingNack sends a Nack to a downstream of a pending entry and deletes its in-record. Nothing is
// sent if the face is not a downstream of the entry.
func (f *Forwarder) OutgoingNack(pitEntry *table.PitEntry, outFace face.Face, header ndn.NackHeader) {
	inRecord := pitEntry.InRecord(outFace.FaceID())
	if inRecord == nil {
		core.LogTrace(f, "OnOutgoingNack: FaceID=", outFace.FaceID(), " is not a downstream of ", pitEntry.Name(), " - DROP")
		return
	}
	core.LogTrace(f, "OnOutgoingNack: ", pitEntry.Name(), ", FaceID=", outFace.FaceID(), ", Reason=", header.Reason)

	nack := ndn.NewNack(inRecord.Interest, header)
	pitEntry.DeleteInRecord(outFace.FaceID())
	f.NOutNacks++
	outFace.SendNack(nack)
}

// RejectPendingInterest removes a pending entry that will not be forwarded.
func (f *Forwarder) RejectPendingInterest(pitEntry *table.PitEntry) {
	core.LogDebug(f, "Rejecting pending Interest ", pitEntry.Name())
	f.finalizeInterest(pitEntry)
}

// ExpirePendingInterests expires the entries whose lifetime elapsed at now, returning how many were
// expired.
func (f *Forwarder) ExpirePendingInterests(now time.Time) int {
	expired := f.pit.ExpiredEntries(now)
	for _, pitEntry := range expired {
		strategy := f.strategyChoice.FindEffectiveStrategy(pitEntry.Name())
		strategy.BeforeExpirePendingInterest(pitEntry)
		f.finalizeInterest(pitEntry)
	}
	return len(expired)
}

func (f *Forwarder) finalizeInterest(pitEntry *table.PitEntry) {
	core.LogTrace(f, "OnFinalizeInterest: ", pitEntry.Name())

	// Check for nonces to insert into dead nonce list
	for _, outRecord := range pitEntry.OutRecords() {
		f.deadNonceList.Insert(outRecord.Interest.Name(), outRecord.LatestNonce, f.clock.Now())
	}

	// Counters
	if !pitEntry.Satisfied {
		f.NUnsatisfiedInterests += uint64(len(pitEntry.InRecords()))
	}

	f.pit.Erase(pitEntry)
}
