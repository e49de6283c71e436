/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"testing"
	"time"

	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
	"github.com/named-data/ndnfw/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rootStrategy(fwd *Forwarder) *BestRoute {
	return fwd.StrategyChoice().FindEffectiveStrategy(ndn.Name{}).(*BestRoute)
}

// insertPending creates a PIT entry for interest with an in-record per downstream face. Each
// downstream gets its own copy of the Interest with a distinct nonce.
func insertPending(fwd *Forwarder, interest *ndn.Interest, downstreams ...face.Face) *table.PitEntry {
	pitEntry, _ := fwd.Pit().FindOrInsert(interest)
	for _, downstream := range downstreams {
		copied := interest.DeepCopy()
		copied.ResetNonce()
		pitEntry.InsertOrUpdateInRecord(downstream, copied, time.Now())
	}
	pitEntry.UpdateExpirationTime()
	return pitEntry
}

func makeLink(t *testing.T, delegations ...string) *ndn.Link {
	var list []ndn.Delegation
	for i, delegation := range delegations {
		list = append(list, ndn.Delegation{Preference: uint64(10 * (i + 1)), Name: name(delegation)})
	}
	link, err := ndn.NewLink(name("/link"), list...)
	require.NoError(t, err)
	return link
}

func TestLookupFibWithoutLink(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 3)
	fwd.Fib().AddNexthop(name("/"), 1, 0)
	fwd.Fib().AddNexthop(name("/a"), 2, 0)
	fwd.Fib().AddNexthop(name("/a/b"), 3, 0)

	pitEntry := insertPending(fwd, ndn.NewInterest(name("/a/b/c")), faces[0])
	fibEntry := rootStrategy(fwd).LookupFib(pitEntry)
	assert.Equal(t, "/a/b", fibEntry.Prefix().String())
	assert.Same(t, fwd.Fib().FindExactMatch(name("/a/b")), fibEntry)
}

func TestLookupFibSelectedDelegation(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 3)
	fwd.Fib().AddNexthop(name("/A"), 1, 0)
	fwd.Fib().AddNexthop(name("/B"), 2, 0)
	fwd.Fib().AddNexthop(name("/B/C"), 3, 0)

	interest := ndn.NewInterest(name("/content"))
	interest.SetLink(makeLink(t, "/A", "/B"))
	interest.SetSelectedDelegation(name("/B/C/D"))
	pitEntry := insertPending(fwd, interest, faces[0])

	fibEntry := rootStrategy(fwd).LookupFib(pitEntry)
	assert.Equal(t, "/B/C", fibEntry.Prefix().String())
}

func TestLookupFibConsumerRegion(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 2)
	fwd.Fib().AddNexthop(name("/B"), 2, 0)

	interest := ndn.NewInterest(name("/content"))
	interest.SetLink(makeLink(t, "/A", "/B"))
	pitEntry := insertPending(fwd, interest, faces[0])

	fibEntry := rootStrategy(fwd).LookupFib(pitEntry)
	assert.Equal(t, 0, len(fibEntry.Prefix()))
	assert.False(t, fibEntry.HasNextHops())

	// No delegation is selected at the edge
	assert.False(t, pitEntry.Interest().HasSelectedDelegation())
	for _, inRecord := range pitEntry.InRecords() {
		assert.False(t, inRecord.Interest.HasSelectedDelegation())
	}
}

func TestLookupFibDefaultRouteOnly(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 2)
	fwd.Fib().AddNexthop(name("/"), 2, 0)

	interest := ndn.NewInterest(name("/content"))
	interest.SetLink(makeLink(t, "/A", "/B"))
	pitEntry := insertPending(fwd, interest, faces[0])

	// The root entry has nexthops, so the first delegation is selected through the default route
	fibEntry := rootStrategy(fwd).LookupFib(pitEntry)
	assert.Equal(t, 0, len(fibEntry.Prefix()))
	assert.True(t, fibEntry.HasNextHops())
	require.True(t, pitEntry.Interest().HasSelectedDelegation())
	assert.Equal(t, "/A", pitEntry.Interest().SelectedDelegation().String())
	for _, inRecord := range pitEntry.InRecords() {
		require.True(t, inRecord.Interest.HasSelectedDelegation())
		assert.Equal(t, "/A", inRecord.Interest.SelectedDelegation().String())
	}
}

func TestLookupFibDefaultFreeZone(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 3)
	fwd.Fib().Insert(name("/A"))
	fwd.Fib().AddNexthop(name("/B"), 2, 0)
	fwd.Fib().AddNexthop(name("/C"), 3, 0)

	interest := ndn.NewInterest(name("/content"))
	interest.SetLink(makeLink(t, "/A", "/B", "/C"))
	pitEntry := insertPending(fwd, interest, faces[0], faces[2])

	strategy := rootStrategy(fwd)
	fibEntry := strategy.LookupFib(pitEntry)
	assert.Equal(t, "/B", fibEntry.Prefix().String())

	// The selection is recorded on every in-record
	for _, inRecord := range pitEntry.InRecords() {
		require.True(t, inRecord.Interest.HasSelectedDelegation())
		assert.Equal(t, "/B", inRecord.Interest.SelectedDelegation().String())
	}

	// A later lookup uses the recorded selection without scanning again
	fwd.Fib().AddNexthop(name("/A"), 1, 0)
	assert.Same(t, fibEntry, strategy.LookupFib(pitEntry))
}

func TestLookupFibDelegationsExhausted(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 1)
	fwd.Fib().Insert(name("/A"))
	fwd.Fib().Insert(name("/B"))

	interest := ndn.NewInterest(name("/content"))
	interest.SetLink(makeLink(t, "/A", "/B"))
	pitEntry := insertPending(fwd, interest, faces[0])

	assert.Panics(t, func() { rootStrategy(fwd).LookupFib(pitEntry) })
}

func TestLookupFibProducerRegion(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 1)
	fwd.Fib().AddNexthop(name("/A"), 1, 0)
	fwd.NetworkRegion().Add(name("/A/router"))

	interest := ndn.NewInterest(name("/content"))
	interest.SetLink(makeLink(t, "/A"))
	pitEntry := insertPending(fwd, interest, faces[0])

	assert.Panics(t, func() { rootStrategy(fwd).LookupFib(pitEntry) })
}

func TestSendNacks(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 3)
	interest := ndn.NewInterest(name("/a"))
	pitEntry := insertPending(fwd, interest, faces[0], faces[1], faces[2])
	// A renewed Interest from the same downstream does not add a second record
	renewed := interest.DeepCopy()
	renewed.ResetNonce()
	pitEntry.InsertOrUpdateInRecord(faces[0], renewed, time.Now())

	rootStrategy(fwd).SendNacks(pitEntry, ndn.NackHeader{Reason: ndn.NackReasonNoRoute}, faces[1].FaceID())

	require.Equal(t, 1, len(faces[0].SentNacks))
	assert.Equal(t, 0, len(faces[1].SentNacks))
	require.Equal(t, 1, len(faces[2].SentNacks))
	assert.Equal(t, ndn.NackReasonNoRoute, faces[0].SentNacks[0].Reason())
	assert.Same(t, renewed, faces[0].SentNacks[0].Interest())

	// Nacked downstreams are no longer pending
	inRecords := pitEntry.InRecords()
	require.Equal(t, 1, len(inRecords))
	assert.Equal(t, faces[1].FaceID(), inRecords[0].Face.FaceID())
	assert.Equal(t, uint64(2), fwd.NOutNacks)
}

func TestSendNacksExcludingAll(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 2)
	pitEntry := insertPending(fwd, ndn.NewInterest(name("/a")), faces[0], faces[1])

	rootStrategy(fwd).SendNacks(pitEntry, ndn.NackHeader{Reason: ndn.NackReasonCongestion}, 1, 2, 99)
	assert.Equal(t, 0, len(faces[0].SentNacks))
	assert.Equal(t, 0, len(faces[1].SentNacks))
	assert.Equal(t, 2, len(pitEntry.InRecords()))
}

func TestStrategyFaceSignals(t *testing.T) {
	fwd := newTestForwarder(t)
	nAddHandlers := fwd.FaceTable().AfterAdd.NumHandlers()
	nRemoveHandlers := fwd.FaceTable().BeforeRemove.NumHandlers()

	strategy := fwd.Registry().Create(recordingStrategyName, fwd).(*recordingStrategy)
	assert.Equal(t, nAddHandlers+1, fwd.FaceTable().AfterAdd.NumHandlers())
	assert.Equal(t, nRemoveHandlers+1, fwd.FaceTable().BeforeRemove.NumHandlers())

	var added, removed []uint64
	strategy.SetAfterAddFaceHandler(func(f face.Face) { added = append(added, f.FaceID()) })
	strategy.SetBeforeRemoveFaceHandler(func(f face.Face) {
		// The face can still be looked up
		assert.NotNil(t, fwd.FaceTable().Get(f.FaceID()))
		removed = append(removed, f.FaceID())
	})

	faces := addFaces(fwd, 2)
	fwd.FaceTable().Remove(faces[0].FaceID())
	assert.Equal(t, []uint64{1, 2}, added)
	assert.Equal(t, []uint64{1}, removed)

	strategy.Close()
	assert.Equal(t, nAddHandlers, fwd.FaceTable().AfterAdd.NumHandlers())
	assert.Equal(t, nRemoveHandlers, fwd.FaceTable().BeforeRemove.NumHandlers())
	addFaces(fwd, 1)
	assert.Equal(t, []uint64{1, 2}, added)

	// Closing twice is harmless
	strategy.Close()
}

func TestDefaultHooks(t *testing.T) {
	fwd := newTestForwarder(t)
	faces := addFaces(fwd, 1)
	base := &rootStrategy(fwd).StrategyBase
	interest := ndn.NewInterest(name("/a"))
	pitEntry := insertPending(fwd, interest, faces[0])

	assert.NotPanics(t, func() {
		base.BeforeSatisfyInterest(pitEntry, faces[0], ndn.NewData(name("/a"), nil))
		base.BeforeExpirePendingInterest(pitEntry)
		base.AfterReceiveNack(faces[0], ndn.NewNack(interest, ndn.NackHeader{Reason: ndn.NackReasonCongestion}), pitEntry)
	})
	assert.Equal(t, 1, fwd.Pit().Size())
	assert.Equal(t, 1, len(pitEntry.InRecords()))
	assert.Equal(t, 0, len(faces[0].SentNacks))
}

func TestMeasurementsAccessor(t *testing.T) {
	fwd := newTestForwarder(t)
	require.NoError(t, fwd.StrategyChoice().Insert(name("/b"), MulticastStrategyName))
	root := rootStrategy(fwd)
	multicast, ok := fwd.StrategyChoice().Get(name("/b"))
	require.True(t, ok)
	accessor := multicast.(*Multicast).Measurements()

	assert.NotNil(t, root.Measurements().Get(name("/a/x")))
	assert.Nil(t, root.Measurements().Get(name("/b/x")))
	assert.NotNil(t, accessor.Get(name("/b/x")))
	assert.Nil(t, accessor.Get(name("/a/x")))

	// Entries exist in the table regardless of visibility
	assert.NotNil(t, fwd.Measurements().Find(name("/b/x")))
	assert.Nil(t, root.Measurements().Find(name("/b/x")))

	bEntry := accessor.Find(name("/b/x"))
	require.NotNil(t, bEntry)
	assert.Equal(t, "/b", accessor.Parent(bEntry).Name().String())
	assert.Nil(t, accessor.Parent(accessor.Parent(bEntry)))

	match := root.Measurements().FindLongestPrefixMatch(name("/b/x/y"))
	require.NotNil(t, match)
	assert.Equal(t, "/", match.Name().String())
	match = accessor.FindLongestPrefixMatch(name("/b/x/y"))
	assert.Equal(t, "/b/x", match.Name().String())
}
