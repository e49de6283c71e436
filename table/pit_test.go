/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"testing"
	"time"

	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFace(id uint64) face.Face {
	f := face.MakeInternalFace(face.NonLocal)
	f.SetFaceID(id)
	return f
}

func TestPitFindOrInsert(t *testing.T) {
	pit := NewPit()
	interest := ndn.NewInterest(ndn.MustNameFromString("/a/b"))

	entry, isNew := pit.FindOrInsert(interest)
	assert.True(t, isNew)
	assert.Equal(t, 1, pit.Size())
	assert.Same(t, interest, entry.Interest())

	// Same name and selectors with another nonce aggregate
	other := interest.DeepCopy()
	other.ResetNonce()
	again, isNew := pit.FindOrInsert(other)
	assert.False(t, isNew)
	assert.Same(t, entry, again)

	// Different selectors do not
	prefix := ndn.NewInterest(ndn.MustNameFromString("/a/b"))
	prefix.SetCanBePrefix(true)
	third, isNew := pit.FindOrInsert(prefix)
	assert.True(t, isNew)
	assert.NotSame(t, entry, third)
	assert.Equal(t, 2, pit.Size())

	pit.Erase(entry)
	assert.Nil(t, pit.Find(interest))
	assert.Same(t, third, pit.Find(prefix))
	pit.Erase(entry)
	assert.Equal(t, 1, pit.Size())
}

func TestPitFindAllDataMatches(t *testing.T) {
	pit := NewPit()
	exact := ndn.NewInterest(ndn.MustNameFromString("/a/b"))
	prefix := ndn.NewInterest(ndn.MustNameFromString("/a"))
	prefix.SetCanBePrefix(true)
	notPrefix := ndn.NewInterest(ndn.MustNameFromString("/a"))
	unrelated := ndn.NewInterest(ndn.MustNameFromString("/c"))
	for _, interest := range []*ndn.Interest{exact, prefix, notPrefix, unrelated} {
		pit.FindOrInsert(interest)
	}

	matches := pit.FindAllDataMatches(ndn.NewData(ndn.MustNameFromString("/a/b"), nil))
	require.Equal(t, 2, len(matches))
	assert.Same(t, exact, matches[0].Interest())
	assert.Same(t, prefix, matches[1].Interest())
}

func TestPitRecords(t *testing.T) {
	pit := NewPit()
	now := time.Now()
	interest := ndn.NewInterest(ndn.MustNameFromString("/a"))
	entry, _ := pit.FindOrInsert(interest)

	face3 := makeFace(3)
	face1 := makeFace(1)
	entry.InsertOrUpdateInRecord(face3, interest, now)
	record := entry.InsertOrUpdateInRecord(face1, interest.DeepCopy(), now)
	assert.Equal(t, now.Add(interest.Lifetime()), record.ExpirationTime)

	inRecords := entry.InRecords()
	require.Equal(t, 2, len(inRecords))
	assert.Equal(t, uint64(1), inRecords[0].Face.FaceID())
	assert.Equal(t, uint64(3), inRecords[1].Face.FaceID())

	// The snapshot survives deletion
	entry.DeleteInRecord(1)
	assert.Equal(t, 2, len(inRecords))
	assert.Nil(t, entry.InRecord(1))
	assert.NotNil(t, entry.InRecord(3))

	entry.InsertOrUpdateOutRecord(makeFace(7), interest, now)
	assert.Equal(t, 1, len(entry.OutRecords()))
	entry.DeleteOutRecord(7)
	assert.Equal(t, 0, len(entry.OutRecords()))
}

func TestPitSelectDelegation(t *testing.T) {
	pit := NewPit()
	now := time.Now()
	interest := ndn.NewInterest(ndn.MustNameFromString("/a"))
	entry, _ := pit.FindOrInsert(interest)
	first := interest.DeepCopy()
	second := interest.DeepCopy()
	entry.InsertOrUpdateInRecord(makeFace(1), first, now)
	entry.InsertOrUpdateInRecord(makeFace(2), second, now)

	delegation := ndn.MustNameFromString("/telia/terabits")
	entry.SelectDelegation(delegation)
	for _, record := range entry.InRecords() {
		assert.True(t, record.Interest.HasSelectedDelegation())
		assert.True(t, delegation.Equal(record.Interest.SelectedDelegation()))
	}
	assert.True(t, entry.Interest().HasSelectedDelegation())
}

func TestPitExpiredEntries(t *testing.T) {
	pit := NewPit()
	now := time.Now()

	short := ndn.NewInterest(ndn.MustNameFromString("/short"))
	short.SetLifetime(time.Second)
	long := ndn.NewInterest(ndn.MustNameFromString("/long"))
	long.SetLifetime(10 * time.Second)
	for _, interest := range []*ndn.Interest{short, long} {
		entry, _ := pit.FindOrInsert(interest)
		entry.InsertOrUpdateInRecord(makeFace(1), interest, now)
		entry.UpdateExpirationTime()
	}

	assert.Equal(t, 0, len(pit.ExpiredEntries(now)))
	expired := pit.ExpiredEntries(now.Add(2 * time.Second))
	require.Equal(t, 1, len(expired))
	assert.Equal(t, "/short", expired[0].Name().String())
	assert.Equal(t, 2, len(pit.ExpiredEntries(now.Add(time.Minute))))
}
