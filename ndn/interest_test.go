/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/named-data/ndnfw/ndn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterestCreate(t *testing.T) {
	i := ndn.NewInterest(ndn.MustNameFromString("/go/ndn"))
	assert.Equal(t, 4, len(i.Nonce()))
	assert.Equal(t, "Interest(Name=/go/ndn, Nonce="+hex.EncodeToString(i.Nonce())+")", i.String())
	assert.False(t, i.CanBePrefix())
	assert.False(t, i.MustBeFresh())
	assert.False(t, i.HasLink())
	assert.False(t, i.HasSelectedDelegation())
	assert.Equal(t, 4000*time.Millisecond, i.Lifetime())
	assert.Nil(t, i.HopLimit())

	assert.Error(t, i.SetNonce([]byte{0x01}))
	assert.NoError(t, i.SetNonce([]byte{0x01, 0x02, 0x03, 0x04}))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, i.Nonce())
}

func TestInterestResetNonce(t *testing.T) {
	i := ndn.NewInterest(ndn.MustNameFromString("/go/ndn"))
	seen := make(map[string]bool)
	for n := 0; n < 16; n++ {
		i.ResetNonce()
		require.Len(t, i.Nonce(), 4)
		seen[hex.EncodeToString(i.Nonce())] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestInterestLinkAndSelectedDelegation(t *testing.T) {
	link, err := ndn.NewLink(ndn.MustNameFromString("/link"),
		ndn.Delegation{Preference: 20, Name: ndn.MustNameFromString("/telia")},
		ndn.Delegation{Preference: 10, Name: ndn.MustNameFromString("/ucla")})
	require.NoError(t, err)

	i := ndn.NewInterest(ndn.MustNameFromString("/movie"))
	i.SetLink(link)
	assert.True(t, i.HasLink())
	assert.Same(t, link, i.Link())

	i.SetSelectedDelegation(ndn.MustNameFromString("/ucla"))
	assert.True(t, i.HasSelectedDelegation())
	assert.Equal(t, "/ucla", i.SelectedDelegation().String())

	copied := i.DeepCopy()
	copied.SetSelectedDelegation(ndn.MustNameFromString("/telia"))
	copied.SetHopLimit(3)
	assert.Equal(t, "/ucla", i.SelectedDelegation().String())
	assert.Nil(t, i.HopLimit())
	assert.True(t, i.SameNonce(copied))

	i.UnsetLink()
	assert.False(t, i.HasLink())
	assert.False(t, i.HasSelectedDelegation())
}

func TestInterestMatchesData(t *testing.T) {
	i := ndn.NewInterest(ndn.MustNameFromString("/a/b"))
	assert.True(t, i.MatchesData(ndn.NewData(ndn.MustNameFromString("/a/b"), nil)))
	assert.False(t, i.MatchesData(ndn.NewData(ndn.MustNameFromString("/a/b/c"), nil)))
	i.SetCanBePrefix(true)
	assert.True(t, i.MatchesData(ndn.NewData(ndn.MustNameFromString("/a/b/c"), nil)))
	assert.False(t, i.MatchesData(ndn.NewData(ndn.MustNameFromString("/a"), nil)))
}

func TestLinkOrdering(t *testing.T) {
	_, err := ndn.NewLink(ndn.MustNameFromString("/link"))
	assert.ErrorIs(t, err, ndn.ErrNoDelegations)

	link, err := ndn.NewLink(ndn.MustNameFromString("/link"),
		ndn.Delegation{Preference: 30, Name: ndn.MustNameFromString("/c")},
		ndn.Delegation{Preference: 10, Name: ndn.MustNameFromString("/b")},
		ndn.Delegation{Preference: 10, Name: ndn.MustNameFromString("/a")},
		ndn.Delegation{Preference: 5, Name: ndn.MustNameFromString("/c")})
	require.NoError(t, err)

	delegations := link.Delegations()
	require.Equal(t, 3, len(delegations))
	assert.Equal(t, "/c", delegations[0].Name.String())
	assert.Equal(t, uint64(5), delegations[0].Preference)
	assert.Equal(t, "/a", delegations[1].Name.String())
	assert.Equal(t, "/b", delegations[2].Name.String())
}

func TestNack(t *testing.T) {
	i := ndn.NewInterest(ndn.MustNameFromString("/a"))
	nack := ndn.NewNack(i, ndn.NackHeader{Reason: ndn.NackReasonNoRoute})
	assert.Same(t, i, nack.Interest())
	assert.Equal(t, ndn.NackReasonNoRoute, nack.Reason())
	assert.Equal(t, "NoRoute", nack.Reason().String())
	assert.Equal(t, "7", ndn.NackReason(7).String())

	assert.True(t, ndn.NackReasonCongestion.IsLessSevere(ndn.NackReasonNoRoute))
	assert.True(t, ndn.NackReasonNoRoute.IsLessSevere(ndn.NackReasonNone))
	assert.False(t, ndn.NackReasonNone.IsLessSevere(ndn.NackReasonDuplicate))
}
