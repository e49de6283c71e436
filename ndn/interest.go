/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/named-data/ndnfw/ndn/util"
)

// DefaultInterestLifetime is the lifetime of an Interest that does not specify one.
const DefaultInterestLifetime = 4000 * time.Millisecond

// Interest represents an NDN Interest packet.
type Interest struct {
	name               Name
	canBePrefix        bool
	mustBeFresh        bool
	link               *Link
	selectedDelegation Name
	nonce              []byte
	lifetime           time.Duration
	hopLimit           *uint8
}

// NewInterest creates a new Interest with the specified name and default values.
func NewInterest(name Name) *Interest {
	i := new(Interest)
	i.name = name.DeepCopy()
	i.lifetime = DefaultInterestLifetime
	i.ResetNonce()
	return i
}

func (i *Interest) String() string {
	str := "Interest(Name=" + i.name.String() + ", Nonce=" + hex.EncodeToString(i.nonce)
	if i.canBePrefix {
		str += ", CanBePrefix"
	}
	if i.mustBeFresh {
		str += ", MustBeFresh"
	}
	if i.link != nil {
		str += ", Link=" + i.link.String()
	}
	if i.selectedDelegation != nil {
		str += ", SelectedDelegation=" + i.selectedDelegation.String()
	}
	if i.hopLimit != nil {
		str += ", HopLimit=" + strconv.Itoa(int(*i.hopLimit))
	}
	return str + ")"
}

// DeepCopy returns a deep copy of the Interest. The Link is shared, since it is never mutated.
func (i *Interest) DeepCopy() *Interest {
	copyI := new(Interest)
	*copyI = *i
	copyI.name = i.name.DeepCopy()
	copyI.selectedDelegation = i.selectedDelegation.DeepCopy()
	copyI.nonce = make([]byte, len(i.nonce))
	copy(copyI.nonce, i.nonce)
	if i.hopLimit != nil {
		hopLimit := *i.hopLimit
		copyI.hopLimit = &hopLimit
	}
	return copyI
}

// Name returns the name of the Interest.
func (i *Interest) Name() Name {
	return i.name
}

// SetName sets the name of the Interest.
func (i *Interest) SetName(name Name) {
	i.name = name.DeepCopy()
}

// CanBePrefix returns whether the Interest can be satisfied by a Data packet whose name the Interest name is a prefix of.
func (i *Interest) CanBePrefix() bool {
	return i.canBePrefix
}

// SetCanBePrefix sets whether the Interest can be satisfied by a Data packet whose name the Interest name is a prefix of.
func (i *Interest) SetCanBePrefix(canBePrefix bool) {
	i.canBePrefix = canBePrefix
}

// MustBeFresh returns whether the Interest can only be satisfied by fresh Data packets.
func (i *Interest) MustBeFresh() bool {
	return i.mustBeFresh
}

// SetMustBeFresh sets whether the Interest can only be satisfied by fresh Data packets.
func (i *Interest) SetMustBeFresh(mustBeFresh bool) {
	i.mustBeFresh = mustBeFresh
}

// HasLink returns whether the Interest carries a Link object.
func (i *Interest) HasLink() bool {
	return i.link != nil
}

// Link returns the Link object carried by the Interest, or nil if none.
func (i *Interest) Link() *Link {
	return i.link
}

// SetLink sets the Link object carried by the Interest.
func (i *Interest) SetLink(link *Link) {
	i.link = link
}

// UnsetLink removes the Link object and SelectedDelegation from the Interest.
func (i *Interest) UnsetLink() {
	i.link = nil
	i.selectedDelegation = nil
}

// HasSelectedDelegation returns whether a delegation of the Link object has been selected.
func (i *Interest) HasSelectedDelegation() bool {
	return i.selectedDelegation != nil
}

// SelectedDelegation returns the name of the selected delegation, or nil if none.
func (i *Interest) SelectedDelegation() Name {
	return i.selectedDelegation
}

// SetSelectedDelegation sets the name of the selected delegation.
func (i *Interest) SetSelectedDelegation(delegation Name) {
	i.selectedDelegation = delegation.DeepCopy()
	if i.selectedDelegation == nil {
		i.selectedDelegation = Name{}
	}
}

// UnsetSelectedDelegation clears the selected delegation.
func (i *Interest) UnsetSelectedDelegation() {
	i.selectedDelegation = nil
}

// Nonce gets the nonce of the Interest.
func (i *Interest) Nonce() []byte {
	return i.nonce
}

// ResetNonce regenerates the nonce of the Interest.
func (i *Interest) ResetNonce() {
	nonce := make([]byte, 4)
	if _, err := rand.Read(nonce); err != nil {
		panic(err)
	}
	i.nonce = nonce
}

// SetNonce sets the nonce of the Interest. The nonce must be 4 octets.
func (i *Interest) SetNonce(nonce []byte) error {
	if len(nonce) != 4 {
		return util.ErrOutOfRange
	}
	i.nonce = make([]byte, 4)
	copy(i.nonce, nonce)
	return nil
}

// Lifetime returns the lifetime of the Interest.
func (i *Interest) Lifetime() time.Duration {
	return i.lifetime
}

// SetLifetime sets the lifetime of the Interest.
func (i *Interest) SetLifetime(lifetime time.Duration) {
	i.lifetime = lifetime
}

// HopLimit returns the hop limit of the Interest or nil if unset.
func (i *Interest) HopLimit() *uint8 {
	return i.hopLimit
}

// SetHopLimit sets the hop limit of the Interest.
func (i *Interest) SetHopLimit(hopLimit uint8) {
	i.hopLimit = &hopLimit
}

// UnsetHopLimit removes the hop limit from the Interest.
func (i *Interest) UnsetHopLimit() {
	i.hopLimit = nil
}

// MatchesData returns whether the specified Data packet can satisfy this Interest.
// Freshness is not considered.
func (i *Interest) MatchesData(data *Data) bool {
	if i.canBePrefix {
		return i.name.PrefixOf(data.Name())
	}
	return i.name.Equal(data.Name())
}

// SameNonce returns whether the two Interests carry the same nonce.
func (i *Interest) SameNonce(other *Interest) bool {
	return bytes.Equal(i.nonce, other.nonce)
}
