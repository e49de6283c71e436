/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"encoding/binary"
	"time"

	"github.com/named-data/ndnfw/ndn"
)

// DeadNonceList remembers the name and nonce of Interests that are no longer pending, in order to
// detect looping Interests.
type DeadNonceList struct {
	list     map[uint64]int
	expiring []deadNonceEntry
	lifetime time.Duration
}

type deadNonceEntry struct {
	hash   uint64
	expiry time.Time
}

// NewDeadNonceList creates an empty Dead Nonce List using the configured entry lifetime.
func NewDeadNonceList() *DeadNonceList {
	return NewDeadNonceListWithLifetime(deadNonceListLifetime)
}

// NewDeadNonceListWithLifetime creates an empty Dead Nonce List with the specified entry lifetime.
func NewDeadNonceListWithLifetime(lifetime time.Duration) *DeadNonceList {
	d := new(DeadNonceList)
	d.list = make(map[uint64]int)
	d.lifetime = lifetime
	return d
}

func deadNonceHash(name ndn.Name, nonce []byte) (uint64, bool) {
	if len(nonce) != 4 {
		return 0, false
	}
	return hashName(name) + uint64(binary.BigEndian.Uint32(nonce)), true
}

// Find returns whether the specified name and nonce combination is present in the Dead Nonce List.
func (d *DeadNonceList) Find(name ndn.Name, nonce []byte) bool {
	hash, ok := deadNonceHash(name, nonce)
	if !ok {
		return false
	}
	return d.list[hash] > 0
}

// Insert inserts an entry with the specified name and nonce. Returns whether it was already present.
func (d *DeadNonceList) Insert(name ndn.Name, nonce []byte, now time.Time) bool {
	hash, ok := deadNonceHash(name, nonce)
	if !ok {
		return false
	}
	exists := d.list[hash] > 0
	d.list[hash]++
	d.expiring = append(d.expiring, deadNonceEntry{hash: hash, expiry: now.Add(d.lifetime)})
	return exists
}

// RemoveExpiredEntries removes the entries inserted at least one lifetime before now, returning
// how many were removed.
func (d *DeadNonceList) RemoveExpiredEntries(now time.Time) int {
	nRemoved := 0
	for nRemoved < len(d.expiring) && !d.expiring[nRemoved].expiry.After(now) {
		hash := d.expiring[nRemoved].hash
		if d.list[hash]--; d.list[hash] <= 0 {
			delete(d.list, hash)
		}
		nRemoved++
	}
	d.expiring = d.expiring[nRemoved:]
	return nRemoved
}

// Size returns the number of entries in the Dead Nonce List.
func (d *DeadNonceList) Size() int {
	return len(d.expiring)
}
