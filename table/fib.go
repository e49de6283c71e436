/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// This file implements a hash table version of the FIB: every prefix is hashed (xxhash) into a real
// table, and longest-prefix match probes prefixes of the looked-up name from the longest one that can
// possibly be present.

package table

import (
	"sort"
	"sync"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
)

// FibNextHopEntry represents a nexthop in a FIB entry.
type FibNextHopEntry struct {
	Nexthop uint64
	Cost    uint64
}

// FibEntry represents an entry in the FIB. Entries are owned by the FIB; callers must not keep them
// across modifications of the table.
type FibEntry struct {
	prefix   ndn.Name
	nexthops []*FibNextHopEntry
}

// Prefix returns the prefix of the entry.
func (e *FibEntry) Prefix() ndn.Name {
	return e.prefix
}

// Nexthops returns the nexthops of the entry, ordered by cost.
func (e *FibEntry) Nexthops() []*FibNextHopEntry {
	nexthops := make([]*FibNextHopEntry, len(e.nexthops))
	copy(nexthops, e.nexthops)
	return nexthops
}

// HasNextHops returns whether the entry has at least one nexthop.
func (e *FibEntry) HasNextHops() bool {
	return len(e.nexthops) > 0
}

// HasNextHop returns whether the specified face is a nexthop of the entry.
func (e *FibEntry) HasNextHop(faceID uint64) bool {
	for _, nexthop := range e.nexthops {
		if nexthop.Nexthop == faceID {
			return true
		}
	}
	return false
}

func (e *FibEntry) sortNexthops() {
	sort.SliceStable(e.nexthops, func(i, j int) bool { return e.nexthops[i].Cost < e.nexthops[j].Cost })
}

// Fib is the Forwarding Information Base of a forwarder.
type Fib struct {
	realTable map[uint64][]*FibEntry
	// maxDepth is the length of the longest prefix ever inserted.
	maxDepth   int
	nEntries   int
	emptyEntry *FibEntry
	fibRWMutex sync.RWMutex
}

// NewFib creates an empty FIB.
func NewFib() *Fib {
	f := new(Fib)
	f.realTable = make(map[uint64][]*FibEntry)
	f.emptyEntry = &FibEntry{prefix: ndn.Name{}}
	return f
}

func (f *Fib) String() string {
	return "FIB"
}

func (f *Fib) findExactMatch(name ndn.Name) *FibEntry {
	for _, entry := range f.realTable[hashName(name)] {
		if entry.prefix.Equal(name) {
			return entry
		}
	}
	return nil
}

// Size returns the number of entries in the FIB.
func (f *Fib) Size() int {
	f.fibRWMutex.RLock()
	defer f.fibRWMutex.RUnlock()
	return f.nEntries
}

// FindExactMatch returns the entry with exactly the specified prefix, or nil if none.
func (f *Fib) FindExactMatch(prefix ndn.Name) *FibEntry {
	f.fibRWMutex.RLock()
	defer f.fibRWMutex.RUnlock()
	return f.findExactMatch(prefix)
}

// FindLongestPrefixMatch returns the entry with the longest prefix of name. If no entry matches,
// an empty entry with the zero-length prefix and no nexthops is returned; the result is never nil.
func (f *Fib) FindLongestPrefixMatch(name ndn.Name) *FibEntry {
	f.fibRWMutex.RLock()
	defer f.fibRWMutex.RUnlock()

	start := len(name)
	if start > f.maxDepth {
		start = f.maxDepth
	}
	for size := start; size >= 0; size-- {
		if entry := f.findExactMatch(name[:size]); entry != nil {
			return entry
		}
	}
	return f.emptyEntry
}

// Insert returns the entry with the specified prefix, creating an entry without nexthops if needed.
func (f *Fib) Insert(prefix ndn.Name) (*FibEntry, bool) {
	f.fibRWMutex.Lock()
	defer f.fibRWMutex.Unlock()
	return f.insert(prefix)
}

func (f *Fib) insert(prefix ndn.Name) (*FibEntry, bool) {
	if entry := f.findExactMatch(prefix); entry != nil {
		return entry, false
	}

	entry := &FibEntry{prefix: prefix.DeepCopy()}
	hash := hashName(prefix)
	f.realTable[hash] = append(f.realTable[hash], entry)
	f.nEntries++
	if len(prefix) > f.maxDepth {
		f.maxDepth = len(prefix)
	}
	core.LogTrace(f, "Inserted entry Prefix=", prefix)
	return entry, true
}

// AddNexthop adds or updates a nexthop entry for the specified prefix, creating the entry if needed.
func (f *Fib) AddNexthop(prefix ndn.Name, nexthop uint64, cost uint64) *FibEntry {
	f.fibRWMutex.Lock()
	defer f.fibRWMutex.Unlock()

	entry, _ := f.insert(prefix)
	for _, existingNexthop := range entry.nexthops {
		if existingNexthop.Nexthop == nexthop {
			existingNexthop.Cost = cost
			entry.sortNexthops()
			return entry
		}
	}

	entry.nexthops = append(entry.nexthops, &FibNextHopEntry{Nexthop: nexthop, Cost: cost})
	entry.sortNexthops()
	return entry
}

// RemoveNexthop removes the specified nexthop from the specified prefix. An entry that loses its
// last nexthop is erased.
func (f *Fib) RemoveNexthop(prefix ndn.Name, nexthop uint64) {
	f.fibRWMutex.Lock()
	defer f.fibRWMutex.Unlock()

	entry := f.findExactMatch(prefix)
	if entry == nil {
		return
	}
	f.removeNexthop(entry, nexthop)
}

func (f *Fib) removeNexthop(entry *FibEntry, nexthop uint64) {
	for i, existingNexthop := range entry.nexthops {
		if existingNexthop.Nexthop == nexthop {
			entry.nexthops = append(entry.nexthops[:i:i], entry.nexthops[i+1:]...)
			break
		}
	}
	if len(entry.nexthops) == 0 {
		f.erase(entry.prefix)
	}
}

// RemoveFace removes the specified face from the nexthops of every entry.
func (f *Fib) RemoveFace(faceID uint64) {
	f.fibRWMutex.Lock()
	defer f.fibRWMutex.Unlock()

	for _, entry := range f.entries() {
		if entry.HasNextHop(faceID) {
			f.removeNexthop(entry, faceID)
		}
	}
}

// Erase erases the entry with the specified prefix.
func (f *Fib) Erase(prefix ndn.Name) {
	f.fibRWMutex.Lock()
	defer f.fibRWMutex.Unlock()
	f.erase(prefix)
}

func (f *Fib) erase(prefix ndn.Name) {
	hash := hashName(prefix)
	bucket := f.realTable[hash]
	for i, entry := range bucket {
		if entry.prefix.Equal(prefix) {
			if len(bucket) == 1 {
				delete(f.realTable, hash)
			} else {
				f.realTable[hash] = append(bucket[:i:i], bucket[i+1:]...)
			}
			f.nEntries--
			core.LogTrace(f, "Erased entry Prefix=", prefix)
			return
		}
	}
}

func (f *Fib) entries() []*FibEntry {
	entries := make([]*FibEntry, 0, f.nEntries)
	for _, bucket := range f.realTable {
		entries = append(entries, bucket...)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].prefix.Compare(entries[j].prefix) < 0 })
	return entries
}

// Entries returns all entries in the FIB in canonical prefix order.
func (f *Fib) Entries() []*FibEntry {
	f.fibRWMutex.RLock()
	defer f.fibRWMutex.RUnlock()
	return f.entries()
}
