/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"sort"
	"time"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
)

// PitInRecord records an incoming Interest on a given face.
type PitInRecord struct {
	Face           face.Face
	Interest       *ndn.Interest
	LatestNonce    []byte
	LastRenewed    time.Time
	ExpirationTime time.Time
}

// PitOutRecord records an outgoing Interest on a given face.
type PitOutRecord struct {
	Face           face.Face
	Interest       *ndn.Interest
	LatestNonce    []byte
	LastRenewed    time.Time
	ExpirationTime time.Time
	// IncomingNack is set once a Nack has been received from the upstream.
	IncomingNack *ndn.NackHeader
}

// PitEntry represents an entry in the PIT.
type PitEntry struct {
	interest   *ndn.Interest
	inRecords  map[uint64]*PitInRecord
	outRecords map[uint64]*PitOutRecord

	// ExpirationTime is the time at which the entry is considered unsatisfied.
	ExpirationTime time.Time
	// Satisfied is set by the Data pipeline before the entry is erased.
	Satisfied bool

	pit  *Pit
	hash uint64
}

func (e *PitEntry) String() string {
	return "PitEntry(" + e.interest.Name().String() + ")"
}

// Interest returns the Interest that created the entry.
func (e *PitEntry) Interest() *ndn.Interest {
	return e.interest
}

// Name returns the name of the entry.
func (e *PitEntry) Name() ndn.Name {
	return e.interest.Name()
}

// InRecords returns a snapshot of the in-records of the entry, ordered by FaceID. Records may be
// deleted from the entry while iterating the returned slice.
func (e *PitEntry) InRecords() []*PitInRecord {
	records := make([]*PitInRecord, 0, len(e.inRecords))
	for _, record := range e.inRecords {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Face.FaceID() < records[j].Face.FaceID() })
	return records
}

// InRecord returns the in-record for the specified face, or nil if there is none.
func (e *PitEntry) InRecord(faceID uint64) *PitInRecord {
	return e.inRecords[faceID]
}

// HasInRecords returns whether any downstream is still waiting on the entry.
func (e *PitEntry) HasInRecords() bool {
	return len(e.inRecords) > 0
}

// InsertOrUpdateInRecord records an Interest received on the specified face. The expiration time
// of the record is derived from the lifetime of the Interest.
func (e *PitEntry) InsertOrUpdateInRecord(inFace face.Face, interest *ndn.Interest, now time.Time) *PitInRecord {
	record, ok := e.inRecords[inFace.FaceID()]
	if !ok {
		record = &PitInRecord{Face: inFace}
		e.inRecords[inFace.FaceID()] = record
	}
	record.Interest = interest
	record.LatestNonce = interest.Nonce()
	record.LastRenewed = now
	record.ExpirationTime = now.Add(interest.Lifetime())
	return record
}

// DeleteInRecord removes the in-record for the specified face, if any.
func (e *PitEntry) DeleteInRecord(faceID uint64) {
	delete(e.inRecords, faceID)
}

// ClearInRecords removes every in-record of the entry.
func (e *PitEntry) ClearInRecords() {
	e.inRecords = make(map[uint64]*PitInRecord)
}

// OutRecords returns a snapshot of the out-records of the entry, ordered by FaceID.
func (e *PitEntry) OutRecords() []*PitOutRecord {
	records := make([]*PitOutRecord, 0, len(e.outRecords))
	for _, record := range e.outRecords {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Face.FaceID() < records[j].Face.FaceID() })
	return records
}

// OutRecord returns the out-record for the specified face, or nil if there is none.
func (e *PitEntry) OutRecord(faceID uint64) *PitOutRecord {
	return e.outRecords[faceID]
}

// InsertOrUpdateOutRecord records an Interest forwarded to the specified face.
func (e *PitEntry) InsertOrUpdateOutRecord(outFace face.Face, interest *ndn.Interest, now time.Time) *PitOutRecord {
	record, ok := e.outRecords[outFace.FaceID()]
	if !ok {
		record = &PitOutRecord{Face: outFace}
		e.outRecords[outFace.FaceID()] = record
	}
	record.Interest = interest
	record.LatestNonce = interest.Nonce()
	record.LastRenewed = now
	record.ExpirationTime = now.Add(interest.Lifetime())
	record.IncomingNack = nil
	return record
}

// DeleteOutRecord removes the out-record for the specified face, if any.
func (e *PitEntry) DeleteOutRecord(faceID uint64) {
	delete(e.outRecords, faceID)
}

// UpdateExpirationTime sets the expiration time of the entry to the latest expiration time of its
// in-records.
func (e *PitEntry) UpdateExpirationTime() {
	e.ExpirationTime = time.Time{}
	for _, record := range e.inRecords {
		if record.ExpirationTime.After(e.ExpirationTime) {
			e.ExpirationTime = record.ExpirationTime
		}
	}
}

// SelectDelegation records the chosen Link delegation on the Interest of every current in-record,
// and on the Interest of the entry itself, so that later FIB lookups for this entry use it directly.
func (e *PitEntry) SelectDelegation(delegation ndn.Name) {
	core.LogTrace(e, "Selected delegation ", delegation)
	for _, record := range e.inRecords {
		record.Interest.SetSelectedDelegation(delegation)
	}
	e.interest.SetSelectedDelegation(delegation)
}

// Pit is the Pending Interest Table of a forwarder. It is accessed only from the forwarding thread.
type Pit struct {
	entries  map[uint64][]*PitEntry
	nEntries int
}

// NewPit creates an empty PIT.
func NewPit() *Pit {
	return &Pit{entries: make(map[uint64][]*PitEntry)}
}

func (p *Pit) String() string {
	return "PIT"
}

func canMatch(entry *PitEntry, interest *ndn.Interest) bool {
	return entry.interest.Name().Equal(interest.Name()) &&
		entry.interest.CanBePrefix() == interest.CanBePrefix() &&
		entry.interest.MustBeFresh() == interest.MustBeFresh()
}

// Find returns the entry matching the specified Interest (same name and selectors), or nil.
func (p *Pit) Find(interest *ndn.Interest) *PitEntry {
	for _, entry := range p.entries[hashName(interest.Name())] {
		if canMatch(entry, interest) {
			return entry
		}
	}
	return nil
}

// FindOrInsert returns the entry matching the specified Interest, creating one if needed. The
// second return value is true if the entry was created.
func (p *Pit) FindOrInsert(interest *ndn.Interest) (*PitEntry, bool) {
	if entry := p.Find(interest); entry != nil {
		return entry, false
	}

	entry := &PitEntry{
		interest:   interest,
		inRecords:  make(map[uint64]*PitInRecord),
		outRecords: make(map[uint64]*PitOutRecord),
		pit:        p,
		hash:       hashName(interest.Name()),
	}
	p.entries[entry.hash] = append(p.entries[entry.hash], entry)
	p.nEntries++
	core.LogTrace(p, "Inserted entry for ", interest.Name())
	return entry, true
}

// FindAllDataMatches returns every entry that can be satisfied by the specified Data.
func (p *Pit) FindAllDataMatches(data *ndn.Data) []*PitEntry {
	var matches []*PitEntry
	name := data.Name()
	for size := len(name); size >= 0; size-- {
		for _, entry := range p.entries[hashName(name[:size])] {
			if entry.interest.MatchesData(data) {
				matches = append(matches, entry)
			}
		}
	}
	return matches
}

// Erase removes the specified entry from the PIT.
func (p *Pit) Erase(entry *PitEntry) {
	if entry == nil || entry.pit != p {
		return
	}

	bucket := p.entries[entry.hash]
	for i, existing := range bucket {
		if existing == entry {
			if len(bucket) == 1 {
				delete(p.entries, entry.hash)
			} else {
				p.entries[entry.hash] = append(bucket[:i:i], bucket[i+1:]...)
			}
			p.nEntries--
			entry.pit = nil
			core.LogTrace(p, "Erased entry for ", entry.Name())
			return
		}
	}
}

// Size returns the number of entries in the PIT.
func (p *Pit) Size() int {
	return p.nEntries
}

// ExpiredEntries returns the entries whose expiration time is not after now, ordered by expiration
// time.
func (p *Pit) ExpiredEntries(now time.Time) []*PitEntry {
	var expired []*PitEntry
	for _, bucket := range p.entries {
		for _, entry := range bucket {
			if !entry.ExpirationTime.IsZero() && !entry.ExpirationTime.After(now) {
				expired = append(expired, entry)
			}
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpirationTime.Before(expired[j].ExpirationTime) })
	return expired
}
