/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cornelk/hashmap"
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
)

// DefaultMeasurementsLifetime is the initial lifetime of a measurements entry.
const DefaultMeasurementsLifetime = 4 * time.Second

// MeasurementsEntry holds the measurements a strategy keeps for one namespace. Values are stored in a
// lock-free map so that counters can be updated with compare-and-swap.
type MeasurementsEntry struct {
	name   ndn.Name
	values hashmap.HashMap
	// expiry is a UnixNano timestamp.
	expiry int64
}

// Name returns the namespace of the entry.
func (e *MeasurementsEntry) Name() ndn.Name {
	return e.name
}

// Get returns the measurement value at the specified key or nil if it does not exist.
func (e *MeasurementsEntry) Get(key string) interface{} {
	value, isOk := e.values.GetStringKey(key)
	if !isOk {
		return nil
	}
	return value
}

// Set atomically sets the value of the specified key only if it is equal to the expected value,
// returning whether the operation was successful.
func (e *MeasurementsEntry) Set(key string, expected interface{}, value interface{}) bool {
	return e.values.Cas(key, expected, value)
}

// AddToInt adds the specified value to the given key, setting it as the value if uninitialized.
func (e *MeasurementsEntry) AddToInt(key string, value int) int {
	for {
		expected := e.Get(key)
		if expected == nil {
			if _, loaded := e.values.GetOrInsert(key, value); !loaded {
				return value
			}
			continue
		}
		if e.Set(key, expected, expected.(int)+value) {
			return expected.(int) + value
		}
	}
}

// AddSampleToEWMA adds a sample to the exponentially weighted moving average stored at key.
// The first sample initializes the average.
func (e *MeasurementsEntry) AddSampleToEWMA(key string, measurement float64, alpha float64) float64 {
	for {
		expected := e.Get(key)
		if expected == nil {
			if _, loaded := e.values.GetOrInsert(key, measurement); !loaded {
				return measurement
			}
			continue
		}
		newValue := alpha*measurement + (1-alpha)*expected.(float64)
		if e.Set(key, expected, newValue) {
			return newValue
		}
	}
}

// ExtendLifetime makes the entry live at least until now+lifetime.
func (e *MeasurementsEntry) ExtendLifetime(now time.Time, lifetime time.Duration) {
	newExpiry := now.Add(lifetime).UnixNano()
	for {
		oldExpiry := atomic.LoadInt64(&e.expiry)
		if oldExpiry >= newExpiry || atomic.CompareAndSwapInt64(&e.expiry, oldExpiry, newExpiry) {
			return
		}
	}
}

// Expiry returns the time after which the entry can be cleaned up.
func (e *MeasurementsEntry) Expiry() time.Time {
	return time.Unix(0, atomic.LoadInt64(&e.expiry))
}

// Measurements is the measurements table of a forwarder.
type Measurements struct {
	table hashmap.HashMap
	clock clock.Clock
}

// NewMeasurements creates an empty measurements table.
func NewMeasurements() *Measurements {
	return &Measurements{clock: clock.New()}
}

// SetClock replaces the clock used to set the initial lifetime of new entries.
func (m *Measurements) SetClock(c clock.Clock) {
	m.clock = c
}

func (m *Measurements) String() string {
	return "Measurements"
}

// Get returns the entry for the specified name, creating it if needed.
func (m *Measurements) Get(name ndn.Name) *MeasurementsEntry {
	key := name.String()
	if entry, ok := m.table.GetStringKey(key); ok {
		return entry.(*MeasurementsEntry)
	}

	entry := &MeasurementsEntry{name: name.DeepCopy()}
	entry.ExtendLifetime(m.clock.Now(), DefaultMeasurementsLifetime)
	actual, loaded := m.table.GetOrInsert(key, entry)
	if !loaded {
		core.LogTrace(m, "Created entry for ", name)
	}
	return actual.(*MeasurementsEntry)
}

// Find returns the entry for the specified name, or nil if it does not exist.
func (m *Measurements) Find(name ndn.Name) *MeasurementsEntry {
	if entry, ok := m.table.GetStringKey(name.String()); ok {
		return entry.(*MeasurementsEntry)
	}
	return nil
}

// FindLongestPrefixMatch returns the existing entry with the longest prefix of name that satisfies
// pred, or nil. A nil pred accepts every entry.
func (m *Measurements) FindLongestPrefixMatch(name ndn.Name, pred func(*MeasurementsEntry) bool) *MeasurementsEntry {
	for size := len(name); size >= 0; size-- {
		if entry := m.Find(name[:size]); entry != nil && (pred == nil || pred(entry)) {
			return entry
		}
	}
	return nil
}

// Parent returns the entry of the parent namespace, creating it if needed. The root entry has no
// parent.
func (m *Measurements) Parent(entry *MeasurementsEntry) *MeasurementsEntry {
	if len(entry.name) == 0 {
		return nil
	}
	return m.Get(entry.name.Prefix(-1))
}

// Size returns the number of entries in the table.
func (m *Measurements) Size() int {
	return m.table.Len()
}

// Cleanup removes the entries that expired at or before now, returning how many were removed.
func (m *Measurements) Cleanup(now time.Time) int {
	var expired []string
	for kv := range m.table.Iter() {
		if !kv.Value.(*MeasurementsEntry).Expiry().After(now) {
			expired = append(expired, kv.Key.(string))
		}
	}
	for _, key := range expired {
		m.table.Del(key)
	}
	return len(expired)
}
