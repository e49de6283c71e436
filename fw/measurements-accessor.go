/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"github.com/named-data/ndnfw/ndn"
	"github.com/named-data/ndnfw/table"
)

// MeasurementsAccessor gives a strategy access to the measurements of the namespaces in which it is
// the effective strategy. Entries of other namespaces are hidden.
type MeasurementsAccessor struct {
	forwarder *Forwarder
	strategy  Strategy
}

func newMeasurementsAccessor(fwd *Forwarder, strategy Strategy) *MeasurementsAccessor {
	return &MeasurementsAccessor{forwarder: fwd, strategy: strategy}
}

func (m *MeasurementsAccessor) isAccessible(entry *table.MeasurementsEntry) bool {
	return m.forwarder.strategyChoice.FindEffectiveStrategy(entry.Name()) == m.strategy
}

func (m *MeasurementsAccessor) filter(entry *table.MeasurementsEntry) *table.MeasurementsEntry {
	if entry == nil || !m.isAccessible(entry) {
		return nil
	}
	return entry
}

// Get returns the entry for the specified name, creating it if needed, or nil if not accessible.
func (m *MeasurementsAccessor) Get(name ndn.Name) *table.MeasurementsEntry {
	return m.filter(m.forwarder.measurements.Get(name))
}

// GetFromPitEntry returns the entry for the name of a PIT entry.
func (m *MeasurementsAccessor) GetFromPitEntry(pitEntry *table.PitEntry) *table.MeasurementsEntry {
	return m.Get(pitEntry.Name())
}

// GetFromFibEntry returns the entry for the prefix of a FIB entry.
func (m *MeasurementsAccessor) GetFromFibEntry(fibEntry *table.FibEntry) *table.MeasurementsEntry {
	return m.Get(fibEntry.Prefix())
}

// Find returns the existing entry for the specified name, or nil.
func (m *MeasurementsAccessor) Find(name ndn.Name) *table.MeasurementsEntry {
	return m.filter(m.forwarder.measurements.Find(name))
}

// FindLongestPrefixMatch returns the accessible existing entry with the longest prefix of name.
func (m *MeasurementsAccessor) FindLongestPrefixMatch(name ndn.Name) *table.MeasurementsEntry {
	return m.forwarder.measurements.FindLongestPrefixMatch(name, m.isAccessible)
}

// Parent returns the entry of the parent namespace of entry, or nil.
func (m *MeasurementsAccessor) Parent(entry *table.MeasurementsEntry) *table.MeasurementsEntry {
	return m.filter(m.forwarder.measurements.Parent(entry))
}
