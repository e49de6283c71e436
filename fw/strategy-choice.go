/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"fmt"
	"sort"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
	"golang.org/x/exp/maps"
)

// StrategyChoiceEntry describes the strategy chosen for a namespace.
type StrategyChoiceEntry struct {
	Prefix       ndn.Name
	InstanceName ndn.Name
	strategy     Strategy
}

// StrategyChoice holds the strategy instance chosen for each namespace of a forwarder. The root
// namespace always has a strategy.
type StrategyChoice struct {
	forwarder *Forwarder
	entries   map[string]*StrategyChoiceEntry
}

func newStrategyChoice(fwd *Forwarder) *StrategyChoice {
	return &StrategyChoice{forwarder: fwd, entries: make(map[string]*StrategyChoiceEntry)}
}

func (sc *StrategyChoice) String() string {
	return "StrategyChoice"
}

// Insert sets the strategy for a namespace. The current instance is kept if it already has the
// requested instance name.
func (sc *StrategyChoice) Insert(prefix ndn.Name, instanceName ndn.Name) error {
	existing, ok := sc.entries[prefix.String()]
	if ok && existing.InstanceName.Equal(instanceName) {
		core.LogDebug(sc, "Kept Strategy=", instanceName, " for Prefix=", prefix)
		return nil
	}

	strategy := sc.forwarder.registry.Create(instanceName, sc.forwarder)
	if strategy == nil {
		core.LogWarn(sc, "Unknown Strategy=", instanceName, " for Prefix=", prefix)
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, instanceName)
	}

	if ok {
		existing.strategy.Close()
	}
	sc.entries[prefix.String()] = &StrategyChoiceEntry{
		Prefix:       prefix.DeepCopy(),
		InstanceName: strategy.InstanceName(),
		strategy:     strategy,
	}
	core.LogInfo(sc, "Set Strategy=", strategy.InstanceName(), " for Prefix=", prefix)
	return nil
}

// Erase unsets the strategy of a namespace, which then inherits the strategy of its parent. The
// root namespace cannot be erased.
func (sc *StrategyChoice) Erase(prefix ndn.Name) bool {
	if len(prefix) == 0 {
		core.LogWarn(sc, "Cannot unset the strategy of the root namespace")
		return false
	}

	entry, ok := sc.entries[prefix.String()]
	if !ok {
		return false
	}
	entry.strategy.Close()
	delete(sc.entries, prefix.String())
	core.LogInfo(sc, "Unset Strategy for Prefix=", prefix)
	return true
}

// Get returns the strategy chosen for exactly the specified namespace.
func (sc *StrategyChoice) Get(prefix ndn.Name) (Strategy, bool) {
	entry, ok := sc.entries[prefix.String()]
	if !ok {
		return nil, false
	}
	return entry.strategy, true
}

// FindEffectiveStrategy returns the strategy of the longest namespace containing name.
func (sc *StrategyChoice) FindEffectiveStrategy(name ndn.Name) Strategy {
	for size := len(name); size >= 0; size-- {
		if entry, ok := sc.entries[name[:size].String()]; ok {
			return entry.strategy
		}
	}
	return nil
}

// List returns the strategy choices in canonical prefix order.
func (sc *StrategyChoice) List() []StrategyChoiceEntry {
	entries := maps.Values(sc.entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Prefix.Compare(entries[j].Prefix) < 0 })

	out := make([]StrategyChoiceEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, *entry)
	}
	return out
}

// Size returns the number of namespaces with a chosen strategy.
func (sc *StrategyChoice) Size() int {
	return len(sc.entries)
}

func (sc *StrategyChoice) closeAll() {
	for _, entry := range sc.entries {
		entry.strategy.Close()
	}
}
