/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"errors"
	"sort"
	"sync"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
	"golang.org/x/exp/slices"
)

// ErrUnknownStrategy is returned when no registered strategy matches an instance name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// StrategyFactory creates a strategy instance bound to a forwarder. It receives the instance name
// that was requested, which may omit the version or carry parameters.
type StrategyFactory func(fwd *Forwarder, instanceName ndn.Name) Strategy

// RegistryEntry associates a canonical strategy name with its factory.
type RegistryEntry struct {
	name    ndn.Name
	factory StrategyFactory
}

// Name returns the canonical (versioned) strategy name of the entry.
func (e *RegistryEntry) Name() ndn.Name {
	return e.name
}

// Registry maps canonical strategy names to factories. Entries are kept in canonical name order so
// that version resolution can use ordered queries.
type Registry struct {
	entries []*RegistryEntry
	mutex   sync.RWMutex
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return new(Registry)
}

func (r *Registry) String() string {
	return "StrategyRegistry"
}

// lowerBound returns the index of the first entry not less than name.
func (r *Registry) lowerBound(name ndn.Name) int {
	return sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].name.Compare(name) >= 0
	})
}

// Register registers a factory under a canonical strategy name, which must end with a version
// component. Registering the same name again replaces the factory.
func (r *Registry) Register(strategyName ndn.Name, factory StrategyFactory) {
	core.Assert(len(strategyName) > 0 && strategyName.At(-1).IsVersion(), r,
		"Strategy name ", strategyName, " does not end with a version component")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.lowerBound(strategyName)
	if i < len(r.entries) && r.entries[i].name.Equal(strategyName) {
		r.entries[i].factory = factory
		core.LogDebug(r, "Replaced factory of ", strategyName)
		return
	}
	r.entries = slices.Insert(r.entries, i, &RegistryEntry{name: strategyName.DeepCopy(), factory: factory})
	core.LogDebug(r, "Registered ", strategyName)
}

// Find resolves an instance name to a registry entry, or returns nil if no entry matches.
//
// A versioned instance name resolves to the exact version if registered, otherwise to the lowest
// registered version above it. An unversioned instance name resolves to the highest registered
// version.
func (r *Registry) Find(instanceName ndn.Name) *RegistryEntry {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	parsed := ParseInstanceName(instanceName)
	if parsed.Version != nil {
		i := r.lowerBound(parsed.StrategyName)
		if i < len(r.entries) && parsed.StrategyName.Prefix(-1).PrefixOf(r.entries[i].name) {
			core.LogTrace(r, "find ", instanceName, " versioned found=", r.entries[i].name)
			return r.entries[i]
		}
		core.LogTrace(r, "find ", instanceName, " versioned not-found")
		return nil
	}

	successor, err := parsed.StrategyName.Successor()
	if err != nil {
		core.LogTrace(r, "find ", instanceName, " unversioned not-found")
		return nil
	}
	i := r.lowerBound(successor)
	if i > 0 && parsed.StrategyName.PrefixOf(r.entries[i-1].name) {
		core.LogTrace(r, "find ", instanceName, " unversioned found=", r.entries[i-1].name)
		return r.entries[i-1]
	}
	core.LogTrace(r, "find ", instanceName, " unversioned not-found")
	return nil
}

// CanCreate returns whether a strategy can be created for the instance name.
func (r *Registry) CanCreate(instanceName ndn.Name) bool {
	return r.Find(instanceName) != nil
}

// Create creates a strategy instance bound to fwd, or returns nil if no registered strategy matches
// the instance name.
func (r *Registry) Create(instanceName ndn.Name, fwd *Forwarder) Strategy {
	entry := r.Find(instanceName)
	if entry == nil {
		core.LogDebug(r, "create ", instanceName, " not-found")
		return nil
	}

	strategy := entry.factory(fwd, instanceName)
	core.Assert(strategy != nil && len(strategy.InstanceName()) > 0, r,
		"Strategy created for ", instanceName, " has an empty instance name")
	core.LogDebug(r, "create ", instanceName, " found=", entry.name, " created=", strategy.InstanceName())
	return strategy
}

// AreSameType returns whether both instance names resolve to the same registry entry. Two names that
// resolve to no entry are of the same (unknown) type.
func (r *Registry) AreSameType(instanceNameA ndn.Name, instanceNameB ndn.Name) bool {
	return r.Find(instanceNameA) == r.Find(instanceNameB)
}

// ListRegistered returns the canonical names of all registered strategies.
func (r *Registry) ListRegistered() []ndn.Name {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]ndn.Name, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.name)
	}
	return names
}

// ParsedInstanceName is a strategy instance name split around its version component.
type ParsedInstanceName struct {
	// StrategyName is the name up to and including the version, or the whole name if unversioned.
	StrategyName ndn.Name
	// Version is nil if the name carries no version.
	Version *uint64
	// Parameters is the suffix after the version.
	Parameters ndn.Name
}

// ParseInstanceName splits an instance name at its last version component. The first component is
// never considered a version.
func ParseInstanceName(input ndn.Name) ParsedInstanceName {
	for i := len(input) - 1; i > 0; i-- {
		if version, err := input[i].ToVersion(); err == nil {
			return ParsedInstanceName{
				StrategyName: input.Prefix(i + 1),
				Version:      &version,
				Parameters:   input.SubName(i + 1),
			}
		}
	}
	return ParsedInstanceName{StrategyName: input, Parameters: ndn.Name{}}
}

// MakeInstanceName returns input unchanged if it contains a version component, otherwise input
// with the version of strategyName appended.
func MakeInstanceName(input ndn.Name, strategyName ndn.Name) ndn.Name {
	core.Assert(len(strategyName) > 0 && strategyName.At(-1).IsVersion(), "StrategyRegistry",
		"Strategy name ", strategyName, " does not end with a version component")

	if input.HasVersion() {
		return input
	}
	return input.Append(strategyName.At(-1))
}
