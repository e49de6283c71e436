/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"testing"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVersionedRegistry() *Registry {
	registry := NewRegistry()
	for _, uri := range []string{
		"/strategyA/%FD%01",
		"/strategyA/%FD%03",
		"/strategyA/%FD%05",
		"/strategyB/%FD%01",
		"/strategyAB/%FD%09",
	} {
		registry.Register(name(uri), newRecordingFactory(name(uri)))
	}
	return registry
}

func findName(registry *Registry, uri string) string {
	entry := registry.Find(name(uri))
	if entry == nil {
		return ""
	}
	return entry.Name().String()
}

func TestRegistryFindUnversioned(t *testing.T) {
	registry := newVersionedRegistry()

	assert.Equal(t, "/strategyA/%FD%05", findName(registry, "/strategyA"))
	assert.Equal(t, "/strategyB/%FD%01", findName(registry, "/strategyB"))
	assert.Equal(t, "/strategyAB/%FD%09", findName(registry, "/strategyAB"))
	assert.Equal(t, "", findName(registry, "/strategyC"))
	assert.Equal(t, "", findName(registry, "/"))
	assert.Equal(t, "", findName(registry, "/strategyA/sub"))
}

func TestRegistryFindVersioned(t *testing.T) {
	registry := newVersionedRegistry()

	// Exact version
	assert.Equal(t, "/strategyA/%FD%01", findName(registry, "/strategyA/%FD%01"))
	assert.Equal(t, "/strategyA/%FD%03", findName(registry, "/strategyA/%FD%03"))
	// Between registered versions resolves to the next higher one
	assert.Equal(t, "/strategyA/%FD%03", findName(registry, "/strategyA/%FD%02"))
	assert.Equal(t, "/strategyA/%FD%05", findName(registry, "/strategyA/%FD%04"))
	assert.Equal(t, "/strategyA/%FD%01", findName(registry, "/strategyA/%FD%00"))
	// Higher than every registered version
	assert.Equal(t, "", findName(registry, "/strategyA/%FD%06"))
	assert.Equal(t, "", findName(registry, "/strategyA/%FD%01%00"))
	assert.Equal(t, "", findName(registry, "/strategyB/%FD%02"))
	// Parameters do not take part in resolution
	assert.Equal(t, "/strategyA/%FD%03", findName(registry, "/strategyA/%FD%03/param/x"))
	assert.Equal(t, "", findName(registry, "/strategyC/%FD%01"))
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	assert.Panics(t, func() { registry.Register(name("/strategyA"), newRecordingFactory(name("/strategyA/%FD%01"))) })
	assert.Panics(t, func() { registry.Register(name("/"), newRecordingFactory(name("/strategyA/%FD%01"))) })
	assert.Equal(t, 0, len(registry.ListRegistered()))

	registry.Register(name("/strategyB/%FD%01"), newRecordingFactory(name("/strategyB/%FD%01")))
	registry.Register(name("/strategyA/%FD%01"), newRecordingFactory(name("/strategyA/%FD%01")))
	entry := registry.Find(name("/strategyA"))
	require.NotNil(t, entry)

	// Registering again replaces the factory, not the entry
	registry.Register(name("/strategyA/%FD%01"), newRecordingFactory(name("/strategyA/%FD%01")))
	assert.Same(t, entry, registry.Find(name("/strategyA")))

	registered := registry.ListRegistered()
	require.Equal(t, 2, len(registered))
	assert.ElementsMatch(t, []string{"/strategyA/%FD%01", "/strategyB/%FD%01"},
		[]string{registered[0].String(), registered[1].String()})
}

func TestRegistryCreate(t *testing.T) {
	registry := newVersionedRegistry()
	RegisterBuiltinStrategies(registry)
	fwd, err := NewForwarder(registry)
	require.NoError(t, err)
	defer fwd.Close()

	assert.True(t, registry.CanCreate(name("/strategyA/%FD%02")))
	assert.False(t, registry.CanCreate(name("/strategyA/%FD%07")))
	assert.Nil(t, registry.Create(name("/strategyA/%FD%07"), fwd))

	// The factory receives the requested name
	strategy := registry.Create(name("/strategyA/%FD%02/param"), fwd)
	require.NotNil(t, strategy)
	defer strategy.Close()
	recording := strategy.(*recordingStrategy)
	assert.Equal(t, "/strategyA/%FD%02/param", recording.requestedName.String())
	assert.Equal(t, "/strategyA/%FD%02/param", strategy.InstanceName().String())

	unversioned := registry.Create(name("/strategyA"), fwd)
	require.NotNil(t, unversioned)
	defer unversioned.Close()
	assert.Equal(t, "/strategyA/%FD%05", unversioned.InstanceName().String())
}

func TestRegistryCreateEmptyInstanceName(t *testing.T) {
	registry := NewRegistry()
	RegisterBuiltinStrategies(registry)
	registry.Register(name("/broken/%FD%01"), func(fwd *Forwarder, instanceName ndn.Name) Strategy {
		s := new(recordingStrategy)
		s.NewStrategyBase(fwd, s)
		return s
	})
	fwd, err := NewForwarder(registry)
	require.NoError(t, err)
	defer fwd.Close()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)
		_, ok := recovered.(*core.InvariantError)
		assert.True(t, ok)
	}()
	registry.Create(name("/broken"), fwd)
}

func TestRegistryAreSameType(t *testing.T) {
	registry := newVersionedRegistry()

	assert.True(t, registry.AreSameType(name("/strategyB/%FD%01"), name("/strategyB")))
	assert.True(t, registry.AreSameType(name("/strategyB"), name("/strategyB/%FD%01")))
	assert.True(t, registry.AreSameType(name("/strategyA"), name("/strategyA/%FD%04/param")))
	assert.True(t, registry.AreSameType(name("/strategyA/%FD%04"), name("/strategyA/%FD%05")))
	assert.False(t, registry.AreSameType(name("/strategyA"), name("/strategyA/%FD%01")))
	assert.False(t, registry.AreSameType(name("/strategyA"), name("/strategyB")))
	assert.False(t, registry.AreSameType(name("/strategyA"), name("/strategyAB")))
	assert.True(t, registry.AreSameType(name("/strategyA/%FD%02"), name("/strategyA/%FD%02")))

	// Unregistered names all resolve to no entry
	assert.True(t, registry.AreSameType(name("/nope"), name("/other")))
	assert.False(t, registry.AreSameType(name("/nope"), name("/strategyA")))
}

func TestParseInstanceName(t *testing.T) {
	parsed := ParseInstanceName(name("/strategyA/%FD%03/param/x"))
	assert.Equal(t, "/strategyA/%FD%03", parsed.StrategyName.String())
	require.NotNil(t, parsed.Version)
	assert.Equal(t, uint64(3), *parsed.Version)
	assert.Equal(t, "/param/x", parsed.Parameters.String())

	// The last version component is the split point
	parsed = ParseInstanceName(name("/strategyA/%FD%03/%FD%04"))
	assert.Equal(t, "/strategyA/%FD%03/%FD%04", parsed.StrategyName.String())
	assert.Equal(t, uint64(4), *parsed.Version)
	assert.Equal(t, 0, len(parsed.Parameters))

	// Typed version components
	parsed = ParseInstanceName(name("/strategyA/v=7"))
	require.NotNil(t, parsed.Version)
	assert.Equal(t, uint64(7), *parsed.Version)

	// Unversioned
	parsed = ParseInstanceName(name("/strategyA/param"))
	assert.Equal(t, "/strategyA/param", parsed.StrategyName.String())
	assert.Nil(t, parsed.Version)
	assert.Equal(t, 0, len(parsed.Parameters))

	// The first component is never a version
	parsed = ParseInstanceName(name("/%FD%01"))
	assert.Nil(t, parsed.Version)
	assert.Equal(t, "/%FD%01", parsed.StrategyName.String())
}

func TestParseInstanceNameRoundTrip(t *testing.T) {
	prefix := name("/localhost/nfd/strategy/x")
	suffix := name("/a/b")
	for _, version := range []uint64{0, 1, 255, 256, 70000} {
		input := prefix.Append(ndn.NewVersionComponent(version)).Append(suffix...)
		parsed := ParseInstanceName(input)
		assert.True(t, prefix.Append(ndn.NewVersionComponent(version)).Equal(parsed.StrategyName))
		require.NotNil(t, parsed.Version)
		assert.Equal(t, version, *parsed.Version)
		assert.True(t, suffix.Equal(parsed.Parameters))
	}
}

func TestMakeInstanceName(t *testing.T) {
	canonical := name("/strategyA/%FD%05")

	made := MakeInstanceName(name("/strategyA"), canonical)
	assert.Equal(t, "/strategyA/%FD%05", made.String())
	assert.True(t, made.Equal(MakeInstanceName(made, canonical)))

	versioned := name("/strategyA/%FD%02/param")
	assert.True(t, versioned.Equal(MakeInstanceName(versioned, canonical)))
	assert.True(t, versioned.Equal(MakeInstanceName(MakeInstanceName(versioned, canonical), canonical)))

	assert.Panics(t, func() { MakeInstanceName(name("/strategyA"), name("/strategyA")) })
	assert.Panics(t, func() { MakeInstanceName(name("/strategyA"), name("/")) })
}
