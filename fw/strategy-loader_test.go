/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePluginDirFile(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStrategyPluginsSkipsNonPlugins(t *testing.T) {
	registry := newTestRegistry()
	before := registry.ListRegistered()

	dir := t.TempDir()
	writePluginDirFile(t, dir, "readme.txt", "not a plugin")
	writePluginDirFile(t, dir, "nested/strategy.go", "package main")

	nLoaded, skipped := loadStrategyPlugins(dir, registry)
	assert.Equal(t, 0, nLoaded)
	assert.Empty(t, skipped)
	assert.Equal(t, before, registry.ListRegistered())
	assert.Equal(t, 0, LoadStrategyPlugins(dir, registry))
}

func TestLoadStrategyPluginsSkipsBrokenPlugins(t *testing.T) {
	registry := newTestRegistry()
	before := registry.ListRegistered()

	dir := t.TempDir()
	first := writePluginDirFile(t, dir, "a-broken.so", "not an ELF")
	writePluginDirFile(t, dir, "b-readme.txt", "not a plugin")
	nested := writePluginDirFile(t, dir, "c/broken.so", "")
	last := writePluginDirFile(t, dir, "z-broken.so", "still not an ELF")

	// Every broken plugin is reported, so the walk continued past each failure
	nLoaded, skipped := loadStrategyPlugins(dir, registry)
	assert.Equal(t, 0, nLoaded)
	assert.Equal(t, []string{first, nested, last}, skipped)
	assert.Equal(t, before, registry.ListRegistered())

	assert.Equal(t, 0, LoadStrategyPlugins(dir, registry))
	assert.Equal(t, before, registry.ListRegistered())
}

func TestLoadStrategyPluginsMissingDirectory(t *testing.T) {
	registry := newTestRegistry()
	before := registry.ListRegistered()
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	nLoaded, skipped := loadStrategyPlugins(dir, registry)
	assert.Equal(t, 0, nLoaded)
	assert.Equal(t, []string{dir}, skipped)
	assert.Equal(t, before, registry.ListRegistered())
	assert.Equal(t, 0, LoadStrategyPlugins(dir, registry))
}

func TestOpenStrategyPluginCorrupt(t *testing.T) {
	path := writePluginDirFile(t, t.TempDir(), "broken.so", "not an ELF")
	strategyName, factory, err := openStrategyPlugin(path)
	assert.Error(t, err)
	assert.Nil(t, strategyName)
	assert.Nil(t, factory)
}
