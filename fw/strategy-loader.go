/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"plugin"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
)

// RegisterBuiltinStrategies registers the strategies shipped with the forwarder.
func RegisterBuiltinStrategies(registry *Registry) {
	registry.Register(BestRouteStrategyName, NewBestRoute)
	registry.Register(MulticastStrategyName, NewMulticast)
}

// LoadStrategyPlugins registers the strategies found in the Go plugins (*.so) under dir. A plugin
// must export a string StrategyName holding the canonical strategy name and a function NewStrategy
// of type func(*Forwarder, ndn.Name) Strategy. Returns the number of strategies registered.
func LoadStrategyPlugins(dir string, registry *Registry) int {
	nLoaded, _ := loadStrategyPlugins(dir, registry)
	return nLoaded
}

// loadStrategyPlugins walks dir and registers every loadable plugin. It returns the number of
// strategies registered and the paths that were skipped because of an error. Non-plugin files are
// neither loaded nor skipped.
func loadStrategyPlugins(dir string, registry *Registry) (int, []string) {
	nLoaded := 0
	var skipped []string
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			core.LogError("StrategyLoader", "Unable to load strategy ", path, ": ", err)
			skipped = append(skipped, path)
			return nil
		}
		if info.IsDir() || filepath.Ext(path) != ".so" {
			// Skip non-plugin files
			return nil
		}

		strategyName, factory, err := openStrategyPlugin(path)
		if err != nil {
			core.LogError("StrategyLoader", "Unable to load strategy ", path, ": ", err)
			skipped = append(skipped, path)
			return nil
		}

		registry.Register(strategyName, factory)
		core.LogDebug("StrategyLoader", "Loaded ", strategyName, " from ", path)
		nLoaded++
		return nil
	})
	return nLoaded, skipped
}

// openStrategyPlugin opens the plugin at path and resolves its StrategyName and NewStrategy symbols.
func openStrategyPlugin(path string) (ndn.Name, StrategyFactory, error) {
	strategyPlugin, err := plugin.Open(path)
	if err != nil {
		return nil, nil, err
	}

	nameSymbol, err := strategyPlugin.Lookup("StrategyName")
	if err != nil {
		return nil, nil, errors.New("StrategyName missing")
	}
	nameString, ok := nameSymbol.(*string)
	if !ok {
		return nil, nil, errors.New("StrategyName is not a string")
	}
	strategyName, err := ndn.NameFromString(*nameString)
	if err != nil || len(strategyName) == 0 || !strategyName.At(-1).IsVersion() {
		return nil, nil, fmt.Errorf("%s is not a versioned name", *nameString)
	}

	// Make sure the factory has the expected signature
	factorySymbol, err := strategyPlugin.Lookup("NewStrategy")
	if err != nil {
		return nil, nil, errors.New("NewStrategy missing")
	}
	factory, ok := factorySymbol.(func(*Forwarder, ndn.Name) Strategy)
	if !ok {
		return nil, nil, errors.New("NewStrategy does not satisfy the requirements of StrategyFactory")
	}
	return strategyName, factory, nil
}
