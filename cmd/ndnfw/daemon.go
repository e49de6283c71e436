/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"fmt"
	"time"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/fw"
	"github.com/named-data/ndnfw/mgmt"
	"github.com/named-data/ndnfw/ndn"
	"github.com/named-data/ndnfw/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DaemonConfig is the command line configuration of the forwarder daemon.
type DaemonConfig struct {
	ConfigFileName string
	StrategyDir    string
	CpuProfile     string
	MemProfile     string
	BlockProfile   string
}

// Daemon is a forwarder together with its management and strategies.
type Daemon struct {
	config    *DaemonConfig
	profiler  *Profiler
	forwarder *fw.Forwarder
	manager   *mgmt.Manager
	metrics   *MetricsServer
}

// loadConfiguration loads the configuration file, if any, and configures every subsystem.
func loadConfiguration(configFileName string) {
	if configFileName != "" {
		core.LoadConfig(configFileName)
	}
	core.InitializeLogger(core.GetConfigStringDefault("core.log_file", ""))
	table.Configure()
	fw.Configure()
	mgmt.Configure()
}

// newRegistry creates a registry holding the built-in strategies and the plugins found in strategyDir.
func newRegistry(strategyDir string) *fw.Registry {
	registry := fw.NewRegistry()
	fw.RegisterBuiltinStrategies(registry)
	if strategyDir != "" {
		nLoaded := fw.LoadStrategyPlugins(strategyDir, registry)
		core.LogInfo("Main", "Loaded ", nLoaded, " strategy plugins from ", strategyDir)
	}
	return registry
}

// NewDaemon creates the forwarder described by the configuration.
func NewDaemon(config *DaemonConfig) (*Daemon, error) {
	core.StartTimestamp = time.Now()
	loadConfiguration(config.ConfigFileName)

	forwarder, err := fw.NewForwarder(newRegistry(config.StrategyDir))
	if err != nil {
		return nil, fmt.Errorf("unable to create forwarder: %w", err)
	}
	if err := applyStrategyChoices(forwarder, core.GetConfigStringMap("tables.strategy_choice")); err != nil {
		forwarder.Close()
		return nil, fmt.Errorf("unable to apply strategy choices: %w", err)
	}

	return &Daemon{
		config:    config,
		profiler:  NewProfiler(config.CpuProfile, config.MemProfile, config.BlockProfile),
		forwarder: forwarder,
	}, nil
}

// Start starts the forwarding thread.
func (d *Daemon) Start() {
	core.LogInfo("Main", "Starting forwarder")
	d.profiler.Start()

	d.forwarder.FaceTable().Add(face.MakeNullFace())
	if mgmt.Enabled() {
		d.manager = mgmt.NewManager(d.forwarder)
	}

	go d.forwarder.Run()

	if address := mgmt.MetricsAddress(); address != "" {
		var err error
		d.metrics, err = NewMetricsServer(address, d.forwarder)
		if err != nil {
			core.LogError("Main", "Unable to start metrics server on ", address, ": ", err)
		} else {
			go d.metrics.Serve()
		}
	}
}

// Stop stops the forwarding thread and releases the strategies.
func (d *Daemon) Stop() {
	core.LogInfo("Main", "Stopping forwarder")
	if d.metrics != nil {
		d.metrics.Shutdown()
	}
	d.forwarder.TellToQuit()
	<-d.forwarder.HasQuit
	d.forwarder.Close()
	d.profiler.Stop()
	core.ShutdownLogger()
}

// applyStrategyChoices sets the strategy of each configured prefix, in canonical prefix order.
func applyStrategyChoices(forwarder *fw.Forwarder, choices map[string]string) error {
	prefixes := make([]ndn.Name, 0, len(choices))
	instanceNames := make(map[string]string, len(choices))
	for _, prefixString := range maps.Keys(choices) {
		prefix, err := ndn.NameFromString(prefixString)
		if err != nil {
			return fmt.Errorf("invalid prefix %q: %w", prefixString, err)
		}
		prefixes = append(prefixes, prefix)
		instanceNames[prefix.String()] = choices[prefixString]
	}
	slices.SortFunc(prefixes, func(a, b ndn.Name) bool { return a.Compare(b) < 0 })

	for _, prefix := range prefixes {
		instanceName, err := ndn.NameFromString(instanceNames[prefix.String()])
		if err != nil {
			return fmt.Errorf("invalid strategy %q for %s: %w", instanceNames[prefix.String()], prefix, err)
		}
		if err := forwarder.StrategyChoice().Insert(prefix, instanceName); err != nil {
			return err
		}
	}
	return nil
}
