/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/named-data/ndnfw/cmd"
	"github.com/named-data/ndnfw/core"
)

// Version of the forwarder.
var Version string

// BuildTime contains the timestamp of when the version of the forwarder was built.
var BuildTime string

func main() {
	core.Version = Version
	core.BuildTime = BuildTime

	tree := cmd.CmdTree{
		Name: "ndnfw",
		Help: "NDN forwarder with pluggable strategies",
		Sub: []*cmd.CmdTree{{
			Name: "run",
			Help: "Start the forwarder",
			Fun:  runDaemon,
		}, {
			Name: "strategies",
			Help: "List the registered strategies",
			Fun:  listStrategies,
		}, {
			Name: "version",
			Help: "Print version and exit",
			Fun:  printVersion,
		}},
	}

	args := os.Args
	args[0] = tree.Name
	tree.Execute(args)
}

func runDaemon(args []string) {
	config := &DaemonConfig{}

	flagset := flag.NewFlagSet(args[0], flag.ExitOnError)
	flagset.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", args[0])
		flagset.PrintDefaults()
	}
	flagset.StringVar(&config.ConfigFileName, "config", "", "Path to the TOML configuration file")
	flagset.StringVar(&config.StrategyDir, "strategy-dir", "", "Directory of strategy plugins to load")
	flagset.StringVar(&config.CpuProfile, "cpu-profile", "", "Enable CPU profiling (output to specified file)")
	flagset.StringVar(&config.MemProfile, "mem-profile", "", "Enable memory profiling (output to specified file)")
	flagset.StringVar(&config.BlockProfile, "block-profile", "", "Enable block profiling (output to specified file)")
	flagset.Parse(args[1:])

	daemon, err := NewDaemon(config)
	if err != nil {
		core.LogFatal("Main", err)
	}
	daemon.Start()

	// Set up signal handler channel and wait for interrupt
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-sigChannel
	core.LogInfo("Main", "Received signal ", receivedSig, " - exiting")

	daemon.Stop()
}

func listStrategies(args []string) {
	flagset := flag.NewFlagSet(args[0], flag.ExitOnError)
	var configFileName, strategyDir string
	flagset.StringVar(&configFileName, "config", "", "Path to the TOML configuration file")
	flagset.StringVar(&strategyDir, "strategy-dir", "", "Directory of strategy plugins to load")
	flagset.Parse(args[1:])

	loadConfiguration(configFileName)
	defer core.ShutdownLogger()
	for _, strategyName := range newRegistry(strategyDir).ListRegistered() {
		fmt.Println(strategyName)
	}
}

func printVersion([]string) {
	fmt.Println("ndnfw: NDN forwarder with pluggable strategies")
	fmt.Println("Version " + core.Version + " (Built " + core.BuildTime + ")")
	fmt.Println("Released under the terms of the MIT License")
}
