/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/named-data/ndnfw/core"
)

// Profiler writes the CPU, memory and blocking profiles requested on the command line.
type Profiler struct {
	cpuProfile   string
	memProfile   string
	blockProfile string

	cpuFile *os.File
	block   *pprof.Profile
}

// NewProfiler creates a profiler. Empty paths disable the corresponding profile.
func NewProfiler(cpuProfile string, memProfile string, blockProfile string) *Profiler {
	return &Profiler{cpuProfile: cpuProfile, memProfile: memProfile, blockProfile: blockProfile}
}

// Start starts CPU and block profiling.
func (p *Profiler) Start() {
	if p.cpuProfile != "" {
		var err error
		p.cpuFile, err = os.Create(p.cpuProfile)
		if err != nil {
			core.LogFatal("Main", "Unable to open output file for CPU profile: ", err)
		}

		core.LogInfo("Main", "Profiling CPU - outputting to ", p.cpuProfile)
		pprof.StartCPUProfile(p.cpuFile)
	}

	if p.blockProfile != "" {
		core.LogInfo("Main", "Profiling blocking operations - outputting to ", p.blockProfile)
		runtime.SetBlockProfileRate(1)
		p.block = pprof.Lookup("block")
	}
}

// Stop stops profiling and writes the memory and block profiles.
func (p *Profiler) Stop() {
	if p.memProfile != "" {
		memProfileFile, err := os.Create(p.memProfile)
		if err != nil {
			core.LogFatal("Main", "Unable to open output file for memory profile: ", err)
		}

		core.LogInfo("Main", "Profiling memory - outputting to ", p.memProfile)
		runtime.GC()
		if err := pprof.WriteHeapProfile(memProfileFile); err != nil {
			core.LogFatal("Main", "Unable to write memory profile: ", err)
		}
		memProfileFile.Close()
	}

	if p.block != nil {
		blockProfileFile, err := os.Create(p.blockProfile)
		if err != nil {
			core.LogFatal("Main", "Unable to open output file for block profile: ", err)
		}
		if err := p.block.WriteTo(blockProfileFile, 0); err != nil {
			core.LogFatal("Main", "Unable to write block profile: ", err)
		}
		blockProfileFile.Close()
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
	}
}
