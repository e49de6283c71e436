/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
)

// deadNonceListLifetime is the lifetime of entries in the dead nonce list.
var deadNonceListLifetime = 6 * time.Second

// producerRegions contains the prefixes produced in this forwarder's region.
var producerRegions []ndn.Name

// Configure configures the tables from the loaded configuration. It must be called before tables are
// created.
func Configure() {
	// Dead Nonce List
	deadNonceListLifetime = time.Duration(core.GetConfigIntDefault("tables.dead_nonce_list.lifetime", 6000)) * time.Millisecond

	// Network Region Table
	producerRegions = producerRegions[:0]
	for _, region := range core.GetConfigArrayString("tables.network_region.regions") {
		name, err := ndn.NameFromString(region)
		if err != nil {
			core.LogFatal("NetworkRegionTable", "Could not add name=", region, " to table: ", err)
		}
		producerRegions = append(producerRegions, name)
		core.LogDebug("NetworkRegionTable", "Added name=", region, " to table")
	}
}
