/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/named-data/ndnfw/core"
)

// managementPrefix is the namespace under which management commands and datasets are served.
const managementPrefix = "/localhost/nfd"

// enableManagement determines whether the forwarder answers management Interests.
var enableManagement = true

// commandRate is the number of management Interests answered per second, or 0 for no limit.
var commandRate = 0

// commandBurst is the number of management Interests that may be answered at once above commandRate.
var commandBurst = 10

// metricsAddress is the address on which Prometheus metrics are served, or empty to disable them.
var metricsAddress = ""

// Configure configures the management system.
func Configure() {
	enableManagement = core.GetConfigBoolDefault("mgmt.enabled", true)
	commandRate = core.GetConfigIntDefault("mgmt.command_rate", 0)
	commandBurst = core.GetConfigIntDefault("mgmt.command_burst", 10)
	metricsAddress = core.GetConfigStringDefault("mgmt.metrics_address", "")
}

// Enabled returns whether management is enabled.
func Enabled() bool {
	return enableManagement
}

// MetricsAddress returns the address on which Prometheus metrics are served, or empty if disabled.
func MetricsAddress() string {
	return metricsAddress
}
