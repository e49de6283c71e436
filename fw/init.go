/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/named-data/ndnfw/core"
)

// fwQueueSize is the maximum number of packets of each kind that can be buffered for the forwarding
// thread.
var fwQueueSize = 1024

// defaultStrategy is the instance name of the strategy chosen for the root namespace.
var defaultStrategy = StrategyPrefix + "/best-route"

// expiryCheckInterval is how often the forwarding thread expires PIT entries and cleans up tables.
var expiryCheckInterval = 100 * time.Millisecond

// Configure configures the forwarding system.
func Configure() {
	fwQueueSize = core.GetConfigIntDefault("fw.queue_size", 1024)
	defaultStrategy = core.GetConfigStringDefault("fw.default_strategy", StrategyPrefix+"/best-route")
	expiryCheckInterval = time.Duration(core.GetConfigIntDefault("fw.expiry_check_interval_ms", 100)) * time.Millisecond
}
