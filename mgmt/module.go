/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import "github.com/named-data/ndnfw/ndn"

// Module represents a management module
type Module interface {
	String() string
	registerManager(manager *Manager)
	getManager() *Manager
	// handleIncomingInterest returns the reply to encode as the content of the response Data, or nil
	// to drop the Interest.
	handleIncomingInterest(interest *ndn.Interest, verb string) interface{}
}
