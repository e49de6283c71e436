/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"github.com/named-data/ndnfw/ndn"
)

// NetworkRegionTable contains the producer region names of a forwarder.
type NetworkRegionTable struct {
	table []ndn.Name
}

// NewNetworkRegionTable creates a network region table holding the configured producer regions.
func NewNetworkRegionTable() *NetworkRegionTable {
	n := new(NetworkRegionTable)
	for _, region := range producerRegions {
		n.Add(region)
	}
	return n
}

func (n *NetworkRegionTable) String() string {
	return "NetworkRegionTable"
}

// Add adds a name to the network region table.
func (n *NetworkRegionTable) Add(name ndn.Name) {
	for _, region := range n.table {
		if region.Equal(name) {
			return
		}
	}
	n.table = append(n.table, name.DeepCopy())
}

// Regions returns the names in the table.
func (n *NetworkRegionTable) Regions() []ndn.Name {
	regions := make([]ndn.Name, len(n.table))
	copy(regions, n.table)
	return regions
}

// IsProducer returns whether an entry in the network region table is a prefix of the specified name.
func (n *NetworkRegionTable) IsProducer(name ndn.Name) bool {
	for _, region := range n.table {
		if region.PrefixOf(name) {
			return true
		}
	}
	return false
}

// IsInProducerRegion returns whether the forwarder is inside the producer region of the specified
// Link, that is, whether a delegation of the Link is a prefix of one of the region names.
func (n *NetworkRegionTable) IsInProducerRegion(link *ndn.Link) bool {
	if link == nil {
		return false
	}
	for _, region := range n.table {
		for _, delegation := range link.Delegations() {
			if delegation.Name.PrefixOf(region) {
				return true
			}
		}
	}
	return false
}
