/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/named-data/ndnfw/ndn"
)

// hashName hashes a name component by component, so that names differing only in component
// boundaries or types hash differently.
func hashName(name ndn.Name) uint64 {
	digest := xxhash.New()
	var header [10]byte
	for _, component := range name {
		binary.BigEndian.PutUint16(header[:2], component.Typ)
		n := binary.PutUvarint(header[2:], uint64(len(component.Val)))
		digest.Write(header[:2+n])
		digest.Write(component.Val)
	}
	return digest.Sum64()
}
