/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import (
	"encoding/binary"
	"math"

	"github.com/named-data/ndnfw/ndn/util"
)

// EncodeNNI encodes a non-negative integer in the shortest of the 1, 2, 4 or 8 octet forms.
func EncodeNNI(v uint64) []byte {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, v)

	if v <= math.MaxUint8 {
		return value[7:]
	} else if v <= math.MaxUint16 {
		return value[6:]
	} else if v <= math.MaxUint32 {
		return value[4:]
	}
	return value
}

// IsValidNNILength returns whether a buffer of the specified length can hold a non-negative integer.
func IsValidNNILength(length int) bool {
	return length == 1 || length == 2 || length == 4 || length == 8
}

// DecodeNNI decodes a non-negative integer.
func DecodeNNI(value []byte) (uint64, error) {
	if len(value) > 8 {
		return 0, util.ErrTooLong
	} else if len(value) == 0 {
		return 0, util.ErrTooShort
	} else if !IsValidNNILength(len(value)) {
		return 0, util.ErrOutOfRange
	}

	// Pad buffer
	buf := make([]byte, 8)
	copy(buf[8-len(value):], value)
	return binary.BigEndian.Uint64(buf), nil
}
