/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"strconv"

	"github.com/named-data/ndnfw/ndn"
)

// NullFace is a face that drops all packets.
type NullFace struct {
	faceID uint64
}

// MakeNullFace makes a NullFace.
func MakeNullFace() *NullFace {
	return new(NullFace)
}

func (f *NullFace) String() string {
	return "NullFace, FaceID=" + strconv.FormatUint(f.faceID, 10)
}

// FaceID returns the FaceID of the face.
func (f *NullFace) FaceID() uint64 {
	return f.faceID
}

// SetFaceID sets the FaceID of the face.
func (f *NullFace) SetFaceID(faceID uint64) {
	f.faceID = faceID
}

// Scope returns the scope of the face.
func (f *NullFace) Scope() Scope {
	return Local
}

// SendInterest drops the Interest.
func (f *NullFace) SendInterest(*ndn.Interest) {}

// SendData drops the Data packet.
func (f *NullFace) SendData(*ndn.Data) {}

// SendNack drops the Nack.
func (f *NullFace) SendNack(*ndn.Nack) {}
