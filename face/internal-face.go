/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"strconv"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/ndn"
)

// InternalFace is a face to an in-process application. Every packet the forwarder sends on it is
// recorded and, if set, handed to the corresponding callback.
type InternalFace struct {
	faceID uint64
	scope  Scope

	OnInterest func(interest *ndn.Interest)
	OnData     func(data *ndn.Data)
	OnNack     func(nack *ndn.Nack)

	SentInterests []*ndn.Interest
	SentData      []*ndn.Data
	SentNacks     []*ndn.Nack
}

// MakeInternalFace makes an InternalFace with the specified scope.
func MakeInternalFace(scope Scope) *InternalFace {
	f := new(InternalFace)
	f.scope = scope
	return f
}

func (f *InternalFace) String() string {
	return "InternalFace, FaceID=" + strconv.FormatUint(f.faceID, 10)
}

// FaceID returns the FaceID of the face.
func (f *InternalFace) FaceID() uint64 {
	return f.faceID
}

// SetFaceID sets the FaceID of the face.
func (f *InternalFace) SetFaceID(faceID uint64) {
	f.faceID = faceID
}

// Scope returns the scope of the face.
func (f *InternalFace) Scope() Scope {
	return f.scope
}

// SendInterest records the Interest.
func (f *InternalFace) SendInterest(interest *ndn.Interest) {
	core.LogTrace(f, "Send Interest=", interest.Name())
	f.SentInterests = append(f.SentInterests, interest)
	if f.OnInterest != nil {
		f.OnInterest(interest)
	}
}

// SendData records the Data packet.
func (f *InternalFace) SendData(data *ndn.Data) {
	core.LogTrace(f, "Send Data=", data.Name())
	f.SentData = append(f.SentData, data)
	if f.OnData != nil {
		f.OnData(data)
	}
}

// SendNack records the Nack.
func (f *InternalFace) SendNack(nack *ndn.Nack) {
	core.LogTrace(f, "Send Nack=", nack.Interest().Name(), " Reason=", nack.Reason())
	f.SentNacks = append(f.SentNacks, nack)
	if f.OnNack != nil {
		f.OnNack(nack)
	}
}

// Reset forgets all recorded packets.
func (f *InternalFace) Reset() {
	f.SentInterests = nil
	f.SentData = nil
	f.SentNacks = nil
}
