/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import "github.com/named-data/ndnfw/ndn"

// Scope indicates the scope of a face.
type Scope int

const (
	// Local indicates the face is local (to an application).
	Local Scope = iota
	// NonLocal indicates the face is non-local (to another forwarder).
	NonLocal
)

func (s Scope) String() string {
	if s == Local {
		return "local"
	}
	return "non-local"
}

// InvalidFaceID is never assigned to a face in a face table.
const InvalidFaceID uint64 = 0

// Face is an interface through which the forwarder exchanges packets with a neighbor or application.
// Transports and link services live behind this interface.
type Face interface {
	String() string
	FaceID() uint64
	SetFaceID(faceID uint64)
	Scope() Scope

	SendInterest(interest *ndn.Interest)
	SendData(data *ndn.Data)
	SendNack(nack *ndn.Nack)
}
