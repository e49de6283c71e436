/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import "strconv"

// NackReason represents the reason carried in a Nack header.
type NackReason uint64

// Nack reasons.
const (
	NackReasonNone       NackReason = 0
	NackReasonCongestion NackReason = 50
	NackReasonDuplicate  NackReason = 100
	NackReasonNoRoute    NackReason = 150
)

func (r NackReason) String() string {
	switch r {
	case NackReasonNone:
		return "None"
	case NackReasonCongestion:
		return "Congestion"
	case NackReasonDuplicate:
		return "Duplicate"
	case NackReasonNoRoute:
		return "NoRoute"
	default:
		return strconv.FormatUint(uint64(r), 10)
	}
}

// IsLessSevere returns whether r is less severe than other. Unknown reasons are treated like None,
// which is the most severe.
func (r NackReason) IsLessSevere(other NackReason) bool {
	return r.severity() < other.severity()
}

func (r NackReason) severity() int {
	switch r {
	case NackReasonCongestion:
		return 1
	case NackReasonDuplicate:
		return 2
	case NackReasonNoRoute:
		return 3
	default:
		return 4
	}
}

// NackHeader is the header of a network Nack.
type NackHeader struct {
	Reason NackReason
}

// Nack represents a network Nack: an Interest returned downstream together with a Nack header.
type Nack struct {
	interest *Interest
	header   NackHeader
}

// NewNack creates a Nack for the specified Interest.
func NewNack(interest *Interest, header NackHeader) *Nack {
	return &Nack{interest: interest, header: header}
}

func (n *Nack) String() string {
	return "Nack(Reason=" + n.header.Reason.String() + ", " + n.interest.String() + ")"
}

// Interest returns the Nacked Interest.
func (n *Nack) Interest() *Interest {
	return n.interest
}

// Header returns the Nack header.
func (n *Nack) Header() NackHeader {
	return n.header
}

// Reason returns the Nack reason.
func (n *Nack) Reason() NackReason {
	return n.header.Reason
}
