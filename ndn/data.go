/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import "time"

// Data represents an NDN Data packet.
type Data struct {
	name            Name
	freshnessPeriod time.Duration
	content         []byte
}

// NewData creates a new Data packet with the given name and content.
func NewData(name Name, content []byte) *Data {
	d := new(Data)
	d.name = name.DeepCopy()
	d.content = content
	return d
}

func (d *Data) String() string {
	return "Data(Name=" + d.name.String() + ")"
}

// Name returns the name of the Data packet.
func (d *Data) Name() Name {
	return d.name
}

// SetName sets the name of the Data packet.
func (d *Data) SetName(name Name) {
	d.name = name.DeepCopy()
}

// FreshnessPeriod returns the freshness period of the Data packet.
func (d *Data) FreshnessPeriod() time.Duration {
	return d.freshnessPeriod
}

// SetFreshnessPeriod sets the freshness period of the Data packet.
func (d *Data) SetFreshnessPeriod(freshnessPeriod time.Duration) {
	d.freshnessPeriod = freshnessPeriod
}

// Content returns the content of the Data packet.
func (d *Data) Content() []byte {
	return d.content
}

// SetContent sets the content of the Data packet.
func (d *Data) SetContent(content []byte) {
	d.content = content
}
