/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/fw"
	"github.com/named-data/ndnfw/ndn"
	"github.com/pelletier/go-toml"
	"golang.org/x/time/rate"
)

// Manager answers management Interests sent to the forwarder. It is reached through an internal face
// that is the nexthop of the management prefix, and handles commands on the forwarding thread.
type Manager struct {
	forwarder *fw.Forwarder
	face      *face.InternalFace
	prefix    ndn.Name
	modules   map[string]Module
	limiter   *rate.Limiter
}

// NewManager creates a manager for the forwarder and attaches it to the forwarder's face table and FIB.
func NewManager(forwarder *fw.Forwarder) *Manager {
	m := new(Manager)
	m.forwarder = forwarder
	m.prefix = ndn.MustNameFromString(managementPrefix)
	m.modules = make(map[string]Module)
	if commandRate > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(commandRate), commandBurst)
	}
	m.registerModule("faces", new(FaceModule))
	m.registerModule("fib", new(FIBModule))
	m.registerModule("status", new(ForwarderStatusModule))
	m.registerModule("strategy-choice", new(StrategyChoiceModule))

	m.face = face.MakeInternalFace(face.Local)
	m.face.OnInterest = func(interest *ndn.Interest) {
		m.forwarder.Post(func() { m.onInterest(interest) })
	}
	forwarder.FaceTable().Add(m.face)
	forwarder.Fib().AddNexthop(m.prefix, m.face.FaceID(), 0)
	core.LogInfo(m, "Serving management on ", m.prefix, " via FaceID=", m.face.FaceID())
	return m
}

func (m *Manager) String() string {
	return "Management"
}

func (m *Manager) registerModule(name string, module Module) {
	m.modules[name] = module
	module.registerManager(m)
}

// FaceID returns the ID of the face on which the manager receives Interests.
func (m *Manager) FaceID() uint64 {
	return m.face.FaceID()
}

func (m *Manager) prefixLength() int {
	return len(m.prefix)
}

func (m *Manager) onInterest(interest *ndn.Interest) {
	defer m.face.Reset()

	data := m.Dispatch(interest)
	if data == nil {
		return
	}
	m.forwarder.OnIncomingData(m.face, data)
}

// Dispatch handles a management Interest and returns the response Data, or nil if the Interest is
// dropped. It must be called from the forwarding thread.
func (m *Manager) Dispatch(interest *ndn.Interest) *ndn.Data {
	name := interest.Name()
	if len(name) < m.prefixLength()+2 { // Module + Verb
		core.LogInfo(m, "Control command name ", name, " has unexpected number of components - DROP")
		return nil
	}
	if !m.prefix.PrefixOf(name) {
		core.LogInfo(m, "Control command name ", name, " has unexpected prefix - DROP")
		return nil
	}

	core.LogTrace(m, "Received management Interest ", name)

	if m.limiter != nil && !m.limiter.Allow() {
		core.LogWarn(m, "Management rate limit exceeded for ", name)
		return m.makeResponseData(name, makeControlResponse(503, "Rate limit exceeded", nil))
	}

	moduleName := string(name.At(m.prefixLength()).Val)
	verb := string(name.At(m.prefixLength() + 1).Val)
	var reply interface{}
	if module, ok := m.modules[moduleName]; ok {
		reply = module.handleIncomingInterest(interest, verb)
	} else {
		core.LogWarn(m, "Received Interest for non-existent module '", moduleName, "'")
		reply = makeControlResponse(501, "Unknown module", nil)
	}
	if reply == nil {
		return nil
	}
	return m.makeResponseData(name, reply)
}

func (m *Manager) makeResponseData(name ndn.Name, reply interface{}) *ndn.Data {
	content, err := toml.Marshal(reply)
	if err != nil {
		core.LogError(m, "Unable to encode response to ", name, ": ", err)
		return nil
	}
	return ndn.NewData(name, content)
}

// requesterFaceID returns the face that sent a pending management Interest, or InvalidFaceID if the
// Interest did not come through the forwarder.
func (m *Manager) requesterFaceID(interest *ndn.Interest) uint64 {
	pitEntry := m.forwarder.Pit().Find(interest)
	if pitEntry == nil || !pitEntry.HasInRecords() {
		return face.InvalidFaceID
	}
	return pitEntry.InRecords()[0].Face.FaceID()
}
