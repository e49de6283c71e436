/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"testing"

	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
	"github.com/named-data/ndnfw/table"

	"github.com/stretchr/testify/require"
)

// recordingStrategy is a strategy that records the hooks invoked on it.
type recordingStrategy struct {
	StrategyBase
	requestedName ndn.Name

	receivedInterests []*ndn.Interest
	satisfied         []*table.PitEntry
	expired           []*table.PitEntry
	nacks             []*ndn.Nack
}

func newRecordingFactory(strategyName ndn.Name) StrategyFactory {
	return func(fwd *Forwarder, instanceName ndn.Name) Strategy {
		s := &recordingStrategy{requestedName: instanceName}
		s.NewStrategyBase(fwd, s)
		s.SetInstanceName(MakeInstanceName(instanceName, strategyName))
		return s
	}
}

func (s *recordingStrategy) AfterReceiveInterest(inFace face.Face, interest *ndn.Interest, pitEntry *table.PitEntry) {
	s.receivedInterests = append(s.receivedInterests, interest)
}

func (s *recordingStrategy) BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace face.Face, data *ndn.Data) {
	s.satisfied = append(s.satisfied, pitEntry)
}

func (s *recordingStrategy) BeforeExpirePendingInterest(pitEntry *table.PitEntry) {
	s.expired = append(s.expired, pitEntry)
}

func (s *recordingStrategy) AfterReceiveNack(inFace face.Face, nack *ndn.Nack, pitEntry *table.PitEntry) {
	s.nacks = append(s.nacks, nack)
}

var recordingStrategyName = ndn.MustNameFromString("/localhost/test/recording/%FD%01")

func newTestRegistry() *Registry {
	registry := NewRegistry()
	RegisterBuiltinStrategies(registry)
	registry.Register(recordingStrategyName, newRecordingFactory(recordingStrategyName))
	return registry
}

func newTestForwarder(t *testing.T) *Forwarder {
	fwd, err := NewForwarder(newTestRegistry())
	require.NoError(t, err)
	t.Cleanup(fwd.Close)
	return fwd
}

// addFaces adds n non-local internal faces to the forwarder, with FaceIDs 1 to n.
func addFaces(fwd *Forwarder, n int) []*face.InternalFace {
	faces := make([]*face.InternalFace, 0, n)
	for i := 0; i < n; i++ {
		f := face.MakeInternalFace(face.NonLocal)
		fwd.FaceTable().Add(f)
		faces = append(faces, f)
	}
	return faces
}

func name(uri string) ndn.Name {
	return ndn.MustNameFromString(uri)
}
