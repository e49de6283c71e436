/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sort"
	"sync"

	"github.com/named-data/ndnfw/core"
)

// Table holds all faces used by a forwarder.
type Table struct {
	faces      map[uint64]Face
	facesMutex sync.RWMutex
	nextFaceID uint64

	// AfterAdd is emitted after a face has been added and assigned its FaceID.
	AfterAdd Signal[Face]
	// BeforeRemove is emitted before a face is removed, while it can still be looked up.
	BeforeRemove Signal[Face]
}

// NewTable creates an empty face table. FaceIDs are assigned starting at 1.
func NewTable() *Table {
	t := new(Table)
	t.faces = make(map[uint64]Face)
	t.nextFaceID = 1
	return t
}

func (t *Table) String() string {
	return "FaceTable"
}

// Add adds a face to the face table.
func (t *Table) Add(face Face) {
	t.facesMutex.Lock()
	faceID := t.nextFaceID
	t.nextFaceID++
	face.SetFaceID(faceID)
	t.faces[faceID] = face
	t.facesMutex.Unlock()

	core.LogDebug(t, "Registered FaceID=", faceID)
	t.AfterAdd.Emit(face)
}

// Get gets the face with the specified ID (if any) from the face table.
func (t *Table) Get(id uint64) Face {
	t.facesMutex.RLock()
	defer t.facesMutex.RUnlock()
	return t.faces[id]
}

// GetAll returns all faces, ordered by FaceID.
func (t *Table) GetAll() []Face {
	t.facesMutex.RLock()
	faces := make([]Face, 0, len(t.faces))
	for _, face := range t.faces {
		faces = append(faces, face)
	}
	t.facesMutex.RUnlock()

	sort.Slice(faces, func(i, j int) bool { return faces[i].FaceID() < faces[j].FaceID() })
	return faces
}

// Size returns the number of faces in the table.
func (t *Table) Size() int {
	t.facesMutex.RLock()
	defer t.facesMutex.RUnlock()
	return len(t.faces)
}

// Remove removes a face from the face table, returning whether it existed.
func (t *Table) Remove(id uint64) bool {
	face := t.Get(id)
	if face == nil {
		return false
	}

	t.BeforeRemove.Emit(face)

	t.facesMutex.Lock()
	delete(t.faces, id)
	t.facesMutex.Unlock()
	core.LogDebug(t, "Unregistered FaceID=", id)
	return true
}
