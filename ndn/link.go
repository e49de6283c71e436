/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrNoDelegations is returned when a Link object would carry no delegations.
var ErrNoDelegations = errors.New("Link must contain at least one delegation")

// Delegation contains a Link Object delegation.
type Delegation struct {
	Preference uint64
	Name       Name
}

func (d Delegation) String() string {
	return "Delegation(" + strconv.FormatUint(d.Preference, 10) + ", " + d.Name.String() + ")"
}

// Link represents a Link object: a named list of alternate sources for the same content,
// ordered by preference (lower is preferred).
type Link struct {
	name        Name
	delegations []Delegation
}

// NewLink creates a Link object. Delegations are ordered by preference, then by name. A delegation
// whose name repeats an earlier one replaces it.
func NewLink(name Name, delegations ...Delegation) (*Link, error) {
	l := new(Link)
	l.name = name.DeepCopy()
	for _, delegation := range delegations {
		l.insert(delegation)
	}
	if len(l.delegations) == 0 {
		return nil, ErrNoDelegations
	}
	sort.SliceStable(l.delegations, func(i, j int) bool {
		if l.delegations[i].Preference != l.delegations[j].Preference {
			return l.delegations[i].Preference < l.delegations[j].Preference
		}
		return l.delegations[i].Name.Compare(l.delegations[j].Name) < 0
	})
	return l, nil
}

func (l *Link) insert(delegation Delegation) {
	delegation.Name = delegation.Name.DeepCopy()
	for i, existing := range l.delegations {
		if existing.Name.Equal(delegation.Name) {
			l.delegations[i] = delegation
			return
		}
	}
	l.delegations = append(l.delegations, delegation)
}

func (l *Link) String() string {
	strs := make([]string, 0, len(l.delegations))
	for _, delegation := range l.delegations {
		strs = append(strs, delegation.String())
	}
	return "Link(" + l.name.String() + ", [" + strings.Join(strs, ", ") + "])"
}

// Name returns the name of the Link object.
func (l *Link) Name() Name {
	return l.name
}

// Delegations returns the delegations in preference order. The slice must not be modified.
func (l *Link) Delegations() []Delegation {
	return l.delegations
}
