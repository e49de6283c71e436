/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/named-data/ndnfw/ndn/tlv"
	"github.com/named-data/ndnfw/ndn/util"
)

// Component represents an NDN name component.
type Component struct {
	Typ uint16
	Val []byte
}

// NewGenericComponent creates a generic name component holding the specified value.
func NewGenericComponent(value []byte) Component {
	return Component{Typ: tlv.GenericNameComponent, Val: value}
}

// NewVersionComponent creates a version component following the marker convention ("%FD" followed by
// the version as a non-negative integer). This is the form used in strategy names.
func NewVersionComponent(version uint64) Component {
	return Component{Typ: tlv.GenericNameComponent, Val: append([]byte{tlv.VersionMarker}, tlv.EncodeNNI(version)...)}
}

// NewTypedVersionComponent creates a typed version component ("v=<version>").
func NewTypedVersionComponent(version uint64) Component {
	return Component{Typ: tlv.VersionNameComponent, Val: tlv.EncodeNNI(version)}
}

// NewSegmentComponent creates a typed segment number component.
func NewSegmentComponent(segment uint64) Component {
	return Component{Typ: tlv.SegmentNameComponent, Val: tlv.EncodeNNI(segment)}
}

func (c Component) String() string {
	switch c.Typ {
	case tlv.GenericNameComponent:
		return escapeComponent(c.Val)
	case tlv.ImplicitSha256DigestComponent:
		return "sha256digest=" + hex.EncodeToString(c.Val)
	case tlv.ParametersSha256DigestComponent:
		return "params-sha256=" + hex.EncodeToString(c.Val)
	case tlv.VersionNameComponent, tlv.SegmentNameComponent, tlv.ByteOffsetNameComponent,
		tlv.TimestampNameComponent, tlv.SequenceNumNameComponent:
		if v, err := tlv.DecodeNNI(c.Val); err == nil {
			return typedComponentKeywords[c.Typ] + "=" + strconv.FormatUint(v, 10)
		}
	}
	return strconv.FormatUint(uint64(c.Typ), 10) + "=" + escapeComponent(c.Val)
}

var typedComponentKeywords = map[uint16]string{
	tlv.VersionNameComponent:     "v",
	tlv.SegmentNameComponent:     "seg",
	tlv.ByteOffsetNameComponent:  "off",
	tlv.TimestampNameComponent:   "t",
	tlv.SequenceNumNameComponent: "seq",
}

// DeepCopy makes a deep copy of the name component.
func (c Component) DeepCopy() Component {
	val := make([]byte, len(c.Val))
	copy(val, c.Val)
	return Component{Typ: c.Typ, Val: val}
}

// Equal returns whether the two name components match.
func (c Component) Equal(other Component) bool {
	return c.Typ == other.Typ && bytes.Equal(c.Val, other.Val)
}

// Compare returns the canonical order of this component against the other: first by TLV type, then
// by value length, then byte by byte.
func (c Component) Compare(other Component) int {
	if c.Typ != other.Typ {
		if c.Typ < other.Typ {
			return -1
		}
		return 1
	}
	if len(c.Val) != len(other.Val) {
		if len(c.Val) < len(other.Val) {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.Val, other.Val)
}

// IsVersion returns whether the component is a version component, either typed or marker-based.
func (c Component) IsVersion() bool {
	_, err := c.ToVersion()
	return err == nil
}

// ToVersion returns the version carried by the component.
func (c Component) ToVersion() (uint64, error) {
	switch {
	case c.Typ == tlv.VersionNameComponent:
		return tlv.DecodeNNI(c.Val)
	case c.Typ == tlv.GenericNameComponent && len(c.Val) > 1 && c.Val[0] == tlv.VersionMarker &&
		tlv.IsValidNNILength(len(c.Val)-1):
		return tlv.DecodeNNI(c.Val[1:])
	}
	return 0, util.ErrDecodeNameComponent
}

// Successor returns the component immediately following this one in canonical order with the same
// TLV type. If every value octet is 0xFF, the successor is one octet longer and all zeros.
func (c Component) Successor() Component {
	i := len(c.Val) - 1
	for ; i >= 0 && c.Val[i] == 0xFF; i-- {
	}
	if i < 0 {
		return Component{Typ: c.Typ, Val: make([]byte, len(c.Val)+1)}
	}

	val := make([]byte, len(c.Val))
	copy(val, c.Val[:i])
	val[i] = c.Val[i] + 1
	return Component{Typ: c.Typ, Val: val}
}

///////
// Name
///////

// Name represents an NDN name.
type Name []Component

// NameFromString decodes a name from a string.
func NameFromString(str string) (Name, error) {
	str = strings.TrimPrefix(str, "ndn:")
	if len(str) == 0 || str == "/" {
		return Name{}, nil
	}
	if str[0] != '/' {
		return nil, errors.New("name must begin with '/'")
	}

	components := strings.Split(strings.TrimSuffix(str[1:], "/"), "/")
	n := make(Name, 0, len(components))
	for _, component := range components {
		c, err := componentFromString(component)
		if err != nil {
			return nil, err
		}
		n = append(n, c)
	}
	return n, nil
}

// MustNameFromString is like NameFromString, but panics if the name cannot be parsed.
func MustNameFromString(str string) Name {
	n, err := NameFromString(str)
	if err != nil {
		panic("invalid name " + str + ": " + err.Error())
	}
	return n
}

func componentFromString(component string) (Component, error) {
	if len(component) == 0 {
		return Component{}, errors.New("name component is empty")
	}

	if !strings.Contains(component, "=") {
		unescaped, err := unescapeComponent(component)
		if err != nil {
			return Component{}, errors.New("error unescaping component value")
		}
		return NewGenericComponent(unescaped), nil
	}

	componentSplit := strings.SplitN(component, "=", 2)
	if strings.Contains(componentSplit[1], "=") {
		return Component{}, errors.New("name component has extraneous =")
	}
	switch componentSplit[0] {
	case "sha256digest", "params-sha256":
		digest, err := hex.DecodeString(componentSplit[1])
		if err != nil || len(digest) != 32 {
			return Component{}, errors.New(componentSplit[0] + " is not a 32-octet hex string")
		}
		typ := uint16(tlv.ImplicitSha256DigestComponent)
		if componentSplit[0] == "params-sha256" {
			typ = tlv.ParametersSha256DigestComponent
		}
		return Component{Typ: typ, Val: digest}, nil
	}
	for typ, keyword := range typedComponentKeywords {
		if keyword == componentSplit[0] {
			v, err := strconv.ParseUint(componentSplit[1], 10, 64)
			if err != nil {
				return Component{}, errors.New(keyword + " component is not a decimal string")
			}
			return Component{Typ: typ, Val: tlv.EncodeNNI(v)}, nil
		}
	}

	t, err := strconv.ParseUint(componentSplit[0], 10, 16)
	if err != nil || t == 0 {
		return Component{}, errors.New("unable to decode component type \"" + componentSplit[0] + "\"")
	}
	unescaped, err := unescapeComponent(componentSplit[1])
	if err != nil {
		return Component{}, errors.New("error unescaping component value")
	}
	return Component{Typ: uint16(t), Val: unescaped}, nil
}

func escapeComponent(in []byte) string {
	var out strings.Builder
	nPeriods := 0
	for _, b := range in {
		switch {
		case b == '.':
			nPeriods++
			out.WriteByte(b)
		case (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '-' || b == '_' || b == '~':
			out.WriteByte(b)
		default:
			out.WriteByte('%')
			out.WriteString(strings.ToUpper(hex.EncodeToString([]byte{b})))
		}
	}
	if nPeriods == len(in) {
		out.WriteString("...")
	}
	return out.String()
}

func unescapeComponent(in string) ([]byte, error) {
	if len(in) >= 3 && strings.Trim(in, ".") == "" {
		return []byte(in[3:]), nil
	}

	out := make([]byte, 0, len(in)) // Capacity is worst case if nothing to be unescaped
	for i := 0; i < len(in); i++ {
		if in[i] == '%' {
			if len(in) <= i+2 {
				return nil, errors.New("incomplete escape sequence")
			}
			unescaped, err := hex.DecodeString(in[i+1 : i+3])
			if err != nil {
				return nil, errors.New("could not decode escape sequence")
			}
			out = append(out, unescaped...)
			i += 2
		} else {
			out = append(out, in[i])
		}
	}
	return out, nil
}

func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}

	var out strings.Builder
	for _, component := range n {
		out.WriteByte('/')
		out.WriteString(component.String())
	}
	return out.String()
}

// Append returns a new name consisting of this name followed by the specified components.
// The receiver is never modified.
func (n Name) Append(components ...Component) Name {
	out := make(Name, len(n), len(n)+len(components))
	copy(out, n)
	return append(out, components...)
}

// At returns the name component at the specified index. Negative indices count from the end.
// If out of range, an empty component is returned.
func (n Name) At(index int) Component {
	if index < -len(n) || index >= len(n) {
		return Component{}
	}

	if index < 0 {
		return n[len(n)+index]
	}
	return n[index]
}

// Prefix returns the first size components of the name. A negative size removes that many
// components from the end. The returned name shares no backing storage with the receiver.
func (n Name) Prefix(size int) Name {
	if size < 0 {
		size += len(n)
	}
	if size < 0 {
		size = 0
	} else if size > len(n) {
		size = len(n)
	}
	out := make(Name, size)
	copy(out, n[:size])
	return out
}

// SubName returns the components starting at index start.
func (n Name) SubName(start int) Name {
	if start >= len(n) {
		return Name{}
	}
	if start < 0 {
		start = 0
	}
	out := make(Name, len(n)-start)
	copy(out, n[start:])
	return out
}

// PrefixOf returns whether this name is a prefix of the specified name.
func (n Name) PrefixOf(other Name) bool {
	if len(n) > len(other) {
		return false
	}

	for i := range n {
		if !n[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Equal returns whether the specified name is equal to this name.
func (n Name) Equal(other Name) bool {
	return len(n) == len(other) && n.PrefixOf(other)
}

// Compare returns the canonical order of this name against the the specified other name.
// A proper prefix sorts before any name it is a prefix of.
func (n Name) Compare(other Name) int {
	for i := 0; i < len(n) && i < len(other); i++ {
		if cmp := n[i].Compare(other[i]); cmp != 0 {
			return cmp
		}
	}

	switch {
	case len(n) < len(other):
		return -1
	case len(n) > len(other):
		return 1
	}
	return 0
}

// Successor returns the smallest name that sorts after this name and all names it is a prefix of.
// The empty name has no successor.
func (n Name) Successor() (Name, error) {
	if len(n) == 0 {
		return nil, util.ErrEmptyName
	}
	return n.Prefix(-1).Append(n[len(n)-1].Successor()), nil
}

// HasVersion returns whether any component of the name is a version component.
func (n Name) HasVersion() bool {
	for i := len(n) - 1; i >= 0; i-- {
		if n[i].IsVersion() {
			return true
		}
	}
	return false
}

// DeepCopy returns a deep copy of the name.
func (n Name) DeepCopy() Name {
	if n == nil {
		return nil
	}
	out := make(Name, len(n))
	for i, component := range n {
		out[i] = component.DeepCopy()
	}
	return out
}
