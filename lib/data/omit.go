// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"github.com/bureau-foundation/ttdata/lib/binslice"
)

// OmitType is the type of [Omit].
var OmitType = MustRegister(TypeSpec{
	Name: "omit",
	Coerce: func(t *Type, raw any) (Value, error) {
		if IsOmit(raw) {
			return Omit, nil
		}
		return nil, badConversion(raw, t)
	},
	Build: func(_ *Builder, v Value) (Value, binslice.Bits, error) {
		return v, binslice.Bits{}, nil
	},
	Decode: func(_ *Decoder, _ *Type, s binslice.Slice) (Value, binslice.Slice, error) {
		return Omit, s, nil
	},
})

// omit is the zero-sized representation of an explicitly absent field.
type omit struct{}

// Omit marks a field as explicitly absent. It differs from nil, which
// means "not set yet": an omitted field is never filled with a default
// and encodes as zero bits. Omit is always flat and always frozen.
var Omit Value = omit{}

// IsOmit reports whether v is [Omit].
func IsOmit(v any) bool {
	_, ok := v.(omit)
	return ok
}

func (omit) Type() *Type { return OmitType }
func (omit) Parent() Data { return nil }
func (omit) IsFrozen() bool { return true }
func (omit) Freeze() {}
func (omit) node() *Node { return nil }
func (omit) MatchSelf(Value, *MismatchList) bool { return true }
func (omit) FlatSelf() bool { return true }
func (omit) String() string { return "Omit" }

func (omit) Equal(other Value) bool {
	return IsOmit(other)
}
