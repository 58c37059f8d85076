// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/bureau-foundation/ttdata/lib/binslice"
)

// Primitive types. IntType has no wire encoding of its own; sized
// integer types created with [UintType] refine it.
var (
	IntType = MustRegister(TypeSpec{
		Name:   "int",
		Coerce: coerceInt,
	})

	StrType = MustRegister(TypeSpec{
		Name:   "str",
		Coerce: coerceStr,
		Build: func(_ *Builder, v Value) (Value, binslice.Bits, error) {
			return v, binslice.Bytes([]byte(v.(*Str).value)), nil
		},
		Decode: func(_ *Decoder, t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
			raw, rest, err := takeAll(s)
			if err != nil {
				return nil, s, err
			}
			return &Str{typ: t, value: string(raw)}, rest, nil
		},
	})

	BytesType = MustRegister(TypeSpec{
		Name:   "bytes",
		Coerce: coerceBytes,
		Build: func(_ *Builder, v Value) (Value, binslice.Bits, error) {
			return v, binslice.Bytes(bytes.Clone(v.(*Bytes).value)), nil
		},
		Decode: func(_ *Decoder, t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
			raw, rest, err := takeAll(s)
			if err != nil {
				return nil, s, err
			}
			return &Bytes{typ: t, value: raw}, rest, nil
		},
	})

	BoolType = MustRegister(TypeSpec{
		Name:   "bool",
		Coerce: coerceBool,
		Build: func(_ *Builder, v Value) (Value, binslice.Bits, error) {
			var bit uint64
			if v.(*Bool).value {
				bit = 1
			}
			return v, binslice.Uint(bit, 1), nil
		},
		Decode: func(_ *Decoder, t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
			bit, rest, err := s.Uint(1)
			if err != nil {
				return nil, s, err
			}
			return &Bool{typ: t, value: bit == 1}, rest, nil
		},
	})

	Uint8Type  = UintType("uint8", 8)
	Uint16Type = UintType("uint16", 16)
	Uint32Type = UintType("uint32", 32)
)

// UintType registers an unsigned integer type of the given bit width
// (1 to 63). Its values are [*Int]; coercion rejects anything outside
// [0, 2^bits) and the wire form is big-endian, MSB first.
func UintType(name string, bits int) *Type {
	if bits < 1 || bits > 63 {
		panic(fmt.Sprintf("data: unsupported integer width %d for %s", bits, name))
	}
	maximum := int64(1)<<bits - 1
	return MustRegister(TypeSpec{
		Name:   name,
		Parent: IntType,
		Coerce: func(t *Type, raw any) (Value, error) {
			n, ok := toInt64(raw)
			if !ok {
				return nil, badConversion(raw, t)
			}
			if n < 0 || n > maximum {
				return nil, fmt.Errorf("%w: %d does not fit in %s (%d bits)", ErrBadConversion, n, t, bits)
			}
			return &Int{typ: t, value: n}, nil
		},
		Build: func(_ *Builder, v Value) (Value, binslice.Bits, error) {
			return v, binslice.Uint(uint64(v.(*Int).value), bits), nil
		},
		Decode: func(_ *Decoder, t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
			n, rest, err := s.Uint(bits)
			if err != nil {
				return nil, s, err
			}
			return &Int{typ: t, value: int64(n)}, rest, nil
		},
	})
}

// takeAll consumes the whole of s as bytes.
func takeAll(s binslice.Slice) ([]byte, binslice.Slice, error) {
	if s.BitLen()%8 != 0 {
		return nil, s, fmt.Errorf("%w: %d bits left", binslice.ErrUnaligned, s.BitLen())
	}
	rest, err := s.ShiftBits(s.BitLen())
	if err != nil {
		return nil, s, err
	}
	return s.Raw(), rest, nil
}

// Int is an integer value. Its type is [IntType] or a sized integer
// type refining it.
type Int struct {
	Node
	typ   *Type
	value int64
}

// NewInt returns an unsized integer value.
func NewInt(v int64) *Int { return &Int{typ: IntType, value: v} }

func (i *Int) Type() *Type { return i.typ }

// Int64 returns the integer.
func (i *Int) Int64() int64 { return i.value }

func (i *Int) MatchSelf(value Value, _ *MismatchList) bool {
	other, ok := value.(*Int)
	return ok && other.value == i.value
}

func (i *Int) FlatSelf() bool { return true }

func (i *Int) Equal(other Value) bool {
	o, ok := other.(*Int)
	return ok && o.typ == i.typ && o.value == i.value
}

func (i *Int) String() string { return strconv.FormatInt(i.value, 10) }

// Key returns the canonical lookup key for [TypeDict].
func (i *Int) Key() any { return i.value }

// Str is a text value.
type Str struct {
	Node
	typ   *Type
	value string
}

// NewStr returns a text value.
func NewStr(s string) *Str { return &Str{typ: StrType, value: s} }

func (s *Str) Type() *Type { return s.typ }

// Text returns the string.
func (s *Str) Text() string { return s.value }

// Len returns the length in bytes.
func (s *Str) Len() int { return len(s.value) }

func (s *Str) MatchSelf(value Value, _ *MismatchList) bool {
	other, ok := value.(*Str)
	return ok && other.value == s.value
}

func (s *Str) FlatSelf() bool { return true }

func (s *Str) Equal(other Value) bool {
	o, ok := other.(*Str)
	return ok && o.typ == s.typ && o.value == s.value
}

func (s *Str) String() string { return strconv.Quote(s.value) }

func (s *Str) Key() any { return s.value }

// Bytes is an opaque byte string, used for payloads the decoder does
// not interpret.
type Bytes struct {
	Node
	typ   *Type
	value []byte
}

// NewBytes returns a byte string value holding a copy of b.
func NewBytes(b []byte) *Bytes { return &Bytes{typ: BytesType, value: bytes.Clone(b)} }

func (b *Bytes) Type() *Type { return b.typ }

// Bytes returns a copy of the content.
func (b *Bytes) Bytes() []byte { return bytes.Clone(b.value) }

// Len returns the length in bytes.
func (b *Bytes) Len() int { return len(b.value) }

func (b *Bytes) MatchSelf(value Value, _ *MismatchList) bool {
	other, ok := value.(*Bytes)
	return ok && bytes.Equal(other.value, b.value)
}

func (b *Bytes) FlatSelf() bool { return true }

func (b *Bytes) Equal(other Value) bool {
	o, ok := other.(*Bytes)
	return ok && o.typ == b.typ && bytes.Equal(o.value, b.value)
}

func (b *Bytes) String() string { return strconv.Quote(string(b.value)) }

func (b *Bytes) Key() any { return string(b.value) }

// Bool is a one-bit flag.
type Bool struct {
	Node
	typ   *Type
	value bool
}

// NewBool returns a flag value.
func NewBool(v bool) *Bool { return &Bool{typ: BoolType, value: v} }

func (b *Bool) Type() *Type { return b.typ }

// Bool returns the flag.
func (b *Bool) Bool() bool { return b.value }

func (b *Bool) MatchSelf(value Value, _ *MismatchList) bool {
	other, ok := value.(*Bool)
	return ok && other.value == b.value
}

func (b *Bool) FlatSelf() bool { return true }

func (b *Bool) Equal(other Value) bool {
	o, ok := other.(*Bool)
	return ok && o.typ == b.typ && o.value == b.value
}

func (b *Bool) String() string { return strconv.FormatBool(b.value) }

func (b *Bool) Key() any { return b.value }

func coerceInt(t *Type, raw any) (Value, error) {
	n, ok := toInt64(raw)
	if !ok {
		return nil, badConversion(raw, t)
	}
	return &Int{typ: t, value: n}, nil
}

func coerceStr(t *Type, raw any) (Value, error) {
	switch v := raw.(type) {
	case string:
		return &Str{typ: t, value: v}, nil
	case *Str:
		return &Str{typ: t, value: v.value}, nil
	}
	return nil, badConversion(raw, t)
}

func coerceBytes(t *Type, raw any) (Value, error) {
	switch v := raw.(type) {
	case []byte:
		return &Bytes{typ: t, value: bytes.Clone(v)}, nil
	case string:
		return &Bytes{typ: t, value: []byte(v)}, nil
	case *Bytes:
		return &Bytes{typ: t, value: v.value}, nil
	case *Str:
		return &Bytes{typ: t, value: []byte(v.value)}, nil
	}
	return nil, badConversion(raw, t)
}

func coerceBool(t *Type, raw any) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return &Bool{typ: t, value: v}, nil
	case *Bool:
		return &Bool{typ: t, value: v.value}, nil
	}
	return nil, badConversion(raw, t)
}

// toInt64 accepts Go integer kinds and integer values.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return uintToInt64(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return uintToInt64(v)
	case *Int:
		return v.value, true
	}
	return 0, false
}

func uintToInt64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}
