// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/ttdata/lib/binslice"
)

// Builder carries state through one recursive encode. Structured types
// push themselves with [Builder.Enter] before building their payload so
// that inner layers can reach the layers enclosing them, for example a
// transport checksum over a network-layer pseudo-header.
type Builder struct {
	outer []Value
}

// NewBuilder returns a builder with no enclosing layers.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build encodes a flat value, returning it with every default and
// computed field filled in, and its bits.
func Build(v Value) (Value, binslice.Bits, error) {
	return NewBuilder().Build(v)
}

// Build encodes v with its type's Build hook.
func (b *Builder) Build(v Value) (Value, binslice.Bits, error) {
	if v == nil {
		return nil, binslice.Bits{}, fmt.Errorf("%w: cannot build a nil value", ErrStructural)
	}
	hook := v.Type().buildHook()
	if hook == nil {
		return nil, binslice.Bits{}, fmt.Errorf("%w: %s has no encoding", ErrUnsupported, v.Type())
	}
	return hook(b, v)
}

// Enter records v as the innermost enclosing layer until the returned
// function is called.
func (b *Builder) Enter(v Value) (leave func()) {
	b.outer = append(b.outer, v)
	depth := len(b.outer)
	return func() { b.outer = b.outer[:depth-1] }
}

// Outer returns the enclosing layers, innermost first.
func (b *Builder) Outer() []Value {
	layers := make([]Value, 0, len(b.outer))
	for i := len(b.outer) - 1; i >= 0; i-- {
		layers = append(layers, b.outer[i])
	}
	return layers
}

// Enclosing returns the innermost enclosing layer that is an instance
// of t, or nil.
func (b *Builder) Enclosing(t *Type) Value {
	for i := len(b.outer) - 1; i >= 0; i-- {
		if b.outer[i].Type().IsA(t) {
			return b.outer[i]
		}
	}
	return nil
}

// Decoder carries state through one recursive decode: the field path
// used to locate failures.
type Decoder struct {
	path []string
}

// NewDecoder returns a decoder positioned at the top level.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a value of type t from the front of s and returns it
// with the unconsumed remainder. Failures are reported as a
// [*DecodeError].
func Decode(t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
	return NewDecoder().Decode(t, s)
}

// Decode decodes a value of type t with its type's Decode hook.
func (d *Decoder) Decode(t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
	hook := t.decodeHook()
	if hook == nil {
		return nil, s, d.wrap(t, fmt.Errorf("%w: %s has no decoder", ErrUnsupported, t))
	}
	v, rest, err := hook(d, t, s)
	if err != nil {
		return nil, s, d.wrap(t, err)
	}
	v.Freeze()
	return v, rest, nil
}

// Field decodes a named field of type t, recording name in the path of
// any failure.
func (d *Decoder) Field(name string, t *Type, s binslice.Slice) (Value, binslice.Slice, error) {
	d.path = append(d.path, name)
	defer func() { d.path = d.path[:len(d.path)-1] }()
	return d.Decode(t, s)
}

// Fail returns a decode error for t at the current path.
func (d *Decoder) Fail(t *Type, err error) error {
	return d.wrap(t, err)
}

func (d *Decoder) wrap(t *Type, err error) error {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return err
	}
	return &DecodeError{Type: t, Path: append([]string(nil), d.path...), Err: err}
}
