// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/bureau-foundation/ttdata/lib/binslice"
)

// CoerceFunc converts a raw input (a Go primitive or another Value)
// into a Value of type t. It returns an error wrapping
// [ErrBadConversion] when the input is not acceptable.
type CoerceFunc func(t *Type, raw any) (Value, error)

// FlattenFunc merges the concrete values of a derivation chain, most
// derived first, into one flat value.
type FlattenFunc func(values []Value) (Value, error)

// BuildFunc encodes v. It returns v with every defaulted or computed
// field filled in, together with the encoded bits.
type BuildFunc func(b *Builder, v Value) (Value, binslice.Bits, error)

// DecodeFunc decodes a value of type t from the front of s and returns
// it with the unconsumed remainder.
type DecodeFunc func(d *Decoder, t *Type, s binslice.Slice) (Value, binslice.Slice, error)

// DescribeHookFunc fills the parts of desc that v knows about.
type DescribeHookFunc func(v Value, desc *Description)

// TypeSpec declares a type. Nil hooks are inherited from Parent.
type TypeSpec struct {
	// Name identifies the type in the registry, in reports, and in
	// definition files.
	Name string

	// Parent is the more general type this one refines. Values of this
	// type are also instances of Parent.
	Parent *Type

	Coerce   CoerceFunc
	Flatten  FlattenFunc
	Build    BuildFunc
	Decode   DecodeFunc
	Describe DescribeHookFunc
}

// Type is a node in the type hierarchy. Types are created once during
// package initialisation and never change afterwards.
type Type struct {
	spec TypeSpec
}

// NewType creates a type without registering it.
func NewType(spec TypeSpec) *Type {
	if spec.Name == "" {
		panic("data: type name must not be empty")
	}
	return &Type{spec: spec}
}

// Name returns the type's name.
func (t *Type) Name() string { return t.spec.Name }

// Parent returns the type this one refines, or nil for a root type.
func (t *Type) Parent() *Type { return t.spec.Parent }

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	return t.spec.Name
}

// Ancestors returns t followed by its parent types, most specific
// first.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	for current := t; current != nil; current = current.spec.Parent {
		chain = append(chain, current)
	}
	return chain
}

// IsA reports whether t is other or refines it.
func (t *Type) IsA(other *Type) bool {
	if other == nil {
		return false
	}
	for current := t; current != nil; current = current.spec.Parent {
		if current == other {
			return true
		}
	}
	return false
}

// Root returns the most general ancestor of t.
func (t *Type) Root() *Type {
	root := t
	for root.spec.Parent != nil {
		root = root.spec.Parent
	}
	return root
}

func (t *Type) coerceHook() CoerceFunc {
	for current := t; current != nil; current = current.spec.Parent {
		if current.spec.Coerce != nil {
			return current.spec.Coerce
		}
	}
	return nil
}

func (t *Type) flattenHook() FlattenFunc {
	for current := t; current != nil; current = current.spec.Parent {
		if current.spec.Flatten != nil {
			return current.spec.Flatten
		}
	}
	return nil
}

func (t *Type) buildHook() BuildFunc {
	for current := t; current != nil; current = current.spec.Parent {
		if current.spec.Build != nil {
			return current.spec.Build
		}
	}
	return nil
}

func (t *Type) decodeHook() DecodeFunc {
	for current := t; current != nil; current = current.spec.Parent {
		if current.spec.Decode != nil {
			return current.spec.Decode
		}
	}
	return nil
}

func (t *Type) describeHook() DescribeHookFunc {
	for current := t; current != nil; current = current.spec.Parent {
		if current.spec.Describe != nil {
			return current.spec.Describe
		}
	}
	return nil
}

// Coerce converts raw into a Value of type t using the type's coercion
// hook. Values that already are instances of t are returned unchanged.
func (t *Type) Coerce(raw any) (Value, error) {
	if value, ok := raw.(Value); ok && value != nil && value.Type().IsA(t) {
		return value, nil
	}
	hook := t.coerceHook()
	if hook == nil {
		return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrBadConversion, raw, t)
	}
	return hook(t, raw)
}

// registry maps type names to types. It is written during package
// initialisation and read afterwards.
var registry = struct {
	sync.RWMutex
	types map[string]*Type
}{types: make(map[string]*Type)}

// Register adds t to the process-wide registry. Registering a second
// type under the same name is a structural error.
func Register(t *Type) error {
	registry.Lock()
	defer registry.Unlock()
	if existing, ok := registry.types[t.Name()]; ok && existing != t {
		return fmt.Errorf("%w: type %q already registered", ErrStructural, t.Name())
	}
	registry.types[t.Name()] = t
	return nil
}

// MustRegister creates and registers a type, panicking on a duplicate
// name. It is meant for package-level variable initialisation.
func MustRegister(spec TypeSpec) *Type {
	t := NewType(spec)
	if err := Register(t); err != nil {
		panic(err)
	}
	return t
}

// LookupType returns the registered type with the given name.
func LookupType(name string) (*Type, error) {
	registry.RLock()
	defer registry.RUnlock()
	t, ok := registry.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// Types returns every registered type sorted by name.
func Types() []*Type {
	registry.RLock()
	defer registry.RUnlock()
	types := make([]*Type, 0, len(registry.types))
	for _, t := range registry.types {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b *Type) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	return types
}
