// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"

	"github.com/bureau-foundation/ttdata/lib/bidict"
)

// Keyer is implemented by values that have a canonical comparable key.
// Values that do not implement it are keyed by type name and String.
type Keyer interface {
	Key() any
}

// TypeDict maps discriminator values to the types they select, and
// types back to the discriminator that announces them. Layered
// decoders use it to choose the payload decoder from a field such as
// a next header number, and encoders to fill that field for a given
// payload type.
type TypeDict struct {
	keyType      *Type
	defaultValue Value
	defaultType  *Type
	table        *bidict.Bidict[any, *Type]
	values       map[any]Value
}

// NewTypeDict returns an empty table whose keys are coerced to
// keyType. defaultValue (may be nil) is returned by [TypeDict.Value]
// when no ancestor of the requested type is registered; defaultType
// (may be nil) is returned by [TypeDict.Type] for unknown keys.
func NewTypeDict(keyType *Type, defaultValue any, defaultType *Type) (*TypeDict, error) {
	td := &TypeDict{
		keyType:     keyType,
		defaultType: defaultType,
		table:       bidict.New[any, *Type](),
		values:      make(map[any]Value),
	}
	if defaultValue != nil {
		v, err := td.coerceKey(defaultValue)
		if err != nil {
			return nil, fmt.Errorf("default value: %w", err)
		}
		td.defaultValue = v
	}
	return td, nil
}

// KeyType returns the type keys are coerced to.
func (td *TypeDict) KeyType() *Type { return td.keyType }

// Set associates key with t in both directions, replacing any entry
// that used either.
func (td *TypeDict) Set(key any, t *Type) error {
	v, err := td.coerceKey(key)
	if err != nil {
		return err
	}
	canonical := canonicalKey(v)
	td.table.Set(canonical, t)
	td.values[canonical] = v
	return nil
}

// MustSet is Set for package initialisation; it panics on error.
func (td *TypeDict) MustSet(key any, t *Type) {
	if err := td.Set(key, t); err != nil {
		panic(err)
	}
}

// Type returns the type registered for key, or the default type.
func (td *TypeDict) Type(key any) (*Type, error) {
	v, err := td.coerceKey(key)
	if err != nil {
		return nil, err
	}
	if t, ok := td.table.Lookup(canonicalKey(v)); ok {
		return t, nil
	}
	if td.defaultType != nil {
		return td.defaultType, nil
	}
	return nil, fmt.Errorf("%w: no type for %s %s", bidict.ErrNotFound, td.keyType, v)
}

// Value returns the key registered for t or for its nearest ancestor,
// or the default value.
func (td *TypeDict) Value(t *Type) (Value, error) {
	for _, ancestor := range t.Ancestors() {
		if canonical, ok := td.table.LookupKey(ancestor); ok {
			return td.values[canonical], nil
		}
	}
	if td.defaultValue != nil {
		return td.defaultValue, nil
	}
	return nil, fmt.Errorf("%w: no %s for %s", bidict.ErrNotFound, td.keyType, t)
}

// Types returns the registered types in registration order.
func (td *TypeDict) Types() []*Type {
	keys := td.table.Keys()
	types := make([]*Type, 0, len(keys))
	for _, key := range keys {
		if t, ok := td.table.Lookup(key); ok {
			types = append(types, t)
		}
	}
	return types
}

func (td *TypeDict) coerceKey(key any) (Value, error) {
	stored, err := StoreData(key, td.keyType, false, false)
	if err != nil {
		return nil, err
	}
	v, ok := stored.(Value)
	if !ok {
		return nil, fmt.Errorf("%w: a template cannot be a %s key", ErrBadConversion, td.keyType)
	}
	return v, nil
}

func canonicalKey(v Value) any {
	if k, ok := v.(Keyer); ok {
		return k.Key()
	}
	return v.Type().Name() + ":" + v.String()
}
