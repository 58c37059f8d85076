// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bidict

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that have no matching entry.
var ErrNotFound = errors.New("bidict: not found")

// Bidict is a bidirectional map between keys and values. The zero
// value is not usable; create one with [New] or [NewWithDuplicates].
type Bidict[K comparable, V comparable] struct {
	forward         map[K]V
	backward        map[V]K
	order           []K
	allowDuplicates bool
}

// New returns an empty Bidict in which every key and every value
// belongs to at most one entry.
func New[K comparable, V comparable]() *Bidict[K, V] {
	return &Bidict[K, V]{
		forward:  make(map[K]V),
		backward: make(map[V]K),
	}
}

// NewWithDuplicates returns an empty Bidict that does not enforce
// uniqueness. Setting an existing key or value overwrites that
// direction only; the most recent Set wins each lookup.
func NewWithDuplicates[K comparable, V comparable]() *Bidict[K, V] {
	d := New[K, V]()
	d.allowDuplicates = true
	return d
}

// Set associates key with value in both directions.
func (d *Bidict[K, V]) Set(key K, value V) {
	if !d.allowDuplicates {
		if oldValue, ok := d.forward[key]; ok {
			delete(d.forward, key)
			if d.backward[oldValue] == key {
				delete(d.backward, oldValue)
			}
		}
		if oldKey, ok := d.backward[value]; ok {
			delete(d.backward, value)
			if d.forward[oldKey] == value {
				delete(d.forward, oldKey)
			}
		}
		// A replaced key moves to the end of the insertion order.
		d.compact()
	}

	if _, exists := d.forward[key]; !exists {
		d.order = append(d.order, key)
	}
	d.forward[key] = value
	d.backward[value] = key
}

// Get returns the value associated with key.
func (d *Bidict[K, V]) Get(key K) (V, error) {
	value, ok := d.forward[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: key %v", ErrNotFound, key)
	}
	return value, nil
}

// Key returns the key associated with value.
func (d *Bidict[K, V]) Key(value V) (K, error) {
	key, ok := d.backward[value]
	if !ok {
		var zero K
		return zero, fmt.Errorf("%w: value %v", ErrNotFound, value)
	}
	return key, nil
}

// Lookup returns the value for key and whether it was present.
func (d *Bidict[K, V]) Lookup(key K) (V, bool) {
	value, ok := d.forward[key]
	return value, ok
}

// LookupKey returns the key for value and whether it was present.
func (d *Bidict[K, V]) LookupKey(value V) (K, bool) {
	key, ok := d.backward[value]
	return key, ok
}

// Delete removes the entry for key, and the reverse entry when it
// still points at key.
func (d *Bidict[K, V]) Delete(key K) {
	value, ok := d.forward[key]
	if !ok {
		return
	}
	delete(d.forward, key)
	if d.backward[value] == key {
		delete(d.backward, value)
	}
	d.compact()
}

// Len returns the number of forward entries.
func (d *Bidict[K, V]) Len() int {
	return len(d.forward)
}

// Keys returns the keys in insertion order.
func (d *Bidict[K, V]) Keys() []K {
	keys := make([]K, len(d.order))
	copy(keys, d.order)
	return keys
}

// compact drops keys from the insertion order once they have left the
// forward map.
func (d *Bidict[K, V]) compact() {
	if len(d.order) == len(d.forward) {
		return
	}
	kept := d.order[:0]
	for _, key := range d.order {
		if _, ok := d.forward[key]; ok {
			kept = append(kept, key)
		}
	}
	d.order = kept
}
