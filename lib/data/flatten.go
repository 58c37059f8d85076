// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

// Flatten merges a derivation chain into one flat, frozen value.
//
// Every input is frozen and sorted into values and templates. With no
// values the result is nil and no error. All inputs must report the
// same type. The type's Flatten hook merges the values (most derived
// first); types without one accept only a single flat value, the most
// derived. The merged value must then satisfy every template in the
// input, each checked together with its ancestors.
func Flatten(datas ...Data) (Value, error) {
	var values []Value
	var templates []Template
	var t *Type
	for _, d := range datas {
		if d == nil {
			continue
		}
		d.Freeze()
		switch node := d.(type) {
		case Template:
			templates = append(templates, node)
		case Value:
			values = append(values, node)
		default:
			return nil, fmt.Errorf("%w: %T is neither a value nor a template", ErrStructural, d)
		}
		if t == nil {
			t = d.Type()
		} else if d.Type() != t {
			return nil, fmt.Errorf("%w: cannot flatten %s with %s", ErrTypeIncompatible, t, d.Type())
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	merge := t.flattenHook()
	if merge == nil {
		merge = flattenDefault
	}
	result, err := merge(values)
	if err != nil {
		return nil, err
	}
	if result.Parent() != nil {
		return nil, fmt.Errorf("%w: flattening %s produced a derived value", ErrStructural, t)
	}
	result.Freeze()

	for _, template := range templates {
		var list MismatchList
		if !Match(template, result, &list) {
			return nil, fmt.Errorf("%w: %s does not satisfy %s: %s",
				ErrTemplateViolation, result, template, list.entries[0].DescribeFull(nil))
		}
	}
	return result, nil
}

// flattenDefault handles types whose values carry no fields to merge:
// the most derived value must already be self-contained.
func flattenDefault(values []Value) (Value, error) {
	v := values[0]
	if v.Parent() != nil || !v.FlatSelf() {
		return nil, fmt.Errorf("%w: %s has no merge rule for derived values", ErrStructural, v.Type())
	}
	return v, nil
}

// FlattenChain flattens d together with its ancestors.
func FlattenChain(d Data) (Value, error) {
	return Flatten(Chain(d)...)
}

// IsFlat reports whether d is a self-contained value: it has no parent
// and its own content is fully defined. Templates are never flat.
func IsFlat(d Data) bool {
	v, ok := d.(Value)
	if !ok {
		return false
	}
	return v.Parent() == nil && v.FlatSelf()
}
