// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

// PayloadCarrier is implemented by layered values that can derive a
// copy of themselves carrying a payload.
type PayloadCarrier interface {
	WithPayload(payload any) (Data, error)
}

// Pack nests items payload inside payload: the last item becomes the
// payload of the one before it, and so on up to the first. Every item
// but the last must be a [PayloadCarrier]; the last may be any Data or
// a Go primitive accepted by its carrier.
func Pack(items ...any) (Data, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to pack", ErrBadConversion)
	}
	inner := items[len(items)-1]
	for i := len(items) - 2; i >= 0; i-- {
		carrier, ok := items[i].(PayloadCarrier)
		if !ok {
			return nil, fmt.Errorf("%w: item %d (%T) cannot carry a payload", ErrBadConversion, i, items[i])
		}
		packed, err := carrier.WithPayload(inner)
		if err != nil {
			return nil, fmt.Errorf("packing item %d: %w", i, err)
		}
		inner = packed
	}
	if d, ok := inner.(Data); ok {
		return d, nil
	}
	v, err := Wrap(inner)
	if err != nil {
		return nil, err
	}
	return v, nil
}
