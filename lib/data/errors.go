// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeIncompatible is returned by [Flatten] when the nodes of a
	// chain do not all report the same type.
	ErrTypeIncompatible = errors.New("data: incompatible types")

	// ErrTemplateViolation is returned by [Flatten] when the merged
	// value does not satisfy one of the templates in its chain.
	ErrTemplateViolation = errors.New("data: flattened value does not comply with its templates")

	// ErrBadConversion is returned when a raw input cannot be coerced
	// to the requested type.
	ErrBadConversion = errors.New("data: bad conversion")

	// ErrStructural covers misuse of the node graph: attaching a second
	// parent, mutating a frozen node, or producing a result that is not
	// self-contained.
	ErrStructural = errors.New("data: structural violation")

	// ErrFrozen is returned when a frozen node is modified. It matches
	// ErrStructural under errors.Is.
	ErrFrozen = fmt.Errorf("%w: node is frozen", ErrStructural)

	// ErrUnsupported is returned when a type has no hook for the
	// requested operation, for example building a value of a type that
	// has no wire encoding.
	ErrUnsupported = errors.New("data: operation not supported by type")

	// ErrUnknownType is returned by [LookupType] for unregistered names.
	ErrUnknownType = errors.New("data: unknown type")

	// ErrDecode matches every [*DecodeError] under errors.Is.
	ErrDecode = errors.New("data: decode error")
)

// DecodeError reports that a binary buffer could not be decoded as the
// expected type. Path names the fields that were being decoded when
// the failure happened, outermost first. Callers extract it with
// errors.As:
//
//	var decodeErr *data.DecodeError
//	if errors.As(err, &decodeErr) {
//	    fmt.Println(decodeErr.Type, decodeErr.Path)
//	}
type DecodeError struct {
	// Type is the type whose decoder failed.
	Type *Type
	// Path is the field path below the top-level type.
	Path []string
	// Err is the underlying cause.
	Err error
}

func (e *DecodeError) Error() string {
	var location string
	if len(e.Path) > 0 {
		location = " at " + strings.Join(e.Path, ".")
	}
	return fmt.Sprintf("decoding %s%s: %v", e.Type, location, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrDecode].
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
