// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

func badConversion(raw any, t *Type) error {
	return fmt.Errorf("%w: cannot convert %T to %s", ErrBadConversion, raw, t)
}

// Wrap converts a Go primitive into its canonical Value: integers
// become [*Int], strings [*Str], byte slices [*Bytes] and booleans
// [*Bool]. Values are returned unchanged.
func Wrap(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrBadConversion)
	case Value:
		return v, nil
	case string:
		return coerceStr(StrType, v)
	case []byte:
		return coerceBytes(BytesType, v)
	case bool:
		return coerceBool(BoolType, v)
	}
	if _, ok := toInt64(raw); ok {
		return coerceInt(IntType, raw)
	}
	return nil, fmt.Errorf("%w: no value type for %T", ErrBadConversion, raw)
}

// StoreData normalises a raw field input against target and freezes
// the result. It accepts nil (when noneAllowed), [Omit] (when
// omitAllowed), templates and values of the target type, values of
// other types that the target can coerce, and Go primitives the target
// can coerce.
func StoreData(raw any, target *Type, noneAllowed, omitAllowed bool) (Data, error) {
	if raw == nil {
		if noneAllowed {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: a %s is required", ErrBadConversion, target)
	}
	if IsOmit(raw) {
		if omitAllowed {
			return Omit, nil
		}
		return nil, fmt.Errorf("%w: %s cannot be omitted", ErrBadConversion, target)
	}

	var result Data
	switch v := raw.(type) {
	case Template:
		if !v.Type().IsA(target) {
			return nil, fmt.Errorf("%w: template for %s where %s is expected", ErrBadConversion, v.Type(), target)
		}
		result = v
	case Value:
		if v.Type().IsA(target) {
			result = v
			break
		}
		coerced, err := target.Coerce(v)
		if err != nil {
			return nil, err
		}
		result = coerced
	default:
		coerced, err := target.Coerce(raw)
		if err != nil {
			return nil, err
		}
		result = coerced
	}
	result.Freeze()
	return result, nil
}

// Must returns v, panicking if err is non-nil. It is meant for
// package-level tables and tests.
func Must(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}
