// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

// Match reports whether value satisfies pattern and all of pattern's
// ancestors. Mismatches are appended to list, which may be nil.
//
// The value may be a [Value] or a Go primitive; primitives are coerced
// with the pattern type's coercion hook and fall back to [Wrap]. An
// absent value is a TypeMismatch. Without a parent, the value's type
// must be an instance of the pattern's type. With a parent, the parent
// is matched first; if it fails, the pattern's own check still runs
// when the type check passes, to enrich the report, but the result is
// false.
//
// Entries are added to list if and only if Match returns false.
func Match(pattern Data, value any, list *MismatchList) bool {
	if list == nil {
		list = new(MismatchList)
	}
	before := list.Len()

	v, ok := coerceForMatch(pattern, value)
	if !ok {
		list.Add(Mismatch{Kind: TypeMismatch, Value: v, Pattern: pattern})
		return false
	}

	matched := matchChain(pattern, v, list)
	if matched {
		list.truncate(before)
	} else if list.Len() == before {
		list.Add(Mismatch{Kind: ValueMismatch, Value: v, Pattern: pattern})
	}
	return matched
}

func coerceForMatch(pattern Data, raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case Value:
		return v, true
	case Template:
		return nil, false
	}
	if hook := pattern.Type().coerceHook(); hook != nil {
		if v, err := hook(pattern.Type(), raw); err == nil {
			return v, true
		}
	}
	v, err := Wrap(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}

func matchChain(pattern Data, value Value, list *MismatchList) bool {
	kind, typeOK := checkType(pattern.Type(), value)
	if parent := pattern.Parent(); parent != nil {
		if !matchChain(parent, value, list) {
			if typeOK {
				matchOwn(pattern, value, list)
			}
			return false
		}
	}
	if !typeOK {
		list.Add(Mismatch{Kind: kind, Value: value, Pattern: pattern})
		return false
	}
	return matchOwn(pattern, value, list)
}

// checkType returns the mismatch kind to report when value is not an
// instance of t.
func checkType(t *Type, value Value) (Kind, bool) {
	if value.Type().IsA(t) {
		return 0, true
	}
	if value.Type().Root() == t.Root() {
		return VariantMismatch, false
	}
	return TypeMismatch, false
}

// matchOwn runs the pattern's own predicate. Templates report a single
// TemplateMismatch; value hooks are held to the list invariant.
func matchOwn(pattern Data, value Value, list *MismatchList) bool {
	switch p := pattern.(type) {
	case Template:
		if p.TemplateMatch(value) {
			return true
		}
		list.Add(Mismatch{Kind: TemplateMismatch, Value: value, Pattern: pattern})
		return false
	case Value:
		mark := list.Len()
		if p.MatchSelf(value, list) {
			list.truncate(mark)
			return true
		}
		if list.Len() == mark {
			list.Add(Mismatch{Kind: ValueMismatch, Value: value, Pattern: pattern})
		}
		return false
	}
	return false
}

