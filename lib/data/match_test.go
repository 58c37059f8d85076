// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"slices"
	"strings"
	"testing"
)

func mustCoerce(t *testing.T, typ *Type, raw any) Value {
	t.Helper()
	v, err := typ.Coerce(raw)
	if err != nil {
		t.Fatalf("%s.Coerce(%v): %v", typ, raw, err)
	}
	return v
}

func kinds(list *MismatchList) []Kind {
	var out []Kind
	for _, m := range list.Entries() {
		out = append(out, m.Kind)
	}
	return out
}

func TestMatchAbsentValue(t *testing.T) {
	var list MismatchList
	if Match(NewInt(1), nil, &list) {
		t.Fatal("Match(nil) succeeded")
	}
	if got := kinds(&list); !slices.Equal(got, []Kind{TypeMismatch}) {
		t.Errorf("kinds = %v, want [TypeMismatch]", got)
	}
	if list.Entries()[0].DescribeValue(nil) != "None" {
		t.Errorf("DescribeValue = %q, want None", list.Entries()[0].DescribeValue(nil))
	}
}

func TestMatchCoercesPrimitives(t *testing.T) {
	pattern := mustCoerce(t, Uint8Type, 5)
	if !Match(pattern, 5, nil) {
		t.Error("uint8 pattern 5 does not match raw 5")
	}

	var list MismatchList
	if Match(pattern, 6, &list) {
		t.Fatal("uint8 pattern 5 matches raw 6")
	}
	if got := kinds(&list); !slices.Equal(got, []Kind{ValueMismatch}) {
		t.Errorf("kinds = %v, want [ValueMismatch]", got)
	}

	if !Match(NewStr("blah"), "blah", nil) {
		t.Error("str pattern does not match raw string")
	}
	if Match(NewStr("blah"), struct{}{}, nil) {
		t.Error("unconvertible input matched")
	}
}

func TestMatchTypeAndVariant(t *testing.T) {
	tests := []struct {
		name    string
		pattern Data
		value   Value
		kind    Kind
	}{
		{"unrelated types", NewStr("1"), NewInt(1), TypeMismatch},
		{"sibling integer widths", mustCoerce(t, Uint8Type, 1), mustCoerce(t, Uint16Type, 1), VariantMismatch},
		{"general value against sized pattern", mustCoerce(t, Uint8Type, 1), NewInt(1), VariantMismatch},
		{"omit against value", NewInt(1), Omit, TypeMismatch},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var list MismatchList
			if Match(test.pattern, test.value, &list) {
				t.Fatal("match succeeded")
			}
			if got := kinds(&list); !slices.Equal(got, []Kind{test.kind}) {
				t.Errorf("kinds = %v, want [%s]", got, test.kind)
			}
		})
	}

	// A sized value is an instance of the general type.
	if !Match(NewInt(1), mustCoerce(t, Uint8Type, 1), nil) {
		t.Error("uint8 value does not match int pattern")
	}
}

func TestMatchParentMonotonicity(t *testing.T) {
	outer := newIntRange(0, 10)
	inner := newIntRangeFrom(outer, 5, 20)
	if !outer.IsFrozen() {
		t.Fatal("deriving a template did not freeze its parent")
	}
	if inner.Type() != IntType {
		t.Fatalf("derived template type = %s, want int", inner.Type())
	}

	for x := int64(-5); x <= 25; x++ {
		if !Match(outer, x, nil) && Match(inner, x, nil) {
			t.Errorf("x=%d: parent fails but derived template matches", x)
		}
	}

	tests := []struct {
		value int64
		want  []Kind
	}{
		{7, nil},
		{3, []Kind{TemplateMismatch}},                   // parent passes, own check fails
		{15, []Kind{TemplateMismatch}},                  // parent fails, own check passes
		{30, []Kind{TemplateMismatch, TemplateMismatch}}, // both fail; own check enriches
	}
	for _, test := range tests {
		var list MismatchList
		matched := Match(inner, test.value, &list)
		if matched != (test.want == nil) {
			t.Errorf("Match(%d) = %v", test.value, matched)
		}
		if got := kinds(&list); !slices.Equal(got, test.want) {
			t.Errorf("Match(%d) kinds = %v, want %v", test.value, got, test.want)
		}
	}
}

func TestMatchParentTypeFailureSkipsOwnCheck(t *testing.T) {
	inner := newIntRangeFrom(newIntRange(0, 10), 0, 10)
	var list MismatchList
	if Match(inner, "text", &list) {
		t.Fatal("string matched an integer template chain")
	}
	if got := kinds(&list); !slices.Equal(got, []Kind{TypeMismatch}) {
		t.Errorf("kinds = %v, want a single TypeMismatch from the root", got)
	}
}

func TestMatchListInvariant(t *testing.T) {
	tests := []struct {
		name    string
		pattern *scripted
		want    bool
		entries int
	}{
		{"fails silently", &scripted{result: false}, false, 1},
		{"fails with detail", &scripted{result: false, entries: 2}, false, 2},
		{"succeeds with stray entries", &scripted{result: true, entries: 3}, true, 0},
		{"succeeds cleanly", &scripted{result: true}, true, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			list := MismatchList{}
			list.Add(Mismatch{Kind: LengthMismatch}) // pre-existing entry is kept
			got := Match(test.pattern, &scripted{}, &list)
			if got != test.want {
				t.Fatalf("Match = %v, want %v", got, test.want)
			}
			if list.Len()-1 != test.entries {
				t.Errorf("added %d entries, want %d", list.Len()-1, test.entries)
			}
			if (list.Len() > 1) == got {
				t.Error("list grew iff match failed does not hold")
			}
		})
	}
}

func TestMatchNilListDiscards(t *testing.T) {
	if Match(NewInt(1), 2, nil) {
		t.Fatal("1 matched 2")
	}
	var list *MismatchList
	list.Add(Mismatch{Kind: ValueMismatch})
	if list.Len() != 0 || list.Entries() != nil {
		t.Error("nil list recorded entries")
	}
}

func TestMatchStructuredFields(t *testing.T) {
	pattern := &pair{a: NewInt(1), b: newIntRange(0, 5)}
	value := &pair{a: NewInt(2), b: NewInt(9)}

	diff := NewDifferenceList(value)
	if Match(pattern, value, &diff.MismatchList) {
		t.Fatal("mismatching pair matched")
	}

	var lines []string
	diff.Walk(func(path []string, m Mismatch) {
		lines = append(lines, strings.Join(path, ".")+" "+m.DescribeFull(nil))
	})
	want := []string{
		"test.pair.a ValueMismatch: got 2, expected 1",
		"test.pair.b TemplateMismatch: got 9, expected Range(0, 5)",
	}
	if !slices.Equal(lines, want) {
		t.Errorf("walk =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}

	// An unconstrained field matches anything.
	if !Match(&pair{a: NewInt(2)}, value, nil) {
		t.Error("pair with nil b did not match")
	}
}

func TestMismatchDescriptions(t *testing.T) {
	m := Mismatch{Kind: VariantMismatch, Value: NewInt(3), Pattern: mustCoerce(t, Uint8Type, 3)}
	if got := m.DescribeValue(nil); got != "int" {
		t.Errorf("DescribeValue = %q, want int", got)
	}
	if got := m.DescribeExpected(nil); got != "uint8" {
		t.Errorf("DescribeExpected = %q, want uint8", got)
	}

	m = Mismatch{Kind: LengthMismatch, Value: NewBytes([]byte("abc")), Pattern: NewBytes([]byte("ab"))}
	if got := m.DescribeFull(nil); got != "LengthMismatch: got length 3, expected length 2" {
		t.Errorf("DescribeFull = %q", got)
	}

	m = Mismatch{Kind: ValueMismatch, Value: NewInt(3), Pattern: NewInt(4)}
	custom := func(d Data) string { return "<" + Render(d) + ">" }
	if got := m.DescribeFull(custom); got != "ValueMismatch: got <3>, expected <4>" {
		t.Errorf("DescribeFull(custom) = %q", got)
	}
	if Kind(42).String() != "Kind(42)" {
		t.Errorf("unknown kind = %q", Kind(42).String())
	}
}
