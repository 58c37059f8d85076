// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

// intRange is a template accepting integers in [min, max].
type intRange struct {
	TemplateNode
	min, max int64
}

func newIntRange(min, max int64) *intRange {
	return &intRange{TemplateNode: NewTemplateNode(IntType), min: min, max: max}
}

func newIntRangeFrom(parent Data, min, max int64) *intRange {
	node, err := NewTemplateNodeFrom(parent)
	if err != nil {
		panic(err)
	}
	return &intRange{TemplateNode: node, min: min, max: max}
}

func (r *intRange) TemplateMatch(value Value) bool {
	n := value.(*Int).Int64()
	return n >= r.min && n <= r.max
}

func (r *intRange) String() string { return fmt.Sprintf("Range(%d, %d)", r.min, r.max) }

// pairType is a two-field structured value used to exercise field
// recursion, merging and path resolution.
var pairType = MustRegister(TypeSpec{
	Name: "test.pair",
	Flatten: func(values []Value) (Value, error) {
		merged := &pair{}
		for _, v := range values {
			p := v.(*pair)
			if merged.a == nil {
				merged.a = p.a
			}
			if merged.b == nil {
				merged.b = p.b
			}
		}
		return merged, nil
	},
	Describe: func(v Value, desc *Description) {
		desc.Src = Render(v.(*pair).a)
		desc.Dst = Render(v.(*pair).b)
		desc.Info = "pair"
	},
})

type pair struct {
	Node
	a, b Data
}

func (p *pair) Type() *Type { return pairType }

func (p *pair) MatchSelf(value Value, list *MismatchList) bool {
	other := value.(*pair)
	ok := true
	for _, field := range []struct{ pattern, value Data }{{p.a, other.a}, {p.b, other.b}} {
		if field.pattern == nil {
			continue
		}
		if !Match(field.pattern, field.value, list) {
			ok = false
		}
	}
	return ok
}

func (p *pair) FlatSelf() bool { return IsFlat(p.a) && IsFlat(p.b) }

func (p *pair) Equal(other Value) bool {
	o, ok := other.(*pair)
	return ok && o.a.(Value).Equal(p.a.(Value)) && o.b.(Value).Equal(p.b.(Value))
}

func (p *pair) String() string { return fmt.Sprintf("pair(%s, %s)", Render(p.a), Render(p.b)) }

func (p *pair) Fields() []Field {
	return []Field{{Name: "a", Data: p.a}, {Name: "b", Data: p.b}}
}

func (p *pair) WithPayload(payload any) (Data, error) {
	d, ok := payload.(Data)
	if !ok {
		v, err := Wrap(payload)
		if err != nil {
			return nil, err
		}
		d = v
	}
	d.Freeze()
	child := &pair{b: d}
	if err := SetParent(child, p); err != nil {
		return nil, err
	}
	return child, nil
}

// orderedPair is a template over pairs requiring a < b.
type orderedPair struct {
	TemplateNode
}

func (orderedPair) String() string { return "a < b" }

func (orderedPair) TemplateMatch(value Value) bool {
	p := value.(*pair)
	return p.a.(*Int).Int64() < p.b.(*Int).Int64()
}

// scripted is a value whose MatchSelf result and side effects are
// fixed, for checking the mismatch-list invariant.
var scriptedType = MustRegister(TypeSpec{Name: "test.scripted"})

type scripted struct {
	Node
	result  bool
	entries int
}

func (s *scripted) Type() *Type { return scriptedType }

func (s *scripted) MatchSelf(value Value, list *MismatchList) bool {
	for range s.entries {
		list.Add(Mismatch{Kind: ValueMismatch, Value: value, Pattern: s})
	}
	return s.result
}

func (s *scripted) FlatSelf() bool { return true }

func (s *scripted) Equal(other Value) bool { return other == Value(s) }

func (s *scripted) String() string { return "scripted" }
