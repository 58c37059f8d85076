// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package templates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bureau-foundation/ttdata/lib/data"
)

// Unbounded disables the upper bound of a [Length] template.
const Unbounded = -1

// AnyTemplate matches every instance of its type.
type AnyTemplate struct {
	data.TemplateNode
}

// Any returns a template accepting any value of t.
func Any(t *data.Type) *AnyTemplate {
	return &AnyTemplate{TemplateNode: data.NewTemplateNode(t)}
}

func (a *AnyTemplate) TemplateMatch(data.Value) bool { return true }

func (a *AnyTemplate) String() string { return "Any(" + a.Type().Name() + ")" }

// RangeTemplate matches integers within inclusive bounds.
type RangeTemplate struct {
	data.TemplateNode
	Min, Max int64
}

// Range returns a template accepting integers of t in [min, max].
func Range(t *data.Type, min, max int64) (*RangeTemplate, error) {
	if !t.IsA(data.IntType) {
		return nil, fmt.Errorf("%w: range over non-integer type %s", data.ErrBadConversion, t)
	}
	if min > max {
		return nil, fmt.Errorf("%w: empty range [%d, %d]", data.ErrBadConversion, min, max)
	}
	return &RangeTemplate{TemplateNode: data.NewTemplateNode(t), Min: min, Max: max}, nil
}

// RangeFrom returns a range template deriving from parent. A value
// matches only if it also satisfies parent.
func RangeFrom(parent data.Data, min, max int64) (*RangeTemplate, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: nil parent", data.ErrStructural)
	}
	r, err := Range(parent.Type(), min, max)
	if err != nil {
		return nil, err
	}
	node, err := data.NewTemplateNodeFrom(parent)
	if err != nil {
		return nil, err
	}
	r.TemplateNode = node
	return r, nil
}

func (r *RangeTemplate) TemplateMatch(value data.Value) bool {
	n, ok := value.(*data.Int)
	return ok && n.Int64() >= r.Min && n.Int64() <= r.Max
}

func (r *RangeTemplate) String() string {
	return fmt.Sprintf("Range(%d, %d)", r.Min, r.Max)
}

// LengthTemplate matches values whose length lies within bounds.
type LengthTemplate struct {
	data.TemplateNode
	Min, Max int
}

// Length returns a template accepting values of t whose Len is in
// [min, max]. Pass [Unbounded] as max for no upper bound.
func Length(t *data.Type, min, max int) *LengthTemplate {
	return &LengthTemplate{TemplateNode: data.NewTemplateNode(t), Min: min, Max: max}
}

func (l *LengthTemplate) TemplateMatch(value data.Value) bool {
	sized, ok := value.(data.Lengther)
	if !ok {
		return false
	}
	n := sized.Len()
	return n >= l.Min && (l.Max == Unbounded || n <= l.Max)
}

func (l *LengthTemplate) String() string {
	upper := "*"
	if l.Max != Unbounded {
		upper = strconv.Itoa(l.Max)
	}
	return fmt.Sprintf("Length(%d, %s)", l.Min, upper)
}

// NotTemplate matches values that do not match its pattern.
type NotTemplate struct {
	data.TemplateNode
	Pattern data.Data
}

// Not returns the negation of pattern.
func Not(pattern data.Data) (*NotTemplate, error) {
	if pattern == nil {
		return nil, fmt.Errorf("%w: nil pattern", data.ErrStructural)
	}
	pattern.Freeze()
	return &NotTemplate{TemplateNode: data.NewTemplateNode(pattern.Type()), Pattern: pattern}, nil
}

func (n *NotTemplate) TemplateMatch(value data.Value) bool {
	return !data.Match(n.Pattern, value, nil)
}

func (n *NotTemplate) String() string { return "Not(" + data.Render(n.Pattern) + ")" }

// EitherTemplate matches values that match at least one alternative.
type EitherTemplate struct {
	data.TemplateNode
	Alternatives []data.Data
}

// ErrNoCommonType is returned by [Either] when the alternatives share
// no ancestor type.
var ErrNoCommonType = errors.New("templates: alternatives share no common type")

// Either returns a template matching any of alternatives. Its type is
// the most specific type every alternative is an instance of.
func Either(alternatives ...data.Data) (*EitherTemplate, error) {
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("%w: no alternatives", data.ErrStructural)
	}
	common := alternatives[0].Type()
	for _, alternative := range alternatives[1:] {
		common = commonAncestor(common, alternative.Type())
		if common == nil {
			return nil, fmt.Errorf("%w: %s and %s", ErrNoCommonType, alternatives[0].Type(), alternative.Type())
		}
	}
	for _, alternative := range alternatives {
		alternative.Freeze()
	}
	return &EitherTemplate{
		TemplateNode: data.NewTemplateNode(common),
		Alternatives: alternatives,
	}, nil
}

func (e *EitherTemplate) TemplateMatch(value data.Value) bool {
	for _, alternative := range e.Alternatives {
		if data.Match(alternative, value, nil) {
			return true
		}
	}
	return false
}

func (e *EitherTemplate) String() string {
	parts := make([]string, len(e.Alternatives))
	for i, alternative := range e.Alternatives {
		parts[i] = data.Render(alternative)
	}
	return "Either(" + strings.Join(parts, ", ") + ")"
}

func commonAncestor(a, b *data.Type) *data.Type {
	for _, candidate := range a.Ancestors() {
		if b.IsA(candidate) {
			return candidate
		}
	}
	return nil
}
