// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

// Kind classifies a [Mismatch].
type Kind uint8

const (
	// ValueMismatch: the value differs from the pattern's content.
	ValueMismatch Kind = iota + 1
	// TypeMismatch: the value is not an instance of the pattern's type.
	TypeMismatch
	// VariantMismatch: the value and the pattern share a base type but
	// are different variants of it.
	VariantMismatch
	// LengthMismatch: a collection has a different number of elements.
	LengthMismatch
	// TemplateMismatch: a template's own predicate rejected the value.
	TemplateMismatch
)

func (k Kind) String() string {
	switch k {
	case ValueMismatch:
		return "ValueMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case VariantMismatch:
		return "VariantMismatch"
	case LengthMismatch:
		return "LengthMismatch"
	case TemplateMismatch:
		return "TemplateMismatch"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Lengther is implemented by values and templates that have a length.
// LengthMismatch descriptions use it.
type Lengther interface {
	Len() int
}

// DescribeFunc renders a node for a mismatch report. A nil
// DescribeFunc uses the node's String method.
type DescribeFunc func(d Data) string

// Mismatch records one reason a match failed.
type Mismatch struct {
	Kind Kind
	// Value is the offending value. It is nil when the matched input was
	// absent or could not be represented as a value.
	Value Value
	// Pattern is the node the value was checked against.
	Pattern Data
}

// DescribeValue renders the offending side.
func (m Mismatch) DescribeValue(describe DescribeFunc) string {
	return m.describeSide(m.Value, describe)
}

// DescribeExpected renders what the pattern required.
func (m Mismatch) DescribeExpected(describe DescribeFunc) string {
	return m.describeSide(m.Pattern, describe)
}

// DescribeFull renders the mismatch on one line.
func (m Mismatch) DescribeFull(describe DescribeFunc) string {
	return fmt.Sprintf("%s: got %s, expected %s", m.Kind, m.DescribeValue(describe), m.DescribeExpected(describe))
}

func (m Mismatch) describeSide(d Data, describe DescribeFunc) string {
	if d == nil {
		return "None"
	}
	switch m.Kind {
	case TypeMismatch, VariantMismatch:
		return d.Type().Name()
	case LengthMismatch:
		if l, ok := d.(Lengther); ok {
			return fmt.Sprintf("length %d", l.Len())
		}
	}
	if describe != nil {
		return describe(d)
	}
	return Render(d)
}

// Render returns the String form of a node, or "None" for nil.
func Render(d Data) string {
	if d == nil {
		return "None"
	}
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return d.Type().Name()
}

func (m Mismatch) String() string {
	return m.DescribeFull(nil)
}

// MismatchList accumulates mismatches during a match. A nil
// *MismatchList is valid and discards everything.
type MismatchList struct {
	entries []Mismatch
}

// Add appends a mismatch.
func (l *MismatchList) Add(m Mismatch) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, m)
}

// Len returns the number of mismatches recorded.
func (l *MismatchList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns a copy of the recorded mismatches in order.
func (l *MismatchList) Entries() []Mismatch {
	if l == nil {
		return nil
	}
	return append([]Mismatch(nil), l.entries...)
}

func (l *MismatchList) truncate(n int) {
	if l == nil || n >= len(l.entries) {
		return
	}
	clear(l.entries[n:])
	l.entries = l.entries[:n]
}

// Field names one child of a structured value for path resolution.
type Field struct {
	Name string
	Data Data
}

// Container is implemented by structured values so that a
// [DifferenceList] can locate a mismatch inside them.
type Container interface {
	Fields() []Field
}

// DifferenceList ties a list of mismatches to the value that was
// matched, so each mismatch can be reported with the path of the
// offending field.
type DifferenceList struct {
	Root Value
	MismatchList
}

// NewDifferenceList returns an empty list for root.
func NewDifferenceList(root Value) *DifferenceList {
	return &DifferenceList{Root: root}
}

// Walk calls fn for every mismatch in order with the path from the
// root to the offending value. Paths start with the root type's name;
// a value that cannot be located yields just that name.
func (d *DifferenceList) Walk(fn func(path []string, m Mismatch)) {
	var rootName string
	if d.Root != nil {
		rootName = d.Root.Type().Name()
	}
	for _, m := range d.entries {
		path := []string{rootName}
		if m.Value != nil && d.Root != nil {
			if found, ok := locate(d.Root, m.Value, nil); ok {
				path = append(path, found...)
			}
		}
		fn(path, m)
	}
}

// locate finds target inside d by identity, depth first.
func locate(d Data, target Value, prefix []string) ([]string, bool) {
	if v, ok := d.(Value); ok && v == target {
		return prefix, true
	}
	container, ok := d.(Container)
	if !ok {
		return nil, false
	}
	for _, field := range container.Fields() {
		if field.Data == nil {
			continue
		}
		path := append(append([]string(nil), prefix...), field.Name)
		if found, ok := locate(field.Data, target, path); ok {
			return found, true
		}
	}
	return nil, false
}
