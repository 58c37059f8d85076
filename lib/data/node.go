// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

// Data is a node of the value/template graph. Every node reports the
// type it represents and optionally derives from one parent node.
//
// Implementations embed [Node] (values) or [TemplateNode] (templates);
// the unexported method keeps the set of node layouts closed.
type Data interface {
	// Type returns the concrete type this node represents.
	Type() *Type
	// Parent returns the node this one derives from, or nil.
	Parent() Data
	// IsFrozen reports whether the node has become immutable.
	IsFrozen() bool
	// Freeze makes the node immutable. Freezing is one way.
	Freeze()

	node() *Node
}

// Value is concrete data.
type Value interface {
	Data

	// MatchSelf compares value, already known to be an instance of the
	// receiver's type, against the receiver's own content. Structured
	// values recurse into their fields with [Match], passing list so
	// that field-level mismatches are recorded.
	MatchSelf(value Value, list *MismatchList) bool

	// FlatSelf reports whether the receiver's own content is fully
	// defined: for structured values, every field is itself flat.
	FlatSelf() bool

	// Equal reports field-for-field equality with other.
	Equal(other Value) bool

	String() string
}

// Template is a pattern that flat values can be matched against.
type Template interface {
	Data

	// TemplateMatch reports whether value satisfies the pattern. It is
	// only called with values that are instances of the template's
	// type.
	TemplateMatch(value Value) bool

	String() string

	template() *TemplateNode
}

// Node carries the derivation link and the frozen flag. Concrete value
// types embed it.
type Node struct {
	parent Data
	frozen bool
}

// Parent returns the node this one derives from, or nil.
func (n *Node) Parent() Data { return n.parent }

// IsFrozen reports whether the node is immutable.
func (n *Node) IsFrozen() bool { return n.frozen }

// Freeze makes the node immutable.
func (n *Node) Freeze() { n.frozen = true }

// CheckMutable returns [ErrFrozen] if the node is frozen. Mutating
// methods of value types call it first.
func (n *Node) CheckMutable() error {
	if n.frozen {
		return ErrFrozen
	}
	return nil
}

func (n *Node) node() *Node { return n }

// attach sets the parent link without any type check. Callers have
// already established compatibility.
func (n *Node) attach(parent Data) error {
	if n.frozen {
		return fmt.Errorf("%w: cannot attach a parent", ErrFrozen)
	}
	if n.parent != nil {
		return fmt.Errorf("%w: parent already set", ErrStructural)
	}
	parent.Freeze()
	n.parent = parent
	return nil
}

// SetParent makes child derive from parent. The parent may be set at
// most once, the child must not be frozen, and the child's type must
// be the parent's type or refine it. Attaching freezes the parent.
func SetParent(child, parent Data) error {
	if parent == nil {
		return fmt.Errorf("%w: nil parent", ErrStructural)
	}
	n := child.node()
	if n == nil {
		return fmt.Errorf("%w: %s cannot derive from another node", ErrStructural, child.Type())
	}
	if !child.Type().IsA(parent.Type()) {
		return fmt.Errorf("%w: %s cannot derive from %s", ErrStructural, child.Type(), parent.Type())
	}
	return n.attach(parent)
}

// Chain returns d followed by its ancestors, most derived first.
func Chain(d Data) []Data {
	var chain []Data
	for current := d; current != nil; current = current.Parent() {
		chain = append(chain, current)
	}
	return chain
}

// TemplateNode is embedded by template types. It records the type the
// template constrains.
type TemplateNode struct {
	Node
	target *Type
}

// NewTemplateNode returns a template node constraining values of t.
func NewTemplateNode(t *Type) TemplateNode {
	return TemplateNode{target: t}
}

// NewTemplateNodeFrom returns a template node deriving from parent.
// The constrained type is inferred from the parent, which is frozen.
func NewTemplateNodeFrom(parent Data) (TemplateNode, error) {
	if parent == nil {
		return TemplateNode{}, fmt.Errorf("%w: nil parent", ErrStructural)
	}
	tn := TemplateNode{target: parent.Type()}
	parent.Freeze()
	tn.parent = parent
	return tn, nil
}

// Type returns the constrained type.
func (t *TemplateNode) Type() *Type { return t.target }

func (t *TemplateNode) template() *TemplateNode { return t }
