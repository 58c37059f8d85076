// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bureau-foundation/ttdata/lib/data"
)

// Packet is a structured value laid out by a [Layout]. Each field is
// nil (undefined), data.Omit, a value, or a template.
type Packet struct {
	data.Node
	layout *Layout
	fields []data.Data
}

// New returns a packet of layout l with the given fields set. Keys are
// field names or aliases.
func New(l *Layout, fields map[string]any) (*Packet, error) {
	p := &Packet{layout: l, fields: make([]data.Data, len(l.Fields))}
	// Fields are set in name order.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.Set(name, fields[name]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Must is New for tables and tests; it panics on error.
func Must(l *Layout, fields map[string]any) *Packet {
	p, err := New(l, fields)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Packet) Type() *data.Type { return p.layout.typ }

// Layout returns the packet's layout.
func (p *Packet) Layout() *Layout { return p.layout }

// Set stores raw in the named field. The packet must not be frozen.
func (p *Packet) Set(name string, raw any) error {
	if err := p.CheckMutable(); err != nil {
		return err
	}
	i, err := p.layout.FieldIndex(name)
	if err != nil {
		return err
	}
	stored, err := p.store(i, raw)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.layout.Name, p.layout.Fields[i].Name, err)
	}
	p.fields[i] = stored
	return nil
}

func (p *Packet) store(i int, raw any) (data.Data, error) {
	f := p.layout.Fields[i]
	if !f.Payload {
		return data.StoreData(raw, f.Type, true, true)
	}
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case data.Data:
		v.Freeze()
		return v, nil
	case string:
		return data.NewBytes([]byte(v)), nil
	}
	v, err := data.Wrap(raw)
	if err != nil {
		return nil, err
	}
	v.Freeze()
	return v, nil
}

// Get returns the packet's own value for the named field; ancestors
// are not consulted. It is nil when the field is undefined.
func (p *Packet) Get(name string) (data.Data, error) {
	i, err := p.layout.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return p.fields[i], nil
}

// Value returns the named field if it holds a value, or nil. It is the
// accessor used on flat packets.
func (p *Packet) Value(name string) data.Value {
	i, ok := p.layout.index[name]
	if !ok {
		return nil
	}
	v, _ := p.fields[i].(data.Value)
	return v
}

// Uint returns the named integer field, or false when it is not an
// integer value.
func (p *Packet) Uint(name string) (uint64, bool) {
	n, ok := p.Value(name).(*data.Int)
	if !ok || n.Int64() < 0 {
		return 0, false
	}
	return uint64(n.Int64()), true
}

// Payload returns the payload field, or nil.
func (p *Packet) Payload() data.Data {
	if p.layout.payload < 0 {
		return nil
	}
	return p.fields[p.layout.payload]
}

// With derives a child packet overriding the given fields. The child
// takes the receiver as its parent, which freezes the receiver.
func (p *Packet) With(overrides map[string]any) (*Packet, error) {
	child, err := New(p.layout, overrides)
	if err != nil {
		return nil, err
	}
	if err := data.SetParent(child, p); err != nil {
		return nil, err
	}
	return child, nil
}

// WithPayload derives a child packet carrying payload.
func (p *Packet) WithPayload(payload any) (data.Data, error) {
	if p.layout.payload < 0 {
		return nil, fmt.Errorf("%w: %s carries no payload", data.ErrBadConversion, p.layout.Name)
	}
	child, err := p.With(map[string]any{p.layout.Fields[p.layout.payload].Name: payload})
	if err != nil {
		return nil, err
	}
	return child, nil
}

// Freeze freezes the packet and every field it holds.
func (p *Packet) Freeze() {
	for _, f := range p.fields {
		if f != nil {
			f.Freeze()
		}
	}
	p.Node.Freeze()
}

// MatchSelf compares the fields the receiver defines with the fields
// of the same name in value. Undefined pattern fields match anything.
func (p *Packet) MatchSelf(value data.Value, list *data.MismatchList) bool {
	other, ok := value.(*Packet)
	if !ok {
		return false
	}
	matched := true
	for i, f := range p.layout.Fields {
		pattern := p.fields[i]
		if pattern == nil {
			continue
		}
		var field any
		if j, ok := other.layout.index[f.Name]; ok {
			if d := other.fields[j]; d != nil {
				field = d
			}
		}
		if !data.Match(pattern, field, list) {
			matched = false
		}
	}
	return matched
}

// FlatSelf reports whether every defined field is flat.
func (p *Packet) FlatSelf() bool {
	for _, f := range p.fields {
		if f != nil && !data.IsFlat(f) {
			return false
		}
	}
	return true
}

// Equal reports field-for-field equality.
func (p *Packet) Equal(other data.Value) bool {
	o, ok := other.(*Packet)
	if !ok || o.layout != p.layout {
		return false
	}
	for i := range p.fields {
		if !fieldEqual(p.fields[i], o.fields[i]) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b data.Data) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, aok := a.(data.Value)
	bv, bok := b.(data.Value)
	if aok && bok {
		return av.Equal(bv)
	}
	return a == b
}

func (p *Packet) String() string {
	var parts []string
	for i, f := range p.layout.Fields {
		if p.fields[i] == nil {
			continue
		}
		parts = append(parts, f.Name+"="+data.Render(p.fields[i]))
	}
	return p.layout.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Fields lists the defined fields for path resolution. The payload is
// named after the type it holds.
func (p *Packet) Fields() []data.Field {
	var out []data.Field
	for i, f := range p.layout.Fields {
		d := p.fields[i]
		if d == nil {
			continue
		}
		name := f.Name
		if f.Payload {
			name = d.Type().Name()
		}
		out = append(out, data.Field{Name: name, Data: d})
	}
	return out
}

// clone returns an unfrozen, parentless copy sharing field values.
func (p *Packet) clone() *Packet {
	return &Packet{layout: p.layout, fields: append([]data.Data(nil), p.fields...)}
}

func describe(v data.Value, desc *data.Description) {
	p := v.(*Packet)
	desc.Info = p.layout.Name
	if p.layout.Describe != nil {
		p.layout.Describe(p, desc)
	}
	if inner, ok := p.Payload().(*Packet); ok {
		data.DescribeInto(inner, desc)
	}
}
