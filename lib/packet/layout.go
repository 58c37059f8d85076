// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packet

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bureau-foundation/ttdata/lib/data"
)

// Field describes one field of a layout.
type Field struct {
	// Name is the canonical field name used in reports and paths.
	Name string
	// Alias is an optional short name accepted in field maps, for
	// example "sport" for SrcPort.
	Alias string
	// Type is the field's value type. It is unused for the payload
	// field, which may hold any value.
	Type *data.Type
	// Default is the raw value used at build time when the field is
	// undefined and no hook computes it.
	Default any
	// Payload marks the field that carries the next layer. A layout has
	// at most one payload field, and it is the last field.
	Payload bool
}

// Layout is the declaration of a structured packet type.
type Layout struct {
	Name   string
	Fields []Field

	// Payloads maps the value of the PayloadKey field to the type of the
	// payload, and the payload type back to the key value at build time.
	Payloads   *data.TypeDict
	PayloadKey string

	// PayloadType decodes the payload when Payloads is nil. It defaults
	// to data.BytesType.
	PayloadType *data.Type

	// Variants maps the value of the VariantKey field to a sub-kind of
	// this layout. Decoding re-dispatches to the sub-kind; building a
	// sub-kind fills VariantKey from it.
	Variants   *data.TypeDict
	VariantKey string

	// PayloadSize returns the payload length in bytes of a packet whose
	// header fields have been decoded. Without it, or when it reports
	// false, the payload runs to the end of the buffer.
	PayloadSize func(p *Packet) (int, bool)

	// Complete computes derived fields (lengths, checksums) once the
	// payload has been built.
	Complete func(s *BuildState) error

	// Describe fills the parts of a description this layer knows about.
	Describe func(p *Packet, desc *data.Description)

	parent  *Layout
	typ     *data.Type
	index   map[string]int
	payload int
}

// ErrUnknownField is returned when a field name is not part of a
// layout.
var ErrUnknownField = errors.New("packet: unknown field")

// layouts maps registered packet types to their layouts.
var layouts = struct {
	sync.RWMutex
	byType map[*data.Type]*Layout
}{byType: make(map[*data.Type]*Layout)}

// Define validates l, registers its type, and returns it.
func Define(l *Layout) (*Layout, error) {
	if l.Name == "" {
		return nil, fmt.Errorf("%w: layout without a name", data.ErrStructural)
	}
	l.index = make(map[string]int, len(l.Fields)*2)
	l.payload = -1
	for i, f := range l.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: %s field %d has no name", data.ErrStructural, l.Name, i)
		}
		if f.Payload {
			if i != len(l.Fields)-1 {
				return nil, fmt.Errorf("%w: %s payload field %s is not last", data.ErrStructural, l.Name, f.Name)
			}
			l.payload = i
		} else if f.Type == nil {
			return nil, fmt.Errorf("%w: %s field %s has no type", data.ErrStructural, l.Name, f.Name)
		}
		for _, name := range []string{f.Name, f.Alias} {
			if name == "" {
				continue
			}
			if _, dup := l.index[name]; dup {
				return nil, fmt.Errorf("%w: %s field name %q used twice", data.ErrStructural, l.Name, name)
			}
			l.index[name] = i
		}
	}
	for _, key := range []string{l.PayloadKey, l.VariantKey} {
		if key == "" {
			continue
		}
		if _, ok := l.index[key]; !ok {
			return nil, fmt.Errorf("%w: %s key field %q", ErrUnknownField, l.Name, key)
		}
	}
	if l.PayloadType == nil {
		l.PayloadType = data.BytesType
	}

	spec := data.TypeSpec{
		Name:     l.Name,
		Coerce:   l.coerce,
		Flatten:  l.flatten,
		Build:    l.build,
		Decode:   l.decode,
		Describe: describe,
	}
	if l.parent != nil {
		spec.Parent = l.parent.typ
	}
	l.typ = data.NewType(spec)
	if err := data.Register(l.typ); err != nil {
		return nil, err
	}

	layouts.Lock()
	layouts.byType[l.typ] = l
	layouts.Unlock()
	return l, nil
}

// MustDefine is Define for package initialisation; it panics on error.
func MustDefine(l *Layout) *Layout {
	defined, err := Define(l)
	if err != nil {
		panic(err)
	}
	return defined
}

// Variant defines l as a sub-kind of base. The variant's fields are the
// base fields followed by l's own, with the base payload field (if any)
// kept last. Hooks l leaves nil are taken from base.
func Variant(base *Layout, l *Layout) (*Layout, error) {
	fields := slices.Clone(base.Fields)
	var payload []Field
	if base.payload >= 0 {
		payload = []Field{fields[base.payload]}
		fields = fields[:base.payload]
	}
	fields = append(fields, l.Fields...)
	fields = append(fields, payload...)
	l.Fields = fields
	l.parent = base

	if l.PayloadSize == nil {
		l.PayloadSize = base.PayloadSize
	}
	if l.Complete == nil {
		l.Complete = base.Complete
	}
	if l.Describe == nil {
		l.Describe = base.Describe
	}
	if l.Payloads == nil {
		l.Payloads, l.PayloadKey = base.Payloads, base.PayloadKey
	}
	if l.PayloadType == nil {
		l.PayloadType = base.PayloadType
	}
	return Define(l)
}

// MustVariant is Variant for package initialisation.
func MustVariant(base *Layout, l *Layout) *Layout {
	defined, err := Variant(base, l)
	if err != nil {
		panic(err)
	}
	return defined
}

// LayoutOf returns the layout registered for t.
func LayoutOf(t *data.Type) (*Layout, bool) {
	layouts.RLock()
	defer layouts.RUnlock()
	l, ok := layouts.byType[t]
	return l, ok
}

// Type returns the packet type declared by l.
func (l *Layout) Type() *data.Type { return l.typ }

// Parent returns the layout l is a sub-kind of, or nil.
func (l *Layout) Parent() *Layout { return l.parent }

// FieldIndex resolves a field name or alias.
func (l *Layout) FieldIndex(name string) (int, error) {
	i, ok := l.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, l.Name, name)
	}
	return i, nil
}

// New returns a packet of this layout with the given fields set.
func (l *Layout) New(fields map[string]any) (*Packet, error) {
	return New(l, fields)
}

// variants returns the nearest variant table in the layout chain and
// its key field.
func (l *Layout) variants() (*data.TypeDict, string) {
	for current := l; current != nil; current = current.parent {
		if current.Variants != nil {
			return current.Variants, current.VariantKey
		}
	}
	return nil, ""
}

func (l *Layout) coerce(t *data.Type, raw any) (data.Value, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: cannot convert %T to %s", data.ErrBadConversion, raw, t)
	}
	p, err := New(l, fields)
	if err != nil {
		return nil, err
	}
	return p, nil
}
