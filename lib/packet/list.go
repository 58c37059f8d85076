// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packet

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bureau-foundation/ttdata/lib/binslice"
	"github.com/bureau-foundation/ttdata/lib/data"
)

// List is an ordered sequence of items of one element type. Items may
// be values or templates; a list pattern matches a list value of the
// same length item by item.
type List struct {
	data.Node
	typ   *data.Type
	elem  *data.Type
	items []data.Data
}

var listTypes = struct {
	sync.Mutex
	byElem map[*data.Type]*data.Type
}{byElem: make(map[*data.Type]*data.Type)}

// ListOf returns the list type for elem, registering it on first use
// under the name "list[elem]".
func ListOf(elem *data.Type) *data.Type {
	listTypes.Lock()
	defer listTypes.Unlock()
	if t, ok := listTypes.byElem[elem]; ok {
		return t
	}
	t := data.MustRegister(data.TypeSpec{
		Name: "list[" + elem.Name() + "]",
		Coerce: func(t *data.Type, raw any) (data.Value, error) {
			items, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: cannot convert %T to %s", data.ErrBadConversion, raw, t)
			}
			l, err := NewList(elem, items...)
			if err != nil {
				return nil, err
			}
			return l, nil
		},
		Flatten: flattenList,
		Build:   buildList,
		Decode: func(d *data.Decoder, t *data.Type, s binslice.Slice) (data.Value, binslice.Slice, error) {
			return decodeList(d, elem, s)
		},
	})
	listTypes.byElem[elem] = t
	return t
}

// ElemOf returns the element type of a list type made by [ListOf].
func ElemOf(t *data.Type) (*data.Type, bool) {
	listTypes.Lock()
	defer listTypes.Unlock()
	for elem, list := range listTypes.byElem {
		if list == t {
			return elem, true
		}
	}
	return nil, false
}

// NewList returns a list of elem holding items. Each item is stored
// with data.StoreData against elem; nil items are rejected.
func NewList(elem *data.Type, items ...any) (*List, error) {
	l := &List{typ: ListOf(elem), elem: elem, items: make([]data.Data, len(items))}
	for i, raw := range items {
		stored, err := data.StoreData(raw, elem, false, false)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		l.items[i] = stored
	}
	return l, nil
}

func (l *List) Type() *data.Type { return l.typ }

// Elem returns the element type.
func (l *List) Elem() *data.Type { return l.elem }

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// Items returns the items in order.
func (l *List) Items() []data.Data {
	return append([]data.Data(nil), l.items...)
}

// Freeze freezes the list and its items.
func (l *List) Freeze() {
	for _, item := range l.items {
		item.Freeze()
	}
	l.Node.Freeze()
}

// MatchSelf reports a LengthMismatch when the lengths differ and
// matches item by item otherwise.
func (l *List) MatchSelf(value data.Value, list *data.MismatchList) bool {
	other, ok := value.(*List)
	if !ok {
		return false
	}
	if len(other.items) != len(l.items) {
		list.Add(data.Mismatch{Kind: data.LengthMismatch, Value: other, Pattern: l})
		return false
	}
	matched := true
	for i, pattern := range l.items {
		if !data.Match(pattern, other.items[i], list) {
			matched = false
		}
	}
	return matched
}

// FlatSelf reports whether every item is flat.
func (l *List) FlatSelf() bool {
	for _, item := range l.items {
		if !data.IsFlat(item) {
			return false
		}
	}
	return true
}

func (l *List) Equal(other data.Value) bool {
	o, ok := other.(*List)
	if !ok || o.typ != l.typ || len(o.items) != len(l.items) {
		return false
	}
	for i := range l.items {
		if !fieldEqual(l.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) String() string {
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		parts[i] = data.Render(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Fields names items by index for path resolution.
func (l *List) Fields() []data.Field {
	out := make([]data.Field, len(l.items))
	for i, item := range l.items {
		out[i] = data.Field{Name: "[" + strconv.Itoa(i) + "]", Data: item}
	}
	return out
}

// flattenList takes the most derived list as a whole; lists are never
// merged item by item. Each item is flattened with its own ancestors.
func flattenList(values []data.Value) (data.Value, error) {
	src, ok := values[0].(*List)
	if !ok {
		return nil, fmt.Errorf("%w: list chain holds a %T", data.ErrStructural, values[0])
	}
	out := &List{typ: src.typ, elem: src.elem, items: make([]data.Data, len(src.items))}
	for i, item := range src.items {
		flat, err := data.FlattenChain(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if flat == nil {
			return nil, fmt.Errorf("%w: item %d is %s and has no value", data.ErrTemplateViolation, i, data.Render(item))
		}
		out.items[i] = flat
	}
	return out, nil
}

func buildList(b *data.Builder, v data.Value) (data.Value, binslice.Bits, error) {
	l, ok := v.(*List)
	if !ok {
		return nil, binslice.Bits{}, fmt.Errorf("%w: cannot build %T as a list", data.ErrStructural, v)
	}
	out := &List{typ: l.typ, elem: l.elem, items: make([]data.Data, len(l.items))}
	parts := make([]binslice.Bits, len(l.items))
	for i, item := range l.items {
		value, ok := item.(data.Value)
		if !ok {
			return nil, binslice.Bits{}, fmt.Errorf("%w: item %d is a template", data.ErrStructural, i)
		}
		built, bits, err := b.Build(value)
		if err != nil {
			return nil, binslice.Bits{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.items[i] = built
		parts[i] = bits
	}
	bits, err := binslice.Join(parts...)
	if err != nil {
		return nil, binslice.Bits{}, err
	}
	out.Freeze()
	return out, bits, nil
}

// decodeList decodes items until the slice is exhausted.
func decodeList(d *data.Decoder, elem *data.Type, s binslice.Slice) (data.Value, binslice.Slice, error) {
	out := &List{typ: ListOf(elem), elem: elem}
	for !s.Empty() {
		before := s.BitLen()
		item, rest, err := d.Field("["+strconv.Itoa(len(out.items))+"]", elem, s)
		if err != nil {
			return nil, s, err
		}
		if rest.BitLen() == before {
			return nil, s, fmt.Errorf("%w: %s item consumed no input", data.ErrStructural, elem)
		}
		out.items = append(out.items, item)
		s = rest
	}
	return out, s, nil
}
