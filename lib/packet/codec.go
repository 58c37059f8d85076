// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packet

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/ttdata/lib/binslice"
	"github.com/bureau-foundation/ttdata/lib/data"
)

var (
	// ErrUndefinedField is returned by build when a field has no value,
	// no default, and was not computed by the layout's Complete hook.
	ErrUndefinedField = errors.New("packet: field has no value")

	// ErrTrailingPayload is returned by decode when the payload type
	// does not consume the whole payload.
	ErrTrailingPayload = errors.New("packet: payload not fully consumed")
)

// BuildState is handed to a layout's Complete hook once defaults are
// filled and the payload is built.
type BuildState struct {
	// Builder is the builder running this encode. Its enclosing layers
	// are the layers around this packet.
	Builder *data.Builder
	// Packet is the packet being built. It is not frozen yet.
	Packet *Packet
	// Payload is the encoded payload.
	Payload binslice.Bits
}

// Undefined reports whether the named field still has no value.
func (s *BuildState) Undefined(name string) bool {
	d, err := s.Packet.Get(name)
	return err == nil && d == nil
}

// Set stores a computed field value.
func (s *BuildState) Set(name string, raw any) error {
	return s.Packet.Set(name, raw)
}

// Encode returns the packet's header fields, as currently set, followed
// by the payload. Every header field must be defined.
func (s *BuildState) Encode() ([]byte, error) {
	_, parts, err := s.Packet.buildHeader(s.Builder)
	if err != nil {
		return nil, err
	}
	return binslice.Concatenate(append(parts, s.Payload)...)
}

func (l *Layout) build(b *data.Builder, v data.Value) (data.Value, binslice.Bits, error) {
	p, ok := v.(*Packet)
	if !ok {
		return nil, binslice.Bits{}, fmt.Errorf("%w: %s cannot build %T", data.ErrStructural, l.Name, v)
	}
	if !data.IsFlat(p) {
		return nil, binslice.Bits{}, fmt.Errorf("%w: %s is not flat", data.ErrStructural, p)
	}
	out := p.clone()

	payload, _ := out.Payload().(data.Value)
	if l.Payloads != nil && payload != nil && !data.IsOmit(payload) {
		key, err := l.Payloads.Value(payload.Type())
		if err == nil {
			if err := out.fill(l.PayloadKey, key); err != nil {
				return nil, binslice.Bits{}, err
			}
		}
	}
	if dict, name := l.variants(); dict != nil {
		key, err := dict.Value(l.typ)
		if err == nil {
			if err := out.fill(name, key); err != nil {
				return nil, binslice.Bits{}, err
			}
		}
	}
	for i, f := range l.Fields {
		if f.Payload || out.fields[i] != nil || f.Default == nil {
			continue
		}
		stored, err := data.StoreData(f.Default, f.Type, false, true)
		if err != nil {
			return nil, binslice.Bits{}, fmt.Errorf("%s.%s default: %w", l.Name, f.Name, err)
		}
		out.fields[i] = stored
	}

	var payloadBits binslice.Bits
	if payload != nil {
		leave := b.Enter(out)
		built, bits, err := b.Build(payload)
		leave()
		if err != nil {
			return nil, binslice.Bits{}, fmt.Errorf("%s payload: %w", l.Name, err)
		}
		// An empty payload decodes as absent, so it is built as absent.
		if bits.BitLen() == 0 {
			built = nil
		}
		out.fields[l.payload] = built
		payloadBits = bits
	}

	if l.Complete != nil {
		state := &BuildState{Builder: b, Packet: out, Payload: payloadBits}
		if err := l.Complete(state); err != nil {
			return nil, binslice.Bits{}, fmt.Errorf("completing %s: %w", l.Name, err)
		}
	}

	built, parts, err := out.buildHeader(b)
	if err != nil {
		return nil, binslice.Bits{}, err
	}
	for i, value := range built {
		out.fields[i] = value
	}
	bits, err := binslice.Join(append(parts, payloadBits)...)
	if err != nil {
		return nil, binslice.Bits{}, fmt.Errorf("joining %s: %w", l.Name, err)
	}
	out.Freeze()
	return out, bits, nil
}

// fill stores v in the named field when the field is undefined.
func (p *Packet) fill(name string, v data.Value) error {
	i, err := p.layout.FieldIndex(name)
	if err != nil {
		return err
	}
	if p.fields[i] != nil {
		return nil
	}
	stored, err := data.StoreData(v, p.layout.Fields[i].Type, false, true)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.layout.Name, name, err)
	}
	p.fields[i] = stored
	return nil
}

// buildHeader encodes every non-payload field in order.
func (p *Packet) buildHeader(b *data.Builder) ([]data.Value, []binslice.Bits, error) {
	var values []data.Value
	var parts []binslice.Bits
	for i, f := range p.layout.Fields {
		if f.Payload {
			break
		}
		v, ok := p.fields[i].(data.Value)
		if !ok {
			if p.fields[i] == nil {
				return nil, nil, fmt.Errorf("%w: %s.%s", ErrUndefinedField, p.layout.Name, f.Name)
			}
			return nil, nil, fmt.Errorf("%w: %s.%s holds template %s",
				data.ErrStructural, p.layout.Name, f.Name, data.Render(p.fields[i]))
		}
		built, bits, err := b.Build(v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s.%s: %w", p.layout.Name, f.Name, err)
		}
		values = append(values, built)
		parts = append(parts, bits)
	}
	return values, parts, nil
}

func (l *Layout) decode(d *data.Decoder, t *data.Type, s binslice.Slice) (data.Value, binslice.Slice, error) {
	start := s
	p := &Packet{layout: l, fields: make([]data.Data, len(l.Fields))}
	for i, f := range l.Fields {
		if f.Payload {
			break
		}
		v, rest, err := d.Field(f.Name, f.Type, s)
		if err != nil {
			return nil, start, err
		}
		p.fields[i] = v
		s = rest

		if l.Variants != nil && f.Name == l.VariantKey {
			if sub, err := l.Variants.Type(v); err == nil && sub != l.typ && sub.IsA(l.typ) {
				return d.Decode(sub, start)
			}
		}
	}
	if l.payload < 0 {
		return p, s, nil
	}

	body := s
	sized := false
	if l.PayloadSize != nil {
		if n, ok := l.PayloadSize(p); ok {
			var err error
			body, s, err = s.Take(n)
			if err != nil {
				return nil, start, d.Fail(t, fmt.Errorf("payload of %d bytes: %w", n, err))
			}
			sized = true
		}
	}
	if !sized {
		rest, err := s.ShiftBits(s.BitLen())
		if err != nil {
			return nil, start, d.Fail(t, err)
		}
		s = rest
	}
	if body.Empty() {
		return p, s, nil
	}

	payloadType := l.payloadType(p)
	name := l.Fields[l.payload].Name
	v, left, err := d.Field(name, payloadType, body)
	if err != nil {
		return nil, start, err
	}
	if !left.Empty() {
		return nil, start, d.Fail(payloadType, fmt.Errorf("%w: %d bits after %s", ErrTrailingPayload, left.BitLen(), payloadType))
	}
	p.fields[l.payload] = v
	return p, s, nil
}

// payloadType selects the payload decoder from the decoded header.
func (l *Layout) payloadType(p *Packet) *data.Type {
	if l.Payloads == nil {
		return l.PayloadType
	}
	key := p.Value(l.PayloadKey)
	if key == nil {
		return l.PayloadType
	}
	t, err := l.Payloads.Type(key)
	if err != nil {
		return l.PayloadType
	}
	return t
}
