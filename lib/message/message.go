// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bureau-foundation/ttdata/lib/binslice"
	"github.com/bureau-foundation/ttdata/lib/data"
)

var (
	// ErrNoValue is returned by [FromValue] when the derivation chain
	// holds templates only.
	ErrNoValue = errors.New("message: nothing concrete to build")

	// ErrTrailingData is wrapped in the decode error returned when a
	// decode does not consume the whole input.
	ErrTrailingData = errors.New("message: input not fully consumed")
)

// Message pairs a flat, frozen value with its encoding.
type Message struct {
	value data.Value
	bits  binslice.Bits

	describeOnce sync.Once
	description  data.Description
}

// FromValue flattens d, builds it, and returns the message holding the
// completed value and its bytes. The encoding must be byte aligned.
func FromValue(d data.Data) (*Message, error) {
	flat, err := data.FlattenChain(d)
	if err != nil {
		return nil, fmt.Errorf("flattening: %w", err)
	}
	if flat == nil {
		return nil, ErrNoValue
	}
	built, bits, err := data.Build(flat)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", flat.Type(), err)
	}
	encoded, err := binslice.Concatenate(bits)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", flat.Type(), err)
	}
	if built.Type() != flat.Type() || !data.IsFlat(built) {
		return nil, fmt.Errorf("%w: building %s produced %s, not a flat %s", data.ErrStructural, flat.Type(), built.Type(), flat.Type())
	}
	built.Freeze()
	return &Message{value: built, bits: binslice.Bytes(encoded)}, nil
}

// FromBinary decodes encoded as a value of type t.
func FromBinary(t *data.Type, encoded []byte) (*Message, error) {
	return FromBits(t, binslice.Bytes(encoded))
}

// FromBits decodes a bit string, which need not be byte aligned, as a
// value of type t. The whole input must be consumed. The message keeps
// its own copy of the bits.
func FromBits(t *data.Type, bits binslice.Bits) (*Message, error) {
	if err := bits.Validate(); err != nil {
		return nil, &data.DecodeError{Type: t, Err: err}
	}
	bits.Data = bytes.Clone(bits.Data)
	v, rest, err := data.Decode(t, bits.Slice())
	if err != nil {
		return nil, err
	}
	if !rest.Empty() {
		return nil, &data.DecodeError{Type: t, Err: fmt.Errorf("%w: %d bits left", ErrTrailingData, rest.BitLen())}
	}
	if !data.IsFlat(v) {
		return nil, &data.DecodeError{Type: t, Err: fmt.Errorf("%w: decoder produced a value that is not flat", data.ErrStructural)}
	}
	return &Message{value: v, bits: bits}, nil
}

// Value returns the message's flat value.
func (m *Message) Value() data.Value { return m.value }

// Type returns the type of the message's value.
func (m *Message) Type() *data.Type { return m.value.Type() }

// Bits returns a copy of the encoding.
func (m *Message) Bits() binslice.Bits {
	return binslice.Bits{Data: bytes.Clone(m.bits.Data), Trailing: m.bits.Trailing}
}

// Bytes returns a copy of the encoded bytes. The final byte's padding
// bits are included when the encoding is not byte aligned.
func (m *Message) Bytes() []byte { return append([]byte(nil), m.bits.Data...) }

// Description returns the message's description, computing it on
// first use.
func (m *Message) Description() data.Description {
	m.describeOnce.Do(func() {
		m.description = data.Describe(m.value)
	})
	return m.description
}

// Summary renders the description as "[src -> dst] info".
func (m *Message) Summary() string {
	return m.Description().Summary()
}

func (m *Message) String() string {
	return m.Summary()
}

// HexDump renders the encoding sixteen bytes per line, in two groups
// of eight:
//
//	Encoded as:
//	    60 00 00 00 00 11 11 40  20 01 0d b8 00 00 00 00
//
// A final line notes where the last byte ends when the encoding is not
// byte aligned.
func (m *Message) HexDump() string {
	var out strings.Builder
	out.WriteString("Encoded as:\n")
	encoded := m.bits.Data
	for start := 0; start < len(encoded); start += 16 {
		row := encoded[start:min(start+16, len(encoded))]
		out.WriteString("   ")
		for i, b := range row {
			if i == 8 {
				out.WriteByte(' ')
			}
			fmt.Fprintf(&out, " %02x", b)
		}
		out.WriteByte('\n')
	}
	if m.bits.Trailing != 0 {
		fmt.Fprintf(&out, "(last byte truncated at bit %d)\n", m.bits.Trailing)
	}
	return out.String()
}
