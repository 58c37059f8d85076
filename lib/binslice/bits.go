// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binslice

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrUnaligned is returned when a concatenation does not end on a byte
// boundary, or when a Bits value is malformed.
var ErrUnaligned = errors.New("binslice: bit string is not byte aligned")

// Bits is a bit string. Data holds the bits most-significant first.
// When Trailing is non-zero, only the Trailing most significant bits
// of the final byte are part of the string; the remaining low bits are
// padding. Trailing is zero for byte-aligned strings.
type Bits struct {
	Data     []byte
	Trailing int
}

// Bytes wraps a byte-aligned buffer.
func Bytes(data []byte) Bits {
	return Bits{Data: data}
}

// Aligned reports whether the bit string ends on a byte boundary.
func (b Bits) Aligned() bool {
	return b.Trailing == 0
}

// BitLen returns the number of bits in the string.
func (b Bits) BitLen() int {
	if b.Trailing == 0 {
		return len(b.Data) * 8
	}
	return (len(b.Data)-1)*8 + b.Trailing
}

// Validate checks the Trailing count against the buffer.
func (b Bits) Validate() error {
	if b.Trailing < 0 || b.Trailing > 7 {
		return fmt.Errorf("%w: trailing bit count %d outside [0, 7]", ErrUnaligned, b.Trailing)
	}
	if b.Trailing > 0 && len(b.Data) == 0 {
		return fmt.Errorf("%w: %d trailing bits in an empty buffer", ErrUnaligned, b.Trailing)
	}
	return nil
}

// Equal reports whether two bit strings hold the same bits. Padding
// bits are ignored. A malformed string (see [Bits.Validate]) equals
// nothing.
func (b Bits) Equal(other Bits) bool {
	if b.Validate() != nil || other.Validate() != nil {
		return false
	}
	if b.BitLen() != other.BitLen() {
		return false
	}
	if b.Trailing == 0 {
		return bytes.Equal(b.Data, other.Data)
	}
	last := len(b.Data) - 1
	if !bytes.Equal(b.Data[:last], other.Data[:last]) {
		return false
	}
	mask := byte(0xff) << uint(8-b.Trailing)
	return b.Data[last]&mask == other.Data[last]&mask
}

// Slice returns a Slice covering exactly the bits of b.
func (b Bits) Slice() Slice {
	return Slice{buffer: b.Data, left: 0, right: b.BitLen()}
}

// String renders the bit string as hex with its bit length when it is
// not byte aligned.
func (b Bits) String() string {
	if b.Trailing == 0 {
		return fmt.Sprintf("%x", b.Data)
	}
	return fmt.Sprintf("%x/%d", b.Data, b.BitLen())
}

// Uint encodes the low width bits of value as a big-endian bit string.
// width must be between 0 and 64.
func Uint(value uint64, width int) Bits {
	if width <= 0 {
		return Bits{}
	}
	if width > 64 {
		width = 64
	}
	if width < 64 {
		value &= (uint64(1) << uint(width)) - 1
	}

	count := (width + 7) / 8
	shifted := value << uint(count*8-width)
	out := make([]byte, count)
	for i := range out {
		out[i] = byte(shifted >> uint(8*(count-1-i)))
	}
	return Bits{Data: out, Trailing: width % 8}
}

// bitWriter appends bit runs to a growing buffer.
type bitWriter struct {
	buffer []byte
	bits   int
}

// write appends the count most significant bits of v (1 <= count <= 8).
func (w *bitWriter) write(v byte, count int) {
	v &= 0xff << uint(8-count)
	shift := uint(w.bits % 8)
	if shift == 0 {
		w.buffer = append(w.buffer, v)
	} else {
		w.buffer[len(w.buffer)-1] |= v >> shift
		if count > int(8-shift) {
			w.buffer = append(w.buffer, v<<(8-shift))
		}
	}
	w.bits += count
}

// Join concatenates bit strings. The result may end mid-byte; use
// Concatenate when a byte-aligned buffer is required.
func Join(parts ...Bits) (Bits, error) {
	var w bitWriter
	for index, part := range parts {
		if err := part.Validate(); err != nil {
			return Bits{}, fmt.Errorf("part %d: %w", index, err)
		}
		if w.bits%8 == 0 && part.Trailing == 0 {
			w.buffer = append(w.buffer, part.Data...)
			w.bits += len(part.Data) * 8
			continue
		}
		for i, b := range part.Data {
			count := 8
			if i == len(part.Data)-1 && part.Trailing != 0 {
				count = part.Trailing
			}
			w.write(b, count)
		}
	}
	return Bits{Data: w.buffer, Trailing: w.bits % 8}, nil
}

// Concatenate joins bit strings into a single byte-aligned buffer.
// Unaligned parts are allowed as long as the following parts complete
// the byte; a result that ends mid-byte is an error.
func Concatenate(parts ...Bits) ([]byte, error) {
	joined, err := Join(parts...)
	if err != nil {
		return nil, err
	}
	if !joined.Aligned() {
		return nil, fmt.Errorf("%w: %d bits", ErrUnaligned, joined.BitLen())
	}
	if joined.Data == nil {
		return []byte{}, nil
	}
	return joined.Data, nil
}
