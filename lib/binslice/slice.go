// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binslice

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an offset falls outside a buffer or a
// slice, or when a slice's left edge would pass its right edge.
var ErrOutOfRange = errors.New("binslice: offset out of range")

// Slice is an immutable bit-addressable window [left, right) over a
// byte buffer. The zero Slice is empty.
type Slice struct {
	buffer []byte
	left   int
	right  int
}

// edges collects the boundary options given to [New].
type edges struct {
	leftBytes  int
	leftBits   int
	rightBytes int
	rightBits  int
	rightSet   bool
}

// Option sets one boundary of a Slice created by [New].
type Option func(*edges)

// LeftBytes moves the left edge by n bytes (from the end when negative).
func LeftBytes(n int) Option {
	return func(e *edges) { e.leftBytes = n }
}

// LeftBits moves the left edge by n bits (from the end when negative).
func LeftBits(n int) Option {
	return func(e *edges) { e.leftBits = n }
}

// RightBytes places the right edge n bytes from the start, or from the
// end when negative. Without a right option the slice runs to the end
// of the buffer.
func RightBytes(n int) Option {
	return func(e *edges) {
		e.rightBytes = n
		e.rightSet = true
	}
}

// RightBits places the right edge n bits from the start, or from the
// end when negative.
func RightBits(n int) Option {
	return func(e *edges) {
		e.rightBits = n
		e.rightSet = true
	}
}

// New returns a Slice over buffer bounded by the given options. The
// buffer is shared, not copied; callers must not modify it afterwards.
//
//	s, err := binslice.New(packet, binslice.LeftBytes(40))       // skip an IPv6 header
//	s, err := binslice.New([]byte{0xf0, 0xc0}, binslice.RightBits(10))
func New(buffer []byte, options ...Option) (Slice, error) {
	var e edges
	for _, option := range options {
		option(&e)
	}

	total := len(buffer) * 8

	left, err := combine("left", e.leftBytes, e.leftBits)
	if err != nil {
		return Slice{}, err
	}
	if left < 0 {
		left += total
	}

	right := total
	if e.rightSet {
		right, err = combine("right", e.rightBytes, e.rightBits)
		if err != nil {
			return Slice{}, err
		}
		if right < 0 {
			right += total
		}
	}

	if left < 0 || right < 0 || left > right || right > total {
		return Slice{}, fmt.Errorf("%w: bits [%d, %d) of a %d-bit buffer", ErrOutOfRange, left, right, total)
	}
	return Slice{buffer: buffer, left: left, right: right}, nil
}

// Of returns a Slice covering all of buffer.
func Of(buffer []byte) Slice {
	return Slice{buffer: buffer, left: 0, right: len(buffer) * 8}
}

// combine sums a byte and a bit offset for one edge.
func combine(edge string, bytes, bits int) (int, error) {
	if (bytes > 0 && bits < 0) || (bytes < 0 && bits > 0) {
		return 0, fmt.Errorf("%w: %s edge mixes signs (%d bytes, %d bits)", ErrOutOfRange, edge, bytes, bits)
	}
	return bytes*8 + bits, nil
}

// Len returns the number of whole bytes covered by the slice. A
// trailing partial byte is not counted.
func (s Slice) Len() int {
	return (s.right - s.left) / 8
}

// BitLen returns the exact length of the slice in bits.
func (s Slice) BitLen() int {
	return s.right - s.left
}

// Empty reports whether the slice covers no bits.
func (s Slice) Empty() bool {
	return s.right == s.left
}

// BitSlice returns the sub-slice [left, right) where both offsets are
// bits relative to this slice. Negative offsets count from the end of
// this slice.
func (s Slice) BitSlice(left, right int) (Slice, error) {
	length := s.BitLen()
	if left < 0 {
		left += length
	}
	if right < 0 {
		right += length
	}
	if left < 0 || right < left || right > length {
		return Slice{}, fmt.Errorf("%w: bits [%d, %d) of a %d-bit slice", ErrOutOfRange, left, right, length)
	}
	return Slice{buffer: s.buffer, left: s.left + left, right: s.left + right}, nil
}

// Sub returns the sub-slice [left, right) where both offsets are bytes
// relative to this slice, with the same sign convention as BitSlice.
func (s Slice) Sub(left, right int) (Slice, error) {
	return s.BitSlice(left*8, right*8)
}

// From returns everything after the first offset bytes of the slice.
func (s Slice) From(offset int) (Slice, error) {
	if offset < 0 {
		offset += s.Len()
	}
	return s.BitSlice(offset*8, s.BitLen())
}

// ShiftBits drops n bits from the front of the slice, or -n bits from
// the back when n is negative.
func (s Slice) ShiftBits(n int) (Slice, error) {
	length := s.BitLen()
	if n >= 0 {
		if n > length {
			return Slice{}, fmt.Errorf("%w: cannot drop %d bits from a %d-bit slice", ErrOutOfRange, n, length)
		}
		return Slice{buffer: s.buffer, left: s.left + n, right: s.right}, nil
	}
	if -n > length {
		return Slice{}, fmt.Errorf("%w: cannot drop %d bits from a %d-bit slice", ErrOutOfRange, -n, length)
	}
	return Slice{buffer: s.buffer, left: s.left, right: s.right + n}, nil
}

// GetByte assembles the eight bits starting at bitIndex, counted from
// the start of the slice, or from its end when negative. When the bits
// straddle two buffer bytes they are merged; when fewer than eight
// bits remain in the slice the missing low bits are zero.
func (s Slice) GetByte(bitIndex int) (byte, error) {
	requested := bitIndex
	if bitIndex < 0 {
		bitIndex += s.BitLen()
	}
	if bitIndex < 0 || bitIndex >= s.BitLen() {
		return 0, fmt.Errorf("%w: bit %d of a %d-bit slice", ErrOutOfRange, requested, s.BitLen())
	}

	position := s.left + bitIndex
	index := position >> 3
	shift := uint(position & 7)

	word := uint16(s.buffer[index]) << 8
	if shift != 0 && index+1 < len(s.buffer) {
		word |= uint16(s.buffer[index+1])
	}
	result := byte(word >> (8 - shift))

	if remaining := s.right - position; remaining < 8 {
		result &= 0xff << uint(8-remaining)
	}
	return result, nil
}

// Index returns the byte at byte offset i of the slice. A trailing
// partial byte is addressable; its missing low bits read as zero.
// Negative offsets count whole bytes back from the end of the slice,
// so Index(-1) is its last eight bits.
func (s Slice) Index(i int) (byte, error) {
	return s.GetByte(i * 8)
}

// Raw copies the slice into a new byte buffer. A trailing partial byte
// is padded with zero bits.
func (s Slice) Raw() []byte {
	length := s.BitLen()
	out := make([]byte, (length+7)/8)
	if s.left%8 == 0 && length%8 == 0 {
		copy(out, s.buffer[s.left/8:s.right/8])
		return out
	}
	for i := range out {
		// Cannot fail: every i*8 is inside the slice.
		out[i], _ = s.GetByte(i * 8)
	}
	return out
}

// AsBits returns the slice content as a binary object.
func (s Slice) AsBits() Bits {
	return Bits{Data: s.Raw(), Trailing: s.BitLen() % 8}
}

// Uint reads the first width bits of the slice as a big-endian
// unsigned integer and returns it with the remainder of the slice.
// width must be between 0 and 64.
func (s Slice) Uint(width int) (uint64, Slice, error) {
	if width < 0 || width > 64 {
		return 0, s, fmt.Errorf("%w: integer width %d", ErrOutOfRange, width)
	}
	if width > s.BitLen() {
		return 0, s, fmt.Errorf("%w: need %d bits, %d remain", ErrOutOfRange, width, s.BitLen())
	}

	var value uint64
	for read := 0; read < width; {
		chunk := min(8, width-read)
		b, err := s.GetByte(read)
		if err != nil {
			return 0, s, err
		}
		value = value<<uint(chunk) | uint64(b>>uint(8-chunk))
		read += chunk
	}

	rest, err := s.ShiftBits(width)
	if err != nil {
		return 0, s, err
	}
	return value, rest, nil
}

// Take splits the slice after n bytes.
func (s Slice) Take(n int) (head, rest Slice, err error) {
	if n < 0 || n*8 > s.BitLen() {
		return Slice{}, s, fmt.Errorf("%w: need %d bytes, %d bits remain", ErrOutOfRange, n, s.BitLen())
	}
	head = Slice{buffer: s.buffer, left: s.left, right: s.left + n*8}
	rest = Slice{buffer: s.buffer, left: s.left + n*8, right: s.right}
	return head, rest, nil
}

// String renders the slice as its bit length and hex content.
func (s Slice) String() string {
	return fmt.Sprintf("%d bits: %x", s.BitLen(), s.Raw())
}
