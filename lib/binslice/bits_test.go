// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binslice

import (
	"bytes"
	"errors"
	"testing"
)

func TestUintEncoding(t *testing.T) {
	tests := []struct {
		value    uint64
		width    int
		data     []byte
		trailing int
	}{
		{6, 4, []byte{0x60}, 4},
		{0xab, 8, []byte{0xab}, 0},
		{0x12345, 20, []byte{0x12, 0x34, 0x50}, 4},
		{0x1ff, 8, []byte{0xff}, 0}, // masked to width
		{1, 1, []byte{0x80}, 1},
		{0xffffffffffffffff, 64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0},
	}
	for _, test := range tests {
		got := Uint(test.value, test.width)
		if !bytes.Equal(got.Data, test.data) || got.Trailing != test.trailing {
			t.Errorf("Uint(%#x, %d) = (%x, %d), want (%x, %d)",
				test.value, test.width, got.Data, got.Trailing, test.data, test.trailing)
		}
	}
	if empty := Uint(5, 0); empty.BitLen() != 0 {
		t.Errorf("Uint(5, 0).BitLen() = %d, want 0", empty.BitLen())
	}
}

func TestJoinUnalignedFields(t *testing.T) {
	joined, err := Join(Uint(6, 4), Uint(0xab, 8), Uint(0x12345, 20))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !joined.Aligned() {
		t.Fatalf("joined is not aligned: %v", joined)
	}
	want := []byte{0x6a, 0xb1, 0x23, 0x45}
	if !bytes.Equal(joined.Data, want) {
		t.Errorf("Join = %x, want %x", joined.Data, want)
	}

	partial, err := Join(Uint(1, 1), Uint(0, 2))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if partial.BitLen() != 3 || partial.Trailing != 3 {
		t.Errorf("partial = %v, want 3 bits", partial)
	}
}

func TestJoinIgnoresPaddingBits(t *testing.T) {
	// The low bits of a partial byte are padding and must not leak into
	// the following field.
	dirty := Bits{Data: []byte{0xff}, Trailing: 2}
	joined, err := Join(dirty, Uint(0, 6))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !bytes.Equal(joined.Data, []byte{0xc0}) {
		t.Errorf("Join = %x, want c0", joined.Data)
	}
}

func TestConcatenate(t *testing.T) {
	data, err := Concatenate(Bytes([]byte{1, 2}), Uint(0xf, 4), Uint(0x3, 4), Bytes([]byte{9}))
	if err != nil {
		t.Fatalf("Concatenate: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2, 0xf3, 9}) {
		t.Errorf("Concatenate = %x", data)
	}

	empty, err := Concatenate()
	if err != nil || len(empty) != 0 || empty == nil {
		t.Errorf("Concatenate() = %#v, %v; want empty non-nil buffer", empty, err)
	}
}

func TestConcatenateRejectsUnalignedResult(t *testing.T) {
	_, err := Concatenate(Bytes([]byte{1}), Uint(1, 3))
	if !errors.Is(err, ErrUnaligned) {
		t.Fatalf("Concatenate error = %v, want ErrUnaligned", err)
	}
}

func TestConcatenateRejectsMalformedParts(t *testing.T) {
	tests := []Bits{
		{Data: []byte{1}, Trailing: 8},
		{Data: nil, Trailing: 3},
		{Data: []byte{1}, Trailing: -1},
	}
	for _, part := range tests {
		if _, err := Concatenate(part); !errors.Is(err, ErrUnaligned) {
			t.Errorf("Concatenate(%#v) error = %v, want ErrUnaligned", part, err)
		}
	}
}

func TestBitsEqualIgnoresPadding(t *testing.T) {
	a := Bits{Data: []byte{0x12, 0xf0}, Trailing: 4}
	b := Bits{Data: []byte{0x12, 0xff}, Trailing: 4}
	if !a.Equal(b) {
		t.Error("bit strings differing only in padding compare unequal")
	}
	c := Bits{Data: []byte{0x12, 0xe0}, Trailing: 4}
	if a.Equal(c) {
		t.Error("bit strings with different significant bits compare equal")
	}
}

func TestBitsSliceRoundTrip(t *testing.T) {
	original := Bits{Data: []byte{0xf0, 0xc0}, Trailing: 2}
	s := original.Slice()
	if s.BitLen() != 10 {
		t.Fatalf("BitLen = %d, want 10", s.BitLen())
	}
	if back := s.AsBits(); !back.Equal(original) {
		t.Errorf("AsBits = %v, want %v", back, original)
	}
}

func TestBitsEqualMalformed(t *testing.T) {
	malformed := Bits{Trailing: 3}
	if malformed.Equal(malformed) {
		t.Error("malformed bits equal themselves")
	}
	if malformed.Equal(Bits{Data: []byte{0xe0}, Trailing: 3}) {
		t.Error("malformed bits equal a well-formed string")
	}
	if (Bits{Data: []byte{0xe0}, Trailing: 3}).Equal(malformed) {
		t.Error("well-formed string equals malformed bits")
	}
	if (Bits{Data: []byte{1}, Trailing: 9}).Equal(Bits{Data: []byte{1}, Trailing: 9}) {
		t.Error("out-of-range trailing count accepted")
	}
	if !(Bits{}).Equal(Bits{Data: []byte{}}) {
		t.Error("empty strings differ")
	}
}
