// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/bureau-foundation/ttdata/lib/bidict"
	"github.com/bureau-foundation/ttdata/lib/binslice"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	values := []Value{
		mustCoerce(t, Uint8Type, 0xab),
		mustCoerce(t, Uint16Type, 1025),
		mustCoerce(t, Uint32Type, 0xdeadbeef),
		NewBytes([]byte("blah blah")),
		NewStr("hello"),
		Omit,
	}
	for _, v := range values {
		filled, bits, err := Build(v)
		if err != nil {
			t.Fatalf("Build(%s): %v", v, err)
		}
		if !filled.Equal(v) {
			t.Errorf("Build(%s) filled = %s", v, filled)
		}
		decoded, rest, err := Decode(v.Type(), bits.Slice())
		if err != nil {
			t.Fatalf("Decode(%s): %v", v.Type(), err)
		}
		if !decoded.Equal(v) {
			t.Errorf("round trip of %s gave %s", v, decoded)
		}
		if !rest.Empty() {
			t.Errorf("round trip of %s left %d bits", v, rest.BitLen())
		}
		if !decoded.IsFrozen() {
			t.Errorf("decoded %s is not frozen", decoded)
		}
	}
}

func TestBoolEncodesOneBit(t *testing.T) {
	_, bits, err := Build(NewBool(true))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bits.BitLen() != 1 || !bytes.Equal(bits.Data, []byte{0x80}) {
		t.Errorf("Build(true) = %v", bits)
	}
	decoded, _, err := Decode(BoolType, bits.Slice())
	if err != nil || !decoded.(*Bool).Bool() {
		t.Errorf("Decode = %v, %v", decoded, err)
	}
}

func TestBuildUnsupported(t *testing.T) {
	if _, _, err := Build(NewInt(1)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Build(int) error = %v, want ErrUnsupported", err)
	}
	if _, _, err := Build(nil); !errors.Is(err, ErrStructural) {
		t.Errorf("Build(nil) error = %v, want ErrStructural", err)
	}
}

func TestDecodeErrorCarriesPath(t *testing.T) {
	d := NewDecoder()
	// Two bytes cannot hold a 32-bit field.
	_, _, err := d.Field("Length", Uint32Type, binslice.Of([]byte{1, 2}))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if decodeErr.Type != Uint32Type || !slices.Equal(decodeErr.Path, []string{"Length"}) {
		t.Errorf("DecodeError = %+v", decodeErr)
	}
	if !errors.Is(err, ErrDecode) || !errors.Is(err, binslice.ErrOutOfRange) {
		t.Errorf("error %v does not match ErrDecode and its cause", err)
	}
	want := "decoding uint32 at Length: binslice: offset out of range: need 32 bits, 16 remain"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// An error from an inner field is not re-wrapped by outer layers.
	wrapped := d.Fail(IntType, err)
	if !errors.As(wrapped, &decodeErr) || decodeErr.Type != Uint32Type {
		t.Errorf("Fail re-wrapped an existing DecodeError: %v", wrapped)
	}

	if _, _, err := Decode(IntType, binslice.Of(nil)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Decode(int) error = %v, want ErrUnsupported", err)
	}
}

func TestBuilderOuterLayers(t *testing.T) {
	b := NewBuilder()
	first := &pair{}
	second := NewInt(1)
	leaveFirst := b.Enter(first)
	leaveSecond := b.Enter(second)

	outer := b.Outer()
	if len(outer) != 2 || outer[0] != Value(second) || outer[1] != Value(first) {
		t.Errorf("Outer = %v, want innermost first", outer)
	}
	if b.Enclosing(pairType) != Value(first) {
		t.Error("Enclosing(pair) did not find the pair layer")
	}
	if b.Enclosing(StrType) != nil {
		t.Error("Enclosing(str) found a layer")
	}
	leaveSecond()
	leaveFirst()
	if len(b.Outer()) != 0 {
		t.Errorf("Outer after leaving = %v", b.Outer())
	}
}

func TestTypeDict(t *testing.T) {
	udp := NewType(TypeSpec{Name: "test.udp"})
	udpLite := NewType(TypeSpec{Name: "test.udplite", Parent: udp})
	raw := NewType(TypeSpec{Name: "test.raw"})
	unrelated := NewType(TypeSpec{Name: "test.unrelated"})

	td, err := NewTypeDict(Uint8Type, 59, raw)
	if err != nil {
		t.Fatalf("NewTypeDict: %v", err)
	}
	td.MustSet(17, udp)

	if got, err := td.Type(17); err != nil || got != udp {
		t.Errorf("Type(17) = %v, %v", got, err)
	}
	if got, err := td.Type(mustCoerce(t, Uint8Type, 17)); err != nil || got != udp {
		t.Errorf("Type(uint8 17) = %v, %v", got, err)
	}
	if got, err := td.Type(99); err != nil || got != raw {
		t.Errorf("Type(99) = %v, %v; want default type", got, err)
	}
	if _, err := td.Type(300); !errors.Is(err, ErrBadConversion) {
		t.Errorf("Type(300) error = %v, want ErrBadConversion", err)
	}

	// Backward lookups walk the ancestors of the requested type.
	if got, err := td.Value(udpLite); err != nil || got.String() != "17" {
		t.Errorf("Value(udplite) = %v, %v; want 17 via udp", got, err)
	}
	if got, err := td.Value(unrelated); err != nil || got.String() != "59" {
		t.Errorf("Value(unrelated) = %v, %v; want default 59", got, err)
	}
	if got := td.Types(); len(got) != 1 || got[0] != udp {
		t.Errorf("Types = %v", got)
	}

	bare, err := NewTypeDict(Uint8Type, nil, nil)
	if err != nil {
		t.Fatalf("NewTypeDict: %v", err)
	}
	if _, err := bare.Type(1); !errors.Is(err, bidict.ErrNotFound) {
		t.Errorf("Type without default error = %v, want ErrNotFound", err)
	}
	if _, err := bare.Value(udp); !errors.Is(err, bidict.ErrNotFound) {
		t.Errorf("Value without default error = %v, want ErrNotFound", err)
	}
	if _, err := NewTypeDict(Uint8Type, "x", nil); !errors.Is(err, ErrBadConversion) {
		t.Errorf("bad default value error = %v, want ErrBadConversion", err)
	}
}

func TestDescribe(t *testing.T) {
	desc := Describe(NewInt(3))
	if desc.Info != "int" || desc.Src != "" {
		t.Errorf("default description = %+v", desc)
	}
	if got := desc.Summary(); got != "[ -> ] int" {
		t.Errorf("Summary = %q", got)
	}

	desc = Describe(&pair{a: NewInt(1), b: NewInt(2)})
	if got := desc.Summary(); got != "[1 -> 2] pair" {
		t.Errorf("Summary = %q, want [1 -> 2] pair", got)
	}
}

func TestDescriptionFallsBackToHardwareAddresses(t *testing.T) {
	desc := Description{HwSrc: "aa:bb:cc:00:00:01", HwDst: "ff:ff:ff:ff:ff:ff", Info: "ARP"}
	if got := desc.Summary(); got != "[aa:bb:cc:00:00:01 -> ff:ff:ff:ff:ff:ff] ARP" {
		t.Errorf("Summary = %q", got)
	}

	desc.Dst = "10.0.0.2"
	if got := desc.Summary(); got != "[ -> 10.0.0.2] ARP" {
		t.Errorf("Summary with a network destination = %q", got)
	}
}
