// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/ttdata/lib/binslice"
)

// Digest is a 32-byte BLAKE3 digest of a message encoding.
type Digest [32]byte

// digestKey is the BLAKE3 key for message digests: the ASCII domain
// name zero-padded to 32 bytes. Changing it invalidates every stored
// digest.
var digestKey = [32]byte{
	't', 't', 'd', 'a', 't', 'a', '.', 'm', 'e', 's', 's', 'a', 'g', 'e',
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest returns the keyed BLAKE3 hash of the encoding. The hash
// covers the bit count of the final byte and only the valid bits, so
// equal bit strings have equal digests regardless of padding.
func (m *Message) Digest() Digest {
	return DigestBits(m.bits)
}

// DigestBytes returns the digest of a byte-aligned encoding.
func DigestBytes(encoded []byte) Digest {
	return DigestBits(binslice.Bytes(encoded))
}

// DigestBits returns the digest of an encoding, equal to the Digest of
// any message with that encoding.
func DigestBits(bits binslice.Bits) Digest {
	encoded, trailing := bits.Data, bits.Trailing
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("message: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte{byte(trailing)})
	if trailing == 0 || len(encoded) == 0 {
		hasher.Write(encoded)
	} else {
		last := len(encoded) - 1
		hasher.Write(encoded[:last])
		hasher.Write([]byte{encoded[last] & (0xff << uint(8-trailing))})
	}
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// FormatDigest returns the lowercase hex rendering of d.
func FormatDigest(d Digest) string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a 64-character hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(len(d)) {
		return d, fmt.Errorf("message: digest %q has %d characters, want %d", s, len(s), hex.EncodedLen(len(d)))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("message: parsing digest %q: %w", s, err)
	}
	return d, nil
}

func (d Digest) String() string { return FormatDigest(d) }
