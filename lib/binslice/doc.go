// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binslice provides bit-precise views over byte buffers and the
// bit-string type that protocol codecs produce.
//
// Every codec in ttdata reads through a [Slice] and writes [Bits]. A
// Slice is an immutable window [left, right) measured in bits over a
// shared byte buffer. Sub-slicing never copies: a Slice is a
// (buffer, left, right) triple passed by value, so decoders can hand
// the unconsumed remainder to the next layer at no cost.
//
// Bits is the "binary object" contract: a byte buffer plus the number
// of significant bits in its final byte (0 meaning the buffer is byte
// aligned). Fields narrower than a byte (the IPv6 version nibble, a
// 20-bit flow label) are encoded as unaligned Bits and stitched
// together with [Join]. [Concatenate] performs the same join but
// requires the result to end on a byte boundary, which is the contract
// for a complete message.
//
// Bits are always most-significant first: bit 0 of a buffer is the
// high bit of its first byte.
//
// Offsets follow one sign convention throughout: non-negative offsets
// count from the start, negative offsets count back from the end.
// Byte and bit offsets given for the same edge must share a sign and
// are summed.
//
// This package has no dependencies on other ttdata packages.
package binslice
