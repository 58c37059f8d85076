// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package message pairs a flat value with its binary encoding.
//
// A [Message] is built in one of two ways. [FromValue] flattens a
// derivation chain and encodes the result, so the message holds the
// completed value (lengths, checksums and defaults filled in).
// [FromBinary] and [FromBits] decode an encoding as an expected type
// and require the whole input to be consumed. Either way the value is
// flat and frozen.
//
// The description of a message is computed once, on first use, from
// the value's describe hooks. [Message.Digest] is a BLAKE3 keyed hash
// of the encoding, used by package capture to verify stored messages.
package message
