// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration shared by ttdata.
//
// CBOR carries two things: capture records (package capture) and
// exported definition trees written by "ttdata decode --cbor". Both go
// through the modes configured here so a value always encodes to the
// same bytes. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, and no
// indefinite-length items.
//
// For buffers:
//
//	encoded, err := codec.Marshal(value)
//	err = codec.Unmarshal(encoded, &value)
//
// For streams:
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
//
// Types that are only ever stored as CBOR use `cbor` struct tags.
// Types that are also printed as JSON use `json` tags, which
// fxamacker/cbor reads when no `cbor` tag is present. A field never
// carries both.
package codec
