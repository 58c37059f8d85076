// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package packet implements structured values: packets laid out as an
// ordered list of typed fields, optionally ending in a payload that
// carries the next protocol layer.
//
// A [Layout] declares the fields and the hooks a protocol needs:
//
//   - Payloads and PayloadKey select the payload type on decode from a
//     header field (a next-header number, an ethertype) and fill that
//     field from the payload's type on build.
//   - Variants and VariantKey select a sub-kind of the layout, defined
//     with [Variant]. Decoding a base layout re-dispatches to the
//     sub-kind named by the key; matching a sub-kind pattern against a
//     sibling sub-kind reports a VariantMismatch.
//   - PayloadSize bounds the payload from a decoded length field.
//   - Complete computes lengths and checksums after the payload has
//     been built, with access to the enclosing layers through the
//     builder.
//
// [Define] registers the layout's type in the data registry so that
// it participates in matching, flattening, building and decoding like
// any other type.
//
// Packets derive from one another with [Packet.With]. Flattening a
// derivation chain takes, field by field, the value from the most
// derived packet that defines one; every template met for that field
// along the chain must accept it. A field constrained only by
// templates cannot be flattened. Fields nobody defines stay undefined
// and are filled from the field's Default, or by Complete, when the
// packet is built.
//
// [List] is the homogeneous sequence counterpart. List patterns match
// item by item and report a LengthMismatch when the sizes differ.
package packet
