// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package datadef reads and writes value and template definitions.
//
// Definitions are authored as JSONC (JSON with comments and trailing
// commas) or CBOR. A definition is a tree of nodes:
//
//	{
//	  "type": "IPv6",
//	  "fields": {"src": "2001:db8::1", "dst": "2001:db8::2"},
//	  "payload": {
//	    "type": "UDP",
//	    "fields": {"dport": {"template": "range", "min": 1, "max": 1023}},
//	    "payload": {"text": "blah blah"},
//	  },
//	}
//
// Objects with a "type" naming a packet layout become packets; their
// "fields" are keyed by field name or alias and "payload" nests the
// next layer. "base" derives the packet from another definition of the
// same layout. Scalars take the type of the field that holds them.
// Other node forms:
//
//   - {"type": T, "value": v} -- a scalar of an explicit type
//   - {"hex": "0a0b"} and {"text": "..."} -- byte strings
//   - {"omit": true} -- the field contributes no bits
//   - {"template": kind, ...} -- any, range (min, max), length (min,
//     max), not (pattern), either (alternatives), prefix (an IPv6
//     prefix)
//   - [a, b, c] -- a list, in a list-typed field
//
// [Export] writes a flat value back as a tree in the same format, so
// "ttdata decode --json" output can be edited and fed to "ttdata
// build" or "ttdata match".
package datadef
