// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bidict provides a two-way lookup table.
//
// A [Bidict] keeps a forward map (key to value) and a backward map
// (value to key) in step. By default each key and each value appears
// in at most one entry: [Bidict.Set] first removes any entry that
// already uses the key or the value, in both directions, so the two
// maps never disagree. [NewWithDuplicates] relaxes this: entries are
// overwritten in place and stale reverse entries are left alone.
//
// Protocol codecs use a Bidict (through data.TypeDict) to map
// discriminator field values such as an IPv6 next header number to
// the payload type that decodes them, and back again when encoding.
// Tables are filled during package initialisation and are read-only
// afterwards; a Bidict performs no locking.
//
// This package has no dependencies on other ttdata packages.
package bidict
