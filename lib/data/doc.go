// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package data is the protocol value model: typed values, templates
// that constrain them, the matching engine that compares the two, and
// the flatten, build and decode operations that turn derivation chains
// into bytes and back.
//
// # Types
//
// A [Type] is a named node in an explicit type hierarchy. It carries a
// hook table ([TypeSpec]) for coercion, merging, encoding, decoding
// and description; hooks left nil are inherited from the parent type.
// Types are registered by name ([MustRegister], [LookupType]) during
// package initialisation and are read-only afterwards.
//
// # Nodes
//
// Every node implements [Data]. Concrete content implements [Value]
// and embeds [Node]; patterns implement [Template] and embed
// [TemplateNode]. A node may derive from one parent node
// ([SetParent]), forming a chain walked by [Chain]. Attaching a parent
// freezes it, and frozen nodes never change again. [Omit] is the
// zero-sized sentinel for a field that is explicitly absent, as
// opposed to nil, which means "not set".
//
// # Matching
//
// [Match] checks a value against a pattern and all of its ancestors,
// recording why it failed in a [MismatchList]:
//
//	var diff data.DifferenceList
//	diff.Root = received
//	if !data.Match(expected, received, &diff.MismatchList) {
//	    diff.Walk(func(path []string, m data.Mismatch) {
//	        fmt.Println(strings.Join(path, "."), m.DescribeFull(nil))
//	    })
//	}
//
// Matching never returns an error. The list grows if and only if the
// match fails.
//
// # Flattening and encoding
//
// [Flatten] merges a chain of values and templates into one flat
// value and checks the templates against it. [Build] encodes a flat
// value into [binslice.Bits], filling defaults and computed fields;
// [Decode] reads a value of an expected type from a [binslice.Slice].
// Decode failures are reported as a [*DecodeError] carrying the field
// path. [TypeDict] maps discriminator values to payload types in both
// directions, with type-hierarchy fallback.
//
// All operations are synchronous and allocate no shared state beyond
// the type registry.
package data
