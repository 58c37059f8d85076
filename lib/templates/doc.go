// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package templates provides the general-purpose patterns used in
// expected-message definitions: [Any], [Range], [Length], [Not] and
// [Either].
//
// Each template constrains one type. A template can also derive from a
// parent pattern ([RangeFrom]); the derived template then only matches
// values that satisfy the parent too, because data.Match walks the
// whole chain.
package templates
