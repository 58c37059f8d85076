// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for ttdata.
//
// Configuration is loaded from a single file named by either the
// TTDATA_CONFIG environment variable (via [Load]) or the --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. A command run without either uses [Default].
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Log, Capture, Decode, Report
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other ttdata packages.
package config
