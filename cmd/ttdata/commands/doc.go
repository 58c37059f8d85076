// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the ttdata command tree.
//
// Every command shares one setup path: configuration from --config or
// TTDATA_CONFIG (built-in defaults otherwise), a logger on stderr, and
// a report renderer on stdout. Message arguments are hex, "-" for hex
// on stdin, or "@file" for raw binary.
package commands
