// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command ttdata builds, decodes and matches protocol messages from
// JSONC definitions. Run "ttdata --help" for the command list.
package main
