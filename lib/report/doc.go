// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders match results and messages for terminals.
//
// A [Renderer] is bound to one output stream and a [ColorMode]. In
// auto mode it styles output only when the stream is a terminal; the
// plain rendering is what tests and pipelines see. Styling uses
// lipgloss with a fixed ANSI 256 palette ([Theme]), JSON output is
// highlighted with chroma, and long lines are truncated to the
// configured width without splitting escape sequences.
package report
