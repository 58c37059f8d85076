// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette for ttdata reports. All colors are lipgloss
// ANSI 256-color codes, and none are applied when the renderer writes
// plain text.
type Theme struct {
	// Mismatch reports.
	Path     lipgloss.Color // Field path heading a mismatch, and field names in trees.
	Kind     lipgloss.Color // Mismatch kind, and structured field headings.
	Got      lipgloss.Color // The decoded side of a mismatch.
	Expected lipgloss.Color // The pattern side of a mismatch.

	// Summaries.
	Faint   lipgloss.Color // Endpoints and type annotations.
	Summary lipgloss.Color // The info part of a summary line.
}

// DefaultTheme is the palette used unless a caller supplies another.
var DefaultTheme = Theme{
	Path:     lipgloss.Color("75"),
	Kind:     lipgloss.Color("214"),
	Got:      lipgloss.Color("203"),
	Expected: lipgloss.Color("114"),
	Faint:    lipgloss.Color("245"),
	Summary:  lipgloss.Color("252"),
}

// WithTheme returns a copy of r using theme.
func (r *Renderer) WithTheme(theme Theme) *Renderer {
	copied := *r
	copied.theme = theme
	return &copied
}
