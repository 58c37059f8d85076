// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bureau-foundation/ttdata/lib/data"
)

// ColorMode selects when output is styled.
type ColorMode string

const (
	// ColorAuto styles output written to a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways styles output unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever writes plain text.
	ColorNever ColorMode = "never"
)

// ParseColorMode parses auto, always or never.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(s); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
	}
}

// Renderer formats mismatches, descriptions and value trees for one
// output stream.
type Renderer struct {
	output   io.Writer
	color    bool
	width    int
	theme    Theme
	renderer *lipgloss.Renderer
}

// NewRenderer returns a renderer writing to w. width truncates long
// lines; zero disables truncation.
func NewRenderer(w io.Writer, mode ColorMode, width int) *Renderer {
	color := mode == ColorAlways
	if mode == ColorAuto {
		if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			color = true
		}
	}
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	// SetColorProfile is required: without it the renderer re-detects
	// from the environment and ignores the profile passed here.
	lipRenderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	lipRenderer.SetColorProfile(profile)
	return &Renderer{
		output:   w,
		color:    color,
		width:    width,
		theme:    DefaultTheme,
		renderer: lipRenderer,
	}
}

// Color reports whether r styles its output.
func (r *Renderer) Color() bool { return r.color }

func (r *Renderer) style(color lipgloss.Color) lipgloss.Style {
	return r.renderer.NewStyle().Foreground(color)
}

// fit truncates a rendered line to the configured width.
func (r *Renderer) fit(line string) string {
	if r.width <= 0 || ansi.StringWidth(line) <= r.width {
		return line
	}
	return ansi.Truncate(line, r.width-1, "…")
}

// Mismatches writes one block per mismatch in diff:
//
//	IPv6.UDP.DstPort: ValueMismatch
//	    got:      5000
//	    expected: Range(1, 1023)
//
// describe renders the two sides; nil uses their String forms.
func (r *Renderer) Mismatches(diff *data.DifferenceList, describe data.DescribeFunc) error {
	var failed error
	diff.Walk(func(path []string, m data.Mismatch) {
		if failed != nil {
			return
		}
		lines := []string{
			r.style(r.theme.Path).Render(strings.Join(path, ".")) + ": " +
				r.style(r.theme.Kind).Bold(true).Render(m.Kind.String()),
			"    got:      " + r.style(r.theme.Got).Render(m.DescribeValue(describe)),
			"    expected: " + r.style(r.theme.Expected).Render(m.DescribeExpected(describe)),
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(r.output, r.fit(line)); err != nil {
				failed = err
				return
			}
		}
	})
	return failed
}

// Summary renders a message description as "[src -> dst] info", with
// ports when the description has them.
func (r *Renderer) Summary(desc data.Description) string {
	src, dst := desc.Endpoints()
	if desc.SrcPort != "" || desc.DstPort != "" {
		src = joinPort(src, desc.SrcPort)
		dst = joinPort(dst, desc.DstPort)
	}
	endpoints := r.style(r.theme.Faint).Render("[" + src + " -> " + dst + "]")
	return r.fit(endpoints + " " + r.style(r.theme.Summary).Bold(true).Render(desc.Info))
}

func joinPort(host, port string) string {
	if port == "" {
		return host
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]:" + port
	}
	return host + ":" + port
}

// Tree writes v as an indented field tree, one "Name: value" line per
// scalar and a heading per structured field.
func (r *Renderer) Tree(v data.Data) error {
	return r.tree(v, v.Type().Name(), 0)
}

func (r *Renderer) tree(d data.Data, name string, depth int) error {
	indent := strings.Repeat("  ", depth)
	container, ok := d.(data.Container)
	if !ok {
		line := indent + r.style(r.theme.Path).Render(name) + ": " + data.Render(d)
		_, err := fmt.Fprintln(r.output, r.fit(line))
		return err
	}
	heading := indent + r.style(r.theme.Kind).Bold(true).Render(name)
	if name != d.Type().Name() {
		heading += " " + r.style(r.theme.Faint).Render("("+d.Type().Name()+")")
	}
	if _, err := fmt.Fprintln(r.output, r.fit(heading)); err != nil {
		return err
	}
	for _, field := range container.Fields() {
		if err := r.tree(field.Data, field.Name, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// HighlightJSON returns code with JSON syntax highlighting when r
// styles its output, or code unchanged otherwise.
func (r *Renderer) HighlightJSON(code string) string {
	if !r.color {
		return code
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, "json", "terminal256", "monokai"); err != nil {
		return code
	}
	return buffer.String()
}
