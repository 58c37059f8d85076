// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/config"
	"github.com/bureau-foundation/ttdata/lib/report"

	// The reference protocol family registers IPv6, UDP and ICMPv6.
	_ "github.com/bureau-foundation/ttdata/lib/inet"
)

// Root builds the ttdata command tree over the process's standard
// streams.
func Root() *cli.Command {
	return newApp(os.Stdin, os.Stdout, os.Stderr).root()
}

// app carries the streams every command reads and writes, so tests can
// run the real command tree against buffers.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) root() *cli.Command {
	return &cli.Command{
		Name: "ttdata",
		Description: `ttdata: build, decode and match protocol messages.

Messages are described by JSONC definitions naming registered types
(IPv6, UDP, ICMPv6 and their fields). A definition may hold concrete
values, which "build" encodes, or templates, which "match" checks
decoded messages against.`,
		HelpOutput: a.stderr,
		Subcommands: []*cli.Command{
			a.buildCommand(),
			a.decodeCommand(),
			a.matchCommand(),
			a.describeCommand(),
			a.captureCommand(),
			a.typesCommand(),
			a.versionCommand(),
		},
	}
}

// globalParams are embedded in every command's params.
type globalParams struct {
	Config string `flag:"config" desc:"configuration file (default: $TTDATA_CONFIG, else built-in defaults)"`
}

// environment is what a command needs after its flags are parsed.
type environment struct {
	config   *config.Config
	logger   *slog.Logger
	renderer *report.Renderer
}

// setup loads and validates configuration and builds the logger and
// report renderer for the named command.
func (a *app) setup(params globalParams, command string) (*environment, error) {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := cli.NewCommandLogger(a.stderr, level, cfg.Log.Format).With("command", command)

	colorMode, err := report.ParseColorMode(cfg.Report.Color)
	if err != nil {
		return nil, err
	}

	return &environment{
		config:   cfg,
		logger:   logger,
		renderer: report.NewRenderer(a.stdout, colorMode, cfg.Report.Width),
	}, nil
}

func loadConfig(path string) (*config.Config, error) {
	switch {
	case path != "":
		return config.LoadFile(path)
	case os.Getenv("TTDATA_CONFIG") != "":
		return config.Load()
	default:
		return config.Default(), nil
	}
}
