// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/capture"
	"github.com/bureau-foundation/ttdata/lib/codec"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/datadef"
)

func (a *app) captureCommand() *cli.Command {
	return &cli.Command{
		Name:    "capture",
		Summary: "Inspect capture files",
		Description: `Read capture files written by "ttdata build --capture".

A capture file is a sequence of CBOR records, one per message, each
holding the message type, its (possibly compressed) encoding and a
digest checked on read.`,
		Subcommands: []*cli.Command{
			a.captureListCommand(),
			a.captureMatchCommand(),
		},
	}
}

type captureListParams struct {
	globalParams
	Diagnose bool `flag:"diag" desc:"print each raw record in CBOR diagnostic notation"`
}

func (a *app) captureListCommand() *cli.Command {
	var params captureListParams

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Summary: "List the messages in a capture file",
		Usage:   "ttdata capture list [flags] <file>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("capture list", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("capture list takes exactly one capture file, got %d arguments", len(args))
			}
			env, err := a.setup(params.globalParams, "capture/list")
			if err != nil {
				return err
			}
			path := env.config.CapturePath(args[0])

			if params.Diagnose {
				return a.diagnoseCapture(path)
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening capture file: %w", err)
			}
			defer file.Close()

			reader := capture.NewReader(file, env.logger.With("file", path))
			tw := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tTIME\tTYPE\tSIZE\tSTORED\tSUMMARY")
			for index := 0; ; index++ {
				record, err := reader.NextRecord()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					tw.Flush()
					return err
				}
				summary := "(unreadable)"
				if msg, err := capture.Open(record); err != nil {
					env.logger.Warn("unreadable capture record", "index", index, "type", record.Type, "error", err)
				} else {
					summary = env.renderer.Summary(msg.Description())
				}
				captured := "-"
				if at := record.CapturedAt(); !at.IsZero() {
					captured = at.Format(time.RFC3339Nano)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d %s\t%s\n",
					index, captured, record.Type, record.Size, len(record.Data), record.Compression, summary)
			}
			return tw.Flush()
		},
	}
}

// diagnoseCapture prints every record in the file at path in CBOR
// diagnostic notation without decoding the messages.
func (a *app) diagnoseCapture(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading capture file: %w", err)
	}
	for index := 0; len(content) > 0; index++ {
		diagnostic, rest, err := codec.DiagnoseFirst(content)
		if err != nil {
			return fmt.Errorf("record %d: %w", index, err)
		}
		fmt.Fprintf(a.stdout, "%d: %s\n", index, diagnostic)
		content = rest
	}
	return nil
}

type captureMatchParams struct {
	globalParams
	Template string `flag:"template" desc:"template definition file (required)"`
}

func (a *app) captureMatchCommand() *cli.Command {
	var params captureMatchParams

	return &cli.Command{
		Name:    "match",
		Summary: "Report which captured messages match a template",
		Description: `Match every message in a capture file against a template.

Each message is listed with "match" or its mismatches. The exit status
is 1 if any message fails to match or cannot be read.`,
		Usage: "ttdata capture match --template <definition> [flags] <file>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("capture match", &params)
		},
		Run: func(args []string) error {
			if params.Template == "" {
				return fmt.Errorf("--template is required")
			}
			if len(args) != 1 {
				return fmt.Errorf("capture match takes exactly one capture file, got %d arguments", len(args))
			}
			env, err := a.setup(params.globalParams, "capture/match")
			if err != nil {
				return err
			}
			pattern, err := datadef.ReadFile(params.Template)
			if err != nil {
				return err
			}
			path := env.config.CapturePath(args[0])
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening capture file: %w", err)
			}
			defer file.Close()

			reader := capture.NewReader(file, env.logger.With("file", path))
			failed := 0
			for index := 0; ; index++ {
				record, err := reader.NextRecord()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				msg, err := capture.Open(record)
				if err != nil {
					env.logger.Warn("unreadable capture record", "index", index, "type", record.Type, "error", err)
					fmt.Fprintf(a.stdout, "%d: %v\n", index, err)
					failed++
					continue
				}
				diff := data.NewDifferenceList(msg.Value())
				if data.Match(pattern, msg.Value(), &diff.MismatchList) {
					fmt.Fprintf(a.stdout, "%d: match %s\n", index, env.renderer.Summary(msg.Description()))
					continue
				}
				failed++
				fmt.Fprintf(a.stdout, "%d: %s\n", index, env.renderer.Summary(msg.Description()))
				if err := env.renderer.Mismatches(diff, nil); err != nil {
					return err
				}
			}
			if failed > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
