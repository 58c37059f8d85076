// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/capture"
	"github.com/bureau-foundation/ttdata/lib/clock"
	"github.com/bureau-foundation/ttdata/lib/datadef"
	"github.com/bureau-foundation/ttdata/lib/message"
)

type buildParams struct {
	globalParams
	Capture     string `flag:"capture" desc:"append the message to this capture file instead of printing it"`
	Compression string `flag:"compression" desc:"capture record compression: none, lz4 or zstd (default from config)"`
	Summary     bool   `flag:"summary,s" desc:"print the message summary after the encoding"`
	Digest      bool   `flag:"digest" desc:"print the message digest after the encoding"`
}

func (a *app) buildCommand() *cli.Command {
	var params buildParams

	return &cli.Command{
		Name:    "build",
		Summary: "Encode a value definition as a message",
		Description: `Flatten a value definition and encode it.

Lengths, checksums and defaulted fields are filled in while building.
The encoding is printed as hex. With --capture, the message is
appended to a capture file instead; relative capture names are
resolved against capture.directory from the configuration.`,
		Usage: "ttdata build [flags] <definition>",
		Examples: []cli.Example{
			{
				Description: "Encode a UDP datagram",
				Command:     "ttdata build udp.jsonc",
			},
			{
				Description: "Append it to a capture file",
				Command:     "ttdata build --capture run.cap udp.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("build", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("build takes exactly one definition file, got %d arguments", len(args))
			}
			env, err := a.setup(params.globalParams, "build")
			if err != nil {
				return err
			}

			definition, err := datadef.ReadFile(args[0])
			if err != nil {
				return err
			}
			msg, err := message.FromValue(definition)
			if err != nil {
				return fmt.Errorf("building %s: %w", args[0], err)
			}
			env.logger.Debug("built message", "type", msg.Type().Name(), "size", len(msg.Bytes()))

			if params.Capture != "" {
				return a.appendCapture(env, params, msg)
			}

			fmt.Fprintln(a.stdout, hex.EncodeToString(msg.Bytes()))
			if params.Summary {
				fmt.Fprintln(a.stdout, env.renderer.Summary(msg.Description()))
			}
			if params.Digest {
				fmt.Fprintln(a.stdout, msg.Digest())
			}
			return nil
		},
	}
}

func (a *app) appendCapture(env *environment, params buildParams, msg *message.Message) error {
	compressionName := params.Compression
	if compressionName == "" {
		compressionName = env.config.Capture.Compression
	}
	compression, err := capture.ParseCompression(compressionName)
	if err != nil {
		return err
	}

	path := env.config.CapturePath(params.Capture)
	if path != params.Capture {
		if err := env.config.EnsureCaptureDirectory(); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening capture file: %w", err)
	}
	defer file.Close()

	writer := capture.NewWriter(file, compression, clock.Real(), env.logger.With("file", path))
	if err := writer.Append(msg); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(a.stdout, "appended %s to %s\n", env.renderer.Summary(msg.Description()), path)
	return nil
}
