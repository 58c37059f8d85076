// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/datadef"
)

type matchParams struct {
	decodeParams
	Template string `flag:"template" desc:"template definition file the message must match (required)"`
	Quiet    bool   `flag:"quiet,q" desc:"print nothing; report the result through the exit status"`
}

func (a *app) matchCommand() *cli.Command {
	var params matchParams

	return &cli.Command{
		Name:    "match",
		Summary: "Check a message against a template",
		Description: `Decode a message and match it against a template definition.

On success "match" is printed and the exit status is 0. Otherwise
every mismatch is reported with its field path, the received value and
the expected pattern, and the exit status is 1.`,
		Usage: "ttdata match --template <definition> [flags] <hex | - | @file>",
		Examples: []cli.Example{
			{
				Description: "Require a privileged destination port",
				Command:     "ttdata match --template privileged.jsonc 6000...",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("match", &params)
		},
		Run: func(args []string) error {
			if params.Template == "" {
				return fmt.Errorf("--template is required")
			}
			if len(args) != 1 {
				return fmt.Errorf("match takes exactly one message argument, got %d", len(args))
			}
			env, err := a.setup(params.globalParams, "match")
			if err != nil {
				return err
			}
			pattern, err := datadef.ReadFile(params.Template)
			if err != nil {
				return err
			}
			msg, err := a.decodeMessage(env, params.decodeParams, args[0])
			if err != nil {
				return err
			}

			diff := data.NewDifferenceList(msg.Value())
			if data.Match(pattern, msg.Value(), &diff.MismatchList) {
				if !params.Quiet {
					fmt.Fprintln(a.stdout, "match")
				}
				return nil
			}
			env.logger.Info("message does not match template",
				"template", params.Template,
				"mismatches", diff.Len(),
			)
			if !params.Quiet {
				if err := env.renderer.Mismatches(diff, nil); err != nil {
					return err
				}
			}
			return &cli.ExitError{Code: 1}
		},
	}
}
