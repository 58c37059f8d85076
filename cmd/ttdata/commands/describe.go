// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/datadef"
	"github.com/bureau-foundation/ttdata/lib/message"
)

func (a *app) describeCommand() *cli.Command {
	var params globalParams

	return &cli.Command{
		Name:    "describe",
		Summary: "Show what a definition describes",
		Description: `Read a definition and print it as a field tree, templates included.

If the definition builds, the summary and size of the message that
"ttdata build" would produce follow the tree. A pure template does not
build; the reason is printed instead.`,
		Usage: "ttdata describe [flags] <definition>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("describe", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("describe takes exactly one definition file, got %d arguments", len(args))
			}
			env, err := a.setup(params, "describe")
			if err != nil {
				return err
			}
			definition, err := datadef.ReadFile(args[0])
			if err != nil {
				return err
			}
			if definition == nil {
				return fmt.Errorf("%s: empty definition", args[0])
			}
			if err := env.renderer.Tree(definition); err != nil {
				return err
			}

			msg, err := message.FromValue(definition)
			if err != nil {
				fmt.Fprintf(a.stdout, "does not build: %v\n", err)
				return nil
			}
			fmt.Fprintf(a.stdout, "builds %s (%d bytes)\n", env.renderer.Summary(msg.Description()), len(msg.Bytes()))
			return nil
		},
	}
}
