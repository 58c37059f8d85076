// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/version"
)

// lookupType resolves a registered type name. An unknown name gets the
// closest registered one as a suggestion.
func lookupType(name string) (*data.Type, error) {
	t, err := data.LookupType(name)
	if !errors.Is(err, data.ErrUnknownType) {
		return t, err
	}
	var names []string
	for _, registered := range data.Types() {
		names = append(names, registered.Name())
	}
	if suggestion := cli.Suggest(name, names); suggestion != "" {
		return nil, fmt.Errorf("%w (did you mean %q?)", err, suggestion)
	}
	return nil, fmt.Errorf("%w (run \"ttdata types\" for the list)", err)
}

func (a *app) typesCommand() *cli.Command {
	return &cli.Command{
		Name:    "types",
		Summary: "List registered types",
		Description: `List every registered type with its parent type.

Definitions name types by these names, and "ttdata decode --type"
accepts any of them.`,
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("types takes no arguments, got %q", args[0])
			}
			tw := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tPARENT")
			for _, t := range data.Types() {
				parent := "-"
				if t.Parent() != nil {
					parent = t.Parent().Name()
				}
				fmt.Fprintf(tw, "%s\t%s\n", t.Name(), parent)
			}
			return tw.Flush()
		},
	}
}

func (a *app) versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			fmt.Fprintf(a.stdout, "ttdata %s\n", version.Full(len(data.Types())))
			return nil
		},
	}
}
