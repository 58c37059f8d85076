// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/codec"
	"github.com/bureau-foundation/ttdata/lib/datadef"
	"github.com/bureau-foundation/ttdata/lib/message"
)

// decodeParams are shared by decode and match, which both start from
// an encoded message.
type decodeParams struct {
	globalParams
	Type string `flag:"type,t" desc:"top-level type of the message (default from config)"`
}

type decodeOutputParams struct {
	decodeParams
	JSON   bool `flag:"json" desc:"print the message as a definition in JSON"`
	CBOR   bool `flag:"cbor" desc:"print the message as a CBOR definition in diagnostic notation"`
	Digest bool `flag:"digest" desc:"print the message digest"`
}

func (a *app) decodeCommand() *cli.Command {
	var params decodeOutputParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Decode a message and print its fields",
		Description: `Decode an encoded message as a registered type.

The message is given as hex, "-" for hex on stdin, or "@file" for a
raw binary file. By default the summary line and a field tree are
printed, followed by a hex dump of the encoding. --json prints a definition that "ttdata build" accepts.`,
		Usage: "ttdata decode [flags] <hex | - | @file>",
		Examples: []cli.Example{
			{
				Description: "Decode an IPv6 packet",
				Command:     "ttdata decode 6000000000110640...",
			},
			{
				Description: "Turn a captured packet into an editable definition",
				Command:     "ttdata decode --json @packet.bin > packet.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("decode takes exactly one message argument, got %d", len(args))
			}
			if params.JSON && params.CBOR {
				return fmt.Errorf("--json and --cbor are mutually exclusive")
			}
			env, err := a.setup(params.globalParams, "decode")
			if err != nil {
				return err
			}
			msg, err := a.decodeMessage(env, params.decodeParams, args[0])
			if err != nil {
				return err
			}

			switch {
			case params.JSON:
				encoded, err := datadef.MarshalJSON(msg.Value())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, env.renderer.HighlightJSON(string(encoded)))
			case params.CBOR:
				encoded, err := datadef.MarshalCBOR(msg.Value())
				if err != nil {
					return err
				}
				diagnostic, err := codec.Diagnose(encoded)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, diagnostic)
			default:
				fmt.Fprintln(a.stdout, env.renderer.Summary(msg.Description()))
				if err := env.renderer.Tree(msg.Value()); err != nil {
					return err
				}
				fmt.Fprint(a.stdout, msg.HexDump())
			}
			if params.Digest {
				fmt.Fprintln(a.stdout, msg.Digest())
			}
			return nil
		},
	}
}

// decodeMessage reads the message argument and decodes it as the type
// named by --type, or the configured default type.
func (a *app) decodeMessage(env *environment, params decodeParams, arg string) (*message.Message, error) {
	typeName := params.Type
	if typeName == "" {
		typeName = env.config.Decode.Type
	}
	t, err := lookupType(typeName)
	if err != nil {
		return nil, err
	}
	encoded, err := a.readEncoding(arg)
	if err != nil {
		return nil, err
	}
	msg, err := message.FromBinary(t, encoded)
	if err != nil {
		return nil, err
	}
	env.logger.Debug("decoded message", "type", typeName, "size", len(encoded))
	return msg, nil
}
