// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework behind the ttdata binary.
//
// A [Command] tree dispatches on the first positional argument, parses
// pflag flag sets declared through tagged params structs
// ([FlagsFromParams]), and prints help with typo suggestions for
// unknown commands and flags. [ExitError] lets a command report a
// non-zero exit status after writing its own output, and
// [NewCommandLogger] builds the slog logger every command shares.
package cli
