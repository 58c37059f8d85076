// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// readEncoding returns the bytes named by a message argument:
//
//   - "-" reads hex from stdin
//   - "@path" reads raw binary from a file
//   - anything else is hex on the command line
//
// Whitespace in hex input is ignored.
func (a *app) readEncoding(arg string) ([]byte, error) {
	switch {
	case arg == "-":
		content, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return decodeHex(string(content))
	case strings.HasPrefix(arg, "@"):
		path := arg[1:]
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return content, nil
	default:
		return decodeHex(arg)
	}
}

// decodeHex decodes hex text, ignoring whitespace (spaces, tabs,
// newlines) so that hex dumps can be pasted directly.
func decodeHex(text string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty input: expected a hex-encoded message")
	}
	decoded, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decoding hex input: %w", err)
	}
	return decoded, nil
}
