// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"decode", "decode", 0},
		{"decod", "decode", 1},
		{"kitten", "sitting", 3},
		{"types", "tpyes", 2},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flagSet.Bool("json", false, "")
	flagSet.String("type", "", "")

	if got := suggestFlag([]string{"--jsn"}, flagSet); got != "--json" {
		t.Errorf("suggestFlag(--jsn) = %q, want --json", got)
	}
	if got := suggestFlag([]string{"--type=UDP", "--tyep=x"}, flagSet); got != "--type" {
		t.Errorf("suggestFlag(--tyep) = %q, want --type", got)
	}
	if got := suggestFlag([]string{"--completely-different"}, flagSet); got != "" {
		t.Errorf("suggestFlag = %q, want no suggestion", got)
	}
}

func TestSuggest(t *testing.T) {
	types := []string{"IPv6", "UDP", "ICMPv6", "bytes"}
	tests := []struct {
		unknown string
		want    string
	}{
		{"ipv6", "IPv6"},
		{"upd", "UDP"},
		{"icmp6", "ICMPv6"},
		{"byte", "bytes"},
		{"ethernet", ""},
	}
	for _, test := range tests {
		if got := Suggest(test.unknown, types); got != test.want {
			t.Errorf("Suggest(%q) = %q, want %q", test.unknown, got, test.want)
		}
	}
}

func TestSuggestFlagShorthands(t *testing.T) {
	flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flagSet.StringP("type", "t", "", "")
	flagSet.Bool("json", false, "")

	if got := suggestFlag([]string{"-t", "UDP", "--jsno"}, flagSet); got != "--json" {
		t.Errorf("suggestFlag after a known shorthand = %q, want --json", got)
	}
	if got := suggestFlag([]string{"-x", "--jsno"}, flagSet); got != "" {
		t.Errorf("suggestFlag for an unknown shorthand = %q, want no suggestion", got)
	}
	if got := suggestFlag([]string{"--", "--jsno"}, flagSet); got != "" {
		t.Errorf("suggestFlag after -- = %q, want no suggestion", got)
	}
}
