// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance that still produces a
// suggestion. Three catches the common typos (transpositions, dropped
// characters, extra characters) without suggesting unrelated names.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to unknown, or "" when none is
// within an edit distance of 3. Case is ignored when measuring, so
// "ipv6" suggests the registered type "IPv6". Ties go to the earliest
// candidate.
func Suggest(unknown string, candidates []string) string {
	bestName := ""
	bestDistance := maxSuggestDistance + 1

	folded := strings.ToLower(unknown)
	for _, candidate := range candidates {
		distance := levenshtein(folded, strings.ToLower(candidate))
		if distance < bestDistance {
			bestDistance = distance
			bestName = candidate
		}
	}

	return bestName
}

// suggestCommand returns the name of the closest matching subcommand to
// the unknown input, or "". Aliases are matched too, but the suggestion
// is always the command's primary name.
func suggestCommand(unknown string, commands []*Command) string {
	var names []string
	owners := make(map[string]string)
	for _, command := range commands {
		for _, name := range append([]string{command.Name}, command.Aliases...) {
			names = append(names, name)
			owners[name] = command.Name
		}
	}
	return owners[Suggest(unknown, names)]
}

// suggestFlag looks at args for the first unrecognized flag and returns
// the closest defined flag name with its "--" prefix. Returns "" if no
// good suggestion is found.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	var names []string
	flagSet.VisitAll(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})

	for _, arg := range args {
		// Everything after "--" is positional.
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}

		if !strings.HasPrefix(arg, "--") {
			// Any single letter is one edit from any other, so an unknown
			// shorthand gets no suggestion. Known ones are skipped.
			if flagSet.ShorthandLookup(arg[1:2]) != nil {
				continue
			}
			break
		}

		name := strings.TrimPrefix(arg, "--")
		if index := strings.IndexByte(name, '='); index >= 0 {
			name = name[:index]
		}
		if flagSet.Lookup(name) != nil {
			continue
		}

		if suggestion := Suggest(name, names); suggestion != "" {
			return "--" + suggestion
		}

		// Only check the first unrecognized flag.
		break
	}

	return ""
}

// levenshtein computes the Levenshtein edit distance between two strings:
// the minimum number of single-character insertions, deletions or
// substitutions that turn one into the other.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// One row of the distance matrix is kept, over the shorter string.
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := previous[i] + 1
			insertion := current[i-1] + 1
			substitution := previous[i-1] + cost

			current[i] = min(deletion, insertion, substitution)
		}

		previous = current
	}

	return previous[len(a)]
}
