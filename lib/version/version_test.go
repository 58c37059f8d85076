// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, commit, dirty string) {
	t.Helper()
	savedCommit, savedDirty := GitCommit, GitDirty
	t.Cleanup(func() { GitCommit, GitDirty = savedCommit, savedDirty })
	GitCommit, GitDirty = commit, dirty
}

func TestInfoInjected(t *testing.T) {
	withBuildInfo(t, "abc1234", "true")

	info := Info()
	if !strings.HasPrefix(info, Version+" (abc1234-dirty, ") {
		t.Errorf("Info() = %q", info)
	}
	if Commit() != "abc1234" {
		t.Errorf("Commit() = %q, want abc1234", Commit())
	}
}

func TestInfoClean(t *testing.T) {
	withBuildInfo(t, "abc1234", "false")

	if strings.Contains(Info(), "-dirty") {
		t.Errorf("Info() = %q, want no dirty marker", Info())
	}
}

func TestFull(t *testing.T) {
	full := Full(42)
	for _, want := range []string{runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH, "Types: 42"} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}

func TestShort(t *testing.T) {
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
