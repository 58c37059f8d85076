// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewCommandLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewCommandLogger(&buffer, slog.LevelInfo, "auto")
	logger.Debug("hidden")
	logger.Info("shown", "type", "IPv6")
	output := buffer.String()
	if strings.Contains(output, "hidden") {
		t.Error("debug record written at info level")
	}
	// A buffer is not a terminal, so auto selects JSON.
	if !strings.Contains(output, `"msg":"shown"`) || !strings.Contains(output, `"type":"IPv6"`) {
		t.Errorf("auto output = %q, want JSON", output)
	}

	buffer.Reset()
	NewCommandLogger(&buffer, slog.LevelInfo, "text").Info("shown")
	if !strings.Contains(buffer.String(), "msg=shown") {
		t.Errorf("text output = %q", buffer.String())
	}
}
