// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/ttdata/cmd/ttdata/cli"
	"github.com/bureau-foundation/ttdata/lib/data"
)

const udpDefinition = `// A UDP datagram over IPv6.
{
  "type": "IPv6",
  "fields": {"src": "2001:db8::1", "dst": "2001:db8::2"},
  "payload": {
    "type": "UDP",
    "fields": {"sport": 1025, "dport": 427},
    "payload": {"text": "blah blah"},
  },
}
`

// portTemplate requires destination port 80.
const portTemplate = `{
  "type": "IPv6",
  "payload": {"type": "UDP", "fields": {"dport": 80}},
}
`

// rangeTemplate accepts any privileged destination port.
const rangeTemplate = `{
  "type": "IPv6",
  "payload": {
    "type": "UDP",
    "fields": {"dport": {"template": "range", "min": 1, "max": 1023}},
  },
}
`

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the command tree with args, using stdin as standard
// input and no configuration file.
func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("TTDATA_CONFIG", "")
	var stdout, stderr bytes.Buffer
	err := newApp(strings.NewReader(stdin), &stdout, &stderr).root().Execute(args)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// buildHex builds definition and returns the hex encoding.
func buildHex(t *testing.T, definition string) string {
	t.Helper()
	path := writeFile(t, t.TempDir(), "message.jsonc", definition)
	r := execute(t, "", "build", path)
	if r.err != nil {
		t.Fatalf("build: %v\n%s", r.err, r.stderr)
	}
	return strings.TrimSpace(r.stdout)
}

func TestBuild(t *testing.T) {
	path := writeFile(t, t.TempDir(), "udp.jsonc", udpDefinition)
	r := execute(t, "", "build", "--summary", "--digest", path)
	if r.err != nil {
		t.Fatalf("build: %v", r.err)
	}
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("build output = %q, want encoding, summary and digest", r.stdout)
	}
	if !strings.HasPrefix(lines[0], "60") {
		t.Errorf("encoding %s does not start with an IPv6 version nibble", lines[0])
	}
	if lines[1] != "[[2001:db8::1]:1025 -> [2001:db8::2]:427] UDP" {
		t.Errorf("summary = %q", lines[1])
	}
	if len(lines[2]) != 64 {
		t.Errorf("digest = %q, want 64 hex characters", lines[2])
	}

	r = execute(t, "", "build")
	if r.err == nil || !strings.Contains(r.err.Error(), "exactly one definition") {
		t.Errorf("build without arguments = %v", r.err)
	}
}

func TestDecode(t *testing.T) {
	encoded := buildHex(t, udpDefinition)

	r := execute(t, "", "decode", encoded)
	if r.err != nil {
		t.Fatalf("decode: %v", r.err)
	}
	for _, want := range []string{
		"[[2001:db8::1]:1025 -> [2001:db8::2]:427] UDP\n",
		"\n  Src: 2001:db8::1\n",
		"\n  UDP\n",
		"\n    DstPort: 427\n",
		"\nEncoded as:\n    60 00 00 00 00 11 11 40  20 01 0d b8 00 00 00 00\n",
	} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("decode output missing %q:\n%s", want, r.stdout)
		}
	}

	// Hex on stdin, split across lines, decodes the same way.
	spaced := encoded[:20] + "\n  " + encoded[20:] + "\n"
	fromStdin := execute(t, spaced, "decode", "-")
	if fromStdin.err != nil || fromStdin.stdout != r.stdout {
		t.Errorf("decode - = %v\n%s\nwant\n%s", fromStdin.err, fromStdin.stdout, r.stdout)
	}
}

func TestDecodeJSONRebuilds(t *testing.T) {
	encoded := buildHex(t, udpDefinition)

	r := execute(t, "", "decode", "--json", encoded)
	if r.err != nil {
		t.Fatalf("decode --json: %v", r.err)
	}
	if !strings.Contains(r.stdout, `"DstPort": 427`) {
		t.Errorf("JSON output missing DstPort:\n%s", r.stdout)
	}
	if rebuilt := buildHex(t, r.stdout); rebuilt != encoded {
		t.Errorf("decode --json output rebuilds to\n%s\nwant\n%s", rebuilt, encoded)
	}
}

func TestDecodeCBORAndDigest(t *testing.T) {
	dir := t.TempDir()
	definition := writeFile(t, dir, "udp.jsonc", udpDefinition)
	built := execute(t, "", "build", "--digest", definition)
	if built.err != nil {
		t.Fatalf("build: %v", built.err)
	}
	lines := strings.Split(strings.TrimSpace(built.stdout), "\n")

	r := execute(t, "", "decode", "--cbor", "--digest", lines[0])
	if r.err != nil {
		t.Fatalf("decode --cbor: %v", r.err)
	}
	if !strings.Contains(r.stdout, `"IPv6"`) || !strings.Contains(r.stdout, `"UDP"`) {
		t.Errorf("diagnostic output missing type names:\n%s", r.stdout)
	}
	output := strings.Split(strings.TrimSpace(r.stdout), "\n")
	if digest := output[len(output)-1]; digest != lines[1] {
		t.Errorf("decoded digest %s, built digest %s", digest, lines[1])
	}

	if r := execute(t, "", "decode", "--json", "--cbor", lines[0]); r.err == nil {
		t.Error("decode accepted --json with --cbor")
	}
}

func TestDecodeErrors(t *testing.T) {
	encoded := buildHex(t, udpDefinition)

	if r := execute(t, "", "decode", "--type", "NoSuchType", encoded); !errors.Is(r.err, data.ErrUnknownType) {
		t.Errorf("unknown type error = %v, want ErrUnknownType", r.err)
	}
	if r := execute(t, "", "decode", "--type", "ipv6", encoded); !errors.Is(r.err, data.ErrUnknownType) ||
		!strings.Contains(r.err.Error(), `did you mean "IPv6"`) {
		t.Errorf("misspelt type error = %v, want a suggestion of IPv6", r.err)
	}
	if r := execute(t, "", "decode", "zz"); r.err == nil || !strings.Contains(r.err.Error(), "hex") {
		t.Errorf("bad hex error = %v", r.err)
	}
	if r := execute(t, "", "decode", encoded+"ff"); !errors.Is(r.err, data.ErrDecode) {
		t.Errorf("trailing byte error = %v, want ErrDecode", r.err)
	}

	binary := writeFile(t, t.TempDir(), "packet.bin", "\x60")
	if r := execute(t, "", "decode", "@"+binary); !errors.Is(r.err, data.ErrDecode) {
		t.Errorf("truncated file error = %v, want ErrDecode", r.err)
	}
}

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	encoded := buildHex(t, udpDefinition)

	privileged := writeFile(t, dir, "privileged.jsonc", rangeTemplate)
	r := execute(t, "", "match", "--template", privileged, encoded)
	if r.err != nil {
		t.Fatalf("match: %v", r.err)
	}
	if r.stdout != "match\n" {
		t.Errorf("match output = %q, want %q", r.stdout, "match\n")
	}

	http := writeFile(t, dir, "http.jsonc", portTemplate)
	r = execute(t, "", "match", "--template", http, encoded)
	var exitErr *cli.ExitError
	if !errors.As(r.err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("mismatch error = %v, want exit code 1", r.err)
	}
	want := "IPv6.UDP.DstPort: ValueMismatch\n" +
		"    got:      427\n" +
		"    expected: 80\n"
	if r.stdout != want {
		t.Errorf("mismatch report:\n%s\nwant:\n%s", r.stdout, want)
	}

	r = execute(t, "", "match", "--quiet", "--template", http, encoded)
	if !errors.As(r.err, &exitErr) || r.stdout != "" {
		t.Errorf("quiet mismatch = %v, output %q", r.err, r.stdout)
	}

	if r := execute(t, "", "match", encoded); r.err == nil || !strings.Contains(r.err.Error(), "--template") {
		t.Errorf("match without template = %v", r.err)
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()

	r := execute(t, "", "describe", writeFile(t, dir, "udp.jsonc", udpDefinition))
	if r.err != nil {
		t.Fatalf("describe: %v", r.err)
	}
	if !strings.Contains(r.stdout, "builds [[2001:db8::1]:1025 -> [2001:db8::2]:427] UDP (") {
		t.Errorf("describe output:\n%s", r.stdout)
	}
	if !strings.HasPrefix(r.stdout, "IPv6\n") {
		t.Errorf("describe output does not start with the tree:\n%s", r.stdout)
	}

	r = execute(t, "", "describe", writeFile(t, dir, "range.jsonc", rangeTemplate))
	if r.err != nil {
		t.Fatalf("describe(template): %v", r.err)
	}
	if !strings.Contains(r.stdout, "DstPort: ") || !strings.Contains(r.stdout, "does not build: ") {
		t.Errorf("template describe output:\n%s", r.stdout)
	}
}

func TestCapture(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "ttdata.yaml", "capture:\n  compression: lz4\n  directory: "+filepath.Join(dir, "captures")+"\n")
	definition := writeFile(t, dir, "udp.jsonc", udpDefinition)
	echo := writeFile(t, dir, "echo.jsonc", `{
		"type": "IPv6",
		"fields": {"src": "2001:db8::1", "dst": "2001:db8::2"},
		"payload": {"type": "ICMPv6EchoRequest", "fields": {"id": 7, "seq": 1}},
	}`)

	for _, args := range [][]string{
		{"build", "--config", configPath, "--capture", "run.cap", definition},
		{"build", "--config", configPath, "--capture", "run.cap", "--compression", "zstd", echo},
	} {
		if r := execute(t, "", args...); r.err != nil {
			t.Fatalf("%v: %v\n%s", args, r.err, r.stderr)
		} else if !strings.HasPrefix(r.stdout, "appended ") {
			t.Errorf("%v output = %q", args, r.stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "captures", "run.cap")); err != nil {
		t.Fatalf("capture file not created in the configured directory: %v", err)
	}

	r := execute(t, "", "capture", "list", "--config", configPath, "run.cap")
	if r.err != nil {
		t.Fatalf("capture list: %v", r.err)
	}
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("capture list output:\n%s", r.stdout)
	}
	if !strings.HasPrefix(lines[1], "0 ") || !strings.Contains(lines[1], "UDP") {
		t.Errorf("first record line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "1 ") || !strings.Contains(lines[2], "ICMPv6EchoRequest") {
		t.Errorf("second record line = %q", lines[2])
	}

	r = execute(t, "", "capture", "list", "--config", configPath, "--diag", "run.cap")
	if r.err != nil {
		t.Fatalf("capture list --diag: %v", r.err)
	}
	if !strings.HasPrefix(r.stdout, "0: {") || !strings.Contains(r.stdout, "\n1: {") {
		t.Errorf("diagnostic listing:\n%s", r.stdout)
	}

	sameDst := writeFile(t, dir, "dst.jsonc", `{"type": "IPv6", "fields": {"dst": "2001:db8::2"}}`)
	r = execute(t, "", "capture", "match", "--config", configPath, "--template", sameDst, "run.cap")
	if r.err != nil {
		t.Fatalf("capture match: %v\n%s", r.err, r.stdout)
	}
	if strings.Count(r.stdout, ": match ") != 2 {
		t.Errorf("capture match output:\n%s", r.stdout)
	}

	http := writeFile(t, dir, "http.jsonc", portTemplate)
	r = execute(t, "", "capture", "match", "--config", configPath, "--template", http, "run.cap")
	var exitErr *cli.ExitError
	if !errors.As(r.err, &exitErr) {
		t.Errorf("capture match mismatch = %v, want ExitError", r.err)
	}
	if !strings.Contains(r.stdout, "DstPort: ValueMismatch") {
		t.Errorf("capture match mismatch output:\n%s", r.stdout)
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	definition := writeFile(t, dir, "udp.jsonc", udpDefinition)
	invalid := writeFile(t, dir, "bad.yaml", "report:\n  color: sometimes\n")

	r := execute(t, "", "build", "--config", invalid, definition)
	if r.err == nil || !strings.Contains(r.err.Error(), "report.color") {
		t.Errorf("invalid config error = %v", r.err)
	}
	r = execute(t, "", "build", "--config", filepath.Join(dir, "missing.yaml"), definition)
	if r.err == nil {
		t.Error("build accepted a missing config file")
	}
}

func TestTypesAndVersion(t *testing.T) {
	r := execute(t, "", "types")
	if r.err != nil {
		t.Fatalf("types: %v", r.err)
	}
	for _, want := range []string{"TYPE", "IPv6", "UDP", "ICMPv6EchoRequest"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("types output missing %s:\n%s", want, r.stdout)
		}
	}

	r = execute(t, "", "version")
	if r.err != nil || !strings.HasPrefix(r.stdout, "ttdata ") {
		t.Errorf("version = %v, %q", r.err, r.stdout)
	}
}

func TestUnknownCommand(t *testing.T) {
	r := execute(t, "", "decod")
	if r.err == nil || !strings.Contains(r.err.Error(), `did you mean "decode"`) {
		t.Errorf("unknown command error = %v", r.err)
	}
}
