// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/ttdata/lib/clock"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/inet"
	"github.com/bureau-foundation/ttdata/lib/message"
	"github.com/bureau-foundation/ttdata/lib/packet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMessages(t *testing.T) []*message.Message {
	t.Helper()
	udp, err := data.Pack(
		packet.Must(inet.IPv6, map[string]any{"src": "2001:db8::1", "dst": "2001:db8::2"}),
		packet.Must(inet.UDP, map[string]any{"sport": 1025, "dport": 427}),
		strings.Repeat("blah ", 40),
	)
	if err != nil {
		t.Fatalf("Pack(udp): %v", err)
	}
	echo, err := data.Pack(
		packet.Must(inet.IPv6, map[string]any{"src": "2001:db8::1", "dst": "2001:db8::2"}),
		packet.Must(inet.ICMPv6EchoRequest, map[string]any{"id": 7, "seq": 1}),
	)
	if err != nil {
		t.Fatalf("Pack(echo): %v", err)
	}
	var messages []*message.Message
	for _, value := range []data.Data{udp, echo} {
		m, err := message.FromValue(value)
		if err != nil {
			t.Fatalf("FromValue: %v", err)
		}
		messages = append(messages, m)
	}
	return messages
}

func TestRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			messages := testMessages(t)
			var buffer bytes.Buffer
			writer := NewWriter(&buffer, compression, clock.Real(), testLogger())
			for _, m := range messages {
				if err := writer.Append(m); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}
			if writer.Count() != len(messages) {
				t.Errorf("Count = %d, want %d", writer.Count(), len(messages))
			}

			reader := NewReader(&buffer, testLogger())
			for i, want := range messages {
				got, err := reader.Next()
				if err != nil {
					t.Fatalf("Next %d: %v", i, err)
				}
				if !got.Value().Equal(want.Value()) {
					t.Errorf("message %d: read %s, wrote %s", i, got.Value(), want.Value())
				}
				if got.Digest() != want.Digest() {
					t.Errorf("message %d: digest changed", i)
				}
				if !bytes.Equal(got.Bytes(), want.Bytes()) {
					t.Errorf("message %d: encoding changed", i)
				}
			}
			if _, err := reader.Next(); err != io.EOF {
				t.Errorf("Next after last record = %v, want io.EOF", err)
			}
		})
	}
}

func TestCompressionIsRecorded(t *testing.T) {
	messages := testMessages(t)
	var buffer bytes.Buffer
	if err := NewWriter(&buffer, CompressionZstd, clock.Real(), testLogger()).Append(messages[0]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	record, err := NewReader(&buffer, testLogger()).NextRecord()
	if err != nil {
		t.Fatalf("NextRecord: %v", err)
	}
	if record.Compression != CompressionZstd {
		t.Errorf("Compression = %s, want zstd for a repetitive payload", record.Compression)
	}
	if record.Size != len(messages[0].Bytes()) {
		t.Errorf("Size = %d, want %d", record.Size, len(messages[0].Bytes()))
	}
	if len(record.Data) >= record.Size {
		t.Errorf("stored %d bytes for a %d-byte encoding", len(record.Data), record.Size)
	}
	if record.Type != "IPv6" {
		t.Errorf("Type = %q, want IPv6", record.Type)
	}
}

func TestIncompressibleFallsBack(t *testing.T) {
	for _, compression := range []Compression{CompressionLZ4, CompressionZstd} {
		input := []byte{1, 2, 3}
		out, used, err := compress(input, compression)
		if err != nil {
			t.Fatalf("compress(%s): %v", compression, err)
		}
		if used != CompressionNone || !bytes.Equal(out, input) {
			t.Errorf("compress(%s) of 3 bytes = %x as %s, want stored as is", compression, out, used)
		}
	}
}

func TestDigestMismatch(t *testing.T) {
	messages := testMessages(t)
	var buffer bytes.Buffer
	if err := NewWriter(&buffer, CompressionNone, clock.Real(), testLogger()).Append(messages[1]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	record, err := NewReader(&buffer, testLogger()).NextRecord()
	if err != nil {
		t.Fatalf("NextRecord: %v", err)
	}
	record.Data[len(record.Data)-1] ^= 0x01
	if _, err := Open(record); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("Open(tampered) = %v, want ErrDigestMismatch", err)
	}
}

func TestCorruptRecordSize(t *testing.T) {
	messages := testMessages(t)
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		for _, size := range []int{-1, MaxRecordSize + 1, 16 * MaxRecordSize} {
			t.Run(fmt.Sprintf("%s/%d", compression, size), func(t *testing.T) {
				var buffer bytes.Buffer
				if err := NewWriter(&buffer, compression, clock.Real(), testLogger()).Append(messages[0]); err != nil {
					t.Fatalf("Append: %v", err)
				}
				record, err := NewReader(&buffer, testLogger()).NextRecord()
				if err != nil {
					t.Fatalf("NextRecord: %v", err)
				}
				record.Size = size
				if _, err := Open(record); !errors.Is(err, ErrRecordSize) {
					t.Errorf("Open(size %d) = %v, want ErrRecordSize", size, err)
				}
			})
		}
	}
}

func TestUnknownType(t *testing.T) {
	messages := testMessages(t)
	var buffer bytes.Buffer
	if err := NewWriter(&buffer, CompressionNone, clock.Real(), testLogger()).Append(messages[1]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	record, err := NewReader(&buffer, testLogger()).NextRecord()
	if err != nil {
		t.Fatalf("NextRecord: %v", err)
	}
	record.Type = "capture.test.unregistered"
	if _, err := Open(record); !errors.Is(err, data.ErrUnknownType) {
		t.Errorf("Open(unregistered type) = %v, want ErrUnknownType", err)
	}
}

func TestTruncatedStream(t *testing.T) {
	messages := testMessages(t)
	var buffer bytes.Buffer
	if err := NewWriter(&buffer, CompressionNone, clock.Real(), testLogger()).Append(messages[0]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	truncated := buffer.Bytes()[:buffer.Len()-4]
	_, err := NewReader(bytes.NewReader(truncated), testLogger()).Next()
	if err == nil || err == io.EOF {
		t.Fatalf("Next on a truncated record = %v, want an error", err)
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name string
		want Compression
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"lz4", CompressionLZ4},
		{"zstd", CompressionZstd},
	}
	for _, test := range tests {
		got, err := ParseCompression(test.name)
		if err != nil {
			t.Errorf("ParseCompression(%q): %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseCompression(%q) = %s, want %s", test.name, got, test.want)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression accepted gzip")
	}
}

func TestRecordsAreTimestamped(t *testing.T) {
	messages := testMessages(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.Fake(start)
	var buffer bytes.Buffer
	writer := NewWriter(&buffer, CompressionNone, fake, testLogger())
	if err := writer.Append(messages[0]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	fake.Advance(250 * time.Millisecond)
	if err := writer.Append(messages[1]); err != nil {
		t.Fatalf("Append: %v", err)
	}

	reader := NewReader(&buffer, testLogger())
	for i, want := range []time.Time{start, start.Add(250 * time.Millisecond)} {
		record, err := reader.NextRecord()
		if err != nil {
			t.Fatalf("NextRecord %d: %v", i, err)
		}
		if got := record.CapturedAt(); !got.Equal(want) {
			t.Errorf("record %d captured at %v, want %v", i, got, want)
		}
	}

	if !(&Record{}).CapturedAt().IsZero() {
		t.Error("record without a time reports a capture time")
	}
}
