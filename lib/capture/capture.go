// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/ttdata/lib/binslice"
	"github.com/bureau-foundation/ttdata/lib/clock"
	"github.com/bureau-foundation/ttdata/lib/codec"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/message"
)

// ErrDigestMismatch is returned by [Reader.Next] when a record's data
// does not hash to its stored digest.
var ErrDigestMismatch = errors.New("capture: digest mismatch")

// Record is one captured message as stored in the stream.
type Record struct {
	// Type is the registered name of the message's top-level type.
	Type string `cbor:"type"`
	// Compression is the algorithm Data is compressed with.
	Compression Compression `cbor:"compression"`
	// Size is the length of the encoding before compression.
	Size int `cbor:"size"`
	// Trailing is the number of valid bits in the final byte of an
	// encoding that is not byte aligned, or zero.
	Trailing int `cbor:"trailing,omitempty"`
	// Digest is the message digest of the encoding.
	Digest []byte `cbor:"digest"`
	// Time is when the record was appended, in Unix nanoseconds.
	Time int64 `cbor:"time,omitempty"`
	// Data is the (possibly compressed) encoding.
	Data []byte `cbor:"data"`
}

// CapturedAt returns the time the record was appended, or the zero
// time for records written without one.
func (r *Record) CapturedAt() time.Time {
	if r.Time == 0 {
		return time.Time{}
	}
	return time.Unix(0, r.Time).UTC()
}

// Writer appends messages to a capture stream.
type Writer struct {
	encoder     *codec.Encoder
	compression Compression
	clock       clock.Clock
	logger      *slog.Logger
	count       int
}

// NewWriter returns a writer that appends records to w, compressing
// each with compression when that makes it smaller. Records are
// stamped with clk.
func NewWriter(w io.Writer, compression Compression, clk clock.Clock, logger *slog.Logger) *Writer {
	return &Writer{
		encoder:     codec.NewEncoder(w),
		compression: compression,
		clock:       clk,
		logger:      logger,
	}
}

// Append writes msg as the next record.
func (w *Writer) Append(msg *message.Message) error {
	bits := msg.Bits()
	if len(bits.Data) > MaxRecordSize {
		return fmt.Errorf("record %d: %w: %d bytes (limit %d)", w.count, ErrRecordSize, len(bits.Data), MaxRecordSize)
	}
	digest := msg.Digest()
	compressed, used, err := compress(bits.Data, w.compression)
	if err != nil {
		return fmt.Errorf("compressing record %d: %w", w.count, err)
	}
	record := Record{
		Type:        msg.Type().Name(),
		Compression: used,
		Size:        len(bits.Data),
		Trailing:    bits.Trailing,
		Digest:      digest[:],
		Time:        w.clock.Now().UnixNano(),
		Data:        compressed,
	}
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("writing record %d: %w", w.count, err)
	}
	w.logger.Debug("captured message",
		"index", w.count,
		"type", record.Type,
		"size", record.Size,
		"compression", used.String(),
		"stored", len(compressed),
	)
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Reader reads messages back from a capture stream.
type Reader struct {
	decoder *codec.Decoder
	logger  *slog.Logger
	index   int
}

// NewReader returns a reader over the records in r.
func NewReader(r io.Reader, logger *slog.Logger) *Reader {
	return &Reader{decoder: codec.NewDecoder(r), logger: logger}
}

// NextRecord returns the next raw record, or io.EOF at the end of the
// stream.
func (r *Reader) NextRecord() (*Record, error) {
	var record Record
	if err := r.decoder.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading record %d: %w", r.index, err)
	}
	r.index++
	return &record, nil
}

// Next returns the next message, or io.EOF at the end of the stream.
// The record is decompressed, checked against its digest, and decoded
// as its registered type.
func (r *Reader) Next() (*message.Message, error) {
	record, err := r.NextRecord()
	if err != nil {
		return nil, err
	}
	index := r.index - 1
	msg, err := Open(record)
	if err != nil {
		r.logger.Warn("unreadable capture record", "index", index, "type", record.Type, "error", err)
		return nil, fmt.Errorf("record %d: %w", index, err)
	}
	return msg, nil
}

// Open decodes the message held by record.
func Open(record *Record) (*message.Message, error) {
	t, err := data.LookupType(record.Type)
	if err != nil {
		return nil, err
	}
	encoded, err := decompress(record.Data, record.Compression, record.Size)
	if err != nil {
		return nil, err
	}
	bits := binslice.Bits{Data: encoded, Trailing: record.Trailing}
	if digest := message.DigestBits(bits); string(digest[:]) != string(record.Digest) {
		return nil, fmt.Errorf("%w: stored %x, computed %s", ErrDigestMismatch, record.Digest, digest)
	}
	msg, err := message.FromBits(t, bits)
	if err != nil {
		return nil, err
	}
	return msg, nil
}
