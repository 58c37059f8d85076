// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package capture stores encoded messages in a stream of CBOR records.
//
// Each [Record] carries the registered name of the message's top-level
// type, its encoding (optionally compressed with LZ4 or zstd), and the
// message digest. [Reader.Next] decompresses a record, checks the
// digest, and decodes the encoding back into a [message.Message], so a
// capture can be replayed against templates long after the session
// that produced it.
//
// Records are stamped with the time they were appended, read from the
// [clock.Clock] given to [NewWriter].
//
// Compression is per record. A record whose encoding does not shrink
// is stored uncompressed whatever the writer was configured with.
package capture
