// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that records when something happened (capture records, for
// one) accepts a [Clock] instead of calling time.Now. In production,
// [Real] provides the standard library behavior. In tests, [Fake]
// provides a clock that stands still until [FakeClock.Advance] is
// called, so recorded times are exact:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	writer := capture.NewWriter(file, capture.CompressionZstd, c, logger)
//	writer.Append(first)
//	c.Advance(time.Second)
//	writer.Append(second) // stamped one second later
package clock
