// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package inet defines the IPv6 protocol family on top of package
// packet: the IPv6 fixed header, UDP, and ICMPv6 with echo request and
// echo reply variants.
//
// Layers are stacked with [data.Pack]:
//
//	stack, err := data.Pack(
//		packet.Must(inet.IPv6, map[string]any{"src": "2001:db8::1", "dst": "2001:db8::2"}),
//		packet.Must(inet.UDP, map[string]any{"sport": 1025, "dport": 427}),
//		"blah blah",
//	)
//
// Building fills the IPv6 next header and payload length, the UDP
// length, and the UDP and ICMPv6 checksums over the IPv6
// pseudo-header. Decoding an IPv6 header selects the payload layout
// from [NextHeaders], and an ICMPv6 message selects its variant from
// [ICMPv6Types].
//
// Addresses are [Addr] values backed by [netip.Addr]; [Prefix] builds a
// template matching the addresses of a subnet.
package inet
