// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inet

import (
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/packet"
)

// Field widths of the IPv6 fixed header.
var (
	Uint4Type  = data.UintType("uint4", 4)
	Uint20Type = data.UintType("uint20", 20)
)

// Next header numbers.
const (
	ProtoUDP    = 17
	ProtoICMPv6 = 58
	ProtoNoNext = 59
)

// NextHeaders maps IPv6 next header numbers to payload types. Unknown
// numbers decode as bytes; bytes payloads are sent as "no next header".
var NextHeaders = mustTypeDict(data.Uint8Type, ProtoNoNext, data.BytesType)

// IPv6 is the IPv6 fixed header (RFC 8200). PayloadLength is computed
// at build time; Src and Dst default to the unspecified address.
var IPv6 = packet.MustDefine(&packet.Layout{
	Name: "IPv6",
	Fields: []packet.Field{
		{Name: "Version", Type: Uint4Type, Default: 6},
		{Name: "TrafficClass", Alias: "tc", Type: data.Uint8Type, Default: 0},
		{Name: "FlowLabel", Alias: "fl", Type: Uint20Type, Default: 0},
		{Name: "PayloadLength", Alias: "plen", Type: data.Uint16Type},
		{Name: "NextHeader", Alias: "nh", Type: data.Uint8Type},
		{Name: "HopLimit", Alias: "hlim", Type: data.Uint8Type, Default: 64},
		{Name: "Src", Alias: "src", Type: AddrType, Default: "::"},
		{Name: "Dst", Alias: "dst", Type: AddrType, Default: "::"},
		{Name: "Payload", Payload: true},
	},
	Payloads:   NextHeaders,
	PayloadKey: "NextHeader",
	PayloadSize: func(p *packet.Packet) (int, bool) {
		n, ok := p.Uint("PayloadLength")
		return int(n), ok
	},
	Complete: func(s *packet.BuildState) error {
		if s.Undefined("PayloadLength") {
			return s.Set("PayloadLength", s.Payload.BitLen()/8)
		}
		return nil
	},
	Describe: func(p *packet.Packet, desc *data.Description) {
		desc.Src = data.Render(p.Value("Src"))
		desc.Dst = data.Render(p.Value("Dst"))
	},
})

// IPv6Type is the type of IPv6 packets.
var IPv6Type = IPv6.Type()

func mustTypeDict(key *data.Type, defaultValue any, defaultType *data.Type) *data.TypeDict {
	td, err := data.NewTypeDict(key, defaultValue, defaultType)
	if err != nil {
		panic(err)
	}
	return td
}
