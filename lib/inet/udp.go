// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inet

import (
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/packet"
)

// udpHeaderSize is the length of the UDP header in bytes.
const udpHeaderSize = 8

// UDP is the UDP header (RFC 768). Length and Checksum are computed at
// build time; the checksum covers the IPv6 pseudo-header of the
// enclosing layer.
var UDP = packet.MustDefine(&packet.Layout{
	Name: "UDP",
	Fields: []packet.Field{
		{Name: "SrcPort", Alias: "sport", Type: data.Uint16Type},
		{Name: "DstPort", Alias: "dport", Type: data.Uint16Type},
		{Name: "Length", Alias: "len", Type: data.Uint16Type},
		{Name: "Checksum", Alias: "chksum", Type: data.Uint16Type},
		{Name: "Payload", Payload: true},
	},
	PayloadSize: func(p *packet.Packet) (int, bool) {
		n, ok := p.Uint("Length")
		if !ok || n < udpHeaderSize {
			return 0, false
		}
		return int(n) - udpHeaderSize, true
	},
	Complete: func(s *packet.BuildState) error {
		if s.Undefined("Length") {
			if err := s.Set("Length", udpHeaderSize+s.Payload.BitLen()/8); err != nil {
				return err
			}
		}
		return completeChecksum(s, "Checksum", ProtoUDP)
	},
	Describe: func(p *packet.Packet, desc *data.Description) {
		desc.SrcPort = data.Render(p.Value("SrcPort"))
		desc.DstPort = data.Render(p.Value("DstPort"))
	},
})

// UDPType is the type of UDP packets.
var UDPType = UDP.Type()
