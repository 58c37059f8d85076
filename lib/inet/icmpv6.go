// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inet

import (
	"fmt"

	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/packet"
)

// ICMPv6 message types with a dedicated layout.
const (
	ICMPv6EchoRequestType = 128
	ICMPv6EchoReplyType   = 129
)

// ICMPv6Types maps the ICMPv6 Type field to message layouts. Types not
// listed decode as plain ICMPv6 with a bytes body.
var ICMPv6Types = mustTypeDict(data.Uint8Type, nil, nil)

// ICMPv6 is the generic ICMPv6 message (RFC 4443). The checksum covers
// the IPv6 pseudo-header of the enclosing layer.
var ICMPv6 = packet.MustDefine(&packet.Layout{
	Name: "ICMPv6",
	Fields: []packet.Field{
		{Name: "Type", Type: data.Uint8Type},
		{Name: "Code", Type: data.Uint8Type, Default: 0},
		{Name: "Checksum", Alias: "chksum", Type: data.Uint16Type},
		{Name: "Body", Payload: true},
	},
	Variants:   ICMPv6Types,
	VariantKey: "Type",
	Complete: func(s *packet.BuildState) error {
		return completeChecksum(s, "Checksum", ProtoICMPv6)
	},
})

// echoFields are the fields echo requests and replies add after the
// checksum (RFC 4443 section 4).
var echoFields = []packet.Field{
	{Name: "Identifier", Alias: "id", Type: data.Uint16Type, Default: 0},
	{Name: "SequenceNumber", Alias: "seq", Type: data.Uint16Type, Default: 0},
}

func describeEcho(p *packet.Packet, desc *data.Description) {
	desc.Info = fmt.Sprintf("%s id=%s seq=%s", p.Layout().Name,
		data.Render(p.Value("Identifier")), data.Render(p.Value("SequenceNumber")))
}

var (
	// ICMPv6EchoRequest is an ICMPv6 echo request.
	ICMPv6EchoRequest = packet.MustVariant(ICMPv6, &packet.Layout{
		Name:     "ICMPv6EchoRequest",
		Fields:   echoFields,
		Describe: describeEcho,
	})

	// ICMPv6EchoReply is an ICMPv6 echo reply.
	ICMPv6EchoReply = packet.MustVariant(ICMPv6, &packet.Layout{
		Name:     "ICMPv6EchoReply",
		Fields:   echoFields,
		Describe: describeEcho,
	})
)

// ICMPv6Type is the type of ICMPv6 messages, including every variant.
var ICMPv6Type = ICMPv6.Type()

func init() {
	ICMPv6Types.MustSet(ICMPv6EchoRequestType, ICMPv6EchoRequest.Type())
	ICMPv6Types.MustSet(ICMPv6EchoReplyType, ICMPv6EchoReply.Type())

	NextHeaders.MustSet(ProtoUDP, UDPType)
	NextHeaders.MustSet(ProtoICMPv6, ICMPv6Type)
}
