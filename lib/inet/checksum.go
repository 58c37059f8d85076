// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inet

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/packet"
)

// Checksum computes the RFC 1071 internet checksum of b.
func Checksum(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(b[i])<<8 | uint32(b[i+1])
	}
	if len(b)%2 == 1 {
		sum += uint32(b[len(b)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return ^uint16(sum)
}

// pseudoHeader returns the IPv6 pseudo-header (RFC 8200 section 8.1)
// for an upper-layer packet of length bytes.
func pseudoHeader(src, dst netip.Addr, length int, next uint8) []byte {
	out := make([]byte, 40)
	s, d := src.As16(), dst.As16()
	copy(out[0:16], s[:])
	copy(out[16:32], d[:])
	binary.BigEndian.PutUint32(out[32:36], uint32(length))
	out[39] = next
	return out
}

// completeChecksum fills an undefined checksum field of an upper-layer
// packet from the enclosing IPv6 header. Without one the checksum is
// zero. A computed zero is sent as 0xffff.
func completeChecksum(s *packet.BuildState, field string, next uint8) error {
	if !s.Undefined(field) {
		return nil
	}
	if err := s.Set(field, 0); err != nil {
		return err
	}
	ip, ok := s.Builder.Enclosing(IPv6Type).(*packet.Packet)
	if !ok {
		return nil
	}
	src, srcOK := ip.Value("Src").(*Addr)
	dst, dstOK := ip.Value("Dst").(*Addr)
	if !srcOK || !dstOK {
		return fmt.Errorf("%w: enclosing IPv6 header has no addresses", data.ErrStructural)
	}
	encoded, err := s.Encode()
	if err != nil {
		return err
	}
	sum := Checksum(append(pseudoHeader(src.addr, dst.addr, len(encoded), next), encoded...))
	if sum == 0 {
		sum = 0xffff
	}
	return s.Set(field, sum)
}
