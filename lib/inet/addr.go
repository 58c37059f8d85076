// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inet

import (
	"fmt"
	"net/netip"

	"github.com/bureau-foundation/ttdata/lib/binslice"
	"github.com/bureau-foundation/ttdata/lib/data"
)

// AddrType is a 128-bit IPv6 address. IPv4 addresses are accepted and
// stored in their IPv4-mapped form.
var AddrType = data.MustRegister(data.TypeSpec{
	Name:   "ip6addr",
	Coerce: coerceAddr,
	Build: func(_ *data.Builder, v data.Value) (data.Value, binslice.Bits, error) {
		raw := v.(*Addr).addr.As16()
		return v, binslice.Bytes(raw[:]), nil
	},
	Decode: func(_ *data.Decoder, t *data.Type, s binslice.Slice) (data.Value, binslice.Slice, error) {
		head, rest, err := s.Take(16)
		if err != nil {
			return nil, s, err
		}
		return &Addr{addr: netip.AddrFrom16([16]byte(head.Raw()))}, rest, nil
	},
})

// Addr is an IPv6 address value.
type Addr struct {
	data.Node
	addr netip.Addr
}

// NewAddr returns the address value for a.
func NewAddr(a netip.Addr) *Addr {
	return &Addr{addr: netip.AddrFrom16(a.As16())}
}

func coerceAddr(t *data.Type, raw any) (data.Value, error) {
	switch v := raw.(type) {
	case netip.Addr:
		if !v.IsValid() {
			return nil, fmt.Errorf("%w: invalid address", data.ErrBadConversion)
		}
		return NewAddr(v), nil
	case [16]byte:
		return NewAddr(netip.AddrFrom16(v)), nil
	case string:
		a, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", data.ErrBadConversion, err)
		}
		return NewAddr(a), nil
	case *data.Str:
		return coerceAddr(t, v.Text())
	}
	return nil, fmt.Errorf("%w: cannot convert %T to %s", data.ErrBadConversion, raw, t)
}

func (a *Addr) Type() *data.Type { return AddrType }

// Addr returns the address. IPv4-mapped addresses are unmapped.
func (a *Addr) Addr() netip.Addr { return a.addr.Unmap() }

func (a *Addr) MatchSelf(value data.Value, _ *data.MismatchList) bool {
	other, ok := value.(*Addr)
	return ok && other.addr == a.addr
}

func (a *Addr) FlatSelf() bool { return true }

func (a *Addr) Equal(other data.Value) bool {
	o, ok := other.(*Addr)
	return ok && o.addr == a.addr
}

func (a *Addr) String() string { return a.Addr().String() }

// Key returns the address for use as a table key.
func (a *Addr) Key() any { return a.addr }

// PrefixTemplate matches addresses inside a prefix.
type PrefixTemplate struct {
	data.TemplateNode
	Prefix netip.Prefix
}

// Prefix returns a template accepting addresses in p.
func Prefix(p netip.Prefix) *PrefixTemplate {
	return &PrefixTemplate{TemplateNode: data.NewTemplateNode(AddrType), Prefix: p.Masked()}
}

func (p *PrefixTemplate) TemplateMatch(value data.Value) bool {
	a, ok := value.(*Addr)
	return ok && p.Prefix.Contains(a.Addr())
}

func (p *PrefixTemplate) String() string { return "Prefix(" + p.Prefix.String() + ")" }
