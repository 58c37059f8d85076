// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package data

import (
	"fmt"
)

// Description is a short human-readable summary of a message. Fields a
// type does not fill stay empty.
type Description struct {
	HwSrc   string `json:"hw_src,omitempty"`
	Src     string `json:"src,omitempty"`
	HwDst   string `json:"hw_dst,omitempty"`
	Dst     string `json:"dst,omitempty"`
	SrcPort string `json:"src_port,omitempty"`
	DstPort string `json:"dst_port,omitempty"`
	Info    string `json:"info,omitempty"`
}

// Summary renders "[src -> dst] info".
func (d Description) Summary() string {
	src, dst := d.Endpoints()
	return fmt.Sprintf("[%s -> %s] %s", src, dst, d.Info)
}

// Endpoints returns the network source and destination, or the
// hardware addresses when neither network address is set.
func (d Description) Endpoints() (src, dst string) {
	if d.Src == "" && d.Dst == "" {
		return d.HwSrc, d.HwDst
	}
	return d.Src, d.Dst
}

// Describe returns the description of v.
func Describe(v Value) Description {
	var desc Description
	DescribeInto(v, &desc)
	return desc
}

// DescribeInto lets v fill desc with its type's Describe hook. Types
// without a hook set Info to the type name. Layered types call it on
// their payload so inner layers can refine what outer layers wrote.
func DescribeInto(v Value, desc *Description) {
	if v == nil {
		return
	}
	if hook := v.Type().describeHook(); hook != nil {
		hook(v, desc)
		return
	}
	desc.Info = v.Type().Name()
}
