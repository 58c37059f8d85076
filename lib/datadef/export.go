// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package datadef

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/ttdata/lib/codec"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/packet"
)

// Export renders a flat value as a definition tree that [FromTree]
// turns back into an equal value. Scalars whose type is implied by
// their field are written bare; anything else carries its type name.
func Export(v data.Value) (any, error) {
	if v == nil {
		return nil, fail("$", "nothing to export")
	}
	if !data.IsFlat(v) {
		return nil, fail("$", "%w: only flat values can be exported", data.ErrStructural)
	}
	return export(v, nil, "$")
}

// MarshalJSON exports v as indented JSON.
func MarshalJSON(v data.Value) ([]byte, error) {
	tree, err := Export(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}

// MarshalCBOR exports v as deterministic CBOR.
func MarshalCBOR(v data.Value) ([]byte, error) {
	tree, err := Export(v)
	if err != nil {
		return nil, err
	}
	return codec.Marshal(tree)
}

func export(d data.Data, expected *data.Type, path string) (any, error) {
	if d == nil {
		return nil, nil
	}
	if data.IsOmit(d) {
		return map[string]any{"omit": true}, nil
	}
	switch v := d.(type) {
	case *packet.Packet:
		return exportPacket(v, path)
	case *packet.List:
		items := make([]any, v.Len())
		for i, item := range v.Items() {
			tree, err := export(item, v.Elem(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			items[i] = tree
		}
		if expected == v.Type() {
			return items, nil
		}
		// A bare array cannot name its element type.
		return nil, fail(path, "%s outside a list-typed field", v.Type())
	case data.Template:
		return nil, fail(path, "%w: templates cannot be exported", data.ErrUnsupported)
	case *data.Bytes:
		obj := map[string]any{"hex": hex.EncodeToString(v.Bytes())}
		if v.Type() != data.BytesType && v.Type() != expected {
			obj["type"] = v.Type().Name()
		}
		return obj, nil
	}

	var scalar any
	canonical := false
	switch v := d.(type) {
	case *data.Int:
		scalar, canonical = v.Int64(), v.Type() == data.IntType
	case *data.Str:
		scalar, canonical = v.Text(), v.Type() == data.StrType
	case *data.Bool:
		scalar, canonical = v.Bool(), v.Type() == data.BoolType
	default:
		scalar = data.Render(d)
	}
	if d.Type() == expected || (expected == nil && canonical) {
		return scalar, nil
	}
	return map[string]any{"type": d.Type().Name(), "value": scalar}, nil
}

func exportPacket(p *packet.Packet, path string) (any, error) {
	obj := map[string]any{"type": p.Type().Name()}
	fields := make(map[string]any)
	for _, f := range p.Layout().Fields {
		d, err := p.Get(f.Name)
		if err != nil {
			return nil, wrap(path, err)
		}
		if d == nil {
			continue
		}
		if f.Payload {
			payload, err := export(d, nil, path+".payload")
			if err != nil {
				return nil, err
			}
			obj["payload"] = payload
			continue
		}
		tree, err := export(d, f.Type, path+".fields."+f.Name)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = tree
	}
	if len(fields) > 0 {
		obj["fields"] = fields
	}
	return obj, nil
}
