// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packet

import (
	"fmt"

	"github.com/bureau-foundation/ttdata/lib/data"
)

// flatten merges a packet chain, most derived first.
//
// Merge rules, per field:
//   - the most derived Value wins (Omit included) and is flattened with
//     its own ancestors
//   - every Template met for the field anywhere in the chain must match
//     the winning value
//   - a field constrained by templates but given no value is an error
//   - a field nothing defines stays undefined, to be filled at build
func (l *Layout) flatten(values []data.Value) (data.Value, error) {
	chain := make([]*Packet, len(values))
	for i, v := range values {
		p, ok := v.(*Packet)
		if !ok {
			return nil, fmt.Errorf("%w: %s chain holds a %T", data.ErrStructural, l.Name, v)
		}
		chain[i] = p
	}

	out := &Packet{layout: l, fields: make([]data.Data, len(l.Fields))}
	for i, f := range l.Fields {
		var chosen data.Value
		var templates []data.Template
		for _, p := range chain {
			switch d := p.fields[i].(type) {
			case nil:
			case data.Template:
				templates = append(templates, d)
			case data.Value:
				if chosen == nil {
					chosen = d
				}
			}
		}
		if chosen == nil {
			if len(templates) > 0 {
				return nil, fmt.Errorf("%w: %s.%s is constrained by %s but has no value",
					data.ErrTemplateViolation, l.Name, f.Name, templates[0])
			}
			continue
		}

		flat, err := data.FlattenChain(chosen)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", l.Name, f.Name, err)
		}
		for _, template := range templates {
			var list data.MismatchList
			if !data.Match(template, flat, &list) {
				return nil, fmt.Errorf("%w: %s.%s: %s", data.ErrTemplateViolation,
					l.Name, f.Name, list.Entries()[0].DescribeFull(nil))
			}
		}
		out.fields[i] = flat
	}
	return out, nil
}
