// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package datadef

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/netip"
	"os"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/ttdata/lib/codec"
	"github.com/bureau-foundation/ttdata/lib/data"
	"github.com/bureau-foundation/ttdata/lib/inet"
	"github.com/bureau-foundation/ttdata/lib/packet"
	"github.com/bureau-foundation/ttdata/lib/templates"
)

// ErrInvalid matches every [*Error] under errors.Is.
var ErrInvalid = errors.New("datadef: invalid definition")

// Error reports a definition node that could not be turned into data.
// Path locates the node, starting from "$" for the root.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("definition %s: %v", e.Path, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is [ErrInvalid].
func (e *Error) Is(target error) bool { return target == ErrInvalid }

func fail(path string, format string, args ...any) error {
	return &Error{Path: path, Err: fmt.Errorf(format, args...)}
}

func wrap(path string, err error) error {
	var defErr *Error
	if errors.As(err, &defErr) {
		return err
	}
	return &Error{Path: path, Err: err}
}

// Parse strips JSONC comments and trailing commas from content and
// builds the data it defines.
func Parse(content []byte) (data.Data, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(content)))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("parsing definition: more than one top-level value")
	}
	return FromTree(tree)
}

// ParseCBOR builds the data defined by a CBOR-encoded tree, as written
// by [MarshalCBOR].
func ParseCBOR(content []byte) (data.Data, error) {
	var tree any
	if err := codec.Unmarshal(content, &tree); err != nil {
		return nil, fmt.Errorf("parsing CBOR definition: %w", err)
	}
	return FromTree(tree)
}

// ReadFile reads a definition file. Files ending in ".cbor" are read
// as CBOR, everything else as JSONC.
func ReadFile(path string) (data.Data, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parse := Parse
	if strings.HasSuffix(path, ".cbor") {
		parse = ParseCBOR
	}
	d, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// FromTree builds data from a decoded JSON or CBOR tree. The root must
// name its type unless it is a bare scalar.
func FromTree(tree any) (data.Data, error) {
	raw, err := node(tree, nil, "$")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fail("$", "empty definition")
	}
	if d, ok := raw.(data.Data); ok {
		return d, nil
	}
	v, err := data.Wrap(raw)
	if err != nil {
		return nil, wrap("$", err)
	}
	return v, nil
}

// node converts one tree node into a raw field input: data.Data, or a
// Go primitive left for the receiving field to coerce. target is the
// type the node will be stored as, or nil where any type is accepted.
func node(tree any, target *data.Type, path string) (any, error) {
	switch v := tree.(type) {
	case nil:
		return nil, nil
	case bool, string, []byte:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fail(path, "%s is not an integer", v)
		}
		return n, nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fail(path, "%d overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt64 {
			return nil, fail(path, "%v is not an integer", v)
		}
		return int64(v), nil
	case []any:
		return list(v, target, path)
	case map[string]any:
		return object(v, target, path)
	default:
		return nil, fail(path, "unsupported node %T", tree)
	}
}

// dataNode is node for places that need data.Data, such as template
// patterns.
func dataNode(tree any, target *data.Type, path string) (data.Data, error) {
	raw, err := node(tree, target, path)
	if err != nil {
		return nil, err
	}
	if d, ok := raw.(data.Data); ok {
		return d, nil
	}
	if target == nil {
		return nil, fail(path, "cannot tell the type of %v", raw)
	}
	d, err := data.StoreData(raw, target, false, false)
	if err != nil {
		return nil, wrap(path, err)
	}
	return d, nil
}

func list(items []any, target *data.Type, path string) (any, error) {
	if target == nil {
		return nil, fail(path, "a list needs a list-typed field")
	}
	elem, ok := packet.ElemOf(target)
	if !ok {
		return nil, fail(path, "%s is not a list type", target)
	}
	raws := make([]any, len(items))
	for i, item := range items {
		raw, err := node(item, elem, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	l, err := packet.NewList(elem, raws...)
	if err != nil {
		return nil, wrap(path, err)
	}
	return l, nil
}

func object(obj map[string]any, target *data.Type, path string) (any, error) {
	if omit, ok := obj["omit"]; ok {
		if omit != true || len(obj) != 1 {
			return nil, fail(path, `omit must be the only key and be true`)
		}
		return data.Omit, nil
	}

	t := target
	if raw, ok := obj["type"]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fail(path+".type", "type name must be a string")
		}
		resolved, err := resolveType(name)
		if err != nil {
			return nil, wrap(path+".type", err)
		}
		t = resolved
	}

	switch {
	case obj["template"] != nil:
		return template(obj, t, path)
	case obj["hex"] != nil:
		if err := checkKeys(obj, path, "hex", "type"); err != nil {
			return nil, err
		}
		text, _ := obj["hex"].(string)
		decoded, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			return nil, fail(path+".hex", "%v", err)
		}
		return typed(decoded, t, path)
	case obj["text"] != nil:
		if err := checkKeys(obj, path, "text", "type"); err != nil {
			return nil, err
		}
		text, ok := obj["text"].(string)
		if !ok {
			return nil, fail(path+".text", "text must be a string")
		}
		return typed([]byte(text), t, path)
	case obj["value"] != nil:
		if err := checkKeys(obj, path, "value", "type"); err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fail(path, "value has no type")
		}
		raw, err := node(obj["value"], t, path+".value")
		if err != nil {
			return nil, err
		}
		return typed(raw, t, path)
	}

	if t == nil {
		return nil, fail(path, "object has no type")
	}
	layout, ok := packet.LayoutOf(t)
	if !ok {
		return nil, fail(path, "%s is not a layout; use value, hex or text", t)
	}
	return packetNode(layout, obj, path)
}

// typed stores raw as t, or returns it unchanged when t is nil.
func typed(raw any, t *data.Type, path string) (any, error) {
	if t == nil {
		return raw, nil
	}
	d, err := data.StoreData(raw, t, false, false)
	if err != nil {
		return nil, wrap(path, err)
	}
	return d, nil
}

func packetNode(layout *packet.Layout, obj map[string]any, path string) (any, error) {
	if err := checkKeys(obj, path, "type", "base", "fields", "payload"); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if raw, ok := obj["fields"]; ok {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fail(path+".fields", "fields must be an object")
		}
		for name, tree := range m {
			fieldPath := path + ".fields." + name
			i, err := layout.FieldIndex(name)
			if err != nil {
				return nil, wrap(fieldPath, err)
			}
			field := layout.Fields[i]
			var fieldType *data.Type
			if !field.Payload {
				fieldType = field.Type
			}
			v, err := node(tree, fieldType, fieldPath)
			if err != nil {
				return nil, err
			}
			fields[name] = v
		}
	}

	var p *packet.Packet
	if raw, ok := obj["base"]; ok {
		base, err := node(raw, layout.Type(), path+".base")
		if err != nil {
			return nil, err
		}
		parent, ok := base.(*packet.Packet)
		if !ok || parent.Type() != layout.Type() {
			return nil, fail(path+".base", "base must be a %s", layout.Name)
		}
		if p, err = parent.With(fields); err != nil {
			return nil, wrap(path, err)
		}
	} else {
		var err error
		if p, err = packet.New(layout, fields); err != nil {
			return nil, wrap(path, err)
		}
	}

	if raw, ok := obj["payload"]; ok {
		payload, err := node(raw, nil, path+".payload")
		if err != nil {
			return nil, err
		}
		packed, err := p.WithPayload(payload)
		if err != nil {
			return nil, wrap(path+".payload", err)
		}
		return packed, nil
	}
	return p, nil
}

func template(obj map[string]any, t *data.Type, path string) (any, error) {
	kind, ok := obj["template"].(string)
	if !ok {
		return nil, fail(path+".template", "template kind must be a string")
	}
	if kind == "prefix" {
		if err := checkKeys(obj, path, "template", "type", "prefix"); err != nil {
			return nil, err
		}
		text, _ := obj["prefix"].(string)
		prefix, err := netip.ParsePrefix(text)
		if err != nil {
			return nil, fail(path+".prefix", "%v", err)
		}
		return inet.Prefix(prefix), nil
	}
	if t == nil {
		return nil, fail(path, "%s template has no type", kind)
	}

	var result data.Data
	var err error
	switch kind {
	case "any":
		if err := checkKeys(obj, path, "template", "type"); err != nil {
			return nil, err
		}
		result = templates.Any(t)
	case "range":
		if err := checkKeys(obj, path, "template", "type", "min", "max"); err != nil {
			return nil, err
		}
		low, lowErr := integer(obj, "min", path, math.MinInt64)
		high, highErr := integer(obj, "max", path, math.MaxInt64)
		if err := errors.Join(lowErr, highErr); err != nil {
			return nil, err
		}
		result, err = templates.Range(t, low, high)
	case "length":
		if err := checkKeys(obj, path, "template", "type", "min", "max"); err != nil {
			return nil, err
		}
		low, lowErr := integer(obj, "min", path, 0)
		high, highErr := integer(obj, "max", path, templates.Unbounded)
		if err := errors.Join(lowErr, highErr); err != nil {
			return nil, err
		}
		result = templates.Length(t, int(low), int(high))
	case "not":
		if err := checkKeys(obj, path, "template", "type", "pattern"); err != nil {
			return nil, err
		}
		pattern, patternErr := dataNode(obj["pattern"], t, path+".pattern")
		if patternErr != nil {
			return nil, patternErr
		}
		result, err = templates.Not(pattern)
	case "either":
		if err := checkKeys(obj, path, "template", "type", "alternatives"); err != nil {
			return nil, err
		}
		trees, ok := obj["alternatives"].([]any)
		if !ok || len(trees) == 0 {
			return nil, fail(path+".alternatives", "alternatives must be a non-empty array")
		}
		alternatives := make([]data.Data, len(trees))
		for i, tree := range trees {
			alternative, altErr := dataNode(tree, t, fmt.Sprintf("%s.alternatives[%d]", path, i))
			if altErr != nil {
				return nil, altErr
			}
			alternatives[i] = alternative
		}
		result, err = templates.Either(alternatives...)
	default:
		return nil, fail(path+".template", "unknown template kind %q", kind)
	}
	if err != nil {
		return nil, wrap(path, err)
	}
	return result, nil
}

// integer reads an optional integer key, returning fallback when the
// key is absent.
func integer(obj map[string]any, key, path string, fallback int64) (int64, error) {
	tree, ok := obj[key]
	if !ok {
		return fallback, nil
	}
	raw, err := node(tree, nil, path+"."+key)
	if err != nil {
		return 0, err
	}
	n, ok := raw.(int64)
	if !ok {
		return 0, fail(path+"."+key, "%s must be an integer", key)
	}
	return n, nil
}

func checkKeys(obj map[string]any, path string, allowed ...string) error {
	for key := range obj {
		if !slices.Contains(allowed, key) {
			return fail(path, "unexpected key %q (allowed: %s)", key, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// resolveType looks up a registered type. List types are created on
// demand from their element type, so "list[uint8]" resolves even if
// nothing has used it yet.
func resolveType(name string) (*data.Type, error) {
	if elemName, ok := strings.CutPrefix(name, "list["); ok && strings.HasSuffix(elemName, "]") {
		elem, err := resolveType(strings.TrimSuffix(elemName, "]"))
		if err != nil {
			return nil, err
		}
		return packet.ListOf(elem), nil
	}
	return data.LookupType(name)
}
