package tour

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic JSON for catalog fingerprinting.
// This is the only serialization used for identity computation.
//
// Differences from standard json.Marshal:
//  1. Object keys sorted lexicographically (all catalog keys are ASCII)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Optional fields are omitted entirely when empty, never emitted as null
//
// Catalogs hold only strings, booleans, integers, arrays, and objects, so
// floats and nulls are rejected outright.
func MarshalCanonical(v any) ([]byte, error) {
	return marshalCanonical(v)
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(val)
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("object key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalCanonicalString encodes a string with NFC normalization and without
// HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

// canonicalMap converts a Definition to the map form consumed by
// MarshalCanonical. Empty optional fields are omitted.
func (d Definition) canonicalMap() map[string]any {
	m := map[string]any{
		"id":          d.ID,
		"name":        d.Name,
		"description": d.Description,
	}
	if d.Page != "" {
		m["page"] = d.Page
	}
	if len(d.UserRoles) > 0 {
		roles := make([]any, len(d.UserRoles))
		for i, r := range d.UserRoles {
			roles[i] = r
		}
		m["user_roles"] = roles
	}
	steps := make([]any, len(d.Steps))
	for i, s := range d.Steps {
		steps[i] = s.canonicalMap()
	}
	m["steps"] = steps
	return m
}

func (s Step) canonicalMap() map[string]any {
	m := map[string]any{
		"id":        s.ID,
		"title":     s.Title,
		"content":   s.Content,
		"target":    s.Target,
		"placement": string(s.Placement),
	}
	if s.NextButton != "" {
		m["next_button"] = s.NextButton
	}
	if s.PrevButton != "" {
		m["prev_button"] = s.PrevButton
	}
	if s.ShowSkip {
		m["show_skip"] = true
	}
	if s.OnNext != "" {
		m["on_next"] = s.OnNext
	}
	if s.OnPrev != "" {
		m["on_prev"] = s.OnPrev
	}
	if s.OnSkip != "" {
		m["on_skip"] = s.OnSkip
	}
	return m
}
