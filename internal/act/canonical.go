package act

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical byte form of an action log:
// a JSON array of envelope objects with sorted keys, NFC-normalized
// strings, and no insignificant whitespace. This is the only encoding
// content hashes are computed over.
func MarshalCanonical(log []Action) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, a := range log {
		if i > 0 {
			buf.WriteByte(',')
		}
		env, err := envelope(a)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		if err := writeCanonicalObject(&buf, env); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// envelope flattens an action into its serialized field map, kind
// included.
func envelope(a Action) (map[string]any, error) {
	switch v := a.(type) {
	case DrawCircle:
		return map[string]any{
			"kind":         string(KindCircle),
			"center":       v.CenterID,
			"radius_point": v.RadiusPointID,
		}, nil
	case DrawSegment:
		return map[string]any{
			"kind": string(KindSegment),
			"from": v.FromID,
			"to":   v.ToID,
		}, nil
	case MarkIntersection:
		env := map[string]any{
			"kind":  string(KindIntersection),
			"of_a":  v.OfA,
			"of_b":  v.OfB,
			"which": v.Which,
		}
		if v.Label != "" {
			env["label"] = v.Label
		}
		return env, nil
	case InvokeMacro:
		inputs := make([]any, len(v.InputPointIDs))
		for i, id := range v.InputPointIDs {
			inputs[i] = id
		}
		return map[string]any{
			"kind":   string(KindMacro),
			"prop":   v.PropID,
			"inputs": inputs,
		}, nil
	default:
		return nil, fmt.Errorf("unknown action type %T", a)
	}
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := writeCanonicalValue(buf, obj[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		writeCanonicalString(buf, val)
		return nil
	case int:
		buf.WriteString(strconv.Itoa(val))
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		// Floats never appear in identity material: actions are
		// structural references.
		return fmt.Errorf("type %T is not canonical-encodable", v)
	}
}

// writeCanonicalString writes an NFC-normalized, minimally escaped JSON
// string. No HTML escaping.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
