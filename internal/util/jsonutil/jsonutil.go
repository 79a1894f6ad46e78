package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmpty = errors.New("jsonutil: empty payload")

// StripCodeFence removes a surrounding markdown code fence (```json ... ```)
// that models sometimes add despite a JSON response mode.
func StripCodeFence(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = s[3:]
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		s = s[nl+1:]
	} else {
		return bytes.TrimSpace(bytes.TrimSuffix(s, []byte("```")))
	}
	s = bytes.TrimSpace(s)
	s = bytes.TrimSuffix(s, []byte("```"))
	return bytes.TrimSpace(s)
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnescapeUnicodeString converts JSON unicode escapes like "\u003e" into actual characters.
func UnescapeUnicodeString(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}
	// let JSON decode the escapes; stray backslashes make this fail
	esc := strings.ReplaceAll(s, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

// NormalizeJSON parses raw and returns a canonical encoding. A payload that is
// itself a JSON string holding JSON (double-encoded) is unwrapped once, and
// double-escaped unicode sequences inside string values are unescaped.
func NormalizeJSON(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return nil, err
	}
	if s, ok := anyVal.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			anyVal = inner
		}
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// 1) strip a code fence and unmarshal directly
// 2) normalize and unmarshal
func UnmarshalFlex(raw []byte, v any) error {
	raw = StripCodeFence(raw)
	if len(raw) == 0 {
		return ErrEmpty
	}
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	norm, nerr := NormalizeJSON(raw)
	if nerr != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// deepUnescape recursively traverses maps and slices,
// unescaping unicode sequences in all string values.
func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
