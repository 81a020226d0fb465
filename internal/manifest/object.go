package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Object is a JSON object that remembers the order of its keys, so a
// document can be rewritten without reshuffling it.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// ParseObject decodes a JSON object, keeping key order. Duplicate keys keep
// their first position and their last value.
func ParseObject(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}

	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading JSON key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading value of %q: %w", key, err)
		}
		obj.setRaw(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}

	return obj, nil
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Get returns the raw JSON value stored under key.
func (o *Object) Get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// GetString returns the string stored under key. ok is false when the key is
// missing or holds a non-string value.
func (o *Object) GetString(key string) (string, bool) {
	raw, found := o.values[key]
	if !found {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// GetObject returns the nested object stored under key.
func (o *Object) GetObject(key string) (*Object, bool, error) {
	raw, found := o.values[key]
	if !found {
		return nil, false, nil
	}
	obj, err := ParseObject(raw)
	if err != nil {
		return nil, true, fmt.Errorf("field %q: %w", key, err)
	}
	return obj, true, nil
}

// Set stores v under key. Existing keys keep their position; new keys are
// appended.
func (o *Object) Set(key string, v any) error {
	var raw []byte
	switch val := v.(type) {
	case *Object:
		b, err := val.MarshalJSON()
		if err != nil {
			return err
		}
		raw = b
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding %q: %w", key, err)
		}
		raw = bytes.TrimRight(buf.Bytes(), "\n")
	}
	o.setRaw(key, raw)
	return nil
}

func (o *Object) setRaw(key string, raw json.RawMessage) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// MarshalJSON encodes the object compactly, in key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return o.marshal("", "")
}

// MarshalIndent encodes the object with the given indent, in key order.
func (o *Object) MarshalIndent(indent string) ([]byte, error) {
	return o.marshal("", indent)
}

func (o *Object) marshal(prefix, indent string) ([]byte, error) {
	if len(o.keys) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if indent != "" {
			buf.WriteByte('\n')
			buf.WriteString(prefix + indent)
		}

		var kb bytes.Buffer
		enc := json.NewEncoder(&kb)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		buf.Write(bytes.TrimRight(kb.Bytes(), "\n"))
		buf.WriteByte(':')

		if indent == "" {
			if err := json.Compact(&buf, o.values[key]); err != nil {
				return nil, fmt.Errorf("encoding %q: %w", key, err)
			}
			continue
		}
		buf.WriteByte(' ')
		if err := json.Indent(&buf, o.values[key], prefix+indent, indent); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", key, err)
		}
	}
	if indent != "" {
		buf.WriteByte('\n')
		buf.WriteString(prefix)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
