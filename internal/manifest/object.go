package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elliotchance/orderedmap/v3"
)

// Object is a JSON object that remembers key insertion order.
//
// Values are nil, bool, float64, string, []any or *Object. Setting an
// existing key replaces the value in place, so a later duplicate wins while
// keeping the position of the first occurrence.
type Object struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{m: orderedmap.NewOrderedMap[string, any]()}
}

// Set stores value under key.
func (o *Object) Set(key string, value any) {
	o.m.Set(key, value)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	return o.m.Get(key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.m.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for el := o.m.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order.
func (o *Object) Each(fn func(key string, value any)) {
	if o == nil {
		return
	}
	for el := o.m.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// MarshalJSON encodes the object keeping key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	var err error
	o.Each(func(key string, value any) {
		if err != nil {
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var kb, vb []byte
		if kb, err = json.Marshal(key); err != nil {
			return
		}
		if vb, err = json.Marshal(value); err != nil {
			return
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeObject reads a single JSON object from r, preserving key order at
// every nesting level.
func DecodeObject(r io.Reader) (*Object, error) {
	dec := json.NewDecoder(r)
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object at top level, got %s", TypeName(v))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", kt)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// TypeName names the JSON type of a decoded value for diagnostics.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case *Object:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
