// Package rule models CSS rule objects the way Tailwind plugins express
// them: ordered maps from selectors or property names to primitive values or
// nested rule objects, with "@screen <name>" keys for breakpoint overrides.
package rule

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// ScreenKey returns the nested key used for a breakpoint override.
func ScreenKey(screen string) string {
	return "@screen " + screen
}

// Entry is a single key/value pair of a Rule.
type Entry struct {
	Key   string
	Value any
}

// Rule is an insertion-ordered CSS rule object.
//
// Values are string, float64, int, bool or *Rule. Setting an existing key
// replaces its value and keeps its position, which gives JavaScript object
// spread semantics to Merge.
type Rule struct {
	m *orderedmap.OrderedMap[string, any]
}

// New returns an empty rule.
func New() *Rule {
	return &Rule{m: orderedmap.NewOrderedMap[string, any]()}
}

// Set stores value under key and returns r for chaining.
func (r *Rule) Set(key string, value any) *Rule {
	r.m.Set(key, value)
	return r
}

// Get returns the value under key.
func (r *Rule) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	return r.m.Get(key)
}

// Has reports whether key is present.
func (r *Rule) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key.
func (r *Rule) Delete(key string) {
	r.m.Delete(key)
}

// Child returns the nested rule under key, creating it when absent or when
// the current value is not a rule.
func (r *Rule) Child(key string) *Rule {
	if v, ok := r.Get(key); ok {
		if child, ok := v.(*Rule); ok {
			return child
		}
	}
	child := New()
	r.Set(key, child)
	return child
}

// Len returns the number of entries.
func (r *Rule) Len() int {
	if r == nil {
		return 0
	}
	return r.m.Len()
}

// Keys returns keys in order.
func (r *Rule) Keys() []string {
	entries := r.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a snapshot of the entries in order.
func (r *Rule) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, r.m.Len())
	for el := r.m.Front(); el != nil; el = el.Next() {
		out = append(out, Entry{Key: el.Key, Value: el.Value})
	}
	return out
}

// Merge copies every entry of o into r (shallow, later wins).
func (r *Rule) Merge(o *Rule) *Rule {
	for _, e := range o.Entries() {
		r.Set(e.Key, e.Value)
	}
	return r
}

// Clone returns a deep copy.
func (r *Rule) Clone() *Rule {
	out := New()
	for _, e := range r.Entries() {
		if child, ok := e.Value.(*Rule); ok {
			out.Set(e.Key, child.Clone())
			continue
		}
		out.Set(e.Key, e.Value)
	}
	return out
}

// Without returns a shallow copy of r minus the given keys.
func (r *Rule) Without(keys ...string) *Rule {
	skip := make(map[string]bool, len(keys))
	for _, k := range keys {
		skip[k] = true
	}
	out := New()
	for _, e := range r.Entries() {
		if !skip[e.Key] {
			out.Set(e.Key, e.Value)
		}
	}
	return out
}

// SetPath stores value at a dot separated path, creating intermediate rules.
func (r *Rule) SetPath(path string, value any) {
	parts := strings.Split(path, ".")
	cur := r
	for _, p := range parts[:len(parts)-1] {
		cur = cur.Child(p)
	}
	cur.Set(parts[len(parts)-1], value)
}

// Lookup resolves a dot separated path.
func (r *Rule) Lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = r
	for _, p := range parts {
		rr, ok := cur.(*Rule)
		if !ok {
			return nil, false
		}
		if cur, ok = rr.Get(p); !ok {
			return nil, false
		}
	}
	return cur, true
}

// MarshalJSON encodes the rule keeping key order.
func (r *Rule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
