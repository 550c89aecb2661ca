// Package manifest loads design-tool manifests and normalizes their keys
// into CSS tokens.
//
// A manifest is a JSON document keyed by domain:
//
//	{
//	  "Typography": { "Heading 1/Desktop": { "fontSize": 48, ... } },
//	  "Color":      { "Brand/Primary": "#112233" },
//	  "Sizing":     { "Space/Large Gap": { "mobile": 24, "desktop": 40 } }
//	}
//
// Documents are decoded into insertion-ordered objects so that generated
// output follows manifest order.
package manifest

import (
	"bytes"
	"fmt"
	"io"
)

// SectionKey names a top-level manifest domain.
type SectionKey string

// Manifest sections.
const (
	SectionTypography SectionKey = "Typography"
	SectionColor      SectionKey = "Color"
	SectionSizing     SectionKey = "Sizing"
)

// Manifest is a parsed design manifest. It is read-only after parsing.
type Manifest struct {
	// Origin describes where the manifest came from (a path or "memory").
	Origin string
	root   *Object
}

// New wraps an already decoded root object.
func New(origin string, root *Object) *Manifest {
	if root == nil {
		root = NewObject()
	}
	return &Manifest{Origin: origin, root: root}
}

// Parse decodes a manifest document.
func Parse(r io.Reader, origin string) (*Manifest, error) {
	root, err := DecodeObject(r)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", origin, err)
	}
	return New(origin, root), nil
}

// ParseBytes decodes a manifest held in memory.
func ParseBytes(data []byte, origin string) (*Manifest, error) {
	return Parse(bytes.NewReader(data), origin)
}

// Section returns the raw value stored under a top-level key.
func (m *Manifest) Section(key SectionKey) (any, bool) {
	if m == nil {
		return nil, false
	}
	return m.root.Get(string(key))
}

// Root returns the top-level object.
func (m *Manifest) Root() *Object {
	return m.root
}
