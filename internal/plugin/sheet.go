package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yacobolo/twmanifest/internal/rule"
)

// Sheet is the set of rules to emit, one rule object per layer.
type Sheet struct {
	Base       *rule.Rule
	Components *rule.Rule
	Utilities  *rule.Rule
}

// Layer returns the rule object for l.
func (s *Sheet) Layer(l Layer) *rule.Rule {
	switch l {
	case LayerBase:
		return s.Base
	case LayerComponents:
		return s.Components
	default:
		return s.Utilities
	}
}

// Add appends a resolved match to its layer.
func (s *Sheet) Add(m *Match) {
	mergeSelectors(s.Layer(m.Layer), m.Rule)
}

// Len returns the number of selectors across layers.
func (s *Sheet) Len() int {
	return s.Base.Len() + s.Components.Len() + s.Utilities.Len()
}

// LayerCSS renders one layer without the @layer wrapper.
func (s *Sheet) LayerCSS(l Layer, opts rule.RenderOptions) (string, error) {
	var sb strings.Builder
	if err := rule.Render(&sb, "", s.Layer(l), opts); err != nil {
		return "", fmt.Errorf("render %s layer: %w", l, err)
	}
	return sb.String(), nil
}

// WriteCSS writes every non-empty layer wrapped in "@layer <name>".
func (s *Sheet) WriteCSS(w io.Writer, opts rule.RenderOptions) error {
	for _, l := range Layers {
		r := s.Layer(l)
		if r.Len() == 0 {
			continue
		}
		if err := rule.Render(w, string(l), r, opts); err != nil {
			return fmt.Errorf("render %s layer: %w", l, err)
		}
	}
	return nil
}

// MarshalJSON encodes the sheet as {"base": ..., "components": ..., "utilities": ...}.
func (s *Sheet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rule.New().
		Set(string(LayerBase), s.Base).
		Set(string(LayerComponents), s.Components).
		Set(string(LayerUtilities), s.Utilities))
}
