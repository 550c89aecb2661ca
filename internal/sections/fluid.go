package sections

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

// FluidComponent is an arbitrary-value fluid class and the properties it sets.
type FluidComponent struct {
	Name       string
	Properties []string
}

// FluidComponents take "[mobile|desktop]" pixel pairs, e.g. fluid-text-[16|24].
var FluidComponents = []FluidComponent{
	{"fluid-text", []string{"fontSize"}},
	{"fluid-line-height", []string{"lineHeight"}},
	{"fluid-gap", []string{"gap"}},
	{"fluid-pl", []string{"paddingLeft"}},
	{"fluid-pr", []string{"paddingRight"}},
	{"fluid-pb", []string{"paddingBottom"}},
	{"fluid-pt", []string{"paddingTop"}},
	{"fluid-ml", []string{"marginLeft"}},
	{"fluid-mr", []string{"marginRight"}},
	{"fluid-mb", []string{"marginBottom"}},
	{"fluid-mt", []string{"marginTop"}},
	{"fluid-inset", []string{"inset"}},
	{"fluid-top", []string{"top"}},
	{"fluid-right", []string{"right"}},
	{"fluid-bottom", []string{"bottom"}},
	{"fluid-left", []string{"left"}},
	{"fluid-size", []string{"width", "height"}},
	{"fluid-w", []string{"width"}},
	{"fluid-h", []string{"height"}},
}

// ParseFluidPair reads "mobile|desktop". Zero, missing and non-numeric
// sizes are rejected.
func ParseFluidPair(s string) (mobile, desktop float64, err error) {
	parts := splitNonEmpty(s, "|")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: want [mobile|desktop], got %q", units.ErrInvalidSize, s)
	}
	mobile, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	desktop, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || mobile == 0 || desktop == 0 {
		return 0, 0, fmt.Errorf("%w: want two non-zero numbers, got %q", units.ErrInvalidSize, s)
	}
	return mobile, desktop, nil
}

func fluidMatcher(mode units.FluidMode, props ...string) plugin.MatchFunc {
	return func(value any) (*rule.Rule, error) {
		s, _ := value.(string)
		m, d, err := ParseFluidPair(s)
		if err != nil {
			return nil, err
		}
		size, err := units.FluidSize(m, d, mode)
		if err != nil {
			return nil, err
		}
		out := rule.New()
		for _, p := range props {
			out.Set(p, size)
		}
		return out, nil
	}
}

// AddFluidHelper registers the fluid-* component matchers.
func AddFluidHelper(env *Env) {
	for _, c := range FluidComponents {
		env.Plugin.MatchComponent(c.Name, fluidMatcher(env.Options.Fluid, c.Properties...), nil)
	}
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
