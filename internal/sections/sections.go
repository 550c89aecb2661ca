// Package sections validates manifest sections and turns them into plugin
// registrations.
//
// Every section follows the same policy: a Parse function validates the
// raw subtree and returns either a typed result or an error that lists every
// problem found; the matching Add function reports that error as one
// diagnostic and registers nothing for the section. One malformed section
// never stops the others.
package sections

import (
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/units"
)

// Breakpoint names used for mobile and desktop values.
const (
	ScreenMobile  = "sm"
	ScreenDesktop = "lg"
)

// Options carries the user configuration the generators depend on.
type Options struct {
	Fluid units.FluidMode
	// FontMapping maps manifest font family names to semantic roles.
	FontMapping map[string]string
	// FontWeightMapping maps a role to font style names and weights.
	FontWeightMapping map[string]map[string]float64
	// ButtonTypename selects the typography style buttons inherit.
	ButtonTypename  string
	ColorGroupStyle ColorGroupStyle
}

// Env is what a section handler writes to.
type Env struct {
	Plugin   *plugin.Plugin
	Reporter *diag.Reporter
	Log      *zap.Logger
	Options  Options
}

func (e *Env) logger(name string) *zap.Logger {
	return diag.OrNop(e.Log).Named(name)
}

func (e *Env) fail(section, title string, err error) {
	e.logger(section).Debug("section skipped", zap.Error(err))
	e.Reporter.Error(section, title, err)
}

func (e *Env) warn(section, title, msg string) {
	e.Reporter.Warn(section, title, msg)
}

func (e *Env) reportCollisions(section string, collisions []manifest.Collision) {
	for _, c := range collisions {
		e.warn(section, "Token collision", c.String())
	}
}

// desktopOverride nests r under the desktop breakpoint.
func desktopOverride(r *rule.Rule) *rule.Rule {
	return rule.New().Set(rule.ScreenKey(ScreenDesktop), r)
}
