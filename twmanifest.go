// Package twmanifest turns a design-tool manifest into Tailwind CSS inputs.
//
// A manifest holds the Typography, Color and Sizing tokens exported from a
// design tool. twmanifest validates each section, registers the generated
// base styles, components and matchers on a plugin registry, and writes the
// result as a theme file plus a layered stylesheet:
//
//	result, err := twmanifest.Build(ctx, twmanifest.BuildConfig{
//		Source:      twmanifest.FileSource{Path: "design/manifest.json"},
//		Options:     twmanifest.DefaultOptions(),
//		Content:     []string{"web/**/*.{html,templ}"},
//		ThemeOutput: "tailwind.theme.json",
//		CSSOutput:   "web/styles/manifest.css",
//	})
//
// A malformed section is reported as one diagnostic and skipped; the other
// sections still build.
//
// # Linting
//
// Lint reports class candidates in content files that a manifest matcher
// rejects, in golangci-lint format:
//
//	result, err := twmanifest.Lint(ctx, twmanifest.LintConfig{
//		Source:    twmanifest.FileSource{Path: "design/manifest.json"},
//		Options:   twmanifest.DefaultOptions(),
//		ScanPaths: []string{"web/**/*.templ"},
//	})
//
// # CLI Tool
//
//	go install github.com/yacobolo/twmanifest/cmd/twmanifest@latest
package twmanifest

import (
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
	"github.com/yacobolo/twmanifest/internal/sections"
	"github.com/yacobolo/twmanifest/internal/units"
)

// Manifest sources accepted by BuildConfig and LintConfig.
type (
	Source       = manifest.Source
	FileSource   = manifest.FileSource
	MemorySource = manifest.MemorySource
)

// ErrManifestNotFound is returned when the manifest path is empty or missing.
var ErrManifestNotFound = manifest.ErrManifestNotFound

// buttonsEnabled gates the button generator regardless of Options.Buttons.
// The generated .btn family references Theme, Utility and Primitive colors
// that are not part of every manifest.
var buttonsEnabled = false

// Options mirrors the plugin options of the manifest build.
type Options struct {
	ManifestPath string

	Typography bool
	Colors     bool
	Sizing     bool
	Buttons    bool

	// FontMapping maps manifest font families to roles (Primary, Secondary, ...).
	FontMapping map[string]string
	// FontWeightMapping maps a role to style names and numeric weights.
	FontWeightMapping map[string]map[string]float64

	FluidTypography units.FluidMode
	ButtonTypename  string
	ColorGroupStyle sections.ColorGroupStyle

	// Screens maps breakpoint names to min-widths for "@screen" rules.
	Screens map[string]string
}

// DefaultOptions returns every section enabled with fluid sizing on.
func DefaultOptions() Options {
	screens := make(map[string]string, len(rule.DefaultScreens))
	for k, v := range rule.DefaultScreens {
		screens[k] = v
	}
	return Options{
		Typography:      true,
		Colors:          true,
		Sizing:          true,
		Buttons:         true,
		FluidTypography: units.FluidOn,
		ButtonTypename:  sections.ButtonTypeBody,
		ColorGroupStyle: sections.ColorGroupFull,
		Screens:         screens,
	}
}

// FontRoles are the roles a font family may be mapped to.
var FontRoles = []string{"Primary", "Secondary", "Tertiary", "Quaternary", "Quinary", sections.HeadingRole}

func (o Options) sectionOptions() sections.Options {
	return sections.Options{
		Fluid:             o.FluidTypography,
		FontMapping:       o.FontMapping,
		FontWeightMapping: o.FontWeightMapping,
		ButtonTypename:    o.ButtonTypename,
		ColorGroupStyle:   o.ColorGroupStyle,
	}
}

func (o Options) renderOptions(theme *rule.Rule) rule.RenderOptions {
	screens := o.Screens
	if len(screens) == 0 {
		screens = rule.DefaultScreens
	}
	return rule.RenderOptions{Screens: screens, Theme: theme}
}

// Assemble registers every enabled section of m on a new plugin. Section
// failures go to reporter; Assemble itself never fails.
func Assemble(m *manifest.Manifest, opts Options, reporter *diag.Reporter, log *zap.Logger) *plugin.Plugin {
	log = diag.OrNop(log)
	p := plugin.New()
	env := &sections.Env{Plugin: p, Reporter: reporter, Log: log, Options: opts.sectionOptions()}

	typography, _ := m.Section(manifest.SectionTypography)
	sizing, _ := m.Section(manifest.SectionSizing)
	colors, _ := m.Section(manifest.SectionColor)

	sections.AddFluidHelper(env)

	if opts.Typography {
		sections.AddTypography(env, typography)
	}
	if opts.Buttons && buttonsEnabled {
		sections.AddButtons(env, sizing, typography, colors)
	}
	if opts.Sizing {
		sections.AddBorderRadius(env, sizing)
		if !opts.FluidTypography.Enabled() {
			// AddSizing below reports a broken section.
			if scale, err := sections.ParseSpacing(sizing); err == nil {
				sections.AddResponsiveSpacing(env, scale)
			}
		}
	}

	if opts.Colors {
		sections.AddColors(env, colors)
	}
	if opts.Sizing {
		sections.AddSizing(env, sizing)
	}

	log.Debug("manifest assembled",
		zap.String("manifest", m.Origin),
		zap.Int("matchers", len(p.Matchers())),
		zap.Int("diagnostics", len(reporter.Diagnostics())))
	return p
}
