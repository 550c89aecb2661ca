package main

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/yacobolo/twmanifest"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/sections"
	"github.com/yacobolo/twmanifest/internal/units"
)

const (
	defaultConfigPath   = ".twmanifest.yaml"
	defaultManifestPath = "design.manifest.json"
	defaultThemeOutput  = "tailwind/theme.json"
	defaultCSSOutput    = "tailwind/manifest.css"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Only flags that were explicitly set override file and env values;
	// defaults live in the getters below.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", nil), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("TWMANIFEST_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps TWMANIFEST_FLUID_TYPOGRAPHY to fluid-typography and
// TWMANIFEST_OUTPUT__CSS to output.css.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "TWMANIFEST_"))
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ReplaceAll(s, "_", "-")
}

// buildOptions constructs the library Options from koanf state.
func buildOptions() (twmanifest.Options, error) {
	opts := twmanifest.DefaultOptions()
	opts.ManifestPath = getStringWithFallback("manifest", "manifest", defaultManifestPath)
	opts.Typography = getBoolWithFallback("typography", "typography", true)
	opts.Colors = getBoolWithFallback("colors", "colors", true)
	opts.Sizing = getBoolWithFallback("sizing", "sizing", true)
	opts.Buttons = getBoolWithFallback("buttons", "buttons", true)

	mode, err := units.ParseFluidMode(getStringWithFallback("fluid-typography", "fluid-typography", units.FluidOn.String()))
	if err != nil {
		return opts, err
	}
	opts.FluidTypography = mode

	opts.ButtonTypename = getStringWithFallback("button-typename", "button-typename", sections.ButtonTypeBody)
	if opts.ButtonTypename != sections.ButtonTypeBody && opts.ButtonTypename != sections.ButtonTypeUtility {
		return opts, fmt.Errorf("button-typename must be %s or %s, got %q",
			sections.ButtonTypeBody, sections.ButtonTypeUtility, opts.ButtonTypename)
	}

	style, err := sections.ParseColorGroupStyle(getStringWithFallback("color-group-style", "color-group-style", ""))
	if err != nil {
		return opts, err
	}
	opts.ColorGroupStyle = style

	if m := k.StringMap("font-mapping"); len(m) > 0 {
		if err := validateFontMapping(m); err != nil {
			return opts, err
		}
		opts.FontMapping = m
	}
	if k.Exists("font-weight-mapping") {
		weights := make(map[string]map[string]float64)
		if err := k.Unmarshal("font-weight-mapping", &weights); err != nil {
			return opts, fmt.Errorf("font-weight-mapping: %w", err)
		}
		opts.FontWeightMapping = weights
	}
	if screens := k.StringMap("screens"); len(screens) > 0 {
		opts.Screens = screens
	}
	return opts, nil
}

// validateFontMapping rejects roles outside twmanifest.FontRoles.
func validateFontMapping(m map[string]string) error {
	families := make([]string, 0, len(m))
	for family := range m {
		families = append(families, family)
	}
	sort.Strings(families)
	for _, family := range families {
		if !slices.Contains(twmanifest.FontRoles, m[family]) {
			return fmt.Errorf("font-mapping: %q maps to unknown role %q (want one of %s)",
				family, m[family], strings.Join(twmanifest.FontRoles, ", "))
		}
	}
	return nil
}

// buildBuildConfig constructs the library BuildConfig from koanf state.
func buildBuildConfig() (twmanifest.BuildConfig, error) {
	opts, err := buildOptions()
	if err != nil {
		return twmanifest.BuildConfig{}, err
	}
	return twmanifest.BuildConfig{
		Source:      manifest.FileSource{Path: opts.ManifestPath},
		Options:     opts,
		Content:     getStringsWithFallback("content", "content", nil),
		ThemeOutput: getStringWithFallback("theme-output", "output.theme", defaultThemeOutput),
		CSSOutput:   getStringWithFallback("css-output", "output.css", defaultCSSOutput),
	}, nil
}

// buildLintConfig constructs the library LintConfig from koanf state. Lint
// paths default to the build content globs.
func buildLintConfig() (twmanifest.LintConfig, error) {
	opts, err := buildOptions()
	if err != nil {
		return twmanifest.LintConfig{}, err
	}
	return twmanifest.LintConfig{
		Source:             manifest.FileSource{Path: opts.ManifestPath},
		Options:            opts,
		ScanPaths:          getStringsWithFallback("paths", "lint.paths", getStringsWithFallback("content", "content", nil)),
		Strict:             getBoolWithFallback("strict", "lint.strict", false),
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "lint.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "lint.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "lint.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "lint.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
	}, nil
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback is getStringWithFallback for lists.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
