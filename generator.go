package twmanifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
)

// ErrInvalidOutput means the generated stylesheet did not parse.
var ErrInvalidOutput = errors.New("generated CSS is invalid")

// BuildConfig configures one build.
type BuildConfig struct {
	Source manifest.Source
	// Cache defaults to manifest.DefaultCache().
	Cache   *manifest.Cache
	Options Options
	// Content globs are scanned for class candidates. Without content every
	// token of every value-bound matcher is emitted.
	Content []string

	// Output paths; an empty path skips that file.
	ThemeOutput string
	CSSOutput   string

	Reporter *diag.Reporter
	Logger   *zap.Logger
}

// BuildResult describes a finished build.
type BuildResult struct {
	Manifest   string
	Matchers   int
	Candidates int
	Resolved   int
	// Skipped holds candidates a matcher rejected.
	Skipped []string

	Layers     map[plugin.Layer]rule.Summary
	Categories map[PropertyCategory]int

	Theme *rule.Rule
	CSS   []byte

	Diagnostics []diag.Diagnostic
	Written     []string
}

// ErrorCount returns the number of error diagnostics.
func (r *BuildResult) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			n++
		}
	}
	return n
}

// Build loads the manifest, generates the theme and stylesheet, verifies the
// CSS and writes the configured outputs.
func Build(ctx context.Context, cfg BuildConfig) (*BuildResult, error) {
	log := diag.OrNop(cfg.Logger)
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = diag.NewReporter(nil, false)
	}

	m, err := loadManifest(ctx, cfg.Source, cfg.Cache, reporter)
	if err != nil {
		return nil, err
	}

	// 1. Register sections
	p := Assemble(m, cfg.Options, reporter, log)
	sheet := p.Sheet()
	result := &BuildResult{
		Manifest: m.Origin,
		Matchers: len(p.Matchers()),
		Theme:    p.Theme(),
		Layers:   make(map[plugin.Layer]rule.Summary, len(plugin.Layers)),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Resolve class candidates
	if len(cfg.Content) > 0 {
		cands, stats, err := Scan(cfg.Content)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		classes := UniqueClasses(cands)
		result.Candidates = len(classes)
		log.Debug("content scanned",
			zap.Int("files", stats.FilesScanned),
			zap.Int("skipped", stats.FilesSkipped),
			zap.Int("classes", len(classes)))

		for _, class := range classes {
			match, err := p.Resolve(class)
			if errors.Is(err, plugin.ErrNoMatcher) {
				continue
			}
			if err != nil {
				result.Skipped = append(result.Skipped, class)
				log.Debug("candidate rejected", zap.String("class", class), zap.Error(err))
				continue
			}
			sheet.Add(match)
			result.Resolved++
		}
	} else {
		matches, err := p.Expand()
		for _, e := range multierr.Errors(err) {
			log.Warn("token skipped", zap.Error(e))
		}
		for _, match := range matches {
			sheet.Add(match)
		}
		result.Resolved = len(matches)
	}

	// 3. Render and verify
	opts := cfg.Options.renderOptions(p.Theme())
	var props []CategorizedProperty
	for _, l := range plugin.Layers {
		css, err := sheet.LayerCSS(l, opts)
		if err != nil {
			return nil, err
		}
		sum, err := rule.Inspect(css)
		if err != nil {
			return nil, fmt.Errorf("%w: %s layer: %w", ErrInvalidOutput, l, err)
		}
		result.Layers[l] = sum
		props = append(props, CategorizeRule(sheet.Layer(l))...)
	}
	result.Categories = CountByCategory(props)

	var css bytes.Buffer
	if err := sheet.WriteCSS(&css, opts); err != nil {
		return nil, err
	}
	result.CSS = css.Bytes()

	// 4. Write outputs
	if cfg.ThemeOutput != "" {
		data, err := json.MarshalIndent(p.Theme(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode theme: %w", err)
		}
		if err := writeFile(cfg.ThemeOutput, append(data, '\n')); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, cfg.ThemeOutput)
	}
	if cfg.CSSOutput != "" {
		if err := writeFile(cfg.CSSOutput, result.CSS); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, cfg.CSSOutput)
	}

	result.Diagnostics = reporter.Diagnostics()
	log.Info("build complete",
		zap.String("manifest", m.Origin),
		zap.Int("selectors", sheet.Len()),
		zap.Int("resolved", result.Resolved),
		zap.Int("diagnostics", len(result.Diagnostics)))
	return result, nil
}

// loadManifest reads the manifest through the cache. A missing manifest is
// reported once and returned wrapped.
func loadManifest(ctx context.Context, src manifest.Source, cache *manifest.Cache, reporter *diag.Reporter) (*manifest.Manifest, error) {
	if src == nil {
		err := fmt.Errorf("%w: no manifest source configured", manifest.ErrManifestNotFound)
		reporter.Error("manifest", "Manifest File Error", err)
		return nil, err
	}
	if cache == nil {
		cache = manifest.DefaultCache()
	}

	m, err := cache.Get(ctx, src)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, manifest.ErrManifestNotFound):
		reporter.Error("manifest", "Manifest File Error", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		reporter.Error("manifest", "Manifest Parse Error", err)
	}
	return nil, fmt.Errorf("load manifest: %w", err)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
