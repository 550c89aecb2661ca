package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twmanifest"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/plugin"
	"github.com/yacobolo/twmanifest/internal/rule"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <class>...",
	Short: "Print the CSS generated for class names",
	Long: `Resolve class names against the manifest and print the CSS each produces.
Matcher classes (fluid-text-[16|24], rounded-large, st-[margin-top|small])
and manifest components (text-body, h1) are both accepted.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().Bool("categories", false, "Group declarations by category instead of printing CSS")
}

func runResolve(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()

	m, err := manifest.DefaultCache().Get(commandContext(cmd), manifest.FileSource{Path: opts.ManifestPath})
	if err != nil {
		return err
	}
	p := twmanifest.Assemble(m, opts, newReporter(), log)

	out := &plugin.Sheet{Base: rule.New(), Components: rule.New(), Utilities: rule.New()}
	failed := 0
	for _, class := range args {
		if err := resolveInto(out, p, class); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", class, err)
			failed++
		}
	}

	if getBoolWithFallback("categories", "resolve.categories", false) {
		writeCategories(os.Stdout, out)
	} else if err := out.WriteCSS(os.Stdout, rule.RenderOptions{Screens: screensOrDefault(opts.Screens), Theme: p.Theme()}); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d classes did not resolve", failed, len(args))
	}
	return nil
}

// resolveInto adds the rules for class to out. Static components and base
// element styles are looked up by selector when no matcher owns the class.
func resolveInto(out *plugin.Sheet, p *plugin.Plugin, class string) error {
	match, err := p.Resolve(class)
	if err == nil {
		out.Add(match)
		return nil
	}
	if !errors.Is(err, plugin.ErrNoMatcher) {
		return err
	}

	static := p.Sheet()
	for _, l := range []plugin.Layer{plugin.LayerComponents, plugin.LayerBase} {
		selector := "." + rule.EscapeClass(class)
		if l == plugin.LayerBase {
			selector = class
		}
		if v, ok := static.Layer(l).Get(selector); ok {
			out.Layer(l).Set(selector, v)
			return nil
		}
	}
	return err
}

func writeCategories(w io.Writer, sheet *plugin.Sheet) {
	var props []twmanifest.CategorizedProperty
	for _, l := range plugin.Layers {
		props = append(props, twmanifest.CategorizeRule(sheet.Layer(l))...)
	}
	groups := twmanifest.GroupByCategory(props)
	for _, cat := range twmanifest.Categories {
		group := groups[cat]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", cat)
		for _, p := range group {
			marker := ""
			if p.IsToken {
				marker = " (token)"
			}
			fmt.Fprintf(w, "  %s  %s: %s%s\n", strings.TrimSpace(p.Selector), p.Name, p.Value, marker)
		}
	}
}

func screensOrDefault(screens map[string]string) map[string]string {
	if len(screens) == 0 {
		return rule.DefaultScreens
	}
	return screens
}
