package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yacobolo/twmanifest/internal/diag"
	"github.com/yacobolo/twmanifest/internal/manifest"
	"github.com/yacobolo/twmanifest/internal/sections"
	"github.com/yacobolo/twmanifest/internal/units"
)

// defaultViewports are the manifest's mobile and desktop reference widths.
var defaultViewports = []int{390, 1440}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the spacing and radius scales with resolved sizes",
	Long: `Print every spacing and border radius token with its mobile and desktop
size and the pixel value its CSS resolves to at each viewport width.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().IntSlice("viewports", defaultViewports, "Viewport widths to resolve")
}

func runTokens(cmd *cobra.Command, _ []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	m, err := manifest.DefaultCache().Get(commandContext(cmd), manifest.FileSource{Path: opts.ManifestPath})
	if err != nil {
		return err
	}
	section, _ := m.Section(manifest.SectionSizing)

	spacing, err := sections.ParseSpacing(section)
	if err != nil {
		return fmt.Errorf("sizing: %w", err)
	}
	radius, err := sections.ParseSizeScale(section, sections.BorderRadiusPrefixes, sections.BorderRadiusToken)
	if err != nil {
		return fmt.Errorf("border radius: %w", err)
	}

	viewports := k.Ints("viewports")
	if len(viewports) == 0 {
		viewports = k.Ints("tokens.viewports")
	}
	if len(viewports) == 0 {
		viewports = defaultViewports
	}
	return writeTokenTable(os.Stdout, opts.FluidTypography, viewports,
		tokenGroup{"spacing", spacing}, tokenGroup{"rounded", radius})
}

type tokenGroup struct {
	family string
	scale  *sections.SizeScale
}

// writeTokenTable renders one row per token with the size it resolves to
// at each viewport.
func writeTokenTable(w io.Writer, mode units.FluidMode, viewports []int, groups ...tokenGroup) error {
	headers := []string{"FAMILY", "TOKEN", "MOBILE", "DESKTOP"}
	for _, vw := range viewports {
		headers = append(headers, "@"+strconv.Itoa(vw))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, g := range groups {
		for _, tok := range g.scale.Tokens {
			row := []string{g.family, tok.Token, px(tok.Mobile), px(tok.Desktop)}
			for _, vw := range viewports {
				row = append(row, px(units.EvaluateFluid(tok.Mobile, tok.Desktop, mode, float64(vw))))
			}
			t.Row(row...)
		}
	}
	if diag.ShouldUseColors(getBoolWithFallback("color", "color", false), os.Stdout) {
		t.BorderStyle(diag.StyleGray)
	}

	_, err := fmt.Fprintf(w, "Fluid sizing: %s\n%s\n", mode, t.Render())
	return err
}

func px(v float64) string {
	return units.FormatNumber(math.Round(v*100)/100) + "px"
}
