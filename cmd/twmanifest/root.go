package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest/internal/diag"
)

var rootCmd = &cobra.Command{
	Use:   "twmanifest",
	Short: "Tailwind theme and stylesheet generator for design manifests",
	Long: `Turn a design manifest (Typography, Color and Sizing tokens exported from
a design tool) into a Tailwind theme file and a layered stylesheet with
fluid type, spacing and radius utilities.`,
	// Default behavior: run generate when no subcommand is given.
	// We must call loadConfig here because PreRunE of generateCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runGenerate(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", defaultConfigPath, "Config file path")

	// Manifest options shared by every command that assembles the manifest
	pf.StringP("manifest", "m", defaultManifestPath, "Design manifest file")
	pf.String("fluid-typography", "true", "Fluid sizing: true|false|LIMITED_DESKTOP")
	pf.String("button-typename", "body", "Typography style buttons inherit: body|utility")
	pf.String("color-group-style", "full", "Color token group naming: full|initial")
	pf.Bool("typography", true, "Generate typography styles")
	pf.Bool("colors", true, "Generate theme colors")
	pf.Bool("sizing", true, "Generate spacing and border radius")
	pf.Bool("buttons", true, "Generate button components")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)

	registerCompletions()
}

func isQuiet() bool {
	return getBoolWithFallback("quiet", "quiet", false)
}

// newLogger builds the console logger from the verbose, quiet and color settings.
func newLogger() *zap.Logger {
	return diag.NewLogger(diag.LoggerConfig{
		Verbose: getBoolWithFallback("verbose", "verbose", false),
		Quiet:   isQuiet(),
		Color:   getBoolWithFallback("color", "color", false),
	})
}

// newReporter prints boxed diagnostics to stderr unless quiet.
func newReporter() *diag.Reporter {
	if isQuiet() {
		return diag.NewReporter(nil, false)
	}
	return diag.NewReporter(os.Stderr, diag.ShouldUseColors(getBoolWithFallback("color", "color", false), os.Stderr))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
