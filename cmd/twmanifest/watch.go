package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/twmanifest"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever the manifest or a content file changes",
	Long: `Run generate, then watch the manifest and the content globs and rebuild
after every change until interrupted. The manifest is re-read only when it
changed on disk.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", twmanifest.DefaultDebounce, "Quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := buildBuildConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	defer func() { _ = log.Sync() }()
	cfg.Logger = log
	cfg.Reporter = newReporter()
	quiet := isQuiet()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := twmanifest.NewWatcher(twmanifest.WatchConfig{
		Build:    cfg,
		Debounce: getDurationWithFallback("debounce", "watch.debounce", twmanifest.DefaultDebounce),
		OnBuild: func(result *twmanifest.BuildResult, err error) {
			if err != nil {
				log.Error("build failed", zap.Error(err))
				return
			}
			if !quiet {
				printBuildSummary(os.Stdout, result)
			}
		},
	})
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		log.Warn("initial build failed, waiting for changes")
	}
	defer w.Stop()

	log.Info("watching for changes", zap.String("manifest", cfg.Options.ManifestPath), zap.Strings("content", cfg.Content))
	<-ctx.Done()
	return nil
}
