// Package main provides the CLI entry point for imgsorter.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"imgsorter/internal/config"
	"imgsorter/internal/orchestrator"
	"imgsorter/internal/watcher"
)

var (
	flagConfig  string
	flagDryRun  bool
	flagSilent  bool
	flagVerbose bool
	flagWatch   bool
)

func main() {
	root := &cobra.Command{
		Use:   "imgsorter [source-dir]",
		Short: "Sort media files into date and device folders",
		Long: "imgsorter reads images, videos and audio files from source folders\n" +
			"and sorts them into a date/device folder structure under a target\n" +
			"folder, based on EXIF data where available.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&flagConfig, "config", "c", "", "path to the configuration file")
	root.Flags().BoolVar(&flagDryRun, "dry-run", false, "simulate without copying, moving or deleting anything")
	root.Flags().BoolVar(&flagSilent, "silent", false, "skip the confirmation prompt")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "per-file output without compacting")
	root.Flags().BoolVarP(&flagWatch, "watch", "w", false, "keep running and re-sort when new files arrive")

	if err := root.Execute(); err != nil {
		if errors.Is(err, orchestrator.ErrCancelled) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	afs := afero.NewOsFs()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configPath := flagConfig
	if configPath == "" {
		configPath = filepath.Join(cwd, config.DefaultConfigFile)
	}

	cfg, err := config.Load(afs, configPath, cwd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if err := cfg.ApplyCLISource(afs, args[0]); err != nil {
			return err
		}
	}

	// flags override the config file only when actually given
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = flagDryRun
	}
	if cmd.Flags().Changed("silent") {
		cfg.Silent = flagSilent
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flagVerbose
	}

	setupLogging(cfg)

	if flagWatch {
		return watchAndRun(afs, cfg)
	}

	_, err = newOrchestrator(afs, cfg).Run()
	return err
}

// watchAndRun performs one initial run, then keeps re-running whenever the
// watcher reports settled file activity in the source directories, until
// interrupted.
func watchAndRun(afs afero.Fs, cfg *config.Config) error {
	var roots []string
	for _, group := range cfg.SourceGroups {
		roots = append(roots, group...)
	}

	initial, rerun := watchRuns(afs, cfg, os.Stdin, os.Stdout)
	if err := initial(); err != nil {
		if errors.Is(err, orchestrator.ErrCancelled) {
			return err
		}
		if !errors.Is(err, orchestrator.ErrNoFilesFound) {
			return err
		}
		log.Info().Msg("no files to sort yet, waiting for activity")
	}

	w := watcher.New(2*time.Second, rerun)
	if err := w.Start(roots); err != nil {
		return err
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info().Msg("stopping watch mode")
	return nil
}

// watchRuns builds the two run modes watch mode uses: the initial
// interactive run and the re-run fired by the watcher. Re-triggered runs
// execute on a timer goroutine with nobody at the terminal, so they never
// prompt; the initial confirmation covers the whole watch session.
func watchRuns(afs afero.Fs, cfg *config.Config, in io.Reader, out io.Writer) (func() error, func()) {
	// ResolveSources rewrites the groups in place; keep the configured
	// roots so every run re-expands from the same starting point.
	baseGroups := cfg.SourceGroups

	initial := func() error {
		cfg.SourceGroups = baseGroups
		_, err := orchestrator.New(afs, cfg, in, out).Run()
		cfg.Silent = true
		return err
	}

	rerun := func() {
		cfg.SourceGroups = baseGroups
		if _, err := orchestrator.New(afs, cfg, in, out).Run(); err != nil {
			if errors.Is(err, orchestrator.ErrNoFilesFound) {
				log.Info().Msg("no files to sort")
				return
			}
			log.Error().Err(err).Msg("run failed")
		}
	}

	return initial, rerun
}

func newOrchestrator(afs afero.Fs, cfg *config.Config) *orchestrator.Orchestrator {
	return orchestrator.New(afs, cfg, os.Stdin, os.Stdout)
}

// setupLogging configures the global zerolog logger: warnings only by
// default, debug detail with verbose, trace with debug.
func setupLogging(cfg *config.Config) {
	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	if cfg.Debug {
		level = zerolog.TraceLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
