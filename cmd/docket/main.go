package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Zachacious/go-docket/internal/config"
)

// These variables are set at build time with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	output      string
	format      string
	title       string
	concurrency int
	strict      bool
	verbose     bool
	logJSON     bool
	watch       bool
}

func main() {
	var opts options

	var rootCmd = &cobra.Command{
		Use:   "docket [paths...]",
		Short: "docket generates API documentation from @-tagged source comments.",
		Long: `docket reads @module, @class and @signature blocks (with @param, @returns,
@throws and friends) from JavaScript, TypeScript and Go comments and writes one
page per module, top-level class and top-level signature. Paths may be files,
directories or Go package patterns such as ./... and default to the current
directory. Defaults are read from a .docket.yaml file at the project root.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default from config: docs)")
	rootCmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: html, markdown or yaml")
	rootCmd.Flags().StringVar(&opts.title, "title", "", "Project title shown in page headers")
	rootCmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "Number of units rendered in parallel")
	rootCmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any file or unit failed")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&opts.logJSON, "log-json", false, "Log as JSON instead of console text")
	rootCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Rebuild when source files change")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of docket",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docket version %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built at: %s\n", date)
		},
	}
	rootCmd.AddCommand(versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra prints its own errors, so we just need to exit.
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string, opts options) error {
	log := newLogger(os.Stderr, opts.verbose, opts.logJSON)

	if len(args) == 0 {
		args = []string{"."}
	}
	root := projectRoot(args)

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}
	log.Debug().Str("root", root).Str("format", cfg.Format).Str("output", cfg.Output).Msg("configuration loaded")

	if opts.watch {
		return watch(cmd.Context(), args, cfg, log)
	}

	res, err := build(cmd.Context(), args, cfg, log)
	if err != nil {
		return err
	}
	if opts.strict && !res.ok() {
		return errors.New("some files or units failed (--strict)")
	}
	return nil
}

// apply overrides configuration values with the flags that were set.
func (o options) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("title") {
		cfg.Title = o.title
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	return cfg.Validate()
}

// projectRoot is the directory .docket.yaml is read from: the first input
// when it is a directory, the working directory otherwise.
func projectRoot(args []string) string {
	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return args[0]
	}
	return "."
}

func newLogger(w io.Writer, verbose, json bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
