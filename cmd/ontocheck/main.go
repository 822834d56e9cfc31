// Package main provides the ontocheck binary entry point.
// ontocheck parses RDF ontology files, confirms they are syntactically valid,
// and prints triple, class and property counts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontocheck/checker"
	"github.com/c360studio/ontocheck/config"
	"github.com/c360studio/ontocheck/format"
	"github.com/c360studio/ontocheck/metrics"
	"github.com/c360studio/ontocheck/watch"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ontocheck"
)

// errChecksFailed signals a failed check that has already been reported.
var errChecksFailed = errors.New("ontology checks failed")

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := rootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

type options struct {
	configPath  string
	format      string
	output      string
	logLevel    string
	watch       bool
	metricsFile string
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "ontocheck [file|glob ...]",
		Short: "RDF ontology syntax checker",
		Long: `ontocheck parses RDF ontology files and reports whether they are
syntactically valid.

For each file it prints:
- the number of distinct triples
- the number of owl:Class declarations
- the number of owl:DatatypeProperty declarations
- the number of owl:ObjectProperty declarations

With no arguments it checks ontology.ttl (or ontology.path from ontocheck.yaml).
The exit status is 0 only if every file parsed and contained at least one triple.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Input format: "+strings.Join(format.Names(), ", ")+" (default: detect from extension)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", config.OutputText, "Report format (text, json)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-check files whenever they change")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after each check")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(configCmd())

	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ontocheck configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.ProjectConfigFile + " in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigFile
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().SaveToFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

func run(cmd *cobra.Command, opts options, args []string, stdout, stderr io.Writer) error {
	flags := cmd.Flags()

	// Bootstrap logging from the flag until the config is known
	logger := newLogger(stderr, opts.logLevel)

	cfg, err := config.NewLoader(logger).Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags win over every config layer
	if flags.Changed("format") {
		cfg.Ontology.Format = opts.format
	}
	if flags.Changed("output") {
		cfg.Output.Format = opts.output
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = opts.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = newLogger(stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{cfg.Ontology.Path}
	}
	targets, err := checker.ResolveTargets(patterns)
	if err != nil {
		return err
	}

	var reporter checker.Reporter = checker.NewTextReporter(stdout)
	if cfg.Output.Format == config.OutputJSON {
		reporter = checker.NewJSONReporter(stdout)
	}

	c := checker.New(checker.Options{
		Format:   cfg.OntologyFormat(),
		Reporter: reporter,
		Logger:   logger,
	})

	var recorder *metrics.Recorder
	if cfg.Metrics.File != "" {
		recorder = metrics.NewRecorder()
	}

	ctx := cmd.Context()
	reporter.Begin()
	outcomes, passed := c.CheckAll(ctx, targets)
	recordMetrics(recorder, cfg.Metrics.File, outcomes, logger)

	if opts.watch {
		passed, err = watchLoop(ctx, c, cfg, targets, outcomes, recorder, logger)
		if err != nil {
			return err
		}
	}

	if !passed {
		return errChecksFailed
	}
	return nil
}

// watchLoop re-checks changed targets until ctx is cancelled. It returns
// whether every target passed its most recent check.
func watchLoop(
	ctx context.Context,
	c *checker.Checker,
	cfg *config.Config,
	targets []string,
	initial []checker.Outcome,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) (bool, error) {
	w, err := watch.New(watch.Config{
		Paths:    targets,
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return false, err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return false, fmt.Errorf("start watcher: %w", err)
	}

	latest := make(map[string]checker.Outcome, len(targets))
	for _, o := range initial {
		latest[o.Path] = o
	}

	for batch := range w.Events() {
		paths := make([]string, 0, len(batch))
		for _, change := range batch {
			logger.Info("Ontology changed", "path", change.Path, "op", string(change.Operation))
			paths = append(paths, change.Path)
		}

		outcomes, _ := c.CheckAll(ctx, paths)
		for _, o := range outcomes {
			latest[o.Path] = o
		}
		recordMetrics(recorder, cfg.Metrics.File, currentOutcomes(targets, latest), logger)
	}

	return allPassed(targets, latest), nil
}

func currentOutcomes(targets []string, latest map[string]checker.Outcome) []checker.Outcome {
	out := make([]checker.Outcome, 0, len(targets))
	for _, t := range targets {
		if o, ok := latest[t]; ok {
			out = append(out, o)
		}
	}
	return out
}

func allPassed(targets []string, latest map[string]checker.Outcome) bool {
	if len(targets) == 0 {
		return false
	}
	for _, t := range targets {
		if o, ok := latest[t]; !ok || !o.Passed() {
			return false
		}
	}
	return true
}

func recordMetrics(recorder *metrics.Recorder, path string, outcomes []checker.Outcome, logger *slog.Logger) {
	if recorder == nil {
		return
	}
	recorder.Record(outcomes)
	if err := recorder.WriteTextfile(path); err != nil {
		// Metrics are optional; the check result stands
		logger.Warn("Failed to write metrics", "path", path, "error", err)
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
