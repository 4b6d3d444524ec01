// Package cmd implements the CLI command structure for mappingcheck.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/plexanisync/mappingcheck/internal/config"
	"github.com/plexanisync/mappingcheck/internal/logging"
	"github.com/plexanisync/mappingcheck/internal/mapping"
	"github.com/plexanisync/mappingcheck/internal/report"
	"github.com/plexanisync/mappingcheck/internal/schema"
	"github.com/plexanisync/mappingcheck/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrValidationFailed is returned when at least one mapping file failed.
var ErrValidationFailed = errors.New("mapping files failed validation")

// reportedError wraps an error whose details were already logged.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already logged, so callers only need to
// set the exit status.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// ExitCode maps a Run error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// env carries what every subcommand needs.
type env struct {
	cfg    *config.Config
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// Run executes the mappingcheck CLI.
func Run(ctx context.Context, args []string) error {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

// RunWithIO executes the CLI with explicit output streams. Logs go to stderr,
// command output to stdout.
func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mappingcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	e := &env{
		cfg:    cfg,
		logger: logging.NewConsoleLoggerFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller, cfg.LogPrefix),
		stdout: stdout,
		stderr: stderr,
	}

	// If no args or first arg is a flag, use "validate" as default
	subcommand := "validate"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "validate":
		return validateCommand(ctx, e, remainingArgs)
	case "schema":
		return schemaCommand(ctx, e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		// A bare file path validates the given files.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			return validateCommand(ctx, e, append([]string{subcommand}, remainingArgs...))
		}
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// validateCommand validates the given files, or every discovered file when
// none are given.
func validateCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("mappingcheck validate", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	reporter := report.NewReporter(e.logger, e.cfg.Dir)
	rep, err := runValidation(ctx, e.cfg, e.logger, reporter, fs.Args())
	if err != nil {
		return err
	}
	return finish(e, reporter, rep)
}

// finish writes the summary and optional JSON report and maps the outcome
// to an error.
func finish(e *env, reporter *report.Reporter, rep *report.Report) error {
	reporter.Summary(rep)

	if e.cfg.ReportFile != "" {
		if err := rep.WriteJSON(e.cfg.ReportFile); err != nil {
			return err
		}
		e.logger.Debug("Wrote report", "path", e.cfg.ReportFile)
	}

	if !rep.OK() {
		return &reportedError{err: ErrValidationFailed}
	}
	return nil
}

// runValidation loads the schema and validates every file in order. A file
// failing validation does not stop the run; read or parse errors do.
func runValidation(ctx context.Context, cfg *config.Config, logger *log.Logger, reporter *report.Reporter, files []string) (*report.Report, error) {
	s, err := loadSchema(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		files, err = mapping.Discover(cfg.Dir, cfg.Patterns)
		if err != nil {
			return nil, fmt.Errorf("discovering mapping files: %w", err)
		}
	}
	logger.Debug("Discovered mapping files", "dir", cfg.Dir, "count", len(files))

	validator := mapping.NewValidator(s)
	rep := &report.Report{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := validator.ValidateFile(path)
		if err != nil {
			return nil, err
		}
		reporter.Log(result)
		rep.Add(result)
	}
	return rep, nil
}

func newProvider(cfg *config.Config, logger *log.Logger) *schema.Provider {
	return schema.NewProvider(cfg.SchemaFile, cfg.SchemaURL,
		schema.WithOffline(cfg.Offline),
		schema.WithLogger(logger),
		schema.WithUserAgent("mappingcheck/"+Version),
	)
}

// loadSchema loads the schema, logging a failed fetch. A failed fetch ends
// the run before any file is examined.
func loadSchema(ctx context.Context, cfg *config.Config, logger *log.Logger) (*schema.Schema, error) {
	s, err := newProvider(cfg, logger).Load(ctx)
	if err == nil {
		return s, nil
	}

	var fe *schema.FetchError
	if errors.As(err, &fe) {
		logger.Errorf("Failed to fetch schema from %s: %v", fe.URL, fe)
		return nil, &reportedError{err: err}
	}
	return nil, fmt.Errorf("loading schema: %w", err)
}

// schemaCommand shows where the schema comes from, optionally re-downloading it.
func schemaCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("mappingcheck schema", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	refresh := fs.Bool("refresh", false, "Download the schema again and overwrite the cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var (
		s   *schema.Schema
		err error
	)
	if *refresh {
		if e.cfg.Offline {
			return fmt.Errorf("cannot refresh the schema in offline mode")
		}
		s, err = newProvider(e.cfg, e.logger).Refresh(ctx)
		var fe *schema.FetchError
		if errors.As(err, &fe) {
			e.logger.Errorf("Failed to fetch schema from %s: %v", fe.URL, fe)
			return &reportedError{err: err}
		}
	} else {
		s, err = loadSchema(ctx, e.cfg, e.logger)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Cache:   %s\n", s.Path)
	fmt.Fprintf(e.stdout, "Source:  %s\n", s.Source)
	fmt.Fprintf(e.stdout, "URL:     %s\n", e.cfg.SchemaURL)
	fmt.Fprintf(e.stdout, "Size:    %d bytes\n", len(s.Raw))
	return nil
}

// tuiCommand validates and opens the interactive report viewer.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	// The viewer owns the screen; validation runs without console output.
	quiet := logging.Discard()
	run := func(ctx context.Context) (*report.Report, error) {
		return runValidation(ctx, e.cfg, quiet, report.NewReporter(quiet, e.cfg.Dir), args)
	}

	rep, err := ui.RunTUI(ctx, e.cfg, e.stdout, run)
	if err != nil {
		var fe *schema.FetchError
		if errors.As(err, &fe) {
			e.logger.Errorf("Failed to fetch schema from %s: %v", fe.URL, fe)
		}
		return err
	}
	return finish(e, report.NewReporter(e.logger, e.cfg.Dir), rep)
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("mappingcheck config", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		_, err := io.WriteString(e.stdout, config.ExampleConfig())
		return err
	}

	fmt.Fprintf(e.stdout, "%-16s %-40s %s\n", "KEY", "VALUE", "SOURCE")
	for _, key := range config.Keys() {
		fmt.Fprintf(e.stdout, "%-16s %-40s %s\n", key, e.cfg.Value(key), e.cfg.Sources[key])
	}

	if len(e.cfg.Files) == 0 {
		fmt.Fprintln(e.stdout, "\nNo config files loaded.")
		return nil
	}
	fmt.Fprintln(e.stdout, "\nConfig files:")
	for _, f := range e.cfg.Files {
		fmt.Fprintf(e.stdout, "  %s\n", f)
	}
	return nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "mappingcheck %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `mappingcheck - validate PlexAniSync custom mapping files

Usage:
  mappingcheck [global flags] [command] [args]
  mappingcheck [global flags] FILE...

Commands:
  validate [FILE...]   Validate mapping files (default)
  schema [--refresh]   Show the schema cache; --refresh downloads it again
  tui [FILE...]        Validate, then browse the report interactively
  config [--example]   Show effective configuration and sources
  version              Show version
  help                 Show this help

Global flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Exit status is 0 when every mapping file is valid and 1 when the schema
could not be fetched or any file failed validation.
`)
}
