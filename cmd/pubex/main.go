// Package main provides the pubex CLI entry point.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/matsen/pubex/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string
	logFormat   string
)

// logger is the diagnostic channel. It writes to stderr so that extracted
// records on stdout stay clean.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// skipConfig marks commands that must run even when the config is invalid.
const skipConfig = "pubex/skip-config"

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubex",
	Short: "Classify and extract bibliographic citations",
	Long: `pubex reads citation lists, one citation per line, and turns each line
into a structured record.

Every line is classified as a Conference, Journal or Revue publication by
the first matching recognition rule; unrecognized lines are skipped. The
matching extractor then pulls out authors, title, date, venue, acronym
(sigle), volume, issue, pages, ISSN and issue number.

Records stream out as they are extracted (dict, jsonl, yaml, xml, bibtex or
xlsx) and can be appended to a JSONL store indexed in SQLite for search.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic level: debug, info, warn, error (default from config, else info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Diagnostic format: text or json (default from config, else text)")
	rootCmd.Version = Version
}

// setupLogging installs the diagnostic logger. Flags beat config values.
func setupLogging(cmd *cobra.Command, args []string) error {
	level, format := logLevel, logFormat
	if cmd.Annotations[skipConfig] == "" {
		cfg := mustLoadConfig()
		if level == "" {
			level = cfg.LogLevel
		}
		if format == "" {
			format = cfg.LogFormat
		}
	}

	l, err := newLogger(os.Stderr, level, format)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	logger = l
	slog.SetDefault(l)
	return nil
}

// newLogger builds a text or JSON slog logger without timestamps.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop the time, keep level, message and attributes
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%w: log_format = %q (valid: %v)", config.ErrInvalidValue, format, config.ValidLogFormats)
}

// mustLoadConfig loads the effective configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
