// SPDX-License-Identifier: MPL-2.0

// Package logging builds the *slog.Logger used throughout fgmod. Records are
// formatted by charmbracelet/log, which implements slog.Handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"fgmod-cli/internal/config"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Options describes logger construction parameters.
type Options struct {
	Level  config.LogLevel
	Format config.LogFormat
	Prefix string
	// Verbose forces debug level regardless of Level.
	Verbose bool
}

// New constructs a slog logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(string(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = log.DebugLevel
	}

	formatter, err := formatterFor(opts.Format, w)
	if err != nil {
		return nil, err
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
		ReportTimestamp: formatter != log.TextFormatter,
		TimeFormat:      time.RFC3339,
	})
	return slog.New(handler), nil
}

// NewFromConfig creates a logger from the log section of cfg.
func NewFromConfig(w io.Writer, cfg *config.Config, verbose bool) (*slog.Logger, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return New(w, Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Prefix:  config.AppName,
		Verbose: verbose,
	})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func formatterFor(format config.LogFormat, w io.Writer) (log.Formatter, error) {
	switch config.LogFormat(strings.ToLower(string(format))) {
	case "", config.LogFormatAuto:
		if isTerminal(w) {
			return log.TextFormatter, nil
		}
		return log.LogfmtFormatter, nil
	case config.LogFormatText:
		return log.TextFormatter, nil
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter, nil
	case config.LogFormatJSON:
		return log.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
