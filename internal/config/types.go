// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// LogLevelDebug logs every emitted record.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs files read and archives written.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable problems only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// LogFormatAuto uses text on a terminal and logfmt otherwise.
	LogFormatAuto LogFormat = "auto"
	// LogFormatText is the styled human-readable format.
	LogFormatText LogFormat = "text"
	// LogFormatLogfmt is key=value output.
	LogFormatLogfmt LogFormat = "logfmt"
	// LogFormatJSON is one JSON object per line.
	LogFormatJSON LogFormat = "json"

	// CompressionDeflate compresses archive entries.
	CompressionDeflate Compression = "deflate"
	// CompressionStore stores archive entries uncompressed.
	CompressionStore Compression = "store"

	// MaxWorkers bounds build.workers.
	MaxWorkers = 64
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidCompression is returned when a Compression value is not recognized.
	ErrInvalidCompression = errors.New("invalid compression")
	// ErrInvalidWorkers is returned when build.workers is out of range.
	ErrInvalidWorkers = errors.New("invalid worker count")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level that is logged.
	LogLevel string

	// LogFormat selects the log line encoding.
	LogFormat string

	// Compression selects the archive entry method.
	Compression string

	// InvalidValueError is returned for an unrecognized enum value.
	// It wraps the sentinel of its field for errors.Is() compatibility.
	InvalidValueError struct {
		Field    string
		Value    string
		sentinel error
	}

	// InvalidConfigError collects the field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Log configures structured logging.
		Log LogConfig `json:"log" mapstructure:"log"`
		// Build configures module compilation and packaging.
		Build BuildConfig `json:"build" mapstructure:"build"`
		// Markdown configures description rendering.
		Markdown MarkdownConfig `json:"markdown" mapstructure:"markdown"`

		// Source is the file the configuration was read from, empty for defaults only.
		Source string `json:"-" mapstructure:"-"`
	}

	// LogConfig configures structured logging.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// BuildConfig configures module compilation and packaging.
	BuildConfig struct {
		// Workers is the number of records emitted concurrently.
		// Output is identical for every value.
		Workers int `json:"workers" mapstructure:"workers"`
		// Compression is the archive entry method.
		Compression Compression `json:"compression" mapstructure:"compression"`
		// XMLDeclaration prefixes both documents with the XML prolog.
		XMLDeclaration bool `json:"xml_declaration" mapstructure:"xml_declaration"`
	}

	// MarkdownConfig toggles markdown extensions.
	MarkdownConfig struct {
		Tables        bool `json:"tables" mapstructure:"tables"`
		Strikethrough bool `json:"strikethrough" mapstructure:"strikethrough"`
		HardWraps     bool `json:"hard_wraps" mapstructure:"hard_wraps"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatAuto,
		},
		Build: BuildConfig{
			Workers:        1,
			Compression:    CompressionDeflate,
			XMLDeclaration: true,
		},
		Markdown: MarkdownConfig{
			Tables:        true,
			Strikethrough: true,
		},
	}
}

// IsValid returns whether the LogLevel is recognized.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "log.level", Value: string(l), sentinel: ErrInvalidLogLevel}}
	}
}

// IsValid returns whether the LogFormat is recognized.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatAuto, LogFormatText, LogFormatLogfmt, LogFormatJSON:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "log.format", Value: string(f), sentinel: ErrInvalidLogFormat}}
	}
}

// IsValid returns whether the Compression is recognized.
func (c Compression) IsValid() (bool, []error) {
	switch c {
	case CompressionDeflate, CompressionStore:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Field: "build.compression", Value: string(c), sentinel: ErrInvalidCompression}}
	}
}

// IsValid checks every enum field and the worker range. Values that came
// from the file were already checked by the schema; this also covers
// environment overrides.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Log.Level.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Log.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Build.Compression.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.Build.Workers < 1 || c.Build.Workers > MaxWorkers {
		errs = append(errs, &InvalidValueError{
			Field:    "build.workers",
			Value:    fmt.Sprint(c.Build.Workers),
			sentinel: ErrInvalidWorkers,
		})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.sentinel, e.Field, e.Value)
}

// Unwrap returns the field sentinel for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.sentinel }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
