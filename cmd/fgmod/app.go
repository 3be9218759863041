// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"os"

	"fgmod-cli/internal/archive"
	"fgmod-cli/internal/config"
	"fgmod-cli/internal/logging"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reads configuration, logging and the archive sink
	// through it.
	App struct {
		Config config.Provider
		// NewSink builds the archive sink for a configuration.
		NewSink func(*config.Config) archive.Sink
		stdout  io.Writer
		stderr  io.Writer

		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  config.Provider
		NewSink func(*config.Config) archive.Sink
		Stdout  io.Writer
		Stderr  io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewSink == nil {
		deps.NewSink = zipSinkFor
	}
	return &App{
		Config:  deps.Config,
		NewSink: deps.NewSink,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
}

// loadConfig reads the configuration selected by --config, or the default
// location when the flag is unset.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
}

// environment loads the configuration and the logger built from it.
func (a *App) environment(ctx context.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(a.stderr, cfg, a.verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func zipSinkFor(cfg *config.Config) archive.Sink {
	method := zip.Deflate
	if cfg.Build.Compression == config.CompressionStore {
		method = zip.Store
	}
	return archive.NewZipSink(method)
}
