// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for fgmod.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the fgmod command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fgmod",
		Short: "Compile spells and tables into Fantasy Grounds modules",
		Long: TitleStyle.Render("fgmod") + SubtitleStyle.Render(" - Compile spells and tables into Fantasy Grounds modules") + `

fgmod reads a module definition together with the spell and table documents
it lists (CUE, YAML, JSON or TOML) and writes a module archive containing
client.xml and definition.xml.

` + SubtitleStyle.Render("Examples:") + `
  fgmod create-spell -o spells/fire-bolt.yaml --name "Fire Bolt"
  fgmod create-table -o tables/loot.yaml --name "Loot"
  fgmod inspect -m module.yaml
  fgmod build -m module.yaml -o book.mod
  fgmod config show`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/fgmod/config.cue)")

	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.AddCommand(
		newBuildCommand(app),
		newCreateSpellCommand(app),
		newCreateTableCommand(app),
		newInspectCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler leaves errors already rendered by a command alone and hands
// everything else (flag and usage errors) to fang.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Rendered {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
