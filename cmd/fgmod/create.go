// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fgmod-cli/internal/issue"
	"fgmod-cli/pkg/content"
	"fgmod-cli/pkg/cueutil"

	"github.com/spf13/cobra"
)

// errOutputExists is returned when create-* would overwrite a file without --force.
var errOutputExists = errors.New("output file already exists")

type createOptions struct {
	output string
	name   string
	force  bool
}

func newCreateSpellCommand(app *App) *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create-spell",
		Short: "Create a new spell file, fully populated",
		Long: `Write an example spell that uses every action kind. The document format
follows the output file extension (.cue, .yaml, .yml, .json or .toml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runCreate(cmd, opts, content.ExampleSpell(opts.name))
		},
	}
	addCreateFlags(cmd, &opts)
	return cmd
}

func newCreateTableCommand(app *App) *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create-table",
		Short: "Create a new table file, fully populated",
		Long: `Write an example two-row table. The document format follows the output
file extension (.cue, .yaml, .yml, .json or .toml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runCreate(cmd, opts, content.ExampleTable(opts.name))
		},
	}
	addCreateFlags(cmd, &opts)
	return cmd
}

func addCreateFlags(cmd *cobra.Command, opts *createOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "file to write")
	cmd.Flags().StringVar(&opts.name, "name", "", "name of the new record")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("name")
}

func (a *App) runCreate(cmd *cobra.Command, opts createOptions, record any) error {
	_, logger, err := a.environment(cmd.Context())
	if err != nil {
		return a.fail(cmd, err)
	}

	if err := writeDocument(opts, record); err != nil {
		return a.fail(cmd, err)
	}

	logger.Info("wrote file; add it to your module definition", "path", opts.output)
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", successIcon, CmdStyle.Render(opts.output))
	return nil
}

func writeDocument(opts createOptions, record any) error {
	format, err := cueutil.FormatFromPath(opts.output)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create document").
			WithResource(opts.output).
			WithIssue(issue.UnsupportedFormatId).
			Wrap(err).
			BuildError()
	}

	data, err := content.Encode(record, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", opts.output, err)
	}

	if !opts.force {
		if _, err := os.Stat(opts.output); err == nil {
			return issue.NewErrorContext().
				WithOperation("create document").
				WithResource(opts.output).
				WithSuggestion("Pass --force to overwrite it").
				Wrap(errOutputExists).
				BuildError()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	return nil
}
