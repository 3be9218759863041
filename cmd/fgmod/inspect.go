// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"fgmod-cli/internal/archive"
	"fgmod-cli/internal/assemble"
	"fgmod-cli/internal/emit"
	"fgmod-cli/internal/ids"
	"fgmod-cli/pkg/content"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newInspectCommand(app *App) *cobra.Command {
	var modulePath, archivePath, render string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the records of a module and the identifiers they compile to",
		Long: `Load a module definition and list its spells and tables with the
identifiers a build would assign. With --render, show one record's
description as formatted terminal output instead.

With --archive, list the documents inside a built module file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if archivePath != "" {
				err = inspectArchive(cmd.OutOrStdout(), archivePath)
			} else {
				err = runInspect(cmd, app, modulePath, render)
			}
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&modulePath, "module-definition", "m", "", "path to the module definition")
	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "path to a built module file")
	cmd.Flags().StringVar(&render, "render", "", "render the description of the named spell or table")
	cmd.MarkFlagsOneRequired("module-definition", "archive")
	cmd.MarkFlagsMutuallyExclusive("module-definition", "archive")
	cmd.MarkFlagsMutuallyExclusive("archive", "render")
	return cmd
}

// inspectArchive lists the entries of a module file with their sizes.
func inspectArchive(w io.Writer, path string) error {
	entries, err := archive.Read(path)
	if err != nil {
		return fmt.Errorf("read module file %s: %w", path, err)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Entry", "Bytes"})
	for _, e := range entries {
		tw.AppendRow(table.Row{e.Name, len(e.Data)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(filepath.Base(path)), SubtitleStyle.Render("(module file)"))
	fmt.Fprintln(w, tw.Render())
	return nil
}

func runInspect(cmd *cobra.Command, app *App, modulePath, render string) error {
	ctx := cmd.Context()
	cfg, logger, err := app.environment(ctx)
	if err != nil {
		return err
	}
	m, err := content.LoadModule(ctx, modulePath,
		content.WithWorkers(cfg.Build.Workers),
		content.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	ids.Assign(ids.New(), m)

	out := cmd.OutOrStdout()
	if render != "" {
		return renderDescription(out, m, render)
	}

	fmt.Fprintf(out, "%s %s\n", TitleStyle.Render(m.Definition.Name),
		SubtitleStyle.Render("(library "+assemble.LibraryName(m.Definition.Name)+")"))
	fmt.Fprintln(out, recordTable(m))
	return nil
}

// recordTable lists every record with its identifier element, in build order.
func recordTable(m *content.Module) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Kind", "Element", "Name", "Level/Rows", "Actions"})

	for i := range m.Spells {
		s := &m.Spells[i]
		level := "?"
		if n, err := emit.SpellLevel(s.SpellLevel); err == nil {
			level = strconv.Itoa(n)
		}
		tw.AppendRow(table.Row{"spell", emit.ID(s.ID), s.Name, level, s.Actions.Count()})
	}
	for i := range m.Tables {
		t := &m.Tables[i]
		tw.AppendRow(table.Row{"table", emit.ID(t.ID), t.Name, len(t.Ranges), "-"})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderDescription prints the markdown of the first spell or table called
// name through glamour.
func renderDescription(w io.Writer, m *content.Module, name string) error {
	var source string
	found := false
	for i := range m.Spells {
		if m.Spells[i].Name == name {
			source, found = m.Spells[i].Description, true
			break
		}
	}
	if !found {
		for i := range m.Tables {
			if m.Tables[i].Name == name {
				source, found = m.Tables[i].FormattedText, true
				break
			}
		}
	}
	if !found {
		return fmt.Errorf("no spell or table named %q in %s", name, m.Definition.Name)
	}

	rendered, err := glamour.Render(source, glamourStyle(w))
	if err != nil {
		return fmt.Errorf("render %q: %w", name, err)
	}
	fmt.Fprint(w, rendered)
	return nil
}
