// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"fgmod-cli/internal/assemble"
	"fgmod-cli/internal/config"
	"fgmod-cli/internal/markdown"
	"fgmod-cli/pkg/content"

	"github.com/spf13/cobra"
)

func newBuildCommand(app *App) *cobra.Command {
	var modulePath, output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Take a module definition and generate a module file",
		Long: `Load the module definition and every spell and table file it lists,
compile them into client.xml and definition.xml and write both into a
module archive. The archive is replaced only when the whole build succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runBuild(cmd, app, modulePath, output); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&modulePath, "module-definition", "m", "", "path to the module definition")
	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the module file")
	_ = cmd.MarkFlagRequired("module-definition")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runBuild(cmd *cobra.Command, app *App, modulePath, output string) error {
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
	logger.Info("module loaded", "name", m.Definition.Name,
		"spells", len(m.Spells), "tables", len(m.Tables))

	asm := newAssembler(cfg)
	asm.Logger = logger
	if err := asm.Package(ctx, m, app.NewSink(cfg), output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s (%d spells, %d tables)\n",
		successIcon, CmdStyle.Render(output), len(m.Spells), len(m.Tables))
	return nil
}

// newAssembler configures an assembler from the build and markdown sections.
func newAssembler(cfg *config.Config) *assemble.Assembler {
	return &assemble.Assembler{
		Markdown: markdown.New(markdown.Options{
			Tables:        cfg.Markdown.Tables,
			Strikethrough: cfg.Markdown.Strikethrough,
			HardWraps:     cfg.Markdown.HardWraps,
		}),
		Workers:     cfg.Build.Workers,
		Declaration: cfg.Build.XMLDeclaration,
	}
}
