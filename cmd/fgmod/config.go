// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"fgmod-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `fgmod config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fgmod configuration",
		Long: `Manage fgmod configuration.

Configuration is stored in:
  - Linux: ~/.config/fgmod/config.cue
  - macOS: ~/Library/Application Support/fgmod/config.cue
  - Windows: %APPDATA%\fgmod\config.cue

Every key can be overridden with FGMOD_<SECTION>_<KEY>, e.g. FGMOD_BUILD_WORKERS=4.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd, app); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("", force)
			if err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (use --force to overwrite)\n",
						WarningStyle.Render("Config already exists:"), path)
					return &ExitError{Code: 1, Err: err, Rendered: true}
				}
				return app.fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", successIcon, CmdStyle.Render(path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(out, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(out, config.GenerateCUE(cfg))
	return nil
}
