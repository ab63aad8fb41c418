// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/pipeconf/pipeconf/internal/config"

	"github.com/spf13/cobra"
)

const (
	dumpFormatCUE  = "cue"
	dumpFormatTOML = "toml"
)

// newConfigCommand creates the `pipeconf config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pipeconf configuration",
		Long: `Manage pipeconf configuration.

Configuration is stored in:
  - Linux: ~/.config/pipeconf/config.cue
  - macOS: ~/Library/Application Support/pipeconf/config.cue
  - Windows: %APPDATA%\pipeconf\config.cue

A config.cue in the working directory is used when no user file exists.
PIPECONF_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.Config.LoadWithSource(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return reportFailure(cmd, app.stderr, err, rootFlags.verbose, config.ColorSchemeAuto, ExitFailure)
			}
			showConfig(cmd.OutOrStdout(), loaded)
			return nil
		},
	})

	var dumpFormat string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, rootFlags)
			if err != nil {
				return reportFailure(cmd, app.stderr, err, rootFlags.verbose, config.ColorSchemeAuto, ExitFailure)
			}
			return dumpConfig(cmd.OutOrStdout(), cfg, dumpFormat)
		},
	}
	dumpCmd.Flags().StringVar(&dumpFormat, "format", dumpFormatCUE, "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration file at %s\n", successIcon, cfgPath)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, loaded config.Loaded) {
	cfg := loaded.Config
	keyStyle := PathStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if loaded.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), loaded.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("pipeline_pattern"), valueStyle.Render(cfg.PipelinePattern.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("environment_pattern"), valueStyle.Render(cfg.EnvironmentPattern.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("strict"), valueStyle.Render(fmt.Sprint(cfg.Strict)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("target_version"), valueStyle.Render(fmt.Sprint(cfg.TargetVersion)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output"), valueStyle.Render(cfg.Output.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce))
	fmt.Fprintf(w, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprint(cfg.Watch.ClearScreen)))
}

func dumpConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case dumpFormatCUE:
		_, err := io.WriteString(w, config.GenerateCUE(cfg))
		return err
	case dumpFormatTOML:
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown dump format %q (valid: %s, %s)", format, dumpFormatCUE, dumpFormatTOML)
	}
}
