// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pipeconf/pipeconf/internal/config"
	"github.com/pipeconf/pipeconf/internal/issue"

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

// rootFlagValues holds the persistent flags shared by every command.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// newRootCommand builds the command tree for app.
func newRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "pipeconf",
		Short: "Parse a pipelines-as-code config repository",
		Long: TitleStyle.Render("pipeconf") + SubtitleStyle.Render(" - parse a pipelines-as-code config repository") + `

pipeconf reads every environment and pipeline definition file in a
directory, normalizes pipelines into the server's expected shape, and
reports every file it could not use instead of stopping at the first one.

` + SubtitleStyle.Render("Examples:") + `
  pipeconf parse                    Parse the current directory
  pipeconf parse ./ci -o json       Print the plugin response as JSON
  pipeconf parse --strict           Also check required fields
  pipeconf watch ./ci               Re-parse whenever a definition changes
  pipeconf config show              Show the effective configuration`,
		SilenceUsage: true,
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default is $HOME/.config/pipeconf/config.cue)")

	rootCmd.AddCommand(newParseCommand(app, rootFlags))
	rootCmd.AddCommand(newWatchCommand(app, rootFlags))
	rootCmd.AddCommand(newConfigCommand(app, rootFlags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadConfig loads configuration honoring --config.
func loadConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) (*config.Config, error) {
	return app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rootFlags.configPath})
}

// isVerbose combines the flag with the ui.verbose setting.
func isVerbose(rootFlags *rootFlagValues, cfg *config.Config) bool {
	return rootFlags.verbose || (cfg != nil && cfg.UI.Verbose)
}

// formatErrorForDisplay formats an error for user display, using the
// suggestions of an ActionableError when there is one.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportFailure prints err with its guide and returns an ExitError carrying
// code. The command's own error printing is silenced.
func reportFailure(cmd *cobra.Command, stderr io.Writer, err error, verbose bool, scheme config.ColorScheme, code int) error {
	cmd.SilenceErrors = true

	fmt.Fprintf(stderr, "%s %s\n", errorIcon, formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) && ae.Guide != 0 {
		if guide := issue.Get(ae.Guide); guide != nil {
			if rendered, renderErr := guide.Render(glamourStyle(scheme)); renderErr == nil {
				fmt.Fprint(stderr, rendered)
			}
		}
	}
	return &ExitError{Code: code, Err: err}
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return "auto"
	}
}
