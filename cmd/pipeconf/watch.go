// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/pipeconf/pipeconf/internal/config"
	"github.com/pipeconf/pipeconf/internal/issue"
	"github.com/pipeconf/pipeconf/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &definitionFlags{}

	watchCmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Parse a directory and re-parse whenever a definition changes",
		Long: `Parse a directory once, then again after every change to a file matching
the pipeline or environment pattern. Press Ctrl+C to stop.

The quiet period and screen clearing come from the watch section of the
configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, app, rootFlags, flags, dirArg(args))
		},
	}

	addDefinitionFlags(watchCmd, flags)
	return watchCmd
}

func runWatch(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *definitionFlags, dir string) error {
	cfg, err := resolveSettings(cmd.Context(), cmd, app, rootFlags, flags)
	if err != nil {
		return reportFailure(cmd, app.stderr, err, rootFlags.verbose, config.ColorSchemeAuto, ExitFailure)
	}
	verbose := isVerbose(rootFlags, cfg)
	stdout := cmd.OutOrStdout()

	debounce, err := cfg.Watch.DebounceDuration()
	if err != nil {
		return reportFailure(cmd, app.stderr, err, verbose, cfg.UI.ColorScheme, ExitFailure)
	}

	reparse := func(ctx context.Context) {
		collection, parseErr := app.Parser.Parse(ctx, parseRequest(app, cfg, dir, verbose, ""))
		if parseErr != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(app.stderr, "%s %s\n", errorIcon, formatErrorForDisplay(classifyParseError(dir, parseErr), verbose))
			}
			return
		}
		if renderErr := renderCollection(stdout, collection, cfg.Output, cfg.TargetVersion, dir); renderErr != nil {
			fmt.Fprintf(app.stderr, "%s %v\n", errorIcon, renderErr)
		}
	}

	w, err := watch.New(watch.Options{
		Dir:         dir,
		Patterns:    []string{cfg.PipelinePattern.String(), cfg.EnvironmentPattern.String()},
		Debounce:    debounce,
		ClearScreen: cfg.Watch.ClearScreen,
		Out:         stdout,
		Logger:      app.logger(verbose, "watch"),
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stderr, "%s %d file(s) changed, parsing again\n", arrowIcon, len(changed))
			reparse(ctx)
			return nil
		},
	})
	if err != nil {
		wrapped := issue.NewErrorContext().
			WithOperation("watch config repository").
			WithResource(dir).
			WithIssue(issue.DirectoryNotFoundId).
			WithSuggestion("Check that the directory exists").
			Wrap(err).
			BuildError()
		return reportFailure(cmd, app.stderr, wrapped, verbose, cfg.UI.ColorScheme, ExitFailure)
	}

	reparse(cmd.Context())
	fmt.Fprintf(app.stderr, "\n%s Watching %s for changes (Ctrl+C to stop)...\n", arrowIcon, PathStyle.Render(w.Dir()))

	return w.Run(cmd.Context())
}
