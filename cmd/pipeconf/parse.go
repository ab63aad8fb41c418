// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pipeconf/pipeconf/internal/config"
	"github.com/pipeconf/pipeconf/internal/issue"
	"github.com/pipeconf/pipeconf/pkg/document"
	"github.com/pipeconf/pipeconf/pkg/scan"

	"github.com/spf13/cobra"
)

type (
	// definitionFlags are shared by parse and watch. Unset flags fall back
	// to the configuration.
	definitionFlags struct {
		pipelinePattern    string
		environmentPattern string
		output             string
		strict             bool
	}

	parseFlagValues struct {
		definitionFlags
		failOnErrors bool
	}
)

func newParseCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &parseFlagValues{}

	parseCmd := &cobra.Command{
		Use:   "parse [dir]",
		Short: "Parse all environment and pipeline definitions in a directory",
		Long: `Parse all environment and pipeline definitions in a directory.

Environment files are read first, then pipeline files. Each file is either
accepted or recorded as an error; one bad file never hides the others.
Pipelines get their group from the file name (build.gopipeline.json -> build).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, app, rootFlags, flags, dirArg(args))
		},
	}

	addDefinitionFlags(parseCmd, &flags.definitionFlags)
	parseCmd.Flags().BoolVar(&flags.failOnErrors, "fail-on-errors", false,
		fmt.Sprintf("exit with status %d when any file was rejected", ExitDefinitionErrors))

	return parseCmd
}

func addDefinitionFlags(cmd *cobra.Command, flags *definitionFlags) {
	cmd.Flags().StringVar(&flags.pipelinePattern, "pipeline-pattern", "", "glob selecting pipeline files (default from config)")
	cmd.Flags().StringVar(&flags.environmentPattern, "environment-pattern", "", "glob selecting environment files (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: text, json or yaml (default from config)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "also check definitions against the built-in schemas")
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func runParse(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *parseFlagValues, dir string) error {
	ctx := cmd.Context()

	cfg, err := resolveSettings(ctx, cmd, app, rootFlags, &flags.definitionFlags)
	if err != nil {
		return reportFailure(cmd, app.stderr, err, rootFlags.verbose, config.ColorSchemeAuto, ExitFailure)
	}
	verbose := isVerbose(rootFlags, cfg)

	collection, err := app.Parser.Parse(ctx, parseRequest(app, cfg, dir, verbose, ""))
	if err != nil {
		return reportFailure(cmd, app.stderr, classifyParseError(dir, err), verbose, cfg.UI.ColorScheme, ExitFailure)
	}

	if err := renderCollection(cmd.OutOrStdout(), collection, cfg.Output, cfg.TargetVersion, dir); err != nil {
		return err
	}

	if flags.failOnErrors && collection.HasErrors() {
		cmd.SilenceErrors = true
		return &ExitError{Code: ExitDefinitionErrors}
	}
	return nil
}

// resolveSettings loads configuration and applies explicitly set flags on top.
func resolveSettings(ctx context.Context, cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *definitionFlags) (*config.Config, error) {
	loaded, err := loadConfig(ctx, app, rootFlags)
	if err != nil {
		return nil, err
	}
	cfg := *loaded

	if cmd.Flags().Changed("pipeline-pattern") {
		cfg.PipelinePattern = config.FilePattern(flags.pipelinePattern)
	}
	if cmd.Flags().Changed("environment-pattern") {
		cfg.EnvironmentPattern = config.FilePattern(flags.environmentPattern)
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = config.OutputFormat(flags.output)
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = flags.strict
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("apply command-line flags").
			WithSuggestion("Run 'pipeconf parse --help' to see accepted values").
			Wrap(errs[0]).
			BuildError()
	}
	return &cfg, nil
}

func parseRequest(app *App, cfg *config.Config, dir string, verbose bool, logPrefix string) ParseRequest {
	return ParseRequest{
		Dir:                dir,
		PipelinePattern:    cfg.PipelinePattern.String(),
		EnvironmentPattern: cfg.EnvironmentPattern.String(),
		Strict:             cfg.Strict,
		Logger:             app.logger(verbose, logPrefix),
	}
}

// classifyParseError attaches suggestions and a guide to a failed run.
func classifyParseError(dir string, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("parse config repository").
		WithResource(dir)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, scan.ErrInvalidPattern):
		ec.WithIssue(issue.InvalidPatternId).
			WithSuggestion("Check --pipeline-pattern and --environment-pattern")
	case errors.Is(err, fs.ErrNotExist):
		ec.WithIssue(issue.DirectoryNotFoundId).
			WithSuggestion("Check that the directory exists and is spelled correctly")
	case errors.Is(err, fs.ErrPermission):
		ec.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check read permissions on the directory and its files")
	case errors.Is(err, document.ErrShapeMismatch):
		ec.WithIssue(issue.ShapeMismatchId).
			WithSuggestion("Fix the section named in the error, then parse again").
			WithSuggestion("Run with --verbose for a troubleshooting guide")
	}
	return ec.Wrap(err).BuildError()
}
