// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pipeconf/pipeconf/internal/config"
	"github.com/pipeconf/pipeconf/internal/logging"
	"github.com/pipeconf/pipeconf/pkg/configrepo"
	"github.com/pipeconf/pipeconf/pkg/document"
	"github.com/pipeconf/pipeconf/pkg/scan"
)

type (
	// App wires CLI services. Every command handler receives an App and
	// delegates to its services.
	App struct {
		Config ConfigProvider
		Parser ParseService
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config ConfigProvider
		Parser ParseService
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		LoadWithSource(ctx context.Context, opts config.LoadOptions) (config.Loaded, error)
	}

	// ParseRequest is one run over a config repository.
	ParseRequest struct {
		Dir                string
		PipelinePattern    string
		EnvironmentPattern string
		Strict             bool
		Logger             *slog.Logger
	}

	// ParseService parses a config repository directory.
	ParseService interface {
		Parse(ctx context.Context, req ParseRequest) (*configrepo.Collection, error)
	}

	directoryParseService struct{}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Parser: deps.Parser,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Parser == nil {
		app.Parser = directoryParseService{}
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// Parse runs a configrepo.DirectoryParser over the local file system.
func (directoryParseService) Parse(ctx context.Context, req ParseRequest) (*configrepo.Collection, error) {
	p := configrepo.NewDirectoryParser(scan.New(), document.NewParser(),
		configrepo.WithPipelinePattern(req.PipelinePattern),
		configrepo.WithEnvironmentPattern(req.EnvironmentPattern),
		configrepo.WithSchemaValidation(req.Strict),
		configrepo.WithLogger(req.Logger),
	)
	return p.ParseDirectory(ctx, req.Dir)
}

// logger returns the stderr logger for a command run.
func (a *App) logger(verbose bool, prefix string) *slog.Logger {
	return logging.New(a.stderr, logging.Options{Verbose: verbose, Prefix: prefix})
}
