// SPDX-License-Identifier: MPL-2.0

package configrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pipeconf/pipeconf/pkg/document"
	"github.com/pipeconf/pipeconf/pkg/fixup"
)

const (
	// DefaultPipelinePattern selects pipeline definition files.
	DefaultPipelinePattern = "**/*.gopipeline.json"
	// DefaultEnvironmentPattern selects environment definition files.
	DefaultEnvironmentPattern = "**/*.goenvironment.json"
)

type (
	// Scanner lists the files under baseDir matching pattern, relative to
	// baseDir, in the order they should be processed.
	Scanner interface {
		FilesMatchingPattern(baseDir, pattern string) ([]string, error)
	}

	// DocumentParser parses one file. Syntax errors must be reported as
	// errors wrapping document.ErrParse, preferably *document.ParseError.
	DocumentParser interface {
		ParseFile(path string) (document.Value, error)
	}

	// DirectoryParser walks a configuration directory and builds a Collection.
	DirectoryParser struct {
		scanner            Scanner
		parser             DocumentParser
		pipelinePattern    string
		environmentPattern string
		strict             bool
		logger             *slog.Logger
	}

	// Option configures a DirectoryParser.
	Option func(*DirectoryParser)

	// definitionKind describes one pass over the directory.
	definitionKind struct {
		name      string
		title     string
		pattern   string
		schema    string
		normalize func(doc document.Value, fileName string) (document.Value, error)
		add       func(c *Collection, doc document.Value, fileName string)
	}

	// outcome is the result of one file: an accepted document or a rejection.
	outcome struct {
		doc      document.Value
		rejected *PluginError
	}
)

// WithPipelinePattern sets the pattern used to find pipeline files.
func WithPipelinePattern(pattern string) Option {
	return func(p *DirectoryParser) {
		if pattern != "" {
			p.pipelinePattern = pattern
		}
	}
}

// WithEnvironmentPattern sets the pattern used to find environment files.
func WithEnvironmentPattern(pattern string) Option {
	return func(p *DirectoryParser) {
		if pattern != "" {
			p.environmentPattern = pattern
		}
	}
}

// WithSchemaValidation enables checking accepted definitions against the
// embedded CUE schemas. Violations are recorded as PluginErrors.
func WithSchemaValidation(enabled bool) Option {
	return func(p *DirectoryParser) {
		p.strict = enabled
	}
}

// WithLogger sets the logger used for per-file and summary records.
func WithLogger(logger *slog.Logger) Option {
	return func(p *DirectoryParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewDirectoryParser creates a DirectoryParser over the given collaborators.
func NewDirectoryParser(scanner Scanner, parser DocumentParser, opts ...Option) *DirectoryParser {
	p := &DirectoryParser{
		scanner:            scanner,
		parser:             parser,
		pipelinePattern:    DefaultPipelinePattern,
		environmentPattern: DefaultEnvironmentPattern,
		logger:             slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDirectory processes every environment file and then every pipeline
// file under baseDir. Parse failures and empty definitions are recorded in
// the returned Collection; scanner failures, read failures, pipeline shape
// mismatches and context cancellation abort the call.
func (p *DirectoryParser) ParseDirectory(ctx context.Context, baseDir string) (*Collection, error) {
	collection := NewCollection()

	kinds := []definitionKind{
		{
			name:    "environment",
			title:   "Environment",
			pattern: p.environmentPattern,
			schema:  environmentDefinition,
			add:     (*Collection).AddEnvironment,
		},
		{
			name:    "pipeline",
			title:   "Pipeline",
			pattern: p.pipelinePattern,
			schema:  pipelineDefinition,
			normalize: func(doc document.Value, fileName string) (document.Value, error) {
				return fixup.Normalize(doc, GroupName(fileName))
			},
			add: (*Collection).AddPipeline,
		},
	}

	for _, kind := range kinds {
		if err := p.collect(ctx, baseDir, kind, collection); err != nil {
			return nil, err
		}
	}
	return collection, nil
}

func (p *DirectoryParser) collect(ctx context.Context, baseDir string, kind definitionKind, c *Collection) error {
	files, err := p.scanner.FilesMatchingPattern(baseDir, kind.pattern)
	if err != nil {
		return fmt.Errorf("scan %s files in %s: %w", kind.name, baseDir, err)
	}

	accepted, rejected := 0, 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parse %s: %w", baseDir, err)
		}

		out, err := p.parseFile(baseDir, file, kind)
		if err != nil {
			return err
		}

		if out.rejected != nil {
			rejected++
			c.AddError(*out.rejected)
			p.logger.Debug("rejected definition file", "kind", kind.name, "file", file, "reason", out.rejected.Message())
			continue
		}
		accepted++
		kind.add(c, out.doc, file)
		p.logger.Debug("accepted definition file", "kind", kind.name, "file", file)
	}

	p.logger.Info("parsed definition files",
		"kind", kind.name, "pattern", kind.pattern, "accepted", accepted, "rejected", rejected)
	return nil
}

func (p *DirectoryParser) parseFile(baseDir, file string, kind definitionKind) (outcome, error) {
	doc, err := p.parser.ParseFile(filepath.Join(baseDir, filepath.FromSlash(file)))
	if err != nil {
		if !errors.Is(err, document.ErrParse) {
			return outcome{}, fmt.Errorf("read %s file %s: %w", kind.name, file, err)
		}
		msg := err.Error()
		var pe *document.ParseError
		if errors.As(err, &pe) {
			msg = pe.Message
		}
		return reject(fmt.Sprintf("Failed to parse %s file as JSON: %s", kind.name, msg), file), nil
	}

	if document.IsNull(doc) {
		return reject(kind.title+" file is empty", file), nil
	}
	if obj, ok := doc.(*document.Object); ok && obj.Len() == 0 {
		return reject(kind.title+" definition is empty", file), nil
	}

	if kind.normalize != nil {
		if doc, err = kind.normalize(doc, file); err != nil {
			return outcome{}, fmt.Errorf("normalize %s file %s: %w", kind.name, file, err)
		}
	}

	if p.strict {
		if err := validateDefinition(kind.schema, doc, file); err != nil {
			var invalid *schemaViolation
			if !errors.As(err, &invalid) {
				return outcome{}, err
			}
			return reject(kind.title+" definition is invalid: "+invalid.msg, file), nil
		}
	}

	return outcome{doc: doc}, nil
}

func reject(message, file string) outcome {
	e := NewPluginError(message, file)
	return outcome{rejected: &e}
}

// GroupName returns the part of a pipeline file name before its first '.'.
// A name without a '.' is its own group.
func GroupName(fileName string) string {
	group, _, _ := strings.Cut(fileName, ".")
	return group
}
