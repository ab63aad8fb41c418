// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled CUE schema that can validate many inputs.
type Schema struct {
	ctx  *cue.Context
	root cue.Value
	path string
}

// CompileSchema compiles schema and looks up the definition at path
// (for example "#Pipeline").
func CompileSchema(schema []byte, path string) (*Schema, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(path))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", path, root.Err())
	}

	return &Schema{ctx: ctx, root: root, path: path}, nil
}

// Validate checks data (CUE or JSON) against the schema definition.
func (s *Schema) Validate(data []byte, opts ...Option) error {
	_, _, err := s.unify(data, opts)
	return err
}

// Decode validates data against the schema definition and decodes the
// unified value into target.
func (s *Schema) Decode(data []byte, target any, opts ...Option) error {
	unified, filename, err := s.unify(data, opts)
	if err != nil {
		return err
	}
	if err := unified.Decode(target); err != nil {
		return FormatError(err, filename)
	}
	return nil
}

func (s *Schema) unify(data []byte, opts []Option) (cue.Value, string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, filename, err
	}

	userValue := s.ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, filename, FormatError(userValue.Err(), filename)
	}

	unified := s.root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, filename, FormatError(err, filename)
	}
	return unified, filename, nil
}

// Validate compiles schema and checks data against the definition at path.
// Use CompileSchema when validating more than one input.
func Validate(schema, data []byte, path string, opts ...Option) error {
	s, err := CompileSchema(schema, path)
	if err != nil {
		return err
	}
	return s.Validate(data, opts...)
}
