// SPDX-License-Identifier: MPL-2.0

package configrepo

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pipeconf/pipeconf/pkg/cueutil"
	"github.com/pipeconf/pipeconf/pkg/document"
)

const (
	environmentDefinition = "#Environment"
	pipelineDefinition    = "#Pipeline"
)

//go:embed definitions_schema.cue
var definitionsSchema []byte

// schemaViolation is a definition that does not match its CUE schema.
type schemaViolation struct {
	msg string
}

func (e *schemaViolation) Error() string { return e.msg }

var compiledSchemas = sync.OnceValues(func() (map[string]*cueutil.Schema, error) {
	schemas := make(map[string]*cueutil.Schema, 2)
	for _, def := range []string{environmentDefinition, pipelineDefinition} {
		s, err := cueutil.CompileSchema(definitionsSchema, def)
		if err != nil {
			return nil, err
		}
		schemas[def] = s
	}
	return schemas, nil
})

// validateDefinition checks doc against the schema definition. A mismatch is
// returned as *schemaViolation; anything else is an internal failure.
func validateDefinition(definition string, doc document.Value, fileName string) error {
	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}
	schema, ok := schemas[definition]
	if !ok {
		return fmt.Errorf("internal error: unknown schema definition %s", definition)
	}

	data, err := document.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s for validation: %w", fileName, err)
	}

	if err := schema.Validate(data, cueutil.WithFilename(fileName), cueutil.WithMaxFileSize(int64(len(data)))); err != nil {
		return &schemaViolation{msg: strings.TrimPrefix(err.Error(), fileName+": ")}
	}
	return nil
}
