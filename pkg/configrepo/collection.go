// SPDX-License-Identifier: MPL-2.0

package configrepo

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/pipeconf/pipeconf/pkg/document"
)

// LocationKey is the member added to every definition in the response
// document to record its source file.
const LocationKey = "location"

type (
	// PluginError is a recoverable failure tied to one source file.
	PluginError struct {
		message  string
		fileName string
	}

	// Entry is an accepted definition and the file it was read from.
	Entry struct {
		Document document.Value
		FileName string
	}

	// Collection is the result of parsing one configuration directory. It is
	// append-only: definitions and errors are kept in the order they were added.
	Collection struct {
		environments []Entry
		pipelines    []Entry
		errors       []PluginError
	}
)

// NewPluginError creates a PluginError for fileName.
func NewPluginError(message, fileName string) PluginError {
	return PluginError{message: message, fileName: fileName}
}

// Message returns the human-readable description.
func (e PluginError) Message() string { return e.message }

// FileName returns the source file, relative to the parsed directory.
func (e PluginError) FileName() string { return e.fileName }

// Error implements the error interface.
func (e PluginError) Error() string {
	return e.fileName + ": " + e.message
}

// MarshalJSON encodes the error as {"message": ..., "location": ...}.
func (e PluginError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	}{e.message, e.fileName})
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{}
}

// AddEnvironment appends an accepted environment definition.
func (c *Collection) AddEnvironment(doc document.Value, fileName string) {
	c.environments = append(c.environments, Entry{Document: doc, FileName: fileName})
}

// AddPipeline appends an accepted, normalized pipeline definition.
func (c *Collection) AddPipeline(doc document.Value, fileName string) {
	c.pipelines = append(c.pipelines, Entry{Document: doc, FileName: fileName})
}

// AddError appends a recoverable error.
func (c *Collection) AddError(err PluginError) {
	c.errors = append(c.errors, err)
}

// Environments returns the accepted environment definitions in scan order.
func (c *Collection) Environments() []Entry {
	return slices.Clone(c.environments)
}

// Pipelines returns the accepted pipeline definitions in scan order.
func (c *Collection) Pipelines() []Entry {
	return slices.Clone(c.pipelines)
}

// Errors returns the recorded errors in discovery order.
func (c *Collection) Errors() []PluginError {
	return slices.Clone(c.errors)
}

// HasErrors reports whether any file was rejected.
func (c *Collection) HasErrors() bool {
	return len(c.errors) > 0
}

// Response builds the plugin response document:
//
//	{"target_version": N, "environments": [...], "pipelines": [...], "errors": [...]}
//
// Object definitions are copied and given a "location" member naming their
// source file; the documents held by c are not modified.
func (c *Collection) Response(targetVersion int) *document.Object {
	resp := document.NewObject()
	resp.Set("target_version", document.Number(strconv.Itoa(targetVersion)))
	resp.Set("environments", locatedEntries(c.environments))
	resp.Set("pipelines", locatedEntries(c.pipelines))

	errs := document.NewArray()
	for _, e := range c.errors {
		obj := document.NewObject()
		obj.Set("message", document.String(e.message))
		obj.Set(LocationKey, document.String(e.fileName))
		errs.Append(obj)
	}
	resp.Set("errors", errs)
	return resp
}

func locatedEntries(entries []Entry) *document.Array {
	out := document.NewArray()
	for _, entry := range entries {
		doc := document.Clone(entry.Document)
		if obj, ok := doc.(*document.Object); ok {
			obj.Set(LocationKey, document.String(entry.FileName))
		}
		out.Append(doc)
	}
	return out
}
