// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Environment: {
	name!: string & !=""
	pipelines?: [...string]
	...
}
`

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "valid", data: `{"name": "e1", "pipelines": ["p1"]}`},
		{name: "extra fields allowed", data: `{"name": "e1", "agents": []}`},
		{name: "missing name", data: `{"pipelines": []}`, wantErr: "name"},
		{name: "empty name", data: `{"name": ""}`, wantErr: "name"},
		{name: "wrong type", data: `{"name": "e1", "pipelines": [1]}`, wantErr: "pipelines[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate([]byte(testSchema), []byte(tt.data), "#Environment", WithFilename("env.json"))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) || !strings.HasPrefix(err.Error(), "env.json: ") {
				t.Errorf("Validate() error = %q, want path %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompileSchema_UnknownDefinition(t *testing.T) {
	t.Parallel()

	if _, err := CompileSchema([]byte(testSchema), "#Pipeline"); err == nil {
		t.Error("CompileSchema() expected error for unknown definition")
	}
}

func TestSchema_ValidateSizeLimit(t *testing.T) {
	t.Parallel()

	s, err := CompileSchema([]byte(testSchema), "#Environment")
	if err != nil {
		t.Fatal(err)
	}
	err = s.Validate([]byte(`{"name": "e1"}`), WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("Validate() error = %v, want size error", err)
	}
}

func TestSchema_DecodeNonConcrete(t *testing.T) {
	t.Parallel()

	s, err := CompileSchema([]byte(testSchema), "#Environment")
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	err = s.Decode([]byte(`name: "e1"`), &got, WithConcrete(false), WithFilename("config.cue"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got["name"] != "e1" {
		t.Errorf("Decode() = %v, want name e1", got)
	}

	if err := s.Decode([]byte(`name: 3`), &got, WithFilename("config.cue")); err == nil {
		t.Error("Decode() accepted a value that violates the schema")
	}
}
