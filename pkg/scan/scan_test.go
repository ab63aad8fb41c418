// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"repo/build.gopipeline.json":          {Data: []byte(`{}`)},
		"repo/a/deploy.gopipeline.json":       {Data: []byte(`{}`)},
		"repo/a/b/test.gopipeline.json":       {Data: []byte(`{}`)},
		"repo/staging.goenvironment.json":     {Data: []byte(`{}`)},
		"repo/notes.txt":                      {Data: []byte(`x`)},
		"repo/dir.gopipeline.json/inner.json": {Data: []byte(`{}`)},
	}
}

func TestFilesMatchingPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "recursive pipelines",
			pattern: "**/*.gopipeline.json",
			want:    []string{"a/b/test.gopipeline.json", "a/deploy.gopipeline.json", "build.gopipeline.json"},
		},
		{
			name:    "top level only",
			pattern: "*.gopipeline.json",
			want:    []string{"build.gopipeline.json"},
		},
		{
			name:    "environments",
			pattern: "**/*.goenvironment.json",
			want:    []string{"staging.goenvironment.json"},
		},
		{
			name:    "no match",
			pattern: "**/*.yaml",
			want:    nil,
		},
	}

	s := NewFS(testFS())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.FilesMatchingPattern("repo", tt.pattern)
			if err != nil {
				t.Fatalf("FilesMatchingPattern() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("FilesMatchingPattern(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestFilesMatchingPattern_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFS(testFS()).FilesMatchingPattern("repo", "[unclosed")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}

func TestFilesMatchingPattern_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"env1.json", "pipe1.group.json", filepath.Join("sub", "pipe2.group.json")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := New().FilesMatchingPattern(dir, "**/*.group.json")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"pipe1.group.json", "sub/pipe2.group.json"}
	if !slices.Equal(got, want) {
		t.Errorf("FilesMatchingPattern() = %v, want %v", got, want)
	}

	_, err = New().FilesMatchingPattern(filepath.Join(dir, "missing"), "*.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing base dir error = %v, want fs.ErrNotExist", err)
	}
}
