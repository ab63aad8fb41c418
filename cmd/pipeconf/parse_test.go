// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pipeconf/pipeconf/internal/config"
	"github.com/pipeconf/pipeconf/internal/issue"
	"github.com/pipeconf/pipeconf/internal/testutil"
	"github.com/pipeconf/pipeconf/pkg/configrepo"
	"github.com/pipeconf/pipeconf/pkg/document"
	"github.com/pipeconf/pipeconf/pkg/scan"

	"github.com/stretchr/testify/require"
)

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	return testutil.WriteTree(t, files)
}

func TestParse_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := writeRepo(t, map[string]string{
		"env1.goenvironment.json": `{"name":"e1"}`,
		"build.gopipeline.json":   `{"name":"p1","materials":[],"stages":[]}`,
		"broken.gopipeline.json":  `{"name":`,
	})

	stdout, _, err := runCLI(t, Dependencies{}, "parse", dir, "-o", "json")
	require.NoError(t, err)

	var resp struct {
		TargetVersion int              `json:"target_version"`
		Environments  []map[string]any `json:"environments"`
		Pipelines     []map[string]any `json:"pipelines"`
		Errors        []struct {
			Message  string `json:"message"`
			Location string `json:"location"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))

	require.Equal(t, 1, resp.TargetVersion)
	require.Len(t, resp.Environments, 1)
	require.Equal(t, "env1.goenvironment.json", resp.Environments[0]["location"])
	require.Len(t, resp.Pipelines, 1)
	require.Equal(t, "build", resp.Pipelines[0]["group"])
	require.Len(t, resp.Errors, 1)
	require.Equal(t, "broken.gopipeline.json", resp.Errors[0].Location)
	require.True(t, strings.HasPrefix(resp.Errors[0].Message, "Failed to parse pipeline file as JSON: "))
}

func TestParse_TextOutput(t *testing.T) {
	t.Parallel()

	dir := writeRepo(t, map[string]string{
		"env1.goenvironment.json": `{"name":"e1"}`,
		"empty.gopipeline.json":   ``,
	})

	stdout, _, err := runCLI(t, Dependencies{}, "parse", dir)
	require.NoError(t, err)

	require.Contains(t, stdout, "Environments (1)")
	require.Contains(t, stdout, "env1.goenvironment.json")
	require.Contains(t, stdout, "Pipelines (0)")
	require.Contains(t, stdout, "Errors (1)")
	require.Contains(t, stdout, "Pipeline file is empty")
	require.Contains(t, stdout, "1 environment(s), 0 pipeline(s), 1 error(s)")
}

func TestParse_YAMLOutputFromConfig(t *testing.T) {
	t.Parallel()

	dir := writeRepo(t, map[string]string{
		"env1.goenvironment.json": `{"name":"e1"}`,
	})
	cfg := config.DefaultConfig()
	cfg.Output = config.OutputYAML
	cfg.TargetVersion = 3

	stdout, _, err := runCLI(t, Dependencies{Config: &stubConfigProvider{cfg: cfg}}, "parse", dir)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "target_version: 3\nenvironments:\n"), stdout)
	require.Contains(t, stdout, "location: env1.goenvironment.json")
}

func TestParse_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	dir := writeRepo(t, map[string]string{
		"ci/p.pipe.json": `{"name":"p"}`,
		"ci/e.env.json":  `{"name":"e"}`,
	})

	stdout, _, err := runCLI(t, Dependencies{}, "parse", dir,
		"--pipeline-pattern", "**/*.pipe.json",
		"--environment-pattern", "**/*.env.json",
		"--output", "json")
	require.NoError(t, err)

	var resp map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp["pipelines"], 1)
	require.Equal(t, "ci/p", resp["pipelines"][0]["group"])
	require.Len(t, resp["environments"], 1)
}

func TestParse_StrictRejectsIncompletePipeline(t *testing.T) {
	t.Parallel()

	dir := writeRepo(t, map[string]string{
		"p.gopipeline.json": `{"name":"p1","materials":[],"stages":[]}`,
	})

	stdout, _, err := runCLI(t, Dependencies{}, "parse", dir, "--strict", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, stdout, "Pipeline definition is invalid")
}

func TestParse_FailOnErrors(t *testing.T) {
	t.Parallel()

	dir := writeRepo(t, map[string]string{
		"bad.goenvironment.json": `null`,
	})

	_, _, err := runCLI(t, Dependencies{}, "parse", dir, "--fail-on-errors")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitDefinitionErrors, exitErr.Code)

	_, _, err = runCLI(t, Dependencies{}, "parse", dir)
	require.NoError(t, err, "errors in files are not a command failure without --fail-on-errors")
}

func TestParse_InvalidOutputFlag(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, Dependencies{}, "parse", t.TempDir(), "-o", "xml")
	require.ErrorIs(t, err, config.ErrInvalidOutputFormat)
	require.Contains(t, stderr, "invalid output format")
}

func TestParse_MissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope")
	_, stderr, err := runCLI(t, Dependencies{}, "parse", missing, "--verbose")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitFailure, exitErr.Code)

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, issue.DirectoryNotFoundId, ae.Guide)
	require.Contains(t, stderr, "failed to parse config repository")
}

type failingParser struct{ err error }

func (f failingParser) Parse(context.Context, ParseRequest) (*configrepo.Collection, error) {
	return nil, f.err
}

func TestClassifyParseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{name: "pattern", err: fmt.Errorf("scan: %w", scan.ErrInvalidPattern), want: issue.InvalidPatternId},
		{name: "missing", err: fmt.Errorf("scan: %w", os.ErrNotExist), want: issue.DirectoryNotFoundId},
		{name: "permission", err: fmt.Errorf("read: %w", os.ErrPermission), want: issue.PermissionDeniedId},
		{name: "shape", err: &document.ShapeError{Path: "stages", Want: document.KindArray, Got: "object"}, want: issue.ShapeMismatchId},
		{name: "other", err: errors.New("boom"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ae *issue.ActionableError
			require.ErrorAs(t, classifyParseError("ci", tt.err), &ae)
			require.Equal(t, tt.want, ae.Guide)
			require.Equal(t, "ci", ae.Resource)
			require.ErrorIs(t, ae, tt.err)
		})
	}

	require.ErrorIs(t, classifyParseError("ci", context.Canceled), context.Canceled)
}

func TestParse_ShapeMismatchAborts(t *testing.T) {
	t.Parallel()

	shapeErr := fmt.Errorf("normalize pipeline file p.gopipeline.json: %w",
		&document.ShapeError{Path: "stages[0].approval", Want: document.KindObject})

	_, stderr, err := runCLI(t, Dependencies{Parser: failingParser{err: shapeErr}}, "parse", ".")
	require.ErrorIs(t, err, document.ErrShapeMismatch)
	require.Contains(t, stderr, "stages[0].approval: missing object")
	require.Contains(t, stderr, "Fix the section named in the error")
}
