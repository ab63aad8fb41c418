// SPDX-License-Identifier: MPL-2.0

package fixup

import (
	"errors"
	"testing"

	"github.com/pipeconf/pipeconf/pkg/document"
)

const wellFormedPipeline = `{
  "name": "build",
  "group": "old",
  "materials": [
    {"attributes": {"type": "git", "url": "https://example.com/repo.git"}, "name": "src"}
  ],
  "stages": [
    {
      "name": "compile",
      "approval": {"type": "success", "authorization": {"roles": ["dev"], "users": []}},
      "jobs": [
        {
          "name": "make",
          "tasks": [
            {"attributes": {"command": "make", "run_if": ["passed"]}},
            {"attributes": {"command": "notify", "run_if": ["passed", "failed"]}, "type": "exec"}
          ]
        }
      ]
    }
  ]
}`

func mustParse(t *testing.T, src string) document.Value {
	t.Helper()
	v, err := document.Parse("pipeline.json", []byte(src))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return v
}

func mustEncode(t *testing.T, v document.Value) string {
	t.Helper()
	out, err := document.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(out)
}

func TestNormalize_WellFormedPipeline(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, wellFormedPipeline)
	got, err := Normalize(doc, "pipe1")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != doc {
		t.Error("Normalize() must return the document it was given")
	}

	want := `{"name":"build","group":"pipe1",` +
		`"materials":[{"name":"src","type":"git","url":"https://example.com/repo.git"}],` +
		`"stages":[{"name":"compile","approval":{"type":"success","roles":["dev"],"users":[]},` +
		`"jobs":[{"name":"make","tasks":[` +
		`{"command":"make","run_if":"passed"},` +
		`{"type":"exec","command":"notify","run_if":"passed"}]}]}]}`
	if enc := mustEncode(t, got); enc != want {
		t.Errorf("Normalize() =\n%s\nwant\n%s", enc, want)
	}
}

func TestNormalize_MaterialAttributesHoisted(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"materials": [{"attributes": {"type": "git"}, "other": "x"}], "stages": []}`)
	got, err := Normalize(doc, "pipe1")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"materials":[{"other":"x","type":"git"}],"stages":[],"group":"pipe1"}`
	if enc := mustEncode(t, got); enc != want {
		t.Errorf("Normalize() = %s, want %s", enc, want)
	}
}

func TestNormalize_RunIf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		runIf string
		want  string
	}{
		{name: "single condition is unwrapped", runIf: `["passed"]`, want: `"passed"`},
		// Only the first condition survives; the rest are dropped.
		{name: "extra conditions are dropped", runIf: `["passed", "failed"]`, want: `"passed"`},
		{name: "first entry kept whatever its type", runIf: `[["any"]]`, want: `["any"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, `{"materials": [], "stages": [{"approval": {"authorization": {}},
				"jobs": [{"tasks": [{"attributes": {"run_if": `+tt.runIf+`}}]}]}]}`)
			got, err := Normalize(doc, "g")
			if err != nil {
				t.Fatal(err)
			}
			root, _ := document.AsObject(got, "")
			stages, _ := document.ArrayMember(root, "", "stages")
			stage, _ := document.AsObject(stages.At(0), "")
			jobs, _ := document.ArrayMember(stage, "", "jobs")
			job, _ := document.AsObject(jobs.At(0), "")
			tasks, _ := document.ArrayMember(job, "", "tasks")
			task, _ := document.AsObject(tasks.At(0), "")

			runIf, ok := task.Get("run_if")
			if !ok {
				t.Fatal("run_if not hoisted onto task")
			}
			if enc := mustEncode(t, runIf); enc != tt.want {
				t.Errorf("run_if = %s, want %s", enc, tt.want)
			}
			if task.Has("attributes") {
				t.Error("attributes envelope not removed")
			}
		})
	}
}

func TestNormalize_CollisionOverwrites(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"materials": [{"type": "svn", "attributes": {"type": "git"}}], "stages": [
		{"approval": {"type": "manual", "authorization": {"type": "success"}}, "jobs": []}]}`)
	got, err := Normalize(doc, "g")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"materials":[{"type":"git"}],"stages":[{"approval":{"type":"success"},"jobs":[]}],"group":"g"}`
	if enc := mustEncode(t, got); enc != want {
		t.Errorf("Normalize() = %s, want %s", enc, want)
	}
}

func TestNormalize_ShapeMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{name: "not an object", doc: `["x"]`, wantPath: "$"},
		{name: "missing materials", doc: `{"stages": []}`, wantPath: "materials"},
		{name: "materials not array", doc: `{"materials": {}, "stages": []}`, wantPath: "materials"},
		{name: "material not object", doc: `{"materials": ["git"], "stages": []}`, wantPath: "materials[0]"},
		{name: "material without attributes", doc: `{"materials": [{"type": "git"}], "stages": []}`, wantPath: "materials[0].attributes"},
		{name: "missing stages", doc: `{"materials": []}`, wantPath: "stages"},
		{name: "missing approval", doc: `{"materials": [], "stages": [{"jobs": []}]}`, wantPath: "stages[0].approval"},
		{
			name:     "missing authorization",
			doc:      `{"materials": [], "stages": [{"approval": {"type": "success"}, "jobs": []}]}`,
			wantPath: "stages[0].approval.authorization",
		},
		{
			name:     "missing jobs",
			doc:      `{"materials": [], "stages": [{"approval": {"authorization": {}}}]}`,
			wantPath: "stages[0].jobs",
		},
		{
			name:     "missing tasks",
			doc:      `{"materials": [], "stages": [{"approval": {"authorization": {}}, "jobs": [{}]}]}`,
			wantPath: "stages[0].jobs[0].tasks",
		},
		{
			name:     "task without attributes",
			doc:      `{"materials": [], "stages": [{"approval": {"authorization": {}}, "jobs": [{"tasks": [{"type": "exec"}]}]}]}`,
			wantPath: "stages[0].jobs[0].tasks[0].attributes",
		},
		{
			name:     "run_if not an array",
			doc:      `{"materials": [], "stages": [{"approval": {"authorization": {}}, "jobs": [{"tasks": [{"attributes": {"run_if": "passed"}}]}]}]}`,
			wantPath: "stages[0].jobs[0].tasks[0].attributes.run_if",
		},
		{
			name:     "run_if empty",
			doc:      `{"materials": [], "stages": [{"approval": {"authorization": {}}, "jobs": [{"tasks": [{"attributes": {"run_if": []}}]}]}]}`,
			wantPath: "stages[0].jobs[0].tasks[0].attributes.run_if[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Normalize(mustParse(t, tt.doc), "g")
			if !errors.Is(err, document.ErrShapeMismatch) {
				t.Fatalf("Normalize() error = %v, want ErrShapeMismatch", err)
			}
			var se *document.ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("Normalize() error %T is not *document.ShapeError", err)
			}
			if se.Path != tt.wantPath {
				t.Errorf("ShapeError.Path = %q, want %q", se.Path, tt.wantPath)
			}
		})
	}
}

func TestMergeInto(t *testing.T) {
	t.Parallel()

	parent := document.NewObject()
	parent.Set("keep", document.Number("1"))
	parent.Set("attributes", func() document.Value {
		attrs := document.NewObject()
		attrs.Set("keep", document.Number("2"))
		attrs.Set("added", document.Bool(true))
		attrs.Set("attributes", document.String("self"))
		return attrs
	}())

	if err := mergeInto(parent, "", "attributes", nil); err != nil {
		t.Fatal(err)
	}
	if enc := mustEncode(t, parent); enc != `{"keep":2,"added":true}` {
		t.Errorf("mergeInto() = %s", enc)
	}
}
