// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_EmptyContentIsNull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "whitespace", data: " \n\t  \r\n"},
		{name: "byte order mark", data: "\xef\xbb\xbf\n"},
		{name: "literal null", data: "null"},
		{name: "null with whitespace", data: "  null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := Parse("env.json", []byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !IsNull(v) {
				t.Errorf("Parse() = %v (%s), want null", v, KindOf(v))
			}
		})
	}
}

func TestParse_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data string
		want Value
	}{
		{data: `true`, want: Bool(true)},
		{data: `false`, want: Bool(false)},
		{data: `42`, want: Number("42")},
		{data: `-7`, want: Number("-7")},
		{data: `1.50e3`, want: Number("1.50e3")},
		{data: `"hello"`, want: String("hello")},
		{data: `"tab\tand é"`, want: String("tab\tand é")},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			t.Parallel()

			got, err := Parse("scalar.json", []byte(tt.data))
			if err != nil {
				t.Fatalf("Parse(%s) error = %v", tt.data, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Parse(%s) = %#v, want %#v", tt.data, got, tt.want)
			}
		})
	}
}

func TestParse_PreservesMemberOrder(t *testing.T) {
	t.Parallel()

	data := `{"zeta": 1, "alpha": {"b": [1, 2, {"c": null}], "a": "x"}, "run_if": "passed"}`
	v, err := Parse("pipe.json", []byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	obj, err := AsObject(v, "")
	if err != nil {
		t.Fatalf("AsObject() error = %v", err)
	}
	if got := strings.Join(obj.Keys(), ","); got != "zeta,alpha,run_if" {
		t.Errorf("Keys() = %s, want zeta,alpha,run_if", got)
	}

	encoded, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{"zeta":1,"alpha":{"b":[1,2,{"c":null}],"a":"x"},"run_if":"passed"}`
	if string(encoded) != want {
		t.Errorf("Encode() = %s, want %s", encoded, want)
	}
}

func TestParse_DuplicateKeyKeepsLastValue(t *testing.T) {
	t.Parallel()

	v, err := Parse("dup.json", []byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	encoded, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(encoded) != `{"a":3,"b":2}` {
		t.Errorf("Encode() = %s, want {\"a\":3,\"b\":2}", encoded)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "unterminated object", data: `{"name": "e1"`},
		{name: "trailing comma", data: `{"name": "e1",}`},
		{name: "bare word", data: `pipeline`},
		{name: "cue syntax", data: `name: "e1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("broken.json", []byte(tt.data))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("Parse() error %v does not wrap ErrParse", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error %T is not *ParseError", err)
			}
			if pe.Path != "broken.json" {
				t.Errorf("ParseError.Path = %q, want broken.json", pe.Path)
			}
			if pe.Message == "" {
				t.Error("ParseError.Message is empty")
			}
		})
	}
}

func TestParser_MaxFileSize(t *testing.T) {
	t.Parallel()

	p := NewParser(WithMaxFileSize(8))
	_, err := p.Parse("big.json", []byte(`{"name": "too long"}`))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Parse() error = %v, want ErrParse", err)
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error %q does not mention the size limit", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "env1.goenvironment.json")
	if err := os.WriteFile(path, []byte(`{"name":"e1"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := NewParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	obj, err := AsObject(v, "")
	if err != nil {
		t.Fatalf("AsObject() error = %v", err)
	}
	if name, _ := obj.Get("name"); !Equal(name, String("e1")) {
		t.Errorf("name = %v, want e1", name)
	}

	_, err = NewParser().ParseFile(filepath.Join(dir, "missing.json"))
	if err == nil {
		t.Fatal("ParseFile() expected error for missing file")
	}
	if errors.Is(err, ErrParse) {
		t.Error("read failure must not be reported as a parse error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile() error = %v, want os.ErrNotExist", err)
	}
}
