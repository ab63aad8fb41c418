// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pipeconf/pipeconf/pkg/cueutil"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
)

var utf8BOM = []byte("\xef\xbb\xbf")

type (
	// Parser reads files into document trees.
	Parser struct {
		maxFileSize int64
	}

	// ParserOption configures a Parser.
	ParserOption func(*Parser)
)

// WithMaxFileSize caps the number of bytes a single file may hold.
func WithMaxFileSize(n int64) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.maxFileSize = n
		}
	}
}

// NewParser creates a Parser with the default file size limit.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxFileSize: cueutil.DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads and parses the file at path. An empty or whitespace-only
// file yields Null. Invalid JSON yields a *ParseError; read failures are
// returned as is.
func (p *Parser) ParseFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, data)
}

// Parse parses data, using name for positions in error messages.
func (p *Parser) Parse(name string, data []byte) (Value, error) {
	if err := cueutil.CheckFileSize(data, p.maxFileSize, name); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error()}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return Null{}, nil
	}

	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return nil, &ParseError{Path: name, Message: err.Error()}
	}

	v, err := fromExpr(expr)
	if err != nil {
		return nil, &ParseError{Path: name, Message: err.Error()}
	}
	return v, nil
}

// Parse parses data with a default Parser.
func Parse(name string, data []byte) (Value, error) {
	return NewParser().Parse(name, data)
}

// fromExpr converts the CUE syntax tree of a JSON document into a Value.
func fromExpr(expr ast.Expr) (Value, error) {
	switch x := expr.(type) {
	case *ast.StructLit:
		obj := NewObject()
		for _, decl := range x.Elts {
			if _, isComment := decl.(*ast.CommentGroup); isComment {
				continue
			}
			field, ok := decl.(*ast.Field)
			if !ok {
				return nil, fmt.Errorf("%s: unexpected %T in object", decl.Pos(), decl)
			}
			name, _, err := ast.LabelName(field.Label)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", field.Pos(), err)
			}
			v, err := fromExpr(field.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(name, v)
		}
		return obj, nil

	case *ast.ListLit:
		arr := &Array{items: make([]Value, 0, len(x.Elts))}
		for _, elt := range x.Elts {
			v, err := fromExpr(elt)
			if err != nil {
				return nil, err
			}
			arr.items = append(arr.items, v)
		}
		return arr, nil

	case *ast.BasicLit:
		return fromLiteral(x)

	case *ast.UnaryExpr:
		lit, ok := x.X.(*ast.BasicLit)
		if ok && x.Op == token.SUB && (lit.Kind == token.INT || lit.Kind == token.FLOAT) {
			return Number("-" + lit.Value), nil
		}
		return nil, fmt.Errorf("%s: unexpected unary expression", x.Pos())

	case *ast.Ident:
		switch x.Name {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("%s: unexpected identifier %q", x.Pos(), x.Name)

	case *ast.ParenExpr:
		return fromExpr(x.X)
	}

	return nil, fmt.Errorf("%s: unexpected %T", expr.Pos(), expr)
}

func fromLiteral(lit *ast.BasicLit) (Value, error) {
	switch lit.Kind {
	case token.NULL:
		return Null{}, nil
	case token.TRUE:
		return Bool(true), nil
	case token.FALSE:
		return Bool(false), nil
	case token.INT, token.FLOAT:
		return Number(lit.Value), nil
	case token.STRING:
		s, err := literal.Unquote(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lit.Pos(), err)
		}
		return String(s), nil
	}
	return nil, fmt.Errorf("%s: unexpected literal %s", lit.Pos(), lit.Value)
}
