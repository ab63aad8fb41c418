// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is the sentinel wrapped by ParseError.
	ErrParse = errors.New("document parse error")
	// ErrShapeMismatch is the sentinel wrapped by ShapeError.
	ErrShapeMismatch = errors.New("document shape mismatch")
)

type (
	// ParseError reports that a file's content is not valid JSON. Message is the
	// human-readable parser diagnostic, without the file path.
	ParseError struct {
		Path    string
		Message string
	}

	// ShapeError reports that a value at Path does not have the expected shape.
	// Got is empty when the member is missing.
	ShapeError struct {
		Path string
		Want Kind
		Got  string
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns ErrParse for errors.Is compatibility.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: missing %s", e.Path, e.Want)
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Want, e.Got)
}

// Unwrap returns ErrShapeMismatch for errors.Is compatibility.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// AsObject returns v as an object, or a *ShapeError naming path.
func AsObject(v Value, path string) (*Object, error) {
	if o, ok := v.(*Object); ok {
		return o, nil
	}
	return nil, mismatch(v, path, KindObject)
}

// AsArray returns v as an array, or a *ShapeError naming path.
func AsArray(v Value, path string) (*Array, error) {
	if a, ok := v.(*Array); ok {
		return a, nil
	}
	return nil, mismatch(v, path, KindArray)
}

// ObjectMember returns the object stored under key in o.
func ObjectMember(o *Object, path, key string) (*Object, error) {
	memberPath := JoinPath(path, key)
	v, ok := o.Get(key)
	if !ok {
		return nil, &ShapeError{Path: memberPath, Want: KindObject}
	}
	return AsObject(v, memberPath)
}

// ArrayMember returns the array stored under key in o.
func ArrayMember(o *Object, path, key string) (*Array, error) {
	memberPath := JoinPath(path, key)
	v, ok := o.Get(key)
	if !ok {
		return nil, &ShapeError{Path: memberPath, Want: KindArray}
	}
	return AsArray(v, memberPath)
}

// JoinPath appends a member name to a JSON path.
func JoinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// IndexPath appends an array index to a JSON path.
func IndexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func mismatch(v Value, path string, want Kind) *ShapeError {
	if path == "" {
		path = "$"
	}
	return &ShapeError{Path: path, Want: want, Got: KindOf(v).String()}
}
