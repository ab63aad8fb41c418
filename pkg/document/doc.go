// SPDX-License-Identifier: MPL-2.0

// Package document provides the generic tree value used for environment and
// pipeline definitions, together with the file parser that produces it.
//
// A Value is one of Null, Bool, Number, String, *Array or *Object. Arrays and
// objects have reference semantics so that normalizers can rewrite a parsed
// document in place. Objects keep their members in insertion order, which is
// the order the members appeared in the source file.
//
// Shape checks go through AsObject, AsArray and friends, which return a
// *ShapeError (wrapping ErrShapeMismatch) instead of panicking on a kind
// mismatch.
package document
