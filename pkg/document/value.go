// SPDX-License-Identifier: MPL-2.0

package document

import (
	"iter"
	"slices"
)

const (
	// KindNull is the JSON null value.
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is a JSON number.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object.
	KindObject
)

type (
	// Kind identifies the variant held by a Value.
	Kind int

	// Value is a node of a document tree. The set of implementations is closed.
	Value interface {
		Kind() Kind
		sealed()
	}

	// Null is the JSON null value.
	Null struct{}

	// Bool is a JSON boolean.
	Bool bool

	// Number is a JSON number, kept as its literal text so no precision is lost.
	Number string

	// String is a JSON string.
	String string

	// Array is an ordered list of values.
	Array struct {
		items []Value
	}

	// Object is an ordered set of members. Setting an existing key replaces the
	// value in place; setting a new key appends it.
	Object struct {
		keys    []string
		members map[string]Value
	}
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (*Array) Kind() Kind  { return KindArray }
func (*Object) Kind() Kind { return KindObject }

func (Null) sealed()    {}
func (Bool) sealed()    {}
func (Number) sealed()  {}
func (String) sealed()  {}
func (*Array) sealed()  {}
func (*Object) sealed() {}

// KindOf returns the kind of v, treating a nil Value as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// IsNull reports whether v is absent or the null value.
func IsNull(v Value) bool {
	return KindOf(v) == KindNull
}

// NewArray returns an array holding items.
func NewArray(items ...Value) *Array {
	return &Array{items: slices.Clone(items)}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at index i. It panics if i is out of range.
func (a *Array) At(i int) Value {
	return a.items[i]
}

// Append adds values to the end of the array.
func (a *Array) Append(values ...Value) {
	a.items = append(a.items, values...)
}

// All iterates over the elements with their indices.
func (a *Array) All() iter.Seq2[int, Value] {
	return slices.All(a.items)
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{members: make(map[string]Value)}
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Get returns the member named key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.members[key]
	return v, ok
}

// Has reports whether the object has a member named key.
func (o *Object) Has(key string) bool {
	_, ok := o.members[key]
	return ok
}

// Set stores v under key.
func (o *Object) Set(key string, v Value) {
	if o.members == nil {
		o.members = make(map[string]Value)
	}
	if v == nil {
		v = Null{}
	}
	if _, exists := o.members[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.members[key] = v
}

// Delete removes the member named key, if present.
func (o *Object) Delete(key string) {
	if _, exists := o.members[key]; !exists {
		return
	}
	delete(o.members, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Keys returns the member names in order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// All iterates over the members in order. The iteration works on a snapshot
// of the key list, so the object may be modified while iterating.
func (o *Object) All() iter.Seq2[string, Value] {
	keys := slices.Clone(o.keys)
	return func(yield func(string, Value) bool) {
		for _, k := range keys {
			v, ok := o.members[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Clone returns a deep copy of v. Scalars are returned as is.
func Clone(v Value) Value {
	switch x := v.(type) {
	case *Array:
		out := &Array{items: make([]Value, len(x.items))}
		for i, item := range x.items {
			out.items[i] = Clone(item)
		}
		return out
	case *Object:
		out := &Object{
			keys:    slices.Clone(x.keys),
			members: make(map[string]Value, len(x.members)),
		}
		for k, member := range x.members {
			out.members[k] = Clone(member)
		}
		return out
	case nil:
		return Null{}
	default:
		return v
	}
}

// Equal reports whether a and b are the same tree. Object member order is
// significant.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch x := a.(type) {
	case *Array:
		y := b.(*Array)
		return slices.EqualFunc(x.items, y.items, Equal)
	case *Object:
		y := b.(*Object)
		if !slices.Equal(x.keys, y.keys) {
			return false
		}
		for _, k := range x.keys {
			if !Equal(x.members[k], y.members[k]) {
				return false
			}
		}
		return true
	case nil, Null:
		return true
	default:
		return a == b
	}
}
