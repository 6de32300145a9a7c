package simpleorm

import "reflect"

// isNil reports if an interface value holds nothing or a nil pointer.
func isNil[T any](v T) bool {
	if any(v) == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// RefEqual compares two entity references. When id is non-nil, references
// are equal if both are nil or both identifiers are equal. Without an id
// function, references are compared by identity.
//
// Comparing through identifiers keeps equality shallow, so cyclic entity
// graphs never recurse.
func RefEqual[T any](a, b T, id func(T) int64) bool {
	switch an, bn := isNil(a), isNil(b); {
	case an || bn:
		return an == bn
	case id != nil:
		return id(a) == id(b)
	default:
		return any(a) == any(b)
	}
}

// RefsEqual compares two lists of entity references element-wise.
func RefsEqual[T any](a, b []T, id func(T) int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !RefEqual(a[i], b[i], id) {
			return false
		}
	}
	return true
}

// Ref adds an entity reference to h, consistent with RefEqual.
func Ref[T any](h *Hasher, v T, id func(T) int64) *Hasher {
	if isNil(v) {
		return h.Present(false)
	}
	h.Present(true)
	if id != nil {
		h.Int64(id(v))
	}
	return h
}

// Refs adds a list of entity references to h, consistent with RefsEqual.
func Refs[T any](h *Hasher, vs []T, id func(T) int64) *Hasher {
	h.Len(len(vs))
	for _, v := range vs {
		Ref(h, v, id)
	}
	return h
}
