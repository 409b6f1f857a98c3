package jsonpath

import "errors"

// ErrNotFound indicates the bare-identifier fallback lookup failed to find
// the named property on the root value.
var ErrNotFound = errors.New("jsonpath: property not found")
