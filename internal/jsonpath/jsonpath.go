package jsonpath

import (
	"fmt"
	"strings"
)

// Evaluate applies a JSONPath-like expression to an already-parsed JSON
// value and returns every matched sub-value in discovery order.
//
// The evaluation is pure and reentrant: root is never mutated, no state
// survives the call, and concurrent callers need no coordination.
//
// An empty or whitespace-only path is the no-op query and matches nothing.
// A path of exactly "$" or "@" matches the root value itself. Any failure
// is converted to the returned error; Evaluate never panics.
func Evaluate(root any, path string) (matches []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = []any{}
			err = fmt.Errorf("%v", r)
		}
	}()

	path = strings.TrimSpace(path)
	if path == "" {
		return []any{}, nil
	}
	if path == "$" || path == "@" {
		return []any{root}, nil
	}

	// Alternate root sigils, never property names.
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, "@")

	segs := split(path)
	if len(segs) == 0 {
		return lookupRoot(root, path)
	}

	working := []any{root}
	for _, seg := range segs {
		var next []any
		for _, v := range working {
			next = seg.apply(v, next)
		}
		if len(next) == 0 {
			// Nothing left to thread through the remaining segments.
			return []any{}, nil
		}
		working = next
	}

	return working, nil
}

// lookupRoot handles paths that contain no recognizable segment, such as a
// bare identifier with no leading dot. It is a single-level lookup on the
// root value only.
func lookupRoot(root any, name string) ([]any, error) {
	if name == "" {
		return []any{}, nil
	}

	if obj, ok := root.(map[string]any); ok {
		if v, exists := obj[name]; exists {
			return []any{v}, nil
		}
	}

	return []any{}, fmt.Errorf("%w: '%s' on root value", ErrNotFound, name)
}
