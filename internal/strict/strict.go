// Package strict evaluates queries with RFC 9535 semantics, as an
// alternative to the default best-effort engine. It delegates to
// github.com/theory/jsonpath rather than reimplementing the grammar.
package strict

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"
)

// ErrSyntax indicates the expression is not valid RFC 9535 JSONPath.
var ErrSyntax = errors.New("strict: invalid JSONPath expression")

// Evaluate compiles and runs a standard JSONPath expression against an
// already-parsed JSON value. Unlike the best-effort engine, a malformed
// expression is a hard error here.
func Evaluate(root any, expr string) ([]any, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	return append([]any{}, path.Select(root)...), nil
}
