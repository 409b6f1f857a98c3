package jsonpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Two-character operators listed first so ">=" is not read as ">".
var filterOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// filterPass decides whether one array member passes a bracket filter.
// Only single comparisons of the shape `@.name <op> <literal>` are
// recognized; anything else defaults to pass, so an unrecognized filter
// never excludes a candidate. Internal failures also resolve to pass.
func filterPass(v any, raw string) (pass bool) {
	defer func() {
		if recover() != nil {
			pass = true
		}
	}()

	expr := strings.TrimSpace(raw)
	expr = strings.TrimPrefix(expr, "?")
	expr = strings.TrimPrefix(expr, "(")
	expr = strings.TrimSuffix(expr, ")")

	at := strings.Index(expr, "@.")
	if at < 0 {
		return true
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return true
	}

	rest := expr[at+2:]
	name := readWord(rest)
	if name == "" {
		return true
	}
	rest = strings.TrimSpace(rest[len(name):])

	var op string
	for _, candidate := range filterOps {
		if strings.HasPrefix(rest, candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return true
	}

	literal := unquote(strings.TrimSpace(rest[len(op):]))
	return compare(obj[name], op, literal)
}

// readWord consumes a run of word characters.
func readWord(s string) string {
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	return s[:i]
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

// compare applies loose, coercive comparison semantics: a numeric literal
// forces numeric comparison (so 5 equals "5"), otherwise both sides
// compare as strings. Ordering operators assume numbers and resolve to
// false when the candidate's value is not numeric.
func compare(value any, op, literal string) bool {
	if lit, err := strconv.ParseFloat(literal, 64); err == nil {
		num, numeric := toFloat64(value)
		switch op {
		case "==":
			return numeric && num == lit
		case "!=":
			return !numeric || num != lit
		case ">":
			return numeric && num > lit
		case "<":
			return numeric && num < lit
		case ">=":
			return numeric && num >= lit
		case "<=":
			return numeric && num <= lit
		}
		return true
	}

	s := fmt.Sprint(value)
	switch op {
	case "==":
		return s == literal
	case "!=":
		return s != literal
	}
	return false
}

// toFloat64 coerces the shapes a document loader can produce for numbers,
// numeric strings included.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
