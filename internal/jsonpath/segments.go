package jsonpath

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jacoelho/jp/internal/stack"
)

// segment applies one path component to a single working-set element,
// appending every contribution to out. Type mismatches contribute nothing.
type segment interface {
	apply(v any, out []any) []any
}

type (
	childSeg     string
	recursiveSeg string
	wildcardSeg  struct{}
	indexSeg     int
	keySeg       string
	filterSeg    string
)

type sliceSeg struct {
	start  int
	end    int
	hasEnd bool // false means "to sequence length"
}

// split scans the sigil-stripped path left to right and extracts segments.
// Three mutually exclusive lexical shapes are recognized: a bracket group
// `[...]` (non-greedy, no nesting), a descendant group `..name`, and a dot
// group `.name`, where name is a maximal run excluding '.' and '['.
// Bytes that start no segment are skipped, so leading junk is tolerated.
func split(path string) []segment {
	var segs []segment

	for i := 0; i < len(path); {
		switch {
		case path[i] == '[':
			end := strings.IndexByte(path[i+1:], ']')
			if end < 0 {
				i++
				continue
			}
			segs = append(segs, bracketSegment(path[i+1:i+1+end]))
			i += end + 2

		case strings.HasPrefix(path[i:], ".."):
			name := readName(path[i+2:])
			if name == "" {
				i++
				continue
			}
			segs = append(segs, recursiveSeg(name))
			i += 2 + len(name)

		case path[i] == '.':
			name := readName(path[i+1:])
			if name == "" {
				i++
				continue
			}
			if name == "*" {
				segs = append(segs, wildcardSeg{})
			} else {
				segs = append(segs, childSeg(name))
			}
			i += 1 + len(name)

		default:
			i++
		}
	}

	return segs
}

// readName consumes a maximal run of bytes excluding '.' and '['.
func readName(s string) string {
	i := 0
	for i < len(s) && s[i] != '.' && s[i] != '[' {
		i++
	}
	return s[:i]
}

// bracketSegment interprets the content between '[' and ']'.
func bracketSegment(inner string) segment {
	if inner == "*" {
		return wildcardSeg{}
	}
	if isDigits(inner) {
		n, _ := strconv.Atoi(inner)
		return indexSeg(n)
	}
	if strings.HasPrefix(inner, "?") {
		return filterSeg(inner)
	}
	if strings.Contains(inner, ":") {
		return parseSlice(inner)
	}
	return keySeg(unquote(inner))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseSlice reads `start:end` bounds. A missing or unparsable start
// defaults to 0; a missing or unparsable end defaults to the sequence
// length at application time.
func parseSlice(inner string) sliceSeg {
	bounds := strings.SplitN(inner, ":", 2)

	s := sliceSeg{}
	if v, err := strconv.Atoi(strings.TrimSpace(bounds[0])); err == nil {
		s.start = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(bounds[1])); err == nil {
		s.end = v
		s.hasEnd = true
	}
	return s
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func (s childSeg) apply(v any, out []any) []any {
	if obj, ok := v.(map[string]any); ok {
		if child, exists := obj[string(s)]; exists {
			out = append(out, child)
		}
	}
	return out
}

func (s keySeg) apply(v any, out []any) []any {
	return childSeg(s).apply(v, out)
}

func (wildcardSeg) apply(v any, out []any) []any {
	switch t := v.(type) {
	case []any:
		out = append(out, t...)
	case map[string]any:
		for _, k := range sortedKeys(t) {
			out = append(out, t[k])
		}
	}
	return out
}

func (s indexSeg) apply(v any, out []any) []any {
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	if n := int(s); n >= 0 && n < len(arr) {
		out = append(out, arr[n])
	}
	return out
}

func (s sliceSeg) apply(v any, out []any) []any {
	arr, ok := v.([]any)
	if !ok {
		return out
	}

	lo := min(max(s.start, 0), len(arr))
	hi := len(arr)
	if s.hasEnd {
		hi = min(max(s.end, 0), len(arr))
	}

	for i := lo; i < hi; i++ {
		out = append(out, arr[i])
	}
	return out
}

func (s filterSeg) apply(v any, out []any) []any {
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, member := range arr {
		if filterPass(member, string(s)) {
			out = append(out, member)
		}
	}
	return out
}

// apply walks the element depth-first, collecting every value reachable
// under the segment's key at any depth, the element's own entry included.
// Arrays are visited in index order, objects in sorted key order.
func (s recursiveSeg) apply(v any, out []any) []any {
	frontier := stack.NewWithCapacity[any](16)
	frontier.Push(v)

	for !frontier.IsEmpty() {
		node, _ := frontier.Pop()

		switch t := node.(type) {
		case map[string]any:
			if child, exists := t[string(s)]; exists {
				out = append(out, child)
			}
			keys := sortedKeys(t)
			// LIFO stack: push in reverse so the walk stays preorder.
			for i := len(keys) - 1; i >= 0; i-- {
				frontier.Push(t[keys[i]])
			}
		case []any:
			for i := len(t) - 1; i >= 0; i-- {
				frontier.Push(t[i])
			}
		}
	}

	return out
}

// sortedKeys gives object traversal a deterministic order; Go maps have no
// stable iteration order of their own.
func sortedKeys(m map[string]any) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}
