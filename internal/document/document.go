// Package document loads the input document a query runs against.
// JSON and YAML sources both decode into the same dynamic tree shapes
// (map[string]any, []any, scalars) so the evaluator never sees the
// source format.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format identifies the encoding of an input document.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

var ErrInvalidDocument = errors.New("document: invalid input")

// DetectFormat picks a format from the file name extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// LoadFile reads and decodes the named file, picking the format from its
// extension and falling back to content sniffing.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, DetectFormat(path))
}

// Load reads and decodes a document of unknown format, typically stdin.
func Load(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Decode(data, FormatUnknown)
}

// Decode parses raw document bytes. FormatUnknown tries JSON first and
// falls back to YAML, since most interactive input is JSON.
func Decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		if v, err := decodeJSON(data); err == nil {
			return v, nil
		}
		return decodeYAML(data)
	}
}

// decodeJSON keeps numbers as json.Number so large integers survive and
// the evaluator's coercion rules see the original text.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return normalize(v), nil
}

// normalize rewrites YAML decoding shapes into the JSON-equivalent tree
// the evaluator expects, stringifying any non-string mapping keys.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = normalize(val)
		}
		return s
	default:
		return v
	}
}
