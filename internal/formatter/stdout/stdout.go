// Package stdout renders evaluation reports as plain text lines or as a
// single JSON envelope per evaluation.
package stdout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jp/internal/formatter"
	"github.com/jacoelho/jp/internal/results"
)

// Formatter implements stdout-based output formatting.
type Formatter struct {
	writer     io.Writer
	json       bool
	maxMatches int // 0 = unlimited
}

// New creates a formatter that writes to stdout. Set jsonOutput for the
// JSON envelope format; maxMatches trims rendered output (0 = unlimited).
func New(jsonOutput bool, maxMatches int) formatter.Formatter {
	return NewWithWriter(jsonOutput, maxMatches, os.Stdout)
}

// NewWithWriter creates a formatter with a custom writer.
// This is useful for testing or redirecting output to files.
func NewWithWriter(jsonOutput bool, maxMatches int, writer io.Writer) formatter.Formatter {
	return &Formatter{
		writer:     writer,
		json:       jsonOutput,
		maxMatches: maxMatches,
	}
}

// Format renders one evaluation report. In text mode a failed report
// renders nothing; the runner reports the error on its own channel.
func (f *Formatter) Format(report results.Report) error {
	if f.json {
		return f.formatJSON(report)
	}
	return f.formatText(report)
}

func (f *Formatter) formatText(report results.Report) error {
	if report.Failed() {
		return nil
	}

	matches, dropped := f.trim(report.Matches)
	for _, match := range matches {
		if _, err := fmt.Fprintln(f.writer, renderMatch(match)); err != nil {
			return err
		}
	}

	if dropped > 0 {
		if _, err := fmt.Fprintf(f.writer, "... %d more match(es)\n", dropped); err != nil {
			return err
		}
	}

	return nil
}

// envelope is the JSON output shape, one object per evaluation.
type envelope struct {
	RunID      string `json:"run_id"`
	Path       string `json:"path"`
	Source     string `json:"source"`
	Matches    []any  `json:"matches"`
	Count      int    `json:"count"`
	Truncated  bool   `json:"truncated,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func (f *Formatter) formatJSON(report results.Report) error {
	matches, dropped := f.trim(report.Matches)
	if matches == nil {
		matches = []any{}
	}

	env := envelope{
		RunID:      report.RunID,
		Path:       report.Expression,
		Source:     report.Source,
		Matches:    matches,
		Count:      len(report.Matches),
		Truncated:  dropped > 0,
		DurationMS: report.Duration.Milliseconds(),
	}
	if report.Err != nil {
		env.Error = report.Err.Error()
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = fmt.Fprintln(f.writer, string(payload))
	return err
}

func (f *Formatter) trim(matches []any) ([]any, int) {
	if f.maxMatches <= 0 || len(matches) <= f.maxMatches {
		return matches, 0
	}
	return matches[:f.maxMatches], len(matches) - f.maxMatches
}

// renderMatch prints strings raw and everything else as compact JSON, the
// friendlier behavior for piping values into other tools.
func renderMatch(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return "null"
	default:
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(payload)
	}
}
