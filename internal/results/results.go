// Package results holds the outcome record of one query evaluation,
// handed from the runner to the output formatter.
package results

import (
	"time"

	"github.com/google/uuid"
)

// Report captures one evaluation of a path expression against a document.
// Err and a non-empty Matches are mutually exclusive in practice: an error
// always comes with an empty match set.
type Report struct {
	RunID      string // correlation id for log and script consumers
	Expression string
	Source     string // input file name, or "stdin"
	Matches    []any
	Err        error
	Duration   time.Duration
}

// Failed reports whether the evaluation produced an error.
func (r Report) Failed() bool {
	return r.Err != nil
}

// ReportBuilder assembles a Report; the run id is assigned at creation.
type ReportBuilder struct {
	report Report
}

func NewReportBuilder(expression, source string) *ReportBuilder {
	return &ReportBuilder{
		report: Report{
			RunID:      uuid.New().String(),
			Expression: expression,
			Source:     source,
		},
	}
}

func (b *ReportBuilder) WithMatches(matches []any) *ReportBuilder {
	b.report.Matches = matches
	return b
}

func (b *ReportBuilder) WithError(err error) *ReportBuilder {
	b.report.Err = err
	return b
}

func (b *ReportBuilder) WithDuration(duration time.Duration) *ReportBuilder {
	b.report.Duration = duration
	return b
}

func (b *ReportBuilder) Build() Report {
	return b.report
}
