// Package run wires configuration, document loading, evaluation, and
// output formatting into the command's execution loop.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/jp/internal/config"
	"github.com/jacoelho/jp/internal/document"
	"github.com/jacoelho/jp/internal/exit"
	"github.com/jacoelho/jp/internal/formatter"
	"github.com/jacoelho/jp/internal/formatter/stdout"
	"github.com/jacoelho/jp/internal/jsonpath"
	"github.com/jacoelho/jp/internal/ratelimit"
	"github.com/jacoelho/jp/internal/results"
	"github.com/jacoelho/jp/internal/strict"
)

// Runner executes one query per invocation, or repeatedly in watch mode.
type Runner struct {
	config    *config.Config
	formatter formatter.Formatter
	limiter   *ratelimit.Limiter
	input     io.Reader
	errOutput io.Writer
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	return &Runner{
		config:    cfg,
		formatter: stdout.New(cfg.Output == config.OutputJSON, cfg.MaxMatches),
		limiter:   ratelimit.New(cfg.PollRate),
		input:     os.Stdin,
		errOutput: os.Stderr,
	}, nil
}

// SetFormatter replaces the output formatter, useful for tests.
func (r *Runner) SetFormatter(f formatter.Formatter) {
	r.formatter = f
}

// SetInput replaces the stdin source, useful for tests.
func (r *Runner) SetInput(input io.Reader) {
	r.input = input
}

// SetErrorOutput replaces the diagnostics writer, useful for tests.
func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOutput, format, args...)
}

// Run executes the query and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	if r.config.Watch {
		return r.runWatch(ctx)
	}
	return r.runOnce()
}

func (r *Runner) runOnce() int {
	report := r.evaluate()

	if err := r.formatter.Format(report); err != nil {
		r.logf("Error: writing output: %v\n", err)
		return 1
	}
	if report.Failed() {
		r.logf("Error: %v\n", report.Err)
		return 1
	}
	return 0
}

// runWatch re-evaluates whenever the input file's modification time moves,
// paced by the poll rate limiter, until the context is cancelled. The exit
// code reflects the most recent evaluation.
func (r *Runner) runWatch(ctx context.Context) int {
	var lastMod time.Time
	exitCode := 0

	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return exitCode
		}

		info, err := os.Stat(r.config.InputFile)
		if err != nil {
			r.logf("Error: stat %s: %v\n", r.config.InputFile, err)
			exitCode = 1
			continue
		}
		if !info.ModTime().After(lastMod) {
			continue
		}
		lastMod = info.ModTime()

		report := r.evaluate()
		if err := r.formatter.Format(report); err != nil {
			r.logf("Error: writing output: %v\n", err)
			return 1
		}

		if report.Failed() {
			r.logf("Error: %v\n", report.Err)
			exitCode = 1
		} else {
			exitCode = 0
		}
	}
}

// evaluate loads the document and runs the query, funneling every failure
// into the report's error field.
func (r *Runner) evaluate() results.Report {
	builder := results.NewReportBuilder(r.config.Expression, r.sourceName())
	start := time.Now()

	root, err := r.loadDocument()
	if err != nil {
		return builder.WithDuration(time.Since(start)).WithError(err).Build()
	}

	matches, err := r.query(root)
	builder = builder.WithDuration(time.Since(start))
	if err != nil {
		return builder.WithError(err).Build()
	}
	return builder.WithMatches(matches).Build()
}

func (r *Runner) query(root any) ([]any, error) {
	if r.config.Strict {
		return strict.Evaluate(root, r.config.Expression)
	}
	return jsonpath.Evaluate(root, r.config.Expression)
}

func (r *Runner) loadDocument() (any, error) {
	if r.config.Stdin() {
		return document.Load(r.input)
	}
	return document.LoadFile(r.config.InputFile)
}

func (r *Runner) sourceName() string {
	if r.config.Stdin() {
		return "stdin"
	}
	return r.config.InputFile
}
