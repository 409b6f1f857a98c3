package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jp/internal/exit"
)

// Output format names accepted by the -output flag.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// DefaultPollRate is the default watch-mode poll frequency in polls per second.
const DefaultPollRate = 2.0

var (
	ErrNoArguments         = errors.New("no arguments provided")
	ErrNoExpression        = errors.New("no path expression specified")
	ErrTooManyArguments    = errors.New("too many arguments")
	ErrUnknownOutputFormat = errors.New("unknown output format")
	ErrWatchRequiresFile   = errors.New("watch mode requires an input file")
)

// Config represents the complete configuration for the jp tool.
type Config struct {
	// Query
	Expression string
	InputFile  string // empty means stdin
	Strict     bool   // delegate to the RFC 9535 engine

	// Output
	Output     string
	MaxMatches int // 0 = unlimited, trims rendered output only

	// Watch mode
	Watch    bool
	PollRate float64 // polls per second (0 = unlimited)
}

// Stdin reports whether the document is read from standard input.
func (c *Config) Stdin() bool {
	return c.InputFile == "" || c.InputFile == "-"
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Expression == "" {
		return ErrNoExpression
	}

	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("%w: %s", ErrUnknownOutputFormat, c.Output)
	}

	if c.Watch && c.Stdin() {
		return ErrWatchRequiresFile
	}

	if !c.Stdin() {
		if _, err := os.Stat(c.InputFile); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.InputFile, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage and error output since we handle both ourselves.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		output     = fs.String("output", OutputText, "Output format: text or json")
		strict     = fs.Bool("strict", false, "Evaluate with strict RFC 9535 semantics")
		watch      = fs.Bool("watch", false, "Re-evaluate whenever the input file changes")
		pollRate   = fs.Float64("poll-rate", DefaultPollRate, "Watch polls per second (0 for unlimited)")
		maxMatches = fs.Int("max-matches", 0, "Maximum number of matches to render (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	rest := fs.Args()
	switch {
	case len(rest) == 0:
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoExpression, Usage())
	case len(rest) > 2:
		return nil, exit.Usagef("Error: %v\n\n%s", ErrTooManyArguments, Usage())
	}

	config := &Config{
		Expression: rest[0],
		Output:     *output,
		Strict:     *strict,
		Watch:      *watch,
		PollRate:   *pollRate,
		MaxMatches: *maxMatches,
	}
	if len(rest) == 2 {
		config.InputFile = rest[1]
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jp - interactive JSONPath query tool

Usage: jp [options] <path> [file]

Reads a JSON or YAML document from file (or stdin when omitted), evaluates
the path expression against it, and prints the matched values.

Options:
  --output FORMAT     Output format: text or json (default: text)
  --strict            Evaluate with strict RFC 9535 semantics instead of
                      the default best-effort engine
  --watch             Re-evaluate whenever the input file changes
  --poll-rate N       Watch polls per second, 0 for unlimited (default: 2)
  --max-matches N     Maximum number of matches to render, 0 for unlimited
  -h, --help          Show this help message

Examples:
  jp '$.store.book[*].author' store.json
  jp '$..price' store.yaml
  cat store.json | jp '$.store.book[?(@.price < 10)].title'
  jp --watch '$.status' state.json
  jp --strict '$.store.book[0]' store.json`
}
