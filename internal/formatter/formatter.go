package formatter

import (
	"github.com/jacoelho/jp/internal/results"
)

// Formatter defines the interface for different output formats.
// Implementations are responsible for determining the output device
// (stdout, file, etc.).
type Formatter interface {
	// Format renders one evaluation report.
	Format(report results.Report) error
}
