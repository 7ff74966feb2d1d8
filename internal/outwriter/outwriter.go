// Package outwriter has report and query log output logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/bfskpi/core"
	"github.com/huangsam/bfskpi/internal/contract"
	"golang.org/x/term"
)

// OutWriter renders the aggregation report and the query log. Everything
// goes through one io.Writer so the caller can tee console and debug file.
type OutWriter struct {
	w io.Writer
}

// NewOutWriter creates a writer that emits to the given sink.
func NewOutWriter(w io.Writer) *OutWriter {
	return &OutWriter{w: w}
}

// WriteReport prints the per-repository BFS tables, the ratio tables, and
// the verbatim query log, in that order. Output is byte-identical across
// runs against an unchanged store and configuration.
func (ow *OutWriter) WriteReport(result *core.PipelineResult, cfg *contract.Config) error {
	if err := ow.writeRepoTables(result, cfg); err != nil {
		return fmt.Errorf("error writing repository tables: %w", err)
	}
	if err := ow.writeRatioTables(result, cfg); err != nil {
		return fmt.Errorf("error writing ratio tables: %w", err)
	}
	if err := ow.writeQueryLog(result); err != nil {
		return fmt.Errorf("error writing query log: %w", err)
	}
	fmt.Fprintf(ow.w, "Aggregation completed across %d repositories.\n", len(result.Repos))
	return nil
}

// createFormatters creates the formatter closures shared across tables.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, intFmt
}

// terminalWidth resolves the report width: explicit override first, then
// detected terminal size, then a conservative default for CI.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 120
	}
	return detected
}

// maxRepoColWidth sizes the Repo column after the fixed-width ratio
// columns and table chrome take their share of the terminal.
func maxRepoColWidth(cfg *contract.Config, quarters int) int {
	available := terminalWidth(cfg) - quarters*9 - 10
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncateName keeps the trailing part of an over-wide repository name,
// which carries the distinguishing segment.
func truncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}
