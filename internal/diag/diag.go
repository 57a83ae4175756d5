// Package diag carries source-position context for the errors the spec's
// CLI boundary reports (spec §4.9, §7): fatal errors are formatted as
// "Error LINE:COL: <detail>" on stderr, non-fatal conditions (an
// unrecognized escape sequence) are logged as warnings and scanning
// continues. Warnings are routed through gologger, matching the
// retrieval pack's structured-logging convention (projectdiscovery-alterx)
// rather than a bare fmt.Fprintln to stderr.
package diag

import (
	"fmt"

	"github.com/projectdiscovery/gologger"
)

// Diagnostic pairs a fatal parse/build error with the line and column at
// which it was detected.
type Diagnostic struct {
	Line int
	Col  int
	Err  error
}

// New wraps err with a source position.
func New(line, col int, err error) *Diagnostic {
	return &Diagnostic{Line: line, Col: col, Err: err}
}

// Error renders the spec's exact fatal-error wire format.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("Error %d:%d: %v", d.Line, d.Col, d.Err)
}

// Unwrap exposes the underlying error for errors.Is/errors.As.
func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Warnf logs a non-fatal diagnostic (e.g. an unrecognized escape byte)
// without aborting the parse. line/col are included for operator context
// even though, unlike Diagnostic, warnings never reach the CLI's exit code.
func Warnf(line, col int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	gologger.Warning().Msgf("%d:%d: %s", line, col, msg)
}
