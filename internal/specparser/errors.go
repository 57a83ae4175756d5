// Package specparser implements the header and body parsers from spec
// §4.3-§4.4: it turns one grammar line into a non-terminal definition,
// threading expression nodes through the shared arena pools.
package specparser

import "errors"

// Error kinds from spec §7. All are fatal and are wrapped with a line/column
// location by internal/diag before being surfaced to the CLI.
var (
	ErrMalformedHeader   = errors.New("malformed header")
	ErrEmptyName         = errors.New("empty name")
	ErrMissingDefinition = errors.New("missing definition")
	ErrDanglingOperator  = errors.New("dangling operator")
	ErrIncompleteEscape  = errors.New("incomplete escape")
)
