// Package nfa implements the bounded-arena NFA model and Thompson
// construction combinators (spec §4.5-§4.6): states and edges live in
// fixed-capacity pools addressed by index rather than pointer, and the five
// primitive combinators (SingleSymbol, TerminalChain, Concat, Or, Closure)
// reclassify and connect states in place and return the resulting handle.
// Grounded on the index-returning
// allocation style of the teacher's nfa.Builder (coregx-coregex), adapted
// from its Match/ByteRange/Split/Epsilon state-kind model (built for regex
// matching) to the spec's simpler Start/Internal/Accepting model (built
// only for Thompson construction, not execution).
package nfa

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when the state arena would overflow its
// fixed capacity or a state would exceed its outgoing-edge bound (spec §7:
// CapacityExceeded, fatal).
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrEmptyTerminal is returned by TerminalChain for a zero-length byte
// string; spec §3 requires every terminal to be non-empty.
var ErrEmptyTerminal = errors.New("empty terminal")

// BuildError wraps a construction-time failure with the offending state,
// mirroring the teacher's CompileError/BuildError wrap-with-context
// convention.
type BuildError struct {
	Message string
	State   StateID
}

func (e *BuildError) Error() string {
	if e.State != InvalidState {
		return fmt.Sprintf("nfa build error at state %d: %s", e.State, e.Message)
	}
	return fmt.Sprintf("nfa build error: %s", e.Message)
}
