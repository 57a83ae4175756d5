// Package lexforge compiles a line-oriented grammar specification — named
// regex definitions over a small operator language with forward references
// and an escape convention — into a Thompson NFA, and renders that NFA as
// Graphviz DOT. It wires together internal/scanner (line reading),
// internal/specparser (grammar parsing into shared arena pools),
// internal/build (NFA construction), and dot (rendering); cmd/lexforge is
// the CLI boundary over this same entry point.
package lexforge

import (
	"fmt"
	"io"

	"github.com/lexforge/lexforge/internal/arena"
	"github.com/lexforge/lexforge/internal/build"
	"github.com/lexforge/lexforge/internal/diag"
	"github.com/lexforge/lexforge/internal/scanner"
	"github.com/lexforge/lexforge/internal/specparser"
	"github.com/lexforge/lexforge/nfa"
)

// WarnFunc receives a non-fatal diagnostic (spec §4.4: unrecognized escape
// sequences). If nil, Compile discards warnings.
type WarnFunc func(line, col int, format string, args ...any)

// Compile reads a grammar from r, parses every non-terminal definition,
// and builds the master NFA that is the union of all of them. limits
// bounds every arena the compile touches; pass arena.DefaultLimits() for
// the spec's defaults.
func Compile(r io.Reader, limits arena.Limits, warn WarnFunc) (*build.Result, error) {
	if warn == nil {
		warn = func(int, int, string, ...any) {}
	}

	terms := arena.NewTerminalPool(limits.MaxTerminalBytes)
	nonterms := arena.NewNonTermPool(limits.MaxNonTerminals, limits.MaxNonTermNameLen)
	exprs := arena.NewExprPool(limits.MaxExprNodes)

	sc := scanner.New(r, limits.MaxLineLength)
	pools := specparser.Pools{Terminals: terms, NonTerms: nonterms, Expressions: exprs}

	for {
		line, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapScanError(sc, err)
		}

		if _, err := specparser.ParseLine(line, sc.Line(), pools, warn); err != nil {
			return nil, err
		}
	}

	a := nfa.NewArena(limits.MaxNFAStates, limits.MaxNFAEdgesPerState)
	driver := build.New(a, build.Pools{Terminals: terms, NonTerms: nonterms, Expressions: exprs})
	result, err := driver.Build()
	if err != nil {
		return nil, diag.New(sc.Line(), sc.Col(), fmt.Errorf("build: %w", err))
	}
	return result, nil
}

// wrapScanError attaches a position to a scanner-level failure (a line
// exceeding MaxLineLength has no column, so column 1 is reported).
func wrapScanError(sc *scanner.Scanner, err error) error {
	return diag.New(sc.Line()+1, 1, err)
}
