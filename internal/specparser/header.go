package specparser

import (
	"github.com/lexforge/lexforge/internal/arena"
)

// Pools bundles the shared arenas a grammar line is parsed against.
type Pools struct {
	Terminals   *arena.TerminalPool
	NonTerms    *arena.NonTermPool
	Expressions *arena.ExprPool
}

// WarnFunc receives non-fatal diagnostics (spec §4.4: unrecognised escapes).
type WarnFunc func(line, col int, format string, args ...any)

// ParseLine implements spec §4.3's header grammar `$name := body` over one
// already-scanned, non-blank, non-comment line, threading the body through
// the shared pools and completing name's entry in the non-terminal table.
// It returns the index of the non-terminal that was defined.
func ParseLine(line string, lineNum int, pools Pools, warn WarnFunc) (int, error) {
	p := &parser{
		cur:      newCursor(line),
		line:     lineNum,
		terms:    pools.Terminals,
		nonterms: pools.NonTerms,
		exprs:    pools.Expressions,
		warn:     warn,
	}

	p.cur.skipWS()
	if p.cur.atEnd() || p.cur.peek() != '$' {
		return 0, p.errAt(p.cur.col(), ErrMalformedHeader)
	}
	p.cur.advance() // consume '$'

	nameStart := p.cur.pos
	for !p.cur.atEnd() && !isSpaceOrTab(p.cur.peek()) {
		p.cur.advance()
	}
	name := line[nameStart:p.cur.pos]
	if name == "" {
		return 0, p.errAt(p.cur.col(), ErrEmptyName)
	}

	p.cur.skipWS()
	if !hasPrefixAt(line, p.cur.pos, ":=") {
		return 0, p.errAt(p.cur.col(), ErrMissingDefinition)
	}
	p.cur.pos += 2

	p.cur.skipWS()
	if p.cur.atEnd() {
		return 0, p.errAt(p.cur.col(), ErrMissingDefinition)
	}

	idx, err := p.nonterms.BeginDefinition(name)
	if err != nil {
		return 0, p.errAt(nameStart+1, err)
	}

	body, err := p.parseBody()
	if err != nil {
		return 0, err
	}

	p.nonterms.Complete(idx, body)
	return idx, nil
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	if pos+len(prefix) > len(s) {
		return false
	}
	return s[pos:pos+len(prefix)] == prefix
}
