package specparser

import (
	"github.com/lexforge/lexforge/internal/arena"
	"github.com/lexforge/lexforge/internal/diag"
)

// parser holds the shared arena pools and per-line scanning state used by
// both the header and body parsers (spec §4.3-§4.4).
type parser struct {
	cur      cursor
	line     int
	terms    *arena.TerminalPool
	nonterms *arena.NonTermPool
	exprs    *arena.ExprPool
	warn     func(line, col int, format string, args ...any)
}

func (p *parser) errAt(col int, err error) error {
	return diag.New(p.line, col, err)
}

// parseBody implements spec §4.4: body is a left-associative chain of
// operands and operators, rendered as a right-descending Expr chain. Each
// iteration speculatively allocates the node that will hold the next
// operand before knowing whether one exists (the "trailing-slot"
// discipline); when the chain turns out to have ended, that speculative
// node is rolled back and the prior node's op2 is set to Nothing.
func (p *parser) parseBody() (arena.Operand, error) {
	var head arena.Operand
	var prev *arena.Expr

	for {
		idx, err := p.exprs.Alloc()
		if err != nil {
			return arena.Operand{}, p.errAt(p.cur.col(), err)
		}
		node := p.exprs.Get(idx)
		link := arena.Operand{Tag: arena.NestedExpression, Index: idx}
		if prev == nil {
			head = link
		} else {
			prev.Op2 = link
		}

		p.cur.skipWS()
		if p.cur.atEnd() {
			// No operand follows: this node was speculative, undo it.
			p.exprs.Rollback()
			if prev == nil {
				return arena.Operand{}, p.errAt(p.cur.col(), ErrMissingDefinition)
			}
			if prev.Type != arena.NoOp && prev.Type != arena.ZeroOrMore {
				// prev's operator (Or or implicit And) consumed or implied
				// another operand that never arrived.
				return arena.Operand{}, p.errAt(p.cur.col(), ErrDanglingOperator)
			}
			prev.Op2 = arena.NothingOperand
			return head, nil
		}

		operand, err := p.readOperand()
		if err != nil {
			return arena.Operand{}, err
		}

		op, err := p.readOperator()
		if err != nil {
			return arena.Operand{}, err
		}

		if op == arena.ZeroOrMore {
			node.Type = arena.ZeroOrMore
			node.Op1 = operand
			node.Op2 = arena.NothingOperand
			closureOperand := arena.Operand{Tag: arena.NestedExpression, Index: idx}

			parentIdx, err := p.exprs.Alloc()
			if err != nil {
				return arena.Operand{}, p.errAt(p.cur.col(), err)
			}
			parent := p.exprs.Get(parentIdx)
			parent.Op1 = closureOperand
			parentLink := arena.Operand{Tag: arena.NestedExpression, Index: parentIdx}
			if prev == nil {
				head = parentLink
			} else {
				prev.Op2 = parentLink
			}

			nextOp, err := p.readOperator()
			if err != nil {
				return arena.Operand{}, err
			}
			if nextOp == arena.NoOp {
				parent.Type = arena.NoOp
				parent.Op2 = arena.NothingOperand
				return head, nil
			}
			parent.Type = nextOp
			prev = parent
			continue
		}

		node.Op1 = operand
		node.Type = op
		if op == arena.NoOp {
			node.Op2 = arena.NothingOperand
			return head, nil
		}
		prev = node
	}
}

// readOperand scans one maximal non-whitespace operand run starting at the
// cursor (spec §4.4). A run beginning with '$' is a non-terminal reference;
// otherwise it is a terminal, decoded through the escape table as it is
// scanned. An unescaped '|' always ends the run (it is always the
// alternation operator; a literal pipe in a terminal must be written
// `@|`). An unescaped trailing '*' — one immediately followed by
// whitespace, '|', or end-of-line — is pushed back for the operator
// scanner rather than consumed here; because '@' eagerly consumes exactly
// the next byte as its escape target, a run of k consecutive '@' bytes
// immediately before such a '*' leaves the star escaped iff k is odd, with
// no separate lookback needed (spec §9's resolution of the `@@*` case).
func (p *parser) readOperand() (arena.Operand, error) {
	startCol := p.cur.col()
	var raw []byte
	isNonTerminal := false
	first := true

	for !p.cur.atEnd() {
		b := p.cur.peek()
		if isSpaceOrTab(b) {
			break
		}
		if first && b == '$' {
			isNonTerminal = true
			p.cur.advance()
			first = false
			continue
		}
		first = false

		if b == '|' {
			break
		}

		if b == '*' {
			next, hasNext := p.cur.peekAt(1)
			trailing := !hasNext || isSpaceOrTab(next) || next == '|'
			if trailing {
				break
			}
			raw = append(raw, '*')
			p.cur.advance()
			continue
		}

		if b == '@' && !isNonTerminal {
			escCol := p.cur.col()
			p.cur.advance()
			if p.cur.atEnd() {
				return arena.Operand{}, p.errAt(escCol, ErrIncompleteEscape)
			}
			esc := p.cur.advance()
			if decoded, ok := escapeTable[esc]; ok {
				raw = append(raw, decoded)
			} else {
				p.warn(p.line, escCol, "unrecognised escape '@%c', copying %q verbatim", esc, esc)
				raw = append(raw, esc)
			}
			continue
		}

		raw = append(raw, b)
		p.cur.advance()
	}

	if isNonTerminal {
		name := string(raw)
		if name == "" {
			return arena.Operand{}, p.errAt(startCol, ErrEmptyName)
		}
		idx, err := p.nonterms.Stub(name)
		if err != nil {
			return arena.Operand{}, p.errAt(startCol, err)
		}
		return arena.Operand{Tag: arena.NonTerminalRef, Index: idx}, nil
	}

	if len(raw) == 0 {
		return arena.Operand{}, p.errAt(startCol, ErrDanglingOperator)
	}
	offset, err := p.terms.Insert(raw)
	if err != nil {
		return arena.Operand{}, p.errAt(startCol, err)
	}
	return arena.Operand{Tag: arena.Terminal, Index: offset}, nil
}

// readOperator implements spec §4.4's between-operand scan: leading
// whitespace is consumed, then '|' or '*' consume one byte and yield Or or
// ZeroOrMore, end-of-line yields NoOp, and any other byte yields And
// without being consumed (implicit concatenation).
func (p *parser) readOperator() (arena.Op, error) {
	p.cur.skipWS()
	if p.cur.atEnd() {
		return arena.NoOp, nil
	}
	switch p.cur.peek() {
	case '|':
		p.cur.advance()
		return arena.Or, nil
	case '*':
		p.cur.advance()
		return arena.ZeroOrMore, nil
	default:
		return arena.And, nil
	}
}
