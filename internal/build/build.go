// Package build implements the Grammar→NFA driver from spec §4.5-§4.7: it
// walks each non-terminal's parsed expression tree, builds its Thompson
// automaton via the nfa package's combinators, memoizes per-name results so
// a non-terminal referenced from several places is built once, and unions
// every non-terminal's automaton — in definition order — into one master
// NFA. Grounded on the recursive build-then-union shape of shadowCow's
// CompilePatternToNFA/combineNFAs (shadowCow-cow-lang-go), rendered over
// the teacher's (coregx-coregex) index-based nfa.Arena instead of a
// pointer-linked automaton.
package build

import (
	"errors"
	"fmt"

	"github.com/lexforge/lexforge/internal/arena"
	"github.com/lexforge/lexforge/nfa"
)

// ErrUnresolvedReference is returned when a grammar references a
// non-terminal that was never defined (spec §7).
var ErrUnresolvedReference = errors.New("unresolved non-terminal reference")

// ErrEmptyGrammar is returned when a grammar defines no non-terminals at
// all; there is nothing to union into a master NFA.
var ErrEmptyGrammar = errors.New("grammar defines no non-terminals")

// ErrCyclicReference is returned when a non-terminal's definition refers
// back to itself, directly or through another non-terminal. Regular
// expressions cannot express unbounded self-reference, so unlike a forward
// reference (which always resolves to a finite automaton once parsing
// completes) a cycle can never be built.
var ErrCyclicReference = errors.New("cyclic non-terminal reference")

// Pools bundles the completed arena pools a Build call walks.
type Pools struct {
	Terminals   *arena.TerminalPool
	NonTerms    *arena.NonTermPool
	Expressions *arena.ExprPool
}

// Result is the output of building a grammar: the shared NFA arena, the
// master automaton (the union of every non-terminal's automaton, in
// definition order per spec §5), and the handle recorded for each
// individual non-terminal's own automaton.
type Result struct {
	Arena  *nfa.Arena
	Master nfa.Handle

	perName map[string]nfa.Handle
	order   []string
}

// NonTermNFA returns the handle recorded for the non-terminal named name
// when its own construction finished (a supplemental introspection
// feature; the spec's front half only requires Master). The states it
// names are shared with Master and with every automaton built from this
// non-terminal, so later combinators may have reclassified their kinds
// and added edges to them.
func (r *Result) NonTermNFA(name string) (nfa.Handle, bool) {
	h, ok := r.perName[name]
	return h, ok
}

// Names returns the non-terminal names in definition order.
func (r *Result) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Driver builds NFAs from a parsed grammar against a fixed-capacity arena.
type Driver struct {
	arena    *nfa.Arena
	terms    *arena.TerminalPool
	nonterms *arena.NonTermPool
	exprs    *arena.ExprPool
	memo     map[int]nfa.Handle
	building map[int]bool
}

// New creates a Driver that allocates NFA states and edges into a, within
// the state and per-state edge bounds a was created with.
func New(a *nfa.Arena, pools Pools) *Driver {
	return &Driver{
		arena:    a,
		terms:    pools.Terminals,
		nonterms: pools.NonTerms,
		exprs:    pools.Expressions,
		memo:     make(map[int]nfa.Handle),
		building: make(map[int]bool),
	}
}

// Build constructs every non-terminal's automaton and unions them, in
// definition order, into a single master NFA (spec §5).
func (d *Driver) Build() (*Result, error) {
	order := d.nonterms.DefinitionOrder()
	if len(order) == 0 {
		return nil, ErrEmptyGrammar
	}

	r := &Result{Arena: d.arena, perName: make(map[string]nfa.Handle, len(order))}
	var master nfa.Handle
	haveMaster := false
	folded := make(map[nfa.Handle]bool, len(order))

	for _, idx := range order {
		nt := d.nonterms.Get(idx)
		h, err := d.buildNonTerminal(idx)
		if err != nil {
			return nil, fmt.Errorf("non-terminal %q: %w", nt.Name, err)
		}
		r.perName[nt.Name] = h
		r.order = append(r.order, nt.Name)

		if !haveMaster {
			master = h
			haveMaster = true
			folded[h] = true
			continue
		}
		if folded[h] {
			// A pure forward-reference alias (e.g. "$x := $y") builds the
			// same handle as the non-terminal it points to; it is already
			// part of the union and must not be Or'd with itself.
			continue
		}
		master, err = nfa.Or(d.arena, master, h)
		if err != nil {
			return nil, fmt.Errorf("union of %q: %w", nt.Name, err)
		}
		folded[h] = true
	}

	r.Master = master
	return r, nil
}

// buildNonTerminal builds (or recalls) the automaton for the non-terminal
// at idx, memoizing so a name referenced from multiple operands is built
// exactly once (spec §4.7).
func (d *Driver) buildNonTerminal(idx int) (nfa.Handle, error) {
	if h, ok := d.memo[idx]; ok {
		return h, nil
	}

	nt := d.nonterms.Get(idx)
	if !nt.Complete {
		return nfa.Handle{}, fmt.Errorf("%w: %q", ErrUnresolvedReference, nt.Name)
	}
	if d.building[idx] {
		return nfa.Handle{}, fmt.Errorf("%w: %q", ErrCyclicReference, nt.Name)
	}

	d.building[idx] = true
	h, err := d.buildOperand(nt.Expr)
	delete(d.building, idx)
	if err != nil {
		return nfa.Handle{}, err
	}
	d.memo[idx] = h
	return h, nil
}

// buildOperand dispatches on an operand's tag, recursing through nested
// expression nodes per the chain shape documented on arena.Expr.
func (d *Driver) buildOperand(op arena.Operand) (nfa.Handle, error) {
	switch op.Tag {
	case arena.Terminal:
		return nfa.TerminalChain(d.arena, d.terms.Bytes(op.Index))

	case arena.NonTerminalRef:
		return d.buildNonTerminal(op.Index)

	case arena.NestedExpression:
		node := d.exprs.Get(op.Index)
		switch node.Type {
		case arena.NoOp:
			return d.buildOperand(node.Op1)

		case arena.ZeroOrMore:
			x, err := d.buildOperand(node.Op1)
			if err != nil {
				return nfa.Handle{}, err
			}
			return nfa.Closure(d.arena, x)

		case arena.And:
			x, err := d.buildOperand(node.Op1)
			if err != nil {
				return nfa.Handle{}, err
			}
			y, err := d.buildOperand(node.Op2)
			if err != nil {
				return nfa.Handle{}, err
			}
			return nfa.Concat(d.arena, x, y)

		case arena.Or:
			x, err := d.buildOperand(node.Op1)
			if err != nil {
				return nfa.Handle{}, err
			}
			y, err := d.buildOperand(node.Op2)
			if err != nil {
				return nfa.Handle{}, err
			}
			return nfa.Or(d.arena, x, y)

		default:
			return nfa.Handle{}, fmt.Errorf("build: expression node %d has unexpected type %v", op.Index, node.Type)
		}

	default:
		return nfa.Handle{}, fmt.Errorf("build: empty operand")
	}
}
