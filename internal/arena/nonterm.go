package arena

import (
	"errors"
	"fmt"
)

// ErrRedefinition is returned when a completed non-terminal is redefined.
var ErrRedefinition = errors.New("redefinition of completed non-terminal")

// ErrNameTooLong is returned when a non-terminal name exceeds the configured
// maximum length.
var ErrNameTooLong = errors.New("non-terminal name too long")

// NonTerminal is a named regex: a bounded-length name, a handle to its
// defining expression (meaningless until Complete), a Complete flag
// distinguishing full definitions from forward-reference stubs, and a
// stable Index identifying it.
type NonTerminal struct {
	Name     string
	Expr     Operand // Tag is Nothing until defined, NestedExpression once complete
	Complete bool
	Index    int
}

// NonTermPool is the bounded table of non-terminal records, addressed both
// by name (for header/body parsing) and by index (for the NFA driver).
type NonTermPool struct {
	entries      []NonTerminal
	byName       map[string]int
	definedOrder []int // indices in the order Complete was called
	max          int
	maxName      int
}

// NewNonTermPool creates a pool bounded to max entries, each name bounded
// to maxNameLen bytes.
func NewNonTermPool(max, maxNameLen int) *NonTermPool {
	return &NonTermPool{
		entries: make([]NonTerminal, 0, max),
		byName:  make(map[string]int, max),
		max:     max,
		maxName: maxNameLen,
	}
}

// Lookup returns the index of name's entry and whether it exists.
func (p *NonTermPool) Lookup(name string) (int, bool) {
	idx, ok := p.byName[name]
	return idx, ok
}

// Stub returns the index of an existing entry for name, or allocates a new
// incomplete one. This is the forward-reference path used whenever a body
// operand names an as-yet-unknown non-terminal (spec §4.4).
func (p *NonTermPool) Stub(name string) (int, error) {
	if idx, ok := p.byName[name]; ok {
		return idx, nil
	}
	if len(name) > p.maxName {
		return 0, fmt.Errorf("%w: %q (max %d bytes)", ErrNameTooLong, name, p.maxName)
	}
	if len(p.entries) >= p.max {
		return 0, fmt.Errorf("%w: non-terminal table exhausted (max %d entries)", ErrCapacityExceeded, p.max)
	}
	idx := len(p.entries)
	p.entries = append(p.entries, NonTerminal{Name: name, Index: idx})
	p.byName[name] = idx
	return idx, nil
}

// BeginDefinition reuses an incomplete stub for name or allocates a new
// entry, returning its index. It does not mark the entry complete; the body
// parser does that once the expression has been fully parsed. Returns
// ErrRedefinition if name already names a completed entry.
func (p *NonTermPool) BeginDefinition(name string) (int, error) {
	if idx, ok := p.byName[name]; ok {
		if p.entries[idx].Complete {
			return 0, fmt.Errorf("%w: %q", ErrRedefinition, name)
		}
		return idx, nil
	}
	return p.Stub(name)
}

// Complete marks idx's entry as fully defined with the given expression
// handle.
func (p *NonTermPool) Complete(idx int, expr Operand) {
	p.entries[idx].Expr = expr
	p.entries[idx].Complete = true
	p.definedOrder = append(p.definedOrder, idx)
}

// DefinitionOrder returns non-terminal indices in the order their
// definitions completed (spec §5's ordering guarantee), not the order they
// were first referenced as forward-reference stubs.
func (p *NonTermPool) DefinitionOrder() []int {
	out := make([]int, len(p.definedOrder))
	copy(out, p.definedOrder)
	return out
}

// Get returns the entry at idx.
func (p *NonTermPool) Get(idx int) NonTerminal {
	return p.entries[idx]
}

// Len reports the number of allocated entries.
func (p *NonTermPool) Len() int {
	return len(p.entries)
}

// All returns the entries in definition-table order (the order in which
// each name was first referenced-or-defined; callers that need strict
// "definition order" per spec §4.7/§5 should instead range over
// DefinitionOrder).
func (p *NonTermPool) All() []NonTerminal {
	out := make([]NonTerminal, len(p.entries))
	copy(out, p.entries)
	return out
}
