package nfa

import (
	"fmt"

	"github.com/lexforge/lexforge/internal/sparse"
)

// This file implements the five Thompson construction primitives from spec
// §4.6. Each combinator takes NFA handles by value and returns the
// resulting handle; per the "destructive combinators" design note (spec
// §9), that is Go's idiomatic rendition of "mutate the first argument in
// place and abandon the second" — the caller simply rebinds its variable to
// the returned handle rather than aliasing through a pointer, and the
// abandoned handle's states are left as unreferenced arena entries (the
// spec's deliberate leak of unused storage).

// SingleSymbol builds an NFA matching exactly the one-byte string {symbol}:
// a new handle with a single symbol-labelled edge start->accept.
func SingleSymbol(a *Arena, symbol byte) (Handle, error) {
	h, err := a.NewNFA()
	if err != nil {
		return Handle{}, err
	}
	if _, err := a.NewEdge(h.Start, h.Accept, symbol); err != nil {
		return Handle{}, err
	}
	return h, nil
}

// TerminalChain builds an NFA matching exactly the multi-byte string bytes:
// a fresh start state, one internal state per byte connected by
// byte-labelled edges, and the final state reclassified Accepting. Empty
// terminals are rejected (spec §3: the empty string is not writable as a
// terminal token).
func TerminalChain(a *Arena, bytes []byte) (Handle, error) {
	if len(bytes) == 0 {
		return Handle{}, ErrEmptyTerminal
	}

	start, err := a.NewState(Start)
	if err != nil {
		return Handle{}, err
	}

	current := start
	for i, b := range bytes {
		var next StateID
		if i == len(bytes)-1 {
			next, err = a.NewState(Accepting)
		} else {
			next, err = a.NewState(Internal)
		}
		if err != nil {
			return Handle{}, err
		}
		if _, err := a.NewEdge(current, next, b); err != nil {
			return Handle{}, err
		}
		current = next
	}

	return Handle{Start: start, Accept: current}, nil
}

// Concat builds the NFA for L(x)·L(y): x's accept becomes Internal, an
// ε-edge connects it to y's start, y's start becomes Internal, and the
// result's accept becomes y's accept. x must not equal y.
func Concat(a *Arena, x, y Handle) (Handle, error) {
	if x == y {
		return Handle{}, &BuildError{Message: "Concat operands must be distinct NFAs", State: x.Start}
	}

	a.State(x.Accept).kind = Internal
	if _, err := a.NewEdge(x.Accept, y.Start, 0); err != nil {
		return Handle{}, err
	}
	a.State(y.Start).kind = Internal

	return Handle{Start: x.Start, Accept: y.Accept}, nil
}

// Or builds the NFA for L(x)∪L(y): a new Start and Accepting state are
// allocated, all four endpoints of x and y are reclassified Internal, and
// ε-edges connect newStart->{x.Start,y.Start} and {x.Accept,y.Accept}->newAccept.
// x must not equal y.
func Or(a *Arena, x, y Handle) (Handle, error) {
	if x == y {
		return Handle{}, &BuildError{Message: "Or operands must be distinct NFAs", State: x.Start}
	}

	newStart, err := a.NewState(Start)
	if err != nil {
		return Handle{}, err
	}
	newAccept, err := a.NewState(Accepting)
	if err != nil {
		return Handle{}, err
	}

	a.State(x.Start).kind = Internal
	a.State(x.Accept).kind = Internal
	a.State(y.Start).kind = Internal
	a.State(y.Accept).kind = Internal

	for _, e := range [][2]StateID{{newStart, x.Start}, {newStart, y.Start}, {x.Accept, newAccept}, {y.Accept, newAccept}} {
		if _, err := a.NewEdge(e[0], e[1], 0); err != nil {
			return Handle{}, err
		}
	}

	return Handle{Start: newStart, Accept: newAccept}, nil
}

// Closure builds the NFA for L(x)*: a new Start and Accepting state are
// allocated, x's endpoints are reclassified Internal, and ε-edges connect
// newStart->x.Start, newStart->newAccept, x.Accept->x.Start (the loop-back),
// and x.Accept->newAccept.
func Closure(a *Arena, x Handle) (Handle, error) {
	newStart, err := a.NewState(Start)
	if err != nil {
		return Handle{}, err
	}
	newAccept, err := a.NewState(Accepting)
	if err != nil {
		return Handle{}, err
	}

	a.State(x.Start).kind = Internal
	a.State(x.Accept).kind = Internal

	for _, e := range [][2]StateID{{newStart, x.Start}, {newStart, newAccept}, {x.Accept, x.Start}, {x.Accept, newAccept}} {
		if _, err := a.NewEdge(e[0], e[1], 0); err != nil {
			return Handle{}, err
		}
	}

	return Handle{Start: newStart, Accept: newAccept}, nil
}

// validate checks the structural invariant from spec §8: exactly one Start
// and one Accepting state reachable from h.Start. Used by tests, not by the
// combinators themselves (which maintain the invariant by construction).
func validate(a *Arena, h Handle) error {
	reachable := reachableStates(a, h.Start)
	var starts, accepts int
	for _, id := range reachable {
		switch a.State(id).Kind() {
		case Start:
			starts++
		case Accepting:
			accepts++
		}
	}
	if starts != 1 {
		return fmt.Errorf("nfa: expected exactly 1 reachable Start state, found %d", starts)
	}
	if accepts != 1 {
		return fmt.Errorf("nfa: expected exactly 1 reachable Accepting state, found %d", accepts)
	}
	return nil
}

// reachableStates returns, in discovery order, every state reachable from
// start by following edges (ε or otherwise). Visited membership uses the
// bounded sparse set from internal/sparse (sized to the arena's fixed
// capacity) rather than a map, matching the arena's own no-heap-growth
// discipline.
func reachableStates(a *Arena, start StateID) []StateID {
	seen := sparse.NewSparseSet(uint32(a.Capacity()))
	order := []StateID{start}
	seen.Insert(uint32(start))
	for i := 0; i < len(order); i++ {
		for _, eid := range a.State(order[i]).Edges() {
			target := a.Edge(eid).Target
			if !seen.Contains(uint32(target)) {
				seen.Insert(uint32(target))
				order = append(order, target)
			}
		}
	}
	return order
}
