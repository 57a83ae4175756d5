package nfa

import (
	"fmt"

	"github.com/lexforge/lexforge/internal/conv"
)

// StateID identifies an NFA state by its offset in the shared state arena.
type StateID uint32

// EdgeID identifies an NFA edge by its offset in the shared edge arena.
type EdgeID uint32

// InvalidState is a sentinel for "no state" (distinct from the valid
// allocation index zero, per spec §4.1).
const InvalidState StateID = 0xFFFFFFFF

// InvalidEdge is the edge-arena equivalent of InvalidState.
const InvalidEdge EdgeID = 0xFFFFFFFF

// maxEdgesPerState bounds a single state's outgoing edge array (spec §6).
const maxEdgesPerState = 128

// Kind is an NFA state's type (spec §3).
type Kind uint8

const (
	Internal Kind = iota
	Start
	Accepting
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "Start"
	case Accepting:
		return "Accepting"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// State is one NFA state: a bounded array of outgoing edge offsets, a
// state-type, and a traversal mark bit (spec §3). Edges carry the
// transition symbol, so a state's type alone does not encode its
// transitions.
type State struct {
	kind  Kind
	mark  bool
	edges []EdgeID
}

// Kind returns the state's type.
func (s *State) Kind() Kind { return s.kind }

// Mark returns the traversal mark bit (spec §4.8: set, never reset).
func (s *State) Mark() bool { return s.mark }

// SetMark sets the traversal mark bit.
func (s *State) SetMark() { s.mark = true }

// Edges returns the state's outgoing edge offsets.
func (s *State) Edges() []EdgeID { return s.edges }

// Edge is a directed transition: a target state and a transition symbol.
// The byte value zero represents ε (spec §3); ε is never a legal alphabet
// symbol for terminals.
type Edge struct {
	Target StateID
	Symbol byte
}

// Handle identifies one Thompson automaton living in the shared arena: the
// offsets of its unique start state and its unique accepting state (spec
// §3). Handles are passed by value; combinators mutate the states a handle
// names through the Arena and return a new Handle, which the caller rebinds
// (see the note at the top of builder.go).
type Handle struct {
	Start  StateID
	Accept StateID
}

// Arena is the bounded-capacity backing store for NFA states and edges
// (spec §4.1, §4.5). All allocation returns a pre-increment index; overflow
// is reported via ErrCapacityExceeded rather than panicking, so the CLI can
// turn it into the spec's fatal CapacityExceeded diagnostic.
type Arena struct {
	states       []State
	edges        []Edge
	maxStates    int
	maxEdgesNode int
}

// NewArena creates an arena bounded to maxStates states, each with at most
// maxEdgesPerNode outgoing edges.
func NewArena(maxStates, maxEdgesPerNode int) *Arena {
	if maxEdgesPerNode <= 0 || maxEdgesPerNode > maxEdgesPerState {
		maxEdgesPerNode = maxEdgesPerState
	}
	return &Arena{
		states:       make([]State, 0, maxStates),
		edges:        make([]Edge, 0, maxStates*2),
		maxStates:    maxStates,
		maxEdgesNode: maxEdgesPerNode,
	}
}

// NewState allocates a fresh state of the given kind with zero edges.
func (a *Arena) NewState(kind Kind) (StateID, error) {
	if len(a.states) >= a.maxStates {
		return InvalidState, fmt.Errorf("%w: NFA state arena exhausted (max %d states)", ErrCapacityExceeded, a.maxStates)
	}
	id := StateID(conv.IntToUint32(len(a.states)))
	a.states = append(a.states, State{kind: kind})
	return id, nil
}

// NewEdge allocates a directed edge from source to target with the given
// symbol and appends it to source's outgoing edge array.
func (a *Arena) NewEdge(source, target StateID, symbol byte) (EdgeID, error) {
	src := &a.states[source]
	if len(src.edges) >= a.maxEdgesNode {
		return InvalidEdge, fmt.Errorf("%w: state %d has too many outgoing edges (max %d)", ErrCapacityExceeded, source, a.maxEdgesNode)
	}
	id := EdgeID(conv.IntToUint32(len(a.edges)))
	a.edges = append(a.edges, Edge{Target: target, Symbol: symbol})
	src.edges = append(src.edges, id)
	return id, nil
}

// NewNFA creates a fresh Start/Accepting state pair and returns a handle to
// it (spec §4.5).
func (a *Arena) NewNFA() (Handle, error) {
	start, err := a.NewState(Start)
	if err != nil {
		return Handle{}, err
	}
	accept, err := a.NewState(Accepting)
	if err != nil {
		return Handle{}, err
	}
	return Handle{Start: start, Accept: accept}, nil
}

// State returns a pointer to the state at id for inspection or in-place
// mutation (e.g. reclassifying its Kind during a combinator).
func (a *Arena) State(id StateID) *State {
	return &a.states[id]
}

// Edge returns the edge at id.
func (a *Arena) Edge(id EdgeID) Edge {
	return a.edges[id]
}

// NumStates reports the number of allocated states.
func (a *Arena) NumStates() int {
	return len(a.states)
}

// Capacity reports the arena's fixed state capacity, used to size
// traversal sets (see reachableStates in builder.go).
func (a *Arena) Capacity() int {
	return a.maxStates
}
