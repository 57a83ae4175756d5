// Package dot renders a built NFA as a Graphviz DOT digraph (spec §4.8):
// the start state and accepting state are drawn as filled boxes in
// distinct colors, every other reachable state is left at Graphviz's
// default shape, and each edge is labelled with its transition byte or
// "eps" for an ε-transition. Grounded on Toasa-regexp's DumpDOT
// (other_examples), generalized from fmt.Printf-to-stdout into a
// io.Writer-based emitter with configurable accept-state labelling, and
// from a single-accept-state NFA onto the package's two-state-per-handle
// Thompson model.
package dot

import (
	"fmt"
	"io"

	"github.com/lexforge/lexforge/internal/sparse"
	"github.com/lexforge/lexforge/nfa"
)

const (
	startColor  = "lightblue"
	acceptColor = "lightgreen"
)

// Option customizes a single Write call.
type Option func(*options)

type options struct {
	graphName   string
	acceptLabel string
}

// WithName sets the digraph's name (default "NFA").
func WithName(name string) Option {
	return func(o *options) { o.graphName = name }
}

// WithAcceptLabel overrides the accepting state's node label, used when
// rendering a single non-terminal's own automaton so its box reads the
// non-terminal's name instead of the generic "accept".
func WithAcceptLabel(label string) Option {
	return func(o *options) { o.acceptLabel = label }
}

// Write renders every state reachable from h.Start as a DOT digraph. The
// states named by h.Start and h.Accept are drawn as the start and accept
// boxes regardless of their current nfa.Kind — a built handle's boundary
// states may have been reclassified Internal by a later combinator (e.g.
// when folded into a union), but the handle itself still names the right
// state IDs to highlight.
func Write(w io.Writer, a *nfa.Arena, h nfa.Handle, opts ...Option) error {
	o := options{graphName: "NFA", acceptLabel: "accept"}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := fmt.Fprintf(w, "digraph %s {\n", o.graphName); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\tS%d [shape=box, style=filled, fillcolor=%s, label=\"start\"];\n", h.Start, startColor); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\tS%d [shape=box, style=filled, fillcolor=%s, label=%q];\n", h.Accept, acceptColor, o.acceptLabel); err != nil {
		return err
	}

	order := reachable(a, h.Start)
	for _, src := range order {
		for _, eid := range a.State(src).Edges() {
			e := a.Edge(eid)
			label := "eps"
			if e.Symbol != 0 {
				label = fmt.Sprintf("%q", string(rune(e.Symbol)))
			}
			if _, err := fmt.Fprintf(w, "\tS%d -> S%d [label=%s];\n", src, e.Target, label); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprint(w, "}\n")
	return err
}

// reachable walks every state reachable from start, marking each visited
// state via nfa.State.SetMark as it goes (spec §4.8: the mark bit is set
// during traversal and never reset — a render leaves the arena's states
// permanently marked, which is harmless since nothing else reads the bit
// once a grammar has been emitted).
func reachable(a *nfa.Arena, start nfa.StateID) []nfa.StateID {
	seen := sparse.NewSparseSet(uint32(a.Capacity()))
	order := []nfa.StateID{start}
	seen.Insert(uint32(start))
	a.State(start).SetMark()

	for i := 0; i < len(order); i++ {
		for _, eid := range a.State(order[i]).Edges() {
			target := a.Edge(eid).Target
			if !seen.Contains(uint32(target)) {
				seen.Insert(uint32(target))
				a.State(target).SetMark()
				order = append(order, target)
			}
		}
	}
	return order
}
