package specparser

import (
	"testing"

	"github.com/lexforge/lexforge/internal/arena"
)

func newPools(t *testing.T) Pools {
	t.Helper()
	return Pools{
		Terminals:   arena.NewTerminalPool(1024),
		NonTerms:    arena.NewNonTermPool(32, 64),
		Expressions: arena.NewExprPool(64),
	}
}

func noWarn(int, int, string, ...any) {}

// Scenario 1 (spec §8): a single terminal produces a NoOp-terminated chain
// of exactly one node.
func TestParseLine_SingleTerminal(t *testing.T) {
	pools := newPools(t)
	idx, err := ParseLine("$x := a", 1, pools, noWarn)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	nt := pools.NonTerms.Get(idx)
	if !nt.Complete || nt.Name != "x" {
		t.Fatalf("non-terminal = %+v, want Complete name \"x\"", nt)
	}

	if nt.Expr.Tag != arena.NestedExpression {
		t.Fatalf("Expr.Tag = %v, want NestedExpression", nt.Expr.Tag)
	}
	node := pools.Expressions.Get(nt.Expr.Index)
	if node.Type != arena.NoOp {
		t.Errorf("Type = %v, want NoOp", node.Type)
	}
	if node.Op2.Tag != arena.Nothing {
		t.Errorf("Op2.Tag = %v, want Nothing", node.Op2.Tag)
	}
	if node.Op1.Tag != arena.Terminal {
		t.Fatalf("Op1.Tag = %v, want Terminal", node.Op1.Tag)
	}
	if got := string(pools.Terminals.Bytes(node.Op1.Index)); got != "a" {
		t.Errorf("terminal bytes = %q, want %q", got, "a")
	}
}

// Scenario 3 (spec §8): "a b* c" binds the closure only to "b", producing
// And(a, And(ZeroOrMore(b), And(c, NoOp))).
func TestParseLine_ClosureBindsSingleOperand(t *testing.T) {
	pools := newPools(t)
	idx, err := ParseLine("$x := a b* c", 1, pools, noWarn)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	nt := pools.NonTerms.Get(idx)
	n1 := pools.Expressions.Get(nt.Expr.Index)
	if n1.Type != arena.And {
		t.Fatalf("n1.Type = %v, want And", n1.Type)
	}
	if got := string(pools.Terminals.Bytes(n1.Op1.Index)); got != "a" {
		t.Errorf("n1.Op1 = %q, want %q", got, "a")
	}

	n2 := pools.Expressions.Get(n1.Op2.Index)
	if n2.Type != arena.And {
		t.Fatalf("n2.Type = %v, want And", n2.Type)
	}
	if n2.Op1.Tag != arena.NestedExpression {
		t.Fatalf("n2.Op1.Tag = %v, want NestedExpression (wrapped closure)", n2.Op1.Tag)
	}
	closure := pools.Expressions.Get(n2.Op1.Index)
	if closure.Type != arena.ZeroOrMore {
		t.Fatalf("closure.Type = %v, want ZeroOrMore", closure.Type)
	}
	if got := string(pools.Terminals.Bytes(closure.Op1.Index)); got != "b" {
		t.Errorf("closure.Op1 = %q, want %q", got, "b")
	}
	if closure.Op2.Tag != arena.Nothing {
		t.Errorf("closure.Op2.Tag = %v, want Nothing", closure.Op2.Tag)
	}

	n3 := pools.Expressions.Get(n2.Op2.Index)
	if n3.Type != arena.NoOp {
		t.Fatalf("n3.Type = %v, want NoOp", n3.Type)
	}
	if got := string(pools.Terminals.Bytes(n3.Op1.Index)); got != "c" {
		t.Errorf("n3.Op1 = %q, want %q", got, "c")
	}
}

// Scenario 4 (spec §8): a forward reference to an as-yet-undefined
// non-terminal resolves once both lines are parsed.
func TestParseLine_ForwardReference(t *testing.T) {
	pools := newPools(t)
	xIdx, err := ParseLine("$x := $y", 1, pools, noWarn)
	if err != nil {
		t.Fatalf("ParseLine(x): %v", err)
	}
	if yStub, ok := pools.NonTerms.Lookup("y"); !ok || pools.NonTerms.Get(yStub).Complete {
		t.Fatalf("y should be an incomplete stub until its own line is parsed")
	}

	yIdx, err := ParseLine("$y := z", 2, pools, noWarn)
	if err != nil {
		t.Fatalf("ParseLine(y): %v", err)
	}

	x := pools.NonTerms.Get(xIdx)
	y := pools.NonTerms.Get(yIdx)
	if !x.Complete || !y.Complete {
		t.Fatalf("x.Complete=%v y.Complete=%v, want both true", x.Complete, y.Complete)
	}

	node := pools.Expressions.Get(x.Expr.Index)
	if node.Op1.Tag != arena.NonTerminalRef || node.Op1.Index != yIdx {
		t.Errorf("x references %+v, want NonTerminalRef to %d", node.Op1, yIdx)
	}
}

// Scenario 5 (spec §8): @_ and @@ decode to single-byte " " and "@".
func TestParseLine_EscapeDecoding(t *testing.T) {
	pools := newPools(t)
	idx, err := ParseLine("$x := @_ | @@", 1, pools, noWarn)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}

	nt := pools.NonTerms.Get(idx)
	node := pools.Expressions.Get(nt.Expr.Index)
	if node.Type != arena.Or {
		t.Fatalf("Type = %v, want Or", node.Type)
	}
	if got := string(pools.Terminals.Bytes(node.Op1.Index)); got != " " {
		t.Errorf("Op1 = %q, want %q", got, " ")
	}
	second := pools.Expressions.Get(node.Op2.Index)
	if got := string(pools.Terminals.Bytes(second.Op1.Index)); got != "@" {
		t.Errorf("second operand = %q, want %q", got, "@")
	}
}

// Scenario 6 (spec §8): a trailing '@' is a fatal IncompleteEscape located
// at the '@' byte's column.
func TestParseLine_IncompleteEscape(t *testing.T) {
	pools := newPools(t)
	_, err := ParseLine("$x := a @", 1, pools, noWarn)
	if err == nil {
		t.Fatal("ParseLine succeeded, want IncompleteEscape")
	}
	d, ok := err.(interface{ Unwrap() error })
	if !ok {
		t.Fatalf("err = %T, want diag.Diagnostic", err)
	}
	if d.Unwrap() != ErrIncompleteEscape {
		t.Errorf("unwrapped err = %v, want ErrIncompleteEscape", d.Unwrap())
	}
}

// The spec's resolved closure-precedence boundary (§9): an escaped star
// (@* -> literal '*') never pushes back, and @@* (an escaped '@' followed
// by a fresh, unescaped '*') does push back -- the even/odd count of
// leading '@' bytes before the star decides it.
func TestParseLine_ClosurePrecedenceBoundary(t *testing.T) {
	t.Run("escaped star stays literal", func(t *testing.T) {
		pools := newPools(t)
		idx, err := ParseLine("$x := a@*", 1, pools, noWarn)
		if err != nil {
			t.Fatalf("ParseLine: %v", err)
		}
		nt := pools.NonTerms.Get(idx)
		node := pools.Expressions.Get(nt.Expr.Index)
		if node.Type != arena.NoOp {
			t.Fatalf("Type = %v, want NoOp (no pushback)", node.Type)
		}
		if got := string(pools.Terminals.Bytes(node.Op1.Index)); got != "a*" {
			t.Errorf("literal = %q, want %q", got, "a*")
		}
	})

	t.Run("escaped at then fresh star pushes back", func(t *testing.T) {
		pools := newPools(t)
		idx, err := ParseLine("$x := a@@*", 1, pools, noWarn)
		if err != nil {
			t.Fatalf("ParseLine: %v", err)
		}
		nt := pools.NonTerms.Get(idx)
		// The top-level node has nothing following the closure, so it's a
		// NoOp wrapper whose op1 nests the actual ZeroOrMore node.
		top := pools.Expressions.Get(nt.Expr.Index)
		if top.Type != arena.NoOp {
			t.Fatalf("top.Type = %v, want NoOp", top.Type)
		}
		if top.Op1.Tag != arena.NestedExpression {
			t.Fatalf("top.Op1.Tag = %v, want NestedExpression (wrapped closure)", top.Op1.Tag)
		}
		closure := pools.Expressions.Get(top.Op1.Index)
		if closure.Type != arena.ZeroOrMore {
			t.Fatalf("closure.Type = %v, want ZeroOrMore", closure.Type)
		}
		if got := string(pools.Terminals.Bytes(closure.Op1.Index)); got != "a@" {
			t.Errorf("closure.Op1 = %q, want %q (@@ decoded to a literal @)", got, "a@")
		}
	})
}

func TestParseLine_MalformedHeader(t *testing.T) {
	pools := newPools(t)
	if _, err := ParseLine("x := a", 1, pools, noWarn); err == nil {
		t.Error("ParseLine succeeded, want MalformedHeader")
	}
}

func TestParseLine_MissingDefinition(t *testing.T) {
	pools := newPools(t)
	if _, err := ParseLine("$x :=", 1, pools, noWarn); err == nil {
		t.Error("ParseLine succeeded, want MissingDefinition")
	}
}

func TestParseLine_DanglingOperator(t *testing.T) {
	pools := newPools(t)
	if _, err := ParseLine("$x := | a", 1, pools, noWarn); err == nil {
		t.Error("ParseLine succeeded, want DanglingOperator")
	}
}

// TestParseLine_TrailingDanglingOperator covers a '|' that consumes an
// operand slot but is never followed by one: the body ends right after the
// operator instead of before it. This must fail the same way a leading
// dangling operator does, not silently complete with an empty operand.
func TestParseLine_TrailingDanglingOperator(t *testing.T) {
	pools := newPools(t)
	if _, err := ParseLine("$x := a |", 1, pools, noWarn); err == nil {
		t.Error("ParseLine succeeded on a trailing '|', want DanglingOperator")
	}
}

func TestParseLine_MissingAssignment(t *testing.T) {
	pools := newPools(t)
	if _, err := ParseLine("$x a", 1, pools, noWarn); err == nil {
		t.Error("ParseLine succeeded, want MissingDefinition for absent ':='")
	}
}

func TestParseLine_Redefinition(t *testing.T) {
	pools := newPools(t)
	if _, err := ParseLine("$x := a", 1, pools, noWarn); err != nil {
		t.Fatalf("first ParseLine: %v", err)
	}
	if _, err := ParseLine("$x := b", 2, pools, noWarn); err == nil {
		t.Error("redefining x succeeded, want Redefinition")
	}
}

func TestParseLine_UnrecognisedEscapeWarns(t *testing.T) {
	pools := newPools(t)
	var gotLine, gotCol int
	warn := func(line, col int, format string, args ...any) {
		gotLine, gotCol = line, col
	}
	idx, err := ParseLine("$x := @z", 3, pools, warn)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if gotLine != 3 || gotCol == 0 {
		t.Errorf("warn not called with expected position, got line=%d col=%d", gotLine, gotCol)
	}
	nt := pools.NonTerms.Get(idx)
	node := pools.Expressions.Get(nt.Expr.Index)
	if got := string(pools.Terminals.Bytes(node.Op1.Index)); got != "z" {
		t.Errorf("unrecognised escape decoded to %q, want %q (the '@' dropped)", got, "z")
	}
}
