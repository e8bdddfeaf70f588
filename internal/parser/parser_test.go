package parser

import (
	"testing"

	"clock/internal/ast"
	"clock/internal/lexer"
)

func parseString(t *testing.T, src string) *ast.Node {
	t.Helper()
	tokens := lexer.New(src, "<test>").ScanTokens()
	p := New(tokens, src, "<test>")
	return p.Parse()
}

func TestVariableDeclaration(t *testing.T) {
	prog := parseString(t, "make x = 5;")
	if len(prog.Children) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Children))
	}
	stmt := prog.Children[0]
	if stmt.Kind != ast.Assignment || stmt.Op != "=" {
		t.Fatalf("expected Assignment(=), got %s %q", stmt.Kind, stmt.Op)
	}
	if stmt.Child(0).Kind != ast.Identifier || stmt.Child(0).Op != "x" {
		t.Fatalf("expected identifier x, got %+v", stmt.Child(0))
	}
	if stmt.Child(1).Lit.Int != 5 {
		t.Fatalf("expected literal 5, got %+v", stmt.Child(1).Lit)
	}
}

func TestArrayDeclarationProducesArrayLiteral(t *testing.T) {
	prog := parseString(t, "list xs = {1; 2; 3};")
	stmt := prog.Children[0]
	lit := stmt.Child(1)
	if lit.Kind != ast.ArrayLiteral || len(lit.Children) != 3 {
		t.Fatalf("expected 3-element ArrayLiteral, got %+v", lit)
	}
}

func TestBracketArrayLiteralExpression(t *testing.T) {
	prog := parseString(t, "make xs = [1, 2, 3];")
	lit := prog.Children[0].Child(1)
	if lit.Kind != ast.ArrayLiteral || len(lit.Children) != 3 {
		t.Fatalf("expected 3-element ArrayLiteral, got %+v", lit)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	// "1 + 2 * 3" should parse as "1 + (2 * 3)".
	prog := parseString(t, "make x = 1 + 2 * 3;")
	top := prog.Children[0].Child(1)
	if top.Kind != ast.BinaryExpr || top.Op != "+" {
		t.Fatalf("top-level op = %s %q, want BinaryExpr +", top.Kind, top.Op)
	}
	right := top.Child(1)
	if right.Kind != ast.BinaryExpr || right.Op != "*" {
		t.Fatalf("right child = %s %q, want BinaryExpr *", right.Kind, right.Op)
	}
}

func TestLogicalBelowComparison(t *testing.T) {
	// "a < b && c < d" should parse as "(a<b) && (c<d)".
	prog := parseString(t, "make x = a < b && c < d;")
	top := prog.Children[0].Child(1)
	if top.Kind != ast.LogicalExpr || top.Op != "&&" {
		t.Fatalf("top-level = %s %q, want LogicalExpr &&", top.Kind, top.Op)
	}
	if top.Child(0).Kind != ast.BinaryExpr || top.Child(1).Kind != ast.BinaryExpr {
		t.Fatalf("both operands of && should be comparisons, got %+v / %+v", top.Child(0), top.Child(1))
	}
}

func TestIfNotWrapsConditionInUnaryNot(t *testing.T) {
	prog := parseString(t, "ifNot (x) { stop; }")
	ifNode := prog.Children[0]
	cond := ifNode.Child(0)
	if cond.Kind != ast.UnaryExpr || cond.Op != "!" {
		t.Fatalf("ifNot condition = %s %q, want UnaryExpr !", cond.Kind, cond.Op)
	}
}

func TestWhileNotWrapsConditionInUnaryNot(t *testing.T) {
	prog := parseString(t, "whileNot (x) { stop; }")
	whileNode := prog.Children[0]
	cond := whileNode.Child(0)
	if cond.Kind != ast.UnaryExpr || cond.Op != "!" {
		t.Fatalf("whileNot condition = %s %q, want UnaryExpr !", cond.Kind, cond.Op)
	}
}

func TestForLoopShape(t *testing.T) {
	prog := parseString(t, "for (0 to 10) { write(i); }")
	forNode := prog.Children[0]
	if forNode.Kind != ast.For || len(forNode.Children) != 3 {
		t.Fatalf("expected For with 3 children, got %+v", forNode)
	}
}

func TestSwitchRequiresAtLeastOneCase(t *testing.T) {
	prog := parseString(t, `switch (x) { when 1: write(1); stop; default: write(0); stop; }`)
	sw := prog.Children[0]
	if sw.Kind != ast.Switch || len(sw.Children) != 3 {
		t.Fatalf("expected Switch with scrutinee + 2 cases, got %+v", sw)
	}
	if sw.Children[1].Kind != ast.When {
		t.Fatalf("expected first case to be When, got %s", sw.Children[1].Kind)
	}
	if sw.Children[2].Kind != ast.Default {
		t.Fatalf("expected second case to be Default, got %s", sw.Children[2].Kind)
	}
}

func TestSwitchCaseStopIsNotAddedAsAStatement(t *testing.T) {
	prog := parseString(t, `switch (x) { when 1: write(1); stop; }`)
	when := prog.Children[0].Children[1]
	// Children: [value, write(1) call-statement] — the terminating stop;
	// is consumed by the parser and never appears as a child statement.
	if len(when.Children) != 2 {
		t.Fatalf("expected 2 children (value + one statement), got %d: %+v", len(when.Children), when.Children)
	}
}

func TestCompoundAssignmentOperators(t *testing.T) {
	ops := []string{"+=", "-=", "*=", "/=", "%="}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			prog := parseString(t, "x "+op+" 1;")
			stmt := prog.Children[0]
			if stmt.Kind != ast.Assignment || stmt.Op != op {
				t.Fatalf("expected Assignment(%s), got %s %q", op, stmt.Kind, stmt.Op)
			}
		})
	}
}

func TestFunctionDeclAndCall(t *testing.T) {
	prog := parseString(t, "function add(a, b) { return a + b; }\nmake r = add(1, 2);")
	fn := prog.Children[0]
	if fn.Kind != ast.FunctionDecl || fn.Child(0).Op != "add" {
		t.Fatalf("expected FunctionDecl add, got %+v", fn)
	}
	if len(fn.Children) != 4 { // name, a, b, body
		t.Fatalf("expected 4 children (name+2 params+body), got %d", len(fn.Children))
	}

	call := prog.Children[1].Child(1)
	if call.Kind != ast.FunctionCall || len(call.Children) != 3 {
		t.Fatalf("expected FunctionCall with callee+2 args, got %+v", call)
	}
}

func TestArrayAccessAndMemberAccess(t *testing.T) {
	prog := parseString(t, "make x = xs[0];")
	access := prog.Children[0].Child(1)
	if access.Kind != ast.ArrayAccess {
		t.Fatalf("expected ArrayAccess, got %s", access.Kind)
	}

	prog = parseString(t, "make x = obj->field;")
	member := prog.Children[0].Child(1)
	if member.Kind != ast.MemberAccess || member.Child(1).Op != "field" {
		t.Fatalf("expected MemberAccess to field, got %+v", member)
	}
}

func TestPostfixChain(t *testing.T) {
	// A call followed by an index: f()[0].
	prog := parseString(t, "make x = f()[0];")
	access := prog.Children[0].Child(1)
	if access.Kind != ast.ArrayAccess {
		t.Fatalf("expected outer ArrayAccess, got %s", access.Kind)
	}
	if access.Child(0).Kind != ast.FunctionCall {
		t.Fatalf("expected inner FunctionCall, got %s", access.Child(0).Kind)
	}
}

func TestLoneSemicolonIsNoOp(t *testing.T) {
	prog := parseString(t, ";;;make x = 1;;;;")
	if len(prog.Children) != 1 {
		t.Fatalf("expected lone semicolons to be skipped, got %d statements", len(prog.Children))
	}
}

func TestBreakAndContinueStatements(t *testing.T) {
	prog := parseString(t, "stop; continue;")
	if prog.Children[0].Kind != ast.Break {
		t.Fatalf("expected Break, got %s", prog.Children[0].Kind)
	}
	if prog.Children[1].Kind != ast.Continue {
		t.Fatalf("expected Continue, got %s", prog.Children[1].Kind)
	}
}
