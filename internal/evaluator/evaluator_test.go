package evaluator

import (
	"testing"

	"clock/internal/ast"
	"clock/internal/lexer"
	"clock/internal/parser"
	"clock/internal/runtime"
)

func runProgram(t *testing.T, src string) (runtime.Value, bool, *runtime.Environment) {
	t.Helper()
	tokens := lexer.New(src, "<test>").ScanTokens()
	program := parser.New(tokens, src, "<test>").Parse()
	env := runtime.NewEnvironment()
	ev := New("<test>", src)
	v, ok := ev.Run(program, env)
	return v, ok, env
}

func TestTopLevelReturnValue(t *testing.T) {
	v, ok, _ := runProgram(t, "return 1 + 2;")
	if !ok || v.Kind != runtime.IntKind || v.Int != 3 {
		t.Fatalf("got %v, %v; want Int(3), true", v, ok)
	}
}

func TestArithmeticIntAndFloat(t *testing.T) {
	_, _, env := runProgram(t, "make a = 1 + 2 * 3; make b = 7.5 - 2.5;")
	a, _ := env.Get("a")
	if a.Kind != runtime.IntKind || a.Int != 7 {
		t.Fatalf("a = %v, want Int(7)", a)
	}
	b, _ := env.Get("b")
	if b.Kind != runtime.FloatKind || b.Flt != 5.0 {
		t.Fatalf("b = %v, want Float(5.0)", b)
	}
}

func TestDivisionByZeroReportsAndContinues(t *testing.T) {
	_, _, env := runProgram(t, "make a = 1 / 0; make b = 2;")
	a, _ := env.Get("a")
	if a.Kind != runtime.NullKind {
		t.Fatalf("a = %v, want Null after reported error", a)
	}
	b, _ := env.Get("b")
	if b.Kind != runtime.IntKind || b.Int != 2 {
		t.Fatalf("execution should continue after an eval error; b = %v", b)
	}
}

func TestBlockScopingDoesNotLeak(t *testing.T) {
	_, _, env := runProgram(t, `
		make x = 1;
		{
			make x = 2;
		}
	`)
	x, _ := env.Get("x")
	if x.Int != 1 {
		t.Fatalf("outer x clobbered by inner block: got %v, want Int(1)", x)
	}
}

func TestAssignmentWritesLocalScopeOnly(t *testing.T) {
	// Per the environment's local-write rule, an inner-scope "x = ..."
	// shadows rather than mutates the outer binding.
	_, _, env := runProgram(t, `
		make x = 1;
		function mutate() {
			x = 99;
			return x;
		}
		make result = mutate();
	`)
	x, _ := env.Get("x")
	if x.Int != 1 {
		t.Fatalf("outer x should be untouched by the function's local write, got %v", x)
	}
	result, _ := env.Get("result")
	if result.Int != 99 {
		t.Fatalf("function's own local x should read back as 99, got %v", result)
	}
}

func TestCompoundAssignment(t *testing.T) {
	_, _, env := runProgram(t, "make x = 10; x += 5; x *= 2;")
	x, _ := env.Get("x")
	if x.Int != 30 {
		t.Fatalf("x = %v, want Int(30)", x)
	}
}

func TestWhileLoopWithBreak(t *testing.T) {
	_, _, env := runProgram(t, `
		make i = 0;
		make sum = 0;
		while (i < 100) {
			if (i == 5) { stop; }
			sum += i;
			i += 1;
		}
	`)
	sum, _ := env.Get("sum")
	if sum.Int != 0+1+2+3+4 {
		t.Fatalf("sum = %v, want Int(10)", sum)
	}
}

func TestForLoopExposesInductionVariable(t *testing.T) {
	_, _, env := runProgram(t, `
		make last = -1;
		for (0 to 5) {
			last = i;
		}
	`)
	last, _ := env.Get("last")
	if last.Int != 4 {
		t.Fatalf("last = %v, want Int(4) (for is a half-open range)", last)
	}
}

func TestFunctionClosureCapturesDeclarationEnvironment(t *testing.T) {
	v, ok, _ := runProgram(t, `
		function makeAdder(n) {
			function add(x) {
				return x + n;
			}
			return add;
		}
		make addFive = makeAdder(5);
		return addFive(10);
	`)
	if !ok || v.Int != 15 {
		t.Fatalf("got %v, %v; want Int(15), true", v, ok)
	}
}

func TestArrayLiteralAndInPlaceMutation(t *testing.T) {
	_, _, env := runProgram(t, `
		make xs = [1, 2, 3];
		xs[1] = 99;
	`)
	xs, _ := env.Get("xs")
	if xs.Kind != runtime.ArrayKind || (*xs.Array)[1].Int != 99 {
		t.Fatalf("xs = %v, want [1, 99, 3]", xs)
	}
}

func TestArrayOutOfBoundsReportsAndReturnsNull(t *testing.T) {
	_, _, env := runProgram(t, "make xs = [1, 2, 3]; make v = xs[10];")
	v, _ := env.Get("v")
	if v.Kind != runtime.NullKind {
		t.Fatalf("v = %v, want Null for an out-of-bounds access", v)
	}
}

func TestSwitchMatchesExactlyOneCase(t *testing.T) {
	_, _, env := runProgram(t, `
		make result = 0;
		switch (2) {
			when 1:
				result = 10;
				stop;
			when 2:
				result = 20;
				stop;
			default:
				result = 99;
				stop;
		}
	`)
	result, _ := env.Get("result")
	if result.Int != 20 {
		t.Fatalf("result = %v, want Int(20)", result)
	}
}

func TestSwitchFallsThroughToDefault(t *testing.T) {
	_, _, env := runProgram(t, `
		make result = 0;
		switch (99) {
			when 1:
				result = 10;
				stop;
			default:
				result = -1;
				stop;
		}
	`)
	result, _ := env.Get("result")
	if result.Int != -1 {
		t.Fatalf("result = %v, want Int(-1)", result)
	}
}

func TestUndefinedNameReportsAndReturnsNull(t *testing.T) {
	_, _, env := runProgram(t, "make a = undefinedThing;")
	a, _ := env.Get("a")
	if a.Kind != runtime.NullKind {
		t.Fatalf("a = %v, want Null", a)
	}
}

func TestTruthinessRules(t *testing.T) {
	v, ok, _ := runProgram(t, `
		make result = "";
		if (0) { result = "zero is truthy"; } else { result = "zero is falsy"; }
		return result;
	`)
	if !ok || v.Str != "zero is falsy" {
		t.Fatalf("got %v, %v; want \"zero is falsy\"", v, ok)
	}
}

func TestNodeKindCoverage(t *testing.T) {
	// A smoke test that every statement kind the parser can produce is at
	// least dispatched without panicking.
	src := `
		make a = 1;
		list b = {1; 2};
		function f(x) { return x; }
		if (true) { } else { }
		while (false) { }
		for (0 to 0) { }
		switch (1) { when 1: stop; }
		f(a);
	`
	tokens := lexer.New(src, "<test>").ScanTokens()
	program := parser.New(tokens, src, "<test>").Parse()
	if program.Kind != ast.Program {
		t.Fatalf("expected Program root, got %s", program.Kind)
	}
	env := runtime.NewEnvironment()
	New("<test>", src).Run(program, env)
}
