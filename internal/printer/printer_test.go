package printer

import (
	"testing"

	"clock/internal/ast"
	"clock/internal/lexer"
	"clock/internal/parser"
)

func parseSrc(t *testing.T, src string) *ast.Node {
	t.Helper()
	tokens := lexer.New(src, "<test>").ScanTokens()
	return parser.New(tokens, src, "<test>").Parse()
}

// TestPrintParseReachesFixpoint checks the idempotency property: printing a
// parsed program, reparsing the result, and printing again must produce the
// exact same text as the first print — print/parse may normalize spelling
// (e.g. 'list' declarations always reprint as plain assignment), but once
// normalized, a second round-trip changes nothing further.
func TestPrintParseReachesFixpoint(t *testing.T) {
	sources := []string{
		`make x = 1 + 2 * 3;`,
		`function add(a, b) { return a + b; }`,
		`if (x) { make y = 1; } else { make y = 2; }`,
		`while (x) { x = x - 1; }`,
		`for (0 to 10) { write(i); }`,
		`make xs = [1, 2, 3];`,
		`switch (x) { when 1: write(1); stop; default: write(0); stop; }`,
		`make obj = thing->field;`,
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first := Print(parseSrc(t, src))
			reparsed := parseSrc(t, first)
			second := Print(reparsed)
			if first != second {
				t.Fatalf("not idempotent:\n--- first ---\n%s\n--- second ---\n%s", first, second)
			}
		})
	}
}

func TestPrintPreservesOperatorPrecedenceGrouping(t *testing.T) {
	out := Print(parseSrc(t, "make x = 1 + 2 * 3;"))
	// The printer always parenthesizes binary expressions, so precedence
	// survives the round trip regardless of spacing conventions.
	reparsed := parseSrc(t, out)
	stmt := reparsed.Children[0]
	top := stmt.Child(1)
	if top.Kind != ast.BinaryExpr || top.Op != "+" {
		t.Fatalf("expected top-level '+', got %s %q", top.Kind, top.Op)
	}
}
