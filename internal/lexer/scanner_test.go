package lexer

import "testing"

func scanTypes(src string) []TokenType {
	tokens := New(src, "<test>").ScanTokens()
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, src string, want ...TokenType) {
	t.Helper()
	want = append(want, TokenEOF)
	got := scanTypes(src)
	if len(got) != len(want) {
		t.Fatalf("scanning %q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scanning %q: token %d = %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestKeywordsAndPunctuationShareTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenType
	}{
		{"brace keywords", "doing finish", []TokenType{TokenLBrace, TokenRBrace}},
		{"paren keywords", "open close", []TokenType{TokenLParen, TokenRParen}},
		{"semicolon and end", "; end", []TokenType{TokenEnd, TokenEnd}},
		{"word operators", "plus minus multiply divide", []TokenType{TokenPlus, TokenMinus, TokenStar, TokenSlash}},
		{"word comparisons", "equalsEquals notEquals lessThan greaterThanOrEquals", []TokenType{TokenDoubleEqual, TokenNotEqual, TokenLT, TokenGE}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTypes(t, tt.src, tt.want...)
		})
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want TokenType
	}{
		{"decimal int", "42", TokenInt},
		{"hex", "0x1F", TokenHex},
		{"binary", "0b1010", TokenBinary},
		{"float", "3.14", TokenFloat},
		{"exponent float", "1e10", TokenFloat},
		{"negative exponent", "1.5e-3", TokenFloat},
		{"int stays int without fraction", "100", TokenInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTypes(t, tt.src, tt.want)
		})
	}
}

func TestParseIntLexeme(t *testing.T) {
	v, err := ParseIntLexeme(TokenHex, "0x10")
	if err != nil || v != 16 {
		t.Fatalf("0x10 -> %d, %v; want 16, nil", v, err)
	}
	v, err = ParseIntLexeme(TokenBinary, "0b101")
	if err != nil || v != 5 {
		t.Fatalf("0b101 -> %d, %v; want 5, nil", v, err)
	}
}

func TestStringLiteral(t *testing.T) {
	tokens := New(`"hello world"`, "<test>").ScanTokens()
	if len(tokens) != 2 || tokens[0].Type != TokenString || tokens[0].Lexeme != "hello world" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	assertTypes(t, "1 # a comment\n2 // another\n3", TokenInt, TokenInt, TokenInt)
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens := New("a\nbb", "<test>").ScanTokens()
	if tokens[0].Line != 1 || tokens[0].Col != 1 {
		t.Fatalf("first token origin = %d:%d, want 1:1", tokens[0].Line, tokens[0].Col)
	}
	if tokens[1].Line != 2 || tokens[1].Col != 1 {
		t.Fatalf("second token origin = %d:%d, want 2:1", tokens[1].Line, tokens[1].Col)
	}
}

func TestLongestOperatorMatchWinsFirst(t *testing.T) {
	assertTypes(t, "+=", TokenPlusEq)
	assertTypes(t, "+ =", TokenPlus, TokenEqual)
	assertTypes(t, "==", TokenDoubleEqual)
	assertTypes(t, "= =", TokenEqual, TokenEqual)
}
