package cerrors

import (
	"strings"
	"testing"
)

func TestErrorIncludesLocation(t *testing.T) {
	err := New(ParseError, "script.clk", 3, 7, "unexpected token %q", "}")
	msg := err.Error()
	if !strings.Contains(msg, "ParseError") || !strings.Contains(msg, "script.clk:3:7") {
		t.Fatalf("unexpected error rendering: %q", msg)
	}
}

func TestErrorWithoutFileUsesInputPlaceholder(t *testing.T) {
	err := New(EvalError, "", 1, 1, "boom")
	if !strings.Contains(err.Error(), "<input>") {
		t.Fatalf("expected <input> placeholder, got %q", err.Error())
	}
}

func TestErrorWithSourceLineRendersCaret(t *testing.T) {
	err := New(ParseError, "f.clk", 1, 5, "oops")
	err.Source = "make x = ;"
	msg := err.Error()
	if !strings.Contains(msg, "make x = ;") || !strings.Contains(msg, "^") {
		t.Fatalf("expected source line and caret in output, got %q", msg)
	}
}
