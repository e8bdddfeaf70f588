// Package cerrors implements Clock's error taxonomy: lexer and evaluator
// errors are reported and execution continues; parser and emitter errors
// are reported and abort the process, since continuing past a malformed
// AST would mean inventing structure the input never specified.
package cerrors

import (
	"fmt"
	"os"
	"strings"
)

// Kind identifies which stage raised an error.
type Kind string

const (
	LexError   Kind = "LexError"
	ParseError Kind = "ParseError"
	EvalError  Kind = "EvalError"
	EmitError  Kind = "EmitError"
	IOError    Kind = "IOError"
)

// ClockError carries a source location alongside its message so the CLI
// and REPL can render a caret under the offending column.
type ClockError struct {
	Kind    Kind
	Message string
	File    string
	Line    int
	Col     int
	Source  string // the offending source line, if known
}

func (e *ClockError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Line > 0 {
		loc := e.File
		if loc == "" {
			loc = "<input>"
		}
		fmt.Fprintf(&b, " (%s:%d:%d)", loc, e.Line, e.Col)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, "\n  %d | %s", e.Line, e.Source)
		if e.Col > 0 {
			fmt.Fprintf(&b, "\n  %s^", strings.Repeat(" ", len(fmt.Sprintf("%d | ", e.Line))+e.Col-1))
		}
	}
	return b.String()
}

// New builds a ClockError for the given stage.
func New(kind Kind, file string, line, col int, format string, args ...interface{}) *ClockError {
	return &ClockError{Kind: kind, Message: fmt.Sprintf(format, args...), File: file, Line: line, Col: col}
}

// Report writes err to stderr. Lex and Eval errors call this and keep
// going; Parse and Emit errors call this and then abort (see Fatal).
func Report(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
}

// Fatal reports err to stderr and terminates the process with a non-zero
// status, for the Parse/Emit error classes that cannot be recovered from
// without inventing AST structure.
func Fatal(err error) {
	Report(err)
	os.Exit(1)
}
