// Command clock runs Clock source files, or drops into an interactive
// line editor when given none.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"clock/internal/builtins"
	"clock/internal/evaluator"
	"clock/internal/lexer"
	"clock/internal/parser"
	"clock/internal/repl"
	"clock/internal/runtime"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		repl.Start(interactive)
		return
	}
	runFile(args[0])
}

func runFile(filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clock: %v\n", err)
		os.Exit(1)
	}

	scan := lexer.New(string(source), filename)
	tokens := scan.ScanTokens()

	p := parser.New(tokens, string(source), filename)
	program := p.Parse()

	env := runtime.NewEnvironment()
	builtins.Register(env)

	eval := evaluator.New(filename, string(source))
	result, hasResult := eval.Run(program, env)
	if hasResult {
		fmt.Println(result.String())
	}
	os.Exit(0)
}
