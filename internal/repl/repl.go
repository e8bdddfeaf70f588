// Package repl implements the interactive line editor described in the
// CLI's no-argument mode: a growing buffer terminated by a bare END or
// DEBUG line, the latter additionally dumping tokens, the AST, and the
// lowered bytecode before running.
package repl

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"clock/internal/builtins"
	"clock/internal/emitter"
	"clock/internal/evaluator"
	"clock/internal/lexer"
	"clock/internal/parser"
	"clock/internal/printer"
	"clock/internal/runtime"
)

// Start reads lines from stdin until EOF, running the buffered program
// each time the user enters END or DEBUG. Empty input (no lines typed
// before EOF) exits without error, matching the CLI contract. Prompts are
// only printed when interactive is true, so a piped-in script doesn't get
// "clock> " noise interleaved with its own output.
func Start(interactive bool) {
	if interactive {
		fmt.Println("Clock interactive mode — type END to run, DEBUG to run with diagnostics, empty input to exit.")
	}
	scanner := bufio.NewScanner(os.Stdin)
	env := runtime.NewEnvironment()
	builtins.Register(env)

	var buf []string
	for {
		if interactive {
			if len(buf) == 0 {
				fmt.Print("clock> ")
			} else {
				fmt.Print("...... ")
			}
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch strings.TrimSpace(line) {
		case "END":
			if len(buf) == 0 {
				return
			}
			run(strings.Join(buf, "\n"), env, false)
			buf = nil
			continue
		case "DEBUG":
			if len(buf) == 0 {
				return
			}
			run(strings.Join(buf, "\n"), env, true)
			buf = nil
			continue
		}
		buf = append(buf, line)
	}
}

func run(source string, env *runtime.Environment, debug bool) {
	const file = "<repl>"
	scan := lexer.New(source, file)
	tokens := scan.ScanTokens()

	if debug {
		fmt.Println("--- tokens ---")
		for _, t := range tokens {
			fmt.Printf("  %s %q\n", t.Type, t.Lexeme)
		}
	}

	p := parser.New(tokens, source, file)
	program := p.Parse()

	if debug {
		fmt.Println("--- ast ---")
		fmt.Print(printer.Print(program))

		fmt.Println("--- bytecode ---")
		prog := emitter.New(file).Emit(program)
		for i, ins := range prog.Instructions {
			fmt.Printf("  %04d %s\n", i, ins.Op)
		}
	}

	eval := evaluator.New(file, source)
	result, hasResult := eval.Run(program, env)
	if hasResult {
		fmt.Println(result.String())
	}
}
