package builtins

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/uuid"

	"clock/internal/runtime"
)

var stdinReader = bufio.NewReader(os.Stdin)

func uuidFn(args []runtime.Value) runtime.Value {
	if len(args) != 0 {
		reportBuiltinError("uuid", fmt.Errorf("expects no arguments"))
		return runtime.Null
	}
	return runtime.Str(uuid.NewString())
}

// write prints every argument comma-separated followed by a newline, the
// sole way a Clock program produces visible output.
func writeFn(args []runtime.Value) runtime.Value {
	for i, v := range args {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(v.String())
	}
	fmt.Println()
	return runtime.Null
}

// input([prompt]) prints an optional prompt, then reads one line from
// stdin with its trailing newline stripped.
func inputFn(args []runtime.Value) runtime.Value {
	if len(args) > 1 {
		reportBuiltinError("input", fmt.Errorf("expects at most 1 argument"))
		return runtime.Null
	}
	if len(args) == 1 {
		fmt.Print(args[0].String())
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return runtime.Null
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return runtime.Str(line)
}
