// Package builtins supplies the native functions bound into the global
// environment before a program runs: everything a Clock script reaches
// that isn't expressible in Clock itself — I/O, databases, sockets,
// hashing, time. Each function implements runtime.BuiltinFunc: it reports
// its own failures to stderr and returns Null (or false, for the
// boolean-valued builtins) rather than raising an exception the evaluator
// has to catch, the same contract the teacher's native-function table used.
package builtins

import (
	"fmt"
	"os"

	"clock/internal/runtime"
)

// Registry lists every builtin by the name a Clock script calls it under.
var Registry = map[string]runtime.BuiltinFunc{
	"db_connect": dbConnect,
	"db_close":   dbClose,
	"db_execute": dbExecute,
	"db_query":   dbQuery,

	"ws_connect": wsConnect,
	"ws_send":    wsSend,
	"ws_receive": wsReceive,
	"ws_close":   wsClose,

	"read_file":   readFile,
	"write_file":  writeFile,
	"append_file": appendFile,
	"file_exists": fileExists,
	"file_size":   fileSize,
	"list_files":  listFiles,
	"delete_file": deleteFile,
	"file_hash":   fileHash,
	"human_size":  humanSize,

	"current_time": currentTime,
	"date_time":    dateTime,
	"timestamp":    timestamp,

	"uuid":  uuidFn,
	"write": writeFn,
	"input": inputFn,

	"hash_password":  hashPassword,
	"check_password": checkPassword,
}

// Register binds every entry in Registry into env, the way the evaluator's
// top-level environment is seeded before a program's first statement runs.
func Register(env *runtime.Environment) {
	for name, fn := range Registry {
		env.Define(name, runtime.Builtin(fn))
	}
}

// reportBuiltinError writes a non-fatal diagnostic for a builtin's own
// internal failure (a failed syscall, a DB driver error, a malformed
// argument) — builtins never abort the interpreter themselves; they hand
// back Null/false and let the calling script decide what to do next.
func reportBuiltinError(name string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
}
