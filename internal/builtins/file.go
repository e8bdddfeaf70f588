package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"clock/internal/runtime"
)

func readFile(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("read_file", fmt.Errorf("expects (path)"))
		return runtime.Null
	}
	data, err := os.ReadFile(args[0].Str)
	if err != nil {
		reportBuiltinError("read_file", err)
		return runtime.Null
	}
	return runtime.Str(string(data))
}

func writeFile(args []runtime.Value) runtime.Value {
	path, content, ok := stringArgs2(args, "write_file")
	if !ok {
		return runtime.Bool(false)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		reportBuiltinError("write_file", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

func appendFile(args []runtime.Value) runtime.Value {
	path, content, ok := stringArgs2(args, "append_file")
	if !ok {
		return runtime.Bool(false)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		reportBuiltinError("append_file", err)
		return runtime.Bool(false)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		reportBuiltinError("append_file", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

func fileExists(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("file_exists", fmt.Errorf("expects (path)"))
		return runtime.Bool(false)
	}
	_, err := os.Stat(args[0].Str)
	return runtime.Bool(err == nil)
}

func fileSize(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("file_size", fmt.Errorf("expects (path)"))
		return runtime.Null
	}
	info, err := os.Stat(args[0].Str)
	if err != nil {
		reportBuiltinError("file_size", err)
		return runtime.Null
	}
	return runtime.Int(info.Size())
}

func listFiles(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("list_files", fmt.Errorf("expects (dir)"))
		return runtime.Null
	}
	entries, err := os.ReadDir(args[0].Str)
	if err != nil {
		reportBuiltinError("list_files", err)
		return runtime.Null
	}
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = runtime.Str(e.Name())
	}
	return runtime.Array(out)
}

func deleteFile(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("delete_file", fmt.Errorf("expects (path)"))
		return runtime.Bool(false)
	}
	if err := os.Remove(args[0].Str); err != nil {
		reportBuiltinError("delete_file", err)
		return runtime.Bool(false)
	}
	return runtime.Bool(true)
}

// file_hash(path, algo) supports "md5", "sha1", and "sha256".
func fileHash(args []runtime.Value) runtime.Value {
	path, algo, ok := stringArgs2(args, "file_hash")
	if !ok {
		return runtime.Null
	}
	data, err := os.ReadFile(path)
	if err != nil {
		reportBuiltinError("file_hash", err)
		return runtime.Null
	}
	var sum []byte
	switch algo {
	case "md5":
		s := md5.Sum(data)
		sum = s[:]
	case "sha1":
		s := sha1.Sum(data)
		sum = s[:]
	case "sha256":
		s := sha256.Sum256(data)
		sum = s[:]
	default:
		reportBuiltinError("file_hash", fmt.Errorf("unsupported algorithm %q", algo))
		return runtime.Null
	}
	return runtime.Str(hex.EncodeToString(sum))
}

// human_size(bytes) renders a byte count in decimal (SI, 1000-based) units,
// e.g. human_size(1536) -> "1.5 kB".
func humanSize(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.IntKind {
		reportBuiltinError("human_size", fmt.Errorf("expects (bytes: int)"))
		return runtime.Null
	}
	return runtime.Str(humanize.Bytes(uint64(args[0].Int)))
}
