package builtins

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"clock/internal/runtime"
)

// hash_password(plain) returns a bcrypt hash string, or Null on failure.
func hashPassword(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("hash_password", fmt.Errorf("expects (password: string)"))
		return runtime.Null
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(args[0].Str), bcrypt.DefaultCost)
	if err != nil {
		reportBuiltinError("hash_password", err)
		return runtime.Null
	}
	return runtime.Str(string(hash))
}

// check_password(plain, hash) compares a candidate password against a
// bcrypt hash produced by hash_password.
func checkPassword(args []runtime.Value) runtime.Value {
	plain, hash, ok := stringArgs2(args, "check_password")
	if !ok {
		return runtime.Bool(false)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return runtime.Bool(err == nil)
}
