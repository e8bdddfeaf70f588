// Package runtime holds Clock's dynamic value representation and its
// lexically-scoped environment. Values and Environment live in one package
// because a UserFn value must hold a live reference to the Environment that
// captured it, while Environment stores Values — splitting them would
// create an import cycle.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"clock/internal/ast"
)

// ValueKind tags the dynamic type carried by a Value.
type ValueKind int

const (
	NullKind ValueKind = iota
	IntKind
	FloatKind
	BoolKind
	StringKind
	ArrayKind
	BuiltinKind
	UserFnKind
)

func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case BuiltinKind:
		return "builtin"
	case UserFnKind:
		return "function"
	default:
		return "unknown"
	}
}

// BuiltinFunc is the shape every builtin must implement: take evaluated
// arguments, report its own errors, and return a Value (Null, or false for
// the boolean-valued builtins, on failure) rather than raising an exception
// the evaluator has to catch.
type BuiltinFunc func(args []Value) Value

// UserFn is a closure: parameter names, a body, and the environment in
// which the function declaration was evaluated.
type UserFn struct {
	Name   string
	Params []string
	Body   *ast.Node
	Env    *Environment
}

// Value is Clock's tagged dynamic value. Only the field matching Kind is
// meaningful; Array holds a shared backing slice so index-assignment
// mutates in place, matching the semantics of every variable bound to the
// same array.
type Value struct {
	Kind    ValueKind
	Int     int64
	Flt     float64
	Bool    bool
	Str     string
	Array   *[]Value
	Builtin BuiltinFunc
	Fn      *UserFn
}

// Null is the shared zero-ish Value used for "no value" — the result of a
// function with no return statement, the value of an undefined name, etc.
var Null = Value{Kind: NullKind}

func Int(v int64) Value     { return Value{Kind: IntKind, Int: v} }
func Float(v float64) Value { return Value{Kind: FloatKind, Flt: v} }
func Bool(v bool) Value     { return Value{Kind: BoolKind, Bool: v} }
func Str(v string) Value    { return Value{Kind: StringKind, Str: v} }

func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ArrayKind, Array: &elems}
}

func Builtin(fn BuiltinFunc) Value { return Value{Kind: BuiltinKind, Builtin: fn} }

func Func(fn *UserFn) Value { return Value{Kind: UserFnKind, Fn: fn} }

// Truthy reports a value's general truthiness: everything is truthy except
// false, 0, 0.0, "", null, and an empty array. The evaluator's if/while
// conditions do not use it; they accept only bool, int, and float values
// (see condTruthy in the evaluator package).
func (v Value) Truthy() bool {
	switch v.Kind {
	case NullKind:
		return false
	case BoolKind:
		return v.Bool
	case IntKind:
		return v.Int != 0
	case FloatKind:
		return v.Flt != 0
	case StringKind:
		return v.Str != ""
	case ArrayKind:
		return v.Array != nil && len(*v.Array) > 0
	default:
		return true
	}
}

// Equal implements full structural value equality, used by switch/when
// matching and the == / != operators alike.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		// int/float compare numerically across kinds, as the evaluator's
		// ordering operators (<, <=, >, >=) do; arithmetic operators, by
		// contrast, reject mixed int/float operands.
		if a.Kind == IntKind && b.Kind == FloatKind {
			return float64(a.Int) == b.Flt
		}
		if a.Kind == FloatKind && b.Kind == IntKind {
			return a.Flt == float64(b.Int)
		}
		return false
	}
	switch a.Kind {
	case NullKind:
		return true
	case IntKind:
		return a.Int == b.Int
	case FloatKind:
		return a.Flt == b.Flt
	case BoolKind:
		return a.Bool == b.Bool
	case StringKind:
		return a.Str == b.Str
	case ArrayKind:
		if a.Array == b.Array {
			return true
		}
		if len(*a.Array) != len(*b.Array) {
			return false
		}
		for i := range *a.Array {
			if !Equal((*a.Array)[i], (*b.Array)[i]) {
				return false
			}
		}
		return true
	case BuiltinKind, UserFnKind:
		return false
	default:
		return false
	}
}

// String renders v the way `write` prints it to stdout.
func (v Value) String() string {
	switch v.Kind {
	case NullKind:
		return "null"
	case IntKind:
		return strconv.FormatInt(v.Int, 10)
	case FloatKind:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	case StringKind:
		return v.Str
	case ArrayKind:
		parts := make([]string, len(*v.Array))
		for i, e := range *v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case BuiltinKind:
		return "<builtin>"
	case UserFnKind:
		return fmt.Sprintf("<function %s>", v.Fn.Name)
	default:
		return "<unknown>"
	}
}
