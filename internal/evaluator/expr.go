package evaluator

import (
	"strings"

	"clock/internal/ast"
	"clock/internal/runtime"
)

func (ev *Evaluator) evalBinary(n *ast.Node, env *runtime.Environment) Outcome {
	lo := ev.Eval(n.Child(0), env)
	if lo.Signal != SigNone {
		return lo
	}
	ro := ev.Eval(n.Child(1), env)
	if ro.Signal != SigNone {
		return ro
	}
	return value(ev.applyBinary(n, n.Op, lo.Value, ro.Value))
}

func (ev *Evaluator) applyBinary(n *ast.Node, op string, a, b runtime.Value) runtime.Value {
	switch op {
	case "+", "-", "*", "/", "%":
		return ev.arithmetic(n, op, a, b)
	case "==", "!=", "<", "<=", ">", ">=":
		return ev.compare(n, op, a, b)
	default:
		ev.errorf(n, "unknown binary operator %q", op)
		return runtime.Null
	}
}

func (ev *Evaluator) arithmetic(n *ast.Node, op string, a, b runtime.Value) runtime.Value {
	if a.Kind != b.Kind || (a.Kind != runtime.IntKind && a.Kind != runtime.FloatKind) {
		ev.errorf(n, "operator %q requires two operands of the same numeric type, got %s and %s", op, a.Kind, b.Kind)
		return runtime.Null
	}
	if a.Kind == runtime.IntKind {
		x, y := a.Int, b.Int
		switch op {
		case "+":
			return runtime.Int(x + y)
		case "-":
			return runtime.Int(x - y)
		case "*":
			return runtime.Int(x * y)
		case "/":
			if y == 0 {
				ev.errorf(n, "integer division by zero")
				return runtime.Null
			}
			return runtime.Int(x / y)
		case "%":
			if y == 0 {
				ev.errorf(n, "integer modulo by zero")
				return runtime.Null
			}
			return runtime.Int(x % y)
		}
	}
	x, y := a.Flt, b.Flt
	switch op {
	case "+":
		return runtime.Float(x + y)
	case "-":
		return runtime.Float(x - y)
	case "*":
		return runtime.Float(x * y)
	case "/":
		if y == 0 {
			ev.errorf(n, "float division by zero")
			return runtime.Null
		}
		return runtime.Float(x / y)
	case "%":
		ev.errorf(n, "'%%' is not defined for floats")
		return runtime.Null
	}
	return runtime.Null
}

func (ev *Evaluator) compare(n *ast.Node, op string, a, b runtime.Value) runtime.Value {
	if op == "==" || op == "!=" {
		eq := runtime.Equal(a, b)
		if op == "!=" {
			return runtime.Bool(!eq)
		}
		return runtime.Bool(eq)
	}

	numeric := func(v runtime.Value) (float64, bool) {
		switch v.Kind {
		case runtime.IntKind:
			return float64(v.Int), true
		case runtime.FloatKind:
			return v.Flt, true
		default:
			return 0, false
		}
	}
	if x, xok := numeric(a); xok {
		if y, yok := numeric(b); yok {
			switch op {
			case "<":
				return runtime.Bool(x < y)
			case "<=":
				return runtime.Bool(x <= y)
			case ">":
				return runtime.Bool(x > y)
			case ">=":
				return runtime.Bool(x >= y)
			}
		}
	}
	if a.Kind == runtime.StringKind && b.Kind == runtime.StringKind {
		c := strings.Compare(a.Str, b.Str)
		switch op {
		case "<":
			return runtime.Bool(c < 0)
		case "<=":
			return runtime.Bool(c <= 0)
		case ">":
			return runtime.Bool(c > 0)
		case ">=":
			return runtime.Bool(c >= 0)
		}
	}
	ev.errorf(n, "operator %q is not defined for %s and %s; comparison yields false", op, a.Kind, b.Kind)
	return runtime.Bool(false)
}

// evalLogical implements short-circuit && and ||, both of which the
// specification restricts to boolean operands.
func (ev *Evaluator) evalLogical(n *ast.Node, env *runtime.Environment) Outcome {
	lo := ev.Eval(n.Child(0), env)
	if lo.Signal != SigNone {
		return lo
	}
	if lo.Value.Kind != runtime.BoolKind {
		ev.errorf(n, "operand of %q must be bool, got %s", n.Op, lo.Value.Kind)
		return value(runtime.Null)
	}
	if n.Op == "&&" && !lo.Value.Bool {
		return value(runtime.Bool(false))
	}
	if n.Op == "||" && lo.Value.Bool {
		return value(runtime.Bool(true))
	}
	ro := ev.Eval(n.Child(1), env)
	if ro.Signal != SigNone {
		return ro
	}
	if ro.Value.Kind != runtime.BoolKind {
		ev.errorf(n, "operand of %q must be bool, got %s", n.Op, ro.Value.Kind)
		return value(runtime.Null)
	}
	return value(ro.Value)
}

func (ev *Evaluator) evalUnary(n *ast.Node, env *runtime.Environment) Outcome {
	oo := ev.Eval(n.Child(0), env)
	if oo.Signal != SigNone {
		return oo
	}
	v := oo.Value
	switch n.Op {
	case "!":
		switch v.Kind {
		case runtime.BoolKind:
			return value(runtime.Bool(!v.Bool))
		case runtime.IntKind:
			return value(runtime.Bool(v.Int == 0))
		default:
			ev.errorf(n, "'!' requires a bool or int operand, got %s", v.Kind)
			return value(runtime.Null)
		}
	case "-":
		switch v.Kind {
		case runtime.IntKind:
			return value(runtime.Int(-v.Int))
		case runtime.FloatKind:
			return value(runtime.Float(-v.Flt))
		default:
			ev.errorf(n, "unary '-' requires a numeric operand, got %s", v.Kind)
			return value(runtime.Null)
		}
	case "~":
		if v.Kind != runtime.IntKind {
			ev.errorf(n, "'~' requires an int operand, got %s", v.Kind)
			return value(runtime.Null)
		}
		return value(runtime.Int(^v.Int))
	case "&", "*":
		// Syntactically tolerated per the grammar; Clock has no pointer
		// values, so these are transparent no-ops at evaluation time.
		return value(v)
	default:
		ev.errorf(n, "unknown unary operator %q", n.Op)
		return value(runtime.Null)
	}
}

// evalAssignment handles both `=` and the compound operators, on either an
// IDENTIFIER or an ARRAY_ACCESS left-hand side.
func (ev *Evaluator) evalAssignment(n *ast.Node, env *runtime.Environment) Outcome {
	lhs, rhsNode := n.Child(0), n.Child(1)
	ro := ev.Eval(rhsNode, env)
	if ro.Signal != SigNone {
		return ro
	}
	rhs := ro.Value

	switch lhs.Kind {
	case ast.Identifier:
		if n.Op == "=" {
			env.Assign(lhs.Op, rhs)
			return value(rhs)
		}
		current, ok := env.Get(lhs.Op)
		if !ok {
			ev.errorf(n, "undefined name %q", lhs.Op)
			return value(runtime.Null)
		}
		updated := ev.applyBinary(n, strings.TrimSuffix(n.Op, "="), current, rhs)
		if updated.Kind == runtime.NullKind {
			// arithmetic already reported its own error; leave the
			// variable unchanged rather than clobbering it with Null.
			return value(runtime.Null)
		}
		env.Assign(lhs.Op, updated)
		return value(updated)
	case ast.ArrayAccess:
		return ev.evalArrayAssignment(n, lhs, rhs, env)
	default:
		ev.errorf(n, "invalid assignment target")
		return value(runtime.Null)
	}
}

func (ev *Evaluator) evalArrayAssignment(n, lhs *ast.Node, rhs runtime.Value, env *runtime.Environment) Outcome {
	arrOut := ev.Eval(lhs.Child(0), env)
	if arrOut.Signal != SigNone {
		return arrOut
	}
	idxOut := ev.Eval(lhs.Child(1), env)
	if idxOut.Signal != SigNone {
		return idxOut
	}
	arr, idx := arrOut.Value, idxOut.Value
	if arr.Kind != runtime.ArrayKind || idx.Kind != runtime.IntKind {
		ev.errorf(n, "array assignment requires an array and an integer index")
		return value(runtime.Null)
	}
	i := int(idx.Int)
	if i < 0 || i >= len(*arr.Array) {
		ev.errorf(n, "array index %d out of bounds (len %d)", i, len(*arr.Array))
		return value(runtime.Null)
	}

	if n.Op == "=" {
		(*arr.Array)[i] = rhs
		return value(rhs)
	}
	current := (*arr.Array)[i]
	updated := ev.applyBinary(n, strings.TrimSuffix(n.Op, "="), current, rhs)
	(*arr.Array)[i] = updated
	return value(updated)
}

func (ev *Evaluator) evalArrayLiteral(n *ast.Node, env *runtime.Environment) Outcome {
	elems := make([]runtime.Value, 0, len(n.Children))
	for _, c := range n.Children {
		eo := ev.Eval(c, env)
		if eo.Signal != SigNone {
			return eo
		}
		elems = append(elems, eo.Value)
	}
	return value(runtime.Array(elems))
}

func (ev *Evaluator) evalArrayAccess(n *ast.Node, env *runtime.Environment) Outcome {
	arrOut := ev.Eval(n.Child(0), env)
	if arrOut.Signal != SigNone {
		return arrOut
	}
	idxOut := ev.Eval(n.Child(1), env)
	if idxOut.Signal != SigNone {
		return idxOut
	}
	arr, idx := arrOut.Value, idxOut.Value
	if arr.Kind != runtime.ArrayKind || idx.Kind != runtime.IntKind {
		ev.errorf(n, "array access requires an array and an integer index")
		return value(runtime.Null)
	}
	i := int(idx.Int)
	if i < 0 || i >= len(*arr.Array) {
		ev.errorf(n, "array index %d out of bounds (len %d)", i, len(*arr.Array))
		return value(runtime.Null)
	}
	return value((*arr.Array)[i])
}

func (ev *Evaluator) evalFunctionDecl(n *ast.Node, env *runtime.Environment) Outcome {
	name := n.Child(0).Op
	last := len(n.Children) - 1
	params := make([]string, 0, last-1)
	for _, p := range n.Children[1:last] {
		params = append(params, p.Op)
	}
	fn := &runtime.UserFn{Name: name, Params: params, Body: n.Children[last], Env: env}
	fv := runtime.Func(fn)
	env.Define(name, fv)
	return value(fv)
}

func (ev *Evaluator) evalFunctionCall(n *ast.Node, env *runtime.Environment) Outcome {
	calleeOut := ev.Eval(n.Child(0), env)
	if calleeOut.Signal != SigNone {
		return calleeOut
	}
	callee := calleeOut.Value

	args := make([]runtime.Value, 0, len(n.Children)-1)
	for _, a := range n.Children[1:] {
		ao := ev.Eval(a, env)
		if ao.Signal != SigNone {
			return ao
		}
		args = append(args, ao.Value)
	}

	switch callee.Kind {
	case runtime.BuiltinKind:
		return value(callee.Builtin(args))
	case runtime.UserFnKind:
		return ev.callUserFn(n, callee.Fn, args)
	default:
		ev.errorf(n, "value of kind %s is not callable", callee.Kind)
		return value(runtime.Null)
	}
}

func (ev *Evaluator) callUserFn(n *ast.Node, fn *runtime.UserFn, args []runtime.Value) Outcome {
	callEnv := fn.Env.Child()
	for i, name := range fn.Params {
		if i < len(args) {
			callEnv.Define(name, args[i])
		}
		// Missing arguments are left unbound; a later lookup returns Null.
	}
	out := ev.Eval(fn.Body, callEnv)
	switch out.Signal {
	case SigReturn:
		return value(out.Value)
	case SigBreak, SigContinue:
		ev.errorf(n, "'stop'/'continue' used outside of a loop in function %q", fn.Name)
		return value(runtime.Null)
	default:
		return value(runtime.Null)
	}
}

func (ev *Evaluator) evalSwitch(n *ast.Node, env *runtime.Environment) Outcome {
	scrutineeOut := ev.Eval(n.Child(0), env)
	if scrutineeOut.Signal != SigNone {
		return scrutineeOut
	}
	scrutinee := scrutineeOut.Value

	var defaultCase *ast.Node
	for _, c := range n.Children[1:] {
		if c.Kind == ast.Default {
			defaultCase = c
			continue
		}
		// When: first child is the compare value, the rest are statements.
		valOut := ev.Eval(c.Child(0), env)
		if valOut.Signal != SigNone {
			return valOut
		}
		if runtime.Equal(scrutinee, valOut.Value) {
			return ev.evalStatements(c.Children[1:], env.Child())
		}
	}
	if defaultCase != nil {
		return ev.evalStatements(defaultCase.Children, env.Child())
	}
	return value(runtime.Null)
}
