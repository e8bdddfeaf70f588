package emitter

import (
	"clock/internal/ast"
	"clock/internal/bytecode"
)

func (e *Emitter) emitExpr(n *ast.Node) {
	switch n.Kind {
	case ast.Literal:
		e.emitLiteral(n)
	case ast.Identifier:
		e.prog.Emit(bytecode.Instruction{Op: bytecode.LoadVar, Name: n.Op, Line: n.Line, Col: n.Col})
	case ast.BinaryExpr:
		e.emitExpr(n.Child(0))
		e.emitExpr(n.Child(1))
		e.prog.Emit(bytecode.Instruction{Op: binaryOp(n.Op), Line: n.Line, Col: n.Col})
	case ast.LogicalExpr:
		e.emitExpr(n.Child(0))
		e.emitExpr(n.Child(1))
		op := bytecode.And
		if n.Op == "||" {
			op = bytecode.Or
		}
		e.prog.Emit(bytecode.Instruction{Op: op, Line: n.Line, Col: n.Col})
	case ast.UnaryExpr:
		e.emitUnary(n)
	case ast.FunctionCall:
		e.emitCall(n)
	case ast.ArrayLiteral:
		e.emitArrayLiteral(n)
	default:
		e.fail(n, "unsupported AST kind %s in bytecode emitter", n.Kind)
	}
}

func (e *Emitter) emitLiteral(n *ast.Node) {
	switch n.Lit.Kind {
	case ast.IntLiteral:
		e.prog.Emit(bytecode.Instruction{Op: bytecode.PushInt, IntVal: n.Lit.Int, Line: n.Line, Col: n.Col})
	case ast.FloatLiteral:
		e.prog.Emit(bytecode.Instruction{Op: bytecode.PushFloat, FloatVal: n.Lit.Flt, Line: n.Line, Col: n.Col})
	case ast.BoolLiteral:
		e.prog.Emit(bytecode.Instruction{Op: bytecode.PushBool, BoolVal: n.Lit.Bool, Line: n.Line, Col: n.Col})
	case ast.StringLiteral:
		e.prog.Emit(bytecode.Instruction{Op: bytecode.PushString, StringVal: n.Lit.Str, Line: n.Line, Col: n.Col})
	default:
		e.fail(n, "unsupported literal kind in bytecode emitter")
	}
}

func (e *Emitter) emitUnary(n *ast.Node) {
	e.emitExpr(n.Child(0))
	switch n.Op {
	case "!":
		e.prog.Emit(bytecode.Instruction{Op: bytecode.Not, Line: n.Line, Col: n.Col})
	case "-":
		e.prog.Emit(bytecode.Instruction{Op: bytecode.Neg, Line: n.Line, Col: n.Col})
	case "~":
		e.prog.Emit(bytecode.Instruction{Op: bytecode.Complement, Line: n.Line, Col: n.Col})
	default:
		e.fail(n, "unknown operator %q in bytecode emitter", n.Op)
	}
}

// emitCall only supports calling a plain name, per "function call by
// name" in the opcode set; anything else (calling the result of another
// expression) falls outside the emitted subset.
func (e *Emitter) emitCall(n *ast.Node) {
	callee := n.Child(0)
	if callee.Kind != ast.Identifier {
		e.fail(n, "the emitter only supports calling a function by name")
		return
	}
	args := n.Children[1:]
	for _, a := range args {
		e.emitExpr(a)
	}
	e.prog.Emit(bytecode.Instruction{Op: bytecode.CallFunction, Name: callee.Op, ElemCount: len(args), Line: n.Line, Col: n.Col})
}

func (e *Emitter) emitArrayLiteral(n *ast.Node) {
	for _, c := range n.Children {
		e.emitExpr(c)
	}
	e.prog.Emit(bytecode.Instruction{Op: bytecode.ArraySet, ElemCount: len(n.Children), Line: n.Line, Col: n.Col})
}

func binaryOp(op string) bytecode.Op {
	switch op {
	case "+":
		return bytecode.Add
	case "-":
		return bytecode.Sub
	case "*":
		return bytecode.Mul
	case "/":
		return bytecode.Div
	case "%":
		return bytecode.Mod
	case "==":
		return bytecode.Eq
	case "!=":
		return bytecode.Neq
	case "<":
		return bytecode.Lt
	case "<=":
		return bytecode.Lte
	case ">":
		return bytecode.Gt
	case ">=":
		return bytecode.Gte
	default:
		return bytecode.Add
	}
}
