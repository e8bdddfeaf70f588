// Package emitter lowers a subset of the AST — if/while/for, arithmetic
// and logical operators, function declarations/calls, array literals, and
// returns — to a flat bytecode.Program. Switch/when/default and
// break/continue fall outside this subset; no opcode exists for them, so
// the emitter reports a fatal error if asked to lower one. The emitter
// never executes its output; that is the job of an unspecified downstream
// VM.
package emitter

import (
	"clock/internal/ast"
	"clock/internal/bytecode"
	"clock/internal/cerrors"
)

// Emitter lowers one program at a time.
type Emitter struct {
	File string
	prog *bytecode.Program
}

// New creates an Emitter that attributes fatal errors to file.
func New(file string) *Emitter {
	return &Emitter{File: file}
}

// Emit lowers the PROGRAM node to a complete bytecode.Program.
func (e *Emitter) Emit(program *ast.Node) *bytecode.Program {
	e.prog = &bytecode.Program{}
	for _, stmt := range program.Children {
		e.emitStmt(stmt)
	}
	return e.prog
}

func (e *Emitter) emitStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Block:
		e.emitBlock(n)
	case ast.If:
		e.emitIf(n)
	case ast.While:
		e.emitWhile(n)
	case ast.For:
		e.emitFor(n)
	case ast.Return:
		e.emitReturn(n)
	case ast.FunctionDecl:
		e.emitFunctionDecl(n)
	case ast.Assignment:
		e.emitAssignment(n)
	default:
		// Any expression used as a statement (e.g. a bare call) is just
		// lowered for its side effects; its pushed value is left on the
		// stack, matching the original's own "statement expressions"
		// treatment.
		e.emitExpr(n)
	}
}

func (e *Emitter) emitBlock(n *ast.Node) {
	e.prog.Emit(bytecode.Instruction{Op: bytecode.ScopeMarker, Line: n.Line, Col: n.Col})
	for _, stmt := range n.Children {
		e.emitStmt(stmt)
	}
}

// emitIf follows the back-patch recipe verbatim: condition, a
// JUMP_IF_FALSE placeholder, the then-branch, and — if an else exists — an
// unconditional JUMP over it, with both placeholders patched once their
// targets are known.
func (e *Emitter) emitIf(n *ast.Node) {
	e.emitExpr(n.Child(0))
	jifIdx := e.prog.Emit(bytecode.Instruction{Op: bytecode.JumpIfFalse, Line: n.Line, Col: n.Col})
	e.emitStmt(n.Child(1))

	if els := n.Child(2); els != nil {
		jmpIdx := e.prog.Emit(bytecode.Instruction{Op: bytecode.Jump, Line: n.Line, Col: n.Col})
		e.prog.Patch(jifIdx, e.prog.Len())
		e.emitStmt(els)
		e.prog.Patch(jmpIdx, e.prog.Len())
	} else {
		e.prog.Patch(jifIdx, e.prog.Len())
	}
}

func (e *Emitter) emitWhile(n *ast.Node) {
	condIdx := e.prog.Len()
	e.emitExpr(n.Child(0))
	jifIdx := e.prog.Emit(bytecode.Instruction{Op: bytecode.JumpIfFalse, Line: n.Line, Col: n.Col})
	e.emitStmt(n.Child(1))
	e.prog.Emit(bytecode.Instruction{Op: bytecode.Jump, Target: condIdx, Line: n.Line, Col: n.Col})
	e.prog.Patch(jifIdx, e.prog.Len())
}

// emitFor stores the induction variable once, then repeats a LOAD_VAR/end
// re-evaluation/comparison each pass around the loop, incrementing `i` by
// 1 before jumping back — the literal recipe from spec.
func (e *Emitter) emitFor(n *ast.Node) {
	e.emitExpr(n.Child(0)) // start
	e.prog.Emit(bytecode.Instruction{Op: bytecode.StoreVar, Name: "i", Line: n.Line, Col: n.Col})

	condIdx := e.prog.Len()
	e.prog.Emit(bytecode.Instruction{Op: bytecode.LoadVar, Name: "i", Line: n.Line, Col: n.Col})
	e.emitExpr(n.Child(1)) // end, re-evaluated every pass
	e.prog.Emit(bytecode.Instruction{Op: bytecode.Lt, Line: n.Line, Col: n.Col})
	jifIdx := e.prog.Emit(bytecode.Instruction{Op: bytecode.JumpIfFalse, Line: n.Line, Col: n.Col})

	e.emitStmt(n.Child(2)) // body

	e.prog.Emit(bytecode.Instruction{Op: bytecode.LoadVar, Name: "i", Line: n.Line, Col: n.Col})
	e.prog.Emit(bytecode.Instruction{Op: bytecode.PushInt, IntVal: 1, Line: n.Line, Col: n.Col})
	e.prog.Emit(bytecode.Instruction{Op: bytecode.Add, Line: n.Line, Col: n.Col})
	e.prog.Emit(bytecode.Instruction{Op: bytecode.StoreVar, Name: "i", Line: n.Line, Col: n.Col})
	e.prog.Emit(bytecode.Instruction{Op: bytecode.Jump, Target: condIdx, Line: n.Line, Col: n.Col})
	e.prog.Patch(jifIdx, e.prog.Len())
}

func (e *Emitter) emitReturn(n *ast.Node) {
	if c := n.Child(0); c != nil {
		e.emitExpr(c)
	} else {
		e.prog.Emit(bytecode.Instruction{Op: bytecode.PushBool, BoolVal: false, Line: n.Line, Col: n.Col})
	}
	e.prog.Emit(bytecode.Instruction{Op: bytecode.Return, Line: n.Line, Col: n.Col})
}

// emitFunctionDecl emits a header instruction naming the parameter count
// and the body's starting index, then the body itself. A body whose last
// statement isn't already a RETURN gets one appended implicitly.
func (e *Emitter) emitFunctionDecl(n *ast.Node) {
	last := len(n.Children) - 1
	name := n.Child(0).Op
	paramCount := last - 1
	body := n.Children[last]

	headerIdx := e.prog.Emit(bytecode.Instruction{Op: bytecode.DeclFunction, Name: name, ParamCount: paramCount, Line: n.Line, Col: n.Col})
	e.prog.Instructions[headerIdx].BodyIndex = e.prog.Len()

	e.emitBlock(body)
	if !endsInReturn(body) {
		e.prog.Emit(bytecode.Instruction{Op: bytecode.PushBool, BoolVal: false, Line: n.Line, Col: n.Col})
		e.prog.Emit(bytecode.Instruction{Op: bytecode.Return, Line: n.Line, Col: n.Col})
	}
}

func endsInReturn(body *ast.Node) bool {
	if len(body.Children) == 0 {
		return false
	}
	return body.Children[len(body.Children)-1].Kind == ast.Return
}

func (e *Emitter) emitAssignment(n *ast.Node) {
	lhs, rhs := n.Child(0), n.Child(1)
	if lhs.Kind != ast.Identifier {
		e.fail(n, "the emitter only supports assignment to a plain variable name")
		return
	}
	if n.Op == "%=" {
		e.emitExpr(rhs)
		e.prog.Emit(bytecode.Instruction{Op: bytecode.ModEqual, Name: lhs.Op, Line: n.Line, Col: n.Col})
		return
	}
	if n.Op != "=" {
		e.prog.Emit(bytecode.Instruction{Op: bytecode.LoadVar, Name: lhs.Op, Line: n.Line, Col: n.Col})
		e.emitExpr(rhs)
		e.prog.Emit(bytecode.Instruction{Op: compoundOp(n.Op), Line: n.Line, Col: n.Col})
		e.prog.Emit(bytecode.Instruction{Op: bytecode.StoreVar, Name: lhs.Op, Line: n.Line, Col: n.Col})
		return
	}
	e.emitExpr(rhs)
	e.prog.Emit(bytecode.Instruction{Op: bytecode.StoreVar, Name: lhs.Op, Line: n.Line, Col: n.Col})
}

func compoundOp(op string) bytecode.Op {
	switch op {
	case "+=":
		return bytecode.Add
	case "-=":
		return bytecode.Sub
	case "*=":
		return bytecode.Mul
	case "/=":
		return bytecode.Div
	default:
		return bytecode.Add
	}
}

func (e *Emitter) fail(n *ast.Node, format string, args ...interface{}) {
	cerrors.Fatal(cerrors.New(cerrors.EmitError, e.File, n.Line, n.Col, format, args...))
}
