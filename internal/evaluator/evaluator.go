// Package evaluator implements Clock's tree-walking evaluator: a recursive
// descent over the AST that returns a runtime value for every node and
// propagates return/break/continue as a distinct result channel rather
// than as in-band sentinel values.
package evaluator

import (
	"clock/internal/ast"
	"clock/internal/cerrors"
	"clock/internal/runtime"
)

// Signal tags the control-flow effect of evaluating a statement. A plain
// expression always produces SigNone; only Return/Break/Continue (and
// whatever a statement propagates from them) produce anything else.
type Signal int

const (
	SigNone Signal = iota
	SigReturn
	SigBreak
	SigContinue
)

// Outcome is the result of evaluating any node: a value plus a signal. A
// caller encountering a non-SigNone outcome from a sub-node must stop and
// propagate it rather than continuing to the next statement/child — this
// is the short-circuit rule that replaces the source's mutable
// function_returned flag.
type Outcome struct {
	Value  runtime.Value
	Signal Signal
}

func value(v runtime.Value) Outcome { return Outcome{Value: v, Signal: SigNone} }

// Evaluator carries just enough context to attribute errors to a source
// location; all mutable program state lives in the Environment passed to
// Eval/Run.
type Evaluator struct {
	File   string
	Source []string
}

// New creates an Evaluator. source may be "" (e.g. REPL input evaluated
// line-by-line); it is used only to annotate error messages.
func New(file, source string) *Evaluator {
	var lines []string
	if source != "" {
		lines = splitLines(source)
	}
	return &Evaluator{File: file, Source: lines}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

// Run evaluates every top-level statement of program in order. It reports
// whether a top-level `return` executed and, if so, the returned value —
// the CLI prints that value, matching "print any top-level return value".
func (ev *Evaluator) Run(program *ast.Node, env *runtime.Environment) (runtime.Value, bool) {
	for _, stmt := range program.Children {
		out := ev.Eval(stmt, env)
		switch out.Signal {
		case SigReturn:
			return out.Value, true
		case SigBreak, SigContinue:
			ev.errorf(stmt, "'stop'/'continue' used outside of a loop")
		}
	}
	return runtime.Null, false
}

// Eval dispatches on node.Kind and returns an Outcome. It is the single
// recursive entry point used by every other file in this package.
func (ev *Evaluator) Eval(n *ast.Node, env *runtime.Environment) Outcome {
	if n == nil {
		return value(runtime.Null)
	}
	switch n.Kind {
	case ast.Program:
		return ev.evalStatements(n.Children, env)
	case ast.Block:
		return ev.evalBlock(n, env)
	case ast.Literal:
		return value(ev.literalValue(n))
	case ast.Identifier:
		return value(ev.lookupIdentifier(n, env))
	case ast.Assignment:
		return ev.evalAssignment(n, env)
	case ast.BinaryExpr:
		return ev.evalBinary(n, env)
	case ast.LogicalExpr:
		return ev.evalLogical(n, env)
	case ast.UnaryExpr:
		return ev.evalUnary(n, env)
	case ast.If:
		return ev.evalIf(n, env)
	case ast.While:
		return ev.evalWhile(n, env)
	case ast.For:
		return ev.evalFor(n, env)
	case ast.Switch:
		return ev.evalSwitch(n, env)
	case ast.Return:
		return ev.evalReturn(n, env)
	case ast.Break:
		return Outcome{Value: runtime.Null, Signal: SigBreak}
	case ast.Continue:
		return Outcome{Value: runtime.Null, Signal: SigContinue}
	case ast.FunctionDecl:
		return ev.evalFunctionDecl(n, env)
	case ast.FunctionCall:
		return ev.evalFunctionCall(n, env)
	case ast.ArrayLiteral:
		return ev.evalArrayLiteral(n, env)
	case ast.ArrayAccess:
		return ev.evalArrayAccess(n, env)
	case ast.MemberAccess:
		ev.errorf(n, "member access is not supported on any runtime value")
		return value(runtime.Null)
	default:
		ev.errorf(n, "cannot evaluate node of kind %s", n.Kind)
		return value(runtime.Null)
	}
}

// evalStatements runs a statement list in source order, stopping and
// propagating the moment one produces a non-SigNone outcome.
func (ev *Evaluator) evalStatements(stmts []*ast.Node, env *runtime.Environment) Outcome {
	for _, stmt := range stmts {
		out := ev.Eval(stmt, env)
		if out.Signal != SigNone {
			return out
		}
	}
	return value(runtime.Null)
}

// evalBlock opens a fresh child scope so that a name bound inside `{ ... }`
// is invisible once the block ends.
func (ev *Evaluator) evalBlock(n *ast.Node, env *runtime.Environment) Outcome {
	return ev.evalStatements(n.Children, env.Child())
}

func (ev *Evaluator) literalValue(n *ast.Node) runtime.Value {
	switch n.Lit.Kind {
	case ast.IntLiteral:
		return runtime.Int(n.Lit.Int)
	case ast.FloatLiteral:
		return runtime.Float(n.Lit.Flt)
	case ast.BoolLiteral:
		return runtime.Bool(n.Lit.Bool)
	case ast.StringLiteral:
		return runtime.Str(n.Lit.Str)
	default:
		return runtime.Null
	}
}

func (ev *Evaluator) lookupIdentifier(n *ast.Node, env *runtime.Environment) runtime.Value {
	v, ok := env.Get(n.Op)
	if !ok {
		ev.errorf(n, "undefined name %q", n.Op)
		return runtime.Null
	}
	return v
}

func (ev *Evaluator) evalReturn(n *ast.Node, env *runtime.Environment) Outcome {
	if n.Child(0) == nil {
		return Outcome{Value: runtime.Null, Signal: SigReturn}
	}
	out := ev.Eval(n.Child(0), env)
	if out.Signal != SigNone {
		return out
	}
	return Outcome{Value: out.Value, Signal: SigReturn}
}

func (ev *Evaluator) evalIf(n *ast.Node, env *runtime.Environment) Outcome {
	cond := ev.Eval(n.Child(0), env)
	if cond.Signal != SigNone {
		return cond
	}
	truthy, ok := ev.condTruthy(cond.Value, n.Child(0))
	if !ok {
		return value(runtime.Null)
	}
	if truthy {
		return ev.Eval(n.Child(1), env)
	}
	if els := n.Child(2); els != nil {
		return ev.Eval(els, env)
	}
	return value(runtime.Null)
}

func (ev *Evaluator) evalWhile(n *ast.Node, env *runtime.Environment) Outcome {
	cond, body := n.Child(0), n.Child(1)
	for {
		co := ev.Eval(cond, env)
		if co.Signal != SigNone {
			return co
		}
		truthy, ok := ev.condTruthy(co.Value, cond)
		if !ok || !truthy {
			return value(runtime.Null)
		}
		bo := ev.Eval(body, env)
		switch bo.Signal {
		case SigBreak:
			return value(runtime.Null)
		case SigReturn:
			return bo
		}
	}
}

func (ev *Evaluator) evalFor(n *ast.Node, env *runtime.Environment) Outcome {
	startOut := ev.Eval(n.Child(0), env)
	if startOut.Signal != SigNone {
		return startOut
	}
	endOut := ev.Eval(n.Child(1), env)
	if endOut.Signal != SigNone {
		return endOut
	}
	if startOut.Value.Kind != runtime.IntKind || endOut.Value.Kind != runtime.IntKind {
		ev.errorf(n, "for-loop range bounds must be integers")
		return value(runtime.Null)
	}

	body := n.Child(2)
	loopEnv := env.Child()
	for i := startOut.Value.Int; i < endOut.Value.Int; i++ {
		loopEnv.Define("i", runtime.Int(i))
		bo := ev.Eval(body, loopEnv)
		switch bo.Signal {
		case SigBreak:
			return value(runtime.Null)
		case SigReturn:
			return bo
		}
	}
	return value(runtime.Null)
}

// condTruthy enforces the if/while truthiness rule: Bool(true), a non-zero
// Int, or a non-zero Float. Any other kind is an evaluation error.
func (ev *Evaluator) condTruthy(v runtime.Value, n *ast.Node) (bool, bool) {
	switch v.Kind {
	case runtime.BoolKind:
		return v.Bool, true
	case runtime.IntKind:
		return v.Int != 0, true
	case runtime.FloatKind:
		return v.Flt != 0, true
	default:
		ev.errorf(n, "condition must be bool, int, or float, got %s", v.Kind)
		return false, false
	}
}

func (ev *Evaluator) errorf(n *ast.Node, format string, args ...interface{}) {
	err := cerrors.New(cerrors.EvalError, ev.File, n.Line, n.Col, format, args...)
	if ev.Source != nil && n.Line > 0 && n.Line <= len(ev.Source) {
		err.Source = ev.Source[n.Line-1]
	}
	cerrors.Report(err)
}
