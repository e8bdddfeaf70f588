// Package printer renders an ast.Node tree back to source text. It exists
// to make the parser's output inspectable — the REPL's DEBUG mode prints
// through it — and to back the parse/print/parse idempotency property: a
// program printed and reparsed must produce the same tree shape.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"clock/internal/ast"
)

// Printer accumulates rendered source into an indented strings.Builder,
// the same shape the teacher's own formatter used.
type Printer struct {
	indent    int
	indentStr string
	out       strings.Builder
}

// New creates a Printer that indents nested blocks by one tab.
func New() *Printer {
	return &Printer{indentStr: "\t"}
}

// Print renders a PROGRAM node (or any statement) to source text.
func Print(n *ast.Node) string {
	p := New()
	p.printNode(n)
	return p.out.String()
}

func (p *Printer) writeIndent() {
	p.out.WriteString(strings.Repeat(p.indentStr, p.indent))
}

func (p *Printer) printNode(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Program:
		for _, stmt := range n.Children {
			p.printStmt(stmt)
		}
	default:
		p.printStmt(n)
	}
}

func (p *Printer) printStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Block:
		p.printBlock(n)
	case ast.Assignment:
		p.writeIndent()
		p.printExpr(n.Child(0))
		fmt.Fprintf(&p.out, " %s ", n.Op)
		p.printExpr(n.Child(1))
		p.out.WriteString(";\n")
	case ast.If:
		p.printIf(n)
	case ast.While:
		p.printWhile(n)
	case ast.For:
		p.printFor(n)
	case ast.Switch:
		p.printSwitch(n)
	case ast.Return:
		p.writeIndent()
		p.out.WriteString("return")
		if c := n.Child(0); c != nil {
			p.out.WriteString(" ")
			p.printExpr(c)
		}
		p.out.WriteString(";\n")
	case ast.Break:
		p.writeIndent()
		p.out.WriteString("stop;\n")
	case ast.Continue:
		p.writeIndent()
		p.out.WriteString("continue;\n")
	case ast.FunctionDecl:
		p.printFunctionDecl(n)
	default:
		// A bare expression used as a statement.
		p.writeIndent()
		p.printExpr(n)
		p.out.WriteString(";\n")
	}
}

func (p *Printer) printBlock(n *ast.Node) {
	p.out.WriteString("{\n")
	p.indent++
	for _, stmt := range n.Children {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	p.out.WriteString("}\n")
}

func (p *Printer) printIf(n *ast.Node) {
	p.writeIndent()
	p.out.WriteString("if (")
	p.printExpr(n.Child(0))
	p.out.WriteString(") ")
	p.printBlockInline(n.Child(1))
	if els := n.Child(2); els != nil {
		p.writeIndent()
		p.out.WriteString("else ")
		if els.Kind == ast.If {
			// Re-open without a fresh writeIndent so "else if (...)" sits
			// on one line, matching how the parser reads it back.
			p.printElseIf(els)
		} else {
			p.printBlockInline(els)
		}
	}
}

// printElseIf renders a chained "else if" clause without its own leading
// indent — the caller already wrote "else ".
func (p *Printer) printElseIf(n *ast.Node) {
	p.out.WriteString("if (")
	p.printExpr(n.Child(0))
	p.out.WriteString(") ")
	p.printBlockInline(n.Child(1))
	if els := n.Child(2); els != nil {
		p.writeIndent()
		p.out.WriteString("else ")
		if els.Kind == ast.If {
			p.printElseIf(els)
		} else {
			p.printBlockInline(els)
		}
	}
}

// printBlockInline prints a BLOCK node without its own leading writeIndent
// (the opening brace follows inline after "if (...) " etc.).
func (p *Printer) printBlockInline(n *ast.Node) {
	p.out.WriteString("{\n")
	p.indent++
	for _, stmt := range n.Children {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	p.out.WriteString("}\n")
}

func (p *Printer) printWhile(n *ast.Node) {
	p.writeIndent()
	p.out.WriteString("while (")
	p.printExpr(n.Child(0))
	p.out.WriteString(") ")
	p.printBlockInline(n.Child(1))
}

func (p *Printer) printFor(n *ast.Node) {
	p.writeIndent()
	p.out.WriteString("for (")
	p.printExpr(n.Child(0))
	p.out.WriteString(" to ")
	p.printExpr(n.Child(1))
	p.out.WriteString(") ")
	p.printBlockInline(n.Child(2))
}

func (p *Printer) printSwitch(n *ast.Node) {
	p.writeIndent()
	p.out.WriteString("switch (")
	p.printExpr(n.Child(0))
	p.out.WriteString(") {\n")
	p.indent++
	for _, c := range n.Children[1:] {
		p.printCase(c)
	}
	p.indent--
	p.writeIndent()
	p.out.WriteString("}\n")
}

func (p *Printer) printCase(n *ast.Node) {
	p.writeIndent()
	switch n.Kind {
	case ast.When:
		p.out.WriteString("when ")
		p.printExpr(n.Child(0))
		p.out.WriteString(":\n")
		p.indent++
		for _, stmt := range n.Children[1:] {
			p.printStmt(stmt)
		}
		p.writeIndent()
		p.out.WriteString("stop;\n")
		p.indent--
	case ast.Default:
		p.out.WriteString("default:\n")
		p.indent++
		for _, stmt := range n.Children {
			p.printStmt(stmt)
		}
		p.writeIndent()
		p.out.WriteString("stop;\n")
		p.indent--
	}
}

func (p *Printer) printFunctionDecl(n *ast.Node) {
	p.writeIndent()
	p.out.WriteString("function ")
	p.out.WriteString(n.Child(0).Op)
	p.out.WriteString("(")
	last := len(n.Children) - 1
	for i := 1; i < last; i++ {
		if i > 1 {
			p.out.WriteString(", ")
		}
		p.out.WriteString(n.Children[i].Op)
	}
	p.out.WriteString(") ")
	p.printBlockInline(n.Children[last])
}

func (p *Printer) printExpr(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Literal:
		p.printLiteral(n)
	case ast.Identifier:
		p.out.WriteString(n.Op)
	case ast.BinaryExpr, ast.LogicalExpr:
		p.out.WriteString("(")
		p.printExpr(n.Child(0))
		fmt.Fprintf(&p.out, " %s ", n.Op)
		p.printExpr(n.Child(1))
		p.out.WriteString(")")
	case ast.UnaryExpr:
		p.out.WriteString(n.Op)
		p.printExpr(n.Child(0))
	case ast.FunctionCall:
		p.printExpr(n.Child(0))
		p.out.WriteString("(")
		args := n.Children[1:]
		for i, a := range args {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.printExpr(a)
		}
		p.out.WriteString(")")
	case ast.ArrayLiteral:
		p.out.WriteString("[")
		for i, e := range n.Children {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.printExpr(e)
		}
		p.out.WriteString("]")
	case ast.ArrayAccess:
		p.printExpr(n.Child(0))
		p.out.WriteString("[")
		p.printExpr(n.Child(1))
		p.out.WriteString("]")
	case ast.MemberAccess:
		p.printExpr(n.Child(0))
		p.out.WriteString("->")
		p.out.WriteString(n.Child(1).Op)
	case ast.Break:
		p.out.WriteString("stop")
	case ast.Continue:
		p.out.WriteString("continue")
	default:
		p.out.WriteString("/* unprintable */")
	}
}

func (p *Printer) printLiteral(n *ast.Node) {
	switch n.Lit.Kind {
	case ast.IntLiteral:
		p.out.WriteString(strconv.FormatInt(n.Lit.Int, 10))
	case ast.FloatLiteral:
		p.out.WriteString(strconv.FormatFloat(n.Lit.Flt, 'g', -1, 64))
	case ast.BoolLiteral:
		p.out.WriteString(strconv.FormatBool(n.Lit.Bool))
	case ast.StringLiteral:
		p.out.WriteString(strconv.Quote(n.Lit.Str))
	default:
		p.out.WriteString("null")
	}
}
