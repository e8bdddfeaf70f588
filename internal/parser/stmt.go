package parser

import (
	"clock/internal/ast"
	"clock/internal/lexer"
)

// ifStatement parses "if (COND) BLOCK [else (IF|BLOCK)]". ifNot wraps COND
// in a synthetic unary '!' node, mirroring the original implementation's
// TOKEN_IFNOT handling rather than introducing a distinct AST shape.
func (p *Parser) ifStatement() *ast.Node {
	tok := p.advance() // 'if' or 'ifNot'
	negate := tok.Type == lexer.TokenIfNot

	p.expect(lexer.TokenLParen, "expected '(' after 'if'")
	cond := p.expression()
	p.expect(lexer.TokenRParen, "expected ')' after if condition")
	if negate {
		not := ast.New(ast.UnaryExpr, tok.Line, tok.Col)
		not.Op = "!"
		not.Add(cond)
		cond = not
	}

	then := p.block()
	node := ast.New(ast.If, tok.Line, tok.Col)
	node.Add(cond, then)

	if p.match(lexer.TokenElse) {
		if p.check(lexer.TokenIf) || p.check(lexer.TokenIfNot) {
			node.Add(p.ifStatement())
		} else {
			node.Add(p.block())
		}
	}
	return node
}

// whileStatement parses "while (COND) BLOCK"; whileNot wraps COND in a
// synthetic unary '!', matching ifStatement's treatment of ifNot.
func (p *Parser) whileStatement() *ast.Node {
	tok := p.advance() // 'while' or 'whileNot'
	negate := tok.Type == lexer.TokenWhileNot

	p.expect(lexer.TokenLParen, "expected '(' after 'while'")
	cond := p.expression()
	p.expect(lexer.TokenRParen, "expected ')' after while condition")
	if negate {
		not := ast.New(ast.UnaryExpr, tok.Line, tok.Col)
		not.Op = "!"
		not.Add(cond)
		cond = not
	}

	body := p.block()
	node := ast.New(ast.While, tok.Line, tok.Col)
	node.Add(cond, body)
	return node
}

// forStatement parses "for (START to END) BLOCK". The loop's induction
// variable is bound by the evaluator/emitter, not the parser; this node
// only carries the start expression, the end expression, and the body.
func (p *Parser) forStatement() *ast.Node {
	tok := p.advance() // 'for'
	p.expect(lexer.TokenLParen, "expected '(' after 'for'")
	start := p.expression()
	p.expect(lexer.TokenTo, "expected 'to' in for-loop range")
	end := p.expression()
	p.expect(lexer.TokenRParen, "expected ')' after for-loop range")
	body := p.block()

	node := ast.New(ast.For, tok.Line, tok.Col)
	node.Add(start, end, body)
	return node
}

// switchStatement parses "switch (EXPR) { (when EXPR : STMTS stop ;)*
// (default : STMTS stop ;)? }". A stray token where a case should start,
// or a second 'default', is reported and the parser resynchronizes at the
// next 'when'/'default'/'}' rather than aborting the whole parse; a case
// missing its 'stop;' is reported and parsing goes on. Other errors inside
// a case (a missing ':', a malformed statement) are fatal, as elsewhere.
func (p *Parser) switchStatement() *ast.Node {
	tok := p.advance() // 'switch'
	p.expect(lexer.TokenLParen, "expected '(' after 'switch'")
	scrutinee := p.expression()
	p.expect(lexer.TokenRParen, "expected ')' after switch expression")

	node := ast.New(ast.Switch, tok.Line, tok.Col)
	node.Add(scrutinee)

	p.expect(lexer.TokenLBrace, "expected '{' to start switch body")
	sawDefault := false
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		switch {
		case p.check(lexer.TokenWhen):
			node.Add(p.whenCase())
		case p.check(lexer.TokenDefault):
			if sawDefault {
				p.reportRecoverable(p.peek(), "switch already has a 'default' case")
				p.synchronizeCase()
				continue
			}
			sawDefault = true
			node.Add(p.defaultCase())
		default:
			p.reportRecoverable(p.peek(), "expected 'when' or 'default' in switch body, got %q", p.peek().Lexeme)
			p.synchronizeCase()
		}
	}
	if len(node.Children) < 2 {
		p.fail(tok, "switch must contain at least one 'when' or 'default' case")
	}
	p.expect(lexer.TokenRBrace, "expected '}' to close switch body")
	return node
}

func (p *Parser) whenCase() *ast.Node {
	tok := p.advance() // 'when'
	value := p.expression()
	p.expect(lexer.TokenColon, "expected ':' after 'when' value")

	node := ast.New(ast.When, tok.Line, tok.Col)
	node.Add(value)
	p.caseBody(node)
	return node
}

func (p *Parser) defaultCase() *ast.Node {
	tok := p.advance() // 'default'
	p.expect(lexer.TokenColon, "expected ':' after 'default'")

	node := ast.New(ast.Default, tok.Line, tok.Col)
	p.caseBody(node)
	return node
}

// caseBody collects statements up to a mandatory 'stop;' terminator. If the
// case runs off into '}'/'when'/'default'/EOF without a stop, that's a
// malformed case: report and let the caller resynchronize.
func (p *Parser) caseBody(node *ast.Node) {
	for {
		if p.check(lexer.TokenStop) {
			p.advance()
			p.expect(lexer.TokenEnd, "expected ';' after 'stop' in switch case")
			return
		}
		if p.check(lexer.TokenRBrace) || p.check(lexer.TokenWhen) || p.check(lexer.TokenDefault) || p.isAtEnd() {
			p.reportRecoverable(p.peek(), "switch case is missing its terminating 'stop;'")
			return
		}
		node.Add(p.statement())
	}
}

// synchronizeCase skips tokens until the next case boundary so a single
// malformed case doesn't abort the entire switch parse.
func (p *Parser) synchronizeCase() {
	for !p.check(lexer.TokenWhen) && !p.check(lexer.TokenDefault) && !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		p.advance()
	}
}
