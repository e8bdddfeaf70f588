// Package parser implements Clock's recursive-descent, precedence-climbing
// parser. It turns a lexer.Token stream into the uniform ast.Node tree.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"clock/internal/cerrors"
	"clock/internal/ast"
	"clock/internal/lexer"
)

// precedence ranks binary operators; a missing entry (any terminator, any
// postfix delimiter) stops precedence climbing. && and || sit strictly
// below the comparison operators so "a < b && c < d" parses as
// "(a<b) && (c<d)".
var precedence = map[lexer.TokenType]int{
	lexer.TokenOr:          1,
	lexer.TokenAnd:         2,
	lexer.TokenDoubleEqual: 3,
	lexer.TokenNotEqual:    3,
	lexer.TokenLT:          4,
	lexer.TokenLE:          4,
	lexer.TokenGT:          4,
	lexer.TokenGE:          4,
	lexer.TokenPlus:        5,
	lexer.TokenMinus:       5,
	lexer.TokenPercent:     5,
	lexer.TokenStar:        6,
	lexer.TokenSlash:       6,
}

var assignOps = map[lexer.TokenType]string{
	lexer.TokenEqual:     "=",
	lexer.TokenPlusEq:    "+=",
	lexer.TokenMinusEq:   "-=",
	lexer.TokenStarEq:    "*=",
	lexer.TokenSlashEq:   "/=",
	lexer.TokenPercentEq: "%=",
}

// Parser holds parse position over a fixed token slice.
type Parser struct {
	tokens      []lexer.Token
	current     int
	file        string
	sourceLines []string
}

// New creates a Parser over tokens. source/file are used only to annotate
// fatal error messages with the offending line; source may be "".
func New(tokens []lexer.Token, source, file string) *Parser {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	return &Parser{tokens: tokens, file: file, sourceLines: lines}
}

// Parse consumes the whole token stream and returns the PROGRAM node. A
// malformed program is fatal (see cerrors.Fatal in fail); this function
// never returns on such input.
func (p *Parser) Parse() *ast.Node {
	prog := ast.New(ast.Program, 1, 1)
	for !p.isAtEnd() {
		if p.check(lexer.TokenEnd) {
			p.advance() // lone ';' is a no-op statement
			continue
		}
		prog.Add(p.statement())
	}
	return prog
}

func (p *Parser) statement() *ast.Node {
	switch p.peek().Type {
	case lexer.TokenIf, lexer.TokenIfNot:
		return p.ifStatement()
	case lexer.TokenWhile, lexer.TokenWhileNot:
		return p.whileStatement()
	case lexer.TokenFor:
		return p.forStatement()
	case lexer.TokenSwitch:
		return p.switchStatement()
	case lexer.TokenReturn:
		return p.returnStatement()
	case lexer.TokenLBrace:
		return p.block()
	case lexer.TokenMake:
		return p.varDecl()
	case lexer.TokenList:
		return p.arrayDecl()
	case lexer.TokenFunction:
		return p.functionDecl()
	case lexer.TokenStop:
		tok := p.advance()
		p.expect(lexer.TokenEnd, "expected ';' after 'stop'")
		return ast.New(ast.Break, tok.Line, tok.Col)
	case lexer.TokenContinue:
		tok := p.advance()
		p.expect(lexer.TokenEnd, "expected ';' after 'continue'")
		return ast.New(ast.Continue, tok.Line, tok.Col)
	}

	if p.check(lexer.TokenIdent) {
		if assign := p.tryParseAssignment(); assign != nil {
			return assign
		}
	}
	return p.expressionStatement()
}

// tryParseAssignment speculatively parses a postfix-chain LHS (identifier,
// array access, or member access) followed by an assignment operator. If
// no assignment operator follows, it rewinds so the caller can reparse the
// same tokens as a plain expression statement.
func (p *Parser) tryParseAssignment() *ast.Node {
	saved := p.current
	lhs := p.parsePostfix()
	if op, ok := assignOps[p.peek().Type]; ok {
		tok := p.advance()
		rhs := p.expression()
		p.expect(lexer.TokenEnd, "expected ';' after assignment")
		node := ast.New(ast.Assignment, tok.Line, tok.Col)
		node.Op = op
		node.Add(lhs, rhs)
		return node
	}
	p.current = saved
	return nil
}

func (p *Parser) expressionStatement() *ast.Node {
	expr := p.expression()
	p.expect(lexer.TokenEnd, "expected ';' after expression")
	return expr
}

func (p *Parser) block() *ast.Node {
	open := p.expect(lexer.TokenLBrace, "expected '{'")
	blk := ast.New(ast.Block, open.Line, open.Col)
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if p.check(lexer.TokenEnd) {
			p.advance()
			continue
		}
		blk.Add(p.statement())
	}
	p.expect(lexer.TokenRBrace, "expected '}' to close block")
	return blk
}

func (p *Parser) returnStatement() *ast.Node {
	tok := p.advance()
	node := ast.New(ast.Return, tok.Line, tok.Col)
	if !p.check(lexer.TokenEnd) {
		node.Add(p.expression())
	}
	p.expect(lexer.TokenEnd, "expected ';' after return statement")
	return node
}

func (p *Parser) varDecl() *ast.Node {
	tok := p.advance() // 'make'
	name := p.expect(lexer.TokenIdent, "expected variable name after 'make'")
	p.expect(lexer.TokenEqual, "expected '=' in variable declaration")
	value := p.expression()
	p.expect(lexer.TokenEnd, "expected ';' after variable declaration")
	node := ast.New(ast.Assignment, tok.Line, tok.Col)
	node.Op = "="
	node.Add(ast.NewIdentifier(name.Lexeme, name.Line, name.Col), value)
	return node
}

func (p *Parser) arrayDecl() *ast.Node {
	tok := p.advance() // 'list'
	name := p.expect(lexer.TokenIdent, "expected array name after 'list'")
	p.expect(lexer.TokenEqual, "expected '=' in array declaration")
	lit := p.arrayLiteralBody(lexer.TokenEnd) // elements separated by ';'
	p.expect(lexer.TokenEnd, "expected ';' after array declaration")
	node := ast.New(ast.Assignment, tok.Line, tok.Col)
	node.Op = "="
	node.Add(ast.NewIdentifier(name.Lexeme, name.Line, name.Col), lit)
	return node
}

// arrayLiteralBody parses "{ E1 sep E2 sep ... }" where sep is the given
// separator token. Its only caller is arrayDecl, which passes ';' for a
// `list` declaration; an array literal used as an ordinary expression is
// spelled "[E1, E2, ...]" and parsed by bracketArrayLiteral instead.
func (p *Parser) arrayLiteralBody(sep lexer.TokenType) *ast.Node {
	open := p.expect(lexer.TokenLBrace, "expected '{' to start array literal")
	lit := ast.New(ast.ArrayLiteral, open.Line, open.Col)
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		lit.Add(p.expression())
		if !p.match(sep) {
			break
		}
	}
	p.expect(lexer.TokenRBrace, "expected '}' to close array literal")
	return lit
}

func (p *Parser) functionDecl() *ast.Node {
	tok := p.advance() // 'function'
	name := p.expect(lexer.TokenIdent, "expected function name")
	node := ast.New(ast.FunctionDecl, tok.Line, tok.Col)
	node.Add(ast.NewIdentifier(name.Lexeme, name.Line, name.Col))

	p.expect(lexer.TokenLParen, "expected '(' after function name")
	if !p.check(lexer.TokenRParen) {
		for {
			param := p.expect(lexer.TokenIdent, "expected parameter name")
			node.Add(ast.NewIdentifier(param.Lexeme, param.Line, param.Col))
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "expected ')' after parameter list")
	node.Add(p.block())
	return node
}

// expression is the entry point for precedence climbing.
func (p *Parser) expression() *ast.Node {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		kind := ast.BinaryExpr
		if tok.Type == lexer.TokenAnd || tok.Type == lexer.TokenOr {
			kind = ast.LogicalExpr
		}
		node := ast.New(kind, tok.Line, tok.Col)
		node.Op = tok.Lexeme
		node.Add(left, right)
		left = node
	}
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.peek().Type {
	case lexer.TokenMinus, lexer.TokenComplement, lexer.TokenNot, lexer.TokenAmp, lexer.TokenStar:
		tok := p.advance()
		operand := p.parseUnary()
		node := ast.New(ast.UnaryExpr, tok.Line, tok.Col)
		node.Op = tok.Lexeme
		node.Add(operand)
		return node
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of calls,
// member accesses, and index operations.
func (p *Parser) parsePostfix() *ast.Node {
	expr := p.primary()
	for {
		switch p.peek().Type {
		case lexer.TokenLParen:
			expr = p.finishCall(expr)
		case lexer.TokenArrow:
			tok := p.advance()
			name := p.expect(lexer.TokenIdent, "expected member name after '->'")
			node := ast.New(ast.MemberAccess, tok.Line, tok.Col)
			node.Op = "->"
			node.Add(expr, ast.NewIdentifier(name.Lexeme, name.Line, name.Col))
			expr = node
		case lexer.TokenLBracket:
			tok := p.advance()
			index := p.indexExpr()
			p.expect(lexer.TokenRBracket, "expected ']' after index")
			node := ast.New(ast.ArrayAccess, tok.Line, tok.Col)
			node.Add(expr, index)
			expr = node
		default:
			return expr
		}
	}
}

// indexExpr parses the restricted index-expression grammar: an integer
// literal or an identifier, per spec.
func (p *Parser) indexExpr() *ast.Node {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenInt, lexer.TokenHex, lexer.TokenBinary, lexer.TokenIdent:
		return p.primary()
	default:
		p.fail(tok, "expected an integer literal or identifier as an array index")
		return nil
	}
}

func (p *Parser) finishCall(callee *ast.Node) *ast.Node {
	open := p.advance() // '('
	node := ast.New(ast.FunctionCall, open.Line, open.Col)
	node.Add(callee)
	if !p.check(lexer.TokenRParen) {
		for {
			node.Add(p.expression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "expected ')' after call arguments")
	return node
}

func (p *Parser) primary() *ast.Node {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokenInt:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.fail(tok, "invalid integer literal %q", tok.Lexeme)
		}
		return ast.NewIntLiteral(v, tok.Line, tok.Col)
	case lexer.TokenHex, lexer.TokenBinary:
		v, err := lexer.ParseIntLexeme(tok.Type, tok.Lexeme)
		if err != nil {
			p.fail(tok, "invalid numeric literal %q", tok.Lexeme)
		}
		return ast.NewIntLiteral(v, tok.Line, tok.Col)
	case lexer.TokenFloat:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.fail(tok, "invalid float literal %q", tok.Lexeme)
		}
		return ast.NewFloatLiteral(v, tok.Line, tok.Col)
	case lexer.TokenChar:
		r := []rune(tok.Lexeme)
		var code int64
		if len(r) > 0 {
			code = int64(r[0])
		}
		return ast.NewIntLiteral(code, tok.Line, tok.Col)
	case lexer.TokenString:
		return ast.NewStringLiteral(tok.Lexeme, tok.Line, tok.Col)
	case lexer.TokenTrue:
		return ast.NewBoolLiteral(true, tok.Line, tok.Col)
	case lexer.TokenFalse:
		return ast.NewBoolLiteral(false, tok.Line, tok.Col)
	case lexer.TokenIdent:
		return ast.NewIdentifier(tok.Lexeme, tok.Line, tok.Col)
	case lexer.TokenStop:
		return ast.New(ast.Break, tok.Line, tok.Col)
	case lexer.TokenContinue:
		return ast.New(ast.Continue, tok.Line, tok.Col)
	case lexer.TokenLParen:
		expr := p.expression()
		p.expect(lexer.TokenRParen, "expected ')' after parenthesized expression")
		return expr
	case lexer.TokenLBracket:
		return p.bracketArrayLiteral(tok)
	}
	p.fail(tok, "unexpected token %q in expression", tok.Lexeme)
	return nil
}

// bracketArrayLiteral parses "[E1, E2, ...]" — the array-literal spelling
// usable inside ordinary expressions (as opposed to a `list` declaration's
// "{ E1; E2 }" form). The caller has already consumed the opening '['.
func (p *Parser) bracketArrayLiteral(open lexer.Token) *ast.Node {
	lit := ast.New(ast.ArrayLiteral, open.Line, open.Col)
	for !p.check(lexer.TokenRBracket) && !p.isAtEnd() {
		lit.Add(p.expression())
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBracket, "expected ']' to close array literal")
	return lit
}

// --- token-stream primitives ---

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkNext(t lexer.TokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == t
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.tokens[p.current].Type == lexer.TokenEOF
}

func (p *Parser) expect(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(p.peek(), "%s (got %q)", msg, p.peek().Lexeme)
	return lexer.Token{}
}

// fail reports a fatal parse error and aborts the process: continuing past
// malformed syntax would mean inventing AST structure the input never
// specified.
func (p *Parser) fail(tok lexer.Token, format string, args ...interface{}) {
	err := cerrors.New(cerrors.ParseError, p.file, tok.Line, tok.Col, format, args...)
	if p.sourceLines != nil && tok.Line > 0 && tok.Line <= len(p.sourceLines) {
		err.Source = p.sourceLines[tok.Line-1]
	}
	cerrors.Fatal(err)
}

// reportRecoverable reports a non-fatal parse error for contexts (switch
// cases) the grammar defines a synchronization point for.
func (p *Parser) reportRecoverable(tok lexer.Token, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	err := cerrors.New(cerrors.ParseError, p.file, tok.Line, tok.Col, "%s", msg)
	cerrors.Report(err)
}
