package parser

import (
	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/lexer"
)

// parseMatchStmt parses `match expr { arm* }`. Arms are not separated by
// commas and keep their source order.
func (p *Parser) parseMatchStmt() *ast.MatchStmt {
	start := p.curTok.Span
	p.nextToken()

	subject := p.parseExpr()
	if subject == nil {
		return nil
	}
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	var arms []*ast.MatchArm
	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.unexpected(p.curTok, "pattern or '}'")
			return nil
		}
		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		arms = append(arms, arm)
		p.nextToken()
	}

	return ast.NewMatchStmt(subject, arms, mergeSpan(start, p.curTok.Span))
}

// parseMatchArm parses `pattern (if guard)? => { ... }`.
func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.curTok.Span

	pattern := p.parsePattern()
	if pattern == nil {
		return nil
	}

	var guard ast.Expr
	if p.peekTokenIs(lexer.IF) {
		p.nextToken() // 'if'
		p.nextToken()
		guard = p.parseExpr()
		if guard == nil {
			return nil
		}
	}

	if !p.expect(lexer.FATARROW) {
		return nil
	}
	body := p.expectBlock()
	if body == nil {
		return nil
	}

	return ast.NewMatchArm(pattern, guard, body, mergeSpan(start, body.Span()))
}

// parsePattern parses one pattern starting at curTok:
//
//	_                      wildcard
//	42  -1.5  "s"  true    literal
//	name                   binding
//	Name { f: pat, ... }   constructor
func (p *Parser) parsePattern() ast.Pattern {
	if p.err != nil {
		return nil
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()

	switch p.curTok.Type {
	case lexer.UNDERSCORE:
		return ast.NewWildcardPattern(p.curTok.Span)

	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE:
		lit := p.parseLiteral(nil)
		if lit == nil {
			return nil
		}
		return ast.NewLiteralPattern(lit, lit.Span())

	case lexer.MINUS:
		minus := p.curTok.Span
		if !p.peekTokenIs(lexer.INT) && !p.peekTokenIs(lexer.FLOAT) {
			p.unexpected(p.peekTok, "numeric literal")
			return nil
		}
		p.nextToken()
		lit := p.parseLiteral(&minus)
		if lit == nil {
			return nil
		}
		return ast.NewLiteralPattern(lit, lit.Span())

	case lexer.IDENT:
		name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
		if p.peekTokenIs(lexer.LBRACE) {
			if ctor := p.parseConstructorPattern(name); ctor != nil {
				return ctor
			}
			return nil
		}
		return ast.NewVarPattern(name, name.Span())

	default:
		p.unexpected(p.curTok, "pattern")
		return nil
	}
}

// parseConstructorPattern parses the `{ field: pat, ... }` part after name.
// Field names must be present but only the sub-patterns are kept.
func (p *Parser) parseConstructorPattern(name *ast.Ident) *ast.ConstructorPattern {
	p.nextToken() // '{'
	p.nextToken() // first field or '}'

	cfg := delimitedConfig{
		Closing:       lexer.RBRACE,
		Separator:     lexer.COMMA,
		AllowEmpty:    true,
		AllowTrailing: true,
		Element:       "field pattern",
	}
	res, ok := parseDelimited[ast.Pattern](p, cfg, func(int) (ast.Pattern, bool) {
		if !p.curTokenIs(lexer.IDENT) {
			p.unexpected(p.curTok, "field name")
			return nil, false
		}
		if !p.expect(lexer.COLON) {
			return nil, false
		}
		p.nextToken()
		sub := p.parsePattern()
		return sub, sub != nil
	})
	if !ok {
		return nil
	}

	return ast.NewConstructorPattern(name, res.Items, mergeSpan(name.Span(), p.curTok.Span))
}
