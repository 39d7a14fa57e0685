package parser

import (
	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/lexer"
)

// parseFunction parses `(async)? fn name(params) (-> Type)? { ... }`.
func (p *Parser) parseFunction() *ast.Function {
	if p.err != nil {
		return nil
	}

	start := p.curTok.Span
	async := false
	switch {
	case p.curTokenIs(lexer.ASYNC):
		async = true
		if !p.expect(lexer.FN) {
			return nil
		}
	case !p.curTokenIs(lexer.FN):
		p.unexpected(p.curTok, "function declaration")
		return nil
	}

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}

	var ret *ast.Ident
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		ret = ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	}

	body := p.expectBlock()
	if body == nil {
		return nil
	}

	return ast.NewFunction(name, params, ret, body, async, mergeSpan(start, body.Span()))
}

// parseParams parses the parameter list with curTok on '(' and leaves curTok
// on ')'. Duplicate names are accepted.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	p.nextToken() // first parameter or ')'

	cfg := delimitedConfig{
		Closing:       lexer.RPAREN,
		Separator:     lexer.COMMA,
		AllowEmpty:    true,
		AllowTrailing: true,
		Element:       "parameter",
	}
	res, ok := parseDelimited[*ast.Param](p, cfg, func(int) (*ast.Param, bool) {
		if !p.curTokenIs(lexer.IDENT) {
			p.unexpected(p.curTok, "parameter name")
			return nil, false
		}
		name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
		if !p.expect(lexer.COLON) {
			return nil, false
		}
		if !p.expect(lexer.IDENT) {
			return nil, false
		}
		typ := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
		return ast.NewParam(name, typ, mergeSpan(name.Span(), typ.Span())), true
	})
	if !ok {
		return nil, false
	}
	return res.Items, true
}
