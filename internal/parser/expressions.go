package parser

import (
	"strconv"

	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/diag"
	"github.com/io-lang/io-lang/internal/lexer"
)

// binaryTiers lists the binary operators from loosest to tightest binding.
// Every tier is left-associative; unary and postfix operators bind tighter
// than all of them.
var binaryTiers = []map[lexer.TokenType]ast.BinaryOp{
	{
		lexer.OR:  ast.Or,
		lexer.AND: ast.And,
	},
	{
		lexer.EQ:     ast.Eq,
		lexer.NOT_EQ: ast.NotEq,
		lexer.LT:     ast.Less,
		lexer.LE:     ast.LessEq,
		lexer.GT:     ast.Greater,
		lexer.GE:     ast.GreaterEq,
	},
	{
		lexer.PLUS:  ast.Add,
		lexer.MINUS: ast.Sub,
	},
	{
		lexer.ASTERISK: ast.Mul,
		lexer.SLASH:    ast.Div,
		lexer.PERCENT:  ast.Mod,
	},
}

// parseExpr parses a full expression starting at curTok.
func (p *Parser) parseExpr() ast.Expr {
	if p.err != nil {
		return nil
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()

	return p.parseBinary(0)
}

// parseBinary climbs one precedence tier. Operands of the same tier are
// folded left in a loop; recursion only moves to the next tighter tier, so
// the Go stack depth is bounded by the number of tiers, not by the length of
// the expression.
func (p *Parser) parseBinary(tier int) ast.Expr {
	if tier == len(binaryTiers) {
		return p.parseUnary()
	}

	left := p.parseBinary(tier + 1)
	if left == nil {
		return nil
	}

	ops := binaryTiers[tier]
	for {
		op, ok := ops[p.peekTok.Type]
		if !ok {
			return left
		}
		p.nextToken() // operator
		p.nextToken() // first token of the right operand

		right := p.parseBinary(tier + 1)
		if right == nil {
			return nil
		}
		left = ast.NewBinaryExpr(op, left, right, mergeSpan(left.Span(), right.Span()))
	}
}

type prefixOp struct {
	op   ast.UnaryOp
	span lexer.Span
}

// parseUnary collects any run of prefix operators, parses the postfix
// expression they apply to, and wraps it innermost-first. `-a.b` therefore
// negates the member access, not `a`.
func (p *Parser) parseUnary() ast.Expr {
	var prefixes []prefixOp
	for p.curTokenIs(lexer.MINUS) || p.curTokenIs(lexer.BANG) {
		op := ast.Negate
		if p.curTokenIs(lexer.BANG) {
			op = ast.Not
		}
		prefixes = append(prefixes, prefixOp{op: op, span: p.curTok.Span})
		p.nextToken()
	}

	expr := p.parsePostfix()
	if expr == nil {
		return nil
	}

	for i := len(prefixes) - 1; i >= 0; i-- {
		expr = ast.NewUnaryExpr(prefixes[i].op, expr, mergeSpan(prefixes[i].span, expr.Span()))
	}
	return expr
}

// parsePostfix parses a primary expression followed by any chain of calls and
// member accesses, applied left to right.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.peekTok.Type {
		case lexer.LPAREN:
			expr = p.parseCallExpr(expr)
		case lexer.DOT:
			expr = p.parseMemberExpr(expr)
		default:
			return expr
		}
		if expr == nil {
			return nil
		}
	}
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	p.nextToken() // '('
	p.nextToken() // first argument or ')'

	cfg := delimitedConfig{
		Closing:       lexer.RPAREN,
		Separator:     lexer.COMMA,
		AllowEmpty:    true,
		AllowTrailing: true,
		Element:       "expression",
	}
	res, ok := parseDelimited[ast.Expr](p, cfg, func(int) (ast.Expr, bool) {
		arg := p.parseExpr()
		return arg, arg != nil
	})
	if !ok {
		return nil
	}

	return ast.NewCallExpr(callee, res.Items, mergeSpan(callee.Span(), p.curTok.Span))
}

func (p *Parser) parseMemberExpr(target ast.Expr) ast.Expr {
	p.nextToken() // '.'
	if !p.expect(lexer.IDENT) {
		return nil
	}
	member := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	return ast.NewMemberExpr(target, member, mergeSpan(target.Span(), member.Span()))
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curTok.Type {
	case lexer.IDENT:
		return ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE:
		return p.parseLiteral(nil)
	case lexer.LPAREN:
		return p.parseGroupedExpr()
	default:
		p.unexpected(p.curTok, "expression")
		return nil
	}
}

// parseGroupedExpr parses `( expr )`. Parentheses leave no node behind; the
// inner expression keeps its own span.
func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // '('

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return expr
}

// parseLiteral builds a literal node from curTok. A non-nil minus is the span
// of a preceding '-': the value is negated and the span widened to cover it.
// Patterns use this for negative numeric literals.
func (p *Parser) parseLiteral(minus *lexer.Span) ast.Expr {
	tok := p.curTok
	span := tok.Span
	negate := minus != nil
	if negate {
		span = mergeSpan(*minus, span)
	}

	switch tok.Type {
	case lexer.INT:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.malformed(tok)
			return nil
		}
		if negate {
			v = -v
		}
		return ast.NewIntegerLit(v, span)
	case lexer.FLOAT:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.malformed(tok)
			return nil
		}
		if negate {
			v = -v
		}
		return ast.NewFloatLit(v, span)
	case lexer.STRING:
		return ast.NewStringLit(tok.Literal, span)
	case lexer.TRUE:
		return ast.NewBoolLit(true, span)
	case lexer.FALSE:
		return ast.NewBoolLit(false, span)
	default:
		p.unexpected(tok, "literal")
		return nil
	}
}

// malformed reports a numeric token the lexer accepted but strconv rejects.
// The lexer validates ranges, so this only fires on a lexer bug.
func (p *Parser) malformed(tok lexer.Token) {
	p.fail(&SyntaxError{
		Message: "malformed numeric literal " + strconv.Quote(tok.Literal),
		Found:   tok,
		Span:    tok.Span,
		Code:    diag.CodeParseUnexpectedToken,
	})
}
