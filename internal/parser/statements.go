package parser

import (
	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/lexer"
)

// parseStatement parses a single statement starting at curTok.
func (p *Parser) parseStatement() ast.Stmt {
	if p.err != nil {
		return nil
	}

	switch p.curTok.Type {
	case lexer.LET:
		if stmt := p.parseLetStmt(); stmt != nil {
			return stmt
		}
	case lexer.RETURN:
		if stmt := p.parseReturnStmt(); stmt != nil {
			return stmt
		}
	case lexer.IF:
		if stmt := p.parseIfStmt(); stmt != nil {
			return stmt
		}
	case lexer.WHILE:
		if stmt := p.parseWhileStmt(); stmt != nil {
			return stmt
		}
	case lexer.MATCH:
		if stmt := p.parseMatchStmt(); stmt != nil {
			return stmt
		}
	default:
		if stmt := p.parseExprStmt(); stmt != nil {
			return stmt
		}
	}
	return nil
}

// parseBlock parses `{ stmt* }` with curTok on the opening brace.
func (p *Parser) parseBlock() *ast.Block {
	if p.err != nil {
		return nil
	}
	if !p.curTokenIs(lexer.LBRACE) {
		p.unexpected(p.curTok, describeType(lexer.LBRACE))
		return nil
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()

	start := p.curTok.Span
	p.nextToken()

	var stmts []ast.Stmt
	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.unexpected(p.curTok, describeType(lexer.RBRACE))
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
		p.nextToken()
	}

	return ast.NewBlock(stmts, mergeSpan(start, p.curTok.Span))
}

// expectBlock moves onto a '{' in peekTok and parses the block it opens.
func (p *Parser) expectBlock() *ast.Block {
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	return p.parseBlock()
}

// parseLetStmt parses `let name (: Type)? = expr ;`.
func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	var typ *ast.Ident
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		typ = ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	value := p.parseExpr()
	if value == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	return ast.NewLetStmt(name, typ, value, mergeSpan(start, p.curTok.Span))
}

// parseReturnStmt parses `return expr? ;`.
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.curTok.Span

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return ast.NewReturnStmt(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	return ast.NewReturnStmt(value, mergeSpan(start, p.curTok.Span))
}

type ifClause struct {
	start lexer.Span
	cond  ast.Expr
	then  *ast.Block
}

// parseIfStmt parses an if statement with its whole else-if chain. The chain
// is read in a loop and folded afterwards, so `else if` nesting does not
// consume parser recursion depth: each `else if` becomes an else block whose
// only statement is the next IfStmt.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	var clauses []ifClause
	var elseBlock *ast.Block

	for {
		start := p.curTok.Span // 'if'
		p.nextToken()

		cond := p.parseExpr()
		if cond == nil {
			return nil
		}
		then := p.expectBlock()
		if then == nil {
			return nil
		}
		clauses = append(clauses, ifClause{start: start, cond: cond, then: then})

		if !p.peekTokenIs(lexer.ELSE) {
			break
		}
		p.nextToken() // 'else'
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			continue
		}
		elseBlock = p.expectBlock()
		if elseBlock == nil {
			return nil
		}
		break
	}

	var stmt *ast.IfStmt
	els := elseBlock
	for i := len(clauses) - 1; i >= 0; i-- {
		c := clauses[i]
		end := c.then.Span()
		if els != nil {
			end = els.Span()
		}
		stmt = ast.NewIfStmt(c.cond, c.then, els, mergeSpan(c.start, end))
		if i > 0 {
			els = ast.NewBlock([]ast.Stmt{stmt}, stmt.Span())
		}
	}
	return stmt
}

// parseWhileStmt parses `while expr { ... }`.
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.curTok.Span
	p.nextToken()

	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	body := p.expectBlock()
	if body == nil {
		return nil
	}

	return ast.NewWhileStmt(cond, body, mergeSpan(start, body.Span()))
}

// parseExprStmt parses `expr ;`.
func (p *Parser) parseExprStmt() *ast.ExprStmt {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}
	return ast.NewExprStmt(expr, mergeSpan(expr.Span(), p.curTok.Span))
}
