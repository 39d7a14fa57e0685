package parser

import (
	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/lexer"
)

// DefaultMaxDepth bounds how deeply blocks, grouped expressions and patterns
// may nest before the parser gives up with a SyntaxError.
const DefaultMaxDepth = 256

type Option func(*options)

type options struct {
	filename string
	maxDepth int
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// Parser is a fail-fast recursive descent parser for Io source.
//
//   - Lookahead: curTok is the token under examination and peekTok the one
//     after it. Both only change through nextToken.
//   - Position: every parseX method starts with curTok on the first token of
//     its construct and returns with curTok on the construct's last token.
//   - Errors: the first lexical or syntax error is kept in err and every
//     parseX method returns nil from then on. Callers never see a partial
//     tree.
type Parser struct {
	toks    *lexer.Stream
	curTok  lexer.Token
	peekTok lexer.Token

	filename string
	maxDepth int
	depth    int

	err error
}

// New returns a parser initialised with the provided source input. The input
// is tokenized up front; a lexical error is reported by the first Parse call.
func New(input string, opts ...Option) *Parser {
	cfg := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	lx := lexer.New(input)
	if cfg.filename != "" {
		lx.SetFilename(cfg.filename)
	}

	p := &Parser{
		filename: cfg.filename,
		maxDepth: cfg.maxDepth,
	}

	toks, err := lx.Tokenize()
	if err != nil {
		p.err = err
		toks = nil
	}
	p.toks = lexer.NewStream(toks)
	p.curTok = p.toks.Current()
	p.peekTok = p.toks.Peek()

	return p
}

// ParseProgram parses a translation unit: zero or more function declarations.
func ParseProgram(src string, opts ...Option) (*ast.Program, error) {
	return New(src, opts...).ParseProgram()
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string, opts ...Option) (ast.Expr, error) {
	return New(src, opts...).ParseExpr()
}

// ParseStatement parses src as a single statement.
func ParseStatement(src string, opts ...Option) (ast.Stmt, error) {
	return New(src, opts...).ParseStmt()
}

// ParseProgram parses the whole input as a translation unit. It returns either
// a complete program or the first error, never both.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if p.err != nil {
		return nil, p.err
	}

	start := p.curTok.Span
	var fns []*ast.Function
	for p.curTok.Type != lexer.EOF {
		fn := p.parseFunction()
		if fn == nil {
			return nil, p.failure()
		}
		fns = append(fns, fn)
		p.nextToken()
	}

	span := start
	if len(fns) > 0 {
		span = mergeSpan(fns[0].Span(), fns[len(fns)-1].Span())
	}
	return ast.NewProgram(fns, span), nil
}

// ParseExpr parses the whole input as one expression.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	if p.err != nil {
		return nil, p.err
	}
	expr := p.parseExpr()
	if expr == nil || !p.expectEnd() {
		return nil, p.failure()
	}
	return expr, nil
}

// ParseStmt parses the whole input as one statement.
func (p *Parser) ParseStmt() (ast.Stmt, error) {
	if p.err != nil {
		return nil, p.err
	}
	stmt := p.parseStatement()
	if stmt == nil || !p.expectEnd() {
		return nil, p.failure()
	}
	return stmt, nil
}

// nextToken advances the parser's token window. The stream never moves past
// EOF, so repeated calls at the end of input are harmless.
func (p *Parser) nextToken() {
	p.toks.Advance()
	p.curTok = p.toks.Current()
	p.peekTok = p.toks.Peek()
}

func (p *Parser) curTokenIs(tt lexer.TokenType) bool {
	return p.curTok.Type == tt
}

func (p *Parser) peekTokenIs(tt lexer.TokenType) bool {
	return p.peekTok.Type == tt
}

// expect advances onto peekTok if it has type tt, and records an error
// otherwise.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.unexpected(p.peekTok, describeType(tt))
	return false
}

// expectEnd checks that the construct just parsed is the last thing in the
// input.
func (p *Parser) expectEnd() bool {
	if p.peekTokenIs(lexer.EOF) {
		return true
	}
	p.unexpected(p.peekTok, "end of input")
	return false
}

// enter and leave bracket every recursive construct so pathological nesting
// ends in a SyntaxError rather than exhausting the stack.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.nestingTooDeep(p.curTok)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if span.Line == 0 && end.Line != 0 {
		span.Line = end.Line
		span.Column = end.Column
		span.Start = end.Start
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func (p *Parser) parseIdent() *ast.Ident {
	if !p.curTokenIs(lexer.IDENT) {
		p.unexpected(p.curTok, "identifier")
		return nil
	}
	return ast.NewIdent(p.curTok.Literal, p.curTok.Span)
}
