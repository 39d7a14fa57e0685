package parser

import (
	"fmt"

	"github.com/io-lang/io-lang/internal/diag"
	"github.com/io-lang/io-lang/internal/lexer"
)

// SyntaxError reports that the parser expected one construct and found
// another. Parsing stops at the first one.
type SyntaxError struct {
	Message  string
	Expected string      // what the parser was looking for, e.g. "')'"
	Found    lexer.Token // the offending token; EOF for truncated input
	Span     lexer.Span
	Code     diag.Code
}

func (e *SyntaxError) Error() string {
	return e.Span.String() + ": " + e.Message
}

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *SyntaxError) ToDiagnostic() diag.Diagnostic {
	span := diag.Span{
		Filename: e.Span.Filename,
		Line:     e.Span.Line,
		Column:   e.Span.Column,
		Start:    e.Span.Start,
		End:      e.Span.End,
	}
	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     e.Code,
		Message:  e.Message,
		Span:     span,
	}
	if e.Expected != "" {
		d = d.WithPrimarySpan(span, "expected "+e.Expected)
	}
	if e.Found.Type == lexer.EOF {
		d = d.WithHelp("the input ends before this construct is complete; check for a missing '}' or ';'")
	}
	return d
}

// fail records err unless an earlier error is already held.
func (p *Parser) fail(err *SyntaxError) {
	if p.err != nil {
		return
	}
	if err.Span.Filename == "" && p.filename != "" {
		err.Span.Filename = p.filename
	}
	p.err = err
}

// failure returns the recorded error. A parse function that returned nil
// always recorded one first; the fallback guards against a missed path.
func (p *Parser) failure() error {
	if p.err != nil {
		return p.err
	}
	return &SyntaxError{
		Message: "internal parser error: no diagnostic recorded",
		Found:   p.curTok,
		Span:    p.curTok.Span,
		Code:    diag.CodeParseUnexpectedToken,
	}
}

// unexpected reports that tok appeared where expected was required.
func (p *Parser) unexpected(tok lexer.Token, expected string) {
	if tok.Type == lexer.EOF {
		p.fail(&SyntaxError{
			Message:  fmt.Sprintf("unexpected end of input, expected %s", expected),
			Expected: expected,
			Found:    tok,
			Span:     tok.Span,
			Code:     diag.CodeParseUnexpectedEOF,
		})
		return
	}
	p.fail(&SyntaxError{
		Message:  fmt.Sprintf("expected %s, found %s", expected, tok.Describe()),
		Expected: expected,
		Found:    tok,
		Span:     tok.Span,
		Code:     diag.CodeParseUnexpectedToken,
	})
}

func (p *Parser) nestingTooDeep(tok lexer.Token) {
	p.fail(&SyntaxError{
		Message: fmt.Sprintf("nesting too deep (limit %d)", p.maxDepth),
		Found:   tok,
		Span:    tok.Span,
		Code:    diag.CodeParseNestingTooDeep,
	})
}

// describeType renders a token type for "expected ..." messages.
func describeType(tt lexer.TokenType) string {
	if s := tt.Spelling(); s != "" {
		return "'" + s + "'"
	}
	switch tt {
	case lexer.IDENT:
		return "identifier"
	case lexer.EOF:
		return "end of input"
	default:
		return string(tt.Category())
	}
}
