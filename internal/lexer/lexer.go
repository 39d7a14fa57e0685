package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/io-lang/io-lang/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedBlockComment
	ErrIllegalRune
	ErrMalformedLiteral
)

// LexerError reports input no token rule matches. The lexer stops producing
// useful tokens for the caller after the first one.
type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Hint    string // suggested fix, e.g. "did you mean '&&'?"
	Span    Span
}

func (e *LexerError) Error() string {
	msg := e.Span.String() + ": " + e.Message
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrMalformedLiteral:
		return diag.CodeLexerMalformedLiteral
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e *LexerError) ToDiagnostic() diag.Diagnostic {
	d := diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
	if e.Hint != "" {
		d = d.WithSuggestion(e.Hint)
	}
	if e.Kind == ErrUnterminatedString {
		d = d.WithNote("string literals have no escape sequences; the next '\"' always closes the literal")
	}
	return d
}

// eof marks the position past the last rune. A NUL rune in the input is
// ordinary (illegal) text, not end of input.
const eof rune = -1

// invalidByte tags a byte that does not start a valid UTF-8 sequence: the
// byte b is stored as invalidByte+b. Decoded runes are never negative, so a
// tagged byte cannot be confused with text, U+FFFD included.
const invalidByte rune = -0x200

func isInvalidByte(ch rune) bool {
	return ch >= invalidByte && ch <= invalidByte+0xff
}

// decode splits input into runes, tagging invalid bytes instead of replacing
// them.
func decode(input string) []rune {
	runes := make([]rune, 0, len(input))
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if r == utf8.RuneError && size == 1 {
			r = invalidByte + rune(input[i])
		}
		runes = append(runes, r)
		i += size
	}
	return runes
}

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	filename string
	pos      int  // index of the current rune
	ch       rune // current rune (eof past the end)
	line     int  // line of ch (1-based)
	column   int  // column of ch (1-based)

	Errors []LexerError
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  decode(input),
		line:   1,
		column: 1,
	}
	l.ch = l.at(0)
	return l
}

// SetFilename attributes every span the lexer produces to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

func (l *Lexer) at(i int) rune {
	if i >= len(l.input) {
		return eof
	}
	return l.input[i]
}

// read advances to the next rune, keeping line/column on the new rune.
func (l *Lexer) read() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	l.ch = l.at(l.pos)
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	return l.at(l.pos + 1)
}

// text returns the source of input[start:end] with invalid bytes restored.
func (l *Lexer) text(start, end int) string {
	var sb strings.Builder
	for _, r := range l.input[start:end] {
		if isInvalidByte(r) {
			sb.WriteByte(byte(r - invalidByte))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

type mark struct {
	line, column, pos int
}

func (l *Lexer) mark() mark {
	return mark{line: l.line, column: l.column, pos: l.pos}
}

func (l *Lexer) spanFrom(m mark) Span {
	return Span{
		Filename: l.filename,
		Line:     m.line,
		Column:   m.column,
		Start:    m.pos,
		End:      l.pos,
	}
}

func (l *Lexer) makeToken(tokType TokenType, m mark, literal string) Token {
	return Token{
		Type:    tokType,
		Literal: literal,
		Span:    l.spanFrom(m),
	}
}

// illegal records an error and returns the ILLEGAL token covering it.
func (l *Lexer) illegal(kind LexerErrorKind, msg string, m mark) Token {
	tok := l.makeToken(ILLEGAL, m, l.text(m.pos, l.pos))
	l.addError(kind, msg, tok.Span)
	return tok
}

// single consumes one rune and returns a token of the given type.
func (l *Lexer) single(tokType TokenType) Token {
	m := l.mark()
	raw := string(l.ch)
	l.read()
	return l.makeToken(tokType, m, raw)
}

// either consumes a one- or two-rune operator depending on the next rune.
func (l *Lexer) either(next rune, two, one TokenType) Token {
	if l.peek() != next {
		return l.single(one)
	}
	m := l.mark()
	l.read()
	l.read()
	return l.makeToken(two, m, l.text(m.pos, l.pos))
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.read()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != eof {
		l.read()
	}
}

// skipBlockComment consumes a (possibly nested) block comment whose "/*" has
// already been read. It reports whether the comment was closed.
func (l *Lexer) skipBlockComment(m mark) bool {
	depth := 1
	for depth > 0 {
		switch {
		case l.ch == eof:
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", l.spanFrom(m))
			return false
		case l.ch == '/' && l.peek() == '*':
			l.read()
			l.read()
			depth++
		case l.ch == '*' && l.peek() == '/':
			l.read()
			l.read()
			depth--
		default:
			l.read()
		}
	}
	return true
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return l.text(start, l.pos)
}

// readNumber reads a decimal integer or a float with a mandatory fractional
// part. Base prefixes, exponents and digit separators are not part of the
// grammar; a letter glued to the digits makes the literal malformed.
func (l *Lexer) readNumber() Token {
	m := l.mark()
	for isDigit(l.ch) {
		l.read()
	}

	tokType := INT
	if l.ch == '.' && isDigit(l.peek()) {
		tokType = FLOAT
		l.read() // consume '.'
		for isDigit(l.ch) {
			l.read()
		}
	}

	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.read()
		}
		lit := l.text(m.pos, l.pos)
		return l.illegal(ErrMalformedLiteral, "malformed numeric literal "+strconv.Quote(lit), m)
	}

	lit := l.text(m.pos, l.pos)
	if tokType == INT {
		if _, err := strconv.ParseInt(lit, 10, 64); err != nil {
			return l.illegal(ErrMalformedLiteral, "integer literal "+lit+" out of range", m)
		}
	} else if _, err := strconv.ParseFloat(lit, 64); err != nil {
		return l.illegal(ErrMalformedLiteral, "float literal "+lit+" out of range", m)
	}

	return l.makeToken(tokType, m, lit)
}

// readString reads a double-quoted string. There are no escape sequences: a
// backslash is an ordinary character and the next '"' always ends the literal.
// The value must be valid UTF-8.
func (l *Lexer) readString() Token {
	m := l.mark()
	l.read() // skip opening quote
	start := l.pos
	for l.ch != '"' {
		switch {
		case l.ch == eof:
			return l.illegal(ErrUnterminatedString, "unterminated string literal", m)
		case isInvalidByte(l.ch):
			return l.invalidUTF8()
		}
		l.read()
	}
	value := l.text(start, l.pos)
	l.read() // consume closing quote
	return l.makeToken(STRING, m, value)
}

// NextToken returns the next token from the input. On bad input it returns
// an ILLEGAL token and appends the matching LexerError to Errors.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		switch l.ch {
		case eof:
			return l.makeToken(EOF, l.mark(), "")

		case '=':
			if l.peek() == '>' {
				return l.either('>', FATARROW, ASSIGN)
			}
			return l.either('=', EQ, ASSIGN)

		case '!':
			return l.either('=', NOT_EQ, BANG)

		case '<':
			return l.either('=', LE, LT)

		case '>':
			return l.either('=', GE, GT)

		case '-':
			return l.either('>', ARROW, MINUS)

		case '&':
			if l.peek() == '&' {
				return l.either('&', AND, AND)
			}
			return l.illegalRune("did you mean '&&'?")

		case '|':
			if l.peek() == '|' {
				return l.either('|', OR, OR)
			}
			return l.illegalRune("did you mean '||'?")

		case '/':
			switch l.peek() {
			case '/':
				l.skipLineComment()
				continue
			case '*':
				m := l.mark()
				l.read() // consume '/'
				l.read() // consume '*'
				if !l.skipBlockComment(m) {
					return l.makeToken(ILLEGAL, m, l.text(m.pos, l.pos))
				}
				continue
			default:
				return l.single(SLASH)
			}

		case '+':
			return l.single(PLUS)
		case '*':
			return l.single(ASTERISK)
		case '%':
			return l.single(PERCENT)
		case ';':
			return l.single(SEMICOLON)
		case ',':
			return l.single(COMMA)
		case ':':
			return l.single(COLON)
		case '.':
			return l.single(DOT)
		case '(':
			return l.single(LPAREN)
		case ')':
			return l.single(RPAREN)
		case '{':
			return l.single(LBRACE)
		case '}':
			return l.single(RBRACE)

		case '"':
			return l.readString()

		default:
			if isLetter(l.ch) {
				m := l.mark()
				literal := l.readIdentifier()
				return l.makeToken(LookupIdent(literal), m, literal)
			}
			if isDigit(l.ch) {
				return l.readNumber()
			}
			return l.illegalRune("")
		}
	}
}

func (l *Lexer) illegalRune(hint string) Token {
	if isInvalidByte(l.ch) {
		return l.invalidUTF8()
	}
	m := l.mark()
	ch := l.ch
	l.read()
	tok := l.illegal(ErrIllegalRune, "illegal character "+strconv.QuoteRune(ch), m)
	l.Errors[len(l.Errors)-1].Hint = hint
	return tok
}

// invalidUTF8 reports the tagged byte under the cursor.
func (l *Lexer) invalidUTF8() Token {
	m := l.mark()
	b := byte(l.ch - invalidByte)
	l.read()
	return l.illegal(ErrIllegalRune, fmt.Sprintf("invalid UTF-8 byte 0x%02x", b), m)
}

// Tokenize lexes the whole input into a sequence terminated by EOF. It stops
// at the first lexical error and returns it instead of a partial sequence.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			err := l.Errors[len(l.Errors)-1]
			return nil, &err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

// Identifiers are ASCII only.
func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
