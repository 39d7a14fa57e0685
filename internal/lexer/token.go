package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // rune offset into the source
	End      int    // exclusive end offset
}

// String renders the span as file:line:column, omitting the file when unset.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Token represents a lexical token. Tokens are values and are never mutated
// once the lexer hands them out.
type Token struct {
	Type    TokenType
	Literal string // source text; for STRING the text between the quotes
	Span    Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // add, foobar, x, y, ...
	INT    TokenType = "INT"    // 1343456
	FLOAT  TokenType = "FLOAT"  // 3.14
	STRING TokenType = "STRING" // "hello"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	AND      TokenType = "&&"
	OR       TokenType = "||"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	ARROW     TokenType = "->"
	FATARROW  TokenType = "=>"

	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"

	// Keywords
	FN         TokenType = "FN"
	ASYNC      TokenType = "ASYNC"
	LET        TokenType = "LET"
	RETURN     TokenType = "RETURN"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	WHILE      TokenType = "WHILE"
	MATCH      TokenType = "MATCH"
	UNDERSCORE TokenType = "_"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
)

// keywords is filled once at package initialisation and only read afterwards,
// so concurrent lexers share it without locking.
var keywords = map[string]TokenType{
	"fn":     FN,
	"async":  ASYNC,
	"let":    LET,
	"return": RETURN,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"match":  MATCH,
	"_":      UNDERSCORE,
	"true":   TRUE,
	"false":  FALSE,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Category groups token types into the coarse kinds shown to users.
type Category string

const (
	CategoryIdentifier Category = "identifier"
	CategoryInteger    Category = "integer-literal"
	CategoryFloat      Category = "float-literal"
	CategoryString     Category = "string-literal"
	CategoryBoolean    Category = "boolean-literal"
	CategoryKeyword    Category = "keyword"
	CategoryOperator   Category = "operator"
	CategoryPunct      Category = "punctuation"
	CategoryEOF        Category = "end-of-input"
	CategoryIllegal    Category = "illegal"
)

// Category reports which coarse kind the token type belongs to.
func (tt TokenType) Category() Category {
	switch tt {
	case IDENT:
		return CategoryIdentifier
	case INT:
		return CategoryInteger
	case FLOAT:
		return CategoryFloat
	case STRING:
		return CategoryString
	case TRUE, FALSE:
		return CategoryBoolean
	case FN, ASYNC, LET, RETURN, IF, ELSE, WHILE, MATCH, UNDERSCORE:
		return CategoryKeyword
	case ASSIGN, PLUS, MINUS, BANG, ASTERISK, SLASH, PERCENT, AND, OR,
		LT, GT, EQ, NOT_EQ, LE, GE, ARROW, FATARROW:
		return CategoryOperator
	case COMMA, SEMICOLON, COLON, DOT, LPAREN, RPAREN, LBRACE, RBRACE:
		return CategoryPunct
	case EOF:
		return CategoryEOF
	default:
		return CategoryIllegal
	}
}

// Describe renders the token the way diagnostics quote it.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case STRING:
		return fmt.Sprintf("string %q", t.Literal)
	default:
		return "'" + t.Literal + "'"
	}
}

// Spelling returns the fixed source text of keyword, operator and punctuation
// token types, and "" for types whose text varies.
func (tt TokenType) Spelling() string {
	switch tt.Category() {
	case CategoryKeyword, CategoryBoolean:
		for word, kw := range keywords {
			if kw == tt {
				return word
			}
		}
		return ""
	case CategoryOperator, CategoryPunct:
		return string(tt)
	default:
		return ""
	}
}
