package ast

import "github.com/io-lang/io-lang/internal/lexer"

// Pattern represents a match pattern node.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern represents the `_` wildcard. It matches anything and binds
// nothing.
type WildcardPattern struct {
	span lexer.Span
}

// NewWildcardPattern constructs a wildcard pattern.
func NewWildcardPattern(span lexer.Span) *WildcardPattern {
	return &WildcardPattern{span: span}
}

// Span returns the wildcard span.
func (p *WildcardPattern) Span() lexer.Span { return p.span }

func (*WildcardPattern) patternNode() {}

// VarPattern binds the scrutinee to Name.
type VarPattern struct {
	Name *Ident
	span lexer.Span
}

// NewVarPattern constructs a binding pattern.
func NewVarPattern(name *Ident, span lexer.Span) *VarPattern {
	return &VarPattern{Name: name, span: span}
}

// Span returns the binding span.
func (p *VarPattern) Span() lexer.Span { return p.span }

func (*VarPattern) patternNode() {}

// LiteralPattern matches a literal value. Value is one of *IntegerLit,
// *FloatLit, *StringLit or *BoolLit; a negative number is folded into the
// literal rather than kept as a UnaryExpr.
type LiteralPattern struct {
	Value Expr
	span  lexer.Span
}

// NewLiteralPattern constructs a literal pattern.
func NewLiteralPattern(value Expr, span lexer.Span) *LiteralPattern {
	return &LiteralPattern{Value: value, span: span}
}

// Span returns the literal pattern span.
func (p *LiteralPattern) Span() lexer.Span { return p.span }

func (*LiteralPattern) patternNode() {}

// ConstructorPattern represents `Name { field: pat, ... }`.
//
// Field names are checked syntactically and then dropped: Fields holds only
// the sub-patterns, in source order, so they match positionally.
type ConstructorPattern struct {
	Name   *Ident
	Fields []Pattern
	span   lexer.Span
}

// NewConstructorPattern constructs a constructor pattern.
func NewConstructorPattern(name *Ident, fields []Pattern, span lexer.Span) *ConstructorPattern {
	return &ConstructorPattern{Name: name, Fields: fields, span: span}
}

// Span returns the constructor pattern span.
func (p *ConstructorPattern) Span() lexer.Span { return p.span }

func (*ConstructorPattern) patternNode() {}
