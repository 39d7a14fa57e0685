package ast

import "github.com/io-lang/io-lang/internal/lexer"

// Node represents any AST node with an associated source span.
//
// Every non-leaf node exclusively owns its children: the parser never shares
// a node between two parents and never modifies a node once it has been
// handed to a parent. CheckOwnership verifies the first property.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program represents a parsed translation unit: function declarations only.
type Program struct {
	Functions []*Function
	span      lexer.Span
}

// Span returns the span covering the entire program.
func (p *Program) Span() lexer.Span { return p.span }

// NewProgram constructs a program node.
func NewProgram(fns []*Function, span lexer.Span) *Program {
	return &Program{Functions: fns, span: span}
}

// Function represents a function declaration.
type Function struct {
	Name       *Ident
	Params     []*Param
	ReturnType *Ident // nil when the declaration has no '->' clause
	Body       *Block
	Async      bool
	span       lexer.Span
}

// Span returns the declaration span.
func (d *Function) Span() lexer.Span { return d.span }

// NewFunction constructs a function declaration node.
func NewFunction(name *Ident, params []*Param, returnType *Ident, body *Block, async bool, span lexer.Span) *Function {
	return &Function{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		Async:      async,
		span:       span,
	}
}

// Param represents a function parameter. Both the name and the type name are
// required by the grammar.
type Param struct {
	Name *Ident
	Type *Ident
	span lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a parameter node.
func NewParam(name, typ *Ident, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// Block represents a brace-delimited statement sequence.
type Block struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the block span.
func (b *Block) Span() lexer.Span { return b.span }

// NewBlock constructs a block node.
func NewBlock(stmts []Stmt, span lexer.Span) *Block {
	return &Block{Stmts: stmts, span: span}
}

// LetStmt represents `let name (: Type)? = value;`.
type LetStmt struct {
	Name  *Ident
	Type  *Ident // nil without an annotation
	Value Expr
	span  lexer.Span
}

// Span returns the statement span.
func (s *LetStmt) Span() lexer.Span { return s.span }

// NewLetStmt constructs a let statement node.
func NewLetStmt(name, typ *Ident, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{Name: name, Type: typ, Value: value, span: span}
}

func (*LetStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr // nil for a bare `return;`
	span  lexer.Span
}

// Span returns the statement span.
func (s *ReturnStmt) Span() lexer.Span { return s.span }

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, span: span}
}

func (*ReturnStmt) stmtNode() {}

// IfStmt represents `if cond { ... } else { ... }`. An `else if` is an Else
// block holding a single nested IfStmt.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block // nil without an else clause
	span lexer.Span
}

// Span returns the statement span.
func (s *IfStmt) Span() lexer.Span { return s.span }

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, then, els *Block, span lexer.Span) *IfStmt {
	return &IfStmt{Cond: cond, Then: then, Else: els, span: span}
}

func (*IfStmt) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
	span lexer.Span
}

// Span returns the statement span.
func (s *WhileStmt) Span() lexer.Span { return s.span }

// NewWhileStmt constructs a while statement node.
func NewWhileStmt(cond Expr, body *Block, span lexer.Span) *WhileStmt {
	return &WhileStmt{Cond: cond, Body: body, span: span}
}

func (*WhileStmt) stmtNode() {}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, span: span}
}

func (*ExprStmt) stmtNode() {}

// MatchStmt represents `match subject { arms }`. Arms keep source order;
// consumers evaluate them first-match-wins, falling through on a false guard.
type MatchStmt struct {
	Subject Expr
	Arms    []*MatchArm
	span    lexer.Span
}

// Span returns the statement span.
func (s *MatchStmt) Span() lexer.Span { return s.span }

// NewMatchStmt constructs a match statement node.
func NewMatchStmt(subject Expr, arms []*MatchArm, span lexer.Span) *MatchStmt {
	return &MatchStmt{Subject: subject, Arms: arms, span: span}
}

func (*MatchStmt) stmtNode() {}

// MatchArm represents `pattern (if guard)? => { body }`.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil without a guard
	Body    *Block
	span    lexer.Span
}

// Span returns the arm span.
func (a *MatchArm) Span() lexer.Span { return a.span }

// NewMatchArm constructs a match arm node.
func NewMatchArm(pattern Pattern, guard Expr, body *Block, span lexer.Span) *MatchArm {
	return &MatchArm{Pattern: pattern, Guard: guard, Body: body, span: span}
}

// Ident represents an identifier.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

func (*Ident) exprNode() {}

// IntegerLit represents an integer literal.
type IntegerLit struct {
	Value int64
	span  lexer.Span
}

// Span returns the literal span.
func (l *IntegerLit) Span() lexer.Span { return l.span }

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(value int64, span lexer.Span) *IntegerLit {
	return &IntegerLit{Value: value, span: span}
}

func (*IntegerLit) exprNode() {}

// FloatLit represents a float literal.
type FloatLit struct {
	Value float64
	span  lexer.Span
}

// Span returns the literal span.
func (l *FloatLit) Span() lexer.Span { return l.span }

// NewFloatLit constructs a float literal node.
func NewFloatLit(value float64, span lexer.Span) *FloatLit {
	return &FloatLit{Value: value, span: span}
}

func (*FloatLit) exprNode() {}

// StringLit represents a string literal. Value is the raw text between the
// quotes; no escape processing happens.
type StringLit struct {
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (l *StringLit) Span() lexer.Span { return l.span }

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

func (*StringLit) exprNode() {}

// BoolLit represents `true` or `false`.
type BoolLit struct {
	Value bool
	span  lexer.Span
}

// Span returns the literal span.
func (l *BoolLit) Span() lexer.Span { return l.span }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

func (*BoolLit) exprNode() {}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op BinaryOp, left, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix operation.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	span    lexer.Span
}

// Span returns the expression span.
func (e *UnaryExpr) Span() lexer.Span { return e.span }

// NewUnaryExpr constructs a unary expression node.
func NewUnaryExpr(op UnaryOp, operand Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

func (*UnaryExpr) exprNode() {}

// CallExpr represents a function call.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// NewCallExpr constructs a call expression node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

func (*CallExpr) exprNode() {}

// MemberExpr represents `target.member`.
type MemberExpr struct {
	Target Expr
	Member *Ident
	span   lexer.Span
}

// Span returns the expression span.
func (e *MemberExpr) Span() lexer.Span { return e.span }

// NewMemberExpr constructs a member access node.
func NewMemberExpr(target Expr, member *Ident, span lexer.Span) *MemberExpr {
	return &MemberExpr{Target: target, Member: member, span: span}
}

func (*MemberExpr) exprNode() {}
