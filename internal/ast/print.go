package ast

import (
	"strconv"
	"strings"
)

// Sprint renders node as a single-line S-expression. Two trees are
// structurally identical exactly when their renderings are equal; spans are
// not part of the output.
//
//	1 + 2 * 3          (+ 1 (* 2 3))
//	-a.b               (- (. a b))
//	f(x)               (call f x)
//	let x: int = 1;    (let x:int 1)
func Sprint(node Node) string {
	var p printer
	p.node(node)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) open(head string) {
	p.sb.WriteByte('(')
	p.sb.WriteString(head)
}

func (p *printer) close() {
	p.sb.WriteByte(')')
}

func (p *printer) space() {
	p.sb.WriteByte(' ')
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case nil:
		p.sb.WriteString("<nil>")

	case *Program:
		p.open("program")
		for _, fn := range n.Functions {
			p.space()
			p.node(fn)
		}
		p.close()

	case *Function:
		if n.Async {
			p.open("async fn ")
		} else {
			p.open("fn ")
		}
		p.ident(n.Name)
		p.sb.WriteString(" (params")
		for _, param := range n.Params {
			p.space()
			p.node(param)
		}
		p.close()
		if n.ReturnType != nil {
			p.sb.WriteString(" -> ")
			p.ident(n.ReturnType)
		}
		p.space()
		p.block(n.Body)
		p.close()

	case *Param:
		p.open("")
		p.ident(n.Name)
		p.space()
		p.ident(n.Type)
		p.close()

	case *Block:
		p.block(n)

	case *LetStmt:
		p.open("let ")
		p.ident(n.Name)
		if n.Type != nil {
			p.sb.WriteByte(':')
			p.ident(n.Type)
		}
		p.space()
		p.node(n.Value)
		p.close()

	case *ReturnStmt:
		p.open("return")
		if n.Value != nil {
			p.space()
			p.node(n.Value)
		}
		p.close()

	case *IfStmt:
		p.open("if ")
		p.node(n.Cond)
		p.space()
		p.block(n.Then)
		if n.Else != nil {
			p.space()
			p.block(n.Else)
		}
		p.close()

	case *WhileStmt:
		p.open("while ")
		p.node(n.Cond)
		p.space()
		p.block(n.Body)
		p.close()

	case *ExprStmt:
		p.open("expr ")
		p.node(n.Expr)
		p.close()

	case *MatchStmt:
		p.open("match ")
		p.node(n.Subject)
		for _, arm := range n.Arms {
			p.space()
			p.node(arm)
		}
		p.close()

	case *MatchArm:
		p.open("arm ")
		p.node(n.Pattern)
		if n.Guard != nil {
			p.sb.WriteString(" (if ")
			p.node(n.Guard)
			p.close()
		}
		p.space()
		p.block(n.Body)
		p.close()

	case *BinaryExpr:
		p.open(n.Op.String())
		p.space()
		p.node(n.Left)
		p.space()
		p.node(n.Right)
		p.close()

	case *UnaryExpr:
		p.open(n.Op.String())
		p.space()
		p.node(n.Operand)
		p.close()

	case *CallExpr:
		p.open("call ")
		p.node(n.Callee)
		for _, arg := range n.Args {
			p.space()
			p.node(arg)
		}
		p.close()

	case *MemberExpr:
		p.open(". ")
		p.node(n.Target)
		p.space()
		p.ident(n.Member)
		p.close()

	case *Ident:
		p.ident(n)

	case *IntegerLit:
		p.sb.WriteString(strconv.FormatInt(n.Value, 10))

	case *FloatLit:
		p.sb.WriteString(FormatFloat(n.Value))

	case *StringLit:
		p.sb.WriteString(strconv.Quote(n.Value))

	case *BoolLit:
		p.sb.WriteString(strconv.FormatBool(n.Value))

	case *WildcardPattern:
		p.sb.WriteByte('_')

	case *VarPattern:
		p.ident(n.Name)

	case *LiteralPattern:
		p.node(n.Value)

	case *ConstructorPattern:
		p.open("")
		p.ident(n.Name)
		for _, field := range n.Fields {
			p.space()
			p.node(field)
		}
		p.close()

	default:
		p.sb.WriteString("<unknown>")
	}
}

func (p *printer) ident(id *Ident) {
	if id == nil {
		p.sb.WriteString("<nil>")
		return
	}
	p.sb.WriteString(id.Name)
}

func (p *printer) block(b *Block) {
	if b == nil {
		p.sb.WriteString("<nil>")
		return
	}
	p.open("block")
	for _, stmt := range b.Stmts {
		p.space()
		p.node(stmt)
	}
	p.close()
}

// FormatFloat renders v so it always reads back as a float literal: whole
// values keep a ".0" suffix.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
