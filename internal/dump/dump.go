// Package dump renders a syntax tree for people and other tools.
package dump

import (
	"fmt"
	"io"

	"github.com/kr/pretty"
	"gopkg.in/yaml.v2"

	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/config"
)

// DepthError reports a tree too deep to render as YAML or a Go value. Both
// indent by depth, so their size grows with the square of it.
type DepthError struct {
	Depth int
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("tree depth %d exceeds the limit of %d; use the sexpr format or raise max_depth", e.Depth, e.Limit)
}

// Write renders prog to w in the named format: config.FormatSExpr,
// config.FormatYAML or config.FormatPretty. maxDepth bounds the tree depth
// of the indented formats; zero or less means no bound.
func Write(w io.Writer, prog *ast.Program, format string, maxDepth int) error {
	switch format {
	case config.FormatSExpr:
		return SExpr(w, prog)
	case config.FormatYAML:
		return YAML(w, prog, maxDepth)
	case config.FormatPretty:
		return Pretty(w, prog, maxDepth)
	}
	return fmt.Errorf("unknown format %q", format)
}

func checkDepth(prog *ast.Program, maxDepth int) error {
	if maxDepth <= 0 {
		return nil
	}
	if d := ast.Depth(prog); d > maxDepth {
		return &DepthError{Depth: d, Limit: maxDepth}
	}
	return nil
}

// SExpr writes the canonical S-expression rendering followed by a newline.
func SExpr(w io.Writer, prog *ast.Program) error {
	_, err := io.WriteString(w, ast.Sprint(prog)+"\n")
	return err
}

// Pretty writes the Go value of the tree, unexported fields included.
func Pretty(w io.Writer, prog *ast.Program, maxDepth int) error {
	if err := checkDepth(prog, maxDepth); err != nil {
		return err
	}
	_, err := pretty.Fprintf(w, "%# v\n", prog)
	return err
}

// YAML writes the tree as nested mappings. Every node carries a kind and a
// pos of the form line:column; absent optional parts are left out.
func YAML(w io.Writer, prog *ast.Program, maxDepth int) error {
	if err := checkDepth(prog, maxDepth); err != nil {
		return err
	}
	out, err := yaml.Marshal(Tree(prog))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Tree converts node into ordered YAML mappings, the form YAML marshals.
func Tree(node ast.Node) yaml.MapSlice {
	if node == nil {
		return nil
	}
	sp := node.Span()
	m := yaml.MapSlice{
		{Key: "kind", Value: kind(node)},
		{Key: "pos", Value: fmt.Sprintf("%d:%d", sp.Line, sp.Column)},
	}
	add := func(key string, v interface{}) {
		m = append(m, yaml.MapItem{Key: key, Value: v})
	}

	switch n := node.(type) {
	case *ast.Program:
		fns := make([]yaml.MapSlice, 0, len(n.Functions))
		for _, fn := range n.Functions {
			fns = append(fns, Tree(fn))
		}
		add("functions", fns)

	case *ast.Function:
		add("name", n.Name.Name)
		add("async", n.Async)
		params := make([]yaml.MapSlice, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, Tree(p))
		}
		add("params", params)
		if n.ReturnType != nil {
			add("returns", n.ReturnType.Name)
		}
		add("body", Tree(n.Body))

	case *ast.Param:
		add("name", n.Name.Name)
		add("type", n.Type.Name)

	case *ast.Block:
		stmts := make([]yaml.MapSlice, 0, len(n.Stmts))
		for _, s := range n.Stmts {
			stmts = append(stmts, Tree(s))
		}
		add("stmts", stmts)

	case *ast.LetStmt:
		add("name", n.Name.Name)
		if n.Type != nil {
			add("type", n.Type.Name)
		}
		add("value", Tree(n.Value))

	case *ast.ReturnStmt:
		if n.Value != nil {
			add("value", Tree(n.Value))
		}

	case *ast.IfStmt:
		add("cond", Tree(n.Cond))
		add("then", Tree(n.Then))
		if n.Else != nil {
			add("else", Tree(n.Else))
		}

	case *ast.WhileStmt:
		add("cond", Tree(n.Cond))
		add("body", Tree(n.Body))

	case *ast.ExprStmt:
		add("expr", Tree(n.Expr))

	case *ast.MatchStmt:
		add("subject", Tree(n.Subject))
		arms := make([]yaml.MapSlice, 0, len(n.Arms))
		for _, a := range n.Arms {
			arms = append(arms, Tree(a))
		}
		add("arms", arms)

	case *ast.MatchArm:
		add("pattern", Tree(n.Pattern))
		if n.Guard != nil {
			add("guard", Tree(n.Guard))
		}
		add("body", Tree(n.Body))

	case *ast.BinaryExpr:
		add("op", n.Op.String())
		add("left", Tree(n.Left))
		add("right", Tree(n.Right))

	case *ast.UnaryExpr:
		add("op", n.Op.String())
		add("operand", Tree(n.Operand))

	case *ast.CallExpr:
		add("callee", Tree(n.Callee))
		args := make([]yaml.MapSlice, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, Tree(a))
		}
		add("args", args)

	case *ast.MemberExpr:
		add("target", Tree(n.Target))
		add("member", n.Member.Name)

	case *ast.Ident:
		add("name", n.Name)
	case *ast.IntegerLit:
		add("value", n.Value)
	case *ast.FloatLit:
		add("value", n.Value)
	case *ast.StringLit:
		add("value", n.Value)
	case *ast.BoolLit:
		add("value", n.Value)

	case *ast.VarPattern:
		add("name", n.Name.Name)
	case *ast.LiteralPattern:
		add("value", Tree(n.Value))
	case *ast.ConstructorPattern:
		add("name", n.Name.Name)
		fields := make([]yaml.MapSlice, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, Tree(f))
		}
		add("fields", fields)
	}
	return m
}

func kind(node ast.Node) string {
	switch node.(type) {
	case *ast.Program:
		return "program"
	case *ast.Function:
		return "function"
	case *ast.Param:
		return "param"
	case *ast.Block:
		return "block"
	case *ast.LetStmt:
		return "let"
	case *ast.ReturnStmt:
		return "return"
	case *ast.IfStmt:
		return "if"
	case *ast.WhileStmt:
		return "while"
	case *ast.ExprStmt:
		return "expr"
	case *ast.MatchStmt:
		return "match"
	case *ast.MatchArm:
		return "arm"
	case *ast.BinaryExpr:
		return "binary"
	case *ast.UnaryExpr:
		return "unary"
	case *ast.CallExpr:
		return "call"
	case *ast.MemberExpr:
		return "member"
	case *ast.Ident:
		return "ident"
	case *ast.IntegerLit:
		return "int"
	case *ast.FloatLit:
		return "float"
	case *ast.StringLit:
		return "string"
	case *ast.BoolLit:
		return "bool"
	case *ast.WildcardPattern:
		return "wildcard"
	case *ast.VarPattern:
		return "bind"
	case *ast.LiteralPattern:
		return "literal"
	case *ast.ConstructorPattern:
		return "constructor"
	}
	return fmt.Sprintf("%T", node)
}
