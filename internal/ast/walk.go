package ast

// Children returns the direct children of node in source order. Absent
// optional children (a nil Else, Guard or ReturnType) are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}

	switch n := node.(type) {
	case *Program:
		for _, fn := range n.Functions {
			out = append(out, fn)
		}

	case *Function:
		add(n.Name)
		for _, param := range n.Params {
			out = append(out, param)
		}
		if n.ReturnType != nil {
			add(n.ReturnType)
		}
		if n.Body != nil {
			add(n.Body)
		}

	case *Param:
		add(n.Name)
		add(n.Type)

	case *Block:
		for _, stmt := range n.Stmts {
			add(stmt)
		}

	case *LetStmt:
		add(n.Name)
		if n.Type != nil {
			add(n.Type)
		}
		add(n.Value)

	case *ReturnStmt:
		add(n.Value)

	case *IfStmt:
		add(n.Cond)
		if n.Then != nil {
			add(n.Then)
		}
		if n.Else != nil {
			add(n.Else)
		}

	case *WhileStmt:
		add(n.Cond)
		if n.Body != nil {
			add(n.Body)
		}

	case *ExprStmt:
		add(n.Expr)

	case *MatchStmt:
		add(n.Subject)
		for _, arm := range n.Arms {
			out = append(out, arm)
		}

	case *MatchArm:
		add(n.Pattern)
		add(n.Guard)
		if n.Body != nil {
			add(n.Body)
		}

	case *BinaryExpr:
		add(n.Left)
		add(n.Right)

	case *UnaryExpr:
		add(n.Operand)

	case *CallExpr:
		add(n.Callee)
		for _, arg := range n.Args {
			add(arg)
		}

	case *MemberExpr:
		add(n.Target)
		add(n.Member)

	case *VarPattern:
		add(n.Name)

	case *LiteralPattern:
		add(n.Value)

	case *ConstructorPattern:
		add(n.Name)
		for _, field := range n.Fields {
			add(field)
		}
	}

	return out
}

// Walk traverses the AST starting from node in depth-first pre-order, calling
// fn for each node. If fn returns false, Walk stops traversing that branch.
// The traversal keeps its own stack, so tree depth does not grow the Go stack.
func Walk(node Node, fn func(Node) bool) {
	if node == nil {
		return
	}
	stack := []Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		children := Children(n)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Depth returns the number of nodes on the longest path from node down to a
// leaf; a lone leaf has depth 1 and nil has depth 0. Like Walk it keeps its
// own stack.
func Depth(node Node) int {
	if node == nil {
		return 0
	}
	type frame struct {
		node  Node
		depth int
	}
	max := 0
	stack := []frame{{node, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > max {
			max = f.depth
		}
		for _, child := range Children(f.node) {
			stack = append(stack, frame{child, f.depth + 1})
		}
	}
	return max
}
