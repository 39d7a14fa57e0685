package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/diag"
	"github.com/io-lang/io-lang/internal/lexer"
	"github.com/io-lang/io-lang/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()

	prog, err := parser.ParseProgram(src)
	assertNoError(t, err)

	if prog == nil {
		t.Fatalf("program is nil")
	}
	if err := ast.CheckOwnership(prog); err != nil {
		t.Fatalf("ownership violated: %v", err)
	}
	return prog
}

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
}

func syntaxError(t *testing.T, err error) *parser.SyntaxError {
	t.Helper()

	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *parser.SyntaxError, got %T (%v)", err, err)
	}
	return se
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"a % b / c", "(/ (% a b) c)"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"1 + (2 - 3)", "(+ 1 (- 2 3))"},
		{"a || b && c", "(&& (|| a b) c)"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a == b < c", "(< (== a b) c)"},
		{"1 < 2 == true", "(== (< 1 2) true)"},
		{"a + 1 < b * 2", "(< (+ a 1) (* b 2))"},
		{"x >= 1 && x <= 9", "(&& (>= x 1) (<= x 9))"},
		{"a != b || !c", "(|| (!= a b) (! c))"},
		{"-a.b", "(- (. a b))"},
		{"-a()", "(- (call a))"},
		{"-a * b", "(* (- a) b)"},
		{"!-x", "(! (- x))"},
		{"--x", "(- (- x))"},
		{"a.b.c()", "(call (. (. a b) c))"},
		{"x.y(1)(2)", "(call (call (. x y) 1) 2)"},
		{"f()", "(call f)"},
		{"f(a, b,)", "(call f a b)"},
		{"f(1 + 2, g(x))", "(call f (+ 1 2) (call g x))"},
		{"(f)(x)", "(call f x)"},
		{"1.5", "1.5"},
		{"2.0", "2.0"},
		{`"hi there"`, `"hi there"`},
		{"true && false", "(&& true false)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := parser.ParseExpression(tt.src)
			assertNoError(t, err)

			if got := ast.Sprint(expr); got != tt.want {
				t.Fatalf("ParseExpression(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseBinaryExprShape(t *testing.T) {
	expr, err := parser.ParseExpression("1 + 2 * 3")
	assertNoError(t, err)

	add, ok := expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", expr)
	}
	if add.Op != ast.Add {
		t.Fatalf("expected top-level operator %s, got %s", ast.Add, add.Op)
	}
	if lit, ok := add.Left.(*ast.IntegerLit); !ok || lit.Value != 1 {
		t.Fatalf("expected left operand IntegerLit(1), got %#v", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.Mul {
		t.Fatalf("expected right operand to be a multiplication, got %#v", add.Right)
	}
}

func TestParseLongChainsIteratively(t *testing.T) {
	src := "1" + strings.Repeat(" + 1", 50000)
	expr, err := parser.ParseExpression(src)
	assertNoError(t, err)

	depth := 0
	for e := expr; ; depth++ {
		bin, ok := e.(*ast.BinaryExpr)
		if !ok {
			break
		}
		if _, ok := bin.Right.(*ast.IntegerLit); !ok {
			t.Fatalf("expected a left-leaning tree, found %T on the right", bin.Right)
		}
		e = bin.Left
	}
	if depth != 50000 {
		t.Fatalf("expected 50000 additions, got %d", depth)
	}

	unary := strings.Repeat("-", 10000) + "x"
	if _, err := parser.ParseExpression(unary); err != nil {
		t.Fatalf("long prefix run should parse: %v", err)
	}
}

func TestParseFunctions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "empty params",
			src:  "fn f() { }",
			want: "(program (fn f (params) (block)))",
		},
		{
			name: "trailing comma",
			src:  "fn f(a: int, b: int,) { }",
			want: "(program (fn f (params (a int) (b int)) (block)))",
		},
		{
			name: "async with return type",
			src:  "async fn g() -> int { return 1; }",
			want: "(program (async fn g (params) -> int (block (return 1))))",
		},
		{
			name: "duplicate params accepted",
			src:  "fn h(a: int, a: str) { }",
			want: "(program (fn h (params (a int) (a str)) (block)))",
		},
		{
			name: "several functions",
			src:  "fn a() {}\nfn b() {}\nasync fn c() {}",
			want: "(program (fn a (params) (block)) (fn b (params) (block)) (async fn c (params) (block)))",
		},
		{
			name: "empty program",
			src:  "  // nothing here\n",
			want: "(program)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			if got := ast.Sprint(prog); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseTrailingCommaParams(t *testing.T) {
	prog := parseProgram(t, "fn f(a: int, b: int,) { }")

	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Async {
		t.Fatalf("expected sync function")
	}
	if fn.ReturnType != nil {
		t.Fatalf("expected no return type, got %s", fn.ReturnType.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	for i, want := range []string{"a", "b"} {
		if got := fn.Params[i].Name.Name; got != want {
			t.Fatalf("param %d: expected %q, got %q", i, want, got)
		}
		if got := fn.Params[i].Type.Name; got != "int" {
			t.Fatalf("param %d: expected type int, got %q", i, got)
		}
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let x = 1;", "(let x 1)"},
		{"let x: int = 1 + 2;", "(let x:int (+ 1 2))"},
		{"let y = f(x);", "(let y (call f x))"},
		{"return;", "(return)"},
		{"return a * 2;", "(return (* a 2))"},
		{"f(1);", "(expr (call f 1))"},
		{"io.print(\"x\");", `(expr (call (. io print) "x"))`},
		{"while i < 10 { step(i); }", "(while (< i 10) (block (expr (call step i))))"},
		{"if a { }", "(if a (block))"},
		{"if a { } else { }", "(if a (block) (block))"},
		{"if a { } else if b { } else { }", "(if a (block) (block (if b (block) (block))))"},
		{"if a { } else if b { }", "(if a (block) (block (if b (block))))"},
		{"if a { x; } else if b { y; } else if c { z; }", "(if a (block (expr x)) (block (if b (block (expr y)) (block (if c (block (expr z)))))))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmt, err := parser.ParseStatement(tt.src)
			assertNoError(t, err)

			if got := ast.Sprint(stmt); got != tt.want {
				t.Fatalf("ParseStatement(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseElseIfNesting(t *testing.T) {
	stmt, err := parser.ParseStatement("if a { } else if b { } else { }")
	assertNoError(t, err)

	outer, ok := stmt.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", stmt)
	}
	if id, ok := outer.Cond.(*ast.Ident); !ok || id.Name != "a" {
		t.Fatalf("expected condition a, got %#v", outer.Cond)
	}
	if len(outer.Then.Stmts) != 0 {
		t.Fatalf("expected empty then block")
	}
	if outer.Else == nil || len(outer.Else.Stmts) != 1 {
		t.Fatalf("expected else block with a single statement")
	}
	inner, ok := outer.Else.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected nested *ast.IfStmt, got %T", outer.Else.Stmts[0])
	}
	if id, ok := inner.Cond.(*ast.Ident); !ok || id.Name != "b" {
		t.Fatalf("expected nested condition b, got %#v", inner.Cond)
	}
	if inner.Else == nil || len(inner.Else.Stmts) != 0 {
		t.Fatalf("expected empty final else block")
	}
}

func TestParseLongElseIfChain(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("if c0 { }")
	for i := 0; i < 2000; i++ {
		sb.WriteString(" else if c { }")
	}
	sb.WriteString(" else { }")

	if _, err := parser.ParseStatement(sb.String()); err != nil {
		t.Fatalf("else-if chains should not count towards nesting depth: %v", err)
	}
}

func TestParseMatch(t *testing.T) {
	stmt, err := parser.ParseStatement("match x { 0 => {} 1 => {} _ => {} }")
	assertNoError(t, err)

	m, ok := stmt.(*ast.MatchStmt)
	if !ok {
		t.Fatalf("expected *ast.MatchStmt, got %T", stmt)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Arms))
	}
	for i, want := range []int64{0, 1} {
		lp, ok := m.Arms[i].Pattern.(*ast.LiteralPattern)
		if !ok {
			t.Fatalf("arm %d: expected literal pattern, got %T", i, m.Arms[i].Pattern)
		}
		if lit := lp.Value.(*ast.IntegerLit); lit.Value != want {
			t.Fatalf("arm %d: expected %d, got %d", i, want, lit.Value)
		}
	}
	if _, ok := m.Arms[2].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("arm 2: expected wildcard, got %T", m.Arms[2].Pattern)
	}
	if got, want := ast.Sprint(m), "(match x (arm 0 (block)) (arm 1 (block)) (arm _ (block)))"; got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "binding",
			src:  "match v { n => { return n; } }",
			want: "(match v (arm n (block (return n))))",
		},
		{
			name: "guard",
			src:  "match v { n if n > 0 => { } _ => { } }",
			want: "(match v (arm n (if (> n 0)) (block)) (arm _ (block)))",
		},
		{
			name: "constructor drops field names",
			src:  "match v { Some { value: x } => { } None {} => { } }",
			want: "(match v (arm (Some x) (block)) (arm (None) (block)))",
		},
		{
			name: "nested constructor with trailing comma",
			src:  "match p { Pair { left: Some { v: _ }, right: 3, } => { } }",
			want: "(match p (arm (Pair (Some _) 3) (block)))",
		},
		{
			name: "literals",
			src:  `match v { -1 => { } -2.5 => { } "s" => { } true => { } 1.0 => { } }`,
			want: `(match v (arm -1 (block)) (arm -2.5 (block)) (arm "s" (block)) (arm true (block)) (arm 1.0 (block)))`,
		},
		{
			name: "empty match",
			src:  "match v { }",
			want: "(match v)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseStatement(tt.src)
			assertNoError(t, err)

			if got := ast.Sprint(stmt); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseConstructorPatternFieldsArePositional(t *testing.T) {
	stmt, err := parser.ParseStatement("match v { Point { y: b, x: a } => { } }")
	assertNoError(t, err)

	ctor, ok := stmt.(*ast.MatchStmt).Arms[0].Pattern.(*ast.ConstructorPattern)
	if !ok {
		t.Fatalf("expected constructor pattern")
	}
	if ctor.Name.Name != "Point" {
		t.Fatalf("expected constructor Point, got %s", ctor.Name.Name)
	}
	if len(ctor.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(ctor.Fields))
	}
	for i, want := range []string{"b", "a"} {
		vp, ok := ctor.Fields[i].(*ast.VarPattern)
		if !ok || vp.Name.Name != want {
			t.Fatalf("field %d: expected binding %q, got %#v", i, want, ctor.Fields[i])
		}
	}
}

func TestParseSpans(t *testing.T) {
	src := "fn main() {\n  let x = 1;\n}\n"
	prog, err := parser.ParseProgram(src, parser.WithFilename("main.io"))
	assertNoError(t, err)

	fn := prog.Functions[0]
	if got := fn.Span(); got.Line != 1 || got.Column != 1 || got.Filename != "main.io" {
		t.Fatalf("unexpected function span %+v", got)
	}
	if got := fn.Span().End; got != len([]rune(strings.TrimRight(src, "\n"))) {
		t.Fatalf("expected function span to end at the closing brace, got %d", got)
	}

	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if got := let.Span(); got.Line != 2 || got.Column != 3 {
		t.Fatalf("expected let at 2:3, got %s", got)
	}
	if got := let.Value.Span(); got.Line != 2 || got.Column != 11 {
		t.Fatalf("expected value at 2:11, got %s", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
		code diag.Code
		line int
		col  int
	}{
		{
			name: "missing parameter",
			src:  "fn f( { }",
			msg:  "expected parameter name, found '{'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 7,
		},
		{
			name: "missing parameter type",
			src:  "fn f(a) { }",
			msg:  "expected ':', found ')'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 7,
		},
		{
			name: "unclosed block",
			src:  "fn f() {",
			msg:  "unexpected end of input, expected '}'",
			code: diag.CodeParseUnexpectedEOF,
			line: 1, col: 9,
		},
		{
			name: "missing initializer",
			src:  "fn f() { let x = ; }",
			msg:  "expected expression, found ';'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 18,
		},
		{
			name: "missing semicolon",
			src:  "fn f() { return 1 }",
			msg:  "expected ';', found '}'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 19,
		},
		{
			name: "unmatched paren",
			src:  "fn f() { (1 + 2; }",
			msg:  "expected ')', found ';'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 16,
		},
		{
			name: "top-level let",
			src:  "let x = 1;",
			msg:  "expected function declaration, found 'let'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 1,
		},
		{
			name: "async without fn",
			src:  "async f() {}",
			msg:  "expected 'fn', found 'f'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 7,
		},
		{
			name: "field without name",
			src:  "fn f() { match x { Some { x } => {} } }",
			msg:  "expected ':', found '}'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 29,
		},
		{
			name: "negative non-number pattern",
			src:  "fn f() { match x { - a => {} } }",
			msg:  "expected numeric literal, found 'a'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 22,
		},
		{
			name: "arm without arrow",
			src:  "fn f() { match x { 1 {} } }",
			msg:  "expected '=>', found '{'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 22,
		},
		{
			name: "member name must be an identifier",
			src:  "fn f() { a.1; }",
			msg:  "expected identifier, found '1'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 12,
		},
		{
			name: "stray closing brace",
			src:  "fn f() { } }",
			msg:  "expected function declaration, found '}'",
			code: diag.CodeParseUnexpectedToken,
			line: 1, col: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.ParseProgram(tt.src)
			if prog != nil {
				t.Fatalf("expected no program on error, got %s", ast.Sprint(prog))
			}
			se := syntaxError(t, err)
			if se.Message != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, se.Message)
			}
			if se.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, se.Code)
			}
			if se.Span.Line != tt.line || se.Span.Column != tt.col {
				t.Fatalf("expected error at %d:%d, got %s", tt.line, tt.col, se.Span)
			}
		})
	}
}

func TestParseFragmentErrors(t *testing.T) {
	if _, err := parser.ParseExpression("1 2"); err == nil {
		t.Fatalf("expected trailing input to be rejected")
	} else if got := syntaxError(t, err).Message; got != "expected end of input, found '2'" {
		t.Fatalf("unexpected message %q", got)
	}

	if _, err := parser.ParseExpression(""); err == nil {
		t.Fatalf("expected empty expression to be rejected")
	} else if got := syntaxError(t, err).Message; got != "unexpected end of input, expected expression" {
		t.Fatalf("unexpected message %q", got)
	}

	if _, err := parser.ParseStatement("if a {} else"); err == nil {
		t.Fatalf("expected dangling else to be rejected")
	} else if got := syntaxError(t, err).Message; got != "unexpected end of input, expected '{'" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind lexer.LexerErrorKind
	}{
		{"unterminated string", `fn f() { let s = "abc; }`, lexer.ErrUnterminatedString},
		{"single ampersand", "fn f() { a & b; }", lexer.ErrIllegalRune},
		{"unknown rune", "fn f() { a @ b; }", lexer.ErrIllegalRune},
		{"hex literal", "fn f() { return 0x1; }", lexer.ErrMalformedLiteral},
		{"unterminated comment", "fn f() { } /* never closed", lexer.ErrUnterminatedBlockComment},
		{"invalid utf-8 in string", "fn f() { let s = \"a\xffb\"; }", lexer.ErrIllegalRune},
		{"invalid utf-8 byte", "fn f() { a \xff; }", lexer.ErrIllegalRune},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.ParseProgram(tt.src)
			if prog != nil {
				t.Fatalf("expected no program on lexical error")
			}
			var le *lexer.LexerError
			if !errors.As(err, &le) {
				t.Fatalf("expected *lexer.LexerError, got %T (%v)", err, err)
			}
			if le.Kind != tt.kind {
				t.Fatalf("expected kind %d, got %d (%s)", tt.kind, le.Kind, le.Message)
			}
		})
	}
}

func TestParseInvalidUTF8IsNotReplacementChar(t *testing.T) {
	_, err := parser.ParseExpression("\"\xff\"")
	var le *lexer.LexerError
	if !errors.As(err, &le) {
		t.Fatalf("expected *lexer.LexerError, got %T (%v)", err, err)
	}
	if got := err.Error(); got != "1:2: invalid UTF-8 byte 0xff" {
		t.Fatalf("unexpected error %q", got)
	}

	expr, err := parser.ParseExpression("\"\uFFFD\"")
	assertNoError(t, err)
	if got := ast.Sprint(expr); got != "\"\uFFFD\"" {
		t.Fatalf("expected the replacement character to survive, got %s", got)
	}
}

func TestParseNestingLimit(t *testing.T) {
	deep := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)

	_, err := parser.ParseExpression(deep)
	se := syntaxError(t, err)
	if se.Code != diag.CodeParseNestingTooDeep {
		t.Fatalf("expected nesting error, got %s: %s", se.Code, se.Message)
	}

	expr, err := parser.ParseExpression(deep, parser.WithMaxDepth(1000))
	assertNoError(t, err)
	if got := ast.Sprint(expr); got != "1" {
		t.Fatalf("expected grouping to vanish, got %s", got)
	}

	blocks := "fn f() {" + strings.Repeat(" while x {", 300) + strings.Repeat(" }", 300) + " }"
	_, err = parser.ParseProgram(blocks)
	if se := syntaxError(t, err); se.Code != diag.CodeParseNestingTooDeep {
		t.Fatalf("expected nesting error for blocks, got %s", se.Code)
	}

	patterns := "fn f() { match x { " + strings.Repeat("A { a: ", 300) + "_" + strings.Repeat(" }", 300) + " => {} } }"
	_, err = parser.ParseProgram(patterns)
	if se := syntaxError(t, err); se.Code != diag.CodeParseNestingTooDeep {
		t.Fatalf("expected nesting error for patterns, got %s", se.Code)
	}
}

func TestSyntaxErrorDiagnostic(t *testing.T) {
	_, err := parser.ParseProgram("fn f() {", parser.WithFilename("a.io"))
	se := syntaxError(t, err)

	d := se.ToDiagnostic()
	if d.Stage != diag.StageParser {
		t.Fatalf("expected parser stage, got %s", d.Stage)
	}
	if d.Code != diag.CodeParseUnexpectedEOF {
		t.Fatalf("expected EOF code, got %s", d.Code)
	}
	if d.Span.Filename != "a.io" {
		t.Fatalf("expected filename to flow into the diagnostic, got %q", d.Span.Filename)
	}
	if len(d.LabeledSpans) != 1 || d.LabeledSpans[0].Label != "expected '}'" {
		t.Fatalf("expected a primary label, got %#v", d.LabeledSpans)
	}
	if d.Help == "" {
		t.Fatalf("expected help text for truncated input")
	}
	if got := se.Error(); got != "a.io:1:9: unexpected end of input, expected '}'" {
		t.Fatalf("unexpected Error() %q", got)
	}
}

func TestParserReusesFirstError(t *testing.T) {
	p := parser.New("fn f( {")
	_, err1 := p.ParseProgram()
	_, err2 := p.ParseProgram()
	if err1 == nil || err1 != err2 {
		t.Fatalf("expected the same error on repeated calls, got %v and %v", err1, err2)
	}
}
