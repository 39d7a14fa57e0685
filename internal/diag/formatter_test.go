package diag_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/io-lang/io-lang/internal/diag"
)

const formatterSource = "fn f() {\n  return 1 }\n"

func missingSemicolon() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseUnexpectedToken,
		Message:  "expected ';', found '}'",
		Span:     diag.Span{Filename: "a.io", Line: 2, Column: 12, Start: 20, End: 21},
	}
}

func TestFormatterRendersSnippet(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("a.io", formatterSource)

	f.Format(missingSemicolon())

	want := strings.Join([]string{
		"error[PARSE_UNEXPECTED_TOKEN]: expected ';', found '}'",
		" --> a.io:2:12",
		"  |",
		"2 |   return 1 }",
		"  |            ^",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatterLabelsNotesAndHelp(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("a.io", formatterSource)

	d := missingSemicolon()
	d = d.WithPrimarySpan(d.Span, "expected ';'").
		WithNote("statements end with ';'").
		WithHelp("insert ';' after the expression")
	f.Format(d)

	out := buf.String()
	for _, want := range []string{
		"  |            ^ expected ';'\n",
		"  = note: statements end with ';'\n",
		"help: insert ';' after the expression\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatterUnderlinesWholeSpan(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("b.io", "let s = \"é\" @@@;\n")

	f.Format(diag.Diagnostic{
		Code:    diag.CodeLexerIllegalRune,
		Message: "illegal character '@'",
		Span:    diag.Span{Filename: "b.io", Line: 1, Column: 13, Start: 12, End: 15},
	})

	if !strings.Contains(buf.String(), "  |             ^^^\n") {
		t.Fatalf("expected three carets under the runes, got:\n%s", buf.String())
	}
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)

	f.Format(diag.Diagnostic{
		Code:    diag.CodeSourceDecode,
		Message: "cannot decode input",
		Span:    diag.Span{Line: 1, Column: 2},
	})

	want := "error[SOURCE_DECODE]: cannot decode input\n  --> 1:2\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output %q, want %q", got, want)
	}

	buf.Reset()
	f.Format(diag.Diagnostic{Message: "no span at all"})
	if got := buf.String(); got != "error: no span at all\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormatterLoadsSourceFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.io")
	if err := os.WriteFile(path, []byte(formatterSource), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	d := missingSemicolon()
	d.Span.Filename = path
	f.Format(d)

	if !strings.Contains(buf.String(), "2 |   return 1 }\n") {
		t.Fatalf("expected snippet read from disk, got:\n%s", buf.String())
	}

	src, err := f.LoadSource(filepath.Join(dir, "missing.io"))
	if err == nil || src != "" {
		t.Fatalf("expected an error for a missing file, got %q, %v", src, err)
	}
}

func TestFormatterColor(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("a.io", formatterSource)
	f.SetColor(true)

	f.Format(missingSemicolon())

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with colour enabled")
	}

	buf.Reset()
	f.SetColor(false)
	f.Format(missingSemicolon())
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes with colour disabled")
	}
}
