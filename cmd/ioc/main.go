package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"gitlab.com/variadico/lctime"

	"github.com/io-lang/io-lang/internal/config"
	"github.com/io-lang/io-lang/internal/diag"
	"github.com/io-lang/io-lang/internal/dump"
	"github.com/io-lang/io-lang/internal/lexer"
	"github.com/io-lang/io-lang/internal/parser"
	"github.com/io-lang/io-lang/internal/source"
	"github.com/io-lang/io-lang/internal/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the resolved settings of one invocation.
type app struct {
	cfg     config.Config
	verbose bool
	color   bool
	stdout  io.Writer
	stderr  io.Writer

	logMu sync.Mutex // check workers log concurrently
}

func usage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "Usage: ioc [options] <command> [command options] <file>...\n")
		fmt.Fprintf(w, "\nCommands:\n")
		fmt.Fprintf(w, "  tokens <file>             Print the tokens of an Io source file\n")
		fmt.Fprintf(w, "  parse [-format f] <file>  Print the syntax tree (sexpr, yaml or pretty)\n")
		fmt.Fprintf(w, "  check [-j n] <file>...    Parse files and report the first error in each\n")
		fmt.Fprintf(w, "\nOptions:\n")
		fs.PrintDefaults()
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ioc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(stderr, fs)

	configPath := fs.String("config", "", "configuration file (default "+config.DefaultFile+" if present)")
	encoding := fs.String("encoding", "", "source encoding: auto, utf-8, utf-16le, latin1, ...")
	color := fs.String("color", "", "colour diagnostics: auto, always or never")
	maxDepth := fs.Int("max-depth", 0, "maximum nesting depth accepted by the parser")
	verbose := fs.Bool("v", false, "log progress to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "encoding":
			cfg.Encoding = *encoding
		case "color":
			cfg.Color = *color
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	errFile, _ := stderr.(*os.File)
	a := &app{
		cfg:     cfg,
		verbose: *verbose,
		color:   term.ColorFor(cfg.Color, errFile),
		stdout:  stdout,
		stderr:  stderr,
	}

	command := fs.Arg(0)
	rest := fs.Args()[1:]
	a.logf("ioc %s (encoding %s, max depth %d)", command, cfg.Encoding, cfg.MaxDepth)

	switch command {
	case "tokens":
		return a.runTokens(rest)
	case "parse":
		return a.runParse(rest)
	case "check":
		return a.runCheck(rest)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		fs.Usage()
		return 2
	}
}

// logf writes a timestamped line to stderr in verbose mode.
func (a *app) logf(format string, args ...interface{}) {
	if !a.verbose {
		return
	}
	stamp := lctime.Strftime("%H:%M:%S", time.Now())
	a.logMu.Lock()
	defer a.logMu.Unlock()
	fmt.Fprintf(a.stderr, "[%s] %s\n", stamp, fmt.Sprintf(format, args...))
}

func (a *app) runTokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(a.stderr, "Usage: ioc tokens <file>\n")
		return 2
	}
	path := args[0]

	src, err := source.ReadFile(path, a.cfg.Encoding)
	if err != nil {
		a.report(path, "", err)
		return 1
	}

	l := lexer.New(src)
	l.SetFilename(path)
	toks, err := l.Tokenize()
	if err != nil {
		a.report(path, src, err)
		return 1
	}

	for _, tok := range toks {
		if tok.Type == lexer.EOF {
			break
		}
		lexeme := tok.Literal
		if tok.Type == lexer.STRING {
			lexeme = strconv.Quote(lexeme)
		}
		fmt.Fprintf(a.stdout, "%d:%d %s %s\n", tok.Span.Line, tok.Span.Column, tok.Type, lexeme)
	}
	a.logf("%s: %d tokens", path, len(toks)-1)
	return 0
}

func (a *app) runParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", a.cfg.Format, "output format: sexpr, yaml or pretty")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "Usage: ioc parse [-format sexpr|yaml|pretty] <file>\n")
		return 2
	}
	switch *format {
	case config.FormatSExpr, config.FormatYAML, config.FormatPretty:
	default:
		fmt.Fprintf(a.stderr, "Error: unknown format %q (want sexpr, yaml or pretty)\n", *format)
		return 2
	}
	path := fs.Arg(0)

	res := a.checkFile(path)
	if res.Err != nil {
		a.report(path, res.Source, res.Err)
		return 1
	}
	if err := dump.Write(a.stdout, res.Program, *format, a.cfg.MaxDepth); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// report renders err for the file at path. Structured lexer, parser and
// decoding errors become snippets; anything else is printed as is.
func (a *app) report(path, src string, err error) {
	f := diag.NewFormatter(a.stderr)
	f.SetColor(a.color)
	if src != "" {
		f.AddSource(path, src)
	}

	var lexErr *lexer.LexerError
	var synErr *parser.SyntaxError
	var decErr *source.DecodeError
	switch {
	case errors.As(err, &lexErr):
		f.Format(lexErr.ToDiagnostic())
	case errors.As(err, &synErr):
		f.Format(synErr.ToDiagnostic())
	case errors.As(err, &decErr):
		f.Format(decErr.ToDiagnostic(path))
	default:
		fmt.Fprintf(a.stderr, "error: %v\n", err)
	}
}
