package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
	ansiCyan  = "\x1b[36m"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	w           io.Writer
	color       bool
	sourceCache map[string]string // Cache of source files by filename
}

// NewFormatter creates a new diagnostic formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		w:           w,
		sourceCache: make(map[string]string),
	}
}

// SetColor toggles ANSI colouring of headers, gutters and underlines.
func (f *Formatter) SetColor(on bool) {
	f.color = on
}

// AddSource registers already-decoded text for filename so snippets are
// rendered from it rather than from the raw file on disk.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return code + s + ansiReset
}

// Format writes d in Rust-style format.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	filename := spans[0].Span.Filename
	src, err := f.LoadSource(filename)
	if err != nil || filename == "" {
		f.formatSimple(d)
		return
	}

	f.printHeader(d)
	f.printFileSpans(src, spans)
	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}
	if d.Code != "" {
		severity += "[" + string(d.Code) + "]"
	}
	fmt.Fprintf(f.w, "%s: %s\n", f.paint(ansiBold+ansiRed, severity), f.paint(ansiBold, d.Message))
}

// printFileSpans prints source lines with underlines for spans in one file.
func (f *Formatter) printFileSpans(src string, spans []LabeledSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= len(lines) {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}
	if len(spansByLine) == 0 {
		fmt.Fprintf(f.w, "  %s %s\n", f.paint(ansiBlue, "-->"), spans[0].Span.String())
		return
	}

	startLine := spans[0].Span.Line
	endLine := spans[len(spans)-1].Span.Line
	if endLine > len(lines) {
		endLine = len(lines)
	}
	width := len(fmt.Sprintf("%d", endLine))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(f.w, "%s%s %s\n", pad, f.paint(ansiBlue, "-->"), spans[0].Span.String())
	fmt.Fprintf(f.w, "%s %s\n", pad, f.paint(ansiBlue, "|"))

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		lineSpans, ok := spansByLine[lineNum]
		if !ok {
			continue
		}
		content := strings.TrimRight(lines[lineNum-1], "\r")
		gutter := f.paint(ansiBlue, fmt.Sprintf("%*d |", width, lineNum))
		fmt.Fprintf(f.w, "%s %s\n", gutter, content)
		f.printUnderlines(pad, content, lineSpans)
	}
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
// Columns count runes, matching lexer spans.
func (f *Formatter) printUnderlines(pad, content string, spans []LabeledSpan) {
	runes := []rune(content)
	underline := make([]rune, len(runes)+1)
	for i := range underline {
		underline[i] = ' '
	}

	mark := func(span Span, ch rune) {
		start := span.Column - 1
		if start < 0 {
			start = 0
		}
		n := span.End - span.Start
		if n < 1 {
			n = 1
		}
		for i := start; i < start+n && i < len(underline); i++ {
			if underline[i] == ' ' || ch == '^' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span.Span, '~')
		}
	}
	for _, span := range spans {
		if span.Style != "secondary" {
			mark(span.Span, '^')
		}
	}

	var labels []string
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}

	marks := strings.TrimRight(string(underline), " ")
	line := f.paint(ansiBold+ansiRed, marks)
	if len(labels) > 0 {
		line += " " + strings.Join(labels, "; ")
	}
	fmt.Fprintf(f.w, "%s %s %s\n", pad, f.paint(ansiBlue, "|"), line)
}

// printHelp prints notes, help text and suggestions.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = %s: %s\n", f.paint(ansiBold, "note"), note)
	}

	if d.Help != "" {
		fmt.Fprintf(f.w, "%s: %s\n", f.paint(ansiBold+ansiCyan, "help"), d.Help)
	} else if d.Suggestion != "" {
		fmt.Fprintf(f.w, "%s: %s\n", f.paint(ansiBold+ansiCyan, "help"), d.Suggestion)
	}
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.w, "  %s %s\n", f.paint(ansiBlue, "-->"), d.Span.String())
	}
	f.printHelp(d)
}
