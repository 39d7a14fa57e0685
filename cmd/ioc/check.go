package main

import (
	"flag"
	"fmt"
	"sync"

	"github.com/io-lang/io-lang/internal/ast"
	"github.com/io-lang/io-lang/internal/parser"
	"github.com/io-lang/io-lang/internal/source"
)

// CheckResult is the outcome of parsing a single file.
type CheckResult struct {
	Path    string
	Source  string
	Program *ast.Program
	Err     error
}

// runCheck parses every file on a bounded pool of workers and reports the
// results in argument order.
func (a *app) runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jobs := fs.Int("j", a.cfg.Jobs, "number of files parsed concurrently")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(a.stderr, "Usage: ioc check [-j n] <file>...\n")
		return 2
	}
	if *jobs < 1 {
		fmt.Fprintf(a.stderr, "Error: -j must be positive, got %d\n", *jobs)
		return 2
	}

	results := a.checkAll(fs.Args(), *jobs)

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(a.stdout, "FAIL %s\n", res.Path)
			a.report(res.Path, res.Source, res.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "ok   %s (%d functions)\n", res.Path, len(res.Program.Functions))
	}

	fmt.Fprintf(a.stdout, "\nCheck results: %d total, %d passed, %d failed\n", len(results), len(results)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// checkAll parses paths with at most workers goroutines. results[i] always
// belongs to paths[i].
func (a *app) checkAll(paths []string, workers int) []CheckResult {
	if workers > len(paths) {
		workers = len(paths)
	}
	results := make([]CheckResult, len(paths))
	next := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				results[i] = a.checkFile(paths[i])
			}
		}()
	}
	for i := range paths {
		next <- i
	}
	close(next)
	wg.Wait()
	return results
}

// checkFile reads, decodes and parses one file.
func (a *app) checkFile(path string) CheckResult {
	res := CheckResult{Path: path}
	a.logf("parsing %s", path)

	src, err := source.ReadFile(path, a.cfg.Encoding)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = src

	p := parser.New(src, parser.WithFilename(path), parser.WithMaxDepth(a.cfg.MaxDepth))
	res.Program, res.Err = p.ParseProgram()
	return res
}
