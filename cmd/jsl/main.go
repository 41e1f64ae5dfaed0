// Command jsl is the JSL interpreter entry point.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/thomasrohde/jsl/pkg/config"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
	"github.com/thomasrohde/jsl/pkg/evaluator"
	"github.com/thomasrohde/jsl/pkg/formatter"
	"github.com/thomasrohde/jsl/pkg/lexer"
	"github.com/thomasrohde/jsl/pkg/parser"
	"github.com/thomasrohde/jsl/pkg/runtime"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitParse   = 2
	exitRuntime = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	check    bool
	format   bool
	write    bool
	json     bool
	verbose  bool
	maxSteps int64
	repl     bool
	trace    string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jsl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: jsl [flags] <file>")
		fs.PrintDefaults()
	}
	var opts options
	fs.BoolVar(&opts.check, "check", false, "parse the program without running it")
	fs.BoolVar(&opts.format, "fmt", false, "print the program in canonical form")
	fs.BoolVar(&opts.write, "w", false, "with -fmt, rewrite the file in place")
	fs.BoolVar(&opts.json, "json", false, "report diagnostics as JSON")
	fs.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	fs.Int64Var(&opts.maxSteps, "max-steps", -1, "abort after this many statements (0 = unlimited)")
	fs.BoolVar(&opts.repl, "i", false, "start an interactive session")
	fs.StringVar(&opts.trace, "trace", "", "write NDJSON trace events to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if !opts.repl && fs.NArg() < 1 {
		fmt.Fprintln(stderr, "expected jsl file as argument")
		return exitUsage
	}

	cwd, _ := os.Getwd()
	cfg, err := config.Load(cwd)
	if err != nil {
		reportDiag(stderr, diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), nil, ""), opts.json)
		return exitUsage
	}
	if opts.maxSteps >= 0 {
		cfg.MaxSteps = opts.maxSteps
	}
	level := cfg.Level()
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	out := bufio.NewWriter(stdout)
	defer out.Flush()
	replOut := &lineWriter{w: stdout}

	rtOpts := []runtime.Option{
		runtime.WithLogger(logger),
		runtime.WithMaxSteps(cfg.MaxSteps),
	}
	if opts.trace != "" {
		f, err := os.Create(opts.trace)
		if err != nil {
			reportDiag(stderr, diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("could not create trace file: %s", err), nil, ""), opts.json)
			return exitUsage
		}
		defer f.Close()
		rtOpts = append(rtOpts, runtime.WithTrace(traceWriter(f, logger)))
	}
	if opts.repl {
		rt := runtime.New(append(rtOpts, runtime.WithOutput(replOut), runtime.WithRunID("repl"))...)
		return runREPL(rt, cfg, replOut, stderr, newLiner(cfg.HistoryFile))
	}
	rt := runtime.New(append(rtOpts, runtime.WithOutput(out))...)

	file := fs.Arg(0)
	source, filename, ok := readSource(file, stdin)
	if !ok {
		fmt.Fprintln(stderr, "could not read file")
		return exitUsage
	}
	logger.Debug("loaded program", slog.String("file", filename), slog.Int("bytes", len(source)), slog.String("config", cfg.Path))

	switch {
	case opts.check:
		return cmdCheck(rt, source, filename, stdout, stderr, opts)
	case opts.format:
		return cmdFmt(rt, source, filename, out, stderr, opts)
	}

	_, execErr := rt.Run(source, filename)
	if execErr != nil {
		return reportError(stderr, execErr, opts.json)
	}
	return exitOK
}

func cmdCheck(rt *runtime.Runtime, source, filename string, stdout, stderr io.Writer, opts options) int {
	code := exitOK
	for _, d := range rt.Check(source, filename) {
		switch {
		case opts.json:
			fmt.Fprintln(stderr, diagnostics.FormatDiagnostic(d, false))
		case diagnostics.IsWarning(d):
			fmt.Fprintln(stderr, diagnostics.Warning(d))
		default:
			fmt.Fprintln(stderr, diagnostics.Error(d))
		}
		if !diagnostics.IsWarning(d) {
			code = exitParse
		}
	}
	if opts.json && code == exitOK {
		fmt.Fprintln(stdout, "[]")
	}
	return code
}

func cmdFmt(rt *runtime.Runtime, source, filename string, out io.Writer, stderr io.Writer, opts options) int {
	formatted, err := rt.Format(source, filename)
	if err != nil {
		return reportError(stderr, err, opts.json)
	}

	if formatter.HasComments(source) {
		fmt.Fprintln(stderr, "warning: comments are not preserved by the formatter")
	}

	if opts.write && filename != "<stdin>" {
		if err := os.WriteFile(filename, []byte(formatted), 0o644); err != nil {
			reportDiag(stderr, diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("could not write file: %s", err), nil, ""), opts.json)
			return exitUsage
		}
		return exitOK
	}
	fmt.Fprint(out, formatted)
	return exitOK
}

// reportError prints err and returns the exit code for its origin.
func reportError(stderr io.Writer, err error, asJSON bool) int {
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		for _, d := range diagErr.Diagnostics {
			reportDiag(stderr, d, asJSON)
		}
		return exitParse
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		reportDiag(stderr, rtErr.Diagnostic(), asJSON)
		return exitRuntime
	}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		reportDiag(stderr, lexErr.Diag, asJSON)
		return exitParse
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		reportDiag(stderr, parseErr.Diag, asJSON)
		return exitParse
	}
	// Formatting failures have no diagnostic code.
	reportDiag(stderr, diagnostics.MakeDiag(diagnostics.EParse, err.Error(), nil, ""), asJSON)
	return exitParse
}

func reportDiag(stderr io.Writer, d diagnostics.Diagnostic, asJSON bool) {
	if asJSON {
		fmt.Fprintln(stderr, diagnostics.FormatDiagnostic(d, false))
		return
	}
	fmt.Fprintln(stderr, diagnostics.Error(d))
}

func readSource(file string, stdin io.Reader) (string, string, bool) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", false
		}
		return string(data), "<stdin>", true
	}

	source, err := os.ReadFile(file)
	if err != nil {
		return "", "", false
	}
	return string(source), file, true
}

// traceWriter encodes each event as one JSON line. The first write failure
// is logged and later events are dropped.
func traceWriter(w io.Writer, logger *slog.Logger) func(evaluator.TraceEvent) {
	enc := json.NewEncoder(w)
	failed := false
	return func(ev evaluator.TraceEvent) {
		if failed {
			return
		}
		if err := enc.Encode(ev); err != nil {
			failed = true
			logger.Error("trace write failed", slog.Any("error", err))
		}
	}
}
