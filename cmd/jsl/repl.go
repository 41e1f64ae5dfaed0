package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/thomasrohde/jsl/pkg/config"
	"github.com/thomasrohde/jsl/pkg/parser"
	"github.com/thomasrohde/jsl/pkg/runtime"
)

const promptCont = "...  "

// lineReader is the part of liner.State the REPL needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

type linerReader struct {
	*liner.State
	historyPath string
}

func newLiner(historyPath string) *linerReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &linerReader{State: ln, historyPath: historyPath}
}

func (l *linerReader) Close() error {
	if l.historyPath != "" {
		if f, err := os.Create(l.historyPath); err == nil {
			_, _ = l.WriteHistory(f)
			_ = f.Close()
		}
	}
	return l.State.Close()
}

// lineWriter remembers whether the last byte written ended a line.
type lineWriter struct {
	w       io.Writer
	midLine bool
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	n, err := lw.w.Write(p)
	if n > 0 {
		lw.midLine = p[n-1] != '\n'
	}
	return n, err
}

// endLine terminates output left without a trailing newline.
func (lw *lineWriter) endLine() {
	if lw.midLine {
		fmt.Fprintln(lw.w)
		lw.midLine = false
	}
}

func runREPL(rt *runtime.Runtime, cfg *config.Config, out *lineWriter, stderr io.Writer, ln lineReader) int {
	defer ln.Close()
	session := rt.NewSession()

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return exitOK
		}

		// ":" alone is the duplicate primitive, so only whole words are commands.
		switch trimmed := strings.TrimSpace(code); trimmed {
		case "":
			continue
		case ":quit":
			return exitOK
		case ":clear":
			session.Stack().Clear()
			continue
		case ":stack":
			fmt.Fprintln(out, session.Stack())
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		err := session.Eval(code, "<repl>")
		out.endLine()
		if err != nil {
			fmt.Fprintln(stderr, "error: "+err.Error())
		}
		fmt.Fprintln(out, session.Stack())
	}
}

// readByParseProbe reads lines until they form a complete program or fail
// with an error more input cannot fix.
func readByParseProbe(ln lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := parser.ParseSource(src, "<repl>"); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
