// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/parser"
)

const PROMPT = ">> "

// Start reads one program per line from in and writes its graphs to out
// until in is exhausted.
func Start(in io.Reader, out io.Writer, opts cfg.Options) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		fmt.Fprint(out, Eval(line, opts))
	}
}

// Eval translates a single line of source and returns the rendered graphs
// or the formatted errors.
func Eval(line string, opts cfg.Options) string {
	reporter := errors.NewErrorReporter("<repl>", line)

	program, errs := parser.ParseSource("<repl>", line)
	if len(errs) > 0 {
		return reporter.FormatErrors(errs)
	}

	fns, err := cfg.Build(program, opts)
	if err != nil {
		var ce errors.CompilerError
		if stderrors.As(err, &ce) {
			return reporter.FormatError(ce)
		}
		return fmt.Sprintf("error: %s\n", err)
	}
	return cfg.Render(fns)
}
