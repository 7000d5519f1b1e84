package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/indutny/wasm-cfg/internal/cfg"
)

const historyFile = ".wasmcfg_history"

// StartInteractive runs the REPL on the terminal with line editing and a
// history file in the user's home directory. ":quit" or EOF ends it.
func StartInteractive(out io.Writer, opts cfg.Options) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(PROMPT)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return
		}
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			return
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit":
			return
		}

		ln.AppendHistory(line)
		fmt.Fprint(out, Eval(line, opts))
	}
}
