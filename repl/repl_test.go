package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/indutny/wasm-cfg/internal/cfg"
)

func TestEvalRendersGraph(t *testing.T) {
	out := Eval("i32 id(i32 x) { return x; }", cfg.Options{Verify: true})
	assert.Contains(t, out, "pipeline id {")
	assert.Contains(t, out, "i32.ret")
}

func TestEvalReportsErrors(t *testing.T) {
	out := Eval("i32 f() { return i64.const(1); }", cfg.Options{})
	assert.Contains(t, out, "error[")
	assert.Contains(t, out, "<repl>:1:")
}

func TestStartStopsAtEOF(t *testing.T) {
	in := strings.NewReader("void f() { return; }\n\nvoid g() {\n")
	var out bytes.Buffer

	Start(in, &out, cfg.Options{})

	assert.Equal(t, 4, strings.Count(out.String(), PROMPT))
	assert.Contains(t, out.String(), "pipeline f {")
	assert.Contains(t, out.String(), "error[")
}
