package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/parser"
)

func TestStatsTable(t *testing.T) {
	program, errs := parser.ParseSource("t.wc", `
i32 id(i32 x) { return x; }
void st(addr p) { i32.store(p, i32.const(0)); }
`)
	require.Empty(t, errs)
	fns, err := cfg.Build(program, cfg.Options{})
	require.NoError(t, err)

	data := StatsTable(fns)
	require.Len(t, data, 3)
	assert.Equal(t, "Function", data[0][1])
	assert.Equal(t, []string{"0", "id", "i32 (i32)", "2", "4", "none"}, data[1])
	assert.Equal(t, "store", data[2][5])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.0ms", FormatDuration(2*time.Millisecond))
	assert.Equal(t, "3.0μs", FormatDuration(3*time.Microsecond))
	assert.Equal(t, "12ns", FormatDuration(12))
	assert.Equal(t, "2.00min", FormatDuration(2*time.Minute))
}
