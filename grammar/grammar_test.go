package grammar_test

import (
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indutny/wasm-cfg/grammar"
)

func TestParseFunction(t *testing.T) {
	src := `
// adds two numbers
i64 op(i64 a, i64 b) {
  return i64.add(a, b);
}`

	file, err := grammar.ParseString("op.wc", src)
	require.NoError(t, err)
	require.Len(t, file.Functions, 1)

	fn := file.Functions[0]
	assert.Equal(t, "i64", fn.Result)
	assert.Equal(t, "op", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "i64", fn.Params[1].Type)
	assert.Equal(t, "b", fn.Params[1].Name)
	assert.Equal(t, 3, fn.Pos.Line)

	require.Len(t, fn.Body.Statements, 1)
	ret := fn.Body.Statements[0].Return
	require.NotNil(t, ret)
	builtin := ret.Value.Primary.Builtin
	require.NotNil(t, builtin)
	assert.Equal(t, "i64", builtin.Type)
	assert.Equal(t, "add", builtin.MethodName())
	assert.Len(t, builtin.Args, 2)
	assert.Equal(t, "a", *builtin.Args[0].Primary.Ident)
}

func TestParseStatements(t *testing.T) {
	src := `
void f(i32 c) {
  i64 x = i64.const(-1);
  x = i64.const(0x10);
  if (c) { break; } else continue;
  forever { return; }
  do { env::print(x); } while (c);
  g(x, (x, c));
  /* block comment */
  f32 y;
  f64 z = f64.convert_s/i32(c);
}`

	file, err := grammar.ParseString("f.wc", src)
	require.NoError(t, err)
	stmts := file.Functions[0].Body.Statements
	require.Len(t, stmts, 8)

	local := stmts[0].Local
	require.NotNil(t, local)
	assert.Equal(t, "x", local.Name)
	assert.Equal(t, "-1", *local.Init.Primary.Builtin.Args[0].Primary.Number)

	assign := stmts[1].Expr.Assign
	require.NotNil(t, assign)
	assert.Equal(t, "x", assign.Target)

	ifStmt := stmts[2].If
	require.NotNil(t, ifStmt)
	assert.True(t, ifStmt.Then.Block.Statements[0].Break)
	assert.True(t, ifStmt.Else.Continue)

	forever := stmts[3].Forever
	require.NotNil(t, forever)
	require.NotNil(t, forever.Body.Block.Statements[0].Return)
	assert.Nil(t, forever.Body.Block.Statements[0].Return.Value)

	doWhile := stmts[4].DoWhile
	require.NotNil(t, doWhile)
	imp := doWhile.Body.Block.Statements[0].Expr.Primary.Import
	require.NotNil(t, imp)
	assert.Equal(t, "env", imp.Module)
	assert.Equal(t, "print", imp.Name)

	call := stmts[5].Expr.Primary.Call
	require.NotNil(t, call)
	assert.Equal(t, "g", call.Name)
	assert.Len(t, call.Args[1].Primary.Sequence, 2)

	assert.Nil(t, stmts[6].Local.Init)

	conv := stmts[7].Local.Init.Primary.Builtin
	assert.Equal(t, "convert_s/i32", conv.MethodName())
}

func TestParseErrorPosition(t *testing.T) {
	_, err := grammar.ParseString("bad.wc", "i64 f() {\n  return i64.add(;\n}")
	require.Error(t, err)

	pe, ok := err.(participle.Error)
	require.True(t, ok, "expected participle.Error, got %T", err)
	assert.Equal(t, 2, pe.Position().Line)
}

func TestParseFileMissing(t *testing.T) {
	_, err := grammar.ParseFile("does-not-exist.wc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
