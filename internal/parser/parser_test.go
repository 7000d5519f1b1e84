package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/types"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, errs := ParseSource("test.wc", src)
	require.Empty(t, errs)
	require.NotNil(t, program)
	return program
}

func codes(errs []errors.CompilerError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestParamsAndBuiltins(t *testing.T) {
	program := mustParse(t, `i64 op(i64 a, i64 b) { return i64.add(a, b); }`)
	require.Len(t, program.Functions, 1)

	fn := program.Functions[0]
	assert.Equal(t, "op", fn.Name)
	assert.Equal(t, types.I64, fn.Result)
	assert.Equal(t, 0, fn.LocalCount)

	ret := fn.Body[0].(*ast.ReturnStatement)
	add := ret.Argument.(*ast.BuiltinExpr)
	assert.Equal(t, types.I64, add.Type)
	assert.Equal(t, "add", add.Method)
	assert.Equal(t, 1, add.Arguments[1].(*ast.ParamRef).Index)
}

func TestLocalsGetUniqueSlots(t *testing.T) {
	program := mustParse(t, `
i64 f(i64 a) {
  i64 x = a;
  {
    i64 x = x;
    x = a;
  }
  i32 y;
  return x;
}`)

	fn := program.Functions[0]
	assert.Equal(t, 3, fn.LocalCount)

	outer := fn.Body[0].(*ast.LocalDeclaration)
	assert.Equal(t, 0, outer.Index)
	assert.IsType(t, &ast.ParamRef{}, outer.Init)

	block := fn.Body[1].(*ast.BlockStatement)
	inner := block.Body[0].(*ast.LocalDeclaration)
	assert.Equal(t, 1, inner.Index)
	assert.Equal(t, 0, inner.Init.(*ast.LocalRef).Index, "initializer sees the outer binding")

	assign := block.Body[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpr)
	assert.Equal(t, 1, assign.Index)

	y := fn.Body[2].(*ast.LocalDeclaration)
	assert.Equal(t, 2, y.Index)
	assert.Equal(t, types.I32, y.Type)

	ret := fn.Body[3].(*ast.ReturnStatement)
	assert.Equal(t, 0, ret.Argument.(*ast.LocalRef).Index, "inner binding is out of scope")
}

func TestForwardCallsAndImports(t *testing.T) {
	program := mustParse(t, `
i64 a(i64 x) { return b(x); }
i64 b(i64 x) { env::print_i64(x); return a(x); }`)

	first := program.Functions[0].Body[0].(*ast.ReturnStatement).Argument.(*ast.CallExpr)
	assert.Equal(t, &ast.FunctionRef{Index: 1, Name: "b"}, first.Callee)

	stmt := program.Functions[1].Body[0].(*ast.ExpressionStatement)
	imp := stmt.Expression.(*ast.CallExpr)
	assert.Equal(t, &ast.ImportRef{Module: "env", Name: "print_i64"}, imp.Callee)
}

func TestSequencesAndLiterals(t *testing.T) {
	program := mustParse(t, `
f64 f(i64 a) {
  i64 x;
  (x = a, i64.const(0x10));
  (a);
  return f64.const(1.5e3);
}`)

	body := program.Functions[0].Body
	seq := body[1].(*ast.ExpressionStatement).Expression.(*ast.SequenceExpr)
	require.Len(t, seq.Expressions, 2)
	lit := seq.Expressions[1].(*ast.BuiltinExpr).Arguments[0].(*ast.LiteralExpr)
	assert.Equal(t, int64(16), lit.Value)

	single := body[2].(*ast.ExpressionStatement).Expression
	assert.IsType(t, &ast.ParamRef{}, single, "single element parentheses are unwrapped")

	ret := body[3].(*ast.ReturnStatement).Argument.(*ast.BuiltinExpr)
	assert.Equal(t, 1500.0, ret.Arguments[0].(*ast.LiteralExpr).Value)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"0", int64(0)},
		{"-12", int64(-12)},
		{"010", int64(10)},
		{"0xff", int64(255)},
		{"-0x10", int64(-16)},
		{"18446744073709551615", uint64(18446744073709551615)},
		{"2.5", 2.5},
		{"1e3", 1000.0},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, err := parseNumber("-99999999999999999999")
	assert.Error(t, err)
}

func TestConversionMethodName(t *testing.T) {
	program := mustParse(t, `i32 f(i64 a) { return i32.wrap/i64(a); }`)
	ret := program.Functions[0].Body[0].(*ast.ReturnStatement)
	assert.Equal(t, "wrap/i64", ret.Argument.(*ast.BuiltinExpr).Method)
}

func TestControlStatements(t *testing.T) {
	program := mustParse(t, `
void f(i32 c) {
  forever {
    if (c) break; else continue;
  }
  do {} while (c);
}`)

	body := program.Functions[0].Body
	loop := body[0].(*ast.ForeverStatement)
	ifStmt := loop.Body.(*ast.BlockStatement).Body[0].(*ast.IfStatement)
	assert.IsType(t, &ast.BreakStatement{}, ifStmt.Consequent)
	assert.IsType(t, &ast.ContinueStatement{}, ifStmt.Alternate)

	doWhile := body[1].(*ast.DoWhileStatement)
	assert.IsType(t, &ast.ParamRef{}, doWhile.Test)
}

func TestResolutionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unknown type", `u256 f() {}`, errors.ErrorUnknownType},
		{"unknown builtin family", `void f() { bool.const(1); }`, errors.ErrorUnknownType},
		{"undefined variable", `i64 f(i64 count) { return conut; }`, errors.ErrorUndefinedName},
		{"undefined function", `void f() { g(); }`, errors.ErrorUndefinedName},
		{"duplicate function", `void f() {} void f() {}`, errors.ErrorDuplicateFunction},
		{"duplicate param", `void f(i32 a, i32 a) {}`, errors.ErrorDuplicateParam},
		{"assign to param", `void f(i32 a) { a = a; }`, errors.ErrorAssignToParam},
		{"void local", `void f() { void x; }`, errors.ErrorVoidSlot},
		{"void param", `void f(void x) {}`, errors.ErrorVoidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseSource("test.wc", tt.src)
			require.NotEmpty(t, errs)
			assert.Contains(t, codes(errs), tt.code)
		})
	}
}

func TestUndefinedVariableSuggestion(t *testing.T) {
	_, errs := ParseSource("test.wc", `i64 f(i64 count) { return conut; }`)
	require.Len(t, errs, 1)
	require.NotEmpty(t, errs[0].Suggestions)
	assert.Contains(t, errs[0].Suggestions[0].Message, "count")
	assert.Equal(t, 1, errs[0].Position.Line)
}

func TestSyntaxError(t *testing.T) {
	program, errs := ParseSource("test.wc", "i64 f() {\n  return i64.add(;\n}")
	assert.Nil(t, program)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorSyntax, errs[0].Code)
	assert.Equal(t, 2, errs[0].Position.Line)
}
