package parser

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/indutny/wasm-cfg/grammar"
	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/types"
)

// lowerer converts the concrete syntax tree into the indexed AST,
// collecting every resolution error instead of stopping at the first one
type lowerer struct {
	errors    []errors.CompilerError
	functions map[string]int
	names     []string
	scope     *functionScope
}

func newLowerer() *lowerer {
	return &lowerer{functions: make(map[string]int)}
}

func (l *lowerer) fail(err errors.CompilerError) {
	l.errors = append(l.errors, err)
}

func (l *lowerer) lowerFile(file *grammar.File) *ast.Program {
	// Declare every function first so calls may refer forward
	for i, fn := range file.Functions {
		if _, exists := l.functions[fn.Name]; exists {
			l.fail(errors.DuplicateFunction(fn.Name, convertPos(fn.Pos)))
			continue
		}
		l.functions[fn.Name] = i
		l.names = append(l.names, fn.Name)
	}

	program := &ast.Program{Pos: convertPos(file.Pos)}
	for _, fn := range file.Functions {
		program.Functions = append(program.Functions, l.lowerFunction(fn))
	}
	return program
}

func (l *lowerer) lowerFunction(fn *grammar.Function) *ast.Function {
	out := &ast.Function{
		Pos:    convertPos(fn.Pos),
		EndPos: convertPos(fn.EndPos),
		Name:   fn.Name,
		Result: l.resolveType(fn.Result, fn.Pos),
	}

	l.scope = newFunctionScope()
	for i, p := range fn.Params {
		typ := l.resolveType(p.Type, p.Pos)
		if typ == types.Void {
			l.fail(errors.VoidSlot(p.Name, convertPos(p.Pos)))
		}
		if _, exists := l.scope.params[p.Name]; exists {
			l.fail(errors.DuplicateParam(p.Name, convertPos(p.Pos)))
		} else {
			l.scope.params[p.Name] = i
			l.scope.paramNames = append(l.scope.paramNames, p.Name)
		}
		out.Params = append(out.Params, &ast.Param{Pos: convertPos(p.Pos), Name: p.Name, Type: typ})
	}

	l.scope.push()
	out.Body = l.lowerStatements(fn.Body.Statements)
	l.scope.pop()

	out.LocalCount = l.scope.nextLocal
	l.scope = nil
	return out
}

func (l *lowerer) resolveType(name string, pos lexer.Position) types.Type {
	typ, ok := types.Parse(name)
	if !ok {
		l.fail(errors.UnknownType(name, convertPos(pos)))
		return types.Invalid
	}
	return typ
}

func (l *lowerer) lowerStatements(stmts []*grammar.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, l.lowerStatement(stmt))
	}
	return out
}

func (l *lowerer) lowerStatement(stmt *grammar.Statement) ast.Statement {
	pos := convertPos(stmt.Pos)

	switch {
	case stmt.Block != nil:
		l.scope.push()
		body := l.lowerStatements(stmt.Block.Statements)
		l.scope.pop()
		return &ast.BlockStatement{Pos: pos, Body: body}

	case stmt.If != nil:
		out := &ast.IfStatement{
			Pos:        pos,
			Test:       l.lowerExpr(stmt.If.Test),
			Consequent: l.lowerStatement(stmt.If.Then),
		}
		if stmt.If.Else != nil {
			out.Alternate = l.lowerStatement(stmt.If.Else)
		}
		return out

	case stmt.Forever != nil:
		return &ast.ForeverStatement{Pos: pos, Body: l.lowerStatement(stmt.Forever.Body)}

	case stmt.DoWhile != nil:
		body := l.lowerStatement(stmt.DoWhile.Body)
		return &ast.DoWhileStatement{Pos: pos, Body: body, Test: l.lowerExpr(stmt.DoWhile.Test)}

	case stmt.Break:
		return &ast.BreakStatement{Pos: pos}

	case stmt.Continue:
		return &ast.ContinueStatement{Pos: pos}

	case stmt.Return != nil:
		out := &ast.ReturnStatement{Pos: pos}
		if stmt.Return.Value != nil {
			out.Argument = l.lowerExpr(stmt.Return.Value)
		}
		return out

	case stmt.Local != nil:
		return l.lowerLocal(stmt.Local)

	default:
		return &ast.ExpressionStatement{Pos: pos, Expression: l.lowerExpr(stmt.Expr)}
	}
}

func (l *lowerer) lowerLocal(local *grammar.Local) ast.Statement {
	pos := convertPos(local.Pos)
	typ := l.resolveType(local.Type, local.Pos)
	if typ == types.Void {
		l.fail(errors.VoidSlot(local.Name, pos))
	}

	out := &ast.LocalDeclaration{Pos: pos, Name: local.Name, Type: typ}
	// The initializer is resolved before the name is bound, so it sees
	// any outer binding of the same name
	if local.Init != nil {
		out.Init = l.lowerExpr(local.Init)
	}
	out.Index = l.scope.declare(local.Name, typ)
	return out
}

func (l *lowerer) lowerExpr(expr *grammar.Expr) ast.Expr {
	if expr.Assign != nil {
		return l.lowerAssign(expr.Assign)
	}
	return l.lowerPrimary(expr.Primary)
}

func (l *lowerer) lowerAssign(assign *grammar.Assign) ast.Expr {
	pos := convertPos(assign.Pos)
	value := l.lowerExpr(assign.Value)

	if slot, ok := l.scope.lookupLocal(assign.Target); ok {
		return &ast.AssignExpr{Pos: pos, Index: slot.index, Name: assign.Target, Value: value}
	}
	if _, ok := l.scope.lookupParam(assign.Target); ok {
		l.fail(errors.AssignToParam(assign.Target, pos))
	} else {
		l.fail(errors.UndefinedName("variable", assign.Target, pos, l.scope.visibleNames()))
	}
	return value
}

func (l *lowerer) lowerPrimary(p *grammar.Primary) ast.Expr {
	pos := convertPos(p.Pos)

	switch {
	case p.Builtin != nil:
		b := p.Builtin
		family, ok := types.Parse(b.Type)
		if !ok || !family.IsValue() {
			l.fail(errors.UnknownType(b.Type, convertPos(b.Pos)))
		}
		return &ast.BuiltinExpr{
			Pos:       pos,
			Type:      family,
			Method:    b.MethodName(),
			Arguments: l.lowerArgs(b.Args),
		}

	case p.Import != nil:
		return &ast.CallExpr{
			Pos:       pos,
			Callee:    &ast.ImportRef{Module: p.Import.Module, Name: p.Import.Name},
			Arguments: l.lowerArgs(p.Import.Args),
		}

	case p.Call != nil:
		index, ok := l.functions[p.Call.Name]
		if !ok {
			l.fail(errors.UndefinedName("function", p.Call.Name, pos, l.names))
			index = -1
		}
		return &ast.CallExpr{
			Pos:       pos,
			Callee:    &ast.FunctionRef{Index: index, Name: p.Call.Name},
			Arguments: l.lowerArgs(p.Call.Args),
		}

	case p.Sequence != nil:
		exprs := l.lowerArgs(p.Sequence)
		if len(exprs) == 1 {
			return exprs[0]
		}
		return &ast.SequenceExpr{Pos: pos, Expressions: exprs}

	case p.Number != nil:
		return l.lowerNumber(*p.Number, pos)

	default:
		return l.lowerIdent(*p.Ident, pos)
	}
}

func (l *lowerer) lowerArgs(args []*grammar.Expr) []ast.Expr {
	out := make([]ast.Expr, len(args))
	for i, arg := range args {
		out[i] = l.lowerExpr(arg)
	}
	return out
}

func (l *lowerer) lowerIdent(name string, pos ast.Position) ast.Expr {
	if slot, ok := l.scope.lookupLocal(name); ok {
		return &ast.LocalRef{Pos: pos, Index: slot.index, Name: name}
	}
	if index, ok := l.scope.lookupParam(name); ok {
		return &ast.ParamRef{Pos: pos, Index: index, Name: name}
	}

	l.fail(errors.UndefinedName("variable", name, pos, l.scope.visibleNames()))
	return &ast.LiteralExpr{Pos: pos, Value: int64(0), Raw: name}
}

func (l *lowerer) lowerNumber(raw string, pos ast.Position) ast.Expr {
	value, err := parseNumber(raw)
	if err != nil {
		l.fail(errors.SyntaxError("invalid number literal "+raw+": "+err.Error(), pos))
		return &ast.LiteralExpr{Pos: pos, Value: int64(0), Raw: raw}
	}
	return &ast.LiteralExpr{Pos: pos, Value: value, Raw: raw}
}

// parseNumber decodes a literal into int64, uint64 (for values beyond the
// int64 range) or float64
func parseNumber(raw string) (any, error) {
	digits := strings.TrimPrefix(raw, "-")
	isHex := strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X")

	if !isHex && strings.ContainsAny(digits, ".eE") {
		return strconv.ParseFloat(raw, 64)
	}

	base := 10
	if isHex {
		base = 0
	}
	i, err := strconv.ParseInt(raw, base, 64)
	if err == nil {
		return i, nil
	}
	if stderrors.Is(err, strconv.ErrRange) && raw[0] != '-' {
		return strconv.ParseUint(raw, base, 64)
	}
	return nil, err
}
