package cfg

import (
	"fmt"
	"math"

	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/builtins"
	"github.com/indutny/wasm-cfg/internal/effects"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/graph"
	"github.com/indutny/wasm-cfg/internal/types"
)

// value is a built expression: the node producing it and its static type
type value struct {
	node *graph.Node
	typ  types.Type
}

// buildExpression builds expr so that its result may flow where expected
// is required
func (s *functionState) buildExpression(expr ast.Expr, expected types.Type) (value, error) {
	switch e := expr.(type) {
	case *ast.BuiltinExpr:
		return s.buildBuiltin(e, expected)
	case *ast.ParamRef:
		return s.buildParam(e, expected)
	case *ast.LocalRef:
		return s.buildLocal(e, expected)
	case *ast.AssignExpr:
		return s.buildAssign(e, expected)
	case *ast.SequenceExpr:
		return s.buildSequence(e, expected)
	case *ast.CallExpr:
		return s.buildCall(e, expected)
	case *ast.LiteralExpr:
		return value{}, errors.BareLiteral(e.Raw, e.Pos)
	default:
		return value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (s *functionState) buildParam(e *ast.ParamRef, expected types.Type) (value, error) {
	if e.Index < 0 || e.Index >= len(s.params) {
		return value{}, errors.ParamOutOfRange(e.Index, len(s.params), e.Pos)
	}
	typ := s.sig.Params[e.Index]
	if err := typeCheck(typ, expected, errors.ErrorParamType, e.Pos); err != nil {
		return value{}, err
	}
	return value{node: s.params[e.Index], typ: typ}, nil
}

// localType returns the declared type of slot index
func (s *functionState) localType(index int, name string, pos ast.Position) (types.Type, error) {
	if index < 0 || index >= len(s.locals) || s.locals[index] == types.Invalid {
		return types.Invalid, errors.UnknownLocal(name, index, pos)
	}
	return s.locals[index], nil
}

func (s *functionState) buildLocal(e *ast.LocalRef, expected types.Type) (value, error) {
	typ, err := s.localType(e.Index, e.Name, e.Pos)
	if err != nil {
		return value{}, err
	}
	if err := typeCheck(typ, expected, errors.ErrorLocalType, e.Pos); err != nil {
		return value{}, err
	}
	return value{node: s.g.Add(opLoad).AddLiteral(e.Index), typ: typ}, nil
}

func (s *functionState) buildAssign(e *ast.AssignExpr, expected types.Type) (value, error) {
	typ, err := s.localType(e.Index, e.Name, e.Pos)
	if err != nil {
		return value{}, err
	}
	if err := typeCheck(typ, expected, errors.ErrorLocalType, e.Pos); err != nil {
		return value{}, err
	}
	v, err := s.buildExpression(e.Value, typ)
	if err != nil {
		return value{}, err
	}
	s.g.Add(opStore, v.node).AddLiteral(e.Index)
	return value{node: v.node, typ: typ}, nil
}

func (s *functionState) buildSequence(e *ast.SequenceExpr, expected types.Type) (value, error) {
	if len(e.Expressions) == 0 {
		return value{}, errors.EmptySequence(e.Pos)
	}
	var last value
	for _, sub := range e.Expressions {
		v, err := s.buildExpression(sub, expected)
		if err != nil {
			return value{}, err
		}
		last = v
	}
	return last, nil
}

func (s *functionState) buildBuiltin(e *ast.BuiltinExpr, expected types.Type) (value, error) {
	key := builtins.Key{Type: e.Type, Method: builtins.Method(e.Method)}
	sig, ok := s.b.registry.Lookup(key)
	if !ok {
		return value{}, errors.UnknownBuiltin(key.String(), e.Pos, s.b.familyKeys(e.Type))
	}
	if err := typeCheck(sig.Result, expected, errors.ErrorBuiltinReturnType, e.Pos); err != nil {
		return value{}, err
	}

	if key.Method == builtins.Const {
		return s.buildConst(key, e, sig.Result)
	}

	if len(e.Arguments) != len(sig.Params) {
		return value{}, errors.BuiltinArity(key.String(), len(sig.Params), len(e.Arguments), e.Pos)
	}

	var state *graph.Node
	if sig.Effects != effects.None {
		state = s.getState(sig.Effects)
	}

	inputs := make([]*graph.Node, 0, len(e.Arguments)+1)
	if state != nil {
		inputs = append(inputs, state)
	}
	for i, arg := range e.Arguments {
		v, err := s.buildExpression(arg, sig.Params[i])
		if err != nil {
			return value{}, err
		}
		inputs = append(inputs, v.node)
	}

	var node *graph.Node
	if sig.Control {
		node = s.g.AddControl(key.String(), inputs...)
	} else {
		node = s.g.Add(key.String(), inputs...)
	}

	if state != nil {
		s.updateState(state, node, sig.Effects)
	}
	return value{node: node, typ: sig.Result}, nil
}

// buildConst emits a data node carrying the normalized literal payload
func (s *functionState) buildConst(key builtins.Key, e *ast.BuiltinExpr, result types.Type) (value, error) {
	if len(e.Arguments) != 1 {
		return value{}, errors.ConstArgument(key.String(),
			fmt.Sprintf("expects 1 argument, found %d", len(e.Arguments)), e.Pos)
	}
	lit, ok := e.Arguments[0].(*ast.LiteralExpr)
	if !ok {
		return value{}, errors.ConstArgument(key.String(), "argument is not a literal", e.Arguments[0].NodePos())
	}

	payload, err := normalizeLiteral(result, lit.Value)
	if err != nil {
		return value{}, errors.ConstArgument(key.String(), err.Error(), lit.Pos)
	}
	node := s.g.Add(key.String()).AddLiteral(payload)
	return value{node: node, typ: result}, nil
}

var intRanges = map[types.Type][2]int64{
	types.I8:  {math.MinInt8, math.MaxUint8},
	types.I16: {math.MinInt16, math.MaxUint16},
	types.I32: {math.MinInt32, math.MaxUint32},
}

// normalizeLiteral converts a literal to the payload representation of
// family t. Float families store float64. Integer families keep int64, or
// uint64 for values beyond its range, and accept both the signed and the
// unsigned reading of narrower widths.
func normalizeLiteral(t types.Type, v any) (any, error) {
	if t.IsFloat() {
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		}
		return nil, fmt.Errorf("has unsupported literal %v", v)
	}

	switch n := v.(type) {
	case int64:
		if r, ok := intRanges[t]; ok && (n < r[0] || n > r[1]) {
			return nil, fmt.Errorf("literal %d does not fit %s", n, t)
		}
		return n, nil
	case uint64:
		if t != types.I64 {
			return nil, fmt.Errorf("literal %d does not fit %s", n, t)
		}
		return n, nil
	case float64:
		return nil, fmt.Errorf("takes an integer literal, found %g", n)
	}
	return nil, fmt.Errorf("has unsupported literal %v", v)
}

func (s *functionState) buildCall(e *ast.CallExpr, expected types.Type) (value, error) {
	var (
		target CallTarget
		sig    *types.Signature
	)
	switch callee := e.Callee.(type) {
	case *ast.FunctionRef:
		if callee.Index < 0 || callee.Index >= len(s.b.signatures) {
			return value{}, errors.UnknownFunction(callee.Name, callee.Index, e.Pos)
		}
		target = CallTarget{Index: callee.Index, Name: callee.Name}
		sig = s.b.signatures[callee.Index]
	case *ast.ImportRef:
		if s.b.opts.Resolver == nil {
			return value{}, errors.UnresolvedImport(callee.Module, callee.Name, nil, e.Pos)
		}
		index, resolved, err := s.b.opts.Resolver.Lookup(callee.Module, callee.Name)
		if err != nil {
			return value{}, errors.UnresolvedImport(callee.Module, callee.Name, err, e.Pos)
		}
		target = CallTarget{Import: true, Index: index, Name: callee.Module + "::" + callee.Name}
		sig = resolved
	default:
		return value{}, fmt.Errorf("unsupported callee %T", e.Callee)
	}

	if len(e.Arguments) != len(sig.Params) {
		return value{}, errors.CallArity(target.Name, len(sig.Params), len(e.Arguments), e.Pos)
	}

	state := s.getState(effects.Call)
	inputs := make([]*graph.Node, 0, len(e.Arguments)+1)
	inputs = append(inputs, state)
	for i, arg := range e.Arguments {
		v, err := s.buildExpression(arg, sig.Params[i])
		if err != nil {
			return value{}, err
		}
		inputs = append(inputs, v.node)
	}

	node := s.g.AddControl(opCall, inputs...).AddLiteral(target)
	for _, p := range sig.Params {
		node.AddLiteral(p)
	}
	s.updateState(state, node, effects.Call)

	if err := typeCheck(sig.Result, expected, errors.ErrorCallReturnType, e.Pos); err != nil {
		return value{}, err
	}
	return value{node: node, typ: sig.Result}, nil
}
