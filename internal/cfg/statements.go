package cfg

import (
	"fmt"

	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/builtins"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/graph"
	"github.com/indutny/wasm-cfg/internal/loop"
	"github.com/indutny/wasm-cfg/internal/types"
)

func (s *functionState) buildStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := s.buildStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *functionState) buildStatement(stmt ast.Statement) error {
	switch st := stmt.(type) {
	case *ast.BlockStatement:
		return s.buildStatements(st.Body)
	case *ast.ExpressionStatement:
		_, err := s.buildExpression(st.Expression, types.Void)
		return err
	case *ast.ReturnStatement:
		return s.buildReturn(st)
	case *ast.LocalDeclaration:
		return s.buildLocalDeclaration(st)
	case *ast.IfStatement:
		return s.buildIf(st)
	case *ast.ForeverStatement:
		return s.buildForever(st)
	case *ast.DoWhileStatement:
		return s.buildDoWhile(st)
	case *ast.BreakStatement:
		return s.buildBreak(st)
	case *ast.ContinueStatement:
		return s.buildContinue(st)
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

// buildReturn ends the current block with a return and continues in a
// fresh block, which stays unreachable unless something jumps to it
func (s *functionState) buildReturn(st *ast.ReturnStatement) error {
	result := s.sig.Result

	if st.Argument == nil {
		if result != types.Void {
			return errors.EmptyReturn(result, st.Pos)
		}
		s.g.AddControl(opReturn)
	} else {
		if result == types.Void {
			return errors.ReturnFromVoid(st.Pos)
		}
		v, err := s.buildExpression(st.Argument, result)
		if err != nil {
			return err
		}
		s.g.AddControl(result.String()+"."+opReturn, v.node)
	}

	s.exits = append(s.exits, exit{block: s.g.CurrentBlock(), returned: true})
	s.g.Block()
	return nil
}

func (s *functionState) buildLocalDeclaration(st *ast.LocalDeclaration) error {
	if st.Index < 0 || st.Index >= len(s.locals) {
		return errors.UnknownLocal(st.Name, st.Index, st.Pos)
	}
	if prev := s.locals[st.Index]; prev != types.Invalid && prev != st.Type {
		return errors.LocalRedeclared(st.Name, prev, st.Type, st.Pos)
	}
	s.locals[st.Index] = st.Type

	if st.Init == nil {
		return nil
	}
	v, err := s.buildExpression(st.Init, st.Type)
	if err != nil {
		return err
	}
	s.g.Add(opStore, v.node).AddLiteral(st.Index)
	return nil
}

// splitMergePoint moves construction into a fresh block when the current
// one already merges control flow, or will once its loop back-edge is
// added, so that a following branch never makes it both merge and split
func (s *functionState) splitMergePoint() {
	cur := s.g.CurrentBlock()
	if len(cur.Predecessors) < 2 && !s.loops.IsHeader(cur) {
		return
	}
	next := s.g.CreateBlock()
	s.g.Jump(next)
	s.g.SetCurrentBlock(next)
}

// buildTest builds a branch condition, coercing non-bool values
func (s *functionState) buildTest(expr ast.Expr) (*graph.Node, error) {
	v, err := s.buildExpression(expr, types.NonVoid)
	if err != nil {
		return nil, err
	}
	if v.typ == types.Bool {
		return v.node, nil
	}

	key := builtins.Key{Type: v.typ, Method: builtins.Bool}
	if _, ok := s.b.registry.Lookup(key); !ok {
		return nil, errors.UnknownBuiltin(key.String(), expr.NodePos(), nil)
	}
	return s.g.Add(key.String(), v.node), nil
}

func (s *functionState) buildIf(st *ast.IfStatement) error {
	s.splitMergePoint()

	test, err := s.buildTest(st.Test)
	if err != nil {
		return err
	}
	branch := s.g.CurrentBlock()
	s.g.AddTerminator(graph.OpIf, test)

	consequent := s.g.CreateBlock()
	branch.Jump(consequent)
	s.g.SetCurrentBlock(consequent)
	if err := s.buildStatement(st.Consequent); err != nil {
		return err
	}
	consequentTail := s.g.CurrentBlock()

	// The alternate block exists even without an else, so the branch
	// block always has exactly two successors
	alternate := s.g.CreateBlock()
	branch.Jump(alternate)
	s.g.SetCurrentBlock(alternate)
	if st.Alternate != nil {
		if err := s.buildStatement(st.Alternate); err != nil {
			return err
		}
	}
	alternateTail := s.g.CurrentBlock()

	s.join(consequentTail, alternateTail)
	return nil
}

// join terminates both tails with jumps into a new current block
func (s *functionState) join(left, right *graph.Block) {
	s.g.SetCurrentBlock(left)
	s.g.AddTerminator(graph.OpJump)
	s.g.SetCurrentBlock(right)
	s.g.AddTerminator(graph.OpJump)
	s.g.Merge(left, right)
}

// enterLoop jumps into a fresh header block and pushes a loop context
func (s *functionState) enterLoop(kind loop.Kind) *loop.Context {
	header := s.g.CreateBlock()
	s.g.Jump(header)
	s.g.SetCurrentBlock(header)
	return s.loops.Push(kind, header)
}

func (s *functionState) buildForever(st *ast.ForeverStatement) error {
	ctx := s.enterLoop(loop.Forever)
	if err := s.buildStatement(st.Body); err != nil {
		return err
	}

	ctx.RouteContinue(s.g, s.g.CurrentBlock(), ctx.Header)
	s.loops.Pop()
	ctx.RouteBreak(s.g, nil)
	return nil
}

func (s *functionState) buildDoWhile(st *ast.DoWhileStatement) error {
	ctx := s.enterLoop(loop.PostTested)
	if err := s.buildStatement(st.Body); err != nil {
		return err
	}

	retest := s.g.CreateBlock()
	ctx.RouteContinue(s.g, s.g.CurrentBlock(), retest)
	s.loops.Pop()

	s.splitMergePoint()
	test, err := s.buildTest(st.Test)
	if err != nil {
		return err
	}
	branch := s.g.CurrentBlock()
	s.g.AddTerminator(graph.OpIf, test)
	branch.Jump(ctx.Header)
	after := s.g.CreateBlock()
	branch.Jump(after)

	ctx.RouteBreak(s.g, after)
	return nil
}

func (s *functionState) buildBreak(st *ast.BreakStatement) error {
	ctx := s.loops.Top()
	if ctx == nil {
		return errors.OutsideLoop("break", st.Pos)
	}
	s.g.Jump(ctx.CreateBreak(s.g))
	s.g.Block()
	return nil
}

func (s *functionState) buildContinue(st *ast.ContinueStatement) error {
	ctx := s.loops.Top()
	if ctx == nil {
		return errors.OutsideLoop("continue", st.Pos)
	}
	s.g.Jump(ctx.CreateContinue(s.g))
	s.g.Block()
	return nil
}
