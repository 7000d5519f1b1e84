package cfg

import (
	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/effects"
	"github.com/indutny/wasm-cfg/internal/graph"
	"github.com/indutny/wasm-cfg/internal/loop"
	"github.com/indutny/wasm-cfg/internal/types"
)

// exit is a block where control leaves the function body. Blocks that end
// in a return carry no terminator and join the exit path by edge only.
type exit struct {
	block    *graph.Block
	returned bool
}

// functionState is everything that lives for the translation of a single
// function body
type functionState struct {
	b   *Builder
	fn  *ast.Function
	sig *types.Signature
	g   *graph.Graph

	params []*graph.Node
	// locals holds the declared type of every slot, types.Invalid until
	// the declaration is reached
	locals    []types.Type
	stateSlot int
	effects   effects.Effect
	loops     loop.Stack
	exits     []exit
}

func newFunctionState(b *Builder, fn *ast.Function, sig *types.Signature) *functionState {
	return &functionState{
		b:         b,
		fn:        fn,
		sig:       sig,
		g:         graph.New(),
		locals:    make([]types.Type, fn.LocalCount),
		stateSlot: fn.LocalCount,
	}
}

// getState records effect and reads the current machine state
func (s *functionState) getState(effect effects.Effect) *graph.Node {
	s.effects |= effect
	return s.g.Add(opLoad).AddLiteral(s.stateSlot)
}

// updateState records effect and, unless the effect only reads, derives a
// new state from prior after anchor and stores it back into the slot
func (s *functionState) updateState(prior *graph.Node, anchor graph.Anchor, effect effects.Effect) {
	s.effects |= effect
	if !effect.RequiresUpdate() {
		return
	}
	next := s.g.AddPinned(opUpdateState, anchor, prior).AddLiteral(effect)
	s.g.Add(opStore, next).AddLiteral(s.stateSlot)
}

// mergeExits folds every exit into a single block and makes it current.
// Empty blocks nothing jumps to are dropped, unless every exit is one:
// the function then never returns and keeps a single unreachable exit.
func (s *functionState) mergeExits() {
	live := make([]exit, 0, len(s.exits))
	var dangling []*graph.Block
	for _, e := range s.exits {
		if e.block.Dangling() {
			dangling = append(dangling, e.block)
			continue
		}
		live = append(live, e)
	}
	if len(live) == 0 {
		live = append(live, exit{block: dangling[0]})
		dangling = dangling[1:]
	}
	for _, b := range dangling {
		s.g.RemoveBlock(b)
	}

	acc := live[0]
	for _, next := range live[1:] {
		s.leave(acc)
		s.leave(next)
		acc = exit{block: s.g.Merge(acc.block, next.block)}
	}
	s.g.SetCurrentBlock(acc.block)
}

// leave terminates a fall-through exit with a jump
func (s *functionState) leave(e exit) {
	if e.returned {
		return
	}
	s.g.SetCurrentBlock(e.block)
	s.g.AddTerminator(graph.OpJump)
}
