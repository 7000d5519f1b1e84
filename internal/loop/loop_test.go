package loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indutny/wasm-cfg/internal/graph"
)

func TestChain(t *testing.T) {
	g := graph.New()
	g.Block()
	a := g.CreateBlock()
	b := g.CreateBlock()
	c := g.CreateBlock()

	last := Chain(g, []*graph.Block{a, b, c})
	assert.Equal(t, c, last)
	assert.Equal(t, c, g.CurrentBlock())

	assert.Equal(t, []*graph.Block{b}, a.Successors)
	assert.Equal(t, []*graph.Block{c}, b.Successors)
	assert.Empty(t, c.Successors)
	assert.Equal(t, []*graph.Block{b}, c.Predecessors)

	require.NotNil(t, a.Terminator())
	assert.Equal(t, graph.OpJump, a.Terminator().Opcode)
	assert.Nil(t, c.Terminator())
}

func TestChainSingleBlock(t *testing.T) {
	g := graph.New()
	a := g.Block()
	g.CreateBlock()
	g.SetCurrentBlock(g.Blocks[1])

	assert.Equal(t, a, Chain(g, []*graph.Block{a}))
	assert.Equal(t, a, g.CurrentBlock())
	assert.Empty(t, a.Nodes)
}

func TestRouteBreakWithoutExits(t *testing.T) {
	g := graph.New()
	g.Block()
	var s Stack
	ctx := s.Push(Forever, g.CurrentBlock())

	after := ctx.RouteBreak(g, nil)
	assert.Equal(t, after, g.CurrentBlock())
	assert.True(t, after.Dangling())
	assert.Len(t, g.Blocks, 2)
}

func TestRouteBreakChainsBreaks(t *testing.T) {
	g := graph.New()
	g.Block()
	var s Stack
	ctx := s.Push(Forever, g.CurrentBlock())

	first := ctx.CreateBreak(g)
	second := ctx.CreateBreak(g)

	after := ctx.RouteBreak(g, nil)
	assert.Equal(t, second, after)
	assert.Equal(t, []*graph.Block{second}, first.Successors)
}

func TestRouteBreakWithFallThrough(t *testing.T) {
	g := graph.New()
	g.Block()
	var s Stack
	ctx := s.Push(PostTested, g.CurrentBlock())

	from := g.CreateBlock()
	brk := ctx.CreateBreak(g)

	after := ctx.RouteBreak(g, from)
	assert.Equal(t, brk, after)
	assert.Equal(t, []*graph.Block{brk}, from.Successors)

	only := graph.New()
	only.Block()
	var s2 Stack
	fallthroughOnly := only.CreateBlock()
	assert.Equal(t, fallthroughOnly, s2.Push(Forever, nil).RouteBreak(only, fallthroughOnly))
}

func TestRouteContinue(t *testing.T) {
	g := graph.New()
	pre := g.Block()
	header := g.CreateBlock()
	pre.Jump(header)

	var s Stack
	ctx := s.Push(Forever, header)
	cont := ctx.CreateContinue(g)
	tail := g.CreateBlock()

	ctx.RouteContinue(g, tail, header)
	assert.Equal(t, []*graph.Block{cont}, tail.Successors)
	assert.Equal(t, []*graph.Block{header}, cont.Successors)
	assert.Equal(t, []*graph.Block{pre, cont}, header.Predecessors)
	assert.Equal(t, header, g.CurrentBlock())
}

func TestStack(t *testing.T) {
	g := graph.New()
	outerHeader := g.Block()
	innerHeader := g.CreateBlock()

	var s Stack
	assert.Nil(t, s.Top())
	assert.Nil(t, s.Pop())

	outer := s.Push(Forever, outerHeader)
	inner := s.Push(PostTested, innerHeader)
	assert.Equal(t, inner, s.Top())
	assert.Equal(t, outer, inner.Parent)
	assert.True(t, s.IsHeader(outerHeader))
	assert.True(t, s.IsHeader(innerHeader))

	assert.Equal(t, inner, s.Pop())
	assert.False(t, s.IsHeader(innerHeader))
	assert.Equal(t, outer, s.Pop())
	assert.Nil(t, s.Top())
}
