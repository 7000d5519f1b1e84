package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds entry -> {left, right} -> join
func diamond() (*Graph, []*Block) {
	g := New()
	entry := g.Block()
	g.AddTerminator(OpIf)
	left := g.CreateBlock()
	right := g.CreateBlock()
	entry.Jump(left)
	entry.Jump(right)

	g.SetCurrentBlock(left)
	g.AddTerminator(OpJump)
	g.SetCurrentBlock(right)
	g.AddTerminator(OpJump)
	join := g.Merge(left, right)
	g.AddTerminator(OpExit)
	return g, []*Block{entry, left, right, join}
}

func TestLinkDiamond(t *testing.T) {
	g, blocks := diamond()
	entry, left, right, join := blocks[0], blocks[1], blocks[2], blocks[3]

	require.NoError(t, g.Link())
	assert.Nil(t, entry.Dominator)
	assert.Equal(t, entry, left.Dominator)
	assert.Equal(t, entry, right.Dominator)
	assert.Equal(t, entry, join.Dominator)
	assert.ElementsMatch(t, []*Block{left, right, join}, entry.Dominated)

	assert.True(t, entry.Dominates(join))
	assert.False(t, left.Dominates(join))
	assert.True(t, join.Dominates(join))
}

func TestLinkLoop(t *testing.T) {
	g := New()
	entry := g.Block()
	header := g.CreateBlock()
	body := g.CreateBlock()
	exit := g.CreateBlock()
	entry.Jump(header)
	header.Jump(body)
	body.Jump(header)
	body.Jump(exit)

	require.NoError(t, g.Link())
	assert.Equal(t, entry, header.Dominator)
	assert.Equal(t, header, body.Dominator)
	assert.Equal(t, body, exit.Dominator)
}

func TestLinkLeavesUnreachableBlocks(t *testing.T) {
	g := New()
	entry := g.Block()
	orphan := g.CreateBlock()
	next := g.CreateBlock()
	orphan.Jump(next)
	entry.Jump(next)

	require.NoError(t, g.Link())
	assert.False(t, orphan.Reachable())
	assert.Nil(t, orphan.Dominator)
	assert.Equal(t, entry, next.Dominator)
}

func TestLinkEmptyGraph(t *testing.T) {
	assert.Error(t, New().Link())
}

func TestVerifyAcceptsDiamond(t *testing.T) {
	g, _ := diamond()
	require.NoError(t, g.Link())
	assert.NoError(t, g.Verify())
}

func TestVerifyRejectsXShape(t *testing.T) {
	g := New()
	a := g.Block()
	g.AddTerminator(OpIf)
	b := g.CreateBlock()
	a.Jump(b)
	c := g.CreateBlock()
	a.Jump(c)

	x := g.CreateBlock()
	for _, from := range []*Block{b, c} {
		g.SetCurrentBlock(from)
		g.Jump(x)
	}
	g.SetCurrentBlock(x)
	g.AddTerminator(OpIf)
	x.Jump(g.CreateBlock())
	x.Jump(g.CreateBlock())

	require.NoError(t, g.Link())
	err := g.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merges 2 predecessors and splits into 2 successors")
}

func TestVerifyRejectsNonDominatingInput(t *testing.T) {
	g, blocks := diamond()
	left, join := blocks[1], blocks[3]

	g.SetCurrentBlock(left)
	value := g.Add("i32.const")
	// keep the terminator last
	left.Nodes[0], left.Nodes[1] = left.Nodes[1], left.Nodes[0]

	g.SetCurrentBlock(join)
	use := g.Add("i32.clz", value)
	join.Nodes[0], join.Nodes[1] = use, join.Nodes[0]

	require.NoError(t, g.Link())
	err := g.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not dominate")
}

func TestVerifyRejectsMisplacedTerminator(t *testing.T) {
	g := New()
	g.Block()
	g.AddTerminator(OpExit)
	g.Add("late")

	require.NoError(t, g.Link())
	err := g.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminator is not the last node")
}

func TestPipeline(t *testing.T) {
	g, _ := diamond()
	g.Blocks[0].ID = 7

	require.NoError(t, DefaultPipeline().Run(g))
	assert.Equal(t, 0, g.Blocks[0].ID)

	bad := New()
	err := DefaultPipeline().Run(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link:")
}

func TestPruneUnreachable(t *testing.T) {
	g := New()
	entry := g.Block()
	g.AddTerminator(OpExit)
	orphan := g.CreateBlock()

	p := NewPipeline(LinkPass{}, PruneUnreachablePass{})
	require.NoError(t, p.Run(g))
	assert.Equal(t, []*Block{entry}, g.Blocks)
	assert.NotContains(t, g.Blocks, orphan)
}
