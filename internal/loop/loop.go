// Package loop tracks the enclosing loops of a statement while a function
// body is translated, and routes break and continue edges once a loop body
// is complete.
package loop

import "github.com/indutny/wasm-cfg/internal/graph"

// Kind distinguishes where continue edges land
type Kind uint8

const (
	// Forever loops continue at their header
	Forever Kind = iota
	// PostTested loops continue at the block that re-evaluates the test
	PostTested
)

// Context is one active loop. Breaks and continues are collected as
// detached blocks and only wired once the loop body is finished.
type Context struct {
	Parent    *Context
	Kind      Kind
	Header    *graph.Block
	Breaks    []*graph.Block
	Continues []*graph.Block
}

// CreateBreak creates a detached break target block
func (c *Context) CreateBreak(g *graph.Graph) *graph.Block {
	b := g.CreateBlock()
	c.Breaks = append(c.Breaks, b)
	return b
}

// CreateContinue creates a detached continue target block
func (c *Context) CreateContinue(g *graph.Graph) *graph.Block {
	b := g.CreateBlock()
	c.Continues = append(c.Continues, b)
	return b
}

// RouteBreak produces the block where control resumes after the loop.
// from, the fall-through block, may be nil. Without from and without any
// break the loop never exits and a fresh unreachable block is returned.
func (c *Context) RouteBreak(g *graph.Graph, from *graph.Block) *graph.Block {
	blocks := make([]*graph.Block, 0, len(c.Breaks)+1)
	if from != nil {
		blocks = append(blocks, from)
	}
	blocks = append(blocks, c.Breaks...)

	if len(blocks) == 0 {
		return g.Block()
	}
	return Chain(g, blocks)
}

// RouteContinue wires from and every continue block into to
func (c *Context) RouteContinue(g *graph.Graph, from, to *graph.Block) {
	blocks := make([]*graph.Block, 0, len(c.Continues)+2)
	if from != nil {
		blocks = append(blocks, from)
	}
	blocks = append(blocks, c.Continues...)
	blocks = append(blocks, to)
	Chain(g, blocks)
}

// Chain terminates every block but the last with a jump to its successor
// in the list, makes the last block current and returns it. Each link adds
// one predecessor to the next block, so no block in the chain ever merges
// more than two edges.
func Chain(g *graph.Graph, blocks []*graph.Block) *graph.Block {
	for i := 0; i < len(blocks)-1; i++ {
		g.SetCurrentBlock(blocks[i])
		g.Jump(blocks[i+1])
	}
	last := blocks[len(blocks)-1]
	g.SetCurrentBlock(last)
	return last
}

// Stack is the chain of loops enclosing the current statement
type Stack struct {
	top *Context
}

// Push enters a loop whose body starts at header
func (s *Stack) Push(kind Kind, header *graph.Block) *Context {
	s.top = &Context{Parent: s.top, Kind: kind, Header: header}
	return s.top
}

// Pop leaves the innermost loop
func (s *Stack) Pop() *Context {
	c := s.top
	if c != nil {
		s.top = c.Parent
	}
	return c
}

// Top returns the innermost loop, or nil outside of loops
func (s *Stack) Top() *Context {
	return s.top
}

// IsHeader reports whether b is the header of any active loop. A header
// still waits for its back-edge, so it must be treated as a merge point.
func (s *Stack) IsHeader(b *graph.Block) bool {
	for c := s.top; c != nil; c = c.Parent {
		if c.Header == b {
			return true
		}
	}
	return false
}
