// Package graph is the control-flow graph substrate: basic blocks holding
// ordered operation nodes, predecessor/successor edges, control anchoring
// and dominator links.
package graph

import (
	"slices"
	"strconv"
)

// Opcodes the substrate itself emits or understands
const (
	OpJump = "jump"
	OpIf   = "if"
	OpExit = "exit"
)

// Kind classifies how a node takes part in control flow
type Kind uint8

const (
	// Data nodes are pure values, ordered only by their inputs
	Data Kind = iota
	// Control nodes are ordered in their block's control chain
	Control
	// Terminator nodes end a block and decide its successors
	Terminator
)

// Anchor is what a node can be pinned to: a block or a control node
type Anchor interface {
	anchorLabel() string
}

// Node is a single operation
type Node struct {
	ID       int
	Opcode   string
	Kind     Kind
	Inputs   []*Node
	Literals []any
	// Control is the anchor of control nodes and of pinned data nodes
	Control Anchor
	Block   *Block
}

func (n *Node) anchorLabel() string { return "i" + strconv.Itoa(n.ID) }

// AddLiteral appends a literal operand and returns n for chaining
func (n *Node) AddLiteral(value any) *Node {
	n.Literals = append(n.Literals, value)
	return n
}

// IsControl reports whether n takes part in its block's control chain
func (n *Node) IsControl() bool {
	return n.Kind != Data
}

// Block is a basic block
type Block struct {
	ID           int
	Nodes        []*Node
	Predecessors []*Block
	Successors   []*Block

	// Dominator is the immediate dominator, nil for the entry block and
	// for blocks unreachable from it. Set by Link.
	Dominator *Block
	Dominated []*Block

	lastControl *Node
	rpo         int
}

func (b *Block) anchorLabel() string { return "b" + strconv.Itoa(b.ID) }

// Jump adds a control-flow edge from b to to
func (b *Block) Jump(to *Block) {
	b.Successors = append(b.Successors, to)
	to.Predecessors = append(to.Predecessors, b)
}

// LastControl returns the most recent control node of b
func (b *Block) LastControl() *Node {
	return b.lastControl
}

// Terminator returns the terminator of b, if it has one
func (b *Block) Terminator() *Node {
	if len(b.Nodes) == 0 {
		return nil
	}
	last := b.Nodes[len(b.Nodes)-1]
	if last.Kind != Terminator {
		return nil
	}
	return last
}

// Dangling reports whether b is an empty block nothing jumps to
func (b *Block) Dangling() bool {
	return len(b.Nodes) == 0 && len(b.Predecessors) == 0
}

// Dominates reports whether b dominates other. Only meaningful after Link.
func (b *Block) Dominates(other *Block) bool {
	for cur := other; cur != nil; cur = cur.Dominator {
		if cur == b {
			return true
		}
	}
	return false
}

// Graph is a function body under construction
type Graph struct {
	Blocks []*Block

	current   *Block
	nextNode  int
	nextBlock int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{}
}

// Block creates a new block and makes it current
func (g *Graph) Block() *Block {
	b := g.CreateBlock()
	g.current = b
	return b
}

// CreateBlock creates a detached block without changing the current one
func (g *Graph) CreateBlock() *Block {
	b := &Block{ID: g.nextBlock}
	g.nextBlock++
	g.Blocks = append(g.Blocks, b)
	return b
}

// SetCurrentBlock redirects subsequent node creation to b
func (g *Graph) SetCurrentBlock(b *Block) {
	g.current = b
}

// CurrentBlock returns the block nodes are appended to
func (g *Graph) CurrentBlock() *Block {
	return g.current
}

// Entry returns the first block
func (g *Graph) Entry() *Block {
	if len(g.Blocks) == 0 {
		return nil
	}
	return g.Blocks[0]
}

func (g *Graph) newNode(opcode string, kind Kind, inputs []*Node) *Node {
	n := &Node{
		ID:     g.nextNode,
		Opcode: opcode,
		Kind:   kind,
		Inputs: inputs,
		Block:  g.current,
	}
	g.nextNode++
	g.current.Nodes = append(g.current.Nodes, n)
	return n
}

// Add appends a data node to the current block
func (g *Graph) Add(opcode string, inputs ...*Node) *Node {
	return g.newNode(opcode, Data, inputs)
}

// AddPinned appends a data node anchored to a specific block or control node
func (g *Graph) AddPinned(opcode string, anchor Anchor, inputs ...*Node) *Node {
	n := g.newNode(opcode, Data, inputs)
	n.Control = anchor
	return n
}

// AddControl appends a control node. It is anchored to the previous control
// node of the block, or to the block itself when it is the first one.
func (g *Graph) AddControl(opcode string, inputs ...*Node) *Node {
	return g.addChained(opcode, Control, inputs)
}

// AddTerminator appends a node that ends the current block
func (g *Graph) AddTerminator(opcode string, inputs ...*Node) *Node {
	return g.addChained(opcode, Terminator, inputs)
}

func (g *Graph) addChained(opcode string, kind Kind, inputs []*Node) *Node {
	var anchor Anchor = g.current
	if last := g.current.lastControl; last != nil {
		anchor = last
	}
	n := g.newNode(opcode, kind, inputs)
	n.Control = anchor
	g.current.lastControl = n
	return n
}

// Jump terminates the current block with an unconditional jump to target
func (g *Graph) Jump(target *Block) *Node {
	n := g.AddTerminator(OpJump)
	g.current.Jump(target)
	return n
}

// Merge creates a join block reached from both left and right and makes it
// current. The caller is responsible for terminating left and right.
func (g *Graph) Merge(left, right *Block) *Block {
	join := g.CreateBlock()
	left.Jump(join)
	right.Jump(join)
	g.current = join
	return join
}

// Remove deletes a node from its block
func (g *Graph) Remove(n *Node) {
	b := n.Block
	if b == nil {
		return
	}
	b.Nodes = slices.DeleteFunc(b.Nodes, func(m *Node) bool { return m == n })
	n.Block = nil

	if b.lastControl == n {
		b.lastControl = nil
		for i := len(b.Nodes) - 1; i >= 0; i-- {
			if b.Nodes[i].IsControl() {
				b.lastControl = b.Nodes[i]
				break
			}
		}
	}
}

// RemoveBlock deletes a block and every edge touching it
func (g *Graph) RemoveBlock(b *Block) {
	for _, pred := range b.Predecessors {
		pred.Successors = slices.DeleteFunc(pred.Successors, func(s *Block) bool { return s == b })
	}
	for _, succ := range b.Successors {
		succ.Predecessors = slices.DeleteFunc(succ.Predecessors, func(p *Block) bool { return p == b })
	}
	b.Predecessors = nil
	b.Successors = nil
	g.Blocks = slices.DeleteFunc(g.Blocks, func(x *Block) bool { return x == b })
	if g.current == b {
		g.current = nil
	}
}

// Reindex renumbers blocks in list order and nodes in block order
func (g *Graph) Reindex() {
	id := 0
	for i, b := range g.Blocks {
		b.ID = i
		for _, n := range b.Nodes {
			n.ID = id
			id++
		}
	}
	g.nextBlock = len(g.Blocks)
	g.nextNode = id
}

// NodeCount returns the number of nodes in the graph
func (g *Graph) NodeCount() int {
	count := 0
	for _, b := range g.Blocks {
		count += len(b.Nodes)
	}
	return count
}
