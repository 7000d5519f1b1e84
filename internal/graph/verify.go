package graph

import (
	"errors"
	"fmt"
	"slices"
)

// Verify checks the structural invariants of a linked graph:
//   - no block both merges (2+ predecessors) and splits (2+ successors)
//   - predecessor and successor lists mirror each other
//   - a terminator is always the last node of its block
//   - blocks with successors end in a control node
//   - control anchors live in the same block as the node
//   - every input is defined before its use, in a dominating block
//
// Unreachable blocks are only checked for shape.
func (g *Graph) Verify() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	inGraph := make(map[*Block]bool, len(g.Blocks))
	for _, b := range g.Blocks {
		inGraph[b] = true
	}

	for _, b := range g.Blocks {
		if len(b.Predecessors) >= 2 && len(b.Successors) >= 2 {
			fail("b%d: merges %d predecessors and splits into %d successors",
				b.ID, len(b.Predecessors), len(b.Successors))
		}

		for _, s := range b.Successors {
			if !inGraph[s] {
				fail("b%d: successor b%d is not in the graph", b.ID, s.ID)
			} else if count(s.Predecessors, b) != count(b.Successors, s) {
				fail("b%d: edge to b%d is not mirrored", b.ID, s.ID)
			}
		}
		for _, p := range b.Predecessors {
			if !inGraph[p] {
				fail("b%d: predecessor b%d is not in the graph", b.ID, p.ID)
			}
		}

		for i, n := range b.Nodes {
			if n.Kind == Terminator && i != len(b.Nodes)-1 {
				fail("i%d (%s): terminator is not the last node of b%d", n.ID, n.Opcode, b.ID)
			}
			if n.Block != b {
				fail("i%d (%s): listed in b%d but owned by another block", n.ID, n.Opcode, b.ID)
			}
			if anchor, ok := n.Control.(*Node); ok && anchor.Block != b {
				fail("i%d (%s): anchored outside of b%d", n.ID, n.Opcode, b.ID)
			}
			if anchor, ok := n.Control.(*Block); ok && anchor != b {
				fail("i%d (%s): anchored to b%d but placed in b%d", n.ID, n.Opcode, anchor.ID, b.ID)
			}
		}

		if len(b.Successors) > 0 {
			if len(b.Nodes) == 0 || !b.Nodes[len(b.Nodes)-1].IsControl() {
				fail("b%d: has successors but does not end in a control node", b.ID)
			}
		}

		if b.Reachable() {
			g.verifyInputs(b, fail)
		}
	}

	return errors.Join(errs...)
}

func (g *Graph) verifyInputs(b *Block, fail func(string, ...any)) {
	for i, n := range b.Nodes {
		for _, in := range n.Inputs {
			def := in.Block
			switch {
			case def == nil:
				fail("i%d (%s): input i%d was removed", n.ID, n.Opcode, in.ID)
			case def == b:
				if slices.Index(b.Nodes, in) > i {
					fail("i%d (%s): input i%d is defined later in b%d", n.ID, n.Opcode, in.ID, b.ID)
				}
			case !def.Dominates(b):
				fail("i%d (%s): input i%d from b%d does not dominate b%d", n.ID, n.Opcode, in.ID, def.ID, b.ID)
			}
		}
	}
}

func count(blocks []*Block, target *Block) int {
	n := 0
	for _, b := range blocks {
		if b == target {
			n++
		}
	}
	return n
}
