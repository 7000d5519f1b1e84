package graph

import "fmt"

// Link computes immediate dominators from the entry block using the
// iterative algorithm of Cooper, Harvey and Kennedy. Blocks unreachable
// from the entry are left without a dominator.
func (g *Graph) Link() error {
	entry := g.Entry()
	if entry == nil {
		return fmt.Errorf("graph has no blocks")
	}

	for _, b := range g.Blocks {
		b.Dominator = nil
		b.Dominated = nil
		b.rpo = -1
	}

	order := reversePostorder(entry)
	for i, b := range order {
		b.rpo = i
	}

	idom := make(map[*Block]*Block, len(order))
	idom[entry] = entry

	for changed := true; changed; {
		changed = false
		for _, b := range order[1:] {
			var next *Block
			for _, p := range b.Predecessors {
				if idom[p] == nil {
					continue
				}
				if next == nil {
					next = p
				} else {
					next = intersect(idom, p, next)
				}
			}
			if next != nil && idom[b] != next {
				idom[b] = next
				changed = true
			}
		}
	}

	for _, b := range order[1:] {
		d := idom[b]
		b.Dominator = d
		d.Dominated = append(d.Dominated, b)
	}
	return nil
}

func intersect(idom map[*Block]*Block, a, b *Block) *Block {
	for a != b {
		for a.rpo > b.rpo {
			a = idom[a]
		}
		for b.rpo > a.rpo {
			b = idom[b]
		}
	}
	return a
}

func reversePostorder(entry *Block) []*Block {
	type frame struct {
		block *Block
		next  int
	}

	visited := map[*Block]bool{entry: true}
	stack := []frame{{block: entry}}
	var post []*Block

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.block.Successors) {
			succ := top.block.Successors[top.next]
			top.next++
			if !visited[succ] {
				visited[succ] = true
				stack = append(stack, frame{block: succ})
			}
			continue
		}
		post = append(post, top.block)
		stack = stack[:len(stack)-1]
	}

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// Reachable reports whether b was reached from the entry by the last Link
func (b *Block) Reachable() bool {
	return b.rpo >= 0
}
