package graph

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("wasmcfg.graph")

// Pass is a single whole-graph transformation or check
type Pass interface {
	Name() string
	Description() string
	Apply(g *Graph) error
}

// Pipeline runs passes in order and stops at the first failure
type Pipeline struct {
	passes []Pass
}

// NewPipeline creates a pipeline from passes
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// DefaultPipeline links, renumbers and verifies a finished graph
func DefaultPipeline() *Pipeline {
	return NewPipeline(LinkPass{}, ReindexPass{}, VerifyPass{})
}

// AddPass appends a pass to the pipeline
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Passes returns the passes in execution order
func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run applies every pass to g
func (p *Pipeline) Run(g *Graph) error {
	for _, pass := range p.passes {
		log.Debugf("running %s: %s", pass.Name(), pass.Description())
		if err := pass.Apply(g); err != nil {
			return fmt.Errorf("%s: %w", pass.Name(), err)
		}
	}
	return nil
}

// LinkPass computes dominators
type LinkPass struct{}

func (LinkPass) Name() string         { return "link" }
func (LinkPass) Description() string  { return "computes immediate dominators from the entry block" }
func (LinkPass) Apply(g *Graph) error { return g.Link() }

// ReindexPass renumbers blocks and nodes densely
type ReindexPass struct{}

func (ReindexPass) Name() string        { return "reindex" }
func (ReindexPass) Description() string { return "renumbers blocks and nodes in layout order" }
func (ReindexPass) Apply(g *Graph) error {
	g.Reindex()
	return nil
}

// VerifyPass checks structural invariants
type VerifyPass struct{}

func (VerifyPass) Name() string         { return "verify" }
func (VerifyPass) Description() string  { return "checks block shapes, edges and value dominance" }
func (VerifyPass) Apply(g *Graph) error { return g.Verify() }

// PruneUnreachablePass removes blocks that cannot be reached from the entry.
// It must run after LinkPass.
type PruneUnreachablePass struct{}

func (PruneUnreachablePass) Name() string { return "prune-unreachable" }
func (PruneUnreachablePass) Description() string {
	return "removes blocks the entry block cannot reach"
}
func (PruneUnreachablePass) Apply(g *Graph) error {
	var dead []*Block
	for _, b := range g.Blocks {
		if !b.Reachable() {
			dead = append(dead, b)
		}
	}
	for _, b := range dead {
		g.RemoveBlock(b)
	}
	if len(dead) > 0 {
		log.Debugf("pruned %d unreachable blocks", len(dead))
	}
	return nil
}
