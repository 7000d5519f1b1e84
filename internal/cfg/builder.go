// Package cfg translates the indexed function AST into control-flow graphs
// of typed operations. Locals are kept in explicit slots (ssa:store and
// ssa:load) and memory effects are ordered by threading a hidden state
// value through every effectful operation.
package cfg

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/builtins"
	"github.com/indutny/wasm-cfg/internal/effects"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/graph"
	"github.com/indutny/wasm-cfg/internal/types"
)

var log = commonlog.GetLogger("wasmcfg.cfg")

// Opcodes emitted by the builder in addition to builtin keys
const (
	opState       = "state"
	opStore       = "ssa:store"
	opLoad        = "ssa:load"
	opUpdateState = "updateState"
	opCall        = "call"
	opReturn      = "ret"
	opParam       = "param"
)

// Resolver provides the functions of other modules
type Resolver interface {
	Lookup(module, name string) (index int, sig *types.Signature, err error)
}

// Options configure a Builder
type Options struct {
	// Registry defaults to builtins.Default()
	Registry *builtins.Registry
	// Resolver serves import calls; without one every import fails
	Resolver Resolver
	// Verify runs graph.Verify on every finished function
	Verify bool
}

// Function is the translation result of one AST function
type Function struct {
	Index     int
	Name      string
	Signature *types.Signature
	AST       *ast.Function
	CFG       *graph.Graph
	// Effects is the union of everything the body may do
	Effects effects.Effect
}

func (f *Function) String() string {
	return graph.Print(f.CFG, strconv.Itoa(f.Index))
}

// CallTarget identifies the callee of a call node
type CallTarget struct {
	Import bool
	Index  int
	Name   string
}

func (t CallTarget) String() string {
	if t.Import {
		return "import:" + strconv.Itoa(t.Index)
	}
	return "fn:" + strconv.Itoa(t.Index)
}

// Builder translates programs
type Builder struct {
	opts       Options
	registry   *builtins.Registry
	signatures []*types.Signature
}

// NewBuilder creates a builder
func NewBuilder(opts Options) *Builder {
	registry := opts.Registry
	if registry == nil {
		registry = builtins.Default()
	}
	return &Builder{opts: opts, registry: registry}
}

// Build translates every function of program with a fresh builder
func Build(program *ast.Program, opts Options) ([]*Function, error) {
	return NewBuilder(opts).Build(program)
}

// Build translates every function of program. All signatures are declared
// before any body is built, so calls may target functions defined later.
// The first error aborts the translation.
func (b *Builder) Build(program *ast.Program) ([]*Function, error) {
	if program == nil {
		return nil, errors.MissingProgram()
	}

	b.signatures = make([]*types.Signature, len(program.Functions))
	for i, fn := range program.Functions {
		b.signatures[i] = fn.Signature()
	}

	out := make([]*Function, 0, len(program.Functions))
	for i, fn := range program.Functions {
		f, err := b.buildFunction(i, fn)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (b *Builder) buildFunction(index int, fn *ast.Function) (*Function, error) {
	s := newFunctionState(b, fn, b.signatures[index])
	g := s.g

	g.Block()

	// The machine state lives in the slot after the last local
	state := g.Add(opState)
	initialStore := g.Add(opStore, state).AddLiteral(s.stateSlot)

	for i, p := range fn.Params {
		s.params = append(s.params, g.Add(p.Type.String()+"."+opParam).AddLiteral(i))
	}

	body := g.CreateBlock()
	g.Jump(body)
	g.SetCurrentBlock(body)

	if err := s.buildStatements(fn.Body); err != nil {
		return nil, err
	}
	s.exits = append(s.exits, exit{block: g.CurrentBlock()})
	s.mergeExits()

	if s.effects == effects.None {
		g.Remove(initialStore)
		g.Remove(state)
	}

	g.AddTerminator(graph.OpExit)

	pipeline := graph.NewPipeline(graph.LinkPass{}, graph.ReindexPass{})
	if b.opts.Verify {
		pipeline.AddPass(graph.VerifyPass{})
	}
	if err := pipeline.Run(g); err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}

	log.Debugf("built %s: %d blocks, %d nodes, effects %s", fn.Name, len(g.Blocks), g.NodeCount(), s.effects)

	return &Function{
		Index:     index,
		Name:      fn.Name,
		Signature: s.sig,
		AST:       fn,
		CFG:       g,
		Effects:   s.effects,
	}, nil
}

// familyKeys lists the registered keys of a type family, for suggestions
func (b *Builder) familyKeys(family types.Type) []string {
	var keys []string
	for _, k := range b.registry.Keys() {
		if k.Type == family {
			keys = append(keys, k.String())
		}
	}
	sort.Strings(keys)
	return keys
}

// Render prints every function as a pipeline named by its index
func Render(fns []*Function) string {
	p := graph.NewPrinter()
	for _, fn := range fns {
		p.PrintGraph(fn.CFG, strconv.Itoa(fn.Index))
	}
	return p.String()
}
