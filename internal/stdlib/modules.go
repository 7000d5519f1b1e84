// Package stdlib declares the host modules import calls resolve against
// and the resolver the CFG builder consults for them.
package stdlib

import (
	"fmt"
	"sort"

	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/types"
)

// ModuleDefinition is a host module exporting functions to programs
type ModuleDefinition struct {
	Name      string
	Functions []FunctionDefinition
}

// FunctionDefinition is the signature of one exported function
type FunctionDefinition struct {
	Name   string
	Params []types.Type
	Result types.Type
}

// NewFunction creates a function definition
func NewFunction(name string, result types.Type, params ...types.Type) FunctionDefinition {
	return FunctionDefinition{Name: name, Params: params, Result: result}
}

// Signature returns the callable type of the function
func (f FunctionDefinition) Signature() *types.Signature {
	return types.NewSignature(f.Result, f.Params...)
}

// GetStandardModules returns the modules every resolver starts with
func GetStandardModules() []*ModuleDefinition {
	return []*ModuleDefinition{
		{
			Name: "env",
			Functions: []FunctionDefinition{
				NewFunction("print_i32", types.Void, types.I32),
				NewFunction("print_i64", types.Void, types.I64),
				NewFunction("print_f64", types.Void, types.F64),
				NewFunction("abort", types.Void),
			},
		},
		{
			Name: "math",
			Functions: []FunctionDefinition{
				NewFunction("sin", types.F64, types.F64),
				NewFunction("cos", types.F64, types.F64),
				NewFunction("exp", types.F64, types.F64),
				NewFunction("log", types.F64, types.F64),
				NewFunction("pow", types.F64, types.F64, types.F64),
			},
		},
	}
}

type importKey struct {
	module string
	name   string
}

type entry struct {
	index int
	sig   *types.Signature
}

// Resolver maps (module, function) pairs to import indices and signatures.
// Indices follow registration order across all modules.
type Resolver struct {
	entries map[importKey]entry
	modules map[string]bool
}

// NewResolver creates a resolver serving the standard modules and then mods
func NewResolver(mods ...*ModuleDefinition) (*Resolver, error) {
	r := &Resolver{
		entries: make(map[importKey]entry),
		modules: make(map[string]bool),
	}
	for _, mod := range append(GetStandardModules(), mods...) {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds every function of mod. Modules may be split across several
// definitions, but each function may only be declared once.
func (r *Resolver) Register(mod *ModuleDefinition) error {
	for _, fn := range mod.Functions {
		key := importKey{mod.Name, fn.Name}
		if _, exists := r.entries[key]; exists {
			return errors.DuplicateImport(mod.Name, fn.Name)
		}
		r.entries[key] = entry{index: len(r.entries), sig: fn.Signature()}
	}
	r.modules[mod.Name] = true
	return nil
}

// Lookup resolves an import
func (r *Resolver) Lookup(module, name string) (int, *types.Signature, error) {
	e, ok := r.entries[importKey{module, name}]
	if !ok {
		if !r.modules[module] {
			return 0, nil, fmt.Errorf("unknown module '%s'", module)
		}
		return 0, nil, fmt.Errorf("module '%s' has no function '%s'", module, name)
	}
	return e.index, e.sig, nil
}

// Len returns the number of resolvable functions
func (r *Resolver) Len() int {
	return len(r.entries)
}

// Imports lists every resolvable function as "module::name" in index order
func (r *Resolver) Imports() []string {
	out := make([]string, len(r.entries))
	for key, e := range r.entries {
		out[e.index] = key.module + "::" + key.name
	}
	return out
}

// Modules lists the registered module names, sorted
func (r *Resolver) Modules() []string {
	out := make([]string, 0, len(r.modules))
	for name := range r.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
