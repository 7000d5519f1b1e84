// Package builtins holds the opcode signature registry: the result type,
// parameter types, effects and control flag of every builtin operation,
// keyed by the operand family type and method name.
package builtins

import (
	"fmt"

	"github.com/indutny/wasm-cfg/internal/effects"
	"github.com/indutny/wasm-cfg/internal/types"
)

// Method names an operation within a type family
type Method string

// Key identifies a builtin. The type is the family the method belongs to,
// which is not always the result type (comparisons yield bool, stores
// yield void).
type Key struct {
	Type   types.Type
	Method Method
}

// String renders the key the way it is spelled in source and in graph
// opcodes: "<type>.<method>"
func (k Key) String() string {
	return k.Type.String() + "." + string(k.Method)
}

// Signature describes a builtin operation
type Signature struct {
	Result  types.Type
	Params  []types.Type
	Effects effects.Effect
	// Control operations are anchored in the control chain of their block
	Control bool
}

// Registry maps keys to signatures
type Registry struct {
	entries map[Key]*Signature
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]*Signature)}
}

// Register adds a signature. Keys must be unique.
func (r *Registry) Register(key Key, sig *Signature) error {
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("duplicate builtin %s", key)
	}
	r.entries[key] = sig
	return nil
}

func (r *Registry) mustRegister(key Key, sig *Signature) {
	if err := r.Register(key, sig); err != nil {
		panic(err)
	}
}

// Lookup returns the signature registered under key
func (r *Registry) Lookup(key Key) (*Signature, bool) {
	sig, ok := r.entries[key]
	return sig, ok
}

// Len returns the number of registered builtins
func (r *Registry) Len() int {
	return len(r.entries)
}

// Keys returns every registered key, in no particular order
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

var defaultRegistry = newDefaultRegistry()

// Default returns the shared registry of all language builtins. It is
// read-only after package initialisation.
func Default() *Registry {
	return defaultRegistry
}
