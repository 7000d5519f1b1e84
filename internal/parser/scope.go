package parser

import "github.com/indutny/wasm-cfg/internal/types"

type localSlot struct {
	index int
	typ   types.Type
}

// functionScope resolves names inside one function. Locals live in nested
// block scopes; every declaration gets a fresh function-wide slot index.
type functionScope struct {
	params     map[string]int
	paramNames []string
	blocks     []map[string]localSlot
	nextLocal  int
}

func newFunctionScope() *functionScope {
	return &functionScope{params: make(map[string]int)}
}

func (s *functionScope) push() {
	s.blocks = append(s.blocks, make(map[string]localSlot))
}

func (s *functionScope) pop() {
	s.blocks = s.blocks[:len(s.blocks)-1]
}

// declare binds name in the innermost block, shadowing outer bindings
func (s *functionScope) declare(name string, typ types.Type) int {
	index := s.nextLocal
	s.nextLocal++
	s.blocks[len(s.blocks)-1][name] = localSlot{index: index, typ: typ}
	return index
}

func (s *functionScope) lookupLocal(name string) (localSlot, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if slot, ok := s.blocks[i][name]; ok {
			return slot, true
		}
	}
	return localSlot{}, false
}

func (s *functionScope) lookupParam(name string) (int, bool) {
	index, ok := s.params[name]
	return index, ok
}

// visibleNames lists every name that can be referenced at this point
func (s *functionScope) visibleNames() []string {
	names := append([]string(nil), s.paramNames...)
	for _, block := range s.blocks {
		for name := range block {
			names = append(names, name)
		}
	}
	return names
}
