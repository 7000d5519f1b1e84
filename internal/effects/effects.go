// Package effects describes the observable machine-state effects of
// operations. Effects are a bitset so they can be accumulated per function.
package effects

import "strings"

// Effect is a set of machine-state effects
type Effect uint8

const (
	None         Effect = 0
	MemoryLoad   Effect = 1 << 0
	MemoryStore  Effect = 1 << 1
	MemoryResize Effect = 1 << 2

	callBit Effect = 1 << 3

	// Call may do anything a function body may do
	Call = callBit | MemoryStore | MemoryResize

	// NoUpdateMask holds effects that read the state without producing a
	// new one
	NoUpdateMask = MemoryLoad
)

// Has reports whether every flag of other is present in e
func (e Effect) Has(other Effect) bool {
	return e&other == other
}

// RequiresUpdate reports whether an operation with effect e must produce a
// new state value after it executes
func (e Effect) RequiresUpdate() bool {
	return e&^NoUpdateMask != None
}

var flagNames = []struct {
	flag Effect
	name string
}{
	{MemoryLoad, "load"},
	{MemoryStore, "store"},
	{MemoryResize, "resize"},
}

func (e Effect) String() string {
	if e == None {
		return "none"
	}

	var parts []string
	rest := e
	if rest.Has(Call) {
		parts = append(parts, "call")
		rest &^= Call
	}
	for _, f := range flagNames {
		if rest.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}
