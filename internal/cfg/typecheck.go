package cfg

import (
	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/types"
)

// typeCheck reports whether a value of type actual may flow where expected
// is required. Void discards the value and NonVoid takes anything but void.
// Bool is narrower than every value type: besides bool itself it only
// widens to i8, and like any value it may be discarded into void.
func typeCheck(actual, expected types.Type, code string, pos ast.Position) error {
	switch {
	case expected == types.NonVoid:
		if actual == types.Void {
			return errors.TypeMismatch(code, expected, actual, pos)
		}
		return nil
	case actual == types.Bool:
		if expected == types.Bool || expected == types.I8 || expected == types.Void {
			return nil
		}
	case expected == types.Void || actual == expected:
		return nil
	}
	return errors.TypeMismatch(code, expected, actual, pos)
}
