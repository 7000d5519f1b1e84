// Package parser turns source text into the indexed AST consumed by the
// CFG builder. Concrete syntax is handled by the grammar package; this
// package resolves names to parameter, local and function indices.
package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/indutny/wasm-cfg/grammar"
	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/errors"
)

// ParseSource parses and resolves a whole program. The program is returned
// even when errors are reported, but it must not be translated then.
func ParseSource(path string, source string) (*ast.Program, []errors.CompilerError) {
	file, err := grammar.ParseString(path, source)
	if err != nil {
		return nil, []errors.CompilerError{syntaxError(path, err)}
	}

	l := newLowerer()
	program := l.lowerFile(file)
	return program, l.errors
}

func syntaxError(path string, err error) errors.CompilerError {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.SyntaxError(err.Error(), ast.Position{Filename: path})
	}
	return errors.SyntaxError(pe.Message(), convertPos(pe.Position()))
}

func convertPos(p lexer.Position) ast.Position {
	return ast.Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}
