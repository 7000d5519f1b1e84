package ast

import "github.com/indutny/wasm-cfg/internal/types"

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Program is an ordered list of functions. A function's index in the list
// is its call target index.
type Program struct {
	Pos       Position
	Functions []*Function
}

// Function is a typed function with indexed parameters and locals.
// LocalCount is the number of local slots used by the body; slot indices
// are unique across the whole function.
type Function struct {
	Pos        Position
	EndPos     Position
	Name       string
	Result     types.Type
	Params     []*Param
	LocalCount int
	Body       []Statement
}

// Signature derives the callable type of the function
func (f *Function) Signature() *types.Signature {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.NewSignature(f.Result, params...)
}

type Param struct {
	Pos  Position
	Name string
	Type types.Type
}

// Statements

type BlockStatement struct {
	Pos  Position
	Body []Statement
}

type ExpressionStatement struct {
	Pos        Position
	Expression Expr
}

// ReturnStatement returns Argument, which is nil for a bare return
type ReturnStatement struct {
	Pos      Position
	Argument Expr
}

// LocalDeclaration declares local slot Index. Init is optional.
type LocalDeclaration struct {
	Pos   Position
	Index int
	Name  string
	Type  types.Type
	Init  Expr
}

// IfStatement branches on Test. Alternate is nil when there is no else.
type IfStatement struct {
	Pos        Position
	Test       Expr
	Consequent Statement
	Alternate  Statement
}

// ForeverStatement loops until a break
type ForeverStatement struct {
	Pos  Position
	Body Statement
}

// DoWhileStatement runs Body, then loops while Test holds
type DoWhileStatement struct {
	Pos  Position
	Body Statement
	Test Expr
}

type BreakStatement struct {
	Pos Position
}

type ContinueStatement struct {
	Pos Position
}

// Expressions

// BuiltinExpr applies the builtin Method of the Type family
type BuiltinExpr struct {
	Pos       Position
	Type      types.Type
	Method    string
	Arguments []Expr
}

type ParamRef struct {
	Pos   Position
	Index int
	Name  string
}

type LocalRef struct {
	Pos   Position
	Index int
	Name  string
}

// AssignExpr stores Value into local slot Index and yields it
type AssignExpr struct {
	Pos   Position
	Index int
	Name  string
	Value Expr
}

// SequenceExpr evaluates every expression in order and yields the last
type SequenceExpr struct {
	Pos         Position
	Expressions []Expr
}

type CallExpr struct {
	Pos       Position
	Callee    Callee
	Arguments []Expr
}

// LiteralExpr holds an int64, uint64 or float64 value
type LiteralExpr struct {
	Pos   Position
	Value any
	Raw   string
}

// Callees

// FunctionRef refers to a function of the same program by index
type FunctionRef struct {
	Index int
	Name  string
}

// ImportRef refers to a function provided by another module
type ImportRef struct {
	Module string
	Name   string
}
