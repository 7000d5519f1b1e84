package grammar

import "github.com/alecthomas/participle/v2/lexer"

// File is the root of a source file: a list of functions
type File struct {
	Pos       lexer.Position
	Functions []*Function `@@*`
}

type Function struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Result string   `@Ident`
	Name   string   `@Ident "("`
	Params []*Param `( @@ ( "," @@ )* )? ")"`
	Body   *Block   `@@`
}

type Param struct {
	Pos  lexer.Position
	Type string `@Ident`
	Name string `@Ident`
}

type Block struct {
	Pos        lexer.Position
	Statements []*Statement `"{" @@* "}"`
}

type Statement struct {
	Pos      lexer.Position
	Block    *Block   `  @@`
	If       *If      `| @@`
	Forever  *Forever `| @@`
	DoWhile  *DoWhile `| @@`
	Break    bool     `| @"break" ";"`
	Continue bool     `| @"continue" ";"`
	Return   *Return  `| @@`
	Local    *Local   `| @@`
	Expr     *Expr    `| @@ ";"`
}

type If struct {
	Pos  lexer.Position
	Test *Expr      `"if" "(" @@ ")"`
	Then *Statement `@@`
	Else *Statement `( "else" @@ )?`
}

type Forever struct {
	Pos  lexer.Position
	Body *Statement `"forever" @@`
}

type DoWhile struct {
	Pos  lexer.Position
	Body *Statement `"do" @@`
	Test *Expr      `"while" "(" @@ ")" ";"`
}

type Return struct {
	Pos   lexer.Position
	Value *Expr `"return" @@? ";"`
}

// Local declares a local variable: "i64 x = init;"
type Local struct {
	Pos  lexer.Position
	Type string `@Ident`
	Name string `@Ident`
	Init *Expr  `( "=" @@ )? ";"`
}

type Expr struct {
	Pos     lexer.Position
	Assign  *Assign  `  @@`
	Primary *Primary `| @@`
}

type Assign struct {
	Pos    lexer.Position
	Target string `@Ident "="`
	Value  *Expr  `@@`
}

type Primary struct {
	Pos      lexer.Position
	Builtin  *Builtin    `  @@`
	Import   *ImportCall `| @@`
	Call     *Call       `| @@`
	Sequence []*Expr     `| "(" @@ ( "," @@ )* ")"`
	Number   *string     `| @Number`
	Ident    *string     `| @Ident`
}

// Builtin applies a typed builtin: "i64.add(a, b)" or, for conversions
// that name their source type, "i32.wrap/i64(x)"
type Builtin struct {
	Pos    lexer.Position
	Type   string  `@Ident "."`
	Method string  `@Ident`
	Source string  `( "/" @Ident )?`
	Args   []*Expr `"(" ( @@ ( "," @@ )* )? ")"`
}

// ImportCall calls a function of another module: "env::print(x)"
type ImportCall struct {
	Pos    lexer.Position
	Module string  `@Ident ":" ":"`
	Name   string  `@Ident`
	Args   []*Expr `"(" ( @@ ( "," @@ )* )? ")"`
}

type Call struct {
	Pos  lexer.Position
	Name string  `@Ident`
	Args []*Expr `"(" ( @@ ( "," @@ )* )? ")"`
}

// MethodName joins the method and the optional conversion source type
func (b *Builtin) MethodName() string {
	if b.Source == "" {
		return b.Method
	}
	return b.Method + "/" + b.Source
}
