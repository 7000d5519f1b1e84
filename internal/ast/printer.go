package ast

import (
	"fmt"
	"strings"
)

func (p *Program) String() string {
	parts := make([]string, len(p.Functions))
	for i, fn := range p.Functions {
		parts[i] = fn.String()
	}
	return strings.Join(parts, "\n\n")
}

func (f *Function) String() string {
	var b strings.Builder

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}

	b.WriteString(fmt.Sprintf("%s %s(%s) {\n", f.Result, f.Name, strings.Join(params, ", ")))
	for _, stmt := range f.Body {
		b.WriteString("  " + strings.ReplaceAll(stmt.String(), "\n", "\n  ") + "\n")
	}
	b.WriteString("}")

	return b.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

func (s *BlockStatement) String() string {
	if len(s.Body) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{\n")
	for _, stmt := range s.Body {
		b.WriteString("  " + strings.ReplaceAll(stmt.String(), "\n", "\n  ") + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (s *ExpressionStatement) String() string {
	return s.Expression.String() + ";"
}

func (s *ReturnStatement) String() string {
	if s.Argument == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", s.Argument)
}

func (s *LocalDeclaration) String() string {
	if s.Init == nil {
		return fmt.Sprintf("%s %s;", s.Type, s.Name)
	}
	return fmt.Sprintf("%s %s = %s;", s.Type, s.Name, s.Init)
}

func (s *IfStatement) String() string {
	out := fmt.Sprintf("if (%s) %s", s.Test, s.Consequent)
	if s.Alternate != nil {
		out += " else " + s.Alternate.String()
	}
	return out
}

func (s *ForeverStatement) String() string {
	return "forever " + s.Body.String()
}

func (s *DoWhileStatement) String() string {
	return fmt.Sprintf("do %s while (%s);", s.Body, s.Test)
}

func (*BreakStatement) String() string    { return "break;" }
func (*ContinueStatement) String() string { return "continue;" }

func (e *BuiltinExpr) String() string {
	return fmt.Sprintf("%s.%s(%s)", e.Type, e.Method, joinExprs(e.Arguments))
}

func (e *ParamRef) String() string { return e.Name }
func (e *LocalRef) String() string { return e.Name }

func (e *AssignExpr) String() string {
	return fmt.Sprintf("%s = %s", e.Name, e.Value)
}

func (e *SequenceExpr) String() string {
	return "(" + joinExprs(e.Expressions) + ")"
}

func (e *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Callee, joinExprs(e.Arguments))
}

func (e *LiteralExpr) String() string {
	if e.Raw != "" {
		return e.Raw
	}
	return fmt.Sprint(e.Value)
}

func (c *FunctionRef) String() string { return c.Name }

func (c *ImportRef) String() string {
	return c.Module + "::" + c.Name
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
