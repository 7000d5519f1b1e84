package ast

type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string
}

type Statement interface {
	Node
	isStatement()
}

type Expr interface {
	Node
	isExpr()
}

// Callee is the target of a CallExpr
type Callee interface {
	isCallee()
	String() string
}

func (p *Program) NodePos() Position { return p.Pos }
func (*Program) NodeType() NodeType  { return PROGRAM }

func (f *Function) NodePos() Position { return f.Pos }
func (*Function) NodeType() NodeType  { return FUNCTION }

func (p *Param) NodePos() Position { return p.Pos }
func (*Param) NodeType() NodeType  { return PARAM }

func (s *BlockStatement) NodePos() Position { return s.Pos }
func (*BlockStatement) NodeType() NodeType  { return BLOCK_STMT }

func (s *ExpressionStatement) NodePos() Position { return s.Pos }
func (*ExpressionStatement) NodeType() NodeType  { return EXPR_STMT }

func (s *ReturnStatement) NodePos() Position { return s.Pos }
func (*ReturnStatement) NodeType() NodeType  { return RETURN_STMT }

func (s *LocalDeclaration) NodePos() Position { return s.Pos }
func (*LocalDeclaration) NodeType() NodeType  { return LOCAL_DECL }

func (s *IfStatement) NodePos() Position { return s.Pos }
func (*IfStatement) NodeType() NodeType  { return IF_STMT }

func (s *ForeverStatement) NodePos() Position { return s.Pos }
func (*ForeverStatement) NodeType() NodeType  { return FOREVER_STMT }

func (s *DoWhileStatement) NodePos() Position { return s.Pos }
func (*DoWhileStatement) NodeType() NodeType  { return DO_WHILE_STMT }

func (s *BreakStatement) NodePos() Position { return s.Pos }
func (*BreakStatement) NodeType() NodeType  { return BREAK_STMT }

func (s *ContinueStatement) NodePos() Position { return s.Pos }
func (*ContinueStatement) NodeType() NodeType  { return CONTINUE_STMT }

func (e *BuiltinExpr) NodePos() Position { return e.Pos }
func (*BuiltinExpr) NodeType() NodeType  { return BUILTIN_EXPR }

func (e *ParamRef) NodePos() Position { return e.Pos }
func (*ParamRef) NodeType() NodeType  { return PARAM_REF }

func (e *LocalRef) NodePos() Position { return e.Pos }
func (*LocalRef) NodeType() NodeType  { return LOCAL_REF }

func (e *AssignExpr) NodePos() Position { return e.Pos }
func (*AssignExpr) NodeType() NodeType  { return ASSIGN_EXPR }

func (e *SequenceExpr) NodePos() Position { return e.Pos }
func (*SequenceExpr) NodeType() NodeType  { return SEQUENCE_EXPR }

func (e *CallExpr) NodePos() Position { return e.Pos }
func (*CallExpr) NodeType() NodeType  { return CALL_EXPR }

func (e *LiteralExpr) NodePos() Position { return e.Pos }
func (*LiteralExpr) NodeType() NodeType  { return LITERAL_EXPR }

func (*BlockStatement) isStatement()      {}
func (*ExpressionStatement) isStatement() {}
func (*ReturnStatement) isStatement()     {}
func (*LocalDeclaration) isStatement()    {}
func (*IfStatement) isStatement()         {}
func (*ForeverStatement) isStatement()    {}
func (*DoWhileStatement) isStatement()    {}
func (*BreakStatement) isStatement()      {}
func (*ContinueStatement) isStatement()   {}

func (*BuiltinExpr) isExpr()  {}
func (*ParamRef) isExpr()     {}
func (*LocalRef) isExpr()     {}
func (*AssignExpr) isExpr()   {}
func (*SequenceExpr) isExpr() {}
func (*CallExpr) isExpr()     {}
func (*LiteralExpr) isExpr()  {}

func (*FunctionRef) isCallee() {}
func (*ImportRef) isCallee()   {}
