package ast

type NodeType int

const (
	ILLEGAL NodeType = iota

	// High-level constructs
	PROGRAM
	FUNCTION
	PARAM

	// Statements
	BLOCK_STMT
	EXPR_STMT
	RETURN_STMT
	LOCAL_DECL
	IF_STMT
	FOREVER_STMT
	DO_WHILE_STMT
	BREAK_STMT
	CONTINUE_STMT

	// Expressions
	BUILTIN_EXPR
	PARAM_REF
	LOCAL_REF
	ASSIGN_EXPR
	SEQUENCE_EXPR
	CALL_EXPR
	LITERAL_EXPR
)

var nodeTypeNames = [...]string{
	ILLEGAL:       "ILLEGAL",
	PROGRAM:       "PROGRAM",
	FUNCTION:      "FUNCTION",
	PARAM:         "PARAM",
	BLOCK_STMT:    "BLOCK_STMT",
	EXPR_STMT:     "EXPR_STMT",
	RETURN_STMT:   "RETURN_STMT",
	LOCAL_DECL:    "LOCAL_DECL",
	IF_STMT:       "IF_STMT",
	FOREVER_STMT:  "FOREVER_STMT",
	DO_WHILE_STMT: "DO_WHILE_STMT",
	BREAK_STMT:    "BREAK_STMT",
	CONTINUE_STMT: "CONTINUE_STMT",
	BUILTIN_EXPR:  "BUILTIN_EXPR",
	PARAM_REF:     "PARAM_REF",
	LOCAL_REF:     "LOCAL_REF",
	ASSIGN_EXPR:   "ASSIGN_EXPR",
	SEQUENCE_EXPR: "SEQUENCE_EXPR",
	CALL_EXPR:     "CALL_EXPR",
	LITERAL_EXPR:  "LITERAL_EXPR",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "NodeType(?)"
}
