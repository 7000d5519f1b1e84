package errors

import (
	"fmt"
	"strings"

	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/types"
)

// UnknownBuiltin reports a builtin key missing from the registry.
// candidates are the known keys of the same family.
func UnknownBuiltin(key string, pos ast.Position, candidates []string) CompilerError {
	builder := NewError(ErrorUnknownBuiltin, fmt.Sprintf("unknown builtin: %s", key), pos).
		WithLength(len(key))

	if similar := findSimilarNames(key, candidates); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	}
	return builder.Build()
}

// BuiltinArity reports a builtin applied to the wrong number of arguments
func BuiltinArity(key string, want, got int, pos ast.Position) CompilerError {
	return NewError(ErrorBuiltinArity,
		fmt.Sprintf("wrong argument count for %s: expected %d, found %d", key, want, got), pos).
		WithLength(len(key)).
		Build()
}

// ConstArgument reports a malformed const application
func ConstArgument(key, problem string, pos ast.Position) CompilerError {
	return NewError(ErrorConstArgument, fmt.Sprintf("%s %s", key, problem), pos).
		WithNote("const takes exactly one numeric literal").
		Build()
}

var mismatchSubjects = map[string]string{
	ErrorBuiltinReturnType: "builtin return type mismatch",
	ErrorParamType:         "mismatched param type",
	ErrorLocalType:         "mismatched local type",
	ErrorCallReturnType:    "call return type mismatch",
}

// TypeMismatch reports a value of type actual flowing where expected is
// required. code selects the kind of use site.
func TypeMismatch(code string, expected, actual types.Type, pos ast.Position) CompilerError {
	if actual == types.Void {
		return NewError(ErrorVoidValue, fmt.Sprintf("expected a %s value, found void", expected), pos).
			WithNote("void operations can only be used as statements").
			Build()
	}

	subject, ok := mismatchSubjects[code]
	if !ok {
		subject = "type mismatch"
	}
	builder := NewError(code, fmt.Sprintf("%s: expected %s, found %s", subject, expected, actual), pos)

	switch {
	case actual == types.Bool:
		builder = builder.WithNote("bool values can only be used as bool, i8 or discarded")
	case expected == types.Bool && actual.IsValue():
		builder = builder.WithSuggestion(fmt.Sprintf("coerce the value with %s.bool(...)", actual))
	case expected.IsValue() && actual.IsValue():
		builder = builder.WithSuggestion(fmt.Sprintf("convert the value to %s explicitly", expected))
	}
	return builder.Build()
}

// ReturnFromVoid reports a value returned from a void function
func ReturnFromVoid(pos ast.Position) CompilerError {
	return NewError(ErrorReturnFromVoid, "return of a value from a void function", pos).
		WithSuggestion("use a bare 'return;'").
		Build()
}

// EmptyReturn reports a bare return from a function with a result
func EmptyReturn(result types.Type, pos ast.Position) CompilerError {
	return NewError(ErrorEmptyReturn, fmt.Sprintf("missing return value of type %s", result), pos).
		Build()
}

// ParamOutOfRange reports a parameter reference beyond the signature
func ParamOutOfRange(index, count int, pos ast.Position) CompilerError {
	return NewError(ErrorParamOutOfRange,
		fmt.Sprintf("param lookup out of range: index %d, function has %d params", index, count), pos).
		Build()
}

// UnknownFunction reports a call to a missing function index
func UnknownFunction(name string, index int, pos ast.Position) CompilerError {
	return NewError(ErrorUnknownFunction, fmt.Sprintf("unknown function '%s' (index %d)", name, index), pos).
		WithLength(len(name)).
		Build()
}

// UnresolvedImport reports an import the resolver cannot provide
func UnresolvedImport(module, name string, cause error, pos ast.Position) CompilerError {
	builder := NewError(ErrorUnresolvedImport, fmt.Sprintf("cannot resolve import %s::%s", module, name), pos).
		WithLength(len(module) + len(name) + 2)
	if cause != nil {
		builder = builder.WithNote(cause.Error())
	}
	return builder.WithHelp("imports are provided by built-in modules or by [[module]] tables in the config file").Build()
}

// CallArity reports a call with the wrong number of arguments
func CallArity(name string, want, got int, pos ast.Position) CompilerError {
	return NewError(ErrorCallArity,
		fmt.Sprintf("function '%s' expects %d arguments, got %d", name, want, got), pos).
		WithSuggestion(fmt.Sprintf("provide exactly %d argument(s)", want)).
		Build()
}

// EmptySequence reports a sequence expression without members
func EmptySequence(pos ast.Position) CompilerError {
	return NewError(ErrorEmptySequence, "sequence expression must contain at least one expression", pos).
		Build()
}

// UnknownLocal reports a use of a local slot that was never declared
func UnknownLocal(name string, index int, pos ast.Position) CompilerError {
	return NewError(ErrorUnknownLocal, fmt.Sprintf("local '%s' (slot %d) used before declaration", name, index), pos).
		WithLength(len(name)).
		Build()
}

// LocalRedeclared reports a local slot declared with two different types
func LocalRedeclared(name string, previous, current types.Type, pos ast.Position) CompilerError {
	return NewError(ErrorLocalRedeclared,
		fmt.Sprintf("local '%s' redeclared as %s, previously %s", name, current, previous), pos).
		WithLength(len(name)).
		Build()
}

// OutsideLoop reports break or continue without an enclosing loop
func OutsideLoop(keyword string, pos ast.Position) CompilerError {
	return NewError(ErrorOutsideLoop, fmt.Sprintf("'%s' outside of a loop", keyword), pos).
		WithLength(len(keyword)).
		Build()
}

// BareLiteral reports a numeric literal used outside of a const builtin
func BareLiteral(raw string, pos ast.Position) CompilerError {
	return NewError(ErrorConstArgument, fmt.Sprintf("bare literal %s", raw), pos).
		WithLength(len(raw)).
		WithSuggestion(fmt.Sprintf("wrap it in <type>.const(%s)", raw)).
		Build()
}

// MissingProgram reports a translation request without a program
func MissingProgram() CompilerError {
	return NewError(ErrorMissingProgram, "no program to translate", ast.Position{}).Build()
}

// Front end errors

// SyntaxError reports a parse failure
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewError(ErrorSyntax, message, pos).Build()
}

// UnknownType reports a type name that is not part of the language
func UnknownType(name string, pos ast.Position) CompilerError {
	return NewError(ErrorUnknownType, fmt.Sprintf("unknown type '%s'", name), pos).
		WithLength(len(name)).
		WithNote("types are i8, i16, i32, i64, f32, f64, addr and void").
		Build()
}

// UndefinedName reports an identifier that does not resolve. kind is
// "variable" or "function".
func UndefinedName(kind, name string, pos ast.Position, candidates []string) CompilerError {
	builder := NewError(ErrorUndefinedName, fmt.Sprintf("undefined %s '%s'", kind, name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, candidates); len(similar) > 0 {
		builder = builder.WithSuggestion(didYouMean(similar))
	} else if kind == "variable" {
		builder = builder.WithSuggestion("make sure the variable is declared before use")
	}
	return builder.Build()
}

// DuplicateFunction reports two functions with the same name
func DuplicateFunction(name string, pos ast.Position) CompilerError {
	return NewError(ErrorDuplicateFunction, fmt.Sprintf("duplicate function '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the duplicate '%s' to a unique name", name)).
		Build()
}

// DuplicateParam reports two parameters with the same name
func DuplicateParam(name string, pos ast.Position) CompilerError {
	return NewError(ErrorDuplicateParam, fmt.Sprintf("duplicate parameter '%s'", name), pos).
		WithLength(len(name)).
		Build()
}

// AssignToParam reports an assignment whose target is a parameter
func AssignToParam(name string, pos ast.Position) CompilerError {
	return NewError(ErrorAssignToParam, fmt.Sprintf("cannot assign to parameter '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("copy it into a local first: <type> %s_copy = %s;", name, name)).
		Build()
}

// VoidSlot reports a parameter or local declared as void
func VoidSlot(name string, pos ast.Position) CompilerError {
	return NewError(ErrorVoidSlot, fmt.Sprintf("'%s' cannot have type void", name), pos).
		WithLength(len(name)).
		Build()
}

// Manifest errors

// InvalidManifest reports a malformed import module declaration
func InvalidManifest(message string) CompilerError {
	return NewError(ErrorInvalidManifest, message, ast.Position{}).Build()
}

// DuplicateImport reports the same import declared twice
func DuplicateImport(module, name string) CompilerError {
	return NewError(ErrorDuplicateImport, fmt.Sprintf("import %s::%s declared twice", module, name), ast.Position{}).
		Build()
}

// Helper functions

func didYouMean(similar []string) string {
	if len(similar) == 1 {
		return fmt.Sprintf("did you mean '%s'?", similar[0])
	}
	return fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '"))
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if candidate != target && len(candidate) > 2 && levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// levenshteinDistance is the edit distance between a and b
func levenshteinDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
