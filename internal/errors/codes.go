package errors

// Error codes reported by the translator and the front end.
//
// Error code ranges:
// E0001-E0099: CFG translation errors
// E0100-E0199: Parser errors
// E0200-E0299: Import resolution and configuration errors

const (
	// E0001: Builtin key not present in the registry
	ErrorUnknownBuiltin = "E0001"

	// E0002: Builtin applied to the wrong number of arguments
	ErrorBuiltinArity = "E0002"

	// E0003: Malformed const (argument count, non-literal, literal kind)
	ErrorConstArgument = "E0003"

	// E0004: Builtin result does not fit where it is used
	ErrorBuiltinReturnType = "E0004"

	// E0005: Argument does not match a parameter type
	ErrorParamType = "E0005"

	// E0006: Value does not match a local's declared type
	ErrorLocalType = "E0006"

	// E0007: Call result does not fit where it is used
	ErrorCallReturnType = "E0007"

	// E0008: Void value where a value is required
	ErrorVoidValue = "E0008"

	// E0009: Value returned from a void function
	ErrorReturnFromVoid = "E0009"

	// E0010: Bare return from a function with a result
	ErrorEmptyReturn = "E0010"

	// E0011: Parameter index beyond the signature
	ErrorParamOutOfRange = "E0011"

	// E0012: Call to a function index the program does not have
	ErrorUnknownFunction = "E0012"

	// E0013: Import that the resolver cannot provide
	ErrorUnresolvedImport = "E0013"

	// E0014: Call with the wrong number of arguments
	ErrorCallArity = "E0014"

	// E0015: Sequence expression without expressions
	ErrorEmptySequence = "E0015"

	// E0016: Local slot read or written before declaration
	ErrorUnknownLocal = "E0016"

	// E0017: Local slot declared twice with different types
	ErrorLocalRedeclared = "E0017"

	// E0018: break or continue outside of a loop
	ErrorOutsideLoop = "E0018"

	// E0019: Nothing to translate
	ErrorMissingProgram = "E0019"
)

// Parser errors (E0100-E0199)
const (
	ErrorSyntax            = "E0100"
	ErrorUnknownType       = "E0101"
	ErrorUndefinedName     = "E0102"
	ErrorDuplicateFunction = "E0103"
	ErrorDuplicateParam    = "E0104"
	ErrorAssignToParam     = "E0105"
	ErrorVoidSlot          = "E0106"
)

// Import and configuration errors (E0200-E0299)
const (
	ErrorInvalidManifest = "E0200"
	ErrorDuplicateImport = "E0201"
)

// ErrorDescriptions provides human-readable descriptions for error codes
var ErrorDescriptions = map[string]string{
	ErrorUnknownBuiltin:    "Unknown builtin",
	ErrorBuiltinArity:      "Wrong builtin argument count",
	ErrorConstArgument:     "Malformed const",
	ErrorBuiltinReturnType: "Builtin return type mismatch",
	ErrorParamType:         "Mismatched param type",
	ErrorLocalType:         "Mismatched local type",
	ErrorCallReturnType:    "Call return type mismatch",
	ErrorVoidValue:         "Void value used",
	ErrorReturnFromVoid:    "Return from void function",
	ErrorEmptyReturn:       "Missing return value",
	ErrorParamOutOfRange:   "Param lookup out of range",
	ErrorUnknownFunction:   "Unknown function",
	ErrorUnresolvedImport:  "Unresolved import",
	ErrorCallArity:         "Wrong call argument count",
	ErrorEmptySequence:     "Empty sequence",
	ErrorUnknownLocal:      "Unknown local",
	ErrorLocalRedeclared:   "Local redeclared",
	ErrorOutsideLoop:       "Loop control outside loop",
	ErrorMissingProgram:    "Missing program",

	ErrorSyntax:            "Syntax error",
	ErrorUnknownType:       "Unknown type",
	ErrorUndefinedName:     "Undefined name",
	ErrorDuplicateFunction: "Duplicate function",
	ErrorDuplicateParam:    "Duplicate parameter",
	ErrorAssignToParam:     "Assignment to parameter",
	ErrorVoidSlot:          "Void parameter or local",

	ErrorInvalidManifest: "Invalid import manifest",
	ErrorDuplicateImport: "Duplicate import",
}

// GetErrorDescription returns the description for an error code
func GetErrorDescription(code string) string {
	if desc, exists := ErrorDescriptions[code]; exists {
		return desc
	}
	return "Unknown error"
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Translation"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Import"
	default:
		return "Unknown"
	}
}
