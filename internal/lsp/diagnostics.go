package lsp

import (
	stderrors "errors"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/indutny/wasm-cfg/internal/errors"
)

// ConvertCompilerErrors transforms parse and translation errors into LSP
// diagnostics. Positions are converted to 0-based indexing.
func ConvertCompilerErrors(errs []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))
	for _, err := range errs {
		diagnostics = append(diagnostics, convertCompilerError(err))
	}
	return diagnostics
}

func convertCompilerError(err errors.CompilerError) protocol.Diagnostic {
	line := max(err.Position.Line-1, 0)
	start := max(err.Position.Column-1, 0)
	length := err.Length
	if length <= 0 {
		length = 1
	}

	message := err.Message
	for _, note := range err.Notes {
		message += "\nnote: " + note
	}
	for _, s := range err.Suggestions {
		message += "\nhelp: " + s.Message
	}

	code := protocol.IntegerOrString{Value: err.Code}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(start + length)},
		},
		Severity: ptrSeverity(severity(err.Level)),
		Code:     &code,
		Source:   ptrString(sourceName(err.Code)),
		Message:  message,
	}
}

// ConvertTranslationError turns a failed build into a diagnostic. Errors
// that are not compiler errors (graph verification failures) are reported
// at the start of the document.
func ConvertTranslationError(err error) []protocol.Diagnostic {
	if err == nil {
		return nil
	}
	var ce errors.CompilerError
	if stderrors.As(err, &ce) {
		return []protocol.Diagnostic{convertCompilerError(ce)}
	}
	return []protocol.Diagnostic{{
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("wasmcfg-graph"),
		Message:  err.Error(),
	}}
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func sourceName(code string) string {
	switch errors.GetErrorCategory(code) {
	case "Parser":
		return "wasmcfg-parser"
	case "Translation":
		return "wasmcfg-cfg"
	default:
		return "wasmcfg"
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
