package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/lsp"
	"github.com/indutny/wasm-cfg/internal/stdlib"
	"github.com/indutny/wasm-cfg/internal/types"
)

const source = `i64 add(i64 a, i64 b) {
  i64 r = i64.add(a, b);
  return r;
}

void touch(addr p) {
  i32.store(p, i32.const(1));
}
`

func writeSource(t *testing.T, text string) protocol.DocumentUri {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.wc")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return "file://" + filepath.ToSlash(path)
}

// recorder captures published diagnostics
type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func open(t *testing.T, h *lsp.Handler, ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "wasmcfg", Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenPublishesNoDiagnosticsForValidSource(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	rec := &recorder{}
	uri := writeSource(t, source)

	open(t, h, rec.context(), uri, source)

	require.Len(t, rec.published, 1)
	assert.Equal(t, uri, rec.published[0].URI)
	assert.Empty(t, rec.published[0].Diagnostics)
}

func TestDidChangeReportsTranslationError(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	rec := &recorder{}
	uri := writeSource(t, source)
	open(t, h, rec.context(), uri, source)

	broken := "i32 f(i64 a) {\n  return a;\n}\n"
	err := h.TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: broken}},
	})
	require.NoError(t, err)

	diags := h.Diagnostics(uri)
	require.Len(t, diags, 1)
	assert.Equal(t, uint32(1), diags[0].Range.Start.Line)
	assert.Contains(t, diags[0].Message, "mismatched param type")
	assert.Equal(t, "wasmcfg-cfg", *diags[0].Source)
	assert.Len(t, rec.published, 2)
}

func TestParseErrorsBecomeDiagnostics(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	text := "i64 f() {\n  return undefined_name;\n}\n"
	uri := writeSource(t, text)
	open(t, h, nil, uri, text)

	diags := h.Diagnostics(uri)
	require.NotEmpty(t, diags)
	assert.Equal(t, "wasmcfg-parser", *diags[0].Source)
	assert.Contains(t, diags[0].Message, "undefined_name")
}

func TestHoverShowsFunctionGraph(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	uri := writeSource(t, source)
	open(t, h, &glsp.Context{}, uri, source)

	hover, err := h.TextDocumentHover(&glsp.Context{}, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 6, Character: 4},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)

	content := hover.Contents.(protocol.MarkupContent)
	assert.Contains(t, content.Value, "**touch** `void (addr)`")
	assert.Contains(t, content.Value, "pipeline touch {")
	assert.Contains(t, content.Value, "updateState")
}

func TestHoverOutsideFunctions(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	uri := writeSource(t, source)

	hover, err := h.TextDocumentHover(&glsp.Context{}, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 20, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestCompletionListsBuiltinsAndFunctions(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	uri := writeSource(t, source)

	result, err := h.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, item := range result.(*protocol.CompletionList).Items {
		labels[item.Label] = true
	}
	assert.True(t, labels["i64.add"])
	assert.True(t, labels["i32.wrap/i64"])
	assert.True(t, labels["touch"])
}

func TestCompletionListsImports(t *testing.T) {
	resolver, err := stdlib.NewResolver(&stdlib.ModuleDefinition{
		Name:      "host",
		Functions: []stdlib.FunctionDefinition{stdlib.NewFunction("log", types.Void, types.I32)},
	})
	require.NoError(t, err)

	h := lsp.NewHandler(cfg.Options{Resolver: resolver})
	uri := writeSource(t, source)

	result, err := h.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	details := map[string]string{}
	kinds := map[string]protocol.CompletionItemKind{}
	for _, item := range result.(*protocol.CompletionList).Items {
		if item.Detail != nil {
			details[item.Label] = *item.Detail
		}
		kinds[item.Label] = *item.Kind
	}
	assert.Equal(t, "void (i32)", details["env::print_i32"])
	assert.Equal(t, "f64 (f64, f64)", details["math::pow"])
	assert.Equal(t, "void (i32)", details["host::log"])
	assert.Equal(t, protocol.CompletionItemKindModule, kinds["host"])
	assert.Equal(t, protocol.CompletionItemKindModule, kinds["math"])
}

func TestCompletionWithoutResolverHasNoImports(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	uri := writeSource(t, source)

	result, err := h.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	for _, item := range result.(*protocol.CompletionList).Items {
		assert.NotContains(t, item.Label, "::")
	}
}

func TestDidCloseForgetsDocument(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	uri := writeSource(t, source)
	open(t, h, nil, uri, source)

	require.NoError(t, h.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, h.Diagnostics(uri))
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	h := lsp.NewHandler(cfg.Options{})
	uri := writeSource(t, source)

	tokens, err := h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)

	// i64 add(i64 a, i64 b) {
	assertToken(t, &decoded[0], 1, 1, 3, "type", nil)
	assertToken(t, &decoded[1], 1, 5, 3, "function", []string{"declaration"})
	assertToken(t, &decoded[2], 1, 9, 3, "type", nil)
	assertToken(t, &decoded[3], 1, 13, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[4], 1, 16, 3, "type", nil)
	assertToken(t, &decoded[5], 1, 20, 1, "parameter", []string{"declaration"})
	//   i64 r = i64.add(a, b);
	assertToken(t, &decoded[6], 2, 3, 3, "type", nil)
	assertToken(t, &decoded[7], 2, 7, 1, "variable", []string{"declaration"})
	assertToken(t, &decoded[8], 2, 11, 3, "type", nil)
	assertToken(t, &decoded[9], 2, 15, 3, "function", nil)
	assertToken(t, &decoded[10], 2, 19, 1, "parameter", nil)
	assertToken(t, &decoded[11], 2, 22, 1, "parameter", nil)
	//   return r;
	assertToken(t, &decoded[12], 3, 3, 6, "keyword", nil)
	assertToken(t, &decoded[13], 3, 10, 1, "variable", nil)
}

type DecodedToken struct {
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)
	for i := 0; i < len(raw); i += 5 {
		if raw[i] == 0 {
			char += raw[i+1]
		} else {
			line += raw[i]
			char = raw[i+1]
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if raw[i+4]&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Line:      line + 1,
			Char:      char + 1,
			Length:    raw[i+2],
			Type:      lsp.SemanticTokenTypes[raw[i+3]],
			Modifiers: modifiers,
		})
	}
	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, line, char, length uint32, kind string, modifiers []string) {
	t.Helper()
	require.Equal(t, line, token.Line, "line mismatch")
	require.Equal(t, char, token.Char, "char mismatch")
	require.Equal(t, length, token.Length, "length mismatch")
	require.Equal(t, kind, token.Type, "type mismatch")
	require.ElementsMatch(t, modifiers, token.Modifiers, "modifiers mismatch")
}
