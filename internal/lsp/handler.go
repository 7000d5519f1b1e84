// Package lsp implements the language server: diagnostics from parsing and
// CFG translation, a hover showing the graph of the function under the
// cursor, builtin completion and semantic highlighting.
package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/indutny/wasm-cfg/internal/ast"
	"github.com/indutny/wasm-cfg/internal/builtins"
	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/graph"
	"github.com/indutny/wasm-cfg/internal/parser"
)

var log = commonlog.GetLogger("wasmcfg.lsp")

// SemanticTokenTypes is the token type legend advertised to clients
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"parameter",
	"keyword",
	"number",
}

// SemanticTokenModifiers is the token modifier legend
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// document is the analysis state of one open file
type document struct {
	source      string
	program     *ast.Program
	functions   []*cfg.Function
	diagnostics []protocol.Diagnostic
}

// Handler implements the LSP server handlers
type Handler struct {
	mu        sync.RWMutex
	documents map[string]*document
	options   cfg.Options
}

// NewHandler creates a handler translating documents with opts
func NewHandler(opts cfg.Options) *Handler {
	return &Handler{
		documents: make(map[string]*document),
		options:   opts,
	}
}

// Initialize responds to the client's initialize request and advertises the
// server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider:   ptrBool(false),
				TriggerCharacters: []string{"."},
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called once the client accepted the capabilities
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

// Shutdown handles the shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

// SetTrace records the trace level requested by the client
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen analyzes a newly opened document
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-analyzes a document after an edit
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	var text string
	var found bool
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			text, found = c.Text, true
		}
	}
	if !found {
		return nil
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentDidClose forgets a document
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.documents, path)
	return nil
}

// TextDocumentHover shows the control-flow graph of the function under the
// cursor
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, err := h.getOrLoad(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	line := int(params.Position.Line) + 1
	fn := functionAt(doc, line)
	if fn == nil {
		return nil, nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "**%s** `%s`\n\n", fn.Name, fn.Signature)
	fmt.Fprintf(&body, "effects: %s\n\n", fn.Effects)
	fmt.Fprintf(&body, "```\n%s```", graph.Print(fn.CFG, fn.Name))

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: body.String(),
		},
	}, nil
}

// functionAt returns the translated function whose source spans line
func functionAt(doc *document, line int) *cfg.Function {
	for _, fn := range doc.functions {
		if line >= fn.AST.Pos.Line && line <= fn.AST.EndPos.Line {
			return fn
		}
	}
	return nil
}

// importLister is implemented by resolvers that can enumerate their imports
type importLister interface {
	Imports() []string
	Modules() []string
}

// TextDocumentCompletion offers builtin methods, resolvable imports and
// program functions
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	registry := h.options.Registry
	if registry == nil {
		registry = builtins.Default()
	}

	kind := protocol.CompletionItemKindFunction
	var items []protocol.CompletionItem
	for _, key := range registry.Keys() {
		sig, _ := registry.Lookup(key)
		detail := sig.Result.String()
		items = append(items, protocol.CompletionItem{
			Label:  key.String(),
			Kind:   &kind,
			Detail: &detail,
		})
	}

	if lister, ok := h.options.Resolver.(importLister); ok {
		moduleKind := protocol.CompletionItemKindModule
		for _, name := range lister.Modules() {
			items = append(items, protocol.CompletionItem{Label: name, Kind: &moduleKind})
		}
		for _, name := range lister.Imports() {
			module, fn, _ := strings.Cut(name, "::")
			_, sig, err := h.options.Resolver.Lookup(module, fn)
			if err != nil {
				continue
			}
			detail := sig.String()
			items = append(items, protocol.CompletionItem{
				Label:  name,
				Kind:   &kind,
				Detail: &detail,
			})
		}
	}

	if doc, err := h.getOrLoad(ctx, params.TextDocument.URI); err == nil && doc.program != nil {
		for _, fn := range doc.program.Functions {
			detail := fn.Signature().String()
			items = append(items, protocol.CompletionItem{
				Label:  fn.Name,
				Kind:   &kind,
				Detail: &detail,
			})
		}
	}

	return &protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the
// entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, err := h.getOrLoad(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	path, _ := uriToPath(params.TextDocument.URI)
	tokens := collectSemanticTokens(path, doc.source)
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(tokens)}, nil
}

// getOrLoad returns the analysis of an open document, reading the file
// from disk for documents the client never opened
func (h *Handler) getOrLoad(ctx *glsp.Context, uri protocol.DocumentUri) (*document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	doc, ok := h.documents[path]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := h.update(ctx, uri, string(content)); err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.documents[path], nil
}

// update analyzes text as the new content of uri and publishes diagnostics
func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}

	doc := h.analyze(path, text)

	h.mu.Lock()
	h.documents[path] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, doc.diagnostics)
	return nil
}

func (h *Handler) analyze(path, text string) *document {
	doc := &document{source: text, diagnostics: []protocol.Diagnostic{}}

	program, errs := parser.ParseSource(path, text)
	doc.program = program
	if len(errs) > 0 {
		doc.diagnostics = ConvertCompilerErrors(errs)
		return doc
	}

	fns, err := cfg.Build(program, h.options)
	if err != nil {
		doc.diagnostics = ConvertTranslationError(err)
		return doc
	}
	doc.functions = fns
	return doc
}

// Diagnostics returns the last published diagnostics of uri
func (h *Handler) Diagnostics(uri protocol.DocumentUri) []protocol.Diagnostic {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if doc, ok := h.documents[path]; ok {
		return doc.diagnostics
	}
	return nil
}

// uriToPath converts a file URI to a platform-local path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove the leading slash of /C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
