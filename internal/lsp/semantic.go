package lsp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/indutny/wasm-cfg/grammar"
	"github.com/indutny/wasm-cfg/internal/types"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var keywords = map[string]bool{
	"if": true, "else": true, "forever": true, "do": true, "while": true,
	"break": true, "continue": true, "return": true,
}

// collectSemanticTokens classifies the identifiers and literals of source.
// It works on the token stream alone, so it keeps highlighting files that
// do not parse.
func collectSemanticTokens(path, source string) []SemanticToken {
	lex, err := grammar.Lexer.Lex(path, strings.NewReader(source))
	if err != nil {
		return nil
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil
	}

	symbols := grammar.Lexer.Symbols()
	identType := symbols["Ident"]
	numberType := symbols["Number"]

	var significant []lexer.Token
	for _, tok := range all {
		if tok.Type == identType || tok.Type == numberType || tok.Type == symbols["Punctuation"] {
			significant = append(significant, tok)
		}
	}

	c := &classifier{tokens: significant, identType: identType}
	var out []SemanticToken
	for i, tok := range significant {
		switch tok.Type {
		case numberType:
			out = append(out, makeToken(tok, "number", 0))
		case identType:
			if kind, mods := c.classify(i); kind != "" {
				out = append(out, makeToken(tok, kind, mods))
			}
		default:
			c.track(tok.Value)
		}
	}
	return out
}

// classifier walks the token stream tracking just enough structure to tell
// declarations from references
type classifier struct {
	tokens    []lexer.Token
	identType lexer.TokenType
	depth     int
	params    map[string]bool
	inHeader  bool
}

func (c *classifier) track(punct string) {
	switch punct {
	case "{":
		c.depth++
		c.inHeader = false
	case "}":
		c.depth--
	}
}

func (c *classifier) value(i int) string {
	if i < 0 || i >= len(c.tokens) {
		return ""
	}
	return c.tokens[i].Value
}

func (c *classifier) isType(i int) bool {
	if i < 0 || i >= len(c.tokens) || c.tokens[i].Type != c.identType {
		return false
	}
	_, ok := types.Parse(c.tokens[i].Value)
	return ok
}

func (c *classifier) classify(i int) (string, int) {
	name := c.value(i)
	prev, next := c.value(i-1), c.value(i+1)

	switch {
	case keywords[name]:
		return "keyword", 0
	case prev == ".":
		return "function", 0
	case c.isType(i):
		return "type", 0
	case next == ":" && c.value(i+2) == ":":
		return "namespace", 0
	case prev == ":" && c.value(i-2) == ":":
		return "function", 0
	case c.isType(i-1) && next == "(" && c.depth == 0:
		c.params = map[string]bool{}
		c.inHeader = true
		return "function", modifierMask("declaration")
	case next == "(":
		return "function", 0
	case c.isType(i-1) && c.inHeader:
		c.params[name] = true
		return "parameter", modifierMask("declaration")
	case c.isType(i-1):
		return "variable", modifierMask("declaration")
	case c.params[name]:
		return "parameter", 0
	default:
		return "variable", 0
	}
}

func makeToken(tok lexer.Token, kind string, modifiers int) SemanticToken {
	return SemanticToken{
		Line:           uint32(tok.Pos.Line - 1),
		StartChar:      uint32(tok.Pos.Column - 1),
		Length:         uint32(len(tok.Value)),
		TokenType:      tokenTypeIndex(kind),
		TokenModifiers: modifiers,
	}
}

func tokenTypeIndex(kind string) int {
	for i, t := range SemanticTokenTypes {
		if t == kind {
			return i
		}
	}
	return 0
}

func modifierMask(names ...string) int {
	mask := 0
	for _, name := range names {
		for i, m := range SemanticTokenModifiers {
			if m == name {
				mask |= 1 << i
			}
		}
	}
	return mask
}

// encodeSemanticTokens packs tokens in the LSP wire format using
// delta-line, delta-start compression
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}
