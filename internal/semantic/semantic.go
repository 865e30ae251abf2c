// Package semantic maps marked fragments to LSP semantic tokens so an
// editor can highlight associations with its own theme colors.
package semantic

import (
	"cmp"
	"slices"

	"github.com/jku-isse/vscode-ecco-lsp-client/internal/marking"
	"github.com/jku-isse/vscode-ecco-lsp-client/internal/renderer/color"
)

// TokenTypes are the semantic token types advertised in the legend.
var TokenTypes = []string{
	"namespace", "class", "enum", "interface", "struct", "typeParameter", "type", "parameter",
	"variable", "property", "enumMember", "decorator", "event", "function", "method", "macro",
	"label", "comment", "string", "keyword", "number", "regexp", "operator",
}

// TokenModifiers are the semantic token modifiers advertised in the legend.
var TokenModifiers = []string{
	"declaration", "definition", "readonly", "static", "deprecated", "abstract", "async",
	"documentation", "modification", "defaultLibrary",
}

// Legend describes the token types and modifiers used by Encode.
type Legend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// DefaultLegend returns the legend for TokenTypes and TokenModifiers.
func DefaultLegend() Legend {
	return Legend{
		TokenTypes:     slices.Clone(TokenTypes),
		TokenModifiers: slices.Clone(TokenModifiers),
	}
}

// Token is one absolute semantic token.
type Token struct {
	Line      int
	StartChar int
	Length    int
	Type      uint32
	Modifiers uint32 // bit set over TokenModifiers
}

// Tokens is the LSP semantic tokens result.
type Tokens struct {
	Data []uint32 `json:"data"`
}

// Classify picks a token type and a single modifier for a marking key
// from its absolute hash.
func Classify(key string) (tokenType, modifiers uint32) {
	h := color.AbsHash(key)
	tokenType = h % uint32(len(TokenTypes))
	modifiers = 1 << (h % uint32(len(TokenModifiers)))
	return tokenType, modifiers
}

// FromFragments returns one token per marked, non-empty, single-line
// fragment, sorted by position.
func FromFragments(fragments []marking.Fragment[string]) []Token {
	tokens := make([]Token, 0, len(fragments))
	for _, f := range fragments {
		r := f.Range
		if !f.HasMarking || !r.IsSingleLine() || r.End.Character <= r.Start.Character {
			continue
		}
		tt, mods := Classify(f.Marking)
		tokens = append(tokens, Token{
			Line:      r.Start.Line,
			StartChar: r.Start.Character,
			Length:    r.End.Character - r.Start.Character,
			Type:      tt,
			Modifiers: mods,
		})
	}
	slices.SortStableFunc(tokens, func(a, b Token) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.StartChar, b.StartChar)
	})
	return tokens
}

// Encode converts sorted tokens to the LSP relative integer encoding:
// deltaLine, deltaStart, length, tokenType, tokenModifiers.
func Encode(tokens []Token) Tokens {
	data := make([]uint32, 0, len(tokens)*5)
	prevLine, prevStart := 0, 0
	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		deltaStart := t.StartChar
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevStart
		}
		data = append(data, uint32(deltaLine), uint32(deltaStart), uint32(t.Length), t.Type, t.Modifiers)
		prevLine, prevStart = t.Line, t.StartChar
	}
	return Tokens{Data: data}
}
