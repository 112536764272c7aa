package vhdl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Lexer defines the token rules for declaration text.
// Rule order is significant: comments win over the dash, strings and
// character literals win over plain words.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Char", Pattern: `'[^\n]'`},
	{Name: "Assign", Pattern: `:=`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Word", Pattern: `[^\s;():"'-]+`},
	{Name: "Punct", Pattern: `[-'"]`},
})

// tokenKind is the parser's view of a lexer token type.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokComment
	tokString
	tokChar
	tokAssign
	tokColon
	tokSemicolon
	tokLParen
	tokRParen
	tokWord
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokComment:
		return "comment"
	case tokString:
		return "string literal"
	case tokChar:
		return "character literal"
	case tokAssign:
		return "':='"
	case tokColon:
		return "':'"
	case tokSemicolon:
		return "';'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokWord:
		return "word"
	case tokPunct:
		return "punctuation"
	}
	return "unknown"
}

// token is a non-whitespace lexer token.
// spaced reports whether whitespace (or start of input) precedes it.
type token struct {
	kind   tokenKind
	text   string
	pos    lexer.Position
	end    int
	spaced bool
}

// isRun reports whether the token may be part of an unquoted expression run.
func (t token) isRun() bool {
	switch t.kind {
	case tokWord, tokPunct, tokString, tokChar:
		return true
	}
	return false
}

// reserved words are excluded from identifiers and unquoted expressions.
var reserved = map[string]struct{}{
	"to":      {},
	"downto":  {},
	"entity":  {},
	"port":    {},
	"generic": {},
	"end":     {},
	"is":      {},
}

// isKeyword reports whether t is the reserved word kw (case-insensitive).
// With an empty kw any reserved word matches.
func (t token) isKeyword(kw string) bool {
	if t.kind != tokWord {
		return false
	}
	lower := strings.ToLower(t.text)
	if kw != "" {
		return lower == kw
	}
	_, ok := reserved[lower]
	return ok
}

// tokenize normalises text to NFC and splits it into tokens.
// Whitespace tokens are dropped; their presence is recorded on the
// following token. The returned slice always ends with a tokEOF token.
//
// A character literal directly after a word is the tick of an attribute
// or qualified expression, as in std_logic'('1'). It becomes a Punct
// tick and the text after it is lexed again.
func tokenize(filename, text string) ([]token, error) {
	text = norm.NFC.String(text)

	kinds := kindTable()
	ws := Lexer.Symbols()["Whitespace"]

	var tokens []token
	base := lexer.Position{Filename: filename, Line: 1, Column: 1}
	spaced := true
	for rest := text; ; {
		raw, err := lexAll(filename, rest, base)
		if err != nil {
			return nil, err
		}
		tick := false
		for _, t := range raw {
			if t.Type == ws {
				spaced = true
				continue
			}
			pos := shift(t.Pos, base)
			if t.EOF() {
				tokens = append(tokens, token{kind: tokEOF, pos: pos, end: pos.Offset, spaced: true})
				break
			}
			kind := kinds[t.Type]
			if kind == tokChar && !spaced && len(tokens) > 0 && tokens[len(tokens)-1].kind == tokWord {
				tokens = append(tokens, token{kind: tokPunct, text: "'", pos: pos, end: pos.Offset + 1})
				base = pos
				base.Offset++
				base.Column++
				rest = text[base.Offset:]
				tick = true
				break
			}
			tokens = append(tokens, token{
				kind:   kind,
				text:   t.Value,
				pos:    pos,
				end:    pos.Offset + len(t.Value),
				spaced: spaced,
			})
			spaced = false
		}
		if !tick {
			break
		}
		spaced = false
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].kind != tokEOF {
		tokens = append(tokens, token{kind: tokEOF, spaced: true})
	}
	return tokens, nil
}

func lexAll(filename, text string, base lexer.Position) ([]lexer.Token, error) {
	lex, err := Lexer.LexString(filename, text)
	if err != nil {
		return nil, err
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		var le *lexer.Error
		if errors.As(err, &le) {
			le.Pos = shift(le.Pos, base)
		}
		return nil, newSyntaxErrorFromLexer(err)
	}
	return raw, nil
}

// shift moves pos, relative to a slice of the input starting at base,
// back into the coordinates of the whole input.
func shift(pos, base lexer.Position) lexer.Position {
	if pos.Line == 1 {
		pos.Column += base.Column - 1
	}
	pos.Line += base.Line - 1
	pos.Offset += base.Offset
	pos.Filename = base.Filename
	return pos
}

func kindTable() map[lexer.TokenType]tokenKind {
	sym := Lexer.Symbols()
	return map[lexer.TokenType]tokenKind{
		sym["Comment"]:   tokComment,
		sym["String"]:    tokString,
		sym["Char"]:      tokChar,
		sym["Assign"]:    tokAssign,
		sym["Colon"]:     tokColon,
		sym["Semicolon"]: tokSemicolon,
		sym["LParen"]:    tokLParen,
		sym["RParen"]:    tokRParen,
		sym["Word"]:      tokWord,
		sym["Punct"]:     tokPunct,
	}
}
