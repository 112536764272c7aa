package vhdl

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseFile parses the entity declaration of text and scans the whole file
// for use statements and comment lines.
func ParseFile(name, text string) (*File, error) {
	toks, err := tokenize(name, text)
	if err != nil {
		return nil, err
	}
	e, err := parseEntity(toks)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", displayName(name))
	}
	return &File{
		Name:     name,
		Entity:   *e,
		Uses:     scanUses(toks),
		Comments: scanComments(toks),
	}, nil
}

// ScanUseStatements returns every "use lib.element.object" in text, in
// source order. It is not anchored to the entity declaration.
func ScanUseStatements(text string) ([]UseStatement, error) {
	toks, err := tokenize("", text)
	if err != nil {
		return nil, err
	}
	return scanUses(toks), nil
}

// ScanCommentLines returns every comment that is the first token on its
// line, in source order.
func ScanCommentLines(text string) ([]Comment, error) {
	toks, err := tokenize("", text)
	if err != nil {
		return nil, err
	}
	return scanComments(toks), nil
}

func scanUses(toks []token) []UseStatement {
	var uses []UseStatement
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokWord || !strings.EqualFold(t.text, "use") {
			continue
		}
		if n := toks[i+1]; !n.spaced {
			continue
		}
		var b strings.Builder
		j := i + 1
		for ; toks[j].kind == tokWord && !toks[j].isKeyword(""); j++ {
			b.WriteString(toks[j].text)
		}
		parts := strings.Split(b.String(), ".")
		if len(parts) != 3 || !allIdents(parts) {
			continue
		}
		uses = append(uses, UseStatement{Library: parts[0], Element: parts[1], Object: parts[2]})
		i = j - 1
	}
	return uses
}

func scanComments(toks []token) []Comment {
	var out []Comment
	for i, t := range toks {
		if t.kind != tokComment {
			continue
		}
		if i > 0 && toks[i-1].pos.Line == t.pos.Line {
			continue
		}
		out = append(out, Comment{Text: commentText(t.text), Line: t.pos.Line})
	}
	return out
}

func allIdents(parts []string) bool {
	for _, p := range parts {
		if !identRe.MatchString(p) {
			return false
		}
	}
	return true
}

func displayName(name string) string {
	if name == "" {
		return "<input>"
	}
	return name
}
