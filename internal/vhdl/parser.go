package vhdl

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	identRe    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	typeMarkRe = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)
)

// Parse returns the first well-formed entity declaration in text.
// It fails with *SyntaxError if there is none.
func Parse(text string) (*Entity, error) {
	toks, err := tokenize("", text)
	if err != nil {
		return nil, err
	}
	return parseEntity(toks)
}

// parseEntity tries every "entity" keyword in order and returns the first
// one that parses. The error of the first attempt is reported when all fail.
func parseEntity(toks []token) (*Entity, error) {
	var firstErr error
	for i, t := range toks {
		if !t.isKeyword("entity") {
			continue
		}
		p := &parser{toks: toks, pos: i}
		e, err := p.entity()
		if err == nil {
			return e, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "no well-formed entity declaration")
	}
	return nil, &SyntaxError{Message: "no entity declaration found"}
}

// parser is a recursive-descent parser over a token slice.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// prev returns the most recently consumed token.
func (p *parser) prev() token {
	if p.pos == 0 {
		return token{}
	}
	return p.toks[p.pos-1]
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, syntaxErrorf(t, "expected %s, found %s", kind, describe(t))
	}
	return p.next(), nil
}

func (p *parser) expectKeyword(kw string) (token, error) {
	t := p.peek()
	if !t.isKeyword(kw) {
		return t, syntaxErrorf(t, "expected %q, found %s", kw, describe(t))
	}
	return p.next(), nil
}

// standalone reports whether the comment at the current position is the
// first token on its line.
func (p *parser) standalone() bool {
	return p.pos == 0 || p.prev().pos.Line < p.peek().pos.Line
}

// skipComments consumes comment lines and returns them.
func (p *parser) skipComments() []Comment {
	var out []Comment
	for p.peek().kind == tokComment {
		t := p.next()
		out = append(out, Comment{Text: commentText(t.text), Line: t.pos.Line})
	}
	return out
}

// trailingComment consumes a comment on the same line as the previous
// token and returns its text.
func (p *parser) trailingComment() string {
	t := p.peek()
	if t.kind != tokComment || p.standalone() {
		return ""
	}
	p.next()
	return commentText(t.text)
}

// identifier consumes a plain identifier that is not a reserved word.
func (p *parser) identifier(what string, re *regexp.Regexp) (token, error) {
	t := p.peek()
	if t.kind != tokWord || t.isKeyword("") || !re.MatchString(t.text) {
		return t, syntaxErrorf(t, "expected %s, found %s", what, describe(t))
	}
	p.next()
	if n := p.peek(); n.isRun() && !n.spaced {
		return t, syntaxErrorf(t, "malformed %s %q", what, t.text+n.text)
	}
	return t, nil
}

func (p *parser) entity() (*Entity, error) {
	start, err := p.expectKeyword("entity")
	if err != nil {
		return nil, err
	}
	name, err := p.identifier("entity name", identRe)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("is"); err != nil {
		return nil, err
	}

	e := &Entity{Name: name.text, Pos: start.pos}
	p.skipComments()

	if p.peek().isKeyword("generic") {
		if e.Generics, err = p.genericClause(); err != nil {
			return nil, err
		}
		p.skipComments()
	}

	if p.peek().isKeyword("port") {
		if e.Ports, e.PortComments, err = p.portClause(); err != nil {
			return nil, err
		}
		p.trailingComment()
		p.skipComments()
	}

	if _, err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	if p.peek().isKeyword("entity") {
		p.next()
	}
	// The trailing name is not checked against the entity name.
	if t := p.peek(); t.kind == tokWord && !t.isKeyword("") {
		if _, err := p.identifier("entity name", identRe); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	if err := checkUnique(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) genericClause() ([]Generic, error) {
	p.next() // generic
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var generics []Generic
	for {
		p.skipComments()
		if p.peek().kind == tokRParen {
			break
		}
		g, err := p.generic()
		if err != nil {
			return nil, err
		}
		generics = append(generics, g)
	}
	if len(generics) == 0 {
		return nil, syntaxErrorf(p.peek(), "empty generic clause")
	}
	p.next() // )
	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}
	return generics, nil
}

func (p *parser) portClause() ([]Port, []Comment, error) {
	p.next() // port
	if _, err := p.expect(tokLParen); err != nil {
		return nil, nil, err
	}
	var (
		ports    []Port
		comments []Comment
		entries  int
	)
	for {
		t := p.peek()
		if t.kind == tokRParen {
			break
		}
		if t.kind == tokComment {
			comments = append(comments, p.skipComments()...)
			entries++
			continue
		}
		port, err := p.port()
		if err != nil {
			return nil, nil, err
		}
		ports = append(ports, port)
		entries++
	}
	if entries == 0 {
		return nil, nil, syntaxErrorf(p.peek(), "empty port clause")
	}
	p.next() // )
	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, nil, err
	}
	return ports, comments, nil
}

func (p *parser) generic() (Generic, error) {
	name, err := p.identifier("generic name", identRe)
	if err != nil {
		return Generic{}, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return Generic{}, err
	}
	typ, err := p.typeRef()
	if err != nil {
		return Generic{}, err
	}
	def, err := p.defaultValue()
	if err != nil {
		return Generic{}, err
	}
	if p.peek().kind == tokSemicolon {
		p.next()
	}
	return Generic{
		Name:    name.text,
		Type:    typ,
		Default: def,
		Comment: p.trailingComment(),
		Pos:     name.pos,
	}, nil
}

func (p *parser) port() (Port, error) {
	name, err := p.identifier("port name", identRe)
	if err != nil {
		return Port{}, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return Port{}, err
	}
	modeTok := p.peek()
	mode, ok := parseMode(modeTok)
	if !ok {
		return Port{}, syntaxErrorf(modeTok, "expected port direction, found %s", describe(modeTok))
	}
	p.next()
	typ, err := p.typeRef()
	if err != nil {
		return Port{}, err
	}
	def, err := p.defaultValue()
	if err != nil {
		return Port{}, err
	}
	if p.peek().kind == tokSemicolon {
		p.next()
	}
	return Port{
		Name:    name.text,
		Mode:    mode,
		Type:    typ,
		Default: def,
		Comment: p.trailingComment(),
		Pos:     name.pos,
	}, nil
}

func parseMode(t token) (PortMode, bool) {
	if t.kind != tokWord {
		return "", false
	}
	switch m := PortMode(strings.ToLower(t.text)); m {
	case ModeIn, ModeOut, ModeInOut, ModeBuffer:
		return m, true
	}
	return "", false
}

func (p *parser) defaultValue() (Expr, error) {
	if p.peek().kind != tokAssign {
		return nil, nil
	}
	p.next()
	at := p.peek()
	def, err := p.expr()
	if err != nil {
		return nil, err
	}
	if len(def) == 0 {
		return nil, syntaxErrorf(at, "expected default value, found %s", describe(at))
	}
	return def, nil
}

func (p *parser) typeRef() (TypeRef, error) {
	name, err := p.identifier("type name", typeMarkRe)
	if err != nil {
		return TypeRef{}, err
	}
	t := TypeRef{Name: name.text}
	if p.peek().kind == tokLParen {
		p.next()
		r, err := p.rangeBody()
		if err != nil {
			return TypeRef{}, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return TypeRef{}, err
		}
		t.Range = r
	}
	if n := p.peek(); n.kind == tokWord && strings.EqualFold(n.text, "range") {
		p.next()
		r, err := p.rangeBody()
		if err != nil {
			return TypeRef{}, err
		}
		t.Constraint = r
	}
	return t, nil
}

// rangeBody parses "left (to|downto) right".
func (p *parser) rangeBody() (*Range, error) {
	at := p.peek()
	left, err := p.expr()
	if err != nil {
		return nil, err
	}
	if len(left) == 0 {
		return nil, syntaxErrorf(at, "expected range bound, found %s", describe(at))
	}
	dirTok := p.peek()
	var dir RangeDir
	switch {
	case dirTok.isKeyword("to"):
		dir = To
	case dirTok.isKeyword("downto"):
		dir = Downto
	default:
		return nil, syntaxErrorf(dirTok, "illegal range direction %s", describe(dirTok))
	}
	p.next()
	at = p.peek()
	right, err := p.expr()
	if err != nil {
		return nil, err
	}
	if len(right) == 0 {
		return nil, syntaxErrorf(at, "expected range bound, found %s", describe(at))
	}
	return &Range{Left: left, Right: right, Dir: dir}, nil
}

// expr parses one or more unquoted runs or parenthesized groups.
// It stops, without consuming, at anything else; an empty result means no
// expression was present.
func (p *parser) expr() (Expr, error) {
	var e Expr
	for {
		t := p.peek()
		switch {
		case t.kind == tokLParen:
			g, err := p.group()
			if err != nil {
				return nil, err
			}
			e = append(e, g)
		case t.isRun() && !t.isKeyword(""):
			e = append(e, p.run())
		default:
			return e, nil
		}
	}
}

// run consumes adjacent run tokens into one leaf.
func (p *parser) run() Leaf {
	first := p.next()
	var b strings.Builder
	b.WriteString(first.text)
	for n := p.peek(); n.isRun() && !n.spaced && !n.isKeyword(""); n = p.peek() {
		b.WriteString(p.next().text)
	}
	return Leaf{Text: b.String(), Spaced: first.spaced}
}

// group parses "(" (group | keyword | run)+ ")".
func (p *parser) group() (Group, error) {
	open := p.next()
	var items []Node
	for {
		t := p.peek()
		switch {
		case t.kind == tokRParen:
			if len(items) == 0 {
				return Group{}, syntaxErrorf(t, "empty parentheses")
			}
			p.next()
			return Group{Items: items, Spaced: open.spaced}, nil
		case t.kind == tokLParen:
			g, err := p.group()
			if err != nil {
				return Group{}, err
			}
			items = append(items, g)
		case t.isKeyword(""):
			p.next()
			items = append(items, Leaf{Text: t.text, Spaced: t.spaced})
		case t.isRun():
			items = append(items, p.run())
		case t.kind == tokColon || t.kind == tokAssign:
			p.next()
			items = append(items, Leaf{Text: t.text, Spaced: t.spaced})
		case t.kind == tokComment:
			p.next()
		default:
			return Group{}, syntaxErrorf(t, "unbalanced parentheses: found %s", describe(t))
		}
	}
}

func checkUnique(e *Entity) error {
	seen := make(map[string]bool, len(e.Generics))
	for _, g := range e.Generics {
		key := strings.ToLower(g.Name)
		if seen[key] {
			return &SyntaxError{Message: "duplicate generic " + g.Name, Pos: g.Pos}
		}
		seen[key] = true
	}
	seen = make(map[string]bool, len(e.Ports))
	for _, port := range e.Ports {
		key := strings.ToLower(port.Name)
		if seen[key] {
			return &SyntaxError{Message: "duplicate port " + port.Name, Pos: port.Pos}
		}
		seen[key] = true
	}
	return nil
}

func commentText(raw string) string {
	return strings.TrimSuffix(strings.TrimPrefix(raw, "--"), "\r")
}

func describe(t token) string {
	switch t.kind {
	case tokEOF, tokComment:
		return t.kind.String()
	}
	return "\"" + t.text + "\""
}
