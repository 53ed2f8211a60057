package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
)

// Lambda is a lambda expression with a block body.
type Lambda struct {
	container
	Parameters string
}

// Embedded is a statement or initializer carrying lambda or anonymous class
// bodies. Its contents are those bodies in source order. Head is the text
// before the first body and Trailer the text after the last one.
type Embedded struct {
	container
	Head    string
	Trailer string
	Casts   []*datamap.Reference
}

type embeddedHeader struct {
	lambda   bool
	params   string
	ancestor string
	start    int
}

// findEmbeddedHeader recognises a line ending with the start of a lambda
// body, "(a, b) -> {", or of an anonymous class, "new Type<>(args) {".
func findEmbeddedHeader(s string) (embeddedHeader, bool) {
	if !strings.HasSuffix(s, "{") {
		return embeddedHeader{}, false
	}
	before := strings.TrimSpace(s[:len(s)-1])
	if params, ok := strings.CutSuffix(before, source.LambdaArrow); ok {
		params = strings.TrimSpace(params)
		start := len(params)
		if strings.HasSuffix(params, ")") {
			start = matchOpen(params, len(params)-1)
		} else {
			for start > 0 && source.IsIdentifierPart(rune(params[start-1])) {
				start--
			}
			if start == len(params) {
				start = -1
			}
		}
		if start < 0 {
			return embeddedHeader{}, false
		}
		text := strings.TrimSuffix(strings.TrimPrefix(params[start:], "("), ")")
		return embeddedHeader{lambda: true, params: strings.TrimSpace(text), start: start}, true
	}
	return anonymousHeader(before)
}

// anonymousHeader parses "new Type<Args>(args)" backwards from the end of s.
func anonymousHeader(s string) (embeddedHeader, bool) {
	if !strings.HasSuffix(s, ")") {
		return embeddedHeader{}, false
	}
	open := matchOpen(s, len(s)-1)
	if open < 0 {
		return embeddedHeader{}, false
	}
	typ := strings.TrimSpace(s[:open])
	end := len(typ)
	if strings.HasSuffix(typ, ">") {
		end = matchOpen(typ, len(typ)-1)
		if end < 0 {
			return embeddedHeader{}, false
		}
	}
	start := end
	for start > 0 && (source.IsIdentifierPart(rune(typ[start-1])) || typ[start-1] == source.Period) {
		start--
	}
	if start == end {
		return embeddedHeader{}, false
	}
	prefix := strings.TrimSpace(typ[:start])
	if !strings.HasSuffix(prefix, "new") {
		return embeddedHeader{}, false
	}
	n := len(prefix) - len("new")
	if n > 0 && source.IsIdentifierPart(rune(prefix[n-1])) {
		return embeddedHeader{}, false
	}
	return embeddedHeader{ancestor: typ[start:], start: n}, true
}

// matchOpen returns the index of the bracket opening the one at close,
// searching backwards and skipping string literals, or -1.
func matchOpen(s string, close int) int {
	closer := s[close]
	opener := byte(source.ParenOpen)
	if closer == source.GenericClose {
		opener = source.GenericOpen
	}
	depth := 0
	for i := close; i >= 0; i-- {
		switch s[i] {
		case '"':
			for i--; i >= 0 && (s[i] != '"' || (i > 0 && s[i-1] == '\\')); i-- {
			}
		case closer:
			depth++
		case opener:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseEmbedded reads a statement or initializer whose first line opens an
// embedded body. Further bodies may follow; the trailer must reach a line
// ending with ; and every line after a body must continue the expression. When the head declares a variable the result is a Field
// carrying the Embedded.
func (p *Parser) parseEmbedded() (Element, bool, error) {
	l := p.cursor.Peek()
	if _, ok := findEmbeddedHeader(l.String()); !ok {
		return nil, false, nil
	}
	first := l.Number()
	mods := l.Modifiers()
	e := &Embedded{container: newContainer(KindEmbedded, p.owner, p.scope.Child())}

	var trailer []string
	prev := ""
	for {
		l := p.cursor.Pop()
		if l == nil {
			return nil, false, &ParseError{File: p.ctx.path, Line: first, Err: ErrInvalidEmbedded}
		}
		s := l.String()
		if len(e.contents) > 0 && !l.IsEmpty() && !continuesExpression(prev, s) {
			return nil, false, &ParseError{File: p.ctx.path, Line: first, Err: ErrInvalidEmbedded}
		}
		if !l.IsEmpty() {
			prev = s
		}
		if h, ok := findEmbeddedHeader(s); ok {
			prefix := strings.TrimSpace(s[:h.start])
			if len(e.contents) == 0 {
				e.Head = prefix
			} else if prefix != "" {
				trailer = append(trailer, prefix)
			}
			if err := p.embeddedItem(e, h, l.Number()); err != nil {
				return nil, false, err
			}
			continue
		}
		if !l.IsEmpty() {
			trailer = append(trailer, s)
		}
		if l.EndsWithChar(source.Semicolon) {
			break
		}
	}
	e.Trailer = strings.Join(trailer, " ")
	e.setSpan(first, p.cursor.Last())
	e.Casts = castReferences(p.scope, e.Head, first)
	e.Casts = append(e.Casts, castReferences(p.scope, e.Trailer, p.cursor.Last())...)

	if i := topLevelAssign(e.Head); i >= 0 {
		decl := e.Head[:i]
		if p.mode != modeBody || isLocalDeclaration(decl) {
			f := declareField(p.scope, decl, first)
			f.Modifiers = mods
			f.Initializer = strings.TrimSpace(e.Head[i+1:])
			f.Embedded = e
			f.setSpan(first, p.cursor.Last())
			return f, true, nil
		}
	}
	return e, true, nil
}

// continuesExpression reports whether s, read after an embedded body, carries
// on the expression that prev was part of rather than starting a new
// statement.
func continuesExpression(prev, s string) bool {
	if strings.ContainsRune(")],.;?:+-*/%&|^=<>!", rune(s[0])) {
		return true
	}
	prev = strings.TrimSpace(prev)
	if prev == "" {
		return false
	}
	return strings.ContainsRune("(,.[?:+-*/%&|^=<>!", rune(prev[len(prev)-1]))
}

// embeddedItem reads one lambda or anonymous class body into e. Lambda
// bodies found in class bodies are deferred like method bodies.
func (p *Parser) embeddedItem(e *Embedded, h embeddedHeader, line int) error {
	body, err := p.extractBody()
	if err != nil {
		return err
	}
	if !h.lambda {
		q := newParser(p.ctx, p.cursor, e, p.mode)
		c, err := q.newAnonymous(h.ancestor, line)
		if err != nil {
			return err
		}
		if err := p.child(c, body, modeClass).parseAll(); err != nil {
			return err
		}
		c.setSpan(line, p.cursor.Last())
		e.add(c)
		return nil
	}

	lam := &Lambda{
		container:  newContainer(KindLambda, e, e.scope.Child()),
		Parameters: h.params,
	}
	for _, param := range source.SplitTopLevel(h.params, source.Comma, true) {
		if strings.ContainsAny(param, " \t") {
			declareField(lam.scope, param, line)
		}
	}
	if p.mode == modeBody {
		if err := p.child(lam, body, modeBody).parseAll(); err != nil {
			return err
		}
	} else {
		lam.setDeferred(body)
	}
	lam.setSpan(line, p.cursor.Last())
	e.add(lam)
	return nil
}
