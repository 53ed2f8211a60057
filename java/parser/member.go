package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
)

// Method is a method or constructor. The body stays as raw lines until
// PostProcess.
type Method struct {
	container
	Name       string
	Modifiers  source.Modifiers
	Generics   []*datamap.GenericVariable
	Returns    *datamap.Reference
	Parameters []*Field
	Throws     []*datamap.Reference
	Default    string
	HasBody    bool
}

// Field declares one or more variables of a single type: a class field, a
// local variable, a parameter, a record component, a loop variable or a
// try resource.
type Field struct {
	node
	Modifiers   source.Modifiers
	Type        *datamap.Reference
	Names       []string
	Initializer string
	Embedded    *Embedded
	Casts       []*datamap.Reference
}

// parseMember reads a method, constructor or field of a class body.
func (p *Parser) parseMember() (Element, bool, error) {
	l := p.cursor.Peek()
	s := l.String()
	if p.isCompactConstructor(s) || isMethodHeader(s) {
		return p.parseMethod()
	}
	if e, ok, err := p.parseEmbedded(); ok || err != nil {
		return e, ok, err
	}
	l = p.splitLine()
	first := l.Number()
	mods := l.Modifiers()
	lines, err := p.scanFor(source.Semicolon)
	if err != nil {
		return nil, false, err
	}
	text := source.Join(lines)
	text.StripEndChar(source.Semicolon)
	f := parseFieldText(p.scope, text.String(), first)
	f.Modifiers = mods
	f.setSpan(first, p.cursor.Last())
	return f, true, nil
}

// isMethodHeader reports whether a parameter list opens before any
// initializer.
func isMethodHeader(s string) bool {
	paren := strings.IndexByte(s, source.ParenOpen)
	if paren < 0 {
		return false
	}
	eq := topLevelAssign(s)
	return eq < 0 || paren < eq
}

// isCompactConstructor matches "Point {" inside record Point.
func (p *Parser) isCompactConstructor(s string) bool {
	rec, ok := p.owner.(*Class)
	if !ok || rec.kind != KindRecord {
		return false
	}
	rest, ok := strings.CutPrefix(s, rec.Name())
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	return rest == "" || strings.HasPrefix(rest, "{")
}

func (p *Parser) parseMethod() (Element, bool, error) {
	l := p.cursor.Peek()
	first := l.Number()
	owner, _ := p.owner.(*Class)

	var lines []*source.Line
	var err error
	if owner != nil && owner.kind == KindAnnotationType {
		lines, err = p.scanFor(source.Semicolon)
	} else {
		lines, err = p.scanFor(source.BraceOpen, source.Semicolon)
	}
	if err != nil {
		return nil, false, err
	}
	header := source.Join(lines)
	hasBody := header.StripEndChar(source.BraceOpen)
	if !hasBody {
		header.StripEndChar(source.Semicolon)
	}

	m := &Method{
		container: newContainer(KindMethod, p.owner, p.scope.Child()),
		Modifiers: l.Modifiers(),
		HasBody:   hasBody,
	}
	if err := p.methodHeader(m, header.String(), first); err != nil {
		return nil, false, err
	}
	if hasBody {
		body, err := p.extractBody()
		if err != nil {
			return nil, false, err
		}
		m.setDeferred(body)
	}
	m.setSpan(first, p.cursor.Last())
	return m, true, nil
}

// methodHeader fills m from text such as
// "<T> List<T> copy(List<? extends T> in, int n) throws IOException".
func (p *Parser) methodHeader(m *Method, text string, line int) error {
	text = strings.TrimSpace(text)
	var generics string
	if strings.HasPrefix(text, "<") {
		end := matchClose(text, 0)
		if end < 0 {
			return &ParseError{File: p.ctx.path, Line: line, Err: ErrTerminatorNotFound}
		}
		generics = text[1:end]
		text = strings.TrimSpace(text[end+1:])
	}
	m.Generics = declareGenerics(m.scope, generics, line)

	open := strings.IndexByte(text, source.ParenOpen)
	if open < 0 {
		// compact record constructor
		m.kind = KindConstructor
		m.Name = identifierPrefix(text)
		return nil
	}
	end := matchClose(text, open)
	if end < 0 {
		return &ParseError{File: p.ctx.path, Line: line, Err: ErrTerminatorNotFound}
	}
	typ, name := splitDeclarator(text[:open])
	if name == "" {
		m.kind = KindConstructor
		m.Name = typ
	} else {
		m.Name = name
		m.Returns = m.scope.Reference(typ, line)
	}
	for _, param := range source.SplitTopLevel(text[open+1:end], source.Comma, true) {
		m.Parameters = append(m.Parameters, declareField(m.scope, param, line))
	}

	after := strings.TrimSpace(text[end+1:])
	if before, def, ok := strings.Cut(after, "default"); ok {
		m.Default = strings.TrimSpace(def)
		after = strings.TrimSpace(before)
	}
	if throws, ok := strings.CutPrefix(after, "throws"); ok {
		for _, t := range source.SplitTopLevel(throws, source.Comma, true) {
			m.Throws = append(m.Throws, m.scope.Reference(t, line))
		}
	}
	return nil
}

// declareField builds a Field from one declarator such as
// "final Map<K, V> cache = new HashMap<>()" and declares its variable.
func declareField(scope *datamap.Map, decl string, line int) *Field {
	decl = stripDeclModifiers(decl)
	var init string
	if i := topLevelAssign(decl); i >= 0 {
		init = strings.TrimSpace(decl[i+1:])
		decl = strings.TrimSpace(decl[:i])
	}
	typ, name := splitDeclarator(decl)
	f := &Field{
		node:        node{kind: KindField},
		Type:        scope.Reference(typ, line),
		Initializer: init,
		Casts:       castReferences(scope, init, line),
	}
	if name != "" {
		f.Names = []string{name}
		scope.DeclareVariable(name, f.Type)
	}
	f.setSpan(line, line)
	return f
}

// parseFieldText handles a declaration with several declarators, as in
// "int a = 1, b, c[]". Names after the first share its type.
func parseFieldText(scope *datamap.Map, text string, line int) *Field {
	parts := source.SplitTopLevel(text, source.Comma, true)
	if len(parts) == 0 {
		return declareField(scope, text, line)
	}
	f := declareField(scope, parts[0], line)
	for _, part := range parts[1:] {
		if i := topLevelAssign(part); i >= 0 {
			f.Casts = append(f.Casts, castReferences(scope, part[i+1:], line)...)
			part = part[:i]
		}
		part = strings.TrimSpace(strings.ReplaceAll(part, "[]", ""))
		if !source.IsIdentifier(part) {
			continue
		}
		f.Names = append(f.Names, part)
		scope.DeclareVariable(part, f.Type)
	}
	return f
}

// topLevelAssign returns the index of the first assignment = outside
// literals and nesting, or -1. Comparison operators are skipped.
func topLevelAssign(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\'':
			for j := i + 1; j < len(s); j++ {
				if s[j] == '\\' {
					j++
					continue
				}
				if s[j] == c {
					i = j
					break
				}
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("=!<>+-*/%&|^", s[i-1]) >= 0 {
				continue
			}
			return i
		}
	}
	return -1
}

// isLocalDeclaration reports whether s starts a local variable declaration:
// a type that is not a keyword other than a primitive, optional type
// arguments and array brackets, then a name followed by = ; , : [ or the end.
func isLocalDeclaration(s string) bool {
	s = skipAnnotations(s)
	word := qualifiedPrefix(s)
	if word == "" || strings.HasSuffix(word, ".") {
		return false
	}
	if kw := LookupKeyword(word); kw != KeywordNone && !kw.IsPrimitive() {
		return false
	}
	rest := s[len(word):]
	if strings.HasPrefix(rest, "<") {
		end := matchClose(rest, 0)
		if end < 0 {
			return false
		}
		rest = rest[end+1:]
	}
	rest = strings.TrimSpace(rest)
	for strings.HasPrefix(rest, "[]") {
		rest = strings.TrimSpace(rest[2:])
	}
	name := identifierPrefix(rest)
	if name == "" || LookupKeyword(name) != KeywordNone {
		return false
	}
	after := strings.TrimSpace(rest[len(name):])
	return after == "" || strings.IndexByte("=;,:[", after[0]) >= 0
}

func (p *Parser) parseLocalVariable() (Element, bool, error) {
	l := p.cursor.Peek()
	if !isLocalDeclaration(l.String()) {
		return nil, false, nil
	}
	l = p.splitLine()
	first := l.Number()
	mods := l.Modifiers()
	lines, err := p.scanFor(source.Semicolon)
	if err != nil {
		return nil, false, err
	}
	text := source.Join(lines)
	text.StripEndChar(source.Semicolon)
	f := parseFieldText(p.scope, text.String(), first)
	f.Modifiers = mods
	f.setSpan(first, p.cursor.Last())
	return f, true, nil
}
