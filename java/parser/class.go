package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
)

// Class is any declared type: class, interface, enum, record, annotation
// type, local class or anonymous class. It is the datamap.Object other code
// resolves names against.
type Class struct {
	container
	Keyword    Keyword
	Modifiers  source.Modifiers
	Generics   []*datamap.GenericVariable
	Extends    []*datamap.Reference
	Implements []*datamap.Reference
	Permits    []*datamap.Reference
	Components []*Field
	Constants  []*EnumConstant

	name     string
	fullName string
	topLevel bool
}

func (c *Class) TypeKind() datamap.TypeKind { return datamap.KindObject }
func (c *Class) Name() string               { return c.name }
func (c *Class) FullName() string           { return c.fullName }
func (c *Class) IsPrivate() bool            { return c.Modifiers.IsPrivate() }
func (c *Class) IsTopLevel() bool           { return c.topLevel }

// Ancestors returns the extended types followed by the implemented ones.
func (c *Class) Ancestors() []*datamap.Reference {
	out := make([]*datamap.Reference, 0, len(c.Extends)+len(c.Implements))
	out = append(out, c.Extends...)
	return append(out, c.Implements...)
}

// Members returns the named member types. Local and anonymous classes are
// not members.
func (c *Class) Members() []datamap.Object {
	var out []datamap.Object
	for _, e := range c.contents {
		if m, ok := e.(*Class); ok && m.kind != KindLocalClass && m.kind != KindAnonymousClass {
			out = append(out, m)
		}
	}
	return out
}

func (c *Class) Methods() []*Method {
	var out []*Method
	for _, e := range c.contents {
		if m, ok := e.(*Method); ok {
			out = append(out, m)
		}
	}
	return out
}

func (c *Class) Fields() []*Field {
	var out []*Field
	for _, e := range c.contents {
		if f, ok := e.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// EnumConstant is one constant of an enum, with its raw arguments and an
// optional body.
type EnumConstant struct {
	node
	Name      string
	Arguments string
	Body      *Class
}

// typeKeyword reports which declaration starts the line and the word
// introducing it.
func typeKeyword(l *source.Line) (Kind, string, bool) {
	if l.StartsWithSequence("@interface") {
		return KindAnnotationType, "@interface", true
	}
	switch leadingKeyword(l) {
	case KeywordClass:
		return KindClass, "class", true
	case KeywordInterface:
		return KindInterface, "interface", true
	case KeywordEnum:
		return KindEnum, "enum", true
	case KeywordRecord:
		if isRecordHeader(l.String()) {
			return KindRecord, "record", true
		}
	}
	return 0, "", false
}

// isRecordHeader tells "record Point(int x) {" from a variable named record.
func isRecordHeader(s string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(s, "record"))
	name := identifierPrefix(rest)
	if name == "" || len(rest) == len(s)-len("record") {
		return false
	}
	rest = strings.TrimSpace(rest[len(name):])
	return strings.HasPrefix(rest, "(") || strings.HasPrefix(rest, "<")
}

func (p *Parser) parseTypeDeclaration() (Element, bool, error) {
	l := p.cursor.Peek()
	kind, word, ok := typeKeyword(l)
	if !ok {
		return nil, false, nil
	}
	first := l.Number()
	mods := l.Modifiers()
	lines, err := p.scanFor(source.BraceOpen)
	if err != nil {
		return nil, false, err
	}
	header := source.Join(lines)
	header.StripStartSequence(word)
	header.StripEndChar(source.BraceOpen)

	c, err := p.declareType(kind, word, header.String(), mods, first)
	if err != nil {
		return nil, false, err
	}
	body, err := p.extractBody()
	if err != nil {
		return nil, false, err
	}
	m := modeClass
	if kind == KindEnum {
		m = modeEnum
	}
	if err := p.child(c, body, m).parseAll(); err != nil {
		return nil, false, err
	}
	c.setSpan(first, p.cursor.Last())
	return c, true, nil
}

// declareType builds the Class for a header such as
// "Box<T extends Number> extends Base implements Shape", declares it in the
// enclosing scope and registers it with the project.
func (p *Parser) declareType(kind Kind, word, header string, mods source.Modifiers, line int) (*Class, error) {
	header = strings.TrimSpace(header)
	name := identifierPrefix(header)
	if name == "" {
		return nil, p.fail(nil, ErrUnrecognised)
	}
	rest := strings.TrimSpace(header[len(name):])

	var generics, components string
	if strings.HasPrefix(rest, "<") {
		end := matchClose(rest, 0)
		if end < 0 {
			return nil, &ParseError{File: p.ctx.path, Line: line, Err: ErrTerminatorNotFound}
		}
		generics = rest[1:end]
		rest = strings.TrimSpace(rest[end+1:])
	}
	if kind == KindRecord && strings.HasPrefix(rest, "(") {
		end := matchClose(rest, 0)
		if end < 0 {
			return nil, &ParseError{File: p.ctx.path, Line: line, Err: ErrTerminatorNotFound}
		}
		components = rest[1:end]
		rest = strings.TrimSpace(rest[end+1:])
	}

	if p.mode == modeBody {
		kind = KindLocalClass
	}
	c := &Class{
		container: newContainer(kind, p.owner, p.scope.Child()),
		Keyword:   LookupKeyword(strings.TrimPrefix(word, "@")),
		Modifiers: mods,
		name:      name,
		topLevel:  p.mode == modeFile,
	}
	enclosing := p.enclosingClass()
	switch {
	case c.topLevel || enclosing == nil:
		c.fullName = name
		if p.ctx.pkg != "" {
			c.fullName = p.ctx.pkg + "." + name
		}
	case kind == KindLocalClass:
		n := enclosing.scope.NextLocalIndex(name)
		c.fullName = fmt.Sprintf("%s$%d%s", enclosing.FullName(), n, name)
	default:
		c.fullName = enclosing.FullName() + "." + name
	}
	p.scope.DeclareObject(c)

	c.Generics = declareGenerics(c.scope, generics, line)
	clauses := splitClauses(rest)
	for _, t := range clauses[KeywordExtends] {
		c.Extends = append(c.Extends, c.scope.Reference(t, line))
	}
	for _, t := range clauses[KeywordImplements] {
		c.Implements = append(c.Implements, c.scope.Reference(t, line))
	}
	for _, t := range clauses[KeywordPermits] {
		c.Permits = append(c.Permits, c.scope.Reference(t, line))
	}
	for _, comp := range source.SplitTopLevel(components, source.Comma, true) {
		c.Components = append(c.Components, declareField(c.scope, comp, line))
	}

	if err := p.register(c, line); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) register(c *Class, line int) error {
	p.ctx.fs.AddObject(c)
	if err := p.ctx.registry.Register(c); err != nil {
		return &ParseError{File: p.ctx.path, Line: line, Err: err}
	}
	return nil
}

// newAnonymous creates the class for an anonymous body deriving from the
// written type ancestor. It is numbered within the enclosing named class.
func (p *Parser) newAnonymous(ancestor string, line int) (*Class, error) {
	c := &Class{
		container: newContainer(KindAnonymousClass, p.owner, p.scope.Child()),
		Keyword:   KeywordClass,
	}
	base, prefix := "", p.ctx.pkg
	if enclosing := p.enclosingClass(); enclosing != nil {
		base, prefix = enclosing.Name(), enclosing.FullName()
		n := enclosing.scope.NextLocalIndex("")
		c.name = base + "$" + strconv.Itoa(n)
		c.fullName = prefix + "$" + strconv.Itoa(n)
	} else {
		n := p.ctx.fs.Root().NextLocalIndex("")
		c.name = "$" + strconv.Itoa(n)
		c.fullName = prefix + c.name
	}
	c.Extends = []*datamap.Reference{p.scope.Reference(ancestor, line)}
	if err := p.register(c, line); err != nil {
		return nil, err
	}
	return c, nil
}

// declareGenerics declares every type parameter of text in scope before any
// bound is resolved, so "T extends Comparable<T>" binds T to itself.
func declareGenerics(scope *datamap.Map, text string, line int) []*datamap.GenericVariable {
	parts := source.SplitTopLevel(text, source.Comma, true)
	out := make([]*datamap.GenericVariable, 0, len(parts))
	bounds := make([]string, 0, len(parts))
	for _, part := range parts {
		part = skipAnnotations(part)
		name := identifierPrefix(part)
		if name == "" {
			continue
		}
		out = append(out, scope.DeclareGeneric(name, nil))
		_, bound, _ := strings.Cut(part[len(name):], "extends")
		bounds = append(bounds, bound)
	}
	for i, g := range out {
		for j, b := range source.SplitTopLevel(bounds[i], source.Ampersand, true) {
			ref := scope.Reference(b, line)
			if j == 0 {
				g.Bound = ref
			}
		}
	}
	return out
}

// splitClauses groups the written types of a header tail by the extends,
// implements and permits keywords introducing them.
func splitClauses(text string) map[Keyword][]string {
	clauses := make(map[Keyword][]string)
	current := KeywordNone
	var b strings.Builder
	flush := func() {
		if current != KeywordNone {
			clauses[current] = append(clauses[current], source.SplitTopLevel(b.String(), source.Comma, true)...)
		}
		b.Reset()
	}
	depth := 0
	for _, word := range strings.Fields(text) {
		if depth == 0 {
			if kw := LookupKeyword(word); kw == KeywordExtends || kw == KeywordImplements || kw == KeywordPermits {
				flush()
				current = kw
				continue
			}
		}
		depth += strings.Count(word, "<") - strings.Count(word, ">")
		b.WriteString(word)
		b.WriteByte(' ')
	}
	flush()
	return clauses
}

// parseEnumConstants reads one constant per call until the constant list
// ends at a ; or at the first line that is not a constant.
func (p *Parser) parseEnumConstants() (Element, bool, error) {
	if p.constantsDone {
		return nil, false, nil
	}
	l := p.cursor.Peek()
	if l.StartsWithChar(source.Semicolon) {
		p.cursor.Pop()
		l.StripStartChar(source.Semicolon)
		p.cursor.PushRemainder(l)
		p.constantsDone = true
		return nil, true, nil
	}
	name := leadingWord(l)
	if name == "" || LookupKeyword(name) != KeywordNone || !source.IsIdentifierStart([]rune(name)[0]) {
		p.constantsDone = true
		return nil, false, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(l.String(), name))
	if rest != "" && !strings.HasPrefix(rest, "(") && !strings.HasPrefix(rest, "{") &&
		!strings.HasPrefix(rest, ",") && !strings.HasPrefix(rest, ";") {
		p.constantsDone = true
		return nil, false, nil
	}

	enum, _ := p.owner.(*Class)
	p.cursor.Pop()
	first := l.Number()
	l.StripStartSequence(name)
	ec := &EnumConstant{node: node{kind: KindEnumConstant}, Name: name}

	if l.StartsWithChar(source.ParenOpen) {
		p.cursor.PushRemainder(l)
		var err error
		if ec.Arguments, l, err = p.scanParens(); err != nil {
			return nil, false, err
		}
	}
	if l.StartsWithChar(source.BraceOpen) {
		l.StripStartChar(source.BraceOpen)
		p.cursor.PushRemainder(l)
		ancestor := ""
		if enum != nil {
			ancestor = enum.Name()
		}
		body, err := p.newAnonymous(ancestor, first)
		if err != nil {
			return nil, false, err
		}
		lines, err := p.extractBody()
		if err != nil {
			return nil, false, err
		}
		if err := p.child(body, lines, modeClass).parseAll(); err != nil {
			return nil, false, err
		}
		body.setSpan(first, p.cursor.Last())
		ec.Body = body
		l = nil
	}
	p.endConstant(l)

	if enum != nil {
		enum.Constants = append(enum.Constants, ec)
		enum.scope.DeclareVariable(name, enum.scope.Reference(enum.Name(), first))
	}
	ec.setSpan(first, p.cursor.Last())
	return ec, true, nil
}

// endConstant consumes the separator after a constant, which may sit on the
// constant's line or start the next one.
func (p *Parser) endConstant(rest *source.Line) {
	if rest == nil || rest.IsEmpty() {
		next := p.cursor.Peek()
		if next == nil || !(next.StartsWithChar(source.Comma) || next.StartsWithChar(source.Semicolon)) {
			p.constantsDone = true
			return
		}
		rest = p.cursor.Pop()
	}
	switch {
	case rest.StripStartChar(source.Comma):
	case rest.StripStartChar(source.Semicolon):
		p.constantsDone = true
	default:
		p.constantsDone = true
	}
	p.cursor.PushRemainder(rest)
}

// parseInitializer reads a static or instance initializer block.
func (p *Parser) parseInitializer() (Element, bool, error) {
	l := p.cursor.Peek()
	if !l.StartsWithChar(source.BraceOpen) {
		return nil, false, nil
	}
	first := l.Number()
	b := &Block{
		container: newContainer(KindBlock, p.owner, p.scope.Child()),
		Static:    l.Modifiers().IsStatic(),
	}
	if err := p.parseBlockBody(b, true); err != nil {
		return nil, false, err
	}
	b.setSpan(first, p.cursor.Last())
	return b, true, nil
}
