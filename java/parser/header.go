package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/source"
)

func (p *Parser) parsePackage() (Element, bool, error) {
	if leadingKeyword(p.cursor.Peek()) != KeywordPackage {
		return nil, false, nil
	}
	first := p.cursor.Peek().Number()
	lines, err := p.scanFor(source.Semicolon)
	if err != nil {
		return nil, false, err
	}
	l := source.Join(lines)
	stripKeyword(l, KeywordPackage)
	l.StripEndChar(source.Semicolon)
	name := compact(l.String())

	p.ctx.pkg = name
	p.ctx.fs.SetPackage(name)
	p.ctx.file.Package = name

	e := &Package{node: node{kind: KindPackage}, Name: name}
	e.setSpan(first, p.cursor.Last())
	return e, true, nil
}

func (p *Parser) parseImport() (Element, bool, error) {
	if leadingKeyword(p.cursor.Peek()) != KeywordImport {
		return nil, false, nil
	}
	first := p.cursor.Peek().Number()
	lines, err := p.scanFor(source.Semicolon)
	if err != nil {
		return nil, false, err
	}
	l := source.Join(lines)
	stripKeyword(l, KeywordImport)
	static := stripKeyword(l, KeywordStatic)
	l.StripEndChar(source.Semicolon)
	name := compact(l.String())

	e := &Import{
		node:     node{kind: KindImport},
		Name:     name,
		Static:   static,
		Wildcard: strings.HasSuffix(name, ".*"),
	}
	e.setSpan(first, p.cursor.Last())
	p.ctx.fs.Import(name, static)
	p.ctx.file.Imports = append(p.ctx.file.Imports, e)
	return e, true, nil
}

// parseAnnotation consumes an annotation with its arguments, which may span
// lines. Whatever follows on the line is queued again with its modifiers
// stripped.
func (p *Parser) parseAnnotation() (Element, bool, error) {
	l := p.cursor.Peek()
	if !l.StartsWithChar(source.AtSign) || l.StartsWithSequence("@interface") {
		return nil, false, nil
	}
	p.cursor.Pop()
	first := l.Number()
	l.StripStartChar(source.AtSign)
	name := qualifiedPrefix(l.String())
	l.StripStartSequence(name)

	var args string
	if l.StartsWithChar(source.ParenOpen) {
		p.cursor.PushRemainder(l)
		var err error
		if args, err = p.scanCondition(); err != nil {
			return nil, false, err
		}
	} else {
		l.StripModifiers()
		p.cursor.PushRemainder(l)
	}

	a := &Annotation{
		node:      node{kind: KindAnnotation},
		Name:      name,
		Arguments: args,
		Type:      p.scope.Reference(name, first),
	}
	a.setSpan(first, p.cursor.Last())
	return a, true, nil
}

// qualifiedPrefix returns the dotted identifier at the start of s.
func qualifiedPrefix(s string) string {
	for i, r := range s {
		if !source.IsIdentifierPart(r) && r != source.Period {
			return s[:i]
		}
	}
	return s
}

// compact removes all whitespace from s.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
