package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
)

// Try is a try statement. Resources are declared in its scope.
type Try struct {
	container
	Resources []*Field
	Catches   []*Catch
	Finally   *Finally
}

// Catch lists the caught types; a multi-catch has more than one.
type Catch struct {
	container
	Types []*datamap.Reference
	Name  string
}

type Finally struct {
	container
}

func (p *Parser) parseTry() (Element, error) {
	l := p.cursor.Pop()
	first := l.Number()
	stripKeyword(l, KeywordTry)
	p.cursor.PushRemainder(l)
	t := &Try{container: newContainer(KindTry, p.owner, p.scope.Child())}

	if next := p.cursor.Peek(); next != nil && next.StartsWithChar(source.ParenOpen) {
		res, err := p.scanCondition()
		if err != nil {
			return nil, err
		}
		for _, r := range source.SplitTopLevel(res, source.Semicolon, true) {
			if isLocalDeclaration(stripDeclModifiers(r)) {
				t.Resources = append(t.Resources, declareField(t.scope, r, first))
			}
		}
	}
	if err := p.parseBlockBody(t, false); err != nil {
		return nil, err
	}
	t.setSpan(first, p.cursor.Last())

	for {
		line, ok := p.processExtra(KeywordCatch)
		if !ok {
			break
		}
		text, err := p.scanCondition()
		if err != nil {
			return nil, err
		}
		c := &Catch{container: newContainer(KindCatch, t, p.scope.Child())}
		types, name := splitDeclarator(stripDeclModifiers(text))
		c.Name = name
		for _, typ := range strings.Split(types, string(source.Pipe)) {
			if typ = strings.TrimSpace(typ); typ != "" {
				c.Types = append(c.Types, c.scope.Reference(typ, line))
			}
		}
		if len(c.Types) > 0 && name != "" {
			c.scope.DeclareVariable(name, c.Types[0])
		}
		if err := p.parseBlockBody(c, false); err != nil {
			return nil, err
		}
		c.setSpan(line, p.cursor.Last())
		t.Catches = append(t.Catches, c)
	}

	if line, ok := p.processExtra(KeywordFinally); ok {
		f := &Finally{container: newContainer(KindFinally, t, p.scope.Child())}
		if err := p.parseBlockBody(f, false); err != nil {
			return nil, err
		}
		f.setSpan(line, p.cursor.Last())
		t.Finally = f
	}
	return t, nil
}
