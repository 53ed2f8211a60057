package parser

import "github.com/dhamidi/themis/java/source"

// parseStatement reads one statement up to its ;. Several statements on one
// line are split first so each becomes its own element.
func (p *Parser) parseStatement() (Element, bool, error) {
	l := p.splitLine()
	first := l.Number()
	kw := leadingKeyword(l)
	if !kw.IsControl() {
		kw = KeywordNone
	}
	lines, err := p.scanFor(source.Semicolon)
	if err != nil {
		return nil, false, err
	}
	s := &Statement{
		node:    node{kind: KindStatement},
		Keyword: kw,
		Text:    source.Join(lines).String(),
	}
	s.Casts = castReferences(p.scope, s.Text, first)
	s.setSpan(first, p.cursor.Last())
	return s, true, nil
}

// splitLine queues the statements of a line holding several of them one by
// one and returns the first.
func (p *Parser) splitLine() *source.Line {
	l := p.cursor.Peek()
	i := l.FindTopLevel(source.Semicolon)
	if i < 0 || i == l.Len()-1 {
		return l
	}
	p.cursor.Pop()
	head, tail := l.SplitAt(i + 1)
	p.cursor.PushRemainder(tail)
	p.cursor.PushRemainder(head)
	return head
}
