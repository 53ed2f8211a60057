package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/source"
)

func commentElement(lines []*source.Line) *Comment {
	c := &Comment{node: node{kind: KindComment}}
	for _, l := range lines {
		if l.IsComment() {
			c.Text = append(c.Text, l.Comment())
			continue
		}
		c.Text = append(c.Text, l.Raw())
	}
	c.setSpan(lines[0].Number(), lines[len(lines)-1].Number())
	return c
}

func (p *Parser) parseCommentsAndBlanks() (Element, bool, error) {
	l := p.cursor.Peek()
	switch {
	case l.IsBlank():
		first := l.Number()
		for p.cursor.HasLines() && p.cursor.Peek().IsBlank() {
			p.cursor.Pop()
		}
		b := &Blank{node: node{kind: KindBlank}}
		b.setSpan(first, p.cursor.Last())
		return b, true, nil
	case l.IsComment():
		var lines []*source.Line
		for p.cursor.HasLines() && p.cursor.Peek().IsComment() {
			lines = append(lines, p.cursor.Pop())
		}
		return commentElement(lines), true, nil
	case l.StartsWithSequence(source.BlockCommentOpen):
		return p.parseBlockComment()
	}
	return nil, false, nil
}

// parseBlockComment consumes a /* */ comment. Code following the close on
// the same line is pushed back.
func (p *Parser) parseBlockComment() (Element, bool, error) {
	first := p.cursor.Peek()
	var lines []*source.Line
	from := len(source.BlockCommentOpen)
	for {
		l := p.cursor.Pop()
		if l == nil {
			return nil, false, p.fail(first, ErrTerminatorNotFound)
		}
		end := l.IndexFrom(source.BlockCommentClose, from)
		from = 0
		if end < 0 {
			lines = append(lines, l)
			if closesInComment(l) {
				return commentElement(lines), true, nil
			}
			continue
		}
		if end+2 < l.Len() {
			head, tail := l.SplitAt(end + 2)
			p.cursor.PushRemainder(tail)
			l = head
		}
		lines = append(lines, l)
		return commentElement(lines), true, nil
	}
}

// closesInComment reports whether a block comment closes inside the part of
// the line that was taken for a line comment, as in " * see http://x */".
func closesInComment(l *source.Line) bool {
	return strings.Contains(l.Comment(), source.BlockCommentClose)
}
