package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/source"
)

type Switch struct {
	container
	Selector string
}

// Cases returns the case groups of the switch.
func (s *Switch) Cases() []*Case {
	var out []*Case
	for _, e := range s.contents {
		if c, ok := e.(*Case); ok {
			out = append(out, c)
		}
	}
	return out
}

// Case is a group of labels sharing one body. Consecutive labels with no
// statement between them belong to the same Case.
type Case struct {
	container
	Labels  []string
	Default bool
	Arrow   bool
}

type label struct {
	values    []string
	isDefault bool
	arrow     bool
}

func (p *Parser) parseSwitch() (Element, error) {
	sel, first, err := p.header(KeywordSwitch)
	if err != nil {
		return nil, err
	}
	p.checkCondition(KindSwitch, sel, first)
	s := &Switch{container: newContainer(KindSwitch, p.owner, p.scope.Child()), Selector: sel}

	for p.cursor.HasLines() && p.cursor.Peek().IsEmpty() {
		p.cursor.Pop()
	}
	l := p.cursor.Peek()
	if l == nil || !l.StartsWithChar(source.BraceOpen) {
		return nil, p.fail(l, ErrUnrecognised)
	}
	p.cursor.Pop()
	l.StripStartChar(source.BraceOpen)
	p.cursor.PushRemainder(l)
	body, err := p.extractBody()
	if err != nil {
		return nil, err
	}
	if err := p.child(s, body, modeBody).parseCases(s); err != nil {
		return nil, err
	}
	s.setSpan(first, p.cursor.Last())
	return s, nil
}

// parseCases splits a switch body into Case groups. Labels directly
// following a label, with only comments between, are absorbed into the same
// group. Once a group has a statement, the next label starts a new group.
func (p *Parser) parseCases(s *Switch) error {
	for p.cursor.HasLines() {
		l := p.cursor.Peek()
		first := l.Number()
		lab, ok, err := p.readLabel()
		if err != nil {
			return err
		}
		if !ok {
			e, err := p.next()
			if err != nil {
				return err
			}
			if e != nil {
				s.add(e)
			}
			continue
		}

		c := &Case{container: newContainer(KindCase, s, s.scope.Child())}
		c.addLabel(lab)
		q := newParser(p.ctx, p.cursor, c, modeBody)
		if lab.arrow {
			if err := q.parseBlockBody(c, false); err != nil {
				return err
			}
			c.setSpan(first, p.cursor.Last())
			s.add(c)
			continue
		}

		lookingForCase := true
		for p.cursor.HasLines() {
			if lookingForCase {
				more, ok, err := p.absorbLabel()
				if err != nil {
					return err
				}
				if ok {
					c.addLabel(more)
					continue
				}
			} else if isLabel(p.cursor.Peek()) {
				break
			}
			e, err := q.next()
			if err != nil {
				return err
			}
			if e == nil {
				continue
			}
			c.add(e)
			if e.Kind() != KindComment && e.Kind() != KindBlank {
				lookingForCase = false
			}
		}
		c.setSpan(first, p.cursor.Last())
		s.add(c)
	}
	return nil
}

func (c *Case) addLabel(lab label) {
	c.Labels = append(c.Labels, lab.values...)
	c.Default = c.Default || lab.isDefault
	c.Arrow = lab.arrow
}

// absorbLabel speculatively reads a colon label; the queue is restored when
// none follows.
func (p *Parser) absorbLabel() (label, bool, error) {
	if !isLabel(p.cursor.Peek()) {
		return label{}, false, nil
	}
	saved := p.cursor.snapshot()
	lab, ok, err := p.readLabel()
	if err != nil || !ok || lab.arrow {
		p.cursor.restore(saved)
		return label{}, false, nil
	}
	return lab, true, nil
}

// isLabel reports whether l starts with a case or default label.
func isLabel(l *source.Line) bool {
	if l == nil {
		return false
	}
	switch leadingKeyword(l) {
	case KeywordCase:
		return true
	case KeywordDefault:
		rest := strings.TrimSpace(strings.TrimPrefix(l.String(), "default"))
		return strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, source.LambdaArrow)
	}
	return false
}

// readLabel consumes "case A, B:", "case A ->" or "default:" at the front of
// the queue. The statement following the label on the same line stays
// queued.
func (p *Parser) readLabel() (label, bool, error) {
	l := p.cursor.Peek()
	if !isLabel(l) {
		return label{}, false, nil
	}
	kw := leadingKeyword(l)
	l.Mark()
	l.StripStartSequence(kw.String())
	s := l.String()
	sep, width := labelEnd(s)
	if sep < 0 {
		l.Reset()
		return label{}, false, p.fail(l, ErrTerminatorNotFound)
	}
	p.cursor.Pop()
	lab := label{isDefault: kw == KeywordDefault, arrow: width == 2}
	if !lab.isDefault {
		lab.values = source.SplitTopLevel(s[:sep], source.Comma, false)
	}
	l.StripStartSequence(s[:sep+width])
	l.StripModifiers()
	p.cursor.PushRemainder(l)
	return lab, true, nil
}

// labelEnd finds the : or -> closing a label. It returns its index and
// width, or -1.
func labelEnd(s string) (int, int) {
	arrow := strings.Index(s, source.LambdaArrow)
	colon := topLevelColon(s)
	switch {
	case colon >= 0 && (arrow < 0 || colon < arrow):
		return colon, 1
	case arrow >= 0:
		return arrow, 2
	}
	return -1, 0
}
