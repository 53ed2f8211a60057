package parser

import (
	"iter"
	"strings"

	"github.com/dhamidi/themis/java/source"
)

// If is an if statement. Else links the first else or else-if of the chain.
type If struct {
	container
	Condition string
	Else      *Else
}

// Conditions yields the condition of the if and of every link of its else
// chain. A bare else yields the empty string.
func (i *If) Conditions() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(i.Condition) {
			return
		}
		for e := i.Else; e != nil; e = e.Else {
			if !yield(e.Condition) {
				return
			}
		}
	}
}

// Else is an else or else-if branch.
type Else struct {
	container
	Condition string
	Else      *Else
}

// NullParameters reports whether this is a bare else.
func (e *Else) NullParameters() bool { return e.Condition == "" }

// For is a classic or enhanced for loop. Loop variables are declared in its
// scope.
type For struct {
	container
	Header    string
	Enhanced  bool
	Variables []*Field
}

type While struct {
	container
	Condition string
}

type DoWhile struct {
	container
	Condition string
}

type Synchronized struct {
	container
	Lock string
}

// parseLanguage dispatches on the keyword starting a control construct.
func (p *Parser) parseLanguage() (Element, bool, error) {
	l := p.cursor.Peek()
	if l.StartsWithChar(source.BraceOpen) {
		return p.parseBlock()
	}
	var (
		e   Element
		err error
	)
	switch leadingKeyword(l) {
	case KeywordIf:
		e, err = p.parseIf()
	case KeywordFor:
		e, err = p.parseFor()
	case KeywordWhile:
		e, err = p.parseWhile()
	case KeywordDo:
		e, err = p.parseDoWhile()
	case KeywordSwitch:
		e, err = p.parseSwitch()
	case KeywordTry:
		e, err = p.parseTry()
	case KeywordSynchronized:
		e, err = p.parseSynchronized()
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// header pops the line starting with kw and reads the parenthesised
// condition after it.
func (p *Parser) header(kw Keyword) (string, int, error) {
	l := p.cursor.Pop()
	first := l.Number()
	stripKeyword(l, kw)
	p.cursor.PushRemainder(l)
	cond, err := p.scanCondition()
	if err != nil {
		return "", first, err
	}
	castReferences(p.scope, cond, first)
	return cond, first, nil
}

// checkCondition records a problem for a condition holding several
// comma-separated statements.
func (p *Parser) checkCondition(k Kind, cond string, line int) {
	if len(source.SplitTopLevel(cond, source.Comma, false)) < 2 {
		return
	}
	err := &MultiStatementError{File: p.ctx.path, Line: line, Construct: k, Condition: cond}
	log().Warningf("%s", err)
	p.ctx.problem(err)
}

func (p *Parser) parseBlock() (Element, bool, error) {
	first := p.cursor.Peek().Number()
	b := &Block{container: newContainer(KindBlock, p.owner, p.scope.Child())}
	if err := p.parseBlockBody(b, false); err != nil {
		return nil, false, err
	}
	b.setSpan(first, p.cursor.Last())
	return b, true, nil
}

func (p *Parser) parseIf() (Element, error) {
	cond, first, err := p.header(KeywordIf)
	if err != nil {
		return nil, err
	}
	p.checkCondition(KindIf, cond, first)
	i := &If{container: newContainer(KindIf, p.owner, p.scope.Child()), Condition: cond}
	if err := p.parseBlockBody(i, false); err != nil {
		return nil, err
	}
	i.setSpan(first, p.cursor.Last())

	link := &i.Else
	for {
		line, ok := p.processExtra(KeywordElse)
		if !ok {
			break
		}
		e := &Else{container: newContainer(KindElse, i, p.scope.Child())}
		if l := p.cursor.Peek(); l != nil && leadingKeyword(l) == KeywordIf {
			if e.Condition, _, err = p.header(KeywordIf); err != nil {
				return nil, err
			}
			p.checkCondition(KindIf, e.Condition, line)
		}
		if err := p.parseBlockBody(e, false); err != nil {
			return nil, err
		}
		e.setSpan(line, p.cursor.Last())
		*link = e
		link = &e.Else
		if e.NullParameters() {
			break
		}
	}
	return i, nil
}

func (p *Parser) parseFor() (Element, error) {
	text, first, err := p.header(KeywordFor)
	if err != nil {
		return nil, err
	}
	f := &For{container: newContainer(KindFor, p.owner, p.scope.Child()), Header: text}
	if semi := strings.IndexByte(text, source.Semicolon); semi >= 0 {
		init := strings.TrimSpace(text[:semi])
		if isLocalDeclaration(init) {
			f.Variables = append(f.Variables, parseFieldText(f.scope, init, first))
		}
	} else if i := topLevelColon(text); i >= 0 {
		f.Enhanced = true
		f.Variables = append(f.Variables, declareField(f.scope, text[:i], first))
	}
	if err := p.parseBlockBody(f, false); err != nil {
		return nil, err
	}
	f.setSpan(first, p.cursor.Last())
	return f, nil
}

func (p *Parser) parseWhile() (Element, error) {
	cond, first, err := p.header(KeywordWhile)
	if err != nil {
		return nil, err
	}
	p.checkCondition(KindWhile, cond, first)
	w := &While{container: newContainer(KindWhile, p.owner, p.scope.Child()), Condition: cond}
	if err := p.parseBlockBody(w, false); err != nil {
		return nil, err
	}
	w.setSpan(first, p.cursor.Last())
	return w, nil
}

// parseDoWhile reads "do body while (cond);". The trailing while is
// required.
func (p *Parser) parseDoWhile() (Element, error) {
	l := p.cursor.Pop()
	first := l.Number()
	stripKeyword(l, KeywordDo)
	p.cursor.PushRemainder(l)
	d := &DoWhile{container: newContainer(KindDoWhile, p.owner, p.scope.Child())}
	if err := p.parseBlockBody(d, false); err != nil {
		return nil, err
	}

	malformed := &ParseError{File: p.ctx.path, Line: first, Err: ErrMalformedDoWhile}
	next := p.cursor.Peek()
	if next == nil || leadingKeyword(next) != KeywordWhile {
		return nil, malformed
	}
	p.cursor.Pop()
	stripKeyword(next, KeywordWhile)
	p.cursor.PushRemainder(next)
	cond, rest, err := p.scanParens()
	if err != nil {
		return nil, malformed
	}
	if !rest.StripStartChar(source.Semicolon) {
		return nil, malformed
	}
	p.cursor.PushRemainder(rest)
	d.Condition = cond
	p.checkCondition(KindDoWhile, cond, p.cursor.Last())
	d.setSpan(first, p.cursor.Last())
	return d, nil
}

func (p *Parser) parseSynchronized() (Element, error) {
	lock, first, err := p.header(KeywordSynchronized)
	if err != nil {
		return nil, err
	}
	p.checkCondition(KindSynchronized, lock, first)
	s := &Synchronized{container: newContainer(KindSynchronized, p.owner, p.scope.Child()), Lock: lock}
	if err := p.parseBlockBody(s, false); err != nil {
		return nil, err
	}
	s.setSpan(first, p.cursor.Last())
	return s, nil
}

// parseLabeled reads "label:" and the statement it names.
func (p *Parser) parseLabeled() (Element, bool, error) {
	l := p.cursor.Peek()
	word := leadingWord(l)
	if word == "" || LookupKeyword(word) != KeywordNone {
		return nil, false, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(l.String(), word))
	if !strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "::") {
		return nil, false, nil
	}
	p.cursor.Pop()
	first := l.Number()
	l.StripStartSequence(word)
	l.StripStartChar(source.Colon)
	l.StripModifiers()
	p.cursor.PushRemainder(l)

	lab := &Labeled{container: newContainer(KindLabeled, p.owner, p.scope), Label: word}
	if err := p.parseBlockBody(lab, false); err != nil {
		return nil, false, err
	}
	lab.setSpan(first, p.cursor.Last())
	return lab, true, nil
}

// topLevelColon returns the index of the first : outside nesting that is
// not part of ::, or -1.
func topLevelColon(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			q := s[i]
			for i++; i < len(s) && s[i] != q; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if i > 0 && s[i-1] == '-' {
				continue
			}
			depth--
		case ':':
			if i+1 < len(s) && s[i+1] == ':' {
				i++
				continue
			}
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
