package parser

import (
	"slices"

	"github.com/dhamidi/themis/java/source"
)

// scanFor pulls lines until one of terms appears outside literals, comments
// and (), [] or {} nesting. Nested regions may span lines. A ; or ,
// terminator must end its line. Any other terminator found mid-line splits
// the line there and the tail goes back to the queue. The returned lines end
// with the terminator.
func (p *Parser) scanFor(terms ...rune) ([]*source.Line, error) {
	var out []*source.Line
	var closers []rune
	for {
		l := p.cursor.Pop()
		if l == nil {
			return nil, p.fail(nil, ErrTerminatorNotFound)
		}
		n := l.Len()
		for i := 0; i < n; i++ {
			c := l.CharAt(i)
			switch {
			case source.IsQuote(c):
				end := l.FindEndOfQuotedSequence(i)
				if end < 0 {
					end = n - 1
				}
				i = end
			case c == source.CommentChar && l.CharAt(i+1) == source.CommentStar:
				end := l.IndexFrom(source.BlockCommentClose, i+2)
				if end < 0 {
					end = n - 1
				}
				i = end + 1
			case len(closers) == 0 && slices.Contains(terms, c):
				if c == source.Semicolon || c == source.Comma {
					if i != n-1 {
						return nil, p.fail(l, ErrNotAtEndOfLine)
					}
					return append(out, l), nil
				}
				if i < n-1 {
					head, tail := l.SplitAt(i + 1)
					p.cursor.PushRemainder(tail)
					l = head
				}
				return append(out, l), nil
			case c == source.ParenOpen || c == source.ArrayOpen || c == source.BraceOpen:
				closers = append(closers, closerOf(c))
			case len(closers) > 0 && c == closers[len(closers)-1]:
				closers = closers[:len(closers)-1]
			}
		}
		out = append(out, l)
	}
}

func closerOf(open rune) rune {
	switch open {
	case source.ParenOpen:
		return source.ParenClose
	case source.ArrayOpen:
		return source.ArrayClose
	}
	return source.BraceClose
}

// extractBody collects the lines of a body whose opening brace has already
// been consumed, up to the matching closing brace. Braces are counted outside
// literals and block comments. When the closing brace is followed by more
// code on its line, that tail is pushed back.
func (p *Parser) extractBody() ([]*source.Line, error) {
	var body []*source.Line
	depth := 1
	inComment := false
	start := p.cursor.Last()
	for p.cursor.HasLines() {
		l := p.cursor.Pop()
		n := l.Len()
		for i := 0; i < n; i++ {
			if inComment {
				end := l.IndexFrom(source.BlockCommentClose, i)
				if end < 0 {
					break
				}
				inComment = false
				i = end + 1
				continue
			}
			c := l.CharAt(i)
			switch {
			case source.IsQuote(c):
				end := l.FindEndOfQuotedSequence(i)
				if end < 0 {
					end = n - 1
				}
				i = end
			case c == source.CommentChar && l.CharAt(i+1) == source.CommentStar:
				inComment = true
				i++
			case c == source.BraceOpen:
				depth++
			case c == source.BraceClose:
				depth--
				if depth == 0 {
					head, tail := l.SplitAt(i)
					tail.StripStartChar(source.BraceClose)
					tail.StripModifiers()
					p.cursor.PushRemainder(tail)
					if !head.IsEmpty() {
						body = append(body, head)
					}
					return body, nil
				}
			}
		}
		if inComment && closesInComment(l) {
			inComment = false
		}
		body = append(body, l)
	}
	return nil, &ParseError{File: p.ctx.path, Line: start, Err: ErrUnbalanced}
}

// scanParens reads a parenthesised header such as an if condition. The
// queue must start with the opening parenthesis. It returns the text between
// the parentheses and the rest of the line holding the closing one.
func (p *Parser) scanParens() (string, *source.Line, error) {
	l := p.cursor.Pop()
	if l == nil {
		return "", nil, p.fail(nil, ErrTerminatorNotFound)
	}
	if !l.StartsWithChar(source.ParenOpen) {
		return "", nil, p.fail(l, ErrUnrecognised)
	}
	parts := []*source.Line{l}
	for {
		joined := source.Join(parts)
		end := joined.FindEndOfNestedSequence(0, 0, source.ParenClose, source.ParenOpen)
		if end >= 0 {
			rest := joined.Slice(end+1, joined.Len())
			if len(parts) > 1 {
				// keep the number of the line the rest came from
				last := parts[len(parts)-1]
				_, rest = last.SplitAt(last.Len() - rest.Len())
			}
			rest.StripModifiers()
			return joined.Slice(1, end).String(), rest, nil
		}
		next := p.cursor.Pop()
		if next == nil {
			return "", nil, p.fail(l, ErrTerminatorNotFound)
		}
		parts = append(parts, next)
	}
}

// scanCondition reads a parenthesised header and queues the rest of its line.
func (p *Parser) scanCondition() (string, error) {
	text, rest, err := p.scanParens()
	if err != nil {
		return "", err
	}
	p.cursor.PushRemainder(rest)
	return text, nil
}

// parseBlockBody reads the body following a construct header into c. The
// body is a braced block, on the same line or the next, or one statement.
// With deferred set the body lines are stored for post-processing.
func (p *Parser) parseBlockBody(c Container, deferred bool) error {
	for p.cursor.HasLines() && p.cursor.Peek().IsEmpty() {
		l := p.cursor.Pop()
		if l.IsComment() {
			c.add(commentElement([]*source.Line{l}))
		}
	}
	l := p.cursor.Peek()
	if l == nil {
		return p.fail(nil, ErrTerminatorNotFound)
	}
	if !l.StartsWithChar(source.BraceOpen) {
		if deferred {
			lines, err := p.scanFor(source.Semicolon)
			if err != nil {
				return err
			}
			c.setDeferred(lines)
			return nil
		}
		e, err := p.shared(c).next()
		if err != nil {
			return err
		}
		c.add(e)
		return nil
	}

	p.cursor.Pop()
	l.StripStartChar(source.BraceOpen)
	p.cursor.PushRemainder(l)
	body, err := p.extractBody()
	if err != nil {
		return err
	}
	if deferred {
		c.setDeferred(body)
		return nil
	}
	return p.child(c, body, modeBody).parseAll()
}
