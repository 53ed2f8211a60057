package parser

import "github.com/dhamidi/themis/java/source"

// cursor is the queue of lines still to be classified. Lines can be pushed
// back to the front for lookahead. It remembers the highest line number
// consumed so far, which becomes the end of the element being built.
type cursor struct {
	lines []*source.Line
	pos   int
	last  int
	marks []int
}

func newCursor(lines []*source.Line) *cursor {
	return &cursor{lines: lines}
}

func (c *cursor) HasLines() bool { return c.pos < len(c.lines) }

func (c *cursor) Peek() *source.Line {
	if !c.HasLines() {
		return nil
	}
	return c.lines[c.pos]
}

func (c *cursor) Pop() *source.Line {
	if !c.HasLines() {
		return nil
	}
	l := c.lines[c.pos]
	c.pos++
	c.marks = append(c.marks, c.last)
	c.last = max(c.last, l.Number())
	return l
}

// Push returns an unconsumed line to the front of the queue.
func (c *cursor) Push(l *source.Line) {
	if n := len(c.marks); n > 0 {
		c.last = c.marks[n-1]
		c.marks = c.marks[:n-1]
	}
	c.pushFront(l)
}

// PushRemainder returns the unconsumed tail of a line whose head was
// consumed, so the line still counts as consumed.
func (c *cursor) PushRemainder(l *source.Line) {
	if l == nil || (l.IsEmpty() && len(l.Modifiers()) == 0) {
		return
	}
	c.pushFront(l)
}

func (c *cursor) pushFront(l *source.Line) {
	if c.pos > 0 {
		c.pos--
		c.lines[c.pos] = l
		return
	}
	c.lines = append([]*source.Line{l}, c.lines...)
}

// Last is the highest line number consumed.
func (c *cursor) Last() int { return c.last }

type cursorState struct {
	lines []*source.Line
	pos   int
	last  int
	marks []int
}

// snapshot saves the queue so a speculative parse can be undone with restore.
// Lines are cloned because parsing narrows them in place.
func (c *cursor) snapshot() cursorState {
	s := cursorState{
		lines: make([]*source.Line, len(c.lines)),
		pos:   c.pos,
		last:  c.last,
		marks: append([]int(nil), c.marks...),
	}
	for i := c.pos; i < len(c.lines); i++ {
		s.lines[i] = c.lines[i].Clone()
	}
	return s
}

func (c *cursor) restore(s cursorState) {
	c.lines = s.lines
	c.pos = s.pos
	c.last = s.last
	c.marks = s.marks
}
