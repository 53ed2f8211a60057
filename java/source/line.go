package source

import "strings"

// Line is a mutable window over one logical source line. All lines of a file
// share the same backing array; stripping operations only move the window.
type Line struct {
	buf       []rune
	offset    int
	length    int
	number    int
	modifiers Modifiers
	comment   string
	commented bool

	markOffset int
	markLength int
}

// NewLine builds the window [offset, offset+length) over buf. The trailing line
// comment is removed, the window is trimmed and leading modifiers are stripped.
func NewLine(buf []rune, offset, length, number int) *Line {
	if offset < 0 || length < 0 || offset+length > len(buf) {
		panic("source: line window out of range")
	}
	l := &Line{buf: buf, offset: offset, length: length, number: number}
	l.stripTrailingComment()
	l.trim()
	l.stripTrailingBlockComment()
	l.StripModifiers()
	return l
}

// NewLineFromString builds a standalone line with its own backing array.
func NewLineFromString(s string, number int) *Line {
	r := []rune(s)
	return NewLine(r, 0, len(r), number)
}

func (l *Line) at(i int) rune {
	return l.buf[l.offset+i]
}

func (l *Line) Len() int { return l.length }

func (l *Line) IsEmpty() bool { return l.length == 0 }

// Number is the 1-based source line the window was cut from.
func (l *Line) Number() int { return l.number }

func (l *Line) Modifiers() Modifiers { return l.modifiers }

// Comment is the text of the stripped trailing line comment, without the slashes.
func (l *Line) Comment() string { return l.comment }

// IsComment reports whether the line held nothing but a line comment.
func (l *Line) IsComment() bool { return l.length == 0 && l.commented }

// IsBlank reports whether the line held nothing at all.
func (l *Line) IsBlank() bool { return l.length == 0 && !l.commented }

func (l *Line) String() string {
	return string(l.buf[l.offset : l.offset+l.length])
}

// Raw returns the text with the recorded modifiers restored in front.
func (l *Line) Raw() string {
	if len(l.modifiers) == 0 {
		return l.String()
	}
	var b strings.Builder
	for _, m := range l.modifiers {
		b.WriteString(string(m))
		b.WriteRune(Blank)
	}
	b.WriteString(l.String())
	return b.String()
}

// CharAt returns the rune at i, or 0 when i is outside the window.
func (l *Line) CharAt(i int) rune {
	if i < 0 || i >= l.length {
		return 0
	}
	return l.at(i)
}

func (l *Line) trim() {
	for l.length > 0 && IsWhitespace(l.at(0)) {
		l.offset++
		l.length--
	}
	for l.length > 0 && IsWhitespace(l.at(l.length-1)) {
		l.length--
	}
}

// stripTrailingComment removes a // comment that is not inside a literal or a
// same-line block comment.
func (l *Line) stripTrailingComment() {
	for i := 0; i < l.length; i++ {
		c := l.at(i)
		switch {
		case IsQuote(c):
			end := l.FindEndOfQuotedSequence(i)
			if end < 0 {
				return
			}
			i = end
		case c == CommentChar && l.CharAt(i+1) == CommentStar:
			end := l.IndexFrom(BlockCommentClose, i+2)
			if end < 0 {
				return
			}
			i = end + 1
		case c == CommentChar && l.CharAt(i+1) == CommentChar:
			l.comment = strings.TrimSpace(string(l.buf[l.offset+i+2 : l.offset+l.length]))
			l.commented = true
			l.length = i
			return
		}
	}
}

// stripTrailingBlockComment removes a /* ... */ that closes the line after code.
func (l *Line) stripTrailingBlockComment() {
	if !l.EndsWithSequence(BlockCommentClose) || l.StartsWithSequence(BlockCommentOpen) {
		return
	}
	for i := 0; i < l.length; i++ {
		c := l.at(i)
		switch {
		case IsQuote(c):
			end := l.FindEndOfQuotedSequence(i)
			if end < 0 {
				return
			}
			i = end
		case c == CommentChar && l.CharAt(i+1) == CommentStar:
			end := l.IndexFrom(BlockCommentClose, i+2)
			if end < 0 {
				return
			}
			if end+2 == l.length {
				l.comment = strings.TrimSpace(string(l.buf[l.offset+i+2 : l.offset+end]))
				l.commented = true
				l.length = i
				l.trim()
				return
			}
			i = end + 1
		}
	}
}

// StripModifiers strips leading modifier keywords until none match. Running it
// again on an already stripped line changes nothing.
func (l *Line) StripModifiers() {
	for {
		token := l.PeekNextToken()
		mod, ok := LookupModifier(token)
		if !ok || !l.modifierFollows(len([]rune(token))) {
			return
		}
		l.offset += len([]rune(token))
		l.length -= len([]rune(token))
		l.trim()
		l.modifiers = append(l.modifiers, mod)
	}
}

// modifierFollows reports whether the keyword ending at n is used as a modifier:
// whitespace, then a declaration continues.
func (l *Line) modifierFollows(n int) bool {
	if n >= l.length || !IsWhitespace(l.at(n)) {
		return false
	}
	for i := n; i < l.length; i++ {
		c := l.at(i)
		if IsWhitespace(c) {
			continue
		}
		return IsIdentifierStart(c) || c == GenericOpen || c == AtSign || c == BraceOpen
	}
	return false
}

func (l *Line) StartsWithChar(c rune) bool {
	return l.length > 0 && l.at(0) == c
}

// StartsWithSequence compares seq against the start of the window.
func (l *Line) StartsWithSequence(seq string) bool {
	return l.matchAt(seq, 0)
}

func (l *Line) EndsWithChar(c rune) bool {
	return l.length > 0 && l.at(l.length-1) == c
}

// EndsWithSequence compares seq against the true end of the window.
func (l *Line) EndsWithSequence(seq string) bool {
	n := len([]rune(seq))
	return l.matchAt(seq, l.length-n)
}

// EndWindowOf scans every valid end position from the right and returns the
// start of the right-most window equal to seq, or -1. Unlike EndsWithSequence
// the match need not sit at the true end of the line.
func (l *Line) EndWindowOf(seq string) int {
	n := len([]rune(seq))
	for start := l.length - n; start >= 0; start-- {
		if l.matchAt(seq, start) {
			return start
		}
	}
	return -1
}

// StartsWithToken reports whether the next token equals word.
func (l *Line) StartsWithToken(word string) bool {
	return l.PeekNextToken() == word
}

func (l *Line) matchAt(seq string, start int) bool {
	if start < 0 {
		return false
	}
	i := start
	for _, r := range seq {
		if i >= l.length || l.at(i) != r {
			return false
		}
		i++
	}
	return true
}

// StripStartChar removes a leading c and re-trims. It reports whether c was present.
func (l *Line) StripStartChar(c rune) bool {
	if !l.StartsWithChar(c) {
		return false
	}
	l.offset++
	l.length--
	l.trim()
	return true
}

// StripStartSequence removes a leading seq and re-trims; it is a no-op otherwise.
func (l *Line) StripStartSequence(seq string) bool {
	if !l.StartsWithSequence(seq) {
		return false
	}
	n := len([]rune(seq))
	l.offset += n
	l.length -= n
	l.trim()
	return true
}

func (l *Line) StripEndChar(c rune) bool {
	if !l.EndsWithChar(c) {
		return false
	}
	l.length--
	l.trim()
	return true
}

// StripEndSequence removes a trailing seq and re-trims; it is a no-op otherwise.
func (l *Line) StripEndSequence(seq string) bool {
	if !l.EndsWithSequence(seq) {
		return false
	}
	l.length -= len([]rune(seq))
	l.trim()
	return true
}

func (l *Line) tokenEnd() int {
	i := 0
	for i < l.length && !IsTokenTerminator(l.at(i)) {
		i++
	}
	return i
}

// PeekNextToken returns the prefix up to the first token terminator.
func (l *Line) PeekNextToken() string {
	return string(l.buf[l.offset : l.offset+l.tokenEnd()])
}

// StripNextToken removes and returns the prefix up to the first token terminator.
func (l *Line) StripNextToken() string {
	end := l.tokenEnd()
	token := string(l.buf[l.offset : l.offset+end])
	l.offset += end
	l.length -= end
	l.trim()
	return token
}

// FindEndOfNestedSequence scans from start counting open as +1 and close as -1
// from the given depth. It returns the index where depth returns to zero, or -1
// when the window ends first.
func (l *Line) FindEndOfNestedSequence(start, depth int, close, open rune) int {
	for i := start; i < l.length; i++ {
		c := l.at(i)
		switch {
		case IsQuote(c):
			end := l.FindEndOfQuotedSequence(i)
			if end < 0 {
				return -1
			}
			i = end
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// FindEndOfQuotedSequence returns the index of the quote closing the literal
// opened at start, honouring backslash escapes, or -1.
func (l *Line) FindEndOfQuotedSequence(start int) int {
	quote := l.CharAt(start)
	for i := start + 1; i < l.length; i++ {
		switch l.at(i) {
		case Escape:
			i++
		case quote:
			return i
		}
	}
	return -1
}

// FindTopLevel returns the first index of target outside literals and outside
// parenthesis, bracket and brace nesting, or -1.
func (l *Line) FindTopLevel(target rune) int {
	depth := 0
	for i := 0; i < l.length; i++ {
		c := l.at(i)
		if depth == 0 && c == target {
			return i
		}
		switch c {
		case SingleQuote, DoubleQuote:
			end := l.FindEndOfQuotedSequence(i)
			if end < 0 {
				return -1
			}
			i = end
		case ParenOpen, ArrayOpen, BraceOpen:
			depth++
		case ParenClose, ArrayClose, BraceClose:
			depth--
		}
	}
	return -1
}

// Index returns the first index of seq outside literals, or -1.
func (l *Line) Index(seq string) int {
	for i := 0; i < l.length; i++ {
		c := l.at(i)
		if IsQuote(c) {
			end := l.FindEndOfQuotedSequence(i)
			if end < 0 {
				return -1
			}
			i = end
			continue
		}
		if l.matchAt(seq, i) {
			return i
		}
	}
	return -1
}

// IndexFrom returns the first index of seq at or after from, ignoring
// literals, or -1. Comment text is searched with it.
func (l *Line) IndexFrom(seq string, from int) int {
	for i := from; i < l.length; i++ {
		if l.matchAt(seq, i) {
			return i
		}
	}
	return -1
}

// Mark saves the current window. Only one level is kept.
func (l *Line) Mark() {
	l.markOffset = l.offset
	l.markLength = l.length
}

// Reset restores the window saved by the last Mark.
func (l *Line) Reset() {
	l.offset = l.markOffset
	l.length = l.markLength
}

// Slice returns the trimmed sub-window [start, end) sharing the backing array.
func (l *Line) Slice(start, end int) *Line {
	if start < 0 {
		start = 0
	}
	if end > l.length {
		end = l.length
	}
	if end < start {
		end = start
	}
	s := &Line{buf: l.buf, offset: l.offset + start, length: end - start, number: l.number}
	s.trim()
	return s
}

// SplitAt cuts the window at i; the tail has its leading modifiers stripped.
func (l *Line) SplitAt(i int) (head, tail *Line) {
	head = l.Slice(0, i)
	head.modifiers = l.modifiers
	tail = l.Slice(i, l.length)
	tail.StripModifiers()
	return head, tail
}

// Clone returns an independent copy of the window.
func (l *Line) Clone() *Line {
	c := *l
	c.modifiers = append(Modifiers(nil), l.modifiers...)
	return &c
}

// Join concatenates lines into one synthetic line numbered after the first.
// Modifiers of continuation lines are restored in the text.
func Join(lines []*Line) *Line {
	if len(lines) == 0 {
		return NewLineFromString("", 0)
	}
	if len(lines) == 1 {
		return lines[0]
	}
	var b strings.Builder
	b.WriteString(lines[0].String())
	for _, l := range lines[1:] {
		if l.IsEmpty() && len(l.modifiers) == 0 {
			continue
		}
		b.WriteRune(Blank)
		b.WriteString(l.Raw())
	}
	r := []rune(b.String())
	joined := &Line{buf: r, length: len(r), number: lines[0].number}
	joined.modifiers = lines[0].modifiers
	joined.trim()
	return joined
}

// Text joins the raw text of lines with newlines.
func Text(lines []*Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Raw())
	}
	return strings.Join(parts, "\n")
}
