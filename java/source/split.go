package source

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrCorruptSource is returned for input that cannot be Java source text.
var ErrCorruptSource = errors.New("corrupt source")

// Split decodes UTF-8 source text and cuts it into lines sharing one backing array.
func Split(data []byte) ([]*Line, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decode source: %w: invalid UTF-8", ErrCorruptSource)
	}
	buf := []rune(string(data))
	var lines []*Line
	start := 0
	number := 1
	for i, r := range buf {
		switch r {
		case 0:
			return nil, fmt.Errorf("decode source: %w: NUL character on line %d", ErrCorruptSource, number)
		case '\n':
			end := i
			if end > start && buf[end-1] == '\r' {
				end--
			}
			lines = append(lines, NewLine(buf, start, end-start, number))
			start = i + 1
			number++
		}
	}
	if start < len(buf) {
		lines = append(lines, NewLine(buf, start, len(buf)-start, number))
	}
	return lines, nil
}

// SplitTopLevel splits s at sep where sep is outside literals and outside
// (), [] and {} nesting. When generics is set, <> is treated as nesting too.
// Parts are trimmed; empty parts are dropped.
func SplitTopLevel(s string, sep rune, generics bool) []string {
	var parts []string
	depth := 0
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case IsQuote(c):
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == Escape {
					j++
					continue
				}
				if runes[j] == c {
					i = j
					break
				}
			}
		case c == ParenOpen || c == ArrayOpen || c == BraceOpen || (generics && c == GenericOpen):
			depth++
		case c == ParenClose || c == ArrayClose || c == BraceClose || (generics && c == GenericClose && i > 0 && runes[i-1] != '-'):
			depth--
		case c == sep && depth == 0:
			if part := strings.TrimSpace(string(runes[start:i])); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(string(runes[start:])); part != "" {
		parts = append(parts, part)
	}
	return parts
}
