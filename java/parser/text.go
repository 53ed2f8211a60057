package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/source"
)

// matchClose returns the byte index in s of the bracket closing the one at
// open, skipping literals, or -1.
func matchClose(s string, open int) int {
	opener := rune(s[open])
	closer := closerOf(opener)
	if opener == source.GenericOpen {
		closer = source.GenericClose
	}
	depth := 0
	for i := open; i < len(s); i++ {
		c := rune(s[i])
		switch {
		case source.IsQuote(c):
			for j := i + 1; j < len(s); j++ {
				if s[j] == source.Escape {
					j++
					continue
				}
				if rune(s[j]) == c {
					i = j
					break
				}
			}
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// identifierPrefix returns the plain identifier at the start of s.
func identifierPrefix(s string) string {
	for i, r := range s {
		if !source.IsIdentifierPart(r) {
			return s[:i]
		}
	}
	return s
}

// skipAnnotations drops leading annotations, with their arguments, from s.
func skipAnnotations(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "@") {
		name := qualifiedPrefix(s[1:])
		s = strings.TrimSpace(s[1+len(name):])
		if strings.HasPrefix(s, "(") {
			end := matchClose(s, 0)
			if end < 0 {
				return ""
			}
			s = strings.TrimSpace(s[end+1:])
		}
	}
	return s
}

// stripDeclModifiers drops modifier keywords such as final from s.
func stripDeclModifiers(s string) string {
	for {
		s = skipAnnotations(s)
		word := identifierPrefix(s)
		if _, ok := source.LookupModifier(word); !ok || word == s {
			return s
		}
		s = strings.TrimSpace(s[len(word):])
	}
}

// splitDeclarator separates "Map<K, V>[] name[]" into the written type and the
// declared name. Array brackets after the name move to the type.
func splitDeclarator(decl string) (typ, name string) {
	decl = strings.TrimSpace(decl)
	dims := ""
	for strings.HasSuffix(decl, "[]") {
		decl = strings.TrimSpace(strings.TrimSuffix(decl, "[]"))
		dims += "[]"
	}
	i := len(decl)
	for i > 0 && source.IsIdentifierPart(rune(decl[i-1])) {
		i--
	}
	name = decl[i:]
	typ = strings.TrimSpace(decl[:i])
	if typ == "" {
		return name + dims, ""
	}
	return typ + dims, name
}
