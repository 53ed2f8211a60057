package parser

import (
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
)

// castTargets returns the types named by casts in an expression, such as
// Foo and List<String> in "(Foo) a + ((List<String>) b).size()", in source
// order. A parenthesised name counts as a cast only when an operand follows
// it and nothing that could make it a call or an index precedes it. Casts to
// primitive types are left out.
func castTargets(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		if source.IsQuote(c) {
			i = skipQuoted(s, i)
			continue
		}
		if c != source.ParenOpen || !castPosition(s[:i]) {
			continue
		}
		end := matchClose(s, i)
		if end < 0 {
			return out
		}
		inner := strings.TrimSpace(s[i+1 : end])
		if isCastType(inner) && startsOperand(strings.TrimSpace(s[end+1:])) {
			out = append(out, inner)
		}
	}
	return out
}

// castReferences records a reference in scope for every cast in text.
func castReferences(scope *datamap.Map, text string, line int) []*datamap.Reference {
	var refs []*datamap.Reference
	for _, t := range castTargets(text) {
		refs = append(refs, scope.Reference(t, line))
	}
	return refs
}

func skipQuoted(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] == source.Escape {
			j++
			continue
		}
		if s[j] == s[i] {
			return j
		}
	}
	return len(s)
}

// castPosition reports whether a ( after before can open a cast: it must not
// follow a name, a closing bracket or a literal, except for keywords such as
// return that precede an expression.
func castPosition(before string) bool {
	before = strings.TrimRight(before, " \t")
	if before == "" {
		return true
	}
	last := rune(before[len(before)-1])
	switch {
	case last == source.ParenClose || last == source.ArrayClose || source.IsQuote(last):
		return false
	case source.IsIdentifierPart(last):
		start := len(before)
		for start > 0 && source.IsIdentifierPart(rune(before[start-1])) {
			start--
		}
		switch LookupKeyword(before[start:]) {
		case KeywordReturn, KeywordThrow, KeywordYield, KeywordCase, KeywordAssert, KeywordElse:
			return true
		}
		return false
	}
	return true
}

// isCastType reports whether s is a reference type: a qualified name with
// optional type arguments and array brackets.
func isCastType(s string) bool {
	for strings.HasSuffix(s, "]") {
		s, _ = strings.CutSuffix(s, "]")
		s = strings.TrimSpace(s)
		var ok bool
		if s, ok = strings.CutSuffix(s, "["); !ok {
			return false
		}
		s = strings.TrimSpace(s)
	}
	if i := strings.IndexByte(s, source.GenericOpen); i >= 0 {
		end := matchClose(s, i)
		if end != len(s)-1 {
			return false
		}
		s = strings.TrimSpace(s[:i])
	}
	if !source.IsQualifiedIdentifier(s) {
		return false
	}
	return LookupKeyword(s) == KeywordNone
}

// startsOperand reports whether s begins with something a cast can apply
// to: a name, a literal or a parenthesised expression. instanceof and the
// other keywords that continue an expression do not count.
func startsOperand(s string) bool {
	if s == "" {
		return false
	}
	c := rune(s[0])
	switch {
	case c == source.ParenOpen || source.IsQuote(c) || (c >= '0' && c <= '9'):
		return true
	case source.IsIdentifierStart(c):
		switch LookupKeyword(identifierPrefix(s)) {
		case KeywordNone, KeywordThis, KeywordSuper, KeywordNew, KeywordSwitch,
			KeywordTrue, KeywordFalse, KeywordNull:
			return true
		}
	}
	return false
}
