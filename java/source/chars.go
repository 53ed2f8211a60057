package source

import "unicode"

// Significant characters.
const (
	BraceOpen    = '{'
	BraceClose   = '}'
	ParenOpen    = '('
	ParenClose   = ')'
	GenericOpen  = '<'
	GenericClose = '>'
	ArrayOpen    = '['
	ArrayClose   = ']'
	SingleQuote  = '\''
	DoubleQuote  = '"'
	CommentChar  = '/'
	CommentStar  = '*'
	Semicolon    = ';'
	Comma        = ','
	Colon        = ':'
	Period       = '.'
	Escape       = '\\'
	AtSign       = '@'
	Equals       = '='
	Question     = '?'
	Ampersand    = '&'
	Pipe         = '|'
	Blank        = ' '
)

// Sequences the parser tests for.
const (
	LineComment       = "//"
	BlockCommentOpen  = "/*"
	BlockCommentClose = "*/"
	LambdaArrow       = "->"
	Diamond           = "<>"
	ArraySuffix       = "[]"
	Ellipsis          = "..."
)

// IsWhitespace reports whether r separates tokens as whitespace.
func IsWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || unicode.IsSpace(r)
}

// IsTokenTerminator reports whether r ends a token for PeekNextToken.
func IsTokenTerminator(r rune) bool {
	if IsWhitespace(r) {
		return true
	}
	switch r {
	case ParenOpen, ParenClose, GenericOpen, Comma, Semicolon, Colon, ArrayOpen:
		return true
	}
	return false
}

// IsQuote reports whether r opens a string or char literal.
func IsQuote(r rune) bool {
	return r == SingleQuote || r == DoubleQuote
}

func IsIdentifierStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func IsIdentifierPart(r rune) bool {
	return IsIdentifierStart(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether s is a plain (undotted) Java identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !IsIdentifierStart(r) {
			return false
		}
		if !IsIdentifierPart(r) {
			return false
		}
	}
	return true
}

// IsQualifiedIdentifier reports whether s is a dotted sequence of identifiers.
func IsQualifiedIdentifier(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	for i, r := range s {
		if r == Period {
			if !IsIdentifier(s[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return IsIdentifier(s[start:])
}
