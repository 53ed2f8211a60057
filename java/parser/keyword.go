package parser

import "github.com/dhamidi/themis/java/source"

type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordAbstract
	KeywordAssert
	KeywordBoolean
	KeywordBreak
	KeywordByte
	KeywordCase
	KeywordCatch
	KeywordChar
	KeywordClass
	KeywordConst
	KeywordContinue
	KeywordDefault
	KeywordDo
	KeywordDouble
	KeywordElse
	KeywordEnum
	KeywordExtends
	KeywordFinal
	KeywordFinally
	KeywordFloat
	KeywordFor
	KeywordGoto
	KeywordIf
	KeywordImplements
	KeywordImport
	KeywordInstanceof
	KeywordInt
	KeywordInterface
	KeywordLong
	KeywordNative
	KeywordNew
	KeywordPackage
	KeywordPermits
	KeywordPrivate
	KeywordProtected
	KeywordPublic
	KeywordRecord
	KeywordReturn
	KeywordShort
	KeywordStatic
	KeywordStrictfp
	KeywordSuper
	KeywordSwitch
	KeywordSynchronized
	KeywordThis
	KeywordThrow
	KeywordThrows
	KeywordTransient
	KeywordTry
	KeywordVar
	KeywordVoid
	KeywordVolatile
	KeywordWhile
	KeywordYield
	KeywordTrue
	KeywordFalse
	KeywordNull
)

var keywords = map[string]Keyword{
	"abstract":     KeywordAbstract,
	"assert":       KeywordAssert,
	"boolean":      KeywordBoolean,
	"break":        KeywordBreak,
	"byte":         KeywordByte,
	"case":         KeywordCase,
	"catch":        KeywordCatch,
	"char":         KeywordChar,
	"class":        KeywordClass,
	"const":        KeywordConst,
	"continue":     KeywordContinue,
	"default":      KeywordDefault,
	"do":           KeywordDo,
	"double":       KeywordDouble,
	"else":         KeywordElse,
	"enum":         KeywordEnum,
	"extends":      KeywordExtends,
	"final":        KeywordFinal,
	"finally":      KeywordFinally,
	"float":        KeywordFloat,
	"for":          KeywordFor,
	"goto":         KeywordGoto,
	"if":           KeywordIf,
	"implements":   KeywordImplements,
	"import":       KeywordImport,
	"instanceof":   KeywordInstanceof,
	"int":          KeywordInt,
	"interface":    KeywordInterface,
	"long":         KeywordLong,
	"native":       KeywordNative,
	"new":          KeywordNew,
	"package":      KeywordPackage,
	"permits":      KeywordPermits,
	"private":      KeywordPrivate,
	"protected":    KeywordProtected,
	"public":       KeywordPublic,
	"record":       KeywordRecord,
	"return":       KeywordReturn,
	"short":        KeywordShort,
	"static":       KeywordStatic,
	"strictfp":     KeywordStrictfp,
	"super":        KeywordSuper,
	"switch":       KeywordSwitch,
	"synchronized": KeywordSynchronized,
	"this":         KeywordThis,
	"throw":        KeywordThrow,
	"throws":       KeywordThrows,
	"transient":    KeywordTransient,
	"try":          KeywordTry,
	"var":          KeywordVar,
	"void":         KeywordVoid,
	"volatile":     KeywordVolatile,
	"while":        KeywordWhile,
	"yield":        KeywordYield,
	"true":         KeywordTrue,
	"false":        KeywordFalse,
	"null":         KeywordNull,
}

var keywordNames = func() map[Keyword]string {
	names := make(map[Keyword]string, len(keywords))
	for name, kw := range keywords {
		names[kw] = name
	}
	return names
}()

// LookupKeyword returns the keyword spelled s, or KeywordNone.
func LookupKeyword(s string) Keyword {
	return keywords[s]
}

func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return ""
}

// IsPrimitive reports whether k names a primitive type, including the var
// and void pseudo types.
func (k Keyword) IsPrimitive() bool {
	switch k {
	case KeywordBoolean, KeywordByte, KeywordChar, KeywordShort, KeywordInt,
		KeywordLong, KeywordFloat, KeywordDouble, KeywordVoid, KeywordVar:
		return true
	}
	return false
}

// IsControl reports whether k starts a control statement that is kept as a
// single Statement element.
func (k Keyword) IsControl() bool {
	switch k {
	case KeywordReturn, KeywordBreak, KeywordContinue, KeywordThrow, KeywordYield, KeywordAssert:
		return true
	}
	return false
}

// leadingWord returns the identifier at the start of the line. Unlike
// PeekNextToken it stops at any non-identifier character, so "else{" yields
// "else".
func leadingWord(l *source.Line) string {
	s := l.String()
	for i, r := range s {
		if !source.IsIdentifierPart(r) {
			return s[:i]
		}
	}
	return s
}

// leadingKeyword returns the keyword that starts the line, or KeywordNone.
func leadingKeyword(l *source.Line) Keyword {
	return LookupKeyword(leadingWord(l))
}

// stripKeyword removes a leading keyword from the line.
func stripKeyword(l *source.Line, kw Keyword) bool {
	if leadingKeyword(l) != kw {
		return false
	}
	return l.StripStartSequence(kw.String())
}
