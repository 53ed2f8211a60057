package parser

type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindAnnotation
	KindPackage
	KindImport

	// Declared types
	KindClass
	KindInterface
	KindEnum
	KindRecord
	KindAnnotationType
	KindLocalClass
	KindAnonymousClass
	KindEnumConstant

	// Members
	KindMethod
	KindConstructor
	KindField

	// Embedded code
	KindLambda
	KindEmbedded

	// Control flow
	KindBlock
	KindIf
	KindElse
	KindFor
	KindWhile
	KindDoWhile
	KindSwitch
	KindCase
	KindTry
	KindCatch
	KindFinally
	KindSynchronized
	KindLabeled

	KindStatement
	KindFile
)

var kindNames = map[Kind]string{
	KindBlank:          "Blank",
	KindComment:        "Comment",
	KindAnnotation:     "Annotation",
	KindPackage:        "Package",
	KindImport:         "Import",
	KindClass:          "Class",
	KindInterface:      "Interface",
	KindEnum:           "Enum",
	KindRecord:         "Record",
	KindAnnotationType: "AnnotationType",
	KindLocalClass:     "LocalClass",
	KindAnonymousClass: "AnonymousClass",
	KindEnumConstant:   "EnumConstant",
	KindMethod:         "Method",
	KindConstructor:    "Constructor",
	KindField:          "Field",
	KindLambda:         "Lambda",
	KindEmbedded:       "Embedded",
	KindBlock:          "Block",
	KindIf:             "If",
	KindElse:           "Else",
	KindFor:            "For",
	KindWhile:          "While",
	KindDoWhile:        "DoWhile",
	KindSwitch:         "Switch",
	KindCase:           "Case",
	KindTry:            "Try",
	KindCatch:          "Catch",
	KindFinally:        "Finally",
	KindSynchronized:   "Synchronized",
	KindLabeled:        "Labeled",
	KindStatement:      "Statement",
	KindFile:           "File",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsType reports whether elements of this kind declare a type.
func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindRecord, KindAnnotationType,
		KindLocalClass, KindAnonymousClass:
		return true
	}
	return false
}
