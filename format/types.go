package format

import (
	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/parser"
)

type typeUse struct {
	role string
	ref  *datamap.Reference
}

// typesOf lists the type references an element declares directly.
func typesOf(el parser.Element) []typeUse {
	var out []typeUse
	add := func(role string, refs ...*datamap.Reference) {
		for _, r := range refs {
			if r != nil {
				out = append(out, typeUse{role: role, ref: r})
			}
		}
	}
	switch v := el.(type) {
	case *parser.Class:
		add("extends", v.Extends...)
		add("implements", v.Implements...)
		add("permits", v.Permits...)
	case *parser.Method:
		add("returns", v.Returns)
		for _, p := range v.Parameters {
			add("parameter", p.Type)
		}
		add("throws", v.Throws...)
	case *parser.Field:
		add("type", v.Type)
		add("cast", v.Casts...)
	case *parser.Statement:
		add("cast", v.Casts...)
	case *parser.Embedded:
		add("cast", v.Casts...)
	case *parser.Catch:
		add("catches", v.Types...)
	case *parser.Annotation:
		add("annotation", v.Type)
	}
	return out
}
