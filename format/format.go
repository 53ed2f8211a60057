// Package format renders structural trees and analysis reports as text or
// JSON.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/parser"
	"github.com/dhamidi/themis/java/source"
	"github.com/dhamidi/themis/project"
)

type TreeEncoder interface {
	Encode(e parser.Element) error
	MarshalText(e parser.Element) ([]byte, error)
}

type ReportEncoder interface {
	Encode(r *project.Report) error
	MarshalText(r *project.Report) ([]byte, error)
}

// NewTreeEncoder returns the tree encoder for name, "text" or "json".
func NewTreeEncoder(name string, w io.Writer) (TreeEncoder, error) {
	switch name {
	case "text", "":
		return NewTreeLineEncoder(w), nil
	case "json":
		return NewTreeJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

// NewReportEncoder returns the report encoder for name, "text" or "json".
func NewReportEncoder(name string, w io.Writer) (ReportEncoder, error) {
	switch name {
	case "text", "":
		return NewReportLineEncoder(w), nil
	case "json":
		return NewReportJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

// Name returns the identifying text of an element: the name of a
// declaration, the condition of a construct or the text of a statement.
func Name(e parser.Element) string {
	switch v := e.(type) {
	case *parser.Package:
		return v.Name
	case *parser.Import:
		if v.Static {
			return "static " + v.Name
		}
		return v.Name
	case *parser.Annotation:
		return "@" + v.Name
	case *parser.Comment:
		if len(v.Text) > 0 {
			return strings.TrimSpace(v.Text[0])
		}
	case *parser.Class:
		return v.FullName()
	case *parser.EnumConstant:
		return v.Name
	case *parser.Method:
		params := make([]string, len(v.Parameters))
		for i, p := range v.Parameters {
			params[i] = fieldText(p)
		}
		return v.Name + "(" + strings.Join(params, ", ") + ")"
	case *parser.Field:
		return fieldText(v)
	case *parser.Lambda:
		return v.Parameters
	case *parser.Embedded:
		return v.Head
	case *parser.If:
		return v.Condition
	case *parser.Else:
		return v.Condition
	case *parser.For:
		return v.Header
	case *parser.While:
		return v.Condition
	case *parser.DoWhile:
		return v.Condition
	case *parser.Switch:
		return v.Selector
	case *parser.Case:
		labels := v.Labels
		if v.Default {
			labels = append(labels[:len(labels):len(labels)], "default")
		}
		return strings.Join(labels, ", ")
	case *parser.Catch:
		return joinReferences(v.Types, " | ") + " " + v.Name
	case *parser.Synchronized:
		return v.Lock
	case *parser.Labeled:
		return v.Label
	case *parser.Statement:
		return v.Text
	case *parser.File:
		return v.Path
	}
	return ""
}

func fieldText(f *parser.Field) string {
	var typ string
	if f.Type != nil {
		typ = f.Type.String()
	}
	if len(f.Names) == 0 {
		return typ
	}
	return typ + " " + strings.Join(f.Names, ", ")
}

func joinReferences(refs []*datamap.Reference, sep string) string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return strings.Join(out, sep)
}

func modifierStrings(mods source.Modifiers) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = string(m)
	}
	return out
}

func modifiersOf(e parser.Element) source.Modifiers {
	switch v := e.(type) {
	case *parser.Class:
		return v.Modifiers
	case *parser.Method:
		return v.Modifiers
	case *parser.Field:
		return v.Modifiers
	}
	return nil
}
