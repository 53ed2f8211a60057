package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/themis/java/parser"
)

type TreeJSONEncoder struct {
	w io.Writer
}

func NewTreeJSONEncoder(w io.Writer) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w}
}

func (e *TreeJSONEncoder) Encode(el parser.Element) error {
	text, err := e.MarshalText(el)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeJSONEncoder) MarshalText(el parser.Element) ([]byte, error) {
	return json.MarshalIndent(elementToJSON(el), "", "  ")
}

type treeJSONNode struct {
	Kind      string          `json:"kind"`
	Span      *treeJSONSpan   `json:"span,omitempty"`
	Name      string          `json:"name,omitempty"`
	Modifiers []string        `json:"modifiers,omitempty"`
	Types     []treeJSONType  `json:"types,omitempty"`
	Deferred  bool            `json:"deferred,omitempty"`
	Children  []*treeJSONNode `json:"children,omitempty"`
}

type treeJSONSpan struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// treeJSONType is a type reference with the kind it was bound to.
type treeJSONType struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	Binding string `json:"binding"`
	Full    string `json:"full,omitempty"`
}

func elementToJSON(el parser.Element) *treeJSONNode {
	jn := &treeJSONNode{
		Kind:      el.Kind().String(),
		Name:      Name(el),
		Modifiers: modifierStrings(modifiersOf(el)),
	}
	if span := el.Span(); span.First != 0 {
		jn.Span = &treeJSONSpan{First: span.First, Last: span.Last}
	}
	for _, t := range typesOf(el) {
		jt := treeJSONType{Role: t.role, Name: t.ref.String()}
		if t.ref.Type != nil {
			jt.Binding = t.ref.Type.TypeKind().String()
			if full := t.ref.Type.FullName(); full != t.ref.Name {
				jt.Full = full
			}
		}
		jn.Types = append(jn.Types, jt)
	}
	if d, ok := el.(interface{ IsDeferred() bool }); ok {
		jn.Deferred = d.IsDeferred()
	}

	children := parser.Children(el)
	if len(children) > 0 {
		jn.Children = make([]*treeJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = elementToJSON(child)
		}
	}
	return jn
}
