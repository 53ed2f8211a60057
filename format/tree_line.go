package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/themis/java/parser"
)

// TreeLineEncoder writes one line per element, indented by depth:
//
//	Class 3-21 com.acme.Greeter
//	  Method 5-9 greet(String name)
type TreeLineEncoder struct {
	w io.Writer
}

func NewTreeLineEncoder(w io.Writer) *TreeLineEncoder {
	return &TreeLineEncoder{w: w}
}

func (e *TreeLineEncoder) Encode(el parser.Element) error {
	text, err := e.MarshalText(el)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeLineEncoder) MarshalText(el parser.Element) ([]byte, error) {
	var sb strings.Builder
	writeTree(&sb, el, 0)
	return []byte(sb.String()), nil
}

func writeTree(sb *strings.Builder, el parser.Element, depth int) {
	span := el.Span()
	fmt.Fprintf(sb, "%s%s %d-%d", strings.Repeat("  ", depth), el.Kind(), span.First, span.Last)
	if mods := modifierStrings(modifiersOf(el)); len(mods) > 0 {
		fmt.Fprintf(sb, " [%s]", strings.Join(mods, ","))
	}
	if name := Name(el); name != "" {
		sb.WriteByte(' ')
		sb.WriteString(oneLine(name))
	}
	for _, t := range typesOf(el) {
		if t.role == "extends" || t.role == "implements" {
			fmt.Fprintf(sb, " %s %s", t.role, t.ref)
		}
	}
	if d, ok := el.(interface{ IsDeferred() bool }); ok && d.IsDeferred() {
		sb.WriteString(" (deferred)")
	}
	sb.WriteByte('\n')
	for _, child := range parser.Children(el) {
		writeTree(sb, child, depth+1)
	}
}

// oneLine collapses runs of whitespace, including newlines, to one space.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
