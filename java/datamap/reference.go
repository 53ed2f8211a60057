package datamap

import (
	"strings"

	"github.com/dhamidi/themis/java/source"
)

// Reference is a use of a type name. Its binding changes in place as the
// resolution passes learn more, so every holder sees the latest binding.
type Reference struct {
	Name     string
	Type     DataType
	Generics []*Reference
	Dims     int
	Line     int

	scope *Map
}

// Bind rebinds the reference. Binding an Unknown over a known type is
// ignored: resolution never loses information.
func (r *Reference) Bind(t DataType) {
	if t == nil {
		return
	}
	if IsUnknown(t) && !IsUnknown(r.Type) {
		return
	}
	r.Type = t
}

func (r *Reference) Scope() *Map { return r.scope }

func (r *Reference) IsUnknown() bool { return IsUnknown(r.Type) }

// IsResolved reports whether the reference is bound to something other than
// a placeholder.
func (r *Reference) IsResolved() bool {
	return !r.IsUnknown() && !IsIntermediate(r.Type)
}

func (r *Reference) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Generics) > 0 {
		b.WriteRune(source.GenericOpen)
		for i, g := range r.Generics {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(g.String())
		}
		b.WriteRune(source.GenericClose)
	}
	for i := 0; i < r.Dims; i++ {
		b.WriteString(source.ArraySuffix)
	}
	return b.String()
}

// parseTypeText splits a written type into its base name, generic argument
// texts and array dimensions. Type annotations and whitespace are dropped.
func parseTypeText(text string) (name string, args []string, dims int) {
	text = strings.TrimSpace(text)
	for strings.HasPrefix(text, "@") {
		text = skipAnnotation(text)
	}
	for {
		switch {
		case strings.HasSuffix(text, source.ArraySuffix):
			text = strings.TrimSpace(strings.TrimSuffix(text, source.ArraySuffix))
			dims++
			continue
		case strings.HasSuffix(text, source.Ellipsis):
			text = strings.TrimSpace(strings.TrimSuffix(text, source.Ellipsis))
			dims++
			continue
		}
		break
	}

	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == source.GenericOpen:
			depth := 1
			j := i + 1
			for ; j < len(runes) && depth > 0; j++ {
				switch runes[j] {
				case source.GenericOpen:
					depth++
				case source.GenericClose:
					depth--
				}
			}
			inner := string(runes[i+1 : j-1])
			if depth == 0 {
				args = append(args, source.SplitTopLevel(inner, source.Comma, true)...)
			}
			i = j - 1
		case source.IsWhitespace(c):
		default:
			b.WriteRune(c)
		}
	}
	return b.String(), args, dims
}

func skipAnnotation(text string) string {
	i := 1
	runes := []rune(text)
	for i < len(runes) && (source.IsIdentifierPart(runes[i]) || runes[i] == source.Period) {
		i++
	}
	rest := strings.TrimSpace(string(runes[i:]))
	if strings.HasPrefix(rest, "(") {
		depth := 0
		for j, c := range rest {
			switch c {
			case source.ParenOpen:
				depth++
			case source.ParenClose:
				depth--
				if depth == 0 {
					return strings.TrimSpace(rest[j+1:])
				}
			}
		}
		return ""
	}
	return rest
}

// wildcardBound strips the ? extends / ? super prefix of a generic argument.
// A bare ? yields the empty string.
func wildcardBound(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "?") {
		return arg
	}
	arg = strings.TrimSpace(arg[1:])
	for _, kw := range []string{"extends", "super"} {
		if strings.HasPrefix(arg, kw+" ") {
			return strings.TrimSpace(arg[len(kw):])
		}
	}
	return ""
}
