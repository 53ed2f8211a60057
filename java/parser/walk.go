package parser

// Children returns the elements directly below e, including else branches,
// catch and finally blocks, enum constant bodies and embedded bodies held by
// fields.
func Children(e Element) []Element {
	var out []Element
	if c, ok := e.(Container); ok {
		out = append(out, c.Contents()...)
	}
	switch v := e.(type) {
	case *If:
		if v.Else != nil {
			out = append(out, v.Else)
		}
	case *Else:
		if v.Else != nil {
			out = append(out, v.Else)
		}
	case *Try:
		for _, c := range v.Catches {
			out = append(out, c)
		}
		if v.Finally != nil {
			out = append(out, v.Finally)
		}
	case *Field:
		if v.Embedded != nil {
			out = append(out, v.Embedded)
		}
	case *EnumConstant:
		if v.Body != nil {
			out = append(out, v.Body)
		}
	}
	return out
}

// Walk visits e and everything below it depth first. Children are listed
// after fn returns, so elements fn adds are visited too. Returning false
// skips the children of e.
func Walk(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}
