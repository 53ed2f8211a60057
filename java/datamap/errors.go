package datamap

import "fmt"

// DuplicateClassError reports two non-private top-level types sharing a
// short name.
type DuplicateClassError struct {
	Name     string
	Existing string
	Conflict string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("duplicate class %s: %s conflicts with %s", e.Name, e.Conflict, e.Existing)
}

// UnknownAncestorError reports a superclass or interface that cannot be bound.
type UnknownAncestorError struct {
	Object   string
	Ancestor string
	File     string
	Line     int
}

func (e *UnknownAncestorError) Error() string {
	return fmt.Sprintf("%s:%d: unknown ancestor %s of %s", e.File, e.Line, e.Ancestor, e.Object)
}
