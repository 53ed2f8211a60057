package parser

import (
	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
)

// Span is the range of source lines an element was built from.
type Span struct {
	First int
	Last  int
}

func (s Span) Lines() int {
	if s.First == 0 || s.Last < s.First {
		return 0
	}
	return s.Last - s.First + 1
}

// Element is any node of the structural tree.
type Element interface {
	Kind() Kind
	Span() Span
	LineCount() int
}

// Container is an element owning an ordered list of child elements and a
// scope of its own.
type Container interface {
	Element
	Contents() []Element
	Parent() Container
	SetParent(Container)
	Scope() *datamap.Map

	add(Element)
	setDeferred([]*source.Line)
	takeDeferred() ([]*source.Line, bool)
}

type node struct {
	kind Kind
	span Span
}

func (n *node) Kind() Kind     { return n.kind }
func (n *node) Span() Span     { return n.span }
func (n *node) LineCount() int { return n.span.Lines() }

func (n *node) setSpan(first, last int) {
	n.span = Span{First: first, Last: max(first, last)}
}

type container struct {
	node
	parent   Container
	scope    *datamap.Map
	contents []Element

	deferred    []*source.Line
	hasDeferred bool
}

func (c *container) Contents() []Element    { return c.contents }
func (c *container) Parent() Container      { return c.parent }
func (c *container) SetParent(p Container)  { c.parent = p }
func (c *container) Scope() *datamap.Map    { return c.scope }
func (c *container) add(e Element)          { c.contents = append(c.contents, e) }

func (c *container) setDeferred(lines []*source.Line) {
	c.deferred = lines
	c.hasDeferred = true
}

func (c *container) takeDeferred() ([]*source.Line, bool) {
	lines, ok := c.deferred, c.hasDeferred
	c.deferred, c.hasDeferred = nil, false
	return lines, ok
}

// IsDeferred reports whether the body is still waiting for post-processing.
func (c *container) IsDeferred() bool { return c.hasDeferred }

func newContainer(kind Kind, parent Container, scope *datamap.Map) container {
	return container{node: node{kind: kind}, parent: parent, scope: scope}
}

// Blank is a run of empty lines.
type Blank struct {
	node
}

// Comment is a run of line comments or one block comment.
type Comment struct {
	node
	Text []string
}

type Annotation struct {
	node
	Name      string
	Arguments string
	Type      *datamap.Reference
}

type Package struct {
	node
	Name string
}

type Import struct {
	node
	Name     string
	Static   bool
	Wildcard bool
}

// Statement is a single statement kept as text. Keyword is set for
// return, break, continue, throw, yield and assert.
type Statement struct {
	node
	Keyword Keyword
	Text    string
	Casts   []*datamap.Reference
}

// Labeled is a statement carrying a label such as "outer:".
type Labeled struct {
	container
	Label string
}

// Block is a braced block; in a class body it is an initializer.
type Block struct {
	container
	Static bool
}

// File is the root of a parsed source file.
type File struct {
	container
	Path     string
	Package  string
	Imports  []*Import
	Problems []error
	Lines    int

	ctx *fileContext
}

// Classes returns the top-level types declared in the file.
func (f *File) Classes() []*Class {
	var classes []*Class
	for _, e := range f.contents {
		if c, ok := e.(*Class); ok {
			classes = append(classes, c)
		}
	}
	return classes
}

// FileScope returns the file's root scope and resolution records.
func (f *File) FileScope() *datamap.FileScope { return f.ctx.fs }
