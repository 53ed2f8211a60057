package parser

import (
	"errors"
	"fmt"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/source"
	"github.com/tliron/commonlog"
)

// log looks the logger up on each use, after the command has configured
// the backend.
func log() commonlog.Logger { return commonlog.GetLogger("themis.parser") }

type mode int

const (
	modeFile mode = iota
	modeClass
	modeEnum
	modeBody
)

type Option func(*fileContext)

func WithFile(path string) Option {
	return func(ctx *fileContext) {
		ctx.path = path
	}
}

// WithRegistry shares a project-wide registry of declared types.
func WithRegistry(reg *datamap.Registry) Option {
	return func(ctx *fileContext) {
		ctx.registry = reg
	}
}

// WithScope chains the file scope to parent, normally the package scope.
func WithScope(parent *datamap.Map) Option {
	return func(ctx *fileContext) {
		ctx.parent = parent
	}
}

// fileContext is shared by every parser working on one file.
type fileContext struct {
	path     string
	pkg      string
	registry *datamap.Registry
	parent   *datamap.Map
	fs       *datamap.FileScope
	file     *File
}

func (ctx *fileContext) problem(err error) {
	ctx.file.Problems = append(ctx.file.Problems, err)
}

type classifier func(*Parser) (Element, bool, error)

// Parser classifies the lines of one body. Nested bodies get their own
// Parser sharing the file context, with the nested container as owner.
type Parser struct {
	ctx      *fileContext
	cursor   *cursor
	owner    Container
	scope    *datamap.Map
	mode     mode
	classify []classifier

	constantsDone bool
}

func newParser(ctx *fileContext, c *cursor, owner Container, m mode) *Parser {
	return &Parser{
		ctx:      ctx,
		cursor:   c,
		owner:    owner,
		scope:    owner.Scope(),
		mode:     m,
		classify: classifiersFor(m),
	}
}

func classifiersFor(m mode) []classifier {
	switch m {
	case modeFile:
		return []classifier{
			(*Parser).parseCommentsAndBlanks,
			(*Parser).parsePackage,
			(*Parser).parseImport,
			(*Parser).parseAnnotation,
			(*Parser).parseTypeDeclaration,
			(*Parser).parseStraySemicolon,
		}
	case modeClass:
		return []classifier{
			(*Parser).parseCommentsAndBlanks,
			(*Parser).parseAnnotation,
			(*Parser).parseTypeDeclaration,
			(*Parser).parseInitializer,
			(*Parser).parseStraySemicolon,
			(*Parser).parseMember,
		}
	case modeEnum:
		return []classifier{
			(*Parser).parseCommentsAndBlanks,
			(*Parser).parseAnnotation,
			(*Parser).parseEnumConstants,
			(*Parser).parseTypeDeclaration,
			(*Parser).parseInitializer,
			(*Parser).parseStraySemicolon,
			(*Parser).parseMember,
		}
	default:
		return []classifier{
			(*Parser).parseCommentsAndBlanks,
			(*Parser).parseAnnotation,
			(*Parser).parseTypeDeclaration,
			(*Parser).parseLanguage,
			(*Parser).parseLabeled,
			(*Parser).parseEmbedded,
			(*Parser).parseLocalVariable,
			(*Parser).parseStatement,
		}
	}
}

// ParseFile runs the structural pass over one source file. Method,
// initializer and lambda bodies are kept as raw lines until PostProcess.
func ParseFile(data []byte, opts ...Option) (*File, error) {
	ctx := &fileContext{}
	for _, opt := range opts {
		opt(ctx)
	}
	if ctx.registry == nil {
		ctx.registry = datamap.NewRegistry()
	}
	if ctx.parent == nil {
		ctx.parent = datamap.NewScope(datamap.NewBase())
	}

	lines, err := source.Split(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ctx.path, err)
	}

	ctx.fs = datamap.NewFileScope(ctx.parent, ctx.path, "")
	f := &File{
		container: newContainer(KindFile, nil, ctx.fs.Root()),
		Path:      ctx.path,
		Lines:     len(lines),
		ctx:       ctx,
	}
	ctx.file = f

	p := newParser(ctx, newCursor(lines), f, modeFile)
	if err := p.parseAll(); err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		f.setSpan(1, len(lines))
	}
	log().Debugf("parsed %s: %d lines, %d types", ctx.path, f.Lines, len(ctx.fs.Objects()))
	return f, nil
}

// PostProcess parses every deferred body of f, including bodies discovered
// while doing so.
func PostProcess(f *File) error {
	var err error
	Walk(f, func(e Element) bool {
		if err != nil {
			return false
		}
		c, ok := e.(Container)
		if !ok {
			return true
		}
		lines, ok := c.takeDeferred()
		if !ok {
			return true
		}
		p := newParser(f.ctx, newCursor(lines), c, modeBody)
		err = p.parseAll()
		return err == nil
	})
	return err
}

func (p *Parser) parseAll() error {
	for p.cursor.HasLines() {
		e, err := p.next()
		if err != nil {
			return err
		}
		if e != nil {
			p.owner.add(e)
		}
	}
	return nil
}

// next classifies the element starting at the front of the queue.
func (p *Parser) next() (Element, error) {
	for _, classify := range p.classify {
		e, ok, err := classify(p)
		if err != nil {
			return nil, err
		}
		if ok {
			return e, nil
		}
	}
	return nil, p.fail(p.cursor.Peek(), ErrUnrecognised)
}

// child returns a parser over lines for the body of owner.
func (p *Parser) child(owner Container, lines []*source.Line, m mode) *Parser {
	return newParser(p.ctx, newCursor(lines), owner, m)
}

// shared returns a parser for owner reading from this parser's queue, used
// for bodies made of a single statement.
func (p *Parser) shared(owner Container) *Parser {
	return newParser(p.ctx, p.cursor, owner, modeBody)
}

func (p *Parser) fail(l *source.Line, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	line := p.cursor.Last()
	if l != nil {
		line = l.Number()
	}
	return &ParseError{File: p.ctx.path, Line: line, Err: err}
}

// processExtra looks for a continuation introduced by kw, such as else or
// catch. Blank and comment lines before it are skipped. When the next code
// line starts with kw, the keyword is consumed and the rest of the line stays
// queued. Otherwise every line read is pushed back untouched.
func (p *Parser) processExtra(kw Keyword) (int, bool) {
	var read []*source.Line
	for p.cursor.HasLines() {
		l := p.cursor.Pop()
		read = append(read, l)
		if l.IsEmpty() && len(l.Modifiers()) == 0 {
			continue
		}
		if stripKeyword(l, kw) {
			p.cursor.PushRemainder(l)
			return l.Number(), true
		}
		break
	}
	for i := len(read) - 1; i >= 0; i-- {
		p.cursor.Push(read[i])
	}
	return 0, false
}

// enclosingClass returns the nearest declared type around the owner.
func (p *Parser) enclosingClass() *Class {
	for c := p.owner; c != nil; c = c.Parent() {
		if cls, ok := c.(*Class); ok {
			return cls
		}
	}
	return nil
}

func (p *Parser) parseStraySemicolon() (Element, bool, error) {
	l := p.cursor.Peek()
	if !l.StartsWithChar(source.Semicolon) {
		return nil, false, nil
	}
	p.cursor.Pop()
	l.StripStartChar(source.Semicolon)
	p.cursor.PushRemainder(l)
	s := &Statement{node: node{kind: KindStatement}, Text: ";"}
	s.setSpan(l.Number(), l.Number())
	return s, true, nil
}
