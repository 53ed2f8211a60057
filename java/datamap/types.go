// Package datamap holds the scoped symbol tables used to bind Java type names
// to declarations, and the passes that resolve them across a project.
package datamap

import "strings"

type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindBuiltin
	KindImport
	KindFile
	KindObject
	KindGeneric
	KindUnknown
	KindChild
)

var typeKindNames = map[TypeKind]string{
	KindPrimitive: "Primitive",
	KindBuiltin:   "Builtin",
	KindImport:    "Import",
	KindFile:      "File",
	KindObject:    "Object",
	KindGeneric:   "Generic",
	KindUnknown:   "Unknown",
	KindChild:     "Child",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "TypeKind(?)"
}

// DataType is anything a type name can be bound to.
type DataType interface {
	TypeKind() TypeKind
	Name() string
	FullName() string
}

// Object is a type declared in source: class, interface, enum, record,
// annotation type, local class or anonymous class.
type Object interface {
	DataType
	Ancestors() []*Reference
	Members() []Object
	IsPrivate() bool
	IsTopLevel() bool
	Scope() *Map
}

// IsIntermediate reports whether t is a placeholder that consolidation is
// expected to replace.
func IsIntermediate(t DataType) bool {
	if t == nil {
		return false
	}
	k := t.TypeKind()
	return k == KindImport || k == KindFile
}

// IsUnknown reports whether t is nil or an Unknown placeholder.
func IsUnknown(t DataType) bool {
	return t == nil || t.TypeKind() == KindUnknown
}

type Primitive struct {
	name string
}

func (p *Primitive) TypeKind() TypeKind { return KindPrimitive }
func (p *Primitive) Name() string       { return p.name }
func (p *Primitive) FullName() string   { return p.name }

// Builtin is an implicitly imported platform type.
type Builtin struct {
	name string
	full string
}

func (b *Builtin) TypeKind() TypeKind { return KindBuiltin }
func (b *Builtin) Name() string       { return b.name }
func (b *Builtin) FullName() string   { return b.full }

// Import stands in for a single-type import until the declaration is found.
// Imports of types outside the project keep this binding.
type Import struct {
	full string
}

func NewImport(full string) *Import { return &Import{full: full} }

func (i *Import) TypeKind() TypeKind { return KindImport }
func (i *Import) Name() string       { return lastSegment(i.full) }
func (i *Import) FullName() string   { return i.full }

// FileType stands in for a type of the same package, named after its file.
type FileType struct {
	pkg  string
	name string
}

func NewFileType(pkg, name string) *FileType { return &FileType{pkg: pkg, name: name} }

func (f *FileType) TypeKind() TypeKind { return KindFile }
func (f *FileType) Name() string       { return f.name }
func (f *FileType) FullName() string   { return qualify(f.pkg, f.name) }

// GenericVariable is a type parameter declared by a class or method.
type GenericVariable struct {
	name  string
	Bound *Reference
}

func (g *GenericVariable) TypeKind() TypeKind { return KindGeneric }
func (g *GenericVariable) Name() string       { return g.name }
func (g *GenericVariable) FullName() string   { return g.name }

type Unknown struct {
	name string
}

func (u *Unknown) TypeKind() TypeKind { return KindUnknown }
func (u *Unknown) Name() string       { return u.name }
func (u *Unknown) FullName() string   { return u.name }

// Child is a member type reached through a qualified name whose member
// could not be found directly, such as Map.Entry through an import.
type Child struct {
	Parent DataType
	Member string
}

func (c *Child) TypeKind() TypeKind { return KindChild }
func (c *Child) Name() string       { return c.Member }
func (c *Child) FullName() string   { return c.Parent.FullName() + "." + c.Member }

// MemberOf returns the nested declaration of o called name.
func MemberOf(o Object, name string) (Object, bool) {
	for _, m := range o.Members() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func startsLower(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}
