package datamap

import "strings"

// FileScope is the root scope of one source file. It records everything the
// later passes need to revisit: each reference, each declared type, each
// scope created under the file and the file's imports.
type FileScope struct {
	Path    string
	Package string

	root       *Map
	references []*Reference
	objects    []Object
	scopes     []*Map
	imports    []string
	wildcards  []string
}

// NewFileScope creates the scope of the file at path, chained to parent,
// which is normally the scope of the file's package.
func NewFileScope(parent *Map, path, pkg string) *FileScope {
	fs := &FileScope{Path: path, Package: pkg}
	fs.root = newMap(parent, fs)
	fs.scopes = append(fs.scopes, fs.root)
	return fs
}

func (fs *FileScope) Root() *Map { return fs.root }

// SetPackage updates the package once the declaration has been read.
func (fs *FileScope) SetPackage(pkg string) { fs.Package = pkg }

// Import records an import declaration. Single-type imports are bound
// immediately to an Import placeholder under their short name.
func (fs *FileScope) Import(name string, static bool) {
	if pkg, ok := strings.CutSuffix(name, ".*"); ok {
		fs.wildcards = append(fs.wildcards, pkg)
		return
	}
	fs.imports = append(fs.imports, name)
	short := lastSegment(name)
	if static && startsLower(short) {
		return
	}
	fs.root.Declare(short, &Import{full: name})
}

// AddObject records a type declared anywhere in the file.
func (fs *FileScope) AddObject(o Object) {
	fs.objects = append(fs.objects, o)
}

func (fs *FileScope) References() []*Reference { return fs.references }
func (fs *FileScope) Objects() []Object        { return fs.objects }
func (fs *FileScope) Scopes() []*Map           { return fs.scopes }
func (fs *FileScope) Imports() []string        { return fs.imports }
func (fs *FileScope) Wildcards() []string      { return fs.wildcards }

// UnknownCount counts references still bound to Unknown.
func (fs *FileScope) UnknownCount() int {
	n := 0
	for _, ref := range fs.references {
		if ref.IsUnknown() {
			n++
		}
	}
	return n
}
