package datamap

import (
	"errors"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

// log looks the logger up on each use, after the command has configured
// the backend.
func log() commonlog.Logger { return commonlog.GetLogger("themis.datamap") }

// Consolidate replaces the placeholders of the file with declarations from
// the registry. It expands in-project wildcard imports, binds same-package
// types, rebinds Import and File placeholders in every scope and reference,
// and finally binds each declared type's unresolved ancestors. Ancestors
// that cannot be bound are returned as *UnknownAncestorError values.
func (fs *FileScope) Consolidate(reg *Registry) error {
	fs.expandWildcards(reg)
	if pkgScope := fs.root.parent; pkgScope != nil {
		for _, o := range reg.Package(fs.Package) {
			if t, ok := pkgScope.LookupLocal(o.Name()); !ok || IsIntermediate(t) {
				pkgScope.Declare(o.Name(), o)
			}
		}
		consolidateScope(pkgScope, reg)
	}
	for _, s := range fs.scopes {
		consolidateScope(s, reg)
	}
	for _, ref := range fs.references {
		rebind(ref, reg)
	}

	var errs []error
	for _, o := range fs.objects {
		for _, anc := range o.Ancestors() {
			if !anc.IsUnknown() {
				continue
			}
			if err := fs.resolveAncestor(o, anc, reg); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (fs *FileScope) expandWildcards(reg *Registry) {
	for _, w := range fs.wildcards {
		objects := reg.Package(w)
		if len(objects) == 0 {
			if o, ok := reg.LookupFull(w); ok {
				objects = o.Members()
			}
		}
		for _, o := range objects {
			if _, ok := fs.root.LookupLocal(o.Name()); !ok {
				fs.root.Declare(o.Name(), o)
			}
		}
	}
}

// externalWildcard returns the first wildcard import naming nothing declared
// in the project.
func (fs *FileScope) externalWildcard(reg *Registry) string {
	for _, w := range fs.wildcards {
		if len(reg.Package(w)) > 0 {
			continue
		}
		if _, ok := reg.LookupFull(w); ok {
			continue
		}
		return w
	}
	return ""
}

func (fs *FileScope) resolveAncestor(o Object, anc *Reference, reg *Registry) error {
	if t, ok := anc.scope.resolve(anc.Name); ok {
		anc.Bind(consolidateType(t, reg))
		return nil
	}
	if !strings.Contains(anc.Name, ".") {
		if t, ok := reg.LookupShort(anc.Name); ok {
			anc.Bind(t)
			return nil
		}
	}
	if w := fs.externalWildcard(reg); w != "" {
		log().Debugf("%s: ancestor %s of %s assumed from %s.*", fs.Path, anc.Name, o.Name(), w)
		anc.Bind(&Import{full: w + "." + anc.Name})
		return nil
	}
	return &UnknownAncestorError{
		Object:   o.FullName(),
		Ancestor: anc.Name,
		File:     fs.Path,
		Line:     anc.Line,
	}
}

// ExpandImplicit makes the non-private nested types of every ancestor
// visible inside each declared type, as inheritance does in Java. It returns
// the number of names added.
func (fs *FileScope) ExpandImplicit() int {
	added := 0
	for _, o := range fs.objects {
		scope := o.Scope()
		if scope == nil {
			continue
		}
		seen := map[Object]bool{o: true}
		var walk func(Object)
		walk = func(x Object) {
			for _, anc := range x.Ancestors() {
				a, ok := anc.Type.(Object)
				if !ok || seen[a] {
					continue
				}
				seen[a] = true
				for _, member := range a.Members() {
					if member.IsPrivate() {
						continue
					}
					if _, ok := scope.LookupLocal(member.Name()); ok {
						continue
					}
					scope.Declare(member.Name(), member)
					added++
				}
				walk(a)
			}
		}
		walk(o)
	}
	return added
}

// ResolveUnknowns retries every Unknown reference against its scope chain and
// rebinds any placeholders created since consolidation. It returns the
// number of references that left the Unknown state.
func (fs *FileScope) ResolveUnknowns(reg *Registry) int {
	resolved := 0
	for _, ref := range fs.references {
		if !ref.IsUnknown() {
			rebind(ref, reg)
			continue
		}
		if ref.scope == nil {
			continue
		}
		if t, ok := ref.scope.resolve(ref.Name); ok {
			ref.Bind(consolidateType(t, reg))
			resolved++
		}
	}
	for _, s := range fs.scopes {
		for name := range s.unknowns {
			if _, ok := s.resolve(name); ok {
				delete(s.unknowns, name)
			}
		}
	}
	return resolved
}

// ApplyHiddenChildren binds remaining Unknown references through a table of
// nested type name to enclosing type name, such as Entry to RowFilter.
func (fs *FileScope) ApplyHiddenChildren(table map[string]string, reg *Registry) int {
	bound := 0
	for _, ref := range fs.references {
		if !ref.IsUnknown() || ref.scope == nil {
			continue
		}
		enclosing, ok := table[ref.Name]
		if !ok {
			continue
		}
		parent, ok := ref.scope.resolve(enclosing)
		if !ok {
			continue
		}
		ref.Bind(memberType(consolidateType(parent, reg), ref.Name))
		bound++
	}
	return bound
}

func consolidateScope(m *Map, reg *Registry) {
	for name, t := range m.names {
		if nt := consolidateType(t, reg); nt != t {
			m.names[name] = nt
		}
	}
}

func rebind(ref *Reference, reg *Registry) {
	if t := consolidateType(ref.Type, reg); t != ref.Type {
		ref.Bind(t)
	}
}

func consolidateType(t DataType, reg *Registry) DataType {
	switch v := t.(type) {
	case *Import, *FileType:
		if o, ok := reg.LookupFull(t.FullName()); ok {
			return o
		}
	case *Child:
		parent := consolidateType(v.Parent, reg)
		if o, ok := parent.(Object); ok {
			if member, ok := MemberOf(o, v.Member); ok {
				return member
			}
		}
		if parent != v.Parent {
			return &Child{Parent: parent, Member: v.Member}
		}
	}
	return t
}

// Site is one place a name was referenced.
type Site struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Unresolved is a type name that no pass could bind, with every place it
// was referenced.
type Unresolved struct {
	Name  string `json:"name"`
	Sites []Site `json:"sites"`
}

// CollectUnresolved gathers the names still bound to Unknown, or to a File
// placeholder no declaration was found for, across files. Each distinct
// name appears once; each site appears once under its name.
func CollectUnresolved(files []*FileScope) []Unresolved {
	sites := make(map[string]map[Site]bool)
	for _, fs := range files {
		for _, ref := range fs.references {
			if ref.Name == "" {
				continue
			}
			if !ref.IsUnknown() && ref.Type.TypeKind() != KindFile {
				continue
			}
			if sites[ref.Name] == nil {
				sites[ref.Name] = make(map[Site]bool)
			}
			sites[ref.Name][Site{File: fs.Path, Line: ref.Line}] = true
		}
	}

	report := make([]Unresolved, 0, len(sites))
	for name, set := range sites {
		u := Unresolved{Name: name}
		for site := range set {
			u.Sites = append(u.Sites, site)
		}
		sort.Slice(u.Sites, func(i, j int) bool {
			if u.Sites[i].File != u.Sites[j].File {
				return u.Sites[i].File < u.Sites[j].File
			}
			return u.Sites[i].Line < u.Sites[j].Line
		})
		report = append(report, u)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Name < report[j].Name })
	return report
}
