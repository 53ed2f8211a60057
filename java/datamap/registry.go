package datamap

import (
	"sort"
	"strings"
	"sync"
)

// Registry indexes the declared types of a whole project by short and full
// name. Insertion is guarded so files may register concurrently.
type Registry struct {
	mu       sync.Mutex
	short    map[string]Object
	full     map[string]Object
	packages map[string][]Object
}

func NewRegistry() *Registry {
	return &Registry{
		short:    make(map[string]Object),
		full:     make(map[string]Object),
		packages: make(map[string][]Object),
	}
}

// Register records o under its full name. Non-private top-level types are
// also recorded under their short name; a second such type with the same
// short name is a *DuplicateClassError.
func (r *Registry) Register(o Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.full[o.FullName()] = o
	if !o.IsTopLevel() {
		return nil
	}
	pkg := strings.TrimSuffix(strings.TrimSuffix(o.FullName(), o.Name()), ".")
	r.packages[pkg] = append(r.packages[pkg], o)
	if o.IsPrivate() {
		return nil
	}
	if existing, ok := r.short[o.Name()]; ok && existing != o {
		return &DuplicateClassError{
			Name:     o.Name(),
			Existing: existing.FullName(),
			Conflict: o.FullName(),
		}
	}
	r.short[o.Name()] = o
	return nil
}

func (r *Registry) LookupShort(name string) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.short[name]
	return o, ok
}

func (r *Registry) LookupFull(name string) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.full[name]
	return o, ok
}

// Package returns the top-level types declared in pkg.
func (r *Registry) Package(pkg string) []Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Object(nil), r.packages[pkg]...)
}

// Objects returns every registered type ordered by full name.
func (r *Registry) Objects() []Object {
	r.mu.Lock()
	objects := make([]Object, 0, len(r.full))
	for _, o := range r.full {
		objects = append(objects, o)
	}
	r.mu.Unlock()
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].FullName() < objects[j].FullName()
	})
	return objects
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.full)
}
