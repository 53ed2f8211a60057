package datamap

import "strings"

// Map is one scope of the symbol table. Lookups walk outward through the
// parent chain and stop at the first hit; the base map terminates the chain.
type Map struct {
	parent    *Map
	file      *FileScope
	names     map[string]DataType
	variables map[string]*Reference
	unknowns  map[string]*Unknown
	counters  map[string]int
}

func newMap(parent *Map, file *FileScope) *Map {
	return &Map{
		parent:    parent,
		file:      file,
		names:     make(map[string]DataType),
		variables: make(map[string]*Reference),
		unknowns:  make(map[string]*Unknown),
		counters:  make(map[string]int),
	}
}

// Child creates a nested scope. Scopes created under a file are tracked by
// its FileScope so the resolution passes can visit them.
func (m *Map) Child() *Map {
	c := newMap(m, m.file)
	if m.file != nil {
		m.file.scopes = append(m.file.scopes, c)
	}
	return c
}

func (m *Map) Parent() *Map { return m.parent }

// FileScope returns the file this scope belongs to, or nil above file level.
func (m *Map) FileScope() *FileScope { return m.file }

func (m *Map) Lookup(name string) (DataType, bool) {
	for s := m; s != nil; s = s.parent {
		if t, ok := s.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (m *Map) LookupLocal(name string) (DataType, bool) {
	t, ok := m.names[name]
	return t, ok
}

// Declare binds name in this scope, replacing any earlier binding.
func (m *Map) Declare(name string, t DataType) {
	m.names[name] = t
	delete(m.unknowns, name)
}

// DeclareObject binds o under its short name. Redeclaration replaces the
// previous object, so the last declaration wins.
func (m *Map) DeclareObject(o Object) {
	m.Declare(o.Name(), o)
}

func (m *Map) DeclareGeneric(name string, bound *Reference) *GenericVariable {
	g := &GenericVariable{name: name, Bound: bound}
	m.Declare(name, g)
	return g
}

func (m *Map) DeclareVariable(name string, ref *Reference) {
	m.variables[name] = ref
}

// Variable finds a declared variable in this scope or an enclosing one.
func (m *Map) Variable(name string) (*Reference, bool) {
	for s := m; s != nil; s = s.parent {
		if r, ok := s.variables[name]; ok {
			return r, true
		}
	}
	return nil, false
}

// Names returns the names bound locally in this scope.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.names))
	for name := range m.names {
		names = append(names, name)
	}
	return names
}

// Unknowns returns the names this scope failed to resolve.
func (m *Map) Unknowns() []string {
	names := make([]string, 0, len(m.unknowns))
	for name := range m.unknowns {
		names = append(names, name)
	}
	return names
}

// NextLocalIndex returns the next number for a local or anonymous class
// called base in this scope, starting at 1.
func (m *Map) NextLocalIndex(base string) int {
	m.counters[base]++
	return m.counters[base]
}

// Reference parses a written type such as "Map<String, List<T>>[]", binds it
// against the scope chain and records it with the file. Names that cannot be
// bound yield an Unknown placeholder kept in this scope.
func (m *Map) Reference(text string, line int) *Reference {
	name, args, dims := parseTypeText(text)
	ref := &Reference{Name: name, Dims: dims, Line: line, scope: m}
	for _, arg := range args {
		if bound := wildcardBound(arg); bound != "" {
			ref.Generics = append(ref.Generics, m.Reference(bound, line))
		}
	}
	if name == "" {
		ref.Type = &Unknown{}
		return ref
	}
	if t, ok := m.resolve(name); ok {
		ref.Type = t
	} else {
		ref.Type = m.unknown(name)
	}
	if m.file != nil {
		m.file.references = append(m.file.references, ref)
	}
	return ref
}

func (m *Map) unknown(name string) *Unknown {
	if u, ok := m.unknowns[name]; ok {
		return u
	}
	u := &Unknown{name: name}
	m.unknowns[name] = u
	return u
}

// resolve binds a possibly dotted name. The head is looked up through the
// chain and each further segment selects a member. An unresolved lower-case
// head is taken to start a fully qualified name.
func (m *Map) resolve(name string) (DataType, bool) {
	head, rest, dotted := strings.Cut(name, ".")
	t, ok := m.Lookup(head)
	if !ok {
		if dotted && startsLower(head) {
			return &Import{full: name}, true
		}
		return nil, false
	}
	for dotted {
		var seg string
		seg, rest, dotted = strings.Cut(rest, ".")
		t = memberType(t, seg)
	}
	return t, true
}

func memberType(t DataType, name string) DataType {
	if o, ok := t.(Object); ok {
		if member, ok := MemberOf(o, name); ok {
			return member
		}
	}
	return &Child{Parent: t, Member: name}
}
