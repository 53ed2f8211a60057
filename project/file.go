package project

import (
	"strings"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/parser"
)

// FileResult is the outcome of analysing a file on its own.
type FileResult struct {
	File        *parser.File
	Diagnostics []Diagnostic
	Unresolved  []datamap.Unresolved
}

// AnalyzeFile runs every phase over a single source file, as if it were the
// only file of its package. When known is set, the types it holds, such as
// the registry of an earlier project analysis, are visible to the file
// except for those the file declares itself. A fatal structural error is
// returned as is.
func AnalyzeFile(path string, data []byte, hidden map[string]string, known *datamap.Registry) (*FileResult, error) {
	if hidden == nil {
		hidden = DefaultHiddenChildren
	}
	reg := datamap.NewRegistry()
	pkgScope := datamap.NewScope(datamap.NewScope(datamap.NewBase()))

	f, err := parser.ParseFile(data,
		parser.WithFile(path),
		parser.WithRegistry(reg),
		parser.WithScope(pkgScope),
	)
	if err != nil {
		return nil, err
	}
	if known != nil {
		seed(reg, known, f)
	}

	res := &FileResult{File: f}
	fs := f.FileScope()
	if err := fs.Consolidate(reg); err != nil {
		// unknown ancestors still leave a usable tree
		res.Diagnostics = append(res.Diagnostics, diagnostics(path, err, false)...)
	}
	fs.ExpandImplicit()
	fs.ResolveUnknowns(reg)
	if err := parser.PostProcess(f); err != nil {
		return nil, err
	}
	fs.ResolveUnknowns(reg)
	fs.ApplyHiddenChildren(hidden, reg)

	for _, problem := range f.Problems {
		res.Diagnostics = append(res.Diagnostics, diagnostics(path, problem, false)...)
	}
	res.Unresolved = datamap.CollectUnresolved([]*datamap.FileScope{fs})
	return res, nil
}

// seed copies the types of known into reg, leaving out the types declared
// by f and everything nested in them, which f now defines.
func seed(reg, known *datamap.Registry, f *parser.File) {
	var own []string
	for _, c := range f.Classes() {
		own = append(own, c.FullName())
	}
	for _, o := range known.Objects() {
		name := o.FullName()
		if _, ok := reg.LookupFull(name); ok || declaredIn(own, name) {
			continue
		}
		if err := reg.Register(o); err != nil {
			log().Debugf("%s: %s", f.Path, err)
		}
	}
}

func declaredIn(own []string, name string) bool {
	for _, top := range own {
		if name == top || strings.HasPrefix(name, top+".") || strings.HasPrefix(name, top+"$") {
			return true
		}
	}
	return false
}
