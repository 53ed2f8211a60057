// Package project discovers the modules, packages and source files of a
// Maven source tree and drives the resolution phases over them.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/pom"
	"github.com/tliron/commonlog"
)

func log() commonlog.Logger { return commonlog.GetLogger("themis.project") }

// SourceDir is where a Maven module keeps its Java sources.
var SourceDir = filepath.Join("src", "main", "java")

// DefaultHiddenChildren maps nested type names to the type that declares
// them, for names commonly used without their enclosing type in scope.
var DefaultHiddenChildren = map[string]string{
	"Entry": "RowFilter",
}

// Options controls discovery and analysis.
type Options struct {
	// Exclude holds doublestar globs matched against paths relative to the
	// project root, using forward slashes.
	Exclude        []string
	HiddenChildren map[string]string
	StopOnError    bool
}

// Project represents a Maven project with its source modules.
type Project struct {
	Root    string
	POM     *pom.Project
	Modules []*Module

	// Err holds the POM failure that emptied the module list, if any.
	Err error

	opts     Options
	registry *datamap.Registry
	scope    *datamap.Map
}

// Module is a Maven module that has Java sources.
type Module struct {
	Name     string
	Dir      string
	SrcDir   string
	POM      *pom.Project
	Packages []*Package

	project *Project
	scope   *datamap.Map
}

// Package is one directory of sources inside a module.
type Package struct {
	Name  string
	Dir   string
	Paths []string

	module *Module
	scope  *datamap.Map
}

// Load reads the POM at root and discovers the modules below it. Modules
// are found through the module lists of aggregator POMs; a directory counts
// as a module when it has src/main/java. A POM that cannot be read leaves
// the project without modules and sets Err.
func Load(root string, opts Options) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load project: %s is not a directory", abs)
	}
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if opts.HiddenChildren == nil {
		opts.HiddenChildren = DefaultHiddenChildren
	}

	p := &Project{
		Root:     abs,
		opts:     opts,
		registry: datamap.NewRegistry(),
	}
	p.scope = datamap.NewScope(datamap.NewBase())

	reader := pom.NewReader()
	if _, err := os.Stat(filepath.Join(abs, pom.FileName)); err != nil {
		// a bare source tree is analysed as a single module
		if hasSources(abs) {
			p.addModule(filepath.Base(abs), abs, nil)
		} else {
			p.Err = fmt.Errorf("no %s or %s in %s", pom.FileName, filepath.ToSlash(SourceDir), abs)
		}
	} else if p.POM, err = reader.Read(abs); err != nil {
		p.Err = err
	} else if err := p.discover(reader, abs, p.POM); err != nil {
		p.Err = err
		p.Modules = nil
	}
	if p.Err != nil {
		log().Errorf("%s: %s", abs, p.Err)
		return p, nil
	}

	for _, m := range p.Modules {
		if err := m.scan(); err != nil {
			return nil, err
		}
	}
	log().Infof("loaded %s: %d modules", abs, len(p.Modules))
	return p, nil
}

func (p *Project) discover(reader *pom.Reader, dir string, project *pom.Project) error {
	if hasSources(dir) {
		name := project.ArtifactID
		if name == "" {
			name = filepath.Base(dir)
		}
		p.addModule(name, dir, project)
	}
	for _, child := range reader.ModuleDirs(project) {
		cp, err := reader.Read(child)
		if err != nil {
			return fmt.Errorf("module %s: %w", child, err)
		}
		if err := p.discover(reader, child, cp); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) addModule(name, dir string, project *pom.Project) {
	p.Modules = append(p.Modules, &Module{
		Name:    name,
		Dir:     dir,
		SrcDir:  filepath.Join(dir, SourceDir),
		POM:     project,
		project: p,
		scope:   datamap.NewScope(p.scope),
	})
}

func hasSources(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, SourceDir))
	return err == nil && info.IsDir()
}

// Module returns the module with the given name, or nil if not found.
func (p *Project) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Registry returns the project-wide index of declared types.
func (p *Project) Registry() *datamap.Registry { return p.registry }

// Paths returns the source files of every module.
func (p *Project) Paths() []string {
	var paths []string
	for _, m := range p.Modules {
		for _, pkg := range m.Packages {
			paths = append(paths, pkg.Paths...)
		}
	}
	return paths
}

func (p *Project) excluded(path string) bool {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// scan walks the source directory and groups the Java files by package.
func (m *Module) scan() error {
	byDir := make(map[string]*Package)
	err := filepath.WalkDir(m.SrcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if m.project.excluded(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isSourceFile(d.Name()) {
			return nil
		}
		dir := filepath.Dir(path)
		pkg, ok := byDir[dir]
		if !ok {
			pkg = &Package{
				Name:   packageName(m.SrcDir, dir),
				Dir:    dir,
				module: m,
				scope:  datamap.NewScope(m.scope),
			}
			byDir[dir] = pkg
			m.Packages = append(m.Packages, pkg)
		}
		pkg.Paths = append(pkg.Paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", m.SrcDir, err)
	}
	sort.Slice(m.Packages, func(i, j int) bool { return m.Packages[i].Name < m.Packages[j].Name })
	log().Debugf("module %s: %d packages", m.Name, len(m.Packages))
	return nil
}

func isSourceFile(name string) bool {
	if name == "package-info.java" || name == "module-info.java" {
		return false
	}
	return strings.HasSuffix(name, ".java")
}

// packageName derives the dotted package name from a directory below the
// source root. The source root itself is the unnamed package.
func packageName(srcDir, dir string) string {
	rel, err := filepath.Rel(srcDir, dir)
	if err != nil || rel == "." {
		return ""
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

// Module returns the module the package belongs to.
func (pkg *Package) Module() *Module { return pkg.module }

// register declares a File placeholder for every source file, so that types
// of the package resolve before their files are parsed.
func (pkg *Package) register() {
	for _, path := range pkg.Paths {
		name := strings.TrimSuffix(filepath.Base(path), ".java")
		pkg.scope.Declare(name, datamap.NewFileType(pkg.Name, name))
	}
}
