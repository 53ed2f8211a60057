package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/parser"
)

// Diagnostic is a problem found in one file. Fatal diagnostics removed the
// file from the rest of the analysis.
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"`
}

// Phase is the wall time spent in one analysis phase.
type Phase struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// Report summarises an analysis run.
type Report struct {
	Root        string                  `json:"root"`
	Error       string                  `json:"error,omitempty"`
	Modules     int                     `json:"modules"`
	Packages    int                     `json:"packages"`
	Files       int                     `json:"files"`
	Classes     int                     `json:"classes"`
	Lines       int                     `json:"lines"`
	Diagnostics []Diagnostic            `json:"diagnostics,omitempty"`
	Unresolved  []datamap.Unresolved    `json:"unresolved,omitempty"`
	Phases      []Phase                 `json:"phases"`
	Parsed      map[string]*parser.File `json:"-"`
	Registry    *datamap.Registry       `json:"-"`
}

// Failed reports whether any file was dropped from the analysis.
func (r *Report) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Fatal {
			return true
		}
	}
	return r.Error != ""
}

type analysis struct {
	project *Project
	report  *Report
	files   []*parser.File
}

// Analyze parses every source file of the project and resolves the type
// references across it. The phases run strictly in order: files are parsed
// package by package, then placeholders are consolidated against the
// registry, then the remaining bodies are parsed and unknown names retried.
//
// A file with a fatal error is reported and left out of later phases unless
// StopOnError is set, in which case Analyze returns the error.
func (p *Project) Analyze(ctx context.Context) (*Report, error) {
	a := &analysis{
		project: p,
		report:  &Report{Root: p.Root, Parsed: make(map[string]*parser.File), Registry: p.registry},
	}
	if p.Err != nil {
		a.report.Error = p.Err.Error()
		return a.report, nil
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"parse", a.parse},
		{"consolidate", a.consolidate},
		{"resolve", a.resolve},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.run(ctx); err != nil {
			return a.report, err
		}
		elapsed := time.Since(start)
		a.report.Phases = append(a.report.Phases, Phase{Name: step.name, Duration: elapsed})
		log().Debugf("%s: %s took %s", p.Root, step.name, elapsed)
	}

	for _, f := range a.files {
		a.report.Files++
		a.report.Lines += f.Lines
		a.report.Classes += len(f.FileScope().Objects())
		a.report.Parsed[f.Path] = f
		for _, problem := range f.Problems {
			a.report.Diagnostics = append(a.report.Diagnostics, diagnostics(f.Path, problem, false)...)
		}
	}
	log().Infof("analysed %s: %d files, %d classes, %d unresolved names",
		p.Root, a.report.Files, a.report.Classes, len(a.report.Unresolved))
	return a.report, nil
}

// fail records err against path. With StopOnError it is returned.
func (a *analysis) fail(path string, err error) error {
	a.report.Diagnostics = append(a.report.Diagnostics, diagnostics(path, err, true)...)
	log().Errorf("%s", err)
	if a.project.opts.StopOnError {
		return err
	}
	return nil
}

func (a *analysis) parse(ctx context.Context) error {
	for _, m := range a.project.Modules {
		a.report.Modules++
		for _, pkg := range m.Packages {
			a.report.Packages++
			pkg.register()
			for _, path := range pkg.Paths {
				if err := ctx.Err(); err != nil {
					return err
				}
				f, err := a.parseFile(pkg, path)
				if err != nil {
					if err := a.fail(path, err); err != nil {
						return err
					}
					continue
				}
				a.files = append(a.files, f)
			}
		}
	}
	return nil
}

func (a *analysis) parseFile(pkg *Package, path string) (*parser.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return parser.ParseFile(data,
		parser.WithFile(path),
		parser.WithRegistry(a.project.registry),
		parser.WithScope(pkg.scope),
	)
}

func (a *analysis) consolidate(ctx context.Context) error {
	kept := a.files[:0]
	for _, f := range a.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.FileScope().Consolidate(a.project.registry); err != nil {
			if err := a.fail(f.Path, err); err != nil {
				return err
			}
			continue
		}
		kept = append(kept, f)
	}
	a.files = kept
	return nil
}

func (a *analysis) resolve(ctx context.Context) error {
	reg := a.project.registry
	for _, f := range a.files {
		f.FileScope().ExpandImplicit()
	}
	for _, f := range a.files {
		f.FileScope().ResolveUnknowns(reg)
	}

	kept := a.files[:0]
	for _, f := range a.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := parser.PostProcess(f); err != nil {
			if err := a.fail(f.Path, err); err != nil {
				return err
			}
			continue
		}
		kept = append(kept, f)
	}
	a.files = kept

	scopes := make([]*datamap.FileScope, 0, len(a.files))
	for _, f := range a.files {
		fs := f.FileScope()
		fs.ResolveUnknowns(reg)
		fs.ApplyHiddenChildren(a.project.opts.HiddenChildren, reg)
		scopes = append(scopes, fs)
	}
	a.report.Unresolved = datamap.CollectUnresolved(scopes)
	for _, u := range a.report.Unresolved {
		log().Warningf("unresolved %s (%d references)", u.Name, len(u.Sites))
	}
	return nil
}

// diagnostics flattens err, which may join several errors, into located
// diagnostics.
func diagnostics(path string, err error, fatal bool) []Diagnostic {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, e := range joined.Unwrap() {
			out = append(out, diagnostics(path, e, fatal)...)
		}
		return out
	}

	d := Diagnostic{File: path, Message: err.Error(), Fatal: fatal}
	var (
		pe *parser.ParseError
		me *parser.MultiStatementError
		ae *datamap.UnknownAncestorError
	)
	switch {
	case errors.As(err, &pe):
		d.Line, d.Message = pe.Line, pe.Err.Error()
	case errors.As(err, &me):
		d.Line = me.Line
		d.Message = fmt.Sprintf("multi-statement %s condition: %s", me.Construct, me.Condition)
	case errors.As(err, &ae):
		d.Line = ae.Line
		d.Message = fmt.Sprintf("unknown ancestor %s of %s", ae.Ancestor, ae.Object)
	}
	return []Diagnostic{d}
}
