// Package codebase keeps the latest analysis of a project and the buffers
// an editor has open, for long-running commands.
package codebase

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/project"
	"github.com/tliron/commonlog"
)

func log() commonlog.Logger { return commonlog.GetLogger("themis.codebase") }

type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	opts     project.Options
	report   *project.Report
	overlays map[string]*Overlay
	hooks    []func(*project.Report)
}

// Overlay is an unsaved buffer analysed on its own.
type Overlay struct {
	Content []byte
	Result  *project.FileResult
	Err     error
}

func New(rootDir string, opts project.Options) *Codebase {
	return &Codebase{
		rootDir:  rootDir,
		opts:     opts,
		overlays: make(map[string]*Overlay),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// OnAnalyze registers fn to run after every completed analysis.
func (c *Codebase) OnAnalyze(fn func(*project.Report)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Analyze reloads the project from disk and analyses it.
func (c *Codebase) Analyze(ctx context.Context) (*project.Report, error) {
	p, err := project.Load(c.rootDir, c.opts)
	if err != nil {
		return nil, err
	}
	report, err := p.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.report = report
	hooks := append([]func(*project.Report){}, c.hooks...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(report)
	}
	return report, nil
}

func (c *Codebase) Report() *project.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

// UpdateFile records the editor content of path and checks its structure
// against the types known from the last analysis.
func (c *Codebase) UpdateFile(path string, content []byte) *Overlay {
	var known *datamap.Registry
	if r := c.Report(); r != nil {
		known = r.Registry
	}
	res, err := project.AnalyzeFile(path, content, c.opts.HiddenChildren, known)
	o := &Overlay{Content: content, Result: res, Err: err}
	if err != nil {
		log().Debugf("%s: %s", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlays[path] = o
	return o
}

// ScanFile reads path from disk as if the editor had sent it.
func (c *Codebase) ScanFile(path string) (*Overlay, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return c.UpdateFile(path, content), nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.overlays, path)
}

func (c *Codebase) GetFile(path string) *Overlay {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.overlays[path]
}

// Diagnostics returns the problems known for path. Structural problems of an
// open buffer replace those of the last analysis; unresolved names always
// come from the last analysis, since a lone buffer cannot see the rest of
// the project.
func (c *Codebase) Diagnostics(path string) []project.Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []project.Diagnostic
	if o, ok := c.overlays[path]; ok {
		switch {
		case o.Err != nil:
			out = append(out, diagnosticOf(path, o.Err))
		case o.Result != nil:
			out = append(out, o.Result.Diagnostics...)
		}
	} else if c.report != nil {
		for _, d := range c.report.Diagnostics {
			if d.File == path {
				out = append(out, d)
			}
		}
	}
	if c.report != nil {
		for _, u := range c.report.Unresolved {
			for _, site := range u.Sites {
				if site.File == path {
					out = append(out, project.Diagnostic{
						File:    path,
						Line:    site.Line,
						Message: "unresolved type " + u.Name,
					})
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// Files returns every path with diagnostics or an open buffer.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	for path := range c.overlays {
		seen[path] = true
	}
	if c.report != nil {
		for path := range c.report.Parsed {
			seen[path] = true
		}
		for _, d := range c.report.Diagnostics {
			seen[d.File] = true
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
