package pom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the name of a Maven project descriptor.
const FileName = "pom.xml"

var (
	ErrParentMismatch = errors.New("parent coordinates do not match")
	ErrParentCycle    = errors.New("parent chain loops")
)

// Reader loads POM files from disk. Parents are looked up through their
// relativePath and merged into the child: group, version and properties are
// inherited, then ${...} placeholders are interpolated. Loaded files are
// cached by absolute path.
type Reader struct {
	cache   map[string]*Project
	loading map[string]bool
}

func NewReader() *Reader {
	return &Reader{
		cache:   make(map[string]*Project),
		loading: make(map[string]bool),
	}
}

// Read loads the POM at path, which may name the file or its directory.
func (r *Reader) Read(path string) (*Project, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("read POM %s: %w", path, err)
	}
	if p, ok := r.cache[abs]; ok {
		return p, nil
	}
	if r.loading[abs] {
		return nil, fmt.Errorf("read POM %s: %w", abs, ErrParentCycle)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read POM: %w", err)
	}
	project, err := parsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("parse POM %s: %w", path, err)
	}
	project.Path = abs

	r.loading[abs] = true
	defer delete(r.loading, abs)
	if err := r.mergeParent(project); err != nil {
		return nil, err
	}
	interpolateProperties(project)
	r.cache[abs] = project
	return project, nil
}

// ModuleDirs returns the directories of the child modules of project.
func (r *Reader) ModuleDirs(project *Project) []string {
	dir := filepath.Dir(project.Path)
	dirs := make([]string, 0, len(project.Modules))
	for _, m := range project.Modules {
		dirs = append(dirs, filepath.Join(dir, filepath.FromSlash(strings.TrimSpace(m))))
	}
	return dirs
}

func parsePOM(data []byte) (*Project, error) {
	var project Project
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// mergeParent inherits from a parent found on disk. A parent that is not
// present locally, such as one published to a repository, is skipped.
func (r *Reader) mergeParent(project *Project) error {
	if project.Parent == nil {
		return nil
	}
	rel := project.Parent.RelativePath
	if rel == "" {
		rel = filepath.Join("..", FileName)
	}
	path := filepath.Join(filepath.Dir(project.Path), filepath.FromSlash(rel))
	if info, err := os.Stat(path); err != nil {
		return nil
	} else if info.IsDir() {
		path = filepath.Join(path, FileName)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	parent, err := r.Read(path)
	if err != nil {
		return fmt.Errorf("read parent POM: %w", err)
	}
	if parent.ArtifactID != project.Parent.ArtifactID {
		if project.Parent.RelativePath != "" {
			return fmt.Errorf("read parent POM %s: %w: found %s, want %s",
				path, ErrParentMismatch, parent.ArtifactID, project.Parent.ArtifactID)
		}
		return nil
	}

	if project.GroupID == "" {
		project.GroupID = parent.GroupID
	}
	if project.Version == "" {
		project.Version = parent.Version
	}
	if project.Properties == nil {
		project.Properties = &Properties{Entries: make(map[string]string)}
	}
	if parent.Properties != nil {
		for k, v := range parent.Properties.Entries {
			if _, exists := project.Properties.Entries[k]; !exists {
				project.Properties.Entries[k] = v
			}
		}
	}
	return nil
}

func interpolateProperties(project *Project) {
	if project.GroupID == "" && project.Parent != nil {
		project.GroupID = project.Parent.GroupID
	}
	if project.Version == "" && project.Parent != nil {
		project.Version = project.Parent.Version
	}

	props := make(map[string]string)
	props["project.groupId"] = project.GroupID
	props["project.artifactId"] = project.ArtifactID
	props["project.version"] = project.Version
	props["pom.groupId"] = project.GroupID
	props["pom.artifactId"] = project.ArtifactID
	props["pom.version"] = project.Version
	if project.Parent != nil {
		props["project.parent.groupId"] = project.Parent.GroupID
		props["project.parent.version"] = project.Parent.Version
	}
	if project.Properties != nil {
		for k, v := range project.Properties.Entries {
			props[k] = v
		}
	}

	interpolate := func(s string) string {
		for k, v := range props {
			s = strings.ReplaceAll(s, "${"+k+"}", v)
		}
		return s
	}

	project.Version = interpolate(project.Version)
	for i := range project.Modules {
		project.Modules[i] = interpolate(project.Modules[i])
	}
	for i := range project.Dependencies {
		project.Dependencies[i].GroupID = interpolate(project.Dependencies[i].GroupID)
		project.Dependencies[i].ArtifactID = interpolate(project.Dependencies[i].ArtifactID)
		project.Dependencies[i].Version = interpolate(project.Dependencies[i].Version)
	}
}
