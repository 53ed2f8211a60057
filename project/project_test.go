package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const aggregatorPOM = `<project>
  <groupId>com.acme</groupId>
  <artifactId>acme</artifactId>
  <version>1.0</version>
  <packaging>pom</packaging>
  <modules>
    <module>core</module>
    <module>app</module>
  </modules>
</project>`

func modulePOM(name string) string {
	return `<project>
  <parent>
    <groupId>com.acme</groupId>
    <artifactId>acme</artifactId>
    <version>1.0</version>
  </parent>
  <artifactId>` + name + `</artifactId>
</project>`
}

const shapeSource = `package com.acme.core;

public class Shape {
    public static class Point {
    }
}
`

const mainSource = `package com.acme.app;

import com.acme.core.Shape;
import java.util.List;

public class Main extends Shape {
    private Point origin;
    private Widget widget;

    public void run() {
        Widget other = null;
    }
}
`

// newMultiModule lays out an aggregator with a core and an app module.
func newMultiModule(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), aggregatorPOM)
	writeFile(t, filepath.Join(root, "core", "pom.xml"), modulePOM("core"))
	writeFile(t, filepath.Join(root, "app", "pom.xml"), modulePOM("app"))
	writeFile(t, filepath.Join(root, "core", SourceDir, "com", "acme", "core", "Shape.java"), shapeSource)
	writeFile(t, filepath.Join(root, "app", SourceDir, "com", "acme", "app", "Main.java"), mainSource)
	return root
}

func TestLoadDiscoversModulesAndPackages(t *testing.T) {
	root := newMultiModule(t)
	writeFile(t, filepath.Join(root, "core", SourceDir, "com", "acme", "core", "package-info.java"), "package com.acme.core;\n")

	p, err := Load(root, Options{})
	require.NoError(t, err)
	require.NoError(t, p.Err)

	require.Len(t, p.Modules, 2)
	assert.Equal(t, "core", p.Modules[0].Name)
	assert.Equal(t, "app", p.Modules[1].Name)
	assert.Equal(t, "com.acme:acme:1.0", p.POM.Coordinates())

	core := p.Module("core")
	require.NotNil(t, core)
	require.Len(t, core.Packages, 1)
	assert.Equal(t, "com.acme.core", core.Packages[0].Name)
	assert.Len(t, core.Packages[0].Paths, 1, "package-info.java is skipped")
	assert.Nil(t, p.Module("missing"))
}

func TestLoadWithoutPOMUsesSourceTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, SourceDir, "Hello.java"), "public class Hello {\n}\n")

	p, err := Load(root, Options{})
	require.NoError(t, err)
	require.NoError(t, p.Err)
	require.Len(t, p.Modules, 1)
	require.Len(t, p.Modules[0].Packages, 1)
	assert.Equal(t, "", p.Modules[0].Packages[0].Name)
}

func TestLoadClearsModulesOnPOMFailure(t *testing.T) {
	root := newMultiModule(t)
	writeFile(t, filepath.Join(root, "pom.xml"), `<project>
  <artifactId>acme</artifactId>
  <modules>
    <module>core</module>
    <module>missing</module>
  </modules>
</project>`)

	p, err := Load(root, Options{})
	require.NoError(t, err)
	require.Error(t, p.Err)
	assert.ErrorIs(t, p.Err, os.ErrNotExist)
	assert.Empty(t, p.Modules)

	report, err := p.Analyze(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.Error)
	assert.True(t, report.Failed())
	assert.Zero(t, report.Files)
}

func TestLoadAppliesExcludes(t *testing.T) {
	root := newMultiModule(t)
	writeFile(t, filepath.Join(root, "core", SourceDir, "com", "acme", "core", "generated", "Gen.java"), "package com.acme.core.generated;\nclass Gen {\n}\n")

	p, err := Load(root, Options{Exclude: []string{"**/generated/**"}})
	require.NoError(t, err)
	for _, path := range p.Paths() {
		assert.NotContains(t, path, "generated")
	}
	assert.Len(t, p.Paths(), 2)

	_, err = Load(root, Options{Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestAnalyzeResolvesAcrossModules(t *testing.T) {
	p, err := Load(newMultiModule(t), Options{})
	require.NoError(t, err)

	report, err := p.Analyze(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, 2, report.Modules)
	assert.Equal(t, 2, report.Packages)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.Classes)
	assert.Equal(t, 19, report.Lines)
	require.Len(t, report.Phases, 3)
	assert.Equal(t, "parse", report.Phases[0].Name)

	mainPath := p.Module("app").Packages[0].Paths[0]
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "Widget", report.Unresolved[0].Name)
	assert.Equal(t, []datamap.Site{
		{File: mainPath, Line: 8},
		{File: mainPath, Line: 11},
	}, report.Unresolved[0].Sites)

	main, ok := p.Registry().LookupFull("com.acme.app.Main")
	require.True(t, ok)
	ancestors := main.Ancestors()
	require.Len(t, ancestors, 1)
	assert.Equal(t, "com.acme.core.Shape", ancestors[0].Type.FullName())
}

func TestAnalyzeNeverUnresolvesReferences(t *testing.T) {
	p, err := Load(newMultiModule(t), Options{})
	require.NoError(t, err)
	report, err := p.Analyze(context.Background())
	require.NoError(t, err)

	unresolved := map[string]bool{}
	for _, u := range report.Unresolved {
		unresolved[u.Name] = true
	}
	for _, f := range report.Parsed {
		fs := f.FileScope()
		before := fs.UnknownCount()
		fs.ResolveUnknowns(p.Registry())
		fs.ExpandImplicit()
		assert.LessOrEqual(t, fs.UnknownCount(), before)
		for _, ref := range fs.References() {
			if ref.IsUnknown() {
				assert.True(t, unresolved[ref.Name], "%s missing from the report", ref.Name)
			}
		}
	}
}

func TestAnalyzeRecordsFailuresAndContinues(t *testing.T) {
	root := newMultiModule(t)
	broken := filepath.Join(root, "core", SourceDir, "com", "acme", "core", "Broken.java")
	writeFile(t, broken, "package com.acme.core;\n\npublic class Broken {\n    int x;\n")

	p, err := Load(root, Options{})
	require.NoError(t, err)
	report, err := p.Analyze(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Failed())
	assert.Equal(t, 2, report.Files)

	var fatal []Diagnostic
	for _, d := range report.Diagnostics {
		if d.Fatal {
			fatal = append(fatal, d)
		}
	}
	require.Len(t, fatal, 1)
	assert.Equal(t, broken, fatal[0].File)
	assert.Equal(t, 3, fatal[0].Line)

	p, err = Load(root, Options{StopOnError: true})
	require.NoError(t, err)
	_, err = p.Analyze(context.Background())
	assert.ErrorIs(t, err, parser.ErrUnbalanced)
}

func TestAnalyzeReportsDuplicateClasses(t *testing.T) {
	root := newMultiModule(t)
	writeFile(t, filepath.Join(root, "core", SourceDir, "com", "acme", "a", "Util.java"), "package com.acme.a;\n\npublic class Util {\n}\n")
	writeFile(t, filepath.Join(root, "core", SourceDir, "com", "acme", "b", "Util.java"), "package com.acme.b;\n\npublic class Util {\n}\n")

	p, err := Load(root, Options{})
	require.NoError(t, err)
	report, err := p.Analyze(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	assert.True(t, report.Diagnostics[0].Fatal)
	assert.Contains(t, report.Diagnostics[0].Message, "duplicate class Util")
	assert.Contains(t, report.Diagnostics[0].File, filepath.Join("com", "acme", "b"))
}

func TestAnalyzeHonoursContext(t *testing.T) {
	p, err := Load(newMultiModule(t), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Analyze(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeFile(t *testing.T) {
	res, err := AnalyzeFile("Main.java", []byte(mainSource), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "com.acme.app", res.File.Package)

	names := make([]string, 0, len(res.Unresolved))
	for _, u := range res.Unresolved {
		names = append(names, u.Name)
	}
	// Shape is an external import here, so Point cannot be found through it.
	assert.Equal(t, []string{"Point", "Widget"}, names)

	_, err = AnalyzeFile("Broken.java", []byte("class Broken {\n"), nil, nil)
	assert.ErrorIs(t, err, parser.ErrUnbalanced)
}

func TestAnalyzeFileReportsCastTargets(t *testing.T) {
	res, err := AnalyzeFile("A.java", []byte(`package p;

class A {
    private Missing field;

    Object f() {
        Object o = (CastOnly) field;
        return o;
    }
}
`), nil, nil)
	require.NoError(t, err)

	require.Len(t, res.Unresolved, 2)
	assert.Equal(t, "CastOnly", res.Unresolved[0].Name)
	assert.Equal(t, []datamap.Site{{File: "A.java", Line: 7}}, res.Unresolved[0].Sites)
	assert.Equal(t, "Missing", res.Unresolved[1].Name)
}
