package store

import (
	"path/filepath"
	"testing"

	"github.com/dhamidi/themis/java/parser"
	"github.com/dhamidi/themis/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outerSource = `package p;

public class Outer {
    class Inner {
    }
    Widget w;
    Widget v;
}
`

func newReport(t *testing.T) *project.Report {
	t.Helper()
	res, err := project.AnalyzeFile("Outer.java", []byte(outerSource), nil, nil)
	require.NoError(t, err)
	return &project.Report{
		Root:       "/src/demo",
		Modules:    1,
		Packages:   1,
		Files:      1,
		Classes:    2,
		Lines:      res.File.Lines,
		Unresolved: res.Unresolved,
		Diagnostics: []project.Diagnostic{
			{File: "Other.java", Line: 4, Message: "unbalanced braces", Fatal: true},
		},
		Parsed: map[string]*parser.File{"Outer.java": res.File},
	}
}

func TestSaveAndQuery(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "data", "themis.db"))
	require.NoError(t, err)
	defer s.Close()

	id, err := s.Save(newReport(t))
	require.NoError(t, err)
	assert.Len(t, id, 36)

	runs, err := s.Runs("/src/demo")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 8, runs[0].Lines)
	assert.Equal(t, 2, runs[0].Classes)
	assert.False(t, runs[0].Time.IsZero())

	classes, err := s.Classes(id)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, Class{FullName: "p.Outer", Kind: "Class", File: "Outer.java", First: 3, Last: 8}, classes[0])

	unresolved, err := s.Unresolved(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Widget": 2}, unresolved)

	_, err = s.Unresolved("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunsAreKeptPerRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themis.db")
	s, err := Open(path)
	require.NoError(t, err)

	first, err := s.Save(newReport(t))
	require.NoError(t, err)
	second, err := s.Save(newReport(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs("/src/demo")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)

	runs, err = s.Runs("/elsewhere")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenRejectsDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)

	_, err = Open("  ")
	assert.Error(t, err)
}
