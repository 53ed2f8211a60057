package pom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePOM(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestReadInheritsFromLocalParent(t *testing.T) {
	root := t.TempDir()
	writePOM(t, root, `<project>
  <groupId>net.example</groupId>
  <artifactId>parent</artifactId>
  <version>1.2.0</version>
  <packaging>pom</packaging>
  <properties>
    <lib.version>3.1</lib.version>
  </properties>
  <modules>
    <module>core</module>
    <module>app</module>
  </modules>
</project>`)
	writePOM(t, filepath.Join(root, "core"), `<project>
  <parent>
    <groupId>net.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.2.0</version>
  </parent>
  <artifactId>core</artifactId>
  <dependencies>
    <dependency>
      <groupId>org.lib</groupId>
      <artifactId>lib</artifactId>
      <version>${lib.version}</version>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>api</artifactId>
      <version>${project.version}</version>
    </dependency>
  </dependencies>
</project>`)

	r := NewReader()
	parent, err := r.Read(root)
	require.NoError(t, err)
	assert.True(t, parent.IsAggregator())
	assert.Equal(t, []string{
		filepath.Join(root, "core"),
		filepath.Join(root, "app"),
	}, r.ModuleDirs(parent))

	core, err := r.Read(filepath.Join(root, "core", FileName))
	require.NoError(t, err)
	assert.Equal(t, "net.example:core:1.2.0", core.Coordinates())
	assert.False(t, core.IsAggregator())
	require.Len(t, core.Dependencies, 2)
	assert.Equal(t, "3.1", core.Dependencies[0].Version)
	assert.Equal(t, "net.example", core.Dependencies[1].GroupID)
	assert.Equal(t, "1.2.0", core.Dependencies[1].Version)
}

func TestReadUsesParentCoordinatesWhenParentIsRemote(t *testing.T) {
	dir := t.TempDir()
	writePOM(t, dir, `<project>
  <parent>
    <groupId>org.remote</groupId>
    <artifactId>bom</artifactId>
    <version>9</version>
  </parent>
  <artifactId>solo</artifactId>
</project>`)

	p, err := NewReader().Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "org.remote:solo:9", p.Coordinates())
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewReader().Read(dir)
	assert.ErrorIs(t, err, os.ErrNotExist)

	writePOM(t, dir, `<project><artifactId>broken</artifactId>`)
	_, err = NewReader().Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse POM")
}

func TestReadRejectsMismatchedExplicitParent(t *testing.T) {
	root := t.TempDir()
	writePOM(t, filepath.Join(root, "other"), `<project>
  <groupId>x</groupId>
  <artifactId>other</artifactId>
  <version>1</version>
</project>`)
	writePOM(t, filepath.Join(root, "child"), `<project>
  <parent>
    <groupId>x</groupId>
    <artifactId>expected</artifactId>
    <version>1</version>
    <relativePath>../other</relativePath>
  </parent>
  <artifactId>child</artifactId>
</project>`)

	_, err := NewReader().Read(filepath.Join(root, "child"))
	assert.ErrorIs(t, err, ErrParentMismatch)
}

func TestReadDetectsParentCycle(t *testing.T) {
	root := t.TempDir()
	writePOM(t, filepath.Join(root, "a"), `<project>
  <parent>
    <groupId>net.example</groupId>
    <artifactId>b</artifactId>
    <version>1</version>
    <relativePath>../b</relativePath>
  </parent>
  <artifactId>a</artifactId>
</project>`)
	writePOM(t, filepath.Join(root, "b"), `<project>
  <parent>
    <groupId>net.example</groupId>
    <artifactId>a</artifactId>
    <version>1</version>
    <relativePath>../a</relativePath>
  </parent>
  <artifactId>b</artifactId>
</project>`)

	_, err := NewReader().Read(filepath.Join(root, "a"))
	assert.ErrorIs(t, err, ErrParentCycle)
}
