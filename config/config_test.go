package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, map[string]string{"Entry": "RowFilter"}, cfg.Resolve.HiddenChildren)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
	assert.False(t, cfg.Analysis.StopOnError)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[analysis]
exclude = ["**/generated/**"]
stop_on_error = true

[resolve.hidden_children]
Node = "Tree"

[log]
verbosity = 2

[store]
path = "themis.db"

[watch]
debounce = "2s"
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/generated/**"}, cfg.Analysis.Exclude)
	assert.True(t, cfg.Analysis.StopOnError)
	assert.Equal(t, map[string]string{"Node": "Tree"}, cfg.Resolve.HiddenChildren)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, "themis.db", cfg.Store.Path)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	opts := cfg.ProjectOptions()
	assert.True(t, opts.StopOnError)
	assert.Equal(t, cfg.Analysis.Exclude, opts.Exclude)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[analysis\n", "parse config"},
		{"unknown key", "[analysis]\nexcludes = []\n", "unknown keys analysis.excludes"},
		{"bad glob", "[analysis]\nexclude = [\"[oops\"]\n", "invalid pattern"},
		{"negative verbosity", "[log]\nverbosity = -1\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("[metrics]\naddr = \":9000\"\n"), 0o644))
	cfg, err = Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Metrics.Addr)
}
