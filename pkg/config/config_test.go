package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxmerge/pkg/config"
	"ctxmerge/pkg/merge"
)

func TestLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output = "merged.txt"
ignore-dirs = ["scratch", "sandbox"]
ignore-ext = [".bak"]
max-size = 524288
max-lines = 500
sort = "alpha"
`), 0o644))

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "merged.txt", cfg.Output)
	assert.Equal(t, []string{"scratch", "sandbox"}, cfg.IgnoreDirs)
	assert.Equal(t, []string{".bak"}, cfg.IgnoreExt)
	assert.Equal(t, int64(524288), cfg.MaxFileSize)
	assert.Equal(t, 500, cfg.MaxLines)
	assert.Equal(t, "alpha", cfg.Sort)
}

func TestLoadPath_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := config.LoadPath(path)
	assert.Error(t, err)
}

func TestApply_OverlaysDefaults(t *testing.T) {
	opts := merge.DefaultOptions()
	opts.IgnoreDirs = []string{"cli-dir"}

	cfg := config.File{
		MaxLines:   250,
		Sort:       "size",
		IgnoreDirs: []string{"file-dir"},
	}
	cfg.Apply(&opts)

	assert.Equal(t, 250, opts.MaxLines)
	assert.Equal(t, merge.SortSize, opts.Sort)
	assert.Equal(t, []string{"cli-dir", "file-dir"}, opts.IgnoreDirs)
	// Unset scalars keep their defaults.
	assert.Equal(t, int64(1024*1024), opts.MaxFileSize)
	assert.Equal(t, "llm_context.txt", opts.Output)
}
