package merge_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxmerge/pkg/merge"
)

func TestRun_ScenarioTree(t *testing.T) {
	dir := t.TempDir()
	var util strings.Builder
	for i := 1; i <= 600; i++ {
		fmt.Fprintf(&util, "def fn_%d(): pass\n", i)
	}
	writeTree(t, dir, map[string]string{
		"main.py":            "import lib\n\nif __name__ == '__main__':\n    pass\n",
		"config.yaml":        "key: value\nname: demo\nport: 8080\n",
		"lib/util.py":        util.String(),
		"tests/test_util.py": strings.Repeat("def test(): pass\n", 20),
	})

	opts := merge.DefaultOptions()
	opts.Paths = []string{dir}
	opts.Output = filepath.Join(t.TempDir(), "context.txt")
	opts.MaxLines = 100
	opts.ParseIgnores = false

	summary, err := merge.Run(opts, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesTruncated)
	assert.Positive(t, summary.OutputSizeBytes)

	text := readArtifact(t, opts.Output)

	// Presentation order: entry point, config, core (truncated), tests.
	mainIdx := strings.Index(text, "main.py >>>")
	configIdx := strings.Index(text, ">>>\n# Type: yaml")
	utilIdx := strings.Index(text, "util.py >>>")
	testIdx := strings.Index(text, "test_util.py >>>")
	require.True(t, mainIdx >= 0 && configIdx >= 0 && utilIdx >= 0 && testIdx >= 0)
	assert.Less(t, mainIdx, configIdx)
	assert.Less(t, configIdx, utilIdx)
	assert.Less(t, utilIdx, testIdx)

	assert.Contains(t, text, "... [TRUNCATED: 500 lines omitted for brevity] ...")
	assert.Contains(t, text, "<<< END OF MERGED CONTEXT >>>\n")
}

func TestRun_BinaryOnlyDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"),
		[]byte("\x89PNG\r\n\x1a\n\x00\x00"), 0o644))

	opts := merge.DefaultOptions()
	opts.Paths = []string{dir}
	opts.Output = filepath.Join(t.TempDir(), "context.txt")
	opts.ParseIgnores = false

	summary, err := merge.Run(opts, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Zero(t, summary.FilesTruncated)

	text := readArtifact(t, opts.Output)
	assert.Contains(t, text, "# Binary file (.png): Content omitted\n")
	assert.NotContains(t, text, "\x89PNG")
}

func TestRun_NothingSelectedIsFatal(t *testing.T) {
	opts := merge.DefaultOptions()
	opts.Paths = []string{t.TempDir()}
	opts.Output = filepath.Join(t.TempDir(), "context.txt")
	opts.ParseIgnores = false

	_, err := merge.Run(opts, nil)
	require.ErrorIs(t, err, merge.ErrNoFilesSelected)

	// Fatal configuration errors write no artifact.
	_, statErr := os.Stat(opts.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_UnwritableOutputIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"main.py": "x\n"})

	opts := merge.DefaultOptions()
	opts.Paths = []string{dir}
	opts.Output = filepath.Join(dir, "missing-dir", "context.txt")
	opts.ParseIgnores = false

	_, err := merge.Run(opts, nil)
	assert.Error(t, err)
}

func TestRun_IgnoreFileScenario(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".gitignore":     "build/\n*.log\n",
		"build/output.o": "obj",
		"app.log":        "line\n",
		"main.py":        "print('hi')\n",
	})

	opts := merge.DefaultOptions()
	opts.Paths = []string{dir}
	opts.Output = filepath.Join(t.TempDir(), "context.txt")

	summary, err := merge.Run(opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)

	text := readArtifact(t, opts.Output)
	assert.Contains(t, text, "main.py >>>")
	assert.NotContains(t, text, "output.o")
	assert.NotContains(t, text, "app.log")
}
