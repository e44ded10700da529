package merge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRuleSet_MergeOrder(t *testing.T) {
	dir := t.TempDir()
	ignorePath := filepath.Join(dir, ".gitignore")
	writeFile(t, ignorePath, "generated/\nassets/*.min.svg\n")

	rs := BuildRuleSet(
		BaseRules{Dirs: []string{"node_modules"}, Files: []string{"*.log"}},
		[]string{ignorePath},
		Overrides{Dirs: []string{"scratch"}, Files: []string{"NOTES"}},
		nil,
	)

	assert.True(t, rs.ExcludesDirName("node_modules")) // base
	assert.True(t, rs.ExcludesDirName("generated"))    // ignore file
	assert.True(t, rs.ExcludesDirName("scratch"))      // cli override
	assert.True(t, rs.ExcludesFilename("app.log"))
	assert.True(t, rs.ExcludesFilename("NOTES"))
	assert.False(t, rs.ExcludesFilename("notes"))
}

func TestBuildRuleSet_UnreadableIgnoreFileContributesNothing(t *testing.T) {
	rs := BuildRuleSet(BaseRules{}, []string{"/does/not/exist/.gitignore"}, Overrides{}, nil)
	assert.False(t, rs.ExcludesFilename("anything"))
	assert.False(t, rs.ExcludesDirName("anything"))
}

func TestBuildRuleSet_ExtensionOverrides(t *testing.T) {
	rs := BuildRuleSet(BaseRules{}, nil, Overrides{Extensions: []string{"log", ".BAK"}}, nil)

	// Extensions normalize to a leading dot and lower case, and populate both
	// the filename-pattern and binary-extension sets.
	assert.True(t, rs.ExcludesFilename("server.log"))
	assert.True(t, rs.ExcludesFilename("old.bak"))
	assert.True(t, rs.IsBinaryExtension(".log"))
	assert.True(t, rs.IsBinaryExtension(".BAK"))
	assert.False(t, rs.IsBinaryExtension(".txt"))
}

func TestExcludesPath_SegmentsAndGlobs(t *testing.T) {
	rs := BuildRuleSet(BaseRules{
		Dirs:  []string{"__pycache__"},
		Globs: []string{"dist/**", "docs/*.html"},
	}, nil, Overrides{}, nil)

	assert.True(t, rs.ExcludesPath("src/__pycache__/mod.pyc"))
	assert.True(t, rs.ExcludesPath("dist/bundle.js"))         // substring of de-wildcarded "dist"
	assert.True(t, rs.ExcludesPath("docs/index.html"))        // shell glob
	assert.False(t, rs.ExcludesPath("src/pkg/handler.go"))
	assert.False(t, rs.ExcludesPath("documents/index.html"))
}

func TestDefaultBaseRules_CoverWellKnownNoise(t *testing.T) {
	rs := BuildRuleSet(DefaultBaseRules(), nil, Overrides{}, nil)

	assert.True(t, rs.ExcludesDirName(".git"))
	assert.True(t, rs.ExcludesDirName("node_modules"))
	assert.True(t, rs.ExcludesFilename("package-lock.json"))
	assert.True(t, rs.ExcludesFilename("llm_context.txt"))
	assert.True(t, rs.IsBinaryExtension(".png"))
	assert.True(t, rs.IsBinaryExtension(".PNG"))
	assert.False(t, rs.IsBinaryExtension(".go"))
}
