package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ctxmerge/pkg/merge"
)

func paths(records []merge.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func TestOrder_PriorityBands(t *testing.T) {
	records := []merge.FileRecord{
		{Path: "tests/test_util.py", IsTest: true},
		{Path: "image.png", IsBinary: true},
		{Path: "lib/util.py", PriorityScore: 5},
		{Path: "config.yaml", IsConfig: true},
		{Path: "main.py", PriorityScore: 130},
	}

	ordered := merge.Order(records, merge.SortPriority)

	assert.Equal(t, []string{
		"main.py",            // entry points first
		"config.yaml",        // then config
		"lib/util.py",        // core
		"tests/test_util.py", // tests
		"image.png",          // binary last
	}, paths(ordered))
}

func TestOrder_FirstQualifyingBandWins(t *testing.T) {
	// A binary config-looking test file is binary; a config entry point is
	// config: each record joins the first band it qualifies for.
	records := []merge.FileRecord{
		{Path: "settings.png", IsBinary: true, IsConfig: true, IsTest: true},
		{Path: "config.py", IsConfig: true, PriorityScore: 40},
	}

	ordered := merge.Order(records, merge.SortPriority)
	assert.Equal(t, []string{"config.py", "settings.png"}, paths(ordered))
}

func TestOrder_EntryPointsDescendingScore(t *testing.T) {
	records := []merge.FileRecord{
		{Path: "app.py", PriorityScore: 120},
		{Path: "main.py", PriorityScore: 130},
		{Path: "z_index.js", PriorityScore: 120},
	}

	ordered := merge.Order(records, merge.SortPriority)
	assert.Equal(t, []string{"main.py", "app.py", "z_index.js"}, paths(ordered))
}

func TestOrder_CoreBandTieBreaksAlphabetically(t *testing.T) {
	records := []merge.FileRecord{
		{Path: "zeta.py", PriorityScore: 5},
		{Path: "alpha.py", PriorityScore: 5},
		{Path: "mid.py", PriorityScore: 5},
	}

	first := merge.Order(records, merge.SortPriority)
	second := merge.Order(records, merge.SortPriority)

	assert.Equal(t, []string{"alpha.py", "mid.py", "zeta.py"}, paths(first))
	// Deterministic across runs.
	assert.Equal(t, paths(first), paths(second))
}

func TestOrder_FlatModes(t *testing.T) {
	records := []merge.FileRecord{
		{Path: "b.py", FileType: "python", SizeBytes: 10},
		{Path: "a.go", FileType: "go", SizeBytes: 30},
		{Path: "c.go", FileType: "go", SizeBytes: 20},
	}

	assert.Equal(t, []string{"a.go", "b.py", "c.go"},
		paths(merge.Order(records, merge.SortAlpha)))
	assert.Equal(t, []string{"a.go", "c.go", "b.py"},
		paths(merge.Order(records, merge.SortSize)))
	assert.Equal(t, []string{"a.go", "c.go", "b.py"},
		paths(merge.Order(records, merge.SortType)))
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	records := []merge.FileRecord{
		{Path: "z.py"},
		{Path: "a.py"},
	}
	_ = merge.Order(records, merge.SortAlpha)
	assert.Equal(t, "z.py", records[0].Path)
}

func TestParseSortMode(t *testing.T) {
	for _, name := range []string{"priority", "alpha", "size", "type"} {
		mode, err := merge.ParseSortMode(name)
		assert.NoError(t, err)
		assert.Equal(t, merge.SortMode(name), mode)
	}

	_, err := merge.ParseSortMode("newest")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "newest")
		assert.Contains(t, err.Error(), "priority, alpha, size, type")
	}
}
