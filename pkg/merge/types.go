// File: pkg/merge/types.go
package merge

import (
	"errors"
	"fmt"
)

// SortMode selects how classified files are ordered before assembly.
type SortMode string

const (
	SortPriority SortMode = "priority" // Banded ordering: entry points, config, core, tests, binary.
	SortAlpha    SortMode = "alpha"    // Flat alphabetical by path.
	SortSize     SortMode = "size"     // Flat by size, largest first.
	SortType     SortMode = "type"     // Flat by file type, then path.
)

// ParseSortMode validates a user-supplied sort-mode name.
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(s); mode {
	case SortPriority, SortAlpha, SortSize, SortType:
		return mode, nil
	}
	return "", fmt.Errorf("invalid sort mode %q (choose from: priority, alpha, size, type)", s)
}

// Options holds the configuration for one merge run.
type Options struct {
	Paths         []string // Files and directories to process.
	Output        string   // Destination path for the merged artifact.
	Extensions    []string // Optional extension allow-list; empty means all non-binary files.
	IgnoreFiles   []string // Additional filenames to exclude.
	IgnoreDirs    []string // Additional directory names to exclude.
	IgnoreExt     []string // Additional extensions to exclude (dot optional).
	PriorityFiles []string // Paths exempt from the size ceiling.
	MaxFileSize   int64    // Size ceiling in bytes for non-priority files.
	MaxLines      int      // Per-file line budget before truncation.
	Sort          SortMode // Ordering mode for the output.
	IncludeTOC    bool     // Whether to emit the table of contents.
	ParseIgnores  bool     // Whether to honor foreign ignore files found in the tree.
}

// DefaultOptions returns the run defaults matching the CLI defaults.
func DefaultOptions() Options {
	return Options{
		Output:       "llm_context.txt",
		MaxFileSize:  1024 * 1024,
		MaxLines:     1000,
		Sort:         SortPriority,
		IncludeTOC:   true,
		ParseIgnores: true,
	}
}

// FileRecord is the immutable classification result for one selected file.
// It is produced once by Classify and consumed by the orderer and assembler.
type FileRecord struct {
	Path            string // Absolute path.
	FileType        string // Syntax label ("python", "go", "binary", "text", ...).
	Extension       string // Lower-cased extension including the dot.
	Lines           int
	EstimatedTokens int
	SizeBytes       int64
	IsBinary        bool
	IsConfig        bool
	IsTest          bool
	PriorityScore   int
	ReadError       string // Non-empty when the file could not be read; metrics are zero.
}

// Summary reports the outcome of one assembled run.
type Summary struct {
	FilesProcessed  int
	LinesWritten    int
	FilesTruncated  int
	OutputSizeBytes int64
}

// ErrNoFilesSelected is returned when nothing survives selection; the run is
// fatal and no artifact is written.
var ErrNoFilesSelected = errors.New("no files matched the selection criteria")

const (
	// sniffWindow bounds the content read used for binary detection.
	sniffWindow = 8192

	// entryPointThreshold is the priority score above which a file joins the
	// entry-point band.
	entryPointThreshold = 20
)
