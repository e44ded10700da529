// File: pkg/merge/execute.go
package merge

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Run executes the full pipeline synchronously: discover ignore files, build
// the rule set, select, classify one file at a time, order, and assemble.
// Errors that compromise the whole artifact are returned; errors scoped to a
// single file never escalate past that file's record.
func Run(opts Options, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	logger.Info("Starting merge", zap.Strings("paths", opts.Paths), zap.String("output", opts.Output))

	base := DefaultBaseRules()

	var ignoreFiles []string
	if opts.ParseIgnores {
		ignoreFiles = FindIgnoreFiles(opts.Paths, base, logger)
		logger.Debug("Ignore-file discovery complete", zap.Int("found", len(ignoreFiles)))
	}

	rules := BuildRuleSet(base, ignoreFiles, Overrides{
		Dirs:       opts.IgnoreDirs,
		Files:      opts.IgnoreFiles,
		Extensions: opts.IgnoreExt,
	}, logger)

	selected, err := SelectFiles(opts.Paths, rules, opts, logger)
	if err != nil {
		return Summary{}, fmt.Errorf("file selection failed: %w", err)
	}
	if len(selected) == 0 {
		return Summary{}, ErrNoFilesSelected
	}
	logger.Info("Selected files", zap.Int("count", len(selected)))

	records := ClassifyAll(selected, rules, logger)
	ordered := Order(records, opts.Sort)

	assembler := &Assembler{
		Output:     opts.Output,
		MaxLines:   opts.MaxLines,
		IncludeTOC: opts.IncludeTOC,
		Logger:     logger,
	}
	summary, err := assembler.Write(ordered)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to write merged artifact: %w", err)
	}

	logger.Info("Merge complete",
		zap.Int("filesProcessed", summary.FilesProcessed),
		zap.Int("filesTruncated", summary.FilesTruncated),
		zap.Int64("outputSizeBytes", summary.OutputSizeBytes),
		zap.Duration("elapsed", time.Since(start)))
	return summary, nil
}
