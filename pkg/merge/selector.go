// File: pkg/merge/selector.go
package merge

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// SelectFiles walks the root paths and returns the deduplicated absolute
// paths surviving the exclusion rules, the optional extension allow-list,
// and the size ceiling. Priority files bypass the size ceiling only, never
// the exclusion rules. The output path itself is always excluded.
func SelectFiles(roots []string, rules ExclusionRuleSet, opts Options, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	extensions := make([]string, 0, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions = append(extensions, normalizeExtension(ext))
	}

	priority := make(map[string]struct{}, len(opts.PriorityFiles))
	for _, p := range opts.PriorityFiles {
		if abs, err := filepath.Abs(p); err == nil {
			priority[abs] = struct{}{}
		}
	}

	var outputAbs string
	if opts.Output != "" {
		if abs, err := filepath.Abs(opts.Output); err == nil {
			outputAbs = abs
		}
	}

	var collected []string

	consider := func(path, relPath string, size int64) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			logger.Warn("Failed to resolve path", zap.String("path", path), zap.Error(err))
			return
		}
		if outputAbs != "" && absPath == outputAbs {
			logger.Debug("Skipping output file", zap.String("path", path))
			return
		}
		if rules.ExcludesPath(relPath) || excludedByRules(path, rules, extensions) {
			return
		}
		if !matchesExtensionFilter(path, extensions) {
			return
		}
		if _, isPriority := priority[absPath]; !isPriority && size > opts.MaxFileSize {
			logger.Info("Skipping large file",
				zap.String("path", path), zap.Int64("sizeBytes", size),
				zap.Int64("maxSizeBytes", opts.MaxFileSize))
			return
		}
		collected = append(collected, absPath)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			logger.Warn("Path does not exist or cannot be accessed",
				zap.String("path", root), zap.Error(err))
			continue
		}

		if !info.IsDir() {
			consider(root, filepath.Base(root), info.Size())
			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("Error accessing path during traversal",
					zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				// Prune excluded subtrees before descent.
				if path != root && rules.ExcludesDirName(d.Name()) {
					logger.Debug("Skipping excluded directory", zap.String("dir", path))
					return filepath.SkipDir
				}
				return nil
			}
			relPath, relErr := filepath.Rel(root, path)
			if relErr != nil {
				relPath = path
			}
			fi, infoErr := d.Info()
			if infoErr != nil {
				logger.Warn("Failed to stat file during traversal",
					zap.String("path", path), zap.Error(infoErr))
				return nil
			}
			consider(path, relPath, fi.Size())
			return nil
		})
		if walkErr != nil {
			logger.Warn("Directory traversal failed", zap.String("root", root), zap.Error(walkErr))
		}
	}

	deduped := deduplicateKeepLast(collected)
	logger.Debug("File selection complete",
		zap.Int("candidates", len(collected)), zap.Int("selected", len(deduped)))
	return deduped, nil
}

// excludedByRules applies the filename-level exclusion check. Files with a
// binary extension stay selected (they become placeholder records) unless an
// extension allow-list exists that does not include them.
func excludedByRules(path string, rules ExclusionRuleSet, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if rules.IsBinaryExtension(ext) {
		return len(extensions) > 0 && !containsString(extensions, ext)
	}
	return rules.ExcludesFilename(filepath.Base(path))
}

func matchesExtensionFilter(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// deduplicateKeepLast removes duplicate paths, keeping only the
// last-discovered occurrence of each while preserving the relative order of
// the kept paths.
func deduplicateKeepLast(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	deduped := make([]string, 0, len(paths))
	for i := len(paths) - 1; i >= 0; i-- {
		if _, ok := seen[paths[i]]; ok {
			continue
		}
		seen[paths[i]] = struct{}{}
		deduped = append(deduped, paths[i])
	}
	for i, j := 0, len(deduped)-1; i < j; i, j = i+1, j-1 {
		deduped[i], deduped[j] = deduped[j], deduped[i]
	}
	return deduped
}
