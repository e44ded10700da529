// File: pkg/merge/ignorefile.go
package merge

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// wellKnownDirs short-circuit the directory-pattern test: a bare occurrence
// of one of these names in an ignore file is always a directory rule.
var wellKnownDirs = map[string]struct{}{
	"node_modules": {},
	"dist":         {},
	"build":        {},
	"__pycache__":  {},
	".git":         {},
	"venv":         {},
	".venv":        {},
}

// ignoreEntries is the parsed result of one foreign ignore file.
type ignoreEntries struct {
	Dirs      []string
	Files     []string
	Negations int // negation lines are counted, never applied
}

// parseIgnoreFile reads one foreign ignore file and classifies each rule line
// as a directory or file pattern. A directory pattern ends in a separator,
// contains no separator, or names a well-known directory; everything else is
// a file pattern, contributing its full glob if it carries wildcards or its
// basename otherwise.
func parseIgnoreFile(path string) (ignoreEntries, error) {
	var entries ignoreEntries

	content, err := os.ReadFile(path)
	if err != nil {
		return entries, err
	}

	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			entries.Negations++
			continue
		}

		clean := strings.TrimRight(line, "/")
		_, wellKnown := wellKnownDirs[clean]

		isDirPattern := strings.HasSuffix(line, "/") ||
			!strings.Contains(clean, "/") ||
			wellKnown

		if isDirPattern {
			if strings.Contains(clean, "/") {
				entries.Dirs = append(entries.Dirs, filepath.Base(clean))
			} else {
				entries.Dirs = append(entries.Dirs, clean)
			}
			continue
		}

		if strings.ContainsAny(clean, "*?") {
			entries.Files = append(entries.Files, clean)
		} else {
			entries.Files = append(entries.Files, filepath.Base(clean))
		}
	}

	return entries, nil
}

// FindIgnoreFiles walks the given root paths and returns every foreign
// ignore file discovered, pruning the base excluded directories during the
// search. A single-file root contributes its containing directory.
func FindIgnoreFiles(roots []string, base BaseRules, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	excluded := make(map[string]struct{}, len(base.Dirs))
	for _, d := range base.Dirs {
		excluded[d] = struct{}{}
	}

	wanted := make(map[string]struct{}, len(ignoreFileNames))
	for _, n := range ignoreFileNames {
		wanted[n] = struct{}{}
	}

	var found []string
	for _, root := range roots {
		searchDir := root
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			searchDir = filepath.Dir(root)
		}

		err := filepath.WalkDir(searchDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("Error accessing path while searching for ignore files",
					zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				if path != searchDir {
					if _, skip := excluded[d.Name()]; skip {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if _, ok := wanted[d.Name()]; ok {
				found = append(found, path)
				logger.Debug("Discovered ignore file", zap.String("file", path))
			}
			return nil
		})
		if err != nil {
			logger.Warn("Ignore-file search failed for root",
				zap.String("root", searchDir), zap.Error(err))
		}
	}

	return found
}
