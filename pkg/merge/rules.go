// File: pkg/merge/rules.go
package merge

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ignoreFileNames are the foreign ignore files parsed into additional
// exclusion rules when discovered inside the processed trees.
var ignoreFileNames = []string{
	".gitignore",
	".dockerignore",
	".gcloudignore",
	".containerignore",
	".npmignore",
	".prettierignore",
	".eslintignore",
}

// defaultExcludeDirs are directory names never descended into.
var defaultExcludeDirs = []string{
	"node_modules", "venv", ".venv", "env", ".env", "__pycache__",
	".git", ".idea", ".vscode", "dist", "build", ".DS_Store",
	"coverage", ".pytest_cache", ".mypy_cache", ".tox", "htmlcov",
	"logs", "tmp", "temp", ".terraform", ".vagrant", "bower_components",
}

// defaultExcludeGlobs are path-level exclusion patterns.
var defaultExcludeGlobs = []string{
	"components/ui/**", "**/components/ui/**",
	"dist/**", "build/**", ".next/**", ".nuxt/**", ".turbo/**",
	".parcel-cache/**", "node_modules/**", "vendor/**", ".aws-sam/**",
	".serverless/**", "__pycache__/**", ".pytest_cache/**", ".mypy_cache/**",
	".tox/**", ".cache/**", "htmlcov/**", ".nyc_output/**", ".jest/**",
	".git/**", ".hg/**", ".svn/**", ".bzr/**",
	".idea/**", ".vscode/**", ".vs/**",
}

// defaultExcludeFiles are filename patterns excluded from selection.
var defaultExcludeFiles = []string{
	"llm_context.txt",
	".env", ".env.local", ".env.*", ".DS_Store", "Thumbs.db", "desktop.ini",
	".gitignore", ".gitattributes", ".editorconfig",
	".eslintrc*", ".prettierrc*", ".stylelintrc*", ".babelrc*",
	"*.log", "*.tmp", "*.temp", "*.bak", "*.swp", "*.swo", "*.swn",
	"*~", "*.pid", "*.seed", "*.pid.lock",
	"pnpm-lock.yaml", "package-lock.json", "yarn.lock", "poetry.lock",
	"Pipfile.lock", "composer.lock", "Gemfile.lock", "Cargo.lock", "go.sum",
	"LICENSE*", "COPYING*", "CHANGELOG*", "CONTRIBUTING*", "SECURITY*",
	"CODEOWNERS", "AUTHORS*", "CONTRIBUTORS*",
	"*.md", "*.rst", "*.txt",
	"*.min.js", "*.min.css", "*.map", "*.stats.json", "*.bundle.js", "*.chunk.js",
	"__snapshots__/*", "*.snap", "fixtures/*", "tests/__output__/*",
}

// defaultBinaryExtensions are extensions treated as binary without opening
// the file.
var defaultBinaryExtensions = []string{
	".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".bmp", ".tiff", ".psd",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt", ".ods",
	".mp4", ".mp3", ".wav", ".ogg", ".avi", ".mov", ".webm", ".flac", ".mkv", ".m4a",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".zip", ".tar", ".gz", ".bz2", ".xz", ".rar", ".7z", ".tgz",
	".exe", ".dll", ".so", ".dylib", ".bin", ".dat", ".app", ".deb", ".rpm",
	".db", ".sqlite", ".sqlite3", ".mdb",
	".pyc", ".pyo", ".class", ".jar", ".war", ".ear", ".whl", ".egg",
}

// BaseRules is the built-in starting point for a rule set.
type BaseRules struct {
	Dirs             []string
	Files            []string
	Globs            []string
	BinaryExtensions []string
}

// DefaultBaseRules returns the built-in exclusion rules.
func DefaultBaseRules() BaseRules {
	return BaseRules{
		Dirs:             defaultExcludeDirs,
		Files:            defaultExcludeFiles,
		Globs:            defaultExcludeGlobs,
		BinaryExtensions: defaultBinaryExtensions,
	}
}

// Overrides carries command-line exclusion additions merged on top of the
// base rules and any parsed ignore files.
type Overrides struct {
	Dirs       []string
	Files      []string
	Extensions []string // dot optional; excluded and treated as binary
}

// ExclusionRuleSet is the immutable, fully merged rule set for one run.
// Build it once with BuildRuleSet and pass it by value; nothing mutates it
// afterwards.
type ExclusionRuleSet struct {
	dirNames     map[string]struct{}
	filePatterns []namePattern
	pathGlobs    []pathPattern
	binaryExt    map[string]struct{}
}

// BuildRuleSet merges base rules, parsed ignore-file rules, and command-line
// overrides, in that order, into one frozen rule set. Unreadable ignore files
// degrade to a warning and contribute no rules.
func BuildRuleSet(base BaseRules, ignoreFiles []string, overrides Overrides, logger *zap.Logger) ExclusionRuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := ExclusionRuleSet{
		dirNames:  make(map[string]struct{}),
		binaryExt: make(map[string]struct{}),
	}

	for _, d := range base.Dirs {
		rs.addDir(d)
	}
	for _, f := range base.Files {
		rs.addFile(f)
	}
	for _, g := range base.Globs {
		rs.pathGlobs = append(rs.pathGlobs, compilePathPattern(g))
	}
	for _, ext := range base.BinaryExtensions {
		rs.binaryExt[normalizeExtension(ext)] = struct{}{}
	}

	for _, path := range ignoreFiles {
		entries, err := parseIgnoreFile(path)
		if err != nil {
			logger.Warn("Could not read ignore file; no rules added",
				zap.String("file", path), zap.Error(err))
			continue
		}
		if entries.Negations > 0 {
			logger.Warn("Negation patterns are not supported and were skipped",
				zap.String("file", path), zap.Int("count", entries.Negations))
		}
		for _, d := range entries.Dirs {
			rs.addDir(d)
		}
		for _, f := range entries.Files {
			rs.addFile(f)
		}
	}

	for _, d := range overrides.Dirs {
		rs.addDir(d)
	}
	for _, f := range overrides.Files {
		rs.addFile(f)
	}
	for _, ext := range overrides.Extensions {
		normalized := normalizeExtension(ext)
		rs.addFile("*" + normalized)
		rs.binaryExt[normalized] = struct{}{}
	}

	logger.Debug("Built exclusion rule set",
		zap.Int("dirNames", len(rs.dirNames)),
		zap.Int("filePatterns", len(rs.filePatterns)),
		zap.Int("pathGlobs", len(rs.pathGlobs)),
		zap.Int("binaryExtensions", len(rs.binaryExt)))
	return rs
}

func (rs *ExclusionRuleSet) addDir(name string) {
	name = strings.TrimRight(strings.TrimSpace(name), "/\\")
	if name != "" {
		rs.dirNames[name] = struct{}{}
	}
}

func (rs *ExclusionRuleSet) addFile(pattern string) {
	pattern = strings.TrimSpace(pattern)
	if pattern != "" {
		rs.filePatterns = append(rs.filePatterns, compileNamePattern(pattern))
	}
}

// ExcludesDirName reports whether a single directory name is excluded.
func (rs ExclusionRuleSet) ExcludesDirName(name string) bool {
	_, ok := rs.dirNames[name]
	return ok
}

// ExcludesPath reports whether a path is directory-excluded: any path
// segment equals a stored directory name, or the forward-slash path matches
// a stored path glob.
func (rs ExclusionRuleSet) ExcludesPath(path string) bool {
	slashPath := filepath.ToSlash(path)
	for _, part := range strings.Split(slashPath, "/") {
		if _, ok := rs.dirNames[part]; ok {
			return true
		}
	}
	for _, pg := range rs.pathGlobs {
		if pg.matches(slashPath) {
			return true
		}
	}
	return false
}

// ExcludesFilename reports whether a basename matches any filename pattern.
func (rs ExclusionRuleSet) ExcludesFilename(name string) bool {
	for _, p := range rs.filePatterns {
		if p.matches(name) {
			return true
		}
	}
	return false
}

// IsBinaryExtension reports whether the extension (with dot, any case) is in
// the binary set.
func (rs ExclusionRuleSet) IsBinaryExtension(ext string) bool {
	_, ok := rs.binaryExt[strings.ToLower(ext)]
	return ok
}

// normalizeExtension lower-cases an extension and guarantees a leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
