// File: pkg/merge/classify.go
package merge

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// fileTypes maps extensions to syntax labels for the table of contents and
// the per-file metadata line.
var fileTypes = map[string]string{
	".py": "python", ".js": "javascript", ".ts": "typescript",
	".jsx": "jsx", ".tsx": "tsx", ".java": "java",
	".c": "c", ".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp",
	".h": "c-header", ".hpp": "cpp-header",
	".cs": "csharp", ".go": "go", ".rs": "rust", ".rb": "ruby",
	".php": "php", ".swift": "swift", ".kt": "kotlin", ".scala": "scala",
	".r": "r", ".m": "matlab", ".lua": "lua", ".perl": "perl", ".pl": "perl",
	".sh": "bash", ".bash": "bash", ".zsh": "zsh", ".fish": "fish",
	".ps1": "powershell", ".bat": "batch", ".cmd": "batch",
	".html": "html", ".htm": "html", ".css": "css", ".scss": "scss",
	".sass": "sass", ".less": "less", ".vue": "vue", ".svelte": "svelte",
	".xml": "xml", ".json": "json", ".yaml": "yaml", ".yml": "yaml",
	".toml": "toml", ".ini": "ini", ".cfg": "config", ".conf": "config",
	".properties": "properties",
	".md":         "markdown", ".rst": "restructuredtext", ".adoc": "asciidoc",
	".tex": "latex",
	".sql": "sql", ".graphql": "graphql", ".gql": "graphql",
	".dockerfile": "dockerfile", ".makefile": "makefile",
	".cmake": "cmake", ".gradle": "gradle", ".maven": "maven",
}

// priorityPatterns rank likely entry points, manifests, README and config
// files. Order matters: earlier patterns weigh more, and every match stacks.
// Matching is case-insensitive, so the uppercase literals still hit the
// lower-cased basename.
var priorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)main\.(py|js|ts|java|cpp|c|go|rs)$`),
	regexp.MustCompile(`(?i)app\.(py|js|ts|jsx|tsx)$`),
	regexp.MustCompile(`(?i)index\.(js|ts|jsx|tsx|html)$`),
	regexp.MustCompile(`(?i)__init__\.py$`),
	regexp.MustCompile(`(?i)setup\.(py|cfg)$`),
	regexp.MustCompile(`(?i)requirements.*\.txt$`),
	regexp.MustCompile(`(?i)package\.json$`),
	regexp.MustCompile(`(?i)pyproject\.toml$`),
	regexp.MustCompile(`(?i)Cargo\.toml$`),
	regexp.MustCompile(`(?i)go\.mod$`),
	regexp.MustCompile(`(?i)README\.(md|rst|txt)$`),
	regexp.MustCompile(`(?i)config\.(py|js|ts|json|yaml|yml|toml)$`),
	regexp.MustCompile(`(?i)settings\.(py|js|ts|json|yaml|yml)$`),
}

var configPatterns = []*regexp.Regexp{
	regexp.MustCompile(`config`),
	regexp.MustCompile(`settings`),
	regexp.MustCompile(`\.env`),
	regexp.MustCompile(`\.ini`),
	regexp.MustCompile(`\.cfg`),
	regexp.MustCompile(`\.toml`),
	regexp.MustCompile(`\.yaml`),
	regexp.MustCompile(`\.yml`),
	regexp.MustCompile(`\.json`),
	regexp.MustCompile(`\.properties`),
	regexp.MustCompile(`\.conf`),
	regexp.MustCompile(`rc$`),
	regexp.MustCompile(`rc\.`),
	regexp.MustCompile(`\..*rc$`),
}

var testPatterns = []*regexp.Regexp{
	regexp.MustCompile(`test_`),
	regexp.MustCompile(`_test\.`),
	regexp.MustCompile(`/tests?/`),
	regexp.MustCompile(`spec\.`),
	regexp.MustCompile(`_spec\.`),
	regexp.MustCompile(`\.test\.`),
	regexp.MustCompile(`\.spec\.`),
	regexp.MustCompile(`/fixtures?/`),
	regexp.MustCompile(`/__tests__/`),
}

// Classify analyzes one selected file and returns its immutable record.
// Read failures populate ReadError with zero metrics; they never abort the
// run.
func Classify(path string, rules ExclusionRuleSet, logger *zap.Logger) FileRecord {
	if logger == nil {
		logger = zap.NewNop()
	}

	ext := strings.ToLower(filepath.Ext(path))
	rec := FileRecord{
		Path:      path,
		Extension: ext,
		FileType:  fileTypeFor(ext),
	}

	if rules.IsBinaryExtension(ext) {
		rec.IsBinary = true
		rec.FileType = "binary"
		return rec
	}

	if binary, err := sniffBinary(path); err != nil {
		logger.Warn("Failed to sniff file content", zap.String("path", path), zap.Error(err))
	} else if binary {
		rec.IsBinary = true
		rec.FileType = "binary"
		return rec
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read file for classification",
			zap.String("path", path), zap.Error(err))
		rec.ReadError = err.Error()
		return rec
	}

	rec.Lines = bytes.Count(content, []byte{'\n'}) + 1
	rec.EstimatedTokens = estimateTokens(content)
	rec.SizeBytes = int64(len(content))
	rec.IsConfig = isConfigFile(path)
	rec.IsTest = isTestFile(path)
	rec.PriorityScore = priorityScore(path)
	return rec
}

// ClassifyAll classifies the selected paths one at a time, in order.
func ClassifyAll(paths []string, rules ExclusionRuleSet, logger *zap.Logger) []FileRecord {
	records := make([]FileRecord, 0, len(paths))
	for _, p := range paths {
		records = append(records, Classify(p, rules, logger))
	}
	return records
}

// estimateTokens is a fixed heuristic, not an exact tokenizer:
// (wordCount*1.3 + byteLength*0.1) / 2, floored.
func estimateTokens(content []byte) int {
	words := len(strings.Fields(string(content)))
	return int((float64(words)*1.3 + float64(len(content))*0.1) / 2)
}

// sniffBinary reads a bounded prefix and flags binary content: a null byte,
// or more than 30% of sampled bytes outside the allowed text set.
func sniffBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffWindow)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	buf = buf[:n]

	if len(buf) == 0 {
		return false, nil
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return true, nil
	}

	nonText := 0
	for _, b := range buf {
		if !isTextByte(b) {
			nonText++
		}
	}
	return float64(nonText)/float64(len(buf)) > 0.30, nil
}

// isTextByte allows the printable range plus bell, backspace, tab, newline,
// form feed, carriage return, and escape.
func isTextByte(b byte) bool {
	if b >= 0x20 {
		return true
	}
	switch b {
	case 7, 8, 9, 10, 12, 13, 27:
		return true
	}
	return false
}

func fileTypeFor(ext string) string {
	if t, ok := fileTypes[ext]; ok {
		return t
	}
	return "text"
}

func isConfigFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, re := range configPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func isTestFile(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, re := range testPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// priorityScore sums (listLength - patternIndex) * 10 for every matching
// significance pattern, then applies path-segment adjustments. The result is
// an exact, reproducible integer.
func priorityScore(path string) int {
	name := strings.ToLower(filepath.Base(path))
	slashPath := filepath.ToSlash(path)
	score := 0

	for i, re := range priorityPatterns {
		if re.MatchString(name) {
			score += (len(priorityPatterns) - i) * 10
		}
	}

	if strings.Contains(slashPath, "/src/") ||
		strings.Contains(slashPath, "/lib/") ||
		strings.Contains(slashPath, "/core/") {
		score += 5
	}
	if strings.Contains(slashPath, "/test") || strings.Contains(slashPath, "/__test") {
		score -= 5
	}
	if strings.Contains(slashPath, "/docs/") || strings.Contains(slashPath, "/documentation/") {
		score -= 3
	}

	return score
}
