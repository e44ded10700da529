// File: pkg/merge/assemble.go
package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Artifact delimiters. These exact strings are the contract for downstream
// re-parsing of the merged output.
const (
	fileMarkerFormat = "<<< FILE: %s >>>\n"
	endFileMarker    = "<<< END FILE >>>\n\n"
	trailerMarker    = "<<< END OF MERGED CONTEXT >>>\n"
)

// HeaderPolicy produces the directive header written before everything else.
// The packaged policy writes a compact preamble; callers may substitute
// their own.
type HeaderPolicy interface {
	Header(records []FileRecord) string
}

// DefaultHeaderPolicy emits the standard merged-context preamble: aggregate
// counts, a UTC timestamp, and the delimiter contract.
type DefaultHeaderPolicy struct {
	// Now is overridable for reproducible output; nil means time.Now.
	Now func() time.Time
}

func (p DefaultHeaderPolicy) Header(records []FileRecord) string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	totalTokens := 0
	for _, rec := range records {
		totalTokens += rec.EstimatedTokens
	}

	var b strings.Builder
	b.WriteString("############################  MERGED_CODEBASE_CONTEXT  ############################\n")
	fmt.Fprintf(&b, "##  Files        : %d\n", len(records))
	fmt.Fprintf(&b, "##  Tokens (~)   : %d\n", totalTokens)
	fmt.Fprintf(&b, "##  Generated    : %s\n", now().UTC().Format("2006-01-02T15:04:05Z"))
	b.WriteString("###############################################################################\n")
	b.WriteString("\n")
	b.WriteString("This document is a merged snapshot of one codebase.\n")
	b.WriteString("Each file appears between the literal markers\n")
	b.WriteString("    <<< FILE: path/to/file.ext >>>    ...    <<< END FILE >>>\n")
	b.WriteString("and the document ends with <<< END OF MERGED CONTEXT >>>.\n")
	b.WriteString("If a path occurs more than once, only the final occurrence is current.\n")
	b.WriteString("Omitted content is indicated inline as ... [TRUNCATED: N lines omitted for brevity] ...\n")
	b.WriteString("File order: entry points, configuration, core implementation, tests, binary placeholders.")
	return b.String()
}

// Assembler writes ordered records to the output artifact in one forward
// pass: header, optional table of contents, one block per record, trailer.
type Assembler struct {
	Output     string
	BaseDir    string // base for relative paths; empty means working directory
	MaxLines   int
	IncludeTOC bool
	Header     HeaderPolicy
	Logger     *zap.Logger
}

// Write produces the merged artifact and returns the run summary. A failure
// to open or finish the output is fatal; a failure scoped to one file
// degrades to an inline error marker for that file.
func (a *Assembler) Write(records []FileRecord) (Summary, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	header := a.Header
	if header == nil {
		header = DefaultHeaderPolicy{}
	}
	baseDir := a.BaseDir
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}

	out, err := os.Create(a.Output)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create output file %s: %w", a.Output, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("Failed to close output file", zap.String("file", a.Output), zap.Error(cerr))
		}
	}()

	w := bufio.NewWriter(out)
	var summary Summary
	summary.FilesProcessed = len(records)

	headerText := header.Header(records)
	if _, err := w.WriteString(headerText + "\n\n"); err != nil {
		return Summary{}, fmt.Errorf("failed to write header: %w", err)
	}
	summary.LinesWritten += strings.Count(headerText, "\n") + 2

	if a.IncludeTOC && len(records) > 0 {
		summary.LinesWritten += writeTableOfContents(w, records, baseDir)
	} else if !a.IncludeTOC {
		w.WriteString("# Table of Contents omitted to save context space\n\n")
		summary.LinesWritten += 2
	}

	lines, truncatedCount := a.writeBlocks(w, records, baseDir, logger)
	summary.LinesWritten += lines
	summary.FilesTruncated = truncatedCount

	w.WriteString(trailerMarker)
	fmt.Fprintf(w, "# Summary: %d files processed, %d truncated\n",
		summary.FilesProcessed, summary.FilesTruncated)
	summary.LinesWritten += 2

	if err := w.Flush(); err != nil {
		return Summary{}, fmt.Errorf("failed to flush output file: %w", err)
	}
	if info, err := out.Stat(); err == nil {
		summary.OutputSizeBytes = info.Size()
	}
	return summary, nil
}

// writeBlocks writes one block per record and reports the lines written and
// the truncated-file count. A write failure scoped to one record degrades to
// an inline error block; the block stays balanced between its start and end
// markers either way.
func (a *Assembler) writeBlocks(w io.Writer, records []FileRecord, baseDir string, logger *zap.Logger) (int, int) {
	lines := 0
	truncatedCount := 0
	for _, rec := range records {
		n, truncated, started, werr := a.writeRecord(w, rec, baseDir)
		lines += n
		if truncated {
			truncatedCount++
		}
		if werr != nil {
			logger.Warn("Failed to write file block",
				zap.String("path", rec.Path), zap.Error(werr))
			if !started {
				fmt.Fprintf(w, fileMarkerFormat, relativePath(rec.Path, baseDir))
				lines++
			}
			fmt.Fprintf(w, "# ERROR: Could not write content for %s - %v\n", rec.Path, werr)
			io.WriteString(w, endFileMarker)
			lines += 3
		}
	}
	return lines, truncatedCount
}

// writeRecord writes one file block and reports the lines written, whether
// the body was truncated, and whether the start marker made it out.
func (a *Assembler) writeRecord(w io.Writer, rec FileRecord, baseDir string) (int, bool, bool, error) {
	relPath := relativePath(rec.Path, baseDir)

	if rec.IsBinary {
		if _, err := fmt.Fprintf(w, fileMarkerFormat, relPath); err != nil {
			return 0, false, false, err
		}
		if _, err := fmt.Fprintf(w, "# Binary file (%s): Content omitted\n", rec.Extension); err != nil {
			return 1, false, true, err
		}
		io.WriteString(w, endFileMarker)
		return 4, false, true, nil
	}

	if _, err := fmt.Fprintf(w, fileMarkerFormat, relPath); err != nil {
		return 0, false, false, err
	}
	if _, err := fmt.Fprintf(w, "# Type: %s | Lines: %d | Tokens: ~%d\n",
		rec.FileType, rec.Lines, rec.EstimatedTokens); err != nil {
		return 1, false, true, err
	}
	lines := 2

	var body string
	var truncated bool
	if rec.ReadError != "" {
		body = fmt.Sprintf("# ERROR: Could not read file - %s", rec.ReadError)
	} else {
		body, truncated = RenderBody(rec.Path, a.MaxLines)
	}

	if _, err := io.WriteString(w, body); err != nil {
		return lines, truncated, true, err
	}
	lines += strings.Count(body, "\n")
	if !strings.HasSuffix(body, "\n") {
		io.WriteString(w, "\n")
		lines++
	}

	if _, err := io.WriteString(w, endFileMarker); err != nil {
		return lines, truncated, true, err
	}
	lines += 2
	return lines, truncated, true, nil
}

func writeTableOfContents(w *bufio.Writer, records []FileRecord, baseDir string) int {
	w.WriteString("### PROJECT STRUCTURE & ANALYSIS\n")
	w.WriteString(strings.Repeat("=", 80) + "\n")
	w.WriteString("IDX │ FILE PATH                                        │ TYPE      │ LINES  │ TOKENS\n")
	w.WriteString("────┼──────────────────────────────────────────────────┼───────────┼────────┼────────\n")
	lines := 4

	for i, rec := range records {
		relPath := relativePath(rec.Path, baseDir)
		if len(relPath) > 48 {
			relPath = "..." + relPath[len(relPath)-45:]
		}
		fileType := rec.FileType
		if len(fileType) > 9 {
			fileType = fileType[:9]
		}
		fmt.Fprintf(w, "%3d │ %-48s │ %-9s │ %6d │ %6d\n",
			i+1, relPath, fileType, rec.Lines, rec.EstimatedTokens)
		lines++
	}

	w.WriteString(strings.Repeat("=", 80) + "\n\n")
	return lines + 2
}

func relativePath(path, baseDir string) string {
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
