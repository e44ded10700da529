// File: pkg/merge/truncate.go
package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// RenderBody streams a file's lines under the line budget, with memory use
// bounded regardless of file size. Files within the budget are returned
// whole. Larger files keep the first floor(maxLines/2) lines and up to the
// last floor(maxLines/2) lines, with one marker line stating the omitted
// count (totalLines - maxLines). An unreadable file yields an error body.
func RenderBody(path string, maxLines int) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("# ERROR: Could not read file - %v", err), false
	}
	defer f.Close()

	keep := maxLines / 2

	// head holds the first maxLines+1 lines; tail is a ring buffer over
	// everything past that window.
	var head []string
	tail := make([]string, 0, keep)
	tailStart := 0
	total := 0

	// ReadString has no line-length ceiling, so arbitrarily long lines
	// pass through intact.
	r := bufio.NewReader(f)
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Sprintf("# ERROR: Could not read file - %v", readErr), false
		}
		if len(line) > 0 {
			total++
			line = strings.TrimSuffix(line, "\n")
			switch {
			case maxLines < 1 || total <= maxLines+1:
				head = append(head, line)
			case keep == 0:
				// drop
			case len(tail) < keep:
				tail = append(tail, line)
			default:
				tail[tailStart] = line
				tailStart = (tailStart + 1) % keep
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	if maxLines < 1 || total <= maxLines {
		return strings.Join(head, "\n"), false
	}

	parts := make([]string, 0, keep*2+1)
	parts = append(parts, head[:keep]...)
	parts = append(parts, fmt.Sprintf("... [TRUNCATED: %d lines omitted for brevity] ...", total-maxLines))
	for i := 0; i < len(tail); i++ {
		parts = append(parts, tail[(tailStart+i)%len(tail)])
	}
	return strings.Join(parts, "\n"), true
}
