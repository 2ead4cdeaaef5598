package git

import (
	"strings"
)

// CountDiffLines counts the added and deleted lines in a unified diff.
// Lines starting with "+" count as insertions and lines starting with "-"
// as deletions; the "+++" and "---" file header lines are excluded. This is
// a textual heuristic over diff output, not a semantic comparison.
func CountDiffLines(diff string) (int, int) {
	if diff == "" {
		return 0, 0
	}

	insertions := 0
	deletions := 0

	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				insertions++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				deletions++
			}
		}
	}

	return insertions, deletions
}

// countLines returns the number of lines in content. A trailing newline does
// not open an extra empty line, so "hello\n" counts as one line.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
