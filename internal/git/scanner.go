package git

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Scope selects which set of pending changes a scan covers.
type Scope string

const (
	// ScopeUnstaged scans working-tree edits against the index plus
	// untracked files.
	ScopeUnstaged Scope = "unstaged"
	// ScopeStaged scans index content against HEAD.
	ScopeStaged Scope = "staged"
)

// Reporter receives human-facing warnings emitted while scanning. Per-file
// failures are reported here instead of aborting the scan.
type Reporter interface {
	Warnf(format string, args ...any)
}

// Scan walks the repository and returns one Change per pending file in the
// given scope. A single file's failure never fails the whole scan: it is
// reported through rep as "Could not process {path}: {detail}" and the file
// is dropped (unstaged scope) or kept with StatusError and a descriptive
// diff message (staged scope). The two scope policies are intentionally
// distinct.
func (r *Repository) Scan(scope Scope, rep Reporter) ([]Change, error) {
	logger := slog.Default().With("component", "scanner", "scope", string(scope))

	var changes []Change
	var err error
	switch scope {
	case ScopeStaged:
		changes, err = r.scanStaged(rep)
	case ScopeUnstaged:
		changes, err = r.scanUnstaged(rep)
	default:
		return nil, fmt.Errorf("unknown scan scope %q", scope)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("scan complete", "changes", len(changes))
	return changes, nil
}

// scanUnstaged covers tracked files that differ from the index plus
// untracked files. Failed files are dropped after a warning.
func (r *Repository) scanUnstaged(rep Reporter) ([]Change, error) {
	entries, err := r.nameStatus("diff", "--name-status")
	if err != nil {
		return nil, fmt.Errorf("failed to list unstaged changes: %w", err)
	}

	changes := make([]Change, 0, len(entries))

	for _, e := range entries {
		change, ok := r.unstagedTracked(e, rep)
		if ok {
			changes = append(changes, change)
		}
	}

	untracked, err := r.untrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}

	for _, path := range untracked {
		change, err := r.untrackedChange(path)
		if err != nil {
			rep.Warnf("Could not process %s: %v", path, err)
			continue
		}
		changes = append(changes, change)
	}

	return changes, nil
}

// unstagedTracked classifies one tracked file from the worktree-vs-index
// diff. The returned bool is false when the file failed and was dropped.
func (r *Repository) unstagedTracked(e nameStatusEntry, rep Reporter) (Change, bool) {
	if e.code == 'D' {
		// Deleted from the working tree; the index still holds the old
		// content, so the pre-deletion line count is usually recoverable.
		return Change{
			File:      e.path,
			Status:    StatusDeleted,
			Diff:      DeletedMessage,
			Deletions: r.blobLineCount(":" + e.path),
		}, true
	}

	diff, err := r.git("diff", "--", e.path)
	if err != nil {
		// The file may have been deleted between enumeration and the diff
		// call. Treat that race as a deletion rather than a failure.
		if _, statErr := os.Stat(r.worktreePath(e.path)); os.IsNotExist(statErr) {
			return Change{
				File:      e.path,
				Status:    StatusDeleted,
				Diff:      DeletedMessage,
				Deletions: r.blobLineCount(":" + e.path),
			}, true
		}
		rep.Warnf("Could not process %s: %v", e.path, err)
		return Change{}, false
	}

	insertions, deletions := CountDiffLines(diff)
	return Change{
		File:       e.path,
		Status:     StatusModified,
		Diff:       diff,
		Insertions: insertions,
		Deletions:  deletions,
	}, true
}

// untrackedChange reads a file git does not know about yet. Binary and
// vanished files yield sentinel diffs; unreadable files return an error for
// the caller's warning path.
func (r *Repository) untrackedChange(path string) (Change, error) {
	full := r.worktreePath(path)

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		// Enumerated but gone (or no longer a regular file) by the time we
		// read it: report as deleted, matching the tracked-file race.
		return Change{File: path, Status: StatusDeleted, Diff: DeletedMessage}, nil
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return Change{}, err
	}

	if isBinaryContent(content) {
		return Change{File: path, Status: StatusNewBinary, Diff: BinaryMessage}, nil
	}

	text := string(content)
	return Change{
		File:       path,
		Status:     StatusNewFile,
		Diff:       text,
		Insertions: countLines(text),
	}, nil
}

// scanStaged covers index content against HEAD. Failed files stay in the
// result with StatusError so the staged picture remains complete.
func (r *Repository) scanStaged(rep Reporter) ([]Change, error) {
	entries, err := r.nameStatus("diff", "--cached", "--name-status", "-M")
	if err != nil {
		return nil, fmt.Errorf("failed to list staged changes: %w", err)
	}

	changes := make([]Change, 0, len(entries))
	for _, e := range entries {
		changes = append(changes, r.stagedChange(e, rep))
	}

	return changes, nil
}

// stagedChange classifies one index entry against HEAD.
func (r *Repository) stagedChange(e nameStatusEntry, rep Reporter) Change {
	switch e.code {
	case 'D':
		return Change{
			File:      e.path,
			Status:    StatusDeleted,
			Diff:      DeletedMessage,
			Deletions: r.blobLineCount("HEAD:" + e.path),
		}

	case 'R':
		// Renames are never expanded into per-line diffs; a synthetic note
		// naming both paths is enough for grouping.
		return Change{
			File:   e.path,
			Status: StatusModified,
			Diff:   fmt.Sprintf("[File renamed: %s -> %s]", e.oldPath, e.path),
		}

	case 'A', 'C':
		change, err := r.stagedNewFile(e.path)
		if err != nil {
			rep.Warnf("Could not process %s: %v", e.path, err)
			return Change{
				File:   e.path,
				Status: StatusError,
				Diff:   fmt.Sprintf("[Unexpected error: %v]", err),
			}
		}
		return change

	default: // modified, type change
		diff, err := r.stagedDiff(e.path)
		if err != nil {
			return Change{
				File:   e.path,
				Status: StatusError,
				Diff:   fmt.Sprintf("[Error getting diff: %v]", err),
			}
		}
		insertions, deletions := CountDiffLines(diff)
		return Change{
			File:       e.path,
			Status:     StatusModified,
			Diff:       diff,
			Insertions: insertions,
			Deletions:  deletions,
		}
	}
}

// stagedNewFile handles a file added to the index. Git's own numstat output
// decides binary-ness for staged content; text content is read back from the
// working tree like the unstaged path does.
func (r *Repository) stagedNewFile(path string) (Change, error) {
	numstat, err := r.git("diff", "--cached", "--numstat", "--", path)
	if err == nil && strings.HasPrefix(strings.TrimSpace(numstat), "-\t-\t") {
		return Change{File: path, Status: StatusNewBinary, Diff: BinaryMessage}, nil
	}

	content, err := os.ReadFile(r.worktreePath(path))
	if err != nil {
		return Change{}, err
	}
	if !utf8.Valid(content) {
		return Change{File: path, Status: StatusNewBinary, Diff: BinaryMessage}, nil
	}

	text := string(content)
	return Change{
		File:       path,
		Status:     StatusNewFile,
		Diff:       text,
		Insertions: countLines(text),
	}, nil
}

// stagedDiff returns the index-vs-HEAD diff for one path. When the staged
// diff comes back empty the last commit's diff for the path is used instead.
func (r *Repository) stagedDiff(path string) (string, error) {
	diff, err := r.git("diff", "--cached", "--", path)
	if err != nil {
		return "", err
	}
	if diff != "" {
		return diff, nil
	}
	return r.git("diff", "HEAD^", "HEAD", "--", path)
}

// nameStatusEntry is one parsed line of git diff --name-status output.
type nameStatusEntry struct {
	code    byte   // M, A, D, R, C, T
	path    string // new path for renames and copies
	oldPath string // set for renames and copies only
}

// nameStatus runs a git diff variant with --name-status and parses its
// tab-separated output. Rename and copy lines carry a score suffix on the
// code ("R100") and two paths.
func (r *Repository) nameStatus(args ...string) ([]nameStatusEntry, error) {
	out, err := r.git(args...)
	if err != nil {
		return nil, err
	}

	var entries []nameStatusEntry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}

		e := nameStatusEntry{code: fields[0][0], path: fields[1]}
		if (e.code == 'R' || e.code == 'C') && len(fields) >= 3 {
			e.oldPath = fields[1]
			e.path = fields[2]
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// untrackedFiles lists paths git does not track, honoring ignore rules.
func (r *Repository) untrackedFiles() ([]string, error) {
	out, err := r.git("ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range strings.Split(strings.TrimSpace(out), "\n") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// blobLineCount returns the line count of a blob addressed by a git
// revision:path spec (":path" for the index, "HEAD:path" for the last
// commit). Returns 0 when the blob cannot be read; the count is advisory.
func (r *Repository) blobLineCount(spec string) int {
	out, err := r.git("show", spec)
	if err != nil {
		return 0
	}
	return countLines(out)
}

// worktreePath joins a repository-relative path onto the working tree root.
func (r *Repository) worktreePath(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// isBinaryContent implements the binary probe: a NUL byte within the first
// 1MB, or content that is not valid UTF-8, marks the file binary. This is a
// heuristic; a binary file with no NUL in its first megabyte that happens to
// decode will slip through as text.
func isBinaryContent(content []byte) bool {
	probe := content
	if len(probe) > maxBinaryCheckSize {
		probe = probe[:maxBinaryCheckSize]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}
