package git

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultRemote is the remote pushed to when none is specified.
const DefaultRemote = "origin"

// StageFiles stages the given paths for the next commit. Files deleted from
// the working tree are staged as removals; everything else is added. The
// porcelain status is consulted once per call to tell the two apart.
func (r *Repository) StageFiles(files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to stage")
	}

	status, err := r.git("status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	statusLines := strings.Split(status, "\n")

	for _, file := range files {
		if worktreeDeleted(statusLines, file) {
			if _, err := r.git("rm", "--cached", "--quiet", "--", file); err != nil {
				return fmt.Errorf("failed to stage removal of %s: %w", file, err)
			}
			continue
		}
		if _, err := r.git("add", "--", file); err != nil {
			return fmt.Errorf("failed to stage %s: %w", file, err)
		}
	}

	slog.Default().With("component", "apply").Debug("staged files", "count", len(files))
	return nil
}

// worktreeDeleted reports whether the porcelain status lists the file as
// deleted in the working tree but not yet staged (" D" code).
func worktreeDeleted(statusLines []string, file string) bool {
	for _, line := range statusLines {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[len(fields)-1] != file {
			continue
		}
		return strings.HasPrefix(line, " D")
	}
	return false
}

// Commit records the currently staged content with the given message.
func (r *Repository) Commit(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message cannot be empty")
	}
	if _, err := r.git("commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}
	return nil
}

// Push sends local commits to the remote. Empty remote defaults to origin;
// empty branch defaults to the current branch.
func (r *Repository) Push(remote, branch string) error {
	if remote == "" {
		remote = DefaultRemote
	}
	if branch == "" {
		current, err := r.CurrentBranch()
		if err != nil {
			return fmt.Errorf("failed to push changes: %w", err)
		}
		branch = current
	}

	if _, err := r.git("push", remote, branch); err != nil {
		return fmt.Errorf("failed to push changes: %w", err)
	}
	return nil
}
