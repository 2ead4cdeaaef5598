package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Repository gives access to one git working tree. All operations shell out
// to the git binary with the repository root as working directory.
type Repository struct {
	root string
}

// Open locates the repository containing path and returns a handle to it.
// Returns an error when path is not inside a git working tree.
func Open(path string) (*Repository, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = path
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a valid git repository: %w", path, err)
	}

	return &Repository{root: strings.TrimSpace(string(output))}, nil
}

// Root returns the absolute path of the working tree root.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Repository) CurrentBranch() (string, error) {
	out, err := r.git("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns the configured URL of the named remote.
func (r *Repository) RemoteURL(remote string) (string, error) {
	out, err := r.git("config", "--get", "remote."+remote+".url")
	if err != nil {
		return "", fmt.Errorf("failed to get URL of remote %q: %w", remote, err)
	}
	return strings.TrimSpace(out), nil
}

// git runs a git subcommand in the repository root and returns its stdout.
// On failure the error carries the trimmed stderr output when git produced
// any, since exec.ExitError alone only reports the exit status.
func (r *Repository) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.root

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return string(output), nil
}
