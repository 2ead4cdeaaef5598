package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestOpen_FromSubdirectory(t *testing.T) {
	repo, dir := newTestRepo(t)

	sub := filepath.Join(dir, "pkg", "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	fromSub, err := Open(sub)
	if err != nil {
		t.Fatalf("Open from subdirectory failed: %v", err)
	}
	if fromSub.Root() != repo.Root() {
		t.Errorf("Root from subdirectory = %q, want %q", fromSub.Root(), repo.Root())
	}
}

func TestOpen_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping test")
	}

	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open succeeded outside a git repository")
	}
}

func TestCurrentBranch(t *testing.T) {
	repo, dir := newTestRepo(t)
	writeFile(t, dir, "initial.txt", []byte("initial\n"))
	runGit(t, dir, "add", "initial.txt")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	runGit(t, dir, "checkout", "-q", "-b", "feature/scan")

	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "feature/scan" {
		t.Errorf("Expected branch feature/scan, got %s", branch)
	}
}

func TestRemoteURL(t *testing.T) {
	repo, dir := newTestRepo(t)
	runGit(t, dir, "remote", "add", "origin", "https://example.com/demo.git")

	url, err := repo.RemoteURL("origin")
	if err != nil {
		t.Fatalf("RemoteURL failed: %v", err)
	}
	if url != "https://example.com/demo.git" {
		t.Errorf("RemoteURL = %q", url)
	}

	if _, err := repo.RemoteURL("upstream"); err == nil {
		t.Error("RemoteURL succeeded for a remote that does not exist")
	}
}
