package git

// FileStatus classifies a file's delta relative to the scan reference
// (the index for unstaged scans, HEAD for staged scans).
type FileStatus string

const (
	StatusModified  FileStatus = "modified"
	StatusDeleted   FileStatus = "deleted"
	StatusNewFile   FileStatus = "new file"
	StatusNewBinary FileStatus = "new file (binary)"
	StatusError     FileStatus = "error"
)

// Sentinel diff messages for changes that carry no textual diff.
const (
	BinaryMessage  = "[Binary file]"
	DeletedMessage = "[File deleted]"
)

// maxBinaryCheckSize caps how many leading bytes the binary probe inspects.
const maxBinaryCheckSize = 1024 * 1024 // 1MB

// Change represents one file's delta at scan time.
//
// Diff holds unified-diff text for modified files, the full content for new
// text files, a sentinel message (BinaryMessage, DeletedMessage), a synthetic
// rename note, or an error description when Status is StatusError.
// Insertions and Deletions are zero whenever Diff is a sentinel, with one
// exception: a deleted file reports its pre-deletion line count as Deletions
// when that count could be recovered.
//
// A Change is built once per scan and never mutated afterwards.
type Change struct {
	File       string
	Status     FileStatus
	Diff       string
	Insertions int
	Deletions  int
}

// HasTextDiff reports whether Diff carries diff-like text rather than a
// sentinel or error message.
func (c Change) HasTextDiff() bool {
	switch c.Diff {
	case BinaryMessage, DeletedMessage:
		return false
	}
	return c.Status != StatusError
}
