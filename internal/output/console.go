// Package output renders the interactive console UI: change tables, commit
// group review, and progress messages.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aicmt/aicmt/internal/git"
	"github.com/aicmt/aicmt/internal/llm"
)

const sectionRule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Console writes user-facing output to w and reads answers from r. All
// prompts degrade cleanly when r is not a terminal: approval questions
// accept by default on EOF, the push question declines.
type Console struct {
	w io.Writer
	r *bufio.Reader
}

// NewConsole creates a console over the given streams.
func NewConsole(w io.Writer, r io.Reader) *Console {
	return &Console{
		w: w,
		r: bufio.NewReader(r),
	}
}

// Welcome prints the start banner.
func (c *Console) Welcome() {
	c.Section("Starting AICMT execution")
	fmt.Fprintln(c.w, "AICMT (AI Commit)")
	fmt.Fprintln(c.w, "Analyze and organize your changes into meaningful commits")
}

// Section prints a section header.
func (c *Console) Section(title string) {
	fmt.Fprintf(c.w, "\n━━━ %s ━━━\n", title)
}

// RepoInfo prints which repository and branch are being analyzed.
func (c *Console) RepoInfo(workingDir, branch string) {
	c.Section("Git Repository Analysis")
	fmt.Fprintf(c.w, "Repository: %s\n", workingDir)
	fmt.Fprintf(c.w, "Branch: %s\n", branch)
}

// NoChanges reports an empty scan.
func (c *Console) NoChanges(scope git.Scope) {
	fmt.Fprintf(c.w, "❌ No %s changes found\n", scope)
}

// Changes prints the change table.
func (c *Console) Changes(changes []git.Change, scope git.Scope) {
	fmt.Fprintf(c.w, "Found %d %s changes\n", len(changes), scope)
	c.Section("Changes Details")

	fileWidth := len("File")
	for _, change := range changes {
		if len(change.File) > fileWidth {
			fileWidth = len(change.File)
		}
	}

	fmt.Fprintf(c.w, "%-*s  %-10s  %s\n", fileWidth, "File", "Status", "±")
	for _, change := range changes {
		fmt.Fprintf(c.w, "%-*s  %-10s  %s\n", fileWidth, change.File, displayStatus(change.Status), displayStats(change))
	}
}

func displayStatus(status git.FileStatus) string {
	switch status {
	case git.StatusNewFile, git.StatusNewBinary:
		return "Added"
	case git.StatusModified:
		return "Modified"
	case git.StatusDeleted:
		return "Deleted"
	default:
		return "Error"
	}
}

func displayStats(change git.Change) string {
	if change.Insertions+change.Deletions > 0 {
		return fmt.Sprintf("+%d/-%d", change.Insertions, change.Deletions)
	}
	return "-"
}

// AnalysisStart announces the analysis phase.
func (c *Console) AnalysisStart(baseURL, model string) {
	c.Section("AI Analysis Phase")
	if baseURL != "" {
		fmt.Fprintf(c.w, "Base url: %s\n", baseURL)
	}
	fmt.Fprintf(c.w, "Model: %s\n", model)
	fmt.Fprintln(c.w, "Analyzing changes...")
}

// ReviewGroups walks the user through the suggested commits one at a time
// and returns the accepted ones. When input runs out (piped stdin), every
// remaining group is accepted by default, matching what a non-interactive
// caller wants.
func (c *Console) ReviewGroups(groups []llm.CommitGroup) []llm.CommitGroup {
	fmt.Fprintln(c.w, "\nSuggested Commits:")
	fmt.Fprintf(c.w, "All %d suggested commits\n", len(groups))

	approved := make([]llm.CommitGroup, 0, len(groups))
	for i, group := range groups {
		c.printGroup(i+1, group)

		answer, eof := c.askYesNo("Accept this commit?")
		if eof {
			fmt.Fprintln(c.w, "Non-interactive environment, accepting this commit by default")
			approved = append(approved, group)
			continue
		}
		if answer {
			approved = append(approved, group)
		}
	}
	return approved
}

func (c *Console) printGroup(index int, group llm.CommitGroup) {
	fmt.Fprintf(c.w, "\nCommit %d:\n", index)
	fmt.Fprintln(c.w, sectionRule)
	fmt.Fprintln(c.w, "Files:")
	for _, file := range group.Files {
		fmt.Fprintf(c.w, "  - %s\n", file)
	}
	fmt.Fprintf(c.w, "Message: %s\n", group.CommitMessage)
	fmt.Fprintf(c.w, "Description: %s\n", group.Description)
	fmt.Fprintln(c.w, sectionRule)
}

// ApprovalStatus summarizes the review outcome.
func (c *Console) ApprovalStatus(approved, total int) {
	if approved == 0 {
		fmt.Fprintln(c.w, "No commit groups were approved by user")
		return
	}
	fmt.Fprintf(c.w, "%d of %d groups approved\n", approved, total)
}

// ConfirmPush asks whether to push. EOF means no: pushing is the one action
// that must never happen by default.
func (c *Console) ConfirmPush() bool {
	answer, eof := c.askYesNo("\nDo you want to push the commits?")
	if eof {
		return false
	}
	return answer
}

// askYesNo prompts until it gets a y/n answer. eof is true when input ran
// out before an answer arrived.
func (c *Console) askYesNo(prompt string) (answer bool, eof bool) {
	for {
		fmt.Fprintf(c.w, "%s [y/n]: ", prompt)

		line, err := c.r.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, false
		case "n", "no":
			return false, false
		}
		if err != nil {
			return false, true
		}
		fmt.Fprintln(c.w, "Please enter y or n")
	}
}

// Success prints a success message.
func (c *Console) Success(message string) {
	fmt.Fprintf(c.w, "✓ %s\n", message)
}

// Error prints an error message.
func (c *Console) Error(message string) {
	fmt.Fprintf(c.w, "Error: %s\n", message)
}

// Info prints an informational message.
func (c *Console) Info(message string) {
	fmt.Fprintln(c.w, message)
}

// Warnf prints a warning. It also serves as the warning sink for the
// repository scanner and the progress sink for the batch planner.
func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintf(c.w, "⚠️  "+format+"\n", args...)
}
