package llm

import (
	"fmt"
	"strings"

	"github.com/aicmt/aicmt/internal/git"
	"github.com/aicmt/aicmt/internal/llm/prompts"
)

// buildSystemPrompt assembles the system prompt: the configured analysis
// prompt (or the built-in default) plus the exact-commit-count directive
// when one was requested.
func buildSystemPrompt(analysisPrompt string, numCommits int) string {
	prompt := analysisPrompt
	if prompt == "" {
		prompt = prompts.CommitGroupingSystem
	}
	if numCommits > 0 {
		prompt += prompts.ExactCommitCountDirective(numCommits)
	}
	return prompt
}

// buildUserPrompt renders one batch of changes into the analysis request
// body. Each change contributes its path, status, and diff text; binary and
// deleted files carry their placeholder instead of a diff.
func buildUserPrompt(changes []git.Change) string {
	blocks := make([]string, 0, len(changes))
	for _, change := range changes {
		blocks = append(blocks, fmt.Sprintf("File: %s\nStatus: %s\nChanges:\n%s", change.File, change.Status, change.Diff))
	}
	return "Changes to analyze:\n\n" + strings.Join(blocks, "\n\n")
}
