// Package prompts holds the prompt templates sent to the model.
package prompts

import "fmt"

// CommitGroupingSystem is the default system prompt for commit analysis.
// It can be replaced wholesale through the analysis_prompt config key.
const CommitGroupingSystem = `
You are a Git commit expert who must analyze code changes and provide commit suggestions.
Requirements:
1. Group related changes together logically
2. Use conventional commits format for messages (e.g., feat:, fix:, docs:)
3. Keep commits reasonably sized
4. Provide clear descriptions of why changes are grouped together

Respond strictly in this JSON format:
{
  "commit_groups": [
    {
      "files": ["file1", "file2"],
      "commit_message": "feat: add feature",
      "description": "These changes implement certain functionality"
    }
  ]
}
`

// ExactCommitCountDirective pins the number of groups the model must return.
// Appended to the system prompt when the user asked for a fixed commit count.
func ExactCommitCountDirective(n int) string {
	return fmt.Sprintf("\nImportant: You must group the changes into exactly %d commits.", n)
}
