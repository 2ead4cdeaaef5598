package llm

import "encoding/json"

// CommitGroup is one model-proposed commit: the files it covers, the commit
// message to use, and a short human-readable description of the change.
type CommitGroup struct {
	Files         []string `json:"files"`
	CommitMessage string   `json:"commit_message"`
	Description   string   `json:"description"`
}

const (
	defaultCommitMessage = "chore: update files"
	defaultDescription   = "Update files"
)

// parseGroupingResponse decodes the model's JSON reply into commit groups.
// Models drift from the requested schema often enough that recoverable shape
// problems are repaired instead of rejected: non-object entries are dropped,
// missing fields get defaults, and a bare string under files is wrapped into
// a one-element list. Only a missing or malformed commit_groups container is
// a hard failure.
func parseGroupingResponse(content string) ([]CommitGroup, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &top); err != nil {
		return nil, &Error{Kind: KindBadResponse, Message: "API response format error: the returned content is not a JSON object", Cause: err}
	}

	rawGroups, ok := top["commit_groups"]
	if !ok {
		return nil, &Error{Kind: KindBadResponse, Message: "API response format error: missing required commit_groups field"}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawGroups, &entries); err != nil {
		return nil, &Error{Kind: KindBadResponse, Message: "API response format error: commit_groups must be an array", Cause: err}
	}

	groups := make([]CommitGroup, 0, len(entries))
	for _, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}
		groups = append(groups, repairGroup(fields))
	}
	return groups, nil
}

func repairGroup(fields map[string]json.RawMessage) CommitGroup {
	group := CommitGroup{
		Files:         []string{},
		CommitMessage: defaultCommitMessage,
		Description:   defaultDescription,
	}

	if raw, ok := fields["files"]; ok {
		var files []string
		if err := json.Unmarshal(raw, &files); err == nil {
			if files != nil {
				group.Files = files
			}
		} else {
			var single string
			if err := json.Unmarshal(raw, &single); err == nil {
				group.Files = []string{single}
			}
		}
	}

	if raw, ok := fields["commit_message"]; ok {
		var message string
		if err := json.Unmarshal(raw, &message); err == nil {
			group.CommitMessage = message
		}
	}

	if raw, ok := fields["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err == nil {
			group.Description = description
		}
	}

	return group
}
