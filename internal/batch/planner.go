// Package batch splits oversized change sets into model-sized requests.
//
// The planner first tries to analyze everything in one request. When the
// model rejects it for context length, it falls back to fixed-size batches,
// halving the batch size on every further rejection. Batches are grown
// opportunistically with related changes so files that belong to the same
// commit stay in the same request.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/aicmt/aicmt/internal/git"
	"github.com/aicmt/aicmt/internal/llm"
)

// ErrUnsplittable means batching cannot help: a single change on its own is
// already larger than the model's context window.
var ErrUnsplittable = errors.New("even a single change exceeds the model's context length")

// Analyzer is the slice of the model client the planner needs.
type Analyzer interface {
	AnalyzeChanges(ctx context.Context, changes []git.Change) ([]llm.CommitGroup, error)
}

// Notifier receives user-facing progress notices while the planner degrades
// to smaller batches.
type Notifier interface {
	Warnf(format string, args ...any)
}

// Planner drives the analyzer over a change set, re-batching on
// context-length failures. Only context-length failures are retried; every
// other analyzer error is returned unchanged.
type Planner struct {
	analyzer Analyzer
	notifier Notifier
	logger   *slog.Logger
}

// NewPlanner creates a planner. notifier may be nil.
func NewPlanner(analyzer Analyzer, notifier Notifier) *Planner {
	return &Planner{
		analyzer: analyzer,
		notifier: notifier,
		logger:   slog.Default().With("component", "batch"),
	}
}

// Plan analyzes all changes and returns the combined commit groups.
//
// Each change is sent exactly once across all successful requests, in input
// order except where a related change is pulled forward into an earlier
// batch. The batch size halves on every context-length failure without a
// floor, so a single unsendable change ends in ErrUnsplittable instead of
// retrying forever.
func (p *Planner) Plan(ctx context.Context, changes []git.Change) ([]llm.CommitGroup, error) {
	if len(changes) == 0 {
		return []llm.CommitGroup{}, nil
	}

	groups, err := p.analyzer.AnalyzeChanges(ctx, changes)
	if err == nil {
		return groups, nil
	}
	if !llm.IsContextLength(err) {
		return nil, err
	}

	p.notify("Changes exceed the model's context length, switching to batch processing...")
	p.logger.Debug("switching to batch processing", "changes", len(changes))

	batchSize := len(changes) / 2
	remaining := changes
	var results []llm.CommitGroup

	for len(remaining) > 0 {
		if batchSize < 1 {
			return nil, ErrUnsplittable
		}

		take := batchSize
		if take > len(remaining) {
			take = len(remaining)
		}

		current := append(make([]git.Change, 0, take), remaining[:take]...)
		candidates := remaining[take:]

		// Pull related leftovers into this batch so the model sees
		// them together. Candidates are matched against the original
		// prefix only; an absorbed change never attracts further ones.
		absorbed := make(map[int]bool)
		for i, candidate := range candidates {
			for _, member := range current[:take] {
				if related(member.File, candidate.File) {
					current = append(current, candidate)
					absorbed[i] = true
					break
				}
			}
		}

		batchGroups, err := p.analyzer.AnalyzeChanges(ctx, current)
		if err != nil {
			if llm.IsContextLength(err) {
				batchSize /= 2
				if batchSize >= 1 {
					p.notify("Reducing batch size to %d and retrying...", batchSize)
				}
				p.logger.Debug("batch too large", "batch_size", batchSize)
				continue
			}
			return nil, err
		}

		results = append(results, batchGroups...)

		next := make([]git.Change, 0, len(candidates))
		for i, candidate := range candidates {
			if !absorbed[i] {
				next = append(next, candidate)
			}
		}
		remaining = next
	}

	return results, nil
}

// related reports whether two paths likely belong to the same commit:
// either they share a directory, or the first path's filename stem appears
// somewhere in the second path. Empty stems (dotfiles) never match.
func related(memberPath, candidatePath string) bool {
	if path.Dir(memberPath) == path.Dir(candidatePath) {
		return true
	}

	base := path.Base(memberPath)
	stem, _, _ := strings.Cut(base, ".")
	return stem != "" && strings.Contains(candidatePath, stem)
}

func (p *Planner) notify(format string, args ...any) {
	if p.notifier != nil {
		p.notifier.Warnf(format, args...)
	}
}
