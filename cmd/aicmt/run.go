package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/aicmt/aicmt/internal/batch"
	"github.com/aicmt/aicmt/internal/config"
	"github.com/aicmt/aicmt/internal/git"
	"github.com/aicmt/aicmt/internal/llm"
	"github.com/aicmt/aicmt/internal/output"
	"github.com/spf13/cobra"
)

// Flag values for the root command.
var (
	apiKey     string
	baseURL    string
	model      string
	provider   string
	numCommits int
	staged     bool
)

// runAssistant drives the whole flow: scan, analyze, review, commit, push.
// An interrupt cancels the signal context; the flow notices at the
// checkpoints between phases and leaves with a clean message and exit
// code 0, like an explicit "no" at a prompt would.
func runAssistant(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console := output.NewConsole(os.Stdout, os.Stdin)
	console.Welcome()

	applyFlagOverrides(cfg)

	// Last resort after config, env, and flags: the credential chain, which
	// may prompt interactively and store the entered key. Validation below
	// still reports the missing key when this comes up empty.
	if cfg.API.Key == "" {
		if key, err := config.NewCredentialManager().GetAPIKey(); err == nil {
			cfg.API.Key = key
		}
	}

	result := cfg.ValidateAll()
	if result.HasErrors() {
		return errors.New(strings.TrimRight(result.Error(), "\n"))
	}
	for _, warning := range result.Warnings {
		console.Warnf("%s", warning)
	}

	repo, err := git.Open(".")
	if err != nil {
		return err
	}
	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	console.RepoInfo(repo.Root(), branch)

	scope := git.ScopeUnstaged
	if staged {
		scope = git.ScopeStaged
	}

	logger.WithField("scope", scope).Debug("Scanning repository")
	changes, err := repo.Scan(scope, console)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		console.NoChanges(scope)
		console.Info("No changes to commit.")
		return nil
	}
	console.Changes(changes, scope)

	if cancelled(ctx, console) {
		return nil
	}

	client, err := llm.NewClient(ctx, llm.Options{
		Provider:          llm.Provider(cfg.Provider),
		APIKey:            cfg.API.Key,
		BaseURL:           cfg.API.BaseURL,
		Model:             cfg.API.Model,
		AnalysisPrompt:    cfg.Prompts.AnalysisPrompt,
		NumCommits:        numCommits,
		RequestsPerMinute: cfg.API.RequestsPerMinute,
	})
	if err != nil {
		return err
	}

	if numCommits > 0 {
		console.Warnf("Set commit num: %d", numCommits)
	}

	// The Gemini endpoint is fixed by the SDK, so only echo the base URL
	// when it is actually in play.
	echoBase := client.BaseURL()
	if client.Provider() == llm.ProviderGemini {
		echoBase = ""
	}
	console.AnalysisStart(echoBase, client.Model())

	planner := batch.NewPlanner(client, console)
	groups, err := planner.Plan(ctx, changes)
	if err != nil {
		if cancelled(ctx, console) {
			return nil
		}
		return analysisError(err)
	}
	logger.WithField("groups", len(groups)).Debug("Analysis complete")

	if cancelled(ctx, console) {
		return nil
	}

	approved := console.ReviewGroups(groups)
	console.ApprovalStatus(len(approved), len(groups))

	for _, group := range approved {
		if cancelled(ctx, console) {
			return nil
		}
		if err := commitGroup(repo, group); err != nil {
			console.Error("Failed to create commit: " + err.Error())
			continue
		}
		console.Success("Created commit: " + group.CommitMessage)
	}

	if cancelled(ctx, console) {
		return nil
	}

	if console.ConfirmPush() {
		if err := pushCommits(repo); err != nil {
			console.Error("Failed to push commits: " + err.Error())
		} else {
			console.Success("Successfully pushed all commits!")
		}
	}

	return nil
}

// applyFlagOverrides layers the run-scoped CLI flags over the loaded
// configuration.
func applyFlagOverrides(cfg *config.Config) {
	if provider != "" {
		cfg.Provider = provider
	}
	if apiKey != "" {
		cfg.API.Key = apiKey
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if model != "" {
		cfg.API.Model = model
	}
}

// cancelled reports an interrupt observed at a checkpoint and prints the
// cancellation notice.
func cancelled(ctx context.Context, console *output.Console) bool {
	if ctx.Err() == nil {
		return false
	}
	console.Info("\nOperation cancelled by user.")
	return true
}

// analysisError attaches remediation advice to a failed analysis so the
// user knows what to try next.
func analysisError(err error) error {
	if advice := llm.Remediation(err); advice != "" {
		return fmt.Errorf("%v\n%s", err, advice)
	}
	return err
}

// commitGroup stages one approved group's files and commits them.
func commitGroup(repo *git.Repository, group llm.CommitGroup) error {
	if err := repo.StageFiles(group.Files); err != nil {
		return err
	}
	return repo.Commit(group.CommitMessage)
}

// pushCommits pushes the current branch to the default remote. The remote
// is probed first so a missing origin reads as a configuration problem,
// not a raw git failure.
func pushCommits(repo *git.Repository) error {
	if _, err := repo.RemoteURL(git.DefaultRemote); err != nil {
		return fmt.Errorf("no %q remote configured", git.DefaultRemote)
	}
	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	return repo.Push(git.DefaultRemote, branch)
}
