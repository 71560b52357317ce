package git_commit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/bggflow/internal/ctxlog"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	RepoPath    string   `bgf:"repo_path"`
	Paths       []string `bgf:"paths"`
	Message     string   `bgf:"message"`
	AuthorName  string   `bgf:"author_name"`
	AuthorEmail string   `bgf:"author_email"`
	Push        bool     `bgf:"push"`
	Remote      string   `bgf:"remote"`
}

// Deps is an empty struct because this runner does not use any resources.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	Committed bool   `cty:"committed"`
	Commit    string `cty:"commit"`
}

// onRunGitCommit is the handler for the 'git_commit' runner's on_run event.
// A clean tree is a success, not an error: a weekly refresh frequently
// produces identical data.
func onRunGitCommit(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	status, err := runGit(ctx, input.RepoPath, append([]string{"status", "--porcelain", "--"}, input.Paths...)...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) == "" {
		logger.Info("No dataset changes, skipping commit.")
		return &Output{Committed: false}, nil
	}

	if _, err := runGit(ctx, input.RepoPath, append([]string{"add", "--"}, input.Paths...)...); err != nil {
		return nil, err
	}

	commitArgs := []string{}
	if input.AuthorName != "" {
		commitArgs = append(commitArgs, "-c", "user.name="+input.AuthorName)
	}
	if input.AuthorEmail != "" {
		commitArgs = append(commitArgs, "-c", "user.email="+input.AuthorEmail)
	}
	commitArgs = append(commitArgs, "commit", "-m", input.Message)
	if _, err := runGit(ctx, input.RepoPath, commitArgs...); err != nil {
		return nil, err
	}

	sha, err := runGit(ctx, input.RepoPath, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}
	sha = strings.TrimSpace(sha)
	logger.Info("Dataset changes committed.", "commit", sha)

	if input.Push {
		remote := input.Remote
		if remote == "" {
			remote = "origin"
		}
		if _, err := runGit(ctx, input.RepoPath, "push", remote, "HEAD"); err != nil {
			return nil, err
		}
		logger.Info("Pushed commit.", "remote", remote)
	}

	return &Output{Committed: true, Commit: sha}, nil
}

// runGit executes one git command in the repo and returns its stdout.
func runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
