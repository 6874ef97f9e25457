package vcs

import (
	"context"

	"github.com/gomantics/cardvault/libs/githost"
)

// Fork forks repo into the authenticated user's namespace. The provider
// completes forks asynchronously; a Pending result means the descriptor
// was accepted but the fork may not be usable yet and callers re-check.
func (s *Service) Fork(ctx context.Context, repo githost.RepoRef) (githost.ForkResult, error) {
	fork, err := s.host.CreateFork(ctx, repo)
	if err != nil {
		return githost.ForkResult{}, transportErr("create fork", err)
	}
	return fork, nil
}

// OpenPullRequest opens a pull request on upstream. head must already be
// qualified ("owner:branch") when it lives in a fork.
func (s *Service) OpenPullRequest(ctx context.Context, upstream githost.RepoRef, head, base, title, body string) (githost.PullRequest, error) {
	pr, err := s.host.CreatePullRequest(ctx, upstream, title, head, base, body)
	if err != nil {
		return githost.PullRequest{}, transportErr("create pull request", err)
	}
	return pr, nil
}
