package vcs

import (
	"context"

	"github.com/gomantics/cardvault/libs/githost"
)

// historyPageSize bounds history listings to the most recent commits.
const historyPageSize = 50

// ListHistory returns branch history newest first, optionally filtered to
// commits touching path.
func (s *Service) ListHistory(ctx context.Context, repo githost.RepoRef, branch, path string) ([]githost.CommitInfo, error) {
	commits, err := s.host.ListCommits(ctx, repo, branch, path, historyPageSize)
	if err != nil {
		if githost.IsNotFound(err) || githost.IsConflict(err) {
			return nil, branchReadErr(branch, err)
		}
		return nil, transportErr("list commits", err)
	}
	return commits, nil
}

// ListBranches returns the repository's branch names.
func (s *Service) ListBranches(ctx context.Context, repo githost.RepoRef) ([]string, error) {
	branches, err := s.host.ListBranches(ctx, repo)
	if err != nil {
		return nil, transportErr("list branches", err)
	}
	return branches, nil
}

// GetPatch returns the textual patch recorded for path in one commit.
// ErrNoPatch means the commit carries no change data for the file: binary
// content, or the file was not touched by that commit.
func (s *Service) GetPatch(ctx context.Context, repo githost.RepoRef, commitSHA, path string) (string, error) {
	files, err := s.host.GetCommitFiles(ctx, repo, commitSHA)
	if err != nil {
		return "", transportErr("read commit "+commitSHA, err)
	}

	for _, f := range files {
		if f.Filename == path {
			if !f.HasPatch {
				return "", ErrNoPatch
			}
			return f.Patch, nil
		}
	}
	return "", ErrNoPatch
}
