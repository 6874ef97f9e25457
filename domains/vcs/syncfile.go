package vcs

import (
	"context"

	"github.com/gomantics/cardvault/libs/githost"
)

// SyncFile creates or updates exactly one file on branch. The current
// content SHA is read first and passed to the write, so an update only
// succeeds while that SHA still matches on the provider side; a stale SHA
// surfaces as ErrRemoteConflict and the caller re-reads and retries.
// Read-before-write narrows the conflict window, it does not eliminate it
// under concurrent writers.
func (s *Service) SyncFile(ctx context.Context, repo githost.RepoRef, branch, path string, content []byte, message string) (SyncResult, error) {
	current, err := s.host.GetContents(ctx, repo, path, branch)
	if err != nil {
		return SyncResult{}, transportErr("read "+path, err)
	}

	update, err := s.host.CreateOrUpdateFile(ctx, repo, branch, path, content, message, current.SHA)
	if err != nil {
		if githost.IsConflict(err) || githost.IsUnprocessable(err) {
			return SyncResult{}, ErrRemoteConflict
		}
		return SyncResult{}, transportErr("write "+path, err)
	}

	return SyncResult{
		CommitSHA:  update.CommitSHA,
		ContentSHA: update.ContentSHA,
		Created:    !current.Found,
	}, nil
}
