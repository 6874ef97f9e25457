package vcs

import (
	"context"
	"fmt"

	"github.com/gomantics/cardvault/libs/githost"
)

// Revert restores the tracked files to their state at targetSHA as a new
// forward commit on branch. History is never rewritten: the restored tree
// is built on the current head's tree and published through the same
// atomic path as any other commit, so a racing writer surfaces as
// ErrRemoteConflict. Files absent at targetSHA resolve to "nothing to
// restore" and stay untouched on the branch.
func (s *Service) Revert(ctx context.Context, repo githost.RepoRef, branch, targetSHA string, tracked []TrackedFile) (RevertResult, error) {
	// The content reads below report a missing ref the same way as a
	// missing file, so an unresolvable target must be rejected here or
	// it would publish an empty revert commit.
	if _, err := s.host.GetCommitTree(ctx, repo, targetSHA); err != nil {
		if githost.IsNotFound(err) || githost.IsUnprocessable(err) {
			return RevertResult{}, fmt.Errorf("%w: %s", ErrCommitNotFound, shortSHA(targetSHA))
		}
		return RevertResult{}, transportErr("read commit "+shortSHA(targetSHA), err)
	}

	restored := make(map[string][]byte, len(tracked))
	snapshots := make([]FileSnapshot, 0, len(tracked))
	for _, tf := range tracked {
		content, err := s.host.GetContents(ctx, repo, tf.Path, targetSHA)
		if err != nil {
			return RevertResult{}, transportErr(fmt.Sprintf("read %s at %s", tf.Path, shortSHA(targetSHA)), err)
		}
		if !content.Found {
			continue
		}
		restored[tf.Path] = content.Content
		snapshots = append(snapshots, FileSnapshot{
			Path:    tf.Path,
			Content: content.Content,
			Binary:  tf.Binary,
		})
	}

	commit, err := s.CommitFiles(ctx, repo, branch, snapshots, revertMessage(targetSHA))
	if err != nil {
		return RevertResult{}, err
	}

	return RevertResult{Commit: commit, Restored: restored}, nil
}

func revertMessage(targetSHA string) string {
	return "revert to version " + shortSHA(targetSHA)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
