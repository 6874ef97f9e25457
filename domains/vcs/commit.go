package vcs

import (
	"context"
	"encoding/base64"

	"github.com/gomantics/cardvault/libs/githost"
	"golang.org/x/sync/errgroup"
)

// CommitFiles publishes every file change as a single commit on branch.
// Nothing visible to other readers of the branch mutates until the final
// ref update: blobs, the tree, and the commit object are all created
// unreferenced first. A failed ref update leaves them as unreachable
// garbage and the whole operation must be retried, since the recorded
// parent may be stale by then.
//
// An empty file list still advances the branch with a commit whose tree
// equals the base tree.
func (s *Service) CommitFiles(ctx context.Context, repo githost.RepoRef, branch string, files []FileSnapshot, message string) (CommitResult, error) {
	head, err := s.host.GetBranchHead(ctx, repo, branch)
	if err != nil {
		return CommitResult{}, branchReadErr(branch, err)
	}

	baseTree, err := s.host.GetCommitTree(ctx, repo, head)
	if err != nil {
		return CommitResult{}, transportErr("read head commit", err)
	}

	// Blob creation has no ordering dependency between files.
	entries := make([]githost.TreeEntry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			content, encoding := encodeBlob(f)
			sha, err := s.host.CreateBlob(gctx, repo, content, encoding)
			if err != nil {
				return transportErr("create blob "+f.Path, err)
			}
			entries[i] = githost.TreeEntry{Path: f.Path, SHA: sha}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CommitResult{}, err
	}

	treeSHA := baseTree
	if len(entries) > 0 {
		treeSHA, err = s.host.CreateTree(ctx, repo, baseTree, entries)
		if err != nil {
			return CommitResult{}, transportErr("create tree", err)
		}
	}

	commitSHA, err := s.host.CreateCommit(ctx, repo, message, treeSHA, []string{head})
	if err != nil {
		return CommitResult{}, transportErr("create commit", err)
	}

	// The single point of atomicity. The head read above is the expected
	// parent; if the branch moved since, the non-fast-forward rejection
	// surfaces as a conflict rather than silently overwriting.
	if err := s.host.UpdateBranchHead(ctx, repo, branch, commitSHA, false); err != nil {
		if githost.IsUnprocessable(err) || githost.IsConflict(err) {
			return CommitResult{}, ErrRemoteConflict
		}
		return CommitResult{}, transportErr("update branch ref", err)
	}

	return CommitResult{SHA: commitSHA, TreeSHA: treeSHA, Parent: head}, nil
}

func encodeBlob(f FileSnapshot) (content, encoding string) {
	if f.Binary {
		return base64.StdEncoding.EncodeToString(f.Content), githost.EncodingBase64
	}
	return string(f.Content), githost.EncodingUTF8
}
