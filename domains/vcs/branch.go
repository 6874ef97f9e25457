package vcs

import (
	"context"
	"fmt"

	"github.com/gomantics/cardvault/libs/githost"
)

const (
	seedPath             = "README.md"
	initialCommitMessage = "initial commit"
)

var defaultSeed = []byte("# character repository\n")

// EnsureBranch makes sure branch exists before content operations run.
//
// With baseBranch set, the new branch ref is created at the base's head.
// Without it, the repository's default branch is probed: a head that
// resolves means history exists and branch is created there; a head read
// that fails specifically because the repository has no commits yet
// triggers bootstrap, writing a seed file directly on branch. The
// provider accepts a content write to a nonexistent branch only when the
// repository is empty, so that one write creates branch and first commit
// together. Every other failure propagates unchanged.
func (s *Service) EnsureBranch(ctx context.Context, repo githost.RepoRef, branch, baseBranch string, seed []byte) (BranchCreation, error) {
	if baseBranch != "" {
		sha, err := s.host.GetBranchHead(ctx, repo, baseBranch)
		if err != nil {
			if githost.IsNotFound(err) || githost.IsConflict(err) {
				return BranchCreation{}, fmt.Errorf("%w: %s", ErrBaseBranchNotFound, baseBranch)
			}
			return BranchCreation{}, transportErr("read base branch "+baseBranch, err)
		}
		head, err := s.createBranchAt(ctx, repo, branch, sha)
		if err != nil {
			return BranchCreation{}, err
		}
		return BranchCreation{Branch: branch, HeadSHA: head}, nil
	}

	defaultBranch, err := s.host.GetDefaultBranch(ctx, repo)
	if err != nil {
		return BranchCreation{}, transportErr("read repository", err)
	}

	head, err := s.host.GetBranchHead(ctx, repo, defaultBranch)
	if err == nil {
		if branch == defaultBranch {
			return BranchCreation{Branch: branch, HeadSHA: head}, nil
		}
		created, err := s.createBranchAt(ctx, repo, branch, head)
		if err != nil {
			return BranchCreation{}, err
		}
		return BranchCreation{Branch: branch, HeadSHA: created}, nil
	}

	// The default branch ref failing to resolve is the empty-repository
	// condition: the ref cannot exist before the first commit. A missing
	// ref on a non-default branch never reaches this path, and transport
	// or auth failures carry other status codes.
	if !githost.IsNotFound(err) && !githost.IsConflict(err) {
		return BranchCreation{}, transportErr("read default branch "+defaultBranch, err)
	}

	if len(seed) == 0 {
		seed = defaultSeed
	}
	update, err := s.host.CreateOrUpdateFile(ctx, repo, branch, seedPath, seed, initialCommitMessage, "")
	if err != nil {
		return BranchCreation{}, transportErr("bootstrap repository", err)
	}

	return BranchCreation{Branch: branch, HeadSHA: update.CommitSHA, Bootstrapped: true}, nil
}

// createBranchAt creates branch at sha and returns the branch's head. A
// branch that already exists is left alone and its actual head is
// reported, which may differ from sha.
func (s *Service) createBranchAt(ctx context.Context, repo githost.RepoRef, branch, sha string) (string, error) {
	err := s.host.CreateBranch(ctx, repo, branch, sha)
	if err == nil {
		return sha, nil
	}
	if !githost.IsRefAlreadyExists(err) {
		return "", transportErr("create branch "+branch, err)
	}

	head, err := s.host.GetBranchHead(ctx, repo, branch)
	if err != nil {
		return "", branchReadErr(branch, err)
	}
	return head, nil
}
