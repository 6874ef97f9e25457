package vcs

import (
	"context"

	"github.com/gomantics/cardvault/libs/githost"
)

// Host is the object-store capability surface the synchronization core
// needs from the hosting provider. *githost.Client satisfies it; tests
// substitute an in-memory implementation.
type Host interface {
	CreateBlob(ctx context.Context, repo githost.RepoRef, content, encoding string) (string, error)
	CreateTree(ctx context.Context, repo githost.RepoRef, baseTreeSHA string, entries []githost.TreeEntry) (string, error)
	CreateCommit(ctx context.Context, repo githost.RepoRef, message, treeSHA string, parentSHAs []string) (string, error)
	GetBranchHead(ctx context.Context, repo githost.RepoRef, branch string) (string, error)
	CreateBranch(ctx context.Context, repo githost.RepoRef, branch, sha string) error
	UpdateBranchHead(ctx context.Context, repo githost.RepoRef, branch, sha string, force bool) error
	GetDefaultBranch(ctx context.Context, repo githost.RepoRef) (string, error)
	GetCommitTree(ctx context.Context, repo githost.RepoRef, sha string) (string, error)
	GetCommitFiles(ctx context.Context, repo githost.RepoRef, sha string) ([]githost.CommitFile, error)
	GetContents(ctx context.Context, repo githost.RepoRef, path, ref string) (githost.FileContent, error)
	CreateOrUpdateFile(ctx context.Context, repo githost.RepoRef, branch, path string, content []byte, message, sha string) (githost.ContentUpdate, error)
	ListCommits(ctx context.Context, repo githost.RepoRef, branch, path string, limit int) ([]githost.CommitInfo, error)
	ListBranches(ctx context.Context, repo githost.RepoRef) ([]string, error)
	CreateRelease(ctx context.Context, repo githost.RepoRef, tag, name, body, targetBranch string) (githost.Release, error)
	ListReleases(ctx context.Context, repo githost.RepoRef, limit int) ([]githost.Release, error)
	UploadReleaseAsset(ctx context.Context, repo githost.RepoRef, releaseID int64, name, contentType string, content []byte) error
	CreateFork(ctx context.Context, repo githost.RepoRef) (githost.ForkResult, error)
	CreatePullRequest(ctx context.Context, upstream githost.RepoRef, title, head, base, body string) (githost.PullRequest, error)
}

// Service runs versioning operations against one authenticated host
// client. It is cheap to construct and meant to live for one request.
type Service struct {
	host Host
}

// New returns a Service backed by host.
func New(host Host) *Service {
	return &Service{host: host}
}
