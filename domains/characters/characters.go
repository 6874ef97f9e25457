package characters

import (
	"context"
	"errors"

	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/gomantics/cardvault/libs/githost"
)

var ErrDocumentRequired = errors.New("character document is required")

// Service orchestrates character versioning on top of the synchronization
// core. One Service is built per request from the session's host client.
type Service struct {
	vcs *vcs.Service
}

// New returns a Service talking to host.
func New(host vcs.Host) *Service {
	return &Service{vcs: vcs.New(host)}
}

// tracked is the full set of files the rollback engine restores. The
// image is routinely absent in older versions and resolves to no content.
var tracked = []vcs.TrackedFile{
	{Path: DocumentPath},
	{Path: ImagePath, Binary: true},
}

// Save commits the document and, when present, the card image as one
// atomic commit on the branch.
func (s *Service) Save(ctx context.Context, p SaveParams) (vcs.CommitResult, error) {
	if len(p.Document) == 0 {
		return vcs.CommitResult{}, ErrDocumentRequired
	}

	repo, err := githost.ParseRepoURL(p.RepoURL)
	if err != nil {
		return vcs.CommitResult{}, err
	}

	branch := p.Branch
	if branch == "" {
		branch = DefaultBranch
	}
	message := p.Message
	if message == "" {
		message = "update " + DocumentPath
	}

	files := []vcs.FileSnapshot{
		{Path: DocumentPath, Content: p.Document},
	}
	if len(p.Image) > 0 {
		files = append(files, vcs.FileSnapshot{Path: ImagePath, Content: p.Image, Binary: true})
	}

	return s.vcs.CommitFiles(ctx, repo, branch, files, message)
}

// SyncDocument updates only the JSON document through the single-file
// synchronizer's optimistic-concurrency path.
func (s *Service) SyncDocument(ctx context.Context, repoURL, branch string, document []byte, message string) (vcs.SyncResult, error) {
	if len(document) == 0 {
		return vcs.SyncResult{}, ErrDocumentRequired
	}

	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return vcs.SyncResult{}, err
	}
	if branch == "" {
		branch = DefaultBranch
	}
	if message == "" {
		message = "update " + DocumentPath
	}

	return s.vcs.SyncFile(ctx, repo, branch, DocumentPath, document, message)
}

// Init ensures the versioning branch exists, bootstrapping an empty
// repository with a seed document when needed.
func (s *Service) Init(ctx context.Context, repoURL, branch, baseBranch string, seed []byte) (vcs.BranchCreation, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return vcs.BranchCreation{}, err
	}
	if branch == "" {
		branch = DefaultBranch
	}
	return s.vcs.EnsureBranch(ctx, repo, branch, baseBranch, seed)
}

// Get returns the current document and image on the branch. A missing
// image is reported as nil bytes.
func (s *Service) Get(ctx context.Context, repoURL, branch string) (document, image []byte, err error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return nil, nil, err
	}
	if branch == "" {
		branch = DefaultBranch
	}

	doc, err := s.vcs.ReadFile(ctx, repo, DocumentPath, branch)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.vcs.ReadFile(ctx, repo, ImagePath, branch)
	if err != nil {
		return nil, nil, err
	}
	return doc, img, nil
}

// History lists the branch's commits newest first, optionally narrowed to
// one artifact path.
func (s *Service) History(ctx context.Context, repoURL, branch, path string) ([]githost.CommitInfo, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	if branch == "" {
		branch = DefaultBranch
	}
	return s.vcs.ListHistory(ctx, repo, branch, path)
}

// Branches lists the repository's branch names.
func (s *Service) Branches(ctx context.Context, repoURL string) ([]string, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	return s.vcs.ListBranches(ctx, repo)
}

// Diff returns the document's patch in one commit. vcs.ErrNoPatch means
// the commit carries no textual change for the path.
func (s *Service) Diff(ctx context.Context, repoURL, commitSHA, path string) (string, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = DocumentPath
	}
	return s.vcs.GetPatch(ctx, repo, commitSHA, path)
}

// Revert restores both artifacts to their state at targetSHA as a forward
// commit.
func (s *Service) Revert(ctx context.Context, repoURL, branch, targetSHA string) (vcs.RevertResult, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return vcs.RevertResult{}, err
	}
	if branch == "" {
		branch = DefaultBranch
	}
	return s.vcs.Revert(ctx, repo, branch, targetSHA, tracked)
}

// Publish creates a release and attaches both artifacts as assets.
// A *vcs.PartialPublishError reports a release that exists with some
// assets missing.
func (s *Service) Publish(ctx context.Context, p PublishParams) (githost.Release, error) {
	repo, err := githost.ParseRepoURL(p.RepoURL)
	if err != nil {
		return githost.Release{}, err
	}

	branch := p.Branch
	if branch == "" {
		branch = DefaultBranch
	}
	title := p.Title
	if title == "" {
		title = p.Version
	}

	assets := []vcs.ReleaseAsset{
		{Name: DocumentPath, Path: DocumentPath, ContentType: "application/json"},
		{Name: ImagePath, Path: ImagePath, ContentType: "image/png"},
	}
	return s.vcs.PublishRelease(ctx, repo, p.Version, title, p.Notes, branch, assets)
}

// releasePageSize bounds release listings to the most recent entries.
const releasePageSize = 20

// Releases lists the repository's published character versions, newest
// first.
func (s *Service) Releases(ctx context.Context, repoURL string) ([]githost.Release, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	return s.vcs.ListReleases(ctx, repo, releasePageSize)
}

// Fork forks the upstream character repository into the user's namespace.
func (s *Service) Fork(ctx context.Context, repoURL string) (githost.ForkResult, error) {
	repo, err := githost.ParseRepoURL(repoURL)
	if err != nil {
		return githost.ForkResult{}, err
	}
	return s.vcs.Fork(ctx, repo)
}

// OpenPullRequest proposes a forked branch back to upstream. head is the
// qualified "owner:branch" form when it lives in a fork.
func (s *Service) OpenPullRequest(ctx context.Context, upstreamURL, head, base, title, body string) (githost.PullRequest, error) {
	upstream, err := githost.ParseRepoURL(upstreamURL)
	if err != nil {
		return githost.PullRequest{}, err
	}
	if base == "" {
		base = DefaultBranch
	}
	return s.vcs.OpenPullRequest(ctx, upstream, head, base, title, body)
}
