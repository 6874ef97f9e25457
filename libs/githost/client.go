package githost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

// Client is the narrow capability surface this service uses against the
// hosting provider's REST and Git Data APIs. It performs one request per
// logical object operation and builds no retry logic in; retry policy
// belongs to callers.
type Client struct {
	gh   *github.Client
	http *http.Client
}

// NewClient returns a client authenticated with a personal access token.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	return &Client{gh: github.NewClient(httpClient), http: httpClient}
}

// Blob content encodings accepted by the provider.
const (
	EncodingUTF8   = "utf-8"
	EncodingBase64 = "base64"
)

// TreeEntry names one blob replacement when building a tree on a base tree.
type TreeEntry struct {
	Path string
	SHA  string
}

// CommitInfo is one entry of a branch's history listing.
type CommitInfo struct {
	SHA     string
	Author  string
	Date    time.Time
	Message string
}

// CommitFile is one changed file of a commit, with its textual patch when
// the provider recorded one.
type CommitFile struct {
	Filename string
	Patch    string
	HasPatch bool
}

// FileContent is the result of a content read. Found is false when the
// path does not exist at the requested ref.
type FileContent struct {
	Content []byte
	SHA     string
	Found   bool
}

// ContentUpdate is the result of a create-or-update file write.
type ContentUpdate struct {
	CommitSHA  string
	ContentSHA string
}

// Release describes a published release object.
type Release struct {
	ID      int64
	TagName string
	Name    string
	Body    string
	HTMLURL string
}

// ForkResult describes a created fork. Pending is true when the provider
// accepted the request but had not finished creating the fork.
type ForkResult struct {
	Owner   string
	Name    string
	Pending bool
	HTMLURL string
}

// PullRequest describes an opened pull request.
type PullRequest struct {
	Number  int
	HTMLURL string
}

// CreateBlob stores one content blob and returns its SHA.
func (c *Client) CreateBlob(ctx context.Context, repo RepoRef, content, encoding string) (string, error) {
	blob, _, err := c.gh.Git.CreateBlob(ctx, repo.Owner, repo.Name, &github.Blob{
		Content:  github.String(content),
		Encoding: github.String(encoding),
	})
	if err != nil {
		return "", err
	}
	return blob.GetSHA(), nil
}

// CreateTree builds a tree on top of baseTreeSHA, replacing exactly the
// named paths. Untouched paths are inherited from the base tree.
func (c *Client) CreateTree(ctx context.Context, repo RepoRef, baseTreeSHA string, entries []TreeEntry) (string, error) {
	treeEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, e := range entries {
		treeEntries = append(treeEntries, &github.TreeEntry{
			Path: github.String(e.Path),
			Mode: github.String("100644"),
			Type: github.String("blob"),
			SHA:  github.String(e.SHA),
		})
	}

	tree, _, err := c.gh.Git.CreateTree(ctx, repo.Owner, repo.Name, baseTreeSHA, treeEntries)
	if err != nil {
		return "", err
	}
	return tree.GetSHA(), nil
}

// CreateCommit stores one commit object pointing at treeSHA.
func (c *Client) CreateCommit(ctx context.Context, repo RepoRef, message, treeSHA string, parentSHAs []string) (string, error) {
	parents := make([]*github.Commit, 0, len(parentSHAs))
	for _, p := range parentSHAs {
		parents = append(parents, &github.Commit{SHA: github.String(p)})
	}

	commit, _, err := c.gh.Git.CreateCommit(ctx, repo.Owner, repo.Name, &github.Commit{
		Message: github.String(message),
		Tree:    &github.Tree{SHA: github.String(treeSHA)},
		Parents: parents,
	})
	if err != nil {
		return "", err
	}
	return commit.GetSHA(), nil
}

// GetBranchHead returns the commit SHA a branch ref points at.
func (c *Client) GetBranchHead(ctx context.Context, repo RepoRef, branch string) (string, error) {
	ref, _, err := c.gh.Git.GetRef(ctx, repo.Owner, repo.Name, "heads/"+branch)
	if err != nil {
		return "", err
	}
	return ref.GetObject().GetSHA(), nil
}

// CreateBranch creates a new branch ref pointing at sha.
func (c *Client) CreateBranch(ctx context.Context, repo RepoRef, branch, sha string) error {
	_, _, err := c.gh.Git.CreateRef(ctx, repo.Owner, repo.Name, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	})
	return err
}

// UpdateBranchHead advances a branch ref to sha. With force false the
// provider rejects non-fast-forward updates with 422.
func (c *Client) UpdateBranchHead(ctx context.Context, repo RepoRef, branch, sha string, force bool) error {
	_, _, err := c.gh.Git.UpdateRef(ctx, repo.Owner, repo.Name, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}, force)
	return err
}

// GetDefaultBranch returns the repository's configured default branch name.
// This works even for a repository without commits.
func (c *Client) GetDefaultBranch(ctx context.Context, repo RepoRef) (string, error) {
	r, _, err := c.gh.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return "", err
	}
	return r.GetDefaultBranch(), nil
}

// GetCommitTree returns the tree SHA recorded by a commit object.
func (c *Client) GetCommitTree(ctx context.Context, repo RepoRef, sha string) (string, error) {
	commit, _, err := c.gh.Git.GetCommit(ctx, repo.Owner, repo.Name, sha)
	if err != nil {
		return "", err
	}
	return commit.GetTree().GetSHA(), nil
}

// GetCommitFiles returns the per-file change list of a commit.
func (c *Client) GetCommitFiles(ctx context.Context, repo RepoRef, sha string) ([]CommitFile, error) {
	commit, _, err := c.gh.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
	if err != nil {
		return nil, err
	}

	files := make([]CommitFile, 0, len(commit.Files))
	for _, f := range commit.Files {
		files = append(files, CommitFile{
			Filename: f.GetFilename(),
			Patch:    f.GetPatch(),
			HasPatch: f.Patch != nil,
		})
	}
	return files, nil
}

// GetContents reads a file at a ref. A missing path is reported as
// Found false, not as an error; every other failure propagates.
func (c *Client) GetContents(ctx context.Context, repo RepoRef, path, ref string) (FileContent, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if IsNotFound(err) {
		return FileContent{}, nil
	}
	if err != nil {
		return FileContent{}, err
	}
	if file == nil {
		return FileContent{}, fmt.Errorf("path %q at %q is a directory", path, ref)
	}

	content, err := file.GetContent()
	if err != nil {
		// Above 1 MB the provider omits the inline payload (encoding
		// "none") and supplies a download URL instead.
		if file.GetDownloadURL() == "" {
			return FileContent{}, fmt.Errorf("decode content of %q: %w", path, err)
		}
		raw, err := c.download(ctx, file.GetDownloadURL())
		if err != nil {
			return FileContent{}, fmt.Errorf("download content of %q: %w", path, err)
		}
		return FileContent{
			Content: raw,
			SHA:     file.GetSHA(),
			Found:   true,
		}, nil
	}

	return FileContent{
		Content: []byte(content),
		SHA:     file.GetSHA(),
		Found:   true,
	}, nil
}

func (c *Client) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// CreateOrUpdateFile writes one file on a branch through the contents API.
// An empty sha creates the file; a non-empty sha is the optimistic
// concurrency check for an update. Writing to a branch that does not exist
// succeeds only when the repository is empty, which simultaneously creates
// the branch and its first commit.
func (c *Client) CreateOrUpdateFile(ctx context.Context, repo RepoRef, branch, path string, content []byte, message, sha string) (ContentUpdate, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(branch),
	}

	var resp *github.RepositoryContentResponse
	var err error
	if sha == "" {
		resp, _, err = c.gh.Repositories.CreateFile(ctx, repo.Owner, repo.Name, path, opts)
	} else {
		opts.SHA = github.String(sha)
		resp, _, err = c.gh.Repositories.UpdateFile(ctx, repo.Owner, repo.Name, path, opts)
	}
	if err != nil {
		return ContentUpdate{}, err
	}

	return ContentUpdate{
		CommitSHA:  resp.Commit.GetSHA(),
		ContentSHA: resp.Content.GetSHA(),
	}, nil
}

// ListCommits returns up to limit commits of a branch, newest first,
// optionally filtered to commits touching path.
func (c *Client) ListCommits(ctx context.Context, repo RepoRef, branch, path string, limit int) ([]CommitInfo, error) {
	commits, _, err := c.gh.Repositories.ListCommits(ctx, repo.Owner, repo.Name, &github.CommitsListOptions{
		SHA:         branch,
		Path:        path,
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, err
	}

	infos := make([]CommitInfo, 0, len(commits))
	for _, rc := range commits {
		info := CommitInfo{SHA: rc.GetSHA()}
		if commit := rc.GetCommit(); commit != nil {
			info.Message = commit.GetMessage()
			if author := commit.GetAuthor(); author != nil {
				info.Author = author.GetName()
				if author.Date != nil {
					info.Date = *author.Date
				}
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ListBranches returns the repository's branch names.
func (c *Client) ListBranches(ctx context.Context, repo RepoRef) ([]string, error) {
	branches, _, err := c.gh.Repositories.ListBranches(ctx, repo.Owner, repo.Name, &github.BranchListOptions{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.GetName())
	}
	return names, nil
}

// CreateRelease creates a release object targeting a branch.
func (c *Client) CreateRelease(ctx context.Context, repo RepoRef, tag, name, body, targetBranch string) (Release, error) {
	release, _, err := c.gh.Repositories.CreateRelease(ctx, repo.Owner, repo.Name, &github.RepositoryRelease{
		TagName:         github.String(tag),
		Name:            github.String(name),
		Body:            github.String(body),
		TargetCommitish: github.String(targetBranch),
	})
	if err != nil {
		return Release{}, err
	}
	return toRelease(release), nil
}

// ListReleases returns up to limit releases, newest first.
func (c *Client) ListReleases(ctx context.Context, repo RepoRef, limit int) ([]Release, error) {
	releases, _, err := c.gh.Repositories.ListReleases(ctx, repo.Owner, repo.Name, &github.ListOptions{PerPage: limit})
	if err != nil {
		return nil, err
	}

	out := make([]Release, 0, len(releases))
	for _, r := range releases {
		out = append(out, toRelease(r))
	}
	return out, nil
}

// UploadReleaseAsset attaches an in-memory payload to a release as a named
// binary asset. go-github's own upload helper insists on an *os.File, so
// the request is built directly against the upload endpoint.
func (c *Client) UploadReleaseAsset(ctx context.Context, repo RepoRef, releaseID int64, name, contentType string, content []byte) error {
	u := fmt.Sprintf("repos/%s/%s/releases/%d/assets?name=%s",
		repo.Owner, repo.Name, releaseID, url.QueryEscape(name))

	req, err := c.gh.NewUploadRequest(u, bytes.NewReader(content), int64(len(content)), contentType)
	if err != nil {
		return err
	}

	asset := new(github.ReleaseAsset)
	_, err = c.gh.Do(ctx, req, asset)
	return err
}

// CreateFork forks a repository into the authenticated user's namespace.
// The provider completes forks asynchronously; Pending is true when the
// fork was accepted but may not exist yet.
func (c *Client) CreateFork(ctx context.Context, repo RepoRef) (ForkResult, error) {
	fork, _, err := c.gh.Repositories.CreateFork(ctx, repo.Owner, repo.Name, &github.RepositoryCreateForkOptions{})
	if err != nil {
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			return ForkResult{}, err
		}
		// 202: the fork is being created in the background and the
		// descriptor only exists in the raw response body.
		pending := new(github.Repository)
		_ = json.Unmarshal(accepted.Raw, pending)
		return ForkResult{
			Owner:   pending.GetOwner().GetLogin(),
			Name:    pending.GetName(),
			Pending: true,
			HTMLURL: pending.GetHTMLURL(),
		}, nil
	}

	return ForkResult{
		Owner:   fork.GetOwner().GetLogin(),
		Name:    fork.GetName(),
		HTMLURL: fork.GetHTMLURL(),
	}, nil
}

// CreatePullRequest opens a pull request against upstream. head must be
// qualified ("owner:branch") when it lives in a fork.
func (c *Client) CreatePullRequest(ctx context.Context, upstream RepoRef, title, head, base, body string) (PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Create(ctx, upstream.Owner, upstream.Name, &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(head),
		Base:  github.String(base),
		Body:  github.String(body),
	})
	if err != nil {
		return PullRequest{}, err
	}
	return PullRequest{Number: pr.GetNumber(), HTMLURL: pr.GetHTMLURL()}, nil
}

// AuthenticatedLogin returns the login of the token's user.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}

func toRelease(r *github.RepositoryRelease) Release {
	return Release{
		ID:      r.GetID(),
		TagName: r.GetTagName(),
		Name:    r.GetName(),
		Body:    r.GetBody(),
		HTMLURL: r.GetHTMLURL(),
	}
}
