// Package vcstest provides an in-memory object-store host for testing the
// synchronization core without a provider. It models the provider's
// content-addressed object graph (blobs, trees, commits, refs) and its
// observable failure statuses.
package vcstest

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gomantics/cardvault/libs/githost"
	"github.com/google/go-github/v48/github"
)

type commitObject struct {
	TreeSHA string
	Parent  string
	Message string
	Date    time.Time
}

// Host is an in-memory vcs.Host. The zero value is not usable; construct
// with NewHost or NewEmptyHost.
type Host struct {
	mu sync.Mutex

	blobs    map[string][]byte
	trees    map[string]map[string]string
	commits  map[string]commitObject
	branches map[string]string

	defaultBranch string
	empty         bool
	clock         time.Time

	releases     []githost.Release
	assets       map[string][]string // release tag -> uploaded asset names
	pullRequests []string

	// FailUpload makes UploadReleaseAsset fail for the named assets.
	FailUpload map[string]bool

	// Fork is returned by CreateFork.
	Fork githost.ForkResult

	// CommitFiles overrides GetCommitFiles per commit SHA when set.
	CommitFiles map[string][]githost.CommitFile

	// BeforeRefUpdate runs inside UpdateBranchHead before the
	// fast-forward check, letting tests race the branch.
	BeforeRefUpdate func()

	// BeforeContentWrite runs inside CreateOrUpdateFile before the SHA
	// check, letting tests stale out a synchronizer write.
	BeforeContentWrite func()

	// Events records every mutation in order ("blob", "tree", "commit",
	// "ref:<sha>", "file:<path>").
	Events []string
}

// NewEmptyHost returns a host for a repository with no commits yet.
func NewEmptyHost(defaultBranch string) *Host {
	return &Host{
		blobs:       map[string][]byte{},
		trees:       map[string]map[string]string{},
		commits:     map[string]commitObject{},
		branches:    map[string]string{},
		assets:      map[string][]string{},
		FailUpload:  map[string]bool{},
		CommitFiles: map[string][]githost.CommitFile{},

		defaultBranch: defaultBranch,
		empty:         true,
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewHost returns a host whose default branch has one seed commit
// containing the given files.
func NewHost(defaultBranch string, files map[string][]byte) *Host {
	h := NewEmptyHost(defaultBranch)
	h.empty = false

	tree := map[string]string{}
	for path, content := range files {
		sha := h.putBlob(content)
		tree[path] = sha
	}
	treeSHA := h.putTree(tree)
	commitSHA := h.putCommit("seed", treeSHA, "")
	h.branches[defaultBranch] = commitSHA
	h.Events = nil
	return h
}

// Head returns the current head SHA of a branch, or "".
func (h *Host) Head(branch string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.branches[branch]
}

// FileAt returns a file's bytes at a branch head or commit SHA.
func (h *Host) FileAt(ref, path string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fileAt(ref, path)
}

// TreeOf returns the path->blob mapping of a commit's tree.
func (h *Host) TreeOf(commitSHA string) map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := map[string]string{}
	for p, s := range h.trees[h.commits[commitSHA].TreeSHA] {
		out[p] = s
	}
	return out
}

// Message returns a commit's message.
func (h *Host) Message(commitSHA string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commits[commitSHA].Message
}

// Assets returns the uploaded asset names for a release tag.
func (h *Host) Assets(tag string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.assets[tag]
}

func statusErr(code int) error {
	return &github.ErrorResponse{Response: &http.Response{StatusCode: code}}
}

func (h *Host) putBlob(content []byte) string {
	sum := sha1.Sum(append([]byte("blob"), content...))
	sha := hex.EncodeToString(sum[:])
	h.blobs[sha] = content
	h.Events = append(h.Events, "blob")
	return sha
}

func (h *Host) putTree(entries map[string]string) string {
	payload := []byte("tree")
	for p, s := range entries {
		payload = append(payload, []byte(p+s)...)
	}
	sum := sha1.Sum(payload)
	sha := hex.EncodeToString(sum[:])
	h.trees[sha] = entries
	h.Events = append(h.Events, "tree")
	return sha
}

func (h *Host) putCommit(message, treeSHA, parent string) string {
	h.clock = h.clock.Add(time.Minute)
	sum := sha1.Sum([]byte(message + treeSHA + parent + h.clock.String()))
	sha := hex.EncodeToString(sum[:])
	h.commits[sha] = commitObject{TreeSHA: treeSHA, Parent: parent, Message: message, Date: h.clock}
	h.Events = append(h.Events, "commit")
	return sha
}

func (h *Host) resolve(ref string) (string, bool) {
	if sha, ok := h.branches[ref]; ok {
		return sha, true
	}
	_, ok := h.commits[ref]
	return ref, ok
}

func (h *Host) fileAt(ref, path string) ([]byte, bool) {
	commitSHA, ok := h.resolve(ref)
	if !ok {
		return nil, false
	}
	blobSHA, ok := h.trees[h.commits[commitSHA].TreeSHA][path]
	if !ok {
		return nil, false
	}
	return h.blobs[blobSHA], true
}

func (h *Host) CreateBlob(_ context.Context, _ githost.RepoRef, content, encoding string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	raw := []byte(content)
	if encoding == githost.EncodingBase64 {
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return "", statusErr(http.StatusUnprocessableEntity)
		}
		raw = decoded
	}
	return h.putBlob(raw), nil
}

func (h *Host) CreateTree(_ context.Context, _ githost.RepoRef, baseTreeSHA string, entries []githost.TreeEntry) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	base, ok := h.trees[baseTreeSHA]
	if !ok {
		return "", statusErr(http.StatusNotFound)
	}
	merged := map[string]string{}
	for p, s := range base {
		merged[p] = s
	}
	for _, e := range entries {
		if _, ok := h.blobs[e.SHA]; !ok {
			return "", statusErr(http.StatusNotFound)
		}
		merged[e.Path] = e.SHA
	}
	return h.putTree(merged), nil
}

func (h *Host) CreateCommit(_ context.Context, _ githost.RepoRef, message, treeSHA string, parentSHAs []string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.trees[treeSHA]; !ok {
		return "", statusErr(http.StatusNotFound)
	}
	parent := ""
	if len(parentSHAs) > 0 {
		parent = parentSHAs[0]
		if _, ok := h.commits[parent]; !ok {
			return "", statusErr(http.StatusNotFound)
		}
	}
	return h.putCommit(message, treeSHA, parent), nil
}

func (h *Host) GetBranchHead(_ context.Context, _ githost.RepoRef, branch string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.empty {
		return "", statusErr(http.StatusConflict)
	}
	sha, ok := h.branches[branch]
	if !ok {
		return "", statusErr(http.StatusNotFound)
	}
	return sha, nil
}

func (h *Host) CreateBranch(_ context.Context, _ githost.RepoRef, branch, sha string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.branches[branch]; exists {
		return &github.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusUnprocessableEntity},
			Message:  "Reference already exists",
		}
	}
	if _, ok := h.commits[sha]; !ok {
		return statusErr(http.StatusNotFound)
	}
	h.branches[branch] = sha
	h.Events = append(h.Events, "ref:"+sha)
	return nil
}

func (h *Host) UpdateBranchHead(_ context.Context, _ githost.RepoRef, branch, sha string, force bool) error {
	if h.BeforeRefUpdate != nil {
		hook := h.BeforeRefUpdate
		h.BeforeRefUpdate = nil
		hook()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	head, ok := h.branches[branch]
	if !ok {
		return statusErr(http.StatusNotFound)
	}
	commit, ok := h.commits[sha]
	if !ok {
		return statusErr(http.StatusNotFound)
	}
	if !force && commit.Parent != head {
		return statusErr(http.StatusUnprocessableEntity)
	}
	h.branches[branch] = sha
	h.Events = append(h.Events, "ref:"+sha)
	return nil
}

func (h *Host) GetDefaultBranch(_ context.Context, _ githost.RepoRef) (string, error) {
	return h.defaultBranch, nil
}

func (h *Host) GetCommitTree(_ context.Context, _ githost.RepoRef, sha string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	commit, ok := h.commits[sha]
	if !ok {
		return "", statusErr(http.StatusNotFound)
	}
	return commit.TreeSHA, nil
}

func (h *Host) GetCommitFiles(_ context.Context, _ githost.RepoRef, sha string) ([]githost.CommitFile, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if files, ok := h.CommitFiles[sha]; ok {
		return files, nil
	}
	commit, ok := h.commits[sha]
	if !ok {
		return nil, statusErr(http.StatusNotFound)
	}

	parentTree := map[string]string{}
	if commit.Parent != "" {
		parentTree = h.trees[h.commits[commit.Parent].TreeSHA]
	}
	var files []githost.CommitFile
	for path, blobSHA := range h.trees[commit.TreeSHA] {
		if parentTree[path] != blobSHA {
			files = append(files, githost.CommitFile{Filename: path})
		}
	}
	return files, nil
}

func (h *Host) GetContents(_ context.Context, _ githost.RepoRef, path, ref string) (githost.FileContent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	commitSHA, ok := h.resolve(ref)
	if !ok {
		return githost.FileContent{}, nil
	}
	blobSHA, ok := h.trees[h.commits[commitSHA].TreeSHA][path]
	if !ok {
		return githost.FileContent{}, nil
	}
	return githost.FileContent{Content: h.blobs[blobSHA], SHA: blobSHA, Found: true}, nil
}

func (h *Host) CreateOrUpdateFile(_ context.Context, _ githost.RepoRef, branch, path string, content []byte, message, sha string) (githost.ContentUpdate, error) {
	if h.BeforeContentWrite != nil {
		hook := h.BeforeContentWrite
		h.BeforeContentWrite = nil
		hook()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.empty {
		// The one case the contents API accepts a write to a branch
		// with no ref: it creates the branch and first commit at once.
		blobSHA := h.putBlob(content)
		treeSHA := h.putTree(map[string]string{path: blobSHA})
		commitSHA := h.putCommit(message, treeSHA, "")
		h.branches[branch] = commitSHA
		h.empty = false
		h.Events = append(h.Events, "file:"+path)
		return githost.ContentUpdate{CommitSHA: commitSHA, ContentSHA: blobSHA}, nil
	}

	head, ok := h.branches[branch]
	if !ok {
		return githost.ContentUpdate{}, statusErr(http.StatusNotFound)
	}

	tree := h.trees[h.commits[head].TreeSHA]
	current := tree[path]
	if sha != current {
		return githost.ContentUpdate{}, statusErr(http.StatusConflict)
	}

	merged := map[string]string{}
	for p, s := range tree {
		merged[p] = s
	}
	blobSHA := h.putBlob(content)
	merged[path] = blobSHA
	treeSHA := h.putTree(merged)
	commitSHA := h.putCommit(message, treeSHA, head)
	h.branches[branch] = commitSHA
	h.Events = append(h.Events, "file:"+path)
	return githost.ContentUpdate{CommitSHA: commitSHA, ContentSHA: blobSHA}, nil
}

func (h *Host) ListCommits(_ context.Context, _ githost.RepoRef, branch, path string, limit int) ([]githost.CommitInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	head, ok := h.branches[branch]
	if !ok {
		return nil, statusErr(http.StatusNotFound)
	}

	var out []githost.CommitInfo
	for sha := head; sha != "" && len(out) < limit; {
		commit := h.commits[sha]
		include := true
		if path != "" {
			parentTree := map[string]string{}
			if commit.Parent != "" {
				parentTree = h.trees[h.commits[commit.Parent].TreeSHA]
			}
			include = h.trees[commit.TreeSHA][path] != parentTree[path]
		}
		if include {
			out = append(out, githost.CommitInfo{
				SHA:     sha,
				Author:  "tester",
				Date:    commit.Date,
				Message: commit.Message,
			})
		}
		sha = commit.Parent
	}
	return out, nil
}

func (h *Host) ListBranches(_ context.Context, _ githost.RepoRef) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.branches))
	for name := range h.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (h *Host) ListReleases(_ context.Context, _ githost.RepoRef, limit int) ([]githost.Release, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []githost.Release
	for i := len(h.releases) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.releases[i])
	}
	return out, nil
}

func (h *Host) CreateRelease(_ context.Context, _ githost.RepoRef, tag, name, body, targetBranch string) (githost.Release, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.branches[targetBranch]; !ok {
		return githost.Release{}, statusErr(http.StatusUnprocessableEntity)
	}
	release := githost.Release{
		ID:      int64(len(h.releases) + 1),
		TagName: tag,
		Name:    name,
		Body:    body,
		HTMLURL: fmt.Sprintf("https://example.test/releases/%s", tag),
	}
	h.releases = append(h.releases, release)
	return release, nil
}

func (h *Host) UploadReleaseAsset(_ context.Context, _ githost.RepoRef, releaseID int64, name, contentType string, content []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.FailUpload[name] {
		return statusErr(http.StatusBadGateway)
	}
	for _, r := range h.releases {
		if r.ID == releaseID {
			h.assets[r.TagName] = append(h.assets[r.TagName], name)
			return nil
		}
	}
	return statusErr(http.StatusNotFound)
}

func (h *Host) CreateFork(_ context.Context, _ githost.RepoRef) (githost.ForkResult, error) {
	return h.Fork, nil
}

func (h *Host) CreatePullRequest(_ context.Context, _ githost.RepoRef, title, head, base, body string) (githost.PullRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pullRequests = append(h.pullRequests, head+"->"+base+": "+title)
	return githost.PullRequest{
		Number:  len(h.pullRequests),
		HTMLURL: fmt.Sprintf("https://example.test/pulls/%d", len(h.pullRequests)),
	}, nil
}
