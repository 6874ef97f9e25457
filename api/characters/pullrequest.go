package characters

import (
	"github.com/gomantics/cardvault/api/web"
	"go.uber.org/zap"
)

// PullRequestRequest is the request body for proposing changes upstream
type PullRequestRequest struct {
	RepoURL string `json:"repo_url"`
	Head    string `json:"head"`
	Base    string `json:"base,omitempty"`
	Title   string `json:"title"`
	Body    string `json:"body,omitempty"`
}

// PullRequestResponse is the response for an opened pull request
type PullRequestResponse struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// PullRequest handles POST /v1/characters/pull-request. head uses the
// qualified "owner:branch" form when the branch lives in a fork.
func PullRequest(c web.Context) error {
	var req PullRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}
	if req.RepoURL == "" {
		return c.BadRequest("repo_url is required")
	}
	if req.Head == "" {
		return c.BadRequest("head is required")
	}
	if req.Title == "" {
		return c.BadRequest("title is required")
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	pr, err := svc.OpenPullRequest(ctx, req.RepoURL, req.Head, req.Base, req.Title, req.Body)
	if err != nil {
		c.L.Error("pull request failed", zap.String("repo", req.RepoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	c.L.Info("pull request opened",
		zap.String("repo", req.RepoURL),
		zap.Int("number", pr.Number),
	)

	return c.Created(PullRequestResponse{Number: pr.Number, URL: pr.HTMLURL})
}
