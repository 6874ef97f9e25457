package characters

import (
	"net/http"

	"github.com/gomantics/cardvault/api/web"
	"go.uber.org/zap"
)

// ForkRequest is the request body for forking a character repository
type ForkRequest struct {
	RepoURL string `json:"repo_url"`
}

// ForkResponse is the response for a fork
type ForkResponse struct {
	Owner   string `json:"owner"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Pending bool   `json:"pending"`
}

// Fork handles POST /v1/characters/fork. The provider forks
// asynchronously; a pending response means the caller must re-check
// before using the fork.
func Fork(c web.Context) error {
	var req ForkRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}
	if req.RepoURL == "" {
		return c.BadRequest("repo_url is required")
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	fork, err := svc.Fork(ctx, req.RepoURL)
	if err != nil {
		c.L.Error("fork failed", zap.String("repo", req.RepoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	resp := ForkResponse{
		Owner:   fork.Owner,
		Name:    fork.Name,
		URL:     fork.HTMLURL,
		Pending: fork.Pending,
	}
	if fork.Pending {
		return c.JSON(http.StatusAccepted, resp)
	}
	return c.Created(resp)
}
