package characters

import (
	"github.com/gomantics/cardvault/api/web"
	"go.uber.org/zap"
)

// InitRequest is the request body for branch initialization
type InitRequest struct {
	RepoURL    string `json:"repo_url"`
	Branch     string `json:"branch,omitempty"`
	BaseBranch string `json:"base_branch,omitempty"`
	Seed       string `json:"seed,omitempty"`
}

// InitResponse is the response for branch initialization
type InitResponse struct {
	Branch       string `json:"branch"`
	HeadSHA      string `json:"head_sha"`
	Bootstrapped bool   `json:"bootstrapped"`
}

// Init handles POST /v1/characters/init
func Init(c web.Context) error {
	var req InitRequest
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

	result, err := svc.Init(ctx, req.RepoURL, req.Branch, req.BaseBranch, []byte(req.Seed))
	if err != nil {
		c.L.Error("init failed", zap.String("repo", req.RepoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	if result.Bootstrapped {
		c.L.Info("repository bootstrapped",
			zap.String("repo", req.RepoURL),
			zap.String("branch", result.Branch),
		)
	}

	return c.OK(InitResponse{
		Branch:       result.Branch,
		HeadSHA:      result.HeadSHA,
		Bootstrapped: result.Bootstrapped,
	})
}
