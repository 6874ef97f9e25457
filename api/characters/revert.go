package characters

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/gomantics/cardvault/api/web"
	"go.uber.org/zap"
)

// RevertRequest is the request body for a rollback
type RevertRequest struct {
	RepoURL string `json:"repo_url"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha"`
}

// RevertResponse is the response for a rollback
type RevertResponse struct {
	CommitSHA string   `json:"commit_sha"`
	Restored  []string `json:"restored"`
}

// Revert handles POST /v1/characters/revert. The rollback is a forward
// commit; branch history is never rewritten.
func Revert(c web.Context) error {
	var req RevertRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}
	if req.RepoURL == "" {
		return c.BadRequest("repo_url is required")
	}
	if !plumbing.IsHash(req.SHA) {
		return c.BadRequest("sha must be a full commit hash")
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	result, err := svc.Revert(ctx, req.RepoURL, req.Branch, req.SHA)
	if err != nil {
		c.L.Error("revert failed",
			zap.String("repo", req.RepoURL),
			zap.String("target", req.SHA),
			zap.Error(err),
		)
		return vcsFailure(c, err)
	}

	restored := make([]string, 0, len(result.Restored))
	for path := range result.Restored {
		restored = append(restored, path)
	}

	c.L.Info("character reverted",
		zap.String("repo", req.RepoURL),
		zap.String("target", req.SHA),
		zap.String("commit", result.Commit.SHA),
	)

	return c.OK(RevertResponse{CommitSHA: result.Commit.SHA, Restored: restored})
}
