package characters

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/domains/vcs"
	"go.uber.org/zap"
)

// DiffResponse is the response for a per-commit file patch
type DiffResponse struct {
	Patch     string `json:"patch"`
	HasChange bool   `json:"has_change"`
}

// Diff handles GET /v1/characters/diff
func Diff(c web.Context) error {
	repoURL := c.QueryParam("repo_url")
	if repoURL == "" {
		return c.BadRequest("repo_url is required")
	}
	sha := c.QueryParam("sha")
	if !plumbing.IsHash(sha) {
		return c.BadRequest("sha must be a full commit hash")
	}
	path := c.QueryParam("path")

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	patch, err := withReadRetry(ctx, func() (string, error) {
		return svc.Diff(ctx, repoURL, sha, path)
	})
	if errors.Is(err, vcs.ErrNoPatch) {
		return c.OK(DiffResponse{HasChange: false})
	}
	if err != nil {
		c.L.Error("diff failed", zap.String("repo", repoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	return c.OK(DiffResponse{Patch: patch, HasChange: true})
}
