package characters

import (
	"errors"
	"net/http"

	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/domains/characters"
	"github.com/gomantics/cardvault/domains/vcs"
	"go.uber.org/zap"
)

// ReleaseRequest is the request body for publishing a release
type ReleaseRequest struct {
	RepoURL string `json:"repo_url"`
	Version string `json:"version"`
	Title   string `json:"title,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// ReleaseResponse is the response for publishing a release
type ReleaseResponse struct {
	Tag          string   `json:"tag"`
	URL          string   `json:"url"`
	Uploaded     []string `json:"uploaded,omitempty"`
	FailedAssets []string `json:"failed_assets,omitempty"`
}

// Release handles POST /v1/characters/release. Asset uploads are not
// transactional with release creation; a partial outcome is reported as
// 207 with the failed asset names, never hidden.
func Release(c web.Context) error {
	var req ReleaseRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}
	if req.RepoURL == "" {
		return c.BadRequest("repo_url is required")
	}
	if req.Version == "" {
		return c.BadRequest("version is required")
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	release, err := svc.Publish(ctx, characters.PublishParams{
		RepoURL: req.RepoURL,
		Version: req.Version,
		Title:   req.Title,
		Notes:   req.Notes,
		Branch:  req.Branch,
	})

	var partial *vcs.PartialPublishError
	if errors.As(err, &partial) {
		failed := make([]string, 0, len(partial.Failed))
		for _, f := range partial.Failed {
			failed = append(failed, f.Name)
		}
		c.L.Warn("release published partially",
			zap.String("repo", req.RepoURL),
			zap.String("tag", partial.Release.TagName),
			zap.Strings("failed_assets", failed),
		)
		return c.JSON(http.StatusMultiStatus, ReleaseResponse{
			Tag:          partial.Release.TagName,
			URL:          partial.Release.HTMLURL,
			Uploaded:     partial.Uploaded,
			FailedAssets: failed,
		})
	}
	if err != nil {
		c.L.Error("release failed", zap.String("repo", req.RepoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	c.L.Info("release published",
		zap.String("repo", req.RepoURL),
		zap.String("tag", release.TagName),
	)

	return c.Created(ReleaseResponse{Tag: release.TagName, URL: release.HTMLURL})
}
