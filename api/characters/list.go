package characters

import (
	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/libs/githost"
	"go.uber.org/zap"
)

// BranchesResponse is the response for a branch listing
type BranchesResponse struct {
	Branches []string `json:"branches"`
}

// Branches handles GET /v1/characters/branches
func Branches(c web.Context) error {
	repoURL := c.QueryParam("repo_url")
	if repoURL == "" {
		return c.BadRequest("repo_url is required")
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	branches, err := withReadRetry(ctx, func() ([]string, error) {
		return svc.Branches(ctx, repoURL)
	})
	if err != nil {
		c.L.Error("branch listing failed", zap.String("repo", repoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	return c.OK(BranchesResponse{Branches: branches})
}

// ReleaseEntry is one published version in a release listing
type ReleaseEntry struct {
	Tag   string `json:"tag"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
	URL   string `json:"url"`
}

// ReleasesResponse is the response for a release listing
type ReleasesResponse struct {
	Releases []ReleaseEntry `json:"releases"`
}

// Releases handles GET /v1/characters/releases
func Releases(c web.Context) error {
	repoURL := c.QueryParam("repo_url")
	if repoURL == "" {
		return c.BadRequest("repo_url is required")
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	releases, err := withReadRetry(ctx, func() ([]githost.Release, error) {
		return svc.Releases(ctx, repoURL)
	})
	if err != nil {
		c.L.Error("release listing failed", zap.String("repo", repoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	entries := make([]ReleaseEntry, 0, len(releases))
	for _, r := range releases {
		entries = append(entries, ReleaseEntry{
			Tag:   r.TagName,
			Title: r.Name,
			Notes: r.Body,
			URL:   r.HTMLURL,
		})
	}

	return c.OK(ReleasesResponse{Releases: entries})
}
