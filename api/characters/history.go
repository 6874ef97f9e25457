package characters

import (
	"time"

	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/libs/githost"
	"go.uber.org/zap"
)

// HistoryEntry is one commit in a history listing
type HistoryEntry struct {
	SHA     string    `json:"sha"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// HistoryResponse is the response for a history listing
type HistoryResponse struct {
	Commits []HistoryEntry `json:"commits"`
}

// History handles GET /v1/characters/history
func History(c web.Context) error {
	repoURL := c.QueryParam("repo_url")
	if repoURL == "" {
		return c.BadRequest("repo_url is required")
	}
	branch := c.QueryParam("branch")
	path := c.QueryParam("path")

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	commits, err := withReadRetry(ctx, func() ([]githost.CommitInfo, error) {
		return svc.History(ctx, repoURL, branch, path)
	})
	if err != nil {
		c.L.Error("history failed", zap.String("repo", repoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	entries := make([]HistoryEntry, 0, len(commits))
	for _, commit := range commits {
		entries = append(entries, HistoryEntry{
			SHA:     commit.SHA,
			Author:  commit.Author,
			Date:    commit.Date,
			Message: commit.Message,
		})
	}

	return c.OK(HistoryResponse{Commits: entries})
}
