package characters

import (
	"encoding/json"

	"github.com/gomantics/cardvault/api/web"
	"go.uber.org/zap"
)

// SyncRequest is the request body for a single-document sync
type SyncRequest struct {
	RepoURL  string          `json:"repo_url"`
	Branch   string          `json:"branch,omitempty"`
	Message  string          `json:"message,omitempty"`
	Document json.RawMessage `json:"document"`
}

// SyncResponse is the response for a single-document sync
type SyncResponse struct {
	CommitSHA  string `json:"commit_sha"`
	ContentSHA string `json:"content_sha"`
	Created    bool   `json:"created"`
}

// Sync handles POST /v1/characters/sync
func Sync(c web.Context) error {
	var req SyncRequest
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

	result, err := svc.SyncDocument(ctx, req.RepoURL, req.Branch, req.Document, req.Message)
	if err != nil {
		c.L.Error("sync failed", zap.String("repo", req.RepoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	return c.OK(SyncResponse{
		CommitSHA:  result.CommitSHA,
		ContentSHA: result.ContentSHA,
		Created:    result.Created,
	})
}
