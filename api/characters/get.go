package characters

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gomantics/cardvault/api/web"
	"go.uber.org/zap"
)

// GetResponse carries the current artifacts on a branch. The image is
// base64-encoded and omitted when the repository has none.
type GetResponse struct {
	Document    json.RawMessage `json:"document"`
	ImageBase64 string          `json:"image_base64,omitempty"`
}

// Get handles GET /v1/characters
func Get(c web.Context) error {
	repoURL := c.QueryParam("repo_url")
	if repoURL == "" {
		return c.BadRequest("repo_url is required")
	}
	branch := c.QueryParam("branch")

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	type snapshot struct{ doc, img []byte }
	result, err := withReadRetry(ctx, func() (snapshot, error) {
		doc, img, err := svc.Get(ctx, repoURL, branch)
		return snapshot{doc, img}, err
	})
	if err != nil {
		c.L.Error("get failed", zap.String("repo", repoURL), zap.Error(err))
		return vcsFailure(c, err)
	}
	if result.doc == nil {
		return c.NotFound("no character document on this branch")
	}

	resp := GetResponse{Document: result.doc}
	if len(result.img) > 0 {
		resp.ImageBase64 = base64.StdEncoding.EncodeToString(result.img)
	}
	return c.OK(resp)
}
