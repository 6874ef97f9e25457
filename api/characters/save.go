package characters

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/domains/characters"
	"go.uber.org/zap"
)

// SaveRequest is the request body for an atomic save
type SaveRequest struct {
	RepoURL     string          `json:"repo_url"`
	Branch      string          `json:"branch,omitempty"`
	Message     string          `json:"message,omitempty"`
	Document    json.RawMessage `json:"document"`
	ImageBase64 string          `json:"image_base64,omitempty"`
}

// SaveResponse is the response for an atomic save
type SaveResponse struct {
	CommitSHA string `json:"commit_sha"`
	TreeSHA   string `json:"tree_sha"`
	Parent    string `json:"parent"`
}

// Save handles POST /v1/characters/save. Document and image land in one
// commit; no reader of the branch ever sees one without the other.
func Save(c web.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}
	if req.RepoURL == "" {
		return c.BadRequest("repo_url is required")
	}

	var image []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return c.BadRequest("image_base64 is not valid base64")
		}
		image = decoded
	}

	svc, err := serviceFor(c)
	if err != nil {
		return sessionFailure(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	commit, err := svc.Save(ctx, characters.SaveParams{
		RepoURL:  req.RepoURL,
		Branch:   req.Branch,
		Message:  req.Message,
		Document: req.Document,
		Image:    image,
	})
	if err != nil {
		c.L.Error("save failed", zap.String("repo", req.RepoURL), zap.Error(err))
		return vcsFailure(c, err)
	}

	c.L.Info("character saved",
		zap.String("repo", req.RepoURL),
		zap.String("commit", commit.SHA),
	)

	return c.Created(SaveResponse{
		CommitSHA: commit.SHA,
		TreeSHA:   commit.TreeSHA,
		Parent:    commit.Parent,
	})
}
