package sessions

import (
	"errors"

	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/domains/sessions"
	"github.com/gomantics/cardvault/libs/githost"
	"go.uber.org/zap"
)

// CreateRequest is the request body for opening a session
type CreateRequest struct {
	Token    string `json:"token"`
	Provider string `json:"provider,omitempty"`
}

// CreateResponse is the response for opening a session
type CreateResponse struct {
	ID   string `json:"id"`
	User string `json:"user"`
}

// Create handles POST /v1/sessions. The token is verified against the
// provider before anything is stored, so a session always maps to a
// working login.
func Create(c web.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.BadRequest("invalid request body")
	}

	if req.Token == "" {
		return c.BadRequest("token is required")
	}

	ctx := c.Request().Context()

	login, err := githost.NewClient(ctx, req.Token).AuthenticatedLogin(ctx)
	if err != nil {
		c.L.Warn("token verification failed", zap.Error(err))
		return c.Unauthorized("token was rejected by the provider")
	}

	session, err := sessions.Create(ctx, sessions.CreateParams{
		User:     login,
		Provider: req.Provider,
		Token:    req.Token,
	})
	if err != nil {
		c.L.Error("failed to create session", zap.Error(err))
		return c.InternalError("failed to create session")
	}

	c.L.Info("session created", zap.String("user", login))

	return c.Created(CreateResponse{ID: session.ID, User: session.User})
}

// Delete handles DELETE /v1/sessions/:id (logout)
func Delete(c web.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.BadRequest("session id is required")
	}

	ctx := c.Request().Context()

	if err := sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return c.NotFound("session not found")
		}
		c.L.Error("failed to delete session", zap.Error(err))
		return c.InternalError("failed to delete session")
	}

	return c.NoContent()
}
