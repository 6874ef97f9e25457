package characters

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/config"
	"github.com/gomantics/cardvault/domains/characters"
	"github.com/gomantics/cardvault/domains/sessions"
	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/gomantics/cardvault/libs/githost"
)

var errMissingSession = errors.New("X-Session-ID header is required")

// serviceFor builds a character service bound to the caller's session
// token. Every request gets its own provider client; tokens never live in
// process globals.
func serviceFor(c web.Context) (*characters.Service, error) {
	id := c.Request().Header.Get("X-Session-ID")
	if id == "" {
		return nil, errMissingSession
	}

	ctx := c.Request().Context()
	token, err := sessions.GetToken(ctx, id)
	if err != nil {
		return nil, err
	}

	return characters.New(githost.NewClient(ctx, token)), nil
}

// requestCtx bounds the whole remote operation with the provider timeout.
func requestCtx(c web.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), config.Provider.RequestTimeout())
}

// withReadRetry retries a read-only operation on transport failures with
// bounded exponential backoff. Mutating operations are never retried here:
// a multi-step commit is not idempotent and must be redone from scratch by
// the editor.
func withReadRetry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	op := func() error {
		var err error
		result, err = fn()
		if err == nil {
			return nil
		}
		var te *vcs.TransportError
		if errors.As(err, &te) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	err := backoff.Retry(op, policy)
	return result, err
}

// sessionFailure maps session lookup failures onto responses.
func sessionFailure(c web.Context, err error) error {
	switch {
	case errors.Is(err, errMissingSession):
		return c.Unauthorized(err.Error())
	case errors.Is(err, sessions.ErrNotFound):
		return c.Unauthorized("session expired or unknown")
	default:
		return c.InternalError("failed to resolve session")
	}
}

// vcsFailure maps the versioning error taxonomy onto responses. Invalid
// input and missing refs are actionable for the editor; conflicts tell it
// to re-read and retry; transport failures are the provider's.
func vcsFailure(c web.Context, err error) error {
	var te *vcs.TransportError
	switch {
	case errors.Is(err, githost.ErrInvalidRepoURL),
		errors.Is(err, characters.ErrDocumentRequired):
		return c.BadRequest(err.Error())
	case errors.Is(err, vcs.ErrBranchNotFound),
		errors.Is(err, vcs.ErrBaseBranchNotFound),
		errors.Is(err, vcs.ErrCommitNotFound):
		return c.NotFound(err.Error())
	case errors.Is(err, vcs.ErrRemoteConflict):
		return c.Conflict("remote changed; re-read and retry")
	case errors.As(err, &te):
		return c.BadGateway("provider request failed")
	default:
		return c.InternalError("operation failed")
	}
}
