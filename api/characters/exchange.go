package characters

import (
	"io"
	"net/http"

	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/libs/artifacts"
	"go.uber.org/zap"
)

// exchangeHeaders picks the caller-supplied cross-service auth headers to
// forward to the artifact exchange service, unmodified.
func exchangeHeaders(c web.Context) http.Header {
	out := http.Header{}
	for _, name := range []string{"Authorization", "Cookie", "X-Exchange-Token"} {
		for _, v := range c.Request().Header.Values(name) {
			out.Add(name, v)
		}
	}
	return out
}

// Export handles GET /v1/characters/export: fetches a binary card
// snapshot from the editor's exchange service and streams it back.
func Export(c web.Context) error {
	avatarID := c.QueryParam("avatar")
	if avatarID == "" {
		return c.BadRequest("avatar is required")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	snapshot, err := artifacts.New().Export(ctx, avatarID, exchangeHeaders(c))
	if err != nil {
		c.L.Error("export failed", zap.String("avatar", avatarID), zap.Error(err))
		return c.BadGateway("artifact exchange failed")
	}

	return c.Blob(http.StatusOK, "image/png", snapshot)
}

// Import handles POST /v1/characters/import: pushes an uploaded card
// snapshot into the editor's exchange service under a preserved name.
func Import(c web.Context) error {
	preservedName := c.QueryParam("preserve")
	if preservedName == "" {
		return c.BadRequest("preserve is required")
	}

	snapshot, err := io.ReadAll(c.Request().Body)
	if err != nil || len(snapshot) == 0 {
		return c.BadRequest("snapshot body is required")
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	descriptor, err := artifacts.New().Import(ctx, snapshot, preservedName, exchangeHeaders(c))
	if err != nil {
		c.L.Error("import failed", zap.String("preserve", preservedName), zap.Error(err))
		return c.BadGateway("artifact exchange failed")
	}

	return c.Blob(http.StatusOK, "application/json", descriptor)
}
