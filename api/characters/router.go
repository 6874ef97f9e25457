package characters

import (
	"github.com/gomantics/cardvault/api/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func Configure(e *echo.Echo, l *zap.Logger) {
	e.POST("/v1/characters/init", web.Wrap(Init, l))
	e.POST("/v1/characters/save", web.Wrap(Save, l))
	e.POST("/v1/characters/sync", web.Wrap(Sync, l))
	e.GET("/v1/characters", web.Wrap(Get, l))
	e.GET("/v1/characters/history", web.Wrap(History, l))
	e.GET("/v1/characters/branches", web.Wrap(Branches, l))
	e.GET("/v1/characters/releases", web.Wrap(Releases, l))
	e.GET("/v1/characters/diff", web.Wrap(Diff, l))
	e.POST("/v1/characters/revert", web.Wrap(Revert, l))
	e.POST("/v1/characters/release", web.Wrap(Release, l))
	e.POST("/v1/characters/fork", web.Wrap(Fork, l))
	e.POST("/v1/characters/pull-request", web.Wrap(PullRequest, l))
	e.GET("/v1/characters/export", web.Wrap(Export, l))
	e.POST("/v1/characters/import", web.Wrap(Import, l))
}
