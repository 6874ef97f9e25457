package sessions

import (
	"github.com/gomantics/cardvault/api/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func Configure(e *echo.Echo, l *zap.Logger) {
	e.POST("/v1/sessions", web.Wrap(Create, l))
	e.DELETE("/v1/sessions/:id", web.Wrap(Delete, l))
}
