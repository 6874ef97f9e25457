package health

import (
	"github.com/gomantics/cardvault/api/web"
	"github.com/gomantics/cardvault/db"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetResponse is the health check response
type GetResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func Configure(e *echo.Echo, l *zap.Logger) {
	e.GET("/health", web.Wrap(Get, l))
}

// Get handles GET /health
func Get(c web.Context) error {
	ctx := c.Request().Context()

	// Check database
	dbStatus := "ok"
	err := db.GetPool().Ping(ctx)
	if err != nil {
		dbStatus = "error: " + err.Error()
	}

	return c.OK(GetResponse{
		Status:   "ok",
		Database: dbStatus,
	})
}
