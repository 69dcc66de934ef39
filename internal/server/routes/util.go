package routes

import (
	"net/http"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/server/middleware"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func app(c echo.Context) *middleware.App {
	return c.(*middleware.AppContext).App
}

// bindParams binds path, query and body values into params and validates
// them. It writes the 400 response itself and reports whether the handler
// should continue.
func bindParams(c echo.Context, params any) (bool, error) {
	if err := c.Bind(params); err != nil {
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params: " + err.Error()})
	}
	return true, nil
}

func internalError(c echo.Context, msg string, err error) error {
	logger.Error(msg, "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": msg})
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
