package middleware

import (
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/queue"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

// App holds the process-wide services shared by all handlers.
type App struct {
	Query   query.GraphQueryClient
	Storage store.GraphStorage
	Queue   queue.Channel
	Keyfunc jwt.Keyfunc

	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
