package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/queue"
	mid "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/server/middleware"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	qpgx "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query/pgx"
	spgx "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// NewValidator returns the request validator with the closed type sets
// registered as the entity_type and relationship_type tags.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("entity_type", func(fl validator.FieldLevel) bool {
		return common.IsEntityType(fl.Field().String())
	})
	_ = v.RegisterValidation("relationship_type", func(fl validator.FieldLevel) bool {
		return common.IsRelationshipType(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// New builds the echo instance serving app.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("10M"))

	RegisterRoutes(e)
	return e
}

// Migrate applies all pending migrations from sourceURL.
func Migrate(sourceURL, databaseURL string) error {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func Init(aiClient ai.GraphAIClient) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	if err := Migrate(util.GetEnvString("MIGRATIONS_PATH", "file://migrations"), databaseURL); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.Fatal("Invalid database url", "err", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	conn, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ExtractQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	app := &mid.App{
		Query:   qpgx.NewGraphQueryService(pgdb.New(conn), aiClient),
		Storage: spgx.NewGraphDBStorage(pgdb.NewStore(conn), aiClient),
		Queue:   ch,

		MasterAPIKey:   util.GetEnvString("MASTER_API_KEY", ""),
		MasterUserID:   int64(util.GetEnvInt("MASTER_USER_ID", 0)),
		MasterUserRole: util.GetEnvString("MASTER_USER_ROLE", ""),
	}

	if authURL := util.GetEnvString("AUTH_URL", ""); authURL != "" {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		app.Keyfunc = k.Keyfunc
	} else {
		logger.Warn("AUTH_URL is not set, only the master API key is accepted")
	}

	e := New(app)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
