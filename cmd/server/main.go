package main

import (
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/server"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Format: util.GetEnvString("LOG_FORMAT", "text"),
	})
	logger.Init(consoleLogger)

	// Only used to embed search queries and manually edited entities.
	aiClient, err := util.NewAIClientFromEnv()
	if err != nil {
		logger.Fatal("Could not create AI client", "err", err)
	}

	server.Init(aiClient)
}
