package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/queue"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/graph"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/leaselock"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader/doc"
	ioloader "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader/io"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader/pdf"
	s3loader "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader/s3"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader/web"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger/console"
	spgx "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Format: util.GetEnvString("LOG_FORMAT", "text"),
	})
	logger.Init(consoleLogger)

	// GraphAiClient
	aiClient, err := util.NewAIClientFromEnv()
	if err != nil {
		logger.Fatal("Could not create AI client", "err", err)
	}

	// Init pgx client
	poolConfig, err := pgxpool.ParseConfig(util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Invalid database url", "err", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pgConn, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	// Document source
	newLoader := documentLoader(ctx)

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ExtractQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	processor := queue.NewProcessor(queue.NewProcessorParams{
		Storage: spgx.NewGraphDBStorage(pgdb.NewStore(pgConn), aiClient),
		Extractor: graph.NewGraphClient(graph.NewGraphClientParams{
			AIClient:       aiClient,
			MaxChunkChars:  util.GetEnvInt("KG_MAX_CHUNK_CHARS", 3000),
			ModelTimeout:   util.GetEnvDuration("KG_MODEL_TIMEOUT", 120*time.Second),
			MaxRetries:     util.GetEnvInt("KG_MODEL_RETRIES", 2),
			ParallelChunks: util.GetEnvInt("KG_CHUNK_PARALLEL", 4),
		}),
		Locker:    leaselock.New(pgConn),
		NewLoader: newLoader,
		Events:    ch,
		AIClient:  aiClient,
	})

	// Prefetch 1: one extraction at a time per worker process
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.ExtractQueue,
		queue.ExtractQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ExtractQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.ExtractQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.ExtractQueue)
				return
			}

			startTime := time.Now()
			logger.Info("Received message", "queue", queue.ExtractQueue, "retries", queue.Retries(msg))

			if err := processor.ProcessExtractMessage(ctx, msg.Body); err != nil {
				logger.Error("Error processing message", "queue", queue.ExtractQueue, "err", err)
				queue.HandleFailure(consumerCh, msg, queue.ExtractQueue, err)
			} else {
				if err := msg.Ack(false); err != nil {
					logger.Error("Failed to ack message", "err", err)
				}
				logger.Info("Message processed successfully", "queue", queue.ExtractQueue)
			}

			logMetrics(aiClient.GetMetrics(), time.Since(startTime))
			aiClient.ResetMetrics()
			logger.Info("Waiting for next message")
		}
	}
}

// documentLoader picks the object source (S3 when S3_BUCKET is set, a local
// directory otherwise) and returns a factory for the per-message loader chain.
// Loaders cache what they read, so a fresh chain per message bounds memory.
func documentLoader(ctx context.Context) func() loader.FileLoader {
	var newRaw func() loader.FileLoader
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if bucket := util.GetEnvString("S3_BUCKET", ""); bucket != "" {
		client, err := s3loader.NewS3Client(ctx, s3loader.NewS3ClientParams{
			Endpoint:     util.GetEnvString("S3_ENDPOINT", ""),
			Region:       util.GetEnvString("S3_REGION", "us-east-1"),
			AccessKey:    util.GetEnvString("S3_ACCESS_KEY", ""),
			SecretKey:    util.GetEnvString("S3_SECRET_KEY", ""),
			UsePathStyle: util.GetEnvBool("S3_USE_PATH_STYLE", true),
		})
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		newRaw = func() loader.FileLoader { return s3loader.NewS3FileLoaderWithClient(bucket, client) }
		logger.Info("Loading documents from S3", "bucket", bucket)
	} else if dir := util.GetEnvString("DOCUMENTS_DIR", ""); dir != "" {
		newRaw = func() loader.FileLoader { return ioloader.NewIOFileLoader(dir) }
		logger.Info("Loading documents from directory", "dir", dir)
	} else {
		logger.Warn("Neither S3_BUCKET nor DOCUMENTS_DIR is set, only inline content can be extracted")
		return nil
	}

	return func() loader.FileLoader {
		raw := newRaw()
		return loader.NewKindLoader(raw, map[loader.FileKind]loader.FileLoader{
			loader.FileKindHTML: web.NewHTMLLoader(raw),
			loader.FileKindDocx: doc.NewDocxLoader(raw),
			loader.FileKindPDF:  pdf.NewPDFLoader(raw),
			loader.FileKindURL:  web.NewURLLoader(httpClient),
		})
	}
}

func logMetrics(metrics ai.ModelMetrics, elapsed time.Duration) {
	aiDuration := time.Duration(metrics.DurationMs) * time.Millisecond
	logger.Info(
		"AI Metrics",
		"requests", metrics.Requests,
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
		"duration", clock(aiDuration),
	)
	logger.Info("Processing time", "duration", clock(elapsed))
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
