package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"embedding-indexer/config"
	"embedding-indexer/consumer"
	"embedding-indexer/driver"
	"embedding-indexer/gateway"
	authmw "embedding-indexer/internal/auth/middleware"
	"embedding-indexer/logger"
	"embedding-indexer/rest"
	"embedding-indexer/usecase"
	appOtel "embedding-indexer/utils/otel"

	"github.com/labstack/echo/v4"
)

// App holds all components of the embedding-indexer service.
type App struct {
	echoServer    *echo.Echo
	vectorDriver  *driver.PgVectorDriver
	redisConsumer *consumer.Consumer
	otelShutdown  appOtel.ShutdownFunc
}

// Run initializes all components and starts the service.
// It blocks until ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	// ── OpenTelemetry ──
	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// ── Logger ──
	logger.InitWithOTel(otelCfg.Enabled)
	logger.Logger.Info("Starting embedding-indexer",
		"service", otelCfg.ServiceName,
		"otel_enabled", otelCfg.Enabled,
	)

	// ── Load config ──
	appCfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load config", "err", err)
		return err
	}

	// ── Drivers (infrastructure layer) ──
	pool, err := initPool(ctx, appCfg)
	if err != nil {
		logger.Logger.Error("Failed to initialize Postgres pool", "err", err)
		return err
	}
	vectorDriver := driver.NewPgVectorDriver(pool, appCfg.Indexer.VectorDim)

	// ── Gateways (anti-corruption layer) ──
	vectorStore := gateway.NewVectorStoreGateway(vectorDriver)

	if err := vectorStore.EnsureSchema(ctx); err != nil {
		logger.Logger.Error("Failed to ensure vector schema", "err", err)
		vectorDriver.Close()
		return err
	}

	// ── Use cases (application layer) ──
	storeUsecase := usecase.NewStoreEmbeddingsUsecase(vectorStore, logger.Logger, usecase.Options{
		VectorDim:        appCfg.Indexer.VectorDim,
		EmptyChunkPolicy: emptyChunkPolicy(appCfg.Indexer.EmptyChunkPolicy),
	})

	// ── Redis Streams Consumer ──
	var redisConsumer *consumer.Consumer
	consumerCfg := consumer.ConfigFromEnv()
	if consumerCfg.Enabled {
		eventHandler := consumer.NewEmbeddingsEventHandler(storeUsecase, logger.Logger, appCfg.Indexer.StoreTimeout)
		redisConsumer, err = consumer.NewConsumer(consumerCfg, eventHandler, logger.Logger)
		if err != nil {
			logger.Logger.Error("Failed to create Redis Streams consumer", "err", err)
		} else {
			if err := redisConsumer.Start(ctx); err != nil {
				logger.Logger.Error("Failed to start Redis Streams consumer", "err", err)
			} else {
				logger.Logger.Info("Redis Streams consumer started",
					"stream", consumerCfg.StreamKey,
					"group", consumerCfg.GroupName,
				)
			}
		}
	} else {
		logger.Logger.Info("Redis Streams consumer disabled")
	}

	// ── HTTP server ──
	restHandler := rest.NewHandler(storeUsecase, vectorStore, logger.Logger)
	auth := authmw.NewAuthMiddleware(appCfg.Auth.ServiceTokenSecret, logger.Logger)

	app := &App{
		echoServer:    newEchoServer(restHandler, auth, otelCfg),
		vectorDriver:  vectorDriver,
		redisConsumer: redisConsumer,
		otelShutdown:  otelShutdown,
	}
	app.echoServer.Server.ReadHeaderTimeout = appCfg.HTTP.ReadHeaderTimeout

	go func() {
		logger.Logger.Info("http listen", "addr", appCfg.HTTP.Addr)
		if err := app.echoServer.Start(appCfg.HTTP.Addr); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http", "err", err)
		}
	}()

	// ── Wait for shutdown signal ──
	<-ctx.Done()
	app.shutdown()
	return nil
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.echoServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown error", "err", err)
	}
	if a.redisConsumer != nil {
		a.redisConsumer.Stop()
	}
	if a.vectorDriver != nil {
		a.vectorDriver.Close()
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := a.otelShutdown(otelCtx); err != nil {
		fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
	}
}

// emptyChunkPolicy maps the config string to the usecase policy. Config
// validation already rejected anything else.
func emptyChunkPolicy(policy string) usecase.EmptyChunkPolicy {
	if policy == "skip" {
		return usecase.SkipEmptyChunk
	}
	return usecase.HaltOnEmptyChunk
}
