// @title LearnFlow API
// @version 1.0
// @description Quiz sessions and lesson player for the LearnFlow learning platform.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnflow/internal/adapter"
	"learnflow/internal/cache"
	"learnflow/internal/catalog"
	"learnflow/internal/config"
	"learnflow/internal/domain"
	"learnflow/internal/events"
	"learnflow/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// newSessionStore picks the cache quiz sessions are parked in between requests.
func newSessionStore(ctx context.Context, cfg *config.Config) (domain.Cache, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return adapter.NewRedisCacheAdapter(client), func() { _ = client.Close() }, nil
	case config.SessionStoreMemory:
		return adapter.NewMemoryCacheAdapter(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	content, err := catalog.NewEmbedded()
	if err != nil {
		appLogger.Fatal("Failed to load course catalog", zap.Error(err))
	}

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize session store", zap.Error(err))
	}
	defer closeStore()
	appLogger.Info("Session store initialized", zap.String("store", cfg.Session.Store))

	srv := newServer(cfg, content, store, appLogger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return events.ListenToasts(gctx, srv.bus, cfg.Events.ToastTopic, appLogger, events.LogToast(appLogger))
	})

	g.Go(func() error {
		srv.playback.RunSweeper(gctx)
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := srv.app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}
