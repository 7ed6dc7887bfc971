package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"boilerplate/internal/config"
	"boilerplate/internal/database"
	"boilerplate/internal/server"
	"boilerplate/internal/services"
	"boilerplate/pkg/cache"
	"boilerplate/pkg/logger"
	"boilerplate/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	app, cleanup, err := setup(ctx, cfg, zlog)
	cancel()
	if err != nil {
		zlog.Fatal("failed to start", zap.Error(err))
	}

	// --- Start HTTP Server ---
	zlog.Info("starting server", zap.String("addr", cfg.App.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.App.Port); err != nil {
			zlog.Error("server stopped listening", zap.Error(err))
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	zlog.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		zlog.Error("error during Fiber shutdown", zap.Error(err))
	}
	cleanup()
	zlog.Info("server gracefully stopped")
}

// setup opens every backing service and builds the Fiber app.
// The returned cleanup closes them in reverse order.
func setup(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Database ---
	store, err := database.Open(ctx, cfg.Database, zlog)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			zlog.Error("failed to close database", zap.Error(err))
		}
	})

	opts := []services.Option{services.WithLogger(zlog)}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, zlog)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		closers = append(closers, func() {
			if err := mqClient.Close(); err != nil {
				zlog.Error("failed to close RabbitMQ client", zap.Error(err))
			}
		})
		if err := mqClient.ConsumeUserEvents(rabbitmq.LogUserEvent(zlog)); err != nil {
			zlog.Warn("failed to start user event consumer", zap.Error(err))
		}
		opts = append(opts, services.WithEventPublisher(mqClient))
	}

	// --- Redis session cache (optional) ---
	if cfg.Redis.Addr != "" {
		sessions := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := sessions.Ping(ctx); err != nil {
			zlog.Warn("redis unreachable, session cache will miss", zap.Error(err))
		}
		closers = append(closers, func() { _ = sessions.Close() })
		opts = append(opts, services.WithSessionCache(sessions, cfg.Redis.TTL))
	}

	// --- Services & HTTP ---
	authService := services.NewAuthService(store.Users(), cfg.JWT.Secret, opts...)
	app := server.New(server.Deps{
		AuthService: authService,
		Store:       store,
		Logger:      zlog,
	})
	return app, cleanup, nil
}
