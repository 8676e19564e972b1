package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courtside/scorekeeper/internal/config"
	"github.com/courtside/scorekeeper/internal/handlers/web"
	detailRepo "github.com/courtside/scorekeeper/internal/repositories/detail"
	gameRepo "github.com/courtside/scorekeeper/internal/repositories/game"
	gameService "github.com/courtside/scorekeeper/internal/services/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	snapshotRepo, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Error("failed to create game repository", "error", err)
		os.Exit(1)
	}

	ledgerRepo, err := detailRepo.NewRedis(&detailRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Error("failed to create detail repository", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := web.NewHub(logger)
	go hub.Run(ctx)

	gameSvc, err := gameService.New(&gameService.Config{
		GameRepo:           snapshotRepo,
		DetailRepo:         ledgerRepo,
		Notifier:           web.NewToastNotifier(hub, logger),
		Logger:             logger,
		TickInterval:       cfg.TickInterval,
		SnapshotEveryTicks: cfg.SnapshotEveryTicks,
	})
	if err != nil {
		logger.Error("failed to create game service", "error", err)
		os.Exit(1)
	}

	loaded, err := gameSvc.Load(ctx, &gameService.LoadInput{})
	if err != nil {
		logger.Error("failed to load persisted game", "error", err)
		os.Exit(1)
	}
	logger.Info("game loaded",
		"players", len(loaded.Game.Players),
		"details", loaded.Details,
		"period", loaded.Game.CurrentPeriod)

	handler, err := web.New(&web.Config{
		GameService: gameSvc,
		Hub:         hub,
		Logger:      logger,
		BaseContext: ctx,
	})
	if err != nil {
		logger.Error("failed to create web handler", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handler.Register(mux)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Stop the clock so the final snapshot is consistent
	if _, err := gameSvc.PauseGame(context.Background(), &gameService.PauseGameInput{}); err != nil {
		logger.Warn("failed to pause game on shutdown", "error", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("failed to close redis client", "error", err)
	}

	logger.Info("scorekeeper stopped")
}

// parseLogLevel maps a config string to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
