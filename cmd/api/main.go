package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/forumhub/forum-api/docs" // swagger spec
	"github.com/forumhub/forum-api/internal/api"
	"github.com/forumhub/forum-api/internal/core/authz"
	"github.com/forumhub/forum-api/internal/core/service"
	"github.com/forumhub/forum-api/internal/infrastructure/config"
	mongodb "github.com/forumhub/forum-api/internal/infrastructure/db/mongo"
	redisdb "github.com/forumhub/forum-api/internal/infrastructure/db/redis"
	"github.com/forumhub/forum-api/internal/infrastructure/queue"
	"github.com/forumhub/forum-api/pkg/logger"
)

const authTokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Repositories ---
	themeRepo := mongodb.NewThemeRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	notifRepo := mongodb.NewNotificationRepository(db)

	if err := themeRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure theme indexes")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}

	// --- Notification fanout ---
	dedup := redisdb.NewDedupChecker(rdb)
	notifySvc := service.NewNotifyService(themeRepo, notifRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notifySvc, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	themeSvc := service.NewThemeService(themeRepo, dispatcher, log)
	authSvc := service.NewAuthService(authRepo, cfg.JWTSecret, authTokenTTL)
	gate := authz.NewGate(themeSvc)

	e := api.NewRouter(api.Deps{
		ThemeService:     themeSvc,
		AuthService:      authSvc,
		NotificationRepo: notifRepo,
		Gate:             gate,
		Mongo:            db,
		Redis:            rdb,
		JWTSecret:        cfg.JWTSecret,
		Logger:           log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("forum api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
