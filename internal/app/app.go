// Package app wires configuration, storage, and HTTP routes into a runnable
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/config"
	"github.com/learnloophq/learnloop-backend/internal/db"
	"github.com/learnloophq/learnloop-backend/internal/http/api/admin"
	adminhandlers "github.com/learnloophq/learnloop-backend/internal/http/api/admin/handlers"
	"github.com/learnloophq/learnloop-backend/internal/http/api/front"
	"github.com/learnloophq/learnloop-backend/internal/http/middleware"
	"github.com/learnloophq/learnloop-backend/internal/leaderboard"
	"github.com/learnloophq/learnloop-backend/internal/points"
	"github.com/learnloophq/learnloop-backend/internal/rewards"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the API server with database-backed components. It blocks
// until the context is cancelled, then shuts down gracefully.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if errPing := redisClient.Ping(ctx).Err(); errPing != nil {
			log.Warnf("redis unreachable, leaderboard cache disabled: %v", errPing)
			redisClient = nil
		}
	}

	cache := leaderboard.NewCache(redisClient, cfg.Leaderboard.CacheTTL())
	computer := leaderboard.NewComputer(conn, cache)
	scheduler := leaderboard.NewScheduler(computer, cfg.Leaderboard.ComputeInterval())
	scheduler.Start(ctx)

	pointsService := points.NewService(conn)
	rewardProcessor := rewards.NewProcessor(conn)

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger())

	healthHandler := adminhandlers.NewHealthHandler(conn)
	engine.GET("/healthz", healthHandler.Healthz)

	front.RegisterFrontRoutes(engine, front.Deps{
		DB:           conn,
		JWT:          cfg.JWT,
		Points:       pointsService,
		Rewards:      rewardProcessor,
		Leaderboards: cache,
	})
	admin.RegisterAdminRoutes(engine, admin.Deps{
		DB:           conn,
		JWT:          cfg.JWT,
		Points:       pointsService,
		Leaderboards: computer,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", server.Addr)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
		}
	}()

	select {
	case errServe := <-errCh:
		return errServe
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return errShutdown
	}
	log.Info("server stopped")
	return nil
}
