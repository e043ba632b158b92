package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/learnloophq/learnloop-backend/internal/app"
	"github.com/learnloophq/learnloop-backend/internal/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	path := config.ResolveConfigPath(*configPath)
	if env := os.Getenv("LEARNLOOP_CONFIG"); *configPath == "" && env != "" {
		path = env
	}

	cfg, errLoad := config.Load(path)
	if errLoad != nil {
		log.Fatalf("load config: %v", errLoad)
	}
	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrateOnly {
		if errMigrate := app.Migrate(ctx, path); errMigrate != nil {
			log.Fatalf("migrate: %v", errMigrate)
		}
		log.Info("migrations applied")
		return
	}

	if errRun := app.RunServer(ctx, path); errRun != nil {
		log.Fatalf("server: %v", errRun)
	}
}

// setupLogging configures logrus level and optional file rotation.
func setupLogging(cfg config.LogConfig) {
	level, errParse := log.ParseLevel(cfg.Level)
	if errParse != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if cfg.File == "" {
		return
	}
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
