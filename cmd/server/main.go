package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/septiandi71/IdeaFund-sub000/internal/config"
	"github.com/septiandi71/IdeaFund-sub000/internal/database"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"github.com/septiandi71/IdeaFund-sub000/internal/retry"
	"github.com/septiandi71/IdeaFund-sub000/internal/router"
	"github.com/septiandi71/IdeaFund-sub000/internal/task"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg.Log)
	defer logger.Sync()

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	chain, err := ledger.Init(cfg.Ledger)
	if err != nil {
		log.Fatalf("Failed to initialize ledger client: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	poller := retry.New(
		time.Duration(cfg.Ledger.PollInitialMs)*time.Millisecond,
		time.Duration(cfg.Ledger.PollIntervalMs)*time.Millisecond,
		cfg.Ledger.PollAttempts,
	)

	r := router.Setup(db, chain, rdb, poller, cfg)

	manager := task.Start(db, chain, cfg)
	defer manager.Stop()

	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := logger.INFO
	switch cfg.Level {
	case "debug":
		level = logger.DEBUG
	case "warn":
		level = logger.WARN
	case "error":
		level = logger.ERROR
	}

	var l *logger.Logger
	var err error
	if cfg.Output == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}
