package main

import (
	"github.com/gridtalk/gridtalk/internal/config"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/internal/server"
	"github.com/gridtalk/gridtalk/pkg/database"
	"github.com/gridtalk/gridtalk/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.S.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogPath)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.S.Fatalf("failed to connect database: %v", err)
	}
	if err := migrate(db); err != nil {
		logger.S.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.S.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.New(db, redisClient, cfg)

	logger.S.Infow("starting server", "port", cfg.Port, "env", cfg.AppEnv)
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.S.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Thread{},
		&model.Comment{},
	)
}
