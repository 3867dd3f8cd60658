package main

import (
	"context"
	"os"

	dbadapter "mediafeed/internal/adapters/database"
	"mediafeed/internal/adapters/httpapi"
	redisadapter "mediafeed/internal/adapters/redis"
	storageadapter "mediafeed/internal/adapters/storage"
	"mediafeed/internal/config"
	"mediafeed/internal/core/post"
	postapp "mediafeed/internal/core/post/service"
	feedcachePort "mediafeed/internal/ports/feedcache"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	logger := config.InitLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatal("Error connecting to the database", zap.Error(err))
	}

	if err := db.AutoMigrate(&post.Post{}); err != nil {
		logger.Fatal("Error during migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	redisClient, err := config.OpenRedis(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Error connecting to Redis", zap.Error(err))
	}

	defer closeResources(logger, db, redisClient)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("Error creating upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	fileStore := storageadapter.NewDiskStore(cfg.UploadDir)

	var feedCache feedcachePort.FeedCache
	if redisClient != nil {
		feedCache = redisadapter.NewFeedCacheRedis(redisClient)
		logger.Info("Feed cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	postSvc := postapp.NewPostService(postRepo, fileStore, feedCache, logger)
	r := httpapi.SetupRoutes(postSvc, httpapi.UploadLimits{
		MaxSizeBytes:        cfg.MaxUploadSizeBytes,
		AllowedContentTypes: cfg.AllowedContentTypes,
	}, cfg.UploadDir)

	logger.Info("App is running", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *goredis.Client) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
