package config

import (
	"log"

	"go.uber.org/zap"
)

// InitLogger builds the process-wide zap logger.
func InitLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	return logger
}
