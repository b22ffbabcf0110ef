package app

import (
	"os"

	"go-attend/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	// 2. Register Modules & Routes
	return registerModules(router, sqlDB, gormDB, redisClient)
}
