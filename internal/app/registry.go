package app

import (
	"database/sql"
	"path/filepath"

	"go-attend/internal/attendance"
	"go-attend/internal/auth"
	"go-attend/internal/leave"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/rbac"
	"go-attend/internal/rbac/infra"
	"go-attend/internal/shared/counter"
	"go-attend/internal/task"
	"go-attend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	taskRepo := task.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	userService := user.NewService(db, userRepo, rdb)
	authService := auth.NewService(userRepo, userService)
	attendanceService := attendance.NewService(attendanceRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, attendanceRepo, outboxRepo)
	taskService := task.NewServiceWithOutbox(db, taskRepo, counterRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	taskHandler := task.NewHandlerWithRedis(taskService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, logger)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, logger)
		task.RegisterRoutes(api, taskHandler, rbacService, rdb, logger)
	}

	return nil
}
