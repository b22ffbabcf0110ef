package task

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	tasks.Use(middleware.ExtractUserID())
	tasks.Use(middleware.ContextLogger(logger))
	{
		tasks.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "task", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		tasks.PATCH("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "task", "update"),
			handler.Update,
		)

		tasks.POST("/:id/submit",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "task", "submit"),
			handler.Submit,
		)

		tasks.PATCH("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "task", "approve"),
			handler.Approve,
		)

		tasks.PATCH("/:id/reject",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "task", "approve"),
			handler.Reject,
		)

		tasks.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "task", "read_all"),
			handler.GetAll,
		)

		tasks.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "task", "read_self"),
			handler.GetMine,
		)

		tasks.GET("/me/today",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "task", "read_self"),
			handler.GetMineToday,
		)

		tasks.GET("/me/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "task", "read_self"),
			handler.GetMineById,
		)

		tasks.GET("/user/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "task", "read_all"),
			handler.GetByUser,
		)

		tasks.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "task", "read_all"),
			handler.GetById,
		)
	}
}
