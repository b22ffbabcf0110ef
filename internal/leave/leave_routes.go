package leave

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ExtractUserID())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			handler.Request,
		)

		leaves.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_self"),
			handler.GetMine,
		)

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_all"),
			handler.GetAll,
		)

		leaves.GET("/user/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_all"),
			handler.GetByUser,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read_all"),
			handler.GetById,
		)

		leaves.PATCH("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Approve,
		)

		leaves.PATCH("/:id/reject",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Reject,
		)
	}
}
