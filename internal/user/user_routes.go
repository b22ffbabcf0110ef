package user

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
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.Use(middleware.ExtractUserID())
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("/me",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "user", "read_self"),
			handler.GetMe,
		)

		users.PATCH("/me",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "update_self"),
			handler.UpdateMe,
		)

		users.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read_all"),
			handler.GetAll,
		)

		users.GET("/options",
			middleware.RateLimitByUser(5, 20), // Limit sedikit lebih longgar karena ringan
			middleware.RBACAuthorize(rbacService, "user", "read_all"),
			handler.GetOptions,
		)

		users.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read_all"),
			handler.GetById,
		)
	}
}
