package attendance

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
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	attendances.Use(middleware.ExtractUserID())
	attendances.Use(middleware.ContextLogger(logger))
	{
		attendances.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "attendance", "mark"),
			handler.Mark,
		)

		attendances.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_self"),
			handler.GetMine,
		)

		attendances.GET("/me/today",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "attendance", "read_self"),
			handler.GetMineToday,
		)

		attendances.GET("/me/grade",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "grade_self"),
			handler.GetMyGrade,
		)

		attendances.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_all"),
			handler.GetAll,
		)

		attendances.GET("/today",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_all"),
			handler.GetAllToday,
		)

		attendances.GET("/by-date",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_all"),
			handler.GetAllByDate,
		)

		attendances.GET("/absentees",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_all"),
			handler.GetAbsentees,
		)

		attendances.GET("/user/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_all"),
			handler.GetByUser,
		)

		attendances.GET("/user/:id/grade",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "grade_any"),
			handler.GetGradeByUser,
		)

		attendances.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read_all"),
			handler.GetById,
		)
	}
}
