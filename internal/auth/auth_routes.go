package auth

import (
	"go-attend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	auth := r.Group("/auth")
	auth.Use(middleware.ContextLogger(logger))
	{
		// Limit ketat per IP karena endpoint publik
		auth.POST("/signup", middleware.RateLimitByIP(0.5, 3), handler.SignUp)
		auth.POST("/signin", middleware.RateLimitByIP(1, 5), handler.SignIn)
	}
}
