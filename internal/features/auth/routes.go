package auth

import (
	"github.com/gin-gonic/gin"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
)

// RegisterRoutes registers the auth routes. loginLimit guards credential
// guessing on /auth/login and /auth/register.
func RegisterRoutes(router *gin.RouterGroup, repo *Repository, jwtCfg *idToken.Config, authMiddleware, loginLimit gin.HandlerFunc) {
	handler := NewHandler(repo, jwtCfg)

	auth := router.Group("/auth")
	{
		auth.POST("/register", loginLimit, handler.Register)
		auth.POST("/login", loginLimit, handler.Login)

		auth.GET("/me", authMiddleware, handler.Me)
		auth.PUT("/profile", authMiddleware, handler.UpdateProfile)
		auth.PUT("/password", authMiddleware, handler.UpdatePassword)
	}
}
