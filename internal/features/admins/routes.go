package admins

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, svc *Service, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(svc)

	admins := router.Group("/admin/admins")
	admins.Use(authMiddleware, auth.RequireRoles(access.RoleSuperAdmin))
	{
		admins.GET("", handler.ListAdmins)
		admins.POST("", handler.CreateAdmin)
		admins.PUT("/:id", handler.UpdateAdmin)
		admins.DELETE("/:id", handler.DeleteAdmin)
	}
}
