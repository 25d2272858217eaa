package dashboard

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, svc *Service, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(svc)

	dashboard := router.Group("/dashboard")
	dashboard.Use(authMiddleware)
	{
		dashboard.GET("/user", auth.RequireRoles(access.RoleUser), handler.UserDashboard)
		dashboard.GET("/admin", auth.RequireRoles(access.RoleAdmin, access.RoleSuperAdmin), handler.AdminDashboard)
		dashboard.GET("/super-admin", auth.RequireRoles(access.RoleSuperAdmin), handler.SuperAdminDashboard)
	}

	stats := router.Group("/admin/stats")
	stats.Use(authMiddleware, auth.RequireRoles(access.RoleAdmin, access.RoleSuperAdmin))
	{
		stats.GET("/overview", handler.OverviewStats)
		stats.GET("/reports", handler.ReportStats)
	}
}
