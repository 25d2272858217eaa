package reports

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
)

// Middlewares groups the request guards the report routes depend on.
type Middlewares struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	CodeLimit    gin.HandlerFunc
}

func RegisterRoutes(router *gin.RouterGroup, svc *Service, mw Middlewares) {
	handler := NewHandler(svc, router.BasePath())
	if mw.CodeLimit == nil {
		mw.CodeLimit = func(c *gin.Context) { c.Next() }
	}

	reports := router.Group("/reports")
	{
		reports.POST("", mw.OptionalAuth, handler.CreateReport)
		reports.GET("/history", mw.Auth, handler.History)
		reports.GET("/:id", mw.Auth, handler.GetReport)
		reports.GET("/:id/files/:file_id", mw.Auth, handler.DownloadFile)
	}

	anonymous := reports.Group("/anonymous/:unique_code", mw.CodeLimit)
	{
		anonymous.GET("", handler.GetAnonymousReport)
		anonymous.GET("/files/:file_id", handler.DownloadAnonymousFile)
	}

	admin := router.Group("/admin/reports")
	admin.Use(mw.Auth, auth.RequireRoles(access.RoleAdmin, access.RoleSuperAdmin))
	{
		admin.GET("", handler.ListReports)
		admin.GET("/export", handler.ExportReports)
		admin.GET("/:id", handler.GetReport)
		admin.PATCH("/:id/process", handler.ProcessReport)
		admin.PATCH("/:id/reject", handler.RejectReport)
		admin.PATCH("/:id/complete", handler.CompleteReport)
	}
}
