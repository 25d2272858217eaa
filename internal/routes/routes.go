package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/xyz-asif/whistleblow/docs"
	"github.com/xyz-asif/whistleblow/internal/config"
	"github.com/xyz-asif/whistleblow/internal/features/admins"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/chats"
	"github.com/xyz-asif/whistleblow/internal/features/dashboard"
	"github.com/xyz-asif/whistleblow/internal/features/notifications"
	"github.com/xyz-asif/whistleblow/internal/features/reports"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
	"github.com/xyz-asif/whistleblow/internal/pkg/ratelimit"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	"github.com/xyz-asif/whistleblow/internal/pkg/storage"
	"gorm.io/gorm"
)

// Limits holds the rate limit stores for the unauthenticated entry points.
// A nil store disables that limit.
type Limits struct {
	Login ratelimit.Store
	Code  ratelimit.Store
}

// Models lists every table the API owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&auth.User{},
		&reports.Report{},
		&reports.ReportFile{},
		&chats.Chat{},
		&notifications.Notification{},
	}
}

// SetupRoutes wires repositories, services and handlers onto router under /api/v1.
func SetupRoutes(router *gin.Engine, db *gorm.DB, store storage.Storage, limits Limits, cfg *config.Config) {
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
		}
		response.Success(c, gin.H{"status": status, "time": time.Now().Unix()})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", "NOT_FOUND")
	})

	api := router.Group("/api/v1")

	jwtCfg := idToken.DefaultConfig(cfg.JWTSecret)
	jwtCfg.AccessExpiry = cfg.JWTExpiry()

	// Repositories
	usersRepo := auth.NewRepository(db)
	notesRepo := notifications.NewRepository(db)
	reportsRepo := reports.NewRepository(db)
	chatsRepo := chats.NewRepository(db)

	authMiddleware := auth.NewAuthMiddleware(usersRepo, cfg.JWTSecret)
	optionalAuth := auth.OptionalAuth(usersRepo, cfg.JWTSecret)

	// Services
	dispatcher := notifications.NewDispatcher(notesRepo, usersRepo)
	engine := reports.NewEngine(reportsRepo, cfg.LifecycleSameHandler)
	reportsSvc := reports.NewService(reportsRepo, engine, store, dispatcher, usersRepo, cfg.MaxUploadBytes)
	chatsSvc := chats.NewService(chatsRepo, reportsRepo, usersRepo, dispatcher)
	dashboardSvc := dashboard.NewService(dashboard.NewRepository(db), usersRepo)
	adminsSvc := admins.NewService(usersRepo)

	codeLimit := limit(limits.Code, func(c *gin.Context) string {
		return "code:" + c.ClientIP()
	})

	auth.RegisterRoutes(api, usersRepo, jwtCfg, authMiddleware, limit(limits.Login, func(c *gin.Context) string {
		return "login:" + c.ClientIP()
	}))
	reports.RegisterRoutes(api, reportsSvc, reports.Middlewares{
		Auth:         authMiddleware,
		OptionalAuth: optionalAuth,
		CodeLimit:    codeLimit,
	})
	chats.RegisterRoutes(api, chatsSvc, authMiddleware, codeLimit)
	notifications.RegisterRoutes(api, notesRepo, authMiddleware)
	dashboard.RegisterRoutes(api, dashboardSvc, authMiddleware)
	admins.RegisterRoutes(api, adminsSvc, authMiddleware)
}

func limit(store ratelimit.Store, key func(*gin.Context) string) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return ratelimit.CustomKeyMiddleware(store, key)
}
