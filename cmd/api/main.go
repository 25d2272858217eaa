// @title Whistleblow API
// @version 1.0
// @description Whistle-blowing report intake and case management API
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	docs "github.com/xyz-asif/whistleblow/docs"
	"github.com/xyz-asif/whistleblow/internal/config"
	"github.com/xyz-asif/whistleblow/internal/database"
	"github.com/xyz-asif/whistleblow/internal/middleware"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/ratelimit"
	"github.com/xyz-asif/whistleblow/internal/pkg/storage"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	"github.com/xyz-asif/whistleblow/internal/routes"
)

//go:generate swag init --dir ../../ --generalInfo cmd/api/main.go --output ../../docs --parseInternal

func main() {
	cfg := config.Load()
	logger.Configure(logger.ParseLevel(cfg.LogLevel), cfg.AppEnv)
	log := logger.Default()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Tracing:         cfg.DBTracing,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db, routes.Models()...); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	creds, err := cfg.GCSCredentials()
	if err != nil {
		log.Fatalf("invalid GCS credentials: %v", err)
	}
	store, err := storage.New(ctx, storage.Config{
		Backend:             cfg.StorageBackend,
		UploadDir:           cfg.UploadDir,
		CloudinaryCloudName: cfg.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.CloudinaryAPISecret,
		CloudinaryFolder:    cfg.CloudinaryFolder,
		GCSBucket:           cfg.GCSBucket,
		GCSCredentialsJSON:  creds,
	})
	if err != nil {
		log.Fatalf("failed to initialise %s storage: %v", cfg.StorageBackend, err)
	}

	if err := validator.RegisterCustom(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	limits := rateLimits(ctx, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.MaxMultipartMemory = 32 << 20

	routes.SetupRoutes(router, db, store, limits, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
		os.Exit(1)
	}
	log.Info("server exited")
}

// rateLimits shares counters through Redis when configured and falls back
// to per-process limiters otherwise.
func rateLimits(ctx context.Context, cfg *config.Config) routes.Limits {
	if cfg.RedisAddr != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			return routes.Limits{
				Login: ratelimit.NewRedisStore(client, "ratelimit:login:", cfg.RateLimitRequests, cfg.RateLimitWindow),
				Code:  ratelimit.NewRedisStore(client, "ratelimit:code:", cfg.RateLimitRequests, cfg.RateLimitWindow),
			}
		}
		logger.WithFields(logger.Fields{"addr": cfg.RedisAddr}).WithError(err).Warn("redis unavailable, using in-memory rate limits")
	}

	login := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	code := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	login.StartCleanup(ctx, cfg.RateLimitWindow)
	code.StartCleanup(ctx, cfg.RateLimitWindow)
	return routes.Limits{Login: login, Code: code}
}
