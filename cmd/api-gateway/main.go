package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/freeweek-api/api/swagger"
	"github.com/noah-isme/freeweek-api/internal/handler"
	"github.com/noah-isme/freeweek-api/internal/middleware"
	"github.com/noah-isme/freeweek-api/internal/repository"
	"github.com/noah-isme/freeweek-api/internal/service"
	"github.com/noah-isme/freeweek-api/pkg/cache"
	"github.com/noah-isme/freeweek-api/pkg/config"
	"github.com/noah-isme/freeweek-api/pkg/database"
	"github.com/noah-isme/freeweek-api/pkg/export"
	"github.com/noah-isme/freeweek-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/freeweek-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/freeweek-api/pkg/middleware/requestid"
)

// @title FreeWeek API
// @version 0.1.0
// @description Group availability scheduling: weekly heatmaps and candidate session windows
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, session cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "freeweek-api",
	})
	friendSvc := service.NewFriendService(friendRepo, userRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, nil, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, nil, validate, logr, cfg.Sessions.DefaultTimezone)
	templateSvc := service.NewTemplateService(templateRepo, validate, logr)
	sessionSvc := service.NewSessionService(settingsSvc, friendSvc, availabilitySvc, cacheRepo, metricsSvc, validate, logr, cfg.Sessions)
	availabilitySvc.AttachSessions(sessionSvc)
	settingsSvc.AttachSessions(sessionSvc)
	exportSvc := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), logr, cfg.Exports.Enabled)

	authHandler := handler.NewAuthHandler(authSvc)
	friendHandler := handler.NewFriendHandler(friendSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc, availabilitySvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/friends", friendHandler.List)
	protected.POST("/friends/requests", friendHandler.Request)
	protected.POST("/friends/requests/accept", friendHandler.Accept)
	protected.DELETE("/friends/:username", friendHandler.Remove)
	protected.GET("/availability", availabilityHandler.List)
	protected.PUT("/availability", availabilityHandler.Replace)
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", settingsHandler.Update)
	protected.GET("/templates", templateHandler.List)
	protected.POST("/templates", templateHandler.Create)
	protected.PUT("/templates/:id", templateHandler.Update)
	protected.DELETE("/templates/:id", templateHandler.Delete)
	protected.POST("/templates/:id/apply", templateHandler.Apply)
	protected.POST("/sessions/compute", sessionHandler.Compute)
	protected.POST("/sessions/export", sessionHandler.Export)
	protected.GET("/stats", metricsHandler.Stats)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
