package main

import (
	"context"
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
	"go.uber.org/zap"

	_ "github.com/meetgrid/booking-api/api/swagger"
	"github.com/meetgrid/booking-api/internal/availability"
	"github.com/meetgrid/booking-api/internal/handler"
	"github.com/meetgrid/booking-api/internal/middleware"
	"github.com/meetgrid/booking-api/internal/repository"
	"github.com/meetgrid/booking-api/internal/service"
	"github.com/meetgrid/booking-api/pkg/cache"
	"github.com/meetgrid/booking-api/pkg/config"
	"github.com/meetgrid/booking-api/pkg/database"
	"github.com/meetgrid/booking-api/pkg/logger"
	corsmiddleware "github.com/meetgrid/booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/meetgrid/booking-api/pkg/middleware/requestid"
)

// @title MeetGrid Booking API
// @version 1.0.0
// @description Availability and slot calculation service for public booking pages
// @BasePath /api/v1
// @schemes http

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	profileRepo := repository.NewProfileRepository(db)
	ruleRepo := repository.NewAvailabilityRuleRepository(db)
	eventRepo := repository.NewEventRepository(db)

	var cacheRepo *repository.CacheRepository
	if cfg.Overview.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, overview cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Overview.CacheTTL, logr, cfg.Overview.CacheEnabled && cacheRepo != nil)

	engine := availability.New(logr)
	availabilitySvc := service.NewAvailabilityService(profileRepo, ruleRepo, eventRepo, engine, cacheSvc, metricsSvc, cfg.Booking, logr)
	scheduleSvc := service.NewScheduleService(ruleRepo, profileRepo, cacheSvc, validate, logr)
	eventSvc := service.NewEventService(eventRepo, cacheSvc, validate, logr)
	authSvc := service.NewAuthService(profileRepo, cfg.JWT, validate, logr)
	exportSvc := service.NewExportService(availabilitySvc, logr)

	bookingHandler := handler.NewBookingHandler(availabilitySvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, exportSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	authHandler := handler.NewAuthHandler(authSvc)
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
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		book := api.Group("/book/:slug")
		{
			book.GET("/slots", bookingHandler.Slots)
			book.GET("/days/:date", bookingHandler.DayAvailability)
			book.GET("/calendar", bookingHandler.Calendar)
		}

		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.GET("/auth/me", authHandler.Me)

			authed.GET("/schedule", scheduleHandler.GetWeek)
			authed.PUT("/schedule/timezone", scheduleHandler.UpdateTimezone)
			authed.PUT("/schedule/:weekday", scheduleHandler.UpsertRule)
			if cfg.Exports.Enabled {
				authed.GET("/schedule/calendar/export", scheduleHandler.ExportCalendar)
			}

			authed.GET("/events", eventHandler.List)
			authed.POST("/events", eventHandler.Create)
			authed.DELETE("/events/:id", eventHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
