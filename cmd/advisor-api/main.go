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

	"github.com/campusadvisor/advisor-api/internal/handler"
	"github.com/campusadvisor/advisor-api/internal/middleware"
	"github.com/campusadvisor/advisor-api/internal/models"
	"github.com/campusadvisor/advisor-api/internal/repository"
	"github.com/campusadvisor/advisor-api/internal/service"
	"github.com/campusadvisor/advisor-api/pkg/cache"
	"github.com/campusadvisor/advisor-api/pkg/config"
	"github.com/campusadvisor/advisor-api/pkg/database"
	"github.com/campusadvisor/advisor-api/pkg/jobs"
	"github.com/campusadvisor/advisor-api/pkg/logger"
	corsmiddleware "github.com/campusadvisor/advisor-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusadvisor/advisor-api/pkg/middleware/requestid"
)

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
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient)
			defer cacheRepo.Close()
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
		}
	}

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	catalogSvc := service.NewCatalogService(courseRepo, cacheSvc, cfg.Catalog.CurriculumPath, cfg.Catalog.CacheTTL, logr)
	equiv := service.NewEquivalencyResolver(nil)
	prereqSvc := service.NewPrerequisiteService(catalogSvc, equiv, enrollmentRepo, logr)
	constraintSvc := service.NewConstraintService()
	scoreSvc := service.NewScoreService()
	conflictSvc := service.NewConflictService(enrollmentRepo)
	validationSvc := service.NewValidationService(catalogSvc, prereqSvc, constraintSvc, scoreSvc, enrollmentRepo, metricsSvc, logr)

	validate := validator.New()
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, catalogSvc, prereqSvc, conflictSvc, constraintSvc, scoreSvc, validate, metricsSvc, logr)
	exportSvc := service.NewExportService(enrollmentRepo, enrollmentSvc, catalogSvc, logr, nil, nil)

	advisoryQueue := jobs.NewQueue("advisory", enrollmentSvc.AdvisoryJobHandler(), jobs.QueueConfig{
		Workers:    cfg.Advisory.Workers,
		BufferSize: cfg.Advisory.BufferSize,
		MaxRetries: cfg.Advisory.MaxRetries,
		RetryDelay: cfg.Advisory.RetryDelay,
		Logger:     logr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	advisoryQueue.Start(ctx)
	defer advisoryQueue.Stop()

	validationHandler := handler.NewValidationHandler(validationSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, prereqSvc)
	advisoryHandler := handler.NewAdvisoryHandler(enrollmentSvc, advisoryQueue)
	exportHandler := handler.NewExportHandler(exportSvc, prereqSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		api.POST("/validate-schedule", validationHandler.ValidateSchedule)

		api.POST("/enrollments", enrollmentHandler.Commit)
		api.GET("/enrollments", enrollmentHandler.List)
		api.DELETE("/enrollments/:id", enrollmentHandler.Withdraw)
		api.POST("/enrollments/acknowledge-flags", enrollmentHandler.AcknowledgeFlags)

		api.GET("/courses/eligibility", catalogHandler.Eligibility)
		api.GET("/courses/:code", catalogHandler.Course)
		api.GET("/courses/:code/prerequisites", catalogHandler.Prerequisites)
		api.GET("/courses/:code/prerequisite-chain", catalogHandler.PrerequisiteChain)
		api.POST("/catalog/reload", middleware.RBAC(string(models.RoleAdvisor)), catalogHandler.Reload)

		students := api.Group("/students/:id")
		students.Use(middleware.RBAC(string(models.RoleAdvisor), "SELF"))
		{
			students.POST("/advisory/recompute", advisoryHandler.Recompute)
			students.GET("/advisory", advisoryHandler.Report)
		}

		api.GET("/export/schedule-report", exportHandler.ScheduleReport)
		api.GET("/export/enrollments.csv", exportHandler.EnrollmentsCSV)
		api.GET("/export/eligibility.csv", exportHandler.EligibilityCSV)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
