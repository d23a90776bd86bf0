package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-admin-console/api/swagger"
	"github.com/noah-isme/sma-admin-console/internal/handler"
	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/repository"
	"github.com/noah-isme/sma-admin-console/internal/service"
	"github.com/noah-isme/sma-admin-console/pkg/cache"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	"github.com/noah-isme/sma-admin-console/pkg/database"
	"github.com/noah-isme/sma-admin-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-admin-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-admin-console/pkg/middleware/requestid"
)

// @title SMA Admin Console API
// @version 1.0.0
// @description Student and teacher registry, fee ledger and material publishing
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	var (
		store  service.TableStore
		pinger handler.Pinger
	)
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		logr.Warn("using in-memory store, data is lost on restart")
		store = repository.NewMemoryTableStore()
	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to store", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		store = repository.NewTableStore(db, metrics)
		pinger = db
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, table cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	tableCache := service.NewTableCache(cacheRepo, metrics, cfg.Store.CacheTTL, logr, redisClient != nil)

	validate := validator.New()
	ids := service.NewIdentifierGenerator(cfg.IDs.MaxAttempts)
	registration := service.NewRegistrationService(store, ids, metrics,
		service.RegistrationConfig{UniqueTeacherIDs: cfg.IDs.TeacherIDsUnique}, validate, logr)
	ledger := service.NewLedgerService(store, ids, metrics, validate, logr)
	materials := service.NewMaterialService(store, tableCache, metrics,
		service.MaterialConfig{VerifyTeacher: cfg.Materials.VerifyTeacher}, validate, logr)
	directory := service.NewDirectoryService(store, tableCache, logr)
	exports := service.NewExportService(store, tableCache, logr, nil, nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	handler.RegisterOps(r, handler.NewMetricsHandler(metrics, pinger))
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students:  handler.NewStudentHandler(registration, directory, exports),
		Teachers:  handler.NewTeacherHandler(registration, directory, exports),
		Ledger:    handler.NewLedgerHandler(ledger),
		Materials: handler.NewMaterialHandler(materials),
	}, logr)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
