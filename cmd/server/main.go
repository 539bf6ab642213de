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
	"go.uber.org/zap"

	"github.com/dukapos/dukapos-api/internal/auth"
	catalogAPI "github.com/dukapos/dukapos-api/internal/catalog/api"
	catalogRepo "github.com/dukapos/dukapos-api/internal/catalog/repository"
	catalogService "github.com/dukapos/dukapos-api/internal/catalog/service"
	checkoutAPI "github.com/dukapos/dukapos-api/internal/checkout/api"
	checkoutRepo "github.com/dukapos/dukapos-api/internal/checkout/repository"
	checkoutService "github.com/dukapos/dukapos-api/internal/checkout/service"
	inventoryAPI "github.com/dukapos/dukapos-api/internal/inventory/api"
	inventoryRepo "github.com/dukapos/dukapos-api/internal/inventory/repository"
	inventoryService "github.com/dukapos/dukapos-api/internal/inventory/service"
	"github.com/dukapos/dukapos-api/internal/platform/config"
	"github.com/dukapos/dukapos-api/internal/platform/database"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
	"github.com/dukapos/dukapos-api/internal/platform/metrics"
	reportAPI "github.com/dukapos/dukapos-api/internal/report/api"
	reportRepo "github.com/dukapos/dukapos-api/internal/report/repository"
	reportService "github.com/dukapos/dukapos-api/internal/report/service"
	userAPI "github.com/dukapos/dukapos-api/internal/user/api"
	userRepo "github.com/dukapos/dukapos-api/internal/user/repository"
	userService "github.com/dukapos/dukapos-api/internal/user/service"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DB.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := database.Migrate(migrateCtx, db); err != nil {
		logger.Error("Failed to run migrations", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Repositories
	users := userRepo.NewPostgresUserRepository(db)
	catalog := catalogRepo.NewPostgresCatalogRepository(db)
	inventory := inventoryRepo.NewPostgresInventoryRepository(db)
	checkout := checkoutRepo.NewPostgresCheckoutRepository(db)
	reports := reportRepo.NewPostgresReportRepository(db)

	// Services
	userSvc := userService.NewUserService(users, tokens)
	catalogSvc := catalogService.NewCatalogService(catalog)
	ledger := inventoryService.NewStockLedger(inventory)
	checkoutSvc := checkoutService.NewCheckoutService(checkout, ledger)
	reportSvc := reportService.NewReportService(reports, ledger, checkout)

	watcher := inventoryService.NewLowStockWatcher(ledger, inventory)
	watcher.Start(cfg.LowStockCheckInterval)
	defer watcher.Stop()

	// Handlers
	authHandler := userAPI.NewAuthHandler(userSvc)
	catalogHandler := catalogAPI.NewCatalogHandler(catalogSvc)
	inventoryHandler := inventoryAPI.NewInventoryHandler(ledger)
	checkoutHandler := checkoutAPI.NewCheckoutHandler(checkoutSvc)
	reportHandler := reportAPI.NewReportHandler(reportSvc)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	httpMetrics := metrics.NewHTTPMetrics()
	router.Use(httpMetrics.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(auth.Authenticate(tokens))
	authHandler.RegisterProtectedRoutes(protected)
	catalogHandler.RegisterRoutes(protected)
	inventoryHandler.RegisterRoutes(protected)
	checkoutHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped")
}
