package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/catalog/backend/internal/application/catalog"
	appintegration "github.com/catalog/backend/internal/application/integration"
	"github.com/catalog/backend/internal/domain/integration"
	"github.com/catalog/backend/internal/infrastructure/config"
	"github.com/catalog/backend/internal/infrastructure/erp"
	"github.com/catalog/backend/internal/infrastructure/logger"
	"github.com/catalog/backend/internal/infrastructure/persistence"
	"github.com/catalog/backend/internal/interfaces/http/handler"
	"github.com/catalog/backend/internal/interfaces/http/middleware"
	"github.com/catalog/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Catalog Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories and transaction scope
	productRepo := persistence.NewGormProductRepository(db.DB)
	refRepo := persistence.NewGormExternalRefRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Select the ECount client: mock for local development, the real
	// adapter when credentials are configured, nil otherwise (sync disabled)
	erpClient, err := buildErpClient(&cfg.Ecount, log)
	if err != nil {
		log.Fatal("Failed to initialize ECount connector", zap.Error(err))
	}

	syncService := appintegration.NewEcountSyncService(erpClient, erp.BuildBulkFields, log)
	productService := catalogapp.NewProductService(scope, productRepo, refRepo, syncService, log)

	// Gin setup
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up validator", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	// Register API routes
	router.NewRouter(engine).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewSystemHandler()).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildErpClient selects the outbound ECount client based on configuration.
// A nil client disables synchronization entirely.
func buildErpClient(cfg *config.EcountConfig, log *zap.Logger) (integration.ErpClient, error) {
	if cfg.UseMock {
		log.Info("ECount connector running in mock mode")
		return erp.NewMockEcountClient(log), nil
	}

	if !cfg.IsConfigured() {
		log.Info("ECount connector not configured, synchronization disabled")
		return nil, nil
	}

	erpConfig := erp.NewEcountConfig(cfg.CompanyCode, cfg.UserID, cfg.APICertKey, cfg.Zone)
	if cfg.Language != "" {
		erpConfig.Language = cfg.Language
	}
	if cfg.BaseURL != "" {
		erpConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		erpConfig.Timeout = cfg.Timeout
	}
	if cfg.SessionSkew > 0 {
		erpConfig.SessionSkew = cfg.SessionSkew
	}

	adapter, err := erp.NewEcountAdapter(erpConfig, log)
	if err != nil {
		return nil, err
	}

	log.Info("ECount connector configured",
		zap.String("company_code", cfg.CompanyCode),
		zap.String("zone", cfg.Zone),
	)
	return adapter, nil
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
