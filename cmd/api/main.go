package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/handlers"
	"github.com/gocomet/ride-booking/internal/api/routes"
	"github.com/gocomet/ride-booking/internal/config"
	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/domain/user"
	"github.com/gocomet/ride-booking/internal/service/analytics"
	"github.com/gocomet/ride-booking/internal/service/auth"
	"github.com/gocomet/ride-booking/internal/service/lifecycle"
	"github.com/gocomet/ride-booking/internal/service/query"
	"github.com/gocomet/ride-booking/internal/store/memory"
	"github.com/gocomet/ride-booking/internal/store/postgres"
	"github.com/gocomet/ride-booking/pkg/cache"
	"github.com/gocomet/ride-booking/pkg/database"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/gocomet/ride-booking/pkg/monitoring"
	"github.com/gocomet/ride-booking/pkg/token"
	"github.com/gocomet/ride-booking/pkg/websocket"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ride booking service",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
		logger.String("store_backend", cfg.Store.Backend),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp, _ = monitoring.New(monitoring.Config{})
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized",
			logger.String("app_name", cfg.NewRelic.AppName))
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize ride and user stores
	rideStore, userStore, cleanup := buildStores(cfg, appLogger)
	defer cleanup()

	// Initialize Redis for the analytics cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Warn("Redis unavailable, analytics cache disabled", logger.Err(err))
			redisClient = nil
		} else {
			appLogger.Info("Connected to Redis")
			defer cache.Close(redisClient)
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Initialize services
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	authSvc := auth.NewService(userStore, tokens, appLogger)
	lifecycleSvc := lifecycle.NewService(rideStore, appLogger)
	querySvc := query.NewService(rideStore)
	analyticsSvc := analytics.NewService(rideStore, redisClient, cfg.Cache.TTLAnalytics, appLogger)

	h := handlers.NewHandlers(authSvc, lifecycleSvc, querySvc, analyticsSvc, tokens, appLogger, wsHub, nrApp)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, nrApplication)

	appLogger.Info("Routes configured")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}

// buildStores wires the configured persistence backend. The returned cleanup
// closes whatever the backend opened.
func buildStores(cfg *config.Config, appLogger *logger.Logger) (ride.Store, user.Store, func()) {
	if cfg.Store.Backend == config.StorePostgres {
		db, err := database.NewPostgresDB(database.Config{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.Name,
			SSLMode:     cfg.Database.SSLMode,
			MaxConns:    cfg.Database.MaxConnections,
			MaxIdle:     cfg.Database.MaxIdleConns,
			MaxLifetime: cfg.Database.MaxLifetime,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		if err := postgres.Migrate(db); err != nil {
			appLogger.Fatal("Failed to run migrations", logger.Err(err))
		}
		appLogger.Info("Connected to PostgreSQL")
		return postgres.NewRideStore(db), postgres.NewUserStore(db), func() { db.Close() }
	}

	appLogger.Info("Using in-memory stores")
	return memory.NewRideStore(), memory.NewUserStore(), func() {}
}
