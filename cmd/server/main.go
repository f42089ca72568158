package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pricecomparator/market-service/config"
	"github.com/pricecomparator/market-service/internal/alerts"
	"github.com/pricecomparator/market-service/internal/database"
	"github.com/pricecomparator/market-service/internal/handlers"
	"github.com/pricecomparator/market-service/internal/loader"
	"github.com/pricecomparator/market-service/internal/middleware"
	"github.com/pricecomparator/market-service/internal/optimizer"
	"github.com/pricecomparator/market-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting market service")

	ctx := context.Background()

	cleanup := telemetry.MustInit(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	defer cleanup(ctx)

	// Persistence is optional; without it the saved-basket and alert
	// endpoints answer 503 while the read-only engine keeps serving.
	var db *database.DB
	dbURL := config.GetDatabaseURL()
	if dbURL != "" {
		db, err = database.Connect(
			ctx,
			dbURL,
			cfg.Database.MaxConnections,
			cfg.Database.MinConnections,
			cfg.Database.MaxConnLifetime,
			cfg.Database.MaxConnIdleTime,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply schema")
		}
		logger.Info().Msg("Database connected")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, persistence disabled")
	}

	l := loader.New(loader.WithConcurrency(cfg.Data.Concurrency))
	repo, err := l.LoadDirectory(ctx, cfg.Data.Dir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Data.Dir).Msg("Failed to load data directory")
	}
	logger.Info().Strs("stores", repo.Stores()).Msg("Market data loaded")

	basketOptimizer := optimizer.NewBasketOptimizer(repo, &optimizer.OptimizerConfig{
		MaxBasketItems: cfg.Optimizer.MaxBasketItems,
		MinBasketItems: cfg.Optimizer.MinBasketItems,
	})
	var alertStore alerts.Store
	var basketRepo *database.BasketRepository
	if db != nil {
		alertStore = database.NewAlertRepository(db)
		basketRepo = database.NewBasketRepository(db)
	}
	alertService := alerts.NewService(repo, alertStore)
	handlers.Init(repo, basketOptimizer, alertService, basketRepo, db)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.APIKeyMiddleware(cfg.Server.APIKey))
	v1.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
		BurstSize:         cfg.RateLimit.Burst,
	}))
	{
		v1.GET("/stores", handlers.ListStores)
		v1.GET("/stores/:store/catalog", handlers.GetCatalog)
		v1.GET("/stores/:store/discounts", handlers.GetActiveDiscounts)

		v1.GET("/products/:id/best-offer", handlers.GetBestOffer)
		v1.GET("/products/:id/timeline", handlers.GetTimeline)
		v1.GET("/products/:id/value", handlers.GetProductValue)

		v1.GET("/discounts/best", handlers.GetBestDiscounts)
		v1.GET("/discounts/new", handlers.GetNewestDiscounts)

		v1.GET("/value", handlers.GetValueRanking)

		v1.POST("/basket/optimize", handlers.Optimize)

		baskets := v1.Group("/baskets")
		{
			baskets.POST("", handlers.CreateBasket)
			baskets.GET("", handlers.ListBaskets)
			baskets.GET("/:id", handlers.GetBasket)
			baskets.DELETE("/:id", handlers.DeleteBasket)
			baskets.POST("/:id/optimize", handlers.OptimizeBasket)
		}

		alertRoutes := v1.Group("/alerts")
		{
			alertRoutes.POST("", handlers.CreateAlert)
			alertRoutes.POST("/check", handlers.CheckAlerts)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "market-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
