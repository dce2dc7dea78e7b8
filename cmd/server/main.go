package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/muhohoweb/shoe-app/internal/application/catalog"
	notifyapp "github.com/muhohoweb/shoe-app/internal/application/notify"
	paymentapp "github.com/muhohoweb/shoe-app/internal/application/payment"
	scheduleapp "github.com/muhohoweb/shoe-app/internal/application/schedule"
	tradeapp "github.com/muhohoweb/shoe-app/internal/application/trade"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/auth"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/cache"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/config"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/logger"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/mpesa"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/persistence"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/scheduler"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/storage"
	"github.com/muhohoweb/shoe-app/internal/infrastructure/whatsapp"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/handler"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shoe-app",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		_ = redisClient.Close()
	}()
	log.Info("Redis connected")

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	locationRepo := persistence.NewGormDeliveryLocationRepository(db.DB)
	txRepo := persistence.NewGormMpesaTransactionRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	checkoutStore := persistence.NewGormCheckoutStore(db.DB)

	// External adapters
	imageStore, err := storage.NewS3ImageStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	baseURL := strings.TrimRight(cfg.App.BaseURL, "/")
	gateway, err := mpesa.NewDarajaAdapter(&cfg.Mpesa, mpesa.CallbackURLs{
		STKCallback:   baseURL + "/mpesa/callback",
		BalanceResult: baseURL + "/mpesa/balance/result",
		StatusResult:  baseURL + "/mpesa/status/result",
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	whatsappClient := whatsapp.NewClient(&cfg.WhatsApp, log)
	balanceCache := cache.NewRedisBalanceCache(redisClient)
	replayGuard := cache.NewRedisReplayGuard(redisClient)
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, imageRepo, categoryRepo, imageStore, log)
	paymentService := paymentapp.NewPaymentService(txRepo, orderRepo, gateway, balanceCache, replayGuard, log)
	whatsappService := notifyapp.NewWhatsAppService(whatsappClient, log)
	checkoutService := tradeapp.NewCheckoutService(productRepo, locationRepo, checkoutStore, paymentService, log)
	orderService := tradeapp.NewOrderService(orderRepo, whatsappService, log)
	storefrontService := tradeapp.NewStorefrontService(productRepo, categoryRepo, locationRepo)
	locationService := tradeapp.NewDeliveryLocationService(locationRepo)
	scheduleService := scheduleapp.NewScheduleService(scheduleRepo, orderRepo, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", healthHandler(db))

	router.Setup(engine, router.Handlers{
		Auth:        handler.NewAuthHandler(jwtService, cfg.Admin),
		Storefront:  handler.NewStorefrontHandler(storefrontService, checkoutService, orderService, paymentService),
		Category:    handler.NewCategoryHandler(categoryService),
		Product:     handler.NewProductHandler(productService),
		Order:       handler.NewOrderHandler(orderService),
		Location:    handler.NewDeliveryLocationHandler(locationService),
		Transaction: handler.NewTransactionHandler(paymentService),
		Schedule:    handler.NewScheduleHandler(scheduleService),
		Mpesa:       handler.NewMpesaCallbackHandler(paymentService),
		WhatsApp:    handler.NewWhatsAppHandler(whatsappService),
	}, router.Config{
		JWTService:     jwtService,
		CallbackSecret: cfg.Mpesa.CallbackSecret,
	})

	// Purge scheduler
	var trigger *scheduler.CronTrigger
	if cfg.Scheduler.Enabled {
		trigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			TickInterval: cfg.Scheduler.TickInterval,
		}, scheduleService, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start purge scheduler", zap.Error(err))
		}
		log.Info("Purge scheduler started", zap.Duration("tick", cfg.Scheduler.TickInterval))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if trigger != nil {
		if err := trigger.Stop(ctx); err != nil {
			log.Error("Purge scheduler stop failed", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness alongside database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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
