package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/costaendriw/delivery-system/controllers"
	"github.com/costaendriw/delivery-system/database"
	"github.com/costaendriw/delivery-system/middleware"
	"github.com/costaendriw/delivery-system/models"
	repositories "github.com/costaendriw/delivery-system/repository"
	"github.com/costaendriw/delivery-system/routes"
	"github.com/costaendriw/delivery-system/scheduler"
	"github.com/costaendriw/delivery-system/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// Database
	db, err := database.ConnectPostgres(logger,
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// Redis (product list cache; failures degrade to cache misses)
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	// Dependency injection
	userRepo := repositories.NewGormUserRepository(db)
	customerRepo := repositories.NewGormCustomerRepository(db)
	productRepo := repositories.NewGormProductRepository(db)
	orderRepo := repositories.NewGormOrderRepository(db)

	whatsappClient := services.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken, cfg.WhatsAppPhoneNumber, logger)
	tokenService := services.NewTokenService(cfg.JWTSecret, 30*time.Minute)

	authService := services.NewAuthService(userRepo, tokenService)
	customerService := services.NewCustomerService(customerRepo, logger)
	productService := services.NewProductService(productRepo, logger)
	orderService := services.NewOrderService(orderRepo, customerRepo, productRepo, whatsappClient, logger)
	reminderService := services.NewReminderService(customerRepo, orderRepo, whatsappClient, logger)

	cacheManager := controllers.NewCacheManager(redisClient)

	authController := controllers.NewAuthController(authService)
	customerController := controllers.NewCustomerController(customerService)
	productController := controllers.NewProductController(productService, cacheManager)
	orderController := controllers.NewOrderController(orderService)
	notificationController := controllers.NewNotificationController(reminderService, logger)

	// Daily reminder scheduler
	reminderScheduler := scheduler.NewReminderScheduler(reminderService, cfg.ReminderCheckHour, cfg.ReminderCheckMinute, logger)
	if cfg.SchedulerEnabled {
		reminderScheduler.Start()
	} else {
		logger.Info("Reminder scheduler disabled by configuration")
	}

	// Router
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RateLimitMiddleware())

	// Request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	// Request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, tokenService, authController, customerController, productController, orderController, notificationController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// HTTP server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Delivery service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	reminderScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("Delivery service stopped gracefully")
}
