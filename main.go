package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/BekmurodFoziloff/e-commerce/cache"
	"github.com/BekmurodFoziloff/e-commerce/common/logger"
	"github.com/BekmurodFoziloff/e-commerce/config"
	"github.com/BekmurodFoziloff/e-commerce/controllers"
	"github.com/BekmurodFoziloff/e-commerce/database"
	"github.com/BekmurodFoziloff/e-commerce/middleware"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"github.com/BekmurodFoziloff/e-commerce/routes"
	"github.com/BekmurodFoziloff/e-commerce/sender"
	"github.com/BekmurodFoziloff/e-commerce/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Initialize(cfg.Env)
	defer func() { _ = logger.Log.Sync() }()

	db, err := database.NewMongoDatabase(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheStore := cache.NewRedisStore(redisClient, cfg.CacheTTL)

	mailSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		logger.Log.Fatal("Failed to configure SMTP sender", zap.Error(err))
	}

	users := repository.NewMongoUserRepository(db)
	products := repository.NewMongoProductRepository(db)
	orders := repository.NewMongoOrderRepository(db, cfg.PageSize)
	payments := repository.NewMongoPaymentRepository(db, cfg.PageSize)

	cartService := services.NewCartService(cacheStore, products, cfg.CartTTL)
	orderService := services.NewOrderService(orders, products, users, cartService, cacheStore, mailSender)
	paymentService := services.NewPaymentService(payments, services.NewStripeGateway(cfg.StripeKey), cacheStore)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(cors.Default())

	routes.Register(
		router,
		middleware.Auth(users, cfg.JWTSecret),
		middleware.IsCustomerOrder(orderService),
		middleware.IsCustomerPayment(paymentService),
		controllers.NewCartController(cartService, cfg.CartTTL),
		controllers.NewOrderController(orderService),
		controllers.NewPaymentController(paymentService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Log.Warn("Failed to close Redis client", zap.Error(err))
	}
	if err := db.Client().Disconnect(context.Background()); err != nil {
		logger.Log.Warn("Failed to disconnect MongoDB client", zap.Error(err))
	}
	logger.Log.Info("Server shutdown complete")
}
