package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"storefront-service/database"
	"storefront-service/infra/broker"
	"storefront-service/infra/cache"
	"storefront-service/infra/email"
	"storefront-service/infra/handlers"
	"storefront-service/infra/metrics"
	"storefront-service/infra/storage"
	"storefront-service/infra/utils"
	"storefront-service/purchase"
	"storefront-service/service"
	"storefront-service/siteconfig"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	db := database.InitDatabase()
	defer db.Close()

	minio := storage.InitMinIO()
	redis := cache.InitRedis()
	defer redis.Close()
	rabbitmq := broker.InitRabbitMQ()
	defer rabbitmq.Close()
	smtp := email.InitSMTP()

	provider := siteconfig.NewProvider(db, redis)
	wallets := siteconfig.NewWalletRepository(db, redis, provider)

	catalog := service.NewCatalogService(db, minio)
	media := service.NewMediaService(db, minio)
	admin := service.NewAdminService(db, minio, rabbitmq, provider, wallets)
	flow := purchase.NewController(db, redis, rabbitmq, provider)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker := service.NewNotificationWorker(1, rabbitmq, smtp)
	go worker.Start(workerCtx)

	router := setupRouter(db, minio, redis, rabbitmq, catalog, media, admin, flow, provider)

	listener, port := listenWithFallback(utils.GetEnv("PORT", "3000"))

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✅ Storefront Service starting on port %s", port)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// listenWithFallback binds the configured port, scanning the next nine
// when it is taken. Operational convenience for local runs, not part of
// the request contract.
func listenWithFallback(defaultPort string) (net.Listener, string) {
	base, err := strconv.Atoi(defaultPort)
	if err != nil {
		log.Fatalf("Invalid port %q: %v", defaultPort, err)
	}

	for offset := 0; offset <= 9; offset++ {
		port := strconv.Itoa(base + offset)
		listener, err := net.Listen("tcp", ":"+port)
		if err == nil {
			if offset > 0 {
				log.Printf("Port %s was taken, using %s", defaultPort, port)
			}
			return listener, port
		}
	}

	log.Fatalf("No free port in range %d-%d", base, base+9)
	return nil, ""
}

func setupRouter(db *database.Database, minio *storage.MinIOClient, redis *cache.RedisClient, rabbitmq *broker.RabbitMQClient, catalog *service.CatalogService, media *service.MediaService, admin *service.AdminService, flow *purchase.Controller, provider *siteconfig.Provider) *gin.Engine {
	if utils.GetEnv("GIN_MODE", "debug") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(metrics.PrometheusMiddleware())
	router.Use(handlers.CorsMiddleware())
	router.Use(handlers.SessionMiddleware())

	router.GET("/", handlers.Root)
	router.GET("/health", healthCheck)
	router.GET("/health/live", livenessProbe)
	router.GET("/health/ready", readinessProbe(db, minio, redis, rabbitmq))
	router.GET("/metrics", metrics.MetricsHandler)

	checkoutHandler := handlers.NewCheckoutHandler(provider, flow)
	router.POST("/api/create-checkout-session", checkoutHandler.CreateCheckoutSession)

	api := router.Group("/api/v1")
	{
		storefrontHandler := handlers.NewStorefrontHandler(catalog, media, provider)
		api.GET("/videos", storefrontHandler.ListVideos)
		api.GET("/videos/:id", storefrontHandler.GetVideo)
		api.GET("/videos/:id/playback", storefrontHandler.Playback)
		api.POST("/videos/:id/views", storefrontHandler.IncrementViews)
		api.GET("/config", storefrontHandler.GetConfig)

		purchaseHandler := handlers.NewPurchaseHandler(flow, db, provider, nil)
		purchases := api.Group("/purchase/:id")
		{
			purchases.GET("/options", purchaseHandler.Options)
			purchases.GET("/state", purchaseHandler.State)
			purchases.POST("/choose", purchaseHandler.Choose)
			purchases.POST("/paypal/create", purchaseHandler.PayPalCreate)
			purchases.POST("/paypal/capture", purchaseHandler.PayPalCapture)
			purchases.POST("/card/confirm", purchaseHandler.CardConfirm)
			purchases.POST("/confirm", purchaseHandler.Confirm)
			purchases.GET("/access", purchaseHandler.Access)
			purchases.GET("/receipt", purchaseHandler.Receipt)
			purchases.POST("/crypto/copy", purchaseHandler.CopyWallet)
		}

		adminHandler := handlers.NewAdminHandler(admin, db, provider)
		api.POST("/admin/login", adminHandler.Login)

		adminRoutes := api.Group("/admin")
		adminRoutes.Use(handlers.AuthMiddleware())
		{
			adminRoutes.GET("/videos", adminHandler.ListVideos)
			adminRoutes.POST("/videos", adminHandler.CreateVideo)
			adminRoutes.PUT("/videos/:id", adminHandler.UpdateVideo)
			adminRoutes.DELETE("/videos/:id", adminHandler.DeleteVideo)

			adminRoutes.GET("/users", adminHandler.ListUsers)
			adminRoutes.POST("/users", adminHandler.CreateUser)
			adminRoutes.PUT("/users/:id", adminHandler.UpdateUser)
			adminRoutes.DELETE("/users/:id", adminHandler.DeleteUser)

			adminRoutes.GET("/config", adminHandler.GetConfig)
			adminRoutes.PUT("/config", adminHandler.SaveConfig)
			adminRoutes.POST("/config/wallets", adminHandler.AddWallet)
			adminRoutes.DELETE("/config/wallets/:index", adminHandler.RemoveWallet)
		}
	}

	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storefront-service",
		"version": "1.0.0",
		"time":    time.Now().Unix(),
	})
}

func livenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func readinessProbe(db *database.Database, minio *storage.MinIOClient, redis *cache.RedisClient, rabbitmq *broker.RabbitMQClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database connection failed"})
			return
		}
		if err := minio.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "minio connection failed"})
			return
		}
		if err := redis.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "redis connection failed"})
			return
		}
		if err := rabbitmq.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "rabbitmq connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
