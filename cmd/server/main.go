package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhtvo/storefront-gateway/config"
	"github.com/minhtvo/storefront-gateway/internal/app/controller"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
	"github.com/minhtvo/storefront-gateway/internal/router"
	"github.com/minhtvo/storefront-gateway/internal/scheduler"
	"github.com/minhtvo/storefront-gateway/internal/storage"
	"github.com/minhtvo/storefront-gateway/internal/websocket"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

// reviewCacheTTL is how long a review fetch stays servable after the
// commerce API goes down
const reviewCacheTTL = 7 * 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting storefront gateway", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"backend":     cfg.Snapshot.Backend,
		"log_level":   logLevel,
	})

	// Snapshot store backend
	kvStore, err := openSnapshotStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open snapshot store", err)
	}
	defer func() {
		if err := kvStore.Close(); err != nil {
			logger.Error("Failed to close snapshot store", err)
		}
	}()

	// Commerce API client
	client, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create commerce API client", err)
	}

	// Session-scoped state containers
	ttl := cfg.Session.TTL
	sessions := store.NewSessionStore(kvStore, ttl)
	carts := store.NewCartStore(kvStore, ttl)
	wishlists := store.NewWishlistStore(kvStore, ttl)
	checkouts := store.NewCheckoutStore(kvStore, ttl)
	orders := store.NewOrderStore(kvStore, ttl)
	chats := store.NewChatStore(kvStore, ttl, cfg.Chat.HistoryLimit)
	reviewCache := store.NewReviewCache(kvStore, reviewCacheTTL)

	// Push hub: open tabs of a session see each other's changes
	hub := websocket.NewHub()
	go hub.Run()
	carts.Subscribe(func(sessionID string) {
		hub.SendToSession(sessionID, websocket.Event{Type: "cart_updated"})
	})
	wishlists.Subscribe(func(sessionID string) {
		hub.SendToSession(sessionID, websocket.Event{Type: "wishlist_updated"})
	})

	// Services
	authService := service.NewAuthService(sessions, client, kvStore, cfg.Auth.DemoMode, cfg.Auth.AdminEmail)
	cartService := service.NewCartService(carts, client)
	wishlistService := service.NewWishlistService(wishlists, client)
	checkoutService := service.NewCheckoutService(sessions, carts, orders, checkouts, client)
	returnService := service.NewPaymentReturnService(orders, checkouts, client)
	orderService := service.NewOrderService(sessions, orders, client)
	reviewService := service.NewReviewService(sessions, reviewCache, client)
	chatService := service.NewChatService(chats, client)

	// S3 storage for avatar uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	sessionController := controller.NewSessionController(sessions, cfg.Session.JWTSecret, cfg.Session.TokenExpiry)
	authController := controller.NewAuthController(authService)
	cartController := controller.NewCartController(cartService)
	wishlistController := controller.NewWishlistController(wishlistService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	paymentReturnController := controller.NewPaymentReturnController(returnService)
	orderController := controller.NewOrderController(orderService)
	reviewController := controller.NewReviewController(reviewService)
	chatController := controller.NewChatController(chatService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	// Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session.JWTSecret, sessions)

	// Snapshot janitor
	janitor := scheduler.NewSnapshotJanitor(kvStore, checkouts)
	if err := janitor.Start(); err != nil {
		logger.Fatal("Failed to start snapshot janitor", err)
	}
	defer janitor.Stop()

	// Setup router
	r := router.NewRouter(
		sessionController,
		authController,
		cartController,
		wishlistController,
		checkoutController,
		paymentReturnController,
		orderController,
		reviewController,
		chatController,
		uploadController,
		sessionMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

func openSnapshotStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Snapshot.Backend {
	case "redis":
		return kv.NewRedisStore(&cfg.Snapshot.Redis)
	case "postgres":
		return kv.NewGormStore(&cfg.Snapshot.Postgres)
	case "memory":
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.Snapshot.Backend)
	}
}
