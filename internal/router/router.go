package router

import (
	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/config"
	"github.com/minhtvo/storefront-gateway/internal/app/controller"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
)

type Router struct {
	sessionController       *controller.SessionController
	authController          *controller.AuthController
	cartController          *controller.CartController
	wishlistController      *controller.WishlistController
	checkoutController      *controller.CheckoutController
	paymentReturnController *controller.PaymentReturnController
	orderController         *controller.OrderController
	reviewController        *controller.ReviewController
	chatController          *controller.ChatController
	uploadController        *controller.UploadController
	sessionMiddleware       *middleware.SessionMiddleware
	config                  *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	authController *controller.AuthController,
	cartController *controller.CartController,
	wishlistController *controller.WishlistController,
	checkoutController *controller.CheckoutController,
	paymentReturnController *controller.PaymentReturnController,
	orderController *controller.OrderController,
	reviewController *controller.ReviewController,
	chatController *controller.ChatController,
	uploadController *controller.UploadController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController:       sessionController,
		authController:          authController,
		cartController:          cartController,
		wishlistController:      wishlistController,
		checkoutController:      checkoutController,
		paymentReturnController: paymentReturnController,
		orderController:         orderController,
		reviewController:        reviewController,
		chatController:          chatController,
		uploadController:        uploadController,
		sessionMiddleware:       sessionMiddleware,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront gateway is running",
		})
	})

	requireSession := r.sessionMiddleware.Require()
	requireUser := r.sessionMiddleware.RequireUser()

	v1 := router.Group("/api/v1")
	{
		session := v1.Group("/session")
		{
			session.POST("", r.sessionController.Create)
			session.GET("", requireSession, r.sessionController.Get)
		}

		auth := v1.Group("/auth", requireSession)
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", requireUser, r.authController.Me)
			auth.PUT("/profile", requireUser, r.authController.UpdateProfile)
		}

		cart := v1.Group("/cart", requireSession)
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PUT("/items/:id", r.cartController.UpdateQuantity)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		wishlist := v1.Group("/wishlist", requireSession)
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.POST("/items", r.wishlistController.AddToWishlist)
			wishlist.DELETE("/items/:id", r.wishlistController.RemoveFromWishlist)
			wishlist.POST("/toggle", r.wishlistController.Toggle)
		}

		checkout := v1.Group("/checkout", requireSession)
		{
			checkout.POST("/start", r.checkoutController.Start)
			checkout.POST("/shipping", r.checkoutController.SubmitShipping)
			checkout.POST("/payment", r.checkoutController.SubmitPayment)
			checkout.GET("", r.checkoutController.State)
			checkout.DELETE("", r.checkoutController.Cancel)
		}

		payment := v1.Group("/payment", requireSession)
		{
			payment.GET("/momo/return", r.paymentReturnController.MomoReturn)
			payment.GET("/vnpay/return", r.paymentReturnController.VnpayReturn)
		}

		orders := v1.Group("/orders", requireSession, requireUser)
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/export", r.orderController.ExportOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		// Store-staff lookup of any order, regardless of which session
		// placed it
		admin := v1.Group("/admin", requireSession, r.sessionMiddleware.RequireAdmin())
		{
			admin.GET("/orders/:id", r.orderController.GetOrder)
		}

		products := v1.Group("/products")
		{
			products.GET("/:id/reviews", r.reviewController.ProductReviews)
			products.POST("/:id/reviews", requireSession, requireUser, r.reviewController.AddReview)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/:id/responses", r.reviewController.ReviewResponses)
		}

		chat := v1.Group("/chat", requireSession)
		{
			chat.POST("", r.chatController.Ask)
			chat.GET("/history", r.chatController.History)
			chat.DELETE("", r.chatController.Reset)
			chat.GET("/ws", r.chatController.Connect)
		}

		uploads := v1.Group("/uploads", requireSession, requireUser)
		{
			uploads.POST("/avatar", r.uploadController.PresignAvatar)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
