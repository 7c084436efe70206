package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/api/handlers"
	"github.com/wempy/storefront/internal/api/middleware"
)

// NewRouter creates and configures the Gin router
func NewRouter(deps *handlers.Deps, logger *zap.Logger) *gin.Engine {
	cfg := deps.Config
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes, all scoped to the caller's browser profile
	v1 := router.Group("/v1")
	v1.Use(middleware.ProfileMiddleware(cfg.Environment == "production", logger))
	{
		v1.GET("/menu", handlers.HandleGetMenu(deps, logger))
		v1.POST("/menu/items", handlers.HandleAddMenuItem(deps, logger))

		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", handlers.HandleGetCart(deps, logger))
			cartRoutes.POST("/items/:index/increment", handlers.HandleIncrementItem(deps, logger))
			cartRoutes.POST("/items/:index/decrement", handlers.HandleDecrementItem(deps, logger))
			cartRoutes.PUT("/items/:index", handlers.HandleSetQuantity(deps, logger))
			cartRoutes.DELETE("/items/:index", handlers.HandleRemoveItem(deps, logger))
		}

		checkoutRoutes := v1.Group("/checkout")
		{
			checkoutRoutes.GET("", handlers.HandleGetCheckout(deps, logger))
			checkoutRoutes.PUT("/zone", handlers.HandleSelectZone(deps, logger))
			checkoutRoutes.PUT("/payment", handlers.HandleSelectPayment(deps, logger))
			checkoutRoutes.PATCH("/address", handlers.HandleEditAddress(deps, logger))
			checkoutRoutes.PUT("/notes", handlers.HandleSetNotes(deps, logger))
			checkoutRoutes.GET("/addresses", handlers.HandleListAddresses(deps, logger))
			checkoutRoutes.POST("/addresses/:id/select", handlers.HandleSelectAddress(deps, logger))
			checkoutRoutes.POST("/submit", handlers.HandleSubmitOrder(deps, logger))
		}

		accountRoutes := v1.Group("/account")
		{
			accountRoutes.GET("", handlers.HandleGetAccount(deps, logger))
			accountRoutes.GET("/orders", handlers.HandleGetOrders(deps, logger))
			accountRoutes.POST("/register", handlers.HandleRegister(deps, logger))
			accountRoutes.POST("/login", handlers.HandleLogin(deps, logger))
			accountRoutes.POST("/logout", handlers.HandleLogout(deps, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// corsMiddleware admits the browser UI. With credentials allowed a "*"
// entry is served by reflecting the caller's origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.ProfileHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
