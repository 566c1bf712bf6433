package routes

import (
	"time"

	"sosgog-storefront/cart"
	"sosgog-storefront/catalog"
	"sosgog-storefront/config"
	"sosgog-storefront/firebase"
	"sosgog-storefront/handlers"
	"sosgog-storefront/messaging"
	"sosgog-storefront/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the handlers are built from. Nil rate limiters
// are replaced with the defaults.
type Deps struct {
	DB        *gorm.DB
	Catalog   catalog.Catalog
	Storage   firebase.StorageClient
	Sessions  *cart.SessionStore
	Publisher messaging.Publisher
	Settings  config.StoreSettings
	Queues    config.Queues

	LoginLimiter       *middleware.RateLimiter
	ApplicationLimiter *middleware.RateLimiter
	CartLimiter        *middleware.RateLimiter
}

func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Catalog == nil {
		d.Catalog = catalog.NewGormCatalog(d.DB)
	}
	if d.Sessions == nil {
		d.Sessions = cart.NewSessionStore(d.Settings.CartSessionTTL, nil)
	}
	if d.LoginLimiter == nil {
		d.LoginLimiter = middleware.NewRateLimiter(10, time.Minute)
	}
	if d.ApplicationLimiter == nil {
		d.ApplicationLimiter = middleware.NewRateLimiter(5, time.Minute)
	}
	if d.CartLimiter == nil {
		d.CartLimiter = middleware.NewRateLimiter(120, time.Minute)
	}

	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: d.DB}
	productHandler := &handlers.ProductHandler{DB: d.DB, Catalog: d.Catalog, Storage: d.Storage}
	cartHandler := &handlers.CartHandler{Catalog: d.Catalog, Sessions: d.Sessions, Currency: d.Settings.Currency}
	checkoutHandler := &handlers.CheckoutHandler{
		DB:        d.DB,
		Sessions:  d.Sessions,
		Publisher: d.Publisher,
		Settings:  d.Settings,
		Queue:     d.Queues.Orders,
	}
	orderHandler := &handlers.OrderHandler{DB: d.DB}
	applicationHandler := &handlers.ApplicationHandler{
		DB:        d.DB,
		Storage:   d.Storage,
		Publisher: d.Publisher,
		Queue:     d.Queues.Applications,
	}

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/login", d.LoginLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/refresh", d.LoginLimiter.Middleware(), authHandler.RefreshTokenHandler)

		// Catalog
		api.GET("/categories", productHandler.GetCategories)
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.POST("/products/:id/price", productHandler.QuotePrice)

		// Order confirmation lookup
		api.GET("/orders/:number", orderHandler.GetOrderByNumber)

		// Designer onboarding
		api.POST("/applications/validate", applicationHandler.ValidateStep)
		api.POST("/applications", d.ApplicationLimiter.Middleware(), applicationHandler.Submit)
		api.POST("/applications/:id/attachments", d.ApplicationLimiter.Middleware(), applicationHandler.UploadAttachments)
	}

	// Cart and checkout are keyed by the cart session header. The limiter
	// runs first so throttled callers never create sessions.
	shop := api.Group("")
	shop.Use(d.CartLimiter.Middleware(), middleware.CartSession(d.Sessions))
	{
		shop.GET("/cart", cartHandler.GetCart)
		shop.POST("/cart", cartHandler.AddToCart)
		shop.PUT("/cart/open", cartHandler.SetCartOpen)
		shop.PUT("/cart/:id", cartHandler.UpdateCartItem)
		shop.DELETE("/cart/:id", cartHandler.RemoveFromCart)

		shop.GET("/checkout/summary", checkoutHandler.GetSummary)
		shop.POST("/checkout", checkoutHandler.PlaceOrder)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", orderHandler.GetAdminDashboard)

		// Catalog management
		admin.POST("/categories", productHandler.CreateCategory)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.POST("/products/:id/options", productHandler.AddOption)
		admin.PUT("/option-values/:id", productHandler.UpdateOptionValue)
		admin.POST("/products/:id/images", productHandler.UploadProductImage)
		admin.DELETE("/products/:id/images/:imageId", productHandler.DeleteProductImage)

		// Order management
		admin.GET("/orders", orderHandler.ListOrders)
		admin.GET("/orders/transitions", orderHandler.GetOrderTransitions)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

		// Designer applications
		admin.GET("/applications", applicationHandler.ListApplications)
		admin.GET("/applications/:id", applicationHandler.GetApplication)
		admin.PUT("/applications/:id/status", applicationHandler.UpdateApplicationStatus)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
