package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sosgog-storefront/cart"
	"sosgog-storefront/config"
	"sosgog-storefront/database"
	"sosgog-storefront/firebase"
	"sosgog-storefront/messaging"
	"sosgog-storefront/middleware"
	"sosgog-storefront/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}

	settings := config.LoadStoreSettings()
	queues := config.LoadQueues()

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create default admin user if not exists
	if err := database.CreateDefaultAdmin(db); err != nil {
		log.Printf("Warning: Could not create default admin: %v", err)
	}

	if config.GetEnvAsBool("SEED_CATALOG", false) {
		if err := database.SeedCatalog(db); err != nil {
			log.Printf("Warning: Could not seed catalog: %v", err)
		}
	}

	//firebase init
	firebase.Init()
	storageClient := firebase.NewStorageClient()

	// Carts survive restarts only when Redis is configured
	var persister cart.Persister
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		client := cart.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"))
		redisPersister := cart.NewRedisPersister(client)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisPersister.Ping(pingCtx); err != nil {
			log.Printf("WARNING: Redis at %s unreachable, carts kept in memory only: %v", addr, err)
		} else {
			persister = redisPersister
			log.Printf("Cart sessions persisted to Redis at %s", addr)
		}
		cancelPing()
		defer client.Close()
	}
	sessions := cart.NewSessionStore(settings.CartSessionTTL, persister)

	var publisher messaging.Publisher = messaging.LogPublisher{}
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		pool, err := messaging.NewChannelPool(url, config.GetEnvAsInt("RABBITMQ_POOL_SIZE", 5), queues.Orders, queues.Applications)
		if err != nil {
			log.Printf("WARNING: RabbitMQ unavailable, events will only be logged: %v", err)
		} else {
			publisher = messaging.NewRabbitPublisher(pool)
			defer pool.Close()
		}
	}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()
	applicationLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer applicationLimiter.Stop()
	cartLimiter := middleware.NewRateLimiter(config.GetEnvAsInt("CART_RATE_LIMIT", 120), time.Minute)
	defer cartLimiter.Stop()

	// Setup Gin router
	r := gin.Default()

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		log.Println("WARNING: No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.CartSessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.CartSessionHeader},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:                 db,
		Storage:            storageClient,
		Sessions:           sessions,
		Publisher:          publisher,
		Settings:           settings,
		Queues:             queues,
		LoginLimiter:       loginLimiter,
		ApplicationLimiter: applicationLimiter,
		CartLimiter:        cartLimiter,
	})

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server exited gracefully")
}
