package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/controllers"
	"github.com/kendall-kelly/cleanrush-laundry-api/middleware"
	"github.com/kendall-kelly/cleanrush-laundry-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	config.SetLogger(logger)

	logger.Info("Starting CleanRush Laundry API server...",
		zap.String("env", cfg.GoEnv),
		zap.String("store", cfg.StoreDriver),
	)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	prices, err := services.PriceTableFromConfig(cfg.Prices)
	if err != nil {
		logger.Fatal("Invalid price table", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := newOrderStore(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("Failed to open order store", zap.Error(err))
	}
	logger.Info("Order store ready", zap.String("backend", store.Name()))

	services.InitOrderService(store, prices,
		services.WithLocation(loc),
		services.WithFeed(services.NewOrderFeed()),
	)

	gin.SetMode(ginMode(cfg))
	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	logger.Info("Server is running", zap.String("addr", "http://localhost"+addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newOrderStore opens the order store selected by STORE_DRIVER
func newOrderStore(ctx context.Context, cfg *config.Config) (services.OrderStore, error) {
	switch cfg.StoreDriver {
	case config.StoreFile:
		return services.NewFileStore(cfg.DataDir, cfg.StorageKey)
	case config.StoreSQLite, config.StorePostgres:
		if err := config.ConnectDatabase(cfg); err != nil {
			return nil, err
		}
		return services.NewGormStore(config.GetDB(), cfg.StorageKey), nil
	case config.StoreRedis:
		store := services.NewRedisStore(services.NewRedisClient(cfg), cfg.StorageKey)
		if err := store.Ping(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreS3:
		client, err := services.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return services.NewS3Store(client, cfg.AWSS3Bucket, cfg.StorageKey), nil
	case config.StoreMemory:
		return services.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// ginMode keeps gin's debug output for local development only
func ginMode(cfg *config.Config) string {
	switch {
	case cfg.IsDevelopment():
		return gin.DebugMode
	case cfg.IsTest():
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// setupRouter creates the gin engine with middleware and every route
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(config.Logger()))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AddAllowHeaders(middleware.AdminPINHeader)
	corsConfig.AddExposeHeaders("Content-Disposition")
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Order store status endpoint
		v1.GET("/store/status", storeStatus)

		// Public order desk
		v1.GET("/prices", controllers.GetPrices)
		v1.GET("/stages", controllers.GetStages)
		v1.POST("/quote", controllers.QuotePrice)
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders/:code", controllers.GetOrder)
		v1.GET("/orders/:code/share", controllers.GetOrderShareLink)

		v1.POST("/admin/login", controllers.AdminLogin(cfg))

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdminPIN(cfg))
		{
			admin.GET("/orders", controllers.ListOrders)
			admin.GET("/orders/export", controllers.ExportOrders)
			admin.GET("/orders/stream", controllers.StreamOrders)
			admin.POST("/orders/:code/advance", controllers.AdvanceOrder)
			admin.POST("/orders/:code/retreat", controllers.RetreatOrder)
			admin.DELETE("/orders/:code", controllers.DeleteOrder)
			admin.DELETE("/orders", controllers.ResetOrders)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CleanRush Laundry API is running",
	})
}

// storeStatus checks that the order store is reachable
func storeStatus(c *gin.Context) {
	svc := services.GetOrderService()
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_NOT_CONFIGURED",
				"message": "Order store is not configured",
			},
		})
		return
	}

	store := svc.Store()
	if err := store.Ping(c.Request.Context()); err != nil {
		config.Logger().Warn("Order store ping failed", zap.String("backend", store.Name()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_CONNECTION_ERROR",
				"message": "Order store is unreachable",
			},
		})
		return
	}

	orders, err := svc.ListOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_QUERY_ERROR",
				"message": "Failed to read orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order store connected",
		"backend": store.Name(),
		"orders":  len(orders),
	})
}
