package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food_marketplace/internal/config"
	"food_marketplace/internal/handler"
	"food_marketplace/internal/logger"
	"food_marketplace/internal/middleware"
	"food_marketplace/internal/notifier"
	"food_marketplace/internal/repository"
	"food_marketplace/internal/service"
	"food_marketplace/internal/tracking"
	"food_marketplace/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Hour
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New("food-marketplace", !cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	for _, w := range cfg.Warnings {
		appLog.Warn(context.Background(), "config_fallback", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.UploadsDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create uploads directory %s: %v", cfg.UploadsDir, err)
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, appLog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool, appLog); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Event Notifier ---
	// The broker is optional: orders still work when it is down, events
	// just reach the websocket subscribers only.
	publisher := notifier.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange,
		cfg.AMQP.ConnectTimeout, cfg.AMQP.PublishTimeout, appLog)
	if err := publisher.Connect(ctx); err != nil {
		appLog.Warn(ctx, "notifier_unavailable", "Continuing without message broker", "error", err.Error())
	}
	hub := tracking.NewHub(appLog)
	events := notifier.Fanout{publisher, hub}

	policy, err := service.NewTransitionPolicy(cfg.TransitionPolicy)
	if err != nil {
		log.Fatalf("Invalid transition policy: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	restaurantRepo := repository.NewRestaurantRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	sessionRepo := repository.NewSessionRepository(dbPool)

	// --- Initialize Services ---
	jwtUtil := utils.NewJWTUtil(cfg.Session.Secret, cfg.Session.TTL)
	guard := service.NewAccessGuard(sessionRepo, userRepo, jwtUtil, appLog)
	images := service.NewImageStore(cfg.UploadsDir)

	authService := service.NewAuthService(userRepo, restaurantRepo, guard, appLog)
	catalogService := service.NewCatalogService(restaurantRepo, images)
	customerService := service.NewCustomerService(userRepo, restaurantRepo)
	orderService := service.NewOrderService(orderRepo, restaurantRepo, events, policy, appLog)

	// --- Initialize Handlers ---
	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}
	render := handler.NewRenderer(appLog, cfg.IsProduction())
	authHandler := handler.NewAuthHandler(authService, guard, render, cfg.Session.TTL, cfg.Session.SecureCookie)
	publicHandler := handler.NewPublicHandler(catalogService, render)
	customerHandler := handler.NewCustomerHandler(customerService, orderService, render)
	restaurantHandler := handler.NewRestaurantHandler(catalogService, orderService, render)
	orderHandler := handler.NewOrderHandler(orderService, hub, render, cfg.CORSOrigin)

	// --- Setup Gin Router ---
	router := gin.New()
	router.Use(middleware.Recovery(appLog), middleware.RequestLogger(appLog))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Static("/uploads", cfg.UploadsDir)

	// --- Initialize Middlewares ---
	authMW := middleware.SessionAuthMiddleware(guard)
	customerMW := middleware.CustomerMiddleware()
	restaurantMW := middleware.RestaurantMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	publicHandler.RegisterPublicRoutes(apiGroup)
	authHandler.RegisterAuthRoutes(apiGroup, authMW)
	customerHandler.RegisterCustomerRoutes(apiGroup, authMW, customerMW)
	restaurantHandler.RegisterRestaurantRoutes(apiGroup, authMW, restaurantMW)
	orderHandler.RegisterOrderRoutes(apiGroup, authMW)

	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"db":     "healthy",
			"broker": publisher.Connected(),
		})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info(gctx, "server_start", "Server starting", "port", cfg.ServerPort, "policy", cfg.TransitionPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n, err := guard.PurgeExpired(gctx)
				if err != nil {
					appLog.Error(gctx, "session_purge", "Failed to purge expired sessions", err)
					continue
				}
				appLog.Info(gctx, "session_purge", "Purged expired sessions", "count", n)
			}
		}
	})

	// --- Graceful Shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info(context.Background(), "server_shutdown", "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return publisher.Shutdown()
	})

	if err := g.Wait(); err != nil {
		appLog.Error(context.Background(), "server_exit", "Server stopped with error", err)
		os.Exit(1)
	}
	appLog.Info(context.Background(), "server_exit", "Server exited")
}
