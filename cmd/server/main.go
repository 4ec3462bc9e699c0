package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phongtro-app/notify-service/internal/admin"
	"github.com/phongtro-app/notify-service/internal/auth"
	"github.com/phongtro-app/notify-service/internal/config"
	"github.com/phongtro-app/notify-service/internal/firebase"
	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/notify"
	"github.com/phongtro-app/notify-service/internal/triggers"
)

func main() {
	config.LoadConfig()

	log := logger.New(logger.FromConfig(config.AppConfig.LogLevel, config.AppConfig.LogFormat))

	// Set Gin mode
	gin.SetMode(config.AppConfig.GinMode)

	// One Firebase client bundle for the process lifetime.
	ctx := context.Background()
	fb, err := firebase.NewClient(ctx, config.AppConfig.FirebaseProjectID, config.AppConfig.FirebaseCredJSON)
	if err != nil {
		log.Error("Failed to initialize Firebase", "error", err)
		os.Exit(1)
	}
	defer fb.Close()

	// Initialize services
	notifyService := notify.NewService(fb, log, config.AppConfig.PushNotificationsEnabled)
	domainStore := triggers.NewFirestoreStore(fb.Firestore, log)
	triggerRouter := triggers.NewRouter(notifyService, domainStore, log)
	adminService := admin.NewService(fb.Auth, admin.NewFirestoreProfiles(fb.Firestore), log)

	// Initialize handlers
	notifyHandler := notify.NewHandler(notifyService, log)
	triggerHandler := triggers.NewHandler(triggerRouter, log)
	adminHandler := admin.NewHandler(adminService, log)

	firebaseAuth := auth.NewFirebaseAuthMiddleware(fb.Auth)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLoggingMiddleware(log))

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", config.AppConfig.CORSAllowedOrigins)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check and metrics (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Trigger transport delivers change events here. Authenticated at the
	// infrastructure layer (private ingress), not per request.
	router.POST("/triggers/firestore", triggerHandler.HandleChangeEvent)

	// Operator-facing routes require a Firebase ID token.
	api := router.Group("/api/v1")
	api.Use(firebaseAuth.RequireAuth())
	{
		api.POST("/notifications/test", notifyHandler.SendTestNotification)

		adminRoutes := api.Group("/admin")
		adminRoutes.Use(firebaseAuth.RequireAdmin())
		{
			adminRoutes.POST("/role", adminHandler.GrantRole)
		}
	}

	port := ":" + config.AppConfig.Port
	log.Info("notification service listening", "port", port)

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.AppConfig.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
