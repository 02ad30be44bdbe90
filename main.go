package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"oncology-dashboard/internal/apiclient"
	"oncology-dashboard/internal/config"
	"oncology-dashboard/internal/middleware"
	"oncology-dashboard/internal/routes"
	"oncology-dashboard/internal/session"
	"oncology-dashboard/internal/store"
)

func main() {
	// Load environment variables; a missing .env file is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Session storage: durable when the database opens, memory otherwise
	var durable store.Store
	if cfg.Store.Driver != "memory" {
		db, err := store.OpenDB(cfg.Store)
		if err != nil {
			slog.Warn("session database unavailable, keeping the session in memory",
				"driver", cfg.Store.Driver, "error", err)
		} else if cfg.Store.Secret != "" {
			if durable, err = store.NewSealedDBStore(db, cfg.Store.Secret); err != nil {
				log.Fatalf("Error configuring session encryption: %v", err)
			}
		} else {
			durable = store.NewDBStore(db)
		}
	}
	tokens := store.NewResilient(durable)

	// Session and backend clients
	auth := apiclient.NewAuthClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	sess := session.NewManager(tokens, auth)
	client := apiclient.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, sess, auth)
	sess.Restore()
	slog.Info("session restored", "status", sess.Snapshot().Status.String())

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Location", "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Dependencies{
		Config:  cfg,
		Session: sess,
		Auth:    auth,
		Client:  client,
	})

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("dashboard server running", "port", cfg.Port, "backend", cfg.Backend.BaseURL)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
