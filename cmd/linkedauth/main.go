package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/y0ug/linkedauth/internal/database"
	"github.com/y0ug/linkedauth/internal/notifications"
	"github.com/y0ug/linkedauth/internal/webserver"
	"github.com/y0ug/linkedauth/pkg/auth"
)

func main() {
	ctx := context.Background()

	// Initialize Logrus
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found. Proceeding with environment variables.")
	}

	// Load database configuration
	dbConfig, err := database.LoadDatabaseConfig()
	if err != nil {
		logger.Fatalf("Failed to load database configuration: %v", err)
	}

	// Initialize Database
	var db database.Database
	switch dbConfig.Type {
	case "bolt":
		db, err = database.NewBoltDB(dbConfig.Path, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize BoltDB: %v", err)
		}
		logger.Info("BoltDB initialized successfully")
	case "redis":
		db, err = database.NewRedisDB(dbConfig)
		if err != nil {
			logger.Fatalf("Failed to initialize RedisDB: %v", err)
		}
		logger.Info("RedisDB initialized successfully")
	default:
		logger.Fatalf("Unsupported database type: %s", dbConfig.Type)
	}
	defer db.Close(ctx)

	// Initialize Auth Config
	authConfig, err := auth.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to initialize auth config: %v", err)
	}

	// Initialize Auth Handler
	authHandler, err := auth.NewHandler(authConfig, db, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize auth handler: %v", err)
	}
	logger.Infof("Requesting OAuth scopes: %v", authConfig.Scopes)

	// Load notification configuration
	notificationCfg, err := notifications.LoadNotificationConfig()
	if err != nil {
		logger.Fatalf("Failed to load notification configuration: %v", err)
	}

	if notificationCfg.Enabled() {
		notifier, err := notifications.NewNotifier(notificationCfg)
		if err != nil {
			logger.Fatalf("Failed to initialize notifier: %v", err)
		}
		authHandler.Notifier = notifier
		logger.Info("Notifier initialized successfully")
	}

	webServerConfig, err := webserver.NewWebserverConfig()
	if err != nil {
		logger.Fatalf("Failed to load webserver configuration: %v", err)
	}

	// Initialize Web Server
	webServer := webserver.NewWebServer(webServerConfig, authHandler, logger)

	server, err := webserver.StartWebServer(ctx, webServer)
	if err != nil {
		logger.Fatalf("Failed to start web server: %v", err)
	}

	// Listen for OS signals to handle graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigs
	logger.Infof("Received signal: %s. Initiating shutdown...", sig)

	// Create a context with timeout for the server's shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()

	// Shutdown the web server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Failed to gracefully shutdown the server: %v", err)
	}

	logger.Info("Shutdown complete. Exiting.")
}
