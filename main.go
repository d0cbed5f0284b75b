package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/api"
	"github.com/cineniche/cineniche/internal/config"
	"github.com/cineniche/cineniche/internal/core"
	"github.com/cineniche/cineniche/internal/jobs"
	"github.com/cineniche/cineniche/internal/posters"
)

var version = "development"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, using info", cfg.Log.Level)
	}

	// Initialize the core application components
	app, err := core.New(cfg)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()
	app.Version = version

	// --- First Administrator Provisioning ---
	if _, err := app.EnsureAdmin(); err != nil {
		log.Fatalf("Could not provision administrator: %v", err)
	}

	go app.WsHub().Run()

	scheduler := jobs.StartJobs(app)
	defer scheduler.Stop()

	if cfg.Posters.Watch {
		watcher := posters.NewWatcher(app.Posters(), 500*time.Millisecond)
		if err := watcher.Start(); err != nil {
			log.Warnf("Poster directory is not watched: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	// Setup the API server
	server := api.NewServer(app)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Infof("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give existing connections a moment to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
