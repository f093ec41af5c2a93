package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/csv-dupcheck/internal/api"
	"github.com/ignite/csv-dupcheck/internal/archive"
	"github.com/ignite/csv-dupcheck/internal/config"
	"github.com/ignite/csv-dupcheck/internal/dupcheck"
	"github.com/ignite/csv-dupcheck/internal/pkg/distlock"
	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/ignite/csv-dupcheck/internal/session"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	flag.Parse()
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*configPath = v
	}

	// Load configuration
	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fatal("Failed to load config", err)
	}
	if level, ok := logger.ParseLevel(cfg.Log.Level); ok {
		logger.SetLevel(level)
	}
	logger.SetRedactPII(cfg.Log.Redact())

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		fatal("Pre-flight check failed", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presets, err := selection.NewCatalog(cfg.Presets)
	if err != nil {
		fatal("Invalid presets", err)
	}

	// Session storage: Redis when configured, memory otherwise
	redisClient, err := session.Connect(ctx, cfg.Session)
	if err != nil {
		fatal("Failed to connect to Redis", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	store := session.NewStore(redisClient)
	session.StartSweeper(ctx, store, time.Minute)

	opts := api.Options{
		Store:        store,
		Presets:      presets,
		Detector:     dupcheck.NewDetector(nil),
		SessionTTL:   cfg.Session.TTL(),
		MaxBytes:     cfg.Upload.MaxBytes,
		ExportSuffix: cfg.Export.Suffix,
		Locks:        distlock.NewFactory(redisClient, 10*time.Second),
	}

	archiver, err := archive.New(ctx, cfg.Export)
	switch {
	case errors.Is(err, archive.ErrDisabled):
		logger.Info("Export archive disabled (no export.s3_bucket)")
	case err != nil:
		logger.Warn("Export archive unavailable", "error", err)
	default:
		opts.Archiver = archiver
		logger.Info("Export archive enabled", "bucket", archiver.Bucket(), "region", cfg.Export.S3Region)
	}

	server := api.NewServer(cfg.Server, cfg.CORS, api.NewHandlers(opts))

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		logger.Info("Starting server", "addr", addr, "presets", len(presets.List()))
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			fatal("Server error", err)
		}
	}()

	<-done
	logger.Info("Shutting down...")

	// Cancel background tasks
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
