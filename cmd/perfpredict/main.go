package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ekisa-team/perfpredict/internal/backend"
	"github.com/ekisa-team/perfpredict/internal/config"
	"github.com/ekisa-team/perfpredict/internal/env"
	"github.com/ekisa-team/perfpredict/internal/logger"
	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/model"
	grpcserver "github.com/ekisa-team/perfpredict/internal/server/grpc"
	httpserver "github.com/ekisa-team/perfpredict/internal/server/http"
	"github.com/ekisa-team/perfpredict/internal/service"
	"github.com/ekisa-team/perfpredict/internal/xfs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	defaultConfig := filepath.Join(config.DefaultConfigPath(), "config.yaml")

	var (
		flagHTTPPort   = flag.Int("http-port", 0, "HTTP port to listen on (overrides config)")
		flagGRPCPort   = flag.Int("grpc-port", 0, "gRPC port to listen on (overrides config)")
		flagConfigPath = flag.String("config", defaultConfig, "Path to config file")
		flagSchemaPath = flag.String("schema", "", "Path to config schema file (embedded schema if empty)")
	)
	flag.Parse()

	_ = godotenv.Load()

	environment := env.FromEnv()
	level := new(slog.LevelVar)
	slog.SetDefault(logger.New(environment, logger.WithLevel(level)))

	manager := model.NewManager(backend.NewRegistry())
	defer func() {
		if err := manager.Registry().Close(); err != nil {
			slog.Error("Failed to close backends", "error", err)
		}
	}()

	onReload := func(cfg *config.Config, err error) {
		if err != nil {
			return
		}
		applyLevel(level, cfg.Logging.Level)
		warnModelChange(manager, cfg)
	}

	var cfg *config.Config
	switch {
	case *flagConfigPath == defaultConfig && !xfs.FileExists(defaultConfig):
		slog.Info("No config file found, using defaults", "path", defaultConfig)
		cfg = config.Default()
	default:
		watcher, err := config.NewWatcher(*flagConfigPath, *flagSchemaPath, onReload)
		if err != nil {
			slog.Error("Failed to create config watcher", "error", err)
			return 1
		}
		defer watcher.Close()
		cfg = watcher.Snapshot()
		slog.Info("Config loaded successfully", "config", *flagConfigPath, "schema", *flagSchemaPath)
	}

	// Work on a copy so reloads never see the overrides.
	runCfg := *cfg
	if err := runCfg.ApplyOverrides(config.Overrides{HTTPPort: *flagHTTPPort, GRPCPort: *flagGRPCPort}); err != nil {
		slog.Error("Invalid server configuration", "error", err)
		return 1
	}

	if runCfg.Logging.ToFile {
		opts := []logger.Option{logger.WithLevel(level), logger.WithLogToFile(true)}
		if runCfg.Logging.File != "" {
			opts = append(opts, logger.WithLogFile(xfs.ExpandTilde(runCfg.Logging.File)))
		}
		slog.SetDefault(logger.New(environment, opts...))
	}
	applyLevel(level, runCfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instance, err := manager.Load(ctx, runCfg.Model)
	if err != nil {
		slog.Error("Failed to load model", "error", err)
		return 1
	}

	m := metrics.New()
	svc, err := service.NewPerformance(manager.Registry(), instance, m)
	if err != nil {
		slog.Error("Model does not match the feature vector", "error", err)
		return 1
	}

	errCh := make(chan error, 2)
	var shutdowns []func(context.Context) error

	if !runCfg.Server.HTTP.Disabled {
		srv, err := httpserver.NewServer(runCfg.Server.HTTP, svc, m)
		if err != nil {
			slog.Error("Failed to create HTTP server", "error", err)
			return 1
		}
		go func() { errCh <- srv.ListenAndServe() }()
		shutdowns = append(shutdowns, srv.Shutdown)
	}

	if !runCfg.Server.GRPC.Disabled {
		srv := grpcserver.NewServer(runCfg.Server.GRPC, svc, m)
		go func() { errCh <- srv.ListenAndServe() }()
		shutdowns = append(shutdowns, srv.Shutdown)
	}

	if len(shutdowns) == 0 {
		slog.Error("Both HTTP and gRPC servers are disabled")
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			slog.Error("Server stopped", "error", err)
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, shutdown := range shutdowns {
		if err := shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Shutdown failed", "error", err)
			code = 1
		}
	}

	slog.Info("Stopped")
	return code
}

func applyLevel(level *slog.LevelVar, name string) {
	l, err := logger.ParseLevel(name)
	if err != nil {
		slog.Warn("Unknown log level, keeping current", "level", name)
		return
	}
	level.Set(l)
}

// warnModelChange reports model settings that differ from the loaded model.
// The model is loaded once per process.
func warnModelChange(manager *model.Manager, cfg *config.Config) {
	instance, err := manager.Instance()
	if err != nil {
		return
	}

	path := model.ResolvePath(cfg.Model)
	if path != instance.Path || string(cfg.Model.Backend) != string(instance.Provider) {
		slog.Warn("Model configuration changed, restart to apply",
			"loaded_path", instance.Path,
			"configured_path", path)
	}
}
