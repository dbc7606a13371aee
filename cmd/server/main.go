package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/cabinet/internal/app"
	"github.com/rpggio/cabinet/internal/config"
	"github.com/rpggio/cabinet/internal/domain/billing"
	"github.com/rpggio/cabinet/internal/domain/client"
	"github.com/rpggio/cabinet/internal/mcp"
	"github.com/rpggio/cabinet/internal/postgres"
	"github.com/rpggio/cabinet/internal/redis"
	"github.com/rpggio/cabinet/internal/repository"
	"github.com/rpggio/cabinet/internal/sqlite"
	"github.com/rpggio/cabinet/internal/store"
	"github.com/rpggio/cabinet/internal/transport"
)

func main() {
	reset := flag.Bool("reset", false, "delete stored collections so the default dataset is reseeded")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg.Log, cfg.Transport.Mode)
	defer closeLog()

	bytes, err := openByteStore(cfg.Storage)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer bytes.Close()

	if *reset {
		deleted, err := app.Reset(context.Background(), bytes)
		if err != nil {
			logger.Error("failed to reset storage", "error", err)
			os.Exit(1)
		}
		logger.Info("storage reset", "collections", deleted)
	}

	a, err := app.Build(context.Background(), bytes, app.Options{
		Optimistic: cfg.Storage.Optimistic,
		Billing: billing.Config{
			DefaultVATRate:  cfg.Billing.DefaultVATRate,
			DefaultCurrency: client.Currency(cfg.Billing.DefaultCurrency),
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to load collections", "error", err)
		os.Exit(1)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, cfg, transport.Options{
			SessionTimeout: cfg.Server.SessionTimeout,
			Actors:         a.Users,
			Backend:        cfg.Storage.Backend,
		})
	}
}

// openByteStore opens the configured collection backend.
func openByteStore(cfg config.StorageConfig) (repository.ByteStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryByteStore(), nil
	case config.BackendRedis:
		return redis.New(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.BackendPostgres:
		return postgres.New(cfg.Postgres.DSN)
	default:
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		return sqlite.NewKVStore(db), nil
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	// Create stdio transport
	stdio := &sdkmcp.StdioTransport{}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, stdio); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config, opts transport.Options) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(mcpServer, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "backend", opts.Backend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	return ensureParentDir(path)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
