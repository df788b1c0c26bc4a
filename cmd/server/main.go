package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_calendar/internal/app"
	"github.com/Freeeeeet/slot_calendar/internal/config"
	"github.com/Freeeeeet/slot_calendar/internal/controller"
	"github.com/Freeeeeet/slot_calendar/internal/repository"
	"github.com/Freeeeeet/slot_calendar/internal/repository/sqlite"
	"github.com/Freeeeeet/slot_calendar/internal/service"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting slot calendar",
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("addr", cfg.HTTP.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer closeStore()

	calendar := service.NewCalendarService(store, logger)
	server := controller.NewServer(calendar, cfg.HTTP, logger)
	defer server.Close()

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logger),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Slot calendar stopped")
}

// openStore подключает базу выбранного драйвера и применяет миграции
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := app.OpenSQLite(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(ctx, app.NewSQLiteMigrator(db, logger), logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.New(db, logger), closeWith(db, logger), nil

	default:
		pool, err := app.OpenPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(ctx, app.NewPostgresMigrator(pool, logger), logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool, logger), pool.Close, nil
	}
}

func migrate(ctx context.Context, migrator *app.Migrator, logger *zap.Logger) error {
	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	logger.Info("Database schema ready", zap.Int64("version", version))
	return nil
}

func closeWith(db *sql.DB, logger *zap.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
