package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookhaven/libraryapi/config"
	"github.com/bookhaven/libraryapi/httpapi"
	"github.com/bookhaven/libraryapi/library/oteladapters"
	"github.com/bookhaven/libraryapi/library/postgresengine"
	"github.com/bookhaven/libraryapi/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger := oteladapters.NewSlogLogger(
		slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("service terminated", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *oteladapters.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolConfig, poolConfigErr := config.PostgresPGXPoolConfig(cfg.PostgresDSN)
	if poolConfigErr != nil {
		return poolConfigErr
	}

	pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		return poolErr
	}
	defer pool.Close()

	bookStore, bookStoreErr := postgresengine.NewBookStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
	if bookStoreErr != nil {
		return bookStoreErr
	}

	loanStore, loanStoreErr := postgresengine.NewLoanStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
	if loanStoreErr != nil {
		return loanStoreErr
	}

	if err := bookStore.CreateSchema(ctx); err != nil {
		return err
	}

	if err := loanStore.CreateSchema(ctx); err != nil {
		return err
	}

	bookService := service.NewBookService(bookStore, service.WithBookLogger(logger))
	loanService := service.NewLoanService(loanStore, service.WithLoanLogger(logger))

	scanner := service.NewOverdueScanner(
		loanStore,
		service.NewLogNotifier(logger),
		service.WithOverdueLogger(logger),
		service.WithOverdueThresholdDays(cfg.OverdueThresholdDays),
	)
	go scanner.Run(ctx, cfg.OverdueScanInterval)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(bookService, loanService, httpapi.WithLogger(logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrs := make(chan error, 1)

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrs <- err
		}
	}()

	select {
	case err := <-serveErrs:
		return err

	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
