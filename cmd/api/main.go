package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/db"
	httpx "github.com/ardian/klinikhub/internal/http"
	"github.com/ardian/klinikhub/internal/observability"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// open the single-file store, create the schema, seed bootstrap rows
	conn, err := db.Open(cfg.DatabaseURL)

	if err != nil {
		log.Error("could not open database", "err", err)
		os.Exit(1)
	}

	defer conn.Close()

	initCtx, cancelInit := config.WithTimeout(10 * time.Second)

	if err := db.EnsureSchema(initCtx, conn); err != nil {
		cancelInit()
		log.Error("could not create schema", "err", err)
		os.Exit(1)
	}

	if err := db.Seed(initCtx, conn); err != nil {
		cancelInit()
		log.Error("could not seed bootstrap rows", "err", err)
		os.Exit(1)
	}
	cancelInit()

	if err := os.MkdirAll(cfg.ExportDir(), 0o755); err != nil {
		log.Error("could not create export dir", "err", err)
		os.Exit(1)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, conn, cfg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
