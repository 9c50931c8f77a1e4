// Package server boots the application: configuration, connections, routes,
// and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/lastbite/app/routes"
	"github.com/shashiranjanraj/lastbite/config"
	"github.com/shashiranjanraj/lastbite/pkg/cache"
	"github.com/shashiranjanraj/lastbite/pkg/database"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/mongodb"
	"github.com/shashiranjanraj/lastbite/pkg/router"
	"github.com/shashiranjanraj/lastbite/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Start boots every subsystem and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close()

	// Redis and Mongo are optional at boot: carts fall back to errors the
	// controllers surface, emission estimation falls back to defaults.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable", "error", err)
	}
	defer cache.Close()

	var mongoSink *logger.MongoHandler
	if uri := config.MongoURI(); uri != "" {
		if err := mongodb.Connect(); err != nil {
			logger.Warn("server: mongodb unavailable", "error", err)
		} else {
			defer mongodb.Close()
			if h, err := logger.NewMongoHandler(uri, config.MongoDB(), "app_logs"); err == nil {
				logger.L = slog.New(logger.NewTee(logger.L.Handler(), h))
				mongoSink = h
			}
		}
	}

	storage.Connect()

	r := router.New()
	routes.RegisterAPI(r)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server: shutdown", "error", err)
	}

	if mongoSink != nil {
		mongoSink.Close()
	}
	return nil
}
