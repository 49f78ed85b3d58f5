// Package server wires configuration, stores and routes into a running
// HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kdiomande/maillots/app/repositories"
	"github.com/kdiomande/maillots/app/routes"
	"github.com/kdiomande/maillots/app/services"
	"github.com/kdiomande/maillots/config"
	"github.com/kdiomande/maillots/pkg/cache"
	"github.com/kdiomande/maillots/pkg/database"
	"github.com/kdiomande/maillots/pkg/logger"
	"github.com/kdiomande/maillots/pkg/metrics"
	"github.com/kdiomande/maillots/pkg/middleware"
	"github.com/kdiomande/maillots/pkg/reqid"
	"github.com/kdiomande/maillots/pkg/router"
	"github.com/kdiomande/maillots/pkg/ws"
)

const ordersCollection = "commandes"

// Start runs the API until SIGINT/SIGTERM, then shuts down gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(ctx)
	}()

	// The API works uncached when Redis is down; don't refuse to start.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, running without list cache", "error", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	repo := repositories.NewMongoOrderRepository(database.Collection(ordersCollection))
	deps := routes.Deps{
		Orders: services.NewOrderService(repo),
		Auth:   services.NewAuthService(),
		Hub:    hub,
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(corsOptions()),
	)
	routes.RegisterAPI(r, deps)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serveur backend démarré", "addr", srv.Addr, "env", config.AppEnv())
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
		logger.Info("arrêt du serveur", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func corsOptions() middleware.CORSOptions {
	opts := middleware.DefaultCORSOptions()
	opts.AllowedOrigins = config.CORSOrigins()
	return opts
}
