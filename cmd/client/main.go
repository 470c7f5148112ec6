package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/DanyGuerra/business-manager-frontend-sub001/api/routes"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/backend"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/cart"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/realtime"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/session"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/db"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/instance"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/metrics"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "client"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "client",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.Prefs)
	if err != nil {
		logg.Error(ctx, "failed to open preference store", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Realtime)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	creds := session.NewCredentialStore()
	backendClient, err := backend.NewClient(cfg.Backend, creds, logg)
	if err != nil {
		logg.Error(ctx, "failed to create backend client", err)
		os.Exit(1)
	}

	store := orders.NewStore("", cfg.Fetch.DefaultLimit, syncMetrics)
	coordinator, err := orders.NewCoordinator(store, backendClient, logg, syncMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create fetch coordinator", err)
		os.Exit(1)
	}

	transport, err := realtime.NewRedisTransport(redisClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create realtime transport", err)
		os.Exit(1)
	}
	channelManager, err := realtime.NewManager(transport, store, cfg.JWT, logg, syncMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create channel manager", err)
		os.Exit(1)
	}

	composer := cart.NewComposer(nil)

	sessionService, err := session.NewService(session.ServiceParams{
		Repo:      session.NewRepository(dbClient.DB()),
		Creds:     creds,
		Store:     store,
		Composer:  composer,
		Channel:   channelManager,
		Fetch:     coordinator,
		Catalog:   backendClient,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session service", err)
		os.Exit(1)
	}

	if err := sessionService.Bootstrap(ctx); err != nil {
		logg.Error(ctx, "failed to restore session state", err)
		os.Exit(1)
	}

	submitService, err := cart.NewSubmitService(composer, backendClient, sessionService)
	if err != nil {
		logg.Error(ctx, "failed to create submit service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.API.Port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(startCtx, "starting client api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			store, coordinator, composer, submitService,
			sessionService, channelManager,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logg.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "client api stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coordinator.Stop()
	channelManager.Close()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(context.Background(), "error during shutdown", closeErr)
		os.Exit(1)
	}
	logg.Info(context.Background(), "client shut down cleanly")
}
