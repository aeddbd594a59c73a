package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/lexiverse/internal/config"
	"github.com/gamma-omg/lexiverse/internal/dictionary"
	"github.com/gamma-omg/lexiverse/internal/notify"
	"github.com/gamma-omg/lexiverse/internal/pkg/middleware"
	"github.com/gamma-omg/lexiverse/internal/pkg/router"
	"github.com/gamma-omg/lexiverse/internal/rest"
	"github.com/gamma-omg/lexiverse/internal/service"
	"github.com/gamma-omg/lexiverse/internal/store"
)

func run(ctx context.Context) error {
	slog.Info("starting lexiverse service")

	cfg := config.FromEnv()
	db, err := store.NewPostgresDB(store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer db.Close()

	pgs := store.NewPostgresStore(db)

	notifier := notify.NewRedis(notify.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.NotificationTTL,
	})
	defer notifier.Close()

	dictClient := &http.Client{Timeout: cfg.Dictionary.Timeout}
	var primary dictionary.Lookup
	if cfg.Dictionary.PrimaryURL != "" {
		primary = dictionary.NewPrimaryClient(cfg.Dictionary.PrimaryURL, dictClient)
	}
	secondary := dictionary.NewSecondaryClient(cfg.Dictionary.SecondaryURL, dictClient)

	submissions := service.NewSubmissionService(pgs, primary, secondary, service.SubmissionServiceConfig{
		RateLimitAttempts:  cfg.RateLimit.MaxAttempts,
		RateLimitWindow:    cfg.RateLimit.Window,
		RejectionCacheKeys: cfg.Cache.RejectionMaxKeys,
		RejectionCacheCost: cfg.Cache.RejectionMaxCost,
	})
	sessions := service.NewSessionService(pgs, nil)
	transfers := service.NewTransferService(pgs, notifier, service.TransferServiceConfig{TTL: cfg.TransferTTL})
	moderation := service.NewModerationService(pgs)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	rt := router.New()
	rt.Use(middleware.Recover(), middleware.Log(), middleware.Auth([]byte(cfg.AuthSecret)))
	api := rest.NewAPI(submissions, sessions, transfers, moderation, pgs)
	rt.Handle("/", api)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", rt))

	httpSrv := &http.Server{
		Addr:         cfg.Http.ListenAddr,
		IdleTimeout:  cfg.Http.IdleTimeout,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		Handler:      mux,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("lexiverse service terminated with error", "error", err)
		os.Exit(1)
	}
}
