// Package main is the entry point for the portfolio server. It loads the
// configuration and site profile, connects to PostgreSQL and Valkey, wires
// the handlers and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skajny/internal/config"
	"skajny/internal/database"
	"skajny/internal/handlers"
	"skajny/internal/render"
	"skajny/internal/router"
	"skajny/internal/session"
	"skajny/internal/storage"
	"skajny/internal/store"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr(), "trusted_proxies", len(cfg.TrustedProxies))

	profile, err := config.LoadProfile(cfg.SiteProfile)
	if err != nil {
		slog.Error("failed to load site profile", "error", err, "path", cfg.SiteProfile)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Creates the first admin account; a no-op once any user exists.
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	valkeyClient, err := database.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New(cfg.IsDev(), profile)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	categoryStore := store.NewCategoryStore(db)
	portfolioStore := store.NewPortfolioStore(db)
	messageStore := store.NewMessageStore(db)
	userStore := store.NewUserStore(db)

	// Object storage is optional; without it the upload field is hidden.
	var images handlers.ImageStore
	if cfg.StorageEnabled() {
		client, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3BucketPublic, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if client != nil {
			images = client
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketPublic)
		}
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	adminHandlers := handlers.NewAdmin(renderer, categoryStore, portfolioStore, messageStore, images)
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore, profile.Name)
	publicHandlers := handlers.NewPublic(renderer, profile, categoryStore, portfolioStore, messageStore)

	loginLimiter, contactLimiter := router.DefaultLimiters(cfg.TrustedProxies)
	defer loginLimiter.Stop()
	defer contactLimiter.Stop()

	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, router.Options{
		SecureCookies:  secureCookies,
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
	})

	// WriteTimeout leaves room for image processing and the S3 upload.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
