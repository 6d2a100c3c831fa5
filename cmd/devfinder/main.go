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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/efindlay/devfinder/internal/adapter/driven/github"
	httphandler "github.com/efindlay/devfinder/internal/adapter/driving/http"
	webhandler "github.com/efindlay/devfinder/internal/adapter/driving/web"
	"github.com/efindlay/devfinder/internal/application"
	"github.com/efindlay/devfinder/internal/config"
	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"default_user", cfg.DefaultUser,
		"loading_delay", cfg.LoadingDelay,
		"view_ttl", cfg.ViewTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Pick the profile source: GraphQL with a token, anonymous REST without.
	var source driven.ProfileSource
	if cfg.HasGitHubToken() {
		source = githubadapter.NewGraphQLSource(cfg.GitHubToken)
		slog.Info("github graphql source configured")
	} else {
		source = githubadapter.NewRESTSource("")
		slog.Info("no github token configured, falling back to anonymous rest source with reduced rate limits")
	}

	// 4. Create the view registry and start its idle-view janitor.
	views := application.NewViewRegistry(source, cfg.LoadingDelay, cfg.ViewTTL)
	go views.Start(ctx)

	// 5. Parse the embedded templates.
	renderer, err := webhandler.NewTemplateRenderer()
	if err != nil {
		return err
	}

	// 6. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(source, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(views, renderer, cfg.DefaultUser, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("devfinder started",
		"listen_addr", cfg.ListenAddr,
		"default_user", cfg.DefaultUser,
	)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}
