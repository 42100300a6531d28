// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/mindcare/internal/ai"
	"github.com/starford/mindcare/internal/api"
	"github.com/starford/mindcare/internal/auth"
	"github.com/starford/mindcare/internal/mcpserver"
	"github.com/starford/mindcare/internal/metrics"
	"github.com/starford/mindcare/internal/store"
	"github.com/starford/mindcare/internal/thoughts"
)

// core holds the dependencies shared by every entry point.
type core struct {
	db       *store.DB
	ai       *ai.Client
	thoughts *thoughts.Service
	metrics  *metrics.Metrics
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.httpClient == nil {
		app.httpClient = &http.Client{}
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func (app *application) buildCore(logger *slog.Logger) (*core, error) {
	cfg := app.config

	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	m := metrics.New()
	client := ai.New(ai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	},
		ai.WithHTTPClient(app.httpClient),
		ai.WithLogger(logger),
		ai.WithObserver(m),
	)
	if cfg.AI.APIKey == "" {
		logger.Warn("AI api key is not set; suggestions and mood analysis will use fallbacks")
	}

	return &core{
		db:       db,
		ai:       client,
		thoughts: thoughts.NewService(db, client),
		metrics:  m,
	}, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("ai_model", cfg.AI.Model),
		slog.Duration("ai_timeout", cfg.AI.Timeout),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c, err := app.buildCore(logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	var verifier *auth.Verifier
	if cfg.Auth.AuthEnabled() {
		verifier = auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer)
	}

	router := api.NewRouter(api.Options{
		Thoughts:    c.thoughts,
		AI:          c.ai,
		Store:       c.db,
		Verifier:    verifier,
		Metrics:     c.metrics,
		CORSOrigins: cfg.App.HTTP.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the journal of owner over stdio. Logs go to stderr since
// stdout carries the protocol.
func RunMCP(_ context.Context, owner auth.Identity, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if owner.ID == "" {
		return fmt.Errorf("owner id is required")
	}

	logger := newLogger(os.Stderr, app.config.App.LogLevel)
	slog.SetDefault(logger)

	c, err := app.buildCore(logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	logger.Info("Starting MCP server", slog.String("owner", owner.ID))
	return mcpserver.New(c.thoughts, c.ai, owner).ServeStdio()
}
