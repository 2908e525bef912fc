// Package server wires the Travlr API: session service, handlers, middleware
// chain and the HTTP server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/travlr/internal/server/auth"
	"github.com/iudanet/travlr/internal/server/config"
	"github.com/iudanet/travlr/internal/server/handlers"
	"github.com/iudanet/travlr/internal/server/jwt"
	"github.com/iudanet/travlr/internal/server/metrics"
	"github.com/iudanet/travlr/internal/server/middleware"
	"github.com/iudanet/travlr/internal/server/storage"
)

// Server is the Travlr API server.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Store
	limiter *middleware.PathRateLimiter
	handler http.Handler
}

// New собирает сервер. Пустой JWT секрет - фатальная ошибка.
func New(cfg *config.Config, logger *slog.Logger, store storage.Store, version string) (*Server, error) {
	tokens, err := jwt.NewService(cfg.JWTSecret, jwt.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to init token service: %w", err)
	}

	m := metrics.New()
	sessions := auth.NewService(logger, store, tokens, m)

	authHandler := handlers.NewAuthHandler(logger, sessions)
	tripHandler := handlers.NewTripHandler(logger, store, sessions)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	protected := middleware.AuthMiddleware(logger, tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.Handle("GET /api/me", protected(http.HandlerFunc(authHandler.Me)))

	mux.HandleFunc("GET /api/trips", tripHandler.List)
	mux.HandleFunc("GET /api/trips/{tripCode}", tripHandler.Get)
	mux.Handle("POST /api/trips", protected(http.HandlerFunc(tripHandler.Add)))
	mux.Handle("PUT /api/trips/{tripCode}", protected(http.HandlerFunc(tripHandler.Update)))

	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.Handle("GET /metrics", m.Handler())

	limiter := middleware.NewPathRateLimiter([]middleware.PathRateLimit{
		{Path: "/api/login", Rate: cfg.AuthRateLimit, Window: cfg.AuthRateWindow},
		{Path: "/api/register", Rate: cfg.AuthRateLimit, Window: cfg.AuthRateWindow},
	}, cfg.TrustProxy, logger)

	// Recovery -> Logging -> Metrics -> RateLimit -> mux
	var h http.Handler = mux
	h = limiter.Middleware(h)
	h = middleware.MetricsMiddleware(m)(h)
	h = middleware.LoggingWithSkip(logger, []string{"/metrics", "/api/health"})(h)
	h = middleware.RecoveryMiddleware(logger)(h)

	return &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		limiter: limiter,
		handler: h,
	}, nil
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает cfg.Address до отмены ctx, затем корректно завершает работу.
// Хранилище закрывается после остановки HTTP сервера.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	s.logger.InfoContext(ctx, "server starting",
		slog.String("addr", s.cfg.Address),
		slog.String("storage", s.cfg.Storage))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		s.logger.Error("server failed", slog.Any("error", err))
		s.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Error("graceful shutdown failed", slog.Any("error", err))
	}

	s.Close()
	s.logger.Info("server stopped")
	return err
}

// Close останавливает rate limiter и закрывает хранилище
func (s *Server) Close() {
	s.limiter.Stop()
	if err := s.store.Close(); err != nil {
		s.logger.Error("failed to close storage", slog.Any("error", err))
	}
}
