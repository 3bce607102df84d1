// Package server wires the board together: store, cache, services,
// handlers, middleware and routes, plus the HTTP server lifecycle.
//
// DEPENDENCY FLOW:
//
//	config → store (sqlite | postgres) → services → handlers → chi router
//	       ↘ cache (redis | nop)        ↗
//
// Everything is assembled in New; no package keeps global state apart
// from the Prometheus collectors.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/community-board/internal/auth"
	"github.com/sakif/community-board/internal/cache"
	"github.com/sakif/community-board/internal/config"
	"github.com/sakif/community-board/internal/handler"
	"github.com/sakif/community-board/internal/middleware"
	"github.com/sakif/community-board/internal/repository"
	"github.com/sakif/community-board/internal/repository/postgres"
	sqliteRepo "github.com/sakif/community-board/internal/repository/sqlite"
	"github.com/sakif/community-board/internal/service"
)

// pinger is implemented by caches that have a backend to check.
type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	store  repository.Store
	cache  cache.Cache
	router *chi.Mux

	// closers run on shutdown, after the HTTP server has drained
	closers []func() error
}

// New opens the configured store and cache and builds the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var c cache.Cache = cache.Nop{}
	closers := []func() error{store.Close}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			// the cache is optional; run without it
			logger.Warn("redis unavailable, post cache disabled", slog.String("error", err.Error()))
		} else {
			c = rc
			closers = append(closers, rc.Close)
		}
	}

	s, err := NewWithDeps(cfg, logger, store, c)
	if err != nil {
		for _, closeFn := range closers {
			closeFn()
		}
		return nil, err
	}
	s.closers = closers
	return s, nil
}

// NewWithDeps builds a server around an existing store and cache. The
// caller keeps ownership of both.
func NewWithDeps(cfg *config.Config, logger *slog.Logger, store repository.Store, c cache.Cache) (*Server, error) {
	if c == nil {
		c = cache.Nop{}
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		cache:  c,
		router: chi.NewRouter(),
	}
	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return db, nil
	default:
		if cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return db, nil
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	POST   /signup                                   public
//	POST   /login                                    public
//	POST   /logout                                   public
//	GET    /posts                                    public
//	GET    /posts/{postId}                           public
//	GET    /posts/{postId}/comments                  public
//	GET    /me                                       auth
//	POST   /posts                                    auth
//	PUT    /posts/{postId}                           auth
//	DELETE /posts/{postId}                           auth
//	GET    /posts/like                               auth
//	PUT    /posts/{postId}/like                      auth
//	POST   /posts/{postId}/comments                  auth
//	PUT    /posts/{postId}/comments/{commentId}      auth
//	DELETE /posts/{postId}/comments/{commentId}      auth
//	GET    /healthz, /metrics                        ops
//
// chi matches the static segment in /posts/like before {postId}.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	passwords, err := auth.NewPasswordService(s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	errs := handler.NewErrors(s.logger)

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger)
	postService := service.NewPostService(s.store, s.cache, s.logger)
	likeService := service.NewLikeService(s.store, s.store, s.cache, s.logger)
	commentService := service.NewCommentService(s.store, s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.cfg.CookieSecure, errs, s.logger)
	postHandler := handler.NewPostHandler(postService, likeService, errs)
	commentHandler := handler.NewCommentHandler(commentService, errs)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Recover(s.logger, errs.Write))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, handler.ErrorResponse{Error: "not_found", Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, handler.ErrorResponse{Error: "method_not_allowed", Message: "method not allowed"})
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/signup", authHandler.HandleSignup)
	r.Post("/login", authHandler.HandleLogin)
	r.Post("/logout", authHandler.HandleLogout)
	r.Get("/posts", postHandler.HandleList)
	r.Get("/posts/{postId}", postHandler.HandleGet)
	r.Get("/posts/{postId}/comments", commentHandler.HandleList)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, s.store, errs.Write))

		r.Get("/me", authHandler.HandleMe)

		r.Post("/posts", postHandler.HandleCreate)
		r.Put("/posts/{postId}", postHandler.HandleUpdate)
		r.Delete("/posts/{postId}", postHandler.HandleDelete)

		r.Get("/posts/like", postHandler.HandleLiked)
		r.Put("/posts/{postId}/like", postHandler.HandleToggleLike)

		r.Post("/posts/{postId}/comments", commentHandler.HandleCreate)
		r.Put("/posts/{postId}/comments/{commentId}", commentHandler.HandleUpdate)
		r.Delete("/posts/{postId}/comments/{commentId}", commentHandler.HandleDelete)
	})

	return nil
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Cache  string `json:"cache,omitempty"`
}

// handleHealth pings the store and, if configured, the cache.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok", Store: "ok"}
	status := http.StatusOK

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check: store ping failed", slog.String("error", err.Error()))
		res.Status, res.Store = "unavailable", "down"
		status = http.StatusServiceUnavailable
	}
	if p, ok := s.cache.(pinger); ok {
		res.Cache = "ok"
		if err := p.Ping(ctx); err != nil {
			// a cache outage degrades, it does not take the board down
			s.logger.Warn("health check: cache ping failed", slog.String("error", err.Error()))
			res.Cache = "down"
		}
	}
	writeStatus(w, status, res)
}

// writeStatus is the router-level JSON writer for responses produced
// outside the handler package.
func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// Start runs the HTTP server until SIGINT or SIGTERM, then drains
// in-flight requests and closes the store and cache.
func (s *Server) Start() error {
	defer s.close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("env", s.cfg.AppEnv),
			slog.String("dbDriver", s.cfg.DBDriver),
			slog.Bool("cache", s.cfg.RedisURL != ""),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("error while closing resource", slog.String("error", err.Error()))
		}
	}
}
