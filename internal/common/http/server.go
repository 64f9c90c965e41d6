// internal/common/http/server.go
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"immigria-site/internal/common/config"
	"immigria-site/internal/common/logger"

	"github.com/gorilla/mux"
)

// Registrar mounts a group of routes.
type Registrar interface {
	RegisterRoutes(r *mux.Router)
}

// Server is the public site listener.
type Server struct {
	router *mux.Router
	server *http.Server
	log    logger.Logger
}

// NewServer builds the site router with the standard middleware chain.
// Routes are added with Mount.
func NewServer(cfg config.ServerConfig, log logger.Logger) *Server {
	router := mux.NewRouter()
	router.StrictSlash(true)

	s := &Server{
		router: router,
		log:    log,
	}

	trusted, err := ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		// validateConfig rejects these at load time
		log.Warn("ignoring trusted proxies", map[string]interface{}{"error": err.Error()})
	}

	router.Use(RecoverMiddleware(log))
	router.Use(ClientIPMiddleware(trusted))
	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware(log))
	router.Use(MetricsMiddleware)

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.IdleTimeout),
	}
	return s
}

// Mount registers every group's routes on the site router.
func (s *Server) Mount(groups ...Registrar) {
	for _, g := range groups {
		g.RegisterRoutes(s.router)
	}
}

// NotFound sets the handler for unmatched paths.
func (s *Server) NotFound(h http.Handler) {
	s.router.NotFoundHandler = h
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("site server listening", map[string]interface{}{"addr": s.server.Addr})
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down site server", nil)
	return s.server.Shutdown(ctx)
}

// ListenAndServeUntil runs srv until ctx is done, then shuts it down within
// grace.
func ListenAndServeUntil(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
