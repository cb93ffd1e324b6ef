// Package server exposes README generation over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/ports"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Catalogue lists the model display names. *routing.ModelSelector
// satisfies it.
type Catalogue interface {
	Names() []string
	GetRationale(name string) string
}

// Defaults fill in fields a request leaves empty.
type Defaults struct {
	Model string
	Tone  string
}

type Server struct {
	generator ports.ReadmeGenerator
	catalogue Catalogue
	defaults  Defaults
	// requestTimeout bounds one generation including retries. Zero disables it.
	requestTimeout time.Duration
}

func NewServer(generator ports.ReadmeGenerator, catalogue Catalogue, defaults Defaults, requestTimeout time.Duration) *Server {
	return &Server{
		generator:      generator,
		catalogue:      catalogue,
		defaults:       defaults,
		requestTimeout: requestTimeout,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleModels)
		r.Post("/generate", s.handleGenerate)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info(ctx, "http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestLogger attaches a request-scoped logger and logs each request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logger.With(r.Context(), "http_request_id", chimiddleware.GetReqID(r.Context()))
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info(ctx, "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}
