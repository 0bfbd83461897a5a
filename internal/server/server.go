// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edp1096/circuit-analyzer/internal/config"
	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	"github.com/edp1096/circuit-analyzer/pkg/cache"
	"github.com/edp1096/circuit-analyzer/pkg/store"
)

type Server struct {
	logger   *log.Logger
	cache    cache.Cache
	store    store.Store
	analysis config.Analysis
	maxBody  int64
	ttl      time.Duration
}

// New wires a server from cfg. A nil cache disables caching and a nil store
// keeps history in memory.
func New(cfg *config.Config, logger *log.Logger, c cache.Cache, st store.Store) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Server{
		logger:   logger,
		cache:    c,
		store:    st,
		analysis: cfg.Analysis,
		maxBody:  cfg.Server.MaxBodyBytes,
		ttl:      cfg.Cache.TTL.Duration,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/process-netlist", s.handleProcess)
	r.Get("/analyses/{id}", s.handleGetAnalysis)
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), logger)))

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func (s *Server) loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return s.logger
}

// options turns a request's settings into analysis parameters on top of the
// configured defaults.
func (s *Server) options(req *processRequest, logger *log.Logger) (analysis.Params, analysis.Options, error) {
	cfg := s.analysis
	if req.S != "" {
		cfg.S = req.S
	}
	if req.Solver != "" {
		cfg.Solver = req.Solver
	}
	if req.Symbolic != nil {
		cfg.Symbolic = *req.Symbolic
	}
	if req.Strict != nil {
		cfg.Strict = *req.Strict
	}

	params, err := cfg.Params()
	if err != nil {
		return analysis.Params{}, analysis.Options{}, err
	}
	params.Overrides = req.Values
	opts, err := cfg.Options(logger)
	if err != nil {
		return analysis.Params{}, analysis.Options{}, err
	}
	return params, opts, nil
}
