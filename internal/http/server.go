package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"estoque/internal/app"
	applog "estoque/internal/log"
	"estoque/internal/middleware/ratelimit"
	"estoque/internal/middleware/security"
	"estoque/internal/middleware/trace"
)

// Config holds what the server needs besides the session app.
type Config struct {
	Addr string
	// Ready reports backend readiness for /readyz; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *applog.Logger
	// RequestsPerMinute bounds mutating requests per client.
	RequestsPerMinute int
	Now               func() time.Time
}

type Server struct {
	http.Server
	app      *app.App
	ready    func(ctx context.Context) error
	now      func() time.Time
	logger   *applog.Logger
	events   *applog.StructuredLogger
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, a *app.App) *Server {
	if cfg.Logger == nil {
		cfg.Logger = applog.FromSlog(nil, applog.ComponentHTTP)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Ready == nil {
		cfg.Ready = func(context.Context) error { return nil }
	}

	rlCfg := ratelimit.DefaultConfig()
	if cfg.RequestsPerMinute > 0 {
		rlCfg.RequestsPerMinute = cfg.RequestsPerMinute
	}
	detector := security.NewDetector()

	s := &Server{
		app:      a,
		ready:    cfg.Ready,
		now:      cfg.Now,
		logger:   cfg.Logger,
		events:   applog.NewStructuredLogger(cfg.Logger),
		limiter:  ratelimit.NewLimiter(rlCfg),
		tracer:   trace.NewMiddleware(detector.ExtractClientIP),
		detector: detector,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("PUT /items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)

	mux.HandleFunc("GET /logs", s.handleListLogs)
	mux.HandleFunc("DELETE /logs/{id}", s.handleDeleteLog)

	mux.HandleFunc("GET /options", s.handleListOptions)

	mux.HandleFunc("GET /export/items.json", s.handleExportItems)
	mux.HandleFunc("GET /export/logs.pdf", s.handleExportLogs)
	mux.HandleFunc("POST /import", s.handleImport)

	s.Server = http.Server{
		Addr:    cfg.Addr,
		Handler: s.middleware(mux),
	}
	return s
}

func (s *Server) middleware(next http.Handler) http.Handler {
	h := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, s.detector.ExtractClientIP(r),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
	})(next)
	h = applog.RequestIDMiddleware(trace.RequestID)(h)
	h = applog.Middleware(s.logger)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return s.tracer.Middleware(h)
}

// Shutdown stops the rate limiter and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ready(ctx); err != nil {
		s.logger.WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	NewJSONResponse().Body(map[string]any{
		"status":   "ready",
		"mode":     s.app.Mode().String(),
		"requests": s.tracer.GetMetrics().TotalRequests,
	}).Write(w)
}
