package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"debtplan/internal/log"
	"debtplan/internal/middleware/ratelimit"
	"debtplan/internal/middleware/security"
	"debtplan/internal/middleware/trace"
	"debtplan/internal/services"
)

// Deps are the services and settings the API server is built from.
type Deps struct {
	Planner *services.PlannerService
	Records *services.RecordService
	Auth    *services.AuthService

	// Ready reports whether the backing stores are reachable. Nil means
	// always ready.
	Ready func(ctx context.Context) error

	Logger             *log.Logger
	RateLimitPerMinute int
	TrustedProxies     []string
}

type Server struct {
	http.Server

	planner *services.PlannerService
	records *services.RecordService
	auth    *services.AuthService
	ready   func(ctx context.Context) error
	logger  *log.Logger

	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	detector *security.Detector

	shutdownOnce sync.Once
}

func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}

	detector := security.NewDetector()
	for _, cidr := range deps.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring invalid trusted proxy", "cidr", cidr, "error", err)
		}
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		planner:  deps.Planner,
		records:  deps.Records,
		auth:     deps.Auth,
		ready:    deps.Ready,
		logger:   logger,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
		detector: detector,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api", s.handleIndex)
	mux.HandleFunc("GET /api/{$}", s.handleIndex)

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("POST /api/auth-token", s.handleIssueToken)
	mux.Handle("GET /api/me", s.authed(s.handleMe))

	mux.Handle("GET /api/debts", s.authed(s.handleDebts))
	mux.Handle("GET /api/timeline", s.authed(s.handleTimeline))
	mux.Handle("GET /api/timeline/snapshot", s.authed(s.handleSnapshot))
	mux.Handle("GET /api/budget", s.authed(s.handleBudget))

	s.registerRecords(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, ratelimit.MutatingOnly,
		func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		})

	s.Handler = s.tracer.Middleware(detector.Middleware(headers.Middleware(limit(mux))))
	return s
}

// Shutdown stops the rate limiter cleanup and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleIndex lists the absolute URL of every resource collection.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	index := map[string]string{
		"users":      base + "/api/users",
		"auth-token": base + "/api/auth-token",
		"me":         base + "/api/me",
		"debts":      base + "/api/debts",
		"timeline":   base + "/api/timeline",
		"snapshot":   base + "/api/timeline/snapshot",
		"budget":     base + "/api/budget",
	}
	for _, name := range resourceNames {
		index[name] = base + "/api/" + name
	}
	writeJSON(w, http.StatusOK, index)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
