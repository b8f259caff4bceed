package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/usecase/policy"
	"mcp-agent/internal/usecase/tasks"
)

const (
	ServiceName    = "mcp-agent"
	ServiceVersion = "1.1.0"
)

type Config struct {
	APIKey            string
	CORSOrigins       []string
	PolicyEnforcement bool
	RateLimitRPS      float64
	RateLimitBurst    int
	Retry             RetryConfig

	// AccessLog enables httplog request logging.
	AccessLog     bool
	AccessLogJSON bool
	LogLevel      string
}

func DefaultConfig() Config {
	return Config{
		CORSOrigins:    []string{"*"},
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		Retry:          DefaultRetryConfig(),
		AccessLog:      true,
		AccessLogJSON:  true,
		LogLevel:       "info",
	}
}

// Deps are the use cases the API exposes. Metrics may be nil.
type Deps struct {
	Executor  input.TaskExecutor
	Tools     output.ToolProvider
	Navigator input.Navigator
	Snapshots input.PageSnapshotter
	Tracker   *tasks.Tracker
	Policy    *policy.Evaluator
	Metrics   output.MetricsPort
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         output.LoggerPort
}

type Server struct {
	deps   Deps
	cfg    Config
	router chi.Router
}

func NewServer(deps Deps, cfg Config) *Server {
	if deps.Metrics == nil {
		deps.Metrics = output.NopMetrics{}
	}
	s := &Server{deps: deps, cfg: cfg}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger(ServiceName, httplog.Options{
			JSON:     s.cfg.AccessLogJSON,
			LogLevel: s.cfg.LogLevel,
			Concise:  true,
		})))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Task-ID"},
		MaxAge:         86400,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	if s.deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.MetricsHandler)
	}
	r.Get("/mcp/manifest", s.handleManifest)

	limit := rateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)

	r.With(limit, s.requireAPIKey, s.policyGate).Post("/mcp/invoke", s.handleInvoke)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Get("/", s.handleListTasks)
		r.Get("/{taskID}", s.handleGetTask)
	})

	r.Route("/api/browser", func(r chi.Router) {
		r.Use(limit)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/snapshot", s.handleSnapshot)
		r.Post("/test-prompt", s.handleTestPrompt)
	})

	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.deps.Logger.Info("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}
