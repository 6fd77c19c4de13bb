package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"formcount/internal/amqp"
	"formcount/internal/auth"
	"formcount/internal/log"
	"formcount/internal/metrics"
	"formcount/internal/middleware/ratelimit"
	"formcount/internal/middleware/security"
	"formcount/internal/middleware/trace"
	"formcount/internal/services"
)

// JobPublisher queues asynchronous reconciliation passes.
type JobPublisher interface {
	PublishReconcileRequest(ctx context.Context, req *amqp.ReconcileRequest) error
}

// Services groups the collaborators the handlers call. Jobs, Ready and
// Metrics may be nil.
type Services struct {
	Auth          *services.AuthService
	Tokens        *auth.Tokens
	Entries       *services.EntryService
	Receive       *services.Reconciler
	Distribution  *services.Reconciler
	Distributions *services.DistributionService
	Reports       *services.ReportService
	Jobs          JobPublisher
	Ready         func(context.Context) error
	Metrics       *metrics.Metrics
}

// Options tunes the outer middleware.
type Options struct {
	CORSAllowedOrigin string
	LoginRateLimit    int
	LoginRateWindow   time.Duration
	Logger            *log.Logger
}

type Server struct {
	http.Server
	svc          Services
	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc Services, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc: svc,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			Limit:  opts.LoginRateLimit,
			Window: opts.LoginRateWindow,
		}),
	}

	clientIP := security.NewClientIP()
	loginLimit := s.limiter.Middleware(clientIP.Extract, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).
			WarnContext(r.Context(), "Login rate limit exceeded", log.FieldClientIP, clientIP.Extract(r))
		ErrorResponse(http.StatusTooManyRequests, "Too many login attempts, please try again later").Write(w)
	})

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", svc.Metrics.Handler())

	mux.Handle("POST /api/auth/login", loginLimit(http.HandlerFunc(s.handleLogin)))

	mux.Handle("GET /api/entries/my", s.authenticated(s.handleMyEntries))
	mux.Handle("GET /api/entries/disabled", s.authenticated(s.handleSubmittedEntries))
	mux.Handle("POST /api/entries/add", s.authenticated(s.handleAddEntry))

	mux.Handle("GET /api/receive-entries/{month}/{day}", s.admin(s.handlePendingReceive))
	mux.Handle("POST /api/receive-entries", s.admin(s.handleReconcile(svc.Receive)))
	mux.Handle("POST /api/receive-entries/jobs", s.admin(s.handleEnqueueReconcile(svc.Receive)))

	mux.Handle("GET /api/distribution-entries", s.admin(s.handlePendingDistribution))
	mux.Handle("POST /api/distribution-entries", s.admin(s.handleRecordDistribution))
	mux.Handle("POST /api/distribution-entries/reconcile", s.admin(s.handleReconcile(svc.Distribution)))
	mux.Handle("POST /api/distribution-entries/jobs", s.admin(s.handleEnqueueReconcile(svc.Distribution)))

	mux.Handle("GET /api/reports", s.authenticated(s.handleReports))
	mux.Handle("POST /api/reports/export", s.admin(s.handleExportReport))

	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	var handler http.Handler = trace.RecordRoute(mux)
	handler = log.Middleware(logger.WithComponent(log.ComponentHTTP), trace.GetRequestID)(handler)
	handler = security.CORS(opts.CORSAllowedOrigin)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(clientIP.Extract, svc.Metrics).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
