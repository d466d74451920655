package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"salesdash/internal/log"
	"salesdash/internal/middleware/ratelimit"
	"salesdash/internal/middleware/security"
	"salesdash/internal/middleware/trace"
	"salesdash/internal/services"
	"salesdash/internal/session"
	appweb "salesdash/web"
)

// DefaultSessionCookie names the cookie carrying the session ID.
const DefaultSessionCookie = "salesdash_session"

// Options wires the server to its collaborators. Nil collaborators are
// replaced with in-process defaults.
type Options struct {
	Addr              string
	Logger            *log.Logger
	Sessions          *session.Store
	Activity          *services.ActivityService
	RateLimitPerMin   int
	SessionCookie     string
	SessionCookieTTL  time.Duration
	StaticCacheMaxAge int
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Store
	activity  *services.ActivityService

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	logger    *log.Logger
	structLog *log.StructuredLogger

	cookieName string
	cookieTTL  time.Duration

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

// appMetrics counts dashboard updates for /metrics.
type appMetrics struct {
	uptime      time.Time
	initialLoad atomic.Int64
	adds        atomic.Int64
	resets      atomic.Int64
	rejected    atomic.Int64
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore(session.DefaultConfig())
	}
	if opts.Activity == nil {
		opts.Activity = services.NewActivityService(nil, nil)
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = DefaultSessionCookie
	}
	if opts.SessionCookieTTL <= 0 {
		opts.SessionCookieTTL = session.DefaultConfig().IdleTTL
	}
	if opts.StaticCacheMaxAge <= 0 {
		opts.StaticCacheMaxAge = 3600
	}

	httpLogger := logger.WithComponent(log.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		sessions:         opts.Sessions,
		activity:         opts.Activity,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(logger, detector.ExtractClientIP),
		logger:           httpLogger,
		structLog:        log.NewStructuredLogger(logger.WithComponent(log.ComponentDashboard)),
		cookieName:       opts.SessionCookie,
		cookieTTL:        opts.SessionCookieTTL,
	}
	s.appMetrics.uptime = time.Now()

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.WithComponent(log.ComponentTemplate).Error("Failed parsing templates",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeConfiguration)
	}
	s.templates = t

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(opts.StaticCacheMaxAge)(static))
	} else {
		httpLogger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/activity", s.handleActivity)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(detector.ExtractClientIP, s.handleRateLimited)

	var handler http.Handler = mux
	handler = log.ComponentMiddleware(log.ComponentHTTP)(handler)
	handler = limit(handler)
	handler = detector.Middleware(logger)(handler)
	handler = headers.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and its background routines.
// The session store and the activity service are owned by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	// Ensure shutdown logic runs only once
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	TooManyRequestsError("Too many requests, please slow down").Write(w)
}
