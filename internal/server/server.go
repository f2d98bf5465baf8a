// Package server exposes the login and registration page over HTTP. The
// browser script calls the JSON API for every interaction; all form state
// lives in a per-client session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/config"
	"github.com/goliatone/go-authform/internal/metrics"
	"github.com/goliatone/go-authform/pkg/orchestrator"
	"github.com/goliatone/go-authform/pkg/renderers/vanilla"
	"github.com/goliatone/go-authform/pkg/session"
)

// Dependencies encapsulates the objects required to build the server.
type Dependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Sessions     *session.Manager
	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Metrics
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Closers run after the HTTP server stopped, e.g. draft store handles.
	Closers []func() error
}

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	sessions     *session.Manager
	orchestrator *orchestrator.Orchestrator
	metrics      *metrics.Metrics
	closers      []func() error

	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	cookieName      string
	cookieSecure    bool
	locale          string
	theme           string
	variant         string
	startedAt       time.Time
}

// New configures the Gin engine with middleware and routes.
func New(ctx context.Context, deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("server: session manager is required")
	}
	if deps.Orchestrator == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	if err := deps.Orchestrator.Err(); err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	validator, err := newRequestValidator(ctx)
	if err != nil {
		return nil, err
	}

	cfg := deps.Config
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		log:             log,
		sessions:        deps.Sessions,
		orchestrator:    deps.Orchestrator,
		metrics:         deps.Metrics,
		closers:         deps.Closers,
		addr:            cfg.Server.Addr(),
		readTimeout:     cfg.Server.ReadTimeout,
		writeTimeout:    cfg.Server.WriteTimeout,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		cookieName:      cfg.Server.CookieName,
		cookieSecure:    cfg.Server.CookieSecure,
		locale:          cfg.UI.Locale,
		theme:           cfg.UI.Theme,
		variant:         cfg.UI.Variant,
		startedAt:       time.Now().UTC(),
	}
	if s.cookieName == "" {
		s.cookieName = "authform_client"
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}

	r := gin.New()
	r.Use(Recovery(log))
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(deps.Metrics.Handler())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/openapi.yaml", s.openAPI)

	assets := http.FS(vanilla.AssetsFS())
	r.StaticFS("/assets", assets)
	r.GET("/"+vanilla.ServiceWorkerName, func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.FileFromFS(vanilla.ServiceWorkerName, assets)
	})

	r.GET("/", s.clientSession(), s.page)

	api := r.Group("/api", validator.Handler())
	api.POST("/strength", s.scoreStrength)
	api.POST("/validate", s.validateValue)

	stateful := api.Group("", s.clientSession())
	stateful.POST("/forms/:formId/fields/:fieldId", s.fieldEvent)
	stateful.POST("/forms/:formId/toggle/:fieldId", s.toggle)
	stateful.POST("/forms/:formId/submit", s.submit)
	stateful.GET("/drafts/:formId", s.loadDraft)
	stateful.PUT("/drafts/:formId", s.saveDraft)
	stateful.DELETE("/drafts/:formId", s.clearDraft)
	stateful.POST("/actions/:action", s.action)

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully, flushing
// pending draft autosaves.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.engine,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.log.Info("shutting down http server")
	errs := []error{srv.Shutdown(shutdownCtx), s.sessions.Close(shutdownCtx)}
	for _, closeFn := range s.closers {
		if closeFn != nil {
			errs = append(errs, closeFn())
		}
	}
	return errors.Join(errs...)
}
