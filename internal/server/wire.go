package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/config"
	"github.com/goliatone/go-authform/internal/metrics"
	"github.com/goliatone/go-authform/pkg/drafts"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/orchestrator"
	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/submit"
)

// OpenDraftStore builds the store selected by drafts.driver. The returned
// close function releases connections and is never nil.
func OpenDraftStore(ctx context.Context, cfg *config.Config) (drafts.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Drafts.Driver {
	case "", config.DriverMemory:
		return drafts.NewMemory(), noop, nil

	case config.DriverFile:
		store, err := drafts.NewFile(cfg.Drafts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("server: ping redis %s: %w", cfg.Redis.Addr, err)
		}
		store, err := drafts.NewRedis(client,
			drafts.WithKeyPrefix(cfg.Drafts.KeyPrefix),
			drafts.WithTTL(cfg.Drafts.TTL),
		)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, client.Close, nil

	case config.DriverSQLite:
		db, err := drafts.OpenSQLite(cfg.Drafts.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("server: sqlite handle: %w", err)
		}
		store, err := drafts.NewSQL(db)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return store, sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("server: unknown drafts driver %q", cfg.Drafts.Driver)
}

// LoadPage returns the configured page definitions, or the built-in ones.
func LoadPage(cfg *config.Config) (model.Page, error) {
	path := strings.TrimSpace(cfg.UI.Definitions)
	if path == "" {
		return model.DefaultPage(), nil
	}
	return model.LoadPage(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// NewOrchestrator builds the page pipeline for page, applying the configured
// theme tokens when a theme is named.
func NewOrchestrator(cfg *config.Config, page model.Page) *orchestrator.Orchestrator {
	opts := []orchestrator.Option{orchestrator.WithPage(page)}
	if name := strings.TrimSpace(cfg.UI.Theme); name != "" {
		manifest := &theme.Manifest{
			Name:   name,
			Tokens: cfg.UI.Tokens,
		}
		if variant := strings.TrimSpace(cfg.UI.Variant); variant != "" {
			manifest.Variants = map[string]theme.Variant{variant: {}}
		}
		opts = append(opts, orchestrator.WithThemeManifests(name, cfg.UI.Variant, manifest))
	}
	return orchestrator.New(opts...)
}

// Build wires the draft store, session manager, metrics and page pipeline
// from cfg.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	page, err := LoadPage(cfg)
	if err != nil {
		return nil, err
	}

	m, err := metrics.New(metrics.Options{Registerer: reg})
	if err != nil {
		return nil, err
	}

	store, closeStore, err := OpenDraftStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	manager, err := session.NewManager(page,
		session.WithStore(store),
		session.WithSubmitter(submit.NewSimulated(
			submit.WithDelay(cfg.Submit.Delay),
			submit.WithRedirectAfter(cfg.Submit.RedirectDelay),
		)),
		session.WithLogger(log.Named("session")),
		session.WithObserver(m),
		session.WithAutosaveDebounce(cfg.Session.AutosaveDebounce),
		session.WithToastCapacity(cfg.Session.ToastCapacity),
		session.WithIncludeSecrets(cfg.Drafts.IncludeSecrets),
		session.WithIdleTTL(cfg.Session.IdleTTL),
		session.WithMaxSessions(cfg.Session.MaxSessions),
	)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	var gatherer prometheus.Gatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	srv, err := New(ctx, Dependencies{
		Config:       cfg,
		Logger:       log,
		Sessions:     manager,
		Orchestrator: NewOrchestrator(cfg, page),
		Metrics:      m,
		Gatherer:     gatherer,
		Closers:      []func() error{closeStore},
	})
	if err != nil {
		_ = manager.Close(ctx)
		_ = closeStore()
		return nil, err
	}
	return srv, nil
}
