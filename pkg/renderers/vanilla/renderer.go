// Package vanilla renders the login and registration page as server-side
// HTML with a small progressive-enhancement script.
package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	rendertemplate "github.com/goliatone/go-authform/pkg/render/template"
	gotemplate "github.com/goliatone/go-authform/pkg/render/template/gotemplate"
)

// Name is the registry key of the renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetBase        string
	serviceWorker    string
	apiBase          string
	lang             string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetBase sets the URL prefix the stylesheet and script are served
// from. Defaults to "/assets".
func WithAssetBase(base string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(base); trimmed != "" {
			cfg.assetBase = trimmed
		}
	}
}

// WithServiceWorker sets the service worker URL. An empty path disables the
// registration snippet.
func WithServiceWorker(path string) Option {
	return func(cfg *config) {
		cfg.serviceWorker = strings.TrimSpace(path)
	}
}

// WithAPIBase sets the prefix the runtime script calls. Defaults to "/api".
func WithAPIBase(base string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(base); trimmed != "" {
			cfg.apiBase = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithLang sets the document language used when RenderOptions carry no
// locale.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			cfg.lang = trimmed
		}
	}
}

type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	assetBase     string
	serviceWorker string
	apiBase       string
	lang          string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:    TemplatesFS(),
		assetBase:     "/assets",
		serviceWorker: "/" + ServiceWorkerName,
		apiBase:       "/api",
		lang:          "en",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		assetBase:     cfg.assetBase,
		serviceWorker: cfg.serviceWorker,
		apiBase:       cfg.apiBase,
		lang:          cfg.lang,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full HTML page.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(page.Forms) == 0 {
		return nil, errors.New("vanilla renderer: page has no forms")
	}

	result, err := r.templates.RenderTemplate(pageTemplate(opts), r.buildView(page, opts))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func pageTemplate(opts render.RenderOptions) string {
	if opts.Theme != nil {
		if name := strings.TrimSpace(opts.Theme.Partials[PagePartial]); name != "" {
			return name
		}
	}
	return PageTemplate
}
