package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/renderers/vanilla"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithPage replaces the built-in login and registration definitions.
func WithPage(page model.Page) Option {
	return func(o *Orchestrator) {
		o.page = page
		o.pageSet = true
	}
}

// WithDefinitionsFS loads the page definition from fsys at construction.
func WithDefinitionsFS(fsys fs.FS, path string) Option {
	return func(o *Orchestrator) {
		page, err := model.LoadPage(fsys, path)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load definitions: %w", err)
			return
		}
		o.page = page
		o.pageSet = true
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDecorators registers decorators that run against a copy of the page
// before localisation.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithTranslator sets the translator used when a request carries none.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeManifests builds a ManifestSelector from manifests and selects
// defaultTheme/defaultVariant when a request names none.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		selector, err := NewManifestSelector(defaultTheme, defaultVariant, manifests...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: theme manifests: %w", err)
			return
		}
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets partials used when a theme does not override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = copyStrings(fallbacks)
	}
}

// Orchestrator renders the page for a request. It applies sensible defaults
// (embedded definitions, vanilla renderer) while remaining open to
// dependency injection.
type Orchestrator struct {
	page            model.Page
	pageSet         bool
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	translator      render.Translator
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// RenderOptions carries the per-client UI state.
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant select a theme when a selector is
	// configured. Empty values use the selector defaults.
	ThemeName    string
	ThemeVariant string
}

// Page returns a copy of the configured definitions.
func (o *Orchestrator) Page() model.Page {
	return o.page.Clone()
}

// Err reports a configuration error captured at construction.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Renderer resolves a renderer by name, falling back to the default.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	return o.rendererFor(name)
}

// Generate decorates and localises a copy of the page, resolves the theme and
// returns the renderer output.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	page := o.page.Clone()
	if err := o.applyDecorators(&page); err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	render.LocalizePage(&page, opts)

	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, page, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Get("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: no renderers registered: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(page *model.Page) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(page); err != nil {
			return fmt.Errorf("orchestrator: decorate page: %w", err)
		}
	}
	if len(o.decorators) > 0 {
		if err := model.Check(*page); err != nil {
			return fmt.Errorf("orchestrator: decorated page: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.initialiseErr != nil {
		return
	}
	if !o.pageSet {
		o.page = model.DefaultPage()
	} else if err := model.Check(o.page); err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: %w", err)
		return
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
}
