// Package authform renders login and registration forms with live field
// validation, a password strength indicator, toast notifications and draft
// autosave. The root package re-exports the common entry points; the pkg/
// subpackages hold the building blocks.
package authform

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/orchestrator"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/renderers/vanilla"
	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/strength"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Page is the set of forms shown together.
type Page = model.Page

// RenderOptions carries the per-client UI state renderers draw from.
type RenderOptions = render.RenderOptions

// DefaultPage returns the built-in login and registration forms.
func DefaultPage() Page {
	return model.DefaultPage()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the page with the vanilla renderer. opts usually
// comes from Session.Snapshot.
func GenerateHTML(ctx context.Context, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      vanilla.Name,
		RenderOptions: opts,
	})
}

// NewSession creates an interaction session over the built-in forms.
func NewSession(options ...session.Option) (*session.Session, error) {
	return session.New(model.DefaultPage(), options...)
}

// ScorePassword is shorthand for strength.Score.
func ScorePassword(password string) strength.Result {
	return strength.Score(password)
}

// ValidateField validates one value outside of a form.
func ValidateField(kind validation.Kind, value string, required bool, primaryPassword string) validation.Result {
	return validation.Validate(validation.Field{
		Kind:     kind,
		Value:    value,
		Required: required,
	}, validation.Context{PrimaryPassword: primaryPassword})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeManifests registers manifests with the orchestrator and selects
// defaultTheme/defaultVariant when a request names none.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemeManifests(defaultTheme, defaultVariant, manifests...)
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet, page script and service worker.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(authform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
