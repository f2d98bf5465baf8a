package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-authform/pkg/renderers/vanilla"
)

var (
	// ErrThemeNotFound is returned when a requested theme is not registered.
	ErrThemeNotFound = errors.New("orchestrator: theme not found")
	// ErrVariantNotFound is returned when a theme lacks the requested variant.
	ErrVariantNotFound = errors.New("orchestrator: theme variant not found")
)

// ManifestSelector resolves selections from in-memory go-theme manifests.
type ManifestSelector struct {
	defaultTheme   string
	defaultVariant string
	manifests      map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name. The first manifest is the
// default when defaultTheme is empty.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
			return nil, errors.New("orchestrator: theme manifest requires a name")
		}
		if _, exists := s.manifests[manifest.Name]; exists {
			return nil, fmt.Errorf("orchestrator: theme %q registered twice", manifest.Name)
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
	}
	if s.defaultTheme != "" {
		if _, ok := s.manifests[s.defaultTheme]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, s.defaultTheme)
		}
	}
	return s, nil
}

// Select returns the manifest for name and variant. Empty arguments fall back
// to the configured defaults; the default variant only applies to the
// default theme.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q/%q", ErrVariantNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection: variant tokens, templates and assets
// override the base manifest, and every token becomes a "--name" CSS
// variable.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	name := selection.Theme
	if name == "" {
		name = manifest.Name
	}
	return &theme.RendererConfig{
		Theme:    name,
		Variant:  selection.Variant,
		Partials: mergeStrings(fallbacks, manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(manifest.Assets, variant.Assets),
	}
}

func assetResolver(base, variant theme.Assets) func(string) string {
	return func(key string) string {
		prefix := base.Prefix
		if variant.Prefix != "" {
			prefix = variant.Prefix
		}
		if file, ok := variant.Files[key]; ok {
			return joinAsset(prefix, file)
		}
		if file, ok := base.Files[key]; ok {
			return joinAsset(base.Prefix, file)
		}
		return ""
	}
}

func joinAsset(prefix, file string) string {
	if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	return strings.TrimRight(prefix, "/") + "/" + file
}

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		vanilla.PagePartial: vanilla.PageTemplate,
	}
}

func mergeStrings(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}

func copyStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	return mergeStrings(in)
}
