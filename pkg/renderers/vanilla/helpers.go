package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-authform/pkg/strength"
)

func stateClass(state string) string {
	switch state {
	case "valid":
		return "is-valid"
	case "invalid":
		return "is-invalid"
	default:
		return ""
	}
}

func strengthLabel(level strength.Level) string {
	switch level {
	case strength.LevelStrong:
		return "Strong"
	case strength.LevelMedium:
		return "Medium"
	case strength.LevelWeak:
		return "Weak"
	default:
		return ""
	}
}

func strengthPercent(score int) int {
	if score <= 0 {
		return 0
	}
	if score >= strength.MaxScore {
		return 100
	}
	return score * 100 / strength.MaxScore
}

type themeView struct {
	Name    string `json:"name,omitempty"`
	Variant string `json:"variant,omitempty"`
	Style   string `json:"style,omitempty"`
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	return themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
}

// cssVarsStyle renders CSS custom properties in a stable order. Names
// without the leading "--" are prefixed.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		value := strings.NewReplacer(";", "", "{", "", "}", "", "<", "").Replace(vars[key])
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(value))
		b.WriteByte(';')
	}
	return b.String()
}

func themeAsset(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg == nil || cfg.AssetURL == nil {
		return fallback
	}
	if url := strings.TrimSpace(cfg.AssetURL(key)); url != "" {
		return url
	}
	return fallback
}

func joinURL(base, name string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	return base + "/" + strings.TrimLeft(name, "/")
}
