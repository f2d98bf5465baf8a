package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/validation"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when a key is
// present but no Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// ErrMissingTranslation is returned by Catalog for unknown keys.
var ErrMissingTranslation = errors.New("render: translation missing")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// resolved. args carries a map with the "default" fallback.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Catalog is an in-memory Translator keyed by locale then message key.
// Lookups fall back from "es-MX" to "es".
type Catalog map[string]map[string]string

// Translate implements Translator. Args are applied with fmt.Sprintf when
// present.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := c[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		chain = append(chain, locale[:idx])
	}
	return chain
}

// LocalizePage mutates the page in place, translating every `*Key` hint into
// the matching label. Callers should pass a Clone of shared definitions.
//
// This is best-effort: translation failures are routed through opts.OnMissing
// and keep the existing text by default.
func LocalizePage(page *model.Page, opts RenderOptions) {
	if page == nil {
		return
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	for i := range page.Forms {
		form := &page.Forms[i]
		if key := strings.TrimSpace(form.TitleKey); key != "" {
			form.Title = translate(opts.Locale, key, form.Title, opts.Translator, onMissing)
		}
		for j := range form.Fields {
			field := &form.Fields[j]
			if key := strings.TrimSpace(field.LabelKey); key != "" {
				field.Label = translate(opts.Locale, key, field.Label, opts.Translator, onMissing)
			}
		}
		for j := range form.Links {
			link := &form.Links[j]
			if key := strings.TrimSpace(link.LabelKey); key != "" {
				link.Label = translate(opts.Locale, key, link.Label, opts.Translator, onMissing)
			}
		}
	}
}

// MessageKey returns the translation key for a validation code.
func MessageKey(code validation.Code) string {
	if code == validation.CodeNone {
		return ""
	}
	return "validation." + string(code)
}

// LocalizeMessage translates the message for code. fallback is used when no
// translation is available; an empty fallback uses the built-in English text.
func LocalizeMessage(opts RenderOptions, code validation.Code, fallback string) string {
	if strings.TrimSpace(fallback) == "" {
		fallback = validation.Message(code)
	}
	key := MessageKey(code)
	if key == "" || opts.Translator == nil {
		return fallback
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
}

// TemplateFuncs returns helpers suitable for template globals:
//
//	translate(locale, key, ...args) string
func TemplateFuncs(t Translator, onMissing MissingTranslationHandler) map[string]any {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return map[string]any{
		"translate": func(locale, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			if t == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
