package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/validation"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizePage_UsesKeysAndFallbacks(t *testing.T) {
	page := model.Page{
		Forms: []model.FormModel{
			{
				ID:       "loginForm",
				Title:    "Sign In",
				TitleKey: "forms.login.title",
				Fields: []model.Field{
					{ID: "loginEmail", Label: "Email", LabelKey: "fields.email"},
					{ID: "loginPassword", Label: "Password"},
				},
				Links: []model.Link{{ID: "forgot-password", Label: "Forgot password?", LabelKey: "links.forgot"}},
			},
		},
	}

	render.LocalizePage(&page, render.RenderOptions{
		Locale:     "es",
		Translator: stubTranslator{"fields.email": "Correo"},
	})

	form := page.Forms[0]
	if form.Title != "Sign In" {
		t.Fatalf("expected title to fall back, got %q", form.Title)
	}
	if form.Fields[0].Label != "Correo" {
		t.Fatalf("expected translated label, got %q", form.Fields[0].Label)
	}
	if form.Fields[1].Label != "Password" {
		t.Fatalf("fields without keys must keep their label, got %q", form.Fields[1].Label)
	}
	if form.Links[0].Label != "Forgot password?" {
		t.Fatalf("expected link label to fall back, got %q", form.Links[0].Label)
	}
}

func TestLocalizePage_OnMissingHandler(t *testing.T) {
	page := model.Page{Forms: []model.FormModel{{ID: "f", Title: "T", TitleKey: "forms.f.title"}}}
	var gotErr error
	render.LocalizePage(&page, render.RenderOptions{
		OnMissing: func(_ string, key string, _ []any, err error) string {
			gotErr = err
			return "[" + key + "]"
		},
	})
	if page.Forms[0].Title != "[forms.f.title]" {
		t.Fatalf("expected OnMissing output, got %q", page.Forms[0].Title)
	}
	if !errors.Is(gotErr, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
}

func TestLocalizeMessage(t *testing.T) {
	opts := render.RenderOptions{
		Locale:     "es",
		Translator: stubTranslator{"validation.required": "Este campo es obligatorio"},
	}
	if got := render.LocalizeMessage(opts, validation.CodeRequired, ""); got != "Este campo es obligatorio" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := render.LocalizeMessage(opts, validation.CodeEmail, ""); got != "Please enter a valid email address" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := render.LocalizeMessage(render.RenderOptions{}, validation.CodeMismatch, "custom"); got != "custom" {
		t.Fatalf("expected explicit fallback, got %q", got)
	}
}

func TestCatalogFallsBackToLanguage(t *testing.T) {
	catalog := render.Catalog{
		"es": {"greeting": "Hola %s"},
	}
	got, err := catalog.Translate("es-MX", "greeting", "Ana")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Hola Ana" {
		t.Fatalf("unexpected translation %q", got)
	}
	if _, err := catalog.Translate("fr", "greeting"); !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestTemplateFuncsTranslate(t *testing.T) {
	funcs := render.TemplateFuncs(stubTranslator{"k": "v"}, nil)
	translate, ok := funcs["translate"].(func(string, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper has unexpected type %T", funcs["translate"])
	}
	if got := translate("en", "k"); got != "v" {
		t.Fatalf("expected v, got %q", got)
	}
	if got := translate("en", "missing"); got != "missing" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}
