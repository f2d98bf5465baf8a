package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/validation"
)

func TestGenerate_DefaultsToVanilla(t *testing.T) {
	orch := New()
	if err := orch.Err(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}

	out, err := orch.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<form id="loginForm"`) || !strings.Contains(html, `<form id="registerForm"`) {
		t.Fatalf("expected both forms in output")
	}

	renderer, err := orch.Renderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("expected vanilla default, got %q", renderer.Name())
	}
}

func TestGenerate_LocalizesCopyOfPage(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	catalog := render.Catalog{
		"es": {
			"forms.login.title": "Iniciar sesión",
			"fields.email":      "Correo electrónico",
		},
	}
	orch := New(WithRegistry(registry), WithTranslator(catalog))

	_, err := orch.Generate(context.Background(), Request{
		RenderOptions: render.RenderOptions{Locale: "es-MX"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	login, _ := renderer.page.Form("loginForm")
	if login.Title != "Iniciar sesión" {
		t.Fatalf("expected translated title, got %q", login.Title)
	}
	email, _ := login.Field("loginEmail")
	if email.Label != "Correo electrónico" {
		t.Fatalf("expected translated label, got %q", email.Label)
	}
	password, _ := login.Field("loginPassword")
	if password.Label != "Password" {
		t.Fatalf("missing keys must keep the default label, got %q", password.Label)
	}

	shared, _ := orch.Page().Form("loginForm")
	if shared.Title != "Sign In" {
		t.Fatalf("shared definitions were mutated: %q", shared.Title)
	}
	if renderer.options.Theme != nil {
		t.Fatal("expected no theme without a selector")
	}
}

func TestGenerate_Decorators(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDecorators(model.DecoratorFunc(func(page *model.Page) error {
			page.Title = "Members"
			page.SocialProviders = nil
			return nil
		})),
	)
	out, err := orch.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "Members" {
		t.Fatalf("expected decorated title, got %q", out)
	}
	if diff := cmp.Diff([]string{"Google", "Facebook", "LinkedIn"}, orch.Page().SocialProviders); diff != "" {
		t.Fatalf("shared providers changed (-want +got):\n%s", diff)
	}

	failing := New(
		WithRegistry(registry),
		WithDecorators(model.DecoratorFunc(func(*model.Page) error { return errors.New("boom") })),
	)
	if _, err := failing.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected decorator error")
	}

	breaking := New(
		WithRegistry(registry),
		WithDecorators(model.DecoratorFunc(func(page *model.Page) error {
			page.Forms = nil
			return nil
		})),
	)
	if _, err := breaking.Generate(context.Background(), Request{}); !errors.Is(err, model.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestGenerate_RendererSelection(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(WithRegistry(registry))
	if _, err := orch.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("expected fallback to the registry default, got %v", err)
	}
	if _, err := orch.Generate(context.Background(), Request{Renderer: "missing"}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestGenerate_Errors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	broken := New(WithPage(model.Page{Title: "empty"}))
	if !errors.Is(broken.Err(), model.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", broken.Err())
	}
	if _, err := broken.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected generate to fail for broken page")
	}

	missing := New(WithDefinitionsFS(model.DefinitionsFS(), "definitions/missing.yaml"))
	if missing.Err() == nil {
		t.Fatal("expected load error for missing definitions")
	}
}

func TestGenerate_LocalizesValidationMessages(t *testing.T) {
	catalog := render.Catalog{
		"es": {"validation.required": "Este campo es obligatorio"},
	}
	orch := New(WithTranslator(catalog))

	out, err := orch.Generate(context.Background(), Request{
		RenderOptions: render.RenderOptions{
			Locale: "es",
			Errors: map[string]map[string]string{
				"loginForm": {"loginEmail": "This field is required", "loginPassword": "custom note"},
			},
			ErrorCodes: map[string]map[string]validation.Code{
				"loginForm": {"loginEmail": validation.CodeRequired},
			},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<div class="invalid-feedback" id="loginEmail-feedback">Este campo es obligatorio</div>`) {
		t.Fatalf("expected translated message, got:\n%s", html)
	}
	if strings.Contains(html, "This field is required") {
		t.Fatal("english message should be replaced")
	}
	if !strings.Contains(html, "custom note") {
		t.Fatal("messages without a code should render as given")
	}
}

func TestGenerate_ValidationMessagesFallBackToEnglish(t *testing.T) {
	orch := New(WithTranslator(render.Catalog{"es": {}}))

	out, err := orch.Generate(context.Background(), Request{
		RenderOptions: render.RenderOptions{
			Locale:     "es",
			Errors:     map[string]map[string]string{"loginForm": {"loginEmail": "This field is required"}},
			ErrorCodes: map[string]map[string]validation.Code{"loginForm": {"loginEmail": validation.CodeRequired}},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "This field is required") {
		t.Fatal("expected english fallback when the catalog has no entry")
	}
}
