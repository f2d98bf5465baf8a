package model

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-authform/pkg/validation"
)

func TestDefaultPage(t *testing.T) {
	page := DefaultPage()

	if page.InitialTab() != "loginForm" {
		t.Fatalf("expected login tab first, got %q", page.InitialTab())
	}

	register, ok := page.Form("registerForm")
	if !ok {
		t.Fatalf("register form missing")
	}
	primary, ok := register.PrimaryPassword()
	if !ok || primary != "registerPassword" {
		t.Fatalf("expected registerPassword primary, got %q", primary)
	}
	confirm, _ := register.Field("confirmPassword")
	if confirm.Kind != validation.KindPasswordConfirm || !confirm.Masked {
		t.Fatalf("unexpected confirm field %+v", confirm)
	}

	login, _ := page.Form("loginForm")
	password, _ := login.Field("loginPassword")
	if password.Kind != validation.KindText || !password.Masked || !password.Toggle {
		t.Fatalf("login password should be a masked text field with toggle, got %+v", password)
	}
	if password.InputType() != "password" {
		t.Fatalf("expected password input type, got %q", password.InputType())
	}

	wantProviders := []string{"Google", "Facebook", "LinkedIn"}
	if diff := cmp.Diff(wantProviders, page.SocialProviders); diff != "" {
		t.Fatalf("providers mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot(t *testing.T) {
	register, _ := DefaultPage().Form("registerForm")
	snap := register.Snapshot(map[string]string{
		"registerEmail": "a@b.com",
		"unknown":       "ignored",
	})
	if len(snap) != len(register.Fields) {
		t.Fatalf("expected one entry per field, got %d", len(snap))
	}
	if snap[2].ID != "registerEmail" || snap[2].Value != "a@b.com" || snap[2].Kind != validation.KindEmail {
		t.Fatalf("unexpected snapshot entry %+v", snap[2])
	}
	if snap[0].Value != "" || !snap[0].Required {
		t.Fatalf("expected empty required first name, got %+v", snap[0])
	}
}

func TestLoadPageRejectsBrokenDefinitions(t *testing.T) {
	tests := map[string]string{
		"no forms":       "title: x\n",
		"duplicate form": "forms:\n  - id: a\n  - id: a\n",
		"duplicate field": `forms:
  - id: a
    fields:
      - {id: f, kind: text}
      - {id: f, kind: email}
`,
		"unknown kind": `forms:
  - id: a
    fields:
      - {id: f, kind: color}
`,
		"orphan confirm": `forms:
  - id: a
    fields:
      - {id: c, kind: password-confirm}
`,
		"bad default tab": `defaultTab: nope
forms:
  - id: a
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"page.yaml": {Data: []byte(doc)}}
			_, err := LoadPage(fsys, "page.yaml")
			if !errors.Is(err, ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestParsePageAcceptsJSONAndAliases(t *testing.T) {
	page, err := ParsePage([]byte(`{"forms":[{"id":"f","fields":[{"id":"p","kind":"password"},{"id":"c","kind":"confirm"},{"id":"t","kind":"phone"}]}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := page.Forms[0]
	if form.Fields[1].Kind != validation.KindPasswordConfirm || form.Fields[2].Kind != validation.KindTel {
		t.Fatalf("aliases not normalised: %+v", form.Fields)
	}
}

func TestCloneIsDeep(t *testing.T) {
	page := DefaultPage()
	clone := page.Clone()
	clone.Forms[0].Fields[0].Label = "changed"
	clone.SocialProviders[0] = "changed"
	if page.Forms[0].Fields[0].Label == "changed" || page.SocialProviders[0] == "changed" {
		t.Fatalf("clone shares state with original")
	}
}
