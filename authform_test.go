package authform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-authform/pkg/renderers/vanilla"
	"github.com/goliatone/go-authform/pkg/validation"
)

func TestAssetsFSContainsRuntime(t *testing.T) {
	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName, vanilla.ServiceWorkerName} {
		if _, err := fs.ReadFile(AssetsFS(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestEmbeddedTemplatesContainPage(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), vanilla.PageTemplate); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
}

func TestGenerateHTMLFromSession(t *testing.T) {
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := sess.Blur("loginForm", "loginEmail"); err != nil {
		t.Fatalf("blur: %v", err)
	}

	html, err := GenerateHTML(context.Background(), sess.Snapshot())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(html), "This field is required") {
		t.Fatalf("expected required feedback in output")
	}
}

func TestConvenienceHelpers(t *testing.T) {
	if got := ScorePassword("abcdefgh").Score; got != 2 {
		t.Fatalf("expected score 2, got %d", got)
	}
	if res := ValidateField(validation.KindEmail, "ada@example.com", true, ""); !res.Valid {
		t.Fatalf("expected valid email, got %+v", res)
	}
	if res := ValidateField(validation.KindPasswordConfirm, "a", false, "b"); res.Code != validation.CodeMismatch {
		t.Fatalf("expected mismatch, got %+v", res)
	}
	if got := len(DefaultPage().Forms); got != 2 {
		t.Fatalf("expected two forms, got %d", got)
	}
}
