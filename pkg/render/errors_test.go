package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/validation"
)

func TestMapIssues(t *testing.T) {
	form := model.FormModel{
		ID: "registerForm",
		Fields: []model.Field{
			{ID: "registerEmail", Kind: validation.KindEmail},
			{ID: "confirmPassword", Kind: validation.KindPasswordConfirm},
		},
	}

	issues := []validation.Issue{
		{Field: "registerEmail", Code: validation.CodeEmail, Message: "Please enter a valid email address"},
		{Field: "registerEmail", Code: validation.CodeRequired, Message: "second message is dropped"},
		{Field: "confirmPassword", Code: validation.CodeMismatch},
		{Field: "unknown", Message: "  Form level  "},
		{Message: "Form level"},
	}

	got := render.MapIssues(form, issues)
	want := render.ErrorMapping{
		Fields: map[string]string{
			"registerEmail":   "Please enter a valid email address",
			"confirmPassword": "Passwords do not match",
		},
		Form: []string{"Form level"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMapIssuesEmpty(t *testing.T) {
	got := render.MapIssues(model.FormModel{}, nil)
	if got.Fields != nil || got.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{"a", " b "}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
