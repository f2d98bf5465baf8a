// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-authform/pkg/model"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Page returns a fresh copy of the embedded login/register definitions.
func Page(t *testing.T) model.Page {
	t.Helper()

	page, err := model.LoadPage(model.DefinitionsFS(), "definitions/page.yaml")
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	return page
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
