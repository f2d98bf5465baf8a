package model

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-authform/pkg/validation"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

const defaultDefinition = "definitions/page.yaml"

// ErrInvalidDefinition wraps structural problems found while loading a page.
var ErrInvalidDefinition = errors.New("model: invalid page definition")

// DefinitionsFS exposes the embedded page definitions.
func DefinitionsFS() fs.FS {
	return embeddedDefinitions
}

// DefaultPage returns the built-in login and registration forms. It panics if
// the embedded definition is broken, which tests guard against.
func DefaultPage() Page {
	page, err := LoadPage(embeddedDefinitions, defaultDefinition)
	if err != nil {
		panic(err)
	}
	return page
}

// LoadPage reads a YAML (or JSON) page definition from fsys.
func LoadPage(fsys fs.FS, path string) (Page, error) {
	if fsys == nil {
		return Page{}, errors.New("model: definitions fs is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Page{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParsePage(data)
}

// ParsePage decodes and checks a page definition.
func ParsePage(data []byte) (Page, error) {
	var page Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return Page{}, fmt.Errorf("model: decode page: %w", err)
	}
	normalizePage(&page)
	if err := Check(page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func normalizePage(page *Page) {
	page.Title = strings.TrimSpace(page.Title)
	page.DefaultTab = strings.TrimSpace(page.DefaultTab)
	for i := range page.Forms {
		form := &page.Forms[i]
		form.ID = strings.TrimSpace(form.ID)
		for j := range form.Fields {
			field := &form.Fields[j]
			field.ID = strings.TrimSpace(field.ID)
			if kind, ok := validation.ParseKind(string(field.Kind)); ok {
				field.Kind = kind
			}
			if field.Kind.Secret() && !field.Masked {
				field.Masked = true
			}
		}
	}
}

// Check validates the structure of a page: unique ids, known kinds, at most
// one primary password and one confirmation field per form, and a primary
// password whenever a confirmation field exists.
func Check(page Page) error {
	if len(page.Forms) == 0 {
		return fmt.Errorf("%w: no forms", ErrInvalidDefinition)
	}
	forms := make(map[string]struct{}, len(page.Forms))
	for _, form := range page.Forms {
		if form.ID == "" {
			return fmt.Errorf("%w: form without id", ErrInvalidDefinition)
		}
		if _, dup := forms[form.ID]; dup {
			return fmt.Errorf("%w: duplicate form %q", ErrInvalidDefinition, form.ID)
		}
		forms[form.ID] = struct{}{}
		if err := checkForm(form); err != nil {
			return err
		}
	}
	if page.DefaultTab != "" {
		if _, ok := forms[page.DefaultTab]; !ok {
			return fmt.Errorf("%w: default tab %q not found", ErrInvalidDefinition, page.DefaultTab)
		}
	}
	return nil
}

func checkForm(form FormModel) error {
	ids := make(map[string]struct{}, len(form.Fields))
	var primary, confirm int
	for _, field := range form.Fields {
		if field.ID == "" {
			return fmt.Errorf("%w: form %q has a field without id", ErrInvalidDefinition, form.ID)
		}
		if _, dup := ids[field.ID]; dup {
			return fmt.Errorf("%w: form %q duplicates field %q", ErrInvalidDefinition, form.ID, field.ID)
		}
		ids[field.ID] = struct{}{}
		if !field.Kind.Known() {
			return fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidDefinition, field.ID, field.Kind)
		}
		switch field.Kind {
		case validation.KindPassword:
			primary++
		case validation.KindPasswordConfirm:
			confirm++
		}
	}
	if primary > 1 || confirm > 1 {
		return fmt.Errorf("%w: form %q has more than one password or confirmation field", ErrInvalidDefinition, form.ID)
	}
	if confirm == 1 && primary == 0 {
		return fmt.Errorf("%w: form %q confirms a password it does not have", ErrInvalidDefinition, form.ID)
	}
	return nil
}
