package model

import (
	"strings"

	"github.com/goliatone/go-authform/pkg/validation"
)

// Field describes a single form control.
type Field struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name,omitempty" yaml:"name,omitempty"`
	Label        string          `json:"label" yaml:"label"`
	LabelKey     string          `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	Kind         validation.Kind `json:"kind" yaml:"kind"`
	Required     bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder  string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Autocomplete string          `json:"autocomplete,omitempty" yaml:"autocomplete,omitempty"`
	Icon         string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	// Masked renders the control as a password input.
	Masked bool `json:"masked,omitempty" yaml:"masked,omitempty"`
	// Toggle adds a show/hide control for masked inputs.
	Toggle bool `json:"toggle,omitempty" yaml:"toggle,omitempty"`
	// StrengthMeter attaches the strength indicator below the control.
	StrengthMeter bool `json:"strengthMeter,omitempty" yaml:"strengthMeter,omitempty"`
}

// InputName returns the submitted name of the control.
func (f Field) InputName() string {
	if name := strings.TrimSpace(f.Name); name != "" {
		return name
	}
	return f.ID
}

// InputType returns the HTML input type for the field.
func (f Field) InputType() string {
	if f.Masked {
		return "password"
	}
	switch f.Kind {
	case validation.KindEmail:
		return "email"
	case validation.KindTel:
		return "tel"
	case validation.KindPassword, validation.KindPasswordConfirm:
		return "password"
	default:
		return "text"
	}
}

// Secret reports whether the field value must stay out of logs and drafts.
func (f Field) Secret() bool {
	return f.Masked || f.Kind.Secret()
}

// Link is an auxiliary action rendered with a form (forgot password, terms).
type Link struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	LabelKey string `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
}

// FormModel describes one form rendered as a tab.
type FormModel struct {
	ID           string  `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	TitleKey     string  `json:"titleKey,omitempty" yaml:"titleKey,omitempty"`
	SubmitLabel  string  `json:"submitLabel" yaml:"submitLabel"`
	LoadingLabel string  `json:"loadingLabel,omitempty" yaml:"loadingLabel,omitempty"`
	Fields       []Field `json:"fields" yaml:"fields"`
	Links        []Link  `json:"links,omitempty" yaml:"links,omitempty"`
}

// Field looks up a field by id.
func (f FormModel) Field(id string) (Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// PrimaryPassword returns the id of the primary password field, if any.
func (f FormModel) PrimaryPassword() (string, bool) {
	for _, field := range f.Fields {
		if field.Kind == validation.KindPassword {
			return field.ID, true
		}
	}
	return "", false
}

// Snapshot pairs every field definition with its current value for
// validation. Missing values are treated as empty.
func (f FormModel) Snapshot(values map[string]string) []validation.Field {
	out := make([]validation.Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		out = append(out, validation.Field{
			ID:       field.ID,
			Kind:     field.Kind,
			Value:    values[field.ID],
			Required: field.Required,
		})
	}
	return out
}

// Page groups the forms shown together.
type Page struct {
	Title           string      `json:"title" yaml:"title"`
	DefaultTab      string      `json:"defaultTab,omitempty" yaml:"defaultTab,omitempty"`
	Forms           []FormModel `json:"forms" yaml:"forms"`
	SocialProviders []string    `json:"socialProviders,omitempty" yaml:"socialProviders,omitempty"`
}

// Form looks up a form by id.
func (p Page) Form(id string) (FormModel, bool) {
	for _, form := range p.Forms {
		if form.ID == id {
			return form, true
		}
	}
	return FormModel{}, false
}

// InitialTab returns DefaultTab or the first form id.
func (p Page) InitialTab() string {
	if p.DefaultTab != "" {
		if _, ok := p.Form(p.DefaultTab); ok {
			return p.DefaultTab
		}
	}
	if len(p.Forms) > 0 {
		return p.Forms[0].ID
	}
	return ""
}

// Clone returns a deep copy so callers can localise or decorate without
// touching shared definitions.
func (p Page) Clone() Page {
	out := p
	out.SocialProviders = append([]string(nil), p.SocialProviders...)
	out.Forms = make([]FormModel, len(p.Forms))
	for i, form := range p.Forms {
		copied := form
		copied.Fields = append([]Field(nil), form.Fields...)
		copied.Links = append([]Link(nil), form.Links...)
		out.Forms[i] = copied
	}
	return out
}
