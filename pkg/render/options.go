package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-authform/pkg/strength"
	"github.com/goliatone/go-authform/pkg/toast"
	"github.com/goliatone/go-authform/pkg/validation"
)

// RenderOptions carry the per-request UI state that renderers reflect. Maps
// keyed by form id hold per-field entries keyed by field id.
type RenderOptions struct {
	// ActiveTab is the form id shown on load. Empty selects the page default.
	ActiveTab string
	// Values pre-populates controls.
	Values map[string]map[string]string
	// Errors holds the inline message for invalid fields.
	Errors map[string]map[string]string
	// ErrorCodes holds the validation code behind each Errors entry so the
	// message can be translated.
	ErrorCodes map[string]map[string]validation.Code
	// FormErrors are messages not tied to a single field.
	FormErrors map[string][]string
	// Valid marks fields that passed validation (is-valid styling). Fields
	// absent from both Valid and Errors render as pristine.
	Valid map[string]map[string]bool
	// Visible lists toggle-enabled fields currently shown in clear text.
	Visible map[string]map[string]bool
	// Strength holds the indicator state per form. Forms without an entry
	// hide the indicator.
	Strength map[string]strength.Result
	Toasts   []toast.Toast
	Loading  map[string]bool
	// Hidden fields emitted in every form.
	Hidden map[string]string
	// Theme carries the resolved go-theme selection (tokens, CSS variables,
	// asset URLs).
	Theme *theme.RendererConfig

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Value returns the pre-populated value of a field.
func (o RenderOptions) Value(formID, fieldID string) string {
	return o.Values[formID][fieldID]
}

// Error returns the inline error of a field.
func (o RenderOptions) Error(formID, fieldID string) string {
	return o.Errors[formID][fieldID]
}

// Message returns the inline error of a field in the render locale. Entries
// without a code are returned as given.
func (o RenderOptions) Message(formID, fieldID string) string {
	message := o.Errors[formID][fieldID]
	code := o.ErrorCodes[formID][fieldID]
	if message == "" || code == validation.CodeNone {
		return message
	}
	return LocalizeMessage(o, code, message)
}

// FieldState reports "valid", "invalid" or "" for a pristine field.
func (o RenderOptions) FieldState(formID, fieldID string) string {
	if o.Errors[formID][fieldID] != "" {
		return "invalid"
	}
	if o.Valid[formID][fieldID] {
		return "valid"
	}
	return ""
}

// IsVisible reports whether a masked field is currently shown.
func (o RenderOptions) IsVisible(formID, fieldID string) bool {
	return o.Visible[formID][fieldID]
}

// StrengthFor returns the indicator state for a form and whether it is shown.
func (o RenderOptions) StrengthFor(formID string) (strength.Result, bool) {
	result, ok := o.Strength[formID]
	return result, ok
}

// IsLoading reports whether a form is mid-submit.
func (o RenderOptions) IsLoading(formID string) bool {
	return o.Loading[formID]
}
