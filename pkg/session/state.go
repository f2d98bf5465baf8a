package session

import (
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/toast"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Status is the feedback state of a control.
type Status string

const (
	StatusPristine Status = "pristine"
	StatusValid    Status = "valid"
	StatusInvalid  Status = "invalid"
)

// FieldState is the feedback shown for one control.
type FieldState struct {
	FormID  string          `json:"formId"`
	FieldID string          `json:"fieldId"`
	Status  Status          `json:"status"`
	Code    validation.Code `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

func pristine(formID, fieldID string) FieldState {
	return FieldState{FormID: formID, FieldID: fieldID, Status: StatusPristine}
}

func stateFrom(formID, fieldID string, res validation.Result) FieldState {
	state := FieldState{FormID: formID, FieldID: fieldID, Status: StatusValid}
	if !res.Valid {
		state.Status = StatusInvalid
		state.Code = res.Code
		state.Message = res.Message
	}
	return state
}

// SubmitResult reports what happened to a submit attempt.
type SubmitResult struct {
	FormID string `json:"formId"`
	// Valid is false when the form was rejected before reaching the
	// submitter.
	Valid  bool                  `json:"valid"`
	Fields map[string]FieldState `json:"fields,omitempty"`
	// FormErrors are rejection messages not tied to a single field.
	FormErrors []string `json:"formErrors,omitempty"`
	// Outcome is set when the submitter succeeded.
	Outcome   *submit.Outcome `json:"outcome,omitempty"`
	Toast     toast.Toast     `json:"toast"`
	ActiveTab string          `json:"activeTab"`
}

// Submit outcomes reported to the Observer.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeMismatch = "mismatch"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

// Observer receives instrumentation events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	FieldValidated(kind validation.Kind, result validation.Result)
	FormSubmitted(formID, outcome string)
}

type nopObserver struct{}

func (nopObserver) FieldValidated(validation.Kind, validation.Result) {}
func (nopObserver) FormSubmitted(string, string)                      {}
