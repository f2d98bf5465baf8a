// Package submit defines the submission port used by the session layer and
// a simulated implementation that mirrors the demo backend.
package submit

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownForm is returned when a submitter has no handler for a form id.
var ErrUnknownForm = errors.New("submit: unknown form")

// Request carries the values of a validated form.
type Request struct {
	FormID string            `json:"formId"`
	Values map[string]string `json:"values"`
}

// Outcome tells the UI adapter what to do after a successful submit.
type Outcome struct {
	Message       string        `json:"message"`
	Redirect      string        `json:"redirect,omitempty"`
	RedirectAfter time.Duration `json:"redirectAfter,omitempty"`
	// SwitchTab names the form to activate after the submit, if any.
	SwitchTab string `json:"switchTab,omitempty"`
	ResetForm bool   `json:"resetForm,omitempty"`
}

// Submitter performs a form submission.
type Submitter interface {
	Submit(ctx context.Context, req Request) (Outcome, error)
}

// Func adapts a function to Submitter.
type Func func(ctx context.Context, req Request) (Outcome, error)

// Submit calls fn.
func (fn Func) Submit(ctx context.Context, req Request) (Outcome, error) {
	return fn(ctx, req)
}

// Result is delivered by Async.
type Result struct {
	Outcome Outcome
	Err     error
}

// Async runs s.Submit in its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func Async(ctx context.Context, s Submitter, req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		outcome, err := s.Submit(ctx, req)
		out <- Result{Outcome: outcome, Err: err}
	}()
	return out
}
