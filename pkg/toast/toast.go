// Package toast models transient notifications surfaced by the UI adapter.
package toast

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Kind selects the toast styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Fixed messages used across adapters.
const (
	MessageInvalidForm     = "Please fill in all required fields correctly."
	MessageUnexpected      = "An unexpected error occurred. Please try again."
	MessageForgotPassword  = "Password reset functionality will be implemented here."
	MessageTerms           = "Terms and Conditions will be displayed here."
	messageSocialLoginTmpl = "%s login functionality will be implemented here."
)

// SocialLogin returns the placeholder message for a social provider.
func SocialLogin(provider string) string {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		provider = "Social"
	}
	return fmt.Sprintf(messageSocialLoginTmpl, provider)
}

// Toast is a single notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Sanitize strips markup from message so it can be shown as plain text.
func Sanitize(message string) string {
	clean := strictPolicy().Sanitize(message)
	// bluemonday escapes what it keeps; toasts are rendered as text by the
	// adapters, which apply their own escaping.
	return strings.TrimSpace(html.UnescapeString(clean))
}

// New builds a toast with a fresh id. Unknown kinds fall back to info.
func New(kind Kind, message string) Toast {
	switch kind {
	case KindSuccess, KindError, KindInfo:
	default:
		kind = KindInfo
	}
	return Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   Sanitize(message),
		CreatedAt: time.Now().UTC(),
	}
}

// Success is shorthand for New(KindSuccess, message).
func Success(message string) Toast { return New(KindSuccess, message) }

// Error is shorthand for New(KindError, message).
func Error(message string) Toast { return New(KindError, message) }

// Info is shorthand for New(KindInfo, message).
func Info(message string) Toast { return New(KindInfo, message) }
