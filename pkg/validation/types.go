package validation

import "strings"

// Kind identifies the validation rules that apply to a field.
type Kind string

const (
	KindText            Kind = "text"
	KindEmail           Kind = "email"
	KindTel             Kind = "tel"
	KindPassword        Kind = "password"
	KindPasswordConfirm Kind = "password-confirm"
)

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	switch k {
	case KindText, KindEmail, KindTel, KindPassword, KindPasswordConfirm:
		return true
	default:
		return false
	}
}

// Secret reports whether values of this kind must be kept out of logs and
// draft storage by default.
func (k Kind) Secret() bool {
	return k == KindPassword || k == KindPasswordConfirm
}

// ParseKind normalises a raw kind string. Unknown values map to KindText and
// ok=false.
func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case "confirm", "password_confirm", "confirm-password":
		return KindPasswordConfirm, true
	case "phone":
		return KindTel, true
	}
	if k.Known() {
		return k, true
	}
	return KindText, false
}

// Field is a snapshot of one form control.
type Field struct {
	ID       string `json:"id,omitempty"`
	Kind     Kind   `json:"kind"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
}

// Context carries cross-field inputs. PrimaryPassword is compared against
// password-confirm fields.
type Context struct {
	PrimaryPassword string `json:"primaryPassword,omitempty"`
}

// Code classifies a validation failure.
type Code string

const (
	CodeNone         Code = ""
	CodeRequired     Code = "required"
	CodeEmail        Code = "email"
	CodePhone        Code = "phone"
	CodeWeakPassword Code = "weak_password"
	CodeMismatch     Code = "password_mismatch"
)

var messages = map[Code]string{
	CodeRequired:     "This field is required",
	CodeEmail:        "Please enter a valid email address",
	CodePhone:        "Please enter a valid phone number",
	CodeWeakPassword: "Password is too weak",
	CodeMismatch:     "Passwords do not match",
}

// Message returns the fixed message for code, or "" for CodeNone and unknown
// codes.
func Message(code Code) string {
	return messages[code]
}

// Result is the outcome of validating one field. Message is empty when Valid.
type Result struct {
	Valid   bool   `json:"valid"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func valid() Result {
	return Result{Valid: true}
}

func invalid(code Code) Result {
	return Result{Code: code, Message: Message(code)}
}
