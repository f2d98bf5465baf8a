package render

import (
	"strings"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/validation"
)

// ErrorMapping splits validation issues into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapIssues assigns issues to the form's fields. Only the first message per
// field is kept since a control shows a single feedback line. Issues naming
// unknown fields become form-level errors so messages are not lost.
func MapIssues(form model.FormModel, issues []validation.Issue) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string]string),
	}

	for _, issue := range issues {
		message := strings.TrimSpace(issue.Message)
		if message == "" {
			message = validation.Message(issue.Code)
		}
		if message == "" {
			continue
		}

		id := strings.TrimSpace(issue.Field)
		if _, ok := form.Field(id); !ok || id == "" {
			mapping.Form = append(mapping.Form, message)
			continue
		}
		if _, seen := mapping.Fields[id]; seen {
			continue
		}
		mapping.Fields[id] = message
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
