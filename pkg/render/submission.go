package render

import (
	"fmt"
	"sort"
	"strings"
)

// FormIDFieldName is the hidden input carrying the submitted form id.
const FormIDFieldName = "form_id"

// HiddenField represents a hidden form input emitted alongside the visible
// controls.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// FormID returns the hidden field identifying the submitted form.
func FormID(formID string) HiddenField {
	return Hidden(FormIDFieldName, formID)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, dup := clean[key]; !dup {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// FormHiddenFields returns the sorted hidden inputs for one form: the shared
// fields plus its form id.
func FormHiddenFields(formID string, shared map[string]string) []HiddenField {
	return SortedHiddenFields(MergeHiddenFields(shared, FormID(formID)))
}
