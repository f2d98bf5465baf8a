package validation

// Issue represents a failed field with its location.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// FormResult captures the outcome of validating a whole form snapshot.
type FormResult struct {
	Valid   bool              `json:"valid"`
	Results map[string]Result `json:"results,omitempty"`
	Issues  []Issue           `json:"issues,omitempty"`
}

// Errors groups issue messages by field id.
func (r FormResult) Errors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Has reports whether any issue carries code.
func (r FormResult) Has(code Code) bool {
	for _, issue := range r.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// ContextFor derives the cross-field context for a snapshot: the first
// primary password field supplies PrimaryPassword.
func ContextFor(fields []Field) Context {
	for _, f := range fields {
		if f.Kind == KindPassword {
			return Context{PrimaryPassword: f.Value}
		}
	}
	return Context{}
}

// ValidateForm validates every field of a snapshot, in order. Issues keep the
// field order of the input.
func ValidateForm(fields []Field) FormResult {
	ctx := ContextFor(fields)
	result := FormResult{
		Valid:   true,
		Results: make(map[string]Result, len(fields)),
	}
	for _, f := range fields {
		res := Validate(f, ctx)
		if f.ID != "" {
			result.Results[f.ID] = res
		}
		if res.Valid {
			continue
		}
		result.Valid = false
		result.Issues = append(result.Issues, Issue{
			Field:   f.ID,
			Code:    res.Code,
			Message: res.Message,
		})
	}
	return result
}
