package tui

// State tracks the values collected for one form and the last feedback per
// field.
type State struct {
	values map[string]string
	errors map[string]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill, errs map[string]string) *State {
	return &State{
		values: cloneStrings(prefill),
		errors: cloneStrings(errs),
	}
}

// Value returns the collected value of a field.
func (s *State) Value(fieldID string) string {
	if s == nil {
		return ""
	}
	return s.values[fieldID]
}

// SetValue records an accepted answer and clears its error.
func (s *State) SetValue(fieldID, value string) {
	s.values[fieldID] = value
	delete(s.errors, fieldID)
}

// Error returns the current feedback of a field.
func (s *State) Error(fieldID string) string {
	if s == nil {
		return ""
	}
	return s.errors[fieldID]
}

// SetError records feedback for a rejected answer.
func (s *State) SetError(fieldID, message string) {
	s.errors[fieldID] = message
}

// Values returns a copy of the collected values.
func (s *State) Values() map[string]string {
	if s == nil {
		return nil
	}
	return cloneStrings(s.values)
}

func cloneStrings(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
