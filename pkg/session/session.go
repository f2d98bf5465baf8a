package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/drafts"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/strength"
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/toast"
	"github.com/goliatone/go-authform/pkg/validation"
)

var (
	ErrUnknownForm   = errors.New("session: unknown form")
	ErrUnknownField  = errors.New("session: unknown field")
	ErrBusy          = errors.New("session: form is already submitting")
	ErrNotToggleable = errors.New("session: field has no visibility toggle")
	ErrUnknownAction = errors.New("session: unknown action")
)

// Auxiliary actions that only produce an informational toast.
const (
	ActionSocialLogin    = "social-login"
	ActionForgotPassword = "forgot-password"
	ActionTerms          = "terms"
)

// Session is the interaction state of one client.
type Session struct {
	mu sync.Mutex

	page      model.Page
	store     drafts.Store
	submitter submit.Submitter
	logger    *zap.Logger
	observer  Observer
	timeout   time.Duration

	values    map[string]map[string]string
	states    map[string]map[string]FieldState
	visible   map[string]map[string]bool
	loading   map[string]bool
	activeTab string

	// formErrors holds the form-level messages of the last rejected submit.
	formErrors map[string][]string

	toasts   *toast.Queue
	autosave *debouncer

	closeOnce sync.Once
	closeErr  error
}

// New creates a session for page. The page is checked and copied.
func New(page model.Page, opts ...Option) (*Session, error) {
	if err := model.Check(page); err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return newSession(page.Clone(), cfg), nil
}

func newSession(page model.Page, cfg config) *Session {
	store := cfg.store
	if store == nil {
		store = drafts.NewMemory()
	}
	if !cfg.includeSecrets {
		store = drafts.Filter{Store: store, Skip: secretFields(page)}
	}
	submitter := cfg.submitter
	if submitter == nil {
		submitter = submit.NewSimulated()
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := cfg.observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Session{
		page:       page,
		store:      store,
		submitter:  submitter,
		logger:     logger,
		observer:   observer,
		timeout:    cfg.saveTimeout,
		values:     make(map[string]map[string]string),
		states:     make(map[string]map[string]FieldState),
		visible:    make(map[string]map[string]bool),
		loading:    make(map[string]bool),
		formErrors: make(map[string][]string),
		activeTab:  page.InitialTab(),
		toasts:     toast.NewQueue(cfg.toastCapacity),
		autosave:   newDebouncer(cfg.debounce),
	}
}

func secretFields(page model.Page) func(formID, fieldID string) bool {
	return func(formID, fieldID string) bool {
		form, ok := page.Form(formID)
		if !ok {
			return false
		}
		field, ok := form.Field(fieldID)
		return ok && field.Secret()
	}
}

// Page returns the session's page definition.
func (s *Session) Page() model.Page {
	return s.page.Clone()
}

// Input records a keystroke. The field is revalidated only when it is
// currently invalid; a non-empty confirm field is always rechecked. The draft
// autosave is (re)scheduled.
func (s *Session) Input(ctx context.Context, formID, fieldID, value string) (FieldState, error) {
	if err := ctx.Err(); err != nil {
		return FieldState{}, err
	}

	s.mu.Lock()
	form, field, err := s.lookup(formID, fieldID)
	if err != nil {
		s.mu.Unlock()
		return FieldState{}, err
	}
	nested(s.values, formID)[fieldID] = value

	state := s.stateLocked(formID, fieldID)
	switch {
	case state.Status == StatusInvalid:
		state = s.validateLocked(form, field)
	case field.Kind == validation.KindPasswordConfirm && value != "":
		state = s.validateLocked(form, field)
	}
	s.mu.Unlock()

	s.autosave.Schedule(formID, func() { s.autosaveForm(formID) })
	return state, nil
}

// Blur validates the field as the user leaves it.
func (s *Session) Blur(formID, fieldID string) (FieldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, field, err := s.lookup(formID, fieldID)
	if err != nil {
		return FieldState{}, err
	}
	return s.validateLocked(form, field), nil
}

// Field returns the current feedback state of a field.
func (s *Session) Field(formID, fieldID string) (FieldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.lookup(formID, fieldID); err != nil {
		return FieldState{}, err
	}
	return s.stateLocked(formID, fieldID), nil
}

// Values returns a copy of the entered values of a form.
func (s *Session) Values(formID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyValues(s.values[formID])
}

// Strength scores the form's metered password. The indicator is hidden (ok is
// false) while the password is empty or the form has no metered field.
func (s *Session) Strength(formID string) (strength.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strengthLocked(formID)
}

func (s *Session) strengthLocked(formID string) (strength.Result, bool) {
	form, ok := s.page.Form(formID)
	if !ok {
		return strength.Result{}, false
	}
	fieldID, ok := meteredField(form)
	if !ok {
		return strength.Result{}, false
	}
	password := s.values[formID][fieldID]
	if password == "" {
		return strength.Result{}, false
	}
	return strength.Score(password), true
}

func meteredField(form model.FormModel) (string, bool) {
	for _, field := range form.Fields {
		if field.StrengthMeter {
			return field.ID, true
		}
	}
	return form.PrimaryPassword()
}

// ToggleVisibility flips a toggle-enabled field between masked and clear
// text and returns the new visibility.
func (s *Session) ToggleVisibility(formID, fieldID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, field, err := s.lookup(formID, fieldID)
	if err != nil {
		return false, err
	}
	if !field.Toggle {
		return false, fmt.Errorf("%w: %s", ErrNotToggleable, fieldID)
	}
	visible := nested(s.visible, formID)
	visible[fieldID] = !visible[fieldID]
	return visible[fieldID], nil
}

// SwitchTab activates formID.
func (s *Session) SwitchTab(formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.form(formID); err != nil {
		return err
	}
	s.activeTab = formID
	return nil
}

// ActiveTab returns the id of the visible form.
func (s *Session) ActiveTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

// Loading reports whether formID is mid-submit.
func (s *Session) Loading(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[formID]
}

// Submit validates the whole form and, when valid, hands it to the
// submitter. A rejected form is not an error: the result carries the field
// states and an error toast. Submitter failures surface the generic error
// toast and are returned wrapped.
func (s *Session) Submit(ctx context.Context, formID string) (SubmitResult, error) {
	s.mu.Lock()
	form, err := s.form(formID)
	if err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	if s.loading[formID] {
		s.mu.Unlock()
		s.observer.FormSubmitted(formID, OutcomeBusy)
		return SubmitResult{FormID: formID}, ErrBusy
	}

	values := copyValues(s.values[formID])
	check := validation.ValidateForm(form.Snapshot(values))
	result := SubmitResult{
		FormID: formID,
		Fields: make(map[string]FieldState, len(form.Fields)),
	}
	for _, field := range form.Fields {
		res := check.Results[field.ID]
		s.observer.FieldValidated(field.Kind, res)
		state := stateFrom(formID, field.ID, res)
		nested(s.states, formID)[field.ID] = state
		result.Fields[field.ID] = state
	}

	if rejected, outcome, message := rejection(form, values, check); rejected {
		mapping := render.MapIssues(form, check.Issues)
		formErrors := mapping.Form
		if outcome == OutcomeMismatch && !check.Has(validation.CodeMismatch) {
			formErrors = render.MergeFormErrors(formErrors, message)
		}
		s.setFormErrorsLocked(formID, formErrors)
		result.FormErrors = formErrors
		result.Toast = s.pushLocked(toast.Error(message))
		result.ActiveTab = s.activeTab
		s.mu.Unlock()
		s.observer.FormSubmitted(formID, outcome)
		s.logger.Info("form rejected",
			zap.String("form", formID),
			zap.String("outcome", outcome),
			zap.Int("issues", len(check.Issues)),
		)
		return result, nil
	}

	result.Valid = true
	s.setFormErrorsLocked(formID, nil)
	s.loading[formID] = true
	s.mu.Unlock()

	outcome, err := s.await(ctx, submit.Request{FormID: formID, Values: values})
	if err == nil {
		s.clearDrafts(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading, formID)

	if err != nil {
		result.Toast = s.pushLocked(toast.Error(toast.MessageUnexpected))
		result.ActiveTab = s.activeTab
		s.observer.FormSubmitted(formID, OutcomeError)
		s.logger.Error("submit failed", zap.String("form", formID), zap.Error(err))
		return result, fmt.Errorf("session: submit %s: %w", formID, err)
	}

	result.Outcome = &outcome
	result.Toast = s.pushLocked(toast.Success(outcome.Message))
	if outcome.ResetForm {
		s.resetFormLocked(formID)
		for id := range result.Fields {
			result.Fields[id] = pristine(formID, id)
		}
	}
	if outcome.SwitchTab != "" {
		if _, ok := s.page.Form(outcome.SwitchTab); ok {
			s.activeTab = outcome.SwitchTab
		}
	}
	result.ActiveTab = s.activeTab
	s.observer.FormSubmitted(formID, OutcomeSuccess)
	s.logger.Info("form submitted", zap.String("form", formID), zap.String("redirect", outcome.Redirect))
	return result, nil
}

// await runs the submitter but stops waiting once ctx is done, so a backend
// that ignores cancellation cannot keep the form loading.
func (s *Session) await(ctx context.Context, req submit.Request) (submit.Outcome, error) {
	select {
	case res := <-submit.Async(ctx, s.submitter, req):
		return res.Outcome, res.Err
	case <-ctx.Done():
		return submit.Outcome{}, ctx.Err()
	}
}

// rejection decides whether a validated snapshot stops before the submitter.
// A form whose only problem is the confirm mismatch gets the dedicated
// message; an optional confirm left blank still has to match.
func rejection(form model.FormModel, values map[string]string, check validation.FormResult) (bool, string, string) {
	if !check.Valid {
		for _, issue := range check.Issues {
			if issue.Code != validation.CodeMismatch {
				return true, OutcomeInvalid, toast.MessageInvalidForm
			}
		}
		return true, OutcomeMismatch, validation.Message(validation.CodeMismatch)
	}

	primary, ok := form.PrimaryPassword()
	if !ok {
		return false, "", ""
	}
	for _, field := range form.Fields {
		if field.Kind == validation.KindPasswordConfirm && values[field.ID] != values[primary] {
			return true, OutcomeMismatch, validation.Message(validation.CodeMismatch)
		}
	}
	return false, "", ""
}

// Reset clears values, feedback and visibility of every form. Drafts are
// left untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, form := range s.page.Forms {
		s.resetFormLocked(form.ID)
	}
}

func (s *Session) setFormErrorsLocked(formID string, messages []string) {
	if len(messages) == 0 {
		delete(s.formErrors, formID)
		return
	}
	s.formErrors[formID] = messages
}

func (s *Session) resetFormLocked(formID string) {
	s.autosave.Cancel(formID)
	delete(s.formErrors, formID)
	delete(s.values, formID)
	delete(s.states, formID)
	delete(s.visible, formID)
}

// Action produces the informational toast for an auxiliary link or social
// login button.
func (s *Session) Action(action, provider string) (toast.Toast, error) {
	var message string
	switch action {
	case ActionSocialLogin:
		message = toast.SocialLogin(provider)
	case ActionForgotPassword:
		message = toast.MessageForgotPassword
	case ActionTerms:
		message = toast.MessageTerms
	default:
		return toast.Toast{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushLocked(toast.Info(message)), nil
}

// Notify queues an arbitrary toast, for example the generic error raised by
// a recovered fault.
func (s *Session) Notify(t toast.Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushLocked(t)
}

func (s *Session) pushLocked(t toast.Toast) toast.Toast {
	s.toasts.Push(t)
	return t
}

// Toasts drains the pending toasts.
func (s *Session) Toasts() []toast.Toast {
	return s.toasts.Drain()
}

// Snapshot returns the render state of the session. Pending toasts are
// included but not drained.
func (s *Session) Snapshot() render.RenderOptions {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := render.RenderOptions{
		ActiveTab:  s.activeTab,
		Values:     make(map[string]map[string]string, len(s.values)),
		Errors:     make(map[string]map[string]string),
		ErrorCodes: make(map[string]map[string]validation.Code),
		FormErrors: make(map[string][]string, len(s.formErrors)),
		Valid:      make(map[string]map[string]bool),
		Visible:    make(map[string]map[string]bool, len(s.visible)),
		Strength:   make(map[string]strength.Result),
		Loading:    make(map[string]bool, len(s.loading)),
		Toasts:     s.toasts.Peek(),
	}

	for formID, values := range s.values {
		opts.Values[formID] = copyValues(values)
	}
	for formID, states := range s.states {
		for fieldID, state := range states {
			switch state.Status {
			case StatusInvalid:
				nested(opts.Errors, formID)[fieldID] = state.Message
				nested(opts.ErrorCodes, formID)[fieldID] = state.Code
			case StatusValid:
				nested(opts.Valid, formID)[fieldID] = true
			}
		}
	}
	for formID, messages := range s.formErrors {
		opts.FormErrors[formID] = append([]string(nil), messages...)
	}
	for formID, visible := range s.visible {
		for fieldID, shown := range visible {
			if shown {
				nested(opts.Visible, formID)[fieldID] = true
			}
		}
	}
	for _, form := range s.page.Forms {
		if result, ok := s.strengthLocked(form.ID); ok {
			opts.Strength[form.ID] = result
		}
	}
	for formID, loading := range s.loading {
		if loading {
			opts.Loading[formID] = true
		}
	}
	return opts
}

// form resolves formID. The page is immutable after construction.
func (s *Session) form(formID string) (model.FormModel, error) {
	form, ok := s.page.Form(formID)
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %s", ErrUnknownForm, formID)
	}
	return form, nil
}

func (s *Session) lookup(formID, fieldID string) (model.FormModel, model.Field, error) {
	form, err := s.form(formID)
	if err != nil {
		return model.FormModel{}, model.Field{}, err
	}
	field, ok := form.Field(fieldID)
	if !ok {
		return model.FormModel{}, model.Field{}, fmt.Errorf("%w: %s/%s", ErrUnknownField, formID, fieldID)
	}
	return form, field, nil
}

func (s *Session) stateLocked(formID, fieldID string) FieldState {
	if state, ok := s.states[formID][fieldID]; ok {
		return state
	}
	return pristine(formID, fieldID)
}

func (s *Session) validateLocked(form model.FormModel, field model.Field) FieldState {
	values := s.values[form.ID]
	ctx := validation.ContextFor(form.Snapshot(values))
	res := validation.Validate(validation.Field{
		ID:       field.ID,
		Kind:     field.Kind,
		Value:    values[field.ID],
		Required: field.Required,
	}, ctx)
	s.observer.FieldValidated(field.Kind, res)

	state := stateFrom(form.ID, field.ID, res)
	nested(s.states, form.ID)[field.ID] = state
	return state
}

func nested[V any](m map[string]map[string]V, key string) map[string]V {
	inner, ok := m[key]
	if !ok {
		inner = make(map[string]V)
		m[key] = inner
	}
	return inner
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
