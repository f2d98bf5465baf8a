// Package tui collects login and registration input from a terminal. Field
// answers are checked with the same validator the HTML flow uses, and the
// password strength indicator is printed as a feedback line.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/strength"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Name is the registry key of the renderer.
const Name = "tui"

const maskedValue = "********"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	color             bool
	maxAttempts       int
}

// Submission is the result of prompting one form. Values are keyed by field
// id.
type Submission struct {
	FormID string
	Values map[string]string
}

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// colour on).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		color:        true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field of the active form and serializes the
// answers keyed by input name.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	sub, err := r.Collect(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	return r.Encode(page, sub)
}

// Encode serializes a submission in the configured output format. Values are
// keyed by input name and the form id is added as a hidden field.
func (r *Renderer) Encode(page model.Page, sub Submission) ([]byte, error) {
	form, ok := page.Form(sub.FormID)
	if !ok {
		return nil, fmt.Errorf("tui: unknown form %q", sub.FormID)
	}

	values := make(map[string]string, len(sub.Values)+1)
	for _, field := range form.Fields {
		values[field.InputName()] = sub.Values[field.ID]
	}
	values[render.FormIDFieldName] = sub.FormID

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(form, values)
}

// Confirm asks a yes/no question through the prompt driver, for callers that
// chain several forms.
func (r *Renderer) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.driver == nil {
		return false, errors.New("tui: prompt driver is nil")
	}
	return r.driver.Confirm(ctx, cfg)
}

// Collect runs the prompts and returns the answers without serializing
// them. The form is opts.ActiveTab when set; otherwise the user picks one
// when the page has several.
func (r *Renderer) Collect(ctx context.Context, page model.Page, opts render.RenderOptions) (Submission, error) {
	if ctx == nil {
		return Submission{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	if r.driver == nil {
		return Submission{}, errors.New("tui: prompt driver is nil")
	}

	form, err := r.chooseForm(ctx, page, opts.ActiveTab)
	if err != nil {
		return Submission{}, err
	}
	if form.Title != "" {
		_ = r.driver.Info(ctx, r.paint(color.New(color.Bold), r.theme.InfoPrefix+form.Title))
	}

	state := NewState(opts.Values[form.ID], localizedErrors(form.ID, opts))
	meter := meteredField(form)

	for _, field := range form.Fields {
		if err := r.promptField(ctx, form, field, state, opts); err != nil {
			return Submission{}, err
		}
		if field.ID == meter {
			if line := r.strengthLine(state.Value(field.ID)); line != "" {
				_ = r.driver.Info(ctx, line)
			}
		}
	}

	return Submission{FormID: form.ID, Values: state.Values()}, nil
}

func (r *Renderer) chooseForm(ctx context.Context, page model.Page, active string) (model.FormModel, error) {
	if len(page.Forms) == 0 {
		return model.FormModel{}, ErrNoForm
	}
	if form, ok := page.Form(active); ok {
		return form, nil
	}
	if len(page.Forms) == 1 {
		return page.Forms[0], nil
	}

	options := make([]string, len(page.Forms))
	defaultIdx := 0
	initial := page.InitialTab()
	for i, form := range page.Forms {
		options[i] = formTitle(form)
		if form.ID == initial {
			defaultIdx = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      page.Title,
		Options:      options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return model.FormModel{}, err
	}
	if idx < 0 || idx >= len(page.Forms) {
		return model.FormModel{}, fmt.Errorf("tui: invalid form selection %d", idx)
	}
	return page.Forms[idx], nil
}

func (r *Renderer) promptField(ctx context.Context, form model.FormModel, field model.Field, state *State, opts render.RenderOptions) error {
	label := displayLabel(field)
	masked := field.Secret() && !opts.IsVisible(form.ID, field.ID)
	check := func(answer string) error {
		res := r.check(form, field, answer, state)
		if res.Valid {
			return nil
		}
		return errors.New(res.Message)
	}

	if msg := state.Error(field.ID); msg != "" {
		_ = r.driver.Info(ctx, r.errorLine(label, msg))
	}

	for attempt := 1; ; attempt++ {
		cfg := InputConfig{
			Message:   label,
			Help:      field.Placeholder,
			Validator: check,
		}
		var (
			answer string
			err    error
		)
		if masked {
			answer, err = r.driver.Password(ctx, cfg)
		} else {
			if !field.Secret() {
				cfg.Default = state.Value(field.ID)
			}
			answer, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		res := r.check(form, field, answer, state)
		if res.Valid {
			state.SetValue(field.ID, answer)
			return nil
		}
		state.SetError(field.ID, res.Message)
		_ = r.driver.Info(ctx, r.errorLine(label, res.Message))
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.ID)
		}
	}
}

// check validates one answer against the values collected so far so the
// confirmation field sees the primary password.
func (r *Renderer) check(form model.FormModel, field model.Field, answer string, state *State) validation.Result {
	var vctx validation.Context
	if primary, ok := form.PrimaryPassword(); ok {
		vctx.PrimaryPassword = state.Value(primary)
	}
	return validation.Validate(validation.Field{
		ID:       field.ID,
		Kind:     field.Kind,
		Value:    answer,
		Required: field.Required,
	}, vctx)
}

func (r *Renderer) strengthLine(password string) string {
	if password == "" {
		return ""
	}
	res := strength.Score(password)
	var c *color.Color
	switch res.Level {
	case strength.LevelStrong:
		c = color.New(color.FgGreen)
	case strength.LevelMedium:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	line := fmt.Sprintf("%sPassword strength: %s (%d/%d)", r.theme.InfoPrefix, res.Level, res.Score, strength.MaxScore)
	if len(res.Feedback) > 0 {
		line += " - " + strings.Join(res.Feedback, ", ")
	}
	return r.paint(c, line)
}

func (r *Renderer) errorLine(label, message string) string {
	return r.paint(color.New(color.FgRed), fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, label, message))
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (r *Renderer) serialize(form model.FormModel, values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for key, value := range values {
			encoded.Set(key, value)
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, values)), nil
	default:
		return json.Marshal(values)
	}
}

func prettyPrint(form model.FormModel, values map[string]string) string {
	secret := make(map[string]bool)
	for _, field := range form.Fields {
		if field.Secret() {
			secret[field.InputName()] = true
		}
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := values[key]
		if secret[key] && value != "" {
			value = maskedValue
		}
		fmt.Fprintf(&b, "%s=%s\n", key, value)
	}
	return b.String()
}

func localizedErrors(formID string, opts render.RenderOptions) map[string]string {
	if len(opts.Errors[formID]) == 0 {
		return nil
	}
	out := make(map[string]string, len(opts.Errors[formID]))
	for fieldID := range opts.Errors[formID] {
		out[fieldID] = opts.Message(formID, fieldID)
	}
	return out
}

func meteredField(form model.FormModel) string {
	for _, field := range form.Fields {
		if field.StrengthMeter {
			return field.ID
		}
	}
	id, _ := form.PrimaryPassword()
	return id
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func formTitle(form model.FormModel) string {
	if form.Title != "" {
		return form.Title
	}
	return form.ID
}

var _ render.Renderer = (*Renderer)(nil)
