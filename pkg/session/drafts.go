package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/drafts"
)

// Restore loads the saved drafts of every form into the session. Unknown
// field ids are ignored. Corrupt drafts are logged and skipped.
func (s *Session) Restore(ctx context.Context) error {
	var errs []error
	for _, form := range s.page.Forms {
		saved, err := s.store.Load(ctx, form.ID)
		if errors.Is(err, drafts.ErrCorrupt) {
			s.logger.Warn("discarding corrupt draft", zap.String("form", form.ID), zap.Error(err))
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		s.mu.Lock()
		for fieldID, value := range saved {
			if _, ok := form.Field(fieldID); ok {
				nested(s.values, form.ID)[fieldID] = value
			}
		}
		s.mu.Unlock()
	}
	return errors.Join(errs...)
}

// LoadDraft returns the stored draft of formID.
func (s *Session) LoadDraft(ctx context.Context, formID string) (map[string]string, error) {
	if _, err := s.form(formID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, formID)
}

// SaveDraft stores values as the draft of formID, keeping only known fields.
// Secret fields are dropped unless the session was configured to keep them.
func (s *Session) SaveDraft(ctx context.Context, formID string, values map[string]string) error {
	form, err := s.form(formID)
	if err != nil {
		return err
	}
	kept := make(map[string]string, len(values))
	for fieldID, value := range values {
		if _, ok := form.Field(fieldID); ok {
			kept[fieldID] = value
		}
	}
	return s.store.Save(ctx, formID, kept)
}

// ClearDraft removes the draft of formID and cancels a pending autosave.
func (s *Session) ClearDraft(ctx context.Context, formID string) error {
	if _, err := s.form(formID); err != nil {
		return err
	}
	s.autosave.Cancel(formID)
	return s.store.Clear(ctx, formID)
}

// Flush writes pending autosaves immediately.
func (s *Session) Flush(ctx context.Context) error {
	var errs []error
	for _, formID := range s.autosave.Pending() {
		if !s.autosave.Cancel(formID) {
			continue
		}
		if err := s.saveForm(ctx, formID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes pending autosaves and stops the timers. Later calls return
// the first result.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.Flush(ctx)
		s.autosave.Stop()
	})
	return s.closeErr
}

func (s *Session) saveForm(ctx context.Context, formID string) error {
	s.mu.Lock()
	values := copyValues(s.values[formID])
	s.mu.Unlock()
	return s.store.Save(ctx, formID, values)
}

func (s *Session) autosaveForm(formID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.saveForm(ctx, formID); err != nil {
		s.logger.Warn("autosave failed", zap.String("form", formID), zap.Error(err))
	}
}

// clearDrafts drops the drafts of every form after a successful submit.
func (s *Session) clearDrafts(ctx context.Context) {
	for _, form := range s.page.Forms {
		s.autosave.Cancel(form.ID)
		if err := s.store.Clear(ctx, form.ID); err != nil {
			s.logger.Warn("clear draft failed", zap.String("form", form.ID), zap.Error(err))
		}
	}
}
