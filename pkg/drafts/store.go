// Package drafts persists in-progress form values so a reload can restore
// them. It is a best-effort key-value port: values are keyed by form id and
// stored as a JSON object of field id to string value.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// KeySuffix is appended to the form id to build the storage key.
const KeySuffix = "_data"

var (
	// ErrFormIDRequired is returned when an operation receives a blank form id.
	ErrFormIDRequired = errors.New("drafts: form id is required")
	// ErrCorrupt wraps payloads that cannot be decoded.
	ErrCorrupt = errors.New("drafts: corrupt payload")
)

// Store is the persistence port injected into the UI adapter.
type Store interface {
	// Load returns the saved values for formID. A missing draft yields an
	// empty, non-nil map.
	Load(ctx context.Context, formID string) (map[string]string, error)
	// Save replaces the draft for formID. Empty values are dropped; saving
	// nothing clears the draft.
	Save(ctx context.Context, formID string, values map[string]string) error
	// Clear removes the draft for formID. Clearing a missing draft is not an
	// error.
	Clear(ctx context.Context, formID string) error
}

// Key returns the storage key for formID.
func Key(formID string) string {
	return formID + KeySuffix
}

func checkFormID(formID string) (string, error) {
	id := strings.TrimSpace(formID)
	if id == "" {
		return "", ErrFormIDRequired
	}
	return id, nil
}

// Compact copies values dropping empty entries. It returns nil when nothing
// remains.
func Compact(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, value := range values {
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func encode(values map[string]string) ([]byte, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("drafts: encode: %w", err)
	}
	return data, nil
}

func decode(data []byte) (map[string]string, error) {
	out := map[string]string{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]string{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, nil
}

// Filter wraps a Store and drops the named fields before saving. The session
// layer uses it to keep secrets out of storage.
type Filter struct {
	Store Store
	Skip  func(formID, fieldID string) bool
}

// Load delegates to the wrapped store.
func (f Filter) Load(ctx context.Context, formID string) (map[string]string, error) {
	return f.Store.Load(ctx, formID)
}

// Save removes skipped fields and delegates.
func (f Filter) Save(ctx context.Context, formID string, values map[string]string) error {
	if f.Skip == nil {
		return f.Store.Save(ctx, formID, values)
	}
	kept := make(map[string]string, len(values))
	for key, value := range values {
		if f.Skip(formID, key) {
			continue
		}
		kept[key] = value
	}
	return f.Store.Save(ctx, formID, kept)
}

// Clear delegates to the wrapped store.
func (f Filter) Clear(ctx context.Context, formID string) error {
	return f.Store.Clear(ctx, formID)
}

// Scoped namespaces form ids so several clients can share one backend. The
// underlying key becomes "<scope>:<formID>_data".
type Scoped struct {
	Store Store
	Scope string
}

func (s Scoped) formID(formID string) (string, error) {
	id, err := checkFormID(formID)
	if err != nil {
		return "", err
	}
	if s.Scope == "" {
		return id, nil
	}
	return s.Scope + ":" + id, nil
}

// Load delegates with the scoped form id.
func (s Scoped) Load(ctx context.Context, formID string) (map[string]string, error) {
	id, err := s.formID(formID)
	if err != nil {
		return map[string]string{}, err
	}
	return s.Store.Load(ctx, id)
}

// Save delegates with the scoped form id.
func (s Scoped) Save(ctx context.Context, formID string, values map[string]string) error {
	id, err := s.formID(formID)
	if err != nil {
		return err
	}
	return s.Store.Save(ctx, id, values)
}

// Clear delegates with the scoped form id.
func (s Scoped) Clear(ctx context.Context, formID string) error {
	id, err := s.formID(formID)
	if err != nil {
		return err
	}
	return s.Store.Clear(ctx, id)
}
