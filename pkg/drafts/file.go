package drafts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File stores one JSON document per form under a directory.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the directory if needed and returns a file-backed store.
func NewFile(dir string) (*File, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("drafts: file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("drafts: create directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(formID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, Key(formID))
	return filepath.Join(f.dir, name+".json")
}

// Load implements Store.
func (f *File) Load(ctx context.Context, formID string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := checkFormID(formID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	raw, err := os.ReadFile(f.path(id))
	f.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("drafts: read %s: %w", id, err)
	}
	return decode(raw)
}

// Save implements Store. Files are replaced atomically via rename.
func (f *File) Save(ctx context.Context, formID string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	compact := Compact(values)
	if compact == nil {
		return f.Clear(ctx, id)
	}
	raw, err := encode(compact)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(id)
	tmp, err := os.CreateTemp(f.dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("drafts: create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("drafts: write %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("drafts: close %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("drafts: replace %s: %w", id, err)
	}
	return nil
}

// Clear implements Store.
func (f *File) Clear(ctx context.Context, formID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("drafts: remove %s: %w", id, err)
	}
	return nil
}
