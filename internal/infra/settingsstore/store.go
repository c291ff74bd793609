package settingsstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
)

// DefaultPath is where the settings live inside a vault.
var DefaultPath = filepath.Join(".obsidian", "plugins", "keep-import", "data.json")

type Store struct {
	fs   afero.Fs
	path string
}

func New(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns nil settings when nothing has been saved yet. Fields missing
// from the file keep their default values.
func (s *Store) Load() (*settings.Settings, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	out := settings.Defaults()
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	// A stored preset without a stored table selects that preset's table.
	var patches []settings.Patch
	if _, ok := present["invalidChars"]; !ok {
		patches = append(patches, settings.WithInvalidCharPreset(out.InvalidCharFilter))
	}
	out = settings.Update(out, patches...)

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.path, err)
	}
	return &out, nil
}

func (s *Store) LoadOrDefault() (settings.Settings, error) {
	loaded, err := s.Load()
	if err != nil {
		return settings.Settings{}, err
	}
	if loaded == nil {
		return settings.Defaults(), nil
	}
	return *loaded, nil
}

func (s *Store) Save(v settings.Settings) error {
	if err := v.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(s.path), err)
	}
	if err := afero.WriteFile(s.fs, s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Reset removes the stored settings so the defaults apply again.
func (s *Store) Reset() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}
