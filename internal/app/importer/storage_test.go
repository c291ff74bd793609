package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"testing"
	"time"

	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
	"github.com/sleroq/keep-to-obsidian/internal/infra/takeout"
)

type memFile struct {
	content  []byte
	created  time.Time
	modified time.Time
}

// memStorage is an in-memory Storage with hooks for injecting failures.
type memStorage struct {
	folders map[string]bool
	files   map[string]*memFile

	createFolderFailures int
	createFileErr        error
	appendCalls          int
	failAppendAt         int
	timestampErr         error

	onCreateFile   func(path string)
	onCreateFolder func(path string)
}

func newMemStorage() *memStorage {
	return &memStorage{
		folders: map[string]bool{"": true},
		files:   map[string]*memFile{},
	}
}

func (m *memStorage) FolderExists(_ context.Context, path string) (bool, error) {
	return m.folders[path], nil
}

func (m *memStorage) CreateFolder(_ context.Context, path string) error {
	if m.onCreateFolder != nil {
		m.onCreateFolder(path)
	}
	if m.createFolderFailures > 0 {
		m.createFolderFailures--
		return errors.New("permission denied")
	}
	m.folders[path] = true
	return nil
}

func (m *memStorage) CreateFile(_ context.Context, path string, content string) (FileHandle, error) {
	if m.onCreateFile != nil {
		m.onCreateFile(path)
	}
	if m.createFileErr != nil {
		return FileHandle{}, m.createFileErr
	}
	if _, ok := m.files[path]; ok {
		return FileHandle{}, fmt.Errorf("create %s: %w", path, fs.ErrExist)
	}
	m.files[path] = &memFile{content: []byte(content)}
	return FileHandle{Path: path}, nil
}

func (m *memStorage) AppendToFile(_ context.Context, h FileHandle, text string) error {
	m.appendCalls++
	if m.failAppendAt > 0 && m.appendCalls == m.failAppendAt {
		return errors.New("disk full")
	}
	f, ok := m.files[h.Path]
	if !ok {
		return fs.ErrNotExist
	}
	f.content = append(f.content, text...)
	return nil
}

func (m *memStorage) CreateBinaryFile(_ context.Context, path string, data []byte) (FileHandle, error) {
	if _, ok := m.files[path]; ok {
		return FileHandle{}, fmt.Errorf("create %s: %w", path, fs.ErrExist)
	}
	m.files[path] = &memFile{content: append([]byte(nil), data...)}
	return FileHandle{Path: path}, nil
}

func (m *memStorage) SetFileTimestamps(_ context.Context, h FileHandle, created, modified time.Time) error {
	if m.timestampErr != nil {
		return m.timestampErr
	}
	f, ok := m.files[h.Path]
	if !ok {
		return fs.ErrNotExist
	}
	f.created, f.modified = created, modified
	return nil
}

func (m *memStorage) paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *memStorage) mustContent(t *testing.T, path string) string {
	t.Helper()
	f, ok := m.files[path]
	if !ok {
		t.Fatalf("expected file %q, have %v", path, m.paths())
	}
	return string(f.content)
}

func noteFile(name, body string) takeout.File {
	return takeout.NewFile(name, "application/json", []byte(body))
}

func keepJSON(title string, extra string) string {
	s := `{"title":` + fmt.Sprintf("%q", title) + `,"color":"DEFAULT","isTrashed":false,"isPinned":false,"isArchived":false,` +
		`"userEditedTimestampUsec":2000000,"createdTimestampUsec":1000000`
	if extra != "" {
		s += "," + extra
	}
	return s + "}"
}

func defaultSettings() settings.Settings {
	return settings.Defaults()
}
