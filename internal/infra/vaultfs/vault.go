package vaultfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sleroq/keep-to-obsidian/internal/app/importer"
)

// Vault stores imported files below the root of an Obsidian vault. All paths
// are vault relative and use "/" separators.
type Vault struct {
	fs     afero.Fs
	osRoot string
}

var _ importer.Storage = (*Vault)(nil)

// Open returns a Vault on the host filesystem, creating root if needed.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault %s: %w", root, err)
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create vault %s: %w", abs, err)
	}
	return &Vault{fs: afero.NewBasePathFs(osFs, abs), osRoot: abs}, nil
}

// New wraps an arbitrary filesystem. Birth times are only set for vaults
// created with Open.
func New(fsys afero.Fs) *Vault {
	return &Vault{fs: fsys}
}

func (v *Vault) Fs() afero.Fs {
	return v.fs
}

func (v *Vault) FolderExists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if isRoot(path) {
		return true, nil
	}
	ok, err := afero.DirExists(v.fs, nativePath(path))
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

func (v *Vault) CreateFolder(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if isRoot(path) {
		return nil
	}
	if err := v.fs.MkdirAll(nativePath(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func (v *Vault) CreateFile(ctx context.Context, path string, content string) (importer.FileHandle, error) {
	return v.createExclusive(ctx, path, []byte(content))
}

func (v *Vault) CreateBinaryFile(ctx context.Context, path string, data []byte) (importer.FileHandle, error) {
	return v.createExclusive(ctx, path, data)
}

func (v *Vault) AppendToFile(ctx context.Context, h importer.FileHandle, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := v.fs.OpenFile(nativePath(h.Path), os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", h.Path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", h.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", h.Path, err)
	}
	return nil
}

// SetFileTimestamps stores created as the access time and modified as the
// modification time. On darwin the birth time is set as well when the
// SetFile tool is installed.
func (v *Vault) SetFileTimestamps(ctx context.Context, h importer.FileHandle, created, modified time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.fs.Chtimes(nativePath(h.Path), created, modified); err != nil {
		return fmt.Errorf("chtimes %s: %w", h.Path, err)
	}
	if v.osRoot == "" {
		return nil
	}
	if err := setFileCreationTime(filepath.Join(v.osRoot, nativePath(h.Path)), created); err != nil {
		return fmt.Errorf("set creation time %s: %w", h.Path, err)
	}
	return nil
}

func (v *Vault) createExclusive(ctx context.Context, path string, data []byte) (importer.FileHandle, error) {
	if err := ctx.Err(); err != nil {
		return importer.FileHandle{}, err
	}
	native := nativePath(path)
	// Not every afero.Fs honours O_EXCL.
	if exists, err := afero.Exists(v.fs, native); err != nil {
		return importer.FileHandle{}, fmt.Errorf("stat %s: %w", path, err)
	} else if exists {
		return importer.FileHandle{}, fmt.Errorf("create %s: %w", path, fs.ErrExist)
	}

	f, err := v.fs.OpenFile(native, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return importer.FileHandle{}, fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return importer.FileHandle{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return importer.FileHandle{}, fmt.Errorf("close %s: %w", path, err)
	}
	return importer.FileHandle{Path: path}, nil
}

func isRoot(path string) bool {
	return strings.Trim(path, "/") == ""
}

func nativePath(path string) string {
	return filepath.FromSlash(strings.TrimPrefix(path, "/"))
}
