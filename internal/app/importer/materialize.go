package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"
)

// maxFileVersions bounds the "name (N).md" search.
const maxFileVersions = 10000

var ErrTooManyVersions = errors.New("too many files with the same name")

// FileHandle names a file created through Storage.
type FileHandle struct {
	Path string
}

type Folder struct {
	Path string
}

// Storage is the vault the importer writes into. Paths are vault relative
// and "/" separated.
type Storage interface {
	FolderExists(ctx context.Context, path string) (bool, error)
	CreateFolder(ctx context.Context, path string) error
	// CreateFile fails with an error matching fs.ErrExist when path is taken.
	CreateFile(ctx context.Context, path string, content string) (FileHandle, error)
	AppendToFile(ctx context.Context, h FileHandle, text string) error
	CreateBinaryFile(ctx context.Context, path string, data []byte) (FileHandle, error)
	SetFileTimestamps(ctx context.Context, h FileHandle, created, modified time.Time) error
}

type Materializer struct {
	storage Storage
}

func NewMaterializer(storage Storage) Materializer {
	return Materializer{storage: storage}
}

// GetOrCreateFolder returns the folder at path, creating it when missing. A
// creation error is ignored if the folder exists afterwards.
func (m Materializer) GetOrCreateFolder(ctx context.Context, path string) (Folder, error) {
	exists, err := m.storage.FolderExists(ctx, path)
	if err != nil {
		return Folder{}, fmt.Errorf("check folder %s: %w", path, err)
	}
	if exists {
		return Folder{Path: path}, nil
	}

	createErr := m.storage.CreateFolder(ctx, path)
	exists, err = m.storage.FolderExists(ctx, path)
	if err != nil {
		return Folder{}, fmt.Errorf("check folder %s: %w", path, err)
	}
	if !exists {
		if createErr == nil {
			createErr = errors.New("folder missing after creation")
		}
		return Folder{}, fmt.Errorf("create folder %s: %w", path, createErr)
	}
	return Folder{Path: path}, nil
}

// CreateUniqueMarkdownFile creates an empty "<base>.md", falling back to
// "<base> (2).md", "<base> (3).md" and so on while the name is taken. Any
// other error ends the search.
func (m Materializer) CreateUniqueMarkdownFile(ctx context.Context, base string) (FileHandle, error) {
	for version := 1; version <= maxFileVersions; version++ {
		candidate := versionedPath(base, version)
		h, err := m.storage.CreateFile(ctx, candidate, "")
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return FileHandle{}, fmt.Errorf("create %s: %w", candidate, err)
		}
	}
	return FileHandle{}, fmt.Errorf("create %s.md: %w", base, ErrTooManyVersions)
}

func (m Materializer) CreateBinaryFile(ctx context.Context, path string, data []byte) (FileHandle, error) {
	h, err := m.storage.CreateBinaryFile(ctx, path, data)
	if err != nil {
		return FileHandle{}, fmt.Errorf("create %s: %w", path, err)
	}
	return h, nil
}

func versionedPath(base string, version int) string {
	if version <= 1 {
		return base + ".md"
	}
	return base + " (" + strconv.Itoa(version) + ").md"
}
