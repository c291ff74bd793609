package takeout

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Batch is an ordered list of input files. Files from archives stay
// readable until Close.
type Batch struct {
	Files []File

	closers []io.Closer
}

func (b *Batch) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// Collect expands paths into a Batch on the host filesystem.
func Collect(paths []string) (*Batch, error) {
	return CollectFs(afero.NewOsFs(), paths)
}

// CollectFs expands paths in order. Directories are walked recursively in
// lexical order and ".zip" files contribute their entries in archive order.
// Hidden files and folders are skipped.
func CollectFs(fsys afero.Fs, paths []string) (*Batch, error) {
	b := &Batch{}
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		switch {
		case info.IsDir():
			err = b.addDir(fsys, p)
		case strings.EqualFold(filepath.Ext(p), ".zip"):
			err = b.addZip(fsys, p, info.Size())
		default:
			b.addFsFile(fsys, p, info)
		}
		if err != nil {
			_ = b.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *Batch) addDir(fsys afero.Fs, root string) error {
	return afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", p, err)
		}
		if p != root && isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(p), ".zip") {
			return b.addZip(fsys, p, info.Size())
		}
		b.addFsFile(fsys, p, info)
		return nil
	})
}

func (b *Batch) addFsFile(fsys afero.Fs, p string, info os.FileInfo) {
	open := func() (io.ReadCloser, error) {
		return fsys.Open(p)
	}
	b.Files = append(b.Files, File{
		Name:      info.Name(),
		Source:    p,
		MediaType: declaredMediaType(info.Name(), open),
		Size:      info.Size(),
		open:      open,
	})
}

func (b *Batch) addZip(fsys afero.Fs, p string, size int64) error {
	f, err := fsys.Open(p)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", p, err)
	}
	zr, err := zip.NewReader(f, size)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("read archive %s: %w", p, err)
	}
	b.closers = append(b.closers, f)

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || hasHiddenSegment(entry.Name) {
			continue
		}
		entry := entry
		name := path.Base(entry.Name)
		open := func() (io.ReadCloser, error) {
			return entry.Open()
		}
		b.Files = append(b.Files, File{
			Name:      name,
			Source:    p + ":" + entry.Name,
			MediaType: declaredMediaType(name, open),
			Size:      int64(entry.UncompressedSize64),
			open:      open,
		})
	}
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasHiddenSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if isHidden(seg) || seg == "__MACOSX" {
			return true
		}
	}
	return false
}
