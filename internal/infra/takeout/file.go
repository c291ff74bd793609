package takeout

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// File is one input handed to the importer. Name is the base file name;
// Source says where it was read from and is only used for display.
type File struct {
	Name      string
	Source    string
	MediaType string
	Size      int64

	open func() (io.ReadCloser, error)
}

// NewFile builds an in-memory File. An empty mediaType is detected from the
// name and content.
func NewFile(name, mediaType string, data []byte) File {
	buf := append([]byte(nil), data...)
	f := File{
		Name:      path.Base(name),
		Source:    name,
		MediaType: mediaType,
		Size:      int64(len(buf)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		},
	}
	if f.MediaType == "" {
		f.MediaType = declaredMediaType(f.Name, f.open)
	}
	return f
}

func (f File) ReadBytes() ([]byte, error) {
	if f.open == nil {
		return nil, fmt.Errorf("read %s: no content", f.Source)
	}
	rc, err := f.open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Source, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Source, err)
	}
	return data, nil
}

func (f File) ReadText() (string, error) {
	data, err := f.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read %s: content is not valid utf-8", f.Source)
	}
	return string(data), nil
}

// declaredMediaType mirrors what a browser file picker reports: the type
// registered for the extension, or a content sniff when there is none.
func declaredMediaType(name string, open func() (io.ReadCloser, error)) string {
	if ext := path.Ext(name); ext != "" {
		if mt := mime.TypeByExtension(strings.ToLower(ext)); mt != "" {
			return mt
		}
	}
	if open == nil {
		return ""
	}
	rc, err := open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return ""
	}
	return mt.String()
}
