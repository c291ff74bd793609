package importer

import (
	"mime"
	"strings"
)

// Kind is the single category a source file is imported as.
type Kind int

const (
	KindUnsupported Kind = iota
	KindNote
	KindMarkdown
	KindSupportedBinary
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindMarkdown:
		return "markdown"
	case KindSupportedBinary:
		return "supported binary"
	case KindHTML:
		return "html"
	default:
		return "unsupported"
	}
}

var markdownTypes = map[string]struct{}{
	"text/markdown":   {},
	"text/x-markdown": {},
	"text/plain":      {},
}

// Formats Obsidian can open natively.
var supportedBinaryTypes = map[string]struct{}{
	"image/png":     {},
	"image/webp":    {},
	"image/jpeg":    {},
	"image/gif":     {},
	"image/bmp":     {},
	"image/svg+xml": {},

	"audio/mpeg":   {},
	"audio/mp4":    {},
	"audio/m4a":    {},
	"audio/x-m4a":  {},
	"audio/webm":   {},
	"audio/wav":    {},
	"audio/x-wav":  {},
	"audio/ogg":    {},
	"audio/3gpp":   {},
	"audio/flac":   {},
	"audio/x-flac": {},

	"video/mp4":        {},
	"video/webm":       {},
	"video/ogg":        {},
	"video/3gpp":       {},
	"video/quicktime":  {},
	"video/x-matroska": {},

	"application/pdf": {},
}

// Classify picks the category for a file from its name and declared media
// type. The first matching rule wins, so every input maps to exactly one
// Kind.
func Classify(name, mediaType string) Kind {
	mt := normalizeMediaType(mediaType)
	ext := FileExtension(name)

	switch {
	case mt == "application/json" || ext == ".json":
		return KindNote
	case isMarkdown(mt, ext):
		return KindMarkdown
	case isSupportedBinary(mt):
		return KindSupportedBinary
	case mt == "text/html" || ext == ".html" || ext == ".htm":
		return KindHTML
	default:
		return KindUnsupported
	}
}

func isMarkdown(mt, ext string) bool {
	if ext == ".md" {
		return true
	}
	_, ok := markdownTypes[mt]
	return ok
}

func isSupportedBinary(mt string) bool {
	_, ok := supportedBinaryTypes[mt]
	return ok
}

func normalizeMediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(raw); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
