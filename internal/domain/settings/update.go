package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Patch edits a private copy of the settings inside Update.
type Patch func(*Settings)

// Update returns old with patches applied. old is never modified. The preset
// identifier is re-derived from the invalid-character table afterwards, so a
// manual table edit that no longer matches a preset reads as PresetCustom.
func Update(old Settings, patches ...Patch) Settings {
	next := old.Clone()
	for _, patch := range patches {
		if patch != nil {
			patch(&next)
		}
	}
	next.InvalidCharFilter = MatchPreset(next.InvalidChars)
	return next
}

func WithInvalidCharPreset(p Preset) Patch {
	return func(s *Settings) {
		if table, ok := PresetTable(p); ok {
			s.InvalidChars = table
		}
	}
}

func WithInvalidChars(table []CharMap) Patch {
	return func(s *Settings) {
		s.InvalidChars = cloneCharMaps(table)
	}
}

func WithProblemChars(table []CharMap) Patch {
	return func(s *Settings) {
		s.ProblemChars = cloneCharMaps(table)
	}
}

func WithCreatedDate(c CreatedDate) Patch {
	return func(s *Settings) {
		s.CreatedDate = c
	}
}

type stringField func(*Settings) *string
type boolField func(*Settings) *bool

var stringFields = map[string]stringField{
	"folderNames.notes":             func(s *Settings) *string { return &s.FolderNames.Notes },
	"folderNames.assets":            func(s *Settings) *string { return &s.FolderNames.Assets },
	"folderNames.unsupportedAssets": func(s *Settings) *string { return &s.FolderNames.UnsupportedAssets },
	"tagNames.colorPrepend":         func(s *Settings) *string { return &s.TagNames.ColorPrepend },
	"tagNames.isPinned":             func(s *Settings) *string { return &s.TagNames.IsPinned },
	"tagNames.hasAttachment":        func(s *Settings) *string { return &s.TagNames.HasAttachment },
	"tagNames.isArchived":           func(s *Settings) *string { return &s.TagNames.IsArchived },
	"tagNames.isTrashed":            func(s *Settings) *string { return &s.TagNames.IsTrashed },
	"tagNames.labelPrepend":         func(s *Settings) *string { return &s.TagNames.LabelPrepend },
}

var boolFields = map[string]boolField{
	"importArchived":    func(s *Settings) *bool { return &s.ImportArchived },
	"importTrashed":     func(s *Settings) *bool { return &s.ImportTrashed },
	"importUnsupported": func(s *Settings) *bool { return &s.ImportUnsupported },
	"importHtml":        func(s *Settings) *bool { return &s.ImportHTML },
	"addColorTags":      func(s *Settings) *bool { return &s.AddColorTags },
	"addPinnedTags":     func(s *Settings) *bool { return &s.AddPinnedTags },
	"addAttachmentTags": func(s *Settings) *bool { return &s.AddAttachmentTags },
	"addArchivedTags":   func(s *Settings) *bool { return &s.AddArchivedTags },
	"addTrashedTags":    func(s *Settings) *bool { return &s.AddTrashedTags },
	"addLabelTags":      func(s *Settings) *bool { return &s.AddLabelTags },
}

// ParsePatch turns a dotted JSON key and a textual value into a Patch.
// Character tables take "char=replacement" pairs separated by commas, for
// example "#=,[=(,]=)".
func ParsePatch(key, value string) (Patch, error) {
	key = strings.TrimSpace(key)
	if field, ok := stringFields[key]; ok {
		return func(s *Settings) { *field(s) = value }, nil
	}
	if field, ok := boolFields[key]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, key, value)
		}
		return func(s *Settings) { *field(s) = b }, nil
	}

	switch key {
	case "createdDate":
		c := CreatedDate(strings.ToLower(strings.TrimSpace(value)))
		if c != CreatedDateSource && c != CreatedDateImport {
			return nil, fmt.Errorf("%w: createdDate expects source or import, got %q", ErrInvalidValue, value)
		}
		return WithCreatedDate(c), nil
	case "invalidCharFilter":
		p, err := ParsePreset(value)
		if err != nil {
			return nil, err
		}
		return WithInvalidCharPreset(p), nil
	case "problemChars", "invalidChars":
		table, err := ParseCharMaps(value)
		if err != nil {
			return nil, err
		}
		if key == "problemChars" {
			return WithProblemChars(table), nil
		}
		return WithInvalidChars(table), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

func Keys() []string {
	keys := make([]string, 0, len(stringFields)+len(boolFields)+4)
	for k := range stringFields {
		keys = append(keys, k)
	}
	for k := range boolFields {
		keys = append(keys, k)
	}
	keys = append(keys, "createdDate", "invalidCharFilter", "problemChars", "invalidChars")
	sort.Strings(keys)
	return keys
}

func ParseCharMaps(raw string) ([]CharMap, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []CharMap{}, nil
	}
	var out []CharMap
	for _, pair := range strings.Split(raw, ",") {
		char, replacement, ok := strings.Cut(pair, "=")
		if !ok || char == "" {
			return nil, fmt.Errorf("%w: character map entry %q: expected char=replacement", ErrInvalidValue, pair)
		}
		out = append(out, CharMap{Char: char, Replacement: replacement})
	}
	return out, nil
}
