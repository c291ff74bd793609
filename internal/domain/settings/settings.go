package settings

import (
	"errors"
	"fmt"
)

type CreatedDate string

const (
	CreatedDateSource CreatedDate = "source"
	CreatedDateImport CreatedDate = "import"
)

var (
	ErrUnknownKey   = errors.New("unknown settings key")
	ErrInvalidValue = errors.New("invalid settings value")
)

// CharMap replaces every occurrence of Char with Replacement.
type CharMap struct {
	Char        string `json:"char"`
	Replacement string `json:"replacement"`
}

type FolderNames struct {
	Notes             string `json:"notes"`
	Assets            string `json:"assets"`
	UnsupportedAssets string `json:"unsupportedAssets"`
}

type TagNames struct {
	ColorPrepend  string `json:"colorPrepend"`
	IsPinned      string `json:"isPinned"`
	HasAttachment string `json:"hasAttachment"`
	IsArchived    string `json:"isArchived"`
	IsTrashed     string `json:"isTrashed"`
	LabelPrepend  string `json:"labelPrepend"`
}

type Settings struct {
	FolderNames       FolderNames `json:"folderNames"`
	CreatedDate       CreatedDate `json:"createdDate"`
	ImportArchived    bool        `json:"importArchived"`
	ImportTrashed     bool        `json:"importTrashed"`
	ImportUnsupported bool        `json:"importUnsupported"`
	ImportHTML        bool        `json:"importHtml"`
	AddColorTags      bool        `json:"addColorTags"`
	AddPinnedTags     bool        `json:"addPinnedTags"`
	AddAttachmentTags bool        `json:"addAttachmentTags"`
	AddArchivedTags   bool        `json:"addArchivedTags"`
	AddTrashedTags    bool        `json:"addTrashedTags"`
	AddLabelTags      bool        `json:"addLabelTags"`
	TagNames          TagNames    `json:"tagNames"`
	ProblemChars      []CharMap   `json:"problemChars"`
	InvalidChars      []CharMap   `json:"invalidChars"`
	InvalidCharFilter Preset      `json:"invalidCharFilter"`
}

// CharMaps holds the two remapping passes applied to names and paths, in
// the order they run.
type CharMaps struct {
	Problem []CharMap
	Invalid []CharMap
}

var defaultProblemChars = []CharMap{
	{Char: "#", Replacement: ""},
	{Char: "^", Replacement: ""},
	{Char: "[", Replacement: "("},
	{Char: "]", Replacement: ")"},
	{Char: "|", Replacement: "-"},
}

func Defaults() Settings {
	invalid, _ := PresetTable(PresetAllWindows)
	return Settings{
		FolderNames: FolderNames{
			Notes:             "Keep Imports",
			Assets:            "Keep Imports/Assets",
			UnsupportedAssets: "Keep Imports/Unsupported Assets",
		},
		CreatedDate:       CreatedDateSource,
		ImportArchived:    true,
		ImportTrashed:     false,
		ImportUnsupported: true,
		ImportHTML:        false,
		AddColorTags:      true,
		AddPinnedTags:     true,
		AddAttachmentTags: true,
		AddArchivedTags:   true,
		AddTrashedTags:    true,
		AddLabelTags:      true,
		TagNames: TagNames{
			ColorPrepend:  "#Keep/Color/",
			IsPinned:      "#Keep/Pinned",
			HasAttachment: "#Keep/Attachment",
			IsArchived:    "#Keep/Archived",
			IsTrashed:     "#Keep/Trashed",
			LabelPrepend:  "#Keep/Label/",
		},
		ProblemChars:      cloneCharMaps(defaultProblemChars),
		InvalidChars:      invalid,
		InvalidCharFilter: PresetAllWindows,
	}
}

func (s Settings) CharMaps() CharMaps {
	return CharMaps{Problem: s.ProblemChars, Invalid: s.InvalidChars}
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	out := s
	out.ProblemChars = cloneCharMaps(s.ProblemChars)
	out.InvalidChars = cloneCharMaps(s.InvalidChars)
	return out
}

func (s Settings) Validate() error {
	switch s.CreatedDate {
	case CreatedDateSource, CreatedDateImport:
	default:
		return fmt.Errorf("%w: createdDate %q", ErrInvalidValue, s.CreatedDate)
	}
	switch s.InvalidCharFilter {
	case PresetAllWindows, PresetAppleAndroid, PresetLinux, PresetCustom:
	default:
		return fmt.Errorf("%w: invalidCharFilter %q", ErrInvalidValue, s.InvalidCharFilter)
	}
	if s.FolderNames.Notes == "" {
		return fmt.Errorf("%w: folderNames.notes is empty", ErrInvalidValue)
	}
	return nil
}

func cloneCharMaps(in []CharMap) []CharMap {
	if in == nil {
		return nil
	}
	out := make([]CharMap, len(in))
	copy(out, in)
	return out
}
