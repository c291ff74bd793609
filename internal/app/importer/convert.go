package importer

import (
	"path"
	"strings"
	"time"

	"github.com/sleroq/keep-to-obsidian/internal/domain/keep"
	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
)

const untitledNote = "Untitled"

// Step names reported when a write for that section fails.
const (
	stepTags       = "adding tags"
	stepParagraph  = "adding paragraph content"
	stepList       = "adding list content"
	stepTimestamps = "applying timestamps"
)

func stepEmbed(filePath string) string {
	return "embedding attachment '" + filePath + "'"
}

// Section is one append against the destination file. Text already carries
// the separator that puts it after the previous section.
type Section struct {
	Step string
	Text string
}

type Times struct {
	Created  time.Time
	Modified time.Time
}

// Conversion is the rendered form of one note. A conversion with Ignored set
// has no content and must not be written.
type Conversion struct {
	Title    string
	TagLine  string
	Body     string
	Sections []Section
	Times    *Times
	Ignored  IgnoreReason
}

func (c Conversion) Markdown() string {
	var b strings.Builder
	for _, s := range c.Sections {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Convert renders note without touching storage.
func Convert(note keep.Note, sourceFilename string, s settings.Settings) Conversion {
	if note.IsArchived && !s.ImportArchived {
		return Conversion{Ignored: IgnoreArchived}
	}
	if note.IsTrashed && !s.ImportTrashed {
		return Conversion{Ignored: IgnoreTrashed}
	}

	conv := Conversion{Title: noteTitle(note, sourceFilename, s)}

	var parts []Section
	if tags := tagLine(note, s); tags != "" {
		conv.TagLine = tags
		parts = append(parts, Section{Step: stepTags, Text: tags})
	}

	var body []string
	if note.TextContent != "" {
		parts = append(parts, Section{Step: stepParagraph, Text: note.TextContent})
		body = append(body, note.TextContent)
	}
	if list := checklist(note.ListContent); list != "" {
		parts = append(parts, Section{Step: stepList, Text: list})
		body = append(body, list)
	}
	for _, a := range note.Attachments {
		embed := "![[" + a.FilePath + "]]"
		parts = append(parts, Section{Step: stepEmbed(a.FilePath), Text: embed})
		body = append(body, embed)
	}
	conv.Body = strings.Join(body, "\n\n")

	for i := range parts {
		if i > 0 {
			parts[i].Text = "\n\n" + parts[i].Text
		}
		if i == len(parts)-1 {
			parts[i].Text += "\n"
		}
	}
	conv.Sections = parts

	if s.CreatedDate == settings.CreatedDateSource {
		conv.Times = &Times{Created: note.CreatedTime(), Modified: note.EditedTime()}
	}
	return conv
}

func noteTitle(note keep.Note, sourceFilename string, s settings.Settings) string {
	raw := note.Title
	if raw == "" {
		raw, _ = SplitExt(path.Base(sourceFilename))
	}
	title := SanitizeName(raw, s.CharMaps())
	if title == "" {
		return untitledNote
	}
	return title
}

func tagLine(note keep.Note, s settings.Settings) string {
	var tags []string
	if s.AddColorTags && note.Color != "" {
		tags = append(tags, s.TagNames.ColorPrepend+note.Color)
	}
	if s.AddPinnedTags && note.IsPinned {
		tags = append(tags, s.TagNames.IsPinned)
	}
	if s.AddAttachmentTags && note.HasAttachments() {
		tags = append(tags, s.TagNames.HasAttachment)
	}
	if s.AddArchivedTags && note.IsArchived {
		tags = append(tags, s.TagNames.IsArchived)
	}
	if s.AddTrashedTags && note.IsTrashed {
		tags = append(tags, s.TagNames.IsTrashed)
	}
	if s.AddLabelTags {
		for _, l := range note.Labels {
			name := strings.Join(strings.Fields(l.Name), "-")
			if name == "" {
				continue
			}
			tags = append(tags, s.TagNames.LabelPrepend+name)
		}
	}
	return strings.Join(tags, " ")
}

func checklist(items []keep.ListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		mark := " "
		if item.IsChecked {
			mark = "X"
		}
		lines = append(lines, "- ["+mark+"] "+item.Text)
	}
	return strings.Join(lines, "\n")
}
