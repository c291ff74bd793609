package keep

import "time"

type ListItem struct {
	Text      string `json:"text"`
	IsChecked bool   `json:"isChecked"`
}

type Attachment struct {
	FilePath string `json:"filePath"`
	MimeType string `json:"mimetype"`
}

type Label struct {
	Name string `json:"name"`
}

// Note is one Google Keep note as found in a Takeout JSON file.
type Note struct {
	Color                   string       `json:"color"`
	CreatedTimestampUsec    int64        `json:"createdTimestampUsec"`
	UserEditedTimestampUsec int64        `json:"userEditedTimestampUsec"`
	IsArchived              bool         `json:"isArchived"`
	IsPinned                bool         `json:"isPinned"`
	IsTrashed               bool         `json:"isTrashed"`
	TextContent             string       `json:"textContent,omitempty"`
	ListContent             []ListItem   `json:"listContent,omitempty"`
	Attachments             []Attachment `json:"attachments,omitempty"`
	Labels                  []Label      `json:"labels,omitempty"`
	Title                   string       `json:"title"`
}

func (n Note) HasAttachments() bool {
	return len(n.Attachments) > 0
}

// CreatedTime truncates the microsecond timestamp to milliseconds, the
// granularity file timestamps are written with.
func (n Note) CreatedTime() time.Time {
	return MicrosToTime(n.CreatedTimestampUsec)
}

func (n Note) EditedTime() time.Time {
	return MicrosToTime(n.UserEditedTimestampUsec)
}

func MicrosToTime(usec int64) time.Time {
	return time.UnixMilli(usec / 1000).UTC()
}
