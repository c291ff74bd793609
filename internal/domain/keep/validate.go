package keep

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedJSON = errors.New("malformed json")
	ErrNotNoteRecord = errors.New("not a google keep note")
)

var requiredNoteKeys = []string{
	"color",
	"isTrashed",
	"isPinned",
	"isArchived",
	"title",
	"userEditedTimestampUsec",
	"createdTimestampUsec",
}

// IsNoteRecord reports whether v, a decoded JSON value, carries every field a
// Keep note is required to have. Only presence is checked, not types.
func IsNoteRecord(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range requiredNoteKeys {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

func ParseNote(data []byte) (Note, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Note{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if !IsNoteRecord(raw) {
		return Note{}, ErrNotNoteRecord
	}

	var note Note
	if err := json.Unmarshal(data, &note); err != nil {
		return Note{}, fmt.Errorf("%w: %v", ErrNotNoteRecord, err)
	}
	return note, nil
}
