package importer

import (
	"fmt"
	"strings"
)

type Outcome int

const (
	OutcomeImported Outcome = iota
	OutcomeUserIgnored
	OutcomeCreationError
	OutcomeContentError
	OutcomeFormatWarning
)

func (o Outcome) String() string {
	switch o {
	case OutcomeImported:
		return "imported"
	case OutcomeUserIgnored:
		return "user ignored"
	case OutcomeCreationError:
		return "creation error"
	case OutcomeContentError:
		return "content error"
	case OutcomeFormatWarning:
		return "format warning"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type IgnoreReason int

const (
	IgnoreNone IgnoreReason = iota
	IgnoreArchived
	IgnoreTrashed
	IgnoreUnsupported
)

func (r IgnoreReason) String() string {
	switch r {
	case IgnoreArchived:
		return "archived"
	case IgnoreTrashed:
		return "trashed"
	case IgnoreUnsupported:
		return "unsupported"
	default:
		return ""
	}
}

// Result is the outcome of importing one source file.
type Result struct {
	SourceName string
	DestPath   string
	Outcome    Outcome
	Reason     IgnoreReason
	Details    string
	Err        error
}

type LogStatus string

const (
	LogImported LogStatus = "Imported"
	LogWarning  LogStatus = "Warning"
	LogSkipped  LogStatus = "Skipped"
	LogError    LogStatus = "Error"
)

type LogEntry struct {
	Status LogStatus
	Title  string
	Desc   string
}

// Progress is a point-in-time copy of the counters. NewEntries only holds
// log entries appended since the previous LatestProgress call.
type Progress struct {
	Total      int
	Success    int
	Skip       int
	Fail       int
	NewEntries []LogEntry
}

func (p Progress) Processed() int {
	return p.Success + p.Skip + p.Fail
}

func (r Result) status() LogStatus {
	switch r.Outcome {
	case OutcomeImported:
		return LogImported
	case OutcomeFormatWarning:
		return LogWarning
	case OutcomeUserIgnored:
		return LogSkipped
	default:
		return LogError
	}
}

func (r Result) logEntry() LogEntry {
	parts := make([]string, 0, 3)
	if r.Details != "" {
		parts = append(parts, r.Details)
	}
	if r.DestPath != "" {
		parts = append(parts, r.DestPath)
	}
	if r.Err != nil {
		parts = append(parts, "("+r.Err.Error()+")")
	}
	return LogEntry{
		Status: r.status(),
		Title:  r.SourceName,
		Desc:   strings.Join(parts, " "),
	}
}
