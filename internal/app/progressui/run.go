package progressui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sleroq/keep-to-obsidian/internal/app/importer"
)

const plainPollInterval = 50 * time.Millisecond

type Options struct {
	Out   io.Writer
	In    io.Reader
	Plain bool
}

// Run shows progress until the import leaves the running state and returns
// every log entry it saw. Without a terminal it prints one line per entry.
func Run(tracker Tracker, total int, opts Options) ([]importer.LogEntry, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Plain || !IsTerminal(out) {
		return runPlain(tracker, total, out), nil
	}

	progOpts := []tea.ProgramOption{tea.WithOutput(out)}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}
	final, err := tea.NewProgram(NewModel(tracker, total), progOpts...).Run()
	if err != nil {
		return nil, fmt.Errorf("progress ui: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Entries(), nil
	}
	return nil, nil
}

func runPlain(tracker Tracker, total int, out io.Writer) []importer.LogEntry {
	ticker := time.NewTicker(plainPollInterval)
	defer ticker.Stop()

	var entries []importer.LogEntry
	for {
		state := tracker.State()
		for _, e := range tracker.LatestProgress().NewEntries {
			entries = append(entries, e)
			printEntry(out, len(entries), total, e)
		}
		// The state is read before polling so nothing recorded before
		// the import finished can be missed.
		if state == importer.StateCompleted || state == importer.StateCancelled {
			return entries
		}
		<-ticker.C
	}
}

func printEntry(out io.Writer, n, total int, e importer.LogEntry) {
	if e.Desc == "" {
		fmt.Fprintf(out, "[%d/%d] %s %s\n", n, total, e.Status, e.Title)
		return
	}
	fmt.Fprintf(out, "[%d/%d] %s %s: %s\n", n, total, e.Status, e.Title, e.Desc)
}

// IsTerminal reports whether w is an interactive character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols <= 0 {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
