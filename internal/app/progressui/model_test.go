package progressui

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sleroq/keep-to-obsidian/internal/app/importer"
)

type fakeTracker struct {
	mu      sync.Mutex
	polls   []importer.Progress
	state   importer.State
	stopped bool
}

func (f *fakeTracker) LatestProgress() importer.Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.polls) == 0 {
		return importer.Progress{}
	}
	p := f.polls[0]
	if len(f.polls) > 1 {
		f.polls = f.polls[1:]
	} else {
		f.polls[0].NewEntries = nil
	}
	return p
}

func (f *fakeTracker) State() importer.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeTracker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func TestModelQuitsWhenAllFilesProcessed(t *testing.T) {
	tracker := &fakeTracker{
		state: importer.StateRunning,
		polls: []importer.Progress{
			{Total: 2, Success: 1, NewEntries: []importer.LogEntry{{Status: importer.LogImported, Title: "a.json"}}},
			{Total: 2, Success: 1, Fail: 1, NewEntries: []importer.LogEntry{{Status: importer.LogError, Title: "b.json", Desc: "broken"}}},
		},
	}
	var m tea.Model = NewModel(tracker, 2)

	m, cmd := m.Update(frameMsg{})
	if cmd == nil {
		t.Fatalf("expected another frame after the first poll")
	}
	m, cmd = m.Update(frameMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg after all files were processed")
	}

	model := m.(Model)
	if len(model.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(model.Entries()))
	}
	view := model.View()
	if !strings.Contains(view, "2/2") || !strings.Contains(view, "b.json") || !strings.Contains(view, "1 failed") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestModelStopsTrackerOnKey(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		tracker := &fakeTracker{state: importer.StateRunning}
		m, _ := NewModel(tracker, 5).Update(key)
		if !tracker.stopped {
			t.Fatalf("expected %q to stop the import", key.String())
		}
		if !strings.Contains(m.View(), "Stopping") {
			t.Fatalf("expected stopping heading, got:\n%s", m.View())
		}
	}
}

func TestModelQuitsWhenImportCancelled(t *testing.T) {
	tracker := &fakeTracker{state: importer.StateCancelled}
	m := NewModel(tracker, 5)

	_, cmd := m.Update(frameMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg for a cancelled import")
	}
}

func TestRunPlainPrintsEveryEntry(t *testing.T) {
	tracker := &fakeTracker{
		state: importer.StateCompleted,
		polls: []importer.Progress{{
			Total: 2, Success: 1, Skip: 1,
			NewEntries: []importer.LogEntry{
				{Status: importer.LogImported, Title: "a.json"},
				{Status: importer.LogSkipped, Title: "b.html", Desc: "not supported"},
			},
		}},
	}
	var out bytes.Buffer

	entries, err := Run(tracker, 2, Options{Out: &out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	want := "[1/2] Imported a.json\n[2/2] Skipped b.html: not supported\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}
