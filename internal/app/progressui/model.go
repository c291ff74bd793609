package progressui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sleroq/keep-to-obsidian/internal/app/importer"
)

const (
	frameInterval = time.Second / 60
	visibleLog    = 8
)

// Tracker is the part of the importer the UI polls.
type Tracker interface {
	LatestProgress() importer.Progress
	State() importer.State
	Stop()
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[importer.LogStatus]lipgloss.Style{
		importer.LogImported: successStyle,
		importer.LogWarning:  skipStyle,
		importer.LogSkipped:  dimStyle,
		importer.LogError:    failStyle,
	}
)

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Model renders a running import. It polls the tracker once per frame and
// quits when every queued file is processed or the import stops.
type Model struct {
	tracker  Tracker
	total    int
	bar      progress.Model
	latest   importer.Progress
	entries  []importer.LogEntry
	stopping bool
	done     bool
}

func NewModel(tracker Tracker, total int) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = barWidth(0)
	return Model{tracker: tracker, total: total, bar: bar}
}

func (m Model) Init() tea.Cmd {
	return nextFrame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.tracker.Stop()
			m.stopping = true
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	case frameMsg:
		m = m.poll()
		if m.done {
			return m, tea.Quit
		}
		return m, nextFrame()
	}
	return m, nil
}

func (m Model) poll() Model {
	p := m.tracker.LatestProgress()
	m.latest = p
	m.entries = append(m.entries, p.NewEntries...)

	state := m.tracker.State()
	finished := state == importer.StateCompleted || state == importer.StateCancelled
	if finished || (m.total > 0 && p.Processed() >= m.total) {
		m.done = true
	}
	return m
}

// Entries returns every log entry seen so far.
func (m Model) Entries() []importer.LogEntry {
	return m.entries
}

func (m Model) View() string {
	var b strings.Builder

	heading := "Importing Google Keep notes"
	if m.stopping && !m.done {
		heading = "Stopping after the current file"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	processed := m.latest.Processed()
	fmt.Fprintf(&b, "%s %3.0f%% %d/%d\n", m.bar.ViewAs(percent(processed, m.total)), percent(processed, m.total)*100, processed, m.total)
	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		successStyle.Render(fmt.Sprintf("%d imported", m.latest.Success)),
		skipStyle.Render(fmt.Sprintf("%d skipped", m.latest.Skip)),
		failStyle.Render(fmt.Sprintf("%d failed", m.latest.Fail)),
	)

	start := len(m.entries) - visibleLog
	if start < 0 {
		start = 0
	}
	for _, e := range m.entries[start:] {
		b.WriteString(renderEntry(e))
		b.WriteString("\n")
	}

	if !m.done {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("q / esc: stop"))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEntry(e importer.LogEntry) string {
	style, ok := statusStyles[e.Status]
	if !ok {
		style = dimStyle
	}
	line := style.Render(fmt.Sprintf("%-8s", e.Status)) + " " + e.Title
	if e.Desc != "" {
		line += dimStyle.Render(" " + e.Desc)
	}
	return line
}

func percent(processed, total int) float64 {
	if total <= 0 {
		return 1
	}
	p := float64(processed) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func barWidth(cols int) int {
	if cols <= 0 {
		return 36
	}
	width := cols - 24
	if width < 16 {
		width = 16
	}
	if width > 64 {
		width = 64
	}
	return width
}
