// Package ui renders interactive analysis progress on a terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pyrite/internal/runner"
)

const recentShown = 8

type progressModel struct {
	title    string
	events   <-chan runner.Event
	spinner  spinner.Model
	prog     progress.Model
	recent   []fileItem
	done     int
	total    int
	findings int
	width    int
	finished bool
}

type fileItem struct {
	path     string
	findings int
}

type eventMsg runner.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders analysis progress
// fed by the runner's event channel.
func NewProgressModel(title string, total int, events <-chan runner.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   total,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(runner.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d files, %d findings)", m.title, m.done, m.total, m.findings)
	if m.finished {
		header = "done: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	countWidth := 10
	nameWidth := m.width - countWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.recent {
		count := fmt.Sprintf("%d found", item.findings)
		if item.findings == 0 {
			count = "clean"
		}
		line := fmt.Sprintf("  %s %s",
			styleCount(item.findings).Render(fmt.Sprintf("%10s", count)),
			truncate(item.path, nameWidth))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev runner.Event) tea.Cmd {
	m.done = ev.Done
	if ev.Total > 0 {
		m.total = ev.Total
	}
	m.findings += ev.Findings

	m.recent = append(m.recent, fileItem{path: ev.Path, findings: ev.Findings})
	if len(m.recent) > recentShown {
		m.recent = m.recent[len(m.recent)-recentShown:]
	}

	if m.total > 0 {
		return m.prog.SetPercent(float64(m.done) / float64(m.total))
	}
	return nil
}

func styleCount(findings int) lipgloss.Style {
	if findings == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
