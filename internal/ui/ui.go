// Package ui provides a live terminal dashboard of the task collection.
// Uses Bubbletea for display and key handling; state keeps changing under
// the dashboard as the scheduler ticks, so the view refreshes on a timer.
package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwyatt/balance/internal/balance"
)

const refreshInterval = 500 * time.Millisecond

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

// Model is the bubbletea model for the dashboard.
type Model struct {
	bal    *balance.Balance
	cursor int
	rows   []row
}

type row struct {
	name   string
	status string
}

// New creates a dashboard over bal.
func New(bal *balance.Balance) Model {
	m := Model{bal: bal}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "p":
			if m.cursor < len(m.rows) {
				if t, ok := m.bal.Get(m.rows[m.cursor].name); ok {
					t.Progress()
				}
				m.refresh()
			}
		case "d":
			if m.cursor < len(m.rows) {
				m.bal.Remove(m.rows[m.cursor].name)
				m.refresh()
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("balance"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("no tasks"))
		b.WriteString("\n")
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-24s %s", "TASK", "STATUS")))
		b.WriteString("\n")
		for i, r := range m.rows {
			line := fmt.Sprintf("%-24s %s", r.name, r.status)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k move · p progress · d delete · q quit"))
	b.WriteString("\n")
	return b.String()
}

// refresh rebuilds the rows from the live collection, name-sorted so the
// cursor stays meaningful between ticks.
func (m *Model) refresh() {
	tasks := m.bal.Tasks()
	rows := make([]row, 0, len(tasks))
	for _, t := range tasks {
		// "type 'name'<TAB>status"
		s := t.String()
		status := s
		if i := strings.IndexByte(s, '\t'); i >= 0 {
			status = s[i+1:]
		}
		rows = append(rows, row{name: t.Name(), status: status})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	m.rows = rows
	if m.cursor >= len(rows) && len(rows) > 0 {
		m.cursor = len(rows) - 1
	}
}
