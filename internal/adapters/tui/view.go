package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/ui/style"
)

// View renders the monitor.
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	left := lipgloss.JoinVertical(
		lipgloss.Left,
		m.statusPane(),
		m.jobList(),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		m.logPane(),
	)
}

func (m *Model) statusPane() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("POOL") + "\n\n")

	switch {
	case m.statusErr != nil:
		s.WriteString(errorTextStyle.Render("store unreachable: "+m.statusErr.Error()) + "\n")
	case !m.statusReady:
		s.WriteString(dimStyle.Render("loading...") + "\n")
	default:
		m.renderStatus(&s)
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderStatus(s *strings.Builder) {
	status := m.status

	kinds := make([]string, 0, len(status.PendingByKind))
	for kind := range status.PendingByKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	if len(kinds) == 0 {
		s.WriteString(dimStyle.Render("no pending intentions") + "\n")
	}
	for _, kind := range kinds {
		s.WriteString(fmt.Sprintf("%s: %d pending\n", kind, status.PendingByKind[kind]))
	}

	s.WriteString(fmt.Sprintf("jobs: %d waiting, %d running\n", status.WaitingJobs, status.RunningJobs))
	s.WriteString(fmt.Sprintf("workers: %d\n", len(status.Workers)))

	ready, parked := 0, 0
	for _, token := range status.Tokens {
		if token.Ready(m.now) {
			ready++
		} else {
			parked++
		}
	}
	s.WriteString(fmt.Sprintf("tokens: %d ready, %d parked\n", ready, parked))

	s.WriteString(fmt.Sprintf("archived: %s %d ok, %s %d failed\n",
		okGlyphStyle.Render(style.Check), status.ArchivedOK,
		failGlyphStyle.Render(style.Cross), status.ArchivedError))
}

func (m *Model) jobList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("JOBS") + "\n\n")

	if len(m.panes) == 0 {
		s.WriteString(dimStyle.Render("no job logs yet") + "\n")
		return listStyle.Render(s.String())
	}

	start := m.listOffset
	end := m.listOffset + m.listHeight
	if end > len(m.panes) {
		end = len(m.panes)
	}
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderJobRow(i, m.panes[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderJobRow(index int, pane *jobPane) string {
	active := m.paneActive(pane)

	icon := style.Circle
	rowStyle := paneIdleStyle
	if active {
		icon = style.Dot
		rowStyle = paneActiveStyle
	}

	cursor := "  "
	if index == m.selected {
		cursor = selectedStyle.Render("> ")
		rowStyle = selectedStyle
	}

	return cursor + rowStyle.Render(icon+" "+pane.label)
}

// paneActive reports whether the pane wrote output recently.
func (m *Model) paneActive(pane *jobPane) bool {
	if pane.lastWrite.IsZero() {
		return false
	}
	return pane.lastWrite.After(m.now.Add(-activeWindow))
}

func (m *Model) logPane() string {
	var header string
	var content string

	if pane := m.selectedPane(); pane != nil {
		mode := " (manual)"
		if m.followMode {
			mode = " (following)"
		}
		header = titleStyle.Render("LOGS: " + pane.label + mode)
		content = pane.term.View()
	} else {
		header = titleStyle.Render("LOGS (waiting for jobs...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
