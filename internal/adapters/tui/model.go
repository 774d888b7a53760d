// Package tui is the interactive pool monitor. It polls the store for the
// pool summary and follows the job log files as they are written.
package tui

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/ui/output"
)

const (
	jobListWidthRatio  = 0.35
	logPaneBorderWidth = 4

	// DefaultPollInterval is how often the pool summary is refreshed.
	DefaultPollInterval = time.Second

	// activeWindow is how long after its last output a job still counts
	// as active in the list.
	activeWindow = 3 * time.Second
)

type (
	// tickMsg drives the poll loop.
	tickMsg time.Time

	// statusMsg carries one pool summary, or the error fetching it.
	statusMsg struct {
		status ports.PoolStatus
		err    error
	}

	// logMsg carries one tail event from the job logs directory.
	logMsg ports.TailEvent
)

// jobPane is one followed job log.
type jobPane struct {
	label     string
	path      string
	term      *Vterm
	lastWrite time.Time
}

// Model is the monitor state.
type Model struct {
	ctx      context.Context
	store    ports.Store
	interval time.Duration

	now         time.Time
	status      ports.PoolStatus
	statusErr   error
	statusReady bool

	panes      []*jobPane
	paneByPath map[string]*jobPane
	selected   int
	listOffset int
	listHeight int

	width      int
	height     int
	logWidth   int
	logHeight  int
	followMode bool
}

// New creates the monitor model. The writer is the terminal the monitor
// will render to; it decides the color profile.
func New(ctx context.Context, store ports.Store, interval time.Duration, w io.Writer) *Model {
	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Model{
		ctx:        ctx,
		store:      store,
		interval:   interval,
		paneByPath: make(map[string]*jobPane),
		followMode: true,
	}
}

// Init starts the poll loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.pollStatus(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) pollStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.store.Status(m.ctx)
		return statusMsg{status: status, err: err}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()

	case tickMsg:
		m.now = time.Time(msg)
		return m, tea.Batch(m.pollStatus(), m.tick())

	case statusMsg:
		m.status = msg.status
		m.statusErr = msg.err
		m.statusReady = true
		m.recalcLayout()

	case logMsg:
		m.handleLog(ports.TailEvent(msg))
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.followMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.selected < len(m.panes)-1 {
			m.selected++
			m.followMode = false
			m.ensureVisible()
		}
	case "esc":
		m.followMode = true
		m.selectNewest()
	default:
		if pane := m.selectedPane(); pane != nil {
			pane.term.Scroll(msg)
		}
	}

	return m, nil
}

func (m *Model) handleLog(event ports.TailEvent) {
	pane, ok := m.paneByPath[event.Path]
	if !ok {
		pane = &jobPane{
			label: paneLabel(event.Path),
			path:  event.Path,
			term:  NewVterm(),
		}
		if m.logWidth > 0 {
			pane.term.SetWidth(m.logWidth)
			pane.term.SetHeight(m.logHeight)
		}
		m.panes = append(m.panes, pane)
		m.paneByPath[event.Path] = pane
	}

	if len(event.Data) == 0 {
		return
	}

	_, _ = pane.term.Write(event.Data)
	pane.lastWrite = time.Now()

	if m.followMode {
		m.selectNewest()
	}
}

// selectNewest moves the selection to the pane that wrote last.
func (m *Model) selectNewest() {
	newest := -1
	for i, pane := range m.panes {
		if newest < 0 || pane.lastWrite.After(m.panes[newest].lastWrite) {
			newest = i
		}
	}
	if newest >= 0 {
		m.selected = newest
		m.ensureVisible()
	}
}

func (m *Model) selectedPane() *jobPane {
	if m.selected >= 0 && m.selected < len(m.panes) {
		return m.panes[m.selected]
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.listHeight <= 0 {
		return
	}
	if m.selected < m.listOffset {
		m.listOffset = m.selected
	} else if m.selected >= m.listOffset+m.listHeight {
		m.listOffset = m.selected - m.listHeight + 1
	}
}

// recalcLayout derives the pane sizes from the window size and the
// current status pane height.
func (m *Model) recalcLayout() {
	if m.width == 0 {
		return
	}

	listWidth := int(float64(m.width) * jobListWidthRatio)
	m.logWidth = m.width - listWidth - logPaneBorderWidth

	headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
	m.logHeight = m.height - headerHeight - 1
	if m.logHeight < 1 {
		m.logHeight = 1
	}

	listHeader := titleStyle.Render("JOBS") + "\n\n"
	m.listHeight = m.height - lipgloss.Height(m.statusPane()) - lipgloss.Height(listHeader)
	if m.listHeight < 1 {
		m.listHeight = 1
	}
	m.ensureVisible()

	for _, pane := range m.panes {
		pane.term.SetWidth(m.logWidth)
		pane.term.SetHeight(m.logHeight)
	}
}

// paneLabel turns a job log path into a short list label.
func paneLabel(path string) string {
	base := filepath.Base(path)
	if id, ok := strings.CutPrefix(base, "job-"); ok {
		if id = strings.TrimSuffix(id, ".log"); id != "" {
			return "job " + id
		}
	}
	return base
}
