package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
)

// Vterm holds one job's log output in a virtual terminal so the pane can
// scroll through history while new output keeps arriving.
type Vterm struct {
	vt      *midterm.Terminal
	Offset  int
	Height  int
	Width   int
	viewBuf *bytes.Buffer
	mu      sync.Mutex
}

// NewVterm creates an empty virtual terminal.
func NewVterm() *Vterm {
	return &Vterm{
		vt:      midterm.NewAutoResizingTerminal(),
		viewBuf: new(bytes.Buffer),
	}
}

// Write implements io.Writer. The view keeps following the newest line
// unless the user scrolled up.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stickToBottom := v.Offset >= v.maxOffset()

	n, err := v.vt.Write(p)

	if stickToBottom {
		v.Offset = v.maxOffset()
	}

	return n, err
}

// SetHeight updates the view height and adjusts scrolling.
func (v *Vterm) SetHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if h < 1 {
		h = 1
	}

	stickToBottom := v.Offset >= v.maxOffset()

	v.Height = h

	if stickToBottom {
		v.Offset = v.maxOffset()
	} else if limit := v.maxOffset(); v.Offset > limit {
		v.Offset = limit
	}
}

// SetWidth updates the terminal width.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if w < 1 {
		w = 1
	}

	v.Width = w
	v.vt.ResizeX(w)
}

// UsedHeight returns the total number of lines in the terminal buffer.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// ScrollToBottom jumps the view to the newest output.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Offset = v.maxOffset()
}

// MaxOffset returns the highest valid scroll offset.
func (v *Vterm) MaxOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.maxOffset()
}

// View renders the visible window of the terminal buffer.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.viewBuf.Reset()

	if v.Offset < 0 {
		v.Offset = 0
	}
	if limit := v.maxOffset(); v.Offset > limit {
		v.Offset = limit
	}

	for i := 0; i < v.Height; i++ {
		row := v.Offset + i
		if row >= v.vt.UsedHeight() {
			break
		}

		if i > 0 {
			_ = v.viewBuf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(v.viewBuf, row)
	}

	return v.viewBuf.String()
}

// Scroll handles the scrolling keys for the pane.
func (v *Vterm) Scroll(msg tea.KeyMsg) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch msg.String() {
	case "pgup":
		v.Offset -= v.Height
	case "pgdown":
		v.Offset += v.Height
	case "home":
		v.Offset = 0
	case "end":
		v.Offset = v.maxOffset()
	}

	if v.Offset < 0 {
		v.Offset = 0
	}
	if limit := v.maxOffset(); v.Offset > limit {
		v.Offset = limit
	}
}

func (v *Vterm) maxOffset() int {
	maxOff := v.vt.UsedHeight() - v.Height
	if maxOff < 0 {
		return 0
	}
	return maxOff
}
