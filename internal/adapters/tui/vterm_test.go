package tui_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/adapters/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// midterm terminates rendered lines with a reset sequence.
func stripAnsi(s string) string {
	return strings.ReplaceAll(s, "\x1b[0m", "")
}

func TestVtermWriteSticksToBottom(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(5)

	_, err := vt.Write([]byte("line1\nline2\nline3\nline4\nline5\nline6"))
	require.NoError(t, err)

	assert.Equal(t, vt.MaxOffset(), vt.Offset)
}

func TestVtermWriteWhileScrolledUpStaysPut(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(2)

	_, err := vt.Write([]byte("1\n2\n3\n4"))
	require.NoError(t, err)
	vt.Offset = 0

	_, err = vt.Write([]byte("\n5\n6"))
	require.NoError(t, err)

	assert.Equal(t, 0, vt.Offset)

	vt.ScrollToBottom()
	assert.Equal(t, vt.MaxOffset(), vt.Offset)
}

func TestVtermSetHeight(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	_, _ = vt.Write([]byte("1\n2\n3\n4\n5\n6\n7\n8\n9\n10"))

	vt.Offset = vt.MaxOffset()
	vt.SetHeight(5)
	assert.Equal(t, 5, vt.Height)
	assert.Equal(t, vt.MaxOffset(), vt.Offset)

	vt.Offset = 0
	vt.SetHeight(2)
	assert.Equal(t, 2, vt.Height)
	assert.Equal(t, 0, vt.Offset)

	vt.SetHeight(20)
	assert.Equal(t, 20, vt.Height)
	assert.Equal(t, 0, vt.Offset)

	vt.SetHeight(0)
	assert.Equal(t, 1, vt.Height)
}

func TestVtermSetWidth(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()

	vt.SetWidth(10)
	assert.Equal(t, 10, vt.Width)

	vt.SetWidth(0)
	assert.Equal(t, 1, vt.Width)
}

func TestVtermScroll(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(2)
	_, _ = vt.Write([]byte("0\n1\n2\n3"))

	require.Equal(t, 2, vt.MaxOffset())
	vt.Offset = vt.MaxOffset()

	vt.Scroll(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, vt.Offset)

	vt.Scroll(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, vt.Offset)

	vt.Scroll(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, vt.Offset)

	vt.Scroll(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, vt.Offset)

	vt.Scroll(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, vt.Offset)

	vt.Scroll(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, vt.Offset)
}

func TestVtermView(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(2)

	_, _ = vt.Write([]byte("hello\nworld"))

	output := stripAnsi(vt.View())
	assert.Equal(t, "hello\nworld", output)
}

func TestVtermViewWindowFollowsOffset(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.SetHeight(2)
	_, _ = vt.Write([]byte("0\n1\n2\n3"))

	vt.Offset = vt.MaxOffset()
	assert.Equal(t, "2\n3", stripAnsi(vt.View()))

	vt.Scroll(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, "0\n1", stripAnsi(vt.View()))
}
