package terminal

import (
	"bytes"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/resmon/internal/layout"
	"github.com/Dicklesworthstone/resmon/internal/logger"
	"github.com/Dicklesworthstone/resmon/internal/ui"
)

func TestTTY_Present(t *testing.T) {
	var buf bytes.Buffer
	tty := &TTY{w: &buf, theme: ui.NewTheme(lipgloss.NewRenderer(&buf))}
	c := ui.NewCanvas(5, 2)
	require.NoError(t, c.Write(layout.Rect{Width: 5, Height: 1}, ui.Span{Text: "hi"}))

	require.NoError(t, tty.Present(c))

	out := buf.String()
	assert.Contains(t, out, "\x1b[1;1H")
	assert.Contains(t, out, "\x1b[2;1H")
	assert.Contains(t, out, "hi")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestTTY_PresentError(t *testing.T) {
	tty := &TTY{w: failWriter{}, theme: ui.DefaultTheme()}

	err := tty.Present(ui.NewCanvas(2, 2))

	assert.ErrorContains(t, err, "broken pipe")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func pollAll(t *testing.T, tty *TTY) []string {
	t.Helper()
	var got []string
	for {
		k, ok, err := tty.PollKey(100 * time.Millisecond)
		require.NoError(t, err)
		if !ok {
			return got
		}
		got = append(got, k.String())
	}
}

func TestTTY_PollKey(t *testing.T) {
	tty := &TTY{events: make(chan readResult, 2), log: logger.Noop()}

	_, ok, err := tty.PollKey(time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	tty.events <- readResult{keys: []tea.KeyMsg{runes("x"), runes("q")}}

	k, ok, err := tty.PollKey(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", k.String())

	k, ok, err = tty.PollKey(time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q", k.String())
}

func TestTTY_PollKeyEmptyRead(t *testing.T) {
	tty := &TTY{events: make(chan readResult, 1), log: logger.Noop()}
	tty.events <- readResult{}

	_, ok, err := tty.PollKey(time.Second)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTTY_PollKeyError(t *testing.T) {
	tty := &TTY{events: make(chan readResult, 1), log: logger.Noop()}
	tty.events <- readResult{err: errors.New("read input: EIO")}

	_, ok, err := tty.PollKey(time.Second)

	assert.False(t, ok)
	assert.ErrorContains(t, err, "EIO")
}

func TestTTY_LoneEsc(t *testing.T) {
	tests := []struct {
		name string
		next []readResult
		want []string
	}{
		{"nothing follows", nil, []string{"esc"}},
		{"csi tail follows", []readResult{{keys: []tea.KeyMsg{runes("["), runes("A")}}}, nil},
		{"ss3 tail follows", []readResult{{keys: []tea.KeyMsg{runes("O"), runes("P")}}}, nil},
		{"ordinary key follows", []readResult{{keys: []tea.KeyMsg{runes("q")}}}, []string{"esc", "q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tty := &TTY{events: make(chan readResult, 4), log: logger.Noop()}
			tty.events <- readResult{keys: []tea.KeyMsg{escKey}, loneEsc: true}
			for _, r := range tt.next {
				tty.events <- r
			}

			assert.Equal(t, tt.want, pollAll(t, tty))
		})
	}
}

func TestTTY_LoneEscThenError(t *testing.T) {
	tty := &TTY{events: make(chan readResult, 2), log: logger.Noop()}
	tty.events <- readResult{keys: []tea.KeyMsg{escKey}, loneEsc: true}
	tty.events <- readResult{err: errors.New("read input: EIO")}

	k, ok, err := tty.PollKey(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tea.KeyEsc, k.Type)

	_, ok, err = tty.PollKey(time.Second)
	assert.False(t, ok)
	assert.ErrorContains(t, err, "EIO")
}

func TestTTY_LeaveWithoutEnter(t *testing.T) {
	tty := &TTY{}

	assert.NoError(t, tty.Leave())
	assert.NoError(t, tty.Leave())
}

func TestTTY_ReadLoop(t *testing.T) {
	r, err := input.NewReader(bytes.NewReader([]byte{0x1b}), "xterm-256color", 0)
	require.NoError(t, err)
	tty := &TTY{}
	events := make(chan readResult, 4)
	done := make(chan struct{})

	go tty.readLoop(r, events, done)

	first := <-events
	require.NoError(t, first.err)
	assert.Equal(t, []tea.KeyMsg{escKey}, first.keys)
	assert.True(t, first.loneEsc)

	second := <-events
	assert.ErrorContains(t, second.err, "EOF")
	<-done
}
