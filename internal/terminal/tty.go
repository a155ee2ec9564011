// Package terminal puts the controlling terminal into dashboard mode and
// back, paints frames, and reads keys.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/input"
	"github.com/muesli/cancelreader"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/resmon/internal/logger"
	"github.com/Dicklesworthstone/resmon/internal/ui"
)

// ErrNotTerminal is returned by Enter when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("not a terminal")

type readResult struct {
	keys    []tea.KeyMsg
	loneEsc bool
	err     error
}

type eventReader interface {
	ReadEvents() ([]input.Event, error)
}

// TTY drives a real terminal: raw mode, alternate screen, hidden cursor.
type TTY struct {
	in  *os.File
	out *os.File
	w   io.Writer

	output *termenv.Output
	theme  ui.Theme
	log    logger.Logger

	mu      sync.Mutex
	state   *term.State
	reader  *input.Reader
	events  chan readResult
	pending []tea.KeyMsg
	readErr error
	done    chan struct{}
	entered bool
}

// New returns a TTY over the given streams. Nothing is changed until Enter.
func New(in, out *os.File, log logger.Logger) *TTY {
	if log == nil {
		log = logger.Noop()
	}
	return &TTY{
		in:     in,
		out:    out,
		w:      out,
		output: termenv.NewOutput(out),
		theme:  ui.NewTheme(lipgloss.NewRenderer(out)),
		log:    log,
	}
}

// Enter switches to raw mode and the alternate screen and starts reading
// keys. On failure the terminal is left as it was.
func (t *TTY) Enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entered {
		return nil
	}
	if !term.IsTerminal(int(t.in.Fd())) || !term.IsTerminal(int(t.out.Fd())) {
		return ErrNotTerminal
	}

	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}

	reader, err := input.NewReader(t.in, os.Getenv("TERM"), 0)
	if err != nil {
		_ = term.Restore(int(t.in.Fd()), state)
		return fmt.Errorf("open input reader: %w", err)
	}

	t.state = state
	t.reader = reader
	t.events = make(chan readResult, 16)
	t.done = make(chan struct{})
	t.entered = true

	t.output.AltScreen()
	t.output.HideCursor()
	t.output.ClearScreen()

	go t.readLoop(reader, t.events, t.done)
	t.log.Debug("terminal entered dashboard mode")
	return nil
}

// Leave undoes Enter. It is safe to call more than once; only the first call
// after a successful Enter does anything.
func (t *TTY) Leave() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.entered {
		return nil
	}
	t.entered = false

	var errs []error
	if t.reader.Cancel() {
		t.drain()
	} else {
		t.log.Warn("input reader could not be cancelled")
	}
	if err := t.reader.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close input reader: %w", err))
	}

	t.output.ShowCursor()
	t.output.ExitAltScreen()

	if err := term.Restore(int(t.in.Fd()), t.state); err != nil {
		errs = append(errs, fmt.Errorf("restore terminal mode: %w", err))
	}
	t.log.Debug("terminal restored")
	return errors.Join(errs...)
}

// Size reports the terminal size in cells.
func (t *TTY) Size() (width, height int, err error) {
	width, height, err = term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("query terminal size: %w", err)
	}
	return width, height, nil
}

// Present paints the canvas over the whole screen, one positioned line per
// row, in a single write.
func (t *TTY) Present(c *ui.Canvas) error {
	var b strings.Builder
	for y, line := range c.Lines(t.theme) {
		b.WriteString(termenv.CSI)
		fmt.Fprintf(&b, termenv.CursorPositionSeq, y+1, 1)
		b.WriteString(line)
	}
	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// PollKey waits up to timeout for a key. ok is false when none arrived.
func (t *TTY) PollKey(timeout time.Duration) (msg tea.KeyMsg, ok bool, err error) {
	if len(t.pending) > 0 {
		return t.pop(), true, nil
	}
	if err := t.readErr; err != nil {
		t.readErr = nil
		return tea.KeyMsg{}, false, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res, open := <-t.events:
		if !open {
			return tea.KeyMsg{}, false, io.EOF
		}
		if res.err != nil {
			return tea.KeyMsg{}, false, res.err
		}
		keys := res.keys
		if res.loneEsc {
			keys = t.settleEsc(keys)
		}
		t.pending = append(t.pending, keys...)
		if len(t.pending) == 0 {
			return tea.KeyMsg{}, false, nil
		}
		return t.pop(), true, nil
	case <-timer.C:
		return tea.KeyMsg{}, false, nil
	}
}

// settleEsc holds a lone Esc for escDelay. A read arriving in that window
// that opens with '[' or 'O' is the tail of a split escape sequence; it is
// dropped together with the Esc.
func (t *TTY) settleEsc(esc []tea.KeyMsg) []tea.KeyMsg {
	timer := time.NewTimer(escDelay)
	defer timer.Stop()

	select {
	case res, open := <-t.events:
		if !open {
			return esc
		}
		if res.err != nil {
			t.readErr = res.err
			return esc
		}
		if isSplitTail(res.keys) {
			t.log.Debug("dropped escape sequence split across reads")
			return nil
		}
		return append(esc, res.keys...)
	case <-timer.C:
		return esc
	}
}

// drain discards unread events until the reader goroutine exits.
func (t *TTY) drain() {
	for {
		select {
		case <-t.done:
			return
		case <-t.events:
		}
	}
}

func (t *TTY) pop() tea.KeyMsg {
	k := t.pending[0]
	t.pending = t.pending[1:]
	return k
}

func (t *TTY) readLoop(r eventReader, events chan<- readResult, done chan<- struct{}) {
	defer close(done)
	for {
		evs, err := r.ReadEvents()
		if len(evs) > 0 {
			events <- readResult{keys: toKeyMsgs(evs), loneEsc: isLoneEsc(evs)}
		}
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) {
				return
			}
			events <- readResult{err: fmt.Errorf("read input: %w", err)}
			return
		}
	}
}
