// Package dashboard runs the refresh loop: sample, lay out, render, present,
// poll for a key, and always hand the terminal back on the way out.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/resmon/internal/config"
	"github.com/Dicklesworthstone/resmon/internal/errors"
	"github.com/Dicklesworthstone/resmon/internal/layout"
	"github.com/Dicklesworthstone/resmon/internal/logger"
	"github.com/Dicklesworthstone/resmon/internal/model"
	"github.com/Dicklesworthstone/resmon/internal/ui"
)

// State is the controller lifecycle stage.
type State int

const (
	StateIdle State = iota
	StateActive
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Terminal is the screen and keyboard the dashboard takes over.
type Terminal interface {
	Enter() error
	Leave() error
	Size() (width, height int, err error)
	Present(c *ui.Canvas) error
	PollKey(timeout time.Duration) (msg tea.KeyMsg, ok bool, err error)
}

// Source produces snapshots.
type Source interface {
	Refresh(ctx context.Context) error
	Snapshot() model.Snapshot
}

// Controller owns one dashboard session. It is single use.
type Controller struct {
	term     Terminal
	source   Source
	renderer *ui.Renderer
	keys     KeyMap
	interval time.Duration
	log      logger.Logger

	state  State
	frames int
}

// New returns an idle controller. The interval is clamped to the supported
// refresh range.
func New(term Terminal, source Source, interval time.Duration, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	keys := DefaultKeyMap()
	return &Controller{
		term:     term,
		source:   source,
		renderer: ui.NewRenderer(keys.Hint()),
		keys:     keys,
		interval: config.ClampInterval(interval),
		log:      log,
	}
}

// State reports the lifecycle stage.
func (c *Controller) State() State { return c.state }

// Frames reports how many frames were presented.
func (c *Controller) Frames() int { return c.frames }

// Run takes over the terminal and refreshes until a quit key is pressed or
// ctx is cancelled, which both return nil. Once Enter has succeeded, Leave
// runs exactly once on every way out, panics included.
func (c *Controller) Run(ctx context.Context) (err error) {
	if c.state != StateIdle {
		return errors.New(errors.ErrTerminal,
			"Dashboard session already used",
			"Create a new controller for each session")
	}

	if enterErr := c.term.Enter(); enterErr != nil {
		return errors.WrapWithCode(enterErr, errors.ErrTerminal,
			"Could not take over the terminal",
			"Run resmon from an interactive terminal")
	}
	c.state = StateActive
	c.log.Info("dashboard started, refresh every %s", c.interval)

	defer func() {
		c.state = StateDraining
		if leaveErr := c.term.Leave(); leaveErr != nil {
			c.log.Error("restore terminal: %v", leaveErr)
			if err == nil {
				err = errors.WrapWithCode(leaveErr, errors.ErrTerminal,
					"Could not restore the terminal",
					"Run `reset` to restore your terminal")
			}
		}
		c.state = StateTerminated
		c.log.Info("dashboard stopped after %d frames", c.frames)
	}()

	for {
		if err := c.frame(ctx); err != nil {
			c.log.Error("%v", err)
			return err
		}
		quit, err := c.wait(ctx)
		if err != nil {
			c.log.Error("%v", err)
			return err
		}
		if quit {
			c.state = StateDraining
			return nil
		}
	}
}

// frame samples, lays out, renders and presents one frame.
func (c *Controller) frame(ctx context.Context) error {
	if err := c.source.Refresh(ctx); err != nil {
		c.log.Warn("refresh: %v", err)
	}
	snap := c.source.Snapshot()
	if snap.Taken.IsZero() {
		c.log.Debug("frame %d: no sample yet", c.frames+1)
	} else {
		c.log.Debug("frame %d: sample taken %s, %s old", c.frames+1,
			snap.Taken.Format(time.TimeOnly), time.Since(snap.Taken).Round(time.Millisecond))
	}

	width, height, err := c.term.Size()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Could not read the terminal size", "")
	}

	tree := layout.Compute(layout.Rect{Width: width, Height: height},
		len(snap.CPU.Cores), len(snap.Disks))
	canvas := ui.NewCanvas(width, height)
	if err := c.renderer.Render(canvas, snap, tree); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Could not draw the dashboard", "")
	}
	if err := c.term.Present(canvas); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Could not write to the terminal", "")
	}
	c.frames++
	return nil
}

// wait polls for keys until the interval elapses. It reports quit for a
// quit binding or a cancelled context.
func (c *Controller) wait(ctx context.Context) (bool, error) {
	deadline := time.Now().Add(c.interval)
	for {
		if ctx.Err() != nil {
			c.log.Info("shutdown requested: %v", context.Cause(ctx))
			return true, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}

		msg, ok, err := c.term.PollKey(remaining)
		if err != nil {
			return false, errors.WrapWithCode(err, errors.ErrInput,
				"Could not read keyboard input", "")
		}
		if !ok {
			return ctx.Err() != nil, nil
		}
		if key.Matches(msg, c.keys.Quit) {
			c.log.Debug("quit on %q", msg.String())
			return true, nil
		}
	}
}
