// Package redraw coalesces preview redraw requests into at most one render
// per display-refresh tick.
package redraw

import (
	"log/slog"
	"sync"

	"github.com/rook-computer/wallmaker/internal/render"
)

// ResizeThreshold is the smallest frame size change, in pixels, that
// triggers a redraw.
const ResizeThreshold = 2

// Source supplies the parameters and observed frame at paint time.
type Source func() (render.Params, render.Size)

// Painter renders one preview frame.
type Painter interface {
	Render(p render.Params, mode render.Mode, frame render.Size) (render.Result, error)
}

type State int

const (
	Idle State = iota
	DrawPending
)

type Scheduler struct {
	Clock   FrameClock
	Painter Painter
	Source  Source
	Logger  *slog.Logger

	mu        sync.Mutex
	state     State
	lastFrame render.Size
	observed  bool
	renders   int
}

func NewScheduler(clock FrameClock, painter Painter, source Source) *Scheduler {
	return &Scheduler{Clock: clock, Painter: painter, Source: source, Logger: slog.New(slog.DiscardHandler)}
}

// RequestRedraw schedules a preview render on the next tick. Requests made
// while one is pending are absorbed by it.
func (s *Scheduler) RequestRedraw() {
	s.mu.Lock()
	if s.state == DrawPending {
		s.mu.Unlock()
		return
	}
	s.state = DrawPending
	s.mu.Unlock()
	s.Clock.RequestFrame(s.tick)
}

// ObserveFrame records a new observed frame size and requests a redraw when
// either axis moved by at least ResizeThreshold. It reports whether a redraw
// was requested.
func (s *Scheduler) ObserveFrame(size render.Size) bool {
	s.mu.Lock()
	changed := !s.observed ||
		abs(size.Width-s.lastFrame.Width) >= ResizeThreshold ||
		abs(size.Height-s.lastFrame.Height) >= ResizeThreshold
	if changed {
		s.lastFrame = size
		s.observed = true
	}
	s.mu.Unlock()
	if changed {
		s.RequestRedraw()
	}
	return changed
}

// Frame returns the last frame size that passed the threshold.
func (s *Scheduler) Frame() render.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFrame
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Renders is the number of preview renders performed so far.
func (s *Scheduler) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

func (s *Scheduler) tick() {
	// Back to Idle before painting: a request arriving mid-paint gets its
	// own tick instead of being swallowed.
	s.mu.Lock()
	s.state = Idle
	s.renders++
	s.mu.Unlock()

	params, frame := s.Source()
	if _, err := s.Painter.Render(params, render.ModePreview, frame); err != nil {
		s.logger().Error("preview render failed", "err", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
