package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/wallmaker/internal/buttons"
	"github.com/rook-computer/wallmaker/internal/redraw"
	"github.com/rook-computer/wallmaker/internal/render"
	"github.com/rook-computer/wallmaker/internal/state"
)

type fixedFrames struct {
	mu   sync.Mutex
	size render.Size
}

func (f *fixedFrames) FrameSize() render.Size {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

type fakeExporter struct {
	mu     sync.Mutex
	params []render.Params
	err    error
}

func (e *fakeExporter) Export(_ context.Context, p render.Params) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = append(e.params, p)
	return "out.png", e.err
}

type chanButtons struct{ ch chan buttons.Event }

func (b *chanButtons) Start(context.Context) error   { return nil }
func (b *chanButtons) Stop() error                   { return nil }
func (b *chanButtons) Events() <-chan buttons.Event { return b.ch }

type harness struct {
	app      *App
	clock    *redraw.ManualClock
	surface  *render.MemorySurface
	exporter *fakeExporter
	frames   *fixedFrames
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	surface := render.NewMemorySurface()
	renderer := render.NewRenderer(surface)
	renderer.Rand = rand.New(rand.NewPCG(5, 6))
	s := state.Default()
	s.Target = render.Size{Width: 360, Height: 780}
	store := state.NewStore(s, rand.New(rand.NewPCG(1, 1)))
	clock := &redraw.ManualClock{}
	frames := &fixedFrames{size: render.Size{Width: 360, Height: 780}}
	exporter := &fakeExporter{}
	a := New(store, renderer, clock, frames, exporter, nil)
	return &harness{app: a, clock: clock, surface: surface, exporter: exporter, frames: frames}
}

func TestSessionActionsRequestRedraw(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	before := h.app.Store.Snapshot()
	h.app.HandleEvent(ctx, buttons.NextBackground)
	h.app.HandleEvent(ctx, buttons.RandomPrompt)
	h.app.HandleEvent(ctx, buttons.RandomPalette)
	after := h.app.Store.Snapshot()
	assert.NotEqual(t, before.Message, after.Message)

	assert.Equal(t, redraw.DrawPending, h.app.Scheduler.State())
	assert.Equal(t, 1, h.clock.Step(), "three actions coalesce into one tick")
	assert.Equal(t, 1, h.app.Scheduler.Renders())
	_, presents := h.surface.Stats()
	assert.Equal(t, 1, presents)
}

func TestExportEventUsesCurrentParams(t *testing.T) {
	h := newHarness(t)
	h.app.Store.SetMessage("export me")
	h.app.HandleEvent(context.Background(), buttons.Export)
	require.Len(t, h.exporter.params, 1)
	assert.Equal(t, "export me", h.exporter.params[0].Message)

	h.exporter.err = errors.New("nope")
	h.app.HandleEvent(context.Background(), buttons.Export)
	assert.Len(t, h.exporter.params, 2)
}

func TestStartObservesFrameAndExits(t *testing.T) {
	h := newHarness(t)
	btns := &chanButtons{ch: make(chan buttons.Event)}
	h.app.Buttons = btns
	h.app.FramePoll = 5 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- h.app.Start(context.Background()) }()

	assert.Eventually(t, func() bool {
		return h.app.Scheduler.Frame() == render.Size{Width: 360, Height: 780}
	}, time.Second, time.Millisecond)
	h.clock.Step()

	h.frames.mu.Lock()
	h.frames.size = render.Size{Width: 400, Height: 900}
	h.frames.mu.Unlock()
	assert.Eventually(t, func() bool {
		return h.app.Scheduler.Frame().Width == 400
	}, time.Second, time.Millisecond)
	assert.Equal(t, render.Size{Width: 400, Height: 900}, h.app.Store.Snapshot().Frame)

	btns.ch <- buttons.Exit
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not exit")
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Start(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestExitIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.app.Exit(errors.New("first"))
	h.app.Exit(errors.New("second"))
	err := <-h.app.exitCh
	assert.EqualError(t, err, "first")
}

type deviceFrames struct {
	fixedFrames
	device render.Size
}

func (d *deviceFrames) DeviceSize() render.Size { return d.device }

func TestUseDeviceSizeScalesByDPR(t *testing.T) {
	h := newHarness(t)
	h.app.Frames = &deviceFrames{device: render.Size{Width: 800, Height: 1280}}
	h.app.DPR = 1.5

	h.app.HandleEvent(context.Background(), buttons.UseDeviceSize)
	assert.Equal(t, render.Size{Width: 1200, Height: 1920}, h.app.Store.Snapshot().Target)
	assert.Equal(t, redraw.DrawPending, h.app.Scheduler.State())
}

func TestUseDeviceSizeIgnoresUnknownDisplay(t *testing.T) {
	h := newHarness(t)
	before := h.app.Store.Snapshot().Target

	h.app.HandleEvent(context.Background(), buttons.UseDeviceSize)
	assert.Equal(t, before, h.app.Store.Snapshot().Target, "fixedFrames has no device size")

	h.app.Frames = &deviceFrames{}
	h.app.HandleEvent(context.Background(), buttons.UseDeviceSize)
	assert.Equal(t, before, h.app.Store.Snapshot().Target, "zero device size is rejected")
}

type framePainter struct {
	mu     sync.Mutex
	frames []render.Size
}

func (p *framePainter) Render(_ render.Params, _ render.Mode, frame render.Size) (render.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, frame)
	return render.Result{}, nil
}

func TestPaintUsesStoredFrame(t *testing.T) {
	store := state.NewStore(state.Default(), rand.New(rand.NewPCG(1, 1)))
	clock := &redraw.ManualClock{}
	painter := &framePainter{}
	a := New(store, painter, clock, &fixedFrames{}, nil, nil)

	store.SetFrame(render.Size{Width: 360, Height: 780})
	a.Scheduler.RequestRedraw()
	// A sub-threshold wobble is not a trigger, but the next paint still
	// sees it.
	store.SetFrame(render.Size{Width: 361, Height: 780})
	clock.Step()
	require.Len(t, painter.frames, 1)
	assert.Equal(t, render.Size{Width: 361, Height: 780}, painter.frames[0])
}
