package app

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/wallmaker/internal/buttons"
	"github.com/rook-computer/wallmaker/internal/redraw"
	"github.com/rook-computer/wallmaker/internal/render"
	"github.com/rook-computer/wallmaker/internal/state"
)

// DefaultFramePoll is how often the observed frame is re-read.
const DefaultFramePoll = 500 * time.Millisecond

// FrameSource reports the box the preview is shown in.
type FrameSource interface {
	FrameSize() render.Size
}

// DeviceSizer reports the display's full resolution in device pixels.
type DeviceSizer interface {
	DeviceSize() render.Size
}

type Exporter interface {
	Export(ctx context.Context, p render.Params) (string, error)
}

// App runs the interactive preview: it keeps the preview in sync with the
// session and turns button events into session actions and exports.
type App struct {
	Store     *state.Store
	Scheduler *redraw.Scheduler
	Clock     redraw.FrameClock
	Frames    FrameSource
	Exporter  Exporter
	Buttons   buttons.Buttons
	Logger    *slog.Logger
	FramePoll time.Duration
	// DPR scales the device size for UseDeviceSize.
	DPR float64

	exitOnce atomic.Bool
	exitCh   chan error
}

// New wires a scheduler on clock that paints store snapshots with painter.
func New(store *state.Store, painter redraw.Painter, clock redraw.FrameClock, frames FrameSource, exporter Exporter, buttonDriver buttons.Buttons) *App {
	app := &App{
		Store:     store,
		Clock:     clock,
		Frames:    frames,
		Exporter:  exporter,
		Buttons:   buttonDriver,
		Logger:    slog.New(slog.DiscardHandler),
		FramePoll: DefaultFramePoll,
		DPR:       1,
		exitCh:    make(chan error, 1),
	}
	app.Scheduler = redraw.NewScheduler(clock, painter, func() (render.Params, render.Size) {
		return store.Params(), store.Frame()
	})
	store.OnChange = app.Scheduler.RequestRedraw
	return app
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs until ctx is done or Exit is called.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	app.Scheduler.Logger = app.Logger.With("component", "redraw")

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if runner, ok := app.Clock.(interface{ Run(context.Context) }); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Run(loopCtx)
		}()
	}

	app.observeFrame()
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.watchFrame(loopCtx)
	}()

	var events <-chan buttons.Event
	if app.Buttons != nil {
		if err := app.Buttons.Start(loopCtx); err != nil {
			app.Logger.Error("buttons start failed", "err", err)
		} else {
			defer func() { _ = app.Buttons.Stop() }()
			events = app.Buttons.Events()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			app.HandleEvent(loopCtx, ev)
		}
	}
}

// HandleEvent applies one button event.
func (app *App) HandleEvent(ctx context.Context, ev buttons.Event) {
	app.Logger.Debug("button", "event", string(ev))
	switch ev {
	case buttons.Export:
		if app.Exporter == nil {
			return
		}
		// The exporter asks for a redraw itself once it is done with the surface.
		if _, err := app.Exporter.Export(ctx, app.Store.Params()); err != nil {
			app.Logger.Error("export failed", "err", err)
		}
	case buttons.NextBackground:
		app.Store.NextBackground()
	case buttons.RandomPrompt:
		app.Store.RandomPrompt()
	case buttons.RandomPalette:
		app.Store.RandomPalette()
	case buttons.UseDeviceSize:
		app.useDeviceSize()
	case buttons.Exit:
		app.Exit(nil)
	default:
		app.Logger.Warn("unknown button event", "event", string(ev))
	}
}

// useDeviceSize retargets the export to the display's resolution times DPR.
func (app *App) useDeviceSize() {
	d, ok := app.Frames.(DeviceSizer)
	if !ok {
		app.Logger.Warn("display size unknown")
		return
	}
	dpr := app.DPR
	if math.IsNaN(dpr) || dpr <= 0 {
		dpr = 1
	}
	dev := d.DeviceSize()
	target := render.Size{
		Width:  int(math.Round(float64(dev.Width) * dpr)),
		Height: int(math.Round(float64(dev.Height) * dpr)),
	}
	if err := (render.Params{Target: target}).Validate(); err != nil {
		app.Logger.Warn("device size rejected", "err", err)
		return
	}
	app.Store.SetTarget(target)
	app.Logger.Info("target set to device size", "target", target.String())
}

func (app *App) watchFrame(ctx context.Context) {
	if app.Frames == nil {
		return
	}
	poll := app.FramePoll
	if poll <= 0 {
		poll = DefaultFramePoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.observeFrame()
		}
	}
}

func (app *App) observeFrame() {
	var frame render.Size
	if app.Frames != nil {
		frame = app.Frames.FrameSize()
	}
	app.Store.SetFrame(frame)
	if app.Scheduler.ObserveFrame(frame) {
		app.Logger.Debug("frame changed", "frame", frame.String())
	}
}
