package buttons

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rook-computer/wallmaker/internal/system"
)

type Event string

const (
	Export         Event = "export"
	NextBackground Event = "next-background"
	RandomPrompt   Event = "random-prompt"
	RandomPalette  Event = "random-palette"
	UseDeviceSize  Event = "use-device-size"
	Exit           Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// NoopButtons never emits. It stands in when the kiosk has no keyboard.
type NoopButtons struct {
	ch   chan Event
	once sync.Once
}

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }

// Stop closes the events channel; repeated calls are fine.
func (n *NoopButtons) Stop() error {
	n.once.Do(func() { close(n.ch) })
	return nil
}

func (n *NoopButtons) Events() <-chan Event { return n.ch }

// ForDevices returns a Keyboard reading devices, or NoopButtons when there
// are none to read.
func ForDevices(logger *slog.Logger, devices []string) Buttons {
	if len(devices) == 0 {
		if logger != nil {
			logger.Info("no keyboard found, preview runs without key input")
		}
		return NewNoopButtons()
	}
	return NewKeyboard(logger, devices...)
}

// KeyMap binds evdev key codes to events.
var KeyMap = map[uint16]Event{
	system.KeyE:   Export,
	system.KeyN:   NextBackground,
	system.KeyR:   RandomPrompt,
	system.KeyP:   RandomPalette,
	system.KeyD:   UseDeviceSize,
	system.KeyF4:  Exit,
	system.KeyEsc: Exit,
}

// Keyboard turns evdev key presses into events.
type Keyboard struct {
	// Devices lists evdev paths; empty watches all of /dev/input.
	Devices []string
	Logger  *slog.Logger

	ch     chan Event
	cancel context.CancelFunc
	once   sync.Once
	watch  func(ctx context.Context, logger *slog.Logger, paths []string, onKey func(uint16))
}

func NewKeyboard(logger *slog.Logger, devices ...string) *Keyboard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Keyboard{
		Devices: devices,
		Logger:  logger,
		ch:      make(chan Event, 8),
		watch:   system.WatchKeys,
	}
}

func (k *Keyboard) Start(ctx context.Context) error {
	ctx, k.cancel = context.WithCancel(ctx)
	k.watch(ctx, k.Logger, k.Devices, func(code uint16) {
		ev, ok := KeyMap[code]
		if !ok {
			return
		}
		select {
		case k.ch <- ev:
		case <-ctx.Done():
		default:
			k.Logger.Debug("key event dropped", "event", string(ev))
		}
	})
	return nil
}

// Stop cancels the watchers. The events channel is left open since device
// goroutines may still be unwinding.
func (k *Keyboard) Stop() error {
	k.once.Do(func() {
		if k.cancel != nil {
			k.cancel()
		}
	})
	return nil
}

func (k *Keyboard) Events() <-chan Event { return k.ch }
