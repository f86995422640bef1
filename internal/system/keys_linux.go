//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WatchKeys reads evdev devices and calls onKey for every key press until
// ctx is done. With no paths it watches every /dev/input/event* device.
// It is best-effort: devices that cannot be opened are skipped.
func WatchKeys(ctx context.Context, logger *slog.Logger, paths []string, onKey func(code uint16)) {
	if onKey == nil {
		return
	}
	logger = logger.With("component", "input")
	if len(paths) == 0 {
		found, err := filepath.Glob("/dev/input/event*")
		if err != nil || len(found) == 0 {
			logger.Info("no evdev devices found")
			return
		}
		paths = found
	}
	tvSize := int(binary.Size(unix.Timeval{}))

	for _, path := range paths {
		go watchDevice(ctx, logger, path, tvSize, onKey)
	}
}

func watchDevice(ctx context.Context, logger *slog.Logger, path string, tvSize int, onKey func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		logger.Debug("evdev open failed", "path", path, "err", err)
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() { _ = f.Close() }()

	buf := make([]byte, 64*eventSize(tvSize))
	for {
		if ctx.Err() != nil {
			return
		}
		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device went away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range keyPresses(buf[:n], tvSize) {
			onKey(code)
		}
	}
}
