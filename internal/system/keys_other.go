//go:build !linux

package system

import (
	"context"
	"log/slog"
)

// WatchKeys is a no-op off Linux.
func WatchKeys(ctx context.Context, logger *slog.Logger, paths []string, onKey func(code uint16)) {
	logger.Info("key input is only supported on linux")
}
