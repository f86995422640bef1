//go:build !linux

package system

import "log/slog"

// EnterKiosk is a no-op off Linux.
func EnterKiosk(*slog.Logger) (restore func()) { return func() {} }
