package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/rook-computer/wallmaker/internal/config"
)

// EnvStdioLog names a file that receives stdout and stderr, panics
// included.
const EnvStdioLog = "WALLMAKER_STDIO_LOG"

// globals are the flags every subcommand shares.
type globals struct {
	ConfigPath string
	Debug      bool
	LogFile    string
}

func main() {
	var g globals

	rootCmd := &cobra.Command{
		Use:   "wallmaker",
		Short: "Phone wallpapers with a kind message",
		Long: `wallmaker renders a short message centered over a gradient, solid color or photo
and exports it at the exact pixel size of a phone screen.`,
		Example: `  # Export the default wallpaper as PNG
  wallmaker export

  # A random prompt over palette 3 for a Pixel 8
  wallmaker export --random-prompt --palette 3 --preset pixel-8

  # Live preview on the framebuffer
  wallmaker preview --fb /dev/fb0`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "TOML settings file (default ./"+config.DefaultPath+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&g.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&g.LogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(exportCmd(&g), previewCmd(&g), presetsCmd())

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

// newLogger returns the process logger and a func closing its file, if any.
func newLogger(g globals) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if g.Debug {
		level = slog.LevelDebug
	}
	if g.LogFile == "" {
		handler := tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.TimeOnly})
		return slog.New(handler), func() {}, nil
	}
	f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

// loadSettings layers defaults, the TOML file, the environment and then the
// command's flags. Callers validate once everything is filled in.
func loadSettings(g globals, flags *overlay) (config.Settings, error) {
	settings, err := config.Load(g.ConfigPath)
	if err != nil {
		return config.Settings{}, err
	}
	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return config.Settings{}, err
	}
	flags.applyTo(&settings)
	if settings.Seed == 0 {
		settings.Seed = rand.Uint64()
	}
	return settings, nil
}

func seeded(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
