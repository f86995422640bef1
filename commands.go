package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rook-computer/wallmaker/internal/app"
	"github.com/rook-computer/wallmaker/internal/assets"
	"github.com/rook-computer/wallmaker/internal/buttons"
	"github.com/rook-computer/wallmaker/internal/config"
	"github.com/rook-computer/wallmaker/internal/export"
	"github.com/rook-computer/wallmaker/internal/imageload"
	"github.com/rook-computer/wallmaker/internal/redraw"
	"github.com/rook-computer/wallmaker/internal/render"
	"github.com/rook-computer/wallmaker/internal/state"
	"github.com/rook-computer/wallmaker/internal/system"
)

// newSession builds the store for settings, loading any background images.
func newSession(ctx context.Context, settings config.Settings, loader *imageload.Loader) (*state.Store, error) {
	initial, err := settings.State()
	if err != nil {
		return nil, err
	}
	store := state.NewStore(initial, seeded(settings.Seed, 2))
	if len(settings.Images) > 0 {
		imgs := loader.Load(ctx, settings.Images)
		if len(imgs) == 0 {
			loader.Logger.Warn("no background images could be loaded", "requested", len(settings.Images))
		}
		store.SetImages(imgs)
	}
	if settings.RandomPrompt {
		store.RandomPrompt()
	}
	return store, nil
}

func newEncoder(settings config.Settings, painter export.Painter) *export.Encoder {
	format, _ := export.ParseFormat(settings.Format)
	enc := export.NewEncoder(painter, export.DirSink{Dir: settings.OutDir})
	enc.Format = format
	if settings.AppName != "" {
		enc.AppName = settings.AppName
	}
	return enc
}

func exportCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render one wallpaper at its exact size and write it to disk",
		Args:  cobra.NoArgs,
	}
	flags := newOverlay(cmd.Flags())
	sessionFlags(flags)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		logger, closeLog, err := newLogger(*g)
		if err != nil {
			return err
		}
		defer closeLog()

		settings, err := loadSettings(*g, flags)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		store, err := newSession(ctx, settings, imageload.NewLoader(logger.With("component", "imageload")))
		if err != nil {
			return err
		}

		renderer := render.NewRenderer(render.NewMemorySurface())
		renderer.Logger = logger.With("component", "render")
		renderer.Rand = seeded(settings.Seed, 1)

		enc := newEncoder(settings, renderer)
		enc.Logger = logger.With("component", "export")
		where, err := enc.Export(ctx, store.Params())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), where)
		return nil
	}
	return cmd
}

func previewCmd(g *globals) *cobra.Command {
	var stdioLog string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show a live preview on the Linux framebuffer",
		Long: `preview draws the wallpaper on the framebuffer and redraws it whenever the session changes.

Keys: E export, N next background, R random prompt, P random palette, D export at the
display's own size, F4 or Esc to quit.`,
		Args: cobra.NoArgs,
	}
	flags := newOverlay(cmd.Flags())
	sessionFlags(flags)
	flags.String("fb", "", "Framebuffer device", func(s *config.Settings) *string { return &s.Preview.Device })
	flags.Float("dpr", "", "Device pixel ratio for the preview", func(s *config.Settings) *float64 { return &s.Preview.DPR })
	flags.Int("fps", "", "Preview refresh rate", func(s *config.Settings) *int { return &s.Preview.FPS })
	flags.String("keyboard", "", "evdev keyboard device; empty watches all", func(s *config.Settings) *string { return &s.Preview.KeyboardDevice })
	cmd.Flags().StringVar(&stdioLog, "stdio-log", "", "Redirect stdout and stderr, panics included, to this file; also "+EnvStdioLog)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		// Redirect before anything prints, so crashes stay diagnosable with the
		// console in graphics mode.
		if stdioLog == "" {
			stdioLog = os.Getenv(EnvStdioLog)
		}
		if stdioLog != "" {
			if err := redirectStdIO(stdioLog); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "stdio log redirect error:", err)
			}
		}

		logger, closeLog, err := newLogger(*g)
		if err != nil {
			return err
		}
		defer closeLog()

		settings, err := loadSettings(*g, flags)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		surface := render.NewFramebufferSurface(settings.Preview.Device)
		surface.Logger = logger.With("component", "framebuffer")
		if err := surface.Open(); err != nil {
			return fmt.Errorf("open framebuffer: %w", err)
		}
		defer surface.Close()
		settings.DeviceSize = surface.DeviceSize()

		store, err := newSession(ctx, settings, imageload.NewLoader(logger.With("component", "imageload")))
		if err != nil {
			return err
		}

		restore := system.EnterKiosk(logger)
		defer restore()

		renderer := render.NewRenderer(surface)
		renderer.DPR = settings.Preview.DPR
		renderer.Logger = logger.With("component", "render")
		renderer.Rand = seeded(settings.Seed, 1)

		devices := system.InputDevices()
		if settings.Preview.KeyboardDevice != "" {
			devices = []string{settings.Preview.KeyboardDevice}
		}
		keyboard := buttons.ForDevices(logger, devices)

		enc := newEncoder(settings, renderer)
		enc.Logger = logger.With("component", "export")

		a := app.New(store, renderer, redraw.NewTickerClock(settings.Preview.FPS), surface, enc, keyboard)
		a.Logger = logger
		a.DPR = settings.Preview.DPR
		enc.Redraw = a.Scheduler

		logger.Info("preview running", "device", settings.Preview.Device, "target", store.Snapshot().Target.String())
		if err := a.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in sizes, palettes, fonts and prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tLABEL\tSIZE")
			for _, p := range append(assets.PresetSizes, assets.CustomSize) {
				fmt.Fprintf(w, "%s\t%s\t%dx%d\n", p.Name, p.Label, p.Width, p.Height)
			}
			fmt.Fprintf(w, "%s\tPreview display\tframebuffer x dpr\n", config.DevicePreset)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "PALETTE\tGRADIENT\tTEXT")
			for i, p := range assets.Palettes {
				fmt.Fprintf(w, "%d\t%s → %s\t%s\n", i, p.A, p.B, p.Text)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "FONT FAMILIES")
			for _, f := range assets.FontFamilies() {
				fmt.Fprintln(w, f)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "PROMPTS")
			for _, p := range assets.Prompts {
				fmt.Fprintln(w, p)
			}
			return w.Flush()
		},
	}
}
