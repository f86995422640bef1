// Package config layers wallpaper settings: built-in defaults, an optional
// TOML file, WALLMAKER_* environment variables, then command flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rook-computer/wallmaker/internal/assets"
	"github.com/rook-computer/wallmaker/internal/colormath"
	"github.com/rook-computer/wallmaker/internal/export"
	"github.com/rook-computer/wallmaker/internal/render"
	"github.com/rook-computer/wallmaker/internal/state"
)

// DefaultPath is read when present and no --config is given.
const DefaultPath = "wallmaker.toml"

// MaxDPR bounds the preview device pixel ratio.
const MaxDPR = 8

// ErrUnknownPreset is returned for a size preset that is not in the catalog.
var ErrUnknownPreset = errors.New("unknown size preset")

// ErrNoDevice is returned for DevicePreset when no display size is known.
var ErrNoDevice = errors.New("device size unknown")

// DevicePreset sizes the export to the preview display: its bounds times
// the preview DPR.
const DevicePreset = "device"

// Settings is everything a session or export can be configured with.
type Settings struct {
	Message      string `toml:"message"`
	RandomPrompt bool   `toml:"random_prompt"`

	// Preset names a catalog size; Width and Height, when both set, win.
	Preset string `toml:"preset"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	Background string   `toml:"background"`
	Palette    int      `toml:"palette"`
	Solid      string   `toml:"solid"`
	Images     []string `toml:"images"`
	Overlay    float64  `toml:"overlay"`
	Grain      float64  `toml:"grain"`

	FontFamily string  `toml:"font_family"`
	FontWeight int     `toml:"font_weight"`
	FontSize   float64 `toml:"font_size"`
	FontFile   string  `toml:"font_file"`
	// TextColor empty means the palette's text color.
	TextColor string `toml:"text_color"`
	Shadow    bool   `toml:"shadow"`
	QRCode    string `toml:"qr"`

	OutDir  string `toml:"out_dir"`
	Format  string `toml:"format"`
	AppName string `toml:"app_name"`
	// Seed fixes grain and random choices; zero picks one at startup.
	Seed uint64 `toml:"seed"`

	Preview Preview `toml:"preview"`

	// DeviceSize is the display's size in device pixels, filled in by the
	// preview once the framebuffer is open.
	DeviceSize render.Size `toml:"-"`
}

// Preview configures the framebuffer kiosk.
type Preview struct {
	Device string  `toml:"device"`
	DPR    float64 `toml:"dpr"`
	FPS    int     `toml:"fps"`
	// KeyboardDevice is an evdev path; empty scans /dev/input.
	KeyboardDevice string `toml:"keyboard_device"`
}

func Default() Settings {
	s := state.Default()
	return Settings{
		Message:    s.Message,
		Preset:     assets.PresetSizes[0].Name,
		Background: s.Mode.String(),
		Solid:      s.Solid.Hex(),
		Overlay:    s.Overlay,
		Grain:      s.Grain,
		FontFamily: s.Font.Family,
		FontWeight: s.Font.Weight,
		FontSize:   s.Font.SizePx,
		Shadow:     s.Shadow,
		OutDir:     ".",
		Format:     string(export.PNG),
		AppName:    export.DefaultAppName,
		Preview: Preview{
			Device: "/dev/fb0",
			DPR:    1,
			FPS:    60,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. A missing
// DefaultPath is not an error; any other missing path is.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return settings, nil
		}
		path = DefaultPath
	}
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvMessage  = "WALLMAKER_MESSAGE"
	EnvPreset   = "WALLMAKER_PRESET"
	EnvOutDir   = "WALLMAKER_OUT_DIR"
	EnvFormat   = "WALLMAKER_FORMAT"
	EnvFontFile = "WALLMAKER_FONT_FILE"
	EnvSeed     = "WALLMAKER_SEED"
	EnvDevice   = "WALLMAKER_FB_DEVICE"
	EnvDPR      = "WALLMAKER_DPR"
)

// ApplyEnv overlays WALLMAKER_* variables from lookup (os.LookupEnv in
// production).
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvMessage, &s.Message)
	str(EnvPreset, &s.Preset)
	str(EnvOutDir, &s.OutDir)
	str(EnvFormat, &s.Format)
	str(EnvFontFile, &s.FontFile)
	str(EnvDevice, &s.Preview.Device)

	if raw, ok := lookup(EnvSeed); ok && raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%s must be an unsigned integer (got %q): %w", EnvSeed, raw, err)
		}
		s.Seed = seed
	}
	if raw, ok := lookup(EnvDPR); ok && raw != "" {
		dpr, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number (got %q): %w", EnvDPR, raw, err)
		}
		s.Preview.DPR = dpr
	}
	return nil
}

// Target resolves the export size.
func (s Settings) Target() (render.Size, error) {
	if s.Width > 0 && s.Height > 0 {
		return render.Size{Width: s.Width, Height: s.Height}, nil
	}
	name := s.Preset
	if name == "" {
		name = assets.PresetSizes[0].Name
	}
	if strings.EqualFold(strings.TrimSpace(name), DevicePreset) {
		return s.deviceTarget()
	}
	preset, ok := assets.LookupPreset(name)
	if !ok {
		return render.Size{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return render.Size{Width: preset.Width, Height: preset.Height}, nil
}

func (s Settings) deviceTarget() (render.Size, error) {
	d := s.DeviceSize
	if d.Width <= 0 || d.Height <= 0 {
		return render.Size{}, fmt.Errorf("%w: preset %q needs a framebuffer", ErrNoDevice, DevicePreset)
	}
	dpr := s.Preview.DPR
	if math.IsNaN(dpr) || dpr <= 0 || dpr > MaxDPR {
		dpr = 1
	}
	return render.Size{
		Width:  int(math.Round(float64(d.Width) * dpr)),
		Height: int(math.Round(float64(d.Height) * dpr)),
	}, nil
}

// Validate checks everything State and the exporter would otherwise trip
// over.
func (s Settings) Validate() error {
	var errs []error
	target, err := s.Target()
	if err != nil {
		errs = append(errs, err)
	} else if err := (render.Params{Target: target}).Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := state.ParseBackgroundMode(s.Background); err != nil {
		errs = append(errs, err)
	}
	if _, err := export.ParseFormat(s.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := colormath.ParseHex(s.Solid); err != nil {
		errs = append(errs, fmt.Errorf("solid: %w", err))
	}
	if s.TextColor != "" {
		if _, err := colormath.ParseHex(s.TextColor); err != nil {
			errs = append(errs, fmt.Errorf("text_color: %w", err))
		}
	}
	if s.Palette < 0 || s.Palette >= len(assets.Palettes) {
		errs = append(errs, fmt.Errorf("palette must be in [0, %d], got %d", len(assets.Palettes)-1, s.Palette))
	}
	if dpr := s.Preview.DPR; math.IsNaN(dpr) || dpr <= 0 || dpr > MaxDPR {
		errs = append(errs, fmt.Errorf("preview dpr must be in (0, %g], got %g", float64(MaxDPR), dpr))
	}
	if s.FontFile == "" {
		if _, ok := assets.FontTTF(s.FontFamily, s.FontWeight); !ok {
			errs = append(errs, fmt.Errorf("unknown font family %q (have %s)", s.FontFamily,
				strings.Join(assets.FontFamilies(), ", ")))
		}
	}
	return errors.Join(errs...)
}

// State builds the session for these settings. Images are loaded by the
// caller and passed in.
func (s Settings) State() (state.State, error) {
	if err := s.Validate(); err != nil {
		return state.State{}, err
	}
	target, _ := s.Target()
	mode, _ := state.ParseBackgroundMode(s.Background)
	solid, _ := colormath.ParseHex(s.Solid)

	textColor := colormath.MustHex(assets.Palettes[s.Palette].Text)
	if s.TextColor != "" {
		textColor, _ = colormath.ParseHex(s.TextColor)
	}
	return state.State{
		Message: s.Message,
		Mode:    mode,
		Palette: s.Palette,
		Solid:   solid,
		Overlay: s.Overlay,
		Grain:   s.Grain,
		Font: render.FontSpec{
			Family: s.FontFamily,
			Weight: s.FontWeight,
			SizePx: s.FontSize,
			File:   s.FontFile,
		},
		TextColor: textColor,
		Shadow:    s.Shadow,
		QRCode:    s.QRCode,
		Target:    target,
	}, nil
}
