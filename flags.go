package main

import (
	"github.com/spf13/pflag"

	"github.com/rook-computer/wallmaker/internal/config"
)

// overlay registers flags that override settings only when given on the
// command line, so unset flags never clobber the TOML file or environment.
type overlay struct {
	fs    *pflag.FlagSet
	apply []func(*config.Settings)
}

func newOverlay(fs *pflag.FlagSet) *overlay { return &overlay{fs: fs} }

func (o *overlay) applyTo(s *config.Settings) {
	for _, fn := range o.apply {
		fn(s)
	}
}

// bind registers one flag through a pflag XxxVarP function and copies it
// into the field picked by dst when the flag was set.
func bind[T any](o *overlay, reg func(*T, string, string, T, string), name, short, usage string, def T, dst func(*config.Settings) *T) {
	v := new(T)
	reg(v, name, short, def, usage)
	o.apply = append(o.apply, func(s *config.Settings) {
		if o.fs.Changed(name) {
			*dst(s) = *v
		}
	})
}

func (o *overlay) String(name, short, usage string, dst func(*config.Settings) *string) {
	bind(o, o.fs.StringVarP, name, short, usage, *dst(ptrDefault()), dst)
}

func (o *overlay) Int(name, short, usage string, dst func(*config.Settings) *int) {
	bind(o, o.fs.IntVarP, name, short, usage, *dst(ptrDefault()), dst)
}

func (o *overlay) Uint64(name, short, usage string, dst func(*config.Settings) *uint64) {
	bind(o, o.fs.Uint64VarP, name, short, usage, *dst(ptrDefault()), dst)
}

func (o *overlay) Float(name, short, usage string, dst func(*config.Settings) *float64) {
	bind(o, o.fs.Float64VarP, name, short, usage, *dst(ptrDefault()), dst)
}

func (o *overlay) Bool(name, short, usage string, dst func(*config.Settings) *bool) {
	bind(o, o.fs.BoolVarP, name, short, usage, *dst(ptrDefault()), dst)
}

func (o *overlay) Strings(name, short, usage string, dst func(*config.Settings) *[]string) {
	bind(o, o.fs.StringSliceVarP, name, short, usage, *dst(ptrDefault()), dst)
}

// ptrDefault is a fresh copy of the defaults, used for help-text values.
func ptrDefault() *config.Settings {
	d := config.Default()
	return &d
}

// sessionFlags are shared by export and preview.
func sessionFlags(o *overlay) {
	o.String("message", "m", "Message to render", func(s *config.Settings) *string { return &s.Message })
	o.Bool("random-prompt", "r", "Start from a random built-in prompt", func(s *config.Settings) *bool { return &s.RandomPrompt })
	o.String("preset", "p", "Size preset (see `wallmaker presets`); \"device\" uses the preview display", func(s *config.Settings) *string { return &s.Preset })
	o.Int("width", "", "Export width in pixels; overrides --preset with --height", func(s *config.Settings) *int { return &s.Width })
	o.Int("height", "", "Export height in pixels; overrides --preset with --width", func(s *config.Settings) *int { return &s.Height })
	o.String("background", "b", "Background mode: gradient, solid or image", func(s *config.Settings) *string { return &s.Background })
	o.Int("palette", "", "Gradient palette index", func(s *config.Settings) *int { return &s.Palette })
	o.String("solid", "", "Solid background color (#rrggbb)", func(s *config.Settings) *string { return &s.Solid })
	o.Strings("image", "i", "Background image file (repeatable)", func(s *config.Settings) *[]string { return &s.Images })
	o.Float("overlay", "", "Dark overlay strength, 0 to 0.5", func(s *config.Settings) *float64 { return &s.Overlay })
	o.Float("grain", "", "Film grain strength, 0 to 0.12", func(s *config.Settings) *float64 { return &s.Grain })
	o.String("font", "", "Embedded font family", func(s *config.Settings) *string { return &s.FontFamily })
	o.Int("weight", "w", "Font weight, 100 to 900", func(s *config.Settings) *int { return &s.FontWeight })
	o.Float("size", "s", "Font size in export pixels", func(s *config.Settings) *float64 { return &s.FontSize })
	o.String("font-file", "", "TrueType font file; needed for Hangul text", func(s *config.Settings) *string { return &s.FontFile })
	o.String("text-color", "", "Text color (#rrggbb); defaults to the palette's", func(s *config.Settings) *string { return &s.TextColor })
	o.Bool("shadow", "", "Draw a soft shadow behind the text", func(s *config.Settings) *bool { return &s.Shadow })
	o.String("qr", "", "Encode this payload as a QR badge", func(s *config.Settings) *string { return &s.QRCode })
	o.String("out", "o", "Export directory", func(s *config.Settings) *string { return &s.OutDir })
	o.String("format", "f", "Export format: png, bmp or tiff", func(s *config.Settings) *string { return &s.Format })
	o.Uint64("seed", "", "Seed for grain and random choices; 0 picks one", func(s *config.Settings) *uint64 { return &s.Seed })
}
