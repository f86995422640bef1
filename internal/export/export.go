// Package export renders wallpapers at their exact target size and delivers
// the encoded file.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/rook-computer/wallmaker/internal/render"
)

// DefaultAppName prefixes exported file names.
const DefaultAppName = "self-kindness"

// ErrUnknownFormat is returned for an export format with no encoder.
var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists the supported export formats.
var Formats = []Format{PNG, BMP, TIFF}

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// Painter renders a frame; *render.Renderer satisfies it.
type Painter interface {
	Render(p render.Params, mode render.Mode, frame render.Size) (render.Result, error)
}

// Redrawer brings the preview back after an export took over the surface.
type Redrawer interface {
	RequestRedraw()
}

// File is an encoded export.
type File struct {
	Name string
	Data []byte
}

// Sink receives finished exports.
type Sink interface {
	Deliver(ctx context.Context, f File) (string, error)
}

// DirSink writes exports into a directory, creating it if needed.
type DirSink struct {
	Dir string
}

func (s DirSink) Deliver(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Encoder produces export files from render parameters.
type Encoder struct {
	Painter Painter
	// Redraw, when set, is asked for a preview redraw after every export,
	// successful or not.
	Redraw  Redrawer
	Sink    Sink
	AppName string
	Format  Format
	Logger  *slog.Logger
}

func NewEncoder(painter Painter, sink Sink) *Encoder {
	return &Encoder{
		Painter: painter,
		Sink:    sink,
		AppName: DefaultAppName,
		Format:  PNG,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// FileName is "<app>-<width>x<height>.<ext>".
func FileName(app string, size render.Size, format Format) string {
	if app == "" {
		app = DefaultAppName
	}
	return fmt.Sprintf("%s-%dx%d.%s", app, size.Width, size.Height, format.Ext())
}

// Render draws p at its target size and encodes it without delivering.
func (e *Encoder) Render(p render.Params) (File, error) {
	format := e.Format
	if format == "" {
		format = PNG
	}
	res, err := e.Painter.Render(p, render.ModeExport, render.Size{})
	if err != nil {
		return File{}, fmt.Errorf("render export: %w", err)
	}
	if res.Image == nil {
		return File{}, errors.New("render export: no image")
	}
	if sz := res.Image.Bounds().Size(); sz.X != p.Target.Width || sz.Y != p.Target.Height {
		return File{}, fmt.Errorf("render export: got %dx%d, want %s", sz.X, sz.Y, p.Target)
	}
	data, err := Encode(res.Image, format)
	if err != nil {
		return File{}, err
	}
	return File{Name: FileName(e.AppName, p.Target, format), Data: data}, nil
}

// Export renders, encodes and delivers p. It returns where the sink put the
// file.
func (e *Encoder) Export(ctx context.Context, p render.Params) (string, error) {
	if e.Redraw != nil {
		defer e.Redraw.RequestRedraw()
	}
	logger := e.logger()

	f, err := e.Render(p)
	if err != nil {
		logger.Error("export failed", "target", p.Target.String(), "err", err)
		return "", err
	}
	if e.Sink == nil {
		return "", errors.New("export has no sink")
	}
	where, err := e.Sink.Deliver(ctx, f)
	if err != nil {
		logger.Error("export delivery failed", "name", f.Name, "err", err)
		return "", err
	}
	logger.Info("exported", "name", f.Name, "bytes", len(f.Data), "to", where)
	return where, nil
}

func (e *Encoder) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// Encode serializes img in the given format.
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case PNG:
		err = png.Encode(&buf, img)
	case BMP:
		err = bmp.Encode(&buf, img)
	case TIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
