// Package render composites wallpaper frames: background, overlay, grain and
// centered text, either for the live preview or at the exact export size.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/rook-computer/wallmaker/internal/colormath"
)

// ErrInvalidSize is returned for non-positive or oversized target sizes.
var ErrInvalidSize = errors.New("invalid target size")

type Mode int

const (
	ModePreview Mode = iota
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeExport:
		return "export"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

func (s Size) Rect() image.Rectangle { return image.Rect(0, 0, s.Width, s.Height) }

// Background is one of Gradient, Solid or Photo.
type Background interface {
	isBackground()
}

// Gradient is a two-color gradient, enhanced to three stops when drawn.
type Gradient struct {
	A, B colormath.RGB
}

type Solid struct {
	Color colormath.RGB
}

// Photo is a cover-fitted image. A nil Image means the image is not
// available (yet) and the fallback fill is drawn instead.
type Photo struct {
	Image image.Image
}

func (Gradient) isBackground() {}
func (Solid) isBackground()    {}
func (Photo) isBackground()    {}

// FontSpec selects a font. File, when set, takes precedence over the
// embedded Family.
type FontSpec struct {
	Family string
	Weight int
	SizePx float64
	File   string
}

// Params is an immutable snapshot of everything a render reads.
type Params struct {
	Message    string
	Background Background
	Overlay    float64
	Grain      float64
	Font       FontSpec
	TextColor  color.RGBA
	Target     Size

	// Shadow draws a soft dark halo behind the text.
	Shadow bool
	// QRCode, when non-empty, is encoded as a badge near the bottom edge.
	QRCode string
}

// Validate rejects target sizes that cannot be allocated.
func (p Params) Validate() error {
	t := p.Target
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSize, t)
	}
	if t.Width > MaxDimension || t.Height > MaxDimension {
		return fmt.Errorf("%w: %s exceeds %d", ErrInvalidSize, t, MaxDimension)
	}
	return nil
}

// Surface is the visible raster target. Only Renderer writes to it, and only
// through Present.
type Surface interface {
	DisplaySize() Size
	SetDisplaySize(Size)
	PixelSize() Size
	// ResizePixels reallocates the backing buffer, which clears it.
	ResizePixels(Size)
	// Present copies a finished frame onto the surface in one operation.
	Present(frame *image.RGBA) error
}

// Result describes a finished render.
type Result struct {
	Mode          Mode
	Display       Size
	Pixels        Size
	DPR           float64
	FontSizePx    int
	PaddingPx     int
	LineHeightPx  int
	Lines         []string
	BlockHeight   float64
	FirstBaseline float64

	// Image is a private copy of the frame. It is only set for exports.
	Image *image.RGBA
}
