package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rook-computer/wallmaker/internal/render/layout"
)

// Renderer draws full frames into an offscreen buffer and presents them to
// its Surface in one copy.
type Renderer struct {
	Surface Surface
	// DPR is the device pixel ratio applied to preview frames.
	DPR    float64
	Logger *slog.Logger
	// Rand feeds grain noise. Set it before the first Render for
	// reproducible output.
	Rand *rand.Rand

	mu         sync.Mutex
	buffer     *image.RGBA
	fonts      *FontCache
	compositor *Compositor
}

func NewRenderer(surface Surface) *Renderer {
	return &Renderer{Surface: surface, DPR: 1}
}

func (r *Renderer) lazyInit() {
	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
	if r.fonts == nil {
		r.fonts = NewFontCache(r.Logger)
	}
	if r.compositor == nil {
		r.compositor = NewCompositor(r.Rand)
	}
}

// Render draws one frame. Preview frames size themselves from the observed
// frame box and the DPR; export frames are exactly p.Target.
func (r *Renderer) Render(p Params, mode Mode, frame Size) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if r.Surface == nil {
		return Result{}, errors.New("renderer has no surface")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lazyInit()
	start := time.Now()

	display, dpr := resolveDisplay(p.Target, mode, frame, r.DPR)
	pixels, err := scalePixels(display, dpr)
	if err != nil {
		return Result{}, err
	}

	if r.Surface.DisplaySize() != display {
		r.Surface.SetDisplaySize(display)
	}
	// Reallocating the backing pixels clears the surface; skip identical sizes.
	if r.Surface.PixelSize() != pixels {
		r.Surface.ResizePixels(pixels)
		r.Logger.Debug("surface resized", "pixels", pixels.String(), "mode", mode.String())
	}
	buf := r.ensureBuffer(pixels)

	r.compositor.DPR = dpr
	r.compositor.Compose(buf, p.Background, p.Overlay, p.Grain, mode)

	scale := 1.0
	if mode == ModePreview {
		scale = float64(display.Width) / float64(p.Target.Width)
	}
	baseSize := p.Font.SizePx
	if baseSize <= 0 {
		baseSize = DefaultFontSizePx
	}
	fontSize := max(MinFontSizePx, roundInt(baseSize*scale))
	padding := max(MinPaddingPx, roundInt(float64(display.Width)*PaddingRatio))
	lineHeight := roundInt(float64(fontSize) * LineHeightRatio)
	textArea := layout.Inset(display.Rect(), padding)
	maxWidth := float64(textArea.Dx())

	face := r.fonts.Face(p.Font, float64(fontSize)*dpr)
	block := layout.Wrap(p.Message, maxWidth, float64(lineHeight), func(s string) float64 {
		return measure(face, s) / dpr
	})
	firstBaseline := (float64(display.Height)-block.Height)/2 + float64(lineHeight)/2

	shadow := 0
	if p.Shadow {
		shadow = max(1, roundInt(float64(fontSize)*ShadowRatio*dpr))
	}
	centerX := float64(pixels.Width) / 2
	for i, line := range block.Lines {
		y := (firstBaseline + float64(i*lineHeight)) * dpr
		drawCentered(buf, face, line, centerX, y, p.TextColor, shadow)
	}

	if p.QRCode != "" {
		side := roundInt(float64(max(MinQRSizePx, roundInt(float64(display.Width)*QRSizeRatio))) * dpr)
		bottom := pixels.Height - roundInt(float64(padding)*dpr)
		if err := drawQRBadge(buf, p.QRCode, side, bottom); err != nil {
			r.Logger.Warn("qr badge skipped", "err", err)
		}
	}

	if err := r.Surface.Present(buf); err != nil {
		return Result{}, err
	}

	res := Result{
		Mode:          mode,
		Display:       display,
		Pixels:        pixels,
		DPR:           dpr,
		FontSizePx:    fontSize,
		PaddingPx:     padding,
		LineHeightPx:  lineHeight,
		Lines:         block.Lines,
		BlockHeight:   block.Height,
		FirstBaseline: firstBaseline,
	}
	if mode == ModeExport {
		res.Image = cloneRGBA(buf)
	}
	r.Logger.Debug("frame rendered", "mode", mode.String(), "display", display.String(),
		"lines", len(block.Lines), "took", time.Since(start))
	return res, nil
}

// resolveDisplay returns the display size and effective DPR for a frame.
func resolveDisplay(target Size, mode Mode, frame Size, dpr float64) (Size, float64) {
	if mode == ModeExport {
		return target, 1
	}
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	fw, fh := frame.Width, frame.Height
	if fw <= 0 {
		fw = defaultFrameWidth
	}
	if fh <= 0 {
		fh = defaultFrameHeight
	}
	width := max(MinPreviewWidth, fw)
	height := max(roundInt(float64(width)*PreviewAspect), fh)
	return Size{Width: width, Height: height}, dpr
}

// scalePixels returns the backing size for display at dpr, rejecting sizes
// that cannot be allocated.
func scalePixels(display Size, dpr float64) (Size, error) {
	w := math.Round(float64(display.Width) * dpr)
	h := math.Round(float64(display.Height) * dpr)
	if !(w >= 1 && h >= 1 && w <= MaxDimension && h <= MaxDimension) {
		return Size{}, fmt.Errorf("%w: %s at dpr %g", ErrInvalidSize, display, dpr)
	}
	return Size{Width: int(w), Height: int(h)}, nil
}

func (r *Renderer) ensureBuffer(pixels Size) *image.RGBA {
	if r.buffer == nil || r.buffer.Bounds().Size() != image.Pt(pixels.Width, pixels.Height) {
		r.buffer = image.NewRGBA(pixels.Rect())
	}
	return r.buffer
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func roundInt(v float64) int { return int(math.Round(v)) }
