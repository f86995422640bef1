package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
	"github.com/rook-computer/wallmaker/internal/colormath"
	"github.com/rook-computer/wallmaker/internal/render/layout"
	xdraw "golang.org/x/image/draw"
)

// Compositor paints the background layers of a frame: fill, overlay, grain.
type Compositor struct {
	// DPR is the buffer pixels per logical pixel for preview grain.
	DPR float64

	rng  *rand.Rand
	tile *grainTile
}

// NewCompositor returns a compositor drawing noise from rng. A nil rng is
// seeded randomly.
func NewCompositor(rng *rand.Rand) *Compositor {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Compositor{DPR: 1, rng: rng}
}

// Compose fills dst completely. Coordinates are dst pixels.
func (c *Compositor) Compose(dst *image.RGBA, bg Background, overlay, grain float64, mode Mode) {
	switch b := bg.(type) {
	case Gradient:
		fillGradient(dst, b.A, b.B)
	case Solid:
		fillSolid(dst, b.Color.RGBA())
	case Photo:
		if b.Image == nil || b.Image.Bounds().Empty() {
			fillSolid(dst, FallbackBackground.RGBA())
			break
		}
		drawCover(dst, b.Image, mode)
	default:
		fillSolid(dst, FallbackBackground.RGBA())
	}

	if overlay = clampRange(overlay, 0, MaxOverlay); overlay > 0 {
		shade := color.NRGBA{A: uint8(math.Round(overlay * 255))}
		draw.Draw(dst, dst.Bounds(), image.NewUniform(shade), image.Point{}, draw.Over)
	}

	grain = clampRange(grain, 0, MaxGrain)
	switch mode {
	case ModeExport:
		if amount := math.Min(grain, ExportGrainCap); amount > 0 {
			c.freshGrain(dst, amount)
		}
	default:
		if amount := math.Min(grain, PreviewGrainCap); amount > 0 {
			c.previewTile(amount, c.DPR).apply(dst)
		}
	}
}

func fillSolid(dst *image.RGBA, col color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// fillGradient draws the enhanced three-stop gradient along the diagonal
// from the top-left to the bottom-right corner.
func fillGradient(dst *image.RGBA, a, b colormath.RGB) {
	stops := colormath.EnhanceGradient(a, b)
	bounds := dst.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	brush := gg.NewLinearGradientBrush(0, 0, w, h).
		AddColorStop(0, stops[0].GG()).
		AddColorStop(0.5, stops[1].GG()).
		AddColorStop(1, stops[2].GG())

	lut := make([]color.RGBA, gradientSteps)
	for i := range lut {
		t := float64(i) / float64(gradientSteps-1)
		lut[i] = colormath.FromGG(brush.ColorAt(t*w, t*h)).RGBA()
	}

	lengthSq := w*w + h*h
	if lengthSq == 0 {
		return
	}
	last := float64(gradientSteps - 1)
	for y := 0; y < bounds.Dy(); y++ {
		row := dst.Pix[y*dst.Stride:]
		rowDot := (float64(y) + 0.5) * h
		for x := 0; x < bounds.Dx(); x++ {
			t := ((float64(x)+0.5)*w + rowDot) / lengthSq
			idx := int(clampRange(t, 0, 1)*last + 0.5)
			col := lut[idx]
			i := x * 4
			row[i+0] = col.R
			row[i+1] = col.G
			row[i+2] = col.B
			row[i+3] = 0xFF
		}
	}
}

// drawCover scales img so it covers dst and crops the overflow evenly.
// Export uses the slower Catmull-Rom kernel.
func drawCover(dst *image.RGBA, img image.Image, mode Mode) {
	fillSolid(dst, FallbackBackground.RGBA())
	src := img.Bounds()
	rect := layout.Cover(src.Size(), dst.Bounds().Size())

	var scaler xdraw.Scaler = xdraw.ApproxBiLinear
	if mode == ModeExport {
		scaler = xdraw.CatmullRom
	}
	scaler.Scale(dst, rect, img, src, xdraw.Over, nil)
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
