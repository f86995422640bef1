package render

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rook-computer/wallmaker/internal/colormath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) (*Renderer, *MemorySurface) {
	t.Helper()
	surface := NewMemorySurface()
	r := NewRenderer(surface)
	r.Rand = rand.New(rand.NewPCG(1, 2))
	return r, surface
}

func solidParams(hex string, target Size) Params {
	return Params{
		Background: Solid{Color: colormath.MustHex(hex)},
		Font:       FontSpec{Family: "sans", Weight: 800, SizePx: 84},
		TextColor:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Target:     target,
	}
}

func assertNear(t *testing.T, want colormath.RGB, got color.RGBA, tolerance int) {
	t.Helper()
	assert.InDelta(t, int(want.R), int(got.R), float64(tolerance), "red")
	assert.InDelta(t, int(want.G), int(got.G), float64(tolerance), "green")
	assert.InDelta(t, int(want.B), int(got.B), float64(tolerance), "blue")
}

func TestRenderRejectsInvalidTarget(t *testing.T) {
	r, surface := newTestRenderer(t)
	for _, target := range []Size{{0, 100}, {100, 0}, {-1, -1}, {MaxDimension + 1, 10}} {
		_, err := r.Render(solidParams("#000000", target), ModeExport, Size{})
		assert.ErrorIs(t, err, ErrInvalidSize, target.String())
	}
	resizes, presents := surface.Stats()
	assert.Zero(t, resizes)
	assert.Zero(t, presents)
}

func TestExportSolidExactSize(t *testing.T) {
	r, surface := newTestRenderer(t)
	p := solidParams("#111827", Size{1179, 2556})
	p.Message = "오늘도 충분히 잘하고 있어요."

	res, err := r.Render(p, ModeExport, Size{Width: 400, Height: 800})
	require.NoError(t, err)
	require.NotNil(t, res.Image)
	assert.Equal(t, image.Rect(0, 0, 1179, 2556), res.Image.Bounds())
	assert.Equal(t, Size{1179, 2556}, res.Pixels)
	assert.Equal(t, 1.0, res.DPR)
	assert.Equal(t, color.RGBA{0x11, 0x18, 0x27, 0xFF}, res.Image.RGBAAt(0, 0))
	assert.Equal(t, 84, res.FontSizePx)
	assert.Equal(t, 71, res.PaddingPx)
	assert.Equal(t, 151, res.LineHeightPx)

	visible := surface.Snapshot()
	require.NotNil(t, visible)
	assert.Equal(t, res.Image.Pix, visible.Pix)
}

func TestExportEmptyMessage(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := solidParams("#336699", Size{1080, 2340})

	res, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, res.Lines)
	assert.Equal(t, float64(res.LineHeightPx), res.BlockHeight)
	assert.Equal(t, 2340.0/2, res.FirstBaseline)
}

func TestExportGradientMidpoint(t *testing.T) {
	r, _ := newTestRenderer(t)
	a, b := colormath.MustHex("#FFE6E0"), colormath.MustHex("#FFD2A4")
	p := Params{Background: Gradient{A: a, B: b}, Target: Size{1080, 2340}}

	res, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)
	stops := colormath.EnhanceGradient(a, b)
	assertNear(t, stops[1], res.Image.RGBAAt(540, 1170), 2)
	assertNear(t, stops[0], res.Image.RGBAAt(0, 0), 2)
	assertNear(t, stops[2], res.Image.RGBAAt(1079, 2339), 2)
}

func TestPreviewSizing(t *testing.T) {
	tests := []struct {
		name    string
		frame   Size
		dpr     float64
		display Size
		pixels  Size
	}{
		{"clamps narrow frame", Size{300, 600}, 1, Size{320, 693}, Size{320, 693}},
		{"tall frame wins", Size{360, 900}, 1, Size{360, 900}, Size{360, 900}},
		{"default frame", Size{}, 1, Size{360, 780}, Size{360, 780}},
		{"dpr scales pixels", Size{400, 866}, 2, Size{400, 867}, Size{800, 1734}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, surface := newTestRenderer(t)
			r.DPR = tt.dpr
			res, err := r.Render(solidParams("#000000", Size{1179, 2556}), ModePreview, tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.display, res.Display)
			assert.Equal(t, tt.pixels, res.Pixels)
			assert.Equal(t, tt.display, surface.DisplaySize())
			assert.Equal(t, tt.pixels, surface.PixelSize())
			assert.Nil(t, res.Image)
		})
	}
}

func TestPreviewScalesText(t *testing.T) {
	r, _ := newTestRenderer(t)
	res, err := r.Render(solidParams("#000000", Size{1179, 2556}), ModePreview, Size{360, 780})
	require.NoError(t, err)
	assert.Equal(t, 26, res.FontSizePx)
	assert.Equal(t, 22, res.PaddingPx)
	assert.Equal(t, 47, res.LineHeightPx)

	p := solidParams("#000000", Size{8000, 2556})
	res, err = r.Render(p, ModePreview, Size{360, 780})
	require.NoError(t, err)
	assert.Equal(t, MinFontSizePx, res.FontSizePx)
	assert.Equal(t, MinPaddingPx+6, res.PaddingPx)
}

func TestRenderSkipsIdenticalResize(t *testing.T) {
	r, surface := newTestRenderer(t)
	p := solidParams("#000000", Size{1179, 2556})
	for i := 0; i < 3; i++ {
		_, err := r.Render(p, ModePreview, Size{360, 780})
		require.NoError(t, err)
	}
	resizes, presents := surface.Stats()
	assert.Equal(t, 1, resizes)
	assert.Equal(t, 3, presents)

	_, err := r.Render(p, ModePreview, Size{361, 780})
	require.NoError(t, err)
	resizes, _ = surface.Stats()
	assert.Equal(t, 2, resizes)
}

func TestRenderDrawsText(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := solidParams("#000000", Size{600, 400})
	p.Message = "HELLO"

	res, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)
	lit := 0
	b := res.Image.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if res.Image.RGBAAt(x, y).R > 200 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 100)
	assert.Equal(t, color.RGBA{A: 0xFF}, res.Image.RGBAAt(0, 0))
}

func TestRenderShadowDarkensAroundText(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := solidParams("#808080", Size{600, 400})
	p.Message = "HELLO"
	p.TextColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}

	plain, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)
	p.Shadow = true
	shadowed, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)

	darker := 0
	for i := 0; i < len(plain.Image.Pix); i += 4 {
		if shadowed.Image.Pix[i] < plain.Image.Pix[i] {
			darker++
		}
	}
	assert.Greater(t, darker, 0)
}

func TestRenderQRBadge(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := solidParams("#808080", Size{500, 1000})
	p.QRCode = "https://example.com/wallpaper"

	res, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)
	side := 90
	bottom := 1000 - res.PaddingPx
	region := image.Rect(250-side/2, bottom-side, 250+side/2, bottom)
	black := 0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if res.Image.RGBAAt(x, y) == (color.RGBA{A: 0xFF}) {
				black++
			}
		}
	}
	assert.Greater(t, black, 0)
	assert.Equal(t, color.RGBA{0x80, 0x80, 0x80, 0xFF}, res.Image.RGBAAt(0, 0))
}

func TestUnknownFontFallsBack(t *testing.T) {
	r, _ := newTestRenderer(t)
	p := solidParams("#000000", Size{400, 400})
	p.Message = "fallback"
	p.Font = FontSpec{Family: "nope", File: "/does/not/exist.ttf", SizePx: 40}
	_, err := r.Render(p, ModeExport, Size{})
	require.NoError(t, err)
}

func TestPreviewRejectsUnallocatableDPR(t *testing.T) {
	for _, dpr := range []float64{0.001, math.Inf(1), 100} {
		r, surface := newTestRenderer(t)
		r.DPR = dpr
		_, err := r.Render(solidParams("#000000", Size{1179, 2556}), ModePreview, Size{Width: 360, Height: 780})
		assert.ErrorIs(t, err, ErrInvalidSize, "dpr %g", dpr)
		resizes, presents := surface.Stats()
		assert.Zero(t, resizes)
		assert.Zero(t, presents)
	}
}
