package render

import (
	"image"
	"math"
)

// grainTile is a tileable noise mask reused across preview frames. It covers
// grainTileSize logical pixels, so on a dense display each noise dot spans
// dpr×dpr buffer pixels.
type grainTile struct {
	amount float64
	dpr    float64
	alpha  *image.Alpha
}

// previewTile returns the cached tile, generating it on first use or when
// the requested strength or pixel ratio changed.
func (c *Compositor) previewTile(amount, dpr float64) *grainTile {
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	if c.tile != nil && c.tile.amount == amount && c.tile.dpr == dpr {
		return c.tile
	}
	side := max(1, int(math.Round(grainTileSize*dpr)))
	alpha := image.NewAlpha(image.Rect(0, 0, side, side))
	for ly := 0; ly < grainTileSize; ly += grainStride {
		y0, y1 := scaledSpan(ly, dpr, side)
		for lx := 0; lx < grainTileSize; lx += grainStride {
			x0, x1 := scaledSpan(lx, dpr, side)
			a := c.grainAlpha(amount)
			for y := y0; y < y1; y++ {
				row := alpha.Pix[y*alpha.Stride:]
				for x := x0; x < x1; x++ {
					row[x] = a
				}
			}
		}
	}
	c.tile = &grainTile{amount: amount, dpr: dpr, alpha: alpha}
	return c.tile
}

// scaledSpan maps the logical pixel v to its buffer pixel range, at least
// one pixel wide.
func scaledSpan(v int, dpr float64, limit int) (int, int) {
	lo := min(limit-1, int(math.Round(float64(v)*dpr)))
	hi := min(limit, max(lo+1, int(math.Round(float64(v+1)*dpr))))
	return lo, hi
}

func (t *grainTile) apply(dst *image.RGBA) {
	bounds := dst.Bounds()
	side := t.alpha.Bounds().Dx()
	for y := 0; y < bounds.Dy(); y++ {
		tileRow := t.alpha.Pix[(y%side)*t.alpha.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			if a := tileRow[x%side]; a != 0 {
				blendWhite(dst, x, y, a)
			}
		}
	}
}

// freshGrain sprinkles new noise over the whole of dst.
func (c *Compositor) freshGrain(dst *image.RGBA, amount float64) {
	bounds := dst.Bounds()
	for y := 0; y < bounds.Dy(); y += grainStride {
		for x := 0; x < bounds.Dx(); x += grainStride {
			if a := c.grainAlpha(amount); a != 0 {
				blendWhite(dst, x, y, a)
			}
		}
	}
}

// grainAlpha draws an alpha in [0, amount) scaled to 0..255.
func (c *Compositor) grainAlpha(amount float64) uint8 {
	return uint8(math.Floor(c.rng.Float64() * amount * 255))
}

// blendWhite composites white at alpha a over the opaque pixel at (x, y).
func blendWhite(dst *image.RGBA, x, y int, a uint8) {
	i := y*dst.Stride + x*4
	px := dst.Pix[i : i+3 : i+3]
	for k, v := range px {
		px[k] = v + uint8((uint32(0xFF-v)*uint32(a)+127)/255)
	}
}
