package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/wallmaker/internal/assets"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontCache parses fonts once and keeps one face per (font, pixel size).
type FontCache struct {
	Logger *slog.Logger

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	font string
	size float64
}

func NewFontCache(logger *slog.Logger) *FontCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FontCache{
		Logger: logger,
		fonts:  map[string]*truetype.Font{},
		faces:  map[faceKey]font.Face{},
	}
}

// Face returns a face for spec at sizePx pixels. Fonts that fail to load
// fall back to the embedded default family, then to basicfont.
func (c *FontCache) Face(spec FontSpec, sizePx float64) font.Face {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, ttf := c.resolve(spec)
	fk := faceKey{font: key, size: sizePx}
	if face, ok := c.faces[fk]; ok {
		return face
	}

	parsed, err := c.parse(key, ttf)
	if err != nil {
		c.Logger.Error("font parse failed, using basicfont", "font", key, "err", err)
		face := font.Face(basicfont.Face7x13)
		c.faces[fk] = face
		return face
	}
	// DPI 72 makes one point equal one pixel.
	face := truetype.NewFace(parsed, &truetype.Options{Size: sizePx, DPI: 72, Hinting: font.HintingFull})
	c.faces[fk] = face
	return face
}

func (c *FontCache) resolve(spec FontSpec) (string, []byte) {
	if spec.File != "" {
		if _, ok := c.fonts["file:"+spec.File]; ok {
			return "file:" + spec.File, nil
		}
		data, err := os.ReadFile(spec.File)
		if err == nil {
			return "file:" + spec.File, data
		}
		c.Logger.Warn("could not load font file, using embedded font", "file", spec.File, "err", err)
	}
	ttf, ok := assets.FontTTF(spec.Family, spec.Weight)
	family := spec.Family
	if !ok {
		if family != "" {
			c.Logger.Warn("unknown font family, using default", "family", family)
		}
		family = assets.DefaultFamily
	}
	return fmt.Sprintf("embedded:%s:%d", family, weightClass(spec.Weight)), ttf
}

func (c *FontCache) parse(key string, ttf []byte) (*truetype.Font, error) {
	if f, ok := c.fonts[key]; ok {
		return f, nil
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	c.fonts[key] = f
	return f, nil
}

func weightClass(weight int) int {
	switch {
	case weight >= 650:
		return 700
	case weight >= 500:
		return 500
	default:
		return 400
	}
}

// measure returns the advance width of s in pixels.
func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// drawCentered draws s with its advance centered on centerX and its
// alphabetic baseline at baselineY.
func drawCentered(dst *image.RGBA, face font.Face, s string, centerX, baselineY float64, col color.Color, shadowSpread int) {
	if s == "" {
		return
	}
	x := centerX - measure(face, s)/2
	if shadowSpread > 0 {
		shadow := image.NewUniform(ShadowColor)
		for _, off := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			drawAt(dst, face, s, x+float64(off[0]*shadowSpread), baselineY+float64(off[1]*shadowSpread), shadow)
		}
	}
	drawAt(dst, face, s, x, baselineY, image.NewUniform(col))
}

func drawAt(dst *image.RGBA, face font.Face, s string, x, y float64, src image.Image) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
	}
	drawer.DrawString(s)
}
