package render

import (
	"image/color"

	"github.com/rook-computer/wallmaker/internal/colormath"
)

// Render constants shared by preview and export.
var (
	// FallbackBackground fills the surface when a photo background has no
	// decoded image yet.
	FallbackBackground = colormath.MustHex("#111827")

	// ShadowColor is the text shadow tint.
	ShadowColor = color.NRGBA{A: 0x40}
)

const (
	// MinPreviewWidth clamps the observed preview frame width.
	MinPreviewWidth = 320
	// PreviewAspect is the height:width ratio of the preview frame (9:19.5).
	PreviewAspect = 19.5 / 9

	defaultFrameWidth  = 360
	defaultFrameHeight = 720

	// MaxDimension bounds export sizes.
	MaxDimension = 16384

	DefaultFontSizePx = 84
	LineHeightRatio   = 1.8
	PaddingRatio      = 0.06
	MinFontSizePx     = 10
	MinPaddingPx      = 16
	ShadowRatio       = 0.06

	MaxOverlay      = 0.5
	MaxGrain        = 0.12
	PreviewGrainCap = 0.06
	ExportGrainCap  = 0.12
	grainStride     = 2
	grainTileSize   = 64

	QRSizeRatio = 0.18
	MinQRSizePx = 48

	gradientSteps = 1024
)
