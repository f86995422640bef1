package layout

import "image"

// Inset shrinks rect by paddingPx on all sides. An axis narrower than twice
// the padding collapses to zero length at its center.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	rect = Normalize(rect)
	out := image.Rectangle{
		Min: image.Pt(rect.Min.X+paddingPx, rect.Min.Y+paddingPx),
		Max: image.Pt(rect.Max.X-paddingPx, rect.Max.Y-paddingPx),
	}
	if out.Min.X > out.Max.X {
		mid := (rect.Min.X + rect.Max.X) / 2
		out.Min.X, out.Max.X = mid, mid
	}
	if out.Min.Y > out.Max.Y {
		mid := (rect.Min.Y + rect.Max.Y) / 2
		out.Min.Y, out.Max.Y = mid, mid
	}
	return out
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Cover returns the destination rectangle that scales an image of size src
// to fully cover a dst-sized canvas while keeping its aspect ratio. The
// overflowing axis is centered, so the rectangle may start at negative
// coordinates.
func Cover(src, dst image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return image.Rectangle{Max: dst}
	}
	imgAspect := float64(src.X) / float64(src.Y)
	canvasAspect := float64(dst.X) / float64(dst.Y)

	width, height := float64(dst.X), float64(dst.Y)
	offX, offY := 0.0, 0.0
	if imgAspect > canvasAspect {
		width = height * imgAspect
		offX = -(width - float64(dst.X)) / 2
	} else {
		height = width / imgAspect
		offY = -(height - float64(dst.Y)) / 2
	}
	minX, minY := round(offX), round(offY)
	return image.Rect(minX, minY, minX+round(width), minY+round(height))
}

// Fit returns the largest rectangle with the aspect ratio of src that fits
// inside dst, centered.
func Fit(src, dst image.Rectangle) image.Rectangle {
	src, dst = Normalize(src), Normalize(dst)
	if src.Empty() || dst.Empty() {
		return image.Rectangle{Min: dst.Min, Max: dst.Min}
	}
	scale := float64(dst.Dx()) / float64(src.Dx())
	if s := float64(dst.Dy()) / float64(src.Dy()); s < scale {
		scale = s
	}
	width := round(float64(src.Dx()) * scale)
	height := round(float64(src.Dy()) * scale)
	x := dst.Min.X + (dst.Dx()-width)/2
	y := dst.Min.Y + (dst.Dy()-height)/2
	return image.Rect(x, y, x+width, y+height)
}

func round(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}
