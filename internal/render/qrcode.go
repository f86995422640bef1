package render

import (
	"image"
	"image/draw"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCodeImage returns a QR code image for the given payload.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx < MinQRSizePx {
		sizePx = MinQRSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	return qrCode.Image(sizePx), nil
}

// drawQRBadge draws the code bottom-center with its lower edge bottomY
// pixels from the top.
func drawQRBadge(dst *image.RGBA, payload string, sidePx, bottomY int) error {
	img, err := GenerateQRCodeImage(payload, sidePx)
	if err != nil || img == nil {
		return err
	}
	b := img.Bounds()
	x := (dst.Bounds().Dx() - b.Dx()) / 2
	rect := image.Rect(x, bottomY-b.Dy(), x+b.Dx(), bottomY)
	draw.Draw(dst, rect, img, b.Min, draw.Src)
	return nil
}
