package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/wallmaker/internal/render/layout"
	xdraw "golang.org/x/image/draw"
)

// FramebufferSurface shows frames on a Linux framebuffer device. Frames are
// letterboxed onto the device, which rarely has a phone aspect ratio.
type FramebufferSurface struct {
	Path   string
	Logger *slog.Logger

	mu      sync.Mutex
	dev     *fb.Device
	staging *image.RGBA
	display Size
	pixels  Size
}

func NewFramebufferSurface(path string) *FramebufferSurface {
	if path == "" {
		path = "/dev/fb0"
	}
	return &FramebufferSurface{Path: path}
}

func (s *FramebufferSurface) Open() error {
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}
	dev, err := fb.Open(s.Path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.dev = dev
	s.mu.Unlock()
	bounds := dev.Bounds()
	s.Logger.Info("framebuffer open", "path", s.Path, "bounds", Size{bounds.Dx(), bounds.Dy()}.String())
	return nil
}

func (s *FramebufferSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev != nil {
		s.dev.Close()
		s.dev = nil
	}
	return nil
}

// DeviceSize is the framebuffer's full resolution.
func (s *FramebufferSurface) DeviceSize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return Size{}
	}
	b := s.dev.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// FrameSize is the largest 9:19.5 box that fits on the device. It plays the
// role of the observed preview frame.
func (s *FramebufferSurface) FrameSize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return Size{}
	}
	phone := image.Rect(0, 0, 900, 1950)
	box := layout.Fit(phone, s.dev.Bounds())
	return Size{Width: box.Dx(), Height: box.Dy()}
}

func (s *FramebufferSurface) DisplaySize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

func (s *FramebufferSurface) SetDisplaySize(size Size) {
	s.mu.Lock()
	s.display = size
	s.mu.Unlock()
}

func (s *FramebufferSurface) PixelSize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pixels
}

func (s *FramebufferSurface) ResizePixels(size Size) {
	s.mu.Lock()
	s.pixels = size
	s.mu.Unlock()
}

// Present scales the frame into a device-sized staging image, then writes
// the whole device in a single pass.
func (s *FramebufferSurface) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return errors.New("framebuffer not open")
	}
	bounds := s.dev.Bounds()
	if s.staging == nil || s.staging.Bounds() != bounds {
		s.staging = image.NewRGBA(bounds)
	}
	draw.Draw(s.staging, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)
	dst := layout.Fit(frame.Bounds(), bounds)
	xdraw.ApproxBiLinear.Scale(s.staging, dst, frame, frame.Bounds(), xdraw.Src, nil)
	blitToFB(s.dev, s.staging)
	return nil
}

func blitToFB(dev *fb.Device, staging *image.RGBA) {
	bounds := dev.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixel := staging.RGBAAt(x, y)
			dev.Set(x, y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
