package render

import (
	"image"
	"image/draw"
	"sync"
)

// MemorySurface is an in-process Surface. It backs exports run without a
// display and is what tests observe.
type MemorySurface struct {
	mu       sync.Mutex
	display  Size
	pixels   Size
	img      *image.RGBA
	resizes  int
	presents int
}

func NewMemorySurface() *MemorySurface { return &MemorySurface{} }

func (s *MemorySurface) DisplaySize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

func (s *MemorySurface) SetDisplaySize(size Size) {
	s.mu.Lock()
	s.display = size
	s.mu.Unlock()
}

func (s *MemorySurface) PixelSize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pixels
}

func (s *MemorySurface) ResizePixels(size Size) {
	s.mu.Lock()
	s.pixels = size
	s.img = image.NewRGBA(size.Rect())
	s.resizes++
	s.mu.Unlock()
}

func (s *MemorySurface) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil || s.img.Bounds() != frame.Bounds() {
		s.img = image.NewRGBA(frame.Bounds())
	}
	draw.Draw(s.img, s.img.Bounds(), frame, frame.Bounds().Min, draw.Src)
	s.presents++
	return nil
}

// Snapshot returns a copy of the visible pixels, or nil before the first
// Present.
func (s *MemorySurface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil
	}
	return cloneRGBA(s.img)
}

// Stats reports how many backing reallocations and presents happened.
func (s *MemorySurface) Stats() (resizes, presents int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizes, s.presents
}
