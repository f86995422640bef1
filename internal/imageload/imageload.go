// Package imageload decodes user-supplied background images.
package imageload

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"runtime"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Loader decodes image files concurrently.
type Loader struct {
	Logger *slog.Logger
	// Limit caps concurrent decodes; zero means GOMAXPROCS.
	Limit int
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{Logger: logger}
}

// Load decodes every path and returns the images that decoded, in input
// order. Failures are logged and skipped.
func (l *Loader) Load(ctx context.Context, paths []string) []image.Image {
	decoded := make([]image.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	limit := l.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			img, err := DecodeFile(path)
			if err != nil {
				l.logger().Warn("background image skipped", "path", path, "err", err)
				return nil
			}
			decoded[i] = img
			return nil
		})
	}
	_ = g.Wait()

	out := make([]image.Image, 0, len(paths))
	for _, img := range decoded {
		if img != nil {
			out = append(out, img)
		}
	}
	return out
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// DecodeFile decodes one image file in any registered format.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode %s: empty %s image", path, format)
	}
	return img, nil
}
