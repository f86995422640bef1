package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/rook-computer/wallmaker/internal/colormath"
	"github.com/rook-computer/wallmaker/internal/render"
)

type countingRedraw struct{ n int }

func (c *countingRedraw) RequestRedraw() { c.n++ }

type memorySink struct {
	files []File
	err   error
}

func (s *memorySink) Deliver(_ context.Context, f File) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.files = append(s.files, f)
	return "mem://" + f.Name, nil
}

func newTestEncoder() (*Encoder, *memorySink, *countingRedraw) {
	r := render.NewRenderer(render.NewMemorySurface())
	r.Rand = rand.New(rand.NewPCG(3, 4))
	sink := &memorySink{}
	redraw := &countingRedraw{}
	enc := NewEncoder(r, sink)
	enc.Redraw = redraw
	return enc, sink, redraw
}

func solid(target render.Size) render.Params {
	return render.Params{
		Message:    "오늘도 충분히 잘하고 있어요.",
		Background: render.Solid{Color: colormath.MustHex("#111827")},
		Font:       render.FontSpec{Family: "sans", Weight: 800, SizePx: 84},
		TextColor:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Target:     target,
	}
}

func TestExportPNGExactSize(t *testing.T) {
	enc, sink, redraw := newTestEncoder()

	where, err := enc.Export(context.Background(), solid(render.Size{Width: 1179, Height: 2556}))
	require.NoError(t, err)
	assert.Equal(t, "mem://self-kindness-1179x2556.png", where)
	require.Len(t, sink.files, 1)
	assert.Equal(t, "self-kindness-1179x2556.png", sink.files[0].Name)
	assert.Equal(t, 1, redraw.n)

	img, err := png.Decode(bytes.NewReader(sink.files[0].Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1179, 2556), img.Bounds())
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0x11, 0x18, 0x27}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestExportAlternateFormats(t *testing.T) {
	target := render.Size{Width: 90, Height: 195}
	decoders := map[Format]func([]byte) (image.Image, error){
		BMP:  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
		TIFF: func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) },
	}
	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			enc, _, _ := newTestEncoder()
			enc.Format = format
			f, err := enc.Render(solid(target))
			require.NoError(t, err)
			assert.Equal(t, "self-kindness-90x195."+format.Ext(), f.Name)
			img, err := decode(f.Data)
			require.NoError(t, err)
			assert.Equal(t, target.Rect(), img.Bounds())
		})
	}
}

func TestExportRequestsRedrawOnFailure(t *testing.T) {
	enc, sink, redraw := newTestEncoder()

	_, err := enc.Export(context.Background(), solid(render.Size{Width: 0, Height: 100}))
	require.ErrorIs(t, err, render.ErrInvalidSize)
	assert.Equal(t, 1, redraw.n)
	assert.Empty(t, sink.files)

	sink.err = errors.New("disk full")
	_, err = enc.Export(context.Background(), solid(render.Size{Width: 10, Height: 20}))
	require.Error(t, err)
	assert.Equal(t, 2, redraw.n)
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(image.NewRGBA(image.Rect(0, 0, 1, 1)), Format("jpeg"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "PNG": PNG, ".bmp": BMP, "tif": TIFF, "tiff": TIFF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "self-kindness-1080x2400.png", FileName("", render.Size{Width: 1080, Height: 2400}, PNG))
	assert.Equal(t, "calm-1x2.tiff", FileName("calm", render.Size{Width: 1, Height: 2}, TIFF))
}

func TestDirSinkWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	where, err := DirSink{Dir: dir}.Deliver(context.Background(), File{Name: "a.png", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.png"), where)
	data, err := os.ReadFile(where)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestDirSinkHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirSink{Dir: t.TempDir()}.Deliver(ctx, File{Name: "a.png"})
	assert.ErrorIs(t, err, context.Canceled)
}
