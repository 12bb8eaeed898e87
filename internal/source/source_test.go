package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, encode func(f *os.File, img image.Image) error) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	img.SetNRGBA(1, 2, color.NRGBA{R: 255, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
}

func encodePNG(f *os.File, img image.Image) error { return png.Encode(f, img) }
func encodeBMP(f *os.File, img image.Image) error { return bmp.Encode(f, img) }

func TestOpenImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	writeImage(t, path, encodePNG)

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, 1, src.PageCount())
	size, err := src.PageSize(0, 300)
	require.NoError(t, err)
	require.Equal(t, image.Pt(4, 3), size)

	img, err := src.RenderPage(0, 72)
	require.NoError(t, err)
	r, g, b, a := img.At(1, 2).RGBA()
	require.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestOpenImageDirectory(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "b.bmp"), encodeBMP)
	writeImage(t, filepath.Join(dir, "a.png"), encodePNG)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	src, err := Open(dir, Options{})
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, 2, src.PageCount())
	is := src.(*ImageSource)
	require.Equal(t, filepath.Join(dir, "a.png"), is.Path(0))
	require.Equal(t, filepath.Join(dir, "b.bmp"), is.Path(1))

	img, err := src.RenderPage(1, 0)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestOpenUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.png")},
		{"empty directory", t.TempDir()},
		{"missing pdf", filepath.Join(t.TempDir(), "missing.pdf")},
		{"empty qr", "qr:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.input, Options{})
			require.ErrorIs(t, err, ErrSourceUnavailable)
		})
	}
}

func TestQRSource(t *testing.T) {
	src, err := Open("qr:hello hotspots", Options{})
	require.NoError(t, err)
	defer src.Close()

	img, err := src.RenderPage(0, 0)
	require.NoError(t, err)

	b := img.Bounds()
	require.Equal(t, b.Dx(), b.Dy())
	require.Greater(t, b.Dx(), 21)

	// The quiet zone is white, the top-left finder pattern starts after it.
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.At(0, 0))
	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.At(x, y) == (color.NRGBA{A: 255}) {
				dark++
			}
		}
	}
	require.Positive(t, dark)

	_, err = src.RenderPage(1, 0)
	require.Error(t, err)
}

func TestQRSourceScaled(t *testing.T) {
	src, err := NewQRSource("hello hotspots", 128)
	require.NoError(t, err)

	size, err := src.PageSize(0, 72)
	require.NoError(t, err)
	require.Equal(t, image.Pt(128, 128), size)

	img, err := src.RenderPage(0, 72)
	require.NoError(t, err)
	require.Equal(t, size, img.Bounds().Size())
}

func TestQRSourceModuleSize(t *testing.T) {
	src, err := NewQRSource("hello hotspots", 0)
	require.NoError(t, err)

	size, err := src.PageSize(0, 72)
	require.NoError(t, err)
	img, err := src.RenderPage(0, 72)
	require.NoError(t, err)
	require.Equal(t, size, img.Bounds().Size())

	_, err = src.PageSize(1, 72)
	require.Error(t, err)
}

func TestPointsToPixels(t *testing.T) {
	require.Equal(t, 612, pointsToPixels(612, 72))
	require.Equal(t, 2550, pointsToPixels(612, 300))
	require.Equal(t, 1, pointsToPixels(1, 100))
}

func TestIsImage(t *testing.T) {
	require.True(t, IsImage("a.PNG"))
	require.True(t, IsImage("dir/b.webp"))
	require.False(t, IsImage("c.pdf"))
}
