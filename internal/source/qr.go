package source

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

// QRSource is a single page holding a QR code rendered from text: opaque
// black modules on an opaque white background. It gives a reproducible input
// with many separate regions, handy for trying out target colours.
type QRSource struct {
	code *qrcode.QRCode
	size int
}

func NewQRSource(text string, size int) (*QRSource, error) {
	if text == "" {
		return nil, fmt.Errorf("пустой текст для QR-кода")
	}
	code, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	code.ForegroundColor = color.Black
	code.BackgroundColor = color.White
	return &QRSource{code: code, size: size}, nil
}

func (s *QRSource) PageCount() int {
	return 1
}

func (s *QRSource) PageSize(index int, dpi int) (image.Point, error) {
	if index != 0 {
		return image.Point{}, fmt.Errorf("страница %d вне диапазона", index)
	}
	// Image never goes below one pixel per module.
	n := max(s.size, len(s.code.Bitmap()))
	return image.Pt(n, n), nil
}

// RenderPage ignores dpi. A non-positive size renders one pixel per module.
func (s *QRSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("страница %d вне диапазона", index)
	}
	if s.size > 0 {
		return s.code.Image(s.size), nil
	}

	bitmap := s.code.Bitmap()
	img := image.NewNRGBA(image.Rect(0, 0, len(bitmap), len(bitmap)))
	for y, row := range bitmap {
		for x, dark := range row {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if dark {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func (s *QRSource) Close() error {
	return nil
}
